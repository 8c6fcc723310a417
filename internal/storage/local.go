package storage

import (
	"context"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/imgpipe/images-ms-go/internal/model"
	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/usecase/pipeline"
	"github.com/imgpipe/images-ms-go/internal/uuid"
)

// publicPrefix is the URL-facing directory name; persisted storage paths are
// relative to the data root, so the scheme must not change without migrating
// them.
const publicPrefix = "uploads"

const stagingPrefix = "staging"

// LocalStore keeps staged files under <root>/staging and published files
// under <root>/uploads. Both live on the same filesystem so that publish is a
// single atomic rename: a public path never resolves to a half-written file.
type LocalStore struct {
	root       string
	stagingDir string
	publicDir  string
}

// compile-time check: *LocalStore must satisfy port.Storage
var _ port.Storage = (*LocalStore)(nil)

func NewLocalStore(root string) (*LocalStore, error) {
	log.Printf("initialising local store at %q...", root)

	s := &LocalStore{
		root:       root,
		stagingDir: filepath.Join(root, stagingPrefix),
		publicDir:  filepath.Join(root, publicPrefix),
	}
	for _, dir := range []string{s.stagingDir, s.publicDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, mapFsErr("creating store directories", err)
		}
	}
	return s, nil
}

// StagingDir is where the transcoder writes its intermediate outputs.
func (s *LocalStore) StagingDir() string { return s.stagingDir }

// PublicDir is the root to serve under /uploads/.
func (s *LocalStore) PublicDir() string { return s.publicDir }

// Stage copies the reader into a private staged file. On any copy failure the
// partial file is deleted before the error is returned, so rejected or broken
// uploads leave nothing on disk.
func (s *LocalStore) Stage(ctx context.Context, r io.Reader) (string, error) {
	f, err := os.CreateTemp(s.stagingDir, "upload_*")
	if err != nil {
		return "", mapFsErr("creating staged file", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		if rmErr := os.Remove(f.Name()); rmErr != nil {
			log.Printf("failed to remove partial staged file %q: %v", f.Name(), rmErr)
		}
		return "", mapFsErr("staging upload", err)
	}
	if err := f.Close(); err != nil {
		if rmErr := os.Remove(f.Name()); rmErr != nil {
			log.Printf("failed to remove staged file %q: %v", f.Name(), rmErr)
		}
		return "", mapFsErr("closing staged file", err)
	}

	return f.Name(), nil
}

// Publish atomically renames a fully written staged file to its public name
// <id><ext>. Either the rename succeeds and the descriptor is returned, or
// nothing is visible at the destination.
func (s *LocalStore) Publish(ctx context.Context, stagedPath string, id uuid.UUID, kind model.ArtifactKind, mimeType string) (*model.Artifact, error) {
	log.Printf("publishing staged file %q as artifact #%s...", stagedPath, id)

	ext, err := pipeline.MimeTypeToExtension(mimeType)
	if err != nil {
		return nil, &pipeline.StorageError{Op: "resolving extension", Err: err}
	}

	info, err := os.Stat(stagedPath)
	if err != nil {
		return nil, mapFsErr("reading staged file", err)
	}

	filename := id.String() + ext
	if err := os.Rename(stagedPath, filepath.Join(s.publicDir, filename)); err != nil {
		return nil, mapFsErr("publishing artifact", err)
	}

	return &model.Artifact{
		ID:          id,
		Kind:        kind,
		StoragePath: path.Join(publicPrefix, filename),
		MimeType:    mimeType,
		SizeBytes:   info.Size(),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Discard is a best-effort delete of a staged file. A failure does not affect
// the correctness of already-published artifacts, so it is logged and never
// escalated.
func (s *LocalStore) Discard(ctx context.Context, stagedPath string) {
	if err := os.Remove(stagedPath); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to discard staged file %q: %v", stagedPath, err)
	}
}

// Remove deletes every published file belonging to the identifier. Removing
// an id that has no files is not an error.
func (s *LocalStore) Remove(ctx context.Context, id uuid.UUID) error {
	log.Printf("removing artifact #%s...", id)

	matches, err := filepath.Glob(filepath.Join(s.publicDir, id.String()+".*"))
	if err != nil {
		return &pipeline.StorageError{Op: "locating artifact files", Err: err}
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return mapFsErr("removing artifact file", err)
		}
	}
	return nil
}

// GetPublished opens a published file by the storage path recorded in its
// descriptor.
func (s *LocalStore) GetPublished(ctx context.Context, storagePath string) (io.ReadSeekCloser, error) {
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(storagePath)))
	if err != nil {
		return nil, mapFsErr("opening published file", err)
	}
	return f, nil
}

// ListStaged returns staged files last modified before the cutoff.
func (s *LocalStore) ListStaged(ctx context.Context, before time.Time) ([]string, error) {
	entries, err := os.ReadDir(s.stagingDir)
	if err != nil {
		return nil, mapFsErr("listing staging", err)
	}

	var stale []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(before) {
			stale = append(stale, filepath.Join(s.stagingDir, e.Name()))
		}
	}
	return stale, nil
}
