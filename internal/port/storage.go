package port

import (
	"context"
	"io"
	"time"

	"github.com/imgpipe/images-ms-go/internal/model"
	"github.com/imgpipe/images-ms-go/internal/uuid"
)

// Storage manages the on-disk lifecycle of staged and published files.
// Staged paths are never reachable by any public-serving route; publishing is
// a single atomic rename, so no publicly addressable path ever resolves to a
// file that is still being written.
type Storage interface {
	// Stage writes the reader to a private staging location and returns its path.
	Stage(ctx context.Context, r io.Reader) (string, error)
	// Publish atomically moves a staged file under the given identifier and
	// returns the descriptor for it. On error nothing is visible at the
	// destination.
	Publish(ctx context.Context, stagedPath string, id uuid.UUID, kind model.ArtifactKind, mimeType string) (*model.Artifact, error)
	// Discard is a best-effort delete of a staged file; failures are logged,
	// never escalated.
	Discard(ctx context.Context, stagedPath string)
	// Remove deletes a published artifact. Removing an unknown id is not an error.
	Remove(ctx context.Context, id uuid.UUID) error
	// GetPublished opens a published file by its storage path.
	GetPublished(ctx context.Context, storagePath string) (io.ReadSeekCloser, error)
	// ListStaged returns staged files last modified before the cutoff.
	ListStaged(ctx context.Context, before time.Time) ([]string, error)
	// PublicDir is the root served under /uploads/.
	PublicDir() string
}
