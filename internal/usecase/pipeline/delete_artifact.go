package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/uuid"
)

type artifactDeleterSrv struct {
	repo  port.ArtifactRepository
	cache port.Cache
	strg  port.Storage
}

// compile-time check: *artifactDeleterSrv must satisfy port.ArtifactDeleter
var _ port.ArtifactDeleter = (*artifactDeleterSrv)(nil)

// NewArtifactDeleter constructs an ArtifactDeleter implementation.
func NewArtifactDeleter(repo port.ArtifactRepository, cache port.Cache, strg port.Storage) port.ArtifactDeleter {
	return &artifactDeleterSrv{repo: repo, cache: cache, strg: strg}
}

// DeleteArtifact removes the published file, deletes the record and clears
// cache entries. File removal is idempotent: a file already gone is not an
// error.
func (s *artifactDeleterSrv) DeleteArtifact(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrArtifactNotFound
		}
		return err
	}

	if err := s.strg.Remove(ctx, a.ID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, a.ID); err != nil {
		return err
	}

	if err := s.cache.DeleteArtifactDetails(ctx, a.ID); err != nil {
		log.Printf("failed deleting cache for artifact #%s: %v", a.ID, err)
	}
	if err := s.cache.DeleteEtagArtifactDetails(ctx, a.ID); err != nil {
		log.Printf("failed deleting etag cache for artifact #%s: %v", a.ID, err)
	}

	return nil
}
