package pipeline

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"

	"golang.org/x/net/context"

	"github.com/imgpipe/images-ms-go/internal/model"
	"github.com/imgpipe/images-ms-go/internal/port"
)

type thumbnailRebuilderSrv struct {
	repo      port.ArtifactRepository
	strg      port.Storage
	trans     port.Transcoder
	cache     port.Cache
	genID     port.UUIDGen
	thumbSize int
}

// compile-time check: *thumbnailRebuilderSrv must satisfy port.ThumbnailRebuilder
var _ port.ThumbnailRebuilder = (*thumbnailRebuilderSrv)(nil)

// NewThumbnailRebuilder constructs a ThumbnailRebuilder implementation.
func NewThumbnailRebuilder(repo port.ArtifactRepository, strg port.Storage, trans port.Transcoder, cache port.Cache, genID port.UUIDGen, thumbSize int) port.ThumbnailRebuilder {
	return &thumbnailRebuilderSrv{repo, strg, trans, cache, genID, thumbSize}
}

// RebuildThumbnail regenerates the thumbnail of a published original under a
// fresh identifier, then invalidates the previous one. Descriptors are never
// mutated in place.
func (s *thumbnailRebuilderSrv) RebuildThumbnail(ctx context.Context, in port.RebuildThumbnailInput) error {
	orig, err := s.repo.GetByID(ctx, in.OriginalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrArtifactNotFound
		}
		return err
	}
	if orig.Kind != model.ArtifactKindOriginal {
		return fmt.Errorf("artifact #%s is not an original", orig.ID)
	}

	src, err := s.strg.GetPublished(ctx, orig.StoragePath)
	if err != nil {
		return err
	}
	defer func(src io.ReadSeekCloser) { _ = src.Close() }(src)

	stagedPath, err := s.strg.Stage(ctx, src)
	if err != nil {
		return err
	}
	defer s.strg.Discard(ctx, stagedPath)

	thumbPath, err := s.trans.Thumbnail(ctx, stagedPath, s.thumbSize, MimeTypeToFormat(orig.MimeType))
	if err != nil {
		return err
	}

	thumb, err := s.strg.Publish(ctx, thumbPath, s.genID(), model.ArtifactKindThumbnail, orig.MimeType)
	if err != nil {
		s.strg.Discard(ctx, thumbPath)
		return err
	}

	if err := s.repo.Create(ctx, thumb); err != nil {
		if rmErr := s.strg.Remove(ctx, thumb.ID); rmErr != nil {
			log.Printf("rollback failed for rebuilt thumbnail #%s: %v", thumb.ID, rmErr)
		}
		return fmt.Errorf("failed creating rebuilt thumbnail record: %w", err)
	}

	// Invalidate the replaced thumbnail last, so at no point is the original
	// left without a servable thumbnail.
	if err := s.strg.Remove(ctx, in.ThumbnailID); err != nil {
		log.Printf("failed removing old thumbnail file #%s: %v", in.ThumbnailID, err)
	}
	if err := s.repo.Delete(ctx, in.ThumbnailID); err != nil {
		log.Printf("failed deleting old thumbnail record #%s: %v", in.ThumbnailID, err)
	}
	if err := s.cache.DeleteArtifactDetails(ctx, in.ThumbnailID); err != nil {
		log.Printf("failed deleting cache for artifact #%s: %v", in.ThumbnailID, err)
	}
	if err := s.cache.DeleteEtagArtifactDetails(ctx, in.ThumbnailID); err != nil {
		log.Printf("failed deleting etag cache for artifact #%s: %v", in.ThumbnailID, err)
	}

	return nil
}
