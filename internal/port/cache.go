package port

import (
	"context"
	"time"

	"github.com/imgpipe/images-ms-go/internal/uuid"
)

// Cache provides caching capabilities for artifact retrieval.
type Cache interface {
	GetArtifactDetails(ctx context.Context, id uuid.UUID) ([]byte, error)
	GetEtagArtifactDetails(ctx context.Context, id uuid.UUID) (string, error)
	SetArtifactDetails(ctx context.Context, id uuid.UUID, data []byte, validUntil time.Time)
	SetEtagArtifactDetails(ctx context.Context, id uuid.UUID, etag string, validUntil time.Time)
	DeleteArtifactDetails(ctx context.Context, id uuid.UUID) error
	DeleteEtagArtifactDetails(ctx context.Context, id uuid.UUID) error
}
