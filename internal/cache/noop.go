package cache

import (
	"context"
	"time"

	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/uuid"
)

type NoopCache struct{}

// compile-time check: *NoopCache must satisfy port.Cache
var _ port.Cache = (*NoopCache)(nil)

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) GetArtifactDetails(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return nil, nil // always cache miss
}

func (n *NoopCache) GetEtagArtifactDetails(ctx context.Context, id uuid.UUID) (string, error) {
	return "", nil
}

func (n *NoopCache) SetArtifactDetails(ctx context.Context, id uuid.UUID, data []byte, validUntil time.Time) {
}

func (n *NoopCache) SetEtagArtifactDetails(ctx context.Context, id uuid.UUID, etag string, validUntil time.Time) {
}

func (n *NoopCache) DeleteArtifactDetails(ctx context.Context, id uuid.UUID) error { return nil }

func (n *NoopCache) DeleteEtagArtifactDetails(ctx context.Context, id uuid.UUID) error {
	return nil
}
