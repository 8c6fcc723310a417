package port

import (
	"context"

	"github.com/imgpipe/images-ms-go/internal/uuid"
)

// HTTPRenderer mediates between HTTP handlers and the artifact getter use
// case. It provides caching capabilities and returns both the JSON
// representation of the result as well as an ETag value derived from it.
type HTTPRenderer interface {
	// RenderGetArtifact returns the cached JSON result and its ETag if
	// available or executes the underlying use case and caches the output
	// otherwise.
	RenderGetArtifact(ctx context.Context, getter ArtifactGetter, id uuid.UUID) ([]byte, string, error)
}
