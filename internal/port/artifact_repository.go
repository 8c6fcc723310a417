package port

import (
	"context"

	"github.com/imgpipe/images-ms-go/internal/model"
	"github.com/imgpipe/images-ms-go/internal/uuid"
)

// ArtifactRepository defines persistence operations for artifact descriptors.
// The pipeline itself never writes rows; handlers persist what it returns.
type ArtifactRepository interface {
	Create(ctx context.Context, artifact *model.Artifact) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Artifact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
