package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/uuid"
)

// artifactDetailsTTL bounds how long a rendered descriptor may be served from
// cache.
const artifactDetailsTTL = 5 * time.Minute

type artifactGetterSrv struct {
	repo port.ArtifactRepository
}

// compile-time check: *artifactGetterSrv must satisfy port.ArtifactGetter
var _ port.ArtifactGetter = (*artifactGetterSrv)(nil)

// NewArtifactGetter constructs an ArtifactGetter implementation.
func NewArtifactGetter(repo port.ArtifactRepository) port.ArtifactGetter {
	return &artifactGetterSrv{repo: repo}
}

// GetArtifact returns the descriptor and its stable serving URL. The URL is
// derived from the storage path persisted at publish time; the store alone
// owns the id→path mapping.
func (s *artifactGetterSrv) GetArtifact(ctx context.Context, id uuid.UUID) (*port.GetArtifactOutput, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtifactNotFound
		}
		return nil, err
	}

	return &port.GetArtifactOutput{
		ValidUntil: time.Now().Add(artifactDetailsTTL),
		URL:        "/" + a.StoragePath,
		Artifact:   *a,
	}, nil
}
