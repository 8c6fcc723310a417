package mariadb

import (
	"context"
	"database/sql"
	"log"

	"github.com/imgpipe/images-ms-go/internal/model"
	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/uuid"
)

type ArtifactRepository struct {
	db *sql.DB
}

// compile-time check: *ArtifactRepository must satisfy port.ArtifactRepository
var _ port.ArtifactRepository = (*ArtifactRepository)(nil)

func NewArtifactRepository(db *sql.DB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

func (r *ArtifactRepository) Create(ctx context.Context, artifact *model.Artifact) error {
	log.Printf("creating database record for artifact #%s, of kind %q...", artifact.ID, artifact.Kind)

	const query = `
      INSERT INTO artifacts
        (id, kind, storage_path, mime_type, size_bytes, created_at)
      VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		artifact.ID, artifact.Kind, artifact.StoragePath,
		artifact.MimeType, artifact.SizeBytes, artifact.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

func (r *ArtifactRepository) GetByID(ctx context.Context, ID uuid.UUID) (*model.Artifact, error) {
	log.Printf("fetching artifact #%s from the database...", ID)

	const query = `
      SELECT id, kind, storage_path, mime_type, size_bytes, created_at
      FROM artifacts
      WHERE id = ?
    `
	row := r.db.QueryRowContext(ctx, query, ID)
	var artifact model.Artifact
	if err := row.Scan(
		&artifact.ID, &artifact.Kind, &artifact.StoragePath,
		&artifact.MimeType, &artifact.SizeBytes, &artifact.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &artifact, nil
}

func (r *ArtifactRepository) Delete(ctx context.Context, ID uuid.UUID) error {
	log.Printf("deleting database record for artifact #%s...", ID)

	const query = `DELETE FROM artifacts WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, ID); err != nil {
		return err
	}

	return nil
}
