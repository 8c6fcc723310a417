package port

import (
	"context"
	"io"
	"time"

	"github.com/imgpipe/images-ms-go/internal/model"
	"github.com/imgpipe/images-ms-go/internal/uuid"
)

// UUIDGen allocates identifiers for stored artifacts. Identifiers are drawn
// from a 128-bit random space, never from client input.
type UUIDGen func() uuid.UUID

// UploadProcessor runs one upload through validate, stage, transform and
// publish, and returns the descriptor set.
type UploadProcessor interface {
	ProcessUpload(ctx context.Context, in ProcessUploadInput) (*ProcessUploadOutput, error)
}

// ProcessUploadInput is the ephemeral in-memory representation of one inbound
// file. OriginalFilename is display-only and never used for storage paths.
type ProcessUploadInput struct {
	Reader            io.Reader
	DeclaredMimeType  string
	DeclaredSizeBytes int64
	OriginalFilename  string
	// Options overrides the orchestrator defaults when non-nil.
	Options *model.ProcessingOptions
}

type ProcessUploadOutput struct {
	Original  *model.Artifact `json:"original"`
	Thumbnail *model.Artifact `json:"thumbnail"`
}

// ArtifactGetter retrieves a descriptor and its serving URL.
type ArtifactGetter interface {
	GetArtifact(ctx context.Context, id uuid.UUID) (*GetArtifactOutput, error)
}
type GetArtifactOutput struct {
	ValidUntil time.Time      `json:"valid_until"`
	URL        string         `json:"url"`
	Artifact   model.Artifact `json:"artifact"`
}

// ArtifactDeleter deletes a published artifact and its record.
type ArtifactDeleter interface {
	DeleteArtifact(ctx context.Context, id uuid.UUID) error
}

// ThumbnailRebuilder regenerates a thumbnail from a published original.
// Descriptors are immutable: the rebuilt thumbnail gets a fresh identifier
// and the old one is invalidated.
type ThumbnailRebuilder interface {
	RebuildThumbnail(ctx context.Context, in RebuildThumbnailInput) error
}
type RebuildThumbnailInput struct {
	OriginalID  uuid.UUID
	ThumbnailID uuid.UUID
}

// StagingSweeper purges staged files that outlived the pipeline that created
// them.
type StagingSweeper interface {
	SweepStaging(ctx context.Context, olderThan time.Duration) error
}
