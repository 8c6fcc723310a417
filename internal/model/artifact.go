package model

import (
	"time"

	"github.com/imgpipe/images-ms-go/internal/uuid"
)

type ArtifactKind string

const (
	ArtifactKindOriginal  ArtifactKind = "original"
	ArtifactKindThumbnail ArtifactKind = "thumbnail"
)

// Artifact describes one published file. It is only ever constructed by the
// artifact store, after the backing bytes are fully written, and is immutable
// from then on; replacing media means new descriptors, never mutation.
type Artifact struct {
	ID          uuid.UUID    `json:"id"`
	Kind        ArtifactKind `json:"kind"`
	StoragePath string       `json:"storage_path"`
	MimeType    string       `json:"mime_type"`
	SizeBytes   int64        `json:"size_bytes"`
	CreatedAt   time.Time    `json:"created_at"`
}

// UploadStatus tracks an upload through the pipeline. Failed is terminal and
// reachable from any non-terminal status.
type UploadStatus string

const (
	UploadStatusReceived    UploadStatus = "received"
	UploadStatusValidated   UploadStatus = "validated"
	UploadStatusStaged      UploadStatus = "staged"
	UploadStatusTransformed UploadStatus = "transformed"
	UploadStatusPublished   UploadStatus = "published"
	UploadStatusDone        UploadStatus = "done"
	UploadStatusFailed      UploadStatus = "failed"
)
