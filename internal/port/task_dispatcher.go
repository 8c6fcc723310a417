package port

import (
	"context"

	"github.com/imgpipe/images-ms-go/internal/uuid"
)

// TaskDispatcher enqueues asynchronous tasks related to artifact upkeep.
type TaskDispatcher interface {
	EnqueueRebuildThumbnail(ctx context.Context, originalID, thumbnailID uuid.UUID) error
	EnqueueSweepStaging(ctx context.Context) error
}
