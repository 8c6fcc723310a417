package task

import (
	"context"

	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/uuid"
)

type NoopDispatcher struct{}

var _ port.TaskDispatcher = (*NoopDispatcher)(nil)

func NewNoopDispatcher() *NoopDispatcher { return &NoopDispatcher{} }

func (d *NoopDispatcher) EnqueueRebuildThumbnail(ctx context.Context, originalID, thumbnailID uuid.UUID) error {
	return nil
}

func (d *NoopDispatcher) EnqueueSweepStaging(ctx context.Context) error {
	return nil
}
