package task

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/uuid"
)

type Dispatcher struct {
	client *asynq.Client
}

// compile-time check
var _ port.TaskDispatcher = (*Dispatcher)(nil)

func NewDispatcher(addr, password string) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c}
}

func (d *Dispatcher) EnqueueRebuildThumbnail(ctx context.Context, originalID, thumbnailID uuid.UUID) error {
	t, err := NewRebuildThumbnailTask(originalID.String(), thumbnailID.String())
	if err != nil {
		return err
	}
	if _, err := d.client.EnqueueContext(ctx, t); err != nil {
		return err
	}
	return nil
}

func (d *Dispatcher) EnqueueSweepStaging(ctx context.Context) error {
	if _, err := d.client.EnqueueContext(ctx, NewSweepStagingTask()); err != nil {
		return err
	}
	return nil
}
