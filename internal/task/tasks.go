package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeRebuildThumbnail = "artifact:rebuild_thumbnail"
	TypeSweepStaging     = "staging:sweep"
)

type RebuildThumbnailPayload struct {
	OriginalID  string `json:"original_id" validate:"required,uuid"`
	ThumbnailID string `json:"thumbnail_id" validate:"required,uuid"`
}

// NewRebuildThumbnailTask creates an Asynq task for regenerating the
// thumbnail of a published original.
func NewRebuildThumbnailTask(originalID, thumbnailID string) (*asynq.Task, error) {
	p := RebuildThumbnailPayload{OriginalID: originalID, ThumbnailID: thumbnailID}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("could not marshal rebuild-thumbnail payload: %w", err)
	}
	return asynq.NewTask(TypeRebuildThumbnail, data), nil
}

// ParseRebuildThumbnailPayload parses the task payload to RebuildThumbnailPayload.
func ParseRebuildThumbnailPayload(t *asynq.Task) (RebuildThumbnailPayload, error) {
	var p RebuildThumbnailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return RebuildThumbnailPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}

// NewSweepStagingTask creates an Asynq task for purging stale staged files.
// The task carries no payload; the cutoff is worker configuration.
func NewSweepStagingTask() *asynq.Task {
	return asynq.NewTask(TypeSweepStaging, nil)
}
