package worker

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/task"
	idkit "github.com/imgpipe/images-ms-go/internal/uuid"
	"github.com/imgpipe/images-ms-go/internal/validation"
)

// RebuildThumbnailHandler handles a rebuild-thumbnail task.
// It validates the incoming payload and delegates the call to the service.
func RebuildThumbnailHandler(ctx context.Context, p task.RebuildThumbnailPayload, svc port.ThumbnailRebuilder) error {
	if err := validation.ValidateStruct(p); err != nil {
		log.Printf("❌  Payload validation failed: %v", err)
		return err
	}

	in := port.RebuildThumbnailInput{
		OriginalID:  idkit.UUID(uuid.MustParse(p.OriginalID)),
		ThumbnailID: idkit.UUID(uuid.MustParse(p.ThumbnailID)),
	}
	if err := svc.RebuildThumbnail(ctx, in); err != nil {
		log.Printf("❌  Failed to rebuild thumbnail for artifact #%s: %v", in.OriginalID, err)
		return err
	}

	log.Printf("✅  Successfully rebuilt thumbnail for artifact #%s", in.OriginalID)
	return nil
}
