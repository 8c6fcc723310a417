package worker

import (
	"context"
	"log"
	"time"

	"github.com/imgpipe/images-ms-go/internal/port"
)

// SweepStagingHandler handles a sweep-staging task. The cutoff comes from
// worker configuration, not from the task payload.
func SweepStagingHandler(ctx context.Context, olderThan time.Duration, svc port.StagingSweeper) error {
	if err := svc.SweepStaging(ctx, olderThan); err != nil {
		log.Printf("❌  Failed to sweep staging: %v", err)
		return err
	}

	log.Printf("✅  Successfully swept staging of files older than %s", olderThan)
	return nil
}
