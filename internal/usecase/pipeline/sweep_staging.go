package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/imgpipe/images-ms-go/internal/port"
)

type stagingSweeperSrv struct {
	strg port.Storage
}

// compile-time check: *stagingSweeperSrv must satisfy port.StagingSweeper
var _ port.StagingSweeper = (*stagingSweeperSrv)(nil)

// NewStagingSweeper constructs a StagingSweeper implementation.
func NewStagingSweeper(strg port.Storage) port.StagingSweeper {
	return &stagingSweeperSrv{strg: strg}
}

// SweepStaging discards staged files older than the cutoff. Orphans only
// appear when a pipeline rollback could not delete its intermediates, so the
// sweep is what keeps "no orphaned files" a steady-state property rather than
// a best-effort one.
func (s *stagingSweeperSrv) SweepStaging(ctx context.Context, olderThan time.Duration) error {
	paths, err := s.strg.ListStaged(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return err
	}

	for _, p := range paths {
		s.strg.Discard(ctx, p)
	}

	log.Printf("staging sweep discarded %d stale file(s)", len(paths))
	return nil
}
