package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vaishnaviugal12/CrackCode/internal/repository"
)

// PendingSweeper finalizes submissions stranded in the pending state, which
// happens when the process dies between dispatch and finalization. Stranded
// rows are moved to the error status so clients stop seeing them as in flight.
type PendingSweeper struct {
	submissions repository.SubmissionRepository
	grace       time.Duration
	interval    time.Duration
	logger      zerolog.Logger
}

// NewPendingSweeper constructs a sweeper. Submissions older than grace are
// considered stranded; the sweep runs every interval.
func NewPendingSweeper(submissionRepo repository.SubmissionRepository, grace, interval time.Duration, logger zerolog.Logger) *PendingSweeper {
	if grace <= 0 {
		grace = 10 * time.Minute
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &PendingSweeper{
		submissions: submissionRepo,
		grace:       grace,
		interval:    interval,
		logger:      logger.With().Str("component", "pending_sweeper").Logger(),
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (s *PendingSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce marks every pending submission older than the grace period as
// errored and returns the number of rows updated.
func (s *PendingSweeper) SweepOnce(ctx context.Context) int64 {
	cutoff := time.Now().Add(-s.grace)
	updated, err := s.submissions.MarkStaleAsError(ctx, cutoff)
	if err != nil {
		s.logger.Error().Err(err).Msg("pending sweep failed")
		return 0
	}
	if updated > 0 {
		s.logger.Warn().Int64("submissions", updated).Msg("stranded pending submissions marked as errored")
	}
	return updated
}
