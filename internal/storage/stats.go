package storage

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/charleshuang3/teamjoin/internal/gormw"
)

var (
	logger = log.With().Str("component", "storage").Logger()
)

// RegisterInvitationStatsReporter logs invitation counts daily. Expired
// invitations are kept, this only reports how many piled up.
func RegisterInvitationStatsReporter(scheduler gocron.Scheduler, db *gormw.DB) {
	_, _ = scheduler.NewJob(
		gocron.CronJob(
			// 4am Daily
			"0 4 * * *",
			false,
		),
		gocron.NewTask(
			func() {
				reportInvitationStats(context.Background(), db, time.Now().UTC())
			},
		),
	)
}

func reportInvitationStats(ctx context.Context, db *gormw.DB, now time.Time) {
	counts, err := CountInvitations(ctx, db, now)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to count invitations")
		return
	}
	logger.Info().
		Int64("pending", counts.Pending).
		Int64("expired", counts.Expired).
		Int64("accepted", counts.Accepted).
		Msg("Invitation stats")
}
