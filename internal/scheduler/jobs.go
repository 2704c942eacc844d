package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-congress-backend/internal/app"
	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/services"
)

// Job names.
const (
	JobMembers = "refresh-members"
	JobVotes   = "refresh-votes"
)

// RegisterRefreshJobs schedules the roster and roll-call refreshes from
// a.Config.Schedule. Empty specs leave the job out.
func RegisterRefreshJobs(s *Scheduler, a *app.App) error {
	members, _, votes := a.WithTrigger(services.TriggerSchedule)
	cfg := a.Config

	if spec := cfg.Schedule.Members; spec != "" {
		err := s.Add(JobMembers, spec, func(ctx context.Context) {
			stats, err := members.SyncRoster(ctx, cfg.Sync.CurrentCongress, "")
			if err != nil {
				log.Error().Err(err).Interface("stats", stats).Msg("scheduled roster refresh failed")
				return
			}
			// New or renamed members change name resolution.
			a.Matcher.Reset()
		})
		if err != nil {
			return err
		}
	}

	if spec := cfg.Schedule.Votes; spec != "" {
		err := s.Add(JobVotes, spec, func(ctx context.Context) {
			cong := cfg.Sync.CurrentCongress
			session := services.CurrentSession(cong, time.Now().UTC())
			for _, ch := range []domain.Chamber{domain.ChamberHouse, domain.ChamberSenate} {
				if ctx.Err() != nil {
					return
				}
				n := votes.Sync(ctx, cong, session, ch, cfg.Sync.BatchSize)
				log.Info().Str("chamber", string(ch)).Int("session", session).Int("written", n).Msg("scheduled vote refresh")
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}
