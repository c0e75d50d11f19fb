// Package maintenance reclaims storage held by expired magic tokens and
// registry sessions. Expiry is enforced lazily at validate time; this
// sweep only keeps the tables from growing without bound.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/practicelearn/course-portal/internal/metrics"
	"github.com/practicelearn/course-portal/internal/repository"
	"github.com/robfig/cron/v3"
)

type Sweeper struct {
	accounts repository.AccountRepository
	sessions repository.SessionRepository // nil under the stateless strategy
	logger   *slog.Logger
	cron     *cron.Cron
}

func NewSweeper(accounts repository.AccountRepository, sessions repository.SessionRepository, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		accounts: accounts,
		sessions: sessions,
		logger:   logger.With("component", "sweeper"),
		cron:     cron.New(),
	}
}

// Start schedules the sweep and runs until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context, schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() { s.sweep(ctx) }); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("sweeper started", "schedule", schedule)

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("sweeper shut down")
	return nil
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tokens, err := s.accounts.DeleteExpiredMagicTokens(sweepCtx, start)
	if err != nil {
		s.logger.Error("sweep magic tokens", "error", err)
	} else if tokens > 0 {
		metrics.SweepDeletedTotal.WithLabelValues("magic_token").Add(float64(tokens))
		s.logger.Info("swept expired magic tokens", "count", tokens)
	}

	if s.sessions == nil {
		return
	}

	sessions, err := s.sessions.DeleteExpired(sweepCtx, start)
	if err != nil {
		s.logger.Error("sweep sessions", "error", err)
	} else if sessions > 0 {
		metrics.SweepDeletedTotal.WithLabelValues("session").Add(float64(sessions))
		s.logger.Info("swept expired sessions", "count", sessions)
	}
}
