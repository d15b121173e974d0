package scheduler

import (
	"context"
	"log/slog"
	"time"
)

type invitationExpirer interface {
	ExpireOverdue(ctx context.Context) (int64, error)
}

// Scheduler periodically sweeps pending invitations past their expiry.
type Scheduler struct {
	invitations invitationExpirer
	interval    time.Duration
	log         *slog.Logger
}

func New(invitations invitationExpirer, interval time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		invitations: invitations,
		interval:    interval,
		log:         log,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("scheduler started",
		slog.Duration("interval", s.interval),
	)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	expired, err := s.invitations.ExpireOverdue(ctx)
	if err != nil {
		s.log.Error("failed to expire overdue invitations",
			slog.String("error", err.Error()),
		)
		return
	}

	if expired > 0 {
		s.log.Info("invitations expired",
			slog.Int64("count", expired),
		)
	}
}
