// Package scheduler runs the overdue-deadline sweeper in the background.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/user94a/pratico-server/internal/metrics"
	"github.com/user94a/pratico-server/internal/repo"
)

// Run starts a cron job that flips pending deadlines past their due date to
// overdue on the given cron expression. It only changes status; it never
// creates or regenerates deadlines. Returns the cron runner so the caller
// can Stop it on shutdown, or an error for a bad expression.
func Run(deadlineRepo *repo.DeadlineRepo, cronExpr string, sweepTimeout time.Duration) (*cron.Cron, error) {
	c := cron.New()

	sweep := func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		n, err := deadlineRepo.MarkOverdue(ctx, time.Now())
		if err != nil {
			slog.Error("overdue sweep failed", "error", err)
			return
		}
		if n > 0 {
			metrics.AddDeadlinesMarkedOverdue(n)
			slog.Info("overdue sweep", "marked", n)
		}
	}

	if _, err := c.AddFunc(cronExpr, sweep); err != nil {
		return nil, err
	}

	// Catch anything already overdue at startup instead of waiting for the
	// first tick.
	go sweep()

	c.Start()
	return c, nil
}
