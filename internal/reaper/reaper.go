// Package reaper expires sessions whose last activity is older than the idle
// timeout. It is a fixed-interval sweep; in-flight commands are allowed to
// finish, the session just cannot start new ones once past the threshold.
package reaper

import (
	"context"
	"log/slog"
	"time"
)

type Reaper struct {
	sessions    SessionLister
	expirer     SessionExpirer
	idleTimeout time.Duration
	interval    time.Duration
	logger      *slog.Logger
}

func New(sessions SessionLister, expirer SessionExpirer, idleTimeout, interval time.Duration, logger *slog.Logger) *Reaper {
	return &Reaper{
		sessions:    sessions,
		expirer:     expirer,
		idleTimeout: idleTimeout,
		interval:    interval,
		logger:      logger,
	}
}

func (r *Reaper) Run(ctx context.Context) {
	r.logger.Info("reaper started", "interval", r.interval, "idle_timeout", r.idleTimeout)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reaper stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// sweep expires every idle session it finds. Teardown is idempotent, so a
// session terminated between listing and expiry is harmless.
func (r *Reaper) sweep(ctx context.Context) {
	reaped := 0
	for _, sess := range r.sessions.List() {
		idle := time.Since(sess.LastAccessed)
		if idle <= r.idleTimeout {
			continue
		}
		r.logger.Info("reaping idle session", "session_id", sess.ID, "owner", sess.Owner, "idle", idle)
		r.expirer.Expire(ctx, sess.ID)
		reaped++
	}

	if reaped > 0 {
		r.logger.Info("reaper: reaped sessions", "count", reaped)
	}
}
