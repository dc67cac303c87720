package testutil

import (
	"log/slog"
	"os"
	"time"

	"shellbox/internal/backend"
	"shellbox/internal/config"
	"shellbox/internal/registry"
)

// TestConfig returns a Config with sensible test defaults.
func TestConfig() *config.Config {
	return &config.Config{
		Listen:             "127.0.0.1:0",
		MaxSessions:        5,
		IdleTimeoutSeconds: 300,
		ReapIntervalSecs:   60,
		DefaultImage:       "alpine:3.20",
		AllowedImages:      []string{"alpine:3.20", "ubuntu:24.04"},
		Defaults: config.Defaults{
			CPULimit:    1.0,
			MemLimit:    "256m",
			PidsLimit:   128,
			NetworkMode: "none",
			MockDelayMs: 0,
		},
	}
}

// TestLogger returns a quiet logger for tests.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TestSession returns a real-mode session owned by owner.
func TestSession(id, owner string) *registry.Session {
	now := time.Now().UTC()
	return &registry.Session{
		ID:           id,
		Owner:        owner,
		Handle:       "ctr-" + id,
		Image:        "alpine:3.20",
		Mode:         backend.ModeReal,
		CreatedAt:    now,
		LastAccessed: now,
	}
}
