// Package image resolves and pulls the container images sessions start from.
package image

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// Provider answers whether an image is usable and makes it available locally.
type Provider interface {
	Exists(ctx context.Context, ref string) bool
	Ensure(ctx context.Context, ref string) error
}

// DockerProvider pulls images through the Docker daemon.
type DockerProvider struct {
	docker *client.Client
	logger *slog.Logger
}

func NewDockerProvider(cli *client.Client, logger *slog.Logger) *DockerProvider {
	return &DockerProvider{docker: cli, logger: logger}
}

// Exists reports whether the image is present locally.
func (p *DockerProvider) Exists(ctx context.Context, ref string) bool {
	_, _, err := p.docker.ImageInspectWithRaw(ctx, ref)
	return err == nil
}

// Ensure makes the image available, pulling it if needed. Pulls are retried
// with backoff since registry hiccups are common and transient.
func (p *DockerProvider) Ensure(ctx context.Context, ref string) error {
	if p.Exists(ctx, ref) {
		return nil
	}

	p.logger.Info("image not found locally, pulling", "image", ref)

	const maxAttempts = 3
	backoff := 500 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		lastErr = p.pull(ctx, ref)
		if lastErr == nil {
			p.logger.Info("image pulled", "image", ref)
			return nil
		}
		if ctx.Err() != nil {
			break
		}
		if attempt < maxAttempts-1 {
			p.logger.Warn("image pull failed, retrying", "image", ref, "attempt", attempt+1, "error", lastErr)
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return fmt.Errorf("pull image %s: %w", ref, lastErr)
}

func (p *DockerProvider) pull(ctx context.Context, ref string) error {
	reader, err := p.docker.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()
	// The pull only completes once the progress stream is drained.
	_, err = io.Copy(io.Discard, reader)
	return err
}

// StaticProvider serves a fixed image set without touching a daemon.
// Used in tests and when the backend is degraded.
type StaticProvider struct {
	Images map[string]bool
}

func (p *StaticProvider) Exists(ctx context.Context, ref string) bool {
	return p.Images[ref]
}

func (p *StaticProvider) Ensure(ctx context.Context, ref string) error {
	if !p.Images[ref] {
		return fmt.Errorf("image not available: %s", ref)
	}
	return nil
}
