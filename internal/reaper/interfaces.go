package reaper

import (
	"context"

	"shellbox/internal/registry"
)

// SessionLister abstracts the registry read the reaper sweeps over.
type SessionLister interface {
	List() []registry.Session
}

// SessionExpirer abstracts the manager's teardown path. The reaper never
// destroys units itself; expiry goes through the same path as explicit
// termination.
type SessionExpirer interface {
	Expire(ctx context.Context, sessionID string)
}
