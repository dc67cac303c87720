// Package backend provides the execution backends sessions run their
// commands against. Exactly two implementations exist: Docker, which runs
// commands inside a hardened container, and Mock, which simulates execution
// so the product stays usable without a container runtime.
package backend

import (
	"context"
	"errors"
)

// Mode describes how a session's commands are executed.
type Mode string

const (
	ModeReal Mode = "real"
	ModeMock Mode = "mock"
)

// Sentinel errors for the adapter's failure taxonomy.
var (
	// ErrUnavailable means the runtime cannot be reached at all. Callers
	// fall back to the mock backend instead of surfacing this to users.
	ErrUnavailable = errors.New("execution backend unavailable")

	// ErrResource means the runtime was reachable but unit creation failed.
	ErrResource = errors.New("execution unit creation failed")

	// ErrExec means the unit is gone or the command could not be run in it.
	ErrExec = errors.New("exec failed")
)

// Limits bounds the resources of one execution unit.
type Limits struct {
	CPULimit    float64
	MemLimit    string // human size, parsed with go-units
	PidsLimit   int
	NetworkMode string
}

// ExecResult is the combined stdout+stderr of a command plus its exit code.
type ExecResult struct {
	Output   string `json:"output"`
	ExitCode int    `json:"exit_code"`
}

// Backend creates, execs into, and destroys isolated execution units.
// Handles are opaque; a unit belongs to exactly one session.
type Backend interface {
	CreateUnit(ctx context.Context, image string, limits Limits) (string, error)
	Exec(ctx context.Context, handle, command string) (*ExecResult, error)

	// DestroyUnit stops and removes a unit. Idempotent: destroying an
	// already-gone unit returns nil.
	DestroyUnit(ctx context.Context, handle string) error
}
