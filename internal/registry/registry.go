// Package registry is the in-memory table of live sessions and the capacity
// accounting for them. It is an owned instance injected into the session
// manager, never package-level state. One mutex guards both the table and the
// capacity counter so check-and-increment is a single critical section.
package registry

import (
	"sync"
	"time"

	"shellbox/internal/backend"
)

// RecentLogCap bounds the per-session command history ring.
const RecentLogCap = 10

// LogEntry is one executed command and its captured result.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command"`
	Output    string    `json:"output"`
	ExitCode  int       `json:"exit_code"`
}

// Session is one user's claim on one execution unit. ID, Owner and Handle are
// immutable after insert; Mode only ever moves real -> mock.
type Session struct {
	ID           string
	Owner        string
	Handle       string
	Image        string
	Mode         backend.Mode
	CreatedAt    time.Time
	LastAccessed time.Time
	CommandCount int
	RecentLog    []LogEntry // newest first
}

type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	reserved int // slots held by in-flight creates
	max      int
}

func New(maxSessions int) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		max:      maxSessions,
	}
}

// Reserve claims a capacity slot ahead of unit creation, so the slow backend
// call happens outside the lock without ever overshooting the bound. Reports
// false when the bound is reached. Release the slot if creation fails; Insert
// consumes it on success.
func (r *Registry) Reserve() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sessions)+r.reserved >= r.max {
		return false
	}
	r.reserved++
	return true
}

// Release returns a reserved slot after a failed create.
func (r *Registry) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reserved > 0 {
		r.reserved--
	}
}

// Insert records a session into a previously reserved slot.
func (r *Registry) Insert(sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reserved > 0 {
		r.reserved--
	}
	r.sessions[sess.ID] = sess
}

// Get returns a snapshot of the session, or false if it does not exist.
func (r *Registry) Get(id string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	return snapshot(sess), true
}

// Remove deletes the session and frees its slot in one step. Reports whether
// anything was removed, so racing teardowns decrement exactly once.
func (r *Registry) Remove(id string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	delete(r.sessions, id)
	return snapshot(sess), true
}

// List returns snapshots of all sessions, no ordering guarantee.
func (r *Registry) List() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		result = append(result, snapshot(sess))
	}
	return result
}

// ListByOwner returns snapshots of the sessions owned by identity.
func (r *Registry) ListByOwner(owner string) []Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []Session
	for _, sess := range r.sessions {
		if sess.Owner == owner {
			result = append(result, snapshot(sess))
		}
	}
	return result
}

// RecordActivity bumps LastAccessed and the command counter.
func (r *Registry) RecordActivity(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok {
		return false
	}
	sess.LastAccessed = time.Now().UTC()
	sess.CommandCount++
	return true
}

// Downgrade flips the session to mock mode. The transition is one-way; a
// session that has degraded stays degraded so its execution history stays
// consistent.
func (r *Registry) Downgrade(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok {
		return false
	}
	sess.Mode = backend.ModeMock
	return true
}

// AppendLog prepends an entry to the session's command history, evicting the
// oldest past RecentLogCap.
func (r *Registry) AppendLog(id string, entry LogEntry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok {
		return false
	}
	sess.RecentLog = append([]LogEntry{entry}, sess.RecentLog...)
	if len(sess.RecentLog) > RecentLogCap {
		sess.RecentLog = sess.RecentLog[:RecentLogCap]
	}
	return true
}

// Active returns the number of registered sessions.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Max returns the configured capacity bound.
func (r *Registry) Max() int {
	return r.max
}

func snapshot(sess *Session) Session {
	cp := *sess
	cp.RecentLog = append([]LogEntry(nil), sess.RecentLog...)
	return cp
}
