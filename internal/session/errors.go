package session

import "errors"

// Sentinel errors returned by the manager. The API layer maps these to
// structured responses with errors.Is.
var (
	ErrCapacity     = errors.New("session capacity exceeded")
	ErrNotFound     = errors.New("session not found")
	ErrExpired      = errors.New("session expired")
	ErrForbidden    = errors.New("not authorized for session")
	ErrCreateFailed = errors.New("session create failed")
)
