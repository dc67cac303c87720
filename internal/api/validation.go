package api

import (
	"fmt"
	"regexp"
)

const maxCommandBytes = 64 * 1024

var (
	// sessionIDPattern matches the short uuid-derived IDs the manager issues.
	sessionIDPattern = regexp.MustCompile(`^[a-f0-9-]{8,36}$`)

	// imageRefPattern is a loose sanity check, not full reference grammar.
	imageRefPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._/:@-]*$`)
)

func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session id must not be empty")
	}
	if !sessionIDPattern.MatchString(id) {
		return fmt.Errorf("invalid session id: %s", id)
	}
	return nil
}

func validateCreateSessionRequest(req createSessionRequest) error {
	if req.Image != "" && !imageRefPattern.MatchString(req.Image) {
		return fmt.Errorf("invalid image reference: %s", req.Image)
	}
	return nil
}

func validateExecRequest(req execRequest) error {
	if req.Command == "" {
		return fmt.Errorf("command must not be empty")
	}
	if len(req.Command) > maxCommandBytes {
		return fmt.Errorf("command exceeds %d bytes", maxCommandBytes)
	}
	return nil
}
