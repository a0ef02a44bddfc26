package draft

import "errors"

var (
	// ErrSessionNotFound indicates an unknown or already cleared draft session
	ErrSessionNotFound = errors.New("draft session not found")

	// ErrCorrectionPending indicates a correction is already in flight for
	// the session; corrections are serialized per session
	ErrCorrectionPending = errors.New("a correction is already being applied")
)
