package ai

import "errors"

var (
	// ErrSchemaViolation indicates the model returned output that does not
	// conform to the draft schema. The caller's draft must stay untouched.
	ErrSchemaViolation = errors.New("model response violates draft schema")

	// ErrUpstream indicates the completion call itself failed; retryable
	ErrUpstream = errors.New("completion service unavailable")
)
