package query

import "fmt"

// ValidationError is returned by every Build* function when caller input
// fails validation before any SQL is produced. It is always a per-call,
// never-fatal error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
