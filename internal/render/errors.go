package render

import "fmt"

// RenderFailure signals that a rendering could not be produced: either JSON
// encoding failed, or the output is missing the mandatory attribution
// phrase. Both are programmer errors, never a user input problem.
type RenderFailure struct {
	Reason string
}

func (e *RenderFailure) Error() string {
	return fmt.Sprintf("render failure: %s", e.Reason)
}
