package forge

import (
	"errors"
	"fmt"
	"time"
)

// ErrBusy reports a single-flight conflict: a second Generate arrived while a
// render was in progress. It is a deliberate rejection, not a failure; the
// in-flight request is unaffected.
var ErrBusy = errors.New("a generation is already in progress")

// ValidationError reports a request that failed fast before touching the
// cache or renderer.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + e.Reason
}

// TimeoutError reports a render that exceeded its budget. The message names
// the operation and the limit so it can be surfaced to users directly.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Op, e.Timeout)
}

// RenderError wraps an unexpected failure during glyph composition. The
// wrapped cause is logged but never surfaced to users.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return "render failed: " + e.Err.Error()
}

func (e *RenderError) Unwrap() error { return e.Err }
