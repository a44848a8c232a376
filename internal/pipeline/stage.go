package pipeline

import (
	"context"
	"fmt"
)

// Stage is one step of the turn pipeline. Apply transforms the turn
// context in place; a returned error aborts the turn and surfaces as a
// StageExecutionError. Stages must never swallow their own failures.
type Stage interface {
	Name() string
	Apply(ctx context.Context, turn *Context) error
}

// Gate is implemented by the single stage allowed to halt the pipeline.
// After Apply, the orchestrator consults Verdict; false stops the turn
// and the context's ResponseText (the redirect) becomes the response.
type Gate interface {
	Stage
	Verdict(turn *Context) bool
}

// StageExecutionError wraps a failure raised by a stage. The turn's
// partial results are discarded; callers see this error, never a
// half-adapted response.
type StageExecutionError struct {
	Stage string
	Err   error
}

func (e *StageExecutionError) Error() string {
	return fmt.Sprintf("pipeline stage %q failed: %v", e.Stage, e.Err)
}

func (e *StageExecutionError) Unwrap() error { return e.Err }
