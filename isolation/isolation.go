// Package isolation runs a batch of work under a wall-clock budget and reports how it ended,
// without letting a panic or a hang escape to the caller.
package isolation

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/pkg/errors"
)

// DefaultTimeout is the default wall-clock budget of a batch.
const DefaultTimeout = time.Hour

// Status is how an execution ended.
type Status uint8

const (
	Completed Status = iota
	Failed
	TimedOut
	Canceled
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed_out"
	case Canceled:
		return "canceled"
	}
	return fmt.Sprintf("Status(%d)", s)
}

// Func is a unit of isolated work. It should stop when ctx is done.
type Func func(ctx context.Context) (interface{}, error)

// Diagnostics describe an execution.
type Diagnostics struct {
	Workdir  string
	Duration time.Duration
	Err      error
	// Stack is set when the work panicked.
	Stack string
}

// Outcome is the result of an execution. Result is only meaningful when Status is Completed.
type Outcome struct {
	Result      interface{}
	Status      Status
	Diagnostics Diagnostics
}

// Executor runs work in isolation. An error is returned only when the work could not be started.
type Executor interface {
	Execute(ctx context.Context, workdir string, fn Func) (Outcome, error)
}

// InProcess runs work in a goroutine of the current process. On timeout it stops waiting and
// cancels the work's context; work that ignores its context keeps running in the background.
type InProcess struct {
	Timeout time.Duration
}

// NewInProcess creates an in-process executor. A non-positive timeout means DefaultTimeout.
func NewInProcess(timeout time.Duration) *InProcess {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &InProcess{Timeout: timeout}
}

type done struct {
	result interface{}
	err    error
	stack  string
}

// Execute runs fn and waits for it to return, the timeout to expire or ctx to be canceled.
func (e *InProcess) Execute(ctx context.Context, workdir string, fn Func) (Outcome, error) {
	if fn == nil {
		return Outcome{}, errors.New("nothing to execute")
	}
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	ch := make(chan done, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				err := goerrors.Wrap(r, 2)
				ch <- done{err: err, stack: err.ErrorStack()}
			}
		}()
		result, err := fn(ctx)
		ch <- done{result: result, err: err}
	}()

	out := Outcome{Diagnostics: Diagnostics{Workdir: workdir}}
	select {
	case d := <-ch:
		out.Diagnostics.Err, out.Diagnostics.Stack = d.err, d.stack
		if d.err != nil {
			out.Status = Failed
		} else {
			out.Status, out.Result = Completed, d.result
		}
	case <-ctx.Done():
		out.Diagnostics.Err = ctx.Err()
		out.Status = Canceled
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			out.Status = TimedOut
		}
	}
	out.Diagnostics.Duration = time.Since(start)
	return out, nil
}
