package sweeper

import (
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
)

// State is the furthest point a trial reached.
type State uint8

const (
	Unscored State = iota
	Scored
	Compared
	Accepted
	Rejected
	Failed
)

func (s State) String() string {
	switch s {
	case Unscored:
		return "unscored"
	case Scored:
		return "scored"
	case Compared:
		return "compared"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", s)
}

// Error is a failure inside a single trial. The trial that produced it is rejected and the
// sweep continues.
type Error struct {
	Sweeper string
	Columns []string
	// State is the state the trial had reached when it failed.
	State State
	Err   error

	stack string
}

func newError(sweeper string, columns []string, state State, cause interface{}, skip int) *Error {
	e := goerrors.Wrap(cause, skip+1)
	err, ok := cause.(error)
	if !ok {
		err = e
	}
	return &Error{Sweeper: sweeper, Columns: columns, State: state, Err: err, stack: e.ErrorStack()}
}

func (e *Error) Error() string {
	return fmt.Sprintf("sweeper %s on [%s] failed while %s: %v", e.Sweeper, strings.Join(e.Columns, ", "), e.State, e.Err)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Stack is the stack trace captured where the error was recovered.
func (e *Error) Stack() string {
	return e.stack
}
