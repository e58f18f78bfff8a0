// Package command runs ribbon commands and interprets their outcome in one
// place.
package command

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/wayfinder/pkg/diag"
)

// Status is the outcome kind of a command.
type Status int

const (
	StatusSucceeded Status = iota
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is returned by a command body.
type Result struct {
	Status  Status
	Message string
}

// Succeeded is the successful result.
func Succeeded() Result { return Result{Status: StatusSucceeded} }

// Cancelled is returned when the user backed out.
func Cancelled() Result { return Result{Status: StatusCancelled} }

// Failed is returned with a message shown to the user.
func Failed(msg string) Result { return Result{Status: StatusFailed, Message: msg} }

// FromError maps err onto a Result. ErrCancelled and context cancellation
// become Cancelled.
func FromError(err error) Result {
	switch {
	case err == nil:
		return Succeeded()
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return Cancelled()
	default:
		return Failed(err.Error())
	}
}

// ErrCancelled is returned by command bodies when the user cancels.
var ErrCancelled = errors.New("command: cancelled")

// Command is one ribbon button's action.
type Command interface {
	Name() string
	Execute(ctx context.Context) Result
}

// Func adapts a named function to Command.
type Func struct {
	ID string
	Fn func(ctx context.Context) Result
}

func (f Func) Name() string { return f.ID }

func (f Func) Execute(ctx context.Context) Result { return f.Fn(ctx) }

// Dispatch runs cmd. A failure is reported once through r; a cancellation
// is silent. A panicking body becomes a failure.
func Dispatch(ctx context.Context, cmd Command, r diag.Reporter) (res Result) {
	if r == nil {
		r = diag.Discard
	}
	defer func() {
		if p := recover(); p != nil {
			res = Failed(fmt.Sprint(p))
		}
		if res.Status == StatusFailed {
			r.Report("Error", fmt.Errorf("%s: %s", cmd.Name(), res.Message))
		}
	}()

	if err := ctx.Err(); err != nil {
		return Cancelled()
	}
	return cmd.Execute(ctx)
}
