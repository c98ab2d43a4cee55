package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes reported by the runner itself. Step failures propagate the child's own code.
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitPrecheckFailed  = 69 // EX_UNAVAILABLE
	ExitCannotExecute   = 126
	ExitCommandNotFound = 127
	ExitInterrupted     = 130 // 128 + SIGINT
)

type exitCoder interface {
	ExitCode() int
}

// ExitCode maps an error returned by a run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var coded exitCoder
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return ExitFailure
}

// PrecheckFailure reports a required tool that is not installed.
type PrecheckFailure struct {
	Task string
	Tool string
	Hint string
}

func (e *PrecheckFailure) Error() string {
	msg := fmt.Sprintf("required tool %q not found", e.Tool)
	if e.Hint != "" {
		msg += " (install: " + e.Hint + ")"
	}
	return msg
}

// ExitCode is distinct from any plain step failure.
func (e *PrecheckFailure) ExitCode() int {
	return ExitPrecheckFailed
}

// StepFailure reports a command that exited non-zero or could not be started.
type StepFailure struct {
	Task    string
	Command string
	Code    int
	Err     error
}

func (e *StepFailure) Error() string {
	return fmt.Sprintf("%q exited with code %d", e.Command, e.ExitCode())
}

func (e *StepFailure) Unwrap() error {
	return e.Err
}

// ExitCode returns the child's exit code, or 1 when it did not report one.
func (e *StepFailure) ExitCode() int {
	if e.Code <= 0 {
		return ExitFailure
	}
	return e.Code
}

// AggregateFailure reports that at least one branch of a parallel fan-out failed.
// Failures keeps the branch errors in declaration order.
type AggregateFailure struct {
	Task     string
	Failures []error
}

func (e *AggregateFailure) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, err := range e.Failures {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d parallel branch(es) of %s failed: %s", len(e.Failures), e.Task, strings.Join(msgs, "; "))
}

func (e *AggregateFailure) Unwrap() []error {
	return e.Failures
}

// ExitCode is the code of the first failed branch.
func (e *AggregateFailure) ExitCode() int {
	if len(e.Failures) == 0 {
		return ExitFailure
	}
	return ExitCode(e.Failures[0])
}
