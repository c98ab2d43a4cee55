package tui

import (
	"time"

	"go.trai.ch/tandem/internal/core/domain"
)

// MsgPlan announces every task of the invocation before the first one starts.
type MsgPlan struct {
	Tasks        []string
	Dependencies map[string][]string
	Targets      []string
}

// MsgTaskStart marks a task as running. ParentID is the span of the task that started it.
type MsgTaskStart struct {
	SpanID    string
	ParentID  string
	Name      string
	StartTime time.Time
}

// MsgTaskLog carries raw output of a running task.
type MsgTaskLog struct {
	SpanID string
	Data   []byte
}

// MsgTaskComplete marks a task as finished.
type MsgTaskComplete struct {
	SpanID  string
	EndTime time.Time
	Outcome domain.TaskOutcome
}
