package ports

import (
	"context"
	"time"

	"go.trai.ch/tandem/internal/core/domain"
)

// Renderer presents the task event stream to the user.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start begins the renderer's lifecycle. Events may arrive as soon as it returns.
	Start(ctx context.Context) error
	// Stop flushes buffered output and asks the renderer to finish.
	Stop() error
	// Wait blocks until the renderer has finished. It returns early when the user
	// closes an interactive renderer, which interrupts the run.
	Wait() error

	// OnPlanEmit is called once the run's tasks are known.
	OnPlanEmit(tasks []string, deps map[string][]string, targets []string)
	// OnTaskStart is called when a task begins execution.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)
	// OnTaskLog is called with raw task output. data may hold partial lines.
	OnTaskLog(spanID string, data []byte)
	// OnTaskComplete is called when a task finishes.
	OnTaskComplete(spanID string, endTime time.Time, outcome domain.TaskOutcome)
}
