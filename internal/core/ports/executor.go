// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/tandem/internal/core/domain"
)

//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks

// Executor runs a single command to completion.
type Executor interface {
	// Execute starts cmd with the invoking process environment plus cmd.Env and
	// waits for it to exit. A non-zero exit is reported as *domain.StepFailure.
	Execute(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error
}

// ToolProber evaluates prechecks.
type ToolProber interface {
	// Probe resolves pc.Tool against PATH, honoring a PATH override in env.
	Probe(pc domain.Precheck, env map[string]string) domain.PrecheckResult
}
