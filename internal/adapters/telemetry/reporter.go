package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/tandem/internal/core/domain"
	"go.trai.ch/tandem/internal/core/ports"
)

// SpanReporter is the span processor that turns task spans into renderer events.
// A finished span's status and failure attributes become a domain.TaskOutcome.
type SpanReporter struct {
	renderer ports.Renderer
}

var _ sdktrace.SpanProcessor = (*SpanReporter)(nil)

// NewSpanReporter reports to renderer. A nil renderer drops every event.
func NewSpanReporter(renderer ports.Renderer) *SpanReporter {
	return &SpanReporter{renderer: renderer}
}

// OnStart reports the task start with its parent task, if any.
func (r *SpanReporter) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if r.renderer == nil || !s.SpanContext().IsValid() {
		return
	}

	var parentID string
	if parent := s.Parent(); parent.IsValid() {
		parentID = parent.SpanID().String()
	}
	r.renderer.OnTaskStart(s.SpanContext().SpanID().String(), parentID, s.Name(), s.StartTime())
}

// OnEnd reports how the task ended.
func (r *SpanReporter) OnEnd(s sdktrace.ReadOnlySpan) {
	if r.renderer == nil || !s.SpanContext().IsValid() {
		return
	}
	r.renderer.OnTaskComplete(s.SpanContext().SpanID().String(), s.EndTime(), outcomeOf(s))
}

// ForceFlush does nothing; events are delivered synchronously.
func (r *SpanReporter) ForceFlush(context.Context) error { return nil }

// Shutdown does nothing.
func (r *SpanReporter) Shutdown(context.Context) error { return nil }

func outcomeOf(s sdktrace.ReadOnlySpan) domain.TaskOutcome {
	status := s.Status()
	if status.Code != codes.Error {
		return domain.TaskOutcome{}
	}

	msg := status.Description
	if msg == "" {
		msg = "task failed"
	}
	outcome := domain.TaskOutcome{Err: errors.New(msg), ExitCode: domain.ExitFailure}

	for _, kv := range s.Attributes() {
		switch string(kv.Key) {
		case domain.AttrExitCode:
			outcome.ExitCode = int(kv.Value.AsInt64())
		case domain.AttrMissingTool:
			outcome.MissingTool = kv.Value.AsString()
		case domain.AttrInstallHint:
			outcome.InstallHint = kv.Value.AsString()
		case domain.AttrPrerequisite:
			outcome.Prerequisite = kv.Value.AsString()
		}
	}
	return outcome
}
