package domain

import (
	"errors"
	"strings"
)

// Span attributes a failed task carries so renderers can explain the failure.
const (
	AttrExitCode     = "tandem.exit_code"
	AttrMissingTool  = "tandem.precheck.tool"
	AttrInstallHint  = "tandem.precheck.hint"
	AttrPrerequisite = "tandem.prerequisite"
)

// TaskOutcome describes how a task ended. A zero TaskOutcome is a success.
type TaskOutcome struct {
	Err      error
	ExitCode int
	// MissingTool and InstallHint are set when the task's own precheck failed.
	MissingTool string
	InstallHint string
	// Prerequisite names the failed prerequisite that stopped the task before its own work.
	Prerequisite string
}

// Failed reports whether the task did not complete.
func (o TaskOutcome) Failed() bool {
	return o.Err != nil
}

// FailureAttributes returns the span attributes describing err as the failure of one task.
// A prerequisite that failed first is named by prerequisite and is empty otherwise.
func FailureAttributes(err error, prerequisite string) map[string]any {
	attrs := map[string]any{AttrExitCode: ExitCode(err)}
	if prerequisite != "" {
		attrs[AttrPrerequisite] = prerequisite
		return attrs
	}

	var aggregate *AggregateFailure
	if errors.As(err, &aggregate) {
		return attrs
	}
	var precheck *PrecheckFailure
	if errors.As(err, &precheck) {
		attrs[AttrMissingTool] = precheck.Tool
		if hint := strings.TrimSpace(precheck.Hint); hint != "" {
			attrs[AttrInstallHint] = hint
		}
	}
	return attrs
}
