package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a task that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrNoTargetsSpecified is returned when no tasks are specified for the run command.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrReservedTaskName is returned when a configured task uses a reserved name.
	ErrReservedTaskName = zerr.New("task name is reserved")

	// ErrInvalidTaskName is returned when a task name contains invalid characters.
	ErrInvalidTaskName = zerr.New("invalid task name")

	// ErrInvalidStep is returned when a step defines both or neither of cmd and remove.
	ErrInvalidStep = zerr.New("step must define exactly one of cmd or remove")

	// ErrEmptyCommand is returned when a command step has no argv.
	ErrEmptyCommand = zerr.New("command is empty")

	// ErrInvalidPrecheck is returned when a precheck does not name a tool.
	ErrInvalidPrecheck = zerr.New("precheck must name a tool")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
	ErrConfigNotFound = zerr.New("config file not found")

	// ErrDotenvReadFailed is returned when a dotenv file exists but cannot be parsed.
	ErrDotenvReadFailed = zerr.New("failed to read dotenv file")

	// ErrInvalidEnvOverride is returned when an --env value is not KEY=VALUE.
	ErrInvalidEnvOverride = zerr.New("environment override must be KEY=VALUE")

	// ErrBuildExecutionFailed is returned when a run fails after its plan was emitted.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrPrerequisiteFailed marks a task whose prerequisite failed before its own work started.
	ErrPrerequisiteFailed = zerr.New("prerequisite failed")

	// ErrOutputPathOutsideRoot is returned when a clean path is outside the project root or is the root itself.
	ErrOutputPathOutsideRoot = zerr.New("output path is outside project root")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")

	// ErrFailedToResolveRelativePath is returned when a relative path cannot be resolved.
	ErrFailedToResolveRelativePath = zerr.New("failed to resolve relative path")

	// ErrFailedToCleanOutput is returned when removing a generated path fails.
	ErrFailedToCleanOutput = zerr.New("failed to clean output")

	// ErrWorkingDirFailed is returned when the working directory cannot be determined.
	ErrWorkingDirFailed = zerr.New("failed to determine working directory")
)
