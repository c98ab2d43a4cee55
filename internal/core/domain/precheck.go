package domain

// Precheck guards a task: Tool must be resolvable before any of the task's work starts.
type Precheck struct {
	Tool string
	Hint string
}

// PrecheckStatus is the outcome of evaluating a Precheck.
type PrecheckStatus int

const (
	// PrecheckReady means the tool was found.
	PrecheckReady PrecheckStatus = iota
	// PrecheckMissing means the tool could not be found.
	PrecheckMissing
)

// PrecheckResult is either Ready with the resolved path or Missing with an install hint.
type PrecheckResult struct {
	Status PrecheckStatus
	Tool   string
	Path   string
	Hint   string
}

// Ready builds a successful result.
func Ready(tool, path string) PrecheckResult {
	return PrecheckResult{Status: PrecheckReady, Tool: tool, Path: path}
}

// Missing builds a failed result carrying the install hint.
func Missing(tool, hint string) PrecheckResult {
	return PrecheckResult{Status: PrecheckMissing, Tool: tool, Hint: hint}
}

// IsReady reports whether the tool was found.
func (r PrecheckResult) IsReady() bool {
	return r.Status == PrecheckReady
}
