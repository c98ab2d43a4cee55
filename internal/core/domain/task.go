package domain

import (
	"strings"
)

// Task is a named unit of orchestration.
//
// Running a task evaluates its Prechecks, runs each of its Dependencies in order,
// fans out over its Parallel branches and finally runs its own Steps.
type Task struct {
	Name         InternedString
	Description  string
	Dependencies []InternedString
	Parallel     []InternedString
	Prechecks    []Precheck
	Steps        []Step
	Environment  map[string]string
}

// Edges returns every task this task refers to: dependencies first, then parallel branches.
func (t *Task) Edges() []InternedString {
	edges := make([]InternedString, 0, len(t.Dependencies)+len(t.Parallel))
	edges = append(edges, t.Dependencies...)
	edges = append(edges, t.Parallel...)
	return edges
}

// Step is one unit of work inside a task. It either runs Command or removes the Remove paths.
type Step struct {
	Command     []string
	WorkingDir  InternedString
	Environment map[string]string
	Remove      []InternedString
}

// IsRemove reports whether the step deletes generated paths instead of running a command.
func (s Step) IsRemove() bool {
	return len(s.Remove) > 0
}

// String renders the step the way it is echoed before execution.
func (s Step) String() string {
	if s.IsRemove() {
		paths := make([]string, len(s.Remove))
		for i, p := range s.Remove {
			paths[i] = p.String()
		}
		return "rm -rf " + strings.Join(paths, " ")
	}
	return strings.Join(s.Command, " ")
}

// TaskInfo is the listing view of a task.
type TaskInfo struct {
	Name        string
	Description string
}
