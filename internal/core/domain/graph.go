// Package domain contains the core domain models for the task graph.
package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is the set of tasks available to one invocation, rooted at the project directory.
type Graph struct {
	root  string
	tasks map[InternedString]Task
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks: make(map[InternedString]Task),
	}
}

// Root returns the project root directory.
func (g *Graph) Root() string {
	return g.root
}

// SetRoot sets the project root directory.
func (g *Graph) SetRoot(root string) {
	g.root = root
}

// AddTask adds a task to the graph.
// It returns an error if a task with the same name already exists.
func (g *Graph) AddTask(t *Task) error {
	if _, exists := g.tasks[t.Name]; exists {
		return zerr.With(ErrTaskAlreadyExists, "task_name", t.Name.String())
	}
	g.tasks[t.Name] = *t
	return nil
}

// ReplaceTask adds t, overwriting any task with the same name.
// It reports whether a task was replaced.
func (g *Graph) ReplaceTask(t *Task) bool {
	_, exists := g.tasks[t.Name]
	g.tasks[t.Name] = *t
	return exists
}

// GetTask returns the task with the given name.
func (g *Graph) GetTask(name InternedString) (Task, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// Tasks lists every task sorted by name.
func (g *Graph) Tasks() []TaskInfo {
	infos := make([]TaskInfo, 0, len(g.tasks))
	for _, name := range g.sortedNames() {
		t := g.tasks[name]
		infos = append(infos, TaskInfo{Name: name.String(), Description: t.Description})
	}
	return infos
}

// Validate checks that every referenced task exists and that dependency and
// parallel edges form a DAG.
func (g *Graph) Validate() error {
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		task := g.tasks[u]
		for _, dep := range task.Edges() {
			if _, exists := g.tasks[dep]; !exists {
				return zerr.With(zerr.With(ErrMissingDependency, "dependency", dep.String()), "task", u.String())
			}
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		return nil
	}

	for _, name := range g.sortedNames() {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	startIdx := slices.Index(path, dep)
	parts := make([]string, 0, len(path)-startIdx+1)
	for _, node := range path[startIdx:] {
		parts = append(parts, node.String())
	}
	parts = append(parts, dep.String())
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(parts, " -> "))
}

// Plan returns the tasks reachable from targets in the order they first start:
// dependencies, then parallel branches, then the task itself. Each task appears once.
func (g *Graph) Plan(targets []InternedString) ([]InternedString, error) {
	seen := make(map[InternedString]bool)
	plan := make([]InternedString, 0, len(g.tasks))

	var visit func(name InternedString)
	visit = func(name InternedString) {
		if seen[name] {
			return
		}
		seen[name] = true
		task := g.tasks[name]
		for _, edge := range task.Edges() {
			visit(edge)
		}
		plan = append(plan, name)
	}

	for _, target := range targets {
		if _, ok := g.tasks[target]; !ok {
			return nil, zerr.With(ErrTaskNotFound, "task", target.String())
		}
		visit(target)
	}
	return plan, nil
}

func (g *Graph) sortedNames() []InternedString {
	names := make([]InternedString, 0, len(g.tasks))
	for name := range g.tasks {
		names = append(names, name)
	}
	slices.SortFunc(names, InternedString.Compare)
	return names
}
