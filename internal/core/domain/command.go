package domain

import "strings"

// Command is a fully resolved process invocation handed to an executor.
// Env holds overrides only; the executor layers them over the invoking process environment.
// PTY attaches the child to a pseudo-terminal instead of plain pipes.
type Command struct {
	Task string
	Argv []string
	Dir  string
	Env  map[string]string
	PTY  bool
}

// String returns the argv joined by spaces.
func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}
