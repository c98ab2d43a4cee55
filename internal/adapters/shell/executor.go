// Package shell runs task commands as child processes.
package shell

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/creack/pty"
	"go.trai.ch/tandem/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultWaitDelay is how long a canceled child may take to exit after the interrupt before it is killed.
const DefaultWaitDelay = 10 * time.Second

// Executor implements ports.Executor using os/exec, or a pty when the command asks for one.
type Executor struct {
	waitDelay time.Duration
	environ   func() []string
}

// NewExecutor creates a new Executor inheriting the process environment.
func NewExecutor() *Executor {
	return &Executor{
		waitDelay: DefaultWaitDelay,
		environ:   os.Environ,
	}
}

// WithWaitDelay overrides DefaultWaitDelay.
func (e *Executor) WithWaitDelay(d time.Duration) *Executor {
	e.waitDelay = d
	return e
}

// Execute runs cmd and waits for it to exit.
func (e *Executor) Execute(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error {
	if len(cmd.Argv) == 0 || cmd.Argv[0] == "" {
		return zerr.With(domain.ErrEmptyCommand, "task", cmd.Task)
	}

	env := resolveEnvironment(e.environ(), cmd.Env)
	name := cmd.Argv[0]

	executable := name
	if !strings.ContainsRune(name, filepath.Separator) {
		lp, err := lookPath(name, env)
		if err != nil {
			return e.failure(cmd, domain.ExitCommandNotFound, zerr.With(zerr.Wrap(err, "command not found"), "command", name))
		}
		executable = lp
	}

	c := exec.CommandContext(ctx, executable, cmd.Argv[1:]...) //nolint:gosec // commands come from the task catalogue
	c.Args[0] = name
	c.Dir = cmd.Dir
	c.Env = env
	c.Cancel = func() error {
		return c.Process.Signal(os.Interrupt)
	}
	c.WaitDelay = e.waitDelay

	var wait func() error
	var err error
	if cmd.PTY {
		wait, err = startPTY(c, stdout)
	} else {
		c.Stdout = stdout
		c.Stderr = stderr
		err = c.Start()
		wait = c.Wait
	}
	if err != nil {
		code := domain.ExitCannotExecute
		switch {
		case ctx.Err() != nil:
			code = domain.ExitInterrupted
		case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
			code = domain.ExitCommandNotFound
		}
		return e.failure(cmd, code, zerr.Wrap(err, "failed to start command"))
	}

	if err := wait(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		if code < 0 && ctx.Err() != nil {
			code = domain.ExitInterrupted
		}
		return e.failure(cmd, code, zerr.With(zerr.Wrap(err, "command failed"), "exit_code", code))
	}

	return nil
}

func (e *Executor) failure(cmd domain.Command, code int, err error) error {
	return &domain.StepFailure{
		Task:    cmd.Task,
		Command: cmd.String(),
		Code:    code,
		Err:     err,
	}
}

// startPTY starts c on a pseudo-terminal. The terminal merges stdout and stderr.
func startPTY(c *exec.Cmd, stdout io.Writer) (func() error, error) {
	ptmx, err := pty.Start(c)
	if err != nil {
		return nil, err
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// Reading the master fails with EIO once the child side closes.
		_, _ = io.Copy(stdout, ptmx)
	}()

	return func() error {
		err := c.Wait()
		<-ioDone
		_ = ptmx.Close()
		return err
	}, nil
}

// resolveEnvironment returns sysEnv with overrides applied, sorted by key.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the directories named by PATH in env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if p, ok := strings.CutPrefix(e, "PATH="); ok {
			path = p
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return fs.ErrPermission
}
