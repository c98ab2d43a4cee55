// Package linear renders task output as prefixed, line-buffered logs.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/tandem/internal/core/domain"
	"go.trai.ch/tandem/internal/ui/output"
	"go.trai.ch/tandem/internal/ui/style"
)

// Renderer implements ports.Renderer.
// Task output goes to stdout one complete line at a time, each line prefixed
// with its task name, so concurrent tasks interleave by line and never mid-line.
// Lifecycle messages go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	done     chan struct{}
	stopOnce sync.Once

	mu     sync.Mutex
	width  int
	tasks  map[string]*taskState
	prefix map[string]string
}

type taskState struct {
	name      string
	startTime time.Time
	buf       bytes.Buffer
}

// NewRenderer creates a Renderer. Nil writers default to os.Stdout and os.Stderr.
func NewRenderer(stdout, stderr io.Writer, profile termenv.Profile) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		output: output.NewWithProfile(stderr, profile),
		done:   make(chan struct{}),
		tasks:  make(map[string]*taskState),
		prefix: make(map[string]string),
	}
}

// Start does nothing; the renderer writes as events arrive.
func (r *Renderer) Start(context.Context) error { return nil }

// Wait blocks until Stop.
func (r *Renderer) Wait() error {
	<-r.done
	return nil
}

// OnPlanEmit prints the plan and aligns prefixes to the longest task name.
func (r *Renderer) OnPlanEmit(tasks []string, _ map[string][]string, targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range tasks {
		r.width = max(r.width, len(name))
	}
	clear(r.prefix)

	_, _ = fmt.Fprintf(r.stderr, "%s %d task(s) for %s\n",
		r.output.String(style.Arrow).Foreground(r.output.Color(string(style.Iris))),
		len(tasks), strings.Join(targets, ", "))
}

// OnTaskStart prints a start message.
func (r *Renderer) OnTaskStart(spanID, _, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = &taskState{name: name, startTime: startTime}
	_, _ = fmt.Fprintf(r.stderr, "%s %s\n", r.prefixLocked(name), r.output.String("started").Faint())
}

// OnTaskLog prints every complete line of data. A trailing partial line waits
// for more data or task completion.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	task.buf.Write(data)
	for {
		i := bytes.IndexByte(task.buf.Bytes(), '\n')
		if i < 0 {
			return
		}
		r.printLineLocked(task.name, task.buf.Next(i+1))
	}
}

// OnTaskComplete flushes the task's partial line and prints its outcome.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, outcome domain.TaskOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	r.flushLocked(task)
	delete(r.tasks, spanID)

	duration := endTime.Sub(task.startTime).Round(time.Millisecond)
	prefix := r.prefixLocked(task.name)
	if !outcome.Failed() {
		symbol := r.output.String(style.Check).Foreground(r.output.Color(string(style.Green)))
		_, _ = fmt.Fprintf(r.stderr, "%s %s done in %v\n", prefix, symbol, duration)
		return
	}
	symbol := r.output.String(style.Cross).Foreground(r.output.Color(string(style.Red)))
	_, _ = fmt.Fprintf(r.stderr, "%s %s %s\n", prefix, symbol, r.failureLocked(outcome, duration))
}

// failureLocked must be called with r.mu held.
func (r *Renderer) failureLocked(outcome domain.TaskOutcome, duration time.Duration) string {
	switch {
	case outcome.Prerequisite != "":
		return fmt.Sprintf("not run: prerequisite %s failed", outcome.Prerequisite)
	case outcome.MissingTool != "" && outcome.InstallHint != "":
		hint := r.output.String(outcome.InstallHint).Foreground(r.output.Color(string(style.Yellow)))
		return fmt.Sprintf("%s not found, install with: %s (exit %d)", outcome.MissingTool, hint, outcome.ExitCode)
	case outcome.MissingTool != "":
		return fmt.Sprintf("%s not found (exit %d)", outcome.MissingTool, outcome.ExitCode)
	default:
		return fmt.Sprintf("failed after %v (exit %d): %v", duration, outcome.ExitCode, outcome.Err)
	}
}

// Stop flushes partial lines of tasks that never completed and releases Wait.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	for _, task := range r.tasks {
		r.flushLocked(task)
	}
	r.mu.Unlock()

	r.stopOnce.Do(func() { close(r.done) })
	return nil
}

// flushLocked must be called with r.mu held.
func (r *Renderer) flushLocked(task *taskState) {
	if task.buf.Len() > 0 {
		r.printLineLocked(task.name, task.buf.Bytes())
		task.buf.Reset()
	}
}

// printLineLocked must be called with r.mu held.
func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "%s %s\n", r.prefixLocked(name), line)
}

// prefixLocked must be called with r.mu held.
func (r *Renderer) prefixLocked(name string) string {
	if p, ok := r.prefix[name]; ok {
		return p
	}
	label := fmt.Sprintf("%-*s", r.width+2, "["+name+"]")
	p := r.output.String(label).Foreground(r.output.Color(string(style.TaskColor(name)))).String()
	r.prefix[name] = p
	return p
}
