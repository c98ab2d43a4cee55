// Package scheduler runs tasks of a graph: prerequisites in order, parallel branches joined.
package scheduler

import (
	"context"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/tandem/internal/core/domain"
	"go.trai.ch/tandem/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to be executed.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the task has finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the task execution failed.
	StatusFailed TaskStatus = "Failed"
)

// echoPrefix marks a step echoed into its task output before it runs.
const echoPrefix = "$ "

// RunOptions configures one invocation.
type RunOptions struct {
	// Host replaces the host placeholder in argv and environment values.
	Host domain.BindHost
	// Env is layered under task and step environments. It already holds dotenv
	// values overridden by explicit overrides.
	Env map[string]string
	// DryRun echoes steps without running commands or removing paths.
	DryRun bool
	// PTY runs commands attached to a pseudo-terminal.
	PTY bool
}

// Scheduler manages the execution of tasks in the dependency graph.
type Scheduler struct {
	executor ports.Executor
	prober   ports.ToolProber
	tracer   ports.Tracer

	mu         sync.RWMutex
	taskStatus map[domain.InternedString]TaskStatus
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(executor ports.Executor, prober ports.ToolProber, tracer ports.Tracer) *Scheduler {
	return &Scheduler{
		executor:   executor,
		prober:     prober,
		tracer:     tracer,
		taskStatus: make(map[domain.InternedString]TaskStatus),
	}
}

func (s *Scheduler) initTaskStatuses(tasks []domain.InternedString) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.taskStatus)
	for _, task := range tasks {
		s.taskStatus[task] = StatusPending
	}
}

func (s *Scheduler) updateStatus(name domain.InternedString, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

// Run executes targetNames one after another. The first failing target aborts the rest.
func (s *Scheduler) Run(ctx context.Context, graph *domain.Graph, targetNames []string, opts RunOptions) error {
	if len(targetNames) == 0 {
		return domain.ErrNoTargetsSpecified
	}
	if err := graph.Validate(); err != nil {
		return err
	}

	targets := domain.NewInternedStrings(targetNames)
	plan, err := graph.Plan(targets)
	if err != nil {
		return err
	}

	planned := make([]string, len(plan))
	deps := make(map[string][]string, len(plan))
	state := &runState{
		s:     s,
		graph: graph,
		opts:  opts,
		runs:  make(map[domain.InternedString]*taskRun, len(plan)),
	}
	for i, name := range plan {
		planned[i] = name.String()
		task, _ := graph.GetTask(name)
		edges := task.Edges()
		names := make([]string, len(edges))
		for j, edge := range edges {
			names[j] = edge.String()
		}
		deps[planned[i]] = names
		state.runs[name] = &taskRun{done: make(chan struct{})}
	}

	s.tracer.EmitPlan(ctx, planned, deps, targetNames)
	s.initTaskStatuses(plan)

	for _, target := range targets {
		if err := state.run(ctx, target); err != nil {
			return err
		}
	}
	return nil
}

// taskRun memoizes one task body per invocation. done is closed once err is final.
type taskRun struct {
	started bool
	done    chan struct{}
	err     error
}

type runState struct {
	s     *Scheduler
	graph *domain.Graph
	opts  RunOptions

	mu sync.Mutex
	// runs is fully populated before execution starts; mu guards taskRun.started.
	runs map[domain.InternedString]*taskRun
}

// run executes the task at most once. Concurrent callers wait for the first and share its result.
func (state *runState) run(ctx context.Context, name domain.InternedString) error {
	tr := state.runs[name]

	state.mu.Lock()
	first := !tr.started
	tr.started = true
	state.mu.Unlock()

	if first {
		tr.err = state.execute(ctx, name)
		close(tr.done)
		return tr.err
	}

	<-tr.done
	return tr.err
}

func (state *runState) execute(ctx context.Context, name domain.InternedString) error {
	task, _ := state.graph.GetTask(name)

	ctx, span := state.s.tracer.Start(ctx, name.String())
	defer span.End()
	state.s.updateStatus(name, StatusRunning)

	env := state.taskEnvironment(&task)

	err := state.executeTask(ctx, &task, env, span)
	if err == nil {
		state.s.updateStatus(name, StatusCompleted)
		return nil
	}

	state.s.updateStatus(name, StatusFailed)
	var prereq *prerequisiteError
	if errors.As(err, &prereq) {
		setAttributes(span, domain.FailureAttributes(prereq.err, prereq.task))
		span.RecordError(zerr.With(domain.ErrPrerequisiteFailed, "task", prereq.task))
		return prereq.err
	}
	setAttributes(span, domain.FailureAttributes(err, ""))
	span.RecordError(err)
	return zerr.With(zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error()), "task", name.String())
}

func setAttributes(span ports.Span, attrs map[string]any) {
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		span.SetAttribute(key, attrs[key])
	}
}

// prerequisiteError carries an already reported failure of a prerequisite through its dependents unchanged.
type prerequisiteError struct {
	task string
	err  error
}

func (e *prerequisiteError) Error() string { return e.err.Error() }

func (state *runState) executeTask(ctx context.Context, task *domain.Task, env map[string]string, span ports.Span) error {
	for _, pc := range task.Prechecks {
		if res := state.s.prober.Probe(pc, env); !res.IsReady() {
			return &domain.PrecheckFailure{Task: task.Name.String(), Tool: res.Tool, Hint: res.Hint}
		}
	}

	for _, dep := range task.Dependencies {
		if err := state.run(ctx, dep); err != nil {
			return &prerequisiteError{task: dep.String(), err: err}
		}
	}

	if len(task.Parallel) > 0 {
		if err := state.fanOut(ctx, task); err != nil {
			return err
		}
	}

	for _, step := range task.Steps {
		if err := state.runStep(ctx, task, step, env, span); err != nil {
			return err
		}
	}
	return nil
}

// fanOut runs every parallel branch to completion. A failing branch never cancels its siblings.
func (state *runState) fanOut(ctx context.Context, task *domain.Task) error {
	results := make([]error, len(task.Parallel))

	var g errgroup.Group
	for i, branch := range task.Parallel {
		g.Go(func() error {
			results[i] = state.run(ctx, branch)
			return nil
		})
	}
	_ = g.Wait()

	var failures []error
	for _, err := range results {
		if err != nil {
			failures = append(failures, err)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &domain.AggregateFailure{Task: task.Name.String(), Failures: failures}
}

func (state *runState) runStep(
	ctx context.Context,
	task *domain.Task,
	step domain.Step,
	taskEnv map[string]string,
	span ports.Span,
) error {
	if step.IsRemove() {
		_, _ = span.Write([]byte(echoPrefix + step.String() + "\n"))
		if state.opts.DryRun {
			return nil
		}
		return state.remove(step)
	}

	cmd := state.command(task, step, taskEnv)
	_, _ = span.Write([]byte(echoPrefix + cmd.String() + "\n"))
	if state.opts.DryRun {
		return nil
	}
	if ctx.Err() != nil {
		return &domain.StepFailure{
			Task:    cmd.Task,
			Command: cmd.String(),
			Code:    domain.ExitInterrupted,
			Err:     ctx.Err(),
		}
	}
	return state.s.executor.Execute(ctx, cmd, span, span)
}

// taskEnvironment layers the task environment over the invocation environment
// and expands the host placeholder in every value.
func (state *runState) taskEnvironment(task *domain.Task) map[string]string {
	env := make(map[string]string, len(state.opts.Env)+len(task.Environment))
	maps.Copy(env, state.opts.Env)
	maps.Copy(env, task.Environment)
	for k, v := range env {
		env[k] = state.opts.Host.Expand(v)
	}
	return env
}

func (state *runState) command(task *domain.Task, step domain.Step, taskEnv map[string]string) domain.Command {
	env := maps.Clone(taskEnv)
	for k, v := range step.Environment {
		env[k] = state.opts.Host.Expand(v)
	}

	argv := make([]string, len(step.Command))
	for i, arg := range step.Command {
		argv[i] = state.opts.Host.Expand(arg)
	}

	return domain.Command{
		Task: task.Name.String(),
		Argv: argv,
		Dir:  state.resolve(step.WorkingDir.String()),
		Env:  env,
		PTY:  state.opts.PTY,
	}
}

// resolve makes p absolute against the project root. An empty p is the root.
func (state *runState) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(state.graph.Root(), p)
}

// remove deletes the step's paths. Missing paths are fine; paths outside the root are refused.
func (state *runState) remove(step domain.Step) error {
	rootAbs, err := filepath.Abs(state.graph.Root())
	if err != nil {
		return zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	for _, p := range step.Remove {
		path := p.String()
		abs, err := filepath.Abs(state.resolve(path))
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrFailedToResolveRelativePath.Error()), "path", path)
		}

		rel, err := filepath.Rel(rootAbs, abs)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrFailedToResolveRelativePath.Error()), "path", path)
		}
		if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return zerr.With(domain.ErrOutputPathOutsideRoot, "path", path)
		}

		if err := os.RemoveAll(abs); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrFailedToCleanOutput.Error()), "path", path)
		}
	}
	return nil
}
