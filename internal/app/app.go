// Package app implements the application layer for tandem.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"go.trai.ch/tandem/internal/adapters/detector"
	"go.trai.ch/tandem/internal/adapters/linear"
	"go.trai.ch/tandem/internal/adapters/telemetry"
	"go.trai.ch/tandem/internal/adapters/tui"
	"go.trai.ch/tandem/internal/core/domain"
	"go.trai.ch/tandem/internal/core/ports"
	"go.trai.ch/tandem/internal/engine/scheduler"
	"go.trai.ch/tandem/internal/ui/output"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	prober       ports.ToolProber
	envLoader    ports.EnvLoader
	logger       ports.Logger

	stdout     io.Writer
	stderr     io.Writer
	detect     func() detector.OutputMode
	teaOptions []tea.ProgramOption
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	prober ports.ToolProber,
	envLoader ports.EnvLoader,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		prober:       prober,
		envLoader:    envLoader,
		logger:       log,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		detect:       detector.DetectEnvironment,
	}
}

// WithOutput redirects task output and lifecycle messages.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithDetector replaces terminal detection.
func (a *App) WithDetector(detect func() detector.OutputMode) *App {
	a.detect = detect
	return a
}

// WithTeaOptions adds options for the interactive program, after the defaults.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// AllInterfaces binds dev and preview servers to 0.0.0.0 instead of 127.0.0.1.
	AllInterfaces bool
	// Env holds KEY=VALUE overrides. They win over the dotenv file.
	Env []string
	// EnvFile replaces <root>/.env.
	EnvFile string
	// NoDotenv skips the dotenv file entirely.
	NoDotenv bool
	// DryRun prints the steps without running them.
	DryRun bool
	// ConfigPath selects an explicit tandem.yaml instead of discovery.
	ConfigPath string
	// CI forces plain pipes and basic colors.
	CI bool
}

// Run executes the given tasks.
//
// Errors raised before any task starts are returned as they are. Failures of
// the run itself are joined with domain.ErrBuildExecutionFailed because the
// renderer has already reported them.
func (a *App) Run(ctx context.Context, targetNames []string, opts RunOptions) error {
	if len(targetNames) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	graph, err := a.loadGraph(opts.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	for _, name := range targetNames {
		if _, ok := graph.GetTask(domain.NewInternedString(name)); !ok {
			return zerr.With(domain.ErrTaskNotFound, "task", name)
		}
	}

	env, err := a.environment(graph.Root(), opts)
	if err != nil {
		return err
	}

	mode := detector.ResolveMode(a.detect(), opts.CI)
	profile := output.ColorProfileANSI()
	if mode == detector.ModeInteractive {
		profile = output.ColorProfile()
	}

	if opts.DryRun {
		a.logger.Info("dry run: steps are printed, nothing is executed or removed")
	}

	renderer := a.newRenderer(ctx, mode, profile, opts.DryRun)
	tracer := telemetry.NewOTelTracer(renderer)
	defer func() {
		_ = tracer.Shutdown(context.WithoutCancel(ctx))
	}()

	// Quitting the interface interrupts the run.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := renderer.Start(runCtx); err != nil {
		return zerr.Wrap(err, "failed to start renderer")
	}
	var g errgroup.Group
	g.Go(func() error {
		defer cancel()
		return renderer.Wait()
	})

	sched := scheduler.NewScheduler(a.executor, a.prober, tracer)
	err = sched.Run(runCtx, graph, targetNames, scheduler.RunOptions{
		Host:   domain.HostFor(opts.AllInterfaces),
		Env:    env,
		DryRun: opts.DryRun,
		PTY:    mode == detector.ModeInteractive,
	})
	_ = renderer.Stop()
	renderErr := g.Wait()

	if err != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	if renderErr != nil {
		return zerr.Wrap(renderErr, "renderer failed")
	}
	return nil
}

// newRenderer picks the interactive interface for terminals. CI output and dry
// runs, which only print steps, use prefixed lines.
func (a *App) newRenderer(
	ctx context.Context,
	mode detector.OutputMode,
	profile termenv.Profile,
	dryRun bool,
) ports.Renderer {
	if mode != detector.ModeInteractive || dryRun {
		return linear.NewRenderer(a.stdout, a.stderr, profile)
	}
	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(a.stdout)}, a.teaOptions...)
	return tui.NewRenderer(tui.NewModel(a.stdout, profile), opts...)
}

// Tasks lists the tasks available to an invocation, sorted by name.
func (a *App) Tasks(_ context.Context, configPath string) ([]domain.TaskInfo, error) {
	graph, err := a.loadGraph(configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return graph.Tasks(), nil
}

func (a *App) loadGraph(configPath string) (*domain.Graph, error) {
	if configPath != "" {
		return a.configLoader.LoadFile(configPath)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWorkingDirFailed.Error())
	}
	return a.configLoader.Load(cwd)
}

// environment merges the dotenv file with explicit overrides. The process environment is left alone.
func (a *App) environment(root string, opts RunOptions) (map[string]string, error) {
	env := make(map[string]string)

	if !opts.NoDotenv {
		path := opts.EnvFile
		if path == "" {
			path = filepath.Join(root, domain.DotenvFileName)
		}
		loaded, err := a.envLoader.Load(path)
		if err != nil {
			return nil, err
		}
		for k, v := range loaded {
			env[k] = v
		}
	}

	for _, kv := range opts.Env {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, zerr.With(domain.ErrInvalidEnvOverride, "value", kv)
		}
		env[key] = value
	}

	return env, nil
}
