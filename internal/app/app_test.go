package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tandem/internal/adapters/detector"
	"go.trai.ch/tandem/internal/app"
	"go.trai.ch/tandem/internal/core/domain"
	"go.trai.ch/tandem/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type appTestMocks struct {
	loader    *mocks.MockConfigLoader
	executor  *mocks.MockExecutor
	prober    *mocks.MockToolProber
	envLoader *mocks.MockEnvLoader
	logger    *mocks.MockLogger
}

func setupApp(t *testing.T, mode detector.OutputMode) (*app.App, appTestMocks, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	ctrl := gomock.NewController(t)
	m := appTestMocks{
		loader:    mocks.NewMockConfigLoader(ctrl),
		executor:  mocks.NewMockExecutor(ctrl),
		prober:    mocks.NewMockToolProber(ctrl),
		envLoader: mocks.NewMockEnvLoader(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}

	var stdout, stderr bytes.Buffer
	a := app.New(m.loader, m.executor, m.prober, m.envLoader, m.logger).
		WithOutput(&stdout, &stderr).
		WithDetector(func() detector.OutputMode { return mode }).
		WithTeaOptions(
			tea.WithInput(strings.NewReader("")),
			tea.WithOutput(io.Discard),
			tea.WithoutSignalHandler(),
			tea.WithoutRenderer(),
		)
	return a, m, &stdout, &stderr
}

func devGraph(t *testing.T) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	g.SetRoot("/srv/app")
	tasks := []domain.Task{
		{
			Name:      domain.NewInternedString("frontend:dev"),
			Prechecks: []domain.Precheck{{Tool: "npm", Hint: "install Node.js"}},
			Steps: []domain.Step{{
				Command:     []string{"npm", "run", "dev", "--", "--host", domain.HostPlaceholder},
				WorkingDir:  domain.NewInternedString("frontend"),
				Environment: map[string]string{"HOST": domain.HostPlaceholder},
			}},
		},
		{Name: domain.NewInternedString("dev"), Parallel: domain.NewInternedStrings([]string{"frontend:dev"})},
	}
	for i := range tasks {
		require.NoError(t, g.AddTask(&tasks[i]))
	}
	return g
}

func TestApp_Run(t *testing.T) {
	a, m, stdout, stderr := setupApp(t, detector.ModeCI)

	m.loader.EXPECT().Load(gomock.Any()).Return(devGraph(t), nil)
	m.envLoader.EXPECT().Load("/srv/app/.env").Return(map[string]string{"API_URL": "http://dotenv", "MODE": "dotenv"}, nil)
	m.prober.EXPECT().Probe(domain.Precheck{Tool: "npm", Hint: "install Node.js"}, gomock.Any()).
		Return(domain.Ready("npm", "/usr/bin/npm"))

	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command, out, _ io.Writer) error {
			assert.Equal(t, []string{"npm", "run", "dev", "--", "--host", "127.0.0.1"}, cmd.Argv)
			assert.Equal(t, "/srv/app/frontend", cmd.Dir)
			assert.Equal(t, map[string]string{
				"API_URL": "http://dotenv",
				"MODE":    "cli",
				"HOST":    "127.0.0.1",
			}, cmd.Env)
			assert.False(t, cmd.PTY)
			_, err := io.WriteString(out, "VITE ready\n")
			return err
		},
	)

	err := a.Run(context.Background(), []string{"dev"}, app.RunOptions{Env: []string{"MODE=cli"}})
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "[frontend:dev] $ npm run dev -- --host 127.0.0.1\n")
	assert.Contains(t, stdout.String(), "[frontend:dev] VITE ready\n")
	assert.Contains(t, stderr.String(), "2 task(s) for dev")
	assert.Contains(t, stderr.String(), "[frontend:dev] ✓ done in")
}

func TestApp_Run_AllInterfacesInteractive(t *testing.T) {
	a, m, _, _ := setupApp(t, detector.ModeInteractive)

	m.loader.EXPECT().LoadFile("/srv/app/tandem.yaml").Return(devGraph(t), nil)
	m.prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(domain.Ready("npm", "/usr/bin/npm"))
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command, _, _ io.Writer) error {
			assert.Equal(t, "0.0.0.0", cmd.Argv[len(cmd.Argv)-1])
			assert.Equal(t, "0.0.0.0", cmd.Env["HOST"])
			assert.True(t, cmd.PTY)
			return nil
		},
	)

	err := a.Run(context.Background(), []string{"frontend:dev"}, app.RunOptions{
		AllInterfaces: true,
		NoDotenv:      true,
		ConfigPath:    "/srv/app/tandem.yaml",
	})
	require.NoError(t, err)
}

func TestApp_Run_QuittingInterfaceInterrupts(t *testing.T) {
	a, m, _, _ := setupApp(t, detector.ModeInteractive)
	a.WithTeaOptions(tea.WithInput(strings.NewReader("q")))

	m.loader.EXPECT().Load(gomock.Any()).Return(devGraph(t), nil)
	m.envLoader.EXPECT().Load(gomock.Any()).Return(nil, nil)
	m.prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(domain.Ready("npm", "/usr/bin/npm")).AnyTimes()
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, cmd domain.Command, _, _ io.Writer) error {
			<-ctx.Done()
			return &domain.StepFailure{Task: cmd.Task, Command: cmd.String(), Code: domain.ExitInterrupted, Err: ctx.Err()}
		},
	).AnyTimes()

	err := a.Run(context.Background(), []string{"dev"}, app.RunOptions{})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	assert.Equal(t, domain.ExitInterrupted, domain.ExitCode(err))
}

func TestApp_Run_CIForcesPipes(t *testing.T) {
	a, m, _, _ := setupApp(t, detector.ModeInteractive)

	m.loader.EXPECT().Load(gomock.Any()).Return(devGraph(t), nil)
	m.envLoader.EXPECT().Load("/tmp/ci.env").Return(nil, nil)
	m.prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(domain.Ready("npm", "/usr/bin/npm"))
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command, _, _ io.Writer) error {
			assert.False(t, cmd.PTY)
			return nil
		},
	)

	err := a.Run(context.Background(), []string{"frontend:dev"}, app.RunOptions{CI: true, EnvFile: "/tmp/ci.env"})
	require.NoError(t, err)
}

func TestApp_Run_ExecutionFailure(t *testing.T) {
	a, m, _, stderr := setupApp(t, detector.ModeCI)

	m.loader.EXPECT().Load(gomock.Any()).Return(devGraph(t), nil)
	m.envLoader.EXPECT().Load(gomock.Any()).Return(map[string]string{}, nil)
	m.prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(domain.Missing("npm", "install Node.js"))

	err := a.Run(context.Background(), []string{"dev"}, app.RunOptions{})
	require.Error(t, err)

	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	assert.Equal(t, domain.ExitPrecheckFailed, domain.ExitCode(err))
	assert.Contains(t, stderr.String(), `[frontend:dev] ✗ npm not found, install with: install Node.js (exit 69)`)
	assert.Regexp(t, `\[dev\] +✗ failed after .* \(exit 69\)`, stderr.String())
}

func TestApp_Run_DryRun(t *testing.T) {
	a, m, stdout, _ := setupApp(t, detector.ModeCI)

	m.loader.EXPECT().Load(gomock.Any()).Return(devGraph(t), nil)
	m.envLoader.EXPECT().Load(gomock.Any()).Return(nil, nil)
	m.prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(domain.Ready("npm", "/usr/bin/npm"))
	m.logger.EXPECT().Info(gomock.Any())

	err := a.Run(context.Background(), []string{"dev"}, app.RunOptions{DryRun: true})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "[frontend:dev] $ npm run dev -- --host 127.0.0.1\n")
}

func TestApp_Run_ErrorsBeforeExecution(t *testing.T) {
	loadErr := errors.New("yaml: line 3: mapping values are not allowed")

	tests := []struct {
		name    string
		targets []string
		opts    app.RunOptions
		setup   func(m appTestMocks)
		wantErr string
	}{
		{
			name:    "no targets",
			setup:   func(appTestMocks) {},
			wantErr: domain.ErrNoTargetsSpecified.Error(),
		},
		{
			name:    "config error",
			targets: []string{"dev"},
			setup: func(m appTestMocks) {
				m.loader.EXPECT().Load(gomock.Any()).Return(nil, loadErr)
			},
			wantErr: "failed to load configuration",
		},
		{
			name:    "unknown task",
			targets: []string{"deploy"},
			setup: func(m appTestMocks) {
				m.loader.EXPECT().Load(gomock.Any()).Return(devGraph(t), nil)
			},
			wantErr: domain.ErrTaskNotFound.Error(),
		},
		{
			name:    "invalid env override",
			targets: []string{"dev"},
			opts:    app.RunOptions{Env: []string{"NOEQUALS"}, NoDotenv: true},
			setup: func(m appTestMocks) {
				m.loader.EXPECT().Load(gomock.Any()).Return(devGraph(t), nil)
			},
			wantErr: domain.ErrInvalidEnvOverride.Error(),
		},
		{
			name:    "dotenv error",
			targets: []string{"dev"},
			setup: func(m appTestMocks) {
				m.loader.EXPECT().Load(gomock.Any()).Return(devGraph(t), nil)
				m.envLoader.EXPECT().Load(gomock.Any()).Return(nil, domain.ErrDotenvReadFailed)
			},
			wantErr: domain.ErrDotenvReadFailed.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, m, _, _ := setupApp(t, detector.ModeCI)
			tt.setup(m)

			err := a.Run(context.Background(), tt.targets, tt.opts)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
			assert.NotErrorIs(t, err, domain.ErrBuildExecutionFailed)
			assert.Equal(t, domain.ExitFailure, domain.ExitCode(err))
		})
	}
}

func TestApp_Tasks(t *testing.T) {
	a, m, _, _ := setupApp(t, detector.ModeCI)
	m.loader.EXPECT().Load(gomock.Any()).Return(devGraph(t), nil)

	tasks, err := a.Tasks(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []domain.TaskInfo{{Name: "dev"}, {Name: "frontend:dev"}}, tasks)
}
