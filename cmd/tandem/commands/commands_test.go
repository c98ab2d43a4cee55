package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tandem/cmd/tandem/commands"
	"go.trai.ch/tandem/internal/app"
	"go.trai.ch/tandem/internal/build"
	"go.trai.ch/tandem/internal/core/domain"
)

type mockApp struct {
	runFunc   func(ctx context.Context, targetNames []string, opts app.RunOptions) error
	tasksFunc func(ctx context.Context, configPath string) ([]domain.TaskInfo, error)
}

func (m *mockApp) Run(ctx context.Context, targetNames []string, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, targetNames, opts)
	}
	return nil
}

func (m *mockApp) Tasks(ctx context.Context, configPath string) ([]domain.TaskInfo, error) {
	if m.tasksFunc != nil {
		return m.tasksFunc(ctx, configPath)
	}
	return nil, nil
}

var sampleTasks = []domain.TaskInfo{
	{Name: "backend:build", Description: "Compile the backend"},
	{Name: "dev", Description: "Start both dev servers"},
	{Name: "lint"},
}

func TestCommands_Run(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedOpts app.RunOptions
		var capturedTargets []string
		called := false

		mock := &mockApp{
			runFunc: func(_ context.Context, targetNames []string, opts app.RunOptions) error {
				capturedOpts = opts
				capturedTargets = targetNames
				called = true
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{
			"run", "backend:deps", "dev",
			"-a", "-e", "PORT=9000", "--env", "DEBUG=1",
			"--env-file", "ci.env", "-n", "--ci", "-c", "/srv/app/tandem.yaml",
		})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, []string{"backend:deps", "dev"}, capturedTargets)
		assert.Equal(t, app.RunOptions{
			AllInterfaces: true,
			Env:           []string{"PORT=9000", "DEBUG=1"},
			EnvFile:       "ci.env",
			DryRun:        true,
			ConfigPath:    "/srv/app/tandem.yaml",
			CI:            true,
		}, capturedOpts)
	})

	t.Run("defaults", func(t *testing.T) {
		var capturedOpts app.RunOptions
		mock := &mockApp{
			runFunc: func(_ context.Context, _ []string, opts app.RunOptions) error {
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "build", "--no-dotenv"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.True(t, capturedOpts.NoDotenv)
		assert.False(t, capturedOpts.AllInterfaces)
		assert.False(t, capturedOpts.DryRun)
		assert.False(t, capturedOpts.CI)
		assert.Empty(t, capturedOpts.Env)
		assert.Empty(t, capturedOpts.EnvFile)
		assert.Empty(t, capturedOpts.ConfigPath)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ []string, _ app.RunOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "target"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("env-file and no-dotenv are exclusive", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ []string, _ app.RunOptions) error {
				panic("should not be called")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "build", "--env-file", "x.env", "--no-dotenv"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "none of the others can be")
	})

	t.Run("shows usage when no targets provided", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ []string, _ app.RunOptions) error {
				panic("should not be called")
			},
		}

		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, buf)
		cli.SetArgs([]string{"run"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Contains(t, buf.String(), "Usage:")
		assert.Contains(t, buf.String(), "--all-interfaces")
	})

	t.Run("help task lists tasks instead of running", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		mock := &mockApp{
			runFunc: func(_ context.Context, _ []string, _ app.RunOptions) error {
				panic("should not be called")
			},
			tasksFunc: func(_ context.Context, _ string) ([]domain.TaskInfo, error) {
				return sampleTasks, nil
			},
		}

		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, new(bytes.Buffer))
		cli.SetArgs([]string{"run", "build", domain.HelpTaskName})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Contains(t, buf.String(), "Available tasks:")
		assert.Contains(t, buf.String(), "backend:build")
	})
}

func TestCommands_List(t *testing.T) {
	t.Run("renders aligned table", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		var capturedPath string
		mock := &mockApp{
			tasksFunc: func(_ context.Context, configPath string) ([]domain.TaskInfo, error) {
				capturedPath = configPath
				return sampleTasks, nil
			},
		}

		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, new(bytes.Buffer))
		cli.SetArgs([]string{"list", "--config", "tandem.yaml"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "tandem.yaml", capturedPath)

		g := goldie.New(t)
		g.Assert(t, "list", buf.Bytes())
	})

	t.Run("tasks alias", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		mock := &mockApp{
			tasksFunc: func(_ context.Context, _ string) ([]domain.TaskInfo, error) {
				return nil, nil
			},
		}

		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, new(bytes.Buffer))
		cli.SetArgs([]string{"tasks"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "Available tasks:\n  help  List available tasks\n", buf.String())
	})

	t.Run("returns load error", func(t *testing.T) {
		mock := &mockApp{
			tasksFunc: func(_ context.Context, _ string) ([]domain.TaskInfo, error) {
				return nil, errors.New("no project root")
			},
		}

		cli := commands.New(mock)
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
		cli.SetArgs([]string{"list"})

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no project root")
	})
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{})
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t,
		"tandem version "+build.Version+" (commit: "+build.Commit+", date: "+build.Date+")\n",
		buf.String())
}

func TestCommands_VersionFlag(t *testing.T) {
	cli := commands.New(&mockApp{})
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"--version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), "tandem version "+build.Version)
}
