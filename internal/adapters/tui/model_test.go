package tui_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tandem/internal/adapters/tui"
	"go.trai.ch/tandem/internal/core/domain"
)

func names(nodes []*tui.TaskNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

// devModel plans deps, the two dev branches and the dev task that fans out to them.
func devModel(t *testing.T, width int) *tui.Model {
	t.Helper()
	m := tui.NewModel(io.Discard, termenv.Ascii)
	m.Update(tea.WindowSizeMsg{Width: width, Height: 24})
	m.Update(tui.MsgPlan{
		Tasks:   []string{"install", "backend:dev", "frontend:dev", "dev"},
		Targets: []string{"dev"},
	})
	return m
}

func TestModel_FanOutGetsOnePanePerBranch(t *testing.T) {
	m := devModel(t, 120)

	m.Update(tui.MsgTaskStart{SpanID: "d", Name: "dev"})
	assert.Equal(t, []string{"dev"}, names(m.Visible()))

	m.Update(tui.MsgTaskStart{SpanID: "b", ParentID: "d", Name: "backend:dev"})
	m.Update(tui.MsgTaskStart{SpanID: "f", ParentID: "d", Name: "frontend:dev"})
	assert.Equal(t, []string{"backend:dev", "frontend:dev"}, names(m.Visible()))

	m.Update(tui.MsgTaskLog{SpanID: "b", Data: []byte("listening on 127.0.0.1:8080")})
	m.Update(tui.MsgTaskLog{SpanID: "f", Data: []byte("VITE ready")})

	view := m.View()
	assert.Contains(t, view, "listening on 127.0.0.1:8080")
	assert.Contains(t, view, "VITE ready")
	assert.Contains(t, view, "backend:dev running · following")
	assert.Contains(t, view, "frontend:dev running · following")

	m.Update(tui.MsgTaskComplete{SpanID: "b", Outcome: domain.TaskOutcome{Err: errors.New("exited"), ExitCode: 2}})
	assert.Equal(t, []string{"frontend:dev"}, names(m.Visible()))
	assert.Equal(t, tui.StatusFailed, m.TaskMap["backend:dev"].Status)

	m.Update(tui.MsgTaskComplete{SpanID: "f"})
	assert.Equal(t, []string{"dev"}, names(m.Visible()), "the waiting parent is the only running task")

	m.Update(tui.MsgTaskComplete{SpanID: "d", Outcome: domain.TaskOutcome{Err: errors.New("exited"), ExitCode: 2}})
	assert.Equal(t, []string{"dev"}, names(m.Visible()), "the last finished task stays on screen")
}

func TestModel_PanesShareTheHeight(t *testing.T) {
	m := devModel(t, 120)

	m.Update(tui.MsgTaskStart{SpanID: "d", Name: "dev"})
	m.Update(tui.MsgTaskStart{SpanID: "b", ParentID: "d", Name: "backend:dev"})
	m.Update(tui.MsgTaskStart{SpanID: "f", ParentID: "d", Name: "frontend:dev"})
	m.Update(tui.MsgTaskLog{SpanID: "b", Data: []byte("1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n13\n14\n15\n16\n17\n18\n19\n20")})

	// 24 rows for two panes, one title row each.
	assert.Equal(t, 20-11, m.TaskMap["backend:dev"].Pane.Offset())

	m.Update(tui.MsgTaskComplete{SpanID: "f"})
	m.Update(tui.MsgTaskLog{SpanID: "b", Data: []byte("\n21")})
	assert.Equal(t, 0, m.TaskMap["backend:dev"].Pane.Offset(), "a single pane gets the full height")
}

func TestModel_SelectionSwitchesToManual(t *testing.T) {
	m := devModel(t, 120)

	m.Update(tui.MsgTaskStart{SpanID: "i", Name: "install"})
	assert.Equal(t, 0, m.SelectedIdx)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.False(t, m.FollowMode)
	assert.Equal(t, 1, m.SelectedIdx)
	assert.Equal(t, []string{"backend:dev"}, names(m.Visible()))

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 0, m.SelectedIdx)

	// Starting a task does not move the selection in manual mode.
	m.Update(tui.MsgTaskStart{SpanID: "d", Name: "dev"})
	assert.Equal(t, 0, m.SelectedIdx)
	assert.Contains(t, m.View(), "· manual")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.FollowMode)
	assert.Equal(t, []string{"install", "dev"}, names(m.Visible()))
	assert.Equal(t, 0, m.SelectedIdx)
}

func TestModel_Quit(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		m := devModel(t, 120)
		_, cmd := m.Update(key)
		require.NotNil(t, cmd, key.String())
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestModel_View(t *testing.T) {
	m := tui.NewModel(io.Discard, termenv.Ascii)
	assert.Equal(t, "Initializing...", m.View())

	m = devModel(t, 400)
	view := m.View()
	assert.Contains(t, view, "TASKS")
	assert.Contains(t, view, "○ install")
	assert.Contains(t, view, "waiting for tasks...")
	assert.NotContains(t, view, "FAILED")
}

func TestModel_ViewExplainsFailures(t *testing.T) {
	m := tui.NewModel(io.Discard, termenv.Ascii)
	m.Update(tea.WindowSizeMsg{Width: 400, Height: 24})
	m.Update(tui.MsgPlan{Tasks: []string{"backend:deps", "backend:build", "frontend:test"}})

	m.Update(tui.MsgTaskStart{SpanID: "deps", Name: "backend:deps"})
	m.Update(tui.MsgTaskComplete{SpanID: "deps", Outcome: domain.TaskOutcome{
		Err:         errors.New(`required tool "gotestsum" not found`),
		ExitCode:    domain.ExitPrecheckFailed,
		MissingTool: "gotestsum",
		InstallHint: "go install gotest.tools/gotestsum@latest",
	}})
	m.Update(tui.MsgTaskStart{SpanID: "build", Name: "backend:build"})
	m.Update(tui.MsgTaskComplete{SpanID: "build", Outcome: domain.TaskOutcome{
		Err:          errors.New("prerequisite failed"),
		ExitCode:     domain.ExitPrecheckFailed,
		Prerequisite: "backend:deps",
	}})
	m.Update(tui.MsgTaskStart{SpanID: "test", Name: "frontend:test"})
	m.Update(tui.MsgTaskComplete{SpanID: "test", Outcome: domain.TaskOutcome{
		Err:      errors.New(`"npm test" exited with code 3`),
		ExitCode: 3,
	}})

	view := m.View()
	assert.Contains(t, view, "FAILED")
	assert.Contains(t, view, "✗ backend:deps")
	assert.Contains(t, view, "gotestsum not found, install with: go install gotest.tools/gotestsum@latest (exit 69)")
	assert.Contains(t, view, `exit 3: "npm test" exited with code 3`)
	assert.Equal(t, 2, strings.Count(view, "✗ backend:deps"), "listed as a task and as a failure")
	assert.Equal(t, 1, strings.Count(view, "✗ backend:build"), "listed only as a task")
	assert.Contains(t, view, "frontend:test failed (exit 3)")

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Contains(t, m.View(), "backend:build not run: prerequisite backend:deps failed")
}
