package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/tandem/internal/core/domain"
	"go.trai.ch/tandem/internal/ui/style"
)

// View renders the UI.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.taskList(),
		m.panes(),
	)
}

func (m *Model) taskList() string {
	var s strings.Builder

	s.WriteString(m.styles.title.Render("TASKS") + "\n\n")

	start := min(m.ListOffset, len(m.Tasks))
	end := min(m.ListOffset+m.ListHeight, len(m.Tasks))
	for i := start; i < end; i++ {
		s.WriteString(m.taskRow(i, m.Tasks[i]) + "\n")
	}

	if failures := m.failures(); failures != "" {
		s.WriteString("\n" + failures)
	}

	return m.styles.list.Width(m.ListWidth).Render(s.String())
}

func (m *Model) taskRow(index int, task *TaskNode) string {
	icon, st := m.taskIcon(task)

	cursor := "  "
	if index == m.SelectedIdx {
		cursor = m.styles.selected.Render("> ")
		if task.Status == StatusPending || task.Status == StatusRunning {
			st = m.styles.selected
		}
	}
	return cursor + st.Render(icon+" "+task.Name)
}

func (m *Model) taskIcon(task *TaskNode) (string, lipgloss.Style) {
	switch task.Status {
	case StatusRunning:
		return "●", m.styles.running
	case StatusDone:
		return style.Check, m.styles.done
	case StatusFailed:
		return style.Cross, m.styles.failed
	default:
		return "○", m.styles.pending
	}
}

// failures lists the tasks that failed on their own. Tasks stopped by a failed
// prerequisite are left out; the prerequisite is listed instead.
func (m *Model) failures() string {
	var lines []string
	for _, task := range m.Tasks {
		if task.Status != StatusFailed || task.Outcome.Prerequisite != "" {
			continue
		}
		lines = append(lines, m.styles.failed.Render(style.Cross+" "+task.Name)+"\n  "+m.describe(task.Outcome))
	}
	if len(lines) == 0 {
		return ""
	}
	return m.styles.failureTitle.Render("FAILED") + "\n" + strings.Join(lines, "\n") + "\n"
}

func (m *Model) describe(outcome domain.TaskOutcome) string {
	switch {
	case outcome.MissingTool != "" && outcome.InstallHint != "":
		return fmt.Sprintf("%s not found, install with: %s (exit %d)",
			outcome.MissingTool, m.styles.hint.Render(outcome.InstallHint), outcome.ExitCode)
	case outcome.MissingTool != "":
		return fmt.Sprintf("%s not found (exit %d)", outcome.MissingTool, outcome.ExitCode)
	default:
		return fmt.Sprintf("exit %d: %v", outcome.ExitCode, outcome.Err)
	}
}

func (m *Model) panes() string {
	nodes := m.Visible()
	if len(nodes) == 0 {
		return m.styles.panes.Render(m.styles.faint.Render("waiting for tasks..."))
	}

	mode := "following"
	if !m.FollowMode {
		mode = "manual"
	}

	views := make([]string, 0, len(nodes))
	for _, node := range nodes {
		header := m.styles.taskTitle(node.Name).Render(node.Name) + " " +
			m.styles.faint.Render(m.paneStatus(node)+" · "+mode)
		views = append(views, header+"\n"+node.Pane.View())
	}
	return m.styles.panes.Render(lipgloss.JoinVertical(lipgloss.Left, views...))
}

func (m *Model) paneStatus(node *TaskNode) string {
	switch node.Status {
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	case StatusFailed:
		if node.Outcome.Prerequisite != "" {
			return "not run: prerequisite " + node.Outcome.Prerequisite + " failed"
		}
		return fmt.Sprintf("failed (exit %d)", node.Outcome.ExitCode)
	default:
		return "pending"
	}
}
