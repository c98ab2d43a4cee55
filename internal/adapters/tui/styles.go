package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/tandem/internal/ui/style"
)

type styles struct {
	renderer *lipgloss.Renderer

	pending  lipgloss.Style
	running  lipgloss.Style
	done     lipgloss.Style
	failed   lipgloss.Style
	selected lipgloss.Style
	hint     lipgloss.Style
	faint    lipgloss.Style

	title        lipgloss.Style
	failureTitle lipgloss.Style
	list         lipgloss.Style
	panes        lipgloss.Style
}

func newStyles(w io.Writer, profile termenv.Profile) styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)

	return styles{
		renderer: r,
		pending:  r.NewStyle().Foreground(style.Slate),
		running:  r.NewStyle().Foreground(style.Iris).Bold(true),
		done:     r.NewStyle().Foreground(style.Green),
		failed:   r.NewStyle().Foreground(style.Red),
		selected: r.NewStyle().Foreground(style.Iris).Bold(true),
		hint:     r.NewStyle().Foreground(style.Yellow),
		faint:    r.NewStyle().Faint(true),
		title: r.NewStyle().Bold(true).Padding(0, 1).
			Background(style.Iris).Foreground(style.White),
		failureTitle: r.NewStyle().Bold(true).Padding(0, 1).
			Background(style.Red).Foreground(style.White),
		list: r.NewStyle().MarginRight(1),
		panes: r.NewStyle().PaddingLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(style.Slate),
	}
}

// taskTitle renders a pane title in the task's prefix color.
func (s styles) taskTitle(name string) lipgloss.Style {
	return s.renderer.NewStyle().Bold(true).Foreground(style.TaskColor(name))
}
