package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.trai.ch/tandem/internal/core/domain"
	"go.trai.ch/tandem/internal/ui/output"
	"go.trai.ch/tandem/internal/ui/style"
)

const helpDescription = "List available tasks"

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"tasks"},
		Short:   "List available tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.printTasks(cmd)
		},
	}
}

func (c *CLI) printTasks(cmd *cobra.Command) error {
	tasks, err := c.app.Tasks(cmd.Context(), c.configPath)
	if err != nil {
		return err
	}
	tasks = append(tasks, domain.TaskInfo{Name: domain.HelpTaskName, Description: helpDescription})
	renderTasks(cmd.OutOrStdout(), tasks)
	return nil
}

// renderTasks prints one task per line with descriptions aligned in a second column.
func renderTasks(w io.Writer, tasks []domain.TaskInfo) {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(output.ColorProfile())

	width := 0
	for _, t := range tasks {
		width = max(width, len(t.Name))
	}

	_, _ = fmt.Fprintln(w, r.NewStyle().Bold(true).Render("Available tasks:"))
	for _, t := range tasks {
		name := r.NewStyle().Foreground(style.TaskColor(t.Name)).Render(t.Name)
		if t.Description == "" {
			_, _ = fmt.Fprintf(w, "  %s\n", name)
			continue
		}
		pad := strings.Repeat(" ", width-len(t.Name)+2)
		desc := r.NewStyle().Foreground(style.Slate).Render(t.Description)
		_, _ = fmt.Fprintf(w, "  %s%s%s\n", name, pad, desc)
	}
}
