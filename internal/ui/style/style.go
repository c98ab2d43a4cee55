// Package style provides shared colors, icons and the task prefix palette.
package style

import (
	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/lipgloss"
)

// Brand colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Cyan   = lipgloss.Color("#0EA5E9")
	Pink   = lipgloss.Color("#EC4899")
	Teal   = lipgloss.Color("#14B8A6")
	Orange = lipgloss.Color("#F97316")
	White  = lipgloss.Color("#FFFFFF")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dollar  = "$"
)

// Palette holds the colors task prefixes rotate through.
var Palette = []lipgloss.Color{Iris, Cyan, Pink, Teal, Orange, Yellow}

// TaskColor picks a stable palette color for a task name so a task keeps its color across runs.
func TaskColor(name string) lipgloss.Color {
	return Palette[xxhash.Sum64String(name)%uint64(len(Palette))]
}
