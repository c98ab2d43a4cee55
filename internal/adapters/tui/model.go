package tui

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"go.trai.ch/tandem/internal/core/domain"
)

const (
	listWidthRatio = 0.3
	// listHeaderHeight is the title row plus a blank line.
	listHeaderHeight = 2
	// paneHeaderHeight is the title row above each pane.
	paneHeaderHeight = 1
	// paneChrome is the list margin plus the pane border and padding.
	paneChrome = 3
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to start.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusDone indicates the task completed successfully.
	StatusDone TaskStatus = "Done"
	// StatusFailed indicates the task failed or never ran because a prerequisite failed.
	StatusFailed TaskStatus = "Failed"
)

// TaskNode is one planned task with its output pane.
type TaskNode struct {
	Name    string
	Status  TaskStatus
	Pane    *Pane
	Outcome domain.TaskOutcome

	parent *TaskNode
	// active counts children that are running, such as the branches of a fan-out.
	active int
}

// Model is the interactive view of one invocation: the task list on the left and
// the panes of the tasks doing work on the right.
//
// In follow mode every running task without running children gets its own pane,
// so the branches of a parallel task are shown side by side. Selecting a task
// switches to manual mode, which shows only that task.
type Model struct {
	Tasks       []*TaskNode
	TaskMap     map[string]*TaskNode
	SpanMap     map[string]*TaskNode
	Targets     []string
	SelectedIdx int
	ListOffset  int
	ListHeight  int
	ListWidth   int
	PaneWidth   int
	PaneHeight  int
	FollowMode  bool

	// last is the task that most recently started or finished. It is shown
	// when nothing is running.
	last   *TaskNode
	styles styles
}

// NewModel creates a model that renders for w with the given color profile.
func NewModel(w io.Writer, profile termenv.Profile) *Model {
	if w == nil {
		w = os.Stdout
	}
	return &Model{
		TaskMap:    make(map[string]*TaskNode),
		SpanMap:    make(map[string]*TaskNode),
		FollowMode: true,
		styles:     newStyles(w, profile),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.ListWidth = int(float64(msg.Width) * listWidthRatio)
		m.PaneWidth = msg.Width - m.ListWidth - paneChrome
		m.PaneHeight = msg.Height
		m.ListHeight = max(msg.Height-listHeaderHeight, 1)
		m.ensureVisible()

	case MsgPlan:
		m.Targets = msg.Targets
		m.Tasks = make([]*TaskNode, len(msg.Tasks))
		m.TaskMap = make(map[string]*TaskNode, len(msg.Tasks))
		m.SpanMap = make(map[string]*TaskNode)
		m.last = nil
		for i, name := range msg.Tasks {
			m.Tasks[i] = &TaskNode{Name: name, Status: StatusPending, Pane: NewPane()}
			m.TaskMap[name] = m.Tasks[i]
		}

	case MsgTaskStart:
		node, ok := m.TaskMap[msg.Name]
		if !ok {
			break
		}
		node.Status = StatusRunning
		m.SpanMap[msg.SpanID] = node
		if parent, ok := m.SpanMap[msg.ParentID]; ok {
			node.parent = parent
			parent.active++
		}
		m.last = node
		if m.FollowMode {
			m.selectTask(node)
		}

	case MsgTaskLog:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			_, _ = node.Pane.Write(msg.Data)
		}

	case MsgTaskComplete:
		node, ok := m.SpanMap[msg.SpanID]
		if !ok {
			break
		}
		node.Outcome = msg.Outcome
		node.Status = StatusDone
		if msg.Outcome.Failed() {
			node.Status = StatusFailed
		}
		if node.parent != nil {
			node.parent.active--
		}
		m.last = node
	}

	m.layout()
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return tea.Quit
	case "k", "up":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.FollowMode = false
			m.ensureVisible()
		}
	case "j", "down":
		if m.SelectedIdx < len(m.Tasks)-1 {
			m.SelectedIdx++
			m.FollowMode = false
			m.ensureVisible()
		}
	case "esc":
		m.FollowMode = true
		if nodes := m.Visible(); len(nodes) > 0 {
			m.selectTask(nodes[0])
		}
	default:
		for _, node := range m.Visible() {
			node.Pane.Scroll(key)
		}
	}
	return nil
}

// Visible returns the tasks whose panes are shown, in plan order.
func (m *Model) Visible() []*TaskNode {
	if !m.FollowMode {
		if node := m.selectedTask(); node != nil {
			return []*TaskNode{node}
		}
		return nil
	}

	var nodes []*TaskNode
	for _, node := range m.Tasks {
		if node.Status == StatusRunning && node.active == 0 {
			nodes = append(nodes, node)
		}
	}
	if len(nodes) == 0 && m.last != nil {
		return []*TaskNode{m.last}
	}
	return nodes
}

// layout splits the pane area evenly between the visible panes.
func (m *Model) layout() {
	nodes := m.Visible()
	if len(nodes) == 0 || m.PaneWidth <= 0 {
		return
	}
	height := max(m.PaneHeight/len(nodes)-paneHeaderHeight, 1)
	for _, node := range nodes {
		node.Pane.Resize(m.PaneWidth, height)
	}
}

func (m *Model) selectTask(node *TaskNode) {
	for i, t := range m.Tasks {
		if t == node {
			m.SelectedIdx = i
			break
		}
	}
	m.ensureVisible()
}

func (m *Model) selectedTask() *TaskNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Tasks) {
		return m.Tasks[m.SelectedIdx]
	}
	return nil
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}
