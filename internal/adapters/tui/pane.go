package tui

import (
	"bytes"
	"sync"

	"github.com/vito/midterm"
)

// Pane is a scrollable virtual terminal holding the output of one task.
// It follows new output while scrolled to the bottom.
type Pane struct {
	mu     sync.Mutex
	vt     *midterm.Terminal
	buf    bytes.Buffer
	offset int
	width  int
	height int
}

// NewPane creates an empty pane one row high.
func NewPane() *Pane {
	return &Pane{
		vt:     midterm.NewAutoResizingTerminal(),
		height: 1,
	}
}

// Write feeds task output, escape sequences included, into the terminal.
func (p *Pane) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	follow := p.offset >= p.maxOffset()
	n, err := p.vt.Write(b)
	if follow {
		p.offset = p.maxOffset()
	}
	return n, err
}

// Resize sets the visible area. Lines wrap at width.
func (p *Pane) Resize(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	width, height = max(width, 1), max(height, 1)
	if width != p.width {
		p.width = width
		p.vt.ResizeX(width)
	}

	follow := p.offset >= p.maxOffset()
	p.height = height
	if follow {
		p.offset = p.maxOffset()
	}
	p.clamp()
}

// Scroll handles a paging key and reports whether it was one.
func (p *Pane) Scroll(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch key {
	case "pgup":
		p.offset -= p.height
	case "pgdown":
		p.offset += p.height
	case "home":
		p.offset = 0
	case "end":
		p.offset = p.maxOffset()
	default:
		return false
	}
	p.clamp()
	return true
}

// Offset is the first visible row.
func (p *Pane) Offset() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.offset
}

// Lines is the number of rows written so far.
func (p *Pane) Lines() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vt.UsedHeight()
}

// Following reports whether the pane shows the latest output.
func (p *Pane) Following() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.offset >= p.maxOffset()
}

// View renders the visible rows.
func (p *Pane) View() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clamp()
	p.buf.Reset()
	used := p.vt.UsedHeight()
	for i := range p.height {
		row := p.offset + i
		if row >= used {
			break
		}
		if i > 0 {
			_ = p.buf.WriteByte('\n')
		}
		_ = p.vt.RenderLine(&p.buf, row)
	}
	return p.buf.String()
}

func (p *Pane) clamp() {
	p.offset = min(max(p.offset, 0), p.maxOffset())
}

func (p *Pane) maxOffset() int {
	return max(p.vt.UsedHeight()-p.height, 0)
}
