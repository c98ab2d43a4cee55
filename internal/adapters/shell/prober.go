package shell

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/tandem/internal/core/domain"
)

// Prober implements ports.ToolProber by searching PATH.
type Prober struct {
	environ func() []string
}

// NewProber creates a new Prober reading the process environment.
func NewProber() *Prober {
	return &Prober{environ: os.Environ}
}

// Probe reports whether pc.Tool is an executable reachable through PATH.
// A PATH entry in env takes precedence over the process PATH.
func (p *Prober) Probe(pc domain.Precheck, env map[string]string) domain.PrecheckResult {
	if strings.ContainsRune(pc.Tool, filepath.Separator) {
		if findExecutable(pc.Tool) == nil {
			return domain.Ready(pc.Tool, pc.Tool)
		}
		return domain.Missing(pc.Tool, pc.Hint)
	}

	path, err := lookPath(pc.Tool, resolveEnvironment(p.environ(), env))
	if err != nil {
		return domain.Missing(pc.Tool, pc.Hint)
	}
	return domain.Ready(pc.Tool, path)
}
