package style_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/tandem/internal/ui/style"
)

func TestTaskColor_Stable(t *testing.T) {
	first := style.TaskColor("backend:dev")
	for range 10 {
		assert.Equal(t, first, style.TaskColor("backend:dev"))
	}
	assert.Contains(t, style.Palette, first)
}
