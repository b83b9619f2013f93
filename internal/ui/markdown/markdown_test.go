package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderKeepsText(t *testing.T) {
	r := New("notty")
	out := r.Render("# Optics\n\n- Snell's law", 40)
	assert.Contains(t, out, "Optics")
	assert.Contains(t, out, "Snell's law")
}

func TestRenderCachesPerWidth(t *testing.T) {
	r := New("notty")
	r.Render("a", 40)
	r.Render("b", 40)
	r.Render("c", 0)
	assert.Len(t, r.cache, 2)
	assert.Contains(t, r.cache, DefaultWidth)
}
