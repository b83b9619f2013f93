// Package markdown renders model output for the terminal with glamour.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the wrap width used when the caller has none.
const DefaultWidth = 80

// Renderer renders Markdown at a fixed style, caching one glamour renderer
// per wrap width.
type Renderer struct {
	style string

	mu    sync.Mutex
	cache map[int]*glamour.TermRenderer
}

// New returns a renderer for a glamour standard style such as "dark". An
// empty style detects the terminal background, which must not be done
// while a TUI owns the terminal.
func New(style string) *Renderer {
	return &Renderer{style: style, cache: map[int]*glamour.TermRenderer{}}
}

// Render renders md wrapped at width. If glamour fails the text is
// returned unchanged so the result is never lost.
func (r *Renderer) Render(md string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	tr, err := r.renderer(width)
	if err != nil {
		return md
	}
	out, err := tr.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func (r *Renderer) renderer(width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tr, ok := r.cache[width]; ok {
		return tr, nil
	}
	styleOpt := glamour.WithAutoStyle()
	if r.style != "" {
		styleOpt = glamour.WithStandardStyle(r.style)
	}
	tr, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	r.cache[width] = tr
	return tr, nil
}
