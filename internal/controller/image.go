package controller

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/abhisek/geniusprep/internal/media"
	"github.com/abhisek/geniusprep/internal/normalize"
)

// Failure messages for the image screens.
const (
	NotesFailedMessage   = "Error processing image."
	ExplainFailedMessage = "Error analyzing image. Please try again."
)

// Step refines the Pending phase of an image submission.
type Step int

const (
	StepNone Step = iota
	StepEncoding
	StepDispatching
)

func (s Step) String() string {
	switch s {
	case StepEncoding:
		return "encoding"
	case StepDispatching:
		return "dispatching"
	default:
		return ""
	}
}

// NotesService transcribes photographed notes.
type NotesService interface {
	CleanNotes(ctx context.Context, img media.Payload) (string, error)
}

// ExplainService explains an image.
type ExplainService interface {
	ExplainImage(ctx context.Context, img media.Payload, instruction string) (string, error)
}

// Progress is the encoding progress of the attached file.
type Progress struct {
	Done  int64
	Total int64 // -1 when unknown
}

// Fraction returns progress in [0, 1], or 0 when the total is unknown.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total)
}

// ImageState is a snapshot of an image screen.
type ImageState struct {
	Phase    Phase
	Step     Step
	Path     string
	Name     string
	Progress Progress
	Text     string
	Error    string
	Err      error
}

type analyzeFunc func(ctx context.Context, img media.Payload) (string, error)

// ImageController drives a screen that sends one image to the backend.
type ImageController struct {
	base
	analyze     analyzeFunc
	fallback    string
	failMessage string
	encodeOpts  []media.Option

	path     string
	step     Step
	progress Progress
	text     string
	errMsg   string
	err      error
}

// NewNotesController creates the scan board controller.
func NewNotesController(svc NotesService, opts ...Option) *ImageController {
	c := &ImageController{
		analyze:     svc.CleanNotes,
		fallback:    normalize.NotesFallback,
		failMessage: NotesFailedMessage,
	}
	c.init(opts)
	return c
}

// NewExplainController creates the explain controller. An empty
// instruction uses the default explanation prompt.
func NewExplainController(svc ExplainService, instruction string, opts ...Option) *ImageController {
	c := &ImageController{
		analyze: func(ctx context.Context, img media.Payload) (string, error) {
			return svc.ExplainImage(ctx, img, instruction)
		},
		fallback:    normalize.ExplainFallback,
		failMessage: ExplainFailedMessage,
	}
	c.init(opts)
	return c
}

// SetMaxBytes caps the size of attached files. Zero means no cap.
func (c *ImageController) SetMaxBytes(n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.encodeOpts = []media.Option{media.WithMaxBytes(n)}
}

// Attach selects a new file and clears the previous result. It is a no-op
// while a call is pending.
func (c *ImageController) Attach(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy() {
		return false
	}
	c.path = strings.TrimSpace(path)
	c.phase = Idle
	c.step = StepNone
	c.progress = Progress{}
	c.text = ""
	c.errMsg, c.err = "", nil
	return true
}

// Submit encodes the attached file and sends it. It is a no-op when no file
// is attached, a call is pending, or the controller is closed.
func (c *ImageController) Submit() (run func(), ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy() || c.path == "" {
		return nil, false
	}
	c.phase = Pending
	c.step = StepEncoding
	c.progress = Progress{Total: -1}
	c.text = ""
	c.errMsg, c.err = "", nil
	path, ctx := c.path, c.ctx
	opts := append([]media.Option{media.WithProgress(c.onProgress)}, c.encodeOpts...)

	return func() {
		img, err := media.EncodeFile(ctx, path, opts...)
		if err != nil {
			c.fail(err)
			return
		}
		c.settle(func() { c.step = StepDispatching })

		text, err := c.analyze(ctx, img)
		if err != nil {
			c.fail(err)
			return
		}
		c.settle(func() {
			c.phase = Succeeded
			c.step = StepNone
			c.text = normalize.Text(text, c.fallback)
		})
	}, true
}

func (c *ImageController) onProgress(done, total int64) {
	c.settle(func() { c.progress = Progress{Done: done, Total: total} })
}

func (c *ImageController) fail(err error) {
	c.settle(func() {
		c.phase = Failed
		c.step = StepNone
		c.errMsg, c.err = c.failMessage, err
	})
}

// State returns a copy of the current state.
func (c *ImageController) State() ImageState {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := ""
	if c.path != "" {
		name = filepath.Base(c.path)
	}
	return ImageState{
		Phase:    c.phase,
		Step:     c.step,
		Path:     c.path,
		Name:     name,
		Progress: c.progress,
		Text:     c.text,
		Error:    c.errMsg,
		Err:      c.err,
	}
}
