package controller

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/abhisek/geniusprep/internal/normalize"
	"github.com/abhisek/geniusprep/internal/study"
)

// QuizFailedMessage is shown when quiz generation fails.
const QuizFailedMessage = "Error generating quiz"

// QuizService generates quizzes.
type QuizService interface {
	Quiz(ctx context.Context, topic string, difficulty study.Difficulty) (normalize.Result[study.QuizQuestion], error)
}

// QuizState is a snapshot of the paper generator.
type QuizState struct {
	Phase       Phase
	Topic       string
	Difficulty  study.Difficulty
	Questions   []study.QuizQuestion
	Status      normalize.Status
	Dropped     int
	Selected    map[int]string
	ShowResults bool
	Error       string
	Err         error
}

// QuizController drives the paper generator.
type QuizController struct {
	base
	svc QuizService

	topic       string
	difficulty  study.Difficulty
	result      normalize.Result[study.QuizQuestion]
	selected    map[int]string
	showResults bool
	errMsg      string
	err         error
}

// NewQuizController creates a quiz controller with Medium difficulty.
func NewQuizController(svc QuizService, opts ...Option) *QuizController {
	c := &QuizController{
		svc:        svc,
		difficulty: study.DifficultyMedium,
		selected:   map[int]string{},
	}
	c.init(opts)
	return c
}

// SetTopic updates the topic input.
func (c *QuizController) SetTopic(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topic = s
}

// SetDifficulty updates the difficulty; unknown levels are ignored.
func (c *QuizController) SetDifficulty(d study.Difficulty) bool {
	if !d.Valid() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.difficulty = d
	return true
}

// Submit clears the previous quiz, moves to Pending and returns the call
// to run. It is a no-op when the topic is empty, a call is pending, or the
// controller is closed.
func (c *QuizController) Submit() (run func(), ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	topic := strings.TrimSpace(c.topic)
	if c.busy() || topic == "" {
		return nil, false
	}
	c.phase = Pending
	c.result = normalize.Result[study.QuizQuestion]{}
	c.selected = map[int]string{}
	c.showResults = false
	c.errMsg, c.err = "", nil
	difficulty, ctx := c.difficulty, c.ctx

	return func() {
		res, err := c.svc.Quiz(ctx, topic, difficulty)
		c.settle(func() {
			if err != nil {
				c.phase = Failed
				c.errMsg, c.err = QuizFailedMessage, err
				return
			}
			c.phase = Succeeded
			c.result = res
		})
	}, true
}

// Select records option as the answer to question q. It is a no-op after
// Reveal, while a call is pending, or for an unknown question.
func (c *QuizController) Select(q int, option string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.showResults || c.phase == Pending {
		return false
	}
	if q < 0 || q >= len(c.result.Items) || option == "" {
		return false
	}
	c.selected[q] = option
	return true
}

// Reveal shows results and locks every answer.
func (c *QuizController) Reveal() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.showResults || c.phase != Succeeded || len(c.result.Items) == 0 {
		return false
	}
	c.showResults = true
	return true
}

// Score counts correct selections out of the number of questions.
func (c *QuizController) Score() (correct, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, q := range c.result.Items {
		if q.IsCorrect(c.selected[i]) {
			correct++
		}
	}
	return correct, len(c.result.Items)
}

// State returns a copy of the current state.
func (c *QuizController) State() QuizState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return QuizState{
		Phase:       c.phase,
		Topic:       c.topic,
		Difficulty:  c.difficulty,
		Questions:   slices.Clone(c.result.Items),
		Status:      c.result.Status,
		Dropped:     c.result.Dropped,
		Selected:    maps.Clone(c.selected),
		ShowResults: c.showResults,
		Error:       c.errMsg,
		Err:         c.err,
	}
}
