package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/abhisek/geniusprep/internal/coach"
	"github.com/abhisek/geniusprep/internal/dispatch"
	"github.com/abhisek/geniusprep/internal/llm"
	"github.com/abhisek/geniusprep/internal/media"
	"github.com/abhisek/geniusprep/internal/normalize"
	"github.com/abhisek/geniusprep/internal/study"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// newCoach wires a coach over mock heavy and light tiers.
func newCoach(heavy, light *llm.MockProvider) *coach.Service {
	return coach.New(dispatch.New(heavy, light), nil)
}

// start runs fn on its own goroutine the way a Bubble Tea command would.
func start(fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	return done
}

func writeImage(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.png")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func planJSON(days int) json.RawMessage {
	items := make([]string, days)
	for i := range items {
		items[i] = fmt.Sprintf(`{"day":%d,"topic":"Topic %d","activities":["Read","Practice"]}`, i+1, i+1)
	}
	return json.RawMessage("[" + strings.Join(items, ",") + "]")
}

func quizJSON(n int) json.RawMessage {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"question":"Q%d","options":["A","B","C","D"],"correctAnswer":"B","explanation":"because"}`, i+1)
	}
	return json.RawMessage("[" + strings.Join(items, ",") + "]")
}

// Scenario A.
func TestPlanScenario(t *testing.T) {
	heavy := llm.NewMockProvider(llm.MockResponse{Content: planJSON(7)})
	c := NewPlanController(newCoach(heavy, llm.NewMockProvider()))
	defer c.Close()

	c.SetSyllabus("Kinematics, Laws of Motion")
	c.SetDays(7)

	run, ok := c.Submit()
	require.True(t, ok)
	assert.Equal(t, Pending, c.State().Phase)
	run()

	st := c.State()
	assert.Equal(t, Succeeded, st.Phase)
	require.Len(t, st.Plan.Items, 7)
	for i, day := range st.Plan.Items {
		assert.Equal(t, i+1, day.Day)
	}
	assert.Empty(t, st.Error)

	call, _ := heavy.LastCall()
	assert.Contains(t, call.Messages[0].Content, "7-day study plan")
	assert.Contains(t, call.Messages[0].Content, "Kinematics, Laws of Motion")
}

func TestPlanEmptySyllabusIsNoop(t *testing.T) {
	heavy := llm.NewMockProvider()
	c := NewPlanController(newCoach(heavy, llm.NewMockProvider()))
	defer c.Close()

	for _, s := range []string{"", "   "} {
		c.SetSyllabus(s)
		run, ok := c.Submit()
		assert.False(t, ok)
		assert.Nil(t, run)
	}
	assert.Equal(t, Idle, c.State().Phase)
	assert.Zero(t, heavy.CallCount())
}

func TestPlanDoubleSubmitIsNoop(t *testing.T) {
	release := make(chan struct{})
	heavy := llm.NewMockProvider(llm.MockResponse{Content: planJSON(3), Wait: release})
	c := NewPlanController(newCoach(heavy, llm.NewMockProvider()))
	defer c.Close()
	c.SetSyllabus("NEET Biology")

	run, ok := c.Submit()
	require.True(t, ok)
	done := start(run)

	_, again := c.Submit()
	assert.False(t, again)

	close(release)
	<-done

	assert.Equal(t, Succeeded, c.State().Phase)
	assert.Equal(t, 1, heavy.CallCount())
}

func TestPlanFailureKeepsPreviousPlan(t *testing.T) {
	heavy := llm.NewMockProvider(
		llm.MockResponse{Content: planJSON(2)},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("connection reset")}},
	)
	c := NewPlanController(newCoach(heavy, llm.NewMockProvider()))
	defer c.Close()
	c.SetSyllabus("JEE Chemistry")

	run, _ := c.Submit()
	run()
	run, ok := c.Submit()
	require.True(t, ok)
	run()

	st := c.State()
	assert.Equal(t, Failed, st.Phase)
	assert.Equal(t, PlanFailedMessage, st.Error)
	var be *dispatch.BackendError
	assert.ErrorAs(t, st.Err, &be)
	assert.Len(t, st.Plan.Items, 2)
}

func TestPlanMalformedResponseSucceedsDegraded(t *testing.T) {
	heavy := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`Day 1: revise`)})
	c := NewPlanController(newCoach(heavy, llm.NewMockProvider()))
	defer c.Close()
	c.SetSyllabus("JEE Maths")

	run, _ := c.Submit()
	run()

	st := c.State()
	assert.Equal(t, Succeeded, st.Phase)
	assert.True(t, st.Plan.Degraded())
	assert.Empty(t, st.Plan.Items)
}

func TestPlanSetDaysClamps(t *testing.T) {
	c := NewPlanController(newCoach(llm.NewMockProvider(), llm.NewMockProvider()))
	defer c.Close()

	assert.Equal(t, DefaultDays, c.State().Days)
	c.SetDays(0)
	assert.Equal(t, MinDays, c.State().Days)
	c.SetDays(365)
	assert.Equal(t, MaxDays, c.State().Days)
}

func TestPlanStateIsCopy(t *testing.T) {
	heavy := llm.NewMockProvider(llm.MockResponse{Content: planJSON(2)})
	c := NewPlanController(newCoach(heavy, llm.NewMockProvider()))
	defer c.Close()
	c.SetSyllabus("UPSC")
	run, _ := c.Submit()
	run()

	st := c.State()
	st.Plan.Items[0].Topic = "changed"
	assert.Equal(t, "Topic 1", c.State().Plan.Items[0].Topic)
}

func TestCloseDiscardsLateResult(t *testing.T) {
	heavy := llm.NewMockProvider(llm.MockResponse{Content: planJSON(3), Wait: make(chan struct{})})
	var notified atomic.Int32
	c := NewPlanController(newCoach(heavy, llm.NewMockProvider()), WithNotify(func() { notified.Add(1) }))
	c.SetSyllabus("NEET Physics")

	run, ok := c.Submit()
	require.True(t, ok)
	done := start(run)

	c.Close()
	<-done

	st := c.State()
	assert.Equal(t, Pending, st.Phase, "state must not change after Close")
	assert.Empty(t, st.Plan.Items)
	assert.Zero(t, notified.Load())
	assert.True(t, c.Closed())

	_, ok = c.Submit()
	assert.False(t, ok)
}

func TestParentContextCancelsCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	light := llm.NewMockProvider(llm.MockResponse{Wait: make(chan struct{})})
	c := NewQuizController(newCoach(llm.NewMockProvider(), light), WithContext(ctx))
	defer c.Close()
	c.SetTopic("Optics")

	run, _ := c.Submit()
	done := start(run)
	cancel()
	<-done

	st := c.State()
	assert.Equal(t, Failed, st.Phase)
	assert.ErrorIs(t, st.Err, context.Canceled)
}

// Scenario B.
func TestQuizScenario(t *testing.T) {
	light := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(5)})
	c := NewQuizController(newCoach(llm.NewMockProvider(), light))
	defer c.Close()

	c.SetTopic("Photosynthesis")
	require.True(t, c.SetDifficulty(study.DifficultyEasy))

	run, ok := c.Submit()
	require.True(t, ok)
	run()

	st := c.State()
	require.Equal(t, Succeeded, st.Phase)
	require.Len(t, st.Questions, 5)

	require.True(t, c.Select(0, "A"))
	assert.Equal(t, "A", c.State().Selected[0])

	require.True(t, c.Reveal())
	assert.True(t, c.State().ShowResults)

	assert.False(t, c.Select(0, "B"))
	assert.False(t, c.Select(1, "B"))
	st = c.State()
	assert.Equal(t, "A", st.Selected[0])
	_, answered := st.Selected[1]
	assert.False(t, answered)

	correct, total := c.Score()
	assert.Equal(t, 0, correct)
	assert.Equal(t, 5, total)

	call, _ := light.LastCall()
	assert.Contains(t, call.Messages[0].Content, "Difficulty: Easy")
}

func TestQuizDefaults(t *testing.T) {
	c := NewQuizController(newCoach(llm.NewMockProvider(), llm.NewMockProvider()))
	defer c.Close()

	st := c.State()
	assert.Equal(t, study.DifficultyMedium, st.Difficulty)
	assert.Equal(t, Idle, st.Phase)
	assert.False(t, c.SetDifficulty("Impossible"))
	assert.False(t, c.Reveal())
}

func TestQuizEmptyTopicIsNoop(t *testing.T) {
	light := llm.NewMockProvider()
	c := NewQuizController(newCoach(llm.NewMockProvider(), light))
	defer c.Close()

	_, ok := c.Submit()
	assert.False(t, ok)
	assert.Equal(t, Idle, c.State().Phase)
	assert.Zero(t, light.CallCount())
}

func TestQuizResubmitClearsAnswers(t *testing.T) {
	release := make(chan struct{})
	light := llm.NewMockProvider(
		llm.MockResponse{Content: quizJSON(2)},
		llm.MockResponse{Content: quizJSON(3), Wait: release},
	)
	c := NewQuizController(newCoach(llm.NewMockProvider(), light))
	defer c.Close()
	c.SetTopic("Calculus Limits")

	run, _ := c.Submit()
	run()
	c.Select(1, "B")
	c.Reveal()

	run, ok := c.Submit()
	require.True(t, ok)
	done := start(run)

	st := c.State()
	assert.Equal(t, Pending, st.Phase)
	assert.Empty(t, st.Questions)
	assert.Empty(t, st.Selected)
	assert.False(t, st.ShowResults)
	assert.False(t, c.Select(0, "A"), "selection is locked while pending")

	close(release)
	<-done

	require.True(t, c.Select(0, "B"))
	correct, total := c.Score()
	assert.Equal(t, 1, correct)
	assert.Equal(t, 3, total)
}

func TestQuizSelectBounds(t *testing.T) {
	light := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(1)})
	c := NewQuizController(newCoach(llm.NewMockProvider(), light))
	defer c.Close()
	c.SetTopic("Optics")
	run, _ := c.Submit()
	run()

	assert.False(t, c.Select(-1, "A"))
	assert.False(t, c.Select(1, "A"))
	assert.False(t, c.Select(0, ""))
	assert.True(t, c.Select(0, "C"))
	assert.True(t, c.Select(0, "B"), "answers may change before reveal")
	assert.Equal(t, "B", c.State().Selected[0])
}

func TestQuizFailure(t *testing.T) {
	light := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}})
	c := NewQuizController(newCoach(llm.NewMockProvider(), light))
	defer c.Close()
	c.SetTopic("Optics")

	run, _ := c.Submit()
	run()

	st := c.State()
	assert.Equal(t, Failed, st.Phase)
	assert.Equal(t, QuizFailedMessage, st.Error)
	var rl *llm.ErrRateLimit
	assert.ErrorAs(t, st.Err, &rl)
}

// Scenario C.
func TestExplainBackendFailure(t *testing.T) {
	heavy := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{Err: errors.New("dial tcp: connection refused")},
	})
	c := NewExplainController(newCoach(heavy, llm.NewMockProvider()), "")
	defer c.Close()

	require.True(t, c.Attach(writeImage(t, 64)))
	run, ok := c.Submit()
	require.True(t, ok)
	run()

	st := c.State()
	assert.Equal(t, Failed, st.Phase)
	assert.Equal(t, ExplainFailedMessage, st.Error)
	assert.Empty(t, st.Text)
	assert.Equal(t, StepNone, st.Step)
}

// Scenario D.
func TestNotesEmptyBodyFallsBack(t *testing.T) {
	heavy := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(``)})
	c := NewNotesController(newCoach(heavy, llm.NewMockProvider()))
	defer c.Close()

	c.Attach(writeImage(t, 64))
	run, _ := c.Submit()
	run()

	st := c.State()
	assert.Equal(t, Succeeded, st.Phase)
	assert.Equal(t, normalize.NotesFallback, st.Text)
}

func TestNotesSuccess(t *testing.T) {
	heavy := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("# Optics\n- Snell's law")})
	var notified atomic.Int32
	c := NewNotesController(newCoach(heavy, llm.NewMockProvider()), WithNotify(func() { notified.Add(1) }))
	defer c.Close()

	path := writeImage(t, 100)
	c.Attach(path)
	run, _ := c.Submit()
	assert.Equal(t, StepEncoding, c.State().Step)
	run()

	st := c.State()
	assert.Equal(t, Succeeded, st.Phase)
	assert.Equal(t, "# Optics\n- Snell's law", st.Text)
	assert.Equal(t, "board.png", st.Name)
	assert.Equal(t, Progress{Done: 100, Total: 100}, st.Progress)
	assert.Equal(t, 1.0, st.Progress.Fraction())
	// progress, dispatching, result
	assert.Equal(t, int32(3), notified.Load())

	call, _ := heavy.LastCall()
	require.Len(t, call.Messages[0].Media, 1)
	assert.Equal(t, "image/png", call.Messages[0].Media[0].MIMEType)
}

func TestImageNoAttachmentIsNoop(t *testing.T) {
	heavy := llm.NewMockProvider()
	c := NewNotesController(newCoach(heavy, llm.NewMockProvider()))
	defer c.Close()

	_, ok := c.Submit()
	assert.False(t, ok)
	assert.Equal(t, Idle, c.State().Phase)
	assert.Zero(t, heavy.CallCount())
}

func TestImageUnreadableFile(t *testing.T) {
	heavy := llm.NewMockProvider()
	c := NewNotesController(newCoach(heavy, llm.NewMockProvider()))
	defer c.Close()

	c.Attach(filepath.Join(t.TempDir(), "missing.jpg"))
	run, ok := c.Submit()
	require.True(t, ok)
	run()

	st := c.State()
	assert.Equal(t, Failed, st.Phase)
	assert.Equal(t, NotesFailedMessage, st.Error)
	var ioErr *media.IOError
	assert.ErrorAs(t, st.Err, &ioErr)
	assert.Zero(t, heavy.CallCount())
}

func TestImageMaxBytes(t *testing.T) {
	heavy := llm.NewMockProvider()
	c := NewNotesController(newCoach(heavy, llm.NewMockProvider()))
	defer c.Close()
	c.SetMaxBytes(10)

	c.Attach(writeImage(t, 64))
	run, _ := c.Submit()
	run()

	st := c.State()
	assert.Equal(t, Failed, st.Phase)
	assert.ErrorIs(t, st.Err, media.ErrTooLarge)
}

func TestAttachClearsResultAndIsLockedWhilePending(t *testing.T) {
	release := make(chan struct{})
	heavy := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`first`)},
		llm.MockResponse{Content: json.RawMessage(`second`), Wait: release},
	)
	c := NewExplainController(newCoach(heavy, llm.NewMockProvider()), "")
	defer c.Close()

	c.Attach(writeImage(t, 8))
	run, _ := c.Submit()
	run()
	assert.Equal(t, "first", c.State().Text)

	other := writeImage(t, 16)
	require.True(t, c.Attach(other))
	st := c.State()
	assert.Equal(t, Idle, st.Phase)
	assert.Empty(t, st.Text)
	assert.Equal(t, other, st.Path)

	run, _ = c.Submit()
	done := start(run)
	assert.False(t, c.Attach(writeImage(t, 4)))
	_, again := c.Submit()
	assert.False(t, again)

	close(release)
	<-done
	assert.Equal(t, "second", c.State().Text)
	assert.Equal(t, 2, heavy.CallCount())
}

func TestPhaseAndStepStrings(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "encoding", StepEncoding.String())
	assert.Equal(t, "dispatching", StepDispatching.String())
	assert.Equal(t, 0.0, Progress{Done: 5, Total: -1}.Fraction())
}
