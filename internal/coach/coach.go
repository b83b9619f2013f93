// Package coach exposes one call per study feature, composing the prompt
// builder, the dispatcher and the normalizer.
package coach

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/geniusprep/internal/dispatch"
	"github.com/abhisek/geniusprep/internal/media"
	"github.com/abhisek/geniusprep/internal/normalize"
	"github.com/abhisek/geniusprep/internal/prompt"
	"github.com/abhisek/geniusprep/internal/study"
)

// Dispatcher sends a built request to the backend.
type Dispatcher interface {
	Dispatch(ctx context.Context, d prompt.Descriptor) (dispatch.RawResult, error)
}

// Service runs study features end to end.
type Service struct {
	dispatcher Dispatcher
	log        *zap.Logger
}

// New creates a Service. log may be nil.
func New(d Dispatcher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{dispatcher: d, log: log.Named("coach")}
}

// StudyPlan generates a day-by-day plan for the syllabus.
func (s *Service) StudyPlan(ctx context.Context, syllabus string, days int) (normalize.Result[study.StudyPlanDay], error) {
	desc, err := prompt.StudyPlan(syllabus, days)
	if err != nil {
		return normalize.Result[study.StudyPlanDay]{}, err
	}
	raw, err := s.dispatch(ctx, desc)
	if err != nil {
		return normalize.Result[study.StudyPlanDay]{}, err
	}
	res := normalize.StudyPlan(raw.Text)
	s.logResult(raw, res.Status, res.Dropped, len(res.Items), res.Reason)
	return res, nil
}

// Quiz generates multiple-choice questions on topic.
func (s *Service) Quiz(ctx context.Context, topic string, difficulty study.Difficulty) (normalize.Result[study.QuizQuestion], error) {
	desc, err := prompt.Quiz(topic, difficulty)
	if err != nil {
		return normalize.Result[study.QuizQuestion]{}, err
	}
	raw, err := s.dispatch(ctx, desc)
	if err != nil {
		return normalize.Result[study.QuizQuestion]{}, err
	}
	res := normalize.Quiz(raw.Text)
	s.logResult(raw, res.Status, res.Dropped, len(res.Items), res.Reason)
	return res, nil
}

// ExplainImage explains an encoded image. An empty instruction uses the
// default explanation prompt.
func (s *Service) ExplainImage(ctx context.Context, img media.Payload, instruction string) (string, error) {
	desc, err := prompt.ImageExplanation(img, instruction)
	if err != nil {
		return "", err
	}
	raw, err := s.dispatch(ctx, desc)
	if err != nil {
		return "", err
	}
	s.logResult(raw, normalize.StatusOK, 0, 1, "")
	return normalize.Text(raw.Text, normalize.ExplainFallback), nil
}

// CleanNotes transcribes a photo of handwritten notes into Markdown.
func (s *Service) CleanNotes(ctx context.Context, img media.Payload) (string, error) {
	desc, err := prompt.NoteCleanup(img)
	if err != nil {
		return "", err
	}
	raw, err := s.dispatch(ctx, desc)
	if err != nil {
		return "", err
	}
	s.logResult(raw, normalize.StatusOK, 0, 1, "")
	return normalize.Text(raw.Text, normalize.NotesFallback), nil
}

func (s *Service) dispatch(ctx context.Context, desc prompt.Descriptor) (dispatch.RawResult, error) {
	raw, err := s.dispatcher.Dispatch(ctx, desc)
	if err != nil {
		s.log.Warn("feature failed",
			zap.String("feature", string(desc.Feature)),
			zap.Error(err),
		)
		return dispatch.RawResult{}, err
	}
	return raw, nil
}

func (s *Service) logResult(raw dispatch.RawResult, status normalize.Status, dropped, items int, reason string) {
	fields := []zap.Field{
		zap.String("request_id", raw.RequestID),
		zap.String("model", raw.Model),
		zap.Stringer("status", status),
		zap.Int("items", items),
		zap.Int("dropped", dropped),
	}
	if reason != "" {
		fields = append(fields, zap.String("reason", reason))
	}
	if status == normalize.StatusDegraded || dropped > 0 {
		s.log.Warn("feature result", fields...)
		return
	}
	s.log.Info("feature result", fields...)
}
