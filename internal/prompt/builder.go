// Package prompt turns user input into backend request descriptors. It does
// no I/O.
package prompt

import (
	"fmt"
	"strings"

	"github.com/abhisek/geniusprep/internal/llm"
	"github.com/abhisek/geniusprep/internal/media"
	"github.com/abhisek/geniusprep/internal/study"
)

// Descriptor is a fully built request for one feature.
type Descriptor struct {
	Feature study.Feature
	Request llm.Request
}

type studyPlanParams struct {
	Syllabus string `validate:"required"`
	Days     int    `validate:"min=1"`
}

type quizParams struct {
	Topic      string           `validate:"required"`
	Difficulty study.Difficulty `validate:"required,oneof=Easy Medium Hard"`
}

type imageParams struct {
	Image       string `validate:"required"`
	MIMEType    string `validate:"required"`
	Instruction string `validate:"required"`
}

// StudyPlan builds a structured request for an N-day plan. The 1-60 day
// range is enforced by the input widgets, not here.
func StudyPlan(syllabus string, days int) (Descriptor, error) {
	p := studyPlanParams{Syllabus: strings.TrimSpace(syllabus), Days: days}
	if err := check(p); err != nil {
		return Descriptor{}, err
	}

	return Descriptor{
		Feature: study.FeatureStudyPlan,
		Request: llm.Request{
			Messages: []llm.Message{
				{Role: llm.RoleUser, Content: fmt.Sprintf(studyPlanTemplate, p.Days, p.Syllabus)},
			},
			Schema: StudyPlanSchema,
		},
	}, nil
}

// Quiz builds a structured request for QuizSize questions on topic.
func Quiz(topic string, difficulty study.Difficulty) (Descriptor, error) {
	p := quizParams{Topic: strings.TrimSpace(topic), Difficulty: difficulty}
	if err := check(p); err != nil {
		return Descriptor{}, err
	}

	return Descriptor{
		Feature: study.FeatureQuiz,
		Request: llm.Request{
			Messages: []llm.Message{
				{Role: llm.RoleUser, Content: fmt.Sprintf(quizTemplate, QuizSize, p.Topic, p.Difficulty.Label())},
			},
			Schema: QuizSchema,
		},
	}, nil
}

// ImageExplanation builds a free-text request pairing an image with an
// instruction. An empty instruction uses DefaultExplainInstruction.
func ImageExplanation(payload media.Payload, instruction string) (Descriptor, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		instruction = DefaultExplainInstruction
	}
	msg, err := imageMessage(payload, instruction)
	if err != nil {
		return Descriptor{}, err
	}

	return Descriptor{
		Feature: study.FeatureExplainImage,
		Request: llm.Request{Messages: []llm.Message{msg}},
	}, nil
}

// NoteCleanup builds a free-text request asking for a Markdown
// transcription of handwritten notes.
func NoteCleanup(payload media.Payload) (Descriptor, error) {
	msg, err := imageMessage(payload, noteCleanupInstruction)
	if err != nil {
		return Descriptor{}, err
	}

	return Descriptor{
		Feature: study.FeatureNoteCleanup,
		Request: llm.Request{Messages: []llm.Message{msg}},
	}, nil
}

func imageMessage(payload media.Payload, instruction string) (llm.Message, error) {
	p := imageParams{Image: payload.Data, MIMEType: payload.MIMEType, Instruction: instruction}
	if err := check(p); err != nil {
		return llm.Message{}, err
	}

	return llm.Message{
		Role:    llm.RoleUser,
		Content: instruction,
		Media: []llm.Media{
			{MIMEType: payload.MIMEType, Data: payload.Data, Size: payload.Size},
		},
	}, nil
}
