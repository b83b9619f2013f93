package prompt

import "github.com/abhisek/geniusprep/internal/llm"

// StudyPlanSchema describes the array of days returned for a study plan.
var StudyPlanSchema = &llm.Schema{
	Name:        "study-plan",
	Description: "A day-by-day exam study plan",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"day": map[string]any{
					"type":        "integer",
					"description": "Day number, starting at 1",
				},
				"topic": map[string]any{
					"type":        "string",
					"description": "Focus topic for the day",
				},
				"activities": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Concrete study tasks for the day",
				},
			},
			"required": []any{"day", "topic", "activities"},
		},
	},
}

// QuizSchema describes the array of multiple-choice questions.
var QuizSchema = &llm.Schema{
	Name:        "quiz",
	Description: "Multiple-choice practice questions",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 2,
				},
				"correctAnswer": map[string]any{
					"type":        "string",
					"description": "The text of the correct option",
				},
				"explanation": map[string]any{"type": "string"},
			},
			"required": []any{"question", "options", "correctAnswer", "explanation"},
		},
	},
}
