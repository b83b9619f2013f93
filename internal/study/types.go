// Package study holds the domain types shared by the prompt, dispatch,
// normalize and controller layers.
package study

import "fmt"

// StudyPlanDay is one day of a generated exam plan.
type StudyPlanDay struct {
	Day        int      `json:"day"`
	Topic      string   `json:"topic"`
	Activities []string `json:"activities"`
}

// QuizQuestion is a single multiple-choice question.
// CorrectAnswer is expected to be one of Options but this is not enforced.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// IsCorrect reports whether option is the question's correct answer.
func (q QuizQuestion) IsCorrect(option string) bool {
	return option != "" && option == q.CorrectAnswer
}

// Difficulty is the quiz difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties lists the selectable levels in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty maps a user-supplied label to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy", "Easy", "EASY":
		return DifficultyEasy, nil
	case "medium", "Medium", "MEDIUM", "":
		return DifficultyMedium, nil
	case "hard", "Hard", "HARD", "Hard (JEE/NEET Level)":
		return DifficultyHard, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want Easy, Medium or Hard)", s)
}

// Label returns the wording sent to the model and shown in the UI.
func (d Difficulty) Label() string {
	if d == DifficultyHard {
		return "Hard (JEE/NEET Level)"
	}
	return string(d)
}

// Valid reports whether d is one of the known levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Feature identifies a backend-facing feature. It doubles as the purpose
// label on logged LLM requests.
type Feature string

const (
	FeatureStudyPlan    Feature = "study-plan"
	FeatureExplainImage Feature = "explain-image"
	FeatureQuiz         Feature = "quiz"
	FeatureNoteCleanup  Feature = "note-cleanup"
)
