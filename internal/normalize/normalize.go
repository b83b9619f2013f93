// Package normalize turns raw backend text into typed results. It never
// returns an error: malformed output degrades to an empty result.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/abhisek/geniusprep/internal/llm"
	"github.com/abhisek/geniusprep/internal/prompt"
	"github.com/abhisek/geniusprep/internal/study"
)

// Status tags a Result as usable or degraded.
type Status int

const (
	StatusOK Status = iota
	StatusDegraded
)

func (s Status) String() string {
	if s == StatusDegraded {
		return "degraded"
	}
	return "ok"
}

// Result is a normalised sequence. A degraded result always has no items.
type Result[T any] struct {
	Items   []T
	Status  Status
	Reason  string // set when degraded
	Dropped int    // elements rejected by the element schema
}

// Degraded reports whether the response could not be parsed at all.
func (r Result[T]) Degraded() bool { return r.Status == StatusDegraded }

// Fallback texts for free-text features.
const (
	NotesFallback   = "Could not process notes."
	ExplainFallback = "Could not analyze image."
)

var (
	planItemSchema = prompt.StudyPlanSchema.Items()
	quizItemSchema = prompt.QuizSchema.Items()
)

// StudyPlan parses a study plan array.
func StudyPlan(text string) Result[study.StudyPlanDay] {
	return parseArray[study.StudyPlanDay](text, planItemSchema)
}

// Quiz parses a question array.
func Quiz(text string) Result[study.QuizQuestion] {
	return parseArray[study.QuizQuestion](text, quizItemSchema)
}

// Text returns text unchanged, or fallback when it is empty or blank.
func Text(text, fallback string) string {
	if strings.TrimSpace(text) == "" {
		return fallback
	}
	return text
}

// parseArray decodes text as a JSON array of T. Empty text is an empty OK
// result. Elements failing the element schema are dropped and counted.
func parseArray[T any](text string, itemSchema *llm.Schema) Result[T] {
	text = stripFences(text)
	if text == "" {
		return Result[T]{Items: []T{}}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(text), &elems); err != nil {
		return Result[T]{
			Items:  []T{},
			Status: StatusDegraded,
			Reason: fmt.Sprintf("response is not a JSON array: %v", err),
		}
	}

	res := Result[T]{Items: make([]T, 0, len(elems))}
	for _, raw := range elems {
		item, ok := decodeElement[T](raw, itemSchema)
		if !ok {
			res.Dropped++
			continue
		}
		res.Items = append(res.Items, item)
	}
	return res
}

func decodeElement[T any](raw json.RawMessage, itemSchema *llm.Schema) (T, bool) {
	var zero T
	if itemSchema != nil {
		if err := llm.ValidateJSON(itemSchema, raw); err != nil {
			return zero, false
		}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return zero, false
	}
	canon, err := json.Marshal(integralNumbers(generic))
	if err != nil {
		return zero, false
	}

	var item T
	if err := json.Unmarshal(canon, &item); err != nil {
		return zero, false
	}
	return item, true
}

// stripFences removes a surrounding Markdown code fence, which some models
// add even in JSON mode. The fence may sit on the same line as the payload.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
		text = text[4:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// integralNumbers rewrites whole-valued numbers such as 1.0 or 2e0 to their
// integer spelling so they decode into int fields.
func integralNumbers(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, e := range v {
			v[k] = integralNumbers(e)
		}
	case []any:
		for i, e := range v {
			v[i] = integralNumbers(e)
		}
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return v
		}
		f, err := v.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
			return v
		}
		return json.Number(strconv.FormatInt(int64(f), 10))
	}
	return v
}
