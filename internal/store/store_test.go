package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/geniusprep/ent/llmrequestevent"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTable(t *testing.T) {
	s := openTestStore(t)

	var name string
	err := s.DB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='llm_request_events'",
	).Scan(&name)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if name != "llm_request_events" {
		t.Errorf("table name = %q, want 'llm_request_events'", name)
	}
}

func TestReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "quiz"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	events, err := s.EventRepo().QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
}

func TestAppendAndGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		RequestID:    "req-1",
		Provider:     "gemini",
		Model:        "gemini-2.5-flash",
		Purpose:      "quiz",
		InputTokens:  120,
		OutputTokens: 480,
		LatencyMs:    900,
		Success:      true,
		RequestBody:  "[user]\nGenerate 5 questions",
		ResponseBody: "[]",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}

	got, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected event")
	}
	if got.RequestID != "req-1" || got.Model != "gemini-2.5-flash" || !got.Success {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.InputTokens != 120 || got.OutputTokens != 480 {
		t.Errorf("tokens = %d/%d, want 120/480", got.InputTokens, got.OutputTokens)
	}
	if time.Since(got.Timestamp) > time.Minute {
		t.Errorf("timestamp %v too old", got.Timestamp)
	}
}

func TestGetLLMEventMissing(t *testing.T) {
	s := openTestStore(t)
	got, err := s.EventRepo().GetLLMEvent(context.Background(), 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestQueryLLMEventsFilters(t *testing.T) {
	s := openTestStore(t)
	repo := &eventRepo{client: s.Client()}
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	purposes := []string{"quiz", "study-plan", "quiz", "note-cleanup", "quiz"}
	for i, p := range purposes {
		ts := base.Add(time.Duration(i) * time.Hour)
		repo.now = func() time.Time { return ts }
		if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Purpose: p}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	tests := []struct {
		name string
		opts QueryOpts
		want int
	}{
		{"all", QueryOpts{}, 5},
		{"limit", QueryOpts{Limit: 2}, 2},
		{"purpose", QueryOpts{Purpose: "quiz"}, 3},
		{"from", QueryOpts{From: base.Add(3 * time.Hour)}, 2},
		{"window", QueryOpts{From: base.Add(time.Hour), To: base.Add(2 * time.Hour)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := repo.QueryLLMEvents(ctx, tt.opts)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if len(events) != tt.want {
				t.Errorf("events = %d, want %d", len(events), tt.want)
			}
		})
	}

	// Newest first.
	events, _ := repo.QueryLLMEvents(ctx, QueryOpts{})
	if events[0].ID < events[len(events)-1].ID {
		t.Errorf("expected newest first, got ids %d..%d", events[0].ID, events[len(events)-1].ID)
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	rows := []LLMRequestEventData{
		{Purpose: "quiz", Model: "gemini-2.5-flash", InputTokens: 10, OutputTokens: 20, LatencyMs: 100},
		{Purpose: "quiz", Model: "gemini-2.5-flash", InputTokens: 30, OutputTokens: 40, LatencyMs: 300},
		{Purpose: "study-plan", Model: "gemini-3-pro-preview", InputTokens: 5, OutputTokens: 50, LatencyMs: 1000},
	}
	for _, r := range rows {
		if err := repo.AppendLLMRequest(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("purposes = %d, want 2", len(byPurpose))
	}
	quiz := byPurpose[0]
	if quiz.Purpose != "quiz" || quiz.Calls != 2 || quiz.InputTokens != 40 || quiz.OutputTokens != 60 || quiz.AvgLatencyMs != 200 {
		t.Errorf("unexpected quiz stats: %+v", quiz)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("models = %d, want 2", len(byModel))
	}
	if byModel[0].Model != "gemini-2.5-flash" || byModel[0].Calls != 2 {
		t.Errorf("unexpected model usage: %+v", byModel[0])
	}
}

func TestSchemaMatchesEntColumns(t *testing.T) {
	s := openTestStore(t)

	rows, err := s.DB().Query("SELECT name FROM pragma_table_info('llm_request_events')")
	if err != nil {
		t.Fatalf("table info: %v", err)
	}
	defer rows.Close()

	got := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got[name] = true
	}
	for _, col := range llmrequestevent.Columns {
		if !got[col] {
			t.Errorf("missing column %q", col)
		}
	}
}

func TestQueryLLMEventsTimestampRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := &eventRepo{client: s.Client()}
	ctx := context.Background()

	at := time.Date(2026, 5, 4, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	repo.now = func() time.Time { return at }
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "quiz"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{From: at, To: at})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if !events[0].Timestamp.Equal(at) || events[0].Timestamp.Location() != time.UTC {
		t.Errorf("timestamp = %v, want %v in UTC", events[0].Timestamp, at)
	}
}

func TestDefaultDBPathHonoursEnv(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "nested", "custom.db")
	t.Setenv("GENIUSPREP_DB", want)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestDefaultDBPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GENIUSPREP_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	want := filepath.Join(dir, "geniusprep", "geniusprep.db")
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}
