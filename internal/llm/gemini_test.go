package llm

import (
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-3-pro-preview"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"age":   map[string]any{"type": "integer"},
			"grade": map[string]any{"type": "string", "enum": []any{"A", "B", "C"}},
			"scores": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
		},
		"required": []any{"name", "age"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["name"].Type != "STRING" {
		t.Fatalf("expected STRING for name, got %s", schema.Properties["name"].Type)
	}
	if schema.Properties["age"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for age, got %s", schema.Properties["age"].Type)
	}
	if len(schema.Properties["grade"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["grade"].Enum))
	}
	if schema.Properties["scores"].Type != "ARRAY" {
		t.Fatalf("expected ARRAY for scores, got %s", schema.Properties["scores"].Type)
	}
	if schema.Properties["scores"].Items.Type != "INTEGER" {
		t.Fatalf("expected INTEGER for scores items, got %s", schema.Properties["scores"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestBuildGeminiSchema_ArrayRoot(t *testing.T) {
	schema := buildGeminiSchema(map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"day": map[string]any{"type": "integer"},
			},
		},
	})
	if schema.Type != "ARRAY" {
		t.Fatalf("expected ARRAY root, got %s", schema.Type)
	}
	if schema.Items == nil || schema.Items.Properties["day"].Type != "INTEGER" {
		t.Fatal("expected integer day in element schema")
	}
}

func TestBuildGeminiContents_InlineMedia(t *testing.T) {
	contents, err := buildGeminiContents([]Message{{
		Role:    RoleUser,
		Content: "Explain this diagram.",
		Media:   []Media{{MIMEType: "image/png", Data: "aGVsbG8=", Size: 5}},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 || len(contents[0].Parts) != 2 {
		t.Fatalf("expected one content with two parts, got %+v", contents)
	}
	blob := contents[0].Parts[0].InlineData
	if blob == nil {
		t.Fatal("expected inline data first")
	}
	if blob.MIMEType != "image/png" || string(blob.Data) != "hello" {
		t.Fatalf("unexpected blob %q %q", blob.MIMEType, blob.Data)
	}
	if contents[0].Parts[1].Text != "Explain this diagram." {
		t.Fatalf("expected text second, got %q", contents[0].Parts[1].Text)
	}
}

func TestBuildGeminiContents_BadBase64(t *testing.T) {
	_, err := buildGeminiContents([]Message{{
		Role:  RoleUser,
		Media: []Media{{MIMEType: "image/png", Data: "!!not base64!!"}},
	}})
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestBuildGeminiConfig_Thinking(t *testing.T) {
	cfg := buildGeminiConfig(Request{ThinkingBudget: 2048, MaxTokens: 100})
	if cfg.ThinkingConfig == nil || cfg.ThinkingConfig.ThinkingBudget == nil {
		t.Fatal("expected thinking config")
	}
	if *cfg.ThinkingConfig.ThinkingBudget != 2048 {
		t.Fatalf("expected budget 2048, got %d", *cfg.ThinkingConfig.ThinkingBudget)
	}

	cfg = buildGeminiConfig(Request{})
	if cfg.ThinkingConfig != nil {
		t.Fatal("expected no thinking config without a budget")
	}
	if cfg.ResponseSchema != nil {
		t.Fatal("expected no schema for free-text request")
	}
}
