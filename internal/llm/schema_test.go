package llm

import (
	"encoding/json"
	"testing"
)

func TestObjectRoot(t *testing.T) {
	obj := map[string]any{"type": "object"}
	if root, wrapped := objectRoot(obj); wrapped || root["type"] != "object" {
		t.Fatalf("expected object schema unchanged, got %v %v", root, wrapped)
	}

	arr := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	root, wrapped := objectRoot(arr)
	if !wrapped {
		t.Fatal("expected array root to be wrapped")
	}
	props := root["properties"].(map[string]any)
	if props[wrappedItemsKey].(map[string]any)["type"] != "array" {
		t.Fatalf("expected array under %q, got %v", wrappedItemsKey, props)
	}
}

func TestUnwrapItems(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"wrapped", `{"items":[1,2]}`, `[1,2]`},
		{"bare array", `[1,2]`, `[1,2]`},
		{"not json", `oops`, `oops`},
		{"items not array", `{"items":"x"}`, `{"items":"x"}`},
		{"missing items", `{"other":[1]}`, `{"other":[1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(unwrapItems(json.RawMessage(tt.in)))
			if got != tt.want {
				t.Errorf("unwrapItems(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
