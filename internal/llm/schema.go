package llm

import (
	"encoding/json"
	"strings"
)

// wrappedItemsKey is the property array-root schemas are nested under for
// backends that only accept an object at the top level.
const wrappedItemsKey = "items"

// objectRoot returns a definition whose root is an object. Array roots are
// wrapped under wrappedItemsKey; wrapped reports whether that happened.
func objectRoot(def map[string]any) (root map[string]any, wrapped bool) {
	if t, _ := def["type"].(string); t != "array" {
		return def, false
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			wrappedItemsKey: def,
		},
		"required": []any{wrappedItemsKey},
	}, true
}

// unwrapItems reverses objectRoot on a response body. Content that does not
// have the wrapped shape is returned unchanged.
func unwrapItems(content json.RawMessage) json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(content, &obj); err != nil {
		return content
	}
	items, ok := obj[wrappedItemsKey]
	if !ok || !strings.HasPrefix(strings.TrimSpace(string(items)), "[") {
		return content
	}
	return items
}
