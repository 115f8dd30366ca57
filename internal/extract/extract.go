// Package extract recovers JSON objects from raw generative-model output.
// Models are only probabilistically compliant with "return only JSON", so
// parsing is a two-step pipeline: strip code fences and parse directly,
// then fall back to the outermost brace-delimited block.
package extract

import (
	"encoding/json"
	"strings"

	"careerly/internal/core"
)

// CleanCodeFences removes ``` / ```json fence markers and surrounding
// whitespace from model output.
func CleanCodeFences(raw string) string {
	cleaned := raw
	for _, fence := range []string{"```json", "```JSON", "```"} {
		cleaned = strings.ReplaceAll(cleaned, fence, "")
	}
	return strings.TrimSpace(cleaned)
}

// Object parses a JSON object out of raw model text. It tries a direct
// parse of the fence-stripped text first, then the greedy substring from
// the first '{' to the last '}'. Both failing yields InvalidAIResponseError.
func Object(raw string) (map[string]any, error) {
	cleaned := CleanCodeFences(raw)

	if obj, ok := tryParse(cleaned); ok {
		return obj, nil
	}
	if block, ok := braceBlock(cleaned); ok {
		if obj, ok := tryParse(block); ok {
			return obj, nil
		}
	}
	return nil, &core.InvalidAIResponseError{Excerpt: core.Excerpt(cleaned)}
}

func tryParse(text string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, false
	}
	if obj == nil {
		return nil, false
	}
	return obj, true
}

// braceBlock returns the substring spanning the first '{' through the last
// '}', mirroring a greedy /\{[\s\S]*\}/ match.
func braceBlock(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
