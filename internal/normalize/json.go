// Package normalize turns unreliable provider output into well-typed values.
// Nothing in here returns an error: every function degrades to a documented
// fallback instead.
package normalize

import (
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

var fenceLine = regexp.MustCompile("(?m)^[ \t]*```[A-Za-z0-9_+-]*[ \t]*$")

// StripFences removes fenced-code marker lines, optionally tagged (```json),
// and any stray backticks around the remaining text.
func StripFences(text string) string {
	t := fenceLine.ReplaceAllString(text, "")
	t = strings.TrimSpace(t)
	t = strings.Trim(t, "`")
	return strings.TrimSpace(t)
}

// ExtractJSON finds the first JSON object or array in text. It tries the whole
// fence-stripped text, then the tail starting at the first '{' or '[', then
// that tail cut back to each earlier closing '}' or ']'. The second return
// value is false when nothing parses.
func ExtractJSON(text string) (any, bool) {
	t := StripFences(text)
	if t == "" {
		return nil, false
	}
	if v, ok := parseStructured(t); ok {
		return v, true
	}

	start := strings.IndexAny(t, "{[")
	if start < 0 {
		return nil, false
	}
	candidate := t[start:]
	if v, ok := parseStructured(candidate); ok {
		return v, true
	}

	end := len(candidate)
	for end > 0 {
		idx := strings.LastIndexAny(candidate[:end], "}]")
		if idx < 0 {
			break
		}
		if v, ok := parseStructured(candidate[:idx+1]); ok {
			return v, true
		}
		end = idx
	}
	return nil, false
}

// ExtractArray is ExtractJSON restricted to arrays.
func ExtractArray(text string) ([]any, bool) {
	v, ok := ExtractJSON(text)
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}

// ExtractObject is ExtractJSON restricted to objects.
func ExtractObject(text string) (map[string]any, bool) {
	v, ok := ExtractJSON(text)
	if !ok {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

func parseStructured(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	switch v.(type) {
	case map[string]any, []any:
		return v, true
	default:
		return nil, false
	}
}
