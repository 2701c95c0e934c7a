package worker

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/kaptinlin/jsonrepair"
)

// ExtractJSON recovers a JSON value from model output that may be wrapped in
// surrounding prose. It tries, in order: the whole text parsed directly, a
// depth-matched array candidate, a depth-matched object candidate (each
// parsed, then repaired), and finally a repair pass over the whole text.
// An array candidate outranks the object it contains.
func ExtractJSON(text string) (any, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}

	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
		return v, true
	}

	for _, pair := range []struct{ open, close byte }{{'[', ']'}, {'{', '}'}} {
		c := bracketCandidate(trimmed, pair.open, pair.close)
		if c == "" {
			continue
		}
		if v, ok := parseOrRepair(c); ok {
			return v, true
		}
	}

	// Last resort: repair the whole text, prose and all.
	return parseOrRepair(trimmed)
}

// parseOrRepair parses s as JSON, falling back to a repair pass for
// malformed output (truncated JSON, trailing commas, single quotes). Only
// container results count; repair happily turns bare prose into a JSON
// string, which is never a payload.
func parseOrRepair(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v, true
	}

	fixed, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(fixed), &v); err != nil {
		return nil, false
	}
	switch v.(type) {
	case map[string]any, []any:
		return v, true
	}
	return nil, false
}

// bracketCandidate returns the substring from the first open bracket to the
// position where nesting depth returns to zero, or "" when unbalanced.
func bracketCandidate(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
