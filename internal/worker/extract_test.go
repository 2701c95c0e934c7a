package worker

import (
	"reflect"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want any
		ok   bool
	}{
		{
			name: "bare object",
			text: `{"city": "Austin"}`,
			want: map[string]any{"city": "Austin"},
			ok:   true,
		},
		{
			name: "bare array",
			text: `[1, 2]`,
			want: []any{float64(1), float64(2)},
			ok:   true,
		},
		{
			name: "object wrapped in prose",
			text: "Sure, here is the data:\n{\"city\": \"Austin\"}\nLet me know if you need more.",
			want: map[string]any{"city": "Austin"},
			ok:   true,
		},
		{
			name: "array wrapped in prose",
			text: "Here are the results:\n[{\"company_name\": \"Acme\"}]",
			want: []any{map[string]any{"company_name": "Acme"}},
			ok:   true,
		},
		{
			name: "array preferred over inner object",
			text: "results: [{\"a\": 1}, {\"a\": 2}]",
			want: []any{map[string]any{"a": float64(1)}, map[string]any{"a": float64(2)}},
			ok:   true,
		},
		{
			name: "nested brackets",
			text: "data {\"outer\": {\"inner\": true}} trailing",
			want: map[string]any{"outer": map[string]any{"inner": true}},
			ok:   true,
		},
		{
			name: "single quotes repaired",
			text: "{'city': 'Austin'}",
			want: map[string]any{"city": "Austin"},
			ok:   true,
		},
		{
			name: "trailing comma repaired",
			text: `[{"a": 1},]`,
			want: []any{map[string]any{"a": float64(1)}},
			ok:   true,
		},
		{
			name: "empty input",
			text: "",
			ok:   false,
		},
		{
			name: "whitespace only",
			text: "  \n\t ",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.text)
			if ok != tt.ok {
				t.Fatalf("ExtractJSON(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if !tt.ok {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractJSON(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestBracketCandidate(t *testing.T) {
	tests := []struct {
		name string
		s    string
		open byte
		clos byte
		want string
	}{
		{"simple object", `x {"a":1} y`, '{', '}', `{"a":1}`},
		{"nested", `{"a":{"b":2}} tail`, '{', '}', `{"a":{"b":2}}`},
		{"unbalanced", `{"a":1`, '{', '}', ""},
		{"no bracket", "plain text", '[', ']', ""},
		{"array stops at depth zero", `[1,[2]] [3]`, '[', ']', `[1,[2]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bracketCandidate(tt.s, tt.open, tt.clos); got != tt.want {
				t.Errorf("bracketCandidate(%q) = %q, want %q", tt.s, got, tt.want)
			}
		})
	}
}
