package adapter

import (
	"fmt"
	"strings"
)

var registry = map[string]func(defaultModel string) Adapter{
	"gemini": func(m string) Adapter { return NewGemini(m) },
	"claude": func(m string) Adapter { return NewClaude(m) },
}

// Select builds the named adapter with the given default model. An empty
// name selects gemini.
func Select(name, defaultModel string) (Adapter, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = "gemini"
	}
	if build, ok := registry[key]; ok {
		return build(defaultModel), nil
	}
	return nil, fmt.Errorf("unsupported backend %q", name)
}

// Names lists the registered adapter names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
