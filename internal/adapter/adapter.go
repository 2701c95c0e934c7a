// Package adapter wraps external AI command-line tools behind a common
// capability: given a prompt and optional system instructions, return text
// or fail. Each adapter knows how to locate its CLI, build the argument
// list and map process outcomes onto a Result.
package adapter

import (
	"context"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single CLI invocation unless overridden.
const DefaultTimeout = 600 * time.Second

// Request describes one invocation of the underlying CLI.
type Request struct {
	Prompt       string
	Model        string // overrides the adapter's default model when set
	Instructions string // system instructions (SOP text) prepended to the prompt
	Timeout      time.Duration
	WebSearch    bool // ask the tool to use its web search capability
}

// Result is the outcome of one CLI invocation.
type Result struct {
	Output   string
	Success  bool
	Err      string
	ExitCode int
}

// Adapter is the executor capability the worker pool depends on.
type Adapter interface {
	Name() string
	Execute(ctx context.Context, req Request) Result
	IsAvailable() bool
	Models() []string
}

// Hooks for tests.
var (
	lookPathFn     = exec.LookPath
	commandContext = exec.CommandContext
)

// combinePrompt prepends system instructions to the prompt.
func combinePrompt(instructions, prompt string) string {
	if instructions == "" {
		return prompt
	}
	return instructions + "\n\n---\n\n" + prompt
}
