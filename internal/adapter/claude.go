package adapter

import (
	"context"
	"strings"
)

var claudeModels = []string{
	"claude-opus-4-5-20251101",
	"claude-sonnet-4-5-20250929",
}

const claudeDefaultModel = "claude-sonnet-4-5-20250929"

// Claude drives the Claude Code CLI in non-interactive print mode.
type Claude struct {
	defaultModel string
	cliPath      string
}

func NewClaude(defaultModel string) *Claude {
	if strings.TrimSpace(defaultModel) == "" {
		defaultModel = claudeDefaultModel
	}
	path, err := lookPathFn("claude")
	if err != nil {
		path = ""
	}
	return &Claude{defaultModel: defaultModel, cliPath: path}
}

func (c *Claude) Name() string { return "claude" }

func (c *Claude) Models() []string {
	return append([]string(nil), claudeModels...)
}

func (c *Claude) IsAvailable() bool {
	return checkAvailable(c.cliPath)
}

func (c *Claude) Path() string { return c.cliPath }

func (c *Claude) Execute(ctx context.Context, req Request) Result {
	if c.cliPath == "" {
		return Result{Success: false, Err: "claude CLI not found; install it first", ExitCode: -1}
	}

	full := combinePrompt(req.Instructions, req.Prompt)

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.defaultModel
	}

	// Claude's web search runs through its own tooling; no prompt prefix.
	args := []string{"-p", "--model", model, "--output-format", "text", full}
	return runCLI(ctx, c.cliPath, args, req.Timeout)
}
