package adapter

import (
	"context"
	"strings"
)

// geminiModels are the models the Gemini CLI accepts.
var geminiModels = []string{
	"gemini-2.5-pro",
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
}

const geminiDefaultModel = "gemini-2.5-flash"

// Gemini drives Google's Gemini CLI tool.
type Gemini struct {
	defaultModel string
	cliPath      string
}

func NewGemini(defaultModel string) *Gemini {
	if strings.TrimSpace(defaultModel) == "" {
		defaultModel = geminiDefaultModel
	}
	path, err := lookPathFn("gemini")
	if err != nil {
		path = ""
	}
	return &Gemini{defaultModel: defaultModel, cliPath: path}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Models() []string {
	return append([]string(nil), geminiModels...)
}

func (g *Gemini) IsAvailable() bool {
	return checkAvailable(g.cliPath)
}

// Path returns the resolved CLI executable path, empty when not installed.
func (g *Gemini) Path() string { return g.cliPath }

func (g *Gemini) Execute(ctx context.Context, req Request) Result {
	if g.cliPath == "" {
		return Result{Success: false, Err: "gemini CLI not found; install it first", ExitCode: -1}
	}

	prompt := req.Prompt
	if req.WebSearch {
		// The @web prefix enables the CLI's web search tool.
		prompt = "@web " + prompt
	}
	full := combinePrompt(req.Instructions, prompt)

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = g.defaultModel
	}

	args := []string{"--model", model, "--prompt", full}
	return runCLI(ctx, g.cliPath, args, req.Timeout)
}
