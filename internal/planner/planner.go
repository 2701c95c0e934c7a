// Package planner runs the manager phase: it asks the AI tool to plan
// research tasks for the requested states and converts the plan into worker
// tasks with the right prompts and instructions.
package planner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"marketscout/internal/adapter"
	"marketscout/internal/config"
	"marketscout/internal/logger"
	"marketscout/internal/utils"
	"marketscout/internal/worker"
)

// SOP file layout under the SOP directory.
var sopFiles = map[string]string{
	"manager":          filepath.Join("manager", "research_strategy.md"),
	"city_search":      filepath.Join("worker", "city_search.md"),
	"company_research": filepath.Join("worker", "company_research.md"),
}

type Planner struct {
	adapter adapter.Adapter
	model   string
	timeout time.Duration
	sops    map[string]string
}

// New builds a planner using the given adapter and manager model. SOP files
// that don't exist are simply absent; tasks then run without instructions.
func New(a adapter.Adapter, model, sopDir string, timeout time.Duration) *Planner {
	sops := make(map[string]string, len(sopFiles))
	for name, rel := range sopFiles {
		data, err := os.ReadFile(filepath.Join(sopDir, rel))
		if err != nil {
			continue
		}
		sops[name] = strings.TrimRight(string(data), "\r\n")
	}
	logger.LogInfo(fmt.Sprintf("Loaded %d SOPs from %s", len(sops), sopDir))

	return &Planner{adapter: a, model: model, timeout: timeout, sops: sops}
}

// PlanTasks runs the manager prompt and converts its output into worker
// tasks. When the manager produces nothing usable, city-search tasks are
// synthesized from the major-cities table so a run can still proceed.
func (p *Planner) PlanTasks(ctx context.Context, target config.Target, states []string) ([]worker.Task, error) {
	result := p.adapter.Execute(ctx, adapter.Request{
		Prompt:       p.buildManagerPrompt(target, states),
		Model:        p.model,
		Instructions: p.sops["manager"],
		Timeout:      p.timeout,
	})
	if !result.Success {
		logger.LogWarn(fmt.Sprintf("Manager failed: %s; falling back to major cities", result.Err))
		return p.fallbackTasks(target, states), nil
	}

	logger.LogDebug("Manager output: " + utils.SafeTruncate(result.Output, 500))

	dicts := parseTaskList(result.Output)
	if len(dicts) == 0 {
		logger.LogWarn("Manager produced no parseable tasks; falling back to major cities")
		return p.fallbackTasks(target, states), nil
	}

	tasks := p.BuildTasks(dicts)
	if len(tasks) == 0 {
		return nil, fmt.Errorf("manager generated %d task entries but none were usable", len(dicts))
	}
	logger.LogInfo(fmt.Sprintf("Manager generated %d tasks", len(tasks)))
	return tasks, nil
}

func (p *Planner) buildManagerPrompt(target config.Target, states []string) string {
	industry := target.Industry
	if industry == "" {
		industry = "businesses"
	}
	searchTerms := target.SearchTerms
	if len(searchTerms) == 0 {
		searchTerms = []string{industry}
	}

	names := make([]string, 0, len(states))
	for _, code := range states {
		if full := StateName(code); full != "" {
			names = append(names, fmt.Sprintf("%s (%s)", code, full))
			continue
		}
		names = append(names, code)
	}

	return fmt.Sprintf(`Generate research tasks for the following:

Industry: %s
States to research: %s
Search terms to use: %s
Data fields to collect: %s

Generate a JSON array of search tasks for each major city in these states.
Each task must be an object with task_id, task_type, city, state, industry,
search_terms and data_fields.`,
		industry,
		strings.Join(names, ", "),
		strings.Join(searchTerms, ", "),
		strings.Join(target.DataFields, ", "))
}

// parseTaskList extracts the manager's task array from its raw output.
func parseTaskList(output string) []map[string]any {
	payload, ok := worker.ExtractJSON(output)
	if !ok {
		return nil
	}
	list, ok := payload.([]any)
	if !ok {
		return nil
	}

	dicts := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if dict, ok := item.(map[string]any); ok {
			dicts = append(dicts, dict)
		}
	}
	return dicts
}

// BuildTasks converts manager task entries into worker tasks.
func (p *Planner) BuildTasks(dicts []map[string]any) []worker.Task {
	tasks := make([]worker.Task, 0, len(dicts))
	for _, dict := range dicts {
		kind := taskKind(getString(dict, "task_type"))

		id := getString(dict, "task_id")
		if id == "" {
			id = fmt.Sprintf("task_%d", len(tasks))
		}

		var prompt string
		switch kind {
		case worker.KindCitySearch:
			prompt = buildCitySearchPrompt(dict)
		case worker.KindCompanyResearch:
			prompt = buildCompanyResearchPrompt(dict)
		default:
			raw, err := json.Marshal(dict)
			if err != nil {
				continue
			}
			prompt = string(raw)
		}

		tasks = append(tasks, worker.Task{
			ID:           id,
			Kind:         kind,
			Prompt:       prompt,
			Instructions: p.instructionsFor(kind),
			Metadata:     dict,
		})
	}
	return tasks
}

// fallbackTasks synthesizes one city-search task per major city in the
// requested states.
func (p *Planner) fallbackTasks(target config.Target, states []string) []worker.Task {
	var tasks []worker.Task
	for _, state := range states {
		for _, city := range MajorCitiesFor(state) {
			dict := map[string]any{
				"task_type": string(worker.KindCitySearch),
				"city":      city,
				"state":     strings.ToUpper(state),
				"industry":  target.Industry,
			}
			id := fmt.Sprintf("city_%s_%s", strings.ToLower(state), slugify(city))
			dict["task_id"] = id

			tasks = append(tasks, worker.Task{
				ID:           id,
				Kind:         worker.KindCitySearch,
				Prompt:       buildCitySearchPrompt(dict),
				Instructions: p.instructionsFor(worker.KindCitySearch),
				Metadata:     dict,
			})
		}
	}
	return tasks
}

func (p *Planner) instructionsFor(kind worker.TaskKind) string {
	if sop, ok := p.sops[string(kind)]; ok {
		return sop
	}
	return p.sops[string(worker.KindCitySearch)]
}

func taskKind(raw string) worker.TaskKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(worker.KindCitySearch), "":
		return worker.KindCitySearch
	case string(worker.KindCompanyResearch):
		return worker.KindCompanyResearch
	default:
		return worker.KindOther
	}
}

func buildCitySearchPrompt(dict map[string]any) string {
	return fmt.Sprintf(`Search for businesses in:
City: %s
State: %s
Industry: %s

Search terms to use: %s
Data fields to collect: %s

Task ID: %s

Find and return information about relevant businesses in this city.
Output your findings as a JSON object following the format in your instructions.`,
		getString(dict, "city"),
		getString(dict, "state"),
		getString(dict, "industry"),
		strings.Join(getStrings(dict, "search_terms"), ", "),
		strings.Join(getStrings(dict, "data_fields"), ", "),
		getString(dict, "task_id"))
}

func buildCompanyResearchPrompt(dict map[string]any) string {
	return fmt.Sprintf(`Research this company:
Company Name: %s
Location: %s, %s
Industry: %s

Task ID: %s

Gather detailed information about this company.
Output your findings as a JSON object following the format in your instructions.`,
		getString(dict, "company_name"),
		getString(dict, "city"),
		getString(dict, "state"),
		getString(dict, "industry"),
		getString(dict, "task_id"))
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getStrings(m map[string]any, key string) []string {
	list, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func slugify(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
