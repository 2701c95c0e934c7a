package planner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"marketscout/internal/adapter"
	"marketscout/internal/config"
	"marketscout/internal/worker"
)

type fakeAdapter struct {
	result  adapter.Result
	lastReq adapter.Request
}

func (f *fakeAdapter) Name() string      { return "fake" }
func (f *fakeAdapter) IsAvailable() bool { return true }
func (f *fakeAdapter) Models() []string  { return nil }

func (f *fakeAdapter) Execute(ctx context.Context, req adapter.Request) adapter.Result {
	f.lastReq = req
	return f.result
}

func writeSOPs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	sops := map[string]string{
		filepath.Join("manager", "research_strategy.md"): "manager strategy",
		filepath.Join("worker", "city_search.md"):        "city search sop",
		filepath.Join("worker", "company_research.md"):   "company research sop",
	}
	for rel, content := range sops {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestPlanTasksFromManagerOutput(t *testing.T) {
	fake := &fakeAdapter{result: adapter.Result{
		Success: true,
		Output: `Here is the plan:
[
  {"task_id": "city_tx_houston", "task_type": "city_search", "city": "Houston", "state": "TX", "industry": "HVAC"},
  {"task_id": "company_acme", "task_type": "company_research", "company_name": "Acme", "city": "Austin", "state": "TX"},
  {"task_id": "misc_1", "task_type": "inventory_check", "note": "odd"}
]`,
	}}

	p := New(fake, "manager-model", writeSOPs(t), time.Minute)
	tasks, err := p.PlanTasks(context.Background(), config.NewTarget("HVAC"), []string{"TX"})
	if err != nil {
		t.Fatalf("PlanTasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(tasks))
	}

	if fake.lastReq.Model != "manager-model" {
		t.Errorf("manager model = %q", fake.lastReq.Model)
	}
	if fake.lastReq.Instructions != "manager strategy" {
		t.Errorf("manager SOP not attached: %q", fake.lastReq.Instructions)
	}
	if !strings.Contains(fake.lastReq.Prompt, "TX") || !strings.Contains(fake.lastReq.Prompt, "HVAC") {
		t.Errorf("manager prompt missing context:\n%s", fake.lastReq.Prompt)
	}

	city := tasks[0]
	if city.Kind != worker.KindCitySearch || city.ID != "city_tx_houston" {
		t.Errorf("city task wrong: %+v", city)
	}
	if !strings.Contains(city.Prompt, "Houston") {
		t.Errorf("city prompt missing city:\n%s", city.Prompt)
	}
	if city.Instructions != "city search sop" {
		t.Errorf("city SOP not attached: %q", city.Instructions)
	}

	company := tasks[1]
	if company.Kind != worker.KindCompanyResearch {
		t.Errorf("company task kind = %q", company.Kind)
	}
	if !strings.Contains(company.Prompt, "Acme") {
		t.Errorf("company prompt missing name:\n%s", company.Prompt)
	}
	if company.Instructions != "company research sop" {
		t.Errorf("company SOP not attached: %q", company.Instructions)
	}

	other := tasks[2]
	if other.Kind != worker.KindOther {
		t.Errorf("unknown type should map to other, got %q", other.Kind)
	}
	if !strings.Contains(other.Prompt, "inventory_check") {
		t.Errorf("other prompt should carry the raw entry:\n%s", other.Prompt)
	}
}

func TestPlanTasksFallsBackToMajorCities(t *testing.T) {
	tests := []struct {
		name   string
		result adapter.Result
	}{
		{"manager failed", adapter.Result{Err: "command timed out after 1s"}},
		{"no parseable tasks", adapter.Result{Success: true, Output: "I could not produce a plan."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAdapter{result: tt.result}
			p := New(fake, "m", t.TempDir(), time.Minute)

			tasks, err := p.PlanTasks(context.Background(), config.NewTarget("HVAC"), []string{"TX"})
			if err != nil {
				t.Fatalf("PlanTasks: %v", err)
			}
			if len(tasks) != len(MajorCitiesFor("TX")) {
				t.Fatalf("got %d tasks, want one per major city", len(tasks))
			}
			for _, task := range tasks {
				if task.Kind != worker.KindCitySearch {
					t.Errorf("fallback task kind = %q", task.Kind)
				}
				if !strings.HasPrefix(task.ID, "city_tx_") {
					t.Errorf("fallback task id = %q", task.ID)
				}
			}
		})
	}
}

func TestBuildTasksDefaults(t *testing.T) {
	p := New(&fakeAdapter{}, "m", t.TempDir(), time.Minute)

	tasks := p.BuildTasks([]map[string]any{
		{"city": "Austin", "state": "TX"},
		{"task_type": "city_search", "city": "Dallas", "state": "TX"},
	})
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if tasks[0].ID != "task_0" || tasks[1].ID != "task_1" {
		t.Errorf("missing ids should be generated: %q, %q", tasks[0].ID, tasks[1].ID)
	}
	if tasks[0].Kind != worker.KindCitySearch {
		t.Errorf("missing task_type should default to city search, got %q", tasks[0].Kind)
	}
}

func TestTaskKind(t *testing.T) {
	tests := []struct {
		raw  string
		want worker.TaskKind
	}{
		{"city_search", worker.KindCitySearch},
		{"COMPANY_RESEARCH", worker.KindCompanyResearch},
		{"", worker.KindCitySearch},
		{"  city_search  ", worker.KindCitySearch},
		{"something_else", worker.KindOther},
	}

	for _, tt := range tests {
		if got := taskKind(tt.raw); got != tt.want {
			t.Errorf("taskKind(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Houston", "houston"},
		{"New York City", "new_york_city"},
		{"St. Petersburg", "st__petersburg"},
		{"Winston-Salem", "winston_salem"},
	}

	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
