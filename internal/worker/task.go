// Package worker runs research tasks through an AI CLI adapter with bounded
// concurrency, persisting per-task artifacts for later aggregation.
package worker

// TaskKind classifies what a task is asking the external tool to do.
type TaskKind string

const (
	KindCitySearch      TaskKind = "city_search"
	KindCompanyResearch TaskKind = "company_research"
	KindOther           TaskKind = "other"
)

// Task is one unit of delegated research work. Tasks are produced by the
// planner and are not modified after creation.
type Task struct {
	ID           string
	Kind         TaskKind
	Prompt       string
	Instructions string
	Metadata     map[string]any
}

// TaskResult captures the outcome of executing one task. Success refers to
// the execution itself; a result may be successful with a nil Payload when
// the tool's output was not extractable JSON.
type TaskResult struct {
	TaskID  string  `json:"task_id"`
	Success bool    `json:"success"`
	Output  string  `json:"output,omitempty"`
	Payload any     `json:"payload,omitempty"`
	Err     string  `json:"error,omitempty"`
	Elapsed float64 `json:"elapsed_seconds"`
}

// Stats aggregates a completed run.
type Stats struct {
	TotalTasks    int      `json:"total_tasks"`
	Successful    int      `json:"successful"`
	Failed        int      `json:"failed"`
	SuccessRate   float64  `json:"success_rate"`
	TotalTime     float64  `json:"total_time"`
	AverageTime   float64  `json:"average_time"`
	FailedTaskIDs []string `json:"failed_task_ids"`
}

// ComputeStats summarizes a result list. An empty list yields zero rates and
// times rather than an error.
func ComputeStats(results []TaskResult) Stats {
	s := Stats{TotalTasks: len(results)}
	for _, r := range results {
		s.TotalTime += r.Elapsed
		if r.Success {
			s.Successful++
		} else {
			s.Failed++
			s.FailedTaskIDs = append(s.FailedTaskIDs, r.TaskID)
		}
	}
	if s.TotalTasks > 0 {
		s.SuccessRate = float64(s.Successful) / float64(s.TotalTasks) * 100
		s.AverageTime = s.TotalTime / float64(s.TotalTasks)
	}
	return s
}
