package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"marketscout/internal/adapter"
	"marketscout/internal/config"
	"marketscout/internal/logger"
	"marketscout/internal/utils"
)

// Options configures a Pool. Zero values fall back to the defaults in
// the config package.
type Options struct {
	MaxWorkers int
	SpawnDelay time.Duration
	Timeout    time.Duration
	OutputDir  string

	// OnComplete is invoked once per finished task, in completion order,
	// from the pool's collector goroutine.
	OnComplete func(TaskResult)
}

// Pool executes tasks through an adapter with bounded concurrency and
// rate-limited submission.
type Pool struct {
	adapter    adapter.Adapter
	maxWorkers int
	spawnDelay time.Duration
	timeout    time.Duration
	outputDir  string
	onComplete func(TaskResult)
}

// NewPool builds a pool and ensures the artifact output directory exists.
func NewPool(a adapter.Adapter, opts Options) (*Pool, error) {
	if a == nil {
		return nil, fmt.Errorf("worker pool requires an adapter")
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = config.DefaultMaxWorkers
	}
	if opts.SpawnDelay < 0 {
		opts.SpawnDelay = 0
	}
	if opts.Timeout <= 0 {
		opts.Timeout = adapter.DefaultTimeout
	}
	if opts.OutputDir == "" {
		opts.OutputDir = config.DefaultOutputDir
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", opts.OutputDir, err)
	}
	return &Pool{
		adapter:    a,
		maxWorkers: opts.MaxWorkers,
		spawnDelay: opts.SpawnDelay,
		timeout:    opts.Timeout,
		outputDir:  opts.OutputDir,
		onComplete: opts.OnComplete,
	}, nil
}

func (p *Pool) MaxWorkers() int   { return p.maxWorkers }
func (p *Pool) OutputDir() string { return p.outputDir }

// ExecuteTasks runs tasks with at most MaxWorkers in flight, pausing
// SpawnDelay between submissions. Results are returned in completion order.
// Cancelling ctx stops further submissions; tasks already in flight run to
// completion or their own timeout, and no result is fabricated for tasks
// never submitted.
func (p *Pool) ExecuteTasks(ctx context.Context, tasks []Task, model string) []TaskResult {
	results := make([]TaskResult, 0, len(tasks))
	resultCh := make(chan TaskResult)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for res := range resultCh {
			results = append(results, res)
			if p.onComplete != nil {
				p.onComplete(res)
			}
		}
	}()

	g := new(errgroup.Group)
	g.SetLimit(p.maxWorkers)

submit:
	for i := range tasks {
		if i > 0 && p.spawnDelay > 0 {
			select {
			case <-ctx.Done():
				break submit
			case <-time.After(p.spawnDelay):
			}
		}
		if ctx.Err() != nil {
			logger.LogWarn(fmt.Sprintf("Run cancelled; %d of %d tasks not submitted", len(tasks)-i, len(tasks)))
			break
		}

		task := tasks[i]
		g.Go(func() error {
			resultCh <- p.ExecuteTask(ctx, task, model)
			return nil
		})
	}

	_ = g.Wait()
	close(resultCh)
	<-done

	return results
}

// ExecuteTask runs a single task. It never panics out: adapter failures,
// persistence failures and internal panics are all converted into a failed
// TaskResult so sibling tasks are unaffected.
func (p *Pool) ExecuteTask(ctx context.Context, task Task, model string) (res TaskResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.LogError(fmt.Sprintf("Task %s panicked: %v", task.ID, r))
			res = TaskResult{
				TaskID:  task.ID,
				Err:     fmt.Sprintf("panic: %v", r),
				Elapsed: time.Since(start).Seconds(),
			}
		}
	}()

	result := p.adapter.Execute(ctx, adapter.Request{
		Prompt:       task.Prompt,
		Model:        model,
		Instructions: task.Instructions,
		Timeout:      p.timeout,
		WebSearch:    true,
	})
	elapsed := time.Since(start).Seconds()

	if !result.Success {
		logger.LogWarn(fmt.Sprintf("Task %s failed: %s", task.ID, utils.Truncate(result.Err, 200)))
		return TaskResult{TaskID: task.ID, Err: result.Err, Elapsed: elapsed}
	}

	// A parse failure is not a task failure; the raw text is still useful.
	payload, ok := ExtractJSON(result.Output)
	if !ok {
		logger.LogWarn(fmt.Sprintf("Task %s output is not extractable JSON (%d bytes)", task.ID, len(result.Output)))
		payload = nil
	}

	if err := p.saveResult(task.ID, result.Output, payload); err != nil {
		logger.LogError(fmt.Sprintf("Task %s: persist artifacts: %v", task.ID, err))
		return TaskResult{TaskID: task.ID, Err: err.Error(), Elapsed: elapsed}
	}

	logger.LogInfo(fmt.Sprintf("Task %s completed in %.1fs", task.ID, elapsed))
	return TaskResult{
		TaskID:  task.ID,
		Success: true,
		Output:  result.Output,
		Payload: payload,
		Elapsed: elapsed,
	}
}

// saveResult writes the raw output unconditionally and the parsed payload
// when present. Filenames derive from the task id, so concurrent writers
// never collide while ids are unique within a run.
func (p *Pool) saveResult(taskID, rawOutput string, payload any) error {
	rawPath := filepath.Join(p.outputDir, taskID+"_raw.txt")
	if err := os.WriteFile(rawPath, []byte(rawOutput), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rawPath, err)
	}

	if payload == nil {
		return nil
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode payload for task %s: %w", taskID, err)
	}
	jsonPath := filepath.Join(p.outputDir, taskID+".json")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", jsonPath, err)
	}
	return nil
}
