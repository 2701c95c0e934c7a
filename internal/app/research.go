package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"marketscout/internal/adapter"
	"marketscout/internal/aggregate"
	"marketscout/internal/config"
	"marketscout/internal/logger"
	"marketscout/internal/planner"
	"marketscout/internal/worker"
)

type researchOptions struct {
	TargetFile    string
	States        []string
	Workers       int
	Backend       string
	Model         string
	ManagerModel  string
	ConfigFile    string
	OutputDir     string
	SkipAggregate bool
}

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
)

func newResearchCommand() *cobra.Command {
	opts := &researchOptions{}

	cmd := &cobra.Command{
		Use:           "research",
		Short:         "Plan and run parallel business research for the given states",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			states, err := normalizeStates(opts.States)
			if err != nil {
				return err
			}

			code := runWithLoggerAndCleanup(func() int {
				return runResearch(cmd, opts, states)
			})
			if code != 0 {
				return exitError{code: code}
			}
			return nil
		},
	}

	addResearchFlags(cmd.Flags(), opts)
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("states")

	return cmd
}

func addResearchFlags(fs *pflag.FlagSet, opts *researchOptions) {
	fs.StringVarP(&opts.TargetFile, "target", "t", "", "Target config file (YAML)")
	fs.StringSliceVarP(&opts.States, "states", "s", nil, "State abbreviations to research (e.g. TX,CA)")
	fs.IntVarP(&opts.Workers, "workers", "w", 0, "Max parallel workers")
	fs.StringVar(&opts.Backend, "backend", "", "AI backend to use (gemini, claude)")
	fs.StringVar(&opts.Model, "model", "", "Worker model override")
	fs.StringVar(&opts.ManagerModel, "manager-model", "", "Manager model override")
	fs.StringVar(&opts.ConfigFile, "config", "", "Config file path (default: $HOME/.marketscout/config.*)")
	fs.StringVarP(&opts.OutputDir, "output", "o", "", "Directory for per-task result files")
	fs.BoolVar(&opts.SkipAggregate, "skip-aggregate", false, "Skip aggregation after the run")
}

// normalizeStates validates and uppercases the requested states.
func normalizeStates(raw []string) ([]string, error) {
	var states []string
	seen := make(map[string]bool)
	for _, s := range raw {
		code := strings.ToUpper(strings.TrimSpace(s))
		if code == "" {
			continue
		}
		if !planner.IsValidState(code) {
			return nil, fmt.Errorf("unknown state %q", s)
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		states = append(states, code)
	}
	if len(states) == 0 {
		return nil, fmt.Errorf("at least one state is required")
	}
	return states, nil
}

func runResearch(cmd *cobra.Command, opts *researchOptions, states []string) int {
	v, err := config.NewViper(opts.ConfigFile)
	if err != nil {
		logger.LogError(err.Error())
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}
	settings := config.Load(v)
	applyResearchOverrides(cmd, opts, &settings)

	target, err := config.LoadTarget(opts.TargetFile)
	if err != nil {
		logger.LogError(err.Error())
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	ai, err := adapter.Select(settings.Backend, settings.WorkerModel)
	if err != nil {
		logger.LogError(err.Error())
		fmt.Fprintf(os.Stderr, "ERROR: %v (available: %s)\n", err, strings.Join(adapter.Names(), ", "))
		return 1
	}
	if !ai.IsAvailable() {
		msg := fmt.Sprintf("%s CLI not found in PATH", ai.Name())
		logger.LogError(msg)
		fmt.Fprintf(os.Stderr, "ERROR: %s; install it or pick another backend\n", msg)
		return 1
	}

	logger.LogInfo(fmt.Sprintf("Research started: industry=%s states=%s backend=%s workers=%d",
		target.Industry, strings.Join(states, ","), ai.Name(), settings.MaxWorkers))
	fmt.Printf("Researching %s in %s using %s\n", target.Industry, strings.Join(states, ", "), ai.Name())

	// SIGINT stops submitting new tasks; in-flight tasks finish first.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pl := planner.New(ai, settings.ManagerModel, settings.SOPDir, settings.TaskTimeout)
	tasks, err := pl.PlanTasks(ctx, target, states)
	if err != nil {
		logger.LogError(err.Error())
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "ERROR: no tasks generated for the requested states")
		return 1
	}
	fmt.Printf("Planned %d tasks, running up to %d in parallel\n", len(tasks), settings.MaxWorkers)

	completed := 0
	pool, err := worker.NewPool(ai, worker.Options{
		MaxWorkers: settings.MaxWorkers,
		SpawnDelay: settings.SpawnDelay,
		Timeout:    settings.TaskTimeout,
		OutputDir:  settings.OutputDir,
		OnComplete: func(res worker.TaskResult) {
			completed++
			mark := okMark
			if !res.Success {
				mark = failMark
			}
			fmt.Printf("  %s [%d/%d] %s (%.1fs)\n", mark, completed, len(tasks), res.TaskID, res.Elapsed)
		},
	})
	if err != nil {
		logger.LogError(err.Error())
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	results := pool.ExecuteTasks(ctx, tasks, settings.WorkerModel)
	interrupted := ctx.Err() != nil

	stats := worker.ComputeStats(results)
	printStats(stats)

	if interrupted {
		fmt.Fprintln(os.Stderr, "Interrupted; partial results were kept")
	}

	if !opts.SkipAggregate && stats.Successful > 0 {
		agg, err := aggregate.NewAggregator(settings.OutputDir, settings.AggregatedDir)
		if err != nil {
			logger.LogError(err.Error())
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return 1
		}
		summary, err := agg.Aggregate(settings.ExportFormats)
		printSummary(summary)
		if err != nil {
			logger.LogError(err.Error())
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return 1
		}
	}

	switch {
	case interrupted:
		return 130
	case stats.Successful == 0:
		return 1
	default:
		return 0
	}
}

// applyResearchOverrides lets explicit flags win over config-file and
// environment settings.
func applyResearchOverrides(cmd *cobra.Command, opts *researchOptions, settings *config.Settings) {
	if cmd.Flags().Changed("backend") {
		settings.Backend = strings.TrimSpace(opts.Backend)
	}
	if cmd.Flags().Changed("model") {
		settings.WorkerModel = strings.TrimSpace(opts.Model)
	}
	if cmd.Flags().Changed("manager-model") {
		settings.ManagerModel = strings.TrimSpace(opts.ManagerModel)
	}
	if cmd.Flags().Changed("workers") {
		settings.MaxWorkers = config.ClampWorkers(opts.Workers)
	}
	if cmd.Flags().Changed("output") {
		settings.OutputDir = opts.OutputDir
	}
}

func printStats(stats worker.Stats) {
	fmt.Println()
	fmt.Printf("Tasks:        %d\n", stats.TotalTasks)
	fmt.Printf("Successful:   %s\n", color.GreenString("%d", stats.Successful))
	if stats.Failed > 0 {
		fmt.Printf("Failed:       %s (%s)\n", color.RedString("%d", stats.Failed), strings.Join(stats.FailedTaskIDs, ", "))
	} else {
		fmt.Printf("Failed:       %d\n", stats.Failed)
	}
	fmt.Printf("Success rate: %.1f%%\n", stats.SuccessRate)
	fmt.Printf("Average time: %.1fs\n", stats.AverageTime)
}

func printSummary(summary aggregate.Summary) {
	fmt.Println()
	fmt.Printf("Aggregated %d result files\n", summary.InputFiles)
	fmt.Printf("Records:    %d found, %d unique, %d duplicates removed\n",
		summary.TotalRecords, summary.UniqueRecords, summary.DuplicatesRemoved)
	for _, path := range summary.OutputFiles {
		fmt.Printf("Wrote %s\n", path)
	}
}
