package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"marketscout/internal/aggregate"
	"marketscout/internal/config"
	"marketscout/internal/logger"
)

type aggregateOptions struct {
	InputDir   string
	OutputDir  string
	Format     string
	ConfigFile string
}

func newAggregateCommand() *cobra.Command {
	opts := &aggregateOptions{}

	cmd := &cobra.Command{
		Use:           "aggregate",
		Short:         "Deduplicate and export previously collected results",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(opts.Format)
			if err != nil {
				return err
			}

			code := runWithLoggerAndCleanup(func() int {
				return runAggregate(opts, formats)
			})
			if code != 0 {
				return exitError{code: code}
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&opts.InputDir, "input", "i", "", "Directory containing worker result files")
	fs.StringVarP(&opts.OutputDir, "output", "o", "", "Directory for aggregated exports")
	fs.StringVarP(&opts.Format, "format", "f", "both", "Export format: json, csv or both")
	fs.StringVar(&opts.ConfigFile, "config", "", "Config file path (default: $HOME/.marketscout/config.*)")

	return cmd
}

func parseFormats(raw string) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "json":
		return []string{"json"}, nil
	case "csv":
		return []string{"csv"}, nil
	case "both", "":
		return []string{"json", "csv"}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (want json, csv or both)", raw)
	}
}

func runAggregate(opts *aggregateOptions, formats []string) int {
	v, err := config.NewViper(opts.ConfigFile)
	if err != nil {
		logger.LogError(err.Error())
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}
	settings := config.Load(v)

	inputDir := settings.OutputDir
	if opts.InputDir != "" {
		inputDir = opts.InputDir
	}
	outputDir := settings.AggregatedDir
	if opts.OutputDir != "" {
		outputDir = opts.OutputDir
	}

	agg, err := aggregate.NewAggregator(inputDir, outputDir)
	if err != nil {
		logger.LogError(err.Error())
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	summary, err := agg.Aggregate(formats)
	printSummary(summary)
	if err != nil {
		logger.LogError(err.Error())
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}
	return 0
}
