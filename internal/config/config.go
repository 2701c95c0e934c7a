package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings holds the run configuration shared by the planner, worker pool
// and aggregator. It is built once and passed explicitly into constructors;
// there is no ambient global state.
type Settings struct {
	Backend       string
	ManagerModel  string
	WorkerModel   string
	MaxWorkers    int
	SpawnDelay    time.Duration
	TaskTimeout   time.Duration
	OutputDir     string
	AggregatedDir string
	SOPDir        string
	ExportFormats []string
}

const maxWorkersLimit = 100

// Defaults mirrored from the reference settings file.
const (
	DefaultBackend      = "gemini"
	DefaultManagerModel = "gemini-2.5-pro"
	DefaultWorkerModel  = "gemini-2.5-flash"
	DefaultMaxWorkers   = 10
	DefaultSpawnDelay   = 500 * time.Millisecond
	DefaultTaskTimeout  = 600 * time.Second
	DefaultOutputDir    = "data/outputs"
	DefaultAggregated   = "data/aggregated"
	DefaultSOPDir       = "sops"
)

// Load builds Settings from a configured viper instance, applying defaults
// for anything unset.
func Load(v *viper.Viper) Settings {
	v.SetDefault("backend", DefaultBackend)
	v.SetDefault("models.manager", DefaultManagerModel)
	v.SetDefault("models.worker", DefaultWorkerModel)
	v.SetDefault("parallelism.max-workers", DefaultMaxWorkers)
	v.SetDefault("parallelism.spawn-delay", DefaultSpawnDelay.Seconds())
	v.SetDefault("timeout", int(DefaultTaskTimeout.Seconds()))
	v.SetDefault("paths.outputs", DefaultOutputDir)
	v.SetDefault("paths.aggregated", DefaultAggregated)
	v.SetDefault("paths.sops", DefaultSOPDir)
	v.SetDefault("output.formats", []string{"json", "csv"})

	return Settings{
		Backend:       strings.TrimSpace(v.GetString("backend")),
		ManagerModel:  strings.TrimSpace(v.GetString("models.manager")),
		WorkerModel:   strings.TrimSpace(v.GetString("models.worker")),
		MaxWorkers:    ClampWorkers(v.GetInt("parallelism.max-workers")),
		SpawnDelay:    time.Duration(v.GetFloat64("parallelism.spawn-delay") * float64(time.Second)),
		TaskTimeout:   time.Duration(v.GetInt("timeout")) * time.Second,
		OutputDir:     v.GetString("paths.outputs"),
		AggregatedDir: v.GetString("paths.aggregated"),
		SOPDir:        v.GetString("paths.sops"),
		ExportFormats: v.GetStringSlice("output.formats"),
	}
}

// ClampWorkers bounds a worker count to [1, maxWorkersLimit], substituting
// the default for non-positive values.
func ClampWorkers(n int) int {
	if n <= 0 {
		return DefaultMaxWorkers
	}
	if n > maxWorkersLimit {
		return maxWorkersLimit
	}
	return n
}

// EnvFlagEnabled returns true when the environment variable exists and is
// not explicitly set to a falsey value ("0/false/no/off").
func EnvFlagEnabled(key string) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return false
	}
	return ParseBoolFlag(val, true)
}

func ParseBoolFlag(val string, defaultValue bool) bool {
	val = strings.TrimSpace(strings.ToLower(val))
	switch val {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off", "":
		return false
	default:
		return defaultValue
	}
}
