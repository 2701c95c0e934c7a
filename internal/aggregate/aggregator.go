package aggregate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"marketscout/internal/logger"
)

// rawArtifactMarker marks raw-text sibling artifacts that must be excluded
// from aggregation input scanning.
const rawArtifactMarker = "_raw"

// ResultFile is one loaded worker output: the file's base name and its
// validated JSON payload.
type ResultFile struct {
	Name string
	Data json.RawMessage
}

// Summary reports one aggregation pass back to the caller.
type Summary struct {
	InputFiles        int      `json:"input_files"`
	TotalRecords      int      `json:"total_records_found"`
	UniqueRecords     int      `json:"unique_records"`
	DuplicatesRemoved int      `json:"duplicates_removed"`
	OutputFiles       []string `json:"output_files"`
}

// Aggregator reads worker result files, extracts and deduplicates business
// records, and exports them.
type Aggregator struct {
	inputDir  string
	outputDir string
}

func NewAggregator(inputDir, outputDir string) (*Aggregator, error) {
	if inputDir == "" {
		return nil, fmt.Errorf("aggregator requires an input directory")
	}
	if outputDir == "" {
		return nil, fmt.Errorf("aggregator requires an output directory")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create aggregated dir %s: %w", outputDir, err)
	}
	return &Aggregator{inputDir: inputDir, outputDir: outputDir}, nil
}

// LoadResults reads every JSON result file from the input directory,
// skipping raw-text artifacts. Unreadable or malformed files are logged and
// skipped; one bad file never aborts the pass.
func (a *Aggregator) LoadResults() ([]ResultFile, error) {
	matches, err := filepath.Glob(filepath.Join(a.inputDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", a.inputDir, err)
	}

	var files []ResultFile
	for _, path := range matches {
		base := strings.TrimSuffix(filepath.Base(path), ".json")
		if strings.HasSuffix(base, rawArtifactMarker) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			logger.LogError(fmt.Sprintf("Error reading %s: %v", filepath.Base(path), err))
			continue
		}
		if !json.Valid(data) {
			logger.LogWarn(fmt.Sprintf("Failed to parse %s: not valid JSON", filepath.Base(path)))
			continue
		}
		files = append(files, ResultFile{Name: filepath.Base(path), Data: data})
	}

	logger.LogInfo(fmt.Sprintf("Loaded %d result files from %s", len(files), a.inputDir))
	return files, nil
}

// ExtractBusinesses pulls business records out of loaded result files.
// Extraction is best effort: files with unrecognized shapes contribute
// nothing.
func ExtractBusinesses(files []ResultFile) []Business {
	var records []Business
	for _, f := range files {
		records = append(records, extractRecords(f.Data, f.Name)...)
	}
	logger.LogInfo(fmt.Sprintf("Extracted %d business records", len(records)))
	return records
}

// Aggregate runs the full pipeline: load, extract, deduplicate, export.
// A failing export does not prevent the other requested formats; all export
// errors are joined and returned alongside the summary.
func (a *Aggregator) Aggregate(formats []string) (Summary, error) {
	if len(formats) == 0 {
		formats = []string{"json", "csv"}
	}

	files, err := a.LoadResults()
	if err != nil {
		return Summary{}, err
	}

	records := ExtractBusinesses(files)
	unique := Deduplicate(records)
	logger.LogInfo(fmt.Sprintf("Removed %d duplicates, %d unique records", len(records)-len(unique), len(unique)))

	summary := Summary{
		InputFiles:        len(files),
		TotalRecords:      len(records),
		UniqueRecords:     len(unique),
		DuplicatesRemoved: len(records) - len(unique),
	}

	var exportErrs []error
	for _, format := range formats {
		var path string
		var err error
		switch strings.ToLower(strings.TrimSpace(format)) {
		case "json":
			path, err = a.ExportJSON(unique, "results.json")
		case "csv":
			path, err = a.ExportCSV(unique, "results.csv")
		default:
			err = fmt.Errorf("unsupported export format %q", format)
		}
		if err != nil {
			exportErrs = append(exportErrs, err)
			continue
		}
		summary.OutputFiles = append(summary.OutputFiles, path)
	}

	return summary, errors.Join(exportErrs...)
}
