package aggregate

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"marketscout/internal/logger"
)

// csvColumns is the fixed CSV column set. Extra fields outside this set are
// silently dropped.
var csvColumns = []string{
	"company_name", "city", "state", "address",
	"phone", "website", "email", "industry", "source_task",
}

// ExportJSON writes records wrapped in an envelope carrying the generation
// timestamp and total count, and returns the output path.
func (a *Aggregator) ExportJSON(records []Business, filename string) (string, error) {
	path := filepath.Join(a.outputDir, filename)

	businesses := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		businesses = append(businesses, rec.asMap())
	}

	envelope := map[string]any{
		"generated_at":  time.Now().Format(time.RFC3339),
		"total_records": len(records),
		"businesses":    businesses,
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode aggregated JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	logger.LogInfo(fmt.Sprintf("Exported JSON to %s", path))
	return path, nil
}

// ExportCSV writes records with the fixed column set; missing optional
// fields render as empty cells.
func (a *Aggregator) ExportCSV(records []Business, filename string) (string, error) {
	path := filepath.Join(a.outputDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		return "", fmt.Errorf("write CSV header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.CompanyName, rec.City, rec.State, rec.Address,
			rec.Phone, rec.Website, rec.Email, rec.Industry, rec.SourceTask,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush CSV %s: %w", path, err)
	}

	logger.LogInfo(fmt.Sprintf("Exported CSV to %s", path))
	return path, nil
}
