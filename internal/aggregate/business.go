// Package aggregate turns per-task result files into a deduplicated
// business dataset and exports it.
package aggregate

import "strings"

// Business is the canonical record produced by aggregation. Extra carries
// domain-specific fields that don't fit the fixed columns; they survive JSON
// export and are dropped from CSV.
type Business struct {
	CompanyName string         `json:"company_name"`
	City        string         `json:"city"`
	State       string         `json:"state"`
	Address     string         `json:"address,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Website     string         `json:"website,omitempty"`
	Email       string         `json:"email,omitempty"`
	Industry    string         `json:"industry,omitempty"`
	SourceTask  string         `json:"source_task,omitempty"`
	Extra       map[string]any `json:"-"`
}

// entitySuffixes are removed from company names before key comparison, in
// this order (longer forms before their prefixes).
var entitySuffixes = []string{" llc", " inc", " corp", " company", " co"}

// IdentityKey derives the deduplication key: normalized company name, city
// and state, pipe-delimited. Two records are duplicates iff their keys match.
func (b Business) IdentityKey() string {
	name := strings.ToLower(strings.TrimSpace(b.CompanyName))
	for _, suffix := range entitySuffixes {
		name = strings.ReplaceAll(name, suffix, "")
	}
	return name + "|" + strings.ToLower(b.City) + "|" + strings.ToUpper(b.State)
}

// Completeness counts populated fields, including extras. Used as the
// tie-break when two records share an identity key.
func (b Business) Completeness() int {
	count := 0
	for _, v := range []string{
		b.CompanyName, b.City, b.State, b.Address,
		b.Phone, b.Website, b.Email, b.Industry, b.SourceTask,
	} {
		if strings.TrimSpace(v) != "" {
			count++
		}
	}
	for _, v := range b.Extra {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		count++
	}
	return count
}

// asMap flattens the record for JSON export, merging extras at the top
// level the way the result consumers expect.
func (b Business) asMap() map[string]any {
	m := map[string]any{
		"company_name": b.CompanyName,
		"city":         b.City,
		"state":        b.State,
	}
	optional := map[string]string{
		"address":     b.Address,
		"phone":       b.Phone,
		"website":     b.Website,
		"email":       b.Email,
		"industry":    b.Industry,
		"source_task": b.SourceTask,
	}
	for k, v := range optional {
		if v != "" {
			m[k] = v
		}
	}
	for k, v := range b.Extra {
		if _, taken := m[k]; !taken {
			m[k] = v
		}
	}
	return m
}

// Deduplicate merges records sharing an identity key in one left-to-right
// pass. A candidate with strictly greater completeness replaces the retained
// record; ties keep the first seen. Output preserves first-seen key order.
func Deduplicate(records []Business) []Business {
	retained := make(map[string]Business, len(records))
	order := make([]string, 0, len(records))

	for _, rec := range records {
		key := rec.IdentityKey()
		existing, seen := retained[key]
		if !seen {
			retained[key] = rec
			order = append(order, key)
			continue
		}
		if rec.Completeness() > existing.Completeness() {
			retained[key] = rec
		}
	}

	out := make([]Business, 0, len(order))
	for _, key := range order {
		out = append(out, retained[key])
	}
	return out
}
