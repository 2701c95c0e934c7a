package aggregate

import (
	"strings"

	"github.com/goccy/go-json"
)

// Result payloads arrive in three shapes: a city-search object carrying a
// businesses list plus shared context, a single company profile, or a bare
// array of records. Each shape gets its own decode type and the shapes are
// tried in that fixed priority order.

type recordPayload struct {
	CompanyName string `json:"company_name"`
	City        string `json:"city"`
	State       string `json:"state"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Email       string `json:"email"`
	Industry    string `json:"industry"`
}

type cityResults struct {
	// Pointer so field presence is distinguishable from an empty list.
	Businesses *[]recordPayload `json:"businesses"`
	City       string           `json:"city"`
	State      string           `json:"state"`
	Industry   string           `json:"industry"`
	TaskID     string           `json:"task_id"`
}

type companyProfile struct {
	CompanyName string `json:"company_name"`
	TaskID      string `json:"task_id"`
	Location    struct {
		City    string `json:"city"`
		State   string `json:"state"`
		Address string `json:"address"`
	} `json:"location"`
	Contact struct {
		Phone   string `json:"phone"`
		Website string `json:"website"`
		Email   string `json:"email"`
	} `json:"contact"`
}

// profileKnownKeys are consumed by the companyProfile decode; everything
// else in the object is preserved as extra data.
var profileKnownKeys = map[string]struct{}{
	"company_name": {},
	"task_id":      {},
	"location":     {},
	"contact":      {},
}

// extractRecords decodes one result payload into business records.
// Unrecognized shapes yield zero records, not an error.
func extractRecords(data []byte, source string) []Business {
	if records, ok := decodeCityResults(data, source); ok {
		return records
	}
	if record, ok := decodeCompanyProfile(data, source); ok {
		return []Business{record}
	}
	if records, ok := decodeRecordList(data, source); ok {
		return records
	}
	return nil
}

func decodeCityResults(data []byte, source string) ([]Business, bool) {
	var cr cityResults
	if err := json.Unmarshal(data, &cr); err != nil || cr.Businesses == nil {
		return nil, false
	}

	sourceTask := cr.TaskID
	if sourceTask == "" {
		sourceTask = source
	}

	var records []Business
	for _, rec := range *cr.Businesses {
		if strings.TrimSpace(rec.CompanyName) == "" {
			continue
		}
		records = append(records, Business{
			CompanyName: rec.CompanyName,
			City:        pick(rec.City, cr.City),
			State:       pick(rec.State, cr.State),
			Address:     rec.Address,
			Phone:       NormalizePhone(rec.Phone),
			Website:     NormalizeURL(rec.Website),
			Email:       rec.Email,
			Industry:    pick(rec.Industry, cr.Industry),
			SourceTask:  sourceTask,
		})
	}
	return records, true
}

func decodeCompanyProfile(data []byte, source string) (Business, bool) {
	var cp companyProfile
	if err := json.Unmarshal(data, &cp); err != nil || strings.TrimSpace(cp.CompanyName) == "" {
		return Business{}, false
	}

	sourceTask := cp.TaskID
	if sourceTask == "" {
		sourceTask = source
	}

	record := Business{
		CompanyName: cp.CompanyName,
		City:        cp.Location.City,
		State:       cp.Location.State,
		Address:     cp.Location.Address,
		Phone:       NormalizePhone(cp.Contact.Phone),
		Website:     NormalizeURL(cp.Contact.Website),
		Email:       cp.Contact.Email,
		SourceTask:  sourceTask,
	}

	// Preserve domain-specific fields the profile shape doesn't model.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err == nil {
		for key, val := range raw {
			if _, known := profileKnownKeys[key]; known {
				continue
			}
			var v any
			if err := json.Unmarshal(val, &v); err != nil {
				continue
			}
			if record.Extra == nil {
				record.Extra = make(map[string]any)
			}
			record.Extra[key] = v
		}
	}

	return record, true
}

func decodeRecordList(data []byte, source string) ([]Business, bool) {
	var list []recordPayload
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, false
	}

	var records []Business
	for _, rec := range list {
		if strings.TrimSpace(rec.CompanyName) == "" {
			continue
		}
		records = append(records, Business{
			CompanyName: rec.CompanyName,
			City:        rec.City,
			State:       rec.State,
			Address:     rec.Address,
			Phone:       NormalizePhone(rec.Phone),
			Website:     NormalizeURL(rec.Website),
			Email:       rec.Email,
			Industry:    rec.Industry,
			SourceTask:  source,
		})
	}
	return records, true
}

func pick(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
