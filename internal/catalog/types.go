// Package catalog defines the scraped data model and its JSON persistence.
//
// An AgentRecord carries three required fields (name, category, use_case)
// plus an open set of additional string fields. The JSON form is a single
// flat object per record, so fields the scraper does not know about survive
// a load/save round trip unchanged.
package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Required record field keys.
const (
	FieldName     = "name"
	FieldCategory = "category"
	FieldUseCase  = "use_case"
)

// AgentRecord is one scraped entry describing a single AI agent listing.
type AgentRecord struct {
	Name     string
	Category string
	UseCase  string

	// Fields holds additional descriptive fields scraped from the source
	// page (description, url, review, ...). Keys are snake_case.
	Fields map[string]string
}

// Set stores a field value, routing the required keys to their struct
// fields and everything else to Fields. Empty values are dropped.
func (r *AgentRecord) Set(key, value string) {
	if value == "" {
		return
	}
	switch key {
	case FieldName:
		r.Name = value
	case FieldCategory:
		r.Category = value
	case FieldUseCase:
		r.UseCase = value
	default:
		if r.Fields == nil {
			r.Fields = make(map[string]string)
		}
		r.Fields[key] = value
	}
}

// Get returns the value for a field key, or "" if the record has none.
func (r AgentRecord) Get(key string) string {
	switch key {
	case FieldName:
		return r.Name
	case FieldCategory:
		return r.Category
	case FieldUseCase:
		return r.UseCase
	default:
		return r.Fields[key]
	}
}

// ExtraKeys returns the record's non-required field keys in sorted order.
func (r AgentRecord) ExtraKeys() []string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON flattens the record into a single JSON object.
func (r AgentRecord) MarshalJSON() ([]byte, error) {
	obj := make(map[string]string, len(r.Fields)+3)
	obj[FieldName] = r.Name
	obj[FieldCategory] = r.Category
	obj[FieldUseCase] = r.UseCase
	for k, v := range r.Fields {
		obj[k] = v
	}
	return json.Marshal(obj)
}

// UnmarshalJSON accepts a flat JSON object and tolerates non-string values:
// string lists are newline-joined, numbers and booleans are stringified,
// nested objects and nulls are dropped.
func (r *AgentRecord) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	*r = AgentRecord{}
	for k, v := range obj {
		if s, ok := coerceString(v); ok {
			r.Set(k, s)
		}
	}
	return nil
}

// coerceString converts a decoded JSON value to its string form.
// Nested objects and nulls report ok=false.
func coerceString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return fmt.Sprint(val), true
	case float64:
		// Avoid trailing ".000000" for whole numbers.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val)), true
		}
		return fmt.Sprint(val), true
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := coerceString(item); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, "\n"), true
	default:
		return "", false
	}
}

// Catalog is the ordered collection of all AgentRecords from one scrape
// run, insertion order = scrape order.
type Catalog struct {
	RunID     string        `json:"run_id"`
	ScrapedAt time.Time     `json:"scraped_at"`
	Agents    []AgentRecord `json:"agents"`
}

// New returns an empty Catalog stamped with a fresh run ID.
func New() *Catalog {
	return &Catalog{
		RunID:     uuid.New().String(),
		ScrapedAt: time.Now().UTC(),
	}
}

// Append adds a record to the end of the catalog.
func (c *Catalog) Append(r AgentRecord) {
	c.Agents = append(c.Agents, r)
}

// Len returns the number of records in the catalog.
func (c *Catalog) Len() int {
	return len(c.Agents)
}

// FilterByCategory returns the subsequence of records whose category equals
// the given value. Matching is exact and case-sensitive.
func (c *Catalog) FilterByCategory(category string) []AgentRecord {
	var out []AgentRecord
	for _, r := range c.Agents {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// UseCaseCorpus returns all non-empty use_case values in catalog order.
func (c *Catalog) UseCaseCorpus() []string {
	var out []string
	for _, r := range c.Agents {
		if r.UseCase != "" {
			out = append(out, r.UseCase)
		}
	}
	return out
}

// ExtraFieldKeys returns the sorted union of non-required field keys across
// the given records. The order is stable across runs.
func ExtraFieldKeys(records []AgentRecord) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		for k := range r.Fields {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
