// Package dost provides internal representations of DOST query service
// requests and responses which are then further mutated and handled.
package dost

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// QueryResponse represents the body returned by the process-query endpoint.
// Every top-level field is optional; absence is treated as empty, not an error.
type QueryResponse struct {
	// Query echoes the submitted query. For voice and image submissions this
	// is the backend's best-effort transcription/extraction and may be either
	// a plain string or a structured object (see TranscriptText).
	Query json.RawMessage `json:"query,omitempty"`

	// Reasoning carries the narrative portion of the answer.
	Reasoning *Reasoning `json:"reasoning,omitempty"`

	// Result carries structured results grouped by category.
	Result *Result `json:"result,omitempty"`
}

// Reasoning is the narrative portion of a response.
type Reasoning struct {
	GeneralScript []string `json:"general_script"`
}

// Result maps category names to lists of structured result records.
type Result struct {
	Data map[string][]ResultRecord `json:"data"`
}

// ResultRecord is one structured result. The service's schema is not
// standardized, so records are arbitrary mappings of named fields.
type ResultRecord map[string]any

// LinkValue returns the record's link identity: the value of the first field
// (key names sorted, matched case-insensitively by substring) whose name
// contains "link". Records without a link-bearing field return "" and
// therefore share one identity.
func (r ResultRecord) LinkValue() string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !strings.Contains(strings.ToLower(k), "link") {
			continue
		}
		switch v := r[k].(type) {
		case nil:
			return ""
		case string:
			return v
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}

// ErrorResponse represents an error body from the query service.
type ErrorResponse struct {
	Error string `json:"error"`
}
