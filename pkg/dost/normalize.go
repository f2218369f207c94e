package dost

import "sort"

// Kind classifies a normalized answer.
type Kind string

const (
	// KindGeneralQuery is a narrative-only answer, revealed as typed prose.
	KindGeneralQuery Kind = "general-query"
	// KindDostCombo is a structured-results-only answer.
	KindDostCombo Kind = "dost-combo"
	// KindMixedCombo carries both narrative and structured results; the
	// narrative is revealed first.
	KindMixedCombo Kind = "mixed-combo"
)

// Answer is the normalized form of a QueryResponse: one of a small set of
// canonical shapes the conversation renders.
type Answer struct {
	Kind    Kind
	Script  []string
	Results []ResultRecord
}

// Normalize reduces a heterogeneous response body to a canonical Answer.
// Classification is total and mutually exclusive:
//   - no result categories at all -> general-query
//   - narrative and deduplicated results both present -> mixed-combo
//   - otherwise -> dost-combo
//
// It never fails on malformed shapes; missing fields degrade to empty.
func Normalize(resp *QueryResponse) *Answer {
	var script []string
	if resp != nil && resp.Reasoning != nil {
		script = resp.Reasoning.GeneralScript
	}

	var data map[string][]ResultRecord
	if resp != nil && resp.Result != nil {
		data = resp.Result.Data
	}

	unique := dedupeByLink(flattenCategories(data))

	if len(data) == 0 {
		return &Answer{Kind: KindGeneralQuery, Script: script}
	}
	if len(script) > 0 && len(unique) > 0 {
		return &Answer{Kind: KindMixedCombo, Script: script, Results: unique}
	}
	return &Answer{Kind: KindDostCombo, Results: unique}
}

// flattenCategories joins all category result lists into one sequence.
// Categories are visited in sorted name order so normalization is
// deterministic.
func flattenCategories(data map[string][]ResultRecord) []ResultRecord {
	cats := make([]string, 0, len(data))
	for c := range data {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	var flat []ResultRecord
	for _, c := range cats {
		flat = append(flat, data[c]...)
	}
	return flat
}

// dedupeByLink drops records whose link identity was already seen,
// preserving first-occurrence order. Records with no link-bearing field all
// share the empty identity, so only the first of them survives.
func dedupeByLink(records []ResultRecord) []ResultRecord {
	seen := make(map[string]bool, len(records))
	unique := make([]ResultRecord, 0, len(records))
	for _, r := range records {
		link := r.LinkValue()
		if seen[link] {
			continue
		}
		seen[link] = true
		unique = append(unique, r)
	}
	if len(unique) == 0 {
		return nil
	}
	return unique
}
