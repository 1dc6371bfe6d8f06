package domain

import (
	"sort"
	"strconv"
	"time"
)

// CaseRecord is one case/incident submission as stored in the relational
// system of record. The core only ever reads these.
type CaseRecord struct {
	ID             string
	SubModuleID    string
	SubModuleName  string
	SubmissionDate *time.Time
	Location       *string
	Narrative      *string
	FormData       FormData
}

// FormData is the open field-label → value mapping captured by the intake
// forms. The set of labels varies by sub-module and is not fixed at compile
// time; known labels are promoted to named document fields by the mapper,
// unknown labels pass through verbatim.
type FormData map[string]any

// Value returns the stringified scalar stored under label, or nil when the
// label is missing, empty, or holds a non-scalar value.
func (f FormData) Value(label string) *string {
	v, ok := f[label]
	if !ok {
		return nil
	}
	s, ok := stringifyScalar(v)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// First returns the value of the first label with a non-empty scalar value.
// Returns nil when none of the labels match.
func (f FormData) First(labels ...string) *string {
	for _, label := range labels {
		if v := f.Value(label); v != nil {
			return v
		}
	}
	return nil
}

// ScalarValues returns every non-empty scalar value in the mapping,
// stringified, in sorted key order. Map iteration order is randomized in Go,
// so the sort keeps the searchable-text corpus deterministic.
func (f FormData) ScalarValues() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		if s, ok := stringifyScalar(f[k]); ok && s != "" {
			values = append(values, s)
		}
	}
	return values
}

// stringifyScalar converts a decoded JSON scalar to its string form.
// Nested objects, arrays and nulls are not scalars and report false.
func stringifyScalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}
