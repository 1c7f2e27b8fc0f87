package query

import (
	"strings"
	"time"
)

// Query is one target query unit within a request (immutable value object).
// Empty fields are considered absent and filled by WithDefaults.
type Query struct {
	RefID           string
	QueryText       string
	DataPath        string
	GroupBy         string // comma-separated field list
	AliasBy         string // title template, empty means no alias
	AnnotationTitle string
	AnnotationText  string
	AnnotationTags  string // comma-separated, may contain $field_ placeholders
}

// Default returns the built-in defaults: documents live under "data".
func Default() Query {
	return Query{DataPath: "data"}
}

// WithDefaults returns a copy of q where every empty field is taken from d.
func (q Query) WithDefaults(d Query) Query {
	q.QueryText = orDefault(q.QueryText, d.QueryText)
	q.DataPath = orDefault(q.DataPath, d.DataPath)
	q.GroupBy = orDefault(q.GroupBy, d.GroupBy)
	q.AliasBy = orDefault(q.AliasBy, d.AliasBy)
	q.AnnotationTitle = orDefault(q.AnnotationTitle, d.AnnotationTitle)
	q.AnnotationText = orDefault(q.AnnotationText, d.AnnotationText)
	q.AnnotationTags = orDefault(q.AnnotationTags, d.AnnotationTags)
	return q
}

// GroupByFields returns the parsed group-by field list.
func (q Query) GroupByFields() []string {
	return ParseList(q.GroupBy)
}

// ParseList splits s on commas, trims each element and drops empty ones.
// Never returns nil.
func ParseList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func orDefault(v, d string) string {
	if v == "" {
		return d
	}
	return v
}

// TimeRange is the dashboard time window substituted into $timeFrom/$timeTo.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// RangeFromMillis builds a TimeRange from epoch milliseconds.
func RangeFromMillis(from, to int64) TimeRange {
	return TimeRange{From: time.UnixMilli(from).UTC(), To: time.UnixMilli(to).UTC()}
}

// FromMillis returns the range start as epoch milliseconds.
func (r TimeRange) FromMillis() int64 { return r.From.UnixMilli() }

// ToMillis returns the range end as epoch milliseconds.
func (r TimeRange) ToMillis() int64 { return r.To.UnixMilli() }

// ScopedVar is a host-supplied template variable.
// Value may be a string, a number, a bool or a list of those; nil falls back to Text.
type ScopedVar struct {
	Text  string
	Value any
}

// ScopedVars maps variable names to values. A nil map means "no scoped variables".
type ScopedVars map[string]ScopedVar

// Request is a batch of target queries sharing a time range and scoped variables.
type Request struct {
	Targets    []Query
	Range      *TimeRange
	ScopedVars ScopedVars
}

// AnnotationRequest is a single annotation query with an optional time range.
type AnnotationRequest struct {
	Annotation Query
	Range      *TimeRange
}
