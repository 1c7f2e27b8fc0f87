package gqlframes

import "time"

// Query is one target query. Empty fields are filled from the client's defaults.
type Query struct {
	RefID           string
	QueryText       string
	DataPath        string // dot-separated path to the documents, default "data"
	GroupBy         string // comma-separated fields that split series
	AliasBy         string // column title template: $field_<name>, $fieldName
	AnnotationTitle string
	AnnotationText  string
	AnnotationTags  string // comma-separated
}

// TimeRange is substituted into $timeFrom and $timeTo as epoch milliseconds.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// ScopedVar is a request-scoped template variable. Value may be a string,
// a number, a bool or a slice of those; nil falls back to Text.
type ScopedVar struct {
	Text  string
	Value any
}

// QueryRequest runs several targets over one time range.
type QueryRequest struct {
	Targets    []Query
	Range      *TimeRange
	ScopedVars map[string]ScopedVar // nil skips host templating
}

// AnnotationRequest runs a single annotation query.
type AnnotationRequest struct {
	Annotation Query
	Range      *TimeRange
}

// FieldType is the semantic type of a frame column.
type FieldType string

// Field type constants.
const (
	FieldTime   FieldType = "time"
	FieldNumber FieldType = "number"
	FieldString FieldType = "string"
)

// Field is a frame column. Time values are time.Time, number values are
// float64 and string values are string.
type Field struct {
	Name   string
	Type   FieldType
	Title  string
	Values []any
}

// Frame is one series.
type Frame struct {
	RefID  string
	Key    string // comma-joined group-by values
	Length int
	Fields []Field
}

// Annotation is a discrete event. Time and TimeEnd are nil when the
// document carried no usable time.
type Annotation struct {
	Time     *time.Time
	TimeEnd  *time.Time
	IsRegion bool
	Title    string
	Text     string
	Tags     []string
}

// StatusState is the outcome of Test.
type StatusState string

// Status state constants.
const (
	StatusSuccess StatusState = "success"
	StatusError   StatusState = "error"
)

// Status reports whether the upstream answered an introspection probe.
type Status struct {
	State   StatusState
	Message string
}

// HealthStatus mirrors the server health report for this client's datasource.
type HealthStatus struct {
	Status string            // "ok" or "error"
	Checks map[string]string // datasource → "ok"/"error"
}
