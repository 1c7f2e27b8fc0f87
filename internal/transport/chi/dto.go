package chi

import (
	"encoding/json"

	"github.com/kailas-cloud/gqlframes/internal/domain/annotation"
	"github.com/kailas-cloud/gqlframes/internal/domain/frame"
	"github.com/kailas-cloud/gqlframes/internal/domain/query"
)

// ErrorCode is the machine-readable error code of an API error response.
type ErrorCode string

// API error codes.
const (
	CodeDatasourceNotFound ErrorCode = "datasource_not_found"
	CodeBadRequest         ErrorCode = "bad_request"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeInvalidQuery       ErrorCode = "invalid_query"
	CodePathNotFound       ErrorCode = "path_not_found"
	CodeInvalidDocument    ErrorCode = "invalid_document"
	CodeGraphQLError       ErrorCode = "graphql_error"
	CodeUpstreamError      ErrorCode = "upstream_error"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Code    ErrorCode       `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

// QueryDTO is the wire form of a target query.
type QueryDTO struct {
	RefID           string `json:"refId,omitempty"`
	QueryText       string `json:"queryText,omitempty"`
	DataPath        string `json:"dataPath,omitempty"`
	GroupBy         string `json:"groupBy,omitempty"`
	AliasBy         string `json:"aliasBy,omitempty"`
	AnnotationTitle string `json:"annotationTitle,omitempty"`
	AnnotationText  string `json:"annotationText,omitempty"`
	AnnotationTags  string `json:"annotationTags,omitempty"`
}

// RangeDTO is a time window in epoch milliseconds.
type RangeDTO struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// ScopedVarDTO is a host template variable.
type ScopedVarDTO struct {
	Text  string `json:"text"`
	Value any    `json:"value"`
}

// QueryRequest is the body of POST /datasources/{name}/query.
type QueryRequest struct {
	Range      *RangeDTO               `json:"range,omitempty"`
	ScopedVars map[string]ScopedVarDTO `json:"scopedVars,omitempty"`
	Targets    []QueryDTO              `json:"targets"`
}

// AnnotationRequest is the body of POST /datasources/{name}/annotations.
type AnnotationRequest struct {
	Range      *RangeDTO `json:"range,omitempty"`
	Annotation QueryDTO  `json:"annotation"`
}

// FieldConfigDTO carries display settings of a column.
type FieldConfigDTO struct {
	Title string `json:"title"`
}

// FieldDTO is the wire form of a frame column.
type FieldDTO struct {
	Name   string         `json:"name"`
	Type   string         `json:"type"`
	Config FieldConfigDTO `json:"config"`
	Values []any          `json:"values"`
}

// FrameDTO is the wire form of a frame.
type FrameDTO struct {
	RefID  string     `json:"refId"`
	Key    string     `json:"key"`
	Length int        `json:"length"`
	Fields []FieldDTO `json:"fields"`
}

// QueryResponse is the body returned by the query endpoint.
type QueryResponse struct {
	Frames []FrameDTO `json:"frames"`
}

// EventDTO is the wire form of an annotation event.
type EventDTO struct {
	Time     *int64   `json:"time,omitempty"`
	TimeEnd  *int64   `json:"timeEnd,omitempty"`
	IsRegion bool     `json:"isRegion,omitempty"`
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Tags     []string `json:"tags"`
}

// AnnotationResponse is the body returned by the annotations endpoint.
type AnnotationResponse struct {
	Annotations []EventDTO `json:"annotations"`
}

// StatusResponse is the body returned by the test endpoint.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DatasourcesResponse lists configured datasources.
type DatasourcesResponse struct {
	Datasources []string `json:"datasources"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ToQuery converts the wire form to the domain query.
func (d QueryDTO) ToQuery() query.Query {
	return query.Query{
		RefID:           d.RefID,
		QueryText:       d.QueryText,
		DataPath:        d.DataPath,
		GroupBy:         d.GroupBy,
		AliasBy:         d.AliasBy,
		AnnotationTitle: d.AnnotationTitle,
		AnnotationText:  d.AnnotationText,
		AnnotationTags:  d.AnnotationTags,
	}
}

// ToRange converts an optional wire range to the domain range.
func (r *RangeDTO) ToRange() *query.TimeRange {
	if r == nil {
		return nil
	}
	rng := query.RangeFromMillis(r.From, r.To)
	return &rng
}

// ToRequest converts the body to a domain request. A missing scopedVars
// object stays nil so host templating is skipped.
func (q QueryRequest) ToRequest() query.Request {
	targets := make([]query.Query, len(q.Targets))
	for i, t := range q.Targets {
		targets[i] = t.ToQuery()
	}

	var vars query.ScopedVars
	if q.ScopedVars != nil {
		vars = make(query.ScopedVars, len(q.ScopedVars))
		for k, v := range q.ScopedVars {
			vars[k] = query.ScopedVar{Text: v.Text, Value: v.Value}
		}
	}

	return query.Request{Targets: targets, Range: q.Range.ToRange(), ScopedVars: vars}
}

// ToRequest converts the body to a domain annotation request.
func (a AnnotationRequest) ToRequest() query.AnnotationRequest {
	return query.AnnotationRequest{Annotation: a.Annotation.ToQuery(), Range: a.Range.ToRange()}
}

// FramesToDTO converts frames to their wire form.
func FramesToDTO(frames []*frame.Frame) []FrameDTO {
	out := make([]FrameDTO, len(frames))
	for i, fr := range frames {
		fields := make([]FieldDTO, len(fr.Fields()))
		for j, f := range fr.Fields() {
			values := make([]any, len(f.Values()))
			for k, v := range f.Values() {
				values[k] = v.Interface()
			}
			fields[j] = FieldDTO{
				Name:   f.Name(),
				Type:   string(f.Type()),
				Config: FieldConfigDTO{Title: f.Title()},
				Values: values,
			}
		}
		out[i] = FrameDTO{RefID: fr.RefID(), Key: fr.Key(), Length: fr.Len(), Fields: fields}
	}
	return out
}

// EventsToDTO converts annotation events to their wire form.
func EventsToDTO(events []annotation.Event) []EventDTO {
	out := make([]EventDTO, len(events))
	for i, ev := range events {
		tags := ev.Tags
		if tags == nil {
			tags = []string{}
		}
		out[i] = EventDTO{
			Time:     ev.Time,
			TimeEnd:  ev.TimeEnd,
			IsRegion: ev.IsRegion,
			Title:    ev.Title,
			Text:     ev.Text,
			Tags:     tags,
		}
	}
	return out
}
