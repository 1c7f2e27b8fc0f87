package gqlframes

import (
	"time"

	"github.com/kailas-cloud/gqlframes/internal/domain/annotation"
	"github.com/kailas-cloud/gqlframes/internal/domain/document"
	"github.com/kailas-cloud/gqlframes/internal/domain/frame"
	"github.com/kailas-cloud/gqlframes/internal/domain/query"
	dsuc "github.com/kailas-cloud/gqlframes/internal/usecase/datasource"
)

func toDomainQuery(q Query) query.Query {
	return query.Query{
		RefID:           q.RefID,
		QueryText:       q.QueryText,
		DataPath:        q.DataPath,
		GroupBy:         q.GroupBy,
		AliasBy:         q.AliasBy,
		AnnotationTitle: q.AnnotationTitle,
		AnnotationText:  q.AnnotationText,
		AnnotationTags:  q.AnnotationTags,
	}
}

func toDomainRange(r *TimeRange) *query.TimeRange {
	if r == nil {
		return nil
	}
	return &query.TimeRange{From: r.From, To: r.To}
}

func toDomainRequest(req QueryRequest) query.Request {
	targets := make([]query.Query, len(req.Targets))
	for i, t := range req.Targets {
		targets[i] = toDomainQuery(t)
	}
	var vars query.ScopedVars
	if req.ScopedVars != nil {
		vars = make(query.ScopedVars, len(req.ScopedVars))
		for k, v := range req.ScopedVars {
			vars[k] = query.ScopedVar{Text: v.Text, Value: v.Value}
		}
	}
	return query.Request{Targets: targets, Range: toDomainRange(req.Range), ScopedVars: vars}
}

func cellValue(v document.Value) any {
	switch v.Kind() {
	case document.KindTime:
		return v.Time()
	case document.KindNumber:
		return v.Num()
	case document.KindNull:
		return nil
	default:
		return v.Str()
	}
}

func framesFromDomain(frames []*frame.Frame) []Frame {
	out := make([]Frame, len(frames))
	for i, fr := range frames {
		fields := make([]Field, len(fr.Fields()))
		for j, f := range fr.Fields() {
			values := make([]any, len(f.Values()))
			for k, v := range f.Values() {
				values[k] = cellValue(v)
			}
			fields[j] = Field{Name: f.Name(), Type: FieldType(f.Type()), Title: f.Title(), Values: values}
		}
		out[i] = Frame{RefID: fr.RefID(), Key: fr.Key(), Length: fr.Len(), Fields: fields}
	}
	return out
}

func msToTime(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}

func annotationsFromDomain(events []annotation.Event) []Annotation {
	out := make([]Annotation, len(events))
	for i, ev := range events {
		out[i] = Annotation{
			Time:     msToTime(ev.Time),
			TimeEnd:  msToTime(ev.TimeEnd),
			IsRegion: ev.IsRegion,
			Title:    ev.Title,
			Text:     ev.Text,
			Tags:     ev.Tags,
		}
	}
	return out
}

func statusFromDomain(st dsuc.Status) Status {
	return Status{State: StatusState(st.State), Message: st.Message}
}
