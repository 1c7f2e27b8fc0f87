package annotation

import (
	"github.com/kailas-cloud/gqlframes/internal/domain/document"
	"github.com/kailas-cloud/gqlframes/internal/domain/frame"
	"github.com/kailas-cloud/gqlframes/internal/domain/query"
)

// TimeEndField marks the end of a region annotation.
const TimeEndField = "TimeEnd"

// Event is a discrete annotation. Times are epoch milliseconds;
// nil means the document carried no usable time. IsRegion follows the
// presence of a truthy TimeEnd even when it cannot be read as a time.
type Event struct {
	Time     *int64
	TimeEnd  *int64
	IsRegion bool
	Title    string
	Text     string
	Tags     []string
}

// FromDocument builds an event from one extracted document using the
// annotation templates of q.
func FromDocument(doc *document.Document, q query.Query) Event {
	var ev Event
	if ms, ok := millis(doc, frame.TimeField); ok {
		ev.Time = &ms
	}
	if v, ok := doc.Get(TimeEndField); ok && v.Truthy() {
		ev.IsRegion = true
		if ms, ok := millis(doc, TimeEndField); ok {
			ev.TimeEnd = &ms
		}
	}

	ev.Title = frame.ExpandFields(q.AnnotationTitle, doc)
	ev.Text = frame.ExpandFields(q.AnnotationText, doc)
	ev.Tags = query.ParseList(frame.ExpandFields(q.AnnotationTags, doc))
	return ev
}

// FromDocuments builds one event per document.
func FromDocuments(docs []*document.Document, q query.Query) []Event {
	events := make([]Event, 0, len(docs))
	for _, d := range docs {
		events = append(events, FromDocument(d, q))
	}
	return events
}

func millis(doc *document.Document, name string) (int64, bool) {
	v, ok := doc.Get(name)
	if !ok || !v.Truthy() {
		return 0, false
	}
	t, ok := document.ToTime(v)
	if !ok {
		return 0, false
	}
	return t.Time().UnixMilli(), true
}
