package frame

import (
	"strings"

	"github.com/kailas-cloud/gqlframes/internal/domain/document"
)

// TimeField is the field name typed as time and coerced to an instant.
const TimeField = "Time"

// Options configures series construction for one target query.
type Options struct {
	RefID   string
	GroupBy []string
	AliasBy string
	// Interpolate is the host variable pass applied to alias titles.
	// Nil means identity.
	Interpolate func(string) string
}

// Builder partitions documents into frames keyed by group-by values.
type Builder struct {
	opts   Options
	frames map[string]*Frame
	order  []*Frame
}

// NewBuilder creates a Builder.
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts, frames: make(map[string]*Frame)}
}

// Build runs every document through a new Builder and returns its frames.
func Build(docs []*document.Document, opts Options) []*Frame {
	b := NewBuilder(opts)
	for _, d := range docs {
		b.Add(d)
	}
	return b.Frames()
}

// Add routes doc to its series, creating the series (and its columns)
// on first sight of the key.
func (b *Builder) Add(doc *document.Document) {
	doc.CoerceTime(TimeField)

	key := SeriesKey(doc, b.opts.GroupBy)
	fr, ok := b.frames[key]
	if !ok {
		fr = New(b.opts.RefID, key)
		b.declareFields(fr, doc)
		b.frames[key] = fr
		b.order = append(b.order, fr)
	}
	fr.AppendRow(doc)
}

// Frames returns the frames in first-seen key order.
func (b *Builder) Frames() []*Frame { return b.order }

func (b *Builder) declareFields(fr *Frame, doc *document.Document) {
	for _, f := range doc.Fields() {
		fr.AddField(f.Name, inferType(f), b.title(fr.Key(), doc, f.Name))
	}
}

func (b *Builder) title(key string, doc *document.Document, fieldName string) string {
	if b.opts.AliasBy != "" {
		t := ResolveTitle(b.opts.AliasBy, doc, fieldName)
		if b.opts.Interpolate != nil {
			t = b.opts.Interpolate(t)
		}
		return t
	}
	if len(b.opts.GroupBy) != 0 {
		return key + "_" + fieldName
	}
	return fieldName
}

func inferType(f document.Field) FieldType {
	if f.Name == TimeField {
		return TypeTime
	}
	if f.Value.Kind() == document.KindNumber {
		return TypeNumber
	}
	return TypeString
}

// SeriesKey joins the group-by values of doc with commas.
// A missing field contributes an empty element.
func SeriesKey(doc *document.Document, groupBy []string) string {
	if len(groupBy) == 0 {
		return ""
	}
	parts := make([]string, len(groupBy))
	for i, name := range groupBy {
		if v, ok := doc.Get(name); ok {
			parts[i] = v.String()
		}
	}
	return strings.Join(parts, ",")
}
