package frame

import "github.com/kailas-cloud/gqlframes/internal/domain/document"

// FieldType is the semantic type of a column.
type FieldType string

const (
	// TypeTime is a timestamp column.
	TypeTime FieldType = "time"
	// TypeNumber is a numeric column.
	TypeNumber FieldType = "number"
	// TypeString is the default column type.
	TypeString FieldType = "string"
)

// Field is a typed column with a display title and its cell values.
type Field struct {
	name   string
	typ    FieldType
	title  string
	values []document.Value
}

// Name returns the column name (the flattened document key).
func (f *Field) Name() string { return f.name }

// Type returns the column type.
func (f *Field) Type() FieldType { return f.typ }

// Title returns the display title.
func (f *Field) Title() string { return f.title }

// Values returns the cells in row order.
func (f *Field) Values() []document.Value { return f.values }

// Frame is one output series: the rows of every document sharing a key.
// Columns are fixed by the first document added.
type Frame struct {
	refID  string
	key    string
	fields []*Field
	index  map[string]int
	length int
}

// New creates an empty frame for a series key.
func New(refID, key string) *Frame {
	return &Frame{refID: refID, key: key, index: make(map[string]int)}
}

// RefID returns the reference ID of the target query that produced the frame.
func (f *Frame) RefID() string { return f.refID }

// Key returns the series key.
func (f *Frame) Key() string { return f.key }

// Fields returns the columns in order.
func (f *Frame) Fields() []*Field { return f.fields }

// Len returns the number of rows.
func (f *Frame) Len() int { return f.length }

// Field returns a column by name.
func (f *Frame) Field(name string) (*Field, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.fields[i], true
}

// AddField declares a column. Adding a column after rows exist back-fills
// missing cells. Re-declaring an existing name is a no-op.
func (f *Frame) AddField(name string, typ FieldType, title string) {
	if _, ok := f.index[name]; ok {
		return
	}
	values := make([]document.Value, f.length, f.length+1)
	for i := range values {
		values[i] = missingCell(typ)
	}
	f.index[name] = len(f.fields)
	f.fields = append(f.fields, &Field{name: name, typ: typ, title: title, values: values})
}

// AppendRow appends a row from doc. Only declared columns are read;
// a column the document lacks gets a missing cell.
func (f *Frame) AppendRow(doc *document.Document) {
	for _, fld := range f.fields {
		v, ok := doc.Get(fld.name)
		if !ok {
			v = missingCell(fld.typ)
		}
		fld.values = append(fld.values, v)
	}
	f.length++
}

// missingCell is "" in string columns and null in number and time columns.
func missingCell(typ FieldType) document.Value {
	if typ == TypeString {
		return document.StringValue("")
	}
	return document.NullValue()
}
