package document

// Field is one named scalar of a flattened document.
type Field struct {
	Name  string
	Value Value
}

// Document is a flat, ordered mapping from field name to scalar.
// Field order is first-seen order; re-setting a field keeps its position.
type Document struct {
	fields []Field
	index  map[string]int
}

// New creates an empty Document.
func New() *Document {
	return &Document{index: make(map[string]int)}
}

// FromFields creates a Document from fields in order. Later duplicates
// overwrite earlier values.
func FromFields(fields ...Field) *Document {
	d := New()
	for _, f := range fields {
		d.Set(f.Name, f.Value)
	}
	return d
}

// Set assigns a field value.
func (d *Document) Set(name string, v Value) {
	if i, ok := d.index[name]; ok {
		d.fields[i].Value = v
		return
	}
	d.index[name] = len(d.fields)
	d.fields = append(d.fields, Field{Name: name, Value: v})
}

// Get returns a field value.
func (d *Document) Get(name string) (Value, bool) {
	i, ok := d.index[name]
	if !ok {
		return Value{}, false
	}
	return d.fields[i].Value, true
}

// Fields returns the fields in order. The slice must not be modified.
func (d *Document) Fields() []Field { return d.fields }

// Len returns the number of fields.
func (d *Document) Len() int { return len(d.fields) }

// CoerceTime converts a truthy field to a Time value in place.
// Falsy or unparseable values are left as they are.
func (d *Document) CoerceTime(name string) {
	i, ok := d.index[name]
	if !ok || !d.fields[i].Value.Truthy() {
		return
	}
	if t, ok := ToTime(d.fields[i].Value); ok {
		d.fields[i].Value = t
	}
}
