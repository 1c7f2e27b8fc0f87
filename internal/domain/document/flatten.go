package document

import (
	"fmt"
	"strconv"

	"github.com/valyala/fastjson"

	"github.com/kailas-cloud/gqlframes/internal/domain"
)

// MaxDepth bounds object/array nesting accepted by Flatten.
const MaxDepth = 64

// Flatten turns a JSON object into a single-level Document.
// Nested names are joined with "." and array elements are keyed by index,
// so {"a":{"b":[{"c":1}]}} yields the field "a.b.0.c". Booleans become the
// strings "true"/"false", null becomes "". Empty objects and arrays
// contribute no fields.
func Flatten(v *fastjson.Value) (*Document, error) {
	if v == nil || v.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("%w: expected object, got %s", domain.ErrInvalidDocument, typeName(v))
	}
	d := New()
	if err := flattenInto(d, "", v, 0); err != nil {
		return nil, err
	}
	return d, nil
}

func flattenInto(d *Document, prefix string, v *fastjson.Value, depth int) error {
	if depth > MaxDepth {
		return fmt.Errorf("%w: more than %d levels at %q", domain.ErrTooDeep, MaxDepth, prefix)
	}

	switch v.Type() {
	case fastjson.TypeObject:
		obj, _ := v.Object()
		var err error
		obj.Visit(func(key []byte, child *fastjson.Value) {
			if err != nil {
				return
			}
			err = flattenInto(d, joinKey(prefix, string(key)), child, depth+1)
		})
		return err
	case fastjson.TypeArray:
		arr, _ := v.Array()
		for i, child := range arr {
			if err := flattenInto(d, joinKey(prefix, strconv.Itoa(i)), child, depth+1); err != nil {
				return err
			}
		}
		return nil
	default:
		d.Set(prefix, scalar(v))
		return nil
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func scalar(v *fastjson.Value) Value {
	switch v.Type() {
	case fastjson.TypeNumber:
		f, _ := v.Float64()
		return NumberValue(f)
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return StringValue(string(b))
	case fastjson.TypeTrue:
		return StringValue("true")
	case fastjson.TypeFalse:
		return StringValue("false")
	default:
		return StringValue("")
	}
}

func typeName(v *fastjson.Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Type().String()
}

// ToValue renders d as a flat JSON object allocated on a.
// Time fields render as epoch milliseconds.
func (d *Document) ToValue(a *fastjson.Arena) *fastjson.Value {
	obj := a.NewObject()
	for _, f := range d.fields {
		switch f.Value.Kind() {
		case KindNumber:
			obj.Set(f.Name, a.NewNumberFloat64(f.Value.Num()))
		case KindTime:
			obj.Set(f.Name, a.NewNumberString(f.Value.String()))
		default:
			obj.Set(f.Name, a.NewString(f.Value.Str()))
		}
	}
	return obj
}
