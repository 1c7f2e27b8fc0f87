package gqlframes

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const tagKey = "gqlframes"

var timeType = reflect.TypeOf(time.Time{})

// rowSchema holds parsed struct tag metadata for Decode.
type rowSchema struct {
	typ     reflect.Type
	keyIdx  int // -1 if no field receives the series key
	columns []columnMapping
}

type columnMapping struct {
	structIdx int
	name      string
}

// Decode converts the rows of a frame into values of T.
//
// Columns are matched by the `gqlframes:"<column>"` struct tag, or by the
// field name when the tag is absent. The `gqlframes:",key"` modifier
// receives the series key. Fields tagged "-" are skipped. Missing columns
// leave the field at its zero value.
func Decode[T any](fr Frame) ([]T, error) {
	schema, err := parseRowSchema[T]()
	if err != nil {
		return nil, err
	}

	cols := make(map[string]*Field, len(fr.Fields))
	for i := range fr.Fields {
		cols[fr.Fields[i].Name] = &fr.Fields[i]
	}

	out := make([]T, fr.Length)
	for row := range fr.Length {
		v := reflect.ValueOf(&out[row]).Elem()
		if schema.keyIdx != -1 {
			v.Field(schema.keyIdx).SetString(fr.Key)
		}
		for _, m := range schema.columns {
			col, ok := cols[m.name]
			if !ok || row >= len(col.Values) {
				continue
			}
			if err := assign(v.Field(m.structIdx), col.Values[row]); err != nil {
				return nil, fmt.Errorf("gqlframes: row %d column %q: %w", row, m.name, err)
			}
		}
	}
	return out, nil
}

func parseRowSchema[T any]() (*rowSchema, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("gqlframes: type %v is not a struct", t)
	}

	schema := &rowSchema{typ: t, keyIdx: -1}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get(tagKey)
		if tag == "-" {
			continue
		}
		name, modifier, _ := strings.Cut(tag, ",")
		switch modifier {
		case "key":
			if f.Type.Kind() != reflect.String {
				return nil, fmt.Errorf("gqlframes: key field %s must be a string", f.Name)
			}
			if schema.keyIdx != -1 {
				return nil, fmt.Errorf("gqlframes: duplicate key tag on field %s", f.Name)
			}
			schema.keyIdx = i
		case "":
			if name == "" {
				name = f.Name
			}
			schema.columns = append(schema.columns, columnMapping{structIdx: i, name: name})
		default:
			return nil, fmt.Errorf("gqlframes: unknown modifier %q on field %s", modifier, f.Name)
		}
	}
	return schema, nil
}

// assign stores a cell into a struct field, converting between the cell
// kinds (time.Time, float64, string) and common Go types.
func assign(dst reflect.Value, cell any) error {
	if cell == nil {
		return nil
	}
	if dst.Type() == timeType {
		switch c := cell.(type) {
		case time.Time:
			dst.Set(reflect.ValueOf(c))
			return nil
		case float64:
			dst.Set(reflect.ValueOf(time.UnixMilli(int64(c)).UTC()))
			return nil
		case string:
			if c == "" {
				return nil
			}
		}
		return fmt.Errorf("cannot convert %T to time.Time", cell)
	}

	switch dst.Kind() {
	case reflect.String:
		dst.SetString(cellString(cell))
		return nil
	case reflect.Float32, reflect.Float64:
		f, err := cellFloat(cell)
		if err != nil {
			return err
		}
		dst.SetFloat(f)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, err := cellFloat(cell)
		if err != nil {
			return err
		}
		dst.SetInt(int64(f))
		return nil
	case reflect.Bool:
		s := cellString(cell)
		if s == "" {
			return nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("parse bool: %w", err)
		}
		dst.SetBool(b)
		return nil
	case reflect.Interface:
		if dst.Type().NumMethod() == 0 {
			dst.Set(reflect.ValueOf(cell))
			return nil
		}
	}
	return fmt.Errorf("unsupported field type %s", dst.Type())
}

func cellString(cell any) string {
	switch c := cell.(type) {
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case time.Time:
		return c.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(c)
	}
}

func cellFloat(cell any) (float64, error) {
	switch c := cell.(type) {
	case float64:
		return c, nil
	case time.Time:
		return float64(c.UnixMilli()), nil
	case string:
		if c == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return 0, fmt.Errorf("parse number: %w", err)
		}
		return f, nil
	}
	return 0, fmt.Errorf("cannot convert %T to a number", cell)
}
