package document

import (
	"fmt"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/kailas-cloud/gqlframes/internal/domain"
)

// Extract locates the document payload at the dot-separated path inside a
// response body and flattens it. The payload may be one object or an array
// of objects.
//
// When the path does not resolve, an embedded GraphQL error (the first entry
// of the body's "errors" list) is preferred over a generic not-found error.
func Extract(body *fastjson.Value, path string) ([]*Document, error) {
	if body == nil || body.Type() == fastjson.TypeNull {
		return nil, domain.ErrEmptyResponse
	}

	data, seg := walk(body, path)
	if data == nil {
		if err := EmbeddedError(body); err != nil {
			return nil, err
		}
		return nil, &domain.PathNotFoundError{Path: path, Segment: seg}
	}

	if data.Type() != fastjson.TypeArray {
		doc, err := Flatten(data)
		if err != nil {
			return nil, fmt.Errorf("flatten %q: %w", path, err)
		}
		return []*Document{doc}, nil
	}

	items, _ := data.Array()
	docs := make([]*Document, 0, len(items))
	for i, item := range items {
		doc, err := Flatten(item)
		if err != nil {
			return nil, fmt.Errorf("flatten %s[%d]: %w", path, i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// walk follows path through nested objects (and arrays, by index).
// Returns the resolved value or nil plus the first segment that failed.
func walk(root *fastjson.Value, path string) (*fastjson.Value, string) {
	cur := root
	for _, seg := range strings.Split(path, ".") {
		if cur.Type() != fastjson.TypeObject && cur.Type() != fastjson.TypeArray {
			return nil, seg
		}
		next := cur.Get(seg)
		if falsy(next) {
			return nil, seg
		}
		cur = next
	}
	return cur, ""
}

// falsy mirrors a JavaScript truthiness test on a JSON value.
func falsy(v *fastjson.Value) bool {
	if v == nil {
		return true
	}
	switch v.Type() {
	case fastjson.TypeNull, fastjson.TypeFalse:
		return true
	case fastjson.TypeNumber:
		f, _ := v.Float64()
		return f == 0
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return len(b) == 0
	default:
		return false
	}
}

// EmbeddedError returns the first entry of the body's "errors" list as a
// *domain.GraphQLError, or nil when the list is absent or empty.
func EmbeddedError(body *fastjson.Value) error {
	if body == nil {
		return nil
	}
	errs := body.GetArray("errors")
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	msg := string(first.GetStringBytes("message"))
	if msg == "" {
		msg = first.String()
	}
	return &domain.GraphQLError{Message: msg, Payload: first.MarshalTo(nil)}
}
