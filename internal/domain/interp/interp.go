// Package interp expands dashboard-style template variables in query text
// and display titles.
//
// Supported forms: $name, ${name}, ${name:format} and [[name]]. The format
// suffix is accepted and ignored. Names without a value are left untouched,
// so placeholders consumed elsewhere ($timeFrom, $field_x) survive.
package interp

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/gqlframes/internal/domain/query"
)

var varRegex = regexp.MustCompile(`\$(\w+)|\$\{(\w+)(?::[^}]*)?\}|\[\[(\w+)(?::[^\]]*)?\]\]`)

// Interpolator substitutes scoped variables over a set of static globals.
type Interpolator struct {
	globals map[string]string
}

// New creates an Interpolator. globals may be nil.
func New(globals map[string]string) *Interpolator {
	g := make(map[string]string, len(globals))
	for k, v := range globals {
		g[k] = v
	}
	return &Interpolator{globals: g}
}

// Replace expands every known variable in template. Scoped variables take
// precedence over globals.
func (i *Interpolator) Replace(template string, vars query.ScopedVars) string {
	if !strings.ContainsAny(template, "$[") {
		return template
	}
	return varRegex.ReplaceAllStringFunc(template, func(match string) string {
		sub := varRegex.FindStringSubmatch(match)
		name := sub[1]
		if name == "" {
			name = sub[2]
		}
		if name == "" {
			name = sub[3]
		}
		if v, ok := vars[name]; ok {
			return FormatValue(v)
		}
		if v, ok := i.globals[name]; ok {
			return v
		}
		return match
	})
}

// FormatValue renders a scoped variable value. Lists are joined with commas.
func FormatValue(v query.ScopedVar) string {
	if v.Value == nil {
		return v.Text
	}
	return formatAny(v.Value)
}

func formatAny(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = formatAny(e)
		}
		return strings.Join(parts, ",")
	case nil:
		return ""
	default:
		return ""
	}
}
