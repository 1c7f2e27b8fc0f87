package frame

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/gqlframes/internal/domain/document"
)

const fieldPrefix = "field_"

// ResolveTitle expands $field_<name> and $fieldName placeholders in
// template against doc. fieldName is the column being titled.
// The host variable pass is applied by the caller.
func ResolveTitle(template string, doc *document.Document, fieldName string) string {
	pairs := fieldPairs(doc, 1)
	pairs = append(pairs, pair{key: "fieldName", value: fieldName})
	return expand(template, pairs)
}

// ExpandFields expands $field_<name> placeholders in template against doc.
func ExpandFields(template string, doc *document.Document) string {
	return expand(template, fieldPairs(doc, 0))
}

type pair struct {
	key   string
	value string
}

func fieldPairs(doc *document.Document, extra int) []pair {
	pairs := make([]pair, 0, doc.Len()+extra)
	for _, f := range doc.Fields() {
		pairs = append(pairs, pair{key: fieldPrefix + f.Name, value: f.Value.String()})
	}
	return pairs
}

// expand replaces every "$"+key in one left-to-right pass. Replaced text is
// never re-scanned. Longer keys win at the same position, so $field_ab is
// not consumed by $field_a.
func expand(template string, pairs []pair) string {
	if len(pairs) == 0 || !strings.Contains(template, "$") {
		return template
	}

	sorted := make([]pair, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].key) > len(sorted[j].key)
	})

	oldnew := make([]string, 0, 2*len(sorted))
	for _, p := range sorted {
		oldnew = append(oldnew, "$"+p.key, p.value)
	}
	return strings.NewReplacer(oldnew...).Replace(template)
}
