// Package flatten turns nested object fields into qualified scalar keys.
//
// Keys are built as prefix + segments joined with "_". Segments are not
// escaped, so {"a_b": {"c": ..}} and {"a": {"b_c": ..}} both produce "a_b_c".
// Entry.Path keeps the segments for callers that need to tell them apart.
package flatten

import (
	"strings"

	"github.com/adrianliechti/payroll/pkg/analyzer"
)

const DefaultDepth = 8

type Entry struct {
	Key  string
	Path []string

	// nil when the node carries no string value
	Value *string
}

func Flatten(props []analyzer.Property, prefix string) []Entry {
	return FlattenDepth(props, prefix, DefaultDepth)
}

// FlattenDepth walks at most maxDepth object levels. An object found below
// that limit is reported as a missing value at its own key.
func FlattenDepth(props []analyzer.Property, prefix string, maxDepth int) []Entry {
	if maxDepth <= 0 {
		maxDepth = DefaultDepth
	}

	var result []Entry

	walk(props, prefix, nil, 1, maxDepth, &result)

	return result
}

func walk(props []analyzer.Property, prefix string, path []string, depth, maxDepth int, result *[]Entry) {
	for _, p := range props {
		segments := make([]string, len(path), len(path)+1)
		copy(segments, path)
		segments = append(segments, p.Name)

		entry := Entry{
			Key:  prefix + strings.Join(segments, "_"),
			Path: segments,
		}

		switch p.Field.Kind() {
		case analyzer.KindString:
			val := *p.Field.String
			entry.Value = &val

		case analyzer.KindObject:
			if depth < maxDepth {
				walk(p.Field.Object, prefix, segments, depth+1, maxDepth, result)
				continue
			}

		default:
			// an object without members contributes no keys
			if p.Field.Type == "object" {
				continue
			}
		}

		*result = append(*result, entry)
	}
}

// Collisions returns keys produced by more than one distinct path.
func Collisions(entries []Entry) []string {
	seen := make(map[string]string)

	var result []string

	for _, e := range entries {
		path := strings.Join(e.Path, "\x00")

		if prev, ok := seen[e.Key]; ok {
			if prev != path {
				result = append(result, e.Key)
			}

			continue
		}

		seen[e.Key] = path
	}

	return result
}
