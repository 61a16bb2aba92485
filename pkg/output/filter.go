package output

import (
	"sort"
	"strings"

	"github.com/developer-mesh/awsquery/pkg/naming"
	"github.com/developer-mesh/awsquery/pkg/response"
)

// SelectColumns resolves column filters against the flattened keys present
// in the resources. Filters match case-insensitively as substrings; "^"
// anchors the start and "$" the end of the simplified key. Matches keep
// filter order, then key order, without duplicates.
func SelectColumns(resources []interface{}, filters []string) []string {
	if len(filters) == 0 {
		return nil
	}

	available := allColumns(resources)

	var cols []string
	seen := map[string]bool{}
	for _, filter := range filters {
		for _, key := range available {
			if seen[key] || !matchColumn(key, filter) {
				continue
			}
			seen[key] = true
			cols = append(cols, key)
		}
	}
	return cols
}

// matchColumn tests one filter against a flattened key. Anchors apply to
// the simplified key so "^name$" means the field named exactly "Name"; an
// unanchored filter may match anywhere in the full path.
func matchColumn(key, filter string) bool {
	pattern := filter
	anchorStart := strings.HasPrefix(pattern, "^")
	pattern = strings.TrimPrefix(pattern, "^")
	anchorEnd := strings.HasSuffix(pattern, "$")
	pattern = strings.TrimSuffix(pattern, "$")
	if pattern == "" {
		return false
	}
	pattern = strings.ToLower(pattern)

	simple := strings.ToLower(naming.SimplifyKey(key))
	switch {
	case anchorStart && anchorEnd:
		return simple == pattern
	case anchorStart:
		return strings.HasPrefix(simple, pattern)
	case anchorEnd:
		return strings.HasSuffix(simple, pattern)
	default:
		return strings.Contains(strings.ToLower(key), pattern)
	}
}

// FieldTypes infers a schema-style field type map from observed resources,
// for column selection when no service model is available.
func FieldTypes(resources []interface{}) map[string]string {
	fields := map[string]string{}
	for _, resource := range resources {
		for key, value := range response.FlattenKeys(resource) {
			if _, ok := fields[key]; ok {
				continue
			}
			fields[key] = fieldType(value)
		}
	}

	// Nested scalar paths imply their ancestors: a numeric segment marks
	// its parent as a list, anything else as a structure.
	for _, key := range sortedFieldKeys(fields) {
		segments := strings.Split(key, ".")
		for i := 1; i < len(segments); i++ {
			prefix := strings.Join(segments[:i], ".")
			if isNumeric(segments[i-1]) {
				continue
			}
			if _, ok := fields[prefix]; ok {
				continue
			}
			if isNumeric(segments[i]) {
				fields[prefix] = "list"
			} else {
				fields[prefix] = "structure"
			}
		}
	}
	return fields
}

func fieldType(value interface{}) string {
	switch typed := value.(type) {
	case bool:
		return "boolean"
	case float64:
		if typed == float64(int64(typed)) {
			return "integer"
		}
		return "double"
	case string:
		return "string"
	default:
		return "string"
	}
}

func sortedFieldKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func isNumeric(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
