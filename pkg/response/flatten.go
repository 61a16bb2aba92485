// Package response turns raw API responses into flat resource lists and
// provides the substring filtering and parameter-value extraction the
// resolver applies to them. Resources are loosely structured: each element
// of a flattened list is either a map or a bare scalar (list-of-names
// operations return plain strings).
package response

import (
	"fmt"
	"sort"

	"github.com/developer-mesh/awsquery/pkg/observability"
)

// Flatten concatenates the resource lists extracted from each page of a
// paginated response.
func Flatten(pages []map[string]interface{}, logger observability.Logger) []interface{} {
	if logger == nil {
		logger = observability.NewNoopLogger()
	}

	var all []interface{}
	for i, page := range pages {
		items := flattenSingle(page)
		logger.Debug("Extracted resources from page", map[string]interface{}{
			"page":      i + 1,
			"resources": len(items),
		})
		all = append(all, items...)
	}
	return all
}

// flattenSingle extracts the primary resource list from one response map.
// A single top-level list is extracted as-is; with several lists the
// largest wins; with none the whole response is the single resource.
func flattenSingle(resp map[string]interface{}) []interface{} {
	if len(resp) == 0 {
		return nil
	}

	// ResponseMetadata is transport bookkeeping, never data.
	filtered := make(map[string]interface{}, len(resp))
	for k, v := range resp {
		if k != "ResponseMetadata" {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	type listKey struct {
		key    string
		length int
	}
	var lists []listKey
	for k, v := range filtered {
		if items, ok := v.([]interface{}); ok {
			lists = append(lists, listKey{key: k, length: len(items)})
		}
	}

	switch {
	case len(lists) == 1:
		return filtered[lists[0].key].([]interface{})
	case len(lists) > 1:
		// Largest list wins; ties break on key name for determinism.
		sort.Slice(lists, func(i, j int) bool {
			if lists[i].length != lists[j].length {
				return lists[i].length > lists[j].length
			}
			return lists[i].key < lists[j].key
		})
		return filtered[lists[0].key].([]interface{})
	default:
		return []interface{}{filtered}
	}
}

// FlattenKeys flattens a nested value into dot-delimited keys, with numeric
// segments for list elements.
//
//	{"Owner": {"Name": "x"}, "Tags": [{"Key": "k"}]}
//	  -> {"Owner.Name": "x", "Tags.0.Key": "k"}
//
// Non-map values flatten to a single "value" entry.
func FlattenKeys(value interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	flattenInto(out, "", value)
	return out
}

func flattenInto(out map[string]interface{}, prefix string, value interface{}) {
	switch v := value.(type) {
	case map[string]interface{}:
		if len(v) == 0 && prefix != "" {
			out[prefix] = v
			return
		}
		for k, child := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenInto(out, key, child)
		}
	case []interface{}:
		for i, child := range v {
			key := fmt.Sprintf("%s.%d", prefix, i)
			if prefix == "" {
				key = fmt.Sprintf("%d", i)
			}
			flattenInto(out, key, child)
		}
	default:
		key := prefix
		if key == "" {
			key = "value"
		}
		out[key] = value
	}
}

// truthy mirrors the emptiness rule used throughout filtering and
// extraction: nil, empty strings/containers, zero and false all count as
// absent values.
func truthy(v interface{}) bool {
	switch value := v.(type) {
	case nil:
		return false
	case string:
		return value != ""
	case bool:
		return value
	case float64:
		return value != 0
	case int:
		return value != 0
	case int64:
		return value != 0
	case []interface{}:
		return len(value) > 0
	case map[string]interface{}:
		return len(value) > 0
	default:
		return true
	}
}

// stringify renders a scalar the way it should appear as a parameter value
func stringify(v interface{}) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%v", v)
}
