// Package output renders resolved resources for the terminal: a compact
// table by default, JSON on request, and a key listing for building column
// filters.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/developer-mesh/awsquery/pkg/naming"
	"github.com/developer-mesh/awsquery/pkg/response"
)

// Table writes resources as an aligned table with one row per resource.
// Columns are flattened key paths; headers show the simplified form. Cells
// with no value render as "-".
func Table(w io.Writer, resources []interface{}, cols []string) error {
	if len(resources) == 0 {
		_, err := fmt.Fprintln(w, "No results")
		return err
	}
	if len(cols) == 0 {
		cols = allColumns(resources)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = naming.SimplifyKey(col)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, resource := range resources {
		flat := response.FlattenKeys(resource)
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = cellValue(flat, col)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// JSON writes resources as a JSON array. With columns given, each resource
// is reduced to the matching flattened keys.
func JSON(w io.Writer, resources []interface{}, cols []string) error {
	out := resources
	if len(cols) > 0 {
		out = make([]interface{}, 0, len(resources))
		for _, resource := range resources {
			flat := response.FlattenKeys(resource)
			reduced := make(map[string]interface{}, len(cols))
			for _, col := range cols {
				if value, ok := flat[col]; ok {
					reduced[col] = value
				}
			}
			out = append(out, reduced)
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// Keys writes the sorted set of flattened keys present across the
// resources, the raw material for column filters.
func Keys(w io.Writer, resources []interface{}) error {
	seen := map[string]bool{}
	for _, resource := range resources {
		for key := range response.FlattenKeys(resource) {
			seen[key] = true
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := fmt.Fprintln(w, key); err != nil {
			return err
		}
	}
	return nil
}

// allColumns collects every flattened key across the resources, sorted
func allColumns(resources []interface{}) []string {
	seen := map[string]bool{}
	for _, resource := range resources {
		for key := range response.FlattenKeys(resource) {
			seen[key] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for key := range seen {
		cols = append(cols, key)
	}
	sort.Strings(cols)
	return cols
}

func cellValue(flat map[string]interface{}, col string) string {
	value, ok := flat[col]
	if !ok || value == nil {
		return "-"
	}
	switch typed := value.(type) {
	case string:
		if typed == "" {
			return "-"
		}
		return typed
	case float64:
		if typed == float64(int64(typed)) {
			return fmt.Sprintf("%d", int64(typed))
		}
		return fmt.Sprintf("%v", typed)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
