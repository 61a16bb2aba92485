package response

import (
	"strings"

	"github.com/developer-mesh/awsquery/pkg/observability"
)

// Filter keeps the resources for which every filter matches, as a
// case-insensitive substring, either a flattened field name or a value.
func Filter(resources []interface{}, filters []string, logger observability.Logger) []interface{} {
	if len(filters) == 0 {
		return resources
	}
	if logger == nil {
		logger = observability.NewNoopLogger()
	}

	var kept []interface{}
	for _, resource := range resources {
		flat := FlattenKeys(resource)

		searchable := make([]string, 0, len(flat)*2)
		for key, value := range flat {
			searchable = append(searchable, strings.ToLower(key))
			searchable = append(searchable, strings.ToLower(stringify(value)))
		}

		if matchesAll(searchable, filters) {
			kept = append(kept, resource)
		}
	}

	logger.Debug("Applied filters", map[string]interface{}{
		"filters": filters,
		"kept":    len(kept),
		"total":   len(resources),
	})
	return kept
}

func matchesAll(searchable []string, filters []string) bool {
	for _, filter := range filters {
		needle := strings.ToLower(filter)
		found := false
		for _, item := range searchable {
			if strings.Contains(item, needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
