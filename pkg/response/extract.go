package response

import (
	"sort"
	"strings"

	"github.com/developer-mesh/awsquery/pkg/naming"
	"github.com/developer-mesh/awsquery/pkg/observability"
)

// resourceNounsWithNameField are single-word parameters that conventionally
// map onto a "Name" field in list results.
var resourceNounsWithNameField = map[string]bool{
	"bucket": true, "cluster": true, "instance": true, "volume": true,
	"snapshot": true, "image": true, "vpc": true, "subnet": true,
	"queue": true, "topic": true, "table": true, "function": true,
	"role": true, "user": true, "group": true, "policy": true,
	"stack": true, "template": true, "pipeline": true, "repository": true,
	"branch": true, "commit": true, "build": true, "project": true,
	"job": true, "task": true, "service": true, "container": true,
	"node": true, "nodegroup": true, "database": true, "endpoint": true,
	"domain": true, "certificate": true, "key": true, "secret": true,
	"parameter": true,
}

// ExtractParameterValues pulls candidate values for a missing parameter out
// of discovery results. Strategies run in a fixed order per resource and
// later strategies only apply when earlier ones found nothing: exact field
// match, case-insensitive match, substring match, then standard fallback
// fields chosen by the parameter's suffix (Name/Id/Arn/Key/Value) or by the
// parameter being a well-known resource noun.
func ExtractParameterValues(resources []interface{}, parameterName string, logger observability.Logger) []string {
	if len(resources) == 0 {
		return nil
	}
	if logger == nil {
		logger = observability.NewNoopLogger()
	}

	// Bare-string resources (name lists) are the values.
	if s, ok := resources[0].(string); ok {
		values := make([]string, 0, len(resources))
		values = append(values, s)
		for _, r := range resources[1:] {
			if s, ok := r.(string); ok {
				values = append(values, s)
			}
		}
		logger.Debug("Resources are bare strings, using directly", map[string]interface{}{
			"parameter": parameterName,
			"values":    len(values),
		})
		return values
	}

	// List parameters (InstanceIds) are populated from the singular field
	// each resource carries (InstanceId), so search both forms.
	searchNames := []string{parameterName}
	if naming.ExpectsList(parameterName) {
		if singular := naming.Singularize(parameterName); singular != parameterName {
			searchNames = append(searchNames, singular)
		}
	}
	for _, name := range searchNames {
		if capitalized := naming.Capitalize(name); capitalized != name {
			searchNames = append(searchNames, capitalized)
		}
	}

	var values []string
	for _, resource := range resources {
		flat := FlattenKeys(resource)
		if value, ok := extractOne(flat, searchNames, parameterName); ok {
			values = append(values, value)
		}
	}

	logger.Debug("Extracted parameter values", map[string]interface{}{
		"parameter": parameterName,
		"values":    len(values),
	})
	return values
}

func extractOne(flat map[string]interface{}, searchNames []string, parameterName string) (string, bool) {
	// Exact match.
	for _, name := range searchNames {
		if value, ok := flat[name]; ok && truthy(value) {
			return stringify(value), true
		}
	}

	// Case-insensitive match.
	for _, name := range searchNames {
		for _, key := range sortedKeys(flat) {
			if strings.EqualFold(key, name) && truthy(flat[key]) {
				return stringify(flat[key]), true
			}
		}
	}

	// Substring match, e.g. StackName inside Stacks.0.StackName.
	for _, name := range searchNames {
		needle := strings.ToLower(name)
		for _, key := range sortedKeys(flat) {
			if strings.Contains(strings.ToLower(key), needle) && truthy(flat[key]) {
				return stringify(flat[key]), true
			}
		}
	}

	// Standard fallback fields keyed by the parameter's own suffix, or by
	// the parameter naming a well-known resource type.
	for _, field := range standardFallbackFields(parameterName) {
		if value, ok := flat[field]; ok && truthy(value) {
			return stringify(value), true
		}
		for _, key := range sortedKeys(flat) {
			if strings.EqualFold(key, field) && truthy(flat[key]) {
				return stringify(flat[key]), true
			}
		}
	}

	return "", false
}

func standardFallbackFields(parameterName string) []string {
	lower := strings.ToLower(parameterName)
	switch {
	case strings.HasSuffix(lower, "name"):
		return []string{"Name"}
	case strings.HasSuffix(lower, "id"):
		return []string{"Id"}
	case strings.HasSuffix(lower, "arn"):
		return []string{"Arn", "ARN"}
	case strings.HasSuffix(lower, "key"):
		return []string{"Key"}
	case strings.HasSuffix(lower, "value"):
		return []string{"Value"}
	case resourceNounsWithNameField[lower]:
		return []string{"Name"}
	}
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
