// Package naming converts identifiers between the conventions AWS surfaces
// expose: PascalCase operation and member names in service models, snake_case
// and kebab-case on the command line, and dot-delimited field paths in
// flattened responses. Conversion is algorithmic, with no hardcoded acronym
// dictionaries; pattern matching preserves acronyms like VPC, HTTPS and DB.
package naming

import (
	"regexp"
	"strings"
)

var (
	// Insert underscore before an uppercase run followed by lowercase:
	// "HTTPSListener" -> "HTTPS_Listener"
	boundaryBeforeWord = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	// Insert underscore before uppercase after lowercase/digit:
	// "VPCId" -> "VPC_Id", "load2Balancer" -> "load2_Balancer"
	boundaryAfterLower = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// ToSnakeCase converts any format (PascalCase, camelCase, kebab-case) to
// snake_case.
//
//	ToSnakeCase("DescribeInstances") == "describe_instances"
//	ToSnakeCase("HTTPSListener") == "https_listener"
//	ToSnakeCase("VPCId") == "vpc_id"
//	ToSnakeCase("describe-instances") == "describe_instances"
func ToSnakeCase(text string) string {
	if text == "" {
		return text
	}

	if strings.Contains(text, "-") {
		return strings.ToLower(strings.ReplaceAll(text, "-", "_"))
	}

	s := boundaryBeforeWord.ReplaceAllString(text, "${1}_${2}")
	s = boundaryAfterLower.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

// ToPascalCase converts snake_case or kebab-case to PascalCase. Input that
// already looks like PascalCase is returned unchanged so provider-defined
// acronyms survive a round trip.
func ToPascalCase(text string) string {
	if text == "" {
		return text
	}

	if !strings.Contains(text, "_") && !strings.Contains(text, "-") && text[0] >= 'A' && text[0] <= 'Z' {
		return text
	}

	normalized := strings.ReplaceAll(text, "-", "_")
	words := strings.Split(normalized, "_")
	var b strings.Builder
	for _, word := range words {
		b.WriteString(capitalize(word))
	}
	return b.String()
}

// ToKebabCase converts PascalCase to kebab-case for display
func ToKebabCase(text string) string {
	return strings.ReplaceAll(ToSnakeCase(text), "_", "-")
}

// Capitalize upper-cases the first letter without touching the rest,
// preserving any interior casing: "clusterName" -> "ClusterName".
func Capitalize(text string) string {
	if text == "" {
		return text
	}
	return strings.ToUpper(text[:1]) + text[1:]
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}

// SimplifyKey extracts the last non-numeric segment from a flattened key.
//
//	SimplifyKey("Instances.0.NetworkInterfaces.0.SubnetId") == "SubnetId"
//	SimplifyKey("Owner.DisplayName") == "DisplayName"
//	SimplifyKey("ReservationId") == "ReservationId"
func SimplifyKey(fullKey string) string {
	if fullKey == "" {
		return fullKey
	}

	parts := strings.Split(fullKey, ".")
	for i := len(parts) - 1; i >= 0; i-- {
		if !isDigits(parts[i]) {
			return parts[i]
		}
	}
	return parts[len(parts)-1]
}

// IsListElementPath reports whether a field path addresses a list element,
// like "Items.0" or "Tags.0.Key".
func IsListElementPath(field string) bool {
	for _, part := range strings.Split(field, ".") {
		if isDigits(part) {
			return true
		}
	}
	return false
}

// PathDepth returns the nesting depth of a field path (number of dots)
func PathDepth(field string) int {
	return strings.Count(field, ".")
}

// BaseName returns the last segment of a dotted field path
func BaseName(field string) string {
	if idx := strings.LastIndex(field, "."); idx >= 0 {
		return field[idx+1:]
	}
	return field
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
