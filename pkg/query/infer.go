package query

import (
	"strings"

	"github.com/developer-mesh/awsquery/pkg/naming"
)

// genericParameterNames carry no resource information on their own, so the
// failing operation's name is the only usable signal.
var genericParameterNames = map[string]bool{
	"name": true, "id": true, "arn": true, "identifier": true,
	"names": true, "ids": true, "arns": true, "identifiers": true,
}

// parameterSuffixes are stripped from a parameter name before deriving the
// resource word. Longest first so "ClusterIdentifier" loses "Identifier",
// not "Id" leaving "ClusterIdentif".
var parameterSuffixes = []string{
	"Identifiers", "Identifier", "Names", "Name",
	"ARNs", "ARN", "Arns", "Arn", "Ids", "Id",
}

// discoveryVerbs order the candidate operations by how likely each verb is
// to enumerate a resource cheaply.
var discoveryVerbs = []string{"list", "describe", "get"}

// actionVerbPrefixes are verbs stripped from the failing operation's name
// when deriving its resource word.
var actionVerbPrefixes = []string{"describe", "get", "read", "update", "delete", "create", "list"}

// OperationChecker reports whether a service exposes an operation. It is
// how the inferencer consults the schema without owning schema loading.
type OperationChecker interface {
	HasOperation(service, operation string) bool
}

// InferDiscoveryOperations produces the ordered list of candidate operations
// likely to enumerate resources that carry parameterName. Parameter-derived
// candidates come first, then candidates derived from the failing operation
// itself, duplicates removed. When a checker is given, candidates the
// service does not expose are dropped; if that filters everything out, the
// unfiltered list is returned so schema gaps don't kill discovery.
func InferDiscoveryOperations(service, parameterName, failingOperation string, checker OperationChecker) []string {
	var candidates []string

	// A parameter-derived word is singular even when it ends in "s"
	// ("alias", "address"), so it is always pluralized. A word taken from
	// the operation name keeps its form: "list_aliases" really is plural.
	if resource := resourceWord(parameterName); resource != "" {
		candidates = append(candidates, verbCandidates(naming.Pluralize(resource), resource)...)
	}
	if resource := actionResourceWord(failingOperation); resource != "" {
		plural, singular := resource, resource
		if strings.HasSuffix(resource, "s") {
			singular = naming.Singularize(resource)
		} else {
			plural = naming.Pluralize(resource)
		}
		candidates = append(candidates, verbCandidates(plural, singular)...)
	}
	candidates = dedupe(candidates)

	if checker == nil || len(candidates) == 0 {
		return candidates
	}

	filtered := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if checker.HasOperation(service, candidate) {
			filtered = append(filtered, candidate)
		}
	}
	if len(filtered) == 0 {
		return candidates
	}
	return filtered
}

// resourceWord derives the resource word from a parameter name, or "" when
// the name is too generic to carry one.
func resourceWord(parameterName string) string {
	if parameterName == "" || genericParameterNames[strings.ToLower(parameterName)] {
		return ""
	}

	resource := parameterName
	for _, suffix := range parameterSuffixes {
		if strings.HasSuffix(resource, suffix) && len(resource) > len(suffix) {
			resource = resource[:len(resource)-len(suffix)]
			break
		}
	}
	if genericParameterNames[strings.ToLower(resource)] {
		return ""
	}
	return naming.ToSnakeCase(resource)
}

// actionResourceWord derives the resource word from the failing operation
// by stripping its leading verb: "describe_cluster" -> "cluster".
func actionResourceWord(operation string) string {
	if operation == "" {
		return ""
	}
	snake := naming.ToSnakeCase(operation)
	for _, verb := range actionVerbPrefixes {
		if strings.HasPrefix(snake, verb+"_") {
			return snake[len(verb)+1:]
		}
	}
	return ""
}

// verbCandidates crosses the discovery verbs with the plural and singular
// forms of a snake_case resource word, plural forms first.
func verbCandidates(plural, singular string) []string {
	candidates := make([]string, 0, 2*len(discoveryVerbs))
	for _, verb := range discoveryVerbs {
		candidates = append(candidates, verb+"_"+plural)
	}
	if singular != plural {
		for _, verb := range discoveryVerbs {
			candidates = append(candidates, verb+"_"+singular)
		}
	}
	return candidates
}

func dedupe(candidates []string) []string {
	seen := make(map[string]bool, len(candidates))
	result := candidates[:0]
	for _, c := range candidates {
		if !seen[c] {
			seen[c] = true
			result = append(result, c)
		}
	}
	return result
}
