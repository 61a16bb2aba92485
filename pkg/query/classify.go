// Package query implements the closed-loop call resolution engine: invoke a
// read-only operation, classify a missing-parameter failure, infer discovery
// operations that can supply the parameter, narrow their results with
// operator filters, extract the value, resolve the parameter's exact
// spelling and retry the original call once.
package query

import "regexp"

// FailureKind classifies how a validation failure named its missing
// parameter.
type FailureKind string

// Failure kinds
const (
	KindNullValue         FailureKind = "null_value"
	KindRequiredParameter FailureKind = "required_parameter"
	KindEitherParameter   FailureKind = "either_parameter"
	KindMissingParameter  FailureKind = "missing_parameter"
)

// ValidationFailure names the single parameter a failed call was missing.
// Classification that cannot settle on exactly one parameter fails instead,
// and resolution is abandoned rather than retried blindly.
type ValidationFailure struct {
	Parameter string
	Kind      FailureKind
}

// classificationPatterns are tried in order and the first match wins. The
// order is load-bearing: when error text is ambiguous it decides which
// parameter gets reported, and existing behavior depends on it. Append new
// patterns, never reorder.
var classificationPatterns = []struct {
	kind    FailureKind
	pattern *regexp.Regexp
}{
	{KindNullValue, regexp.MustCompile(`Value null at '([^']+)'`)},
	{KindRequiredParameter, regexp.MustCompile(`'([^']+)'[^:]*: Member must not be null`)},
	{KindEitherParameter, regexp.MustCompile(`Either (\w+) or \w+ must be specified`)},
	{KindMissingParameter, regexp.MustCompile(`Missing required parameter in input: ['"]([^'"]+)['"]`)},
}

// ClassifyFailure parses a failed call's error text into a ValidationFailure.
// Parsing free-text provider errors is inherently fragile, so the pattern
// table lives here and nowhere else; the resolution state machine only sees
// the classified result.
func ClassifyFailure(err error) (*ValidationFailure, bool) {
	if err == nil {
		return nil, false
	}

	message := err.Error()
	for _, entry := range classificationPatterns {
		if match := entry.pattern.FindStringSubmatch(message); match != nil {
			return &ValidationFailure{Parameter: match[1], Kind: entry.kind}, true
		}
	}
	return nil, false
}
