package query

import (
	"fmt"
	"strings"
)

// UnclassifiableError reports a call failure whose text matched none of the
// validation patterns. It is surfaced verbatim; retrying a call we don't
// understand would hide the real problem.
type UnclassifiableError struct {
	Service   string
	Operation string
	Err       error
}

func (e *UnclassifiableError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Service, e.Operation, e.Err)
}

func (e *UnclassifiableError) Unwrap() error { return e.Err }

// DiscoveryExhaustedError reports that every candidate discovery operation
// either failed or returned no resources.
type DiscoveryExhaustedError struct {
	Parameter  string
	Candidates []string
}

func (e *DiscoveryExhaustedError) Error() string {
	return fmt.Sprintf(
		"could not discover a value for parameter %q: tried %s; provide the parameter directly or point discovery at an operation with --hint",
		e.Parameter, strings.Join(e.Candidates, ", "))
}

// FilterExhaustedError reports that discovery found resources but the
// resource filters matched none of them.
type FilterExhaustedError struct {
	Operation string
	Filters   []string
}

func (e *FilterExhaustedError) Error() string {
	return fmt.Sprintf("no resources from %s matched filters [%s]",
		e.Operation, strings.Join(e.Filters, ", "))
}

// ExtractionError reports that filtered resources carried no usable value
// for the missing parameter.
type ExtractionError struct {
	Parameter string
	Operation string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("resources from %s carried no usable value for parameter %q",
		e.Operation, e.Parameter)
}

// RetryValidationError reports a second validation failure after the first
// one was already resolved. Resolution performs a single hop: chaining
// further discoveries would compound guesses, so the failure is reported
// instead.
type RetryValidationError struct {
	Service   string
	Operation string
	Failure   *ValidationFailure
	Err       error
}

func (e *RetryValidationError) Error() string {
	return fmt.Sprintf("%s %s still failed after resolving one parameter (now missing %q): %v",
		e.Service, e.Operation, e.Failure.Parameter, e.Err)
}

func (e *RetryValidationError) Unwrap() error { return e.Err }
