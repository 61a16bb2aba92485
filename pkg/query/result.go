package query

import "github.com/google/uuid"

// CallResult tracks one resolution attempt across its hops: every operation
// invoked in order, which of them produced usable data, the raw pages of the
// last success, and the error text accumulated along the way. The
// correlation ID ties the log lines of a single resolution together.
type CallResult struct {
	CorrelationID string
	Attempted     []string
	Succeeded     []string
	LastResponse  []map[string]interface{}
	ErrorMessages []string

	// ResolvedParameter and ResolvedValues record what multi-level
	// resolution filled in, empty for single-level calls.
	ResolvedParameter string
	ResolvedValues    []string
}

// NewCallResult creates an empty result with a fresh correlation ID.
func NewCallResult() *CallResult {
	return &CallResult{CorrelationID: uuid.New().String()}
}

func (r *CallResult) recordAttempt(operation string) {
	r.Attempted = append(r.Attempted, operation)
}

func (r *CallResult) recordSuccess(operation string, pages []map[string]interface{}) {
	r.Succeeded = append(r.Succeeded, operation)
	r.LastResponse = pages
}

func (r *CallResult) recordError(operation string, err error) {
	r.ErrorMessages = append(r.ErrorMessages, operation+": "+err.Error())
}
