// Template for resolver scenario tests
// Usage: Copy this template when covering a new resolution flow

package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Handlers are keyed by service:operation; a handler that fails while its
// parameter is absent and succeeds once supplied models the retry hop.
// See fakeInvoker, fakeSchema, and eksFixture in resolver_test.go.
func TestResolve{Scenario}(t *testing.T) {
	inv := newFakeInvoker()
	inv.respond("{service}", "{operation}", func(params map[string]interface{}) ([]map[string]interface{}, error) {
		if params["{parameter}"] == nil {
			return nil, missingParam("{parameter}")
		}
		return []map[string]interface{}{
			// TODO: shape of the successful response
		}, nil
	})
	inv.respond("{service}", "{discovery-operation}", func(map[string]interface{}) ([]map[string]interface{}, error) {
		return []map[string]interface{}{
			// TODO: list response carrying {parameter} values
		}, nil
	})

	r := NewResolver(inv, &fakeSchema{}, nil)
	resources, result, err := r.Resolve(context.Background(), Request{
		Service:   "{service}",
		Operation: "{operation}",
		// ResourceFilters narrow the discovery results before extraction.
		ResourceFilters: []string{"{filter}"},
	})

	require.NoError(t, err)
	require.NotEmpty(t, resources)
	assert.Equal(t, []string{"{operation}", "{discovery-operation}", "{operation}"}, result.Attempted)
	assert.Equal(t, "{resolved-value}", inv.lastCall().params["{parameter}"])
}
