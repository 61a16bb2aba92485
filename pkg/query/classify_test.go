package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		parameter string
		kind      FailureKind
	}{
		{
			name:      "null value",
			message:   "ParamValidationError: Value null at 'stackName' failed to satisfy constraint",
			parameter: "stackName",
			kind:      KindNullValue,
		},
		{
			name:      "member must not be null",
			message:   "1 validation error detected: Value at 'clusterName' failed to satisfy constraint: Member must not be null",
			parameter: "clusterName",
			kind:      KindRequiredParameter,
		},
		{
			name:      "either form",
			message:   "InvalidParameterCombination: Either LoadBalancerName or LoadBalancerArn must be specified",
			parameter: "LoadBalancerName",
			kind:      KindEitherParameter,
		},
		{
			name:      "missing required parameter single quotes",
			message:   "Missing required parameter in input: 'InstanceIds'",
			parameter: "InstanceIds",
			kind:      KindMissingParameter,
		},
		{
			name:      "missing required parameter double quotes",
			message:   `Missing required parameter in input: "Bucket"`,
			parameter: "Bucket",
			kind:      KindMissingParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failure, ok := ClassifyFailure(errors.New(tt.message))
			require.True(t, ok)
			assert.Equal(t, tt.parameter, failure.Parameter)
			assert.Equal(t, tt.kind, failure.Kind)
		})
	}
}

func TestClassifyFailureFirstPatternWins(t *testing.T) {
	// A message matching several patterns must classify by the earliest one.
	err := errors.New("Value null at 'first'; Missing required parameter in input: 'second'")
	failure, ok := ClassifyFailure(err)
	require.True(t, ok)
	assert.Equal(t, "first", failure.Parameter)
	assert.Equal(t, KindNullValue, failure.Kind)
}

func TestClassifyFailureUnrecognized(t *testing.T) {
	for _, message := range []string{
		"AccessDenied: not authorized to perform eks:DescribeCluster",
		"connection refused",
		"Throttling: rate exceeded",
	} {
		_, ok := ClassifyFailure(errors.New(message))
		assert.False(t, ok, message)
	}
}

func TestClassifyFailureNil(t *testing.T) {
	_, ok := ClassifyFailure(nil)
	assert.False(t, ok)
}
