package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStandardLogger("test").WithWriter(&buf)

	logger.Debug("hidden", nil)
	assert.Empty(t, buf.String(), "debug suppressed at default level")

	logger.Info("visible", map[string]interface{}{"service": "eks"})
	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "[test]")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "service=eks")
}

func TestStandardLoggerDebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStandardLogger("test").WithWriter(&buf).WithLevel(LogLevelDebug)

	logger.Debugf("trying %s", "list_clusters")
	assert.Contains(t, buf.String(), "trying list_clusters")
}

func TestStandardLoggerFieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStandardLogger("").WithWriter(&buf)

	logger.Info("msg", map[string]interface{}{"b": 2, "a": 1, "c": 3})
	assert.Contains(t, buf.String(), "a=1 b=2 c=3")
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewStandardLogger("query").WithWriter(&buf)
	logger := base.With(map[string]interface{}{"correlation_id": "abc"})

	logger.Info("resolved", map[string]interface{}{"parameter": "clusterName"})
	out := buf.String()
	assert.Contains(t, out, "correlation_id=abc")
	assert.Contains(t, out, "parameter=clusterName")
}

func TestNoopLoggerSatisfiesInterface(t *testing.T) {
	var logger Logger = NewNoopLogger()
	logger.Info("ignored", nil)
	assert.Same(t, logger, logger.WithPrefix("x"))
}
