// Package client executes read-only operations against AWS services through
// the generated SDK clients. Operations are dispatched by name through
// reflection so one code path serves every service, and responses come back
// as generic maps shaped like the wire response.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/developer-mesh/awsquery/pkg/naming"
	"github.com/developer-mesh/awsquery/pkg/observability"
	"github.com/developer-mesh/awsquery/pkg/schema"
)

// maxPages bounds pagination so a misbehaving token loop terminates
const maxPages = 100

// maxThrottleRetries bounds retry attempts on throttling errors
const maxThrottleRetries = 5

// tokenPairs maps a response continuation field to the request field that
// carries it on the next page, tried in order.
var tokenPairs = []struct {
	output string
	input  string
}{
	{"NextToken", "NextToken"},
	{"NextContinuationToken", "ContinuationToken"},
	{"NextMarker", "Marker"},
}

// OperationNamer resolves an operation's canonical SDK name. Satisfied by
// schema.Provider; nil falls back to naming conventions.
type OperationNamer interface {
	OperationSchema(service, operation string) *schema.OperationSchema
}

// AWSClient dispatches operations to registered SDK service clients.
type AWSClient struct {
	clients map[string]interface{}
	namer   OperationNamer
	logger  observability.Logger
}

// NewAWSClient creates a client over an explicit registry. Most callers want
// New, which registers the standard service clients.
func NewAWSClient(namer OperationNamer, logger observability.Logger) *AWSClient {
	if logger == nil {
		logger = observability.NewNoopLogger()
	}
	return &AWSClient{
		clients: make(map[string]interface{}),
		namer:   namer,
		logger:  logger,
	}
}

// Register binds a service name to an SDK client. Later registrations for
// the same name win.
func (c *AWSClient) Register(service string, client interface{}) {
	c.clients[service] = client
}

// Services lists the registered service names
func (c *AWSClient) Services() []string {
	services := make([]string, 0, len(c.clients))
	for name := range c.clients {
		services = append(services, name)
	}
	return services
}

// Invoke executes an operation and returns every response page. The
// operation name may be in any convention ("describe-instances",
// "describe_instances", "DescribeInstances"). Validation failures from the
// SDK are normalized so callers can classify them; throttling is retried
// with exponential backoff.
func (c *AWSClient) Invoke(ctx context.Context, service, operation string, params map[string]interface{}) ([]map[string]interface{}, error) {
	sdkClient, ok := c.clients[service]
	if !ok {
		return nil, fmt.Errorf("service %q is not registered", service)
	}

	canonical := naming.ToPascalCase(operation)
	if c.namer != nil {
		if op := c.namer.OperationSchema(service, operation); op != nil {
			canonical = op.Name
		}
	}

	method, err := lookupMethod(sdkClient, canonical)
	if err != nil {
		return nil, err
	}

	pageParams := make(map[string]interface{}, len(params)+1)
	for k, v := range params {
		pageParams[k] = v
	}

	var pages []map[string]interface{}
	for len(pages) < maxPages {
		page, err := c.invokePage(ctx, method, service, canonical, pageParams)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)

		token, inputField := continuationToken(page)
		if token == "" {
			break
		}
		pageParams[inputField] = token
	}

	c.logger.Debug("Operation complete", map[string]interface{}{
		"service":   service,
		"operation": canonical,
		"pages":     len(pages),
	})
	return pages, nil
}

// invokePage executes a single page call, retrying throttles.
func (c *AWSClient) invokePage(ctx context.Context, method reflect.Value, service, operation string, params map[string]interface{}) (map[string]interface{}, error) {
	input, err := buildInput(method, params)
	if err != nil {
		return nil, fmt.Errorf("building %s %s input: %w", service, operation, err)
	}

	var page map[string]interface{}
	attempt := func() error {
		results := method.Call([]reflect.Value{reflect.ValueOf(ctx), input})
		if errValue := results[1].Interface(); errValue != nil {
			callErr := normalizeError(errValue.(error))
			if isThrottle(callErr) {
				c.logger.Warn("Throttled, backing off", map[string]interface{}{
					"service":   service,
					"operation": operation,
				})
				return callErr
			}
			return backoff.Permanent(callErr)
		}

		var convErr error
		page, convErr = outputToMap(results[0].Interface())
		if convErr != nil {
			return backoff.Permanent(convErr)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxThrottleRetries), ctx)
	if err := backoff.Retry(attempt, policy); err != nil {
		return nil, err
	}
	return page, nil
}

// lookupMethod finds the client method for an operation, case-insensitively
// so schema-less dispatch still lands on acronym-heavy names.
func lookupMethod(client interface{}, operation string) (reflect.Value, error) {
	value := reflect.ValueOf(client)
	if method := value.MethodByName(operation); method.IsValid() {
		return method, nil
	}

	clientType := value.Type()
	for i := 0; i < clientType.NumMethod(); i++ {
		name := clientType.Method(i).Name
		if strings.EqualFold(name, operation) {
			return value.Method(i), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("operation %q is not supported by this service client", operation)
}

// buildInput constructs the operation's input struct from a generic
// parameter map. The SDK input types carry no tags, so a JSON round trip
// matches parameters to fields by name, case-insensitively.
func buildInput(method reflect.Value, params map[string]interface{}) (reflect.Value, error) {
	inputType := method.Type().In(1)
	input := reflect.New(inputType.Elem())

	if len(params) > 0 {
		encoded, err := json.Marshal(params)
		if err != nil {
			return reflect.Value{}, err
		}
		if err := json.Unmarshal(encoded, input.Interface()); err != nil {
			return reflect.Value{}, fmt.Errorf("parameters do not fit the operation input: %w", err)
		}
	}
	return input, nil
}

// outputToMap converts an SDK output struct into a generic map, dropping
// null members and SDK bookkeeping so absence means absence.
func outputToMap(output interface{}) (map[string]interface{}, error) {
	encoded, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}

	var page map[string]interface{}
	if err := json.Unmarshal(encoded, &page); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	delete(page, "ResultMetadata")
	pruneNulls(page)
	return page, nil
}

func pruneNulls(value interface{}) {
	switch typed := value.(type) {
	case map[string]interface{}:
		for k, v := range typed {
			if v == nil {
				delete(typed, k)
				continue
			}
			pruneNulls(v)
		}
	case []interface{}:
		for _, v := range typed {
			pruneNulls(v)
		}
	}
}

// continuationToken finds the response's pagination token and names the
// request field it feeds. Marker-style pagination only continues while the
// response says it is truncated.
func continuationToken(page map[string]interface{}) (string, string) {
	for _, pair := range tokenPairs {
		if token, ok := page[pair.output].(string); ok && token != "" {
			return token, pair.input
		}
	}
	if truncated, ok := page["IsTruncated"].(bool); ok && truncated {
		if token, ok := page["Marker"].(string); ok && token != "" {
			return token, "Marker"
		}
	}
	return "", ""
}
