package query

import (
	"context"
	"strings"

	"github.com/developer-mesh/awsquery/pkg/naming"
	"github.com/developer-mesh/awsquery/pkg/observability"
	"github.com/developer-mesh/awsquery/pkg/response"
	"github.com/developer-mesh/awsquery/pkg/schema"
)

// DefaultResultLimit caps how many filtered discovery results feed value
// extraction. Callers that want unlimited pass 0.
const DefaultResultLimit = 10

// Invoker executes a single read-only operation against a service and
// returns all response pages, paginating internally.
type Invoker interface {
	Invoke(ctx context.Context, service, operation string, params map[string]interface{}) ([]map[string]interface{}, error)
}

// SchemaSource is the slice of schema introspection the resolver needs.
type SchemaSource interface {
	OperationSchema(service, operation string) *schema.OperationSchema
	CorrectParameterName(service, operation, parameter string) string
	HasOperation(service, operation string) bool
}

// Request describes one operator query: the target call, the filters that
// narrow discovery results and final output, and the optional hint that
// overrides inference.
type Request struct {
	Service   string
	Operation string

	// Parameters are operator-supplied input parameters for the target
	// call. They never override an auto-resolved identifier.
	Parameters map[string]interface{}

	// ResourceFilters narrow discovery results before value extraction.
	// ValueFilters narrow the final resources after the call succeeds.
	ResourceFilters []string
	ValueFilters    []string

	// Limit caps filtered discovery candidates; 0 means unlimited.
	Limit int

	// Hint pins discovery to a specific service, operation, or extraction
	// field instead of inferring them.
	HintService   string
	HintOperation string
	HintField     string
}

// Resolver drives the multi-level call state machine: try the call, and when
// it fails for a classifiable missing parameter, discover the value, fill it
// in, and retry once.
type Resolver struct {
	client Invoker
	schema SchemaSource
	logger observability.Logger
}

// NewResolver creates a Resolver. A nil logger disables logging.
func NewResolver(client Invoker, source SchemaSource, logger observability.Logger) *Resolver {
	if logger == nil {
		logger = observability.NewNoopLogger()
	}
	return &Resolver{client: client, schema: source, logger: logger}
}

// Resolve executes the request and returns the flattened resources of the
// final successful call, after value filters. The CallResult is populated
// even on failure so callers can report what was attempted.
func (r *Resolver) Resolve(ctx context.Context, req Request) ([]interface{}, *CallResult, error) {
	result := NewCallResult()
	logger := r.logger.With(map[string]interface{}{
		"correlation_id": result.CorrelationID,
		"service":        req.Service,
		"operation":      req.Operation,
	})

	logger.Debug("Invoking operation", map[string]interface{}{
		"parameters": len(req.Parameters),
	})
	result.recordAttempt(req.Operation)
	pages, err := r.client.Invoke(ctx, req.Service, req.Operation, req.Parameters)
	if err == nil {
		result.recordSuccess(req.Operation, pages)
		return r.finish(pages, req, result, logger)
	}
	result.recordError(req.Operation, err)

	failure, ok := ClassifyFailure(err)
	if !ok {
		logger.Debug("Call failed without a classifiable validation error", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, result, &UnclassifiableError{Service: req.Service, Operation: req.Operation, Err: err}
	}
	logger.Info("Missing required parameter, starting discovery", map[string]interface{}{
		"parameter": failure.Parameter,
		"kind":      string(failure.Kind),
	})

	resources, discoveryOp, derr := r.discover(ctx, req, failure, result, logger)
	if derr != nil {
		return nil, result, derr
	}

	values, verr := r.extract(req, failure, resources, discoveryOp, logger)
	if verr != nil {
		return nil, result, verr
	}
	result.ResolvedValues = values

	resolved := r.schema.CorrectParameterName(req.Service, req.Operation, failure.Parameter)
	result.ResolvedParameter = resolved

	merged := make(map[string]interface{}, len(req.Parameters)+1)
	for k, v := range req.Parameters {
		merged[k] = v
	}
	merged[resolved] = parameterValue(resolved, values)

	logger.Info("Retrying with resolved parameter", map[string]interface{}{
		"parameter": resolved,
		"values":    len(values),
	})
	result.recordAttempt(req.Operation)
	pages, err = r.client.Invoke(ctx, req.Service, req.Operation, merged)
	if err != nil {
		result.recordError(req.Operation, err)
		if second, ok := ClassifyFailure(err); ok {
			// One hop only; a second missing parameter is reported, not
			// chased.
			return nil, result, &RetryValidationError{
				Service: req.Service, Operation: req.Operation,
				Failure: second, Err: err,
			}
		}
		return nil, result, &UnclassifiableError{Service: req.Service, Operation: req.Operation, Err: err}
	}

	result.recordSuccess(req.Operation, pages)
	return r.finish(pages, req, result, logger)
}

// discover runs candidate operations until one yields resources that survive
// the resource filters.
func (r *Resolver) discover(ctx context.Context, req Request, failure *ValidationFailure, result *CallResult, logger observability.Logger) ([]interface{}, string, error) {
	service := req.Service
	if req.HintService != "" {
		service = req.HintService
	}

	var candidates []string
	if req.HintOperation != "" {
		candidates = []string{req.HintOperation}
	} else {
		candidates = InferDiscoveryOperations(service, failure.Parameter, req.Operation, r.schema)
	}
	if len(candidates) == 0 {
		return nil, "", &DiscoveryExhaustedError{Parameter: failure.Parameter}
	}
	logger.Debug("Discovery candidates", map[string]interface{}{
		"service":    service,
		"candidates": strings.Join(candidates, ", "),
	})

	limit := req.Limit

	for _, candidate := range candidates {
		params := r.acceptedParameters(service, candidate, req.Parameters)
		logger.Debug("Trying discovery operation", map[string]interface{}{
			"discovery_service":   service,
			"discovery_operation": candidate,
		})
		result.recordAttempt(candidate)

		pages, err := r.client.Invoke(ctx, service, candidate, params)
		if err != nil {
			result.recordError(candidate, err)
			continue
		}

		resources := response.Flatten(pages, logger)
		if len(resources) == 0 {
			continue
		}
		result.recordSuccess(candidate, pages)

		if len(req.ResourceFilters) > 0 {
			resources = response.Filter(resources, req.ResourceFilters, logger)
			if len(resources) == 0 {
				return nil, "", &FilterExhaustedError{Operation: candidate, Filters: req.ResourceFilters}
			}
		}
		if limit > 0 && len(resources) > limit {
			resources = resources[:limit]
		}
		logger.Info("Discovery succeeded", map[string]interface{}{
			"discovery_operation": candidate,
			"resources":           len(resources),
		})
		return resources, candidate, nil
	}

	return nil, "", &DiscoveryExhaustedError{Parameter: failure.Parameter, Candidates: candidates}
}

// extract pulls the parameter values out of the discovered resources.
func (r *Resolver) extract(req Request, failure *ValidationFailure, resources []interface{}, discoveryOp string, logger observability.Logger) ([]string, error) {
	lookup := failure.Parameter
	if req.HintField != "" {
		lookup = req.HintField
	}

	values := response.ExtractParameterValues(resources, lookup, logger)
	if len(values) == 0 {
		return nil, &ExtractionError{Parameter: failure.Parameter, Operation: discoveryOp}
	}

	if len(values) > 1 && !naming.ExpectsList(failure.Parameter) {
		logger.Info("Multiple values found, using the first", map[string]interface{}{
			"parameter":    failure.Parameter,
			"using":        values[0],
			"alternatives": strings.Join(values[1:], ", "),
		})
	} else {
		logger.Info("Resolved parameter value", map[string]interface{}{
			"parameter": failure.Parameter,
			"value":     values[0],
		})
	}
	return values, nil
}

// finish flattens the final pages and applies value filters.
func (r *Resolver) finish(pages []map[string]interface{}, req Request, result *CallResult, logger observability.Logger) ([]interface{}, *CallResult, error) {
	resources := response.Flatten(pages, logger)
	if len(req.ValueFilters) > 0 {
		resources = response.Filter(resources, req.ValueFilters, logger)
	}
	logger.Debug("Call resolved", map[string]interface{}{
		"resources": len(resources),
	})
	return resources, result, nil
}

// acceptedParameters keeps only the operator parameters a discovery
// operation actually accepts. Without a schema nothing is forwarded;
// discovery operations rarely need input and forwarding the target call's
// parameters blindly would fail them.
func (r *Resolver) acceptedParameters(service, operation string, params map[string]interface{}) map[string]interface{} {
	if len(params) == 0 {
		return nil
	}
	op := r.schema.OperationSchema(service, operation)
	if op == nil {
		return nil
	}

	accepted := make(map[string]interface{})
	for name, value := range params {
		for _, member := range op.InputParameters {
			if strings.EqualFold(member, name) {
				accepted[member] = value
				break
			}
		}
	}
	if len(accepted) == 0 {
		return nil
	}
	return accepted
}

// parameterValue shapes the extracted values for the retry: list-typed
// parameters get every value, scalar parameters get the first.
func parameterValue(parameter string, values []string) interface{} {
	if naming.ExpectsList(parameter) {
		list := make([]interface{}, 0, len(values))
		for _, v := range values {
			list = append(list, v)
		}
		return list
	}
	return values[0]
}
