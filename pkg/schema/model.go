// Package schema loads and caches AWS service model definitions and answers
// introspection questions about them: which operations a service exposes,
// which input parameters an operation requires, and what its response looks
// like field by field. Models are botocore-format service-2.json documents
// loaded from a configurable model path; any load failure degrades to
// "schema unavailable" rather than an error, and every consumer is expected
// to carry on without it.
package schema

import (
	"sort"
	"strings"

	"github.com/developer-mesh/awsquery/pkg/naming"
)

// serviceModel mirrors the subset of a botocore service-2.json document the
// provider needs: operation input/output wiring and the shape graph.
type serviceModel struct {
	Version    string                    `json:"version"`
	Metadata   map[string]interface{}    `json:"metadata"`
	Operations map[string]operationModel `json:"operations"`
	Shapes     map[string]shapeModel     `json:"shapes"`
}

type operationModel struct {
	Name   string    `json:"name"`
	Input  *shapeRef `json:"input"`
	Output *shapeRef `json:"output"`
}

type shapeRef struct {
	Shape string `json:"shape"`
}

type shapeModel struct {
	Type     string              `json:"type"`
	Required []string            `json:"required"`
	Members  map[string]shapeRef `json:"members"`
	Member   *shapeRef           `json:"member"`
	Key      *shapeRef           `json:"key"`
	Value    *shapeRef           `json:"value"`
}

// ServiceSchema holds one service's loaded model. It is immutable after
// load and safe for concurrent readers.
type ServiceSchema struct {
	Service    string
	APIVersion string

	model   serviceModel
	opIndex map[string]string // lowercased operation name -> canonical name
}

// OperationSchema describes one operation's input parameters. Immutable
// once built.
type OperationSchema struct {
	Name               string   // canonical PascalCase operation name
	RequiredParameters []string // member names the input shape marks required
	InputParameters    []string // all input member names, correct case
	outputShape        string
}

func newServiceSchema(service, apiVersion string, model serviceModel) *ServiceSchema {
	index := make(map[string]string, len(model.Operations))
	for name := range model.Operations {
		index[strings.ToLower(name)] = name
	}
	return &ServiceSchema{
		Service:    service,
		APIVersion: apiVersion,
		model:      model,
		opIndex:    index,
	}
}

// OperationNames returns the canonical operation names, sorted
func (s *ServiceSchema) OperationNames() []string {
	names := make([]string, 0, len(s.model.Operations))
	for name := range s.model.Operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveOperation maps an operation name in any convention (kebab-case,
// snake_case, PascalCase) to the canonical model name. Convention conversion
// cannot reconstruct provider-defined acronyms (ListSAMLProviders,
// GetMFADevice), so a case-insensitive lookup backs the converted form.
func (s *ServiceSchema) ResolveOperation(operation string) (string, bool) {
	pascal := naming.ToPascalCase(operation)
	if _, ok := s.model.Operations[pascal]; ok {
		return pascal, true
	}
	if canonical, ok := s.opIndex[strings.ToLower(pascal)]; ok {
		return canonical, true
	}
	return "", false
}

// HasOperation reports whether the service defines the operation, accepting
// any naming convention.
func (s *ServiceSchema) HasOperation(operation string) bool {
	_, ok := s.ResolveOperation(operation)
	return ok
}

// OperationSchema returns the input parameter description for an operation,
// or nil if the operation is unknown.
func (s *ServiceSchema) OperationSchema(operation string) *OperationSchema {
	canonical, ok := s.ResolveOperation(operation)
	if !ok {
		return nil
	}
	op := s.model.Operations[canonical]

	out := &OperationSchema{Name: canonical}
	if op.Output != nil {
		out.outputShape = op.Output.Shape
	}
	if op.Input != nil {
		if input, ok := s.model.Shapes[op.Input.Shape]; ok {
			out.RequiredParameters = append(out.RequiredParameters, input.Required...)
			for member := range input.Members {
				out.InputParameters = append(out.InputParameters, member)
			}
			sort.Strings(out.InputParameters)
		}
	}
	return out
}

// AcceptsParameter reports whether the operation's input shape has a member
// with the given name (exact match).
func (o *OperationSchema) AcceptsParameter(name string) bool {
	for _, member := range o.InputParameters {
		if member == name {
			return true
		}
	}
	return false
}

func (s *ServiceSchema) shape(name string) (shapeModel, bool) {
	shape, ok := s.model.Shapes[name]
	return shape, ok
}
