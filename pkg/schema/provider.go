package schema

import (
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/developer-mesh/awsquery/pkg/naming"
	"github.com/developer-mesh/awsquery/pkg/observability"
)

// fieldCacheSize bounds the memoized per-operation response field maps
const fieldCacheSize = 256

// metadataFields are response members that carry pagination or envelope
// bookkeeping rather than data.
var metadataFields = map[string]bool{
	"ResponseMetadata":       true,
	"NextMarker":             true,
	"NextToken":              true,
	"IsTruncated":            true,
	"Marker":                 true,
	"HasMoreDeliveryStreams": true,
	"MaxResults":             true,
}

// maxFlattenDepth bounds shape recursion so self-referential shapes
// (IAM policies, Organizations OUs) terminate.
const maxFlattenDepth = 5

type fieldsEntry struct {
	dataField  string
	simplified map[string]string
	full       map[string]string
}

// Provider caches service schemas for the process lifetime and serves
// introspection queries over them. Load-on-miss is serialized so concurrent
// first access to the same service loads it once; loaded schemas are
// immutable and safe for concurrent readers.
type Provider struct {
	mu       sync.Mutex
	services map[string]*ServiceSchema
	loader   *Loader
	fields   *lru.Cache[string, fieldsEntry]
	logger   observability.Logger
}

// NewProvider creates a schema Provider over the given loader
func NewProvider(loader *Loader, logger observability.Logger) *Provider {
	if logger == nil {
		logger = observability.NewNoopLogger()
	}
	fields, _ := lru.New[string, fieldsEntry](fieldCacheSize)
	return &Provider{
		services: make(map[string]*ServiceSchema),
		loader:   loader,
		fields:   fields,
		logger:   logger,
	}
}

// Service returns the cached schema for a service, loading it on first
// access. A nil return means the schema is unavailable; callers degrade
// gracefully. Failed loads are not cached, so a model installed mid-process
// is picked up on the next call.
func (p *Provider) Service(service string) *ServiceSchema {
	p.mu.Lock()
	defer p.mu.Unlock()

	if schema, ok := p.services[service]; ok {
		return schema
	}

	model, version, err := p.loader.Load(service)
	if err != nil {
		p.logger.Debug("Service model unavailable", map[string]interface{}{
			"service": service,
			"error":   err.Error(),
		})
		return nil
	}

	schema := newServiceSchema(service, version, *model)
	p.services[service] = schema
	return schema
}

// OperationSchema returns the input parameter description for an operation,
// or nil when the schema or operation is unavailable.
func (p *Provider) OperationSchema(service, operation string) *OperationSchema {
	schema := p.Service(service)
	if schema == nil {
		return nil
	}
	return schema.OperationSchema(operation)
}

// HasOperation reports whether the service schema defines the operation.
// False when the schema is unavailable.
func (p *Provider) HasOperation(service, operation string) bool {
	schema := p.Service(service)
	return schema != nil && schema.HasOperation(operation)
}

// Services lists the services with models on the model path
func (p *Provider) Services() []string {
	return p.loader.Services()
}

// ReadOnlyOperations lists the service's Describe/List/Get operations in
// canonical form, sorted. Empty when the schema is unavailable.
func (p *Provider) ReadOnlyOperations(service string) []string {
	schema := p.Service(service)
	if schema == nil {
		return nil
	}

	var ops []string
	for _, name := range schema.OperationNames() {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, "describe") || strings.HasPrefix(lower, "list") || strings.HasPrefix(lower, "get") {
			ops = append(ops, name)
		}
	}
	return ops
}

// CorrectParameterName resolves the exact spelling of a parameter in an
// operation's input shape: exact match first, then case-insensitive, then a
// capitalized-first-letter fallback. When the schema is unavailable the
// capitalized form is returned so the retry can still be attempted.
func (p *Provider) CorrectParameterName(service, operation, parameter string) string {
	op := p.OperationSchema(service, operation)
	if op == nil {
		p.logger.Debug("No operation schema for parameter resolution, capitalizing", map[string]interface{}{
			"service":   service,
			"operation": operation,
			"parameter": parameter,
		})
		return naming.Capitalize(parameter)
	}

	if op.AcceptsParameter(parameter) {
		return parameter
	}
	for _, member := range op.InputParameters {
		if strings.EqualFold(member, parameter) {
			p.logger.Debug("Resolved parameter name case-insensitively", map[string]interface{}{
				"parameter": parameter,
				"resolved":  member,
			})
			return member
		}
	}
	if capitalized := naming.Capitalize(parameter); op.AcceptsParameter(capitalized) {
		return capitalized
	}
	return parameter
}

// ResponseFields returns, for an operation's response shape: the data field
// holding the primary result collection (empty when undeterminable), a map
// of simplified field names to types (what filters match after flattening),
// and the full field path map. Both maps are empty when the schema is
// unavailable.
func (p *Provider) ResponseFields(service, operation string) (string, map[string]string, map[string]string) {
	key := service + ":" + strings.ToLower(naming.ToPascalCase(operation))
	if entry, ok := p.fields.Get(key); ok {
		return entry.dataField, entry.simplified, entry.full
	}

	entry := p.buildResponseFields(service, operation)
	p.fields.Add(key, entry)
	return entry.dataField, entry.simplified, entry.full
}

func (p *Provider) buildResponseFields(service, operation string) fieldsEntry {
	empty := fieldsEntry{simplified: map[string]string{}, full: map[string]string{}}

	schema := p.Service(service)
	if schema == nil {
		return empty
	}
	op := schema.OperationSchema(operation)
	if op == nil || op.outputShape == "" {
		return empty
	}
	output, ok := schema.shape(op.outputShape)
	if !ok {
		return empty
	}

	dataField := identifyDataField(schema, output)
	all := flattenShape(schema, output, "", 0)

	full := all
	if dataField != "" {
		if dataFieldType, ok := all[dataField]; ok {
			// The data field's contents are extracted during response
			// processing, so strip its prefix from the advertised paths.
			adjusted := make(map[string]string, len(all))
			prefix := dataField + "."
			for path, fieldType := range all {
				switch {
				case strings.HasPrefix(path, prefix):
					adjusted[path[len(prefix):]] = fieldType
				case path == dataField:
					switch dataFieldType {
					case "list":
						adjusted["value"] = "list"
					case "map":
						// Map keys are data, not schema; any name matches.
						adjusted["*"] = "map-wildcard"
					default:
						adjusted[dataField] = dataFieldType
					}
				default:
					adjusted[path] = fieldType
				}
			}
			full = adjusted
		}
	}

	simplified := make(map[string]string, len(full))
	for path, fieldType := range full {
		simple := naming.SimplifyKey(path)
		if _, exists := simplified[simple]; !exists {
			simplified[simple] = fieldType
		}
	}

	return fieldsEntry{dataField: dataField, simplified: simplified, full: full}
}

// identifyDataField picks the response member that holds the main result
// collection: excluding known metadata members, the sole list-typed member
// wins, the first of several lists wins, and a single remaining member of
// any type wins. Ambiguous shapes return "" rather than a guess. Member
// sets are unordered JSON, so "first" is over sorted names to keep the
// answer deterministic.
func identifyDataField(schema *ServiceSchema, output shapeModel) string {
	if output.Type != "structure" || len(output.Members) == 0 {
		return ""
	}

	var listFields []string
	var dataFields []string
	for _, name := range sortedMemberNames(output.Members) {
		if metadataFields[name] {
			continue
		}
		dataFields = append(dataFields, name)
		if member, ok := schema.shape(output.Members[name].Shape); ok && member.Type == "list" {
			listFields = append(listFields, name)
		}
	}

	if len(listFields) >= 1 {
		return listFields[0]
	}
	if len(dataFields) == 1 {
		return dataFields[0]
	}
	return ""
}

// flattenShape recurses a structure shape into dot-delimited field paths
// with type names. List members contribute a literal ".0" segment standing
// for "first element"; maps are recorded as single unexpandable entries
// since their keys are data, not schema.
func flattenShape(schema *ServiceSchema, shape shapeModel, prefix string, depth int) map[string]string {
	fields := map[string]string{}
	if depth > maxFlattenDepth {
		return fields
	}
	if shape.Type != "structure" {
		return fields
	}

	for _, memberName := range sortedMemberNames(shape.Members) {
		memberShape, ok := schema.shape(shape.Members[memberName].Shape)
		if !ok {
			continue
		}

		path := memberName
		if prefix != "" {
			path = prefix + "." + memberName
		}
		fields[path] = memberShape.Type

		switch memberShape.Type {
		case "structure":
			for k, v := range flattenShape(schema, memberShape, path, depth+1) {
				fields[k] = v
			}
		case "list":
			if memberShape.Member == nil {
				continue
			}
			element, ok := schema.shape(memberShape.Member.Shape)
			if !ok {
				continue
			}
			if element.Type == "structure" {
				for k, v := range flattenShape(schema, element, path+".0", depth+1) {
					fields[k] = v
				}
			} else {
				fields[path+".0"] = element.Type
			}
		case "map":
			fields[path] = "map"
		}
	}
	return fields
}

func sortedMemberNames(members map[string]shapeRef) []string {
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
