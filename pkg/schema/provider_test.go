package schema

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/developer-mesh/awsquery/pkg/observability"
)

func testProvider(t *testing.T) *Provider {
	t.Helper()
	loader, err := NewLoader([]string{filepath.Join("testdata", "models")}, observability.NewNoopLogger())
	require.NoError(t, err)
	return NewProvider(loader, observability.NewNoopLogger())
}

func TestLoaderServices(t *testing.T) {
	loader, err := NewLoader([]string{filepath.Join("testdata", "models")}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"eks", "iam"}, loader.Services())
}

func TestLoaderPicksLatestVersion(t *testing.T) {
	dir := t.TempDir()
	model := `{"version":"2.0","metadata":{},"operations":{"GetWidget":{"name":"GetWidget"}},"shapes":{}}`
	for _, version := range []string{"2015-01-01", "2020-06-15"} {
		versionDir := filepath.Join(dir, "widgets", version)
		require.NoError(t, os.MkdirAll(versionDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(versionDir, modelFileName), []byte(model), 0o644))
	}

	loader, err := NewLoader([]string{dir}, nil)
	require.NoError(t, err)
	_, version, err := loader.Load("widgets")
	require.NoError(t, err)
	assert.Equal(t, "2020-06-15", version)
}

func TestLoaderRejectsMalformedModel(t *testing.T) {
	dir := t.TempDir()
	versionDir := filepath.Join(dir, "broken", "2020-01-01")
	require.NoError(t, os.MkdirAll(versionDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(versionDir, modelFileName), []byte(`{"operations":{}}`), 0o644))

	loader, err := NewLoader([]string{dir}, nil)
	require.NoError(t, err)
	_, _, err = loader.Load("broken")
	assert.Error(t, err)
}

func TestProviderUnknownServiceDegrades(t *testing.T) {
	p := testProvider(t)

	assert.Nil(t, p.Service("nosuchservice"))
	assert.False(t, p.HasOperation("nosuchservice", "describe-things"))

	dataField, simplified, full := p.ResponseFields("nosuchservice", "describe-things")
	assert.Empty(t, dataField)
	assert.Empty(t, simplified)
	assert.Empty(t, full)

	// Parameter resolution still produces a usable retry spelling.
	assert.Equal(t, "ClusterName", p.CorrectParameterName("nosuchservice", "describe-cluster", "clusterName"))
}

func TestResolveOperationConventions(t *testing.T) {
	p := testProvider(t)
	schema := p.Service("eks")
	require.NotNil(t, schema)

	for _, input := range []string{"DescribeCluster", "describe-cluster", "describe_cluster"} {
		canonical, ok := schema.ResolveOperation(input)
		require.True(t, ok, input)
		assert.Equal(t, "DescribeCluster", canonical)
	}
}

func TestResolveOperationAcronyms(t *testing.T) {
	p := testProvider(t)
	schema := p.Service("iam")
	require.NotNil(t, schema)

	// Convention conversion yields "ListSamlProviders"; only the
	// case-insensitive fallback can find the provider-defined spelling.
	canonical, ok := schema.ResolveOperation("list-saml-providers")
	require.True(t, ok)
	assert.Equal(t, "ListSAMLProviders", canonical)

	canonical, ok = schema.ResolveOperation("get_saml_provider")
	require.True(t, ok)
	assert.Equal(t, "GetSAMLProvider", canonical)
}

func TestOperationSchema(t *testing.T) {
	p := testProvider(t)

	op := p.OperationSchema("eks", "describe-cluster")
	require.NotNil(t, op)
	assert.Equal(t, "DescribeCluster", op.Name)
	assert.Equal(t, []string{"name"}, op.RequiredParameters)
	assert.Equal(t, []string{"name"}, op.InputParameters)

	op = p.OperationSchema("eks", "list-nodegroups")
	require.NotNil(t, op)
	assert.Equal(t, []string{"clusterName"}, op.RequiredParameters)
	assert.True(t, op.AcceptsParameter("maxResults"))
	assert.False(t, op.AcceptsParameter("MaxResults"))

	assert.Nil(t, p.OperationSchema("eks", "delete-everything"))
}

func TestCorrectParameterName(t *testing.T) {
	p := testProvider(t)

	// Exact match wins.
	assert.Equal(t, "name", p.CorrectParameterName("eks", "describe-cluster", "name"))
	// Case-insensitive match recovers the model's casing.
	assert.Equal(t, "name", p.CorrectParameterName("eks", "describe-cluster", "Name"))
	assert.Equal(t, "SAMLProviderArn", p.CorrectParameterName("iam", "get-saml-provider", "samlproviderarn"))
	// No match falls through to the original spelling.
	assert.Equal(t, "bogus", p.CorrectParameterName("eks", "describe-cluster", "bogus"))
}

func TestResponseFieldsListData(t *testing.T) {
	p := testProvider(t)

	dataField, simplified, full := p.ResponseFields("iam", "list-roles")
	assert.Equal(t, "Roles", dataField)

	// Data-field paths are advertised relative to the extracted list.
	assert.Equal(t, "string", full["0.RoleName"])
	assert.Equal(t, "string", full["0.RoleId"])
	// Metadata members keep their absolute paths.
	assert.Equal(t, "boolean", full["IsTruncated"])

	assert.Equal(t, "string", simplified["RoleName"])
	assert.Equal(t, "string", simplified["Arn"])
}

func TestResponseFieldsPrimitiveList(t *testing.T) {
	p := testProvider(t)

	dataField, _, full := p.ResponseFields("eks", "list-clusters")
	assert.Equal(t, "clusters", dataField)
	// A list of primitives is returned as bare values.
	assert.Equal(t, "list", full["value"])
}

func TestResponseFieldsSingleStructure(t *testing.T) {
	p := testProvider(t)

	dataField, simplified, full := p.ResponseFields("eks", "describe-cluster")
	assert.Equal(t, "cluster", dataField)
	assert.Equal(t, "string", full["name"])
	assert.Equal(t, "string", full["resourcesVpcConfig.vpcId"])
	assert.Equal(t, "map", full["tags"])
	assert.Equal(t, "string", simplified["vpcId"])
}

func TestResponseFieldsMemoized(t *testing.T) {
	p := testProvider(t)

	_, first, _ := p.ResponseFields("iam", "list-roles")
	_, second, _ := p.ResponseFields("iam", "ListRoles")
	assert.Equal(t, first, second)
}

func TestIdentifyDataFieldAmbiguous(t *testing.T) {
	model := serviceModel{
		Operations: map[string]operationModel{},
		Shapes: map[string]shapeModel{
			"Output": {
				Type: "structure",
				Members: map[string]shapeRef{
					"NextToken": {Shape: "String"},
					"MaxResults": {Shape: "Integer"},
				},
			},
			"String":  {Type: "string"},
			"Integer": {Type: "integer"},
		},
	}
	schema := newServiceSchema("fake", "2020-01-01", model)

	shape, ok := schema.shape("Output")
	require.True(t, ok)
	// Nothing but metadata: no confident answer.
	assert.Equal(t, "", identifyDataField(schema, shape))
}

func TestFlattenShapeNestedLists(t *testing.T) {
	model := serviceModel{
		Operations: map[string]operationModel{},
		Shapes: map[string]shapeModel{
			"Output": {
				Type: "structure",
				Members: map[string]shapeRef{
					"Items":     {Shape: "ItemList"},
					"NextToken": {Shape: "String"},
				},
			},
			"ItemList": {Type: "list", Member: &shapeRef{Shape: "Item"}},
			"Item": {
				Type: "structure",
				Members: map[string]shapeRef{
					"Id":   {Shape: "String"},
					"Name": {Shape: "String"},
					"Tags": {Shape: "TagList"},
				},
			},
			"TagList": {Type: "list", Member: &shapeRef{Shape: "Tag"}},
			"Tag": {
				Type: "structure",
				Members: map[string]shapeRef{
					"Key":   {Shape: "String"},
					"Value": {Shape: "String"},
				},
			},
			"String": {Type: "string"},
		},
	}
	schema := newServiceSchema("fake", "2020-01-01", model)
	shape, ok := schema.shape("Output")
	require.True(t, ok)

	assert.Equal(t, "Items", identifyDataField(schema, shape))

	fields := flattenShape(schema, shape, "", 0)
	assert.Equal(t, "list", fields["Items"])
	assert.Equal(t, "string", fields["Items.0.Id"])
	assert.Equal(t, "string", fields["Items.0.Name"])
	assert.Equal(t, "list", fields["Items.0.Tags"])
	assert.Equal(t, "string", fields["Items.0.Tags.0.Key"])
	assert.Equal(t, "string", fields["Items.0.Tags.0.Value"])
	assert.Equal(t, "string", fields["NextToken"])
}

func TestFlattenShapeRecursionBounded(t *testing.T) {
	model := serviceModel{
		Operations: map[string]operationModel{},
		Shapes: map[string]shapeModel{
			// A shape that contains itself, as IAM policy documents do.
			"Node": {
				Type: "structure",
				Members: map[string]shapeRef{
					"Child": {Shape: "Node"},
					"Name":  {Shape: "String"},
				},
			},
			"String": {Type: "string"},
		},
	}
	schema := newServiceSchema("fake", "2020-01-01", model)
	shape, ok := schema.shape("Node")
	require.True(t, ok)

	fields := flattenShape(schema, shape, "", 0)
	for path := range fields {
		assert.LessOrEqual(t, len(pathSegments(path)), maxFlattenDepth+2, path)
	}
	assert.NotEmpty(t, fields)
}

func pathSegments(path string) []string {
	var segments []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '.' {
			segments = append(segments, path[start:i])
			start = i + 1
		}
	}
	return segments
}

func TestProviderConcurrentFirstAccess(t *testing.T) {
	p := testProvider(t)

	var wg sync.WaitGroup
	schemas := make([]*ServiceSchema, 8)
	for i := range schemas {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			schemas[i] = p.Service("eks")
		}(i)
	}
	wg.Wait()

	require.NotNil(t, schemas[0])
	for _, schema := range schemas[1:] {
		assert.Same(t, schemas[0], schema)
	}
}
