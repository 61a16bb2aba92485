package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"DescribeInstances", "describe_instances"},
		{"HTTPSListener", "https_listener"},
		{"VPCId", "vpc_id"},
		{"describe-instances", "describe_instances"},
		{"describeInstances", "describe_instances"},
		{"already_snake", "already_snake"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ToSnakeCase(tt.input))
		})
	}
}

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"describe_instances", "DescribeInstances"},
		{"describe-instances", "DescribeInstances"},
		{"https_listener", "HttpsListener"},
		{"DescribeInstances", "DescribeInstances"},
		{"ListSAMLProviders", "ListSAMLProviders"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ToPascalCase(tt.input))
		})
	}
}

func TestToKebabCase(t *testing.T) {
	assert.Equal(t, "describe-instances", ToKebabCase("DescribeInstances"))
	assert.Equal(t, "https-listener", ToKebabCase("HTTPSListener"))
	assert.Equal(t, "vpc-id", ToKebabCase("VPCId"))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "ClusterName", Capitalize("clusterName"))
	assert.Equal(t, "StackName", Capitalize("StackName"))
	assert.Equal(t, "", Capitalize(""))
}

func TestSimplifyKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Instances.0.NetworkInterfaces.0.SubnetId", "SubnetId"},
		{"Buckets.0.Name", "Name"},
		{"Owner.DisplayName", "DisplayName"},
		{"ReservationId", "ReservationId"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SimplifyKey(tt.input))
	}
}

func TestIsListElementPath(t *testing.T) {
	assert.True(t, IsListElementPath("Items.0"))
	assert.True(t, IsListElementPath("Tags.0.Key"))
	assert.False(t, IsListElementPath("Endpoint.Address"))
	assert.False(t, IsListElementPath("Status"))
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"policy", "policies"},
		{"instance", "instances"},
		{"address", "addresses"},
		{"cluster", "clusters"},
		{"key", "keys"},
		{"batch", "batches"},
		{"box", "boxes"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Pluralize(tt.input))
		})
	}
}

func TestSingularizeInvertsPluralize(t *testing.T) {
	tests := []struct {
		plural string
		want   string
	}{
		{"Policies", "Policy"},
		{"Addresses", "Address"},
		{"Instances", "Instance"},
		{"Clusters", "Cluster"},
		{"policies", "policy"},
	}

	for _, tt := range tests {
		t.Run(tt.plural, func(t *testing.T) {
			assert.Equal(t, tt.want, Singularize(tt.plural))
		})
	}
}

func TestExpectsList(t *testing.T) {
	assert.True(t, ExpectsList("InstanceIds"))
	assert.True(t, ExpectsList("ClusterNames"))
	assert.True(t, ExpectsList("RoleArns"))
	assert.False(t, ExpectsList("ClusterName"))
	assert.False(t, ExpectsList("StackId"))
}
