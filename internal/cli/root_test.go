package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSegments(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		lenAtDash int
		base      []string
		values    []string
		columns   []string
	}{
		{
			name:      "base only",
			args:      []string{"eks", "describe-cluster", "prod"},
			lenAtDash: -1,
			base:      []string{"eks", "describe-cluster", "prod"},
		},
		{
			name:      "value filters",
			args:      []string{"ec2", "describe-instances", "running"},
			lenAtDash: 2,
			base:      []string{"ec2", "describe-instances"},
			values:    []string{"running"},
		},
		{
			name:      "all three segments",
			args:      []string{"ec2", "describe-instances", "prod", "running", "--", "instanceid", "state"},
			lenAtDash: 3,
			base:      []string{"ec2", "describe-instances", "prod"},
			values:    []string{"running"},
			columns:   []string{"instanceid", "state"},
		},
		{
			name:      "empty value segment",
			args:      []string{"ec2", "describe-instances", "--", "name"},
			lenAtDash: 2,
			base:      []string{"ec2", "describe-instances"},
			columns:   []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := splitSegments(tt.args, tt.lenAtDash)
			assert.Equal(t, tt.base, seg.base)
			assert.Equal(t, tt.values, seg.values)
			assert.Equal(t, tt.columns, seg.columns)
		})
	}
}

func TestParseHint(t *testing.T) {
	isService := func(name string) bool { return name == "ec2" || name == "elbv2" }

	tests := []struct {
		raw  string
		want hint
	}{
		{"list_clusters", hint{operation: "list_clusters"}},
		{"elbv2:describe_target_groups", hint{service: "elbv2", operation: "describe_target_groups"}},
		{"elbv2:describe_target_groups:TargetGroupArn:5", hint{service: "elbv2", operation: "describe_target_groups", field: "TargetGroupArn", limit: 5}},
		// Service alone pins discovery to that service.
		{"ec2", hint{service: "ec2"}},
		// Empty field segment before the limit.
		{"ec2:describe-instances::10", hint{service: "ec2", operation: "describe-instances", limit: 10}},
		// Empty service keeps the current one; a bare non-verb token is a field.
		{":InstanceId:3", hint{field: "InstanceId", limit: 3}},
		{"ec2::InstanceId:5", hint{service: "ec2", field: "InstanceId", limit: 5}},
		// Limit only.
		{"::5", hint{limit: 5}},
		// No service prefix, operation plus field.
		{"describe-instances:InstanceId", hint{operation: "describe-instances", field: "InstanceId"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			h, err := parseHint(tt.raw, isService)
			require.NoError(t, err)
			assert.Equal(t, tt.want, h)
		})
	}
}

func TestParseHintInvalid(t *testing.T) {
	for _, raw := range []string{"a:b:c:notanumber", "a:b:c:1:extra", ":", ""} {
		_, err := parseHint(raw, nil)
		assert.Error(t, err, raw)
	}
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"maxResults=10", "name=prod-cluster"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"maxResults": "10",
		"name":       "prod-cluster",
	}, params)

	_, err = parseParams([]string{"noequals"})
	assert.Error(t, err)
}

func TestRootCommandParsesFlags(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--dry-run", "eks", "describe-cluster", "prod"})
	// Args survive flag parsing unchanged.
	require.NoError(t, cmd.ParseFlags([]string{"--dry-run", "--limit", "3"}))
	limit, err := cmd.Flags().GetInt("limit")
	require.NoError(t, err)
	assert.Equal(t, 3, limit)
	dryRun, err := cmd.Flags().GetBool("dry-run")
	require.NoError(t, err)
	assert.True(t, dryRun)
}
