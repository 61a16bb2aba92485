package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResources() []interface{} {
	return []interface{}{
		map[string]interface{}{
			"InstanceId": "i-1",
			"State":      map[string]interface{}{"Name": "running"},
			"Tags": []interface{}{
				map[string]interface{}{"Key": "env", "Value": "prod"},
			},
		},
		map[string]interface{}{
			"InstanceId": "i-2",
			"State":      map[string]interface{}{"Name": "stopped"},
		},
	}
}

func TestTableRendersRowsWithHeaders(t *testing.T) {
	var buf bytes.Buffer
	err := Table(&buf, sampleResources(), []string{"InstanceId", "State.Name"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "InstanceId")
	// Headers show the simplified form.
	assert.Contains(t, lines[0], "Name")
	assert.NotContains(t, lines[0], "State.Name")
	assert.Contains(t, lines[1], "i-1")
	assert.Contains(t, lines[1], "running")
	assert.Contains(t, lines[2], "stopped")
}

func TestTableMissingValuesRenderDash(t *testing.T) {
	var buf bytes.Buffer
	err := Table(&buf, sampleResources(), []string{"InstanceId", "Tags.0.Key"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Contains(t, lines[1], "env")
	assert.Contains(t, lines[2], "-")
}

func TestTableNoResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, nil, nil))
	assert.Equal(t, "No results\n", buf.String())
}

func TestJSONFullResources(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleResources(), nil))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "i-1", decoded[0]["InstanceId"])
}

func TestJSONReducedToColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleResources(), []string{"State.Name"}))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "running", decoded[0]["State.Name"])
	assert.NotContains(t, decoded[0], "InstanceId")
}

func TestKeysListsFlattenedKeysSorted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Keys(&buf, sampleResources()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Contains(t, lines, "InstanceId")
	assert.Contains(t, lines, "State.Name")
	assert.Contains(t, lines, "Tags.0.Key")
	assert.IsIncreasing(t, lines)
}

func TestSelectColumnsSubstring(t *testing.T) {
	cols := SelectColumns(sampleResources(), []string{"state"})
	assert.Equal(t, []string{"State.Name"}, cols)
}

func TestSelectColumnsAnchors(t *testing.T) {
	resources := []interface{}{
		map[string]interface{}{
			"Name":        "a",
			"DNSName":     "b",
			"NameServers": "c",
		},
	}

	assert.Equal(t, []string{"Name"}, SelectColumns(resources, []string{"^name$"}))
	assert.ElementsMatch(t, []string{"Name", "NameServers"}, SelectColumns(resources, []string{"^name"}))
	assert.ElementsMatch(t, []string{"Name", "DNSName"}, SelectColumns(resources, []string{"name$"}))
}

func TestSelectColumnsFilterOrderAndDedup(t *testing.T) {
	cols := SelectColumns(sampleResources(), []string{"instanceid", "instance"})
	assert.Equal(t, []string{"InstanceId"}, cols)
}

func TestFieldTypes(t *testing.T) {
	resources := []interface{}{
		map[string]interface{}{
			"Name":    "a",
			"Count":   float64(3),
			"Ratio":   1.5,
			"Enabled": true,
			"Owner":   map[string]interface{}{"DisplayName": "team"},
			"Tags": []interface{}{
				map[string]interface{}{"Key": "env"},
			},
		},
	}

	fields := FieldTypes(resources)
	assert.Equal(t, "string", fields["Name"])
	assert.Equal(t, "integer", fields["Count"])
	assert.Equal(t, "double", fields["Ratio"])
	assert.Equal(t, "boolean", fields["Enabled"])
	assert.Equal(t, "structure", fields["Owner"])
	assert.Equal(t, "list", fields["Tags"])
	assert.Equal(t, "string", fields["Tags.0.Key"])
}
