// Package columns picks a small default set of display columns for a
// resource list when the operator supplies no column filters. Selection is
// schema-driven: it scores the flattened response fields by importance and
// keeps the top few, so `awsquery rds describe-db-instances` leads with the
// instance identifier and status instead of an alphabetical field dump.
package columns

import (
	"sort"
	"strings"

	"github.com/developer-mesh/awsquery/pkg/naming"
)

// scalarTypes are the field types eligible for display columns
var scalarTypes = map[string]bool{
	"string": true, "boolean": true, "integer": true,
	"timestamp": true, "long": true, "float": true, "double": true,
}

// wellKnownNestedScalars are structure members common enough to expand into
// their useful scalar children when the parent is a structure.
var wellKnownNestedScalars = map[string]map[string]string{
	"Endpoint": {"Address": "string", "Port": "integer"},
	"State":    {"Name": "string", "Code": "string"},
	"Status":   {"Code": "string", "Message": "string"},
}

var typeExactNames = []string{
	"DBInstanceClass", "Engine", "EngineVersion", "InstanceType",
	"NodeType", "Runtime", "Type", "Version",
}

var networkExactNames = []string{
	"Address", "AvailabilityZone", "DNSName", "Endpoint", "Port",
	"ReaderEndpoint", "SubnetId", "VpcId",
}

var timestampExactNames = []string{
	"CreationTime", "CreateTime", "CreatedTime", "CreateDate", "CreatedAt",
	"createdAt", "LaunchTime", "StartTime", "ClusterCreateTime",
	"SnapshotCreateTime",
}

var booleanExactNames = []string{
	"DeletionProtection", "Enabled", "Encrypted", "IsDefault", "MultiAZ",
	"PubliclyAccessible", "StorageEncrypted",
}

var domainAllowlist = map[string]bool{
	"AllocatedStorage": true, "BackupRetentionPeriod": true,
	"DatabaseName": true, "Description": true, "MasterUsername": true,
	"OwnerAccount": true, "PreferredBackupWindow": true, "StorageType": true,
}

// DefaultMaxColumns is the default display column budget
const DefaultMaxColumns = 6

// Select scores the eligible scalar fields of a response and returns the
// most informative ones, at most maxColumns, most important first. The
// operation name, when given, identifies the resource type so the
// resource's own identifier outranks references to other resources. A nil
// return means no field was eligible and the caller should fall back to
// showing everything.
func Select(fields map[string]string, maxColumns int, operation string) []string {
	if maxColumns <= 0 {
		maxColumns = DefaultMaxColumns
	}

	expanded := expandWellKnownScalars(fields)

	var eligible []string
	for field, fieldType := range expanded {
		if scalarTypes[fieldType] && !naming.IsListElementPath(field) {
			eligible = append(eligible, field)
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	sort.Slice(eligible, func(i, j int) bool {
		return pathLess(eligible[i], eligible[j])
	})

	resourceType := resourceTypeFromOperation(operation)
	primary := primaryIdentifier(eligible, resourceType)

	type scored struct {
		field string
		score int
	}
	ranked := make([]scored, 0, len(eligible))
	for _, field := range eligible {
		ranked = append(ranked, scored{field, scoreField(field, resourceType, primary)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score < ranked[j].score
		}
		return ranked[i].field < ranked[j].field
	})

	n := maxColumns
	if n > len(ranked) {
		n = len(ranked)
	}
	selected := make([]string, 0, n)
	for _, entry := range ranked[:n] {
		selected = append(selected, entry.field)
	}
	return selected
}

// expandWellKnownScalars adds the known scalar children of well-known
// structure fields. A parent that is already scalar is used directly, never
// duplicated.
func expandWellKnownScalars(fields map[string]string) map[string]string {
	result := make(map[string]string, len(fields))
	for k, v := range fields {
		result[k] = v
	}

	for parent, children := range wellKnownNestedScalars {
		parentType, ok := fields[parent]
		if !ok || scalarTypes[parentType] {
			continue
		}
		for child, childType := range children {
			path := parent + "." + child
			if _, exists := result[path]; !exists {
				result[path] = childType
			}
		}
	}
	return result
}

// resourceTypeFromOperation derives the resource type from an operation
// name: "describe_db_instances" -> "DbInstance".
func resourceTypeFromOperation(operation string) string {
	if operation == "" {
		return ""
	}
	parts := strings.Split(strings.ReplaceAll(naming.ToSnakeCase(operation), "-", "_"), "_")
	if len(parts) < 2 {
		return ""
	}

	var b strings.Builder
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	resourceType := b.String()
	if strings.HasSuffix(resourceType, "s") && !strings.HasSuffix(resourceType, "ss") {
		resourceType = resourceType[:len(resourceType)-1]
	}
	return resourceType
}

// primaryIdentifier picks the one field that names this resource's own
// identifier: an Identifier/Id/Name-suffixed field containing the resource
// type. Only one field gets the primary slot; other identifier-ish fields
// fall through to their generic tiers so a resource's references to
// neighbours don't crowd out status and type columns.
func primaryIdentifier(eligible []string, resourceType string) string {
	if resourceType == "" {
		return ""
	}
	needle := strings.ToLower(resourceType)
	for _, field := range eligible {
		base := naming.BaseName(field)
		if !strings.Contains(strings.ToLower(base), needle) {
			continue
		}
		if strings.HasSuffix(base, "Identifier") || strings.HasSuffix(base, "Id") || strings.HasSuffix(base, "Name") {
			return field
		}
	}
	return ""
}

// scoreField assigns the importance score, lower being more important. The
// depth penalty dominates so top-level fields always beat nested ones.
func scoreField(field, resourceType, primary string) int {
	base := naming.BaseName(field)
	score := naming.PathDepth(field) * 100

	if field == primary {
		return score + 1
	}

	if strings.HasSuffix(base, "Identifier") {
		// An identifier that didn't win the primary slot references some
		// other resource.
		return score + 50
	}

	if base == "Status" || base == "State" {
		return score + 5
	}
	if strings.HasSuffix(base, "Status") || strings.HasSuffix(base, "State") {
		if resourceType != "" && strings.Contains(strings.ToLower(base), strings.ToLower(resourceType)) {
			return score + 5
		}
		return score + 15
	}

	switch base {
	case "Engine", "EngineVersion", "Type", "Version", "Runtime":
		return score + 10
	}
	if containsExact(typeExactNames, base) {
		return score + 11
	}
	if strings.HasSuffix(base, "Family") || strings.HasSuffix(base, "Group") {
		return score + 12
	}
	if strings.HasPrefix(base, "Major") && strings.Contains(base, "Version") {
		return score + 13
	}

	if containsExact(networkExactNames, base) {
		return score + 20
	}

	if strings.HasSuffix(base, "Id") {
		return score + 40
	}
	if strings.HasSuffix(base, "Name") {
		return score + 41
	}
	if strings.HasSuffix(base, "Arn") || strings.HasSuffix(base, "ARN") {
		return score + 50
	}

	if containsExact(booleanExactNames, base) {
		return score + 60
	}
	if strings.HasPrefix(base, "Supports") {
		return score + 62
	}

	if domainAllowlist[base] {
		return score + 70
	}

	// Timestamps rank low on purpose; they are often empty.
	if containsExact(timestampExactNames, base) {
		return score + 75
	}

	if strings.Contains(base, "Description") {
		return score + 80
	}

	return score + 1000
}

func containsExact(names []string, base string) bool {
	for _, name := range names {
		if name == base {
			return true
		}
	}
	return false
}

func pathLess(a, b string) bool {
	da, db := naming.PathDepth(a), naming.PathDepth(b)
	if da != db {
		return da < db
	}
	return a < b
}
