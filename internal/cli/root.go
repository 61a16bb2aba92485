// Package cli implements the awsquery command line interface.
package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/developer-mesh/awsquery/pkg/client"
	"github.com/developer-mesh/awsquery/pkg/columns"
	"github.com/developer-mesh/awsquery/pkg/config"
	"github.com/developer-mesh/awsquery/pkg/observability"
	"github.com/developer-mesh/awsquery/pkg/output"
	"github.com/developer-mesh/awsquery/pkg/query"
	"github.com/developer-mesh/awsquery/pkg/schema"
)

type options struct {
	region  string
	profile string
	limit   int
	hint    string
	params  []string

	jsonOut bool
	keysOut bool
	debug   bool
	dryRun  bool
}

// NewRootCommand creates the root awsquery command
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "awsquery <service> <action> [filters] [-- value-filters] [-- column-filters]",
		Short: "Query AWS APIs with automatic parameter resolution",
		Long: `awsquery runs read-only AWS API operations and resolves missing required
parameters automatically: when a call fails for a missing identifier, the
matching list operation is discovered, its results are narrowed by your
filters, and the call is retried with the extracted value.

Filters are case-insensitive substrings. The first "--" separates value
filters (match anywhere in a result), the second separates column filters
(select output columns, with ^ and $ anchors).

With no arguments the known services are listed; with only a service its
read-only actions are listed.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.region, "region", "", "AWS region")
	flags.StringVar(&opts.profile, "profile", "", "AWS shared config profile")
	flags.IntVarP(&opts.limit, "limit", "l", -1, "max resources kept after filtering during discovery (0 = unlimited)")
	flags.StringVar(&opts.hint, "hint", "", "pin discovery: [service:]operation[:field][:limit], empty segments allowed")
	flags.StringArrayVarP(&opts.params, "param", "p", nil, "operation parameter as name=value (repeatable)")
	flags.BoolVarP(&opts.jsonOut, "json", "j", false, "output JSON instead of a table")
	flags.BoolVarP(&opts.keysOut, "keys", "k", false, "list the available column keys instead of results")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "show the call that would be made and exit")

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.region != "" {
		cfg.AWS.Region = opts.region
	}
	if opts.profile != "" {
		cfg.AWS.Profile = opts.profile
	}
	limit := cfg.Query.DefaultLimit
	if opts.limit >= 0 {
		limit = opts.limit
	}

	logger := newLogger(cfg, opts)
	loader, err := schema.NewLoader(cfg.Schema.ModelPaths, logger)
	if err != nil {
		return err
	}
	provider := schema.NewProvider(loader, logger)

	segments := splitSegments(args, cmd.ArgsLenAtDash())

	if len(segments.base) == 0 {
		return listServices(cmd, provider)
	}
	if len(segments.base) == 1 {
		return listActions(cmd, provider, segments.base[0])
	}

	service, action := segments.base[0], segments.base[1]
	resourceFilters := segments.base[2:]

	params, err := parseParams(opts.params)
	if err != nil {
		return err
	}

	req := query.Request{
		Service:         service,
		Operation:       action,
		Parameters:      params,
		ResourceFilters: resourceFilters,
		ValueFilters:    segments.values,
		Limit:           limit,
	}
	if opts.hint != "" {
		hint, err := parseHint(opts.hint, func(name string) bool {
			for _, svc := range provider.Services() {
				if strings.EqualFold(svc, name) {
					return true
				}
			}
			return false
		})
		if err != nil {
			return err
		}
		if hint.service == "" {
			hint.service = service
		}
		req.HintService = hint.service
		req.HintOperation = hint.operation
		req.HintField = hint.field
		if hint.limit > 0 {
			req.Limit = hint.limit
		}
	}

	if opts.dryRun {
		return printDryRun(cmd, req, segments.columns)
	}

	awsCfg, err := client.LoadConfig(cmd.Context(), client.Options{
		Region:          cfg.AWS.Region,
		Profile:         cfg.AWS.Profile,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		SessionToken:    cfg.AWS.SessionToken,
	})
	if err != nil {
		return fmt.Errorf("loading AWS configuration: %w", err)
	}

	invoker := client.New(awsCfg, provider, logger)
	resolver := query.NewResolver(invoker, provider, logger)

	resources, result, err := resolver.Resolve(cmd.Context(), req)
	if err != nil {
		return err
	}
	logger.Debug("Query finished", map[string]interface{}{
		"correlation_id": result.CorrelationID,
		"resources":      len(resources),
	})

	if opts.keysOut {
		return output.Keys(cmd.OutOrStdout(), resources)
	}

	cols := selectColumns(provider, resources, segments.columns, req, cfg.Output.MaxColumns, opts.jsonOut)
	if opts.jsonOut || cfg.Output.Format == "json" {
		return output.JSON(cmd.OutOrStdout(), resources, cols)
	}
	return output.Table(cmd.OutOrStdout(), resources, cols)
}

func newLogger(cfg *config.Config, opts *options) observability.Logger {
	level := cfg.Logging.Level
	if opts.debug {
		level = "debug"
	}
	return observability.NewStandardLogger("awsquery").WithLevel(observability.ParseLevel(level))
}

// selectColumns resolves explicit column filters, or picks default columns
// from the schema, or from the shape of the data when no model is
// available. JSON output with no filters keeps the full resources.
func selectColumns(provider *schema.Provider, resources []interface{}, filters []string, req query.Request, maxColumns int, jsonOut bool) []string {
	if len(filters) > 0 {
		return output.SelectColumns(resources, filters)
	}
	if jsonOut {
		return nil
	}

	_, _, full := provider.ResponseFields(req.Service, req.Operation)
	if cols := columns.Select(full, maxColumns, req.Operation); cols != nil {
		return cols
	}
	return columns.Select(output.FieldTypes(resources), maxColumns, req.Operation)
}

func listServices(cmd *cobra.Command, provider *schema.Provider) error {
	services := provider.Services()
	if len(services) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No service models found; set schema.model_paths or AWSQUERY_SCHEMA_MODEL_PATHS")
		return nil
	}
	sort.Strings(services)
	for _, service := range services {
		fmt.Fprintln(cmd.OutOrStdout(), service)
	}
	return nil
}

func listActions(cmd *cobra.Command, provider *schema.Provider, service string) error {
	actions := provider.ReadOnlyOperations(service)
	if len(actions) == 0 {
		return fmt.Errorf("no model for service %q; read-only actions cannot be listed", service)
	}
	for _, action := range actions {
		fmt.Fprintln(cmd.OutOrStdout(), action)
	}
	return nil
}

func printDryRun(cmd *cobra.Command, req query.Request, columnFilters []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Would call %s %s\n", req.Service, req.Operation)
	if len(req.Parameters) > 0 {
		keys := make([]string, 0, len(req.Parameters))
		for k := range req.Parameters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  parameter %s=%v\n", k, req.Parameters[k])
		}
	}
	if len(req.ResourceFilters) > 0 {
		fmt.Fprintf(out, "  resource filters: %s\n", strings.Join(req.ResourceFilters, ", "))
	}
	if len(req.ValueFilters) > 0 {
		fmt.Fprintf(out, "  value filters: %s\n", strings.Join(req.ValueFilters, ", "))
	}
	if len(columnFilters) > 0 {
		fmt.Fprintf(out, "  column filters: %s\n", strings.Join(columnFilters, ", "))
	}
	if req.HintOperation != "" {
		fmt.Fprintf(out, "  discovery hint: %s\n", req.HintOperation)
	}
	return nil
}

// segments are the positional argument groups delimited by "--": the base
// call (service, action, resource filters), value filters, column filters.
type segments struct {
	base    []string
	values  []string
	columns []string
}

// splitSegments reassembles the "--"-delimited groups. Flag parsing
// consumes the first "--" and reports its position; a later "--" arrives as
// a literal argument and separates value filters from column filters.
func splitSegments(args []string, lenAtDash int) segments {
	var seg segments
	if lenAtDash < 0 {
		seg.base = args
		return seg
	}

	seg.base = args[:lenAtDash]
	rest := args[lenAtDash:]
	for i, arg := range rest {
		if arg == "--" {
			if i > 0 {
				seg.values = rest[:i]
			}
			if i+1 < len(rest) {
				seg.columns = rest[i+1:]
			}
			return seg
		}
	}
	if len(rest) > 0 {
		seg.values = rest
	}
	return seg
}

// parseParams parses repeated name=value parameter flags
func parseParams(raw []string) (map[string]interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	params := make(map[string]interface{}, len(raw))
	for _, entry := range raw {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected name=value", entry)
		}
		params[name] = value
	}
	return params, nil
}

type hint struct {
	service   string
	operation string
	field     string
	limit     int
}

// discoveryVerbPrefixes mark a hint token as naming an operation rather
// than an extraction field. Discovery operations are read-only by
// construction, so their names start with one of these.
var discoveryVerbPrefixes = []string{"list", "describe", "desc", "get"}

// parseHint parses the discovery hint flag,
// "[service:]operation[:field][:limit]" with empty segments allowed:
//
//	list_clusters            operation
//	ec2:describe-instances   service and operation
//	ec2                      service only (when ec2 is a known service)
//	:InstanceId:3            field and limit for the current service
//	::5                      limit only
//
// A trailing all-numeric segment is always the limit; a token without a
// read-only verb prefix is a field, not an operation.
func parseHint(raw string, isService func(string) bool) (hint, error) {
	parts := strings.Split(raw, ":")
	if len(parts) > 4 {
		return hint{}, fmt.Errorf("invalid hint %q, expected [service:]operation[:field][:limit]", raw)
	}

	var h hint
	last := parts[len(parts)-1]
	if len(parts) > 1 && isNumericToken(last) {
		limit, err := strconv.Atoi(last)
		if err != nil || limit < 0 {
			return hint{}, fmt.Errorf("invalid hint limit %q", last)
		}
		h.limit = limit
		parts = parts[:len(parts)-1]
	}

	if serviceFirst(parts, isService) {
		h.service = parts[0]
		parts = parts[1:]
	}
	switch len(parts) {
	case 0:
	case 1:
		h.operation = parts[0]
	case 2:
		h.operation, h.field = parts[0], parts[1]
	default:
		return hint{}, fmt.Errorf("invalid hint %q, expected [service:]operation[:field][:limit]", raw)
	}

	// A lone non-operation token names the extraction field.
	if h.operation != "" && h.field == "" && !looksLikeOperation(h.operation) {
		h.field, h.operation = h.operation, ""
	}

	if h.service == "" && h.operation == "" && h.field == "" && h.limit == 0 {
		return hint{}, fmt.Errorf("invalid hint %q, nothing to apply", raw)
	}
	return h, nil
}

// serviceFirst reports whether the leading segment names a service. Three
// segments are always service:operation:field; with fewer, an empty or
// known-service segment is the service, and "svc:list-things" is recognized
// by the operation-shaped second segment even when no models are loaded.
func serviceFirst(parts []string, isService func(string) bool) bool {
	switch len(parts) {
	case 0:
		return false
	case 1:
		return isService != nil && isService(parts[0])
	case 2:
		return parts[0] == "" || (isService != nil && isService(parts[0])) || looksLikeOperation(parts[1])
	default:
		return true
	}
}

func looksLikeOperation(token string) bool {
	lower := strings.ToLower(token)
	for _, verb := range discoveryVerbPrefixes {
		if strings.HasPrefix(lower, verb) {
			return true
		}
	}
	return false
}

func isNumericToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
