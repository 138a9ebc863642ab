package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/oraviz-inc/oraviz-engine/pkg/jsonutil"
	"github.com/oraviz-inc/oraviz-engine/pkg/models"
	"github.com/oraviz-inc/oraviz-engine/pkg/schema"
)

// SchemaToolDeps contains dependencies for schema discovery tools.
type SchemaToolDeps struct {
	Discovery *schema.Discovery
	Logger    *zap.Logger
}

// RegisterSchemaTools registers schema discovery MCP tools.
func RegisterSchemaTools(s *server.MCPServer, deps *SchemaToolDeps) {
	registerDiscoverSchemaTool(s, deps)
	registerJoinConditionsTool(s, deps)
	registerBuildSelectTool(s, deps)
	registerClearCacheTool(s, deps)
}

type columnRoles struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	Amount     string `json:"amount,omitempty"`
	Department string `json:"department,omitempty"`
	Email      string `json:"email,omitempty"`
	Manager    string `json:"manager,omitempty"`
}

type discoverSchemaResult struct {
	Table         string                       `json:"table"`
	Columns       []models.ColumnInfo          `json:"columns"`
	Roles         columnRoles                  `json:"roles"`
	WindowColumns models.WindowFunctionColumns `json:"window_columns"`
}

func registerDiscoverSchemaTool(s *server.MCPServer, deps *SchemaToolDeps) {
	tool := mcp.NewTool(
		"discover_schema",
		mcp.WithDescription(
			"Discover a table's column metadata from the Oracle catalog, with inferred "+
				"column roles (id, name, amount, department, email, manager) and suggested "+
				"window-function columns. Results are cached until clear_schema_cache is called.",
		),
		mcp.WithString(
			"table",
			mcp.Required(),
			mcp.Description("Table name to inspect"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		table, err := req.RequireString("table")
		if err != nil {
			return nil, err
		}
		table = trimString(table)
		if table == "" {
			return NewErrorResult("invalid_parameters", "parameter 'table' cannot be empty"), nil
		}

		columns := deps.Discovery.GetTableSchema(ctx, table)
		if len(columns) == 0 {
			return NewErrorResult("TABLE_NOT_FOUND",
				fmt.Sprintf("no column metadata available for table %q", table)), nil
		}

		result := discoverSchemaResult{
			Table:   table,
			Columns: columns,
			Roles: columnRoles{
				ID:         deps.Discovery.FindIDColumn(ctx, table),
				Name:       deps.Discovery.FindNameColumn(ctx, table),
				Amount:     deps.Discovery.FindAmountColumn(ctx, table),
				Department: deps.Discovery.FindDepartmentColumn(ctx, table),
				Email:      deps.Discovery.FindEmailColumn(ctx, table),
				Manager:    deps.Discovery.FindManagerColumn(ctx, table),
			},
			WindowColumns: deps.Discovery.AutoDiscoverWindowColumns(ctx, table),
		}
		return newJSONResult(result)
	})
}

func registerJoinConditionsTool(s *server.MCPServer, deps *SchemaToolDeps) {
	tool := mcp.NewTool(
		"discover_joins",
		mcp.WithDescription(
			"Discover join conditions between consecutive table pairs, preferring foreign-key "+
				"metadata and falling back to common key-column names.",
		),
		mcp.WithArray(
			"tables",
			mcp.Required(),
			mcp.Description("Ordered list of table names; joins are discovered pairwise"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := req.Params.Arguments.(map[string]any)
		rawTables, ok := args["tables"].([]any)
		if !ok || len(rawTables) < 2 {
			return NewErrorResult("invalid_parameters", "parameter 'tables' must list at least two table names"), nil
		}
		tables := make([]string, 0, len(rawTables))
		for _, t := range rawTables {
			name, ok := t.(string)
			if !ok || trimString(name) == "" {
				return NewErrorResult("invalid_parameters", "parameter 'tables' entries must be non-empty strings"), nil
			}
			tables = append(tables, trimString(name))
		}

		conditions := deps.Discovery.AutoDiscoverJoinConditions(ctx, tables)
		return newJSONResult(map[string]any{
			"tables":     tables,
			"conditions": conditions,
		})
	})
}

func registerBuildSelectTool(s *server.MCPServer, deps *SchemaToolDeps) {
	tool := mcp.NewTool(
		"build_select",
		mcp.WithDescription(
			"Build a SELECT statement against a table, filtering the requested columns to "+
				"those that actually exist in the schema. WHERE and ORDER BY clauses are "+
				"included verbatim; suspicious clause content is logged.",
		),
		mcp.WithString(
			"table",
			mcp.Required(),
			mcp.Description("Table to select from"),
		),
		mcp.WithArray(
			"columns",
			mcp.Description("Columns to select; unknown columns are dropped, empty selects *"),
		),
		mcp.WithString(
			"where",
			mcp.Description("Optional WHERE clause body"),
		),
		mcp.WithString(
			"order_by",
			mcp.Description("Optional ORDER BY clause body"),
		),
		mcp.WithNumber(
			"limit",
			mcp.Description("Optional row limit (FETCH FIRST n ROWS ONLY)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		table, err := req.RequireString("table")
		if err != nil {
			return nil, err
		}
		table = trimString(table)
		if table == "" {
			return NewErrorResult("invalid_parameters", "parameter 'table' cannot be empty"), nil
		}

		var columns []string
		if args, ok := req.Params.Arguments.(map[string]any); ok {
			columns = jsonutil.FlexibleStringSlice(args["columns"])
		}

		limit := 0
		if v, ok := getOptionalFloat(req, "limit"); ok {
			limit = int(v)
		}

		sql := deps.Discovery.BuildSafeSelectQuery(ctx, table,
			columns,
			getOptionalString(req, "where"),
			getOptionalString(req, "order_by"),
			limit)
		return newJSONResult(map[string]any{"sql": sql})
	})
}

func registerClearCacheTool(s *server.MCPServer, deps *SchemaToolDeps) {
	tool := mcp.NewTool(
		"clear_schema_cache",
		mcp.WithDescription("Clear the cached table schemas so the next discovery re-reads the catalog"),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deps.Discovery.ClearCache()
		deps.Logger.Info("schema cache cleared")
		return newJSONResult(map[string]any{"cleared": true})
	})
}
