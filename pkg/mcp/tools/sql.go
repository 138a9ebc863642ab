package tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/oraviz-inc/oraviz-engine/pkg/apperrors"
	"github.com/oraviz-inc/oraviz-engine/pkg/jsonutil"
	"github.com/oraviz-inc/oraviz-engine/pkg/schema"
	"github.com/oraviz-inc/oraviz-engine/pkg/sqlbuilder"
)

// SQLToolDeps contains dependencies for SQL construction tools.
type SQLToolDeps struct {
	Builder   *sqlbuilder.Builder
	Discovery *schema.Discovery
	Logger    *zap.Logger
}

// RegisterSQLTools registers DDL/DML construction MCP tools.
func RegisterSQLTools(s *server.MCPServer, deps *SQLToolDeps) {
	registerBuildCreateUserTool(s, deps)
	registerBuildCreateTableTool(s, deps)
	registerBuildInsertTool(s, deps)
	registerBuildUpdateTool(s, deps)
}

// sqlErrorResult maps builder failures to structured results. Validation
// failures are actionable by the caller; anything else propagates as a
// protocol error.
func sqlErrorResult(err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, apperrors.ErrProtectedDatabase), errors.Is(err, apperrors.ErrProtectedUser):
		return NewErrorResult("protected_object", err.Error()), nil
	case errors.Is(err, apperrors.ErrInvalidIdentifier), errors.Is(err, apperrors.ErrNameTooLong):
		return NewErrorResult("invalid_identifier", err.Error()), nil
	default:
		return nil, err
	}
}

func registerBuildCreateUserTool(s *server.MCPServer, deps *SQLToolDeps) {
	tool := mcp.NewTool(
		"build_create_user",
		mcp.WithDescription(
			"Build a CREATE USER statement with tablespace quota and optional temp "+
				"tablespace and profile clauses. System usernames are rejected.",
		),
		mcp.WithString(
			"username",
			mcp.Required(),
			mcp.Description("Username to create"),
		),
		mcp.WithString(
			"password",
			mcp.Required(),
			mcp.Description("Password for the new user"),
		),
		mcp.WithString(
			"tablespace",
			mcp.Description("Default tablespace (default USERS)"),
		),
		mcp.WithString(
			"temp_tablespace",
			mcp.Description("Temporary tablespace"),
		),
		mcp.WithString(
			"profile",
			mcp.Description("Profile to assign"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		username, err := req.RequireString("username")
		if err != nil {
			return nil, err
		}
		password, err := req.RequireString("password")
		if err != nil {
			return nil, err
		}

		sql, err := deps.Builder.CreateUser(
			trimString(username),
			password,
			trimString(getOptionalString(req, "tablespace")),
			trimString(getOptionalString(req, "temp_tablespace")),
			trimString(getOptionalString(req, "profile")),
		)
		if err != nil {
			return sqlErrorResult(err)
		}
		return newJSONResult(map[string]any{"sql": sql})
	})
}

func registerBuildCreateTableTool(s *server.MCPServer, deps *SQLToolDeps) {
	tool := mcp.NewTool(
		"build_create_table",
		mcp.WithDescription(
			"Build a CREATE TABLE statement. Columns may be given explicitly or copied "+
				"from an existing table's discovered schema via source_table.",
		),
		mcp.WithString(
			"table",
			mcp.Required(),
			mcp.Description("Table name to create"),
		),
		mcp.WithArray(
			"columns",
			mcp.Description("Column definitions: [{name, type, length?, precision?, scale?, not_null?, default?}]"),
		),
		mcp.WithString(
			"source_table",
			mcp.Description("Existing table whose column layout should be copied"),
		),
		mcp.WithArray(
			"primary_key",
			mcp.Description("Primary key column names"),
		),
		mcp.WithString(
			"tablespace",
			mcp.Description("Tablespace for the new table"),
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

		args, _ := req.Params.Arguments.(map[string]any)

		var defs []sqlbuilder.ColumnDef
		if rawCols, ok := args["columns"].([]any); ok {
			for _, rc := range rawCols {
				obj, ok := rc.(map[string]any)
				if !ok {
					return NewErrorResult("invalid_parameters", "each column definition must be an object"), nil
				}
				def := sqlbuilder.ColumnDef{
					Name:    trimString(str(obj["name"])),
					Type:    trimString(str(obj["type"])),
					Default: str(obj["default"]),
				}
				if v, ok := obj["length"].(float64); ok {
					def.Length = int(v)
				}
				if v, ok := obj["precision"].(float64); ok {
					def.Precision = int(v)
				}
				if v, ok := obj["scale"].(float64); ok {
					def.Scale = int(v)
				}
				if v, ok := obj["not_null"].(bool); ok {
					def.NotNull = v
				}
				defs = append(defs, def)
			}
		}

		if len(defs) == 0 {
			source := trimString(getOptionalString(req, "source_table"))
			if source == "" {
				return NewErrorResult("invalid_parameters", "either 'columns' or 'source_table' must be provided"), nil
			}
			columns := deps.Discovery.GetTableSchema(ctx, source)
			if len(columns) == 0 {
				return NewErrorResult("TABLE_NOT_FOUND",
					"no column metadata available for source table "+source), nil
			}
			defs = sqlbuilder.ColumnDefsFromSchema(columns)
		}

		primaryKey := jsonutil.FlexibleStringSlice(args["primary_key"])

		sql, err := deps.Builder.CreateTable(trimString(table), defs, primaryKey,
			trimString(getOptionalString(req, "tablespace")))
		if err != nil {
			return sqlErrorResult(err)
		}
		return newJSONResult(map[string]any{"sql": sql})
	})
}

func registerBuildInsertTool(s *server.MCPServer, deps *SQLToolDeps) {
	tool := mcp.NewTool(
		"build_insert",
		mcp.WithDescription(
			"Build an INSERT statement for a row of values. Returns both the inlined "+
				"literal form and a bind-parameter form with ordered arguments.",
		),
		mcp.WithString(
			"table",
			mcp.Required(),
			mcp.Description("Target table"),
		),
		mcp.WithObject(
			"row",
			mcp.Required(),
			mcp.Description("Column-to-value map for the new row"),
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
		row := getOptionalObject(req, "row")
		if len(row) == 0 {
			return NewErrorResult("invalid_parameters", "parameter 'row' must be a non-empty object"), nil
		}

		sql, err := deps.Builder.BuildInsert(trimString(table), row)
		if err != nil {
			return sqlErrorResult(err)
		}
		stmt, err := deps.Builder.InsertStatement(trimString(table), row)
		if err != nil {
			return sqlErrorResult(err)
		}
		return newJSONResult(map[string]any{
			"sql":       sql,
			"bind_sql":  stmt.SQL,
			"bind_args": stmt.Args,
		})
	})
}

func registerBuildUpdateTool(s *server.MCPServer, deps *SQLToolDeps) {
	tool := mcp.NewTool(
		"build_update",
		mcp.WithDescription(
			"Build an UPDATE statement for a set of column assignments. A blank WHERE "+
				"clause updates every row and is logged, not blocked.",
		),
		mcp.WithString(
			"table",
			mcp.Required(),
			mcp.Description("Target table"),
		),
		mcp.WithObject(
			"row",
			mcp.Required(),
			mcp.Description("Column-to-value map of assignments"),
		),
		mcp.WithString(
			"where",
			mcp.Description("WHERE clause body"),
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
		row := getOptionalObject(req, "row")
		if len(row) == 0 {
			return NewErrorResult("invalid_parameters", "parameter 'row' must be a non-empty object"), nil
		}

		where := getOptionalString(req, "where")
		sql, err := deps.Builder.BuildUpdate(trimString(table), row, where)
		if err != nil {
			return sqlErrorResult(err)
		}
		stmt, err := deps.Builder.UpdateStatement(trimString(table), row, where)
		if err != nil {
			return sqlErrorResult(err)
		}
		return newJSONResult(map[string]any{
			"sql":       sql,
			"bind_sql":  stmt.SQL,
			"bind_args": stmt.Args,
		})
	})
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
