package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/oraviz-inc/oraviz-engine/pkg/models"
	"github.com/oraviz-inc/oraviz-engine/pkg/schema"
)

// fakeCatalog serves fixed metadata for EMPLOYEES and DEPARTMENTS.
type fakeCatalog struct{}

func (f *fakeCatalog) Columns(ctx context.Context, table string) ([]models.ColumnInfo, error) {
	switch strings.ToUpper(table) {
	case "EMPLOYEES":
		return []models.ColumnInfo{
			{Name: "EMPLOYEE_ID", DataType: "NUMBER", Nullable: false, Position: 1},
			{Name: "NAME", DataType: "VARCHAR2", Length: 100, Nullable: false, Position: 2},
			{Name: "SALARY", DataType: "NUMBER", Nullable: true, Position: 3},
			{Name: "DEPT_ID", DataType: "NUMBER", Nullable: true, Position: 4},
			{Name: "HIRE_DATE", DataType: "DATE", Nullable: true, Position: 5},
		}, nil
	case "DEPARTMENTS":
		return []models.ColumnInfo{
			{Name: "DEPT_ID", DataType: "NUMBER", Nullable: false, Position: 1},
			{Name: "DEPT_NAME", DataType: "VARCHAR2", Length: 50, Nullable: false, Position: 2},
		}, nil
	}
	return nil, nil
}

func (f *fakeCatalog) PrimaryKey(ctx context.Context, table string) ([]string, error) {
	if strings.ToUpper(table) == "EMPLOYEES" {
		return []string{"EMPLOYEE_ID"}, nil
	}
	return nil, nil
}

func (f *fakeCatalog) ForeignKeys(ctx context.Context, table1, table2 string) ([]models.ForeignKeyPair, error) {
	return []models.ForeignKeyPair{{SourceColumn: "DEPT_ID", TargetColumn: "DEPT_ID"}}, nil
}

func (f *fakeCatalog) Close() error { return nil }

func schemaTestServer() *server.MCPServer {
	s := newTestServer()
	RegisterSchemaTools(s, &SchemaToolDeps{
		Discovery: schema.NewDiscovery(&fakeCatalog{}, zap.NewNop()),
		Logger:    zap.NewNop(),
	})
	return s
}

func TestSchemaTools_Registered(t *testing.T) {
	names := listToolNames(t, schemaTestServer())
	for _, want := range []string{"discover_schema", "discover_joins", "build_select", "clear_schema_cache"} {
		if !names[want] {
			t.Errorf("tool %s not registered", want)
		}
	}
}

func TestDiscoverSchemaTool(t *testing.T) {
	s := schemaTestServer()

	payload, isError := callTool(t, s, "discover_schema", map[string]any{
		"table": "EMPLOYEES",
	})
	if isError {
		t.Fatalf("expected success, got error payload: %v", payload)
	}

	columns, ok := payload["columns"].([]any)
	if !ok || len(columns) != 5 {
		t.Fatalf("expected 5 columns, got %v", payload["columns"])
	}

	roles := payload["roles"].(map[string]any)
	if roles["id"] != "EMPLOYEE_ID" {
		t.Errorf("expected id role EMPLOYEE_ID, got %v", roles["id"])
	}
	if roles["amount"] != "SALARY" {
		t.Errorf("expected amount role SALARY, got %v", roles["amount"])
	}
	if roles["department"] != "DEPT_ID" {
		t.Errorf("expected department role DEPT_ID, got %v", roles["department"])
	}
}

func TestDiscoverSchemaTool_UnknownTable(t *testing.T) {
	s := schemaTestServer()

	payload, isError := callTool(t, s, "discover_schema", map[string]any{
		"table": "NO_SUCH_TABLE",
	})
	if !isError {
		t.Fatal("expected error result")
	}
	if payload["code"] != "TABLE_NOT_FOUND" {
		t.Errorf("expected TABLE_NOT_FOUND code, got %v", payload["code"])
	}
}

func TestDiscoverJoinsTool(t *testing.T) {
	s := schemaTestServer()

	payload, isError := callTool(t, s, "discover_joins", map[string]any{
		"tables": []any{"EMPLOYEES", "DEPARTMENTS"},
	})
	if isError {
		t.Fatalf("expected success, got error payload: %v", payload)
	}

	conditions, ok := payload["conditions"].([]any)
	if !ok || len(conditions) != 1 {
		t.Fatalf("expected 1 join condition, got %v", payload["conditions"])
	}
	if conditions[0] != "e.DEPT_ID = d.DEPT_ID" {
		t.Errorf("unexpected join condition: %v", conditions[0])
	}

	_, isError = callTool(t, s, "discover_joins", map[string]any{
		"tables": []any{"EMPLOYEES"},
	})
	if !isError {
		t.Error("expected error for single-table input")
	}
}

func TestBuildSelectTool(t *testing.T) {
	s := schemaTestServer()

	payload, isError := callTool(t, s, "build_select", map[string]any{
		"table":    "EMPLOYEES",
		"columns":  []any{"NAME", "SALARY", "BOGUS"},
		"order_by": "SALARY DESC",
		"limit":    10,
	})
	if isError {
		t.Fatalf("expected success, got error payload: %v", payload)
	}

	sql, _ := payload["sql"].(string)
	if !strings.Contains(sql, "SELECT NAME, SALARY FROM EMPLOYEES") {
		t.Errorf("unexpected select list: %s", sql)
	}
	if !strings.Contains(sql, "ORDER BY SALARY DESC") {
		t.Errorf("expected order by clause: %s", sql)
	}
	if !strings.Contains(sql, "FETCH FIRST 10 ROWS ONLY") {
		t.Errorf("expected fetch clause: %s", sql)
	}
}

func TestClearCacheTool(t *testing.T) {
	s := schemaTestServer()

	payload, isError := callTool(t, s, "clear_schema_cache", nil)
	if isError {
		t.Fatal("expected success")
	}
	if payload["cleared"] != true {
		t.Errorf("expected cleared=true, got %v", payload["cleared"])
	}
}
