package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/oraviz-inc/oraviz-engine/pkg/mcp/tools"
	"github.com/oraviz-inc/oraviz-engine/pkg/schema"
	"github.com/oraviz-inc/oraviz-engine/pkg/sqlbuilder"
	"github.com/oraviz-inc/oraviz-engine/pkg/viz"
)

func TestRegisterToolGroups(t *testing.T) {
	s := NewServer("test", "1.2.3", nil)
	s.RegisterToolGroups(ToolDeps{
		Schema: &tools.SchemaToolDeps{Discovery: schema.NewDiscovery(nil, nil)},
		SQL:    &tools.SQLToolDeps{Builder: sqlbuilder.NewBuilder(nil), Discovery: schema.NewDiscovery(nil, nil)},
		Chart:  &tools.ChartToolDeps{Compiler: viz.NewCompiler(viz.DefaultOptions(), nil)},
	})

	result := s.MCP().HandleMessage(context.Background(),
		[]byte(`{"jsonrpc":"2.0","method":"tools/list","id":1}`))
	resultBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var response struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(resultBytes, &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	names := make(map[string]bool)
	for _, tool := range response.Result.Tools {
		names[tool.Name] = true
	}

	for _, want := range []string{"health", "discover_schema", "build_insert", "generate_chart"} {
		if !names[want] {
			t.Errorf("expected tool %q to be registered", want)
		}
	}
}
