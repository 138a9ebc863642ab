// Package tools provides MCP tool implementations for oraviz-engine.
package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oraviz-inc/oraviz-engine/pkg/jsonutil"
)

// trimString removes leading and trailing whitespace from a string.
// This is a common helper used across MCP tool parameter validation.
func trimString(s string) string {
	return strings.TrimSpace(s)
}

// getOptionalString extracts an optional string argument from the request.
func getOptionalString(req mcp.CallToolRequest, key string) string {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return ""
	}
	val, ok := args[key].(string)
	if !ok {
		return ""
	}
	return val
}

// getOptionalFloat extracts an optional float argument from the request.
func getOptionalFloat(req mcp.CallToolRequest, key string) (float64, bool) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return 0, false
	}
	val, ok := args[key].(float64)
	return val, ok
}

// getOptionalObject extracts an optional object argument from the request.
func getOptionalObject(req mcp.CallToolRequest, key string) map[string]any {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	val, ok := args[key].(map[string]any)
	if !ok {
		return nil
	}
	return val
}

// getRows extracts the required "data" argument as a slice of row maps.
func getRows(req mcp.CallToolRequest, key string) ([]map[string]any, error) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("missing arguments")
	}
	raw, ok := args[key].([]any)
	if !ok {
		return nil, fmt.Errorf("parameter %q must be an array of row objects", key)
	}
	rows := make([]map[string]any, 0, len(raw))
	for i, r := range raw {
		row, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parameter %q row %d is not an object", key, i)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// stringMap converts a decoded JSON object to a string-to-string map,
// coercing loosely-typed values.
func stringMap(obj map[string]any) map[string]string {
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		if s := jsonutil.FlexibleString(v); s != "" {
			out[k] = s
		}
	}
	return out
}

// newJSONResult marshals v and wraps it in a text tool result.
func newJSONResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
