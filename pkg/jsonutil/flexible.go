// Package jsonutil coerces loosely-typed JSON values into the types tool
// parameters expect. MCP clients (and the models driving them) routinely send
// numbers or booleans where a string is declared.
package jsonutil

import (
	"fmt"
	"strconv"
)

// FlexibleString converts a decoded JSON value to a string. Numbers render
// without a trailing ".0" when integral; null yields the empty string.
func FlexibleString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// FlexibleBool converts a decoded JSON value to a bool. Accepts real
// booleans, the strings "true"/"false"/"1"/"0", and numbers (nonzero is
// true). Anything else yields defaultVal.
func FlexibleBool(v any, defaultVal bool) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	case float64:
		return val != 0
	}
	return defaultVal
}

// FlexibleStringSlice converts a decoded JSON array to a string slice,
// coercing each element. Non-array input yields nil.
func FlexibleStringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s := FlexibleString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
