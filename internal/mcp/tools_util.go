// tools_util.go holds the typed accessors over MCP's generic argument
// map. Extraction is permissive: a missing or mistyped optional parameter
// yields the caller's default rather than an error, because models omit
// optional parameters constantly and a type error is the least useful
// reply a tool can give.

package mcp

import (
	"github.com/jpl-au/patchd/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

func getString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

func getBool(req mcp.CallToolRequest, name string, def bool) bool { //nolint:unparam
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(bool); ok {
		return v
	}
	return def
}

// getInt reads a number parameter. JSON has no integer type; encoding/json
// hands every number over as float64, hence the assert-then-convert.
func getInt(req mcp.CallToolRequest, name string, def int) int { //nolint:unparam
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(float64); ok {
		return int(v)
	}
	return def
}

// getStrings reads a string-array parameter. Non-string elements are
// skipped. Absent parameters return nil, distinct from an empty array.
func getStrings(req mcp.CallToolRequest, name string) []string {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	arr, ok := args[name].([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// jsonResult wraps a value as an indented-JSON text result. Indented
// because models read formatted JSON more reliably than compact, and the
// extra tokens are cheap next to a failed parse. A marshalling failure
// becomes an MCP error result like every other tool failure.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := store.MarshalJSON(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
