package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// jsonResult marshals v as an indented JSON tool result
func jsonResult(v interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// errResult converts an engine error into a tool error result. Engine errors
// already carry their type in the message.
func errResult(action string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", action, err))
}

// parseJSONInto decodes a JSON string parameter into out. An empty string is
// a no-op so optional structured parameters can be omitted.
func parseJSONInto(raw, param string, out interface{}) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("invalid %s JSON: %w", param, err)
	}
	return nil
}
