package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GetMetricsTool defines the get_metrics tool schema
var GetMetricsTool = mcp.NewTool("get_metrics",
	mcp.WithDescription("Returns an aggregate snapshot: application counts by state, sync totals, durations and per-application breakdowns."),
	mcp.WithDestructiveHintAnnotation(false),
)

// HandleGetMetrics returns the get_metrics handler bound to eng
func HandleGetMetrics(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(eng.GetMetrics()), nil
	}
}
