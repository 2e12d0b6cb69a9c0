package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GetOperationTool defines the get_operation tool schema
var GetOperationTool = mcp.NewTool("get_operation",
	mcp.WithDescription("Gets one sync operation including its phase, hook results and per-resource outcomes."),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("operation_id",
		mcp.Required(),
		mcp.Description("The id of the operation."),
	),
)

// HandleGetOperation returns the get_operation handler bound to eng
func HandleGetOperation(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		opID := request.GetString("operation_id", "")
		if opID == "" {
			return mcp.NewToolResultError("Operation id is required"), nil
		}
		op, err := eng.GetSyncOperation(opID)
		if err != nil {
			return errResult("get operation", err), nil
		}
		return jsonResult(op), nil
	}
}

// ListOperationsTool defines the list_operations tool schema
var ListOperationsTool = mcp.NewTool("list_operations",
	mcp.WithDescription("Lists sync operations, most recent first, optionally restricted to one application."),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("application",
		mcp.Description("Restrict to operations of this application."),
	),
)

// HandleListOperations returns the list_operations handler bound to eng
func HandleListOperations(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ops := eng.ListSyncOperations(request.GetString("application", ""))
		if len(ops) == 0 {
			return mcp.NewToolResultText("No operations found"), nil
		}
		return jsonResult(ops), nil
	}
}
