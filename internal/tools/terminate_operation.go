package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TerminateOperationTool defines the terminate_operation tool schema
var TerminateOperationTool = mcp.NewTool("terminate_operation",
	mcp.WithDescription("Terminates a running sync operation; the application is left degraded and no history entry is committed."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("operation_id",
		mcp.Required(),
		mcp.Description("The id of the running operation to terminate."),
	),
)

// HandleTerminateOperation returns the terminate_operation handler bound to eng
func HandleTerminateOperation(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		opID := request.GetString("operation_id", "")
		if opID == "" {
			return mcp.NewToolResultError("Operation id is required"), nil
		}
		op, err := eng.TerminateOperation(ctx, opID)
		if err != nil {
			return errResult("terminate operation", err), nil
		}
		return jsonResult(op), nil
	}
}
