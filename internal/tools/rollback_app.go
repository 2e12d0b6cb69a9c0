package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RollbackAppTool defines the rollback_application tool schema
var RollbackAppTool = mcp.NewTool("rollback_application",
	mcp.WithDescription("Rolls an application back to its previous deployed revision. Requires at least two history entries."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the application to roll back."),
	),
	mcp.WithString("initiated_by",
		mcp.Description("The identity recorded as the operation initiator (default: manual)."),
	),
)

// HandleRollbackApplication returns the rollback_application handler bound to eng
func HandleRollbackApplication(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Application name is required"), nil
		}
		op, err := eng.Rollback(ctx, name, request.GetString("initiated_by", ""))
		if err != nil {
			return errResult("rollback application", err), nil
		}
		return jsonResult(op), nil
	}
}
