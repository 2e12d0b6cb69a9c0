package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SyncAppTool defines the sync_application tool schema
var SyncAppTool = mcp.NewTool("sync_application",
	mcp.WithDescription("Starts a sync operation for an application. Fails if one is already running or a sync window blocks it."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the application to sync."),
	),
	mcp.WithString("initiated_by",
		mcp.Description("The identity recorded as the operation initiator (default: manual)."),
	),
)

// HandleSyncApplication returns the sync_application handler bound to eng
func HandleSyncApplication(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Application name is required"), nil
		}
		op, err := eng.StartSync(ctx, name, request.GetString("initiated_by", ""))
		if err != nil {
			return errResult("sync application", err), nil
		}
		return jsonResult(op), nil
	}
}
