package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RefreshAppTool defines the refresh_application tool schema
var RefreshAppTool = mcp.NewTool("refresh_application",
	mcp.WithDescription("Re-evaluates drift for an application immediately instead of waiting for the next reconciliation tick."),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the application to refresh."),
	),
)

// HandleRefreshApplication returns the refresh_application handler bound to eng
func HandleRefreshApplication(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Application name is required"), nil
		}
		app, err := eng.RefreshApplication(ctx, name)
		if err != nil {
			return errResult("refresh application", err), nil
		}
		return jsonResult(app), nil
	}
}
