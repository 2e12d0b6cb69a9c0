package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GetAppTool defines the get_application tool schema
var GetAppTool = mcp.NewTool("get_application",
	mcp.WithDescription("Gets one application including sync status, health, deployment history and hooks."),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the application."),
	),
)

// HandleGetApplication returns the get_application handler bound to eng
func HandleGetApplication(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Application name is required"), nil
		}
		app, err := eng.GetApplication(name)
		if err != nil {
			return errResult("get application", err), nil
		}
		return jsonResult(app), nil
	}
}
