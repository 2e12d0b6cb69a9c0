package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DeleteAppTool defines the delete_application tool schema
var DeleteAppTool = mcp.NewTool("delete_application",
	mcp.WithDescription("Deletes an application. A running sync operation is cancelled."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the application to delete."),
	),
)

// HandleDeleteApplication returns the delete_application handler bound to eng
func HandleDeleteApplication(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Application name is required"), nil
		}
		if err := eng.DeleteApplication(ctx, name); err != nil {
			return errResult("delete application", err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Application %q deleted", name)), nil
	}
}
