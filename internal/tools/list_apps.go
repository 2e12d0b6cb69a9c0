package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/engine"
)

// ListAppsTool defines the list_applications tool schema
var ListAppsTool = mcp.NewTool("list_applications",
	mcp.WithDescription("Lists applications with optional project, sync status and health filters."),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("project",
		mcp.Description("Filter applications by project name."),
	),
	mcp.WithString("status",
		mcp.Description("Filter by sync status (synced, outofsync, progressing, degraded)."),
	),
	mcp.WithString("health",
		mcp.Description("Filter by health (healthy, degraded, progressing, suspended, missing, unknown)."),
	),
)

// HandleListApplications returns the list_applications handler bound to eng
func HandleListApplications(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filter := engine.ApplicationFilter{
			Project: request.GetString("project", ""),
			Status:  gitops.SyncState(request.GetString("status", "")),
			Health:  gitops.HealthState(request.GetString("health", "")),
		}
		apps := eng.ListApplications(filter)
		if len(apps) == 0 {
			return mcp.NewToolResultText("No applications found"), nil
		}
		return jsonResult(apps), nil
	}
}
