package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

// CreateAppTool defines the create_application tool schema
var CreateAppTool = mcp.NewTool("create_application",
	mcp.WithDescription("Creates a new application with the specified source and destination configuration."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the application to create (DNS-1123 label)."),
	),
	mcp.WithString("namespace",
		mcp.Description("The control-plane namespace of the application resource (default: argocd)."),
	),
	mcp.WithString("project",
		mcp.Description("The project the application belongs to."),
	),
	mcp.WithString("repository",
		mcp.Required(),
		mcp.Description("The configured repository, referenced by name or URL."),
	),
	mcp.WithString("path",
		mcp.Description("The path within the repository to the manifests (default: .)."),
	),
	mcp.WithString("target_revision",
		mcp.Description("The target revision (branch, tag, or commit) to deploy (default: HEAD)."),
	),
	mcp.WithString("dest_server",
		mcp.Description("The destination cluster server URL (default: https://kubernetes.default.svc)."),
	),
	mcp.WithString("dest_namespace",
		mcp.Description("The destination namespace where the application is deployed."),
	),
	mcp.WithString("sync_policy",
		mcp.Description("The sync policy type: manual, automated or sync-window (default: manual)."),
	),
	mcp.WithBoolean("auto_prune",
		mcp.Description("Whether an automated policy prunes removed resources (default: false)."),
	),
	mcp.WithBoolean("self_heal",
		mcp.Description("Whether an automated policy re-syncs degraded applications (default: false)."),
	),
	mcp.WithString("helm_chart",
		mcp.Description("The chart name, required when the repository is a helm repository."),
	),
	mcp.WithString("hooks",
		mcp.Description(`Sync hooks as a JSON array, e.g. [{"name":"db-migrate","kind":"Job","phase":"PreSync"}].`),
	),
)

// HandleCreateApplication returns the create_application handler bound to eng
func HandleCreateApplication(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Application name is required"), nil
		}
		repository := request.GetString("repository", "")
		if repository == "" {
			return mcp.NewToolResultError("Repository is required"), nil
		}

		app := &gitops.Application{
			Name:           name,
			Namespace:      request.GetString("namespace", "argocd"),
			Project:        request.GetString("project", ""),
			Repository:     repository,
			Path:           request.GetString("path", "."),
			TargetRevision: request.GetString("target_revision", "HEAD"),
			Destination: gitops.Destination{
				Server:    request.GetString("dest_server", "https://kubernetes.default.svc"),
				Namespace: request.GetString("dest_namespace", ""),
			},
			SyncPolicy: gitops.SyncPolicy{
				Type: gitops.SyncPolicyType(request.GetString("sync_policy", string(gitops.SyncPolicyManual))),
			},
		}
		if app.SyncPolicy.Type == gitops.SyncPolicyAutomated {
			app.SyncPolicy.Automated = &gitops.AutomatedPolicy{
				Prune:    request.GetBool("auto_prune", false),
				SelfHeal: request.GetBool("self_heal", false),
			}
		}
		if chart := request.GetString("helm_chart", ""); chart != "" {
			app.Helm = &gitops.HelmSource{Chart: chart}
		}
		if err := parseJSONInto(request.GetString("hooks", ""), "hooks", &app.Hooks); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		created, err := eng.AddApplication(ctx, app)
		if err != nil {
			return errResult("create application", err), nil
		}
		return jsonResult(created), nil
	}
}
