package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

// UpdateAppTool defines the update_application tool schema. Omitted
// parameters fall back to the application's current values.
var UpdateAppTool = mcp.NewTool("update_application",
	mcp.WithDescription("Updates the desired spec of an application; observed state and history are preserved."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the application to update."),
	),
	mcp.WithString("repository",
		mcp.Description("The configured repository, referenced by name or URL."),
	),
	mcp.WithString("path",
		mcp.Description("The path within the repository to the manifests."),
	),
	mcp.WithString("target_revision",
		mcp.Description("The target revision (branch, tag, or commit) to deploy."),
	),
	mcp.WithString("dest_server",
		mcp.Description("The destination cluster server URL."),
	),
	mcp.WithString("dest_namespace",
		mcp.Description("The destination namespace."),
	),
	mcp.WithString("sync_policy",
		mcp.Description("The sync policy type: manual, automated or sync-window."),
	),
	mcp.WithBoolean("auto_prune",
		mcp.Description("Whether an automated policy prunes removed resources."),
	),
	mcp.WithBoolean("self_heal",
		mcp.Description("Whether an automated policy re-syncs degraded applications."),
	),
	mcp.WithString("hooks",
		mcp.Description("Sync hooks as a JSON array; replaces the existing hooks when set."),
	),
)

// HandleUpdateApplication returns the update_application handler bound to eng
func HandleUpdateApplication(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Application name is required"), nil
		}
		current, err := eng.GetApplication(name)
		if err != nil {
			return errResult("update application", err), nil
		}

		current.Repository = request.GetString("repository", current.Repository)
		current.Path = request.GetString("path", current.Path)
		current.TargetRevision = request.GetString("target_revision", current.TargetRevision)
		current.Destination.Server = request.GetString("dest_server", current.Destination.Server)
		current.Destination.Namespace = request.GetString("dest_namespace", current.Destination.Namespace)
		if policyType := request.GetString("sync_policy", ""); policyType != "" {
			current.SyncPolicy.Type = gitops.SyncPolicyType(policyType)
		}
		if current.SyncPolicy.Type == gitops.SyncPolicyAutomated {
			automated := &gitops.AutomatedPolicy{}
			if current.SyncPolicy.Automated != nil {
				*automated = *current.SyncPolicy.Automated
			}
			automated.Prune = request.GetBool("auto_prune", automated.Prune)
			automated.SelfHeal = request.GetBool("self_heal", automated.SelfHeal)
			current.SyncPolicy.Automated = automated
		}
		if err := parseJSONInto(request.GetString("hooks", ""), "hooks", &current.Hooks); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		updated, err := eng.UpdateApplication(ctx, current)
		if err != nil {
			return errResult("update application", err), nil
		}
		return jsonResult(updated), nil
	}
}
