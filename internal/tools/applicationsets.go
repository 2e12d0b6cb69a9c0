package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

// CreateApplicationSetTool defines the create_applicationset tool schema
var CreateApplicationSetTool = mcp.NewTool("create_applicationset",
	mcp.WithDescription("Creates an application set and immediately expands its generators into applications."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the application set (DNS-1123 label)."),
	),
	mcp.WithString("generators",
		mcp.Required(),
		mcp.Description(`Generators as a JSON array, e.g. [{"list":{"elements":[{"env":"dev"}]}}]. Each entry sets exactly one of list, git or clusters.`),
	),
	mcp.WithString("template",
		mcp.Required(),
		mcp.Description(`The application template as JSON, e.g. {"name":"app-{{env}}","repository":"deployments","path":"envs/{{env}}"}.`),
	),
	mcp.WithString("sync_policy",
		mcp.Description("The sync policy type applied to generated applications (default: manual)."),
	),
	mcp.WithBoolean("go_template",
		mcp.Description("Whether template fields use Go template syntax instead of {{key}} placeholders (default: false)."),
	),
	mcp.WithBoolean("preserve_resources_on_deletion",
		mcp.Description("Whether generated applications survive deletion of the set (default: false)."),
	),
)

// HandleCreateApplicationSet returns the create_applicationset handler bound to eng
func HandleCreateApplicationSet(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Application set name is required"), nil
		}
		set := &gitops.ApplicationSet{
			Name:                        name,
			Enabled:                     true,
			GoTemplate:                  request.GetBool("go_template", false),
			PreserveResourcesOnDeletion: request.GetBool("preserve_resources_on_deletion", false),
			SyncPolicy: gitops.SyncPolicy{
				Type: gitops.SyncPolicyType(request.GetString("sync_policy", string(gitops.SyncPolicyManual))),
			},
		}
		if set.SyncPolicy.Type == gitops.SyncPolicyAutomated {
			set.SyncPolicy.Automated = &gitops.AutomatedPolicy{}
		}
		if err := parseJSONInto(request.GetString("generators", ""), "generators", &set.Generators); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := parseJSONInto(request.GetString("template", ""), "template", &set.Template); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		created, err := eng.AddApplicationSet(ctx, set)
		if err != nil {
			return errResult("create application set", err), nil
		}
		return jsonResult(created), nil
	}
}

// UpdateApplicationSetTool defines the update_applicationset tool schema
var UpdateApplicationSetTool = mcp.NewTool("update_applicationset",
	mcp.WithDescription("Updates an application set and reconciles its generated applications against the new expansion."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the application set to update."),
	),
	mcp.WithString("generators",
		mcp.Description("Generators as a JSON array; replaces the existing generators when set."),
	),
	mcp.WithString("template",
		mcp.Description("The application template as JSON; replaces the existing template when set."),
	),
	mcp.WithBoolean("enabled",
		mcp.Description("Whether the set is enabled; disabling retracts its generated applications."),
	),
)

// HandleUpdateApplicationSet returns the update_applicationset handler bound to eng
func HandleUpdateApplicationSet(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Application set name is required"), nil
		}
		current, err := eng.GetApplicationSet(name)
		if err != nil {
			return errResult("update application set", err), nil
		}
		if err := parseJSONInto(request.GetString("generators", ""), "generators", &current.Generators); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := parseJSONInto(request.GetString("template", ""), "template", &current.Template); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		current.Enabled = request.GetBool("enabled", current.Enabled)

		updated, err := eng.UpdateApplicationSet(ctx, current)
		if err != nil {
			return errResult("update application set", err), nil
		}
		return jsonResult(updated), nil
	}
}

// DeleteApplicationSetTool defines the delete_applicationset tool schema
var DeleteApplicationSetTool = mcp.NewTool("delete_applicationset",
	mcp.WithDescription("Deletes an application set, retracting its generated applications unless the set preserves resources on deletion."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the application set to delete."),
	),
)

// HandleDeleteApplicationSet returns the delete_applicationset handler bound to eng
func HandleDeleteApplicationSet(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Application set name is required"), nil
		}
		if err := eng.DeleteApplicationSet(ctx, name); err != nil {
			return errResult("delete application set", err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Application set %q deleted", name)), nil
	}
}

// GetApplicationSetTool defines the get_applicationset tool schema
var GetApplicationSetTool = mcp.NewTool("get_applicationset",
	mcp.WithDescription("Gets one application set including the names of its generated applications."),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the application set."),
	),
)

// HandleGetApplicationSet returns the get_applicationset handler bound to eng
func HandleGetApplicationSet(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Application set name is required"), nil
		}
		set, err := eng.GetApplicationSet(name)
		if err != nil {
			return errResult("get application set", err), nil
		}
		return jsonResult(set), nil
	}
}

// ListApplicationSetTool defines the list_applicationsets tool schema
var ListApplicationSetTool = mcp.NewTool("list_applicationsets",
	mcp.WithDescription("Lists all application sets."),
	mcp.WithDestructiveHintAnnotation(false),
)

// HandleListApplicationSets returns the list_applicationsets handler bound to eng
func HandleListApplicationSets(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sets := eng.ListApplicationSets()
		if len(sets) == 0 {
			return mcp.NewToolResultText("No application sets found"), nil
		}
		return jsonResult(sets), nil
	}
}
