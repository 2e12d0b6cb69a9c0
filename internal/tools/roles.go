package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

// CreateRoleTool defines the create_role tool schema
var CreateRoleTool = mcp.NewTool("create_role",
	mcp.WithDescription("Creates an RBAC role. Policies are evaluated in declaration order; the first match wins."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the role (DNS-1123 label)."),
	),
	mcp.WithString("policies",
		mcp.Required(),
		mcp.Description(`Policies as a JSON array, e.g. [{"action":"sync","resource":"applications","effect":"allow","object":"prod-*"}].`),
	),
	mcp.WithString("groups",
		mcp.Description("Comma-separated group names bound to the role."),
	),
)

// HandleCreateRole returns the create_role handler bound to eng
func HandleCreateRole(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Role name is required"), nil
		}
		role := &gitops.Role{
			Name:   name,
			Groups: splitList(request.GetString("groups", "")),
		}
		if err := parseJSONInto(request.GetString("policies", ""), "policies", &role.Policies); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		created, err := eng.AddRole(ctx, role)
		if err != nil {
			return errResult("create role", err), nil
		}
		return jsonResult(created), nil
	}
}

// UpdateRoleTool defines the update_role tool schema
var UpdateRoleTool = mcp.NewTool("update_role",
	mcp.WithDescription("Replaces the policy list of an existing role."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the role to update."),
	),
	mcp.WithString("policies",
		mcp.Required(),
		mcp.Description("Policies as a JSON array; replaces the existing policies."),
	),
	mcp.WithString("groups",
		mcp.Description("Comma-separated group names; replaces the existing groups when set."),
	),
)

// HandleUpdateRole returns the update_role handler bound to eng
func HandleUpdateRole(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Role name is required"), nil
		}
		current, err := eng.GetRole(name)
		if err != nil {
			return errResult("update role", err), nil
		}
		if err := parseJSONInto(request.GetString("policies", ""), "policies", &current.Policies); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if groups := request.GetString("groups", ""); groups != "" {
			current.Groups = splitList(groups)
		}
		updated, err := eng.UpdateRole(ctx, current)
		if err != nil {
			return errResult("update role", err), nil
		}
		return jsonResult(updated), nil
	}
}

// DeleteRoleTool defines the delete_role tool schema
var DeleteRoleTool = mcp.NewTool("delete_role",
	mcp.WithDescription("Deletes an RBAC role."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the role to delete."),
	),
)

// HandleDeleteRole returns the delete_role handler bound to eng
func HandleDeleteRole(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Role name is required"), nil
		}
		if err := eng.DeleteRole(ctx, name); err != nil {
			return errResult("delete role", err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Role %q deleted", name)), nil
	}
}

// GetRoleTool defines the get_role tool schema
var GetRoleTool = mcp.NewTool("get_role",
	mcp.WithDescription("Gets one RBAC role with its ordered policy list."),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the role."),
	),
)

// HandleGetRole returns the get_role handler bound to eng
func HandleGetRole(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Role name is required"), nil
		}
		role, err := eng.GetRole(name)
		if err != nil {
			return errResult("get role", err), nil
		}
		return jsonResult(role), nil
	}
}

// ListRolesTool defines the list_roles tool schema
var ListRolesTool = mcp.NewTool("list_roles",
	mcp.WithDescription("Lists all RBAC roles."),
	mcp.WithDestructiveHintAnnotation(false),
)

// HandleListRoles returns the list_roles handler bound to eng
func HandleListRoles(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		roles := eng.ListRoles()
		if len(roles) == 0 {
			return mcp.NewToolResultText("No roles found"), nil
		}
		return jsonResult(roles), nil
	}
}

// CheckRBACTool defines the check_rbac tool schema
var CheckRBACTool = mcp.NewTool("check_rbac",
	mcp.WithDescription("Evaluates whether a role permits an action on a resource, optionally scoped to an object."),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("role",
		mcp.Required(),
		mcp.Description("The name of the role to evaluate."),
	),
	mcp.WithString("action",
		mcp.Required(),
		mcp.Description("The action, e.g. sync or get."),
	),
	mcp.WithString("resource",
		mcp.Required(),
		mcp.Description("The resource kind, e.g. applications."),
	),
	mcp.WithString("object",
		mcp.Description("The object the action targets, e.g. an application name."),
	),
)

// HandleCheckRBAC returns the check_rbac handler bound to eng
func HandleCheckRBAC(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		roleName := request.GetString("role", "")
		action := request.GetString("action", "")
		resource := request.GetString("resource", "")
		if roleName == "" || action == "" || resource == "" {
			return mcp.NewToolResultError("role, action and resource are required"), nil
		}
		effect, err := eng.CheckRBAC(roleName, action, resource, request.GetString("object", ""))
		if err != nil {
			return errResult("check rbac", err), nil
		}
		return jsonResult(map[string]string{
			"role":   roleName,
			"effect": string(effect),
		}), nil
	}
}
