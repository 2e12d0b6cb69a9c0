package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

// CreateProjectTool defines the create_project tool schema
var CreateProjectTool = mcp.NewTool("create_project",
	mcp.WithDescription("Creates a project. Source repos and destinations are allow-lists; \"*\" matches everything."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the project (DNS-1123 label)."),
	),
	mcp.WithString("description",
		mcp.Description("Free-form description of the project."),
	),
	mcp.WithString("source_repos",
		mcp.Description("Comma-separated repository URL patterns allowed as sources."),
	),
	mcp.WithString("destinations",
		mcp.Description(`Allowed destinations as a JSON array, e.g. [{"server":"https://prod.example.com","namespace":"web"}].`),
	),
)

// HandleCreateProject returns the create_project handler bound to eng
func HandleCreateProject(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Project name is required"), nil
		}
		proj := &gitops.Project{
			Name:        name,
			Description: request.GetString("description", ""),
			SourceRepos: splitList(request.GetString("source_repos", "")),
		}
		if err := parseJSONInto(request.GetString("destinations", ""), "destinations", &proj.Destinations); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		created, err := eng.AddProject(ctx, proj)
		if err != nil {
			return errResult("create project", err), nil
		}
		return jsonResult(created), nil
	}
}

// UpdateProjectTool defines the update_project tool schema
var UpdateProjectTool = mcp.NewTool("update_project",
	mcp.WithDescription("Updates a project. Omitted fields keep their current values."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the project to update."),
	),
	mcp.WithString("description",
		mcp.Description("Replacement description."),
	),
	mcp.WithString("source_repos",
		mcp.Description("Replacement comma-separated repository URL patterns."),
	),
	mcp.WithString("destinations",
		mcp.Description("Replacement destinations as a JSON array."),
	),
)

// HandleUpdateProject returns the update_project handler bound to eng
func HandleUpdateProject(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Project name is required"), nil
		}
		current, err := eng.GetProject(name)
		if err != nil {
			return errResult("update project", err), nil
		}
		if desc := request.GetString("description", ""); desc != "" {
			current.Description = desc
		}
		if repos := request.GetString("source_repos", ""); repos != "" {
			current.SourceRepos = splitList(repos)
		}
		if err := parseJSONInto(request.GetString("destinations", ""), "destinations", &current.Destinations); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		updated, err := eng.UpdateProject(ctx, current)
		if err != nil {
			return errResult("update project", err), nil
		}
		return jsonResult(updated), nil
	}
}

// DeleteProjectTool defines the delete_project tool schema
var DeleteProjectTool = mcp.NewTool("delete_project",
	mcp.WithDescription("Deletes a project. Fails while any application still references it."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the project to delete."),
	),
)

// HandleDeleteProject returns the delete_project handler bound to eng
func HandleDeleteProject(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Project name is required"), nil
		}
		if err := eng.DeleteProject(ctx, name); err != nil {
			return errResult("delete project", err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Project %q deleted", name)), nil
	}
}

// GetProjectTool defines the get_project tool schema
var GetProjectTool = mcp.NewTool("get_project",
	mcp.WithDescription("Gets one project with its source and destination allow-lists."),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the project."),
	),
)

// HandleGetProject returns the get_project handler bound to eng
func HandleGetProject(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Project name is required"), nil
		}
		proj, err := eng.GetProject(name)
		if err != nil {
			return errResult("get project", err), nil
		}
		return jsonResult(proj), nil
	}
}

// ListProjectsTool defines the list_projects tool schema
var ListProjectsTool = mcp.NewTool("list_projects",
	mcp.WithDescription("Lists all projects."),
	mcp.WithDestructiveHintAnnotation(false),
)

// HandleListProjects returns the list_projects handler bound to eng
func HandleListProjects(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projects := eng.ListProjects()
		if len(projects) == 0 {
			return mcp.NewToolResultText("No projects found"), nil
		}
		return jsonResult(projects), nil
	}
}
