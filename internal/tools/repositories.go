package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

// CreateRepositoryTool defines the create_repository tool schema
var CreateRepositoryTool = mcp.NewTool("create_repository",
	mcp.WithDescription("Registers a repository. Connection status starts as unknown until checked."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the repository (DNS-1123 label)."),
	),
	mcp.WithString("url",
		mcp.Required(),
		mcp.Description("The repository URL, e.g. https://github.com/org/deployments.git."),
	),
	mcp.WithString("type",
		mcp.Description("The repository type: git (default) or helm."),
	),
	mcp.WithString("project",
		mcp.Description("Optional project the repository is scoped to."),
	),
	mcp.WithString("username",
		mcp.Description("Optional username for authenticated access."),
	),
	mcp.WithString("password",
		mcp.Description("Optional password or token for authenticated access."),
	),
)

// HandleCreateRepository returns the create_repository handler bound to eng
func HandleCreateRepository(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		url := request.GetString("url", "")
		if name == "" || url == "" {
			return mcp.NewToolResultError("Repository name and url are required"), nil
		}
		repo := &gitops.Repository{
			Name:     name,
			URL:      url,
			Type:     gitops.RepoType(request.GetString("type", "")),
			Project:  request.GetString("project", ""),
			Username: request.GetString("username", ""),
			Password: request.GetString("password", ""),
		}
		created, err := eng.AddRepository(ctx, repo)
		if err != nil {
			return errResult("create repository", err), nil
		}
		return jsonResult(created), nil
	}
}

// DeleteRepositoryTool defines the delete_repository tool schema
var DeleteRepositoryTool = mcp.NewTool("delete_repository",
	mcp.WithDescription("Deletes a repository. Fails while any application still references it."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the repository to delete."),
	),
)

// HandleDeleteRepository returns the delete_repository handler bound to eng
func HandleDeleteRepository(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Repository name is required"), nil
		}
		if err := eng.DeleteRepository(ctx, name); err != nil {
			return errResult("delete repository", err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Repository %q deleted", name)), nil
	}
}

// GetRepositoryTool defines the get_repository tool schema
var GetRepositoryTool = mcp.NewTool("get_repository",
	mcp.WithDescription("Gets one repository."),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the repository."),
	),
)

// HandleGetRepository returns the get_repository handler bound to eng
func HandleGetRepository(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Repository name is required"), nil
		}
		repo, err := eng.GetRepository(name)
		if err != nil {
			return errResult("get repository", err), nil
		}
		return jsonResult(repo), nil
	}
}

// ListRepositoriesTool defines the list_repositories tool schema
var ListRepositoriesTool = mcp.NewTool("list_repositories",
	mcp.WithDescription("Lists all registered repositories."),
	mcp.WithDestructiveHintAnnotation(false),
)

// HandleListRepositories returns the list_repositories handler bound to eng
func HandleListRepositories(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		repos := eng.ListRepositories()
		if len(repos) == 0 {
			return mcp.NewToolResultText("No repositories found"), nil
		}
		return jsonResult(repos), nil
	}
}

// CheckRepositoryTool defines the check_repository tool schema
var CheckRepositoryTool = mcp.NewTool("check_repository",
	mcp.WithDescription("Probes a repository and records the resulting connection status."),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the repository to check."),
	),
)

// HandleCheckRepository returns the check_repository handler bound to eng
func HandleCheckRepository(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Repository name is required"), nil
		}
		repo, err := eng.CheckRepositoryConnection(ctx, name)
		if err != nil {
			return errResult("check repository", err), nil
		}
		return jsonResult(repo), nil
	}
}

// ListChartsTool defines the list_charts tool schema
var ListChartsTool = mcp.NewTool("list_charts",
	mcp.WithDescription("Lists the charts a helm or oci repository serves, or the versions of one chart."),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("repository",
		mcp.Required(),
		mcp.Description("The name of the repository to query."),
	),
	mcp.WithString("chart",
		mcp.Description("Optional chart name; when set, lists the available versions of that chart."),
	),
)

// HandleListCharts returns the list_charts handler bound to eng
func HandleListCharts(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		repoName := request.GetString("repository", "")
		if repoName == "" {
			return mcp.NewToolResultError("Repository name is required"), nil
		}
		if chart := request.GetString("chart", ""); chart != "" {
			versions, err := eng.ListChartVersions(ctx, repoName, chart)
			if err != nil {
				return errResult("list chart versions", err), nil
			}
			if len(versions) == 0 {
				return mcp.NewToolResultText(fmt.Sprintf("No versions found for chart %q", chart)), nil
			}
			return jsonResult(versions), nil
		}
		charts, err := eng.ListRepositoryCharts(ctx, repoName)
		if err != nil {
			return errResult("list charts", err), nil
		}
		if len(charts) == 0 {
			return mcp.NewToolResultText("No charts found"), nil
		}
		return jsonResult(charts), nil
	}
}
