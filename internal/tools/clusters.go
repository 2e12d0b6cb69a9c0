package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

// CreateClusterTool defines the create_cluster tool schema
var CreateClusterTool = mcp.NewTool("create_cluster",
	mcp.WithDescription("Registers a destination cluster. Cluster generators enumerate registered clusters."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the cluster (DNS-1123 label)."),
	),
	mcp.WithString("server",
		mcp.Required(),
		mcp.Description("The API server URL of the cluster."),
	),
	mcp.WithString("labels",
		mcp.Description(`Labels as a JSON object, e.g. {"region":"eu-west-1","tier":"prod"}.`),
	),
)

// HandleCreateCluster returns the create_cluster handler bound to eng
func HandleCreateCluster(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		serverURL := request.GetString("server", "")
		if name == "" || serverURL == "" {
			return mcp.NewToolResultError("Cluster name and server are required"), nil
		}
		cluster := &gitops.Cluster{
			Name:   name,
			Server: serverURL,
		}
		if err := parseJSONInto(request.GetString("labels", ""), "labels", &cluster.Labels); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		created, err := eng.AddCluster(ctx, cluster)
		if err != nil {
			return errResult("create cluster", err), nil
		}
		return jsonResult(created), nil
	}
}

// DeleteClusterTool defines the delete_cluster tool schema
var DeleteClusterTool = mcp.NewTool("delete_cluster",
	mcp.WithDescription("Removes a cluster from the registry. Cluster generators drop its rows on the next expansion."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The name of the cluster to delete."),
	),
)

// HandleDeleteCluster returns the delete_cluster handler bound to eng
func HandleDeleteCluster(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("Cluster name is required"), nil
		}
		if err := eng.DeleteCluster(ctx, name); err != nil {
			return errResult("delete cluster", err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Cluster %q deleted", name)), nil
	}
}

// ListClusterTool defines the list_clusters tool schema
var ListClusterTool = mcp.NewTool("list_clusters",
	mcp.WithDescription("Lists all registered clusters."),
	mcp.WithDestructiveHintAnnotation(false),
)

// HandleListClusters returns the list_clusters handler bound to eng
func HandleListClusters(eng Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		clusters := eng.ListClusters()
		if len(clusters) == 0 {
			return mcp.NewToolResultText("No clusters found"), nil
		}
		return jsonResult(clusters), nil
	}
}
