// Package tools exposes the reconciler over MCP. Each tool file declares its
// schema next to its handler; handlers are bound to the engine at
// registration time.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/devcanvas-labs/argocd-emulator/internal/errors"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/engine"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/metrics"
)

// Engine is the surface the tool handlers consume
type Engine interface {
	AddApplication(ctx context.Context, app *gitops.Application) (*gitops.Application, error)
	UpdateApplication(ctx context.Context, app *gitops.Application) (*gitops.Application, error)
	DeleteApplication(ctx context.Context, name string) error
	GetApplication(name string) (*gitops.Application, error)
	ListApplications(filter engine.ApplicationFilter) []*gitops.Application
	RefreshApplication(ctx context.Context, name string) (*gitops.Application, error)

	StartSync(ctx context.Context, appName, initiatedBy string) (*gitops.SyncOperation, error)
	Rollback(ctx context.Context, appName, initiatedBy string) (*gitops.SyncOperation, error)
	TerminateOperation(ctx context.Context, opID string) (*gitops.SyncOperation, error)
	GetSyncOperation(id string) (*gitops.SyncOperation, error)
	ListSyncOperations(appName string) []*gitops.SyncOperation

	AddApplicationSet(ctx context.Context, set *gitops.ApplicationSet) (*gitops.ApplicationSet, error)
	UpdateApplicationSet(ctx context.Context, set *gitops.ApplicationSet) (*gitops.ApplicationSet, error)
	DeleteApplicationSet(ctx context.Context, name string) error
	GetApplicationSet(name string) (*gitops.ApplicationSet, error)
	ListApplicationSets() []*gitops.ApplicationSet

	AddSyncWindow(ctx context.Context, w *gitops.SyncWindow) (*gitops.SyncWindow, error)
	UpdateSyncWindow(ctx context.Context, w *gitops.SyncWindow) (*gitops.SyncWindow, error)
	DeleteSyncWindow(ctx context.Context, name string) error
	ListSyncWindows() []*gitops.SyncWindow
	ValidateAppSyncPolicy(name string) (*errors.ValidationResult, error)
	ActiveSyncWindows(name string) ([]*gitops.SyncWindow, error)

	AddRole(ctx context.Context, role *gitops.Role) (*gitops.Role, error)
	UpdateRole(ctx context.Context, role *gitops.Role) (*gitops.Role, error)
	DeleteRole(ctx context.Context, name string) error
	GetRole(name string) (*gitops.Role, error)
	ListRoles() []*gitops.Role
	CheckRBAC(roleName, action, resource, object string) (gitops.Effect, error)

	AddChannel(ctx context.Context, ch *gitops.NotificationChannel) (*gitops.NotificationChannel, error)
	UpdateChannel(ctx context.Context, ch *gitops.NotificationChannel) (*gitops.NotificationChannel, error)
	DeleteChannel(ctx context.Context, name string) error
	ListChannels() []*gitops.NotificationChannel
	ListDispatches() []gitops.DispatchRecord

	AddRepository(ctx context.Context, repo *gitops.Repository) (*gitops.Repository, error)
	DeleteRepository(ctx context.Context, name string) error
	GetRepository(name string) (*gitops.Repository, error)
	ListRepositories() []*gitops.Repository
	CheckRepositoryConnection(ctx context.Context, name string) (*gitops.Repository, error)
	ListRepositoryCharts(ctx context.Context, name string) ([]string, error)
	ListChartVersions(ctx context.Context, name, chart string) ([]string, error)

	AddProject(ctx context.Context, proj *gitops.Project) (*gitops.Project, error)
	UpdateProject(ctx context.Context, proj *gitops.Project) (*gitops.Project, error)
	DeleteProject(ctx context.Context, name string) error
	GetProject(name string) (*gitops.Project, error)
	ListProjects() []*gitops.Project

	AddCluster(ctx context.Context, c *gitops.Cluster) (*gitops.Cluster, error)
	DeleteCluster(ctx context.Context, name string) error
	ListClusters() []*gitops.Cluster

	GetMetrics() *metrics.Metrics
}

var _ Engine = (*engine.Engine)(nil)

// RegisterAll registers all defined tools with the MCP server, bound to eng
func RegisterAll(s *server.MCPServer, eng Engine) {
	s.AddTool(ListAppsTool, HandleListApplications(eng))
	s.AddTool(GetAppTool, HandleGetApplication(eng))
	s.AddTool(CreateAppTool, HandleCreateApplication(eng))
	s.AddTool(UpdateAppTool, HandleUpdateApplication(eng))
	s.AddTool(DeleteAppTool, HandleDeleteApplication(eng))
	s.AddTool(RefreshAppTool, HandleRefreshApplication(eng))

	s.AddTool(SyncAppTool, HandleSyncApplication(eng))
	s.AddTool(RollbackAppTool, HandleRollbackApplication(eng))
	s.AddTool(TerminateOperationTool, HandleTerminateOperation(eng))
	s.AddTool(GetOperationTool, HandleGetOperation(eng))
	s.AddTool(ListOperationsTool, HandleListOperations(eng))

	s.AddTool(CreateApplicationSetTool, HandleCreateApplicationSet(eng))
	s.AddTool(UpdateApplicationSetTool, HandleUpdateApplicationSet(eng))
	s.AddTool(DeleteApplicationSetTool, HandleDeleteApplicationSet(eng))
	s.AddTool(GetApplicationSetTool, HandleGetApplicationSet(eng))
	s.AddTool(ListApplicationSetTool, HandleListApplicationSets(eng))

	s.AddTool(CreateSyncWindowTool, HandleCreateSyncWindow(eng))
	s.AddTool(UpdateSyncWindowTool, HandleUpdateSyncWindow(eng))
	s.AddTool(DeleteSyncWindowTool, HandleDeleteSyncWindow(eng))
	s.AddTool(ListSyncWindowsTool, HandleListSyncWindows(eng))
	s.AddTool(ValidateSyncPolicyTool, HandleValidateSyncPolicy(eng))

	s.AddTool(CreateRoleTool, HandleCreateRole(eng))
	s.AddTool(UpdateRoleTool, HandleUpdateRole(eng))
	s.AddTool(DeleteRoleTool, HandleDeleteRole(eng))
	s.AddTool(GetRoleTool, HandleGetRole(eng))
	s.AddTool(ListRolesTool, HandleListRoles(eng))
	s.AddTool(CheckRBACTool, HandleCheckRBAC(eng))

	s.AddTool(CreateChannelTool, HandleCreateChannel(eng))
	s.AddTool(UpdateChannelTool, HandleUpdateChannel(eng))
	s.AddTool(DeleteChannelTool, HandleDeleteChannel(eng))
	s.AddTool(ListChannelsTool, HandleListChannels(eng))
	s.AddTool(ListDispatchesTool, HandleListDispatches(eng))

	s.AddTool(CreateRepositoryTool, HandleCreateRepository(eng))
	s.AddTool(DeleteRepositoryTool, HandleDeleteRepository(eng))
	s.AddTool(GetRepositoryTool, HandleGetRepository(eng))
	s.AddTool(ListRepositoriesTool, HandleListRepositories(eng))
	s.AddTool(CheckRepositoryTool, HandleCheckRepository(eng))
	s.AddTool(ListChartsTool, HandleListCharts(eng))

	s.AddTool(CreateProjectTool, HandleCreateProject(eng))
	s.AddTool(UpdateProjectTool, HandleUpdateProject(eng))
	s.AddTool(DeleteProjectTool, HandleDeleteProject(eng))
	s.AddTool(GetProjectTool, HandleGetProject(eng))
	s.AddTool(ListProjectsTool, HandleListProjects(eng))

	s.AddTool(CreateClusterTool, HandleCreateCluster(eng))
	s.AddTool(DeleteClusterTool, HandleDeleteCluster(eng))
	s.AddTool(ListClusterTool, HandleListClusters(eng))

	s.AddTool(GetMetricsTool, HandleGetMetrics(eng))
}
