package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/devcanvas-labs/argocd-emulator/internal/errors"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/metrics"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/policy"
)

// ApplicationFilter narrows ListApplications; zero values match everything
type ApplicationFilter struct {
	Project string
	Status  gitops.SyncState
	Health  gitops.HealthState
}

// GetApplication returns a snapshot of one application
func (e *Engine) GetApplication(name string) (*gitops.Application, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	app, ok := e.st.apps[name]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("application %q not found", name), nil)
	}
	return copyApp(app), nil
}

// ListApplications returns snapshots of the applications matching the filter,
// sorted by name
func (e *Engine) ListApplications(filter ApplicationFilter) []*gitops.Application {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []*gitops.Application
	for _, app := range e.st.apps {
		if filter.Project != "" && app.Project != filter.Project {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if filter.Health != "" && app.Health != filter.Health {
			continue
		}
		out = append(out, copyApp(app))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GetSyncOperation returns a snapshot of one operation by id
func (e *Engine) GetSyncOperation(id string) (*gitops.SyncOperation, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	op, ok := e.st.ops[id]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("operation %q not found", id), nil)
	}
	return copyOp(op), nil
}

// ListSyncOperations returns operation snapshots, most recent first. A
// non-empty appName restricts to one application.
func (e *Engine) ListSyncOperations(appName string) []*gitops.SyncOperation {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []*gitops.SyncOperation
	for _, op := range e.st.ops {
		if appName != "" && op.Application != appName {
			continue
		}
		out = append(out, copyOp(op))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// GetApplicationSet returns a snapshot of one application set
func (e *Engine) GetApplicationSet(name string) (*gitops.ApplicationSet, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	set, ok := e.st.appsets[name]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("application set %q not found", name), nil)
	}
	return copyAppSet(set), nil
}

// ListApplicationSets returns snapshots of all application sets, sorted by name
func (e *Engine) ListApplicationSets() []*gitops.ApplicationSet {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*gitops.ApplicationSet, 0, len(e.st.appsets))
	for _, name := range sortedKeys(e.st.appsets) {
		out = append(out, copyAppSet(e.st.appsets[name]))
	}
	return out
}

// ListSyncWindows returns snapshots of all sync windows, sorted by name
func (e *Engine) ListSyncWindows() []*gitops.SyncWindow {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*gitops.SyncWindow, 0, len(e.st.windows))
	for _, w := range e.st.windowList() {
		out = append(out, copyWindow(w))
	}
	return out
}

// GetRole returns a snapshot of one role
func (e *Engine) GetRole(name string) (*gitops.Role, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	role, ok := e.st.roles[name]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("role %q not found", name), nil)
	}
	return copyRole(role), nil
}

// ListRoles returns snapshots of all roles, sorted by name
func (e *Engine) ListRoles() []*gitops.Role {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*gitops.Role, 0, len(e.st.roles))
	for _, name := range sortedKeys(e.st.roles) {
		out = append(out, copyRole(e.st.roles[name]))
	}
	return out
}

// ListChannels returns snapshots of all notification channels, sorted by name
func (e *Engine) ListChannels() []*gitops.NotificationChannel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.channelList()
}

// GetRepository returns a snapshot of one repository
func (e *Engine) GetRepository(name string) (*gitops.Repository, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	repo, ok := e.st.repos[name]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("repository %q not found", name), nil)
	}
	return copyRepo(repo), nil
}

// ListRepositoryCharts enumerates the charts a helm or oci repository serves
func (e *Engine) ListRepositoryCharts(ctx context.Context, name string) ([]string, error) {
	repo, err := e.GetRepository(name)
	if err != nil {
		return nil, err
	}
	charts, err := e.resolver.ListCharts(ctx, repo.URL)
	if err != nil {
		return nil, errors.NewRuntimeError(fmt.Sprintf("listing charts in repository %q", name), err)
	}
	return charts, nil
}

// ListChartVersions enumerates the available versions of one chart
func (e *Engine) ListChartVersions(ctx context.Context, name, chart string) ([]string, error) {
	repo, err := e.GetRepository(name)
	if err != nil {
		return nil, err
	}
	versions, err := e.resolver.ListChartVersions(ctx, repo.URL, chart)
	if err != nil {
		return nil, errors.NewRuntimeError(
			fmt.Sprintf("listing versions of chart %q in repository %q", chart, name), err)
	}
	return versions, nil
}

// ListRepositories returns snapshots of all repositories, sorted by name
func (e *Engine) ListRepositories() []*gitops.Repository {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*gitops.Repository, 0, len(e.st.repos))
	for _, name := range sortedKeys(e.st.repos) {
		out = append(out, copyRepo(e.st.repos[name]))
	}
	return out
}

// GetProject returns a snapshot of one project
func (e *Engine) GetProject(name string) (*gitops.Project, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	proj, ok := e.st.projects[name]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("project %q not found", name), nil)
	}
	return copyProject(proj), nil
}

// ListProjects returns snapshots of all projects, sorted by name
func (e *Engine) ListProjects() []*gitops.Project {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*gitops.Project, 0, len(e.st.projects))
	for _, name := range sortedKeys(e.st.projects) {
		out = append(out, copyProject(e.st.projects[name]))
	}
	return out
}

// ListClusters returns snapshots of all registered clusters, sorted by name
func (e *Engine) ListClusters() []*gitops.Cluster {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*gitops.Cluster, 0, len(e.st.clusters))
	for _, c := range e.st.clusterList() {
		out = append(out, copyCluster(c))
	}
	return out
}

// GetMetrics computes the aggregate metrics snapshot from current state.
// Applications and operations are copied under the read lock; the actor keeps
// mutating the live records while Compute runs.
func (e *Engine) GetMetrics() *metrics.Metrics {
	e.mu.RLock()
	apps := make([]*gitops.Application, 0, len(e.st.apps))
	for _, app := range e.st.apps {
		apps = append(apps, copyApp(app))
	}
	ops := make([]*gitops.SyncOperation, 0, len(e.st.ops))
	for _, op := range e.st.ops {
		ops = append(ops, copyOp(op))
	}
	e.mu.RUnlock()
	return metrics.Compute(apps, ops, e.clock.Now())
}

// ListDispatches returns the notification dispatch audit trail, oldest first
func (e *Engine) ListDispatches() []gitops.DispatchRecord {
	return e.dispatcher.Records()
}

// CheckRBAC evaluates whether a role permits an action on a resource,
// optionally scoped to an object pattern
func (e *Engine) CheckRBAC(roleName, action, resource, object string) (gitops.Effect, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	role, ok := e.st.roles[roleName]
	if !ok {
		return "", errors.NewNotFoundError(fmt.Sprintf("role %q not found", roleName), nil)
	}
	return policy.EvaluateRBAC(role, action, resource, object), nil
}

// ValidateAppSyncPolicy reports whether the application's sync policy is
// currently valid under the configured sync windows
func (e *Engine) ValidateAppSyncPolicy(name string) (*errors.ValidationResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	app, ok := e.st.apps[name]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("application %q not found", name), nil)
	}
	res := policy.ValidateSyncPolicy(e.eval, app.SyncPolicy, e.st.windowList(), app.Name, app.Project, e.clock.Now())
	return res, nil
}

// ActiveSyncWindows returns the windows currently open for an application
func (e *Engine) ActiveSyncWindows(name string) ([]*gitops.SyncWindow, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	app, ok := e.st.apps[name]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("application %q not found", name), nil)
	}
	active := policy.ActiveWindows(e.eval, e.st.windowList(), app.Name, app.Project, e.clock.Now())
	out := make([]*gitops.SyncWindow, 0, len(active))
	for _, w := range active {
		out = append(out, copyWindow(w))
	}
	return out, nil
}
