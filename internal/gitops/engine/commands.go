package engine

import (
	"context"
	"fmt"

	"github.com/devcanvas-labs/argocd-emulator/internal/errors"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/notify"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/policy"
)

func validationErr(res *errors.ValidationResult) error {
	details := map[string]interface{}{"errors": res.Errors}
	if len(res.Warnings) > 0 {
		details["warnings"] = res.Warnings
	}
	return errors.NewValidationError(res.Errors[0], details)
}

// AddApplication admits and stores a new application. Whatever status the
// caller supplies, the stored application starts out of sync with missing
// health and no deployment history, so an automated sync policy picks it up
// on the next reconcile tick.
func (e *Engine) AddApplication(ctx context.Context, app *gitops.Application) (*gitops.Application, error) {
	val, err := e.do(ctx, "add-application", func() (interface{}, error) {
		return e.addApplicationLocked(app)
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.Application), nil
}

func (e *Engine) addApplicationLocked(app *gitops.Application) (*gitops.Application, error) {
	if _, ok := e.st.apps[app.Name]; ok {
		return nil, errors.NewConflictError(fmt.Sprintf("application %q already exists", app.Name), nil)
	}
	res := policy.ValidateApplication(app, e.st.repos, e.st.projects)
	if !res.Valid {
		return nil, validationErr(res)
	}
	for _, w := range res.Warnings {
		e.log.WithField("app", app.Name).Warn(w)
	}

	stored := copyApp(app)
	stored.Status = gitops.SyncStateOutOfSync
	stored.Health = gitops.HealthMissing
	stored.Revision = ""
	stored.History = nil
	stored.CreatedAt = e.clock.Now()
	e.st.apps[stored.Name] = stored

	e.emit(gitops.EventAppCreated, map[string]string{
		"app":     stored.Name,
		"project": stored.Project,
	})
	e.log.WithField("app", stored.Name).Info("Application created")
	return copyApp(stored), nil
}

// UpdateApplication replaces the desired spec of an existing application.
// Observed state, history and ownership are preserved.
func (e *Engine) UpdateApplication(ctx context.Context, app *gitops.Application) (*gitops.Application, error) {
	val, err := e.do(ctx, "update-application", func() (interface{}, error) {
		current, ok := e.st.apps[app.Name]
		if !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("application %q not found", app.Name), nil)
		}
		res := policy.ValidateApplication(app, e.st.repos, e.st.projects)
		if !res.Valid {
			return nil, validationErr(res)
		}

		updated := copyApp(app)
		updated.Status = current.Status
		updated.Health = current.Health
		updated.Revision = current.Revision
		updated.History = append([]gitops.History(nil), current.History...)
		updated.Owner = current.Owner
		updated.CreatedAt = current.CreatedAt
		e.st.apps[updated.Name] = updated
		e.log.WithField("app", updated.Name).Info("Application updated")
		return copyApp(updated), nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.Application), nil
}

// DeleteApplication removes an application. A running sync operation is
// cancelled and marked failed; no history entry is committed for it.
func (e *Engine) DeleteApplication(ctx context.Context, name string) error {
	_, err := e.do(ctx, "delete-application", func() (interface{}, error) {
		return nil, e.deleteApplicationLocked(name, "application deleted")
	})
	return err
}

func (e *Engine) deleteApplicationLocked(name, reason string) error {
	app, ok := e.st.apps[name]
	if !ok {
		return errors.NewNotFoundError(fmt.Sprintf("application %q not found", name), nil)
	}
	e.abortRunningLocked(name, reason)
	e.runDeleteHooks(app)

	if app.Owner != "" {
		if set, ok := e.st.appsets[app.Owner]; ok {
			set.GeneratedApplications = removeString(set.GeneratedApplications, name)
		}
	}
	delete(e.st.apps, name)

	e.emit(gitops.EventAppDeleted, map[string]string{
		"app":     name,
		"project": app.Project,
	})
	e.log.WithField("app", name).Info("Application deleted")
	return nil
}

// abortRunningLocked force-fails the in-flight operation of an application,
// if any, and cancels its goroutine
func (e *Engine) abortRunningLocked(appName, reason string) {
	r, ok := e.st.running[appName]
	if !ok {
		return
	}
	if op, ok := e.st.ops[r.id]; ok && op.Status == gitops.OperationRunning {
		now := e.clock.Now()
		op.Status = gitops.OperationFailed
		op.FinishedAt = &now
		op.Error = "operation cancelled: " + reason
	}
	r.cancel()
	delete(e.st.running, appName)
}

// runDeleteHooks fires the application's PreDelete and PostDelete hooks in
// the background. Outcomes are logged only; deletion never waits on them.
func (e *Engine) runDeleteHooks(app *gitops.Application) {
	var hooks []gitops.Hook
	for _, h := range app.Hooks {
		if h.Phase == gitops.PhasePreDelete || h.Phase == gitops.PhasePostDelete {
			hooks = append(hooks, h)
		}
	}
	if len(hooks) == 0 {
		return
	}
	name := app.Name
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.OperationTimeout)
		defer cancel()
		for _, h := range hooks {
			if err := e.syncer.RunHook(ctx, name, h); err != nil {
				e.log.WithField("app", name).WithField("hook", h.Name).WithError(err).Warn("Delete hook failed")
			}
		}
	}()
}

// AddRepository registers a source repository. Connectivity is not probed
// here; use CheckRepositoryConnection.
func (e *Engine) AddRepository(ctx context.Context, repo *gitops.Repository) (*gitops.Repository, error) {
	val, err := e.do(ctx, "add-repository", func() (interface{}, error) {
		return e.addRepositoryLocked(repo)
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.Repository), nil
}

func (e *Engine) addRepositoryLocked(repo *gitops.Repository) (*gitops.Repository, error) {
	if _, ok := e.st.repos[repo.Name]; ok {
		return nil, errors.NewConflictError(fmt.Sprintf("repository %q already exists", repo.Name), nil)
	}
	stored := copyRepo(repo)
	res := policy.ValidateName(stored.Name)
	if stored.URL == "" {
		res.AddError("repository url is required")
	}
	switch stored.Type {
	case gitops.RepoTypeGit, gitops.RepoTypeHelm, gitops.RepoTypeOCI:
	case "":
		stored.Type = gitops.RepoTypeGit
	default:
		res.AddError("unknown repository type %q", stored.Type)
	}
	if !res.Valid {
		return nil, validationErr(res)
	}

	stored.ConnectionStatus = gitops.ConnectionUnknown
	e.st.repos[stored.Name] = stored
	e.log.WithField("repository", stored.Name).Info("Repository added")
	return copyRepo(stored), nil
}

// CheckRepositoryConnection probes connectivity of a configured repository
// and records the result on it
func (e *Engine) CheckRepositoryConnection(ctx context.Context, name string) (*gitops.Repository, error) {
	val, err := e.do(ctx, "check-repository", func() (interface{}, error) {
		repo, ok := e.st.repos[name]
		if !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("repository %q not found", name), nil)
		}
		if err := e.resolver.CheckConnection(ctx, repo); err != nil {
			repo.ConnectionStatus = gitops.ConnectionFailed
			e.log.WithField("repository", name).WithError(err).Warn("Repository connection check failed")
		} else {
			repo.ConnectionStatus = gitops.ConnectionSuccessful
		}
		return copyRepo(repo), nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.Repository), nil
}

// DeleteRepository removes a repository unless an application still
// references it
func (e *Engine) DeleteRepository(ctx context.Context, name string) error {
	_, err := e.do(ctx, "delete-repository", func() (interface{}, error) {
		repo, ok := e.st.repos[name]
		if !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("repository %q not found", name), nil)
		}
		for _, app := range e.st.apps {
			if app.Repository == repo.Name || app.Repository == repo.URL {
				return nil, errors.NewConflictError(
					fmt.Sprintf("repository %q is referenced by application %q", name, app.Name), nil)
			}
		}
		delete(e.st.repos, name)
		return nil, nil
	})
	return err
}

// AddProject creates a project with its source and destination allow-lists
func (e *Engine) AddProject(ctx context.Context, proj *gitops.Project) (*gitops.Project, error) {
	val, err := e.do(ctx, "add-project", func() (interface{}, error) {
		return e.addProjectLocked(proj)
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.Project), nil
}

func (e *Engine) addProjectLocked(proj *gitops.Project) (*gitops.Project, error) {
	if _, ok := e.st.projects[proj.Name]; ok {
		return nil, errors.NewConflictError(fmt.Sprintf("project %q already exists", proj.Name), nil)
	}
	if res := policy.ValidateName(proj.Name); !res.Valid {
		return nil, validationErr(res)
	}
	e.st.projects[proj.Name] = copyProject(proj)
	return copyProject(proj), nil
}

// UpdateProject replaces an existing project's allow-lists and description
func (e *Engine) UpdateProject(ctx context.Context, proj *gitops.Project) (*gitops.Project, error) {
	val, err := e.do(ctx, "update-project", func() (interface{}, error) {
		if _, ok := e.st.projects[proj.Name]; !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("project %q not found", proj.Name), nil)
		}
		e.st.projects[proj.Name] = copyProject(proj)
		return copyProject(proj), nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.Project), nil
}

// DeleteProject removes a project unless an application still belongs to it
func (e *Engine) DeleteProject(ctx context.Context, name string) error {
	_, err := e.do(ctx, "delete-project", func() (interface{}, error) {
		if _, ok := e.st.projects[name]; !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("project %q not found", name), nil)
		}
		for _, app := range e.st.apps {
			if app.Project == name {
				return nil, errors.NewConflictError(
					fmt.Sprintf("project %q is referenced by application %q", name, app.Name), nil)
			}
		}
		delete(e.st.projects, name)
		return nil, nil
	})
	return err
}

// AddRole registers an RBAC role; policies keep their declaration order
func (e *Engine) AddRole(ctx context.Context, role *gitops.Role) (*gitops.Role, error) {
	val, err := e.do(ctx, "add-role", func() (interface{}, error) {
		return e.addRoleLocked(role)
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.Role), nil
}

func (e *Engine) addRoleLocked(role *gitops.Role) (*gitops.Role, error) {
	if _, ok := e.st.roles[role.Name]; ok {
		return nil, errors.NewConflictError(fmt.Sprintf("role %q already exists", role.Name), nil)
	}
	if res := validateRole(role); !res.Valid {
		return nil, validationErr(res)
	}
	e.st.roles[role.Name] = copyRole(role)
	return copyRole(role), nil
}

func validateRole(role *gitops.Role) *errors.ValidationResult {
	res := policy.ValidateName(role.Name)
	for i, p := range role.Policies {
		if p.Action == "" || p.Resource == "" {
			res.AddError("policy %d requires action and resource", i)
		}
		if p.Effect != gitops.EffectAllow && p.Effect != gitops.EffectDeny {
			res.AddError("policy %d effect must be allow or deny, got %q", i, p.Effect)
		}
	}
	return res
}

// UpdateRole replaces an existing role's policy list
func (e *Engine) UpdateRole(ctx context.Context, role *gitops.Role) (*gitops.Role, error) {
	val, err := e.do(ctx, "update-role", func() (interface{}, error) {
		if _, ok := e.st.roles[role.Name]; !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("role %q not found", role.Name), nil)
		}
		if res := validateRole(role); !res.Valid {
			return nil, validationErr(res)
		}
		e.st.roles[role.Name] = copyRole(role)
		return copyRole(role), nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.Role), nil
}

// DeleteRole removes a role
func (e *Engine) DeleteRole(ctx context.Context, name string) error {
	_, err := e.do(ctx, "delete-role", func() (interface{}, error) {
		if _, ok := e.st.roles[name]; !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("role %q not found", name), nil)
		}
		delete(e.st.roles, name)
		return nil, nil
	})
	return err
}

// AddChannel registers a notification channel after validating its typed
// config
func (e *Engine) AddChannel(ctx context.Context, ch *gitops.NotificationChannel) (*gitops.NotificationChannel, error) {
	val, err := e.do(ctx, "add-channel", func() (interface{}, error) {
		return e.addChannelLocked(ch)
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.NotificationChannel), nil
}

func (e *Engine) addChannelLocked(ch *gitops.NotificationChannel) (*gitops.NotificationChannel, error) {
	if _, ok := e.st.channels[ch.Name]; ok {
		return nil, errors.NewConflictError(fmt.Sprintf("channel %q already exists", ch.Name), nil)
	}
	res := policy.ValidateName(ch.Name)
	if chRes := notify.ValidateChannel(ch); !chRes.Valid {
		res.Errors = append(res.Errors, chRes.Errors...)
		res.Valid = false
	}
	if !res.Valid {
		return nil, validationErr(res)
	}
	e.st.channels[ch.Name] = copyChannel(ch)
	return copyChannel(ch), nil
}

// UpdateChannel replaces an existing channel's config and triggers; flipping
// Enabled silences or reactivates it
func (e *Engine) UpdateChannel(ctx context.Context, ch *gitops.NotificationChannel) (*gitops.NotificationChannel, error) {
	val, err := e.do(ctx, "update-channel", func() (interface{}, error) {
		if _, ok := e.st.channels[ch.Name]; !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("channel %q not found", ch.Name), nil)
		}
		if res := notify.ValidateChannel(ch); !res.Valid {
			return nil, validationErr(res)
		}
		e.st.channels[ch.Name] = copyChannel(ch)
		return copyChannel(ch), nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.NotificationChannel), nil
}

// DeleteChannel removes a notification channel
func (e *Engine) DeleteChannel(ctx context.Context, name string) error {
	_, err := e.do(ctx, "delete-channel", func() (interface{}, error) {
		if _, ok := e.st.channels[name]; !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("channel %q not found", name), nil)
		}
		delete(e.st.channels, name)
		return nil, nil
	})
	return err
}

// AddSyncWindow registers a sync window after parsing its schedule
func (e *Engine) AddSyncWindow(ctx context.Context, w *gitops.SyncWindow) (*gitops.SyncWindow, error) {
	val, err := e.do(ctx, "add-sync-window", func() (interface{}, error) {
		return e.addSyncWindowLocked(w)
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.SyncWindow), nil
}

func (e *Engine) addSyncWindowLocked(w *gitops.SyncWindow) (*gitops.SyncWindow, error) {
	if _, ok := e.st.windows[w.Name]; ok {
		return nil, errors.NewConflictError(fmt.Sprintf("sync window %q already exists", w.Name), nil)
	}
	res := policy.ValidateSyncWindow(w, e.eval.Parse)
	if !res.Valid {
		return nil, validationErr(res)
	}
	for _, warn := range res.Warnings {
		e.log.WithField("window", w.Name).Warn(warn)
	}
	e.st.windows[w.Name] = copyWindow(w)
	return copyWindow(w), nil
}

// UpdateSyncWindow replaces an existing sync window
func (e *Engine) UpdateSyncWindow(ctx context.Context, w *gitops.SyncWindow) (*gitops.SyncWindow, error) {
	val, err := e.do(ctx, "update-sync-window", func() (interface{}, error) {
		if _, ok := e.st.windows[w.Name]; !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("sync window %q not found", w.Name), nil)
		}
		if res := policy.ValidateSyncWindow(w, e.eval.Parse); !res.Valid {
			return nil, validationErr(res)
		}
		e.st.windows[w.Name] = copyWindow(w)
		return copyWindow(w), nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.SyncWindow), nil
}

// DeleteSyncWindow removes a sync window
func (e *Engine) DeleteSyncWindow(ctx context.Context, name string) error {
	_, err := e.do(ctx, "delete-sync-window", func() (interface{}, error) {
		if _, ok := e.st.windows[name]; !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("sync window %q not found", name), nil)
		}
		delete(e.st.windows, name)
		return nil, nil
	})
	return err
}

// AddCluster registers a deployment target for the cluster generator
func (e *Engine) AddCluster(ctx context.Context, c *gitops.Cluster) (*gitops.Cluster, error) {
	val, err := e.do(ctx, "add-cluster", func() (interface{}, error) {
		return e.addClusterLocked(c)
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.Cluster), nil
}

func (e *Engine) addClusterLocked(c *gitops.Cluster) (*gitops.Cluster, error) {
	if _, ok := e.st.clusters[c.Name]; ok {
		return nil, errors.NewConflictError(fmt.Sprintf("cluster %q already exists", c.Name), nil)
	}
	res := policy.ValidateName(c.Name)
	if c.Server == "" {
		res.AddError("cluster server is required")
	}
	if !res.Valid {
		return nil, validationErr(res)
	}
	e.st.clusters[c.Name] = copyCluster(c)
	return copyCluster(c), nil
}

// DeleteCluster removes a registered cluster
func (e *Engine) DeleteCluster(ctx context.Context, name string) error {
	_, err := e.do(ctx, "delete-cluster", func() (interface{}, error) {
		if _, ok := e.st.clusters[name]; !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("cluster %q not found", name), nil)
		}
		delete(e.st.clusters, name)
		return nil, nil
	})
	return err
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
