package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/external"
)

// LoadSeed reads declarative state from the store and admits it through the
// normal validation path, in dependency order. Invalid entries are logged and
// skipped; seeding never aborts. Run must already be draining commands.
func (e *Engine) LoadSeed(ctx context.Context, store external.ConfigStore) error {
	seed, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading seed state: %w", err)
	}

	_, err = e.do(ctx, "load-seed", func() (interface{}, error) {
		for _, c := range seed.Clusters {
			if _, err := e.addClusterLocked(c); err != nil {
				e.log.WithField("cluster", c.Name).WithError(err).Warn("Skipping seed cluster")
			}
		}
		for _, repo := range seed.Repositories {
			if _, err := e.addRepositoryLocked(repo); err != nil {
				e.log.WithField("repository", repo.Name).WithError(err).Warn("Skipping seed repository")
			}
		}
		for _, proj := range seed.Projects {
			if _, err := e.addProjectLocked(proj); err != nil {
				e.log.WithField("project", proj.Name).WithError(err).Warn("Skipping seed project")
			}
		}
		for _, role := range seed.Roles {
			if _, err := e.addRoleLocked(role); err != nil {
				e.log.WithField("role", role.Name).WithError(err).Warn("Skipping seed role")
			}
		}
		for _, ch := range seed.Channels {
			if _, err := e.addChannelLocked(ch); err != nil {
				e.log.WithField("channel", ch.Name).WithError(err).Warn("Skipping seed channel")
			}
		}
		for _, w := range seed.SyncWindows {
			if _, err := e.addSyncWindowLocked(w); err != nil {
				e.log.WithField("window", w.Name).WithError(err).Warn("Skipping seed sync window")
			}
		}
		for _, app := range seed.Applications {
			if _, err := e.addApplicationLocked(app); err != nil {
				e.log.WithField("app", app.Name).WithError(err).Warn("Skipping seed application")
			}
		}
		for _, set := range seed.ApplicationSets {
			if _, err := e.addApplicationSetLocked(ctx, set); err != nil {
				e.log.WithField("applicationset", set.Name).WithError(err).Warn("Skipping seed application set")
			}
		}
		return nil, nil
	})
	return err
}

// ExportState captures the current declarative state for persistence
func (e *Engine) ExportState() *gitops.SeedState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := &gitops.SeedState{}
	for _, c := range e.st.clusterList() {
		out.Clusters = append(out.Clusters, copyCluster(c))
	}
	for _, name := range sortedKeys(e.st.repos) {
		out.Repositories = append(out.Repositories, copyRepo(e.st.repos[name]))
	}
	for _, name := range sortedKeys(e.st.projects) {
		out.Projects = append(out.Projects, copyProject(e.st.projects[name]))
	}
	for _, name := range sortedKeys(e.st.roles) {
		out.Roles = append(out.Roles, copyRole(e.st.roles[name]))
	}
	out.Channels = e.st.channelList()
	for _, w := range e.st.windowList() {
		out.SyncWindows = append(out.SyncWindows, copyWindow(w))
	}
	for _, name := range sortedKeys(e.st.apps) {
		out.Applications = append(out.Applications, copyApp(e.st.apps[name]))
	}
	for _, name := range sortedKeys(e.st.appsets) {
		out.ApplicationSets = append(out.ApplicationSets, copyAppSet(e.st.appsets[name]))
	}
	return out
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
