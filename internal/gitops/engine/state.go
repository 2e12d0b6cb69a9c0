package engine

import (
	"context"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

// state is the engine's authoritative in-memory model. Only the actor
// goroutine mutates it; readers copy out under the engine's read lock.
type state struct {
	apps     map[string]*gitops.Application
	repos    map[string]*gitops.Repository
	projects map[string]*gitops.Project
	roles    map[string]*gitops.Role
	channels map[string]*gitops.NotificationChannel
	windows  map[string]*gitops.SyncWindow
	appsets  map[string]*gitops.ApplicationSet
	clusters map[string]*gitops.Cluster
	ops      map[string]*gitops.SyncOperation

	// running tracks the single in-flight operation per application
	running map[string]*runningOp
}

type runningOp struct {
	id     string
	cancel context.CancelFunc
}

func newState() *state {
	return &state{
		apps:     make(map[string]*gitops.Application),
		repos:    make(map[string]*gitops.Repository),
		projects: make(map[string]*gitops.Project),
		roles:    make(map[string]*gitops.Role),
		channels: make(map[string]*gitops.NotificationChannel),
		windows:  make(map[string]*gitops.SyncWindow),
		appsets:  make(map[string]*gitops.ApplicationSet),
		clusters: make(map[string]*gitops.Cluster),
		ops:      make(map[string]*gitops.SyncOperation),
		running:  make(map[string]*runningOp),
	}
}

func (s *state) windowList() []*gitops.SyncWindow {
	out := make([]*gitops.SyncWindow, 0, len(s.windows))
	for _, name := range sortedKeys(s.windows) {
		out = append(out, s.windows[name])
	}
	return out
}

func (s *state) clusterList() []*gitops.Cluster {
	out := make([]*gitops.Cluster, 0, len(s.clusters))
	for _, name := range sortedKeys(s.clusters) {
		out = append(out, s.clusters[name])
	}
	return out
}

func (s *state) channelList() []*gitops.NotificationChannel {
	out := make([]*gitops.NotificationChannel, 0, len(s.channels))
	for _, name := range sortedKeys(s.channels) {
		out = append(out, copyChannel(s.channels[name]))
	}
	return out
}

func copyApp(app *gitops.Application) *gitops.Application {
	if app == nil {
		return nil
	}
	cp := *app
	cp.History = append([]gitops.History(nil), app.History...)
	cp.Hooks = append([]gitops.Hook(nil), app.Hooks...)
	if app.Helm != nil {
		helm := *app.Helm
		helm.Values = copyStringMap(app.Helm.Values)
		helm.ValueFiles = append([]string(nil), app.Helm.ValueFiles...)
		cp.Helm = &helm
	}
	if app.SyncPolicy.Automated != nil {
		automated := *app.SyncPolicy.Automated
		cp.SyncPolicy.Automated = &automated
	}
	return &cp
}

func copyOp(op *gitops.SyncOperation) *gitops.SyncOperation {
	if op == nil {
		return nil
	}
	cp := *op
	cp.Resources = append([]gitops.ResourceResult(nil), op.Resources...)
	cp.Hooks = append([]gitops.HookResult(nil), op.Hooks...)
	if op.FinishedAt != nil {
		finished := *op.FinishedAt
		cp.FinishedAt = &finished
	}
	return &cp
}

func copyRepo(repo *gitops.Repository) *gitops.Repository {
	if repo == nil {
		return nil
	}
	cp := *repo
	return &cp
}

func copyProject(proj *gitops.Project) *gitops.Project {
	if proj == nil {
		return nil
	}
	cp := *proj
	cp.SourceRepos = append([]string(nil), proj.SourceRepos...)
	cp.Destinations = append([]gitops.Destination(nil), proj.Destinations...)
	return &cp
}

func copyRole(role *gitops.Role) *gitops.Role {
	if role == nil {
		return nil
	}
	cp := *role
	cp.Policies = append([]gitops.Policy(nil), role.Policies...)
	cp.Groups = append([]string(nil), role.Groups...)
	return &cp
}

func copyChannel(ch *gitops.NotificationChannel) *gitops.NotificationChannel {
	if ch == nil {
		return nil
	}
	cp := *ch
	cp.Triggers = append([]gitops.Trigger(nil), ch.Triggers...)
	if ch.Config.Slack != nil {
		v := *ch.Config.Slack
		cp.Config.Slack = &v
	}
	if ch.Config.Email != nil {
		v := *ch.Config.Email
		v.Recipients = append([]string(nil), ch.Config.Email.Recipients...)
		cp.Config.Email = &v
	}
	if ch.Config.PagerDuty != nil {
		v := *ch.Config.PagerDuty
		cp.Config.PagerDuty = &v
	}
	if ch.Config.Webhook != nil {
		v := *ch.Config.Webhook
		cp.Config.Webhook = &v
	}
	if ch.Config.Opsgenie != nil {
		v := *ch.Config.Opsgenie
		cp.Config.Opsgenie = &v
	}
	if ch.Config.MSTeams != nil {
		v := *ch.Config.MSTeams
		cp.Config.MSTeams = &v
	}
	return &cp
}

func copyWindow(w *gitops.SyncWindow) *gitops.SyncWindow {
	if w == nil {
		return nil
	}
	cp := *w
	cp.Applications = append([]string(nil), w.Applications...)
	cp.Projects = append([]string(nil), w.Projects...)
	return &cp
}

func copyAppSet(set *gitops.ApplicationSet) *gitops.ApplicationSet {
	if set == nil {
		return nil
	}
	cp := *set
	cp.Generators = make([]gitops.Generator, 0, len(set.Generators))
	for _, gen := range set.Generators {
		cp.Generators = append(cp.Generators, copyGenerator(gen))
	}
	cp.GeneratedApplications = append([]string(nil), set.GeneratedApplications...)
	if set.SyncPolicy.Automated != nil {
		automated := *set.SyncPolicy.Automated
		cp.SyncPolicy.Automated = &automated
	}
	return &cp
}

func copyGenerator(gen gitops.Generator) gitops.Generator {
	var cp gitops.Generator
	if gen.List != nil {
		list := gitops.ListGenerator{Elements: make([]map[string]string, 0, len(gen.List.Elements))}
		for _, el := range gen.List.Elements {
			list.Elements = append(list.Elements, copyStringMap(el))
		}
		cp.List = &list
	}
	if gen.Git != nil {
		git := *gen.Git
		git.Directories = append([]gitops.GitDirectory(nil), gen.Git.Directories...)
		git.Files = append([]gitops.GitFile(nil), gen.Git.Files...)
		cp.Git = &git
	}
	if gen.Clusters != nil {
		clusters := *gen.Clusters
		clusters.Selector.MatchLabels = copyStringMap(gen.Clusters.Selector.MatchLabels)
		clusters.Values = copyStringMap(gen.Clusters.Values)
		cp.Clusters = &clusters
	}
	return cp
}

func copyCluster(c *gitops.Cluster) *gitops.Cluster {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Labels = copyStringMap(c.Labels)
	return &cp
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
