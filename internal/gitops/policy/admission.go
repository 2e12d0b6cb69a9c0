package policy

import (
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/devcanvas-labs/argocd-emulator/internal/errors"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/schedule"
)

// ValidateName checks that a name is a valid DNS-1123 label
func ValidateName(name string) *errors.ValidationResult {
	res := errors.OK()
	if name == "" {
		res.AddError("name is required")
		return res
	}
	for _, msg := range validation.IsDNS1123Label(name) {
		res.AddError("invalid name %q: %s", name, msg)
	}
	return res
}

// ResolveRepository resolves an application's repository reference, by name or
// by URL, against the configured repositories
func ResolveRepository(ref string, repos map[string]*gitops.Repository) *gitops.Repository {
	if repo, ok := repos[ref]; ok {
		return repo
	}
	for _, repo := range repos {
		if repo.URL == ref {
			return repo
		}
	}
	return nil
}

// ValidateApplication performs the admission-time referential checks of an
// application: valid DNS-1123 name, resolvable repository reference, chart set
// for helm repositories, and project allow-lists satisfied.
func ValidateApplication(app *gitops.Application, repos map[string]*gitops.Repository, projects map[string]*gitops.Project) *errors.ValidationResult {
	res := ValidateName(app.Name)

	repo := ResolveRepository(app.Repository, repos)
	if repo == nil {
		res.AddError("repository %q does not resolve to a configured repository by name or URL", app.Repository)
	} else if repo.Type == gitops.RepoTypeHelm && (app.Helm == nil || app.Helm.Chart == "") {
		res.AddError("repository %q is a helm repository, helm.chart must be set", repo.Name)
	}

	switch app.SyncPolicy.Type {
	case gitops.SyncPolicyManual, gitops.SyncPolicyAutomated, gitops.SyncPolicyWindow:
	case "":
		res.AddError("syncPolicy.type is required")
	default:
		res.AddError("unknown syncPolicy.type %q", app.SyncPolicy.Type)
	}
	if app.SyncPolicy.Type == gitops.SyncPolicyAutomated && app.SyncPolicy.Automated == nil {
		res.AddWarning("automated sync policy without options, prune and selfHeal default to false")
	}

	if app.Project != "" {
		proj, ok := projects[app.Project]
		if !ok {
			res.AddError("project %q is not configured", app.Project)
		} else if repo != nil {
			if !projectAllowsSource(proj, repo.URL) {
				res.AddError("project %q does not permit source repository %q", proj.Name, repo.URL)
			}
			if !projectAllowsDestination(proj, app.Destination) {
				res.AddError("project %q does not permit destination %s/%s", proj.Name, app.Destination.Server, app.Destination.Namespace)
			}
		}
	}

	return res
}

// ValidateSyncWindow performs configuration-time checks on a sync window so
// that schedule evaluation never fails later
func ValidateSyncWindow(w *gitops.SyncWindow, parse func(string) error) *errors.ValidationResult {
	res := ValidateName(w.Name)
	if w.Kind != gitops.WindowAllow && w.Kind != gitops.WindowDeny {
		res.AddError("window kind must be allow or deny, got %q", w.Kind)
	}
	if err := parse(w.Schedule); err != nil {
		res.AddError("invalid schedule: %v", err)
	} else if !schedule.IsDailyRange(w.Schedule) && w.Duration <= 0 {
		res.AddWarning("cron schedule without a duration never opens")
	}
	if w.Duration < 0 {
		res.AddError("duration must not be negative")
	}
	return res
}

func projectAllowsSource(proj *gitops.Project, repoURL string) bool {
	if len(proj.SourceRepos) == 0 {
		return true
	}
	for _, pat := range proj.SourceRepos {
		if globMatch(pat, repoURL) {
			return true
		}
	}
	return false
}

func projectAllowsDestination(proj *gitops.Project, dest gitops.Destination) bool {
	if len(proj.Destinations) == 0 {
		return true
	}
	for _, d := range proj.Destinations {
		if globMatch(d.Server, dest.Server) && globMatch(d.Namespace, dest.Namespace) {
			return true
		}
	}
	return false
}
