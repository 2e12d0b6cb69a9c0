package engine

import (
	"context"
	"sort"

	"github.com/devcanvas-labs/argocd-emulator/internal/errors"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/policy"
)

// tick runs one reconciliation pass: application sets are re-expanded, drift
// is detected, and automated sync policies are acted on. Ticks are idempotent;
// a missed tick is not observable beyond latency.
func (e *Engine) tick(ctx context.Context) {
	setNames := make([]string, 0, len(e.st.appsets))
	for name := range e.st.appsets {
		setNames = append(setNames, name)
	}
	sort.Strings(setNames)
	for _, name := range setNames {
		e.regenerateLocked(ctx, e.st.appsets[name])
	}

	appNames := make([]string, 0, len(e.st.apps))
	for name := range e.st.apps {
		appNames = append(appNames, name)
	}
	sort.Strings(appNames)
	for _, name := range appNames {
		app, ok := e.st.apps[name]
		if !ok {
			continue
		}
		e.detectDriftLocked(ctx, app)
		e.maybeAutoSyncLocked(app)
	}
}

// detectDriftLocked compares the deployed revision of a synced application
// against what its target currently resolves to. Drift only ever moves
// synced to outofsync; the reverse transition happens through a completed
// sync operation.
func (e *Engine) detectDriftLocked(ctx context.Context, app *gitops.Application) {
	if app.Status != gitops.SyncStateSynced {
		return
	}
	if _, busy := e.st.running[app.Name]; busy {
		return
	}

	repoURL := app.Repository
	if repo := policy.ResolveRepository(app.Repository, e.st.repos); repo != nil {
		repoURL = repo.URL
	}
	targetRevision := app.TargetRevision
	if targetRevision == "" {
		targetRevision = "HEAD"
	}
	latest, err := e.resolver.LatestRevision(ctx, repoURL, targetRevision)
	if err != nil {
		e.log.WithField("app", app.Name).WithError(err).Debug("Revision lookup failed, skipping drift check")
		return
	}
	if latest == app.Revision {
		return
	}

	app.Status = gitops.SyncStateOutOfSync
	e.emit(gitops.EventAppOutOfSync, map[string]string{
		"app":      app.Name,
		"revision": latest,
	})
	e.log.WithField("app", app.Name).WithField("revision", latest).Info("Application drifted out of sync")
}

// maybeAutoSyncLocked starts an automated sync when the application's policy
// calls for one: always for out-of-sync applications, and for degraded ones
// only when selfHeal is set. A closed window just defers to a later tick.
func (e *Engine) maybeAutoSyncLocked(app *gitops.Application) {
	if app.SyncPolicy.Type != gitops.SyncPolicyAutomated {
		return
	}
	if _, busy := e.st.running[app.Name]; busy {
		return
	}

	selfHeal := app.SyncPolicy.Automated != nil && app.SyncPolicy.Automated.SelfHeal
	switch app.Status {
	case gitops.SyncStateOutOfSync:
	case gitops.SyncStateDegraded:
		if !selfHeal {
			return
		}
	default:
		return
	}

	if _, err := e.startSyncLocked(app.Name, InitiatorAutomation, ""); err != nil {
		if errors.IsPolicyDeniedError(err) {
			e.log.WithField("app", app.Name).Debug("Automated sync deferred by sync windows")
		} else {
			e.log.WithField("app", app.Name).WithError(err).Warn("Automated sync failed to start")
		}
	}
}
