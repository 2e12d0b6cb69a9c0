package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/devcanvas-labs/argocd-emulator/internal/errors"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/policy"
)

// InitiatorAutomation marks operations started by the reconciler itself
// rather than by a user
const InitiatorAutomation = "automation"

// StartSync begins a sync operation for the application. At most one
// operation per application runs at a time; a second start is a conflict.
// The returned operation snapshot has status running; completion is observed
// through GetSyncOperation.
func (e *Engine) StartSync(ctx context.Context, appName, initiatedBy string) (*gitops.SyncOperation, error) {
	val, err := e.do(ctx, "start-sync", func() (interface{}, error) {
		return e.startSyncLocked(appName, initiatedBy, "")
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.SyncOperation), nil
}

// startSyncLocked admits and launches one sync operation. pinned, when set,
// bypasses revision resolution; rollback uses it to target a history entry.
func (e *Engine) startSyncLocked(appName, initiatedBy, pinned string) (*gitops.SyncOperation, error) {
	app, ok := e.st.apps[appName]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("application %q not found", appName), nil)
	}
	if r, ok := e.st.running[appName]; ok {
		return nil, errors.NewConflictError(
			fmt.Sprintf("application %q already has a running sync operation", appName),
			map[string]interface{}{"operationId": r.id})
	}

	now := e.clock.Now()
	windows := e.st.windowList()
	if initiatedBy == InitiatorAutomation {
		res := policy.ValidateSyncPolicy(e.eval, app.SyncPolicy, windows, app.Name, app.Project, now)
		if !res.Valid {
			return nil, errors.NewPolicyDeniedError(res.Errors[0], nil)
		}
	} else {
		if allowed, blocking := policy.CanManualSync(e.eval, windows, app.Name, app.Project, now); !allowed {
			msg := "manual sync is not permitted by the configured sync windows"
			if blocking != "" {
				msg = fmt.Sprintf("manual sync is blocked by sync window %q", blocking)
			}
			return nil, errors.NewPolicyDeniedError(msg, map[string]interface{}{"window": blocking})
		}
	}

	if initiatedBy == "" {
		initiatedBy = "manual"
	}
	op := &gitops.SyncOperation{
		ID:          uuid.NewString(),
		Application: app.Name,
		Status:      gitops.OperationRunning,
		Phase:       gitops.PhasePreSync,
		Revision:    pinned,
		InitiatedBy: initiatedBy,
		StartedAt:   now,
	}
	for _, phase := range []gitops.HookPhase{gitops.PhasePreSync, gitops.PhaseSync, gitops.PhasePostSync} {
		for _, h := range app.Hooks {
			if h.Phase == phase {
				op.Hooks = append(op.Hooks, gitops.HookResult{Name: h.Name, Phase: phase, Status: gitops.HookPending})
			}
		}
	}

	app.Status = gitops.SyncStateProgressing
	app.Health = gitops.HealthProgressing

	repoURL := app.Repository
	if repo := policy.ResolveRepository(app.Repository, e.st.repos); repo != nil {
		repoURL = repo.URL
	}
	targetRevision := app.TargetRevision
	if targetRevision == "" {
		targetRevision = "HEAD"
	}

	opCtx, cancel := context.WithTimeout(context.Background(), e.cfg.OperationTimeout)
	e.st.ops[op.ID] = op
	e.st.running[app.Name] = &runningOp{id: op.ID, cancel: cancel}

	hooks := append([]gitops.Hook(nil), app.Hooks...)
	go e.executeSync(opCtx, cancel, op.ID, app.Name, repoURL, targetRevision, pinned, hooks)

	e.emit(gitops.EventSyncStarted, map[string]string{
		"app":         app.Name,
		"project":     app.Project,
		"initiatedBy": initiatedBy,
	})
	e.log.WithField("app", app.Name).WithField("operation", op.ID).Info("Sync operation started")
	return copyOp(op), nil
}

// executeSync walks one operation through its phases outside the actor.
// Every state change is posted back as a command; if the operation was
// aborted in the meantime the posts find it no longer running and do nothing.
func (e *Engine) executeSync(ctx context.Context, cancel context.CancelFunc, opID, appName, repoURL, targetRevision, pinned string, hooks []gitops.Hook) {
	defer cancel()

	fail := func(phase gitops.HookPhase, err error) {
		e.runSyncFailHooks(ctx, opID, appName, hooks)
		e.postCompletion(opID, appName, "", nil, phase, err)
	}

	if err := e.runHookPhase(ctx, opID, appName, gitops.PhasePreSync, hooks); err != nil {
		fail(gitops.PhasePreSync, err)
		return
	}

	revision := pinned
	if revision == "" {
		var err error
		revision, err = e.resolver.LatestRevision(ctx, repoURL, targetRevision)
		if err != nil {
			fail(gitops.PhaseSync, fmt.Errorf("resolving revision %q: %w", targetRevision, err))
			return
		}
	}

	e.postPhase(opID, gitops.PhaseSync)
	resources, err := e.syncer.ApplyManifests(ctx, appName, revision)
	if err != nil {
		fail(gitops.PhaseSync, fmt.Errorf("applying manifests: %w", err))
		return
	}
	if err := e.runHookPhase(ctx, opID, appName, gitops.PhaseSync, hooks); err != nil {
		fail(gitops.PhaseSync, err)
		return
	}

	if err := e.runHookPhase(ctx, opID, appName, gitops.PhasePostSync, hooks); err != nil {
		fail(gitops.PhasePostSync, err)
		return
	}

	e.postCompletion(opID, appName, revision, resources, "", nil)
}

// runHookPhase runs the hooks of one phase in declaration order; the first
// failure aborts the phase
func (e *Engine) runHookPhase(ctx context.Context, opID, appName string, phase gitops.HookPhase, hooks []gitops.Hook) error {
	for _, h := range hooks {
		if h.Phase != phase {
			continue
		}
		e.postHookStatus(opID, phase, h.Name, gitops.HookRunning, "")
		if err := e.syncer.RunHook(ctx, appName, h); err != nil {
			e.postHookStatus(opID, phase, h.Name, gitops.HookFailed, err.Error())
			return fmt.Errorf("hook %q failed in phase %s: %w", h.Name, phase, err)
		}
		e.postHookStatus(opID, phase, h.Name, gitops.HookSucceeded, "")
	}
	return nil
}

// runSyncFailHooks runs the SyncFail hooks of a failing operation. Their own
// failures are recorded but change nothing further.
func (e *Engine) runSyncFailHooks(ctx context.Context, opID, appName string, hooks []gitops.Hook) {
	for _, h := range hooks {
		if h.Phase != gitops.PhaseSyncFail {
			continue
		}
		if err := e.syncer.RunHook(ctx, appName, h); err != nil {
			e.postSyncFailHookResult(opID, h.Name, gitops.HookFailed, err.Error())
		} else {
			e.postSyncFailHookResult(opID, h.Name, gitops.HookSucceeded, "")
		}
	}
}

func (e *Engine) postPhase(opID string, phase gitops.HookPhase) {
	e.post("sync-phase", func() (interface{}, error) {
		if op, ok := e.st.ops[opID]; ok && op.Status == gitops.OperationRunning {
			op.Phase = phase
		}
		return nil, nil
	})
}

func (e *Engine) postHookStatus(opID string, phase gitops.HookPhase, hookName string, status gitops.HookStatus, message string) {
	e.post("sync-hook", func() (interface{}, error) {
		op, ok := e.st.ops[opID]
		if !ok || op.Status != gitops.OperationRunning {
			return nil, nil
		}
		op.Phase = phase
		for i := range op.Hooks {
			if op.Hooks[i].Name == hookName && op.Hooks[i].Phase == phase {
				op.Hooks[i].Status = status
				op.Hooks[i].Message = message
			}
		}
		return nil, nil
	})
}

func (e *Engine) postSyncFailHookResult(opID, hookName string, status gitops.HookStatus, message string) {
	e.post("sync-fail-hook", func() (interface{}, error) {
		op, ok := e.st.ops[opID]
		if !ok || op.Status != gitops.OperationRunning {
			return nil, nil
		}
		op.Hooks = append(op.Hooks, gitops.HookResult{
			Name:    hookName,
			Phase:   gitops.PhaseSyncFail,
			Status:  status,
			Message: message,
		})
		return nil, nil
	})
}

func (e *Engine) postCompletion(opID, appName, revision string, resources []gitops.ResourceResult, failPhase gitops.HookPhase, failErr error) {
	e.post("sync-complete", func() (interface{}, error) {
		e.finishSyncLocked(opID, appName, revision, resources, failPhase, failErr)
		return nil, nil
	})
}

// finishSyncLocked commits the outcome of one operation. An operation aborted
// in the meantime is left untouched: its verdict was already written.
func (e *Engine) finishSyncLocked(opID, appName, revision string, resources []gitops.ResourceResult, failPhase gitops.HookPhase, failErr error) {
	op, ok := e.st.ops[opID]
	if !ok || op.Status != gitops.OperationRunning {
		return
	}
	if r, ok := e.st.running[appName]; ok && r.id == opID {
		delete(e.st.running, appName)
	}

	now := e.clock.Now()
	op.FinishedAt = &now
	app := e.st.apps[appName]

	if failErr != nil {
		op.Status = gitops.OperationFailed
		op.Phase = failPhase
		op.Error = failErr.Error()
		if app != nil {
			app.Status = gitops.SyncStateDegraded
			app.Health = gitops.HealthDegraded
		}
		e.emit(gitops.EventSyncFailed, map[string]string{
			"app":   appName,
			"error": failErr.Error(),
			"phase": string(failPhase),
		})
		e.emit(gitops.EventHealthDegraded, map[string]string{"app": appName})
		e.log.WithField("app", appName).WithField("operation", opID).WithError(failErr).Warn("Sync operation failed")
		return
	}

	op.Status = gitops.OperationSuccess
	op.Phase = gitops.PhasePostSync
	op.Revision = revision
	op.Resources = resources
	if app != nil {
		app.Status = gitops.SyncStateSynced
		app.Health = gitops.HealthHealthy
		app.Revision = revision
		app.History = append([]gitops.History{{
			Revision:   revision,
			DeployedAt: now,
			DeployedBy: op.InitiatedBy,
		}}, app.History...)
		if len(app.History) > e.cfg.HistoryLimit {
			app.History = app.History[:e.cfg.HistoryLimit]
		}
	}
	e.emit(gitops.EventSyncSucceeded, map[string]string{
		"app":      appName,
		"revision": revision,
	})
	e.log.WithField("app", appName).WithField("operation", opID).WithField("revision", revision).Info("Sync operation succeeded")
}

// TerminateOperation force-fails a running operation; the application is left
// degraded and no history entry is committed
func (e *Engine) TerminateOperation(ctx context.Context, opID string) (*gitops.SyncOperation, error) {
	val, err := e.do(ctx, "terminate-operation", func() (interface{}, error) {
		op, ok := e.st.ops[opID]
		if !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("operation %q not found", opID), nil)
		}
		if op.Status != gitops.OperationRunning {
			return nil, errors.NewConflictError(fmt.Sprintf("operation %q is not running", opID), nil)
		}
		e.abortRunningLocked(op.Application, "terminated by user")
		if app, ok := e.st.apps[op.Application]; ok {
			app.Status = gitops.SyncStateDegraded
			app.Health = gitops.HealthDegraded
		}
		return copyOp(op), nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.SyncOperation), nil
}

// Rollback redeploys the previous history entry. It requires at least two
// history entries and rejects rolling back to the currently deployed revision.
func (e *Engine) Rollback(ctx context.Context, appName, initiatedBy string) (*gitops.SyncOperation, error) {
	val, err := e.do(ctx, "rollback", func() (interface{}, error) {
		app, ok := e.st.apps[appName]
		if !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("application %q not found", appName), nil)
		}
		if len(app.History) < 2 {
			return nil, errors.NewConflictError(
				fmt.Sprintf("application %q has no previous deployment to roll back to", appName), nil)
		}
		target := app.History[1].Revision
		if target == app.Revision {
			return nil, errors.NewConflictError(
				fmt.Sprintf("application %q is already at revision %q", appName, target), nil)
		}
		op, err := e.startSyncLocked(appName, initiatedBy, target)
		if err != nil {
			return nil, err
		}
		app.TargetRevision = target
		return op, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.SyncOperation), nil
}

// RefreshApplication re-evaluates drift for one application immediately
// instead of waiting for the next tick
func (e *Engine) RefreshApplication(ctx context.Context, appName string) (*gitops.Application, error) {
	val, err := e.do(ctx, "refresh-application", func() (interface{}, error) {
		app, ok := e.st.apps[appName]
		if !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("application %q not found", appName), nil)
		}
		e.detectDriftLocked(ctx, app)
		return copyApp(app), nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.Application), nil
}
