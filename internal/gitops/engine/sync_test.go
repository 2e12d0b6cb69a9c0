package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devcanvas-labs/argocd-emulator/internal/config"
	"github.com/devcanvas-labs/argocd-emulator/internal/errors"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/external"
)

// blockingSyncer parks ApplyManifests until released so tests can observe a
// running operation deterministically
type blockingSyncer struct {
	release chan struct{}
	applied chan struct{}
}

func newBlockingSyncer() *blockingSyncer {
	return &blockingSyncer{
		release: make(chan struct{}),
		applied: make(chan struct{}, 16),
	}
}

func (b *blockingSyncer) RunHook(ctx context.Context, _ string, _ gitops.Hook) error {
	return ctx.Err()
}

func (b *blockingSyncer) ApplyManifests(ctx context.Context, appName, _ string) ([]gitops.ResourceResult, error) {
	b.applied <- struct{}{}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-b.release:
		return []gitops.ResourceResult{{Kind: "Deployment", Name: appName, Status: "Synced"}}, nil
	}
}

func (b *blockingSyncer) waitApplying(t *testing.T) {
	t.Helper()
	select {
	case <-b.applied:
	case <-time.After(5 * time.Second):
		t.Fatal("operation never reached the apply step")
	}
}

func TestSyncLifecycle(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")
	h.resolver.SetRevision(testRepoURL, "abc123")

	app := &gitops.Application{
		Name:           "guestbook",
		Namespace:      "default",
		Repository:     "deployments",
		Path:           "apps/guestbook",
		TargetRevision: "main",
		SyncPolicy:     gitops.SyncPolicy{Type: gitops.SyncPolicyManual},
		Hooks: []gitops.Hook{
			{Name: "db-migrate", Kind: "Job", Phase: gitops.PhasePreSync},
			{Name: "smoke-test", Kind: "Job", Phase: gitops.PhasePostSync},
			{Name: "warm-cache", Kind: "Job", Phase: gitops.PhaseSync},
		},
	}
	_, err := h.engine.AddApplication(context.Background(), app)
	require.NoError(t, err)

	op, err := h.engine.StartSync(context.Background(), "guestbook", "alice")
	require.NoError(t, err)
	assert.Equal(t, gitops.OperationRunning, op.Status)
	assert.Equal(t, "alice", op.InitiatedBy)

	final := waitOp(t, h.engine, op.ID)
	assert.Equal(t, gitops.OperationSuccess, final.Status)
	assert.Equal(t, "abc123", final.Revision)
	assert.Len(t, final.Resources, 2)
	require.Len(t, final.Hooks, 3)
	// hook results are ordered by phase, then declaration order
	assert.Equal(t, "db-migrate", final.Hooks[0].Name)
	assert.Equal(t, "warm-cache", final.Hooks[1].Name)
	assert.Equal(t, "smoke-test", final.Hooks[2].Name)
	for _, hr := range final.Hooks {
		assert.Equal(t, gitops.HookSucceeded, hr.Status)
	}

	synced, err := h.engine.GetApplication("guestbook")
	require.NoError(t, err)
	assert.Equal(t, gitops.SyncStateSynced, synced.Status)
	assert.Equal(t, gitops.HealthHealthy, synced.Health)
	assert.Equal(t, "abc123", synced.Revision)
	require.Len(t, synced.History, 1)
	assert.Equal(t, "abc123", synced.History[0].Revision)
	assert.Equal(t, "alice", synced.History[0].DeployedBy)
}

func TestStartSyncUnknownApplication(t *testing.T) {
	h := newHarness(t, nil)
	_, err := h.engine.StartSync(context.Background(), "ghost", "alice")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestStartSyncConflictWhileRunning(t *testing.T) {
	syncer := newBlockingSyncer()
	h := newHarnessWithSyncer(t, syncer, nil)
	h.addRepo(t, "deployments")
	h.addApp(t, "guestbook", gitops.SyncPolicyManual)

	op, err := h.engine.StartSync(context.Background(), "guestbook", "alice")
	require.NoError(t, err)
	syncer.waitApplying(t)

	_, err = h.engine.StartSync(context.Background(), "guestbook", "bob")
	require.True(t, errors.IsConflictError(err))
	assert.Equal(t, op.ID, errors.GetErrorDetails(err)["operationId"])

	close(syncer.release)
	final := waitOp(t, h.engine, op.ID)
	assert.Equal(t, gitops.OperationSuccess, final.Status)

	// a new operation is admitted once the first finished
	op2, err := h.engine.StartSync(context.Background(), "guestbook", "bob")
	require.NoError(t, err)
	waitOp(t, h.engine, op2.ID)
}

func TestSyncHookFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")

	app := &gitops.Application{
		Name:       "guestbook",
		Repository: "deployments",
		SyncPolicy: gitops.SyncPolicy{Type: gitops.SyncPolicyManual},
		Hooks: []gitops.Hook{
			{Name: "db-migrate", Kind: "Job", Phase: gitops.PhasePreSync},
			{Name: "smoke-test", Kind: "Job", Phase: gitops.PhasePostSync},
			{Name: "cleanup", Kind: "Job", Phase: gitops.PhaseSyncFail},
		},
	}
	_, err := h.engine.AddApplication(context.Background(), app)
	require.NoError(t, err)
	h.syncer.FailHook("guestbook", "db-migrate")

	op, err := h.engine.StartSync(context.Background(), "guestbook", "alice")
	require.NoError(t, err)
	final := waitOp(t, h.engine, op.ID)

	assert.Equal(t, gitops.OperationFailed, final.Status)
	assert.Equal(t, gitops.PhasePreSync, final.Phase)
	assert.Contains(t, final.Error, "db-migrate")

	var hookStatus = map[string]gitops.HookStatus{}
	for _, hr := range final.Hooks {
		hookStatus[string(hr.Phase)+"/"+hr.Name] = hr.Status
	}
	assert.Equal(t, gitops.HookFailed, hookStatus["PreSync/db-migrate"])
	assert.Equal(t, gitops.HookPending, hookStatus["PostSync/smoke-test"])
	assert.Equal(t, gitops.HookSucceeded, hookStatus["SyncFail/cleanup"])

	degraded, err := h.engine.GetApplication("guestbook")
	require.NoError(t, err)
	assert.Equal(t, gitops.SyncStateDegraded, degraded.Status)
	assert.Equal(t, gitops.HealthDegraded, degraded.Health)
	assert.Empty(t, degraded.History)
}

func TestSyncApplyFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")
	h.addApp(t, "guestbook", gitops.SyncPolicyManual)
	h.syncer.FailApply("guestbook")

	op, err := h.engine.StartSync(context.Background(), "guestbook", "alice")
	require.NoError(t, err)
	final := waitOp(t, h.engine, op.ID)

	assert.Equal(t, gitops.OperationFailed, final.Status)
	assert.Equal(t, gitops.PhaseSync, final.Phase)
	assert.Contains(t, final.Error, "applying manifests")
}

func TestTerminateOperation(t *testing.T) {
	syncer := newBlockingSyncer()
	h := newHarnessWithSyncer(t, syncer, nil)
	h.addRepo(t, "deployments")
	h.addApp(t, "guestbook", gitops.SyncPolicyManual)

	op, err := h.engine.StartSync(context.Background(), "guestbook", "alice")
	require.NoError(t, err)
	syncer.waitApplying(t)

	terminated, err := h.engine.TerminateOperation(context.Background(), op.ID)
	require.NoError(t, err)
	assert.Equal(t, gitops.OperationFailed, terminated.Status)
	assert.Contains(t, terminated.Error, "terminated")

	app, err := h.engine.GetApplication("guestbook")
	require.NoError(t, err)
	assert.Equal(t, gitops.SyncStateDegraded, app.Status)
	assert.Empty(t, app.History)

	_, err = h.engine.TerminateOperation(context.Background(), op.ID)
	assert.True(t, errors.IsConflictError(err))
	_, err = h.engine.TerminateOperation(context.Background(), "no-such-op")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestDeleteApplicationCancelsRunningOperation(t *testing.T) {
	syncer := newBlockingSyncer()
	h := newHarnessWithSyncer(t, syncer, nil)
	h.addRepo(t, "deployments")
	h.addApp(t, "guestbook", gitops.SyncPolicyManual)

	op, err := h.engine.StartSync(context.Background(), "guestbook", "alice")
	require.NoError(t, err)
	syncer.waitApplying(t)

	require.NoError(t, h.engine.DeleteApplication(context.Background(), "guestbook"))

	cancelled, err := h.engine.GetSyncOperation(op.ID)
	require.NoError(t, err)
	assert.Equal(t, gitops.OperationFailed, cancelled.Status)
	assert.Contains(t, cancelled.Error, "cancelled")
}

func TestRollback(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")
	h.addApp(t, "guestbook", gitops.SyncPolicyManual)

	// nothing to roll back to yet
	_, err := h.engine.Rollback(context.Background(), "guestbook", "alice")
	assert.True(t, errors.IsConflictError(err))

	h.resolver.SetRevision(testRepoURL, "rev1")
	op, err := h.engine.StartSync(context.Background(), "guestbook", "alice")
	require.NoError(t, err)
	waitOp(t, h.engine, op.ID)

	h.resolver.SetRevision(testRepoURL, "rev2")
	op, err = h.engine.StartSync(context.Background(), "guestbook", "alice")
	require.NoError(t, err)
	waitOp(t, h.engine, op.ID)

	app, err := h.engine.GetApplication("guestbook")
	require.NoError(t, err)
	assert.Equal(t, "rev2", app.Revision)
	require.Len(t, app.History, 2)

	rb, err := h.engine.Rollback(context.Background(), "guestbook", "alice")
	require.NoError(t, err)
	final := waitOp(t, h.engine, rb.ID)
	assert.Equal(t, gitops.OperationSuccess, final.Status)
	assert.Equal(t, "rev1", final.Revision)

	app, err = h.engine.GetApplication("guestbook")
	require.NoError(t, err)
	assert.Equal(t, "rev1", app.Revision)
	assert.Equal(t, gitops.SyncStateSynced, app.Status)
	require.Len(t, app.History, 3)
	assert.Equal(t, []string{"rev1", "rev2", "rev1"}, []string{
		app.History[0].Revision, app.History[1].Revision, app.History[2].Revision,
	})

	// rolling back again targets rev2
	rb, err = h.engine.Rollback(context.Background(), "guestbook", "alice")
	require.NoError(t, err)
	final = waitOp(t, h.engine, rb.ID)
	assert.Equal(t, "rev2", final.Revision)
}

func TestRollbackToCurrentRevisionRejected(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")
	h.addApp(t, "guestbook", gitops.SyncPolicyManual)

	h.resolver.SetRevision(testRepoURL, "rev1")
	for i := 0; i < 2; i++ {
		op, err := h.engine.StartSync(context.Background(), "guestbook", "alice")
		require.NoError(t, err)
		waitOp(t, h.engine, op.ID)
	}

	_, err := h.engine.Rollback(context.Background(), "guestbook", "alice")
	assert.True(t, errors.IsConflictError(err))
}

func TestHistoryCapped(t *testing.T) {
	h := newHarness(t, func(cfg *config.Config) { cfg.HistoryLimit = 3 })
	h.addRepo(t, "deployments")
	h.addApp(t, "guestbook", gitops.SyncPolicyManual)

	for i := 0; i < 5; i++ {
		h.resolver.SetRevision(testRepoURL, fmt.Sprintf("rev%d", i))
		op, err := h.engine.StartSync(context.Background(), "guestbook", "alice")
		require.NoError(t, err)
		waitOp(t, h.engine, op.ID)
	}

	app, err := h.engine.GetApplication("guestbook")
	require.NoError(t, err)
	require.Len(t, app.History, 3)
	assert.Equal(t, "rev4", app.History[0].Revision)
	assert.Equal(t, "rev2", app.History[2].Revision)
}

func TestManualSyncBlockedByDenyWindow(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")
	h.addApp(t, "guestbook", gitops.SyncPolicyManual)

	_, err := h.engine.AddSyncWindow(context.Background(), &gitops.SyncWindow{
		Name:     "freeze",
		Schedule: "* * * * *",
		Duration: 2,
		Kind:     gitops.WindowDeny,
		Enabled:  true,
	})
	require.NoError(t, err)

	_, err = h.engine.StartSync(context.Background(), "guestbook", "alice")
	require.True(t, errors.IsPolicyDeniedError(err))
	assert.Contains(t, err.Error(), "freeze")

	// manualSync on the window lets manual syncs through
	_, err = h.engine.UpdateSyncWindow(context.Background(), &gitops.SyncWindow{
		Name:       "freeze",
		Schedule:   "* * * * *",
		Duration:   2,
		Kind:       gitops.WindowDeny,
		ManualSync: true,
		Enabled:    true,
	})
	require.NoError(t, err)

	op, err := h.engine.StartSync(context.Background(), "guestbook", "alice")
	require.NoError(t, err)
	final := waitOp(t, h.engine, op.ID)
	assert.Equal(t, gitops.OperationSuccess, final.Status)
}

func TestSyncNotifications(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")
	h.addApp(t, "guestbook", gitops.SyncPolicyManual)

	_, err := h.engine.AddChannel(context.Background(), &gitops.NotificationChannel{
		Name:    "deploys",
		Type:    gitops.ChannelSlack,
		Enabled: true,
		Config: gitops.ChannelConfig{
			Slack: &gitops.SlackConfig{Token: "xoxb-1", Channel: "#deploys"},
		},
		Triggers: []gitops.Trigger{
			{Event: gitops.EventSyncStarted},
			{Event: gitops.EventSyncSucceeded},
		},
	})
	require.NoError(t, err)

	op, err := h.engine.StartSync(context.Background(), "guestbook", "alice")
	require.NoError(t, err)
	waitOp(t, h.engine, op.ID)

	require.Eventually(t, func() bool {
		return len(h.transport.Sent()) >= 2
	}, 5*time.Second, 5*time.Millisecond)

	events := map[gitops.Event]bool{}
	for _, sent := range h.transport.Sent() {
		events[sent.Event] = true
	}
	assert.True(t, events[gitops.EventSyncStarted])
	assert.True(t, events[gitops.EventSyncSucceeded])

	records := h.engine.ListDispatches()
	require.NotEmpty(t, records)
	for _, rec := range records {
		assert.True(t, rec.OK)
		assert.Equal(t, "deploys", rec.Channel)
	}
}

var _ external.SyncSimulator = (*blockingSyncer)(nil)
