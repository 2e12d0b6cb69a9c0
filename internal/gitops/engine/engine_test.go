package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devcanvas-labs/argocd-emulator/internal/config"
	"github.com/devcanvas-labs/argocd-emulator/internal/errors"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/external"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/notify"
)

const testRepoURL = "https://github.com/example/deployments.git"

type testHarness struct {
	engine    *Engine
	resolver  *external.FakeResolver
	syncer    *external.SimSyncer
	transport *external.RecordingTransport
}

// newHarness starts an engine on a real clock with zero simulated latencies.
// The run loop is stopped by t.Cleanup.
func newHarness(t *testing.T, mutate func(cfg *config.Config)) *testHarness {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	clock := clockwork.NewRealClock()
	resolver := external.NewFakeResolver()
	syncer := external.NewSimSyncer(clock, cfg.HookDuration, cfg.ApplyDuration)
	transport := external.NewRecordingTransport()
	eng := New(cfg, clock, resolver, syncer, notify.NewDispatcher(transport, clock))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		eng.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return &testHarness{engine: eng, resolver: resolver, syncer: syncer, transport: transport}
}

// newHarnessWithSyncer is newHarness with a custom sync simulator
func newHarnessWithSyncer(t *testing.T, syncer external.SyncSimulator, mutate func(cfg *config.Config)) *testHarness {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	clock := clockwork.NewRealClock()
	resolver := external.NewFakeResolver()
	transport := external.NewRecordingTransport()
	eng := New(cfg, clock, resolver, syncer, notify.NewDispatcher(transport, clock))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		eng.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return &testHarness{engine: eng, resolver: resolver, transport: transport}
}

func (h *testHarness) addRepo(t *testing.T, name string) *gitops.Repository {
	t.Helper()
	repo, err := h.engine.AddRepository(context.Background(), &gitops.Repository{
		Name: name,
		URL:  testRepoURL,
		Type: gitops.RepoTypeGit,
	})
	require.NoError(t, err)
	return repo
}

func (h *testHarness) addApp(t *testing.T, name string, policyType gitops.SyncPolicyType) *gitops.Application {
	t.Helper()
	app := &gitops.Application{
		Name:           name,
		Namespace:      "default",
		Repository:     "deployments",
		Path:           "apps/" + name,
		TargetRevision: "main",
		Destination:    gitops.Destination{Server: "https://kubernetes.default.svc", Namespace: name},
		SyncPolicy:     gitops.SyncPolicy{Type: policyType},
	}
	if policyType == gitops.SyncPolicyAutomated {
		app.SyncPolicy.Automated = &gitops.AutomatedPolicy{}
	}
	created, err := h.engine.AddApplication(context.Background(), app)
	require.NoError(t, err)
	return created
}

func TestAddApplication(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")

	app := h.addApp(t, "guestbook", gitops.SyncPolicyManual)
	assert.Equal(t, gitops.SyncStateOutOfSync, app.Status)
	assert.Equal(t, gitops.HealthMissing, app.Health)
	assert.Empty(t, app.History)
	assert.False(t, app.CreatedAt.IsZero())

	_, err := h.engine.AddApplication(context.Background(), &gitops.Application{
		Name:       "guestbook",
		Repository: "deployments",
		SyncPolicy: gitops.SyncPolicy{Type: gitops.SyncPolicyManual},
	})
	assert.True(t, errors.IsConflictError(err))
}

func TestAddApplicationValidation(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")

	tests := []struct {
		name string
		app  *gitops.Application
	}{
		{
			name: "invalid dns name",
			app: &gitops.Application{
				Name:       "Guestbook_App",
				Repository: "deployments",
				SyncPolicy: gitops.SyncPolicy{Type: gitops.SyncPolicyManual},
			},
		},
		{
			name: "unknown repository",
			app: &gitops.Application{
				Name:       "guestbook",
				Repository: "nowhere",
				SyncPolicy: gitops.SyncPolicy{Type: gitops.SyncPolicyManual},
			},
		},
		{
			name: "unknown project",
			app: &gitops.Application{
				Name:       "guestbook",
				Repository: "deployments",
				Project:    "ghost",
				SyncPolicy: gitops.SyncPolicy{Type: gitops.SyncPolicyManual},
			},
		},
		{
			name: "missing sync policy type",
			app: &gitops.Application{
				Name:       "guestbook",
				Repository: "deployments",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.engine.AddApplication(context.Background(), tt.app)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestUpdateApplicationPreservesObservedState(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")
	h.addApp(t, "guestbook", gitops.SyncPolicyManual)

	op, err := h.engine.StartSync(context.Background(), "guestbook", "alice")
	require.NoError(t, err)
	waitOp(t, h.engine, op.ID)

	updated, err := h.engine.UpdateApplication(context.Background(), &gitops.Application{
		Name:           "guestbook",
		Namespace:      "default",
		Repository:     "deployments",
		Path:           "apps/guestbook-v2",
		TargetRevision: "main",
		SyncPolicy:     gitops.SyncPolicy{Type: gitops.SyncPolicyManual},
	})
	require.NoError(t, err)
	assert.Equal(t, "apps/guestbook-v2", updated.Path)
	assert.Equal(t, gitops.SyncStateSynced, updated.Status)
	assert.Len(t, updated.History, 1)
}

func TestDeleteApplication(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")
	h.addApp(t, "guestbook", gitops.SyncPolicyManual)

	require.NoError(t, h.engine.DeleteApplication(context.Background(), "guestbook"))
	_, err := h.engine.GetApplication("guestbook")
	assert.True(t, errors.IsNotFoundError(err))

	err = h.engine.DeleteApplication(context.Background(), "guestbook")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestRepositoryLifecycle(t *testing.T) {
	h := newHarness(t, nil)

	repo, err := h.engine.AddRepository(context.Background(), &gitops.Repository{
		Name: "deployments",
		URL:  testRepoURL,
	})
	require.NoError(t, err)
	assert.Equal(t, gitops.RepoTypeGit, repo.Type)
	assert.Equal(t, gitops.ConnectionUnknown, repo.ConnectionStatus)

	_, err = h.engine.AddRepository(context.Background(), &gitops.Repository{Name: "deployments", URL: testRepoURL})
	assert.True(t, errors.IsConflictError(err))

	checked, err := h.engine.CheckRepositoryConnection(context.Background(), "deployments")
	require.NoError(t, err)
	assert.Equal(t, gitops.ConnectionSuccessful, checked.ConnectionStatus)

	h.resolver.SetFailing(testRepoURL, true)
	checked, err = h.engine.CheckRepositoryConnection(context.Background(), "deployments")
	require.NoError(t, err)
	assert.Equal(t, gitops.ConnectionFailed, checked.ConnectionStatus)
	h.resolver.SetFailing(testRepoURL, false)

	h.addApp(t, "guestbook", gitops.SyncPolicyManual)
	err = h.engine.DeleteRepository(context.Background(), "deployments")
	assert.True(t, errors.IsConflictError(err))

	require.NoError(t, h.engine.DeleteApplication(context.Background(), "guestbook"))
	require.NoError(t, h.engine.DeleteRepository(context.Background(), "deployments"))
}

func TestProjectAllowLists(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")
	_, err := h.engine.AddProject(context.Background(), &gitops.Project{
		Name:        "team-a",
		SourceRepos: []string{"https://github.com/example/*"},
		Destinations: []gitops.Destination{
			{Server: "*", Namespace: "team-a-*"},
		},
	})
	require.NoError(t, err)

	_, err = h.engine.AddApplication(context.Background(), &gitops.Application{
		Name:        "guestbook",
		Project:     "team-a",
		Repository:  "deployments",
		Destination: gitops.Destination{Server: "https://kubernetes.default.svc", Namespace: "prod"},
		SyncPolicy:  gitops.SyncPolicy{Type: gitops.SyncPolicyManual},
	})
	assert.True(t, errors.IsValidationError(err))

	_, err = h.engine.AddApplication(context.Background(), &gitops.Application{
		Name:        "guestbook",
		Project:     "team-a",
		Repository:  "deployments",
		Destination: gitops.Destination{Server: "https://kubernetes.default.svc", Namespace: "team-a-prod"},
		SyncPolicy:  gitops.SyncPolicy{Type: gitops.SyncPolicyManual},
	})
	require.NoError(t, err)

	err = h.engine.DeleteProject(context.Background(), "team-a")
	assert.True(t, errors.IsConflictError(err))
}

func TestRolesAndRBAC(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.engine.AddRole(context.Background(), &gitops.Role{
		Name: "operators",
		Policies: []gitops.Policy{
			{Action: "*", Resource: "*", Effect: gitops.EffectDeny, Object: "prod-*"},
			{Action: "sync", Resource: "applications", Effect: gitops.EffectAllow, Object: "*"},
		},
	})
	require.NoError(t, err)

	// first match wins even when a later rule is more specific
	effect, err := h.engine.CheckRBAC("operators", "sync", "applications", "prod-api")
	require.NoError(t, err)
	assert.Equal(t, gitops.EffectDeny, effect)

	effect, err = h.engine.CheckRBAC("operators", "sync", "applications", "staging-api")
	require.NoError(t, err)
	assert.Equal(t, gitops.EffectAllow, effect)

	_, err = h.engine.CheckRBAC("ghost", "sync", "applications", "x")
	assert.True(t, errors.IsNotFoundError(err))

	_, err = h.engine.AddRole(context.Background(), &gitops.Role{
		Name:     "broken",
		Policies: []gitops.Policy{{Action: "get", Resource: "applications", Effect: "maybe"}},
	})
	assert.True(t, errors.IsValidationError(err))
}

func TestChannelAdmission(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.engine.AddChannel(context.Background(), &gitops.NotificationChannel{
		Name:    "oncall",
		Type:    gitops.ChannelSlack,
		Enabled: true,
	})
	assert.True(t, errors.IsValidationError(err))

	_, err = h.engine.AddChannel(context.Background(), &gitops.NotificationChannel{
		Name:    "oncall",
		Type:    gitops.ChannelSlack,
		Enabled: true,
		Config: gitops.ChannelConfig{
			Slack: &gitops.SlackConfig{Token: "xoxb-1", Channel: "#deploys"},
		},
		Triggers: []gitops.Trigger{{Event: gitops.EventSyncFailed}},
	})
	require.NoError(t, err)

	channels := h.engine.ListChannels()
	require.Len(t, channels, 1)
	assert.Equal(t, "oncall", channels[0].Name)
}

func TestSyncWindowAdmission(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.engine.AddSyncWindow(context.Background(), &gitops.SyncWindow{
		Name:     "broken",
		Schedule: "25:00-26:00",
		Kind:     gitops.WindowDeny,
		Enabled:  true,
	})
	assert.True(t, errors.IsValidationError(err))

	_, err = h.engine.AddSyncWindow(context.Background(), &gitops.SyncWindow{
		Name:     "maintenance",
		Schedule: "22:00-06:00",
		Kind:     gitops.WindowDeny,
		Enabled:  true,
	})
	require.NoError(t, err)
	assert.Len(t, h.engine.ListSyncWindows(), 1)
}

func TestSeedLoadAndExport(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.yaml")
	seed := `
repositories:
  - name: deployments
    url: ` + testRepoURL + `
    type: git
projects:
  - name: team-a
applications:
  - name: guestbook
    namespace: default
    project: team-a
    repository: deployments
    path: apps/guestbook
    targetRevision: main
    syncPolicy:
      type: manual
  - name: broken app name
    repository: deployments
    syncPolicy:
      type: manual
`
	require.NoError(t, os.WriteFile(seedPath, []byte(seed), 0o644))

	h := newHarness(t, nil)
	store := external.NewFileStore(seedPath)
	require.NoError(t, h.engine.LoadSeed(context.Background(), store))

	apps := h.engine.ListApplications(ApplicationFilter{})
	require.Len(t, apps, 1)
	assert.Equal(t, "guestbook", apps[0].Name)
	assert.Len(t, h.engine.ListRepositories(), 1)
	assert.Len(t, h.engine.ListProjects(), 1)

	exported := h.engine.ExportState()
	assert.Len(t, exported.Applications, 1)
	assert.Len(t, exported.Repositories, 1)

	outPath := filepath.Join(dir, "out.yaml")
	require.NoError(t, external.NewFileStore(outPath).Save(context.Background(), exported))
	reloaded, err := external.NewFileStore(outPath).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, reloaded.Applications, 1)
}

func TestListApplicationsFilter(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")
	_, err := h.engine.AddProject(context.Background(), &gitops.Project{Name: "team-a"})
	require.NoError(t, err)

	h.addApp(t, "alpha", gitops.SyncPolicyManual)
	app := &gitops.Application{
		Name:        "beta",
		Project:     "team-a",
		Repository:  "deployments",
		Destination: gitops.Destination{Server: "https://kubernetes.default.svc", Namespace: "beta"},
		SyncPolicy:  gitops.SyncPolicy{Type: gitops.SyncPolicyManual},
	}
	_, err = h.engine.AddApplication(context.Background(), app)
	require.NoError(t, err)

	assert.Len(t, h.engine.ListApplications(ApplicationFilter{}), 2)
	byProject := h.engine.ListApplications(ApplicationFilter{Project: "team-a"})
	require.Len(t, byProject, 1)
	assert.Equal(t, "beta", byProject[0].Name)
	assert.Len(t, h.engine.ListApplications(ApplicationFilter{Status: gitops.SyncStateOutOfSync}), 2)
	assert.Empty(t, h.engine.ListApplications(ApplicationFilter{Health: gitops.HealthHealthy}))
}

// waitOp polls until the operation leaves the running state
func waitOp(t *testing.T, eng *Engine, opID string) *gitops.SyncOperation {
	t.Helper()
	var final *gitops.SyncOperation
	require.Eventually(t, func() bool {
		op, err := eng.GetSyncOperation(opID)
		if err != nil || op.Status == gitops.OperationRunning {
			return false
		}
		final = op
		return true
	}, 5*time.Second, 5*time.Millisecond)
	return final
}
