package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devcanvas-labs/argocd-emulator/internal/errors"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

func listAppSet(name string, envs ...string) *gitops.ApplicationSet {
	elements := make([]map[string]string, 0, len(envs))
	for _, env := range envs {
		elements = append(elements, map[string]string{"env": env})
	}
	return &gitops.ApplicationSet{
		Name:       name,
		Enabled:    true,
		Generators: []gitops.Generator{{List: &gitops.ListGenerator{Elements: elements}}},
		Template: gitops.AppTemplate{
			Name:           "app-{{env}}",
			Namespace:      "{{env}}",
			Repository:     "deployments",
			Path:           "envs/{{env}}",
			TargetRevision: "main",
			Destination:    gitops.Destination{Server: "https://kubernetes.default.svc", Namespace: "{{env}}"},
		},
		SyncPolicy: gitops.SyncPolicy{Type: gitops.SyncPolicyManual},
	}
}

func TestApplicationSetExpansion(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")

	set, err := h.engine.AddApplicationSet(context.Background(), listAppSet("envs", "dev", "prod"))
	require.NoError(t, err)
	assert.Equal(t, []string{"app-dev", "app-prod"}, set.GeneratedApplications)

	app, err := h.engine.GetApplication("app-dev")
	require.NoError(t, err)
	assert.Equal(t, "envs", app.Owner)
	assert.Equal(t, "envs/dev", app.Path)
	assert.Equal(t, gitops.SyncStateOutOfSync, app.Status)

	_, err = h.engine.AddApplicationSet(context.Background(), listAppSet("envs", "dev"))
	assert.True(t, errors.IsConflictError(err))
}

func TestApplicationSetValidation(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.engine.AddApplicationSet(context.Background(), &gitops.ApplicationSet{
		Name:     "envs",
		Enabled:  true,
		Template: gitops.AppTemplate{Name: "app-{{env}}", Repository: "deployments"},
	})
	assert.True(t, errors.IsValidationError(err))

	_, err = h.engine.AddApplicationSet(context.Background(), &gitops.ApplicationSet{
		Name:    "envs",
		Enabled: true,
		Generators: []gitops.Generator{{
			List: &gitops.ListGenerator{Elements: []map[string]string{{"env": "dev"}}},
			Git:  &gitops.GitGenerator{RepoURL: testRepoURL},
		}},
		Template: gitops.AppTemplate{Name: "app-{{env}}", Repository: "deployments"},
	})
	assert.True(t, errors.IsValidationError(err))
}

func TestApplicationSetRemovesExactlyDroppedRow(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")

	_, err := h.engine.AddApplicationSet(context.Background(), listAppSet("envs", "dev", "staging", "prod"))
	require.NoError(t, err)

	// sync one survivor so we can see its state preserved
	op, err := h.engine.StartSync(context.Background(), "app-prod", "alice")
	require.NoError(t, err)
	waitOp(t, h.engine, op.ID)

	set, err := h.engine.UpdateApplicationSet(context.Background(), listAppSet("envs", "dev", "prod"))
	require.NoError(t, err)
	assert.Equal(t, []string{"app-dev", "app-prod"}, set.GeneratedApplications)

	_, err = h.engine.GetApplication("app-staging")
	assert.True(t, errors.IsNotFoundError(err))

	prod, err := h.engine.GetApplication("app-prod")
	require.NoError(t, err)
	assert.Equal(t, gitops.SyncStateSynced, prod.Status)
	assert.Len(t, prod.History, 1)
}

func TestApplicationSetDeleteRetracts(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")

	_, err := h.engine.AddApplicationSet(context.Background(), listAppSet("envs", "dev", "prod"))
	require.NoError(t, err)
	require.NoError(t, h.engine.DeleteApplicationSet(context.Background(), "envs"))

	assert.Empty(t, h.engine.ListApplications(ApplicationFilter{}))
	_, err = h.engine.GetApplicationSet("envs")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestApplicationSetPreserveOrphans(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")

	set := listAppSet("envs", "dev", "prod")
	set.PreserveResourcesOnDeletion = true
	_, err := h.engine.AddApplicationSet(context.Background(), set)
	require.NoError(t, err)
	require.NoError(t, h.engine.DeleteApplicationSet(context.Background(), "envs"))

	apps := h.engine.ListApplications(ApplicationFilter{})
	require.Len(t, apps, 2)
	for _, app := range apps {
		assert.Empty(t, app.Owner)
	}
}

func TestApplicationSetDisableRetracts(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")

	_, err := h.engine.AddApplicationSet(context.Background(), listAppSet("envs", "dev", "prod"))
	require.NoError(t, err)

	disabled := listAppSet("envs", "dev", "prod")
	disabled.Enabled = false
	set, err := h.engine.UpdateApplicationSet(context.Background(), disabled)
	require.NoError(t, err)
	assert.Empty(t, set.GeneratedApplications)
	assert.Empty(t, h.engine.ListApplications(ApplicationFilter{}))
}

func TestApplicationSetNameCollisionSkipsRow(t *testing.T) {
	h := newHarness(t, nil)
	h.addRepo(t, "deployments")
	h.addApp(t, "app-dev", gitops.SyncPolicyManual)

	set, err := h.engine.AddApplicationSet(context.Background(), listAppSet("envs", "dev", "prod"))
	require.NoError(t, err)
	assert.Equal(t, []string{"app-prod"}, set.GeneratedApplications)

	// the pre-existing application is untouched
	app, err := h.engine.GetApplication("app-dev")
	require.NoError(t, err)
	assert.Empty(t, app.Owner)
	assert.Equal(t, "apps/app-dev", app.Path)
}

func TestApplicationSetGitGeneratorFollowsRepo(t *testing.T) {
	h := newHarness(t, fastTicks)
	h.addRepo(t, "deployments")
	h.resolver.SetPaths(testRepoURL, []string{"envs/dev", "envs/prod"})

	set := &gitops.ApplicationSet{
		Name:    "envs",
		Enabled: true,
		Generators: []gitops.Generator{{
			Git: &gitops.GitGenerator{
				RepoURL:     testRepoURL,
				Revision:    "main",
				Directories: []gitops.GitDirectory{{Path: "envs/*"}},
			},
		}},
		Template: gitops.AppTemplate{
			Name:           "{{path.basename}}",
			Namespace:      "{{path.basename}}",
			Repository:     "deployments",
			Path:           "{{path}}",
			TargetRevision: "main",
		},
		SyncPolicy: gitops.SyncPolicy{Type: gitops.SyncPolicyManual},
	}
	created, err := h.engine.AddApplicationSet(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "prod"}, created.GeneratedApplications)

	// a new directory appears on the next tick
	h.resolver.SetPaths(testRepoURL, []string{"envs/dev", "envs/prod", "envs/staging"})
	require.Eventually(t, func() bool {
		_, err := h.engine.GetApplication("staging")
		return err == nil
	}, 5*time.Second, 5*time.Millisecond)

	// and a removed one is pruned
	h.resolver.SetPaths(testRepoURL, []string{"envs/dev"})
	require.Eventually(t, func() bool {
		_, errProd := h.engine.GetApplication("prod")
		_, errStaging := h.engine.GetApplication("staging")
		return errors.IsNotFoundError(errProd) && errors.IsNotFoundError(errStaging)
	}, 5*time.Second, 5*time.Millisecond)
}
