// Package external declares the collaborator interfaces the engine consumes:
// repository resolution, sync step simulation, notification delivery and the
// declarative config store. The engine never talks to a real Git server,
// cluster or transport; implementations here simulate or faithfully record.
package external

import (
	"context"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

//go:generate mockgen -source=interfaces.go -destination=mock/mock_external.go -package=mock

// RepoResolver answers chart, revision and path queries for a repository
// reference. Failures mean "no rows" for a generator, never a crash.
type RepoResolver interface {
	// ListPaths enumerates directory and file paths under repoURL@revision
	ListPaths(ctx context.Context, repoURL, revision string) ([]string, error)
	// ListCharts enumerates charts available in a helm or oci repository
	ListCharts(ctx context.Context, repoURL string) ([]string, error)
	// ListChartVersions enumerates available versions of one chart
	ListChartVersions(ctx context.Context, repoURL, chart string) ([]string, error)
	// LatestRevision returns the revision a target currently resolves to;
	// drift detection compares this against the deployed revision
	LatestRevision(ctx context.Context, repoURL, targetRevision string) (string, error)
	// CheckConnection probes repository connectivity
	CheckConnection(ctx context.Context, repo *gitops.Repository) error
}

// SyncSimulator executes the suspending steps of a sync operation. Both calls
// must honor ctx cancellation so an in-flight operation can be aborted.
type SyncSimulator interface {
	// RunHook executes one hook and returns its verdict
	RunHook(ctx context.Context, appName string, hook gitops.Hook) error
	// ApplyManifests applies the desired manifest set at revision and returns
	// the per-resource results
	ApplyManifests(ctx context.Context, appName, revision string) ([]gitops.ResourceResult, error)
}

// NotificationTransport attempts delivery of one event to one channel.
// Retry policy is the transport's concern; the engine only records the outcome.
type NotificationTransport interface {
	Send(ctx context.Context, channel *gitops.NotificationChannel, event gitops.Event, payload map[string]string) error
}

// ConfigStore supplies and receives the declarative engine state
type ConfigStore interface {
	Load(ctx context.Context) (*gitops.SeedState, error)
	Save(ctx context.Context, state *gitops.SeedState) error
}
