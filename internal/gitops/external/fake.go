package external

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

// FakeResolver is an in-memory RepoResolver used by the binary and by tests.
// Repositories are keyed by URL; SetPaths/SetRevision mutate the simulated
// remote so drift can be exercised.
type FakeResolver struct {
	mu        sync.Mutex
	paths     map[string][]string
	charts    map[string][]string
	versions  map[string][]string
	revisions map[string]string
	failing   map[string]bool
}

// NewFakeResolver returns an empty in-memory resolver
func NewFakeResolver() *FakeResolver {
	return &FakeResolver{
		paths:     make(map[string][]string),
		charts:    make(map[string][]string),
		versions:  make(map[string][]string),
		revisions: make(map[string]string),
		failing:   make(map[string]bool),
	}
}

// SetPaths sets the directory/file listing of a repository
func (f *FakeResolver) SetPaths(repoURL string, paths []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths[repoURL] = paths
}

// SetCharts sets the chart listing of a repository
func (f *FakeResolver) SetCharts(repoURL string, charts []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.charts[repoURL] = charts
}

// SetChartVersions sets the version listing of one chart
func (f *FakeResolver) SetChartVersions(repoURL, chart string, versions []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions[repoURL+"/"+chart] = versions
}

// SetRevision sets the revision a target currently resolves to; changing it
// after a sync makes deployed applications drift out of sync
func (f *FakeResolver) SetRevision(repoURL, revision string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revisions[repoURL] = revision
}

// SetFailing marks a repository as unreachable
func (f *FakeResolver) SetFailing(repoURL string, failing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[repoURL] = failing
}

// ListPaths implements RepoResolver
func (f *FakeResolver) ListPaths(_ context.Context, repoURL, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[repoURL] {
		return nil, fmt.Errorf("repository %s unreachable", repoURL)
	}
	return append([]string(nil), f.paths[repoURL]...), nil
}

// ListCharts implements RepoResolver
func (f *FakeResolver) ListCharts(_ context.Context, repoURL string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[repoURL] {
		return nil, fmt.Errorf("repository %s unreachable", repoURL)
	}
	return append([]string(nil), f.charts[repoURL]...), nil
}

// ListChartVersions implements RepoResolver
func (f *FakeResolver) ListChartVersions(_ context.Context, repoURL, chart string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[repoURL] {
		return nil, fmt.Errorf("repository %s unreachable", repoURL)
	}
	return append([]string(nil), f.versions[repoURL+"/"+chart]...), nil
}

// LatestRevision implements RepoResolver. An unknown repository resolves to
// the requested target so fresh applications are considered in sync.
func (f *FakeResolver) LatestRevision(_ context.Context, repoURL, targetRevision string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[repoURL] {
		return "", fmt.Errorf("repository %s unreachable", repoURL)
	}
	if rev, ok := f.revisions[repoURL]; ok {
		return rev, nil
	}
	return targetRevision, nil
}

// CheckConnection implements RepoResolver
func (f *FakeResolver) CheckConnection(_ context.Context, repo *gitops.Repository) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[repo.URL] {
		return fmt.Errorf("repository %s unreachable", repo.URL)
	}
	return nil
}

var _ RepoResolver = (*FakeResolver)(nil)

// SimSyncer is the default SyncSimulator: every step succeeds after a
// configured simulated latency, except hooks explicitly registered to fail.
type SimSyncer struct {
	clock         clockwork.Clock
	hookDuration  time.Duration
	applyDuration time.Duration

	mu        sync.Mutex
	failHooks map[string]bool
	failApply map[string]bool
}

// NewSimSyncer returns a simulator sleeping hookDuration per hook and
// applyDuration per manifest apply on the given clock
func NewSimSyncer(clock clockwork.Clock, hookDuration, applyDuration time.Duration) *SimSyncer {
	return &SimSyncer{
		clock:         clock,
		hookDuration:  hookDuration,
		applyDuration: applyDuration,
		failHooks:     make(map[string]bool),
		failApply:     make(map[string]bool),
	}
}

// FailHook makes the named hook of the named application fail
func (s *SimSyncer) FailHook(appName, hookName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failHooks[appName+"/"+hookName] = true
}

// FailApply makes the manifest apply of the named application fail
func (s *SimSyncer) FailApply(appName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failApply[appName] = true
}

func (s *SimSyncer) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(d):
		return nil
	}
}

// RunHook implements SyncSimulator
func (s *SimSyncer) RunHook(ctx context.Context, appName string, hook gitops.Hook) error {
	if err := s.sleep(ctx, s.hookDuration); err != nil {
		return err
	}
	s.mu.Lock()
	fail := s.failHooks[appName+"/"+hook.Name]
	s.mu.Unlock()
	if fail {
		return fmt.Errorf("hook %s exited non-zero", hook.Name)
	}
	return nil
}

// ApplyManifests implements SyncSimulator
func (s *SimSyncer) ApplyManifests(ctx context.Context, appName, revision string) ([]gitops.ResourceResult, error) {
	if err := s.sleep(ctx, s.applyDuration); err != nil {
		return nil, err
	}
	s.mu.Lock()
	fail := s.failApply[appName]
	s.mu.Unlock()
	if fail {
		return nil, fmt.Errorf("apply of %s at %s rejected", appName, revision)
	}
	return []gitops.ResourceResult{
		{Kind: "Deployment", Name: appName, Status: "Synced"},
		{Kind: "Service", Name: appName, Status: "Synced"},
	}, nil
}

var _ SyncSimulator = (*SimSyncer)(nil)

// RecordingTransport is a NotificationTransport that records payloads instead
// of delivering them; the binary's default transport.
type RecordingTransport struct {
	mu   sync.Mutex
	sent []SentNotification
	fail map[string]bool
}

// SentNotification is one recorded delivery
type SentNotification struct {
	Channel string
	Event   gitops.Event
	Payload map[string]string
}

// NewRecordingTransport returns an empty recording transport
func NewRecordingTransport() *RecordingTransport {
	return &RecordingTransport{fail: make(map[string]bool)}
}

// FailChannel makes deliveries to the named channel fail
func (t *RecordingTransport) FailChannel(name string, failing bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fail[name] = failing
}

// Send implements NotificationTransport
func (t *RecordingTransport) Send(_ context.Context, channel *gitops.NotificationChannel, event gitops.Event, payload map[string]string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail[channel.Name] {
		return fmt.Errorf("delivery to %s failed", channel.Name)
	}
	t.sent = append(t.sent, SentNotification{Channel: channel.Name, Event: event, Payload: payload})
	return nil
}

// Sent returns a copy of the recorded deliveries
func (t *RecordingTransport) Sent() []SentNotification {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]SentNotification(nil), t.sent...)
}

var _ NotificationTransport = (*RecordingTransport)(nil)
