package gitops

import "time"

// SyncState describes the drift between desired and live manifests
type SyncState string

const (
	SyncStateSynced      SyncState = "synced"
	SyncStateOutOfSync   SyncState = "outofsync"
	SyncStateProgressing SyncState = "progressing"
	SyncStateDegraded    SyncState = "degraded"
)

// HealthState describes the runtime well-being of an application,
// independent of sync state
type HealthState string

const (
	HealthHealthy     HealthState = "healthy"
	HealthDegraded    HealthState = "degraded"
	HealthProgressing HealthState = "progressing"
	HealthSuspended   HealthState = "suspended"
	HealthMissing     HealthState = "missing"
	HealthUnknown     HealthState = "unknown"
)

// OperationStatus is the lifecycle state of a sync operation
type OperationStatus string

const (
	OperationRunning OperationStatus = "running"
	OperationSuccess OperationStatus = "success"
	OperationFailed  OperationStatus = "failed"
)

// HookPhase is the sync phase a hook is bound to
type HookPhase string

const (
	PhasePreSync    HookPhase = "PreSync"
	PhaseSync       HookPhase = "Sync"
	PhasePostSync   HookPhase = "PostSync"
	PhaseSyncFail   HookPhase = "SyncFail"
	PhasePreDelete  HookPhase = "PreDelete"
	PhasePostDelete HookPhase = "PostDelete"
)

// HookStatus tracks a hook within a running operation
type HookStatus string

const (
	HookPending   HookStatus = "pending"
	HookRunning   HookStatus = "running"
	HookSucceeded HookStatus = "succeeded"
	HookFailed    HookStatus = "failed"
)

// RepoType is the kind of backing repository
type RepoType string

const (
	RepoTypeGit  RepoType = "git"
	RepoTypeHelm RepoType = "helm"
	RepoTypeOCI  RepoType = "oci"
)

// ConnectionStatus reflects the last connectivity check against a repository
type ConnectionStatus string

const (
	ConnectionUnknown    ConnectionStatus = "unknown"
	ConnectionSuccessful ConnectionStatus = "successful"
	ConnectionFailed     ConnectionStatus = "failed"
)

// Effect is an RBAC policy verdict
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// WindowKind defines whether a sync window allows or blocks syncs
type WindowKind string

const (
	WindowAllow WindowKind = "allow"
	WindowDeny  WindowKind = "deny"
)

// SyncPolicyType selects the sync policy variant
type SyncPolicyType string

const (
	SyncPolicyManual    SyncPolicyType = "manual"
	SyncPolicyAutomated SyncPolicyType = "automated"
	SyncPolicyWindow    SyncPolicyType = "sync-window"
)

// ChannelType is the notification channel transport kind
type ChannelType string

const (
	ChannelSlack     ChannelType = "slack"
	ChannelEmail     ChannelType = "email"
	ChannelPagerDuty ChannelType = "pagerduty"
	ChannelWebhook   ChannelType = "webhook"
	ChannelOpsgenie  ChannelType = "opsgenie"
	ChannelMSTeams   ChannelType = "msteams"
)

// Event is a domain event emitted by the reconciler
type Event string

const (
	EventSyncStarted    Event = "sync-started"
	EventSyncSucceeded  Event = "sync-succeeded"
	EventSyncFailed     Event = "sync-failed"
	EventHealthDegraded Event = "health-degraded"
	EventAppCreated     Event = "app-created"
	EventAppDeleted     Event = "app-deleted"
	EventAppOutOfSync   Event = "app-out-of-sync"
)

// Application represents one emulated Argo CD application
type Application struct {
	Name           string       `json:"name" yaml:"name"`
	Namespace      string       `json:"namespace" yaml:"namespace"`
	Project        string       `json:"project" yaml:"project"`
	Repository     string       `json:"repository" yaml:"repository"`
	Path           string       `json:"path,omitempty" yaml:"path,omitempty"`
	TargetRevision string       `json:"targetRevision,omitempty" yaml:"targetRevision,omitempty"`
	Helm           *HelmSource  `json:"helm,omitempty" yaml:"helm,omitempty"`
	Destination    Destination  `json:"destination" yaml:"destination"`
	SyncPolicy     SyncPolicy   `json:"syncPolicy" yaml:"syncPolicy"`
	Status         SyncState    `json:"status" yaml:"status"`
	Health         HealthState  `json:"health" yaml:"health"`
	Revision       string       `json:"revision,omitempty" yaml:"revision,omitempty"`
	History        []History    `json:"history,omitempty" yaml:"history,omitempty"`
	Hooks          []Hook       `json:"hooks,omitempty" yaml:"hooks,omitempty"`
	Owner          string       `json:"owner,omitempty" yaml:"owner,omitempty"`
	CreatedAt      time.Time    `json:"createdAt" yaml:"createdAt"`
}

// HelmSource is the chart variant of an application source
type HelmSource struct {
	Chart       string            `json:"chart" yaml:"chart"`
	Version     string            `json:"version,omitempty" yaml:"version,omitempty"`
	ReleaseName string            `json:"releaseName,omitempty" yaml:"releaseName,omitempty"`
	Values      map[string]string `json:"values,omitempty" yaml:"values,omitempty"`
	ValueFiles  []string          `json:"valueFiles,omitempty" yaml:"valueFiles,omitempty"`
	SkipCRDs    bool              `json:"skipCrds,omitempty" yaml:"skipCrds,omitempty"`
}

// Destination defines the cluster and namespace where the application is deployed
type Destination struct {
	Server    string `json:"server" yaml:"server"`
	Namespace string `json:"namespace" yaml:"namespace"`
}

// SyncPolicy controls when and how a sync is performed
type SyncPolicy struct {
	Type      SyncPolicyType   `json:"type" yaml:"type"`
	Automated *AutomatedPolicy `json:"automated,omitempty" yaml:"automated,omitempty"`
}

// AutomatedPolicy holds the options of an automated sync policy
type AutomatedPolicy struct {
	Prune    bool `json:"prune" yaml:"prune"`
	SelfHeal bool `json:"selfHeal" yaml:"selfHeal"`
}

// History is one deployment history entry; History[0] is the most recent
type History struct {
	Revision   string    `json:"revision" yaml:"revision"`
	DeployedAt time.Time `json:"deployedAt" yaml:"deployedAt"`
	DeployedBy string    `json:"deployedBy" yaml:"deployedBy"`
}

// Hook is a side-effect action bound to a sync phase
type Hook struct {
	Name         string    `json:"name" yaml:"name"`
	Kind         string    `json:"kind" yaml:"kind"`
	Phase        HookPhase `json:"phase" yaml:"phase"`
	DeletePolicy string    `json:"deletePolicy,omitempty" yaml:"deletePolicy,omitempty"`
}

// Repository is a configured source repository
type Repository struct {
	Name             string           `json:"name" yaml:"name"`
	URL              string           `json:"url" yaml:"url"`
	Type             RepoType         `json:"type" yaml:"type"`
	Project          string           `json:"project,omitempty" yaml:"project,omitempty"`
	Username         string           `json:"username,omitempty" yaml:"username,omitempty"`
	Password         string           `json:"password,omitempty" yaml:"password,omitempty"`
	ConnectionStatus ConnectionStatus `json:"connectionStatus" yaml:"connectionStatus"`
}

// Project groups applications and restricts their sources and destinations.
// SourceRepos and Destinations are allow-lists; "*" matches everything.
type Project struct {
	Name         string        `json:"name" yaml:"name"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	SourceRepos  []string      `json:"sourceRepos,omitempty" yaml:"sourceRepos,omitempty"`
	Destinations []Destination `json:"destinations,omitempty" yaml:"destinations,omitempty"`
}

// Policy is a single RBAC rule; policies are evaluated in declaration order
type Policy struct {
	Action   string `json:"action" yaml:"action"`
	Resource string `json:"resource" yaml:"resource"`
	Effect   Effect `json:"effect" yaml:"effect"`
	Object   string `json:"object,omitempty" yaml:"object,omitempty"`
}

// Role is a named ordered list of RBAC policies
type Role struct {
	Name     string   `json:"name" yaml:"name"`
	Policies []Policy `json:"policies" yaml:"policies"`
	Groups   []string `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Trigger subscribes a channel to a domain event, optionally gated by a
// condition evaluated against the event context
type Trigger struct {
	Event     Event  `json:"event" yaml:"event"`
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// NotificationChannel is a configured notification destination
type NotificationChannel struct {
	Name     string        `json:"name" yaml:"name"`
	Type     ChannelType   `json:"type" yaml:"type"`
	Enabled  bool          `json:"enabled" yaml:"enabled"`
	Config   ChannelConfig `json:"config" yaml:"config"`
	Triggers []Trigger     `json:"triggers,omitempty" yaml:"triggers,omitempty"`
}

// ChannelConfig is a tagged union keyed by the channel type; exactly the
// variant matching NotificationChannel.Type must be set
type ChannelConfig struct {
	Slack     *SlackConfig     `json:"slack,omitempty" yaml:"slack,omitempty"`
	Email     *EmailConfig     `json:"email,omitempty" yaml:"email,omitempty"`
	PagerDuty *PagerDutyConfig `json:"pagerduty,omitempty" yaml:"pagerduty,omitempty"`
	Webhook   *WebhookConfig   `json:"webhook,omitempty" yaml:"webhook,omitempty"`
	Opsgenie  *OpsgenieConfig  `json:"opsgenie,omitempty" yaml:"opsgenie,omitempty"`
	MSTeams   *MSTeamsConfig   `json:"msteams,omitempty" yaml:"msteams,omitempty"`
}

// SlackConfig holds slack channel settings
type SlackConfig struct {
	Token   string `json:"token" yaml:"token"`
	Channel string `json:"channel" yaml:"channel"`
}

// EmailConfig holds email channel settings
type EmailConfig struct {
	SMTPHost   string   `json:"smtpHost" yaml:"smtpHost"`
	SMTPPort   int      `json:"smtpPort" yaml:"smtpPort"`
	From       string   `json:"from" yaml:"from"`
	Recipients []string `json:"recipients" yaml:"recipients"`
}

// PagerDutyConfig holds pagerduty channel settings
type PagerDutyConfig struct {
	RoutingKey string `json:"routingKey" yaml:"routingKey"`
}

// WebhookConfig holds generic webhook channel settings
type WebhookConfig struct {
	URL    string `json:"url" yaml:"url"`
	Method string `json:"method,omitempty" yaml:"method,omitempty"`
}

// OpsgenieConfig holds opsgenie channel settings
type OpsgenieConfig struct {
	APIKey string `json:"apiKey" yaml:"apiKey"`
}

// MSTeamsConfig holds microsoft teams channel settings
type MSTeamsConfig struct {
	WebhookURL string `json:"webhookUrl" yaml:"webhookUrl"`
}

// SyncWindow is a scheduled time range during which synchronization is
// explicitly allowed or denied. Empty Applications/Projects scope to all.
type SyncWindow struct {
	Name         string     `json:"name" yaml:"name"`
	Schedule     string     `json:"schedule" yaml:"schedule"`
	Duration     int        `json:"duration,omitempty" yaml:"duration,omitempty"` // minutes, cron dialect only
	Kind         WindowKind `json:"kind" yaml:"kind"`
	Applications []string   `json:"applications,omitempty" yaml:"applications,omitempty"`
	Projects     []string   `json:"projects,omitempty" yaml:"projects,omitempty"`
	ManualSync   bool       `json:"manualSync" yaml:"manualSync"`
	Enabled      bool       `json:"enabled" yaml:"enabled"`
	TimeZone     string     `json:"timeZone,omitempty" yaml:"timeZone,omitempty"`
}

// ApplicationSet materializes many applications from one template plus
// parameter-producing generators
type ApplicationSet struct {
	Name                        string       `json:"name" yaml:"name"`
	Generators                  []Generator  `json:"generators" yaml:"generators"`
	Template                    AppTemplate  `json:"template" yaml:"template"`
	SyncPolicy                  SyncPolicy   `json:"syncPolicy" yaml:"syncPolicy"`
	PreserveResourcesOnDeletion bool         `json:"preserveResourcesOnDeletion" yaml:"preserveResourcesOnDeletion"`
	GoTemplate                  bool         `json:"goTemplate" yaml:"goTemplate"`
	Enabled                     bool         `json:"enabled" yaml:"enabled"`
	// GeneratedApplications is owned by the expander; regenerated on each
	// expansion pass, never hand-edited
	GeneratedApplications []string `json:"generatedApplications,omitempty" yaml:"generatedApplications,omitempty"`
}

// Generator is a tagged union; exactly one variant is set
type Generator struct {
	List     *ListGenerator    `json:"list,omitempty" yaml:"list,omitempty"`
	Git      *GitGenerator     `json:"git,omitempty" yaml:"git,omitempty"`
	Clusters *ClusterGenerator `json:"clusters,omitempty" yaml:"clusters,omitempty"`
}

// ListGenerator emits its elements verbatim, in declaration order
type ListGenerator struct {
	Elements []map[string]string `json:"elements" yaml:"elements"`
}

// GitGenerator emits one row per matching directory or file under
// repoURL@revision
type GitGenerator struct {
	RepoURL     string         `json:"repoURL" yaml:"repoURL"`
	Revision    string         `json:"revision" yaml:"revision"`
	Directories []GitDirectory `json:"directories,omitempty" yaml:"directories,omitempty"`
	Files       []GitFile      `json:"files,omitempty" yaml:"files,omitempty"`
}

// GitDirectory is a directory include (or exclude) glob
type GitDirectory struct {
	Path    string `json:"path" yaml:"path"`
	Exclude bool   `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// GitFile is an exact file path match
type GitFile struct {
	Path string `json:"path" yaml:"path"`
}

// ClusterGenerator emits one row per cluster matching the label selector
type ClusterGenerator struct {
	Selector ClusterSelector   `json:"selector" yaml:"selector"`
	Values   map[string]string `json:"values,omitempty" yaml:"values,omitempty"`
}

// ClusterSelector selects clusters by label equality
type ClusterSelector struct {
	MatchLabels map[string]string `json:"matchLabels,omitempty" yaml:"matchLabels,omitempty"`
}

// Cluster is a registered deployment target used by the cluster generator
type Cluster struct {
	Name   string            `json:"name" yaml:"name"`
	Server string            `json:"server" yaml:"server"`
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// AppTemplate is the application stub rendered once per generator row.
// String fields may contain {{key}} placeholders (or Go template syntax when
// the owning set has GoTemplate enabled).
type AppTemplate struct {
	Name           string      `json:"name" yaml:"name"`
	Namespace      string      `json:"namespace" yaml:"namespace"`
	Project        string      `json:"project" yaml:"project"`
	Repository     string      `json:"repository" yaml:"repository"`
	Path           string      `json:"path,omitempty" yaml:"path,omitempty"`
	TargetRevision string      `json:"targetRevision,omitempty" yaml:"targetRevision,omitempty"`
	Destination    Destination `json:"destination" yaml:"destination"`
}

// SyncOperation is one reconciliation attempt for one application.
// At most one operation per application may be running at a time.
type SyncOperation struct {
	ID          string           `json:"id"`
	Application string           `json:"application"`
	Status      OperationStatus  `json:"status"`
	Phase       HookPhase        `json:"phase,omitempty"`
	Revision    string           `json:"revision,omitempty"`
	InitiatedBy string           `json:"initiatedBy,omitempty"`
	StartedAt   time.Time        `json:"startedAt"`
	FinishedAt  *time.Time       `json:"finishedAt,omitempty"`
	Resources   []ResourceResult `json:"resources,omitempty"`
	Hooks       []HookResult     `json:"hooks,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// ResourceResult records the apply outcome of one simulated resource
type ResourceResult struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// HookResult records one hook execution within an operation
type HookResult struct {
	Name    string     `json:"name"`
	Phase   HookPhase  `json:"phase"`
	Status  HookStatus `json:"status"`
	Message string     `json:"message,omitempty"`
}

// DispatchRecord is the audit trail of one notification dispatch attempt
type DispatchRecord struct {
	ID      string            `json:"id"`
	Channel string            `json:"channel"`
	Event   Event             `json:"event"`
	OK      bool              `json:"ok"`
	Error   string            `json:"error,omitempty"`
	At      time.Time         `json:"at"`
	Context map[string]string `json:"context,omitempty"`
}

// SeedState is the declarative configuration consumed from the config store
type SeedState struct {
	Applications    []*Application         `json:"applications,omitempty" yaml:"applications,omitempty"`
	Repositories    []*Repository          `json:"repositories,omitempty" yaml:"repositories,omitempty"`
	Projects        []*Project             `json:"projects,omitempty" yaml:"projects,omitempty"`
	Roles           []*Role                `json:"roles,omitempty" yaml:"roles,omitempty"`
	Channels        []*NotificationChannel `json:"channels,omitempty" yaml:"channels,omitempty"`
	SyncWindows     []*SyncWindow          `json:"syncWindows,omitempty" yaml:"syncWindows,omitempty"`
	ApplicationSets []*ApplicationSet      `json:"applicationSets,omitempty" yaml:"applicationSets,omitempty"`
	Clusters        []*Cluster             `json:"clusters,omitempty" yaml:"clusters,omitempty"`
}
