// Package metrics derives read-only counts and rates from engine state.
// Compute never mutates its inputs; the engine hands it snapshot copies so it
// is safe to run concurrently with the reconciler.
package metrics

import (
	"time"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

// RateBucket is one hourly bucket of the trailing 24h sync rate
type RateBucket struct {
	HourStart time.Time `json:"hourStart"`
	Count     int       `json:"count"`
}

// Metrics is the aggregated read model consumed by the UI
type Metrics struct {
	Applications          int            `json:"applications"`
	ByStatus              map[string]int `json:"byStatus"`
	ByHealth              map[string]int `json:"byHealth"`
	SyncSuccessTotal      int            `json:"syncSuccessTotal"`
	SyncFailureTotal      int            `json:"syncFailureTotal"`
	RunningOperations     int            `json:"runningOperations"`
	AvgSyncDurationSecs   float64        `json:"avgSyncDurationSeconds"`
	SyncRate24h           []RateBucket   `json:"syncRate24h"`
	Syncs24h              int            `json:"syncs24h"`
	GeneratedApplications int            `json:"generatedApplications"`
}

// Compute derives the metrics read model from current state. Operations with
// StartedAt inside the trailing 24 hours are bucketed by hour, oldest first.
func Compute(apps []*gitops.Application, ops []*gitops.SyncOperation, now time.Time) *Metrics {
	m := &Metrics{
		Applications: len(apps),
		ByStatus:     make(map[string]int),
		ByHealth:     make(map[string]int),
	}

	for _, app := range apps {
		m.ByStatus[string(app.Status)]++
		m.ByHealth[string(app.Health)]++
		if app.Owner != "" {
			m.GeneratedApplications++
		}
	}

	windowStart := now.Add(-24 * time.Hour).Truncate(time.Hour)
	buckets := make(map[time.Time]int)

	var totalDuration time.Duration
	var completed int
	for _, op := range ops {
		switch op.Status {
		case gitops.OperationSuccess:
			m.SyncSuccessTotal++
		case gitops.OperationFailed:
			m.SyncFailureTotal++
		case gitops.OperationRunning:
			m.RunningOperations++
		}
		if op.FinishedAt != nil {
			totalDuration += op.FinishedAt.Sub(op.StartedAt)
			completed++
		}
		if !op.StartedAt.Before(now.Add(-24 * time.Hour)) {
			buckets[op.StartedAt.Truncate(time.Hour)]++
			m.Syncs24h++
		}
	}
	if completed > 0 {
		m.AvgSyncDurationSecs = totalDuration.Seconds() / float64(completed)
	}

	for h := windowStart; !h.After(now); h = h.Add(time.Hour) {
		m.SyncRate24h = append(m.SyncRate24h, RateBucket{HourStart: h, Count: buckets[h]})
	}
	return m
}
