package policy

import (
	"time"

	"github.com/devcanvas-labs/argocd-emulator/internal/errors"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/schedule"
)

// Matches reports whether the window's scoping covers the given application
// and project. Empty Applications and Projects lists scope the window to
// everything; entries may use glob patterns.
func Matches(w *gitops.SyncWindow, appName, project string) bool {
	if len(w.Applications) == 0 && len(w.Projects) == 0 {
		return true
	}
	for _, pat := range w.Applications {
		if globMatch(pat, appName) {
			return true
		}
	}
	for _, pat := range w.Projects {
		if globMatch(pat, project) {
			return true
		}
	}
	return false
}

// windowDuration converts the window's minute duration for the cron dialect
func windowDuration(w *gitops.SyncWindow) time.Duration {
	return time.Duration(w.Duration) * time.Minute
}

// isOpen reports whether the window is currently open, honoring a per-window
// timezone override
func isOpen(eval *schedule.Evaluator, w *gitops.SyncWindow, now time.Time) bool {
	e := eval
	if w.TimeZone != "" {
		if loc, err := time.LoadLocation(w.TimeZone); err == nil {
			e = schedule.NewEvaluator(loc)
		}
	}
	return e.IsWithin(w.Schedule, windowDuration(w), now)
}

// ActiveWindows returns the enabled windows that scope to the application and
// are currently open
func ActiveWindows(eval *schedule.Evaluator, windows []*gitops.SyncWindow, appName, project string, now time.Time) []*gitops.SyncWindow {
	var active []*gitops.SyncWindow
	for _, w := range windows {
		if !w.Enabled || !Matches(w, appName, project) {
			continue
		}
		if isOpen(eval, w, now) {
			active = append(active, w)
		}
	}
	return active
}

// ValidateSyncPolicy decides whether the given sync policy is currently valid
// for the application under the configured sync windows.
//
// An automated policy requires that no applicable deny window is open; an open
// deny window with manualSync disabled is an error naming the window, with
// manualSync enabled it degrades to a warning (manual syncs stay possible).
// If allow windows apply and none is open, automated sync is invalid; a closed
// allow window with manualSync still permits manual sync, which is a warning
// rather than an error. No applicable window means no restriction.
func ValidateSyncPolicy(eval *schedule.Evaluator, policy gitops.SyncPolicy, windows []*gitops.SyncWindow, appName, project string, now time.Time) *errors.ValidationResult {
	res := errors.OK()

	var applicable []*gitops.SyncWindow
	for _, w := range windows {
		if w.Enabled && Matches(w, appName, project) {
			applicable = append(applicable, w)
		}
	}
	if len(applicable) == 0 {
		return res
	}

	automated := policy.Type == gitops.SyncPolicyAutomated

	allowExists := false
	allowOpen := false
	var closedAllowManual *gitops.SyncWindow
	for _, w := range applicable {
		open := isOpen(eval, w, now)
		switch w.Kind {
		case gitops.WindowDeny:
			if !open {
				continue
			}
			if automated && !w.ManualSync {
				res.AddError("deny sync window %q is active, automated sync is blocked", w.Name)
			} else if automated {
				res.AddWarning("deny sync window %q is active, only manual sync is permitted", w.Name)
			} else if !w.ManualSync {
				res.AddError("deny sync window %q is active, sync is blocked", w.Name)
			}
		case gitops.WindowAllow:
			allowExists = true
			if open {
				allowOpen = true
			} else if w.ManualSync {
				closedAllowManual = w
			}
		}
	}

	if allowExists && !allowOpen {
		if automated {
			res.AddError("no allow sync window is currently open, automated sync is blocked")
		}
		if closedAllowManual != nil {
			res.AddWarning("allow sync window %q is closed but permits manual sync", closedAllowManual.Name)
		} else if !automated {
			res.AddError("no allow sync window is currently open, sync is blocked")
		}
	}

	return res
}

// CanManualSync reports whether a manual sync is currently permitted, and the
// name of the blocking window when it is not.
func CanManualSync(eval *schedule.Evaluator, windows []*gitops.SyncWindow, appName, project string, now time.Time) (bool, string) {
	allowExists := false
	allowSatisfied := false
	closedAllow := ""
	for _, w := range windows {
		if !w.Enabled || !Matches(w, appName, project) {
			continue
		}
		open := isOpen(eval, w, now)
		switch w.Kind {
		case gitops.WindowDeny:
			if open && !w.ManualSync {
				return false, w.Name
			}
		case gitops.WindowAllow:
			allowExists = true
			if open || w.ManualSync {
				allowSatisfied = true
			} else {
				closedAllow = w.Name
			}
		}
	}
	if allowExists && !allowSatisfied {
		return false, closedAllow
	}
	return true, ""
}
