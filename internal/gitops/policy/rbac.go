// Package policy evaluates RBAC role policies and validates sync policies
// against active sync windows.
package policy

import (
	"github.com/gobwas/glob"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

// EvaluateRBAC scans the role's policies in declaration order and returns the
// effect of the first policy matching the request. A deny reached first wins
// even if a later, more specific allow would also match. No match means deny.
func EvaluateRBAC(role *gitops.Role, action, resource, object string) gitops.Effect {
	if role == nil {
		return gitops.EffectDeny
	}
	for _, p := range role.Policies {
		if p.Action != "*" && p.Action != action {
			continue
		}
		if p.Resource != "*" && p.Resource != resource {
			continue
		}
		if p.Object != "" && !globMatch(p.Object, object) {
			continue
		}
		return p.Effect
	}
	return gitops.EffectDeny
}

// globMatch matches value against pattern using glob syntax; an invalid
// pattern degrades to literal comparison
func globMatch(pattern, value string) bool {
	if pattern == "*" {
		return true
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return pattern == value
	}
	return g.Match(value)
}
