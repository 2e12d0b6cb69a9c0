package engine

import (
	"context"
	"fmt"

	"github.com/devcanvas-labs/argocd-emulator/internal/errors"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/generator"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/policy"
)

// AddApplicationSet registers an application set and runs its first
// expansion pass
func (e *Engine) AddApplicationSet(ctx context.Context, set *gitops.ApplicationSet) (*gitops.ApplicationSet, error) {
	val, err := e.do(ctx, "add-applicationset", func() (interface{}, error) {
		return e.addApplicationSetLocked(ctx, set)
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.ApplicationSet), nil
}

func (e *Engine) addApplicationSetLocked(ctx context.Context, set *gitops.ApplicationSet) (*gitops.ApplicationSet, error) {
	if _, ok := e.st.appsets[set.Name]; ok {
		return nil, errors.NewConflictError(fmt.Sprintf("application set %q already exists", set.Name), nil)
	}
	if res := validateAppSet(set); !res.Valid {
		return nil, validationErr(res)
	}
	stored := copyAppSet(set)
	stored.GeneratedApplications = nil
	e.st.appsets[stored.Name] = stored
	e.regenerateLocked(ctx, stored)
	return copyAppSet(stored), nil
}

func validateAppSet(set *gitops.ApplicationSet) *errors.ValidationResult {
	res := policy.ValidateName(set.Name)
	if len(set.Generators) == 0 {
		res.AddError("at least one generator is required")
	}
	for i, gen := range set.Generators {
		variants := 0
		if gen.List != nil {
			variants++
		}
		if gen.Git != nil {
			variants++
		}
		if gen.Clusters != nil {
			variants++
		}
		if variants != 1 {
			res.AddError("generator %d must set exactly one of list, git or clusters", i)
		}
	}
	if set.Template.Name == "" {
		res.AddError("template.name is required")
	}
	if set.Template.Repository == "" {
		res.AddError("template.repository is required")
	}
	return res
}

// UpdateApplicationSet replaces an existing set's generators and template
// and immediately reconciles its generated applications
func (e *Engine) UpdateApplicationSet(ctx context.Context, set *gitops.ApplicationSet) (*gitops.ApplicationSet, error) {
	val, err := e.do(ctx, "update-applicationset", func() (interface{}, error) {
		current, ok := e.st.appsets[set.Name]
		if !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("application set %q not found", set.Name), nil)
		}
		if res := validateAppSet(set); !res.Valid {
			return nil, validationErr(res)
		}
		stored := copyAppSet(set)
		stored.GeneratedApplications = append([]string(nil), current.GeneratedApplications...)
		e.st.appsets[stored.Name] = stored
		e.regenerateLocked(ctx, stored)
		return copyAppSet(stored), nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*gitops.ApplicationSet), nil
}

// DeleteApplicationSet removes a set. Its generated applications are
// retracted unless the set preserves resources on deletion, in which case
// they are orphaned in place.
func (e *Engine) DeleteApplicationSet(ctx context.Context, name string) error {
	_, err := e.do(ctx, "delete-applicationset", func() (interface{}, error) {
		set, ok := e.st.appsets[name]
		if !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("application set %q not found", name), nil)
		}
		e.retractLocked(set)
		delete(e.st.appsets, name)
		e.log.WithField("applicationset", name).Info("Application set deleted")
		return nil, nil
	})
	return err
}

// retractLocked withdraws a set's generated applications: deleted outright,
// or orphaned when the set preserves resources on deletion
func (e *Engine) retractLocked(set *gitops.ApplicationSet) {
	for _, name := range append([]string(nil), set.GeneratedApplications...) {
		app, ok := e.st.apps[name]
		if !ok || app.Owner != set.Name {
			continue
		}
		if set.PreserveResourcesOnDeletion {
			app.Owner = ""
			continue
		}
		if err := e.deleteApplicationLocked(name, "application set retracted"); err != nil {
			e.log.WithField("app", name).WithError(err).Warn("Retraction failed")
		}
	}
	set.GeneratedApplications = nil
}

// regenerateLocked runs one expansion pass for a set and reconciles the
// generated applications against the rendered result. The pass is atomic
// with respect to queries: it runs entirely inside the actor.
func (e *Engine) regenerateLocked(ctx context.Context, set *gitops.ApplicationSet) {
	if !set.Enabled {
		e.retractLocked(set)
		return
	}

	result := generator.Expand(ctx, set, e.st.clusterList(), e.resolver)
	for _, msg := range result.Errors {
		e.log.WithField("applicationset", set.Name).Warn(msg)
	}
	rendered, warnings := generator.Render(set, result.Rows)
	for _, msg := range warnings {
		e.log.WithField("applicationset", set.Name).Warn(msg)
	}

	desired := make(map[string]*gitops.Application, len(rendered))
	for _, app := range rendered {
		desired[app.Name] = app
	}

	// prune rows that disappeared
	for _, name := range append([]string(nil), set.GeneratedApplications...) {
		if _, keep := desired[name]; keep {
			continue
		}
		if app, ok := e.st.apps[name]; ok && app.Owner == set.Name {
			if err := e.deleteApplicationLocked(name, "removed from application set"); err != nil {
				e.log.WithField("app", name).WithError(err).Warn("Prune failed")
			}
		}
	}

	names := make([]string, 0, len(rendered))
	for _, app := range rendered {
		existing, ok := e.st.apps[app.Name]
		if ok && existing.Owner != set.Name {
			e.log.WithField("applicationset", set.Name).WithField("app", app.Name).
				Warn("Rendered application collides with one not owned by this set, skipping")
			continue
		}
		if ok {
			existing.Namespace = app.Namespace
			existing.Project = app.Project
			existing.Repository = app.Repository
			existing.Path = app.Path
			existing.TargetRevision = app.TargetRevision
			existing.Destination = app.Destination
			existing.SyncPolicy = app.SyncPolicy
			names = append(names, app.Name)
			continue
		}
		res := policy.ValidateApplication(app, e.st.repos, e.st.projects)
		if !res.Valid {
			e.log.WithField("applicationset", set.Name).WithField("app", app.Name).
				Warn(res.Errors[0])
			continue
		}
		stored := copyApp(app)
		stored.Status = gitops.SyncStateOutOfSync
		stored.Health = gitops.HealthMissing
		stored.Owner = set.Name
		stored.CreatedAt = e.clock.Now()
		e.st.apps[stored.Name] = stored
		names = append(names, stored.Name)
		e.emit(gitops.EventAppCreated, map[string]string{
			"app":     stored.Name,
			"project": stored.Project,
			"owner":   set.Name,
		})
		e.log.WithField("applicationset", set.Name).WithField("app", stored.Name).Info("Application generated")
	}
	set.GeneratedApplications = names
}
