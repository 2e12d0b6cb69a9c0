package generator

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// Render materializes one application per row from the set's template.
// A row whose rendered name is not a valid DNS-1123 label is skipped with a
// warning, as is a row colliding with an already rendered name, so one bad
// row never breaks the whole set.
func Render(appset *gitops.ApplicationSet, rows []Row) ([]*gitops.Application, []string) {
	var apps []*gitops.Application
	var warnings []string
	seen := make(map[string]bool)

	for i, row := range rows {
		app, err := renderOne(appset, row)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d: %v", i, err))
			continue
		}
		if msgs := validation.IsDNS1123Label(app.Name); len(msgs) > 0 {
			warnings = append(warnings, fmt.Sprintf("row %d: rendered name %q is not a valid DNS-1123 label, skipping", i, app.Name))
			continue
		}
		if seen[app.Name] {
			warnings = append(warnings, fmt.Sprintf("row %d: rendered name %q duplicates an earlier row, skipping", i, app.Name))
			continue
		}
		seen[app.Name] = true
		apps = append(apps, app)
	}
	return apps, warnings
}

func renderOne(appset *gitops.ApplicationSet, row Row) (*gitops.Application, error) {
	render := func(s string) (string, error) {
		if appset.GoTemplate {
			return renderGoTemplate(s, row)
		}
		return substitute(s, row), nil
	}

	tpl := appset.Template
	fields := []*string{
		&tpl.Name, &tpl.Namespace, &tpl.Project, &tpl.Repository,
		&tpl.Path, &tpl.TargetRevision,
		&tpl.Destination.Server, &tpl.Destination.Namespace,
	}
	for _, f := range fields {
		out, err := render(*f)
		if err != nil {
			return nil, err
		}
		*f = out
	}

	return &gitops.Application{
		Name:           tpl.Name,
		Namespace:      tpl.Namespace,
		Project:        tpl.Project,
		Repository:     tpl.Repository,
		Path:           tpl.Path,
		TargetRevision: tpl.TargetRevision,
		Destination:    tpl.Destination,
		SyncPolicy:     appset.SyncPolicy,
		Status:         gitops.SyncStateProgressing,
		Health:         HealthForNew,
		Owner:          appset.Name,
	}, nil
}

// HealthForNew is the health assigned to freshly generated applications
const HealthForNew = gitops.HealthProgressing

// substitute replaces {{key}} placeholders with row values; unknown keys are
// left untouched (the fasttemplate-style dialect has no pipelines or escapes)
func substitute(s string, row Row) string {
	return placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		key := strings.TrimSpace(placeholderRe.FindStringSubmatch(m)[1])
		if v, ok := row[key]; ok {
			return v
		}
		return m
	})
}

// renderGoTemplate renders s as a Go template with the sprig function map;
// row keys are addressed as {{.key}} and unknown keys are errors
func renderGoTemplate(s string, row Row) (string, error) {
	t, err := template.New("tpl").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(s)
	if err != nil {
		return "", fmt.Errorf("parsing template %q: %w", s, err)
	}
	params := make(map[string]string, len(row))
	for k, v := range row {
		params[k] = v
	}
	var b strings.Builder
	if err := t.Execute(&b, params); err != nil {
		return "", fmt.Errorf("rendering template %q: %w", s, err)
	}
	return b.String(), nil
}
