// Package generator expands ApplicationSet generators into parameter rows and
// renders the set's template once per row.
package generator

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/labels"

	"github.com/devcanvas-labs/argocd-emulator/internal/gitops"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/external"
)

// Row is one parameter set produced by a generator
type Row map[string]string

// Result is the outcome of one expansion pass. Errors are per-generator and
// never abort the pass: a failing generator contributes zero rows.
type Result struct {
	Rows     []Row
	Warnings []string
	Errors   []string
}

// Expand runs each generator of the set independently and unions its rows in
// generator order. Re-running with unchanged inputs yields the same rows in
// the same order.
func Expand(ctx context.Context, appset *gitops.ApplicationSet, clusters []*gitops.Cluster, resolver external.RepoResolver) *Result {
	res := &Result{}
	for i, gen := range appset.Generators {
		switch {
		case gen.List != nil:
			res.Rows = append(res.Rows, expandList(gen.List)...)
		case gen.Git != nil:
			rows, err := expandGit(ctx, gen.Git, resolver)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("generator %d: %v", i, err))
				continue
			}
			res.Rows = append(res.Rows, rows...)
		case gen.Clusters != nil:
			rows, err := expandClusters(gen.Clusters, clusters)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("generator %d: %v", i, err))
				continue
			}
			res.Rows = append(res.Rows, rows...)
		default:
			res.Warnings = append(res.Warnings, fmt.Sprintf("generator %d has no variant set", i))
		}
	}
	return res
}

// expandList emits elements verbatim, in declaration order. Duplicates are
// caller intent and deliberately preserved.
func expandList(gen *gitops.ListGenerator) []Row {
	rows := make([]Row, 0, len(gen.Elements))
	for _, el := range gen.Elements {
		row := make(Row, len(el))
		for k, v := range el {
			row[k] = v
		}
		rows = append(rows, row)
	}
	return rows
}

// expandGit merges the resolver's path listing with the declared directory
// globs and exact file matches. One row per matching path, in listing order.
func expandGit(ctx context.Context, gen *gitops.GitGenerator, resolver external.RepoResolver) ([]Row, error) {
	paths, err := resolver.ListPaths(ctx, gen.RepoURL, gen.Revision)
	if err != nil {
		return nil, fmt.Errorf("listing %s@%s: %w", gen.RepoURL, gen.Revision, err)
	}

	var rows []Row
	for _, p := range paths {
		if !gitPathMatches(gen, p) {
			continue
		}
		rows = append(rows, gitRow(p))
	}
	return rows, nil
}

func gitPathMatches(gen *gitops.GitGenerator, p string) bool {
	for _, f := range gen.Files {
		if f.Path == p {
			return true
		}
	}
	if len(gen.Directories) == 0 {
		return false
	}
	included := false
	for _, d := range gen.Directories {
		ok, err := path.Match(d.Path, p)
		if err != nil || !ok {
			continue
		}
		if d.Exclude {
			return false
		}
		included = true
	}
	return included
}

// gitRow builds the parameter set for one path: "path", "path.basename" and
// one "path[n]" per segment
func gitRow(p string) Row {
	row := Row{
		"path":          p,
		"path.basename": path.Base(p),
	}
	for i, seg := range strings.Split(p, "/") {
		row["path["+strconv.Itoa(i)+"]"] = seg
	}
	return row
}

// expandClusters emits one row per cluster matching the label selector; the
// generator's static values override cluster metadata on key collision.
func expandClusters(gen *gitops.ClusterGenerator, clusters []*gitops.Cluster) ([]Row, error) {
	selector := labels.SelectorFromSet(labels.Set(gen.Selector.MatchLabels))

	var rows []Row
	for _, c := range clusters {
		if !selector.Matches(labels.Set(c.Labels)) {
			continue
		}
		row := Row{
			"name":   c.Name,
			"server": c.Server,
		}
		for k, v := range c.Labels {
			row["metadata.labels."+k] = v
		}
		for k, v := range gen.Values {
			row["values."+k] = v
			row[k] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
