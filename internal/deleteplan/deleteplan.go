// Package deleteplan computes and executes package removal plans: deciding,
// when a deletion cascades to dependencies, which of those dependencies are
// uniquely reachable from the target (safe to remove) versus still shared
// with some other installed package (must be kept).
package deleteplan

import (
	"fmt"
	"os"
	"sort"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/depgraph"
)

// KeptDependency is a dependency the plan declines to delete because some
// other installed package still depends on it.
type KeptDependency struct {
	ID         string
	Dependents []string
}

// Plan describes what a delete operation will do, before it does it.
type Plan struct {
	Target     string
	Dependents []string // packages that depend on Target — informational
	ToDelete   []string // Target plus any dependency cleared for removal
	KeepDeps   []KeptDependency
	DeleteDeps []string
	TotalBytes int64
}

// Result reports the outcome of deleting a single package.
type Result struct {
	ID      string
	Deleted bool
	Detail  string
}

// SizeFunc returns an installed package's archive size in bytes.
type SizeFunc func(pid string) int64

// PathFunc returns an installed package's archive path.
type PathFunc func(pid string) (string, bool)

// Build computes a Plan for removing pid. When withDeps is true, every
// transitive dependency of pid that is not depended on by any other
// installed package is added to ToDelete; dependencies still shared are
// reported in KeepDeps instead. Returns an error if pid is not installed.
func Build(g *depgraph.Graph, pid string, withDeps bool, installed map[string]struct{}, sizeOf SizeFunc) (*Plan, error) {
	if _, ok := installed[pid]; !ok {
		return nil, fmt.Errorf("deleteplan: %s is not installed", pid)
	}

	toDelete := []string{pid}
	var keepDeps []KeptDependency
	var deleteDeps []string

	if withDeps {
		for _, dep := range g.Forward(pid, true) {
			if _, ok := installed[dep]; !ok {
				continue
			}
			others := removeSelf(g.Dependents(dep), pid)
			if len(others) > 0 {
				keepDeps = append(keepDeps, KeptDependency{ID: dep, Dependents: others})
			} else {
				deleteDeps = append(deleteDeps, dep)
				toDelete = append(toDelete, dep)
			}
		}
	}

	sort.Strings(toDelete)
	sort.Strings(deleteDeps)
	sort.Slice(keepDeps, func(i, j int) bool { return keepDeps[i].ID < keepDeps[j].ID })

	var total int64
	for _, p := range toDelete {
		total += sizeOf(p)
	}

	return &Plan{
		Target:     pid,
		Dependents: g.Dependents(pid),
		ToDelete:   toDelete,
		KeepDeps:   keepDeps,
		DeleteDeps: deleteDeps,
		TotalBytes: total,
	}, nil
}

func removeSelf(ids []string, self string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != self {
			out = append(out, id)
		}
	}
	return out
}

// Execute removes every archive named in plan.ToDelete from disk and
// invalidates each from g's forward/reverse graph, continuing past
// individual failures so one locked file never blocks the rest of the
// batch.
func Execute(g *depgraph.Graph, plan *Plan, pathOf PathFunc) []Result {
	results := make([]Result, 0, len(plan.ToDelete))
	for _, pid := range plan.ToDelete {
		path, ok := pathOf(pid)
		if !ok {
			results = append(results, Result{ID: pid, Deleted: false, Detail: "file not found"})
			continue
		}
		if _, err := os.Stat(path); err != nil {
			results = append(results, Result{ID: pid, Deleted: false, Detail: "file not found"})
			continue
		}
		if err := os.Remove(path); err != nil {
			results = append(results, Result{ID: pid, Deleted: false, Detail: err.Error()})
			continue
		}
		g.Invalidate(pid)
		results = append(results, Result{ID: pid, Deleted: true, Detail: "deleted"})
	}
	return results
}
