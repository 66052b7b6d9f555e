// Package depgraph computes forward and reverse dependency relationships
// over a resolved PackageIndex: transitive closures, a depth-bounded dep
// tree with supersession pruning, and the orphan/missing derived reports.
package depgraph

import (
	"math"
	"sort"
	"strings"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/pkgid"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/resolver"
)

// Graph holds the forward dependency edges built during indexing (pid ->
// its direct deps, which may be concrete installed ids or unresolved
// reference strings) plus the installed PackageIndex they were resolved
// against. The reverse index is derived and built lazily.
type Graph struct {
	index   map[string]string   // pid -> archive path
	forward map[string][]string // pid -> direct deps (sorted)

	reverse map[string][]string // dep -> dependents; nil until first use
}

// New builds a Graph from an installed index and the already-resolved
// direct-dependency set for every installed package.
func New(index map[string]string, directDeps map[string]map[string]struct{}) *Graph {
	g := &Graph{
		index:   index,
		forward: make(map[string][]string, len(directDeps)),
	}
	for pid, deps := range directDeps {
		list := make([]string, 0, len(deps))
		for d := range deps {
			list = append(list, d)
		}
		sort.Strings(list)
		g.forward[pid] = list
	}
	return g
}

// Invalidate drops the lazily-built reverse index and removes pid's forward
// row, for use after a deletion.
func (g *Graph) Invalidate(pid string) {
	delete(g.forward, pid)
	delete(g.index, pid)
	g.reverse = nil
}

// DirectDeps returns a copy of pid's direct dependency set.
func (g *Graph) DirectDeps(pid string) []string {
	deps := g.forward[pid]
	out := make([]string, len(deps))
	copy(out, deps)
	return out
}

// Forward returns pid's direct deps, or — when recursive is true — the
// full transitive closure via a cycle-tolerant breadth-first traversal.
func (g *Graph) Forward(pid string, recursive bool) []string {
	if !recursive {
		return g.DirectDeps(pid)
	}

	visited := map[string]struct{}{}
	queue := append([]string(nil), g.forward[pid]...)
	for len(queue) > 0 {
		dep := queue[0]
		queue = queue[1:]
		if _, ok := visited[dep]; ok {
			continue
		}
		visited[dep] = struct{}{}
		queue = append(queue, g.forward[dep]...)
	}

	out := make([]string, 0, len(visited))
	for d := range visited {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// buildReverse builds (or returns the cached) dep -> dependents index.
func (g *Graph) buildReverse() map[string][]string {
	if g.reverse != nil {
		return g.reverse
	}
	rev := make(map[string][]string)
	for pid, deps := range g.forward {
		for _, d := range deps {
			rev[d] = append(rev[d], pid)
		}
	}
	for k := range rev {
		sort.Strings(rev[k])
	}
	g.reverse = rev
	return rev
}

// Dependents returns the transitive set of packages depending on pid,
// directly or via its "latest" alias, via breadth-first traversal of the
// reverse index.
func (g *Graph) Dependents(pid string) []string {
	rev := g.buildReverse()
	alias := pkgid.LatestAlias(pid)

	seed := map[string]struct{}{}
	for _, p := range rev[pid] {
		seed[p] = struct{}{}
	}
	if alias != "" {
		for _, p := range rev[alias] {
			seed[p] = struct{}{}
		}
	}

	visited := map[string]struct{}{}
	queue := make([]string, 0, len(seed))
	for p := range seed {
		queue = append(queue, p)
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if _, ok := visited[p]; ok {
			continue
		}
		visited[p] = struct{}{}
		queue = append(queue, rev[p]...)
	}

	out := make([]string, 0, len(visited))
	for p := range visited {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// DepTreeEntry is one row of a dep tree listing.
type DepTreeEntry struct {
	Dep    string
	Depth  int
	Parent string
}

// DepTree walks pid's forward graph depth-first (children visited in
// sorted order, depth-bounded, a per-path visited set preventing cycles),
// pruning any digit-versioned dep whose version is less than the best
// version seen for its Author.PackageName base across the full transitive
// closure — a "latest"-versioned dep always dominates and is never pruned.
func (g *Graph) DepTree(pid string, maxDepth int) []DepTreeEntry {
	best := bestVersions(g.Forward(pid, true))

	var result []DepTreeEntry
	var walk func(node string, depth int, visited map[string]struct{})
	walk = func(node string, depth int, visited map[string]struct{}) {
		if depth > maxDepth {
			return
		}
		for _, dep := range g.forward[node] {
			if isSuperseded(dep, best) {
				continue
			}
			result = append(result, DepTreeEntry{Dep: dep, Depth: depth, Parent: node})
			if _, ok := visited[dep]; !ok {
				next := make(map[string]struct{}, len(visited)+1)
				for v := range visited {
					next[v] = struct{}{}
				}
				next[dep] = struct{}{}
				walk(dep, depth+1, next)
			}
		}
	}
	walk(pid, 1, map[string]struct{}{pid: {}})
	return result
}

// bestVersions computes, for each Author.PackageName base among deps, the
// "best" version seen: math.Inf(1) when a "latest" alias appears for that
// base, else the maximum installed-or-referenced integer version.
func bestVersions(deps []string) map[string]float64 {
	best := map[string]float64{}
	for _, dep := range deps {
		base, version := pkgid.SplitBase(dep)
		if strings.EqualFold(version, "latest") {
			best[base] = math.Inf(1)
			continue
		}
		v, ok := pkgid.ParseVersionInt(dep)
		if !ok {
			continue
		}
		if cur, exists := best[base]; !exists || (cur != math.Inf(1) && float64(v) > cur) {
			best[base] = float64(v)
		}
	}
	return best
}

func isSuperseded(dep string, best map[string]float64) bool {
	base, version := pkgid.SplitBase(dep)
	if strings.EqualFold(version, "latest") {
		return false
	}
	v, ok := pkgid.ParseVersionInt(dep)
	if !ok {
		return false
	}
	b, exists := best[base]
	if !exists {
		return false
	}
	return float64(v) < b
}

// MissingEntry pairs a referenced-but-not-installed id with every installed
// package that directly depends on it.
type MissingEntry struct {
	MissingID  string
	Dependents []string
}

// FindMissing reports, for every installed pid and every direct dep d, the
// cases where d is not a key in the index. Results are sorted by dependent
// count descending, then by id for determinism.
func (g *Graph) FindMissing() []MissingEntry {
	missing := map[string]map[string]struct{}{}
	for pid, deps := range g.forward {
		for _, d := range deps {
			if _, installed := g.index[d]; installed {
				continue
			}
			if missing[d] == nil {
				missing[d] = map[string]struct{}{}
			}
			missing[d][pid] = struct{}{}
		}
	}

	result := make([]MissingEntry, 0, len(missing))
	for mid, dependents := range missing {
		list := make([]string, 0, len(dependents))
		for p := range dependents {
			list = append(list, p)
		}
		sort.Strings(list)
		result = append(result, MissingEntry{MissingID: mid, Dependents: list})
	}
	sort.Slice(result, func(i, j int) bool {
		if len(result[i].Dependents) != len(result[j].Dependents) {
			return len(result[i].Dependents) > len(result[j].Dependents)
		}
		return result[i].MissingID < result[j].MissingID
	})
	return result
}

// OrphanEntry pairs an orphaned package id with its size in bytes, as
// reported by the caller (depgraph has no filesystem access of its own).
type OrphanEntry struct {
	ID    string
	Bytes int64
}

// FindOrphans returns every installed pid no other installed package
// depends on, directly or via a "latest" alias that resolves to it.
// sizeOf supplies each orphan's size in bytes; the result is sorted by size
// descending, then by id.
func (g *Graph) FindOrphans(sizeOf func(pid string) int64) []OrphanEntry {
	var orphans []OrphanEntry
	for pid := range g.index {
		if g.isUsed(pid) {
			continue
		}
		orphans = append(orphans, OrphanEntry{ID: pid, Bytes: sizeOf(pid)})
	}
	sort.Slice(orphans, func(i, j int) bool {
		if orphans[i].Bytes != orphans[j].Bytes {
			return orphans[i].Bytes > orphans[j].Bytes
		}
		return orphans[i].ID < orphans[j].ID
	})
	return orphans
}

func (g *Graph) isUsed(pid string) bool {
	base, version := pkgid.SplitBase(pid)
	for other, deps := range g.forward {
		if other == pid {
			continue
		}
		for _, d := range deps {
			dBase, dVersion := pkgid.SplitBase(d)
			if dBase != base {
				continue
			}
			if dVersion == version {
				return true
			}
			if strings.EqualFold(dVersion, "latest") {
				if resolver.Resolve(d, g.index) == pid {
					return true
				}
			}
		}
	}
	return false
}
