// Package manager exposes the PackageManager facade: the single entry
// point that ties scanning, reference caching, resolution, and the
// dependency graph together into the operations the CLI and TUI drive.
package manager

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/archive"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/deleteplan"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/depgraph"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/pkgid"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/refcache"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/resolver"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/scanner"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/utils/convert"
)

// ErrInstallationMissing is returned by New when vamDir does not exist or is
// not a directory. It is the only error that escapes New.
var ErrInstallationMissing = errors.New("VaM installation directory does not exist or is not a directory")

// ProgressFunc is invoked once per archive during New, after that archive's
// references have been loaded (from cache or freshly extracted) and before
// they are resolved against the index.
type ProgressFunc func(scanned, cached, total int, filename string)

// PackageManager is the indexed view of a VaM installation: every .var
// found under VamDir, its resolved direct dependencies, and the derived
// forward/reverse dependency graph.
type PackageManager struct {
	VamDir     string
	index      map[string]string // pid -> archive path
	collisions []scanner.Collision
	graph      *depgraph.Graph
}

// New scans vamDir, consults the persistent reference cache for archives
// whose (mtime, size) are unchanged since last scan, re-extracts and
// caches references for everything else, resolves every reference against
// the installed index, and builds the dependency graph. progress, if
// non-nil, is called once per archive in deterministic (sorted-by-id)
// order.
func New(vamDir string, progress ProgressFunc) (*PackageManager, error) {
	info, err := os.Stat(vamDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("manager: %s: %w", vamDir, ErrInstallationMissing)
	}

	index, collisions, err := scanner.Scan(vamDir)
	if err != nil {
		return nil, fmt.Errorf("manager: scanning %s: %w: %w", vamDir, ErrInstallationMissing, err)
	}

	cache := refcache.Open(vamDir)
	defer cache.Close()

	known := make(map[string]struct{}, len(index))
	for _, path := range index {
		known[baseName(path)] = struct{}{}
	}
	cache.Prune(known)

	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	total := len(ids)
	scanned, cached := 0, 0
	directDeps := make(map[string]map[string]struct{}, len(ids))

	for _, pid := range ids {
		path := index[pid]

		refs, hit := cache.Lookup(path)
		if hit {
			cached++
		} else {
			refs = archive.ExtractRefs(path, pid)
			cache.Store(path, refs)
			scanned++
		}

		if progress != nil {
			progress(scanned, cached, total, baseName(path))
		}

		direct := make(map[string]struct{}, len(refs))
		for ref := range refs {
			if ref == pid {
				continue
			}
			direct[resolver.Resolve(ref, index)] = struct{}{}
		}
		directDeps[pid] = direct
	}

	return &PackageManager{
		VamDir:     vamDir,
		index:      index,
		collisions: collisions,
		graph:      depgraph.New(index, directDeps),
	}, nil
}

// Collisions returns every duplicate-id collision found during scanning.
func (m *PackageManager) Collisions() []scanner.Collision {
	return m.collisions
}

// Installed reports whether pid is present in the index.
func (m *PackageManager) Installed(pid string) bool {
	_, ok := m.index[pid]
	return ok
}

// Path returns pid's archive path.
func (m *PackageManager) Path(pid string) (string, bool) {
	p, ok := m.index[pid]
	return p, ok
}

// Size returns pid's archive size in bytes, or 0 if not installed or
// unreadable.
func (m *PackageManager) Size(pid string) int64 {
	path, ok := m.index[pid]
	if !ok {
		return 0
	}
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

// IDs returns every installed package id, sorted.
func (m *PackageManager) IDs() []string {
	ids := make([]string, 0, len(m.index))
	for id := range m.index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Info is the full detail view of a single installed package.
type Info struct {
	ID           string
	Path         string
	SizeMB       float64
	Creator      string
	License      string
	Description  string
	DirectDeps   []string
	AllDeps      []string
	Dependents   []string
	MissingDeps  []string
}

// PackageInfo builds the detail view for pid. ok is false when pid is not
// installed.
func (m *PackageManager) PackageInfo(pid string) (Info, bool) {
	path, ok := m.index[pid]
	if !ok {
		return Info{}, false
	}

	creator, license, description := "N/A", "N/A", ""
	if manifest, ok := archive.ReadManifest(path); ok {
		if manifest.CreatorName != "" {
			creator = manifest.CreatorName
		}
		if manifest.LicenseType != "" {
			license = manifest.LicenseType
		}
		description = strings.TrimSpace(manifest.Description)
	}

	direct := m.graph.Forward(pid, false)
	all := m.graph.Forward(pid, true)
	dependents := m.graph.Dependents(pid)

	var missing []string
	for _, d := range all {
		if _, installed := m.index[d]; !installed {
			missing = append(missing, d)
		}
	}
	sort.Strings(missing)

	return Info{
		ID:          pid,
		Path:        path,
		SizeMB:      convert.BytesToMB(m.Size(pid)),
		Creator:     creator,
		License:     license,
		Description: description,
		DirectDeps:  direct,
		AllDeps:     all,
		Dependents:  dependents,
		MissingDeps: missing,
	}, true
}

// Dependencies returns pid's dependencies, direct or transitive.
func (m *PackageManager) Dependencies(pid string, recursive bool) []string {
	return m.graph.Forward(pid, recursive)
}

// Dependents returns every package transitively depending on pid.
func (m *PackageManager) Dependents(pid string) []string {
	return m.graph.Dependents(pid)
}

// DepTree returns pid's pruned dependency tree, depth-bounded by maxDepth.
func (m *PackageManager) DepTree(pid string, maxDepth int) []depgraph.DepTreeEntry {
	return m.graph.DepTree(pid, maxDepth)
}

// FindMissing reports every referenced-but-not-installed dependency.
func (m *PackageManager) FindMissing() []depgraph.MissingEntry {
	return m.graph.FindMissing()
}

// FindOrphans reports every installed package nothing else depends on.
func (m *PackageManager) FindOrphans() []depgraph.OrphanEntry {
	return m.graph.FindOrphans(m.Size)
}

// PlanDelete computes a deletion plan for pid.
func (m *PackageManager) PlanDelete(pid string, withDeps bool) (*deleteplan.Plan, error) {
	installed := make(map[string]struct{}, len(m.index))
	for id := range m.index {
		installed[id] = struct{}{}
	}
	return deleteplan.Build(m.graph, pid, withDeps, installed, m.Size)
}

// ExecuteDelete carries out a previously computed deletion plan, removing
// archives from disk and updating the in-memory index and graph.
func (m *PackageManager) ExecuteDelete(plan *deleteplan.Plan) []deleteplan.Result {
	results := deleteplan.Execute(m.graph, plan, m.Path)
	for _, r := range results {
		if r.Deleted {
			delete(m.index, r.ID)
		}
	}
	return results
}

// ParseRef validates a user-supplied package reference and returns what it
// resolves to against the index: the concrete installed id, or the reference
// itself unchanged when nothing under its Author.PackageName base is installed.
func (m *PackageManager) ParseRef(ref string) (string, bool) {
	if !pkgid.IsValidRef(ref) {
		return "", false
	}
	return resolver.Resolve(ref, m.index), true
}

func baseName(path string) string {
	idx := strings.LastIndexAny(path, `/\`)
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}
