// Package refcache persists the reference set extracted from each archive,
// keyed on (filename, mtime, size), so a re-scan of an unchanged archive
// never has to reopen the ZIP. The backing store is a pure-Go SQLite
// database living under the installation's Cache subdirectory.
package refcache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/utils/logger"
)

const (
	cacheSubdir  = "Cache"
	dbFileName   = "vam_pkg_cache.db"
	mtimeTolSecs = 0.001
)

const schema = `
CREATE TABLE IF NOT EXISTS package_refs (
	filename TEXT PRIMARY KEY,
	mtime    REAL NOT NULL,
	size     INTEGER NOT NULL,
	refs     TEXT NOT NULL
)`

// Cache is a best-effort persistent store: if the backing database cannot
// be opened or queried, every Lookup misses and every Store is a no-op —
// indexing remains correct, just slower.
type Cache struct {
	db *sql.DB
	ok bool
}

// Open creates (if needed) vamDir/Cache and opens the reference cache
// database inside it. Open never fails the caller: a backend error leaves
// the Cache in a disabled, always-miss state.
func Open(vamDir string) *Cache {
	cacheDir := filepath.Join(vamDir, cacheSubdir)
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		logger.Logger().Warnw("cache directory unavailable, disabling cache", "dir", cacheDir, "error", err)
		return &Cache{ok: false}
	}

	dbPath := filepath.Join(cacheDir, dbFileName)
	db, ok := openAndPrepare(dbPath)
	if !ok && db != nil {
		db.Close()
	}
	if !ok {
		// One retry after quarantining a database file that won't even
		// accept its own schema — most often a prior run's disk-full write.
		if err := rebuildCorruptDB(dbPath); err == nil {
			db, ok = openAndPrepare(dbPath)
		}
	}
	if !ok {
		logger.Logger().Warnw("cache database unavailable, disabling cache", "path", dbPath)
		return &Cache{ok: false}
	}

	return &Cache{db: db, ok: true}
}

func openAndPrepare(dbPath string) (*sql.DB, bool) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, false
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		logger.Logger().Warnw("failed to enable WAL mode, continuing without it", "error", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return db, false
	}
	return db, true
}

// Lookup returns the stored reference set for path when the stored
// (mtime, size) matches the live archive's (mtime compared with a 1ms
// tolerance, size exactly). Any error, including a cache in a disabled
// state, returns (nil, false) — a miss.
func (c *Cache) Lookup(path string) (map[string]struct{}, bool) {
	if !c.ok {
		return nil, false
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	var mtime float64
	var size int64
	var refsJSON string
	row := c.db.QueryRow(
		"SELECT mtime, size, refs FROM package_refs WHERE filename = ?",
		filepath.Base(path),
	)
	if err := row.Scan(&mtime, &size, &refsJSON); err != nil {
		return nil, false
	}

	liveMtime := float64(fi.ModTime().UnixNano()) / 1e9
	if math.Abs(mtime-liveMtime) >= mtimeTolSecs || size != fi.Size() {
		return nil, false
	}

	var list []string
	if err := json.Unmarshal([]byte(refsJSON), &list); err != nil {
		return nil, false
	}

	refs := make(map[string]struct{}, len(list))
	for _, r := range list {
		refs[r] = struct{}{}
	}
	return refs, true
}

// Store writes or overwrites the row keyed by path's basename, persisting
// mtime, size, and the refs as a sorted JSON array. Errors are swallowed
// silently, per the cache's best-effort contract.
func (c *Cache) Store(path string, refs map[string]struct{}) {
	if !c.ok {
		return
	}

	fi, err := os.Stat(path)
	if err != nil {
		return
	}

	list := make([]string, 0, len(refs))
	for r := range refs {
		list = append(list, r)
	}
	sort.Strings(list)

	refsJSON, err := json.Marshal(list)
	if err != nil {
		return
	}

	mtime := float64(fi.ModTime().UnixNano()) / 1e9
	_, _ = c.db.Exec(
		`INSERT INTO package_refs (filename, mtime, size, refs) VALUES (?, ?, ?, ?)
		 ON CONFLICT(filename) DO UPDATE SET mtime = excluded.mtime, size = excluded.size, refs = excluded.refs`,
		filepath.Base(path), mtime, fi.Size(), string(refsJSON),
	)
}

// Prune deletes every row whose filename is not in knownFilenames, returning
// the number of rows removed.
func (c *Cache) Prune(knownFilenames map[string]struct{}) int {
	if !c.ok {
		return 0
	}

	rows, err := c.db.Query("SELECT filename FROM package_refs")
	if err != nil {
		return 0
	}

	var stale []string
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			continue
		}
		if _, ok := knownFilenames[filename]; !ok {
			stale = append(stale, filename)
		}
	}
	rows.Close()

	for _, filename := range stale {
		_, _ = c.db.Exec("DELETE FROM package_refs WHERE filename = ?", filename)
	}
	return len(stale)
}

// Close releases the database handle.
func (c *Cache) Close() error {
	if !c.ok || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// rebuildCorruptDB moves aside a database file that fails to open cleanly
// and starts fresh, rather than leaving indexing permanently degraded.
// The aside-path uses a uuid suffix so repeated corruption never collides.
func rebuildCorruptDB(dbPath string) error {
	quarantined := fmt.Sprintf("%s.corrupt-%s", dbPath, uuid.New().String()[:8])
	return os.Rename(dbPath, quarantined)
}
