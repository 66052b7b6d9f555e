// Package scanner walks a VaM installation directory and builds the
// PackageIndex: a mapping from parsed package id to the archive path that
// represents it, with larger-file-wins collision resolution.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/pkgid"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/utils/file"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/utils/logger"
)

// Collision records one id that resolved to more than one archive on disk.
type Collision struct {
	ID      string
	Kept    string
	Ignored []string
}

// Scan recursively walks root for *.var files (case-insensitive), parses
// each filename into a package id, and returns the resulting index.
// Unparseable filenames are skipped. On a collision the larger file is kept
// and the rest are reported as Collisions, never deleted.
func Scan(root string) (map[string]string, []Collision, error) {
	rootInfo, statErr := os.Stat(root)
	if statErr != nil {
		return nil, nil, fmt.Errorf("scanner: %s: %w", root, statErr)
	}
	if !rootInfo.IsDir() {
		return nil, nil, fmt.Errorf("scanner: %s is not a directory", root)
	}

	index := make(map[string]string)
	seen := make(map[string][]string) // id -> every path seen, for collision reporting

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				// The root itself vanishing or becoming unreadable mid-walk is
				// fatal; anything deeper is just an unreadable entry.
				return err
			}
			logger.Logger().Warnw("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				logger.Logger().Warnw("skipping unresolvable symlink", "path", path, "error", err)
				return nil
			}
			if ok, err := file.IsSubPath(root, target); err != nil || !ok {
				logger.Logger().Warnw("skipping symlink escaping installation root", "path", path, "target", target)
				return nil
			}
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), ".var") {
			return nil
		}

		id, ok := pkgid.ParseID(d.Name())
		if !ok {
			return nil
		}

		seen[id] = append(seen[id], path)

		existing, exists := index[id]
		if !exists {
			index[id] = path
			return nil
		}

		existingSize, err1 := fileSize(existing)
		newSize, err2 := fileSize(path)
		if err1 != nil || err2 != nil {
			return nil
		}
		if newSize > existingSize {
			index[id] = path
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var collisions []Collision
	for id, paths := range seen {
		if len(paths) < 2 {
			continue
		}
		kept := index[id]
		var ignored []string
		for _, p := range paths {
			if p != kept {
				ignored = append(ignored, p)
			}
		}
		sort.Strings(ignored)
		collisions = append(collisions, Collision{ID: id, Kept: kept, Ignored: ignored})
		logger.Logger().Warnw("duplicate package id", "id", id, "kept", kept, "ignored", ignored)
	}
	sort.Slice(collisions, func(i, j int) bool { return collisions[i].ID < collisions[j].ID })

	return index, collisions, nil
}

func fileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
