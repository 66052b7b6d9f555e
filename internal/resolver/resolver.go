// Package resolver maps a reference — possibly a floating "latest" alias,
// possibly a pinned version that isn't installed — to a concrete installed
// package id.
package resolver

import (
	"strconv"
	"strings"
)

// Resolve maps ref to a concrete installed id:
//  1. if ref is literally a key in index, return it unchanged.
//  2. otherwise, among all installed ids sharing ref's Author.PackageName
//     base with a digit-string version, return the one with the largest
//     integer version.
//  3. if none exist, return ref unchanged — resolution failed, but the
//     reference is preserved so missing-dependency reporting can use it.
func Resolve(ref string, index map[string]string) string {
	if _, ok := index[ref]; ok {
		return ref
	}

	idx := strings.LastIndex(ref, ".")
	if idx < 0 {
		return ref
	}
	base := ref[:idx]

	bestVersion := -1
	bestID := ""
	for pid := range index {
		pidIdx := strings.LastIndex(pid, ".")
		if pidIdx < 0 {
			continue
		}
		pidBase := pid[:pidIdx]
		pidVersion := pid[pidIdx+1:]
		if pidBase != base {
			continue
		}
		v, err := strconv.Atoi(pidVersion)
		if err != nil {
			continue
		}
		if v > bestVersion {
			bestVersion = v
			bestID = pid
		}
	}

	if bestID == "" {
		return ref
	}
	return bestID
}
