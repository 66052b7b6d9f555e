// Package file provides small filesystem helpers shared across the tool.
package file

import (
	"path/filepath"
	"strings"
)

// IsSubPath reports whether target resolves to base itself or a path
// beneath it, used by the scanner to reject a symlink whose resolved
// target escapes the installation root.
func IsSubPath(base, target string) (bool, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return false, err
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil {
		return false, err
	}
	if rel == "." {
		return true, nil
	}
	if strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return false, nil
	}
	return true, nil
}
