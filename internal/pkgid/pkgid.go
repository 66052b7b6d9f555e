// Package pkgid parses and validates VaM package identifiers of the form
// Author.PackageName.Version, and the looser reference grammar used for
// dependency strings scraped out of scene/asset files.
package pkgid

import (
	"path/filepath"
	"strconv"
	"strings"
)

// reservedAuthor tokens are rejected outright; they show up as false
// positives from the text-scrape regex far more often than as real authors.
const reservedAuthor = "entries"

// ParseID extracts a package id from an archive filename. It strips the
// extension, splits on '.', and requires at least three segments. It is
// more permissive than IsValidRef about the author token's length, because
// filenames on disk are trusted; text-scraped references are not. It still
// rejects the same digit-only and version-like author shapes IsValidRef
// does — those are never legitimate author handles regardless of source.
//
// Returns ("", false) on any rule violation.
func ParseID(filename string) (string, bool) {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	parts := strings.Split(name, ".")
	if len(parts) < 3 {
		return "", false
	}

	author := parts[0]
	pkg := strings.Join(parts[1:len(parts)-1], ".")
	version := parts[len(parts)-1]

	normVersion, ok := normalizeVersion(version)
	if !ok {
		return "", false
	}

	if isDigits(author) {
		return "", false
	}
	if isVersionLikePrefix(author) {
		return "", false
	}
	if author == reservedAuthor {
		return "", false
	}
	if pkg == "" {
		return "", false
	}
	if r := []rune(pkg)[0]; !isAlpha(r) {
		return "", false
	}

	return author + "." + pkg + "." + normVersion, true
}

// IsValidRef is the stricter predicate applied to references extracted from
// asset text, to reject incidental matches of the scraping regex. It shares
// PackageId's grammar but additionally validates the author token.
func IsValidRef(ref string) bool {
	parts := strings.Split(strings.TrimSpace(ref), ".")
	if len(parts) < 3 {
		return false
	}

	author := strings.TrimSpace(parts[0])
	pkg := strings.Join(parts[1:len(parts)-1], ".")
	version := parts[len(parts)-1]

	if !(isDigits(version) || strings.EqualFold(version, "latest")) {
		return false
	}

	if len(author) < 2 {
		return false
	}
	if isDigits(author) {
		return false
	}
	if isVersionLikePrefix(author) {
		return false
	}
	if author == reservedAuthor {
		return false
	}

	if pkg == "" {
		return false
	}
	if r := []rune(pkg)[0]; !isAlpha(r) {
		return false
	}

	return true
}

// LatestAlias returns Author.PackageName.latest when pid's version is a
// digit string, else the empty string.
func LatestAlias(pid string) string {
	parts := strings.Split(pid, ".")
	if len(parts) < 3 || !isDigits(parts[len(parts)-1]) {
		return ""
	}
	return strings.Join(parts[:len(parts)-1], ".") + ".latest"
}

// SplitBase splits an id or reference into its Author.PackageName base and
// its version segment.
func SplitBase(id string) (base, version string) {
	parts := strings.Split(id, ".")
	if len(parts) < 2 {
		return id, ""
	}
	return strings.Join(parts[:len(parts)-1], "."), parts[len(parts)-1]
}

// normalizeVersion validates and lowercases a version token.
func normalizeVersion(version string) (string, bool) {
	if isDigits(version) {
		return version, true
	}
	if strings.EqualFold(version, "latest") {
		return "latest", true
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isVersionLikePrefix rejects author tokens that start with 'v' or '-'
// followed only by digits and dots, e.g. "v1", "-2.3" — these are almost
// always a misparsed version string, not a real author handle.
func isVersionLikePrefix(author string) bool {
	if author == "" {
		return false
	}
	first := author[0]
	if first != 'v' && first != '-' {
		return false
	}
	rest := author[1:]
	if rest == "" {
		return false
	}
	for _, r := range rest {
		if !(r >= '0' && r <= '9') && r != '.' {
			return false
		}
	}
	return true
}

// ParseVersionInt parses a package id's version as an integer. ok is false
// when the version is not a digit string (e.g. "latest").
func ParseVersionInt(pid string) (v int, ok bool) {
	_, version := SplitBase(pid)
	n, err := strconv.Atoi(version)
	if err != nil {
		return 0, false
	}
	return n, true
}
