// Package archive reads VaM .var archives (ZIP containers): the embedded
// meta.json manifest, and the textual reference scrape used as a fallback
// when a manifest declares no dependencies.
package archive

import (
	"archive/zip"
	"encoding/json"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/klauspost/compress/flate"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/config/validate"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/pkgid"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/utils/logger"
)

// manifestEntry is the root-level manifest filename every .var may carry.
const manifestEntry = "meta.json"

// textAssetExts are the entry extensions scraped for textual references.
var textAssetExts = map[string]bool{
	".scene": true, ".person": true, ".json": true,
	".vap": true, ".vab": true, ".vac": true, ".vps": true, ".vmp": true, ".vms": true,
	".skin": true, ".uip": true,
	".cslist": true, ".cs": true,
}

// refPattern matches Author.Package.Version-shaped strings immediately
// followed by a colon-slash, the separator VaM uses inside scene/asset
// references (e.g. "Author.Pkg.3:/Custom/Atom/...").
var refPattern = regexp.MustCompile(`(?i)([A-Za-z0-9][A-Za-z0-9_\- ]*\.[A-Za-z0-9_\-]+\.(?:\d+|latest)):/`)

var registerDecompressor sync.Once

// newZipReader opens path as a zip.Reader, registering klauspost/compress's
// flate implementation for the Deflate method — a faster drop-in for the
// codec archive/zip otherwise falls back to from compress/flate.
func newZipReader(path string) (*zip.ReadCloser, error) {
	registerDecompressor.Do(func() {
		zip.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
			return flate.NewReader(r)
		})
	})
	return zip.OpenReader(path)
}

// Manifest is the subset of meta.json fields the core cares about.
type Manifest struct {
	Dependencies json.RawMessage `json:"dependencies"`
	CreatorName  string          `json:"creatorName"`
	LicenseType  string          `json:"licenseType"`
	Description  string          `json:"description"`
}

// ReadManifest opens the archive and, if a root meta.json entry exists,
// parses its JSON body. Any failure (missing entry, malformed JSON, I/O
// error) returns (nil, false); it never returns an error to the caller,
// per the "manifest malformed is a recovery path" policy.
func ReadManifest(path string) (*Manifest, bool) {
	zr, err := newZipReader(path)
	if err != nil {
		return nil, false
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != manifestEntry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, false
		}

		if err := validate.ValidateMetaJSON(data); err != nil {
			logger.Logger().Debugw("meta.json failed schema validation", "path", path, "err", err)
		}

		var m Manifest
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, false
		}
		return &m, true
	}
	return nil, false
}

// ExtractRefsFromManifest returns the set of references declared by the
// archive's manifest, minus the archive's own id. The dependencies field
// may be a JSON object (keys are references) or a JSON array (elements are
// references); anything else yields the empty set.
func ExtractRefsFromManifest(path, selfID string) map[string]struct{} {
	refs := map[string]struct{}{}

	manifest, ok := ReadManifest(path)
	if !ok || len(manifest.Dependencies) == 0 {
		return refs
	}

	var keys []string
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(manifest.Dependencies, &obj); err == nil {
		for k := range obj {
			keys = append(keys, k)
		}
	} else {
		var arr []json.RawMessage
		if err := json.Unmarshal(manifest.Dependencies, &arr); err != nil {
			return refs
		}
		for _, raw := range arr {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				continue
			}
			keys = append(keys, s)
		}
	}

	for _, key := range keys {
		key = normalizeLatestSuffix(key)
		if key != selfID {
			refs[key] = struct{}{}
		}
	}
	return refs
}

// ExtractRefsFromText scans every recognized text-asset entry for
// reference-shaped strings, validates each against pkgid.IsValidRef, and
// returns the set minus the archive's own id. A whole-archive open failure
// yields the empty set; per-entry read failures are swallowed.
func ExtractRefsFromText(path, selfID string) map[string]struct{} {
	refs := map[string]struct{}{}

	zr, err := newZipReader(path)
	if err != nil {
		return refs
	}
	defer zr.Close()

	for _, f := range zr.File {
		ext := strings.ToLower(filepath.Ext(f.Name))
		if !textAssetExts[ext] {
			continue
		}

		func() {
			rc, err := f.Open()
			if err != nil {
				return
			}
			defer rc.Close()

			data, err := io.ReadAll(rc)
			if err != nil {
				return
			}
			content := strings.ToValidUTF8(string(data), "�")

			for _, m := range refPattern.FindAllStringSubmatch(content, -1) {
				ref := strings.TrimSpace(m[1])
				ref = normalizeLatestSuffix(ref)
				if !pkgid.IsValidRef(ref) {
					continue
				}
				if ref != selfID {
					refs[ref] = struct{}{}
				}
			}
		}()
	}
	return refs
}

// ExtractRefs combines the manifest and text-scrape extraction paths per
// the precedence rule: a non-empty manifest-declared set wins outright
// (including when resolution later fails), falling through to the
// text-asset scrape only when the manifest yields nothing at all.
func ExtractRefs(path, selfID string) map[string]struct{} {
	refs := ExtractRefsFromManifest(path, selfID)
	if len(refs) > 0 {
		return refs
	}

	refs = ExtractRefsFromText(path, selfID)
	if refs == nil {
		logger.Logger().Debugw("no references extracted", "path", path)
		return map[string]struct{}{}
	}
	return refs
}

// normalizeLatestSuffix lowercases a trailing "latest" version segment,
// leaving everything else untouched.
func normalizeLatestSuffix(ref string) string {
	idx := strings.LastIndex(ref, ".")
	if idx < 0 {
		return ref
	}
	if strings.EqualFold(ref[idx+1:], "latest") {
		return ref[:idx+1] + "latest"
	}
	return ref
}
