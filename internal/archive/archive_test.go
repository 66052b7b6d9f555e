package archive_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/archive"
)

func writeVar(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pkg.var")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadManifestObjectDependencies(t *testing.T) {
	path := writeVar(t, map[string]string{
		"meta.json": `{"creatorName":"Bob","licenseType":"CC BY","dependencies":{"Alice.Hair.2":{}}}`,
	})

	m, ok := archive.ReadManifest(path)
	if !ok {
		t.Fatal("expected manifest to parse")
	}
	if m.CreatorName != "Bob" {
		t.Errorf("CreatorName = %q, want Bob", m.CreatorName)
	}
}

func TestReadManifestMissingEntry(t *testing.T) {
	path := writeVar(t, map[string]string{"Custom/foo.vap": "{}"})
	if _, ok := archive.ReadManifest(path); ok {
		t.Error("expected no manifest when meta.json is absent")
	}
}

func TestExtractRefsFromManifestObjectForm(t *testing.T) {
	path := writeVar(t, map[string]string{
		"meta.json": `{"dependencies":{"Alice.Hair.2":{},"Bob.Self.1":{}}}`,
	})
	refs := archive.ExtractRefsFromManifest(path, "Bob.Self.1")
	if _, ok := refs["Alice.Hair.2"]; !ok {
		t.Error("expected Alice.Hair.2 in refs")
	}
	if _, ok := refs["Bob.Self.1"]; ok {
		t.Error("self id must be excluded from refs")
	}
}

func TestExtractRefsFromManifestArrayForm(t *testing.T) {
	path := writeVar(t, map[string]string{
		"meta.json": `{"dependencies":["Alice.Hair.2","Carl.Pose.latest"]}`,
	})
	refs := archive.ExtractRefsFromManifest(path, "Zed.Self.1")
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2: %v", len(refs), refs)
	}
	if _, ok := refs["Carl.Pose.latest"]; !ok {
		t.Error("expected Carl.Pose.latest normalized and present")
	}
}

func TestExtractRefsFromTextScrapesSceneFiles(t *testing.T) {
	path := writeVar(t, map[string]string{
		"Custom/Atom/Person/scene.json": `load Alice.Hair.2:/Custom/Atom/Person/hair.vap plus junk`,
	})
	refs := archive.ExtractRefsFromText(path, "Zed.Self.1")
	if _, ok := refs["Alice.Hair.2"]; !ok {
		t.Errorf("expected scraped ref, got %v", refs)
	}
}

func TestExtractRefsPrefersManifestOverText(t *testing.T) {
	path := writeVar(t, map[string]string{
		"meta.json":    `{"dependencies":{"Alice.Hair.2":{}}}`,
		"scene.scene":  `Carl.Pose.3:/foo`,
	})
	refs := archive.ExtractRefs(path, "Zed.Self.1")
	if len(refs) != 1 {
		t.Fatalf("got %d refs, want 1 (manifest-only): %v", len(refs), refs)
	}
	if _, ok := refs["Alice.Hair.2"]; !ok {
		t.Error("expected manifest ref to win")
	}
}

func TestExtractRefsFallsBackToTextWhenManifestEmpty(t *testing.T) {
	path := writeVar(t, map[string]string{
		"meta.json":   `{"dependencies":{}}`,
		"scene.scene": `Carl.Pose.3:/foo`,
	})
	refs := archive.ExtractRefs(path, "Zed.Self.1")
	if _, ok := refs["Carl.Pose.3"]; !ok {
		t.Errorf("expected text-scrape fallback, got %v", refs)
	}
}
