package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/scanner"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScanIndexesVarFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Bob.X.1.var"), 10)
	writeFile(t, filepath.Join(root, "nested", "Bob.Y.2.var"), 10)
	writeFile(t, filepath.Join(root, "not-a-var.txt"), 10)
	writeFile(t, filepath.Join(root, "unparseable.var"), 10)

	index, collisions, err := scanner.Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(collisions) != 0 {
		t.Fatalf("unexpected collisions: %v", collisions)
	}
	if _, ok := index["Bob.X.1"]; !ok {
		t.Error("expected Bob.X.1 in index")
	}
	if _, ok := index["Bob.Y.2"]; !ok {
		t.Error("expected Bob.Y.2 in index")
	}
	if len(index) != 2 {
		t.Errorf("got %d entries, want 2 (unparseable/non-.var names skipped): %v", len(index), index)
	}
}

func TestScanKeepsLargerFileOnCollision(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "Bob.X.1.var"), 10)
	writeFile(t, filepath.Join(root, "b", "Bob.X.1.var"), 100)

	index, collisions, err := scanner.Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(collisions) != 1 {
		t.Fatalf("expected 1 collision, got %d", len(collisions))
	}
	c := collisions[0]
	if c.ID != "Bob.X.1" {
		t.Errorf("collision id = %q, want Bob.X.1", c.ID)
	}
	if c.Kept != index["Bob.X.1"] {
		t.Errorf("collision.Kept = %q, want %q", c.Kept, index["Bob.X.1"])
	}
	if filepath.Base(filepath.Dir(c.Kept)) != "b" {
		t.Errorf("expected the larger file (under b/) to be kept, got %q", c.Kept)
	}
	if len(c.Ignored) != 1 {
		t.Fatalf("expected 1 ignored path, got %d", len(c.Ignored))
	}
}

func TestScanIsCaseInsensitiveOnExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Bob.X.1.VAR"), 10)

	index, _, err := scanner.Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := index["Bob.X.1"]; !ok {
		t.Error("expected .VAR extension to be treated as .var")
	}
}

func TestScanMissingRootReturnsError(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist")

	_, _, err := scanner.Scan(root)
	if err == nil {
		t.Fatal("expected an error for a nonexistent root")
	}
}

func TestScanRootIsFileReturnsError(t *testing.T) {
	root := filepath.Join(t.TempDir(), "not-a-dir")
	writeFile(t, root, 10)

	_, _, err := scanner.Scan(root)
	if err == nil {
		t.Fatal("expected an error when root is a regular file, not a directory")
	}
}

func TestScanSkipsSymlinkEscapingRoot(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "Escaped.Pkg.1.var")
	writeFile(t, target, 10)

	link := filepath.Join(root, "Escaped.Pkg.1.var")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	index, _, err := scanner.Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := index["Escaped.Pkg.1"]; ok {
		t.Error("expected symlink escaping the root to be skipped")
	}
}

func TestScanFollowsSymlinkWithinRoot(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real", "Bob.X.1.var")
	writeFile(t, target, 10)

	link := filepath.Join(root, "Bob.X.1.var")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	index, _, err := scanner.Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := index["Bob.X.1"]; !ok {
		t.Error("expected a symlink resolving within the root to be indexed")
	}
}
