package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/utils/file"
)

func TestIsSubPathWithinRoot(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "nested", "Bob.X.1.var")

	ok, err := file.IsSubPath(root, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("expected %q to be a subpath of %q", target, root)
	}
}

func TestIsSubPathEqualsRoot(t *testing.T) {
	root := t.TempDir()

	ok, err := file.IsSubPath(root, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected root to be a subpath of itself")
	}
}

func TestIsSubPathOutsideRoot(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(os.TempDir(), "elsewhere", "Bob.X.1.var")

	ok, err := file.IsSubPath(root, outside)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("expected %q to not be a subpath of %q", outside, root)
	}
}

func TestIsSubPathSiblingDirectoryWithSharedPrefix(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "VaM")
	sibling := filepath.Join(parent, "VaM-other", "Bob.X.1.var")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}

	ok, err := file.IsSubPath(root, sibling)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("expected %q to not be treated as a subpath of %q despite shared prefix", sibling, root)
	}
}
