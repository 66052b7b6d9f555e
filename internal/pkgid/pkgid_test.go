package pkgid_test

import (
	"testing"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/pkgid"
)

func TestParseID_Accept(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"Alice.Props.3.var", "Alice.Props.3"},
		{"Alice.Props.LATEST.var", "Alice.Props.latest"},
		{"Bob.Hair.Style.1.var", "Bob.Hair.Style.1"},
	}
	for _, c := range cases {
		got, ok := pkgid.ParseID(c.filename)
		if !ok {
			t.Fatalf("ParseID(%q): expected ok, got reject", c.filename)
		}
		if got != c.want {
			t.Errorf("ParseID(%q) = %q, want %q", c.filename, got, c.want)
		}
	}
}

func TestParseID_Reject(t *testing.T) {
	cases := []string{
		"v1.2.3.var",     // author is version-like
		"19.Foo.1.var",   // author is all digits
		"Alice.Props.var", // too few segments
		"Alice.Props.x.var", // version not digit/latest
		"entries.Props.1.var", // reserved author
	}
	for _, f := range cases {
		if _, ok := pkgid.ParseID(f); ok {
			t.Errorf("ParseID(%q): expected reject, got accept", f)
		}
	}
}

func TestIsValidRef(t *testing.T) {
	valid := []string{"Alice.Props.3", "Bob.X.latest", "Bob.X.LATEST"}
	for _, r := range valid {
		if !pkgid.IsValidRef(r) {
			t.Errorf("IsValidRef(%q) = false, want true", r)
		}
	}

	invalid := []string{
		"A.Foo.1",       // author length < 2
		"19.Foo.1",      // author all digits
		"v1.2.3",        // version-like author
		"entries.Foo.1", // reserved author
		"Ab..1",         // empty package segment
		"Ab.1Foo.1",     // package doesn't start with a letter
		"Ab.Foo.x",      // version not digit/latest
		"Ab.Foo",        // too few segments
	}
	for _, r := range invalid {
		if pkgid.IsValidRef(r) {
			t.Errorf("IsValidRef(%q) = true, want false", r)
		}
	}
}

func TestLatestAlias(t *testing.T) {
	if got := pkgid.LatestAlias("Bob.X.5"); got != "Bob.X.latest" {
		t.Errorf("LatestAlias(Bob.X.5) = %q, want Bob.X.latest", got)
	}
	if got := pkgid.LatestAlias("Bob.X.latest"); got != "" {
		t.Errorf("LatestAlias(Bob.X.latest) = %q, want empty", got)
	}
}

func TestSplitBase(t *testing.T) {
	base, version := pkgid.SplitBase("Bob.X.5")
	if base != "Bob.X" || version != "5" {
		t.Errorf("SplitBase = (%q, %q), want (Bob.X, 5)", base, version)
	}
}

func TestParseVersionInt(t *testing.T) {
	v, ok := pkgid.ParseVersionInt("Bob.X.5")
	if !ok || v != 5 {
		t.Errorf("ParseVersionInt(Bob.X.5) = (%d, %v), want (5, true)", v, ok)
	}
	if _, ok := pkgid.ParseVersionInt("Bob.X.latest"); ok {
		t.Error("ParseVersionInt(Bob.X.latest) expected ok=false")
	}
}
