package resolver_test

import (
	"testing"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/resolver"
)

func TestResolve(t *testing.T) {
	index := map[string]string{
		"Bob.X.1": "/a/Bob.X.1.var",
		"Bob.X.2": "/a/Bob.X.2.var",
		"Bob.X.5": "/a/Bob.X.5.var",
	}

	cases := []struct {
		ref  string
		want string
	}{
		{"Bob.X.latest", "Bob.X.5"},
		{"Bob.X.3", "Bob.X.5"},   // pinned but missing, falls forward to highest
		{"Bob.X.1", "Bob.X.1"},   // installed exact match
		{"Bob.Y.1", "Bob.Y.1"},   // nothing installed under this base
	}
	for _, c := range cases {
		if got := resolver.Resolve(c.ref, index); got != c.want {
			t.Errorf("Resolve(%q) = %q, want %q", c.ref, got, c.want)
		}
	}
}
