package sandbox

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/gemforge/gemforge/internal/domain"
)

func TestResolveInsideRoot(t *testing.T) {
	root := t.TempDir()
	resolver, err := NewResolver(root)
	if err != nil {
		t.Fatalf("NewResolver error: %v", err)
	}

	abs, err := resolver.Resolve("src/main.go")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	want := filepath.Join(resolver.Root(), "src", "main.go")
	if abs != want {
		t.Fatalf("Resolve = %q, want %q", abs, want)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	resolver, err := NewResolver(t.TempDir())
	if err != nil {
		t.Fatalf("NewResolver error: %v", err)
	}

	for _, p := range []string{"../outside", "a/../../b", "..", "../../etc/passwd"} {
		_, err := resolver.Resolve(p)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Resolve(%q) error = %v, want ValidationError", p, err)
		}
		if verr.Kind != domain.ValidationPathEscape {
			t.Fatalf("Resolve(%q) kind = %s, want path_escape", p, verr.Kind)
		}
	}
}

func TestResolveRejectsAbsolute(t *testing.T) {
	resolver, err := NewResolver(t.TempDir())
	if err != nil {
		t.Fatalf("NewResolver error: %v", err)
	}

	_, err = resolver.Resolve("/etc/passwd")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Kind != domain.ValidationPathEscape {
		t.Fatalf("expected path_escape for absolute path, got %v", err)
	}
}

func TestResolveRejectsEmpty(t *testing.T) {
	resolver, err := NewResolver(t.TempDir())
	if err != nil {
		t.Fatalf("NewResolver error: %v", err)
	}
	if _, err := resolver.Resolve("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestResolveAllowsDotInsideRoot(t *testing.T) {
	resolver, err := NewResolver(t.TempDir())
	if err != nil {
		t.Fatalf("NewResolver error: %v", err)
	}
	abs, err := resolver.Resolve("a/./b")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if abs != filepath.Join(resolver.Root(), "a", "b") {
		t.Fatalf("unexpected resolution: %q", abs)
	}
}
