package sysinfo

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gemforge/gemforge/internal/domain"
)

func TestCollectReportsRuntimeAndFiles(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "src"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"main.go", "README.md", ".hidden"} {
		if err := os.WriteFile(filepath.Join(root, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	snap, err := NewCollector().Collect(context.Background(), domain.Config{}, root)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if snap.OS != runtime.GOOS || snap.Arch != runtime.GOARCH {
		t.Fatalf("os/arch = %s/%s", snap.OS, snap.Arch)
	}
	if snap.SandboxRoot != root {
		t.Fatalf("sandbox root = %q", snap.SandboxRoot)
	}
	want := []string{"README.md", "main.go", "src/"}
	if len(snap.Files) != len(want) {
		t.Fatalf("files = %v", snap.Files)
	}
	for i, name := range want {
		if snap.Files[i] != name {
			t.Fatalf("files[%d] = %q, want %q", i, snap.Files[i], name)
		}
	}
}

func TestCollectBoundsListing(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 10; i++ {
		if err := os.WriteFile(filepath.Join(root, string(rune('a'+i))+".txt"), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	c := &Collector{MaxFiles: 4}
	snap, err := c.Collect(context.Background(), domain.Config{}, root)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(snap.Files) != 4 {
		t.Fatalf("files = %d, want 4", len(snap.Files))
	}
}

func TestCollectMissingRootIsNotFatal(t *testing.T) {
	snap, err := NewCollector().Collect(context.Background(), domain.Config{}, "/does/not/exist")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(snap.Files) != 0 {
		t.Fatalf("files = %v", snap.Files)
	}
}
