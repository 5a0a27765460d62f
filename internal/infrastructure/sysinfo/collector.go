// Package sysinfo gathers the environment snapshot embedded in prompts.
package sysinfo

import (
	"context"
	"os"
	"runtime"
	"sort"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

// Collector builds a SystemSnapshot from the running process and the sandbox
// root. The file listing is bounded so the prompt stays small.
type Collector struct {
	MaxFiles int
}

// NewCollector returns a collector with the default listing bound.
func NewCollector() *Collector {
	return &Collector{MaxFiles: domain.DefaultSnapshotMaxFiles}
}

// Collect implements ports.SystemCollector.
func (c *Collector) Collect(_ context.Context, _ domain.Config, sandboxRoot string) (domain.SystemSnapshot, error) {
	snapshot := domain.SystemSnapshot{
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		SandboxRoot: sandboxRoot,
	}
	if wd, err := os.Getwd(); err == nil {
		snapshot.WorkingDir = wd
	}
	snapshot.Files = c.listTopLevel(sandboxRoot)
	return snapshot, nil
}

// listTopLevel returns up to MaxFiles entry names under root, directories
// suffixed with a slash. Hidden entries are skipped. Listing failures yield an
// empty list rather than an error since the snapshot is advisory.
func (c *Collector) listTopLevel(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if len(name) > 0 && name[0] == '.' {
			continue
		}
		if entry.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	max := c.MaxFiles
	if max <= 0 {
		max = domain.DefaultSnapshotMaxFiles
	}
	if len(names) > max {
		names = names[:max]
	}
	return names
}

var _ ports.SystemCollector = (*Collector)(nil)
