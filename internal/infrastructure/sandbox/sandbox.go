// Package sandbox confines path-based actions to a designated root directory.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

// Resolver validates sandbox-relative paths and maps them to absolute targets.
type Resolver struct {
	root string
}

// NewResolver constructs a resolver rooted at dir (defaults to the current
// working directory). The root is resolved to an absolute path once.
func NewResolver(dir string) (*Resolver, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve sandbox root: %w", err)
	}
	return &Resolver{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute sandbox root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve implements ports.PathResolver. Absolute paths and any path whose
// cleaned form escapes the root are rejected with a PathEscape validation
// error before anything touches the filesystem.
func (r *Resolver) Resolve(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", &domain.ValidationError{
			Kind:   domain.ValidationPathEscape,
			Detail: "path is required",
		}
	}
	clean := filepath.Clean(p)
	if filepath.IsAbs(clean) {
		return "", &domain.ValidationError{
			Kind:   domain.ValidationPathEscape,
			Detail: fmt.Sprintf("absolute path not allowed: %s", p),
		}
	}
	abs := filepath.Clean(filepath.Join(r.root, clean))
	if abs != r.root && !strings.HasPrefix(abs, r.root+string(os.PathSeparator)) {
		return "", &domain.ValidationError{
			Kind:   domain.ValidationPathEscape,
			Detail: fmt.Sprintf("path escapes sandbox root: %s", p),
		}
	}
	return abs, nil
}

var _ ports.PathResolver = (*Resolver)(nil)
