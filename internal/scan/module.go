package scan

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ErrNoModule is returned when no go.mod is found above a directory.
var ErrNoModule = errors.New("no go.mod found")

// Module locates the module containing a directory.
type Module struct {
	Root string // directory holding go.mod
	Path string // module path
}

// FindModule walks up from dir to the nearest go.mod.
func FindModule(dir string) (Module, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Module{}, fmt.Errorf("resolving %s: %w", dir, err)
	}
	for d := abs; ; {
		data, err := os.ReadFile(filepath.Join(d, "go.mod"))
		if err == nil {
			mp := modfile.ModulePath(data)
			if mp == "" {
				return Module{}, fmt.Errorf("%s: missing module directive", filepath.Join(d, "go.mod"))
			}
			return Module{Root: d, Path: mp}, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return Module{}, fmt.Errorf("%w above %s", ErrNoModule, dir)
		}
		d = parent
	}
}

// ImportPath returns the import path of the package in dir, which must be
// inside the module.
func (m Module) ImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	rel, err := filepath.Rel(m.Root, abs)
	if err != nil {
		return "", fmt.Errorf("relating %s to module root: %w", dir, err)
	}
	if rel == "." {
		return m.Path, nil
	}
	return path.Join(m.Path, filepath.ToSlash(rel)), nil
}
