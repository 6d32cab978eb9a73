// Package schema loads JSON Schema files into schemanode trees.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/afossey/message-schema-plugin/internal/cache"
	"github.com/afossey/message-schema-plugin/pkg/schemanode"
)

var (
	// ErrNotFound is returned when a schema path matches no file under any root.
	ErrNotFound = errors.New("schema file not found")
	// ErrNotSchema is returned for files that cannot hold a schema.
	ErrNotSchema = errors.New("not a schema file")
)

// Loader resolves schema paths against an ordered list of source roots and
// materializes them as schemanode trees.
type Loader struct {
	roots []string
	cache *cache.SchemaCache
	group singleflight.Group
}

// NewLoader creates a loader. Roots are searched in order; c may be nil.
func NewLoader(roots []string, c *cache.SchemaCache) *Loader {
	clean := make([]string, 0, len(roots))
	for _, r := range roots {
		if r == "" {
			continue
		}
		if abs, err := filepath.Abs(r); err == nil {
			r = abs
		}
		clean = append(clean, r)
	}
	return &Loader{roots: clean, cache: c}
}

// Roots returns the source roots in search order.
func (l *Loader) Roots() []string {
	return append([]string(nil), l.roots...)
}

// Find returns the absolute path of rel under the first root that contains
// it as a regular file.
func (l *Loader) Find(rel string) (string, error) {
	if rel == "" {
		return "", ErrNotFound
	}
	if filepath.IsAbs(rel) {
		if isRegular(rel) {
			return rel, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	for _, root := range l.roots {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if isRegular(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, rel)
}

func isRegular(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

// LoadRelative finds and loads rel. Any failure means "no schema" and is
// only logged.
func (l *Loader) LoadRelative(rel string) (schemanode.Node, bool) {
	path, err := l.Find(rel)
	if err != nil {
		slog.Debug("schema not found", slog.String("schema", rel))
		return nil, false
	}
	node, err := l.Load(path)
	if err != nil {
		slog.Warn("schema not loadable",
			slog.String("schema", path),
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	return node, true
}

// Load reads, compiles and converts the schema at path. Results are cached
// until the file changes; concurrent loads of one file are collapsed.
func (l *Loader) Load(path string) (schemanode.Node, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat schema: %w", err)
	}
	stamp := cache.Stamp{ModTime: fi.ModTime(), Size: fi.Size()}
	if l.cache != nil {
		if node, ok := l.cache.Get(path, stamp); ok {
			return node, nil
		}
	}

	v, err, _ := l.group.Do(path, func() (any, error) {
		node, err := compileFile(path)
		if err != nil {
			return nil, err
		}
		if l.cache != nil {
			l.cache.Put(path, stamp, node)
		}
		return node, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(schemanode.Node), nil
}

// IsSchemaFile reports whether path has a schema extension and decodes to a
// JSON object or boolean.
func IsSchemaFile(path string) bool {
	if !hasSchemaExt(path) {
		return false
	}
	doc, err := decodeFile(path)
	if err != nil {
		return false
	}
	switch doc.(type) {
	case map[string]any, bool:
		return true
	default:
		return false
	}
}

func hasSchemaExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// decodeFile decodes JSON or YAML into the generic value model of the
// jsonschema compiler. YAML is re-encoded through JSON to normalize numbers.
func decodeFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parsing YAML schema: %w", err)
		}
		data, err = json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("converting YAML schema: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotSchema, path)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing JSON schema: %w", err)
	}
	return doc, nil
}

func compileFile(path string) (schemanode.Node, error) {
	doc, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	switch doc.(type) {
	case map[string]any, bool:
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotSchema, path)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(path, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	compiled, err := compiler.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %s", describeError(err))
	}
	return Convert(compiled), nil
}
