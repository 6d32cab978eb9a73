package binding

import (
	"path/filepath"
	"strings"
)

// Scope selects the file keys a lookup may consult.
type Scope interface {
	Contains(fileKey string) bool
}

type allScope struct{}

func (allScope) Contains(string) bool { return true }

// AllScope includes every indexed file.
var AllScope Scope = allScope{}

type dirScope struct {
	dir string
}

// DirScope includes files at or below dir.
func DirScope(dir string) Scope {
	return dirScope{dir: filepath.Clean(dir)}
}

func (s dirScope) Contains(fileKey string) bool {
	key := filepath.Clean(fileKey)
	if s.dir == "." {
		return !filepath.IsAbs(key) && !strings.HasPrefix(key, "..")
	}
	return key == s.dir || strings.HasPrefix(key, s.dir+string(filepath.Separator))
}

type fileScope map[string]struct{}

// FileScope includes exactly the given keys.
func FileScope(keys ...string) Scope {
	s := make(fileScope, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s fileScope) Contains(fileKey string) bool {
	_, ok := s[fileKey]
	return ok
}

type intersect []Scope

// Intersect includes files contained in every given scope.
func Intersect(scopes ...Scope) Scope {
	return intersect(scopes)
}

func (s intersect) Contains(fileKey string) bool {
	for _, sc := range s {
		if sc != nil && !sc.Contains(fileKey) {
			return false
		}
	}
	return true
}
