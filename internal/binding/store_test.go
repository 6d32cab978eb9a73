package binding

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Lookup(t *testing.T) {
	s := NewStore()
	s.Update("a/user.go", map[string]string{"app.User": "user.json"})

	path, ok := s.Lookup("app.User", AllScope)
	assert.True(t, ok)
	assert.Equal(t, "user.json", path)

	_, ok = s.Lookup("app.Missing", AllScope)
	assert.False(t, ok)
}

func TestStore_ConflictingBindingsUnresolved(t *testing.T) {
	s := NewStore()
	s.Update("a/one.go", map[string]string{"app.User": "one.json"})
	s.Update("b/two.go", map[string]string{"app.User": "two.json"})

	_, ok := s.Lookup("app.User", AllScope)
	assert.False(t, ok, "two distinct values must not resolve to either")

	values, err := s.ValuesFor("app.User", AllScope)
	require.NoError(t, err)
	assert.Equal(t, []string{"one.json", "two.json"}, values)

	// Narrowing the scope leaves a single candidate.
	path, ok := s.Lookup("app.User", DirScope("a"))
	assert.True(t, ok)
	assert.Equal(t, "one.json", path)
}

func TestStore_SameValueFromTwoFilesResolves(t *testing.T) {
	s := NewStore()
	s.Update("a.go", map[string]string{"app.User": "user.json"})
	s.Update("b.go", map[string]string{"app.User": "user.json"})

	path, ok := s.Lookup("app.User", AllScope)
	assert.True(t, ok)
	assert.Equal(t, "user.json", path)
}

func TestStore_UpdateReplacesWholesale(t *testing.T) {
	s := NewStore()
	s.Update("a.go", map[string]string{"app.A": "a.json", "app.B": "b.json"})
	s.Update("a.go", map[string]string{"app.A": "a2.json"})

	path, ok := s.Lookup("app.A", AllScope)
	assert.True(t, ok)
	assert.Equal(t, "a2.json", path)

	_, ok = s.Lookup("app.B", AllScope)
	assert.False(t, ok)

	s.Update("a.go", nil)
	files, classes := s.Stats()
	assert.Equal(t, 0, files)
	assert.Equal(t, 0, classes)
}

func TestStore_RemoveReusesDocIDs(t *testing.T) {
	s := NewStore()
	s.Update("a.go", map[string]string{"app.A": "a.json"})
	s.Update("b.go", map[string]string{"app.B": "b.json"})
	s.Remove("a.go")
	s.Remove("missing.go")
	s.Update("c.go", map[string]string{"app.C": "c.json"})

	assert.Equal(t, []string{"b.go", "c.go"}, s.Files())
	_, ok := s.Lookup("app.A", AllScope)
	assert.False(t, ok)
	path, ok := s.Lookup("app.C", AllScope)
	assert.True(t, ok)
	assert.Equal(t, "c.json", path)
	assert.Len(t, s.docFiles, 2)
}

func TestStore_NotReadyDegrades(t *testing.T) {
	s := NewStore()
	s.Update("a.go", map[string]string{"app.A": "a.json"})

	s.BeginRebuild()
	_, err := s.ValuesFor("app.A", AllScope)
	assert.ErrorIs(t, err, ErrNotReady)
	_, ok := s.Lookup("app.A", AllScope)
	assert.False(t, ok)
	s.EndRebuild()

	assert.True(t, s.Ready())
	_, ok = s.Lookup("app.A", AllScope)
	assert.True(t, ok)
}

func TestStore_Bindings(t *testing.T) {
	s := NewStore()
	s.Update("x/a.go", map[string]string{"app.B": "b.json", "app.A": "a.json"})
	s.Update("y/b.go", map[string]string{"app.A": "other.json"})

	assert.Equal(t, []Binding{
		{ClassName: "app.A", SchemaPath: "a.json"},
		{ClassName: "app.A", SchemaPath: "other.json"},
		{ClassName: "app.B", SchemaPath: "b.json"},
	}, s.Bindings(nil))
	assert.Len(t, s.Bindings(DirScope("y")), 1)

	m, ok := s.FileMapping("x/a.go")
	require.True(t, ok)
	m["app.A"] = "mutated"
	path, _ := s.Lookup("app.A", DirScope("x"))
	assert.Equal(t, "a.json", path)
}

func TestScopes(t *testing.T) {
	sep := string(filepath.Separator)
	key := strings.Join([]string{"mod", "pkg", "a.go"}, sep)

	assert.True(t, AllScope.Contains(key))
	assert.True(t, DirScope("mod").Contains(key))
	assert.True(t, DirScope("mod"+sep+"pkg").Contains(key))
	assert.False(t, DirScope("mo").Contains(key))
	assert.True(t, DirScope(".").Contains(key))
	assert.True(t, FileScope(key).Contains(key))
	assert.False(t, FileScope("other.go").Contains(key))
	assert.True(t, Intersect(AllScope, DirScope("mod")).Contains(key))
	assert.False(t, Intersect(DirScope("mod"), FileScope("x")).Contains(key))
}

func TestStore_Snapshot(t *testing.T) {
	s := NewStore()
	s.Update("a.go", map[string]string{"app.A": "a.json"})
	s.Update("b.go", map[string]string{"app.B": "b.json"})

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))

	restored := NewStore()
	require.NoError(t, restored.Load(&buf))
	assert.Equal(t, s.Bindings(nil), restored.Bindings(nil))
	assert.Equal(t, s.Files(), restored.Files())
}

func TestStore_SnapshotVersionMismatch(t *testing.T) {
	s := NewStore()
	s.Update("keep.go", map[string]string{"app.K": "k.json"})

	old := fmt.Sprintf(`{"version": %d, "files": {"a.go": {"app.A": "a.json"}}}`, Version-1)
	err := s.Load(strings.NewReader(old))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVersionMismatch))
	assert.Equal(t, []string{"keep.go"}, s.Files())

	assert.Error(t, s.Load(strings.NewReader("not json")))
}

func TestStore_ConcurrentQueriesAndUpdates(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Update(fmt.Sprintf("f%d.go", i), map[string]string{fmt.Sprintf("app.T%d", i): "t.json"})
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Lookup(fmt.Sprintf("app.T%d", i), AllScope)
			}
		}(i)
	}
	wg.Wait()

	files, classes := s.Stats()
	assert.Equal(t, 8, files)
	assert.Equal(t, 8, classes)
}
