package binding

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
)

// Version identifies the build/query contract of the index. Snapshots written
// under another version are discarded and the index is rebuilt.
const Version = 2

var (
	// ErrNotReady is returned by queries while a bulk rebuild is in progress.
	ErrNotReady = errors.New("binding index not ready")
	// ErrVersionMismatch is returned when loading a snapshot of another version.
	ErrVersionMismatch = errors.New("binding index version mismatch")
)

// Store holds the per-file mappings and a class name -> file inverted index.
// Each file key is assigned a document ID; the inverted index stores Roaring
// bitmaps of document IDs.
//
// Updates take the write lock briefly per file; queries take the read lock
// and never wait for a bulk rebuild, they fail with ErrNotReady instead.
type Store struct {
	mu sync.RWMutex

	fileToDoc map[string]uint32
	docFiles  []string
	docMaps   []map[string]string
	free      []uint32

	idxClass map[string]*roaring.Bitmap

	rebuilding atomic.Int32
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		fileToDoc: make(map[string]uint32),
		idxClass:  make(map[string]*roaring.Bitmap),
	}
}

// Update replaces the contribution of fileKey with mapping. An empty mapping
// removes the file.
func (s *Store) Update(fileKey string, mapping map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(fileKey)
	if len(mapping) == 0 {
		return
	}

	var docID uint32
	if n := len(s.free); n > 0 {
		docID = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		docID = uint32(len(s.docFiles))
		s.docFiles = append(s.docFiles, "")
		s.docMaps = append(s.docMaps, nil)
	}

	m := make(map[string]string, len(mapping))
	for class, path := range mapping {
		m[class] = path
		bm, ok := s.idxClass[class]
		if !ok {
			bm = roaring.New()
			s.idxClass[class] = bm
		}
		bm.Add(docID)
	}

	s.fileToDoc[fileKey] = docID
	s.docFiles[docID] = fileKey
	s.docMaps[docID] = m
}

// Remove drops every binding contributed by fileKey.
func (s *Store) Remove(fileKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(fileKey)
}

func (s *Store) removeLocked(fileKey string) {
	docID, ok := s.fileToDoc[fileKey]
	if !ok {
		return
	}
	for class := range s.docMaps[docID] {
		if bm, ok := s.idxClass[class]; ok {
			bm.Remove(docID)
			if bm.IsEmpty() {
				delete(s.idxClass, class)
			}
		}
	}
	delete(s.fileToDoc, fileKey)
	s.docFiles[docID] = ""
	s.docMaps[docID] = nil
	s.free = append(s.free, docID)
}

// Clear drops all contents.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileToDoc = make(map[string]uint32)
	s.docFiles = nil
	s.docMaps = nil
	s.free = nil
	s.idxClass = make(map[string]*roaring.Bitmap)
}

// BeginRebuild marks the start of a bulk rebuild. Calls nest.
func (s *Store) BeginRebuild() { s.rebuilding.Add(1) }

// EndRebuild marks the end of a bulk rebuild.
func (s *Store) EndRebuild() {
	if s.rebuilding.Add(-1) < 0 {
		s.rebuilding.Store(0)
	}
}

// Ready reports whether no bulk rebuild is in progress.
func (s *Store) Ready() bool { return s.rebuilding.Load() == 0 }

// ValuesFor returns the schema paths recorded for className by files within
// scope, one per file, ordered by file key.
func (s *Store) ValuesFor(className string, scope Scope) ([]string, error) {
	if !s.Ready() {
		return nil, ErrNotReady
	}
	if scope == nil {
		scope = AllScope
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	bm, ok := s.idxClass[className]
	if !ok {
		return nil, nil
	}

	type hit struct{ file, value string }
	var hits []hit
	it := bm.Iterator()
	for it.HasNext() {
		docID := it.Next()
		file := s.docFiles[docID]
		if !scope.Contains(file) {
			continue
		}
		hits = append(hits, hit{file: file, value: s.docMaps[docID][className]})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].file < hits[j].file })

	values := make([]string, len(hits))
	for i, h := range hits {
		values[i] = h.value
	}
	return values, nil
}

// Lookup returns the schema path bound to className within scope. The
// binding resolves only when exactly one distinct value exists; none,
// conflicting values and a store that is not ready all yield false.
func (s *Store) Lookup(className string, scope Scope) (string, bool) {
	values, err := s.ValuesFor(className, scope)
	if err != nil {
		slog.Debug("binding lookup degraded",
			slog.String("class", className),
			slog.String("error", err.Error()),
		)
		return "", false
	}
	if len(values) == 0 {
		return "", false
	}
	for _, v := range values[1:] {
		if v != values[0] {
			slog.Debug("ambiguous schema binding",
				slog.String("class", className),
				slog.Int("candidates", len(values)),
			)
			return "", false
		}
	}
	return values[0], true
}

// Bindings returns every (class, path) pair within scope, sorted by class
// then path. Conflicting bindings are all listed.
func (s *Store) Bindings(scope Scope) []Binding {
	if scope == nil {
		scope = AllScope
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[Binding]struct{})
	for docID, m := range s.docMaps {
		if m == nil || !scope.Contains(s.docFiles[docID]) {
			continue
		}
		for class, path := range m {
			seen[Binding{ClassName: class, SchemaPath: path}] = struct{}{}
		}
	}
	out := make([]Binding, 0, len(seen))
	for b := range seen {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ClassName != out[j].ClassName {
			return out[i].ClassName < out[j].ClassName
		}
		return out[i].SchemaPath < out[j].SchemaPath
	})
	return out
}

// FileMapping returns a copy of the mapping stored for fileKey.
func (s *Store) FileMapping(fileKey string) (map[string]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docID, ok := s.fileToDoc[fileKey]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(s.docMaps[docID]))
	for k, v := range s.docMaps[docID] {
		out[k] = v
	}
	return out, true
}

// Files returns the indexed file keys, sorted.
func (s *Store) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.fileToDoc))
	for k := range s.fileToDoc {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Stats returns the number of indexed files and class names.
func (s *Store) Stats() (files, classes int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fileToDoc), len(s.idxClass)
}
