package binding

import (
	"encoding/json"
	"fmt"
	"io"
)

type snapshot struct {
	Version int                          `json:"version"`
	Files   map[string]map[string]string `json:"files"`
}

// Save writes the store contents to w.
func (s *Store) Save(w io.Writer) error {
	s.mu.RLock()
	snap := snapshot{Version: Version, Files: make(map[string]map[string]string, len(s.fileToDoc))}
	for file, docID := range s.fileToDoc {
		snap.Files[file] = s.docMaps[docID]
	}
	data, err := json.Marshal(snap)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encoding binding snapshot: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing binding snapshot: %w", err)
	}
	return nil
}

// Load replaces the store contents with a snapshot read from r. A snapshot
// written under another Version is rejected with ErrVersionMismatch and
// leaves the store untouched.
func (s *Store) Load(r io.Reader) error {
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("decoding binding snapshot: %w", err)
	}
	if snap.Version != Version {
		return fmt.Errorf("%w: snapshot %d, index %d", ErrVersionMismatch, snap.Version, Version)
	}
	s.Clear()
	for file, m := range snap.Files {
		s.Update(file, m)
	}
	return nil
}
