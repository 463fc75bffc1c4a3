package memstore

import (
	"sort"
	"sync"

	"doxreduce/internal/domain"
	"doxreduce/internal/port"
)

// MemoryStore is a ManifestStore that lives for one process. It backs runs
// with the manifest disabled, so every file is reduced again.
type MemoryStore struct {
	mu          sync.RWMutex
	entries     map[string]domain.ManifestEntry
	fingerprint string
}

var _ port.ManifestStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]domain.ManifestEntry),
	}
}

func (s *MemoryStore) PutEntry(entry domain.ManifestEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Path] = entry
	return nil
}

func (s *MemoryStore) GetEntry(path string) (domain.ManifestEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[path]
	return entry, ok, nil
}

func (s *MemoryStore) DeleteEntry(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, path)
	return nil
}

func (s *MemoryStore) ListEntries() ([]domain.ManifestEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]domain.ManifestEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func (s *MemoryStore) Prepare(fingerprint string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reset := s.fingerprint != "" && s.fingerprint != fingerprint
	if reset {
		s.entries = make(map[string]domain.ManifestEntry)
	}
	s.fingerprint = fingerprint
	return reset, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]domain.ManifestEntry)
	s.fingerprint = ""
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
