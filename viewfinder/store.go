package viewfinder

import (
	"bytes"
	"fmt"
	"image/png"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// encodedCacheSize bounds the number of PNG renderings kept in memory.
const encodedCacheSize = 32

// Store is the host-visible, append-only snapshot collection. The core
// never mutates or discards a snapshot after it is added; eviction of the
// collection itself is a host concern. The store additionally memoizes PNG
// renderings in an LRU cache so transports can re-serve a snapshot without
// re-encoding it each time.
type Store struct {
	mu      sync.Mutex
	items   []*Snapshot
	byID    map[string]*Snapshot
	encoded *lru.Cache[string, []byte]
}

// NewStore creates an empty snapshot store.
func NewStore() *Store {
	// lru.New only fails for a non-positive size
	cache, _ := lru.New[string, []byte](encodedCacheSize)
	return &Store{
		byID:    make(map[string]*Snapshot),
		encoded: cache,
	}
}

// Add appends snap to the collection.
func (s *Store) Add(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, snap)
	s.byID[snap.ID] = snap
}

// List returns metadata for every snapshot in append order.
func (s *Store) List() []SnapshotInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]SnapshotInfo, 0, len(s.items))
	for _, snap := range s.items {
		infos = append(infos, snap.Info())
	}
	return infos
}

// Get returns the snapshot with the given ID.
func (s *Store) Get(id string) (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.byID[id]
	return snap, ok
}

// Len returns the number of stored snapshots.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// EncodePNG returns the PNG rendering of the snapshot with the given ID,
// serving repeated requests from the cache.
func (s *Store) EncodePNG(id string) ([]byte, error) {
	if data, ok := s.encoded.Get(id); ok {
		return data, nil
	}

	snap, ok := s.Get(id)
	if !ok {
		return nil, fmt.Errorf("no snapshot with id %s", id)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, snap.Image); err != nil {
		return nil, fmt.Errorf("encoding snapshot %s: %w", id, err)
	}

	data := buf.Bytes()
	s.encoded.Add(id, data)
	return data, nil
}
