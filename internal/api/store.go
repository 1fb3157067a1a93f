package api

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samcharles93/meshdata/pkg/mesh"
)

type meshRecord struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Mesh      *mesh.Data
}

// MeshStore holds the meshes the server has loaded. Readers of a mesh hold
// the read lock for as long as they touch its buffers, so Delete never
// unmaps data that a request is still decoding.
type MeshStore struct {
	mu     sync.RWMutex
	meshes map[string]*meshRecord
}

func NewMeshStore() *MeshStore {
	return &MeshStore{
		meshes: make(map[string]*meshRecord),
	}
}

// Add takes ownership of m and returns its record.
func (s *MeshStore) Add(source string, m *mesh.Data, now time.Time) *meshRecord {
	rec := &meshRecord{
		ID:        newMeshID(),
		Source:    source,
		CreatedAt: now,
		Mesh:      m,
	}
	s.mu.Lock()
	s.meshes[rec.ID] = rec
	s.mu.Unlock()
	return rec
}

// View calls fn with the record for id under the read lock.
func (s *MeshStore) View(id string, fn func(rec *meshRecord) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.meshes[id]
	if !ok {
		return ErrMeshNotFound
	}
	return fn(rec)
}

// List calls fn for every record, oldest first.
func (s *MeshStore) List(fn func(rec *meshRecord)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := make([]*meshRecord, 0, len(s.meshes))
	for _, rec := range s.meshes {
		recs = append(recs, rec)
	}
	slices.SortFunc(recs, func(a, b *meshRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	for _, rec := range recs {
		fn(rec)
	}
}

// Delete removes id and closes its mesh.
func (s *MeshStore) Delete(id string) error {
	s.mu.Lock()
	rec, ok := s.meshes[id]
	if ok {
		delete(s.meshes, id)
	}
	s.mu.Unlock()
	if !ok {
		return ErrMeshNotFound
	}
	// No reader can still hold rec: they all finish under the read lock.
	return rec.Mesh.Close()
}

// Close closes every mesh and empties the store.
func (s *MeshStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for id, rec := range s.meshes {
		errs = append(errs, rec.Mesh.Close())
		delete(s.meshes, id)
	}
	return errors.Join(errs...)
}

func (s *MeshStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meshes)
}

func newMeshID() string {
	return "mesh_" + uuid.NewString()
}
