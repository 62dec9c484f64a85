package store

import (
	"strconv"
	"sync"

	cm "github.com/provchain/graphchain/src/common"
	"github.com/provchain/graphchain/src/rdf"
)

// InmemStore implements the Store interface with plain maps guarded by a
// RWMutex. Reads return copies, so callers can canonicalize and validate in
// parallel without synchronizing with writers.
type InmemStore struct {
	sync.RWMutex
	graphs    map[string][]rdf.Triple
	blocks    map[uint64][]byte
	lastBlock int64
}

// NewInmemStore ...
func NewInmemStore() *InmemStore {
	return &InmemStore{
		graphs:    map[string][]rdf.Triple{},
		blocks:    map[uint64][]byte{},
		lastBlock: -1,
	}
}

// StoreGraph implements the Store interface.
func (s *InmemStore) StoreGraph(id string, triples []rdf.Triple) error {
	s.Lock()
	defer s.Unlock()

	copied := make([]rdf.Triple, len(triples))
	copy(copied, triples)
	s.graphs[id] = copied

	return nil
}

// GraphTriples implements the Store interface.
func (s *InmemStore) GraphTriples(id string) ([]rdf.Triple, error) {
	s.RLock()
	defer s.RUnlock()

	triples, ok := s.graphs[id]
	if !ok {
		return nil, cm.NewStoreErr("Graph", cm.KeyNotFound, id)
	}

	copied := make([]rdf.Triple, len(triples))
	copy(copied, triples)
	return copied, nil
}

// HasGraph implements the Store interface.
func (s *InmemStore) HasGraph(id string) bool {
	s.RLock()
	defer s.RUnlock()

	_, ok := s.graphs[id]
	return ok
}

// RemoveGraph implements the Store interface.
func (s *InmemStore) RemoveGraph(id string) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.graphs[id]; !ok {
		return cm.NewStoreErr("Graph", cm.KeyNotFound, id)
	}
	delete(s.graphs, id)

	return nil
}

// SetBlock implements the Store interface.
func (s *InmemStore) SetBlock(index uint64, data []byte) error {
	s.Lock()
	defer s.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)
	s.blocks[index] = copied

	if int64(index) > s.lastBlock {
		s.lastBlock = int64(index)
	}

	return nil
}

// GetBlock implements the Store interface.
func (s *InmemStore) GetBlock(index uint64) ([]byte, error) {
	s.RLock()
	defer s.RUnlock()

	data, ok := s.blocks[index]
	if !ok {
		return nil, cm.NewStoreErr("Block", cm.KeyNotFound, strconv.FormatUint(index, 10))
	}

	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

// LastBlockIndex implements the Store interface.
func (s *InmemStore) LastBlockIndex() int64 {
	s.RLock()
	defer s.RUnlock()

	return s.lastBlock
}

// Close implements the Store interface.
func (s *InmemStore) Close() error {
	return nil
}

// StorePath implements the Store interface.
func (s *InmemStore) StorePath() string {
	return ""
}
