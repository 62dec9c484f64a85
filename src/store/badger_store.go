package store

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/dgraph-io/badger"
	cm "github.com/provchain/graphchain/src/common"
	"github.com/provchain/graphchain/src/rdf"
	"github.com/ugorji/go/codec"
)

const (
	graphPrefix = "graph"
	blockPrefix = "block"
)

// BadgerStore is a write-through wrapper around an InmemStore, backed by a
// badger database. Writes go to the cache and the database; reads fall back
// to the database on a cache miss.
type BadgerStore struct {
	inmemStore    *InmemStore
	db            *badger.DB
	path          string
	needBootstrap bool
}

//NewBadgerStore creates a brand new Store with a new database
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.SyncWrites = false
	handle, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	store := &BadgerStore{
		inmemStore: NewInmemStore(),
		db:         handle,
		path:       path,
	}
	return store, nil
}

//LoadBadgerStore creates a Store from an existing database
func LoadBadgerStore(path string) (*BadgerStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.SyncWrites = false
	handle, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	store := &BadgerStore{
		inmemStore:    NewInmemStore(),
		db:            handle,
		path:          path,
		needBootstrap: true,
	}

	//read blocks from db and put them in the InmemStore
	if err := store.dbLoadBlocks(); err != nil {
		return nil, err
	}

	return store, nil
}

//LoadOrCreateBadgerStore loads an existing database or creates a new one
func LoadOrCreateBadgerStore(path string) (*BadgerStore, error) {
	store, err := LoadBadgerStore(path)

	if err != nil {
		store, err = NewBadgerStore(path)

		if err != nil {
			return nil, err
		}
	}

	return store, nil
}

//==============================================================================
//Keys

func graphKey(id string) []byte {
	return []byte(fmt.Sprintf("%s_%s", graphPrefix, id))
}

func blockKey(index uint64) []byte {
	return []byte(fmt.Sprintf("%s_%09d", blockPrefix, index))
}

//==============================================================================
//Implement the Store interface

// StoreGraph implements the Store interface.
func (s *BadgerStore) StoreGraph(id string, triples []rdf.Triple) error {
	if err := s.inmemStore.StoreGraph(id, triples); err != nil {
		return err
	}
	return s.dbSetGraph(id, triples)
}

// GraphTriples implements the Store interface.
func (s *BadgerStore) GraphTriples(id string) ([]rdf.Triple, error) {
	//try to get it from cache
	triples, err := s.inmemStore.GraphTriples(id)
	//if not in cache, try to get it from db
	if err != nil {
		triples, err = s.dbGetGraph(id)
	}
	return triples, mapError(err, "Graph", id)
}

// HasGraph implements the Store interface.
func (s *BadgerStore) HasGraph(id string) bool {
	if s.inmemStore.HasGraph(id) {
		return true
	}
	_, err := s.dbGetGraph(id)
	return err == nil
}

// RemoveGraph implements the Store interface.
func (s *BadgerStore) RemoveGraph(id string) error {
	//after a bootstrap the graph may live only in the db, so the db is
	//authoritative and a cache miss is not an error
	s.inmemStore.RemoveGraph(id)
	return mapError(s.dbRemoveGraph(id), "Graph", id)
}

// SetBlock implements the Store interface.
func (s *BadgerStore) SetBlock(index uint64, data []byte) error {
	if err := s.inmemStore.SetBlock(index, data); err != nil {
		return err
	}
	return s.dbSetBlock(index, data)
}

// GetBlock implements the Store interface.
func (s *BadgerStore) GetBlock(index uint64) ([]byte, error) {
	data, err := s.inmemStore.GetBlock(index)
	if err != nil {
		data, err = s.dbGetBlock(index)
	}
	return data, mapError(err, "Block", strconv.FormatUint(index, 10))
}

// LastBlockIndex implements the Store interface.
func (s *BadgerStore) LastBlockIndex() int64 {
	return s.inmemStore.LastBlockIndex()
}

// Close implements the Store interface.
func (s *BadgerStore) Close() error {
	if err := s.inmemStore.Close(); err != nil {
		return err
	}
	return s.db.Close()
}

// StorePath implements the Store interface.
func (s *BadgerStore) StorePath() string {
	return s.path
}

// NeedBootstrap returns true when the store was loaded from an existing
// database, in which case the chain must be rebuilt from the stored blocks.
func (s *BadgerStore) NeedBootstrap() bool {
	return s.needBootstrap
}

//++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++
//DB Methods

func (s *BadgerStore) dbSetGraph(id string, triples []rdf.Triple) error {
	tx := s.db.NewTransaction(true)
	defer tx.Discard()

	val, err := encodeTriples(triples)
	if err != nil {
		return err
	}

	//insert [graph_id] => [triple bytes]
	if err := tx.Set(graphKey(id), val); err != nil {
		return err
	}

	return tx.Commit(nil)
}

func (s *BadgerStore) dbGetGraph(id string) ([]rdf.Triple, error) {
	var graphBytes []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(graphKey(id))
		if err != nil {
			return err
		}
		graphBytes, err = item.Value()
		return err
	})

	if err != nil {
		return nil, err
	}

	return decodeTriples(graphBytes)
}

func (s *BadgerStore) dbRemoveGraph(id string) error {
	tx := s.db.NewTransaction(true)
	defer tx.Discard()

	key := graphKey(id)
	if _, err := tx.Get(key); err != nil {
		return err
	}
	if err := tx.Delete(key); err != nil {
		return err
	}

	return tx.Commit(nil)
}

func (s *BadgerStore) dbSetBlock(index uint64, data []byte) error {
	tx := s.db.NewTransaction(true)
	defer tx.Discard()

	//insert [block_index] => [block bytes]
	if err := tx.Set(blockKey(index), data); err != nil {
		return err
	}

	return tx.Commit(nil)
}

func (s *BadgerStore) dbGetBlock(index uint64) ([]byte, error) {
	var blockBytes []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blockKey(index))
		if err != nil {
			return err
		}
		blockBytes, err = item.Value()
		return err
	})

	if err != nil {
		return nil, err
	}

	return blockBytes, nil
}

func (s *BadgerStore) dbLoadBlocks() error {
	index := uint64(0)
	return s.db.View(func(txn *badger.Txn) error {
		key := blockKey(index)
		item, errr := txn.Get(key)
		for errr == nil {
			v, errrr := item.Value()
			if errrr != nil {
				break
			}

			data := make([]byte, len(v))
			copy(data, v)
			if err := s.inmemStore.SetBlock(index, data); err != nil {
				return err
			}

			index++
			key = blockKey(index)
			item, errr = txn.Get(key)
		}

		if !isDBKeyNotFound(errr) {
			return errr
		}

		return nil
	})
}

//++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++

func encodeTriples(triples []rdf.Triple) ([]byte, error) {
	b := new(bytes.Buffer)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(b, jh)

	if err := enc.Encode(triples); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

func decodeTriples(data []byte) ([]rdf.Triple, error) {
	triples := []rdf.Triple{}
	b := bytes.NewBuffer(data)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	dec := codec.NewDecoder(b, jh)

	if err := dec.Decode(&triples); err != nil {
		return nil, err
	}

	return triples, nil
}

func isDBKeyNotFound(err error) bool {
	return err.Error() == badger.ErrKeyNotFound.Error()
}

func mapError(err error, name, key string) error {
	if err != nil {
		if isDBKeyNotFound(err) {
			return cm.NewStoreErr(name, cm.KeyNotFound, key)
		}
	}
	return err
}
