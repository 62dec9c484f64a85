// Package store provides the RDF graph store that block payloads live in,
// together with persistence for block metadata. The chain references graphs
// by named-graph identifier and never owns the triples itself.
package store

import "github.com/provchain/graphchain/src/rdf"

// Store is the interface between the chain and the underlying storage. It
// persists one named graph per block plus the marshalled block metadata,
// which lets a chain be bootstrapped from disk. Implementations must be safe
// for concurrent readers; the chain serializes writes itself.
type Store interface {
	//StoreGraph persists triples under a named-graph identifier, replacing
	//any previous contents of that graph.
	StoreGraph(id string, triples []rdf.Triple) error

	//GraphTriples retrieves all triples of a stored graph. Order is
	//unspecified.
	GraphTriples(id string) ([]rdf.Triple, error)

	//HasGraph ...
	HasGraph(id string) bool

	//RemoveGraph deletes a named graph and its triples.
	RemoveGraph(id string) error

	//SetBlock persists marshalled block metadata under its index.
	SetBlock(index uint64, data []byte) error

	//GetBlock retrieves marshalled block metadata.
	GetBlock(index uint64) ([]byte, error)

	//LastBlockIndex returns the highest stored block index, or -1 when no
	//blocks have been stored.
	LastBlockIndex() int64

	//Close ...
	Close() error

	//StorePath returns the database directory, or "" for in-memory stores.
	StorePath() string
}
