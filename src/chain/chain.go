// Package chain maintains the hash-linked sequence of blocks over named RDF
// graphs. Each block seals the canonical hash of one graph, so the chain
// certifies graph contents up to blank-node relabelling, not byte layouts.
package chain

import (
	"fmt"
	"sync"

	"github.com/provchain/graphchain/src/canonical"
	cm "github.com/provchain/graphchain/src/common"
	"github.com/provchain/graphchain/src/rdf"
	"github.com/provchain/graphchain/src/store"
	"github.com/sirupsen/logrus"
)

const blockGraphIDFormat = "http://graphchain.org/block/%d"

// Chain is the block manager. Appends are serialized on appendLock while the
// blocks slice has its own RWMutex, so CPU-bound canonicalization inside an
// append never blocks reads, and validation works on snapshots.
type Chain struct {
	appendLock sync.Mutex

	mtx    sync.RWMutex
	store  store.Store
	canon  *canonical.Canonicalizer
	blocks []*Block
	logger *logrus.Entry
}

// NewChain creates a chain with a fresh genesis block and persists it to the
// store.
func NewChain(s store.Store, canon *canonical.Canonicalizer, logger *logrus.Entry) (*Chain, error) {
	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	c := &Chain{
		store:  s,
		canon:  canon,
		blocks: []*Block{},
		logger: logger,
	}

	if err := c.createGenesis(); err != nil {
		return nil, err
	}

	return c, nil
}

// LoadChain rebuilds a chain from the blocks persisted in the store. The
// store must contain at least the genesis block.
func LoadChain(s store.Store, canon *canonical.Canonicalizer, logger *logrus.Entry) (*Chain, error) {
	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	last := s.LastBlockIndex()
	if last < 0 {
		return nil, cm.NewStoreErr("Block", cm.Empty, "genesis")
	}

	c := &Chain{
		store:  s,
		canon:  canon,
		blocks: []*Block{},
		logger: logger,
	}

	for i := uint64(0); i <= uint64(last); i++ {
		data, err := s.GetBlock(i)
		if err != nil {
			return nil, err
		}
		block := new(Block)
		if err := block.Unmarshal(data); err != nil {
			return nil, err
		}
		c.blocks = append(c.blocks, block)
	}

	logger.WithField("blocks", len(c.blocks)).Debug("Loaded chain")

	return c, nil
}

// genesisTriples returns the fixed payload of the genesis graph.
func genesisTriples() []rdf.Triple {
	t, _ := rdf.NewTriple(
		rdf.NewIRI("http://example.org/genesis"),
		rdf.NewIRI("http://example.org/type"),
		rdf.NewLiteral("Genesis Block"),
	)
	return []rdf.Triple{t}
}

func (c *Chain) createGenesis() error {
	id := fmt.Sprintf(blockGraphIDFormat, 0)
	graph := rdf.NewGraph(id, genesisTriples())

	hash, alg, err := c.canon.Canonicalize(graph)
	if err != nil {
		return err
	}

	if err := c.store.StoreGraph(id, graph.Triples); err != nil {
		return err
	}

	block := NewBlock(0, id, cm.EncodeToString(hash), alg, GenesisPreviousHash)

	if err := c.persist(block); err != nil {
		return err
	}

	c.blocks = append(c.blocks, block)

	c.logger.WithField("hash", block.Hash).Debug("Created genesis block")

	return nil
}

// AddBlock canonicalizes the given triples, stores them as the next block's
// named graph, and appends a sealed block. On any error nothing is appended.
func (c *Chain) AddBlock(triples []rdf.Triple) (*Block, error) {
	c.appendLock.Lock()
	defer c.appendLock.Unlock()

	for _, t := range triples {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}

	prev := c.LastBlock()
	index := prev.Index + 1
	id := fmt.Sprintf(blockGraphIDFormat, index)
	graph := rdf.NewGraph(id, triples)

	hash, alg, err := c.canon.Canonicalize(graph)
	if err != nil {
		return nil, err
	}

	if err := c.store.StoreGraph(id, graph.Triples); err != nil {
		return nil, err
	}

	block := NewBlock(index, id, cm.EncodeToString(hash), alg, prev.Hash)

	if err := c.persist(block); err != nil {
		//keep the store consistent with the chain
		c.store.RemoveGraph(id)
		return nil, err
	}

	c.mtx.Lock()
	c.blocks = append(c.blocks, block)
	c.mtx.Unlock()

	c.logger.WithFields(logrus.Fields{
		"index":     block.Index,
		"graph":     block.GraphID,
		"algorithm": block.Algorithm.String(),
		"triples":   graph.Len(),
	}).Debug("Added block")

	return block, nil
}

// AppendBlock appends an externally sealed block, verifying that it links to
// the current head and that its sealed hash matches its contents. The
// block's named graph must already be present in the store.
func (c *Chain) AppendBlock(block *Block) error {
	c.appendLock.Lock()
	defer c.appendLock.Unlock()

	prev := c.LastBlock()

	if block.Index <= prev.Index {
		return cm.NewStoreErr("Block", cm.PassedIndex, fmt.Sprintf("%d", block.Index))
	}
	if block.Index > prev.Index+1 {
		return cm.NewStoreErr("Block", cm.SkippedIndex, fmt.Sprintf("%d", block.Index))
	}

	if block.PreviousHash != prev.Hash {
		return NewChainLinkError(block.Index)
	}
	if !block.VerifyHash() {
		return NewIntegrityError(block.Index, "block hash does not match block contents")
	}

	if !c.store.HasGraph(block.GraphID) {
		return cm.NewStoreErr("Graph", cm.NoGraph, block.GraphID)
	}

	if err := c.persist(block); err != nil {
		return err
	}

	c.mtx.Lock()
	c.blocks = append(c.blocks, block)
	c.mtx.Unlock()

	c.logger.WithFields(logrus.Fields{
		"index": block.Index,
		"graph": block.GraphID,
	}).Debug("Appended block")

	return nil
}

func (c *Chain) persist(block *Block) error {
	data, err := block.Marshal()
	if err != nil {
		return err
	}
	return c.store.SetBlock(block.Index, data)
}

// Len returns the number of blocks, genesis included.
func (c *Chain) Len() int {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	return len(c.blocks)
}

// LastBlock ...
func (c *Chain) LastBlock() *Block {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	return c.blocks[len(c.blocks)-1]
}

// GetBlock returns the block at the given index.
func (c *Chain) GetBlock(index uint64) (*Block, error) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	if index >= uint64(len(c.blocks)) {
		return nil, cm.NewStoreErr("Block", cm.KeyNotFound, fmt.Sprintf("%d", index))
	}

	return c.blocks[index], nil
}

// Blocks returns a snapshot of the chain.
func (c *Chain) Blocks() []*Block {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	res := make([]*Block, len(c.blocks))
	copy(res, c.blocks)
	return res
}

// CanonicalHashOf hashes any stored graph ad hoc, routing through the
// complexity classifier as a fresh submission would.
func (c *Chain) CanonicalHashOf(graphID string) (string, canonical.Algorithm, error) {
	triples, err := c.store.GraphTriples(graphID)
	if err != nil {
		return "", 0, err
	}

	hash, alg, err := c.canon.Canonicalize(rdf.NewGraph(graphID, triples))
	if err != nil {
		return "", 0, err
	}

	return cm.EncodeToString(hash), alg, nil
}

// recordedHash re-derives the canonical hash of a block's graph from the
// triples currently in the store, using the algorithm recorded in the block.
func (c *Chain) recordedHash(block *Block) (string, error) {
	triples, err := c.store.GraphTriples(block.GraphID)
	if err != nil {
		return "", err
	}

	hash, err := c.canon.CanonicalizeWith(block.Algorithm, rdf.NewGraph(block.GraphID, triples))
	if err != nil {
		return "", err
	}

	return cm.EncodeToString(hash), nil
}
