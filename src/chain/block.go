package chain

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/provchain/graphchain/src/canonical"
	"github.com/ugorji/go/codec"
)

// GenesisPreviousHash is the previous-hash sentinel carried by the genesis
// block: 64 hexadecimal zeros.
const GenesisPreviousHash = "0000000000000000000000000000000000000000000000000000000000000000"

// Block ties a named graph into the chain. The block does not carry the
// triples themselves; it records the graph identifier and the canonical hash
// of the graph's contents, along with which algorithm produced that hash so
// validation can re-run the same one.
type Block struct {
	Index         uint64
	Timestamp     string
	GraphID       string
	CanonicalHash string
	Algorithm     canonical.Algorithm
	PreviousHash  string
	Hash          string
}

// NewBlock creates a Block linked to the given previous hash and seals it.
// The timestamp is the creation instant in RFC 3339 UTC.
func NewBlock(index uint64, graphID string, canonicalHash string, algorithm canonical.Algorithm, previousHash string) *Block {
	block := &Block{
		Index:         index,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		GraphID:       graphID,
		CanonicalHash: canonicalHash,
		Algorithm:     algorithm,
		PreviousHash:  previousHash,
	}
	block.Hash = block.computeHash()

	return block
}

// computeHash derives the block hash from the index, timestamp, canonical
// hash, and previous hash, in that order.
func (b *Block) computeHash() string {
	data := fmt.Sprintf("%d%s%s%s", b.Index, b.Timestamp, b.CanonicalHash, b.PreviousHash)
	digest := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", digest)
}

// VerifyHash recomputes the block hash from the block's fields and checks it
// against the sealed Hash.
func (b *Block) VerifyHash() bool {
	return b.Hash == b.computeHash()
}

// Marshal ...
func (b *Block) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(buf, jh)

	if err := enc.Encode(b); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Unmarshal ...
func (b *Block) Unmarshal(data []byte) error {
	buf := bytes.NewBuffer(data)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	dec := codec.NewDecoder(buf, jh)

	return dec.Decode(b)
}
