package chain

import "fmt"

// ChainLinkError reports a break in the hash chain: a block whose
// PreviousHash does not match its predecessor's sealed Hash.
type ChainLinkError struct {
	Index uint64
}

// NewChainLinkError ...
func NewChainLinkError(index uint64) ChainLinkError {
	return ChainLinkError{Index: index}
}

// Error implements the error interface.
func (e ChainLinkError) Error() string {
	return fmt.Sprintf("block %d: previous hash does not match predecessor", e.Index)
}

// IsChainLink ...
func IsChainLink(err error) bool {
	_, ok := err.(ChainLinkError)
	return ok
}

// IntegrityError reports a block whose recorded hashes no longer match its
// contents: either the sealed block hash, or the canonical hash of the graph
// the block points at.
type IntegrityError struct {
	Index uint64
	Msg   string
}

// NewIntegrityError ...
func NewIntegrityError(index uint64, msg string) IntegrityError {
	return IntegrityError{Index: index, Msg: msg}
}

// Error implements the error interface.
func (e IntegrityError) Error() string {
	return fmt.Sprintf("block %d: %s", e.Index, e.Msg)
}

// IsIntegrity ...
func IsIntegrity(err error) bool {
	_, ok := err.(IntegrityError)
	return ok
}
