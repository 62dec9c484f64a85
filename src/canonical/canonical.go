// Package canonical produces deterministic SHA-256 hashes of RDF graphs:
// semantically equivalent graphs (same triples, different blank-node labels,
// different triple order) hash identically, non-equivalent graphs do not. A
// complexity classifier routes each graph to a fast heuristic algorithm or a
// standards-grade canonical-labelling algorithm.
package canonical

import (
	"fmt"

	"github.com/provchain/graphchain/src/rdf"
)

// Algorithm identifies which of the two canonicalization algorithms produced
// a hash. It is recorded in each block so that validation re-derives the
// hash with the same algorithm, regardless of classifier changes between
// versions.
type Algorithm uint8

const (
	// AlgorithmCustom is the fast heuristic algorithm (Simple and Moderate
	// graphs).
	AlgorithmCustom Algorithm = iota
	// AlgorithmStandard is the canonical-labelling algorithm (Complex and
	// Pathological graphs).
	AlgorithmStandard
)

// String ...
func (a Algorithm) String() string {
	switch a {
	case AlgorithmCustom:
		return "custom"
	case AlgorithmStandard:
		return "standard"
	}
	return "unknown"
}

// ParseAlgorithm ...
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "custom":
		return AlgorithmCustom, nil
	case "standard":
		return AlgorithmStandard, nil
	}
	return 0, fmt.Errorf("unknown algorithm %q", s)
}

// DefaultMaxIterations bounds the standard algorithm's N-degree work-stack.
// Fully-symmetric graphs of about eight blank nodes exhaust it, which is the
// point where the exploration turns factorial.
const DefaultMaxIterations = 4000

// Canonicalizer is the adaptive selector over the two algorithms. It is
// stateless apart from its configuration and safe for concurrent use; the
// hashing itself is a pure CPU-bound computation.
type Canonicalizer struct {
	maxIterations int
}

// New creates a Canonicalizer. A non-positive maxIterations selects
// DefaultMaxIterations.
func New(maxIterations int) *Canonicalizer {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Canonicalizer{maxIterations: maxIterations}
}

// Canonicalize classifies the graph and routes it: Simple and Moderate go to
// the custom algorithm, Complex and Pathological to the standard one. The
// algorithm used is returned alongside the hash so it can be recorded. A
// TimeoutError from the standard algorithm is surfaced unchanged; there is
// no silent degradation to the custom algorithm.
func (c *Canonicalizer) Canonicalize(g *rdf.Graph) ([]byte, Algorithm, error) {
	switch Classify(g) {
	case Simple, Moderate:
		hash, err := customHash(g)
		return hash, AlgorithmCustom, err
	default:
		hash, err := standardHash(g, c.maxIterations)
		return hash, AlgorithmStandard, err
	}
}

// CanonicalizeWith re-runs a previously recorded algorithm. Validation uses
// this instead of Canonicalize so historical blocks are checked with the
// algorithm that produced them.
func (c *Canonicalizer) CanonicalizeWith(a Algorithm, g *rdf.Graph) ([]byte, error) {
	switch a {
	case AlgorithmCustom:
		return customHash(g)
	case AlgorithmStandard:
		return standardHash(g, c.maxIterations)
	}
	return nil, fmt.Errorf("unknown algorithm %d", a)
}

// Custom runs the heuristic algorithm directly, bypassing classification.
func (c *Canonicalizer) Custom(g *rdf.Graph) ([]byte, error) {
	return customHash(g)
}

// Standard runs the canonical-labelling algorithm directly, bypassing
// classification.
func (c *Canonicalizer) Standard(g *rdf.Graph) ([]byte, error) {
	return standardHash(g, c.maxIterations)
}
