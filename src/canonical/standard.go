package canonical

import (
	"sort"
	"strings"

	"github.com/provchain/graphchain/src/common"
	"github.com/provchain/graphchain/src/rdf"
)

// standardHash is the standards-grade canonicalization used for Complex and
// Pathological graphs. It assigns every blank node a canonical label through
// first-degree hashing followed by N-degree refinement, then hashes the
// relabelled, sorted serialization of the graph. Two graphs that are
// identical up to blank-node relabelling always produce the same digest.
//
// The N-degree exploration is worst-case exponential on adversarial
// symmetric graphs, so it runs on an explicit work-stack bounded by
// maxIterations; exceeding the bound returns a TimeoutError.
func standardHash(g *rdf.Graph, maxIterations int) ([]byte, error) {
	s := &standardState{
		graph:       g,
		quads:       map[string][]rdf.Triple{},
		firstDegree: map[string]string{},
		canon:       newIssuer("c14n"),
		budget:      maxIterations,
		maxBudget:   maxIterations,
	}

	blanks := g.BlankNodes()
	for _, t := range g.Triples {
		if t.Subject.IsBlank() {
			s.quads[t.Subject.Value] = append(s.quads[t.Subject.Value], t)
		}
		if t.Object.IsBlank() && t.Object.Value != t.Subject.Value {
			s.quads[t.Object.Value] = append(s.quads[t.Object.Value], t)
		}
	}

	for _, id := range blanks {
		h, err := s.hashFirstDegree(id)
		if err != nil {
			return nil, err
		}
		s.firstDegree[id] = h
	}

	//group blank nodes by first-degree hash; unique hashes get canonical
	//labels immediately, in hash order
	groups := map[string][]string{}
	for _, id := range blanks {
		h := s.firstDegree[id]
		groups[h] = append(groups[h], id)
	}

	hashes := make([]string, 0, len(groups))
	for h := range groups {
		hashes = append(hashes, h)
	}
	sort.Strings(hashes)

	for _, h := range hashes {
		if len(groups[h]) == 1 {
			s.canon.issue(groups[h][0])
		}
	}

	//break the remaining ties with N-degree exploration
	for _, h := range hashes {
		group := groups[h]
		if len(group) == 1 {
			continue
		}

		results := []ndResult{}
		for _, member := range group {
			if _, issued := s.canon.issuedFor(member); issued {
				continue
			}
			temp := newIssuer("b")
			temp.issue(member)
			res, err := s.hashNDegree(member, temp)
			if err != nil {
				return nil, err
			}
			results = append(results, res)
		}

		sort.Slice(results, func(i, j int) bool {
			return results[i].hash < results[j].hash
		})

		for _, res := range results {
			for _, id := range res.issuer.order {
				s.canon.issue(id)
			}
		}
	}

	return s.finalize()
}

type standardState struct {
	graph       *rdf.Graph
	quads       map[string][]rdf.Triple //blank id => triples touching it
	firstDegree map[string]string       //blank id => hex hash
	canon       *issuer
	budget      int
	maxBudget   int
}

// hashFirstDegree hashes the triples directly touching one blank node, with
// the node itself rendered as _:a and every other blank node as _:z.
func (s *standardState) hashFirstDegree(id string) (string, error) {
	lines := make([]string, 0, len(s.quads[id]))
	for _, t := range s.quads[id] {
		sub, err := referenceForm(t.Subject, id)
		if err != nil {
			return "", err
		}
		pred, err := t.Predicate.Canonical()
		if err != nil {
			return "", err
		}
		obj, err := referenceForm(t.Object, id)
		if err != nil {
			return "", err
		}
		lines = append(lines, sub+" "+pred+" "+obj+" .")
	}
	sort.Strings(lines)
	return common.EncodeToString(hashStrings(strings.Join(lines, "\n"))), nil
}

func referenceForm(t rdf.Term, self string) (string, error) {
	if t.IsBlank() {
		if t.Value == self {
			return "_:a", nil
		}
		return "_:z", nil
	}
	return t.Canonical()
}

// hashRelated identifies a blank node adjacent to the one being explored:
// by canonical label if it has one, by temporary label if the current
// exploration has issued one, and by first-degree hash otherwise.
func (s *standardState) hashRelated(related string, t rdf.Triple, iss *issuer, position string) (string, error) {
	var ident string
	if label, ok := s.canon.issuedFor(related); ok {
		ident = "_:" + label
	} else if label, ok := iss.issuedFor(related); ok {
		ident = "_:" + label
	} else {
		ident = s.firstDegree[related]
	}

	pred, err := t.Predicate.Canonical()
	if err != nil {
		return "", err
	}

	return common.EncodeToString(hashStrings(position, pred, ident)), nil
}

type ndResult struct {
	hash   string
	issuer *issuer
}

// frame states for the explicit N-degree work-stack
const (
	stateNextKey = iota
	statePermutation
	stateRecursion
)

type ndFrame struct {
	node   string
	issuer *issuer
	state  int

	keys   []string            //sorted related-hash keys
	groups map[string][]string //related hash => related blank nodes
	ki     int
	data   string

	perm         *permuter
	chosenPath   string
	chosenIssuer *issuer

	path      string
	curIssuer *issuer
	recursion []string
	ri        int

	child *ndResult
}

func (s *standardState) newNDFrame(node string, iss *issuer) (*ndFrame, error) {
	groups := map[string][]string{}
	for _, t := range s.quads[node] {
		if t.Subject.IsBlank() && t.Subject.Value != node {
			h, err := s.hashRelated(t.Subject.Value, t, iss, "s")
			if err != nil {
				return nil, err
			}
			groups[h] = append(groups[h], t.Subject.Value)
		}
		if t.Object.IsBlank() && t.Object.Value != node {
			h, err := s.hashRelated(t.Object.Value, t, iss, "o")
			if err != nil {
				return nil, err
			}
			groups[h] = append(groups[h], t.Object.Value)
		}
	}

	keys := make([]string, 0, len(groups))
	for h := range groups {
		keys = append(keys, h)
	}
	sort.Strings(keys)

	return &ndFrame{
		node:   node,
		issuer: iss,
		state:  stateNextKey,
		keys:   keys,
		groups: groups,
	}, nil
}

// hashNDegree deterministically explores the neighborhood of a blank node,
// trying every ordering of its equally-hashed neighbors and keeping the
// lexicographically smallest path. Recursion into not-yet-labelled neighbors
// is modelled with an explicit frame stack; every step consumes one unit of
// the iteration budget.
func (s *standardState) hashNDegree(node string, iss *issuer) (ndResult, error) {
	root, err := s.newNDFrame(node, iss)
	if err != nil {
		return ndResult{}, err
	}
	stack := []*ndFrame{root}

	for {
		if s.budget <= 0 {
			return ndResult{}, NewTimeoutError(s.maxBudget)
		}
		s.budget--

		f := stack[len(stack)-1]

		switch f.state {
		case stateNextKey:
			if f.ki == len(f.keys) {
				res := ndResult{
					hash:   common.EncodeToString(hashStrings(f.data)),
					issuer: f.issuer,
				}
				stack = stack[:len(stack)-1]
				if len(stack) == 0 {
					return res, nil
				}
				stack[len(stack)-1].child = &res
				continue
			}

			key := f.keys[f.ki]
			f.data += key
			f.perm = newPermuter(f.groups[key])
			f.chosenPath = ""
			f.chosenIssuer = nil
			f.state = statePermutation

		case statePermutation:
			perm, ok := f.perm.next()
			if !ok {
				f.data += f.chosenPath
				f.issuer = f.chosenIssuer
				f.ki++
				f.state = stateNextKey
				continue
			}

			f.curIssuer = f.issuer.clone()
			f.path = ""
			f.recursion = nil

			abandoned := false
			for _, related := range perm {
				if label, issued := s.canon.issuedFor(related); issued {
					f.path += "_:" + label
				} else {
					if _, issued := f.curIssuer.issuedFor(related); !issued {
						f.recursion = append(f.recursion, related)
					}
					f.path += "_:" + f.curIssuer.issue(related)
				}
				if f.chosenPath != "" && len(f.path) >= len(f.chosenPath) && f.path > f.chosenPath {
					abandoned = true
					break
				}
			}
			if abandoned {
				continue
			}

			f.ri = 0
			f.state = stateRecursion

		case stateRecursion:
			if f.child != nil {
				res := *f.child
				f.child = nil

				related := f.recursion[f.ri]
				f.path += "_:" + f.curIssuer.issue(related)
				f.path += "<" + res.hash + ">"
				f.curIssuer = res.issuer
				f.ri++

				if f.chosenPath != "" && len(f.path) >= len(f.chosenPath) && f.path > f.chosenPath {
					f.state = statePermutation
					continue
				}
			}

			if f.ri == len(f.recursion) {
				if f.chosenPath == "" || f.path < f.chosenPath {
					f.chosenPath = f.path
					f.chosenIssuer = f.curIssuer
				}
				f.state = statePermutation
				continue
			}

			child, err := s.newNDFrame(f.recursion[f.ri], f.curIssuer)
			if err != nil {
				return ndResult{}, err
			}
			stack = append(stack, child)
		}
	}
}

// finalize rewrites every blank node with its canonical label, serializes
// the triples, sorts them as strings, and hashes the concatenation.
func (s *standardState) finalize() ([]byte, error) {
	relabelled := s.graph.RelabelBlankNodes(s.canon.issued)

	lines := make([]string, 0, len(relabelled.Triples))
	for _, t := range relabelled.Triples {
		line, err := t.Canonical()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	sort.Strings(lines)

	return hashStrings(strings.Join(lines, "\n")), nil
}
