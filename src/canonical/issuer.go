package canonical

import "strconv"

// issuer hands out deterministic labels (prefix + counter) to blank node
// local ids, remembering both the mapping and the order of issuance.
type issuer struct {
	prefix  string
	counter int
	issued  map[string]string
	order   []string
}

func newIssuer(prefix string) *issuer {
	return &issuer{
		prefix: prefix,
		issued: map[string]string{},
	}
}

// issue returns the label already assigned to id, or assigns the next one.
func (i *issuer) issue(id string) string {
	if label, ok := i.issued[id]; ok {
		return label
	}
	label := i.prefix + strconv.Itoa(i.counter)
	i.counter++
	i.issued[id] = label
	i.order = append(i.order, id)
	return label
}

func (i *issuer) issuedFor(id string) (string, bool) {
	label, ok := i.issued[id]
	return label, ok
}

func (i *issuer) clone() *issuer {
	c := &issuer{
		prefix:  i.prefix,
		counter: i.counter,
		issued:  make(map[string]string, len(i.issued)),
		order:   make([]string, len(i.order)),
	}
	for k, v := range i.issued {
		c.issued[k] = v
	}
	copy(c.order, i.order)
	return c
}

// permuter yields the permutations of its items in lexicographic order.
type permuter struct {
	items []string
	done  bool
}

func newPermuter(items []string) *permuter {
	sorted := make([]string, len(items))
	copy(sorted, items)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return &permuter{items: sorted}
}

// next returns the current permutation and advances. The second return is
// false once all permutations have been produced.
func (p *permuter) next() ([]string, bool) {
	if p.done || len(p.items) == 0 {
		return nil, false
	}

	out := make([]string, len(p.items))
	copy(out, p.items)

	//advance to the next lexicographic permutation
	i := len(p.items) - 2
	for i >= 0 && p.items[i] >= p.items[i+1] {
		i--
	}
	if i < 0 {
		p.done = true
		return out, true
	}
	j := len(p.items) - 1
	for p.items[j] <= p.items[i] {
		j--
	}
	p.items[i], p.items[j] = p.items[j], p.items[i]
	for l, r := i+1, len(p.items)-1; l < r; l, r = l+1, r-1 {
		p.items[l], p.items[r] = p.items[r], p.items[l]
	}

	return out, true
}
