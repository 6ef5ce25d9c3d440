package mention

import "strings"

// Index holds the candidate pools supplied by the host page.
type Index struct {
	pools map[Kind][]Candidate
}

func NewIndex() *Index {
	return &Index{pools: make(map[Kind][]Candidate)}
}

// SetPool replaces the pool for kind. A nil or empty slice leaves the kind
// with no candidates. Every stored candidate is stamped with kind.
func (x *Index) SetPool(kind Kind, candidates []Candidate) {
	pool := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		c.Kind = kind
		pool = append(pool, c)
	}
	x.pools[kind] = pool
}

// Pool returns a copy of the pool for kind in insertion order.
func (x *Index) Pool(kind Kind) []Candidate {
	pool := x.pools[kind]
	out := make([]Candidate, len(pool))
	copy(out, pool)
	return out
}

// Filter returns the candidates of kind whose DisplayToken contains partial,
// ignoring case, in pool order. An empty partial matches the whole pool.
func (x *Index) Filter(kind Kind, partial string) []Candidate {
	needle := strings.ToLower(partial)
	out := make([]Candidate, 0)
	for _, c := range x.pools[kind] {
		if strings.Contains(strings.ToLower(c.DisplayToken), needle) {
			out = append(out, c)
		}
	}
	return out
}

// Lookup finds a candidate of kind by id.
func (x *Index) Lookup(kind Kind, id string) (Candidate, bool) {
	for _, c := range x.pools[kind] {
		if c.ID == id {
			return c, true
		}
	}
	return Candidate{}, false
}
