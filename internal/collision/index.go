// Package collision indexes dataset names by the xxHash64 digest of their
// group and dataset name.
package collision

import "github.com/arloliu/genfile/internal/hash"

// Location is the chain position of a dataset.
type Location struct {
	Group   int
	DataSet int
}

type key struct {
	group string
	name  string
}

type entry struct {
	key key
	loc Location
}

// Index maps (group, dataset) name pairs to their chain positions.
//
// Pairs are stored by digest. A pair whose digest is already taken by a
// different pair goes to an exact-name overflow map, so lookups stay correct
// when digests collide. Only the first occurrence of a pair is kept, which
// matches a scan of the chains in file order.
type Index struct {
	byHash     map[uint64]entry
	overflow   map[key]Location
	count      int
	collisions int
}

// NewIndex creates an index sized for capacity datasets.
func NewIndex(capacity int) *Index {
	return &Index{byHash: make(map[uint64]entry, capacity)}
}

func digest(group, name string) uint64 {
	d := hash.New()
	_, _ = d.WriteString(group)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(name)

	return d.Sum64()
}

// Track records the pair at loc and reports whether it was new. A pair seen
// before keeps its first location.
func (x *Index) Track(group, name string, loc Location) bool {
	k := key{group: group, name: name}
	h := digest(group, name)

	existing, ok := x.byHash[h]
	if !ok {
		x.byHash[h] = entry{key: k, loc: loc}
		x.count++

		return true
	}
	if existing.key == k {
		return false
	}

	if x.overflow == nil {
		x.overflow = make(map[key]Location)
	}
	if _, dup := x.overflow[k]; dup {
		return false
	}
	x.overflow[k] = loc
	x.count++
	x.collisions++

	return true
}

// Lookup returns the location of the first dataset named name in the first
// group named group.
func (x *Index) Lookup(group, name string) (Location, bool) {
	k := key{group: group, name: name}
	if e, ok := x.byHash[digest(group, name)]; ok && e.key == k {
		return e.loc, true
	}

	loc, ok := x.overflow[k]

	return loc, ok
}

// HasCollision reports whether two distinct pairs shared a digest.
func (x *Index) HasCollision() bool {
	return x.collisions > 0
}

// Count returns the number of distinct pairs tracked.
func (x *Index) Count() int {
	return x.count
}

// Reset clears the index and keeps its capacity.
func (x *Index) Reset() {
	clear(x.byHash)
	x.overflow = nil
	x.count = 0
	x.collisions = 0
}
