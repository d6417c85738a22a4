// Package hashring implements a consistent hash ring with virtual nodes,
// mapping channel keys onto chat worker addresses. The hash function is
// FNV-1a 64 and must stay fixed for the life of a deployment; changing it
// invalidates every existing channel assignment.
package hashring

import (
	"hash/fnv"
	"sort"
	"strconv"
)

// DefaultVirtualNodes is the number of ring points each worker occupies
const DefaultVirtualNodes = 10

// Ring is an ordered mapping from 64-bit hash positions to worker addresses.
// Not safe for concurrent use; callers serialize access.
type Ring struct {
	replicas  int
	positions []uint64
	nodes     map[uint64]string
}

// New returns an empty ring using DefaultVirtualNodes replicas per worker
func New() *Ring {
	return NewWithReplicas(DefaultVirtualNodes)
}

// NewWithReplicas returns an empty ring with a custom replica count
func NewWithReplicas(replicas int) *Ring {
	if replicas < 1 {
		replicas = 1
	}
	return &Ring{
		replicas: replicas,
		nodes:    make(map[uint64]string),
	}
}

// Add inserts a worker at its virtual node positions. On a position
// collision the last inserter wins.
func (r *Ring) Add(addr string) {
	for i := 0; i < r.replicas; i++ {
		h := hashKey(addr + "#" + strconv.Itoa(i))
		if _, ok := r.nodes[h]; !ok {
			r.positions = insertSorted(r.positions, h)
		}
		r.nodes[h] = addr
	}
}

// Remove deletes exactly the worker's virtual node positions
func (r *Ring) Remove(addr string) {
	for i := 0; i < r.replicas; i++ {
		h := hashKey(addr + "#" + strconv.Itoa(i))
		if owner, ok := r.nodes[h]; !ok || owner != addr {
			continue
		}
		delete(r.nodes, h)
		idx := sort.Search(len(r.positions), func(j int) bool { return r.positions[j] >= h })
		if idx < len(r.positions) && r.positions[idx] == h {
			r.positions = append(r.positions[:idx], r.positions[idx+1:]...)
		}
	}
}

// Get returns the worker owning key: the first ring position at or after
// hash(key), wrapping to the smallest position. ok is false iff the ring is
// empty.
func (r *Ring) Get(key string) (addr string, ok bool) {
	if len(r.positions) == 0 {
		return "", false
	}
	h := hashKey(key)
	idx := sort.Search(len(r.positions), func(j int) bool { return r.positions[j] >= h })
	if idx == len(r.positions) {
		idx = 0
	}
	return r.nodes[r.positions[idx]], true
}

// Len returns the number of occupied ring positions
func (r *Ring) Len() int {
	return len(r.positions)
}

func insertSorted(s []uint64, v uint64) []uint64 {
	idx := sort.Search(len(s), func(j int) bool { return s[j] >= v })
	s = append(s, 0)
	copy(s[idx+1:], s[idx:])
	s[idx] = v
	return s
}

func hashKey(key string) uint64 {
	h := fnv.New64a()
	//nolint:errcheck // fnv.Write cannot fail
	h.Write([]byte(key))
	return h.Sum64()
}
