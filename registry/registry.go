// Package registry tracks live chat workers and the channel-to-worker map
// derived from the consistent hash ring. After any worker membership change
// every channel's assignment is recomputed, so the map never lags the ring.
package registry

import (
	"strconv"
	"sync"

	"github.com/parley-chat/parley/common"
	"github.com/parley-chat/parley/hashring"
	"github.com/parley-chat/parley/log"
)

// Registry is safe for concurrent use; one reader-writer lock covers the
// ring and the assignment map together so lookups never observe a
// half-applied reallocation.
type Registry struct {
	mu              sync.RWMutex
	ring            *hashring.Ring
	channelToWorker map[int32]string // empty string means unassigned
}

// New returns an empty registry
func New() *Registry {
	return &Registry{
		ring:            hashring.New(),
		channelToWorker: make(map[int32]string),
	}
}

// AddWorker inserts a worker into the ring and reallocates every channel.
// O(N) over channels per membership change; the trade for that cost is that
// lookups are always in sync with the ring.
func (r *Registry) AddWorker(addr string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ring.Add(addr)
	r.realloc()
}

// RemoveWorker removes a worker from the ring and reallocates every channel
func (r *Registry) RemoveWorker(addr string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ring.Remove(addr)
	r.realloc()
}

// AddChannel assigns a single channel from the current ring
func (r *Registry) AddChannel(id int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addr, _ := r.ring.Get(channelKey(id))
	r.channelToWorker[id] = addr
}

// RemoveChannel erases a channel's assignment
func (r *Registry) RemoveChannel(id int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.channelToWorker, id)
}

// Worker returns the worker owning channel id. common.ErrChannelNotFound is
// returned for unknown channels, common.ErrWorkerNotAvailable when no worker
// is assigned.
func (r *Registry) Worker(id int32) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	addr, ok := r.channelToWorker[id]
	if !ok {
		return "", common.ErrChannelNotFound
	}
	if addr == "" {
		return "", common.ErrWorkerNotAvailable
	}
	return addr, nil
}

// Channels returns the ids of every registered channel
func (r *Registry) Channels() []int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int32, 0, len(r.channelToWorker))
	for id := range r.channelToWorker {
		ids = append(ids, id)
	}
	return ids
}

// caller holds the write lock
func (r *Registry) realloc() {
	for id := range r.channelToWorker {
		addr, _ := r.ring.Get(channelKey(id))
		r.channelToWorker[id] = addr
	}
	log.Debugf(log.ManagerSys, "registry reallocated %d channels over %d ring positions",
		len(r.channelToWorker), r.ring.Len())
}

func channelKey(id int32) string {
	return strconv.Itoa(int(id))
}
