// Package broadcast implements the in-memory fan-out bus backing a channel
// on its owning worker: multi-producer, multi-subscriber, bounded buffer per
// subscriber. A subscriber that cannot keep up is disconnected rather than
// stalling publishers or silently missing messages.
package broadcast

import (
	"sync"

	"github.com/gofrs/uuid"

	"github.com/parley-chat/parley/common"
)

// DefaultCapacity is the per-subscriber buffer size. It is a backpressure
// knob, not a durability guarantee.
const DefaultCapacity = 32

// Topic tracks the live subscriber pipes for one channel
type Topic struct {
	mu       sync.Mutex
	capacity int
	pipes    map[uuid.UUID]*Pipe
	closed   bool
}

// Pipe is one subscriber's receive leg. C is closed when the pipe is
// released, the topic closes, or the subscriber lags.
type Pipe struct {
	C chan interface{}

	id     uuid.UUID
	t      *Topic
	lagged bool
}

// NewTopic returns a topic with the given per-subscriber capacity;
// non-positive values fall back to DefaultCapacity
func NewTopic(capacity int) *Topic {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Topic{
		capacity: capacity,
		pipes:    make(map[uuid.UUID]*Pipe),
	}
}

// Subscribe registers a new pipe on the topic
func (t *Topic) Subscribe() (*Pipe, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, common.ErrBroadcastStopped
	}
	p := &Pipe{
		C:  make(chan interface{}, t.capacity),
		id: id,
		t:  t,
	}
	t.pipes[id] = p
	return p, nil
}

// Publish delivers data to every subscriber without blocking. A subscriber
// whose buffer is full is marked lagged and its pipe closed. FIFO order is
// kept per publisher.
func (t *Topic) Publish(data interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return common.ErrBroadcastStopped
	}
	for id, p := range t.pipes {
		select {
		case p.C <- data:
		default:
			p.lagged = true
			close(p.C)
			delete(t.pipes, id)
		}
	}
	return nil
}

// Close drops every subscriber and rejects further publishes
func (t *Topic) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for id, p := range t.pipes {
		close(p.C)
		delete(t.pipes, id)
	}
}

// Subscribers returns the current subscriber count
func (t *Topic) Subscribers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pipes)
}

// Release detaches the pipe from its topic. Safe to call after the topic
// already dropped the pipe.
func (p *Pipe) Release() {
	p.t.mu.Lock()
	defer p.t.mu.Unlock()
	if _, ok := p.t.pipes[p.id]; !ok {
		return
	}
	close(p.C)
	delete(p.t.pipes, p.id)
}

// Lagged reports whether the pipe was closed because the subscriber fell
// behind
func (p *Pipe) Lagged() bool {
	p.t.mu.Lock()
	defer p.t.mu.Unlock()
	return p.lagged
}
