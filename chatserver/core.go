// Package chatserver implements the worker role: it terminates Connect
// streams, fans messages out through per-channel broadcast topics and keeps
// the manager informed through the report stream.
package chatserver

import (
	"sync"

	"github.com/parley-chat/parley/broadcast"
	"github.com/parley-chat/parley/chatrpc"
	"github.com/parley-chat/parley/common"
	"github.com/parley-chat/parley/log"
)

// Shutdown is a one-shot signal shared by everything serving a single
// connection; the first Fire wins and every waiter observes it
type Shutdown struct {
	once sync.Once
	c    chan struct{}
}

// NewShutdown returns an unfired signal
func NewShutdown() *Shutdown {
	return &Shutdown{c: make(chan struct{})}
}

// Fire trips the signal; subsequent calls are no-ops
func (s *Shutdown) Fire() {
	s.once.Do(func() { close(s.c) })
}

// Done returns the channel closed by Fire
func (s *Shutdown) Done() <-chan struct{} {
	return s.c
}

// ChannelCore is the live state of one channel held on this worker
type ChannelCore struct {
	ID    int32
	Name  string
	Limit int32

	topic *broadcast.Topic

	mu    sync.Mutex
	users map[string]*Shutdown
	dead  bool
}

func newChannelCore(ch *chatrpc.Channel) *ChannelCore {
	return &ChannelCore{
		ID:    ch.ID,
		Name:  ch.Name,
		Limit: ch.Limit,
		topic: broadcast.NewTopic(broadcast.DefaultCapacity),
		users: make(map[string]*Shutdown),
	}
}

// register admits a user, atomically with the capacity check. A dead core
// rejects as not found so the caller re-resolves the channel.
func (c *ChannelCore) register(userID string) (*Shutdown, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dead {
		return nil, common.ErrChannelNotFound
	}
	if _, ok := c.users[userID]; ok {
		return nil, common.ErrUserAlreadyInChannel
	}
	if int32(len(c.users)) >= c.Limit {
		return nil, common.ErrChannelFull
	}
	sd := NewShutdown()
	c.users[userID] = sd
	return sd, nil
}

// deregister removes a user and returns the remaining count
func (c *ChannelCore) deregister(userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, userID)
	return len(c.users)
}

// shutdownUser fires the given user's signal if connected
func (c *ChannelCore) shutdownUser(userID string) {
	c.mu.Lock()
	sd, ok := c.users[userID]
	c.mu.Unlock()
	if ok {
		sd.Fire()
	}
}

// kill marks the core dead, fires every user's signal and closes the topic
func (c *ChannelCore) kill() {
	c.mu.Lock()
	c.dead = true
	signals := make([]*Shutdown, 0, len(c.users))
	for _, sd := range c.users {
		signals = append(signals, sd)
	}
	c.mu.Unlock()

	for _, sd := range signals {
		sd.Fire()
	}
	c.topic.Close()
}

func (c *ChannelCore) report() *chatrpc.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	users := make([]*chatrpc.User, 0, len(c.users))
	for id := range c.users {
		users = append(users, &chatrpc.User{ID: id})
	}
	return &chatrpc.Channel{ID: c.ID, Name: c.Name, Limit: c.Limit, Users: users}
}

// Core tracks every channel currently live on this worker
type Core struct {
	channels sync.Map // int32 -> *ChannelCore
}

// NewCore returns an empty core
func NewCore() *Core {
	return &Core{}
}

func (c *Core) get(id int32) (*ChannelCore, bool) {
	v, ok := c.channels.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*ChannelCore), true
}

// getOrCreate returns the existing core for ch.ID or installs a fresh one
func (c *Core) getOrCreate(ch *chatrpc.Channel) *ChannelCore {
	v, _ := c.channels.LoadOrStore(ch.ID, newChannelCore(ch))
	return v.(*ChannelCore)
}

// dropIfEmpty removes cc when its last user left. Held under cc's lock so a
// racing register either lands before the check or sees the dead mark.
func (c *Core) dropIfEmpty(cc *ChannelCore) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if len(cc.users) != 0 || cc.dead {
		return
	}
	cc.dead = true
	cc.topic.Close()
	c.channels.CompareAndDelete(cc.ID, cc)
	log.Debugf(log.ChatSys, "channel %d dropped, no users left", cc.ID)
}

// ShutdownUser disconnects one user from a channel
func (c *Core) ShutdownUser(channelID int32, userID string) {
	if cc, ok := c.get(channelID); ok {
		cc.shutdownUser(userID)
	}
}

// ShutdownChannel disconnects every user and drops the channel
func (c *Core) ShutdownChannel(channelID int32) {
	cc, ok := c.get(channelID)
	if !ok {
		return
	}
	cc.kill()
	c.channels.CompareAndDelete(channelID, cc)
	log.Infof(log.ChatSys, "channel %d shut down", channelID)
}

// Snapshot captures every live channel with its connected users
func (c *Core) Snapshot() []*chatrpc.Channel {
	var out []*chatrpc.Channel
	c.channels.Range(func(_, value interface{}) bool {
		out = append(out, value.(*ChannelCore).report())
		return true
	})
	return out
}
