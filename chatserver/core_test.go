package chatserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-chat/parley/chatrpc"
	"github.com/parley-chat/parley/common"
)

func testChannel(id int32, limit int32) *chatrpc.Channel {
	return &chatrpc.Channel{ID: id, Name: "general", Limit: limit}
}

func TestRegisterCapacityAndDuplicates(t *testing.T) {
	t.Parallel()
	cc := newChannelCore(testChannel(1, 2))

	_, err := cc.register("ann")
	require.NoError(t, err)

	_, err = cc.register("ann")
	assert.ErrorIs(t, err, common.ErrUserAlreadyInChannel)

	_, err = cc.register("bob")
	require.NoError(t, err)

	_, err = cc.register("cat")
	assert.ErrorIs(t, err, common.ErrChannelFull)

	require.Equal(t, 1, cc.deregister("bob"))
	_, err = cc.register("cat")
	assert.NoError(t, err, "freed slot admits the next user")
}

func TestDropIfEmptyMarksCoreDead(t *testing.T) {
	t.Parallel()
	core := NewCore()
	cc := core.getOrCreate(testChannel(1, 4))

	_, err := cc.register("ann")
	require.NoError(t, err)
	core.dropIfEmpty(cc)
	_, ok := core.get(1)
	assert.True(t, ok, "occupied core must not drop")

	cc.deregister("ann")
	core.dropIfEmpty(cc)
	_, ok = core.get(1)
	assert.False(t, ok)

	_, err = cc.register("bob")
	assert.ErrorIs(t, err, common.ErrChannelNotFound, "dead core rejects registration")
}

func TestShutdownChannel(t *testing.T) {
	t.Parallel()
	core := NewCore()
	cc := core.getOrCreate(testChannel(1, 4))
	ann, err := cc.register("ann")
	require.NoError(t, err)
	bob, err := cc.register("bob")
	require.NoError(t, err)

	core.ShutdownChannel(1)

	<-ann.Done()
	<-bob.Done()
	_, ok := core.get(1)
	assert.False(t, ok)
	assert.ErrorIs(t, cc.topic.Publish("x"), common.ErrBroadcastStopped)

	core.ShutdownChannel(1)
}

func TestShutdownUser(t *testing.T) {
	t.Parallel()
	core := NewCore()
	cc := core.getOrCreate(testChannel(1, 4))
	ann, err := cc.register("ann")
	require.NoError(t, err)
	bob, err := cc.register("bob")
	require.NoError(t, err)

	core.ShutdownUser(1, "ann")
	<-ann.Done()
	select {
	case <-bob.Done():
		t.Fatal("bob must stay connected")
	default:
	}

	core.ShutdownUser(1, "ghost")
	core.ShutdownUser(99, "ann")
}

func TestSnapshot(t *testing.T) {
	t.Parallel()
	core := NewCore()
	assert.Empty(t, core.Snapshot())

	cc := core.getOrCreate(testChannel(7, 4))
	_, err := cc.register("ann")
	require.NoError(t, err)
	_, err = cc.register("bob")
	require.NoError(t, err)

	snap := core.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, int32(7), snap[0].ID)
	assert.Equal(t, "general", snap[0].Name)
	assert.Equal(t, int32(4), snap[0].Limit)
	assert.Len(t, snap[0].Users, 2)
}

func TestShutdownFireIsIdempotent(t *testing.T) {
	t.Parallel()
	sd := NewShutdown()
	sd.Fire()
	sd.Fire()
	<-sd.Done()
}
