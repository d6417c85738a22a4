package hashring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	t.Parallel()
	r := New()
	r.Add("server1")
	r.Add("server2")
	assert.Equal(t, 20, r.Len(), "2 servers * 10 virtual nodes each")
}

func TestAddIdempotent(t *testing.T) {
	t.Parallel()
	r := New()
	r.Add("server1")
	r.Add("server1")
	assert.Equal(t, 10, r.Len(), "re-adding a server must not duplicate positions")
}

func TestRemove(t *testing.T) {
	t.Parallel()
	r := New()
	r.Add("server1")
	r.Add("server2")
	r.Remove("server1")
	assert.Equal(t, 10, r.Len(), "only server2's virtual nodes remain")
	r.Remove("server1")
	assert.Equal(t, 10, r.Len(), "removing an absent server is a no-op")
}

func TestGet(t *testing.T) {
	t.Parallel()
	r := New()
	r.Add("server1")
	r.Add("server2")
	for _, key := range []string{"key1", "key2", "key3"} {
		addr, ok := r.Get(key)
		require.True(t, ok)
		assert.Contains(t, []string{"server1", "server2"}, addr)
		again, _ := r.Get(key)
		assert.Equal(t, addr, again, "lookup must be deterministic")
	}
}

func TestGetAfterRemoval(t *testing.T) {
	t.Parallel()
	r := New()
	r.Add("server1")
	r.Add("server2")

	initial, ok := r.Get("key1")
	require.True(t, ok)
	r.Remove(initial)

	next, ok := r.Get("key1")
	require.True(t, ok)
	assert.NotEqual(t, initial, next, "key must move off the removed server")
}

func TestEmptyRing(t *testing.T) {
	t.Parallel()
	r := New()
	_, ok := r.Get("key1")
	assert.False(t, ok)
	r.Add("server1")
	r.Remove("server1")
	_, ok = r.Get("key1")
	assert.False(t, ok, "fully drained ring behaves as empty")
}

func TestLoadBalancing(t *testing.T) {
	t.Parallel()
	r := New()
	r.Add("server1")
	r.Add("server2")
	r.Add("server3")

	counts := make(map[string]int)
	for i := 0; i < 1000; i++ {
		addr, ok := r.Get(fmt.Sprintf("key%d", i))
		require.True(t, ok)
		counts[addr]++
	}
	require.Len(t, counts, 3, "all servers should receive keys")
	for addr, n := range counts {
		assert.Lessf(t, n, 900, "server %s took %d of 1000 keys", addr, n)
	}
}

func TestBoundedReassignment(t *testing.T) {
	t.Parallel()
	r := New()
	r.Add("server1")
	r.Add("server2")
	r.Add("server3")

	before := make(map[string]string)
	for i := 0; i < 1000; i++ {
		k := fmt.Sprintf("key%d", i)
		before[k], _ = r.Get(k)
	}

	r.Add("server4")
	moved := 0
	for k, prev := range before {
		if now, _ := r.Get(k); now != prev {
			moved++
		}
	}
	assert.Less(t, moved, 600, "adding one server should reassign roughly 1/4 of keys")
}
