package chatserver

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	grpcauth "github.com/grpc-ecosystem/go-grpc-middleware/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/parley-chat/parley/chatrpc"
	rpcauth "github.com/parley-chat/parley/chatrpc/auth"
	"github.com/parley-chat/parley/common"
	"github.com/parley-chat/parley/manager"
)

type reporterStore struct {
	mu       sync.Mutex
	channels map[int32]*chatrpc.Channel
}

func (f *reporterStore) InsertChannel(_ context.Context, name string, limit int32, ownerID string) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := int32(len(f.channels) + 1)
	f.channels[id] = &chatrpc.Channel{ID: id, Name: name, Limit: limit, OwnerID: ownerID}
	return id, nil
}

func (f *reporterStore) DeleteChannel(_ context.Context, id int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.channels, id)
	return nil
}

func (f *reporterStore) ChannelOwner(_ context.Context, id int32) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[id]
	if !ok {
		return "", common.ErrChannelNotFound
	}
	return ch.OwnerID, nil
}

func (f *reporterStore) ChannelByID(_ context.Context, id int32) (*chatrpc.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[id]
	if !ok {
		return nil, common.ErrChannelNotFound
	}
	cp := *ch
	return &cp, nil
}

func (f *reporterStore) AllChannels(_ context.Context) ([]*chatrpc.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*chatrpc.Channel, 0, len(f.channels))
	for _, ch := range f.channels {
		cp := *ch
		out = append(out, &cp)
	}
	return out, nil
}

// reporter against a real manager service over an in-process transport
func TestReporterSessionAgainstManager(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	tokens := newTokens(t)

	store := &reporterStore{channels: map[int32]*chatrpc.Channel{
		1: {ID: 1, Name: "general", Limit: 8, OwnerID: "ann"},
	}}
	mgr := manager.NewChannelService(store, tokens, time.Minute, time.Hour)
	require.NoError(t, mgr.LoadChannels(ctx))

	srv := grpc.NewServer(
		grpc.UnaryInterceptor(grpcauth.UnaryServerInterceptor(tokens.AuthFunc)),
		grpc.StreamInterceptor(grpcauth.StreamServerInterceptor(tokens.AuthFunc)),
	)
	chatrpc.RegisterChannelServiceServer(srv, mgr)
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	core := NewCore()
	heldKnown := core.getOrCreate(&chatrpc.Channel{ID: 1, Name: "general", Limit: 8})
	_, err := heldKnown.register("ann")
	require.NoError(t, err)
	// a channel the manager has no record of must be shut down on us
	heldStale := core.getOrCreate(&chatrpc.Channel{ID: 99, Name: "stale", Limit: 8})
	staleSignal, err := heldStale.register("bob")
	require.NoError(t, err)

	reporter, err := NewReporter(core, tokens, "w1", "bufnet", 20*time.Millisecond)
	require.NoError(t, err)
	reporter.dial = func(ctx context.Context) (*grpc.ClientConn, error) {
		return grpc.DialContext(ctx, "bufnet",
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return lis.DialContext(ctx)
			}),
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithPerRPCCredentials(rpcauth.TokenAuth{Token: reporter.token}),
		)
	}

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- reporter.Run(runCtx) }()

	// the manager learns this worker's channel state through the reports
	require.Eventually(t, func() bool {
		resp, err := mgr.List(ctx, &chatrpc.Channel{ID: 1})
		if err != nil || len(resp.Channels) != 1 {
			return false
		}
		users := resp.Channels[0].Users
		return len(users) == 1 && users[0].ID == "ann"
	}, 5*time.Second, 10*time.Millisecond)

	// the stale channel is ordered down and its user disconnected
	select {
	case <-staleSignal.Done():
	case <-ctx.Done():
		t.Fatal("timed out waiting for stale channel shutdown")
	}
	require.Eventually(t, func() bool {
		_, ok := core.get(99)
		return !ok
	}, 5*time.Second, 10*time.Millisecond)

	// listens can now be granted against this worker
	userToken, err := tokens.UserToken("cat")
	require.NoError(t, err)
	conn, err := grpc.DialContext(ctx, "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithPerRPCCredentials(rpcauth.TokenAuth{Token: userToken}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	grant, err := chatrpc.NewChannelServiceClient(conn).Listen(ctx, &chatrpc.Channel{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, "w1", grant.Server.Addr)
	claims, err := tokens.Verify(grant.Token)
	require.NoError(t, err)
	assert.Equal(t, "cat", claims.UserID)
	assert.Equal(t, int32(1), claims.ChannelID)
	assert.Equal(t, "w1", claims.Addr)

	stop()
	err = <-done
	assert.ErrorIs(t, err, context.Canceled)
}
