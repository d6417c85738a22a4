package chatserver

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	grpcauth "github.com/grpc-ecosystem/go-grpc-middleware/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/parley-chat/parley/auth"
	"github.com/parley-chat/parley/chatrpc"
	rpcauth "github.com/parley-chat/parley/chatrpc/auth"
	"github.com/parley-chat/parley/common"
)

const workerAddr = "bufnet"

type fakeLoader struct {
	channels map[int32]*chatrpc.Channel
}

func (f *fakeLoader) ChannelByID(_ context.Context, id int32) (*chatrpc.Channel, error) {
	ch, ok := f.channels[id]
	if !ok {
		return nil, common.ErrChannelNotFound
	}
	cp := *ch
	return &cp, nil
}

func startWorker(t *testing.T, tokens *auth.Service, loader ChannelLoader) (*Service, *bufconn.Listener) {
	t.Helper()
	svc := NewService(workerAddr, NewCore(), loader)
	srv := grpc.NewServer(
		grpc.UnaryInterceptor(grpcauth.UnaryServerInterceptor(tokens.AuthFunc)),
		grpc.StreamInterceptor(grpcauth.StreamServerInterceptor(tokens.AuthFunc)),
	)
	chatrpc.RegisterChatServiceServer(srv, svc)
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)
	return svc, lis
}

func dialWorker(t *testing.T, lis *bufconn.Listener, token string) chatrpc.ChatServiceClient {
	t.Helper()
	conn, err := grpc.Dial(workerAddr,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithPerRPCCredentials(rpcauth.TokenAuth{Token: token}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return chatrpc.NewChatServiceClient(conn)
}

func connectUser(t *testing.T, ctx context.Context, tokens *auth.Service, lis *bufconn.Listener, userID string, channelID int32, addr string) chatrpc.ChatService_ConnectClient {
	t.Helper()
	capability, err := tokens.Capability(userID, channelID, addr)
	require.NoError(t, err)
	stream, err := dialWorker(t, lis, capability).Connect(ctx)
	require.NoError(t, err)
	return stream
}

func newTokens(t *testing.T) *auth.Service {
	t.Helper()
	tokens, err := auth.NewService("test-secret")
	require.NoError(t, err)
	return tokens
}

// waitForUsers blocks until n members are registered and subscribed, so a
// following publish reaches all of them
func waitForUsers(t *testing.T, svc *Service, channelID int32, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		cc, ok := svc.Core().get(channelID)
		if !ok {
			return n == 0
		}
		cc.mu.Lock()
		registered := len(cc.users)
		cc.mu.Unlock()
		return registered == n && cc.topic.Subscribers() == n
	}, 2*time.Second, 5*time.Millisecond)
}

func assertStreamCode(t *testing.T, stream chatrpc.ChatService_ConnectClient, want codes.Code) {
	t.Helper()
	_, err := stream.Recv()
	st, ok := status.FromError(err)
	require.True(t, ok, "expected a status error, got %v", err)
	assert.Equal(t, want, st.Code())
}

func TestBroadcastToAllMembers(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tokens := newTokens(t)
	loader := &fakeLoader{channels: map[int32]*chatrpc.Channel{
		1: {ID: 1, Name: "general", Limit: 8},
	}}
	svc, lis := startWorker(t, tokens, loader)

	ann := connectUser(t, ctx, tokens, lis, "ann", 1, workerAddr)
	bob := connectUser(t, ctx, tokens, lis, "bob", 1, workerAddr)
	cat := connectUser(t, ctx, tokens, lis, "cat", 1, workerAddr)
	waitForUsers(t, svc, 1, 3)

	texts := []string{"one", "two", "three"}
	for _, text := range texts {
		// client-set identity fields must be overwritten server-side
		require.NoError(t, ann.Send(&chatrpc.Message{UserID: "spoof", Timestamp: -1, Text: text}))
	}

	for _, stream := range []chatrpc.ChatService_ConnectClient{ann, bob, cat} {
		for _, want := range texts {
			msg, err := stream.Recv()
			require.NoError(t, err)
			assert.Equal(t, want, msg.Text, "publish order must be preserved")
			assert.Equal(t, "ann", msg.UserID)
			assert.Positive(t, msg.Timestamp)
		}
	}
}

func TestAudioPayloadRoundTrip(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tokens := newTokens(t)
	loader := &fakeLoader{channels: map[int32]*chatrpc.Channel{
		1: {ID: 1, Name: "voice", Limit: 8},
	}}
	svc, lis := startWorker(t, tokens, loader)

	ann := connectUser(t, ctx, tokens, lis, "ann", 1, workerAddr)
	waitForUsers(t, svc, 1, 1)

	sample := []byte{0x52, 0x49, 0x46, 0x46, 0x00, 0x01}
	require.NoError(t, ann.Send(&chatrpc.Message{Audio: sample}))
	msg, err := ann.Recv()
	require.NoError(t, err)
	assert.Equal(t, sample, msg.Audio)
	assert.Empty(t, msg.Text)
}

func TestWrongWorkerRejected(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tokens := newTokens(t)
	_, lis := startWorker(t, tokens, &fakeLoader{channels: map[int32]*chatrpc.Channel{
		1: {ID: 1, Name: "general", Limit: 8},
	}})

	stream := connectUser(t, ctx, tokens, lis, "ann", 1, "some-other-worker:9000")
	assertStreamCode(t, stream, codes.PermissionDenied)
}

func TestUserTokenRejectedOnConnect(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tokens := newTokens(t)
	_, lis := startWorker(t, tokens, &fakeLoader{channels: map[int32]*chatrpc.Channel{}})

	// a login token carries no channel grant
	userToken, err := tokens.UserToken("ann")
	require.NoError(t, err)
	stream, err := dialWorker(t, lis, userToken).Connect(ctx)
	require.NoError(t, err)
	assertStreamCode(t, stream, codes.PermissionDenied)
}

func TestUnknownChannel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tokens := newTokens(t)
	_, lis := startWorker(t, tokens, &fakeLoader{channels: map[int32]*chatrpc.Channel{}})

	stream := connectUser(t, ctx, tokens, lis, "ann", 42, workerAddr)
	assertStreamCode(t, stream, codes.NotFound)
}

func TestChannelFull(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tokens := newTokens(t)
	svc, lis := startWorker(t, tokens, &fakeLoader{channels: map[int32]*chatrpc.Channel{
		1: {ID: 1, Name: "general", Limit: 2},
	}})

	connectUser(t, ctx, tokens, lis, "ann", 1, workerAddr)
	connectUser(t, ctx, tokens, lis, "bob", 1, workerAddr)
	waitForUsers(t, svc, 1, 2)

	stream := connectUser(t, ctx, tokens, lis, "cat", 1, workerAddr)
	assertStreamCode(t, stream, codes.FailedPrecondition)
}

func TestDuplicateUser(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tokens := newTokens(t)
	svc, lis := startWorker(t, tokens, &fakeLoader{channels: map[int32]*chatrpc.Channel{
		1: {ID: 1, Name: "general", Limit: 8},
	}})

	connectUser(t, ctx, tokens, lis, "ann", 1, workerAddr)
	waitForUsers(t, svc, 1, 1)

	stream := connectUser(t, ctx, tokens, lis, "ann", 1, workerAddr)
	assertStreamCode(t, stream, codes.FailedPrecondition)
}

func TestHalfCloseLeavesChannel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tokens := newTokens(t)
	svc, lis := startWorker(t, tokens, &fakeLoader{channels: map[int32]*chatrpc.Channel{
		1: {ID: 1, Name: "general", Limit: 8},
	}})

	ann := connectUser(t, ctx, tokens, lis, "ann", 1, workerAddr)
	bob := connectUser(t, ctx, tokens, lis, "bob", 1, workerAddr)
	waitForUsers(t, svc, 1, 2)

	require.NoError(t, ann.CloseSend())
	_, err := ann.Recv()
	assert.True(t, errors.Is(err, io.EOF), "clean half-close ends the stream without error, got %v", err)
	waitForUsers(t, svc, 1, 1)

	// the surviving member still has a working channel
	require.NoError(t, bob.Send(&chatrpc.Message{Text: "still here"}))
	msg, err := bob.Recv()
	require.NoError(t, err)
	assert.Equal(t, "still here", msg.Text)
	assert.Equal(t, "bob", msg.UserID)
}

func TestLastUserOutDropsChannel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tokens := newTokens(t)
	svc, lis := startWorker(t, tokens, &fakeLoader{channels: map[int32]*chatrpc.Channel{
		1: {ID: 1, Name: "general", Limit: 8},
	}})

	ann := connectUser(t, ctx, tokens, lis, "ann", 1, workerAddr)
	waitForUsers(t, svc, 1, 1)

	require.NoError(t, ann.CloseSend())
	_, err := ann.Recv()
	require.True(t, errors.Is(err, io.EOF))
	require.Eventually(t, func() bool {
		return len(svc.Core().Snapshot()) == 0
	}, 2*time.Second, 5*time.Millisecond)
}
