package chatserver

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/parley-chat/parley/auth"
	"github.com/parley-chat/parley/chatrpc"
	"github.com/parley-chat/parley/common"
	"github.com/parley-chat/parley/log"
)

// ChannelLoader resolves channel rows for lazy core creation; the manager's
// database is the source of truth for which channels exist
type ChannelLoader interface {
	ChannelByID(ctx context.Context, id int32) (*chatrpc.Channel, error)
}

// Service implements chatrpc.ChatServiceServer for one worker
type Service struct {
	addr   string
	core   *Core
	loader ChannelLoader
	now    func() time.Time
}

// NewService returns a chat service answering for addr; capabilities minted
// for any other address are refused
func NewService(addr string, core *Core, loader ChannelLoader) *Service {
	return &Service{addr: addr, core: core, loader: loader, now: time.Now}
}

// Core exposes the live channel state for the reporter
func (s *Service) Core() *Core {
	return s.core
}

// Connect serves one user's bidirectional session on a channel. The inbound
// pump stamps each message with the authenticated user and server wall-clock
// before publishing; the outbound pump drains the user's broadcast pipe. The
// first pump to stop fires the shared shutdown and decides the verdict.
func (s *Service) Connect(stream chatrpc.ChatService_ConnectServer) error {
	claims, err := auth.ClaimsFromContext(stream.Context())
	if err != nil {
		return chatrpc.StatusFromError(err)
	}
	if claims.UserID == "" || claims.ChannelID == 0 {
		return chatrpc.StatusFromError(common.ErrPermissionDenied)
	}
	if claims.Addr != s.addr {
		return chatrpc.StatusFromError(common.ErrPermissionDenied)
	}

	core, ok := s.core.get(claims.ChannelID)
	if !ok {
		row, err := s.loader.ChannelByID(stream.Context(), claims.ChannelID)
		if err != nil {
			return chatrpc.StatusFromError(err)
		}
		core = s.core.getOrCreate(row)
	}

	sd, err := core.register(claims.UserID)
	if err != nil {
		return chatrpc.StatusFromError(err)
	}
	defer func() {
		if core.deregister(claims.UserID) == 0 {
			s.core.dropIfEmpty(core)
		}
		log.Infof(log.ChatSys, "user %s left channel %d", claims.UserID, core.ID)
	}()

	pipe, err := core.topic.Subscribe()
	if err != nil {
		return chatrpc.StatusFromError(err)
	}
	defer pipe.Release()

	log.Infof(log.ChatSys, "user %s joined channel %d", claims.UserID, core.ID)

	verdict := make(chan error, 2)

	go func() {
		defer sd.Fire()
		for {
			msg, err := stream.Recv()
			if err != nil {
				if errors.Is(err, io.EOF) {
					verdict <- nil
				} else {
					verdict <- err
				}
				return
			}
			msg.UserID = claims.UserID
			msg.Timestamp = s.now().UnixMilli()
			if err := core.topic.Publish(msg); err != nil {
				verdict <- err
				return
			}
		}
	}()

	go func() {
		defer sd.Fire()
		for {
			select {
			case <-sd.Done():
				verdict <- nil
				return
			case v, ok := <-pipe.C:
				if !ok {
					if pipe.Lagged() {
						verdict <- common.ErrBroadcastStopped
					} else {
						verdict <- nil
					}
					return
				}
				if err := stream.Send(v.(*chatrpc.Message)); err != nil {
					verdict <- err
					return
				}
			}
		}
	}()

	// the winning pump fires sd, which stops the outbound pump; the inbound
	// pump may stay blocked in Recv until this return tears the stream down
	err = <-verdict
	<-sd.Done()
	return chatrpc.StatusFromError(err)
}
