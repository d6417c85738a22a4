package manager

import (
	"context"
	"errors"
	"time"

	"github.com/parley-chat/parley/auth"
	"github.com/parley-chat/parley/chatrpc"
	"github.com/parley-chat/parley/common"
	"github.com/parley-chat/parley/log"
	"github.com/parley-chat/parley/registry"
)

// listenBurst is the number of listens admitted per user per listen interval
const listenBurst = 1

// ChannelService implements chatrpc.ChannelServiceServer. The registry it
// owns maps every known channel onto the live worker set; the report cache
// holds the latest per-channel state each worker streamed in.
type ChannelService struct {
	store    ChannelStore
	registry *registry.Registry
	tokens   *auth.Service
	limiter  *auth.FixedWindowLimiter
	reports  *reportCache

	emptyLiveTime time.Duration
	now           func() time.Time
}

// NewChannelService returns a channel service. listenInterval throttles
// Listen per user; emptyLiveTime is how long a channel may report zero users
// before its worker is told to drop it.
func NewChannelService(store ChannelStore, tokens *auth.Service, listenInterval, emptyLiveTime time.Duration) *ChannelService {
	return &ChannelService{
		store:         store,
		registry:      registry.New(),
		tokens:        tokens,
		limiter:       auth.NewFixedWindowLimiter(listenBurst, listenInterval),
		reports:       newReportCache(),
		emptyLiveTime: emptyLiveTime,
		now:           time.Now,
	}
}

// LoadChannels seeds the registry with every channel already persisted; call
// once at startup before serving.
func (s *ChannelService) LoadChannels(ctx context.Context) error {
	channels, err := s.store.AllChannels(ctx)
	if err != nil {
		return err
	}
	for _, ch := range channels {
		s.registry.AddChannel(ch.ID)
	}
	log.Infof(log.ManagerSys, "registered %d channels from storage", len(channels))
	return nil
}

// List returns every channel when the request id is zero, or the single
// matching channel; an unknown id yields an empty listing. Connected users
// are overlaid from the latest worker reports.
func (s *ChannelService) List(ctx context.Context, req *chatrpc.Channel) (*chatrpc.ListResponse, error) {
	var channels []*chatrpc.Channel
	if req == nil || req.ID == 0 {
		all, err := s.store.AllChannels(ctx)
		if err != nil {
			return nil, chatrpc.StatusFromError(err)
		}
		channels = all
	} else {
		ch, err := s.store.ChannelByID(ctx, req.ID)
		switch {
		case errors.Is(err, common.ErrChannelNotFound):
		case err != nil:
			return nil, chatrpc.StatusFromError(err)
		default:
			channels = append(channels, ch)
		}
	}
	for _, ch := range channels {
		ch.Users = s.reports.users(ch.ID)
	}
	return &chatrpc.ListResponse{Channels: channels}, nil
}

// Create persists a channel owned by the caller and assigns it a worker
func (s *ChannelService) Create(ctx context.Context, req *chatrpc.Channel) (*chatrpc.Channel, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, chatrpc.StatusFromError(err)
	}
	if err := req.Validate(); err != nil {
		return nil, chatrpc.StatusFromError(err)
	}
	id, err := s.store.InsertChannel(ctx, req.Name, req.Limit, claims.UserID)
	if err != nil {
		return nil, chatrpc.StatusFromError(err)
	}
	s.registry.AddChannel(id)
	log.Infof(log.ManagerSys, "channel %d (%s) created by %s", id, req.Name, claims.UserID)
	return &chatrpc.Channel{ID: id, Name: req.Name, Limit: req.Limit, OwnerID: claims.UserID}, nil
}

// Delete removes a channel; only its owner may. The owning worker is not
// signalled directly, its next report comes back as unowned and triggers the
// shutdown there.
func (s *ChannelService) Delete(ctx context.Context, req *chatrpc.Channel) (*chatrpc.Empty, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, chatrpc.StatusFromError(err)
	}
	if req == nil {
		return nil, chatrpc.StatusFromError(common.ErrValidate)
	}
	owner, err := s.store.ChannelOwner(ctx, req.ID)
	if err != nil {
		return nil, chatrpc.StatusFromError(err)
	}
	if owner != claims.UserID {
		return nil, chatrpc.StatusFromError(common.ErrPermissionDenied)
	}
	if err := s.store.DeleteChannel(ctx, req.ID); err != nil {
		return nil, chatrpc.StatusFromError(err)
	}
	s.registry.RemoveChannel(req.ID)
	s.reports.forget(req.ID)
	log.Infof(log.ManagerSys, "channel %d deleted by %s", req.ID, claims.UserID)
	return &chatrpc.Empty{}, nil
}

// Listen throttles the caller, resolves the channel's worker and mints the
// short-lived capability tying this grant to that worker
func (s *ChannelService) Listen(ctx context.Context, req *chatrpc.Channel) (*chatrpc.ListenResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, chatrpc.StatusFromError(err)
	}
	if req == nil {
		return nil, chatrpc.StatusFromError(common.ErrValidate)
	}
	if err := s.limiter.Allow(claims.UserID); err != nil {
		return nil, chatrpc.StatusFromError(err)
	}
	addr, err := s.registry.Worker(req.ID)
	if err != nil {
		return nil, chatrpc.StatusFromError(err)
	}
	token, err := s.tokens.Capability(claims.UserID, req.ID, addr)
	if err != nil {
		return nil, chatrpc.StatusFromError(err)
	}
	return &chatrpc.ListenResponse{
		Token:  token,
		Server: &chatrpc.ChannelServer{Addr: addr},
	}, nil
}
