package manager

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/parley-chat/parley/auth"
	"github.com/parley-chat/parley/chatrpc"
	"github.com/parley-chat/parley/common"
	"github.com/parley-chat/parley/log"
)

// Report handles one worker's report stream for its whole lifetime. The
// stream doubles as the worker's liveness signal: the worker joins the ring
// when the stream opens and leaves it when the stream ends, whatever the
// reason.
func (s *ChannelService) Report(stream chatrpc.ChannelService_ReportServer) error {
	claims, err := auth.ClaimsFromContext(stream.Context())
	if err != nil {
		return chatrpc.StatusFromError(err)
	}
	if claims.Addr == "" || claims.UserID != "" {
		return chatrpc.StatusFromError(common.ErrPermissionDenied)
	}
	addr := claims.Addr

	log.Infof(log.ManagerSys, "worker %s connected", addr)
	s.registry.AddWorker(addr)
	defer func() {
		s.registry.RemoveWorker(addr)
		s.reports.dropWorker(addr)
		log.Infof(log.ManagerSys, "worker %s disconnected", addr)
	}()

	emptySince := make(map[int32]time.Time)
	for {
		req, err := stream.Recv()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Warnf(log.ManagerSys, "worker %s report stream: %v", addr, err)
			}
			return nil
		}
		for _, ch := range req.Channels {
			resp := s.inspect(addr, ch, emptySince)
			if resp == nil {
				continue
			}
			if err := stream.Send(resp); err != nil {
				log.Warnf(log.ManagerSys, "worker %s report send: %v", addr, err)
				return nil
			}
		}
	}
}

// inspect checks one reported channel and returns the shutdown to send back,
// if any. A channel the ring no longer assigns to this worker is shut down
// there; a channel empty for longer than emptyLiveTime is shut down and its
// tracker entry dropped; anything else refreshes the report cache.
func (s *ChannelService) inspect(addr string, ch *chatrpc.Channel, emptySince map[int32]time.Time) *chatrpc.ReportResponse {
	owner, err := s.registry.Worker(ch.ID)
	if err != nil || owner != addr {
		log.Warnf(log.ManagerSys, "worker %s reported channel %d it does not own", addr, ch.ID)
		delete(emptySince, ch.ID)
		return &chatrpc.ReportResponse{Shutdown: &chatrpc.ShutdownRequest{ChannelID: ch.ID}}
	}

	if len(ch.Users) == 0 {
		since, tracked := emptySince[ch.ID]
		if !tracked {
			emptySince[ch.ID] = s.now()
		} else if s.now().Sub(since) >= s.emptyLiveTime {
			log.Infof(log.ManagerSys, "channel %d empty past its live time, shutting down on %s", ch.ID, addr)
			delete(emptySince, ch.ID)
			s.reports.forget(ch.ID)
			return &chatrpc.ReportResponse{Shutdown: &chatrpc.ShutdownRequest{ChannelID: ch.ID}}
		}
	} else {
		delete(emptySince, ch.ID)
	}

	s.reports.store(addr, ch)
	return nil
}

type reportEntry struct {
	worker  string
	channel *chatrpc.Channel
}

// reportCache holds the latest reported state per channel, keyed by channel
// id. Entries die with the worker that produced them.
type reportCache struct {
	entries sync.Map // int32 -> reportEntry
}

func newReportCache() *reportCache {
	return &reportCache{}
}

func (c *reportCache) store(worker string, ch *chatrpc.Channel) {
	c.entries.Store(ch.ID, reportEntry{worker: worker, channel: ch})
}

func (c *reportCache) users(id int32) []*chatrpc.User {
	v, ok := c.entries.Load(id)
	if !ok {
		return nil
	}
	return v.(reportEntry).channel.Users
}

func (c *reportCache) forget(id int32) {
	c.entries.Delete(id)
}

func (c *reportCache) dropWorker(worker string) {
	c.entries.Range(func(key, value interface{}) bool {
		if value.(reportEntry).worker == worker {
			c.entries.Delete(key)
		}
		return true
	})
}
