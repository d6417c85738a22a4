package chatserver

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/parley-chat/parley/auth"
	"github.com/parley-chat/parley/chatrpc"
	rpcauth "github.com/parley-chat/parley/chatrpc/auth"
	"github.com/parley-chat/parley/log"
)

// Reconnect backoff bounds for the report stream
const (
	reporterBackoffMin = time.Second
	reporterBackoffMax = 30 * time.Second
)

// Reporter maintains the worker's report stream to the manager: periodic
// channel snapshots out, shutdown orders in. The stream is also the worker's
// registration; losing it drops the worker from the manager's ring, so the
// reporter retries forever.
type Reporter struct {
	core        *Core
	managerAddr string
	interval    time.Duration
	token       string

	// dial is swappable for in-process transports
	dial func(ctx context.Context) (*grpc.ClientConn, error)
}

// NewReporter mints the worker token for selfAddr and returns a reporter
// targeting managerAddr
func NewReporter(core *Core, tokens *auth.Service, selfAddr, managerAddr string, interval time.Duration) (*Reporter, error) {
	token, err := tokens.WorkerToken(selfAddr)
	if err != nil {
		return nil, err
	}
	r := &Reporter{
		core:        core,
		managerAddr: managerAddr,
		interval:    interval,
		token:       token,
	}
	r.dial = r.dialManager
	return r, nil
}

func (r *Reporter) dialManager(ctx context.Context) (*grpc.ClientConn, error) {
	return grpc.DialContext(ctx, r.managerAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithPerRPCCredentials(rpcauth.TokenAuth{Token: r.token}),
	)
}

// Run drives report sessions until ctx is cancelled, backing off
// exponentially between attempts
func (r *Reporter) Run(ctx context.Context) error {
	backoff := reporterBackoffMin
	for {
		opened, err := r.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if opened {
			backoff = reporterBackoffMin
		}
		log.Warnf(log.ReporterSys, "report stream to %s lost: %v, retrying in %s",
			r.managerAddr, err, backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > reporterBackoffMax {
			backoff = reporterBackoffMax
		}
	}
}

// session runs one report stream to completion; opened reports whether the
// stream was established at all
func (r *Reporter) session(ctx context.Context) (opened bool, err error) {
	conn, err := r.dial(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	stream, err := chatrpc.NewChannelServiceClient(conn).Report(ctx)
	if err != nil {
		return false, err
	}
	log.Infof(log.ReporterSys, "report stream to %s established", r.managerAddr)

	recvErr := make(chan error, 1)
	go func() {
		for {
			resp, err := stream.Recv()
			if err != nil {
				recvErr <- err
				return
			}
			r.apply(resp)
		}
	}()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return true, stream.CloseSend()
		case err := <-recvErr:
			return true, err
		case <-ticker.C:
			if err := stream.Send(&chatrpc.ReportRequest{Channels: r.core.Snapshot()}); err != nil {
				return true, err
			}
		}
	}
}

func (r *Reporter) apply(resp *chatrpc.ReportResponse) {
	sd := resp.Shutdown
	if sd == nil {
		return
	}
	if sd.UserID != "" {
		log.Infof(log.ReporterSys, "manager ordered shutdown of user %s on channel %d", sd.UserID, sd.ChannelID)
		r.core.ShutdownUser(sd.ChannelID, sd.UserID)
		return
	}
	log.Infof(log.ReporterSys, "manager ordered shutdown of channel %d", sd.ChannelID)
	r.core.ShutdownChannel(sd.ChannelID)
}
