package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/parley-chat/parley/chatrpc"
	"github.com/parley-chat/parley/chatrpc/auth"
)

var chatCommand = &cli.Command{
	Name:      "chat",
	Usage:     "join a channel, send stdin lines and print received messages",
	ArgsUsage: "<channel_id>",
	Action:    chat,
}

func chat(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "chat")
	}
	id, err := strconv.ParseInt(c.Args().Get(0), 10, 32)
	if err != nil {
		return err
	}

	// the capability is only valid for a few seconds, connect immediately
	grant, err := fetchGrant(c, int32(id))
	if err != nil {
		return err
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	conn, err := grpc.DialContext(ctx, grant.Server.Addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithPerRPCCredentials(auth.TokenAuth{Token: grant.Token}),
	)
	if err != nil {
		return err
	}
	defer conn.Close()

	stream, err := chatrpc.NewChatServiceClient(conn).Connect(ctx)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		for {
			msg, err := stream.Recv()
			if err != nil {
				done <- err
				return
			}
			if len(msg.Audio) > 0 {
				fmt.Printf("[%s] <%d bytes of audio>\n", msg.UserID, len(msg.Audio))
				continue
			}
			fmt.Printf("[%s] %s\n", msg.UserID, msg.Text)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if err := stream.Send(&chatrpc.Message{Text: scanner.Text()}); err != nil {
			break
		}
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}
	<-done
	return scanner.Err()
}

func fetchGrant(c *cli.Context, id int32) (*chatrpc.ListenResponse, error) {
	conn, cancel, err := setupClient(c)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	defer cancel()
	return chatrpc.NewChannelServiceClient(conn).Listen(c.Context, &chatrpc.Channel{ID: id})
}
