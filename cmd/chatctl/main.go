package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/parley-chat/parley/chatrpc/auth"
)

var (
	host    string
	token   string
	timeout time.Duration
)

const defaultTimeout = 30 * time.Second

func jsonOutput(in interface{}) {
	j, err := json.MarshalIndent(in, "", " ")
	if err != nil {
		return
	}
	fmt.Println(string(j))
}

func setupClient(c *cli.Context) (*grpc.ClientConn, context.CancelFunc, error) {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if token != "" {
		opts = append(opts, grpc.WithPerRPCCredentials(auth.TokenAuth{Token: token}))
	}
	var cancel context.CancelFunc
	c.Context, cancel = context.WithTimeout(c.Context, timeout)
	conn, err := grpc.DialContext(c.Context, host, opts...)
	return conn, cancel, err
}

func main() {
	app := cli.NewApp()
	app.Name = "chatctl"
	app.Usage = "command line client for the parley chat plane"
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "rpchost",
			Value:       "localhost:9052",
			Usage:       "the manager gRPC host to connect to",
			Destination: &host,
		},
		&cli.StringFlag{
			Name:        "token",
			Usage:       "bearer token returned by login",
			EnvVars:     []string{"PARLEY_TOKEN"},
			Destination: &token,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Value:       defaultTimeout,
			Usage:       "per-request timeout",
			Destination: &timeout,
		},
	}
	app.Commands = []*cli.Command{
		registerCommand,
		loginCommand,
		listCommand,
		createCommand,
		deleteCommand,
		listenCommand,
		chatCommand,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
