package main

import (
	"fmt"
	"net"
	"os"
	"time"

	grpcauth "github.com/grpc-ecosystem/go-grpc-middleware/auth"
	"github.com/urfave/cli/v2"
	"google.golang.org/grpc"

	"github.com/parley-chat/parley/auth"
	"github.com/parley-chat/parley/chatrpc"
	"github.com/parley-chat/parley/config"
	"github.com/parley-chat/parley/database"
	"github.com/parley-chat/parley/log"
	"github.com/parley-chat/parley/manager"
	"github.com/parley-chat/parley/signaler"
)

var configPath string

func main() {
	app := cli.NewApp()
	app.Name = "chatmanager"
	app.Usage = "manager server for the parley chat plane"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Value:       "config.yaml",
			Usage:       "path to the yaml configuration file",
			Destination: &configPath,
		},
	}
	app.Action = run
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logCfg := cfg.Log
	if logCfg == nil {
		logCfg = log.GenDefaultSettings()
	}
	if err := log.SetupGlobalLogger(logCfg); err != nil {
		return err
	}

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		return fmt.Errorf("database connect: %w", err)
	}
	defer db.CloseConnection()
	if err := db.Setup(c.Context); err != nil {
		return fmt.Errorf("database setup: %w", err)
	}

	tokens, err := auth.NewService(cfg.Server.Secret)
	if err != nil {
		return err
	}
	store := manager.NewSQLStore(db)
	users := manager.NewUserService(store, tokens, cfg.Server.Salt)
	channels := manager.NewChannelService(store, tokens,
		cfg.Server.ListenInterval.Duration(),
		cfg.Server.EmptyLiveTime.Duration())
	if err := channels.LoadChannels(c.Context); err != nil {
		return fmt.Errorf("channel load: %w", err)
	}

	lis, err := net.Listen("tcp", cfg.Server.Addr())
	if err != nil {
		return err
	}
	srv := grpc.NewServer(
		grpc.UnaryInterceptor(grpcauth.UnaryServerInterceptor(tokens.AuthFunc)),
		grpc.StreamInterceptor(grpcauth.StreamServerInterceptor(tokens.AuthFunc)),
	)
	chatrpc.RegisterUserServiceServer(srv, users)
	chatrpc.RegisterChannelServiceServer(srv, channels)

	go func() {
		log.Infof(log.GRPCSys, "manager serving on %s", cfg.Server.Addr())
		if err := srv.Serve(lis); err != nil {
			log.Errorf(log.GRPCSys, "grpc serve: %v", err)
		}
	}()

	interrupt := <-signaler.WaitForInterrupt()
	log.Infof(log.Global, "captured %v, shutting down", interrupt)

	// report streams are long-lived, so a graceful stop alone could wait
	// forever on connected workers
	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		srv.Stop()
	}
	return nil
}
