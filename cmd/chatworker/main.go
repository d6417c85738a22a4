package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	grpcauth "github.com/grpc-ecosystem/go-grpc-middleware/auth"
	"github.com/urfave/cli/v2"
	"google.golang.org/grpc"

	"github.com/parley-chat/parley/auth"
	"github.com/parley-chat/parley/chatrpc"
	"github.com/parley-chat/parley/chatserver"
	"github.com/parley-chat/parley/config"
	"github.com/parley-chat/parley/database"
	"github.com/parley-chat/parley/log"
	"github.com/parley-chat/parley/manager"
	"github.com/parley-chat/parley/signaler"
)

var errManagerAddrUnset = errors.New("manager_addr unset")

var configPath string

func main() {
	app := cli.NewApp()
	app.Name = "chatworker"
	app.Usage = "chat worker server for the parley chat plane"
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
	if cfg.Server.ManagerAddr == "" {
		return errManagerAddrUnset
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

	tokens, err := auth.NewService(cfg.Server.Secret)
	if err != nil {
		return err
	}

	selfAddr := cfg.Server.Addr()
	core := chatserver.NewCore()
	svc := chatserver.NewService(selfAddr, core, manager.NewSQLStore(db))
	reporter, err := chatserver.NewReporter(core, tokens,
		selfAddr, cfg.Server.ManagerAddr,
		cfg.Server.ReportDuration.Duration())
	if err != nil {
		return err
	}

	lis, err := net.Listen("tcp", selfAddr)
	if err != nil {
		return err
	}
	srv := grpc.NewServer(
		grpc.UnaryInterceptor(grpcauth.UnaryServerInterceptor(tokens.AuthFunc)),
		grpc.StreamInterceptor(grpcauth.StreamServerInterceptor(tokens.AuthFunc)),
	)
	chatrpc.RegisterChatServiceServer(srv, svc)

	go func() {
		log.Infof(log.GRPCSys, "worker serving on %s", selfAddr)
		if err := srv.Serve(lis); err != nil {
			log.Errorf(log.GRPCSys, "grpc serve: %v", err)
		}
	}()

	reportCtx, stopReporter := context.WithCancel(c.Context)
	defer stopReporter()
	go func() {
		if err := reporter.Run(reportCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf(log.ReporterSys, "reporter: %v", err)
		}
	}()

	interrupt := <-signaler.WaitForInterrupt()
	log.Infof(log.Global, "captured %v, shutting down", interrupt)
	stopReporter()

	// connect streams are long-lived, so a graceful stop alone could wait
	// forever on connected users
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
