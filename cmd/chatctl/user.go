package main

import (
	"github.com/urfave/cli/v2"

	"github.com/parley-chat/parley/chatrpc"
)

var registerCommand = &cli.Command{
	Name:      "register",
	Usage:     "create a user account",
	ArgsUsage: "<user_id> <password> [name]",
	Action:    register,
}

func register(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.ShowCommandHelp(c, "register")
	}
	conn, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer cancel()

	result, err := chatrpc.NewUserServiceClient(conn).Register(c.Context,
		&chatrpc.RegisterRequest{
			UserID:   c.Args().Get(0),
			Password: c.Args().Get(1),
			Name:     c.Args().Get(2),
		})
	if err != nil {
		return err
	}
	jsonOutput(result)
	return nil
}

var loginCommand = &cli.Command{
	Name:      "login",
	Usage:     "log in and print the bearer token",
	ArgsUsage: "<user_id> <password>",
	Action:    login,
}

func login(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.ShowCommandHelp(c, "login")
	}
	conn, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer cancel()

	result, err := chatrpc.NewUserServiceClient(conn).Login(c.Context,
		&chatrpc.LoginRequest{
			UserID:   c.Args().Get(0),
			Password: c.Args().Get(1),
		})
	if err != nil {
		return err
	}
	jsonOutput(result)
	return nil
}
