package main

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/parley-chat/parley/chatrpc"
)

var listCommand = &cli.Command{
	Name:      "list",
	Usage:     "list channels and their connected users",
	ArgsUsage: "[channel_id]",
	Action:    list,
}

func list(c *cli.Context) error {
	var id int64
	if c.NArg() > 0 {
		var err error
		id, err = strconv.ParseInt(c.Args().Get(0), 10, 32)
		if err != nil {
			return err
		}
	}
	conn, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer cancel()

	result, err := chatrpc.NewChannelServiceClient(conn).List(c.Context,
		&chatrpc.Channel{ID: int32(id)})
	if err != nil {
		return err
	}
	jsonOutput(result)
	return nil
}

var createCommand = &cli.Command{
	Name:      "create",
	Usage:     "create a channel owned by the logged-in user",
	ArgsUsage: "<name> <limit>",
	Action:    create,
}

func create(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.ShowCommandHelp(c, "create")
	}
	limit, err := strconv.ParseInt(c.Args().Get(1), 10, 32)
	if err != nil {
		return err
	}
	conn, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer cancel()

	result, err := chatrpc.NewChannelServiceClient(conn).Create(c.Context,
		&chatrpc.Channel{
			Name:  c.Args().Get(0),
			Limit: int32(limit),
		})
	if err != nil {
		return err
	}
	jsonOutput(result)
	return nil
}

var deleteCommand = &cli.Command{
	Name:      "delete",
	Usage:     "delete a channel you own",
	ArgsUsage: "<channel_id>",
	Action:    remove,
}

func remove(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "delete")
	}
	id, err := strconv.ParseInt(c.Args().Get(0), 10, 32)
	if err != nil {
		return err
	}
	conn, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer cancel()

	result, err := chatrpc.NewChannelServiceClient(conn).Delete(c.Context,
		&chatrpc.Channel{ID: int32(id)})
	if err != nil {
		return err
	}
	jsonOutput(result)
	return nil
}

var listenCommand = &cli.Command{
	Name:      "listen",
	Usage:     "request a connect capability for a channel",
	ArgsUsage: "<channel_id>",
	Action:    listen,
}

func listen(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "listen")
	}
	id, err := strconv.ParseInt(c.Args().Get(0), 10, 32)
	if err != nil {
		return err
	}
	conn, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer cancel()

	result, err := chatrpc.NewChannelServiceClient(conn).Listen(c.Context,
		&chatrpc.Channel{ID: int32(id)})
	if err != nil {
		return err
	}
	jsonOutput(result)
	return nil
}
