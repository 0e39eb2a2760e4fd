package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-drift/notify/pkg/notify"
	"github.com/urfave/cli/v3"
)

type ChannelCmd struct {
	flags *Flags

	name        string
	description string
	importance  string
}

// NewChannelCmd creates a new channel command
func NewChannelCmd(flags *Flags) *ChannelCmd {
	return &ChannelCmd{flags: flags}
}

// Register adds the channel command to the application
func (cmd *ChannelCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "channel",
		Usage: "Manage notification channels",
		Description: `Channels configured in notify.yaml are registered at startup; these
commands operate on top of them.`,
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Register a channel",
				UsageText: "notify-demo channel create [options] <id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "name",
						Usage:       "user-visible channel name (defaults to the id)",
						Destination: &cmd.name,
					},
					&cli.StringFlag{
						Name:        "description",
						Destination: &cmd.description,
					},
					&cli.StringFlag{
						Name:        "importance",
						Value:       notify.ImportanceUrgent.String(),
						Destination: &cmd.importance,
					},
				},
				Action: cmd.runCreate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a channel",
				UsageText: "notify-demo channel delete <id>",
				Action:    cmd.runDelete,
			},
			{
				Name:   "delete-all",
				Usage:  "Delete every channel",
				Action: cmd.runDeleteAll,
			},
			{
				Name:   "list",
				Usage:  "List registered channels",
				Action: cmd.runList,
			},
		},
	})

	return app
}

func (cmd *ChannelCmd) runCreate(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("channel id is required")
	}
	importance, err := notify.ParseImportance(cmd.importance)
	if err != nil {
		return err
	}
	name := cmd.name
	if name == "" {
		name = id
	}

	mgr, err := cmd.flags.Manager(ctx)
	if err != nil {
		return err
	}
	err = mgr.CreateChannel(ctx, notify.Channel{
		ID:          id,
		Name:        name,
		Description: cmd.description,
		Importance:  importance,
	})
	if err != nil {
		return err
	}
	return cmd.runList(ctx, c)
}

func (cmd *ChannelCmd) runDelete(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("channel id is required")
	}
	mgr, err := cmd.flags.Manager(ctx)
	if err != nil {
		return err
	}
	if err := mgr.DeleteChannel(ctx, id); err != nil {
		return err
	}
	return cmd.runList(ctx, c)
}

func (cmd *ChannelCmd) runDeleteAll(ctx context.Context, c *cli.Command) error {
	mgr, err := cmd.flags.Manager(ctx)
	if err != nil {
		return err
	}
	if err := mgr.DeleteAllChannels(ctx); err != nil {
		return err
	}
	return cmd.runList(ctx, c)
}

func (cmd *ChannelCmd) runList(_ context.Context, c *cli.Command) error {
	w := c.Root().Writer
	channels := cmd.flags.Backend.Channels()
	if len(channels) == 0 {
		fmt.Fprintln(w, "channels: none")
		return nil
	}
	ids := make([]string, 0, len(channels))
	for id := range channels {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		ch := channels[id]
		fmt.Fprintf(w, "%s %q importance=%s\n", ch.ID, ch.Name, ch.Importance)
	}
	return nil
}
