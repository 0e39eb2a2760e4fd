package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-drift/notify/pkg/notify"
	"github.com/urfave/cli/v3"
)

var errPermissionDenied = errors.New("notification permission denied")

// ensurePermission asks for the post-notification permission when it is
// not granted yet, the way the app does before its first send.
func ensurePermission(ctx context.Context, mgr *notify.Manager) error {
	if mgr.CheckPermission(ctx) {
		return nil
	}
	granted, err := mgr.RequestPermission(ctx)
	if err != nil {
		return err
	}
	if !granted {
		return errPermissionDenied
	}
	return nil
}

type SendCmd struct {
	flags *Flags

	silent     bool
	persistent bool
	keep       bool
	channel    string
	id         string
	icon       string
	importance string
}

// NewSendCmd creates a new send command
func NewSendCmd(flags *Flags) *SendCmd {
	return &SendCmd{flags: flags}
}

// Register adds the send command to the application
func (cmd *SendCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "send",
		Usage:     "Send a simple notification",
		UsageText: "notify-demo send [options] <title> <message>",
		Description: `Sends a simple notification to the simulated device and prints the tray.

Examples:
  notify-demo send "New message" "You have a new message"
  notify-demo send --silent "Sync" "Data updated"
  notify-demo send --persistent "Now playing" "Artist - Song"`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "silent",
				Usage:       "post without sound or vibration",
				Destination: &cmd.silent,
			},
			&cli.BoolFlag{
				Name:        "persistent",
				Usage:       "prevent the user from dismissing the notification",
				Destination: &cmd.persistent,
			},
			&cli.BoolFlag{
				Name:        "keep",
				Usage:       "keep the notification in the tray after a tap",
				Destination: &cmd.keep,
			},
			&cli.StringFlag{
				Name:        "channel",
				Aliases:     []string{"c"},
				Usage:       "channel id (defaults to the configured default channel)",
				Destination: &cmd.channel,
			},
			&cli.StringFlag{
				Name:        "id",
				Usage:       "notification name used to recognize it later",
				Destination: &cmd.id,
			},
			&cli.StringFlag{
				Name:        "icon",
				Usage:       "custom small icon path",
				Destination: &cmd.icon,
			},
			&cli.StringFlag{
				Name:        "importance",
				Usage:       "urgent, high, medium, low or none",
				Destination: &cmd.importance,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SendCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected <title> <message>, got %d arguments", c.Args().Len())
	}

	mgr, err := cmd.flags.Manager(ctx)
	if err != nil {
		return err
	}
	if err := ensurePermission(ctx, mgr); err != nil {
		return err
	}

	var opts []notify.CreateOption
	if cmd.channel != "" {
		opts = append(opts, notify.InChannel(cmd.channel, ""))
	}
	if cmd.id != "" {
		opts = append(opts, notify.WithID(cmd.id))
	}
	if cmd.importance != "" {
		importance, err := notify.ParseImportance(cmd.importance)
		if err != nil {
			return err
		}
		opts = append(opts, notify.WithImportance(importance))
	}

	b := mgr.Create(c.Args().Get(0), c.Args().Get(1), opts...)
	if cmd.icon != "" {
		b.SetIcon(cmd.icon)
	}
	_, err = b.Send(ctx, notify.SendOptions{
		Silent:      cmd.silent,
		Persistent:  cmd.persistent,
		KeepOnClick: cmd.keep,
	})
	if err != nil {
		return err
	}

	cmd.flags.printTray(c.Root().Writer)
	return nil
}
