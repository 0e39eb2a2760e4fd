package commands

import (
	"context"
	"fmt"

	"github.com/go-drift/notify/pkg/notify"
	"github.com/urfave/cli/v3"
)

// TrayCmd holds the commands acting on every posted notification.
type TrayCmd struct {
	flags *Flags

	launching string
}

// NewTrayCmd creates the cancel-all and opened commands
func NewTrayCmd(flags *Flags) *TrayCmd {
	return &TrayCmd{flags: flags}
}

// Register adds the cancel-all and opened commands to the application
func (cmd *TrayCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:   "cancel-all",
			Usage:  "Send two notifications, then cancel everything the app posted",
			Action: cmd.runCancelAll,
		},
		&cli.Command{
			Name:  "opened",
			Usage: "Report which notification launched the app",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "launched-by",
					Usage:       "simulate a launch from the notification with this id",
					Destination: &cmd.launching,
				},
			},
			Action: cmd.runOpened,
		},
	)

	return app
}

func (cmd *TrayCmd) runCancelAll(ctx context.Context, c *cli.Command) error {
	w := c.Root().Writer
	mgr, err := cmd.flags.Manager(ctx)
	if err != nil {
		return err
	}
	if err := ensurePermission(ctx, mgr); err != nil {
		return err
	}

	for _, title := range []string{"First", "Second"} {
		if _, err := mgr.Send(ctx, title, "will be cancelled", "", notify.SendOptions{}); err != nil {
			return err
		}
	}
	cmd.flags.printTray(w)

	if err := mgr.CancelAll(ctx); err != nil {
		return err
	}
	cmd.flags.printTray(w)
	return nil
}

func (cmd *TrayCmd) runOpened(ctx context.Context, c *cli.Command) error {
	if cmd.launching != "" {
		cmd.flags.Backend.SetLaunching(cmd.launching)
	}
	mgr, err := cmd.flags.Manager(ctx)
	if err != nil {
		return err
	}
	id, ok, err := mgr.OpenedNotification(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(c.Root().Writer, "opened: not launched from a notification")
		return nil
	}
	fmt.Fprintf(c.Root().Writer, "opened: %s\n", id)
	return nil
}
