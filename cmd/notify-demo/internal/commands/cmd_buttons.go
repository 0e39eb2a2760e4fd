package commands

import (
	"context"
	"fmt"

	"github.com/go-drift/notify/pkg/notify"
	"github.com/urfave/cli/v3"
)

type ButtonsCmd struct {
	flags *Flags

	title   string
	message string
	tap     int
}

// NewButtonsCmd creates a new buttons command
func NewButtonsCmd(flags *Flags) *ButtonsCmd {
	return &ButtonsCmd{flags: flags}
}

// Register adds the buttons command to the application
func (cmd *ButtonsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "buttons",
		Usage:     "Send a notification with up to three action buttons",
		UsageText: "notify-demo buttons [--tap N] <label>...",
		Description: `Each argument becomes a button label. Pressing a button prints which one
was pressed; use --tap to simulate the user pressing button N (0-based).

Examples:
  notify-demo buttons Reply "Mark as read"
  notify-demo buttons --tap 1 Accept Decline`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Value:       "Meeting reminder",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "message",
				Aliases:     []string{"m"},
				Value:       "Team standup in 5 minutes",
				Destination: &cmd.message,
			},
			&cli.IntFlag{
				Name:        "tap",
				Usage:       "simulate pressing the button at this index",
				Value:       -1,
				Destination: &cmd.tap,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ButtonsCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("at least one button label is required")
	}
	w := c.Root().Writer

	mgr, err := cmd.flags.Manager(ctx)
	if err != nil {
		return err
	}
	if err := ensurePermission(ctx, mgr); err != nil {
		return err
	}

	b := mgr.Create(cmd.title, cmd.message)
	for _, label := range c.Args().Slice() {
		b.AddButton(label, func() {
			fmt.Fprintf(w, "pressed: %s\n", label)
		})
	}
	if _, err := b.Send(ctx, notify.SendOptions{}); err != nil {
		return err
	}
	cmd.flags.printTray(w)

	if cmd.tap < 0 {
		return nil
	}
	tray := cmd.flags.Backend.Tray()
	if len(tray) == 0 {
		return fmt.Errorf("nothing to tap")
	}
	return cmd.flags.Backend.Tap(tray[len(tray)-1].Handle, cmd.tap)
}
