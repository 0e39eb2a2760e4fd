package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/go-drift/notify/pkg/notify"
	"github.com/urfave/cli/v3"
)

type ProgressCmd struct {
	flags *Flags

	steps      int
	delay      time.Duration
	infinite   bool
	hide       bool
	doneMsg    string
	cancelOnly bool
}

// NewProgressCmd creates a new progress command
func NewProgressCmd(flags *Flags) *ProgressCmd {
	return &ProgressCmd{flags: flags}
}

// Register adds the progress command to the application
func (cmd *ProgressCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "progress",
		Usage:     "Simulate a download with a progress notification",
		UsageText: "notify-demo progress [options]",
		Description: `Sends a progress notification and advances it to 100%, then removes the
progress bar and shows a final message.

With --infinite the bar is shown as indeterminate while "processing".
With --cancel the notification is cancelled halfway instead.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "steps",
				Usage:       "number of progress updates",
				Value:       10,
				Destination: &cmd.steps,
			},
			&cli.DurationFlag{
				Name:        "delay",
				Usage:       "pause between updates",
				Value:       300 * time.Millisecond,
				Destination: &cmd.delay,
			},
			&cli.BoolFlag{
				Name:        "infinite",
				Usage:       "show an indeterminate bar instead of steps",
				Destination: &cmd.infinite,
			},
			&cli.BoolFlag{
				Name:        "hide",
				Usage:       "remove the notification content immediately when done",
				Destination: &cmd.hide,
			},
			&cli.StringFlag{
				Name:        "done",
				Usage:       "final message",
				Value:       "Download complete",
				Destination: &cmd.doneMsg,
			},
			&cli.BoolFlag{
				Name:        "cancel",
				Usage:       "cancel the notification halfway",
				Destination: &cmd.cancelOnly,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ProgressCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.steps <= 0 {
		return fmt.Errorf("--steps must be positive, got %d", cmd.steps)
	}
	w := c.Root().Writer

	mgr, err := cmd.flags.Manager(ctx)
	if err != nil {
		return err
	}
	if err := ensurePermission(ctx, mgr); err != nil {
		return err
	}

	title, message := "Download in progress", "Starting download..."
	if cmd.infinite {
		title, message = "Processing", "Please wait..."
	}
	n, err := mgr.Create(title, message).WithDefaultProgress().Send(ctx, notify.SendOptions{Silent: true})
	if err != nil {
		return err
	}
	cmd.flags.printTray(w)

	if cmd.infinite {
		if err := n.ShowInfiniteProgress(ctx); err != nil {
			return err
		}
		cmd.flags.printTray(w)
		if err := sleep(ctx, cmd.delay*time.Duration(cmd.steps)); err != nil {
			return err
		}
	} else {
		for i := 1; i <= cmd.steps; i++ {
			if err := sleep(ctx, cmd.delay); err != nil {
				return err
			}
			pct := i * 100 / cmd.steps
			if err := n.UpdateProgress(ctx, pct, notify.WithMessage(fmt.Sprintf("%d%% complete", pct))); err != nil {
				return err
			}
			cmd.flags.printTray(w)

			if cmd.cancelOnly && i*2 >= cmd.steps {
				if err := n.Cancel(ctx); err != nil {
					return err
				}
				cmd.flags.printTray(w)
				return nil
			}
		}
	}

	opts := []notify.UpdateOption{notify.WithMessage(cmd.doneMsg)}
	if cmd.hide {
		opts = append(opts, notify.HideImmediately())
	}
	if err := n.RemoveProgress(ctx, opts...); err != nil {
		return err
	}
	cmd.flags.printTray(w)
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
