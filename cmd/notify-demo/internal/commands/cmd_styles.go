package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/go-drift/notify/pkg/notify"
	"github.com/go-drift/notify/pkg/notify/android"
	"github.com/urfave/cli/v3"
)

// StyleCmd sends notifications in the expanded styles: inbox, big text and
// images.
type StyleCmd struct {
	flags *Flags

	inbox   text
	bigText text
	images  text
	icon    string
	picture string
}

type text struct {
	title   string
	message string
}

// NewStyleCmd creates the style commands
func NewStyleCmd(flags *Flags) *StyleCmd {
	return &StyleCmd{flags: flags}
}

func textFlags(dst *text, title, message string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "title",
			Aliases:     []string{"t"},
			Value:       title,
			Destination: &dst.title,
		},
		&cli.StringFlag{
			Name:        "message",
			Aliases:     []string{"m"},
			Value:       message,
			Destination: &dst.message,
		},
	}
}

// Register adds the inbox, bigtext and images commands to the application
func (cmd *StyleCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "inbox",
			Usage:     "Send an inbox notification, one line per argument",
			UsageText: `notify-demo inbox [options] <line>...`,
			Flags:     textFlags(&cmd.inbox, "3 new messages", "From: John, Sarah, Mike"),
			Action:    cmd.runInbox,
		},
		&cli.Command{
			Name:      "bigtext",
			Usage:     "Send a notification that expands to a long body",
			UsageText: `notify-demo bigtext [options] <body>`,
			Flags:     textFlags(&cmd.bigText, "Article", "Tap to expand"),
			Action:    cmd.runBigText,
		},
		&cli.Command{
			Name:      "images",
			Usage:     "Send a notification with a large icon, a big picture or both",
			UsageText: `notify-demo images [--icon path] [--picture path]`,
			Description: `Images are probed on the local filesystem the same way the Android backend
does before forwarding them. An unreadable image still posts; the device
falls back to the default artwork.`,
			Flags: append(textFlags(&cmd.images, "Photo shared", "Alice shared a photo"),
				&cli.StringFlag{
					Name:        "icon",
					Usage:       "large icon path",
					Destination: &cmd.icon,
				},
				&cli.StringFlag{
					Name:        "picture",
					Usage:       "big picture path",
					Destination: &cmd.picture,
				},
			),
			Action: cmd.runImages,
		},
	)

	return app
}

func (cmd *StyleCmd) send(ctx context.Context, c *cli.Command, t text, build func(b *notify.Builder)) error {
	mgr, err := cmd.flags.Manager(ctx)
	if err != nil {
		return err
	}
	if err := ensurePermission(ctx, mgr); err != nil {
		return err
	}

	b := mgr.Create(t.title, t.message)
	build(b)
	if _, err := b.Send(ctx, notify.SendOptions{}); err != nil {
		return err
	}
	cmd.flags.printTray(c.Root().Writer)
	return nil
}

func (cmd *StyleCmd) runInbox(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("inbox needs at least one line")
	}
	return cmd.send(ctx, c, cmd.inbox, func(b *notify.Builder) {
		b.SetLines(c.Args().Slice())
	})
}

func (cmd *StyleCmd) runBigText(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected <body>, got %d arguments", c.Args().Len())
	}
	return cmd.send(ctx, c, cmd.bigText, func(b *notify.Builder) {
		b.SetBigText(c.Args().First())
	})
}

func (cmd *StyleCmd) runImages(ctx context.Context, c *cli.Command) error {
	if cmd.icon == "" && cmd.picture == "" {
		return fmt.Errorf("at least one of --icon or --picture is required")
	}
	w := c.Root().Writer
	if cmd.icon != "" {
		describeImage(w, "icon", cmd.icon)
	}
	if cmd.picture != "" {
		describeImage(w, "picture", cmd.picture)
	}
	return cmd.send(ctx, c, cmd.images, func(b *notify.Builder) {
		if cmd.icon != "" {
			b.SetLargeIcon(cmd.icon)
		}
		if cmd.picture != "" {
			b.SetBigPicture(cmd.picture)
		}
	})
}

func describeImage(w io.Writer, kind, path string) {
	info, err := android.ProbeImage(nil, path)
	if err != nil {
		fmt.Fprintf(w, "%s %s: unreadable, default artwork\n", kind, path)
		return
	}
	line := fmt.Sprintf("%s %s: %s %dx%d", kind, path, info.Format, info.Width, info.Height)
	if st, err := os.Stat(path); err == nil {
		line += ", " + humanize.Bytes(uint64(st.Size()))
	}
	fmt.Fprintln(w, line)
}
