package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type PermissionCmd struct {
	flags *Flags
}

// NewPermissionCmd creates a new permission command
func NewPermissionCmd(flags *Flags) *PermissionCmd {
	return &PermissionCmd{flags: flags}
}

// Register adds the permission command to the application
func (cmd *PermissionCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "permission",
		Usage: "Check or request the notification permission",
		Description: `The permission is only needed from API level 33; use --api-level to simulate
older devices and --deny-permission to simulate the user refusing.`,
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "Report whether notifications may be posted",
				Action: cmd.runCheck,
			},
			{
				Name:   "request",
				Usage:  "Ask the user for the permission",
				Action: cmd.runRequest,
			},
		},
	})

	return app
}

func (cmd *PermissionCmd) runCheck(ctx context.Context, c *cli.Command) error {
	mgr, err := cmd.flags.Manager(ctx)
	if err != nil {
		return err
	}
	granted := mgr.CheckPermission(ctx)
	fmt.Fprintf(c.Root().Writer, "granted: %t (%s)\n", granted, mgr.Permission())
	return nil
}

func (cmd *PermissionCmd) runRequest(ctx context.Context, c *cli.Command) error {
	mgr, err := cmd.flags.Manager(ctx)
	if err != nil {
		return err
	}
	granted, err := mgr.RequestPermission(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Root().Writer, "granted: %t (%s)\n", granted, mgr.Permission())
	return nil
}
