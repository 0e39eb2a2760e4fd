package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/go-drift/notify/pkg/config"
	"github.com/go-drift/notify/pkg/errors"
	"github.com/go-drift/notify/pkg/logutils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// NewApp returns the root command with every subcommand registered. The
// Before hook loads notify.yaml, sets up the logger and builds the simulated
// device.
func NewApp(flags *Flags) *cli.Command {
	var logCloser func()

	app := &cli.Command{
		Name:      "notify-demo",
		Usage:     "Exercise notifications on a simulated Android device",
		UsageText: "notify-demo [global options] command [command options]",
		Description: `notify-demo builds, sends, updates and cancels notifications through the
notify core, backed by an in-process simulator that prints the tray after
each step.

Defaults and channels are read from notify.yaml, searched upwards from the
working directory unless --config-dir is given. NOTIFY_* environment
variables override the file.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (trace, debug, info, warn, error); overrides notify.yaml",
				Sources:     cli.EnvVars("NOTIFY_LOG_LEVEL"),
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "write JSON logs to this file instead of stderr",
				Sources:     cli.EnvVars("NOTIFY_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config-dir",
				Usage:       "directory holding notify.yaml",
				Destination: &flags.ConfigDir,
			},
			&cli.IntFlag{
				Name:        "api-level",
				Usage:       "simulated Android API level",
				Value:       33,
				Destination: &flags.APILevel,
			},
			&cli.BoolFlag{
				Name:        "deny-permission",
				Usage:       "simulate the user refusing the notification permission",
				Destination: &flags.DenyPermission,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := LoadConfig(flags)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			logger, closer, err := logutils.New(cfg.Log.Level, cfg.Log.File)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			errors.SetHandler(&errors.LogHandler{Logger: &logger, Verbose: logger.GetLevel() <= zerolog.DebugLevel})
			logCloser = closer

			return ctx, flags.Init(ctx, logger)
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = NewSendCmd(flags).Register(app)
	app = NewProgressCmd(flags).Register(app)
	app = NewStyleCmd(flags).Register(app)
	app = NewButtonsCmd(flags).Register(app)
	app = NewChannelCmd(flags).Register(app)
	app = NewPermissionCmd(flags).Register(app)
	app = NewTrayCmd(flags).Register(app)

	return app
}

// LoadConfig loads notify.yaml and applies the log flags on top of it.
func LoadConfig(flags *Flags) (*config.Config, error) {
	dir := flags.ConfigDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = config.FindDir(wd)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFile != "" {
		cfg.Log.File = flags.LogFile
	}
	return cfg, nil
}
