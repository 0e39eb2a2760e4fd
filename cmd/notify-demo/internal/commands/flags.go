package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-drift/notify/pkg/config"
	"github.com/go-drift/notify/pkg/notify"
	"github.com/go-drift/notify/pkg/notify/simulator"
	"github.com/rs/zerolog"
)

// DemoSurface is the surface id of the simulated activity.
const DemoSurface = "demo.MainActivity"

type Flags struct {
	LogLevel  string
	LogFile   string
	ConfigDir string

	// APILevel is the simulated Android API level.
	APILevel int
	// DenyPermission makes the simulated permission prompt deny.
	DenyPermission bool

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	Backend  *simulator.Backend
	Host     *simulator.Host
	Registry *notify.Registry
}

// Init builds the simulated device from the loaded config and registers the
// configured channels.
func (f *Flags) Init(ctx context.Context, log zerolog.Logger) error {
	if f.Config == nil {
		f.Config = &config.Config{}
	}
	apiLevel := f.APILevel
	if apiLevel == 0 {
		apiLevel = simulator.DefaultAPILevel
	}

	perms := simulator.NewPermissions(false)
	if f.DenyPermission {
		perms.DenyRequests()
	}

	f.Backend = simulator.New(simulator.WithLogger(log.With().Str("component", "simulator").Logger()))
	f.Host = simulator.NewHost(DemoSurface, simulator.AtAPILevel(apiLevel), simulator.WithPermissions(perms))
	f.Registry = notify.NewRegistry(f.Backend,
		notify.WithLogger(log.With().Str("component", "notify").Logger()),
		notify.WithDefaults(f.Config.RegistryDefaults()),
	)

	for _, ch := range f.Config.NotifyChannels() {
		if err := f.Registry.CreateChannel(ctx, ch); err != nil {
			return fmt.Errorf("register channel %q: %w", ch.ID, err)
		}
	}
	return nil
}

// Manager returns the manager of the simulated activity.
func (f *Flags) Manager(ctx context.Context) (*notify.Manager, error) {
	return f.Registry.Manager(ctx, f.Host)
}

// printTray writes one line per notification in the simulated tray.
func (f *Flags) printTray(w io.Writer) {
	tray := f.Backend.Tray()
	if len(tray) == 0 {
		fmt.Fprintln(w, "tray: empty")
		return
	}
	for _, p := range tray {
		line := fmt.Sprintf("#%d [%s] %s: %s", p.Handle, p.Spec.Style, p.Spec.Title, p.Spec.Message)
		switch {
		case p.Indeterminate:
			line += " (progress: indeterminate)"
		case p.ProgressShown:
			line += fmt.Sprintf(" (progress: %d/%d)", p.Spec.ProgressCurrent, p.Spec.ProgressMax)
		}
		if len(p.Buttons) > 0 {
			line += " buttons: " + strings.Join(p.Buttons, ", ")
		}
		fmt.Fprintln(w, line)
	}
}
