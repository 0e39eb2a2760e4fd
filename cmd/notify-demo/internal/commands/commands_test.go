package commands

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-drift/notify/pkg/config"
	"github.com/go-drift/notify/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the app against a fresh simulated device and returns what
// was written to the root writer.
func run(t *testing.T, dir string, args ...string) (string, *Flags, error) {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}

	t.Cleanup(func() { errors.SetHandler(nil) })

	flags := &Flags{}
	app := NewApp(flags)
	var buf bytes.Buffer
	app.Writer = &buf

	argv := append([]string{"notify-demo",
		"--config-dir", dir,
		"--log-file", filepath.Join(t.TempDir(), "notify.log"),
	}, args...)
	err := app.Run(context.Background(), argv)
	return buf.String(), flags, err
}

func TestSendCmd(t *testing.T) {
	out, flags, err := run(t, "", "send", "--silent", "--id", "greeting", "New message", "You have a new message")
	require.NoError(t, err)
	assert.Equal(t, "#1 [simple] New message: You have a new message\n", out)

	tray := flags.Backend.Tray()
	require.Len(t, tray, 1)
	assert.True(t, tray[0].Options.Silent)
	assert.Equal(t, "greeting", tray[0].Spec.Name)
	assert.Equal(t, 1, flags.Host.Permissions().(interface{ Requests() int }).Requests())
}

func TestSendCmdArguments(t *testing.T) {
	_, _, err := run(t, "", "send", "only title")
	assert.ErrorContains(t, err, "expected <title> <message>")

	_, _, err = run(t, "", "send", "--importance", "loud", "T", "M")
	assert.ErrorContains(t, err, "unknown importance")
}

func TestSendCmdPermissionDenied(t *testing.T) {
	_, flags, err := run(t, "", "--deny-permission", "send", "T", "M")
	assert.ErrorIs(t, err, errPermissionDenied)
	assert.Empty(t, flags.Backend.Tray())
}

func TestSendCmdOldDeviceNeedsNoPermission(t *testing.T) {
	_, flags, err := run(t, "", "--deny-permission", "--api-level", "30", "send", "T", "M")
	require.NoError(t, err)
	assert.Len(t, flags.Backend.Tray(), 1)
}

func TestProgressCmd(t *testing.T) {
	out, flags, err := run(t, "", "progress", "--steps", "2", "--delay", "0s")
	require.NoError(t, err)
	assert.Contains(t, out, "[progress] Download in progress: Starting download... (progress: 0/100)")
	assert.Contains(t, out, "50% complete (progress: 50/100)")
	assert.Contains(t, out, "100% complete (progress: 100/100)")
	assert.Contains(t, out, "Download in progress: Download complete\n")
	assert.Equal(t, 2, flags.Backend.Count("updateProgressBar"))
	assert.Equal(t, 1, flags.Backend.Count("removeProgressBar"))
}

func TestProgressCmdInfinite(t *testing.T) {
	out, _, err := run(t, "", "progress", "--infinite", "--delay", "0s")
	require.NoError(t, err)
	assert.Contains(t, out, "Processing: Please wait... (progress: indeterminate)")
}

func TestProgressCmdCancel(t *testing.T) {
	out, flags, err := run(t, "", "progress", "--steps", "4", "--delay", "0s", "--cancel")
	require.NoError(t, err)
	assert.Contains(t, out, "tray: empty")
	assert.Equal(t, 2, flags.Backend.Count("updateProgressBar"))
	assert.Equal(t, 1, flags.Backend.Count("cancel"))
}

func TestStyleCmds(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"inbox", []string{"inbox", "John: hi", "Sarah: hello"}, "#1 [inbox] 3 new messages: From: John, Sarah, Mike\n"},
		{"bigtext", []string{"bigtext", "-t", "News", "A long body"}, "#1 [big_text] News: Tap to expand\n"},
		{"large icon", []string{"images", "--icon", "avatar.png"},
			"icon avatar.png: unreadable, default artwork\n#1 [large_icon] Photo shared: Alice shared a photo\n"},
		{"both images", []string{"images", "--icon", "a.png", "--picture", "b.png"},
			"icon a.png: unreadable, default artwork\npicture b.png: unreadable, default artwork\n#1 [both_images] Photo shared: Alice shared a photo\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestImagesCmdProbesLocalFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	require.NoError(t, f.Close())

	out, _, err := run(t, "", "images", "--picture", path)
	require.NoError(t, err)
	assert.Contains(t, out, "picture "+path+": png 4x3, ")
	assert.Contains(t, out, "[big_picture] Photo shared")
}

func TestStyleCmdsRequireContent(t *testing.T) {
	_, _, err := run(t, "", "inbox")
	assert.ErrorContains(t, err, "at least one line")

	_, _, err = run(t, "", "images")
	assert.ErrorContains(t, err, "--icon or --picture")
}

func TestButtonsCmd(t *testing.T) {
	out, _, err := run(t, "", "buttons", "--tap", "1", "Accept", "Decline")
	require.NoError(t, err)
	assert.Equal(t, "#1 [simple] Meeting reminder: Team standup in 5 minutes buttons: Accept, Decline\npressed: Decline\n", out)
}

func TestButtonsCmdTooMany(t *testing.T) {
	_, flags, err := run(t, "", "buttons", "a", "b", "c", "d")
	assert.ErrorContains(t, err, "at most 3 buttons")
	assert.Zero(t, flags.Backend.Count("create"))
}

func TestChannelCmd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(`
channels:
  - id: alerts
    name: Alerts
    importance: high
`), 0o644))

	out, _, err := run(t, dir, "channel", "list")
	require.NoError(t, err)
	assert.Equal(t, "alerts \"Alerts\" importance=high\n", out)

	out, _, err = run(t, dir, "channel", "create", "--importance", "low", "downloads")
	require.NoError(t, err)
	assert.Equal(t, "alerts \"Alerts\" importance=high\ndownloads \"downloads\" importance=low\n", out)

	out, _, err = run(t, dir, "channel", "delete", "alerts")
	require.NoError(t, err)
	assert.Equal(t, "channels: none\n", out)

	out, _, err = run(t, dir, "channel", "delete-all")
	require.NoError(t, err)
	assert.Equal(t, "channels: none\n", out)
}

func TestPermissionCmd(t *testing.T) {
	out, _, err := run(t, "", "permission", "check")
	require.NoError(t, err)
	assert.Equal(t, "granted: false (denied)\n", out)

	out, _, err = run(t, "", "permission", "request")
	require.NoError(t, err)
	assert.Equal(t, "granted: true (granted)\n", out)

	out, _, err = run(t, "", "--deny-permission", "permission", "request")
	require.NoError(t, err)
	assert.Equal(t, "granted: false (denied)\n", out)

	out, _, err = run(t, "", "--api-level", "32", "permission", "check")
	require.NoError(t, err)
	assert.Equal(t, "granted: true (granted)\n", out)
}

func TestCancelAllCmd(t *testing.T) {
	out, flags, err := run(t, "", "cancel-all")
	require.NoError(t, err)
	assert.Equal(t, "#1 [simple] First: will be cancelled\n#2 [simple] Second: will be cancelled\ntray: empty\n", out)
	assert.Equal(t, 1, flags.Backend.Count("cancelAll"))
}

func TestOpenedCmd(t *testing.T) {
	out, _, err := run(t, "", "opened")
	require.NoError(t, err)
	assert.Equal(t, "opened: not launched from a notification\n", out)

	out, _, err = run(t, "", "opened", "--launched-by", "promo")
	require.NoError(t, err)
	assert.Equal(t, "opened: promo\n", out)
}

func TestConfigDefaultsApply(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(`
defaults:
  channel_id: updates
  channel_name: Updates
  importance: low
`), 0o644))

	_, flags, err := run(t, dir, "send", "T", "M")
	require.NoError(t, err)
	tray := flags.Backend.Tray()
	require.Len(t, tray, 1)
	assert.Equal(t, "updates", tray[0].Spec.ChannelID)
	assert.Equal(t, "Updates", tray[0].Spec.ChannelName)
}

func TestErrorHandlerFollowsLogLevel(t *testing.T) {
	_, _, err := run(t, "", "--log-level", "debug", "permission", "check")
	require.NoError(t, err)
	h, ok := errors.Handler().(*errors.LogHandler)
	require.True(t, ok)
	assert.True(t, h.Verbose, "debug logging includes stack traces")

	_, _, err = run(t, "", "--log-level", "warn", "permission", "check")
	require.NoError(t, err)
	h, ok = errors.Handler().(*errors.LogHandler)
	require.True(t, ok)
	assert.False(t, h.Verbose)
}
