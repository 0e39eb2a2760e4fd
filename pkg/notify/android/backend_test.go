package android

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/go-drift/notify/pkg/errors"
	"github.com/go-drift/notify/pkg/notify"
	"github.com/go-drift/notify/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

type nativeCall struct {
	channel string
	method  string
	args    map[string]any
}

// nativeBridge records every method call and answers from canned responses
// keyed by "channel/method".
type nativeBridge struct {
	mu        sync.Mutex
	calls     []nativeCall
	responses map[string]any
	errs      map[string]error
	started   []string
}

func newNativeBridge() *nativeBridge {
	return &nativeBridge{
		responses: map[string]any{MethodChannelName + "/isAvailable": true},
		errs:      map[string]error{},
	}
}

func (b *nativeBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	decoded, err := platform.DefaultCodec.Decode(args)
	if err != nil {
		return nil, err
	}
	m, _ := decoded.(map[string]any)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, nativeCall{channel: channel, method: method, args: m})
	key := channel + "/" + method
	if err := b.errs[key]; err != nil {
		return nil, err
	}
	return platform.DefaultCodec.Encode(b.responses[key])
}

func (b *nativeBridge) StartEventStream(channel string) error {
	b.mu.Lock()
	b.started = append(b.started, channel)
	b.mu.Unlock()
	return nil
}

func (b *nativeBridge) StopEventStream(string) error { return nil }

func (b *nativeBridge) callsTo(method string) []nativeCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []nativeCall
	for _, c := range b.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

func setup(t *testing.T) (*Backend, *nativeBridge) {
	t.Helper()
	bridge := newNativeBridge()
	platform.SetupTestBridge(t, bridge)

	b := New()
	var n int
	b.newID = func() string {
		n++
		return fmt.Sprintf("h%d", n)
	}
	t.Cleanup(b.Close)
	return b, bridge
}

func tap(t *testing.T, handle string, index int) {
	t.Helper()
	data, err := platform.DefaultCodec.Encode(map[string]any{"handle": handle, "index": index})
	require.NoError(t, err)
	require.NoError(t, platform.HandleEvent(ActionsChannelName, data))
}

func TestIsAvailable(t *testing.T) {
	t.Cleanup(platform.ResetForTest)
	b := New()
	assert.False(t, b.IsAvailable(), "no bridge")

	_, bridge := setup(t)
	assert.True(t, b.IsAvailable())

	bridge.responses[MethodChannelName+"/isAvailable"] = false
	assert.False(t, b.IsAvailable())

	bridge.errs[MethodChannelName+"/isAvailable"] = platform.NewChannelError("missing", "plugin not loaded")
	assert.False(t, b.IsAvailable())
}

func TestCreateNotificationArgs(t *testing.T) {
	b, bridge := setup(t)

	h, err := b.CreateNotification(context.Background(), notify.Spec{
		Title:           "Download",
		Message:         "Starting",
		ChannelID:       "default",
		ChannelName:     "Default",
		Importance:      notify.ImportanceHigh,
		Style:           notify.StyleProgress,
		Name:            "dl",
		ProgressCurrent: 0,
		ProgressMax:     100,
	})
	require.NoError(t, err)
	assert.Equal(t, "h1", h.(*Handle).ID())

	calls := bridge.callsTo("create")
	require.Len(t, calls, 1)
	args := calls[0].args
	assert.Equal(t, MethodChannelName, calls[0].channel)
	assert.Equal(t, "h1", args["handle"])
	assert.Equal(t, "progress", args["style"])
	assert.Equal(t, "high", args["importance"])
	assert.Equal(t, "dl", args["name"])
	assert.Equal(t, float64(100), args["progressMax"])
	assert.NotContains(t, args, "lines")
	assert.NotContains(t, args, "icon")
}

func TestCreateNotificationBothImages(t *testing.T) {
	dir := t.TempDir()
	iconPath := filepath.Join(dir, "icon.png")
	writePNG(t, iconPath, 48, 32)

	b, bridge := setup(t)
	_, err := b.CreateNotification(context.Background(), notify.Spec{
		Title:          "T",
		Message:        "M",
		Style:          notify.StyleBothImages,
		LargeIconPath:  iconPath,
		BigPicturePath: filepath.Join(dir, "missing.jpg"),
	})
	require.NoError(t, err)

	args := bridge.callsTo("create")[0].args
	assert.Equal(t, "both_imgs", args["style"])
	assert.Equal(t, iconPath, args["largeIcon"])
	assert.Equal(t, map[string]any{"format": "png", "width": float64(48), "height": float64(32)}, args["largeIconInfo"])
	assert.Contains(t, args, "bigPicture")
	assert.NotContains(t, args, "bigPictureInfo", "unreadable images are forwarded without info")
}

func TestHandleMethods(t *testing.T) {
	b, bridge := setup(t)
	ctx := context.Background()

	h, err := b.CreateNotification(ctx, notify.Spec{Title: "T", Message: "M", Style: notify.StyleProgress, ProgressMax: 10})
	require.NoError(t, err)

	require.NoError(t, h.Send(ctx, notify.SendOptions{Silent: true, Persistent: true}))
	require.NoError(t, h.UpdateTitle(ctx, "T2"))
	require.NoError(t, h.UpdateMessage(ctx, "M2"))
	require.NoError(t, h.UpdateProgressBar(ctx, notify.ProgressUpdate{Current: 5, Message: "half"}))
	require.NoError(t, h.ShowInfiniteProgressBar(ctx))
	require.NoError(t, h.RemoveProgressBar(ctx, "done", false))
	require.NoError(t, h.Refresh(ctx))
	require.NoError(t, h.Cancel(ctx))

	tests := []struct {
		method string
		want   map[string]any
	}{
		{"send", map[string]any{"handle": "h1", "silent": true, "ongoing": true, "closeOnClick": true}},
		{"updateTitle", map[string]any{"handle": "h1", "title": "T2"}},
		{"updateMessage", map[string]any{"handle": "h1", "message": "M2"}},
		{"updateProgressBar", map[string]any{"handle": "h1", "current": float64(5), "message": "half"}},
		{"showInfiniteProgressBar", map[string]any{"handle": "h1"}},
		{"removeProgressBar", map[string]any{"handle": "h1", "message": "done", "showBriefly": false}},
		{"refresh", map[string]any{"handle": "h1"}},
		{"cancel", map[string]any{"handle": "h1"}},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			calls := bridge.callsTo(tt.method)
			require.Len(t, calls, 1)
			assert.Equal(t, tt.want, calls[0].args)
		})
	}

	b.mu.Lock()
	assert.Empty(t, b.handles, "cancelled handles are forgotten")
	b.mu.Unlock()
}

func TestButtonTapDispatchesAction(t *testing.T) {
	b, bridge := setup(t)
	ctx := context.Background()

	var dispatched int
	platform.RegisterDispatch(func(cb func()) {
		dispatched++
		cb()
	})

	h, err := b.CreateNotification(ctx, notify.Spec{Title: "T", Message: "M"})
	require.NoError(t, err)

	var got []string
	require.NoError(t, h.AddButton(ctx, "Reply", func() { got = append(got, "reply") }))
	require.NoError(t, h.AddButton(ctx, "Archive", func() { got = append(got, "archive") }))

	calls := bridge.callsTo("addButton")
	require.Len(t, calls, 2)
	assert.Equal(t, map[string]any{"handle": "h1", "index": float64(1), "label": "Archive"}, calls[1].args)
	assert.Equal(t, []string{ActionsChannelName}, bridge.started)
	assert.Empty(t, got)

	tap(t, "h1", 1)
	tap(t, "h1", 0)
	tap(t, "h1", 7)
	tap(t, "unknown", 0)
	assert.Equal(t, []string{"archive", "reply"}, got)
	assert.Equal(t, 2, dispatched)
}

func TestFailedSendDiscardsHandle(t *testing.T) {
	b, bridge := setup(t)
	bridge.responses["drift/device/getInfo"] = map[string]any{"platform": "android", "apiLevel": 34}
	bridge.errs[MethodChannelName+"/send"] = platform.NewChannelError("boom", "post failed")

	reg := notify.NewRegistry(b)
	mgr, err := reg.Manager(context.Background(), NewHost("main"))
	require.NoError(t, err)

	var pressed int
	_, err = mgr.Create("T", "M").AddButton("a", func() { pressed++ }).Send(context.Background(), notify.SendOptions{})
	assert.ErrorIs(t, err, errors.ErrSendFailed)

	cancels := bridge.callsTo("cancel")
	require.Len(t, cancels, 1)
	assert.Equal(t, map[string]any{"handle": "h1"}, cancels[0].args)
	b.mu.Lock()
	assert.Empty(t, b.handles)
	b.mu.Unlock()

	tap(t, "h1", 0)
	assert.Zero(t, pressed, "actions of an unposted notification never run")
}

func TestAddButtonHonorsContext(t *testing.T) {
	b, bridge := setup(t)
	h, err := b.CreateNotification(context.Background(), notify.Spec{Title: "T", Message: "M"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = h.AddButton(ctx, "Late", func() {})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, bridge.callsTo("addButton"))
	assert.Nil(t, h.(*Handle).action(0))
}

func TestWithAssetsProbesBundledImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "icon.png"), 16, 8)
	raw, err := os.ReadFile(filepath.Join(dir, "icon.png"))
	require.NoError(t, err)

	_, bridge := setup(t)
	b := New(WithAssets(fstest.MapFS{"images/icon.png": {Data: raw}}))
	t.Cleanup(b.Close)

	_, err = b.CreateNotification(context.Background(), notify.Spec{
		Title:          "T",
		Message:        "M",
		Style:          notify.StyleBothImages,
		LargeIconPath:  "/images/icon.png",
		BigPicturePath: filepath.Join(dir, "icon.png"),
	})
	require.NoError(t, err)

	args := bridge.callsTo("create")[0].args
	assert.Equal(t, "/images/icon.png", args["largeIcon"])
	assert.Equal(t, map[string]any{"format": "png", "width": float64(16), "height": float64(8)}, args["largeIconInfo"])
	assert.NotContains(t, args, "bigPictureInfo", "paths outside the asset FS are not probed")
}

type panicRecorder struct {
	mu     sync.Mutex
	panics []*errors.PanicError
	errs   []*errors.Error
}

func (r *panicRecorder) HandleError(err *errors.Error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

func (r *panicRecorder) HandlePanic(err *errors.PanicError) {
	r.mu.Lock()
	r.panics = append(r.panics, err)
	r.mu.Unlock()
}

func TestButtonTapPanicAndBadEvents(t *testing.T) {
	rec := &panicRecorder{}
	errors.SetHandler(rec)
	t.Cleanup(func() { errors.SetHandler(nil) })

	b, _ := setup(t)
	h, err := b.CreateNotification(context.Background(), notify.Spec{Title: "T", Message: "M"})
	require.NoError(t, err)
	require.NoError(t, h.AddButton(context.Background(), "Boom", func() { panic("boom") }))

	tap(t, "h1", 0)
	require.Len(t, rec.panics, 1)
	assert.Equal(t, "android.buttonTap", rec.panics[0].Op)
	assert.Equal(t, "boom", rec.panics[0].Value)

	data, err := platform.DefaultCodec.Encode(map[string]any{"index": 0})
	require.NoError(t, err)
	require.NoError(t, platform.HandleEvent(ActionsChannelName, data))
	require.Len(t, rec.errs, 1)
	assert.Equal(t, errors.KindParsing, rec.errs[0].Kind)
}

func TestBackendChannelOps(t *testing.T) {
	b, bridge := setup(t)
	ctx := context.Background()

	require.NoError(t, b.CreateChannel(ctx, notify.Channel{ID: "news", Name: "News", Description: "Daily", Importance: notify.ImportanceLow}))
	require.NoError(t, b.DeleteChannel(ctx, "news"))
	require.NoError(t, b.DeleteAllChannels(ctx))
	require.NoError(t, b.CancelAll(ctx))

	assert.Equal(t, map[string]any{"id": "news", "name": "News", "description": "Daily", "importance": "low"},
		bridge.callsTo("createChannel")[0].args)
	assert.Equal(t, map[string]any{"id": "news"}, bridge.callsTo("deleteChannel")[0].args)
	assert.Len(t, bridge.callsTo("deleteAllChannels"), 1)
	assert.Len(t, bridge.callsTo("cancelAll"), 1)

	bridge.errs[MethodChannelName+"/createChannel"] = platform.NewChannelError("bad", "rejected")
	err := b.CreateChannel(ctx, notify.Channel{ID: "x"})
	var chErr *platform.ChannelError
	assert.ErrorAs(t, err, &chErr)
}

func TestBackendUnavailableWithoutBridge(t *testing.T) {
	t.Cleanup(platform.ResetForTest)
	platform.ResetForTest()
	b := New()

	_, err := b.CreateNotification(context.Background(), notify.Spec{Title: "T", Message: "M"})
	assert.ErrorIs(t, err, errors.ErrBackendUnavailable)
	assert.ErrorIs(t, err, platform.ErrPlatformUnavailable)
}

func TestInvokeHonorsCanceledContext(t *testing.T) {
	b, bridge := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.CancelAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, bridge.callsTo("cancelAll"))
}

func TestLaunchingNotificationID(t *testing.T) {
	b, bridge := setup(t)
	ctx := context.Background()

	id, err := b.LaunchingNotificationID(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	bridge.responses[MethodChannelName+"/getLaunchingName"] = "daily"
	id, err = b.LaunchingNotificationID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "daily", id)

	bridge.responses[MethodChannelName+"/getLaunchingName"] = map[string]any{"name": "weekly"}
	id, err = b.LaunchingNotificationID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "weekly", id)

	bridge.responses[MethodChannelName+"/getLaunchingName"] = 42
	_, err = b.LaunchingNotificationID(ctx)
	assert.Error(t, err)
}

func TestProbeImage(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "a.png")
	writePNG(t, pngPath, 4, 3)

	info, err := ProbeImage(nil, pngPath)
	require.NoError(t, err)
	assert.Equal(t, ImageInfo{Format: "png", Width: 4, Height: 3}, info)

	bmpPath := filepath.Join(dir, "a.bmp")
	f, err := os.Create(bmpPath)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, image.NewRGBA(image.Rect(0, 0, 7, 5))))
	require.NoError(t, f.Close())

	info, err = ProbeImage(nil, bmpPath)
	require.NoError(t, err)
	assert.Equal(t, ImageInfo{Format: "bmp", Width: 7, Height: 5}, info)

	raw, err := os.ReadFile(pngPath)
	require.NoError(t, err)
	fsys := fstest.MapFS{"assets/icon.png": {Data: raw}}
	info, err = ProbeImage(fsys, "/assets/icon.png")
	require.NoError(t, err)
	assert.Equal(t, 4, info.Width)

	_, err = ProbeImage(fsys, "assets/missing.png")
	assert.Error(t, err)

	fsys["assets/junk.png"] = &fstest.MapFile{Data: []byte("not an image")}
	_, err = ProbeImage(fsys, "assets/junk.png")
	assert.Error(t, err)
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
	require.NoError(t, f.Close())
}
