package platform

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// permissionBridge answers "check" with a fixed status and, on "request",
// emits a permission change event with the configured answer.
type permissionBridge struct {
	recordingBridge
	status string
	answer string
}

func (b *permissionBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	if _, err := b.recordingBridge.InvokeMethod(channel, method, args); err != nil {
		return nil, err
	}
	switch method {
	case "check":
		return DefaultCodec.Encode(map[string]any{"status": b.status})
	case "request":
		if b.answer != "" {
			data, _ := DefaultCodec.Encode(map[string]any{"permission": "notifications", "status": b.answer})
			if err := HandleEvent("drift/permissions/changes", data); err != nil {
				return nil, err
			}
		}
		return DefaultCodec.Encode(nil)
	}
	return DefaultCodec.Encode(nil)
}

func TestNotificationPermissionStatus(t *testing.T) {
	bridge := &permissionBridge{status: "denied"}
	SetNativeBridge(bridge)
	t.Cleanup(ResetForTest)

	p := NewNotificationPermission("main")
	status, err := p.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PermissionDenied, status)

	require.Len(t, bridge.calls, 1)
	assert.Equal(t, "drift/permissions", bridge.calls[0].channel)
	assert.Equal(t, map[string]any{"permission": "notifications", "activity": "main"}, bridge.calls[0].args)
}

func TestNotificationPermissionStatusError(t *testing.T) {
	bridge := &permissionBridge{}
	bridge.errs = map[string]error{"check": fmt.Errorf("no activity")}
	SetNativeBridge(bridge)
	t.Cleanup(ResetForTest)

	status, err := NewNotificationPermission("main").Status(context.Background())
	assert.Error(t, err)
	assert.Equal(t, PermissionResultUnknown, status)
}

func TestNotificationPermissionRequest(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		answer  string
		want    PermissionResult
		methods []string
	}{
		{
			name:    "already granted skips dialog",
			status:  "granted",
			want:    PermissionGranted,
			methods: []string{"check"},
		},
		{
			name:    "user grants",
			status:  "not_determined",
			answer:  "granted",
			want:    PermissionGranted,
			methods: []string{"check", "request"},
		},
		{
			name:    "user denies",
			status:  "not_determined",
			answer:  "denied",
			want:    PermissionDenied,
			methods: []string{"check", "request"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := &permissionBridge{status: tt.status, answer: tt.answer}
			SetNativeBridge(bridge)
			t.Cleanup(ResetForTest)

			got, err := NewNotificationPermission("main").Request(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			var methods []string
			for _, c := range bridge.calls {
				methods = append(methods, c.method)
			}
			assert.Equal(t, tt.methods, methods)
		})
	}
}

func TestNotificationPermissionRequestTimeout(t *testing.T) {
	bridge := &permissionBridge{status: "not_determined"}
	SetNativeBridge(bridge)
	t.Cleanup(ResetForTest)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got, err := NewNotificationPermission("main").Request(ctx)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, PermissionResultUnknown, got)
}

func TestNotificationPermissionRequestCanceled(t *testing.T) {
	bridge := &permissionBridge{status: "not_determined"}
	SetNativeBridge(bridge)
	t.Cleanup(ResetForTest)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewNotificationPermission("main").Request(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, bridge.calls)
}

func TestDeviceInfo(t *testing.T) {
	tests := []struct {
		name     string
		response any
		want     DeviceInfo
		wantErr  bool
	}{
		{
			name:     "android 14",
			response: map[string]any{"platform": "android", "apiLevel": 34, "model": "Pixel 8"},
			want:     DeviceInfo{Platform: "android", APILevel: 34, Model: "Pixel 8"},
		},
		{
			name:     "missing api level",
			response: map[string]any{"platform": "ios"},
			want:     DeviceInfo{Platform: "ios"},
		},
		{
			name:     "nil response",
			response: nil,
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := &recordingBridge{responses: map[string]any{"getInfo": tt.response}}
			SetNativeBridge(bridge)
			t.Cleanup(ResetForTest)

			got, err := Device.Info(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
