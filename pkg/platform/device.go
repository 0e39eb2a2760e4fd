package platform

import (
	"context"
	"fmt"
)

// DeviceInfo describes the operating system the app runs on.
type DeviceInfo struct {
	// Platform is the OS family reported by native code ("android", "ios").
	Platform string
	// APILevel is the OS API level (Android SDK_INT). Zero when unknown.
	APILevel int
	// Model is the device model name, if reported.
	Model string
}

// Device provides access to device and OS information.
var Device = &DeviceService{
	channel: NewMethodChannel("drift/device"),
}

// DeviceService queries device information from native code.
type DeviceService struct {
	channel *MethodChannel
}

// Info returns the device information reported by native code.
func (d *DeviceService) Info(ctx context.Context) (DeviceInfo, error) {
	result, err := d.channel.Invoke(ctx, "getInfo", nil)
	if err != nil {
		return DeviceInfo{}, err
	}
	m, ok := result.(map[string]any)
	if !ok {
		return DeviceInfo{}, fmt.Errorf("device: unexpected response from getInfo: %v", result)
	}
	info := DeviceInfo{
		Platform: parseString(m["platform"]),
		Model:    parseString(m["model"]),
	}
	if level, ok := ToInt(m["apiLevel"]); ok {
		info.APILevel = level
	}
	return info, nil
}
