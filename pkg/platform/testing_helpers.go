package platform

// Cleaner is the part of testing.TB used by SetupTestBridge.
type Cleaner interface {
	Cleanup(func())
}

type noopBridge struct{}

func (noopBridge) InvokeMethod(string, string, []byte) ([]byte, error) { return nil, nil }
func (noopBridge) StartEventStream(string) error                       { return nil }
func (noopBridge) StopEventStream(string) error                        { return nil }

// SetupTestBridge installs bridge (a no-op bridge when nil) and a
// synchronous dispatcher, and resets platform state when the test ends.
//
//	platform.SetupTestBridge(t, fake)
func SetupTestBridge(t Cleaner, bridge NativeBridge) {
	if bridge == nil {
		bridge = noopBridge{}
	}
	SetNativeBridge(bridge)
	RegisterDispatch(func(cb func()) { cb() })
	t.Cleanup(ResetForTest)
}
