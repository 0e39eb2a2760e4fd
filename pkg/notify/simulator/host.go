package simulator

import (
	"context"
	"sync"

	"github.com/go-drift/notify/pkg/notify"
)

// DefaultAPILevel is the API level a simulated host reports unless told
// otherwise.
const DefaultAPILevel = notify.PermissionAPILevel

// Host is a simulated Android surface.
type Host struct {
	id          string
	platform    notify.Platform
	apiLevel    int
	apiLevelErr error
	permissions *Permissions
}

var _ notify.Host = (*Host)(nil)

// HostOption configures a Host.
type HostOption func(*Host)

// OnPlatform makes the host report p instead of android.
func OnPlatform(p notify.Platform) HostOption {
	return func(h *Host) { h.platform = p }
}

// AtAPILevel sets the reported API level.
func AtAPILevel(level int) HostOption {
	return func(h *Host) { h.apiLevel = level }
}

// FailAPILevel makes APILevel return err.
func FailAPILevel(err error) HostOption {
	return func(h *Host) { h.apiLevelErr = err }
}

// WithPermissions replaces the host's permission provider.
func WithPermissions(p *Permissions) HostOption {
	return func(h *Host) { h.permissions = p }
}

// NewHost returns an android host with the given surface id whose
// permission is already granted.
func NewHost(id string, opts ...HostOption) *Host {
	h := &Host{
		id:          id,
		platform:    notify.PlatformAndroid,
		apiLevel:    DefaultAPILevel,
		permissions: NewPermissions(true),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) ID() string { return h.id }

func (h *Host) Platform(context.Context) notify.Platform { return h.platform }

func (h *Host) APILevel(context.Context) (int, error) {
	if h.apiLevelErr != nil {
		return 0, h.apiLevelErr
	}
	return h.apiLevel, nil
}

func (h *Host) Permissions() notify.PermissionProvider {
	if h.permissions == nil {
		return nil
	}
	return h.permissions
}

// Permissions is a simulated permission provider. Request grants the
// permission unless DenyRequests was called.
type Permissions struct {
	mu         sync.Mutex
	granted    bool
	deny       bool
	checkErr   error
	requestErr error
	checks     int
	requests   int
}

var _ notify.PermissionProvider = (*Permissions)(nil)

// NewPermissions returns a provider whose permission starts as granted.
func NewPermissions(granted bool) *Permissions {
	return &Permissions{granted: granted}
}

// DenyRequests makes later requests leave the permission denied.
func (p *Permissions) DenyRequests() {
	p.mu.Lock()
	p.deny = true
	p.mu.Unlock()
}

// FailCheck makes Check return err. A nil err clears it.
func (p *Permissions) FailCheck(err error) {
	p.mu.Lock()
	p.checkErr = err
	p.mu.Unlock()
}

// FailRequest makes Request return err. A nil err clears it.
func (p *Permissions) FailRequest(err error) {
	p.mu.Lock()
	p.requestErr = err
	p.mu.Unlock()
}

// Checks returns how many times Check was called.
func (p *Permissions) Checks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.checks
}

// Requests returns how many times Request was called.
func (p *Permissions) Requests() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests
}

func (p *Permissions) Check(context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checks++
	if p.checkErr != nil {
		return false, p.checkErr
	}
	return p.granted, nil
}

func (p *Permissions) Request(context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests++
	if p.requestErr != nil {
		return false, p.requestErr
	}
	if !p.deny {
		p.granted = true
	}
	return p.granted, nil
}
