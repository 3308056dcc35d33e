// Package session provides remote shell sessions to network devices.
//
// A Session is a strictly sequential request/response channel: one command
// outstanding at a time, each command blocking until the device prompt
// returns. Device types map to session implementations through an explicit
// Registry constructed by the caller, never through package-global state.
package session

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Session is an established remote shell on a network device.
type Session interface {
	// Disconnect closes the underlying transport. The session is unusable
	// afterwards.
	Disconnect() error

	// FindPrompt returns the device prompt with its terminator stripped,
	// or "" when the session is no longer usable. Doubles as the liveness
	// check.
	FindPrompt() string

	// Enable enters privileged exec mode. When checkState is true and the
	// session is already privileged, Enable is a no-op.
	Enable(checkState bool) error

	// SendConfigSet enters configuration mode, applies the given lines in
	// order, exits, and returns the combined output.
	SendConfigSet(cmds []string) (string, error)

	// SendMultiline runs each command in exec mode and returns the
	// combined output.
	SendMultiline(cmds []string) (string, error)
}

// Options carries everything a Factory needs to establish a session.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	// Secret is the enable password. Empty falls back to Password.
	Secret string

	ConnectTimeout time.Duration
	CommandTimeout time.Duration
}

func (o Options) applyDefaults() Options {
	if o.Port == 0 {
		o.Port = 22
	}
	if o.Secret == "" {
		o.Secret = o.Password
	}
	if o.ConnectTimeout == 0 {
		o.ConnectTimeout = 10 * time.Second
	}
	if o.CommandTimeout == 0 {
		o.CommandTimeout = 30 * time.Second
	}
	return o
}

// Factory establishes a session of one device type.
type Factory func(ctx context.Context, opts Options) (Session, error)

// Registry maps device-type identifiers to session factories. It is an
// explicit object handed to whatever creates sessions, so tests can swap in
// scripted sessions and callers can add vendor support without touching this
// package.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with the built-in device types
// registered. Currently that is "cisco_ios".
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(DeviceTypeCiscoIOS, DialCiscoIOS)
	return r
}

// DeviceTypeCiscoIOS identifies the Cisco IOS / IOS-XE session type.
const DeviceTypeCiscoIOS = "cisco_ios"

// Register adds a factory for a device type. Registering the same type twice
// replaces the earlier factory.
func (r *Registry) Register(deviceType string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[deviceType] = f
}

// Lookup returns the factory for a device type. Unknown types fail with an
// error naming the supported types.
func (r *Registry) Lookup(deviceType string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factories[deviceType]
	if !ok {
		return nil, fmt.Errorf("unsupported device type %q, supported: %s",
			deviceType, strings.Join(r.deviceTypesLocked(), ", "))
	}
	return f, nil
}

// DeviceTypes lists the registered device types, sorted.
func (r *Registry) DeviceTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.deviceTypesLocked()
}

func (r *Registry) deviceTypesLocked() []string {
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
