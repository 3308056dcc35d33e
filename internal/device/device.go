// Package device turns raw switch CLI conversations into structured neighbor
// data. CiscoSwitch is the working implementation; ExtremeSwitch is a
// placeholder for a vendor whose discovery support does not exist yet.
package device

import (
	"context"
	"fmt"

	"github.com/JunHCha/networkst/internal/domain"
	"github.com/JunHCha/networkst/internal/session"
)

// RemoteConnectable manages the session lifecycle of a device.
type RemoteConnectable interface {
	Connect(ctx context.Context, username, password, secret string) error
	Disconnect() error
}

// NeighborDetectable discovers the device's link-layer neighbors.
type NeighborDetectable interface {
	// GetCDP fetches and parses CDP neighbor detail, replacing the stored
	// CDP entries wholesale.
	GetCDP(ctx context.Context) ([]domain.CDPEntry, error)

	// GetLLDP fetches and parses LLDP neighbor detail, replacing the
	// stored LLDP entries wholesale.
	GetLLDP(ctx context.Context) ([]domain.LLDPEntry, error)

	// Neighbors reconciles the currently stored CDP and LLDP entries into
	// a deduplicated list. It does not re-fetch from the device.
	Neighbors() ([]domain.Neighbor, error)
}

// Switch is a manageable network switch.
type Switch interface {
	RemoteConnectable
	NeighborDetectable

	// IP returns the address the switch is managed at.
	IP() domain.Addr

	// Hostname returns the device hostname derived from its prompt,
	// memoized after the first call.
	Hostname() (string, error)
}

// Vendor selects the switch implementation.
type Vendor string

const (
	VendorCisco   Vendor = "cisco"
	VendorExtreme Vendor = "extreme"
)

// New creates a switch for the given vendor. Sessions are established through
// the provided registry, so callers and tests control the transport.
func New(ip domain.Addr, vendor Vendor, sessions *session.Registry) (Switch, error) {
	switch vendor {
	case VendorCisco:
		return NewCiscoSwitch(ip, sessions), nil
	case VendorExtreme:
		return NewExtremeSwitch(ip), nil
	default:
		return nil, fmt.Errorf("unknown vendor %q", vendor)
	}
}
