package domain

import "time"

// DiscoveryRun captures everything learned from a single visit to one switch:
// the raw protocol entries, the reconciled neighbor list, and timing. Runs are
// immutable once completed; each visit produces a fresh run rather than
// merging into an earlier one.
type DiscoveryRun struct {
	ID        string      `json:"id"`
	DeviceIP  Addr        `json:"device_ip"`
	Hostname  string      `json:"hostname,omitempty"`
	CDP       []CDPEntry  `json:"cdp,omitempty"`
	LLDP      []LLDPEntry `json:"lldp,omitempty"`
	Neighbors []Neighbor  `json:"neighbors,omitempty"`
	StartedAt time.Time   `json:"started_at"`
	EndedAt   time.Time   `json:"ended_at"`
}
