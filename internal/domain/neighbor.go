package domain

// Neighbor is the protocol-agnostic view of a discovered device: the name it
// advertises plus its management address, if it advertised one. Neighbor is
// comparable; two values with the same (Hostname, IP) pair are the same
// neighbor regardless of which protocol reported them.
type Neighbor struct {
	Hostname string `json:"hostname"`
	IP       Addr   `json:"ip"`
}

// CDPEntry is one neighbor record from `show cdp neighbors detail`.
// Only DeviceID, Interface and OutgoingPort are reliably present; the rest
// depend on what the neighbor advertises.
type CDPEntry struct {
	DeviceID     string `json:"device_id"`
	EntryIP      Addr   `json:"entry_ip"`
	Platform     string `json:"platform"`
	Interface    string `json:"interface"`
	OutgoingPort string `json:"outgoing_port"`
	Duplex       string `json:"duplex"`
	ManagementIP Addr   `json:"management_ip"`
}

// Neighbor maps the entry to its external view.
func (e CDPEntry) Neighbor() Neighbor {
	return Neighbor{Hostname: e.DeviceID, IP: e.ManagementIP}
}

// LLDPEntry is one neighbor record from `show lldp neighbors detail`.
// ChassisID is the MAC the neighbor identifies itself with and PortID is the
// far-side interface. Interface (the local side) is not reported by the
// detail command on this platform; it is backfilled from the brief listing.
type LLDPEntry struct {
	ChassisID    string `json:"chassis_id"`
	PortID       string `json:"port_id"`
	Interface    string `json:"interface"`
	SystemName   string `json:"system_name"`
	ManagementIP Addr   `json:"management_ip"`
}

// Neighbor maps the entry to its external view.
func (e LLDPEntry) Neighbor() Neighbor {
	return Neighbor{Hostname: e.SystemName, IP: e.ManagementIP}
}

// SameNeighbor reports whether a CDP record and an LLDP record describe the
// same physical neighbor: matching advertised name and matching management
// address (two absent addresses match).
func SameNeighbor(c CDPEntry, l LLDPEntry) bool {
	return c.DeviceID == l.SystemName && c.ManagementIP == l.ManagementIP
}

// Reconcile merges the CDP-derived and LLDP-derived neighbor views into one
// deduplicated list. A neighbor reported by both protocols collapses to a
// single entry via Neighbor value equality. Output order is unspecified.
func Reconcile(cdp []CDPEntry, lldp []LLDPEntry) []Neighbor {
	seen := make(map[Neighbor]struct{}, len(cdp)+len(lldp))
	neighbors := make([]Neighbor, 0, len(cdp)+len(lldp))

	add := func(n Neighbor) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		neighbors = append(neighbors, n)
	}

	for _, e := range cdp {
		add(e.Neighbor())
	}
	for _, e := range lldp {
		add(e.Neighbor())
	}

	return neighbors
}
