package domain

import (
	"encoding/json"
	"net/netip"
)

// Addr is an optional IPv4 address. The zero value means the address is
// absent, which JSON-encodes as null. Addr is comparable, so records keyed
// on it deduplicate correctly even when the address is missing on both sides.
type Addr struct {
	netip.Addr
}

// ParseAddr parses s into an Addr. Malformed or empty input yields the zero
// (absent) Addr rather than an error; CLI output frequently omits addresses
// and a missing address is not a failure.
func ParseAddr(s string) Addr {
	if s == "" {
		return Addr{}
	}
	a, err := netip.ParseAddr(s)
	if err != nil {
		return Addr{}
	}
	return Addr{a}
}

// MustAddr parses s and panics on failure. Test helper.
func MustAddr(s string) Addr {
	return Addr{netip.MustParseAddr(s)}
}

// MarshalJSON encodes the address as a string, or null when absent.
func (a Addr) MarshalJSON() ([]byte, error) {
	if !a.IsValid() {
		return []byte("null"), nil
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a string or null. Malformed strings yield the zero
// Addr, matching ParseAddr.
func (a *Addr) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Addr{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = ParseAddr(s)
	return nil
}
