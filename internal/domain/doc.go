// Package domain defines the core types for the networkst topology discovery system.
//
// # Discovery Records
//
// CDPEntry and LLDPEntry are the typed forms of a single neighbor record as
// parsed from `show cdp neighbors detail` and `show lldp neighbors detail`
// output. The two protocols describe the same physical neighbor with
// different vocabularies, so cross-protocol identity is decided by
// SameNeighbor rather than plain struct equality.
//
// # Neighbors
//
// Neighbor is the protocol-agnostic external view: a hostname plus an
// optional management address. Neighbor is a comparable value and two
// Neighbor values with the same (hostname, ip) pair are the same neighbor,
// which is what Reconcile relies on for deduplication.
//
// # Design Principles
//
// - Value types, comparable where deduplication needs it
// - No session, parsing, or storage concerns
// - Optional IPv4 addresses use Addr, whose zero value means "absent"
package domain
