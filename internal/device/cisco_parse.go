package device

import (
	"regexp"
	"strings"

	"github.com/JunHCha/networkst/internal/domain"
)

// Block delimiters as IOS prints them between neighbor records.
const (
	cdpBlockDelimiter  = "-------------------------"
	lldpBlockDelimiter = "---------------------------------------------"
)

// Minimum matched fields for a block to count as a real neighbor record.
// Below the threshold the block is banner text or a partial record and is
// skipped, not an error.
const (
	cdpMinFields  = 3
	lldpMinFields = 4
)

// Field patterns are applied independently over the whole block, so field
// order inside a record does not matter and any field may be missing.
var cdpPatterns = map[string]*regexp.Regexp{
	"device_id":     regexp.MustCompile(`Device ID: (\S+)`),
	"entry_ip":      regexp.MustCompile(`IP address: (\d+\.\d+\.\d+\.\d+)`),
	"platform":      regexp.MustCompile(`Platform: (.*?),`),
	"interface":     regexp.MustCompile(`Interface: (\S+),`),
	"outgoing_port": regexp.MustCompile(`Port ID \(outgoing port\): (\S+)`),
	"duplex":        regexp.MustCompile(`Duplex: (\S+)`),
	"management_ip": regexp.MustCompile(`Management address\(es\): ?\r?\n +IP address: (\d+\.\d+\.\d+\.\d+)`),
}

var lldpPatterns = map[string]*regexp.Regexp{
	"chassis_id":    regexp.MustCompile(`Chassis id: (\S+)`),
	"port_id":       regexp.MustCompile(`Port id: (\S+)`),
	"system_name":   regexp.MustCompile(`System Name: (\S+)`),
	"management_ip": regexp.MustCompile(`IP: (\d+\.\d+\.\d+\.\d+)`),
}

// briefLinePattern pulls (device id, local interface) token pairs out of the
// `show lldp neighbors` summary table.
var briefLinePattern = regexp.MustCompile(`(\S+)\s+(\S+)`)

// parseBlocks splits raw CLI output into per-neighbor blocks on the delimiter
// and extracts named fields from each. Blocks matching fewer than minFields
// patterns are dropped.
func parseBlocks(raw, delimiter string, patterns map[string]*regexp.Regexp, minFields int) []map[string]string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	blocks := strings.Split(strings.TrimSpace(normalized), delimiter+"\n")

	var records []map[string]string
	for _, block := range blocks {
		matched := make(map[string]string)
		for field, pattern := range patterns {
			if m := pattern.FindStringSubmatch(block); m != nil {
				matched[field] = m[1]
			}
		}
		if len(matched) < minFields {
			continue
		}
		records = append(records, matched)
	}
	return records
}

// parseCDPEntries extracts CDP neighbor records from `show cdp neighbors
// detail` output. The management address falls back to the entry address
// when the neighbor advertises no explicit management address.
func parseCDPEntries(raw string) []domain.CDPEntry {
	records := parseBlocks(raw, cdpBlockDelimiter, cdpPatterns, cdpMinFields)

	entries := make([]domain.CDPEntry, 0, len(records))
	for _, rec := range records {
		entry := domain.CDPEntry{
			DeviceID:     rec["device_id"],
			EntryIP:      domain.ParseAddr(rec["entry_ip"]),
			Platform:     rec["platform"],
			Interface:    rec["interface"],
			OutgoingPort: rec["outgoing_port"],
			Duplex:       rec["duplex"],
			ManagementIP: domain.ParseAddr(rec["management_ip"]),
		}
		if !entry.ManagementIP.IsValid() {
			entry.ManagementIP = entry.EntryIP
		}
		entries = append(entries, entry)
	}
	return entries
}

// parseLLDPEntries extracts LLDP neighbor records from `show lldp neighbors
// detail` output. The local interface is not populated here; IOS omits it
// from the detail output, so it comes from enrichLocalInterfaces.
func parseLLDPEntries(raw string) []domain.LLDPEntry {
	records := parseBlocks(raw, lldpBlockDelimiter, lldpPatterns, lldpMinFields)

	entries := make([]domain.LLDPEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, domain.LLDPEntry{
			ChassisID:    rec["chassis_id"],
			PortID:       rec["port_id"],
			SystemName:   rec["system_name"],
			ManagementIP: domain.ParseAddr(rec["management_ip"]),
		})
	}
	return entries
}

// parseBriefInterfaces builds the device-id to local-interface mapping from
// `show lldp neighbors` brief output. Header lines produce keys that never
// match a real system name, so they are harmless.
func parseBriefInterfaces(raw string) map[string]string {
	mapping := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		if m := briefLinePattern.FindStringSubmatch(line); m != nil {
			mapping[m[1]] = m[2]
		}
	}
	return mapping
}

// enrichLocalInterfaces backfills the local interface on LLDP detail entries
// from the brief listing. Entries without a mapping keep whatever interface
// value they already have.
func enrichLocalInterfaces(entries []domain.LLDPEntry, mapping map[string]string) {
	for i := range entries {
		if intf, ok := mapping[entries[i].SystemName]; ok {
			entries[i].Interface = intf
		}
	}
}
