package device

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/JunHCha/networkst/internal/domain"
	"github.com/JunHCha/networkst/internal/session"
)

// Commands issued on the device. The show commands feed the parsers in
// cisco_parse.go; the run/no-run pairs toggle the discovery protocols.
const (
	cmdShowCDPDetail     = "show cdp neighbors detail"
	cmdShowLLDPDetail    = "show lldp neighbors detail"
	cmdShowLLDPBrief     = "show lldp neighbors"
	cmdShowRunningConfig = "show running-config"

	cdpDisabledIndicator = "CDP is not enabled"
)

// CiscoSwitch drives neighbor discovery on a Cisco IOS switch over a single
// sequential shell session. One instance owns one session; instances for
// different devices are independent and may run concurrently.
type CiscoSwitch struct {
	ip       domain.Addr
	sessions *session.Registry

	conn     session.Session
	hostname string
	cdp      []domain.CDPEntry
	lldp     []domain.LLDPEntry
}

// NewCiscoSwitch creates an unconnected switch handle.
func NewCiscoSwitch(ip domain.Addr, sessions *session.Registry) *CiscoSwitch {
	return &CiscoSwitch{ip: ip, sessions: sessions}
}

// IP returns the management address of the switch itself.
func (s *CiscoSwitch) IP() domain.Addr { return s.ip }

// CDP returns the entries stored by the last GetCDP call.
func (s *CiscoSwitch) CDP() []domain.CDPEntry { return s.cdp }

// LLDP returns the entries stored by the last GetLLDP call.
func (s *CiscoSwitch) LLDP() []domain.LLDPEntry { return s.lldp }

// Connect establishes the device session. Any underlying failure surfaces as
// ErrConnectionFailed; the transport error itself is deliberately not
// distinguished.
func (s *CiscoSwitch) Connect(ctx context.Context, username, password, secret string) error {
	dial, err := s.sessions.Lookup(session.DeviceTypeCiscoIOS)
	if err != nil {
		return fmt.Errorf("%s: %w", s.ip, ErrConnectionFailed)
	}

	conn, err := dial(ctx, session.Options{
		Host:     s.ip.String(),
		Port:     22,
		Username: username,
		Password: password,
		Secret:   secret,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", s.ip, ErrConnectionFailed)
	}

	s.conn = conn
	return nil
}

// Disconnect releases the session. A fresh Connect is required before any
// further operation.
func (s *CiscoSwitch) Disconnect() error {
	if s.conn == nil {
		return ErrNotConnected
	}
	err := s.conn.Disconnect()
	s.conn = nil
	return err
}

// Hostname derives the device hostname from the detected prompt, capped at
// the 16 characters IOS keeps stable, and memoizes it.
func (s *CiscoSwitch) Hostname() (string, error) {
	if s.hostname != "" {
		return s.hostname, nil
	}
	if err := s.checkConnection(); err != nil {
		return "", err
	}
	prompt := s.conn.FindPrompt()
	if len(prompt) > 16 {
		prompt = prompt[:16]
	}
	s.hostname = prompt
	return s.hostname, nil
}

// GetCDP fetches CDP neighbor detail, parses it, and replaces the stored CDP
// entries. A device-reported disabled protocol fails with ErrCDPNotEnabled
// and leaves the stored entries untouched. Zero parsed entries is not an
// error.
func (s *CiscoSwitch) GetCDP(ctx context.Context) ([]domain.CDPEntry, error) {
	if err := s.checkConnection(); err != nil {
		return nil, err
	}

	raw, err := s.conn.SendMultiline([]string{cmdShowCDPDetail})
	if err != nil {
		return nil, fmt.Errorf("fetch cdp neighbors: %w", err)
	}
	if strings.Contains(raw, cdpDisabledIndicator) {
		return nil, ErrCDPNotEnabled
	}

	entries := parseCDPEntries(raw)
	if len(entries) == 0 {
		log.Printf("No CDP results on %s (%s)", s.hostname, s.ip)
	}

	s.cdp = entries
	return entries, nil
}

// GetLLDP fetches LLDP neighbor detail, parses it, backfills the local
// interface from the brief listing, and replaces the stored LLDP entries.
// Zero parsed entries is not an error.
func (s *CiscoSwitch) GetLLDP(ctx context.Context) ([]domain.LLDPEntry, error) {
	if err := s.checkConnection(); err != nil {
		return nil, err
	}

	raw, err := s.conn.SendMultiline([]string{cmdShowLLDPDetail})
	if err != nil {
		return nil, fmt.Errorf("fetch lldp neighbors: %w", err)
	}
	entries := parseLLDPEntries(raw)
	if len(entries) == 0 {
		log.Printf("No LLDP results on %s (%s)", s.hostname, s.ip)
	}

	// The detail output omits the local interface on this platform; the
	// brief listing is the only place it shows up.
	brief, err := s.conn.SendMultiline([]string{cmdShowLLDPBrief})
	if err != nil {
		return nil, fmt.Errorf("fetch lldp brief: %w", err)
	}
	enrichLocalInterfaces(entries, parseBriefInterfaces(brief))

	s.lldp = entries
	return entries, nil
}

// Neighbors reconciles the stored CDP and LLDP entries into a deduplicated
// neighbor list. It never re-fetches from the device.
func (s *CiscoSwitch) Neighbors() ([]domain.Neighbor, error) {
	if err := s.checkConnection(); err != nil {
		return nil, err
	}
	return domain.Reconcile(s.cdp, s.lldp), nil
}

// ActivateCDP enables CDP globally and returns the response lines.
func (s *CiscoSwitch) ActivateCDP() ([]string, error) {
	return s.configure("cdp run")
}

// DeactivateCDP disables CDP globally and returns the response lines.
func (s *CiscoSwitch) DeactivateCDP() ([]string, error) {
	return s.configure("no cdp run")
}

// ActivateLLDP enables LLDP globally and returns the response lines.
func (s *CiscoSwitch) ActivateLLDP() ([]string, error) {
	return s.configure("lldp run")
}

// DeactivateLLDP disables LLDP globally and returns the response lines.
func (s *CiscoSwitch) DeactivateLLDP() ([]string, error) {
	return s.configure("no lldp run")
}

// ShowRunningConfig returns the device running configuration as lines.
func (s *CiscoSwitch) ShowRunningConfig() ([]string, error) {
	if err := s.checkConnection(); err != nil {
		return nil, err
	}
	if err := s.conn.Enable(false); err != nil {
		return nil, fmt.Errorf("enter enable mode: %w", err)
	}
	out, err := s.conn.SendMultiline([]string{cmdShowRunningConfig})
	if err != nil {
		return nil, fmt.Errorf("show running-config: %w", err)
	}
	return strings.Split(out, "\n"), nil
}

// configure enters enable mode, issues a single configuration command, and
// returns the response lines.
func (s *CiscoSwitch) configure(cmd string) ([]string, error) {
	if err := s.checkConnection(); err != nil {
		return nil, err
	}
	if err := s.conn.Enable(false); err != nil {
		return nil, fmt.Errorf("enter enable mode: %w", err)
	}
	out, err := s.conn.SendConfigSet([]string{cmd})
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", cmd, err)
	}
	return strings.Split(out, "\n"), nil
}

// checkConnection verifies the session exists and still answers with a
// prompt.
func (s *CiscoSwitch) checkConnection() error {
	if s.conn == nil || s.conn.FindPrompt() == "" {
		return ErrNotConnected
	}
	return nil
}
