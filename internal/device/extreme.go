package device

import (
	"context"
	"fmt"

	"github.com/JunHCha/networkst/internal/domain"
)

// ExtremeSwitch is a placeholder for ExtremeOS devices. Discovery support
// has not been implemented; every operation reports ErrNotSupported instead
// of silently returning empty data.
type ExtremeSwitch struct {
	ip domain.Addr
}

// NewExtremeSwitch creates an Extreme switch handle.
func NewExtremeSwitch(ip domain.Addr) *ExtremeSwitch {
	return &ExtremeSwitch{ip: ip}
}

// IP returns the management address of the switch itself.
func (s *ExtremeSwitch) IP() domain.Addr { return s.ip }

func (s *ExtremeSwitch) Connect(ctx context.Context, username, password, secret string) error {
	return fmt.Errorf("extreme %s: %w", s.ip, ErrNotSupported)
}

func (s *ExtremeSwitch) Disconnect() error {
	return fmt.Errorf("extreme %s: %w", s.ip, ErrNotSupported)
}

func (s *ExtremeSwitch) Hostname() (string, error) {
	return "", fmt.Errorf("extreme %s: %w", s.ip, ErrNotSupported)
}

func (s *ExtremeSwitch) GetCDP(ctx context.Context) ([]domain.CDPEntry, error) {
	return nil, fmt.Errorf("extreme %s: %w", s.ip, ErrNotSupported)
}

func (s *ExtremeSwitch) GetLLDP(ctx context.Context) ([]domain.LLDPEntry, error) {
	return nil, fmt.Errorf("extreme %s: %w", s.ip, ErrNotSupported)
}

func (s *ExtremeSwitch) Neighbors() ([]domain.Neighbor, error) {
	return nil, fmt.Errorf("extreme %s: %w", s.ip, ErrNotSupported)
}
