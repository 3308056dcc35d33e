// Package scan finds candidate switches on the network before discovery
// walks them. It sweeps configured CIDR ranges with nmap and keeps the hosts
// that answer on the SSH port.
package scan

import (
	"context"
	"fmt"
	"log"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"

	"github.com/JunHCha/networkst/internal/domain"
)

const sshPort = 22

// Scanner sweeps CIDR targets for SSH-reachable hosts
type Scanner struct {
	targets           []string
	timeout           time.Duration
	skipHostDiscovery bool
}

// New creates a scanner for the given CIDR ranges or individual IPs
func New(targets []string, opts ...Option) *Scanner {
	s := &Scanner{
		targets: targets,
		timeout: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Targets returns the configured scan targets
func (s *Scanner) Targets() []string {
	return s.targets
}

// SSHCandidates scans all targets and returns the addresses with an open SSH
// port, deduplicated. Per-target scan failures are logged and skipped so one
// unreachable range does not sink the sweep.
func (s *Scanner) SSHCandidates(ctx context.Context) ([]domain.Addr, error) {
	if len(s.targets) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	seen := make(map[domain.Addr]struct{})
	var candidates []domain.Addr

	for _, target := range s.targets {
		addrs, err := s.scanTarget(ctx, target)
		if err != nil {
			log.Printf("Scan: error scanning %s: %v", target, err)
			continue
		}
		for _, addr := range addrs {
			if _, ok := seen[addr]; ok {
				continue
			}
			seen[addr] = struct{}{}
			candidates = append(candidates, addr)
		}
	}

	log.Printf("Scan: %d SSH candidates across %d targets", len(candidates), len(s.targets))
	return candidates, nil
}

// scanTarget sweeps a single CIDR or address
func (s *Scanner) scanTarget(ctx context.Context, target string) ([]domain.Addr, error) {
	opts := []nmap.Option{
		nmap.WithTargets(target),
		nmap.WithPorts(fmt.Sprintf("%d", sshPort)),
	}
	if s.skipHostDiscovery {
		opts = append(opts, nmap.WithSkipHostDiscovery())
	}

	scanner, err := nmap.NewScanner(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	log.Printf("Scan: scanning target %s", target)
	result, warnings, err := scanner.Run()
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		log.Printf("Scan: warnings for %s: %v", target, *warnings)
	}

	return collectSSHHosts(result), nil
}

// collectSSHHosts extracts IPv4 addresses of hosts with the SSH port open
func collectSSHHosts(result *nmap.Run) []domain.Addr {
	if result == nil {
		return nil
	}

	var addrs []domain.Addr
	for _, host := range result.Hosts {
		if !hasOpenSSH(host) {
			continue
		}
		for _, addr := range host.Addresses {
			if addr.AddrType != "ipv4" {
				continue
			}
			if parsed := domain.ParseAddr(addr.Addr); parsed.IsValid() {
				addrs = append(addrs, parsed)
				break
			}
		}
	}
	return addrs
}

func hasOpenSSH(host nmap.Host) bool {
	for _, port := range host.Ports {
		if port.ID == sshPort && port.State.State == "open" {
			return true
		}
	}
	return false
}
