package scan

import (
	"testing"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"

	"github.com/JunHCha/networkst/internal/domain"
)

func TestScannerCreation(t *testing.T) {
	tests := []struct {
		name        string
		targets     []string
		opts        []Option
		wantTargets int
	}{
		{
			name:        "default configuration",
			targets:     []string{"192.168.1.0/24"},
			opts:        nil,
			wantTargets: 1,
		},
		{
			name:        "with custom timeout",
			targets:     []string{"10.0.0.0/24", "10.0.1.0/24"},
			opts:        []Option{WithTimeout(time.Minute)},
			wantTargets: 2,
		},
		{
			name:        "with skip host discovery",
			targets:     []string{"192.168.1.1"},
			opts:        []Option{WithSkipHostDiscovery(true)},
			wantTargets: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.targets, tt.opts...)
			if s == nil {
				t.Fatal("expected scanner, got nil")
			}
			if len(s.Targets()) != tt.wantTargets {
				t.Errorf("expected %d targets, got %d", tt.wantTargets, len(s.Targets()))
			}
		})
	}
}

func TestScannerOptions(t *testing.T) {
	t.Run("WithTimeout", func(t *testing.T) {
		s := New([]string{"192.168.1.1"}, WithTimeout(5*time.Minute))
		if s.timeout != 5*time.Minute {
			t.Errorf("expected timeout 5m, got %v", s.timeout)
		}
	})

	t.Run("WithSkipHostDiscovery", func(t *testing.T) {
		s := New([]string{"192.168.1.1"}, WithSkipHostDiscovery(true))
		if !s.skipHostDiscovery {
			t.Error("expected skipHostDiscovery to be set")
		}
	})
}

func TestCollectSSHHosts(t *testing.T) {
	result := &nmap.Run{
		Hosts: []nmap.Host{
			{
				Addresses: []nmap.Address{{Addr: "192.168.1.10", AddrType: "ipv4"}},
				Ports: []nmap.Port{
					{ID: 22, State: nmap.State{State: "open"}},
				},
			},
			{
				Addresses: []nmap.Address{{Addr: "192.168.1.11", AddrType: "ipv4"}},
				Ports: []nmap.Port{
					{ID: 22, State: nmap.State{State: "closed"}},
				},
			},
			{
				Addresses: []nmap.Address{{Addr: "192.168.1.12", AddrType: "ipv4"}},
				Ports: []nmap.Port{
					{ID: 80, State: nmap.State{State: "open"}},
				},
			},
		},
	}

	addrs := collectSSHHosts(result)
	if len(addrs) != 1 {
		t.Fatalf("expected 1 candidate, got %v", addrs)
	}
	if addrs[0] != domain.MustAddr("192.168.1.10") {
		t.Errorf("candidate = %v, want 192.168.1.10", addrs[0])
	}
}

func TestCollectSSHHostsNilResult(t *testing.T) {
	if addrs := collectSSHHosts(nil); addrs != nil {
		t.Errorf("expected nil, got %v", addrs)
	}
}
