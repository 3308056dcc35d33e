// Package discover walks switches, collects their CDP/LLDP neighbor tables,
// and persists the reconciled results.
package discover

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/JunHCha/networkst/internal/device"
	"github.com/JunHCha/networkst/internal/domain"
	"github.com/JunHCha/networkst/internal/repository"
	"github.com/JunHCha/networkst/internal/session"
)

// Target is one device to visit
type Target struct {
	IP     domain.Addr
	Vendor device.Vendor
}

// Credentials is the device login used for all targets
type Credentials struct {
	Username string
	Password string
	Secret   string
}

// Summary reports the outcome of one sweep
type Summary struct {
	Visited   int
	Failed    int
	Neighbors int
}

// SwitchFactory creates a switch handle for a target. Swappable in tests.
type SwitchFactory func(ip domain.Addr, vendor device.Vendor, sessions *session.Registry) (device.Switch, error)

// Service runs discovery sweeps over a set of targets. Each device gets its
// own switch and session; devices are independent and walked concurrently up
// to maxConcurrent.
type Service struct {
	repo          repository.Repository
	sessions      *session.Registry
	creds         Credentials
	maxConcurrent int
	newSwitch     SwitchFactory
}

// Option configures a Service
type Option func(*Service)

// WithMaxConcurrent limits parallel device sessions
func WithMaxConcurrent(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

// WithSwitchFactory replaces how switch handles are created
func WithSwitchFactory(f SwitchFactory) Option {
	return func(s *Service) {
		s.newSwitch = f
	}
}

// New creates a discovery service
func New(repo repository.Repository, sessions *session.Registry, creds Credentials, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		sessions:      sessions,
		creds:         creds,
		maxConcurrent: 5,
		newSwitch:     device.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run visits every target once and persists a discovery run per device that
// answered. Per-device failures are logged and counted, not fatal.
func (s *Service) Run(ctx context.Context, targets []Target) (*Summary, error) {
	if len(targets) == 0 {
		return &Summary{}, nil
	}

	var (
		mu      sync.Mutex
		summary Summary
		wg      sync.WaitGroup
	)
	sem := make(chan struct{}, s.maxConcurrent)

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(target Target) {
			defer wg.Done()
			defer func() { <-sem }()

			run, err := s.visit(ctx, target)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("Discover: %s failed: %v", target.IP, err)
				summary.Failed++
				return
			}
			summary.Visited++
			summary.Neighbors += len(run.Neighbors)
		}(target)
	}

	wg.Wait()
	log.Printf("Discover: sweep complete, visited=%d failed=%d neighbors=%d",
		summary.Visited, summary.Failed, summary.Neighbors)
	return &summary, nil
}

// visit connects to one device, collects both protocol tables, reconciles,
// and persists the run.
func (s *Service) visit(ctx context.Context, target Target) (*domain.DiscoveryRun, error) {
	sw, err := s.newSwitch(target.IP, target.Vendor, s.sessions)
	if err != nil {
		return nil, err
	}

	if err := sw.Connect(ctx, s.creds.Username, s.creds.Password, s.creds.Secret); err != nil {
		return nil, err
	}
	defer func() {
		if err := sw.Disconnect(); err != nil && !errors.Is(err, device.ErrNotConnected) {
			log.Printf("Discover: disconnect %s: %v", target.IP, err)
		}
	}()

	run := &domain.DiscoveryRun{
		DeviceIP:  target.IP,
		StartedAt: time.Now(),
	}

	if hostname, err := sw.Hostname(); err == nil {
		run.Hostname = hostname
	}

	cdp, err := sw.GetCDP(ctx)
	switch {
	case errors.Is(err, device.ErrCDPNotEnabled):
		// LLDP may still deliver; keep walking this device.
		log.Printf("Discover: CDP disabled on %s", target.IP)
	case err != nil:
		return nil, fmt.Errorf("cdp: %w", err)
	default:
		run.CDP = cdp
	}

	lldp, err := sw.GetLLDP(ctx)
	if err != nil {
		return nil, fmt.Errorf("lldp: %w", err)
	}
	run.LLDP = lldp

	neighbors, err := sw.Neighbors()
	if err != nil {
		return nil, err
	}
	run.Neighbors = neighbors
	run.EndedAt = time.Now()

	if err := s.repo.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("persist run: %w", err)
	}
	return run, nil
}
