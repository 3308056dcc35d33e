// Package repository defines the persistence boundary for discovery results.
package repository

import (
	"context"

	"github.com/JunHCha/networkst/internal/domain"
)

// Repository stores and retrieves discovery runs
type Repository interface {
	// SaveRun persists a completed discovery run. A missing run ID is
	// assigned.
	SaveRun(ctx context.Context, run *domain.DiscoveryRun) error

	// LatestRun returns the most recent run for a device, or nil if the
	// device has never been visited.
	LatestRun(ctx context.Context, deviceIP domain.Addr) (*domain.DiscoveryRun, error)

	// ListRuns returns up to limit runs for a device, newest first.
	ListRuns(ctx context.Context, deviceIP domain.Addr, limit int) ([]domain.DiscoveryRun, error)

	// LatestNeighbors returns the neighbor list from the device's most
	// recent run, or nil if the device has never been visited.
	LatestNeighbors(ctx context.Context, deviceIP domain.Addr) ([]domain.Neighbor, error)

	// Close releases resources
	Close() error
}
