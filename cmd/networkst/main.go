package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JunHCha/networkst/internal/config"
	"github.com/JunHCha/networkst/internal/device"
	"github.com/JunHCha/networkst/internal/discover"
	"github.com/JunHCha/networkst/internal/domain"
	"github.com/JunHCha/networkst/internal/repository/sqlite"
	"github.com/JunHCha/networkst/internal/scan"
	"github.com/JunHCha/networkst/internal/session"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "config file path (default: search standard locations)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	once := flag.Bool("once", false, "run a single sweep and exit, ignoring the configured interval")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting networkst discovery...")

	// Load configuration
	var (
		cfg        *config.Config
		loadedFrom string
		err        error
	)
	if *configPath != "" {
		cfg, loadedFrom, err = config.LoadFromPath(*configPath)
	} else {
		cfg, loadedFrom, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if loadedFrom != "" {
		log.Printf("Config loaded: %s", loadedFrom)
	} else {
		log.Printf("No config file found, using defaults")
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	// Initialize SQLite repository
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	// Device sessions, with the configured timeouts baked in
	sessions := session.NewRegistry()
	sessions.Register(session.DeviceTypeCiscoIOS, func(ctx context.Context, opts session.Options) (session.Session, error) {
		opts.ConnectTimeout = cfg.Behavior.ConnectTimeout.Duration()
		opts.CommandTimeout = cfg.Behavior.CommandTimeout.Duration()
		return session.DialCiscoIOS(ctx, opts)
	})

	svc := discover.New(repo, sessions,
		discover.Credentials{
			Username: cfg.Credentials.Username,
			Password: cfg.Credentials.Password,
			Secret:   cfg.Credentials.Secret,
		},
		discover.WithMaxConcurrent(cfg.Behavior.MaxConcurrent),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	interval := cfg.Behavior.Interval.Duration()
	if *once {
		interval = 0
	}

	for {
		if err := sweep(ctx, cfg, svc); err != nil {
			log.Printf("Sweep failed: %v", err)
		}

		if interval == 0 {
			return
		}
		log.Printf("Next sweep in %s", interval)
		select {
		case <-ctx.Done():
			log.Println("Shutting down")
			os.Exit(0)
		case <-time.After(interval):
		}
	}
}

// sweep resolves the target list (configured devices plus scanned
// candidates) and runs one discovery pass over it.
func sweep(ctx context.Context, cfg *config.Config, svc *discover.Service) error {
	targets := make([]discover.Target, 0, len(cfg.Targets.Devices))
	seen := make(map[domain.Addr]struct{})

	for _, dev := range cfg.Targets.Devices {
		addr := domain.ParseAddr(dev.IP)
		if !addr.IsValid() {
			log.Printf("Skipping target with invalid address %q", dev.IP)
			continue
		}
		seen[addr] = struct{}{}
		targets = append(targets, discover.Target{IP: addr, Vendor: device.Vendor(dev.Vendor)})
	}

	if len(cfg.Targets.ScanCIDRs) > 0 {
		scanner := scan.New(cfg.Targets.ScanCIDRs)
		candidates, err := scanner.SSHCandidates(ctx)
		if err != nil {
			log.Printf("Scan failed, continuing with configured targets: %v", err)
		}
		for _, addr := range candidates {
			if _, ok := seen[addr]; ok {
				continue
			}
			seen[addr] = struct{}{}
			// Scanned hosts are assumed Cisco; other vendors must be
			// listed explicitly.
			targets = append(targets, discover.Target{IP: addr, Vendor: device.VendorCisco})
		}
	}

	if len(targets) == 0 {
		log.Println("No targets to discover")
		return nil
	}

	log.Printf("Sweeping %d targets", len(targets))
	summary, err := svc.Run(ctx, targets)
	if err != nil {
		return err
	}
	log.Printf("Sweep done: visited=%d failed=%d neighbors=%d",
		summary.Visited, summary.Failed, summary.Neighbors)
	return nil
}
