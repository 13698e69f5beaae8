package bookings

import (
	"context"
	"log"
	"time"
)

// Sweeper is the background reclamation pass over stale holds. It is an
// optimization, not the source of truth: Confirm rejects lapsed holds on its
// own, the sweeper just frees slots promptly for other customers.
type Sweeper struct {
	service Service
	config  *SweeperConfig
	done    chan struct{}
}

// SweeperConfig contains configuration for the expiry sweep job
type SweeperConfig struct {
	Interval  time.Duration
	BatchSize int
}

// DefaultSweeperConfig returns default sweeper configuration
func DefaultSweeperConfig() *SweeperConfig {
	return &SweeperConfig{
		Interval:  5 * time.Second, // client countdowns tick per second; the server sweep need not
		BatchSize: 100,             // expire at most 100 holds per pass
	}
}

// NewSweeper creates a new expiry sweeper
func NewSweeper(service Service, config *SweeperConfig) *Sweeper {
	if config == nil {
		config = DefaultSweeperConfig()
	}

	return &Sweeper{
		service: service,
		config:  config,
		done:    make(chan struct{}),
	}
}

// Start starts the background sweep loop
func (sw *Sweeper) Start(ctx context.Context) {
	go sw.run(ctx)
	log.Printf("Started expiry sweeper with %v interval", sw.config.Interval)
}

// Stop stops the background sweep loop
func (sw *Sweeper) Stop() {
	close(sw.done)
	log.Println("Expiry sweeper stopped")
}

func (sw *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(sw.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sw.sweep(ctx)
		case <-sw.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// sweep reclaims one batch of lapsed holds. Errors are logged and retried on
// the next interval; a failed pass never leaks a partial transition because
// each expiry is its own guarded update.
func (sw *Sweeper) sweep(ctx context.Context) {
	reclaimed, err := sw.service.SweepExpired(ctx, time.Now().UTC(), sw.config.BatchSize)
	if err != nil {
		log.Printf("Error sweeping expired holds: %v", err)
		return
	}

	if reclaimed > 0 {
		log.Printf("Expired %d lapsed holds", reclaimed)
	}
}
