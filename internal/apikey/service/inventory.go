package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/apikey/internal/apikey/store"
)

// Inventory is a point-in-time count of stored keys. Usable keys are the
// non-revoked ones; Expired counts usable keys whose expiry has passed.
type Inventory struct {
	Total   int64
	Usable  int64
	Expired int64
	Revoked int64
}

// InventoryService periodically counts stored keys, logs the result and
// publishes it as gauges. It never modifies keys.
type InventoryService struct {
	Store    store.Store
	Metrics  *Metrics
	Logger   *slog.Logger
	Interval time.Duration

	now    func() time.Time
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewInventoryService creates the worker. If interval is 0 or negative,
// defaults to 1 minute.
func NewInventoryService(st store.Store, metrics *Metrics, logger *slog.Logger, interval time.Duration) *InventoryService {
	if interval <= 0 {
		interval = time.Minute
	}

	return &InventoryService{
		Store:    st,
		Metrics:  metrics,
		Logger:   logger,
		Interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background until Stop is called.
func (s *InventoryService) Start() {
	go s.run()
	s.Logger.Info("inventory service started", "interval", s.Interval)
}

// Stop blocks until an in-progress run has finished.
func (s *InventoryService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("inventory service stopped")
}

func (s *InventoryService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.refresh()

	for {
		select {
		case <-ticker.C:
			s.refresh()
		case <-s.stopCh:
			return
		}
	}
}

func (s *InventoryService) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Interval)
	defer cancel()

	inv, err := s.Count(ctx)
	if err != nil {
		s.Logger.Error("failed to count api keys", "error", err)
		return
	}

	s.Metrics.setInventory(inv)
	s.Logger.Debug("api key inventory",
		"total", inv.Total,
		"usable", inv.Usable,
		"expired", inv.Expired,
		"revoked", inv.Revoked,
	)
}

// Count takes an inventory of the store.
func (s *InventoryService) Count(ctx context.Context) (Inventory, error) {
	repo := s.Store.APIKeys()

	total, err := repo.Count(ctx)
	if err != nil {
		return Inventory{}, err
	}
	usable, err := repo.ListUsable(ctx)
	if err != nil {
		return Inventory{}, err
	}

	inv := Inventory{
		Total:   total,
		Usable:  int64(len(usable)),
		Revoked: total - int64(len(usable)),
	}
	now := s.now()
	for _, k := range usable {
		if k.HasExpired(now) {
			inv.Expired++
		}
	}
	return inv, nil
}
