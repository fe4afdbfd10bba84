package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Refresher reloads the service's snapshot on a fixed interval, for data
// sources that change underneath a running server.
type Refresher struct {
	svc      *Service
	interval time.Duration
	logger   *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewRefresher(svc *Service, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{
		svc:      svc,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the reload loop. A non-positive interval does nothing.
func (r *Refresher) Start(ctx context.Context) {
	if r.interval <= 0 {
		return
	}
	r.wg.Add(1)
	go r.loop(ctx)
}

func (r *Refresher) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()
}

func (r *Refresher) loop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.svc.Reload(ctx); err != nil {
				r.logger.Warn("scheduled reload failed", "error", err)
			}
		}
	}
}
