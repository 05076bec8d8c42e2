package workers

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"rental-service/internal/services"
)

// VacancyRefresher periodically rebuilds the vacant-rooms cache so listings
// stay warm even when no lease activity invalidates it
type VacancyRefresher struct {
	roomService services.RoomService
	logger      *logrus.Logger
	interval    time.Duration
	stopChan    chan struct{}
	doneChan    chan struct{}
	mu          sync.Mutex
	running     bool
}

// NewVacancyRefresher creates a refresher with the given interval.
// A zero interval defaults to 5 minutes.
func NewVacancyRefresher(roomService services.RoomService, logger *logrus.Logger, interval time.Duration) *VacancyRefresher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &VacancyRefresher{
		roomService: roomService,
		logger:      logger,
		interval:    interval,
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
}

// Start begins the background refresh loop
func (w *VacancyRefresher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run()
}

// Stop signals the refresher to exit and waits for the loop to finish
func (w *VacancyRefresher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	<-w.doneChan
}

func (w *VacancyRefresher) run() {
	defer close(w.doneChan)

	// Warm the cache immediately on startup
	w.refresh()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.refresh()
		case <-w.stopChan:
			w.logger.Info("Vacancy cache refresher stopped")
			return
		}
	}
}

func (w *VacancyRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := w.roomService.RefreshVacancyCache(ctx); err != nil {
		w.logger.WithError(err).Warn("Failed to refresh vacancy cache")
		return
	}
	w.logger.Debug("Vacancy cache refreshed")
}
