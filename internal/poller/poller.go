// Package poller watches the device's alarm sensor and turns readings into
// edge-triggered events.
package poller

import (
	"context"
	"sync"
	"time"

	"boo-display-backend/config"
	"boo-display-backend/internal/device"
	"boo-display-backend/internal/event"
	"boo-display-backend/internal/logger"
	"boo-display-backend/internal/notification"
)

// BinaryReader reads a binary sensor from the device.
type BinaryReader interface {
	ReadBinarySensor(ctx context.Context, name string) (bool, error)
}

// Service runs the poll loop. It owns the poll State exclusively.
type Service struct {
	reader   BinaryReader
	notifier notification.Notifier
	log      *logger.Logger
	interval time.Duration
	enabled  bool
	sensor   string

	mu    sync.Mutex
	state State
}

// NewService creates a poll loop that reads from reader and reports to notifier.
func NewService(cfg *config.PollerConfig, reader BinaryReader, notifier notification.Notifier, log *logger.Logger) *Service {
	return &Service{
		reader:   reader,
		notifier: notifier,
		log:      log,
		interval: cfg.Interval,
		enabled:  cfg.IsEnabled(),
		sensor:   device.SensorBlinking,
	}
}

// Run emits server_restart, polls immediately, then polls every interval
// until ctx is done. The timer is re-armed only after a poll completes, so a
// slow device delays the next tick instead of overlapping it.
func (s *Service) Run(ctx context.Context) {
	s.notifier.Notify(event.ServerRestart())

	if !s.enabled {
		s.log.Infow("poller is disabled, not starting")
		return
	}
	s.log.Infow("starting poller", "interval", s.interval.String(), "sensor", s.sensor)

	s.PollOnce(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Infow("poller shutting down")
			return
		case <-timer.C:
			s.PollOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

// PollOnce reads the sensor once and dispatches any resulting events. It
// returns false without polling if another poll is still in flight. A reading
// taken while ctx is being cancelled is discarded and leaves the state as is.
func (s *Service) PollOnce(ctx context.Context) bool {
	if !s.mu.TryLock() {
		s.log.Warnw("previous poll still in flight, skipping tick")
		return false
	}
	defer s.mu.Unlock()

	value, err := s.reader.ReadBinarySensor(ctx, s.sensor)
	if ctx.Err() != nil {
		s.log.Infow("poll interrupted by shutdown, discarding reading", "sensor", s.sensor, "err", err)
		return true
	}
	if err != nil {
		s.log.Warnw("poll failed", "sensor", s.sensor, "err", err)
	}

	prev := s.state
	for _, ev := range s.state.Observe(Reading{Value: value, Err: err}) {
		s.log.Infow("device state changed",
			"event", ev.Type,
			"online", s.state.Online.String(),
			"blinking", s.state.Blinking.String(),
			"prev_online", prev.Online.String(),
			"prev_blinking", prev.Blinking.String(),
		)
		s.notifier.Notify(ev)
	}
	return true
}

// State returns a copy of the current poll state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
