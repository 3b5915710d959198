package monitoring

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/acamposr/devjobs-be/internal/services"
)

// How far back the activity feed is kept.
const eventRetention = 30 * 24 * time.Hour

// Maintenance periodically clears expired password-reset tokens and prunes
// old activity events, on a configurable cron schedule.
type Maintenance struct {
	userSvc  services.UserServiceProvider
	eventSvc services.EventServiceProvider
	schedule cron.Schedule
	done     chan bool
}

// NewMaintenance creates a maintenance runner. spec is a standard cron
// expression (descriptors like @hourly are accepted).
func NewMaintenance(userSvc services.UserServiceProvider, eventSvc services.EventServiceProvider, spec string) (*Maintenance, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return &Maintenance{
		userSvc:  userSvc,
		eventSvc: eventSvc,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the maintenance loop. It blocks; run it in a goroutine.
func (m *Maintenance) Run() {
	log.Info().Msg("Starting maintenance loop")

	// Run once immediately on start
	m.sweep()

	for {
		next := m.schedule.Next(time.Now())
		select {
		case <-m.done:
			log.Info().Msg("Stopping maintenance loop")
			return
		case <-time.After(time.Until(next)):
			m.sweep()
		}
	}
}

// Stop halts the maintenance loop.
func (m *Maintenance) Stop() {
	m.done <- true
}

// sweep performs one maintenance pass.
func (m *Maintenance) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()

	cleared, err := m.userSvc.ClearExpiredTokens(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("Maintenance: failed to clear expired reset tokens")
	} else if cleared > 0 {
		log.Info().Int64("cleared", cleared).Msg("Maintenance: expired reset tokens cleared")
	}

	pruned, err := m.eventSvc.PruneOlderThan(now.Add(-eventRetention))
	if err != nil {
		log.Error().Err(err).Msg("Maintenance: failed to prune old events")
	} else if pruned > 0 {
		log.Info().Int64("pruned", pruned).Msg("Maintenance: old events pruned")
	}
}
