package application

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"codedrop/internal/ports/input"
	"codedrop/internal/ports/output"
)

const statusConcurrency = 4

type EventService struct {
	events output.EventRepository
	pool   *CodePool
	clock  Clock
}

var _ input.EventUseCase = (*EventService)(nil)

func NewEventService(events output.EventRepository, pool *CodePool, clock Clock) *EventService {
	return &EventService{events: events, pool: pool, clock: clock}
}

// GuildStatus lists the guild's events with their lifecycle state and pool
// usage, in the order returned by the store.
func (s *EventService) GuildStatus(ctx context.Context, guildID string) ([]input.EventStatus, error) {
	events, err := s.events.FindByGuildID(ctx, guildID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	out := make([]input.EventStatus, len(events))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statusConcurrency)
	for i := range events {
		out[i] = input.EventStatus{Event: events[i], Status: events[i].Status(now)}
		g.Go(func() error {
			stats, err := s.pool.Stats(gctx, events[i].ID)
			if err != nil {
				return fmt.Errorf("stats for event %s: %w", events[i].ID, err)
			}
			out[i].Stats = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
