package application

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"codedrop/internal/domain/entities"
	"codedrop/internal/ports/output"
)

// Action is what an armed timer will do when it fires.
type Action int

const (
	ActionNone Action = iota
	ActionStart
	ActionEnd
)

func (a Action) String() string {
	switch a {
	case ActionStart:
		return "start"
	case ActionEnd:
		return "end"
	default:
		return "none"
	}
}

const announceTimeout = 10 * time.Second

type scheduledTimer struct {
	timer  Timer
	action Action
	fireAt time.Time
	gen    uint64
}

// EventScheduler moves events from pending to active to ended on their
// deadlines. Only deadlines are persisted (on the event itself); timers are
// rebuilt from the store by Recover on every process start.
type EventScheduler struct {
	mu     sync.Mutex
	timers map[uuid.UUID]scheduledTimer
	gen    uint64

	events    output.EventRepository
	index     *GuildEventIndex
	messenger output.Messenger
	clock     Clock
}

func NewEventScheduler(events output.EventRepository, index *GuildEventIndex, messenger output.Messenger, clock Clock) *EventScheduler {
	return &EventScheduler{
		timers:    make(map[uuid.UUID]scheduledTimer),
		events:    events,
		index:     index,
		messenger: messenger,
		clock:     clock,
	}
}

// Arm schedules whichever of the event's deadlines is still ahead and replaces
// any timer already armed for it. When the start has already passed, the start
// announcement is skipped and only the end is armed.
func (s *EventScheduler) Arm(event entities.Event) Action {
	now := s.clock.Now()
	switch {
	case !event.IsActive:
		s.disarm(event.ID)
		return ActionNone
	case !event.StartAt.Before(now):
		s.schedule(event, ActionStart, event.StartAt.Sub(now))
		return ActionStart
	case event.EndAt.After(now):
		s.schedule(event, ActionEnd, event.EndAt.Sub(now))
		return ActionEnd
	default:
		s.disarm(event.ID)
		return ActionNone
	}
}

// Recover reloads every unfinished event into the index and arms it.
func (s *EventScheduler) Recover(ctx context.Context) (int, error) {
	events, err := s.events.FindUnfinished(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	armed := 0
	for _, e := range events {
		s.index.Put(e)
		if s.Arm(e) != ActionNone {
			armed++
		}
	}
	log.Printf("⏰ %d événement(s) replanifié(s) au démarrage.", armed)
	return armed, nil
}

// Pending returns the action and fire time currently armed for id.
func (s *EventScheduler) Pending(id uuid.UUID) (Action, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[id]
	if !ok {
		return ActionNone, time.Time{}
	}
	return t.action, t.fireAt
}

// Stop cancels every armed timer.
func (s *EventScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.timer.Stop()
		delete(s.timers, id)
	}
}

func (s *EventScheduler) schedule(event entities.Event, action Action, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.timers[event.ID]; ok {
		prev.timer.Stop()
	}
	s.gen++
	gen := s.gen
	fire := func() {
		if !s.claimTimer(event.ID, gen) {
			return
		}
		switch action {
		case ActionStart:
			s.onStart(event)
		case ActionEnd:
			s.onEnd(event)
		}
	}
	s.timers[event.ID] = scheduledTimer{
		timer:  s.clock.AfterFunc(delay, fire),
		action: action,
		fireAt: s.clock.Now().Add(delay),
		gen:    gen,
	}
	log.Printf("⏰ Événement %s : %s programmé dans %s", event.ID, action, delay.Round(time.Second))
}

// claimTimer removes the timer entry if it is still generation gen, so a timer
// replaced by a later Arm becomes a no-op when it fires.
func (s *EventScheduler) claimTimer(id uuid.UUID, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[id]
	if !ok || t.gen != gen {
		return false
	}
	delete(s.timers, id)
	return true
}

func (s *EventScheduler) disarm(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.timer.Stop()
		delete(s.timers, id)
	}
}

func (s *EventScheduler) onStart(event entities.Event) {
	s.announce(event, event.StartMessage)
	delay := event.EndAt.Sub(s.clock.Now())
	if delay < 0 {
		delay = 0
	}
	s.schedule(event, ActionEnd, delay)
}

func (s *EventScheduler) onEnd(event entities.Event) {
	s.announce(event, event.EndMessage)
	s.index.Remove(event.GuildID, event.ID)

	ctx, cancel := context.WithTimeout(context.Background(), announceTimeout)
	defer cancel()
	if err := s.events.MarkInactive(ctx, event.ID); err != nil {
		log.Printf("❌ Désactivation de l'événement %s: %v", event.ID, err)
	}
}

// announce is best effort: a delivery failure never blocks the lifecycle.
func (s *EventScheduler) announce(event entities.Event, content string) {
	if content == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), announceTimeout)
	defer cancel()
	if err := s.messenger.Announce(ctx, event.GuildID, event.ChannelName, content); err != nil {
		log.Printf("❌ Annonce dans #%s (événement %s): %v", event.ChannelName, event.ID, err)
	}
}
