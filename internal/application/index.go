package application

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"codedrop/internal/domain/entities"
)

// GuildEventIndex caches the relevant (pending or running) events of every
// guild so private messages can be matched without a store round-trip. It is
// not authoritative: the store wins on any disagreement.
type GuildEventIndex struct {
	mu      sync.RWMutex
	byGuild map[string]map[uuid.UUID]entities.Event
}

func NewGuildEventIndex() *GuildEventIndex {
	return &GuildEventIndex{byGuild: make(map[string]map[uuid.UUID]entities.Event)}
}

// Put inserts or replaces event.
func (x *GuildEventIndex) Put(event entities.Event) {
	x.mu.Lock()
	defer x.mu.Unlock()
	events, ok := x.byGuild[event.GuildID]
	if !ok {
		events = make(map[uuid.UUID]entities.Event)
		x.byGuild[event.GuildID] = events
	}
	events[event.ID] = event
}

// Remove drops the event from the cache.
func (x *GuildEventIndex) Remove(guildID string, id uuid.UUID) {
	x.mu.Lock()
	defer x.mu.Unlock()
	events := x.byGuild[guildID]
	delete(events, id)
	if len(events) == 0 {
		delete(x.byGuild, guildID)
	}
}

// Guild returns the cached events of guildID ordered by start time.
func (x *GuildEventIndex) Guild(guildID string) []entities.Event {
	x.mu.RLock()
	out := make([]entities.Event, 0, len(x.byGuild[guildID]))
	for _, e := range x.byGuild[guildID] {
		out = append(out, e)
	}
	x.mu.RUnlock()
	sortByStart(out)
	return out
}

// Open returns every cached event accepting claims at now, across guilds.
func (x *GuildEventIndex) Open(now time.Time) []entities.Event {
	x.mu.RLock()
	var out []entities.Event
	for _, events := range x.byGuild {
		for _, e := range events {
			if e.Open(now) {
				out = append(out, e)
			}
		}
	}
	x.mu.RUnlock()
	sortByStart(out)
	return out
}

func sortByStart(events []entities.Event) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].StartAt.Equal(events[j].StartAt) {
			return events[i].ID.String() < events[j].ID.String()
		}
		return events[i].StartAt.Before(events[j].StartAt)
	})
}
