package application

import (
	"context"
	"errors"
	"fmt"
	"log"

	"codedrop/internal/domain"
	"codedrop/internal/domain/entities"
	"codedrop/internal/ports/output"
)

// ClaimEngine matches a private message to an open event and hands the sender
// exactly one code of that event.
type ClaimEngine struct {
	access *AccessFilter
	pool   *CodePool
	events output.EventRepository
	index  *GuildEventIndex
	clock  Clock
}

func NewClaimEngine(access *AccessFilter, pool *CodePool, events output.EventRepository, index *GuildEventIndex, clock Clock) *ClaimEngine {
	return &ClaimEngine{access: access, pool: pool, events: events, index: index, clock: clock}
}

// HandlePrivateMessage treats text as a candidate pass from senderID.
// The returned error is only set for store failures; every business result is
// an outcome.
func (c *ClaimEngine) HandlePrivateMessage(ctx context.Context, senderID, text string) (entities.ClaimOutcome, error) {
	banned, err := c.access.IsBanned(ctx, senderID)
	if err != nil {
		return entities.ClaimOutcome{}, fmt.Errorf("ban lookup: %w", err)
	}
	if banned {
		log.Printf("⚠️ Message privé ignoré : utilisateur banni %s", senderID)
		return entities.ClaimOutcome{Kind: entities.OutcomeDenied}, nil
	}

	now := c.clock.Now()
	event, ok := MatchEvent(domain.NormalizePass(text), c.index.Open(now))
	if !ok {
		return entities.ClaimOutcome{Kind: entities.OutcomeNoMatch}, nil
	}

	// The index is a cache; confirm against the store before spending a code.
	current, err := c.events.FindByID(ctx, event.ID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			c.index.Remove(event.GuildID, event.ID)
			return entities.ClaimOutcome{Kind: entities.OutcomeNoMatch}, nil
		}
		return entities.ClaimOutcome{}, err
	}
	if !current.Open(now) {
		c.index.Remove(current.GuildID, current.ID)
		return entities.ClaimOutcome{Kind: entities.OutcomeNoMatch}, nil
	}

	code, err := c.pool.Claim(ctx, current.ID, senderID, now)
	switch {
	case errors.Is(err, domain.ErrAlreadyClaimed):
		return entities.ClaimOutcome{Kind: entities.OutcomeAlreadyClaimed, Event: current}, nil
	case errors.Is(err, domain.ErrCodesExhausted):
		return entities.ClaimOutcome{Kind: entities.OutcomeExhausted, Event: current}, nil
	case err != nil:
		return entities.ClaimOutcome{}, err
	}

	log.Printf("✅ Code attribué à %s (événement %s)", senderID, current.ID)
	return entities.ClaimOutcome{
		Kind:  entities.OutcomeClaimed,
		Event: current,
		Code:  code.Value,
		Reply: current.RenderResponse(code.Value),
	}, nil
}

// MatchEvent picks the event whose normalized pass contains message. An exact
// pass wins; otherwise the shortest containing pass wins, and two candidates
// of that same length are ambiguous and match nothing.
func MatchEvent(message string, events []entities.Event) (*entities.Event, bool) {
	if message == "" {
		return nil, false
	}
	var best *entities.Event
	bestLen := -1
	ambiguous := false
	for i := range events {
		pass := events[i].NormalizedPass()
		if !domain.PassMatches(message, pass) {
			continue
		}
		if pass == message {
			return &events[i], true
		}
		switch {
		case best == nil || len(pass) < bestLen:
			best, bestLen, ambiguous = &events[i], len(pass), false
		case len(pass) == bestLen:
			ambiguous = true
		}
	}
	if best == nil {
		return nil, false
	}
	if ambiguous {
		log.Printf("⚠️ Pass ambigu %q : plusieurs événements correspondent", message)
		return nil, false
	}
	return best, true
}
