package input

import (
	"context"

	"codedrop/internal/domain/entities"
)

// EventStatus is one line of the !status report.
type EventStatus struct {
	Event  entities.Event
	Status string
	Stats  entities.PoolStats
}

type EventUseCase interface {
	GuildStatus(ctx context.Context, guildID string) ([]EventStatus, error)
}
