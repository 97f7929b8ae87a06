package output

import (
	"context"
	"time"

	"github.com/google/uuid"

	"codedrop/internal/domain/entities"
)

type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Event, error)
	FindByGuildID(ctx context.Context, guildID string) ([]entities.Event, error)
	// FindUnfinished returns active events whose end is after now.
	FindUnfinished(ctx context.Context, now time.Time) ([]entities.Event, error)
	// FindLatestByCreator returns the most recent event created by creatorID in guildID.
	FindLatestByCreator(ctx context.Context, guildID, creatorID string) (*entities.Event, error)
	MarkInactive(ctx context.Context, id uuid.UUID) error
}
