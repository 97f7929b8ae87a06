package output

import (
	"context"
	"time"

	"github.com/google/uuid"

	"codedrop/internal/domain/entities"
)

type CodeRepository interface {
	// InsertBatch stores values for eventID in one transaction and returns how many
	// rows were actually inserted.
	InsertBatch(ctx context.Context, eventID uuid.UUID, values []string) (int, error)
	// Claim atomically hands one random unclaimed code of eventID to userID.
	// It returns domain.ErrAlreadyClaimed when userID already holds one and
	// domain.ErrCodesExhausted when none is left.
	Claim(ctx context.Context, eventID uuid.UUID, userID string, at time.Time) (*entities.Code, error)
	Stats(ctx context.Context, eventID uuid.UUID) (entities.PoolStats, error)
}
