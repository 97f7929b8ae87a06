package input

import (
	"context"

	"codedrop/internal/domain/entities"
)

type ClaimUseCase interface {
	HandlePrivateMessage(ctx context.Context, senderID, text string) (entities.ClaimOutcome, error)
}
