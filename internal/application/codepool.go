package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"codedrop/internal/domain/entities"
	"codedrop/internal/ports/input"
	"codedrop/internal/ports/output"
)

// CodePool is the set of redemption codes of each event.
type CodePool struct {
	codes  output.CodeRepository
	source output.CodeSource
}

func NewCodePool(codes output.CodeRepository, source output.CodeSource) *CodePool {
	return &CodePool{codes: codes, source: source}
}

// Load reads the rows of an uploaded code file.
func (p *CodePool) Load(ctx context.Context, att input.Attachment) ([]string, error) {
	return p.source.Fetch(ctx, att.Filename, att.URL)
}

// Ingest stores one code per non-empty row and returns how many were added.
// Rows repeating a code already present for the event are skipped by the store.
func (p *CodePool) Ingest(ctx context.Context, eventID uuid.UUID, rows []string) (int, error) {
	values := make([]string, 0, len(rows))
	for _, r := range rows {
		if v := strings.TrimSpace(r); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0, nil
	}
	return p.codes.InsertBatch(ctx, eventID, values)
}

func (p *CodePool) Claim(ctx context.Context, eventID uuid.UUID, userID string, at time.Time) (*entities.Code, error) {
	return p.codes.Claim(ctx, eventID, userID, at)
}

func (p *CodePool) Stats(ctx context.Context, eventID uuid.UUID) (entities.PoolStats, error) {
	return p.codes.Stats(ctx, eventID)
}
