package database

import (
	"context"
	"fmt"
	"time"

	"codedrop/internal/ports/output"
)

var _ output.BanRepository = (*BanRepository)(nil)

type BanRepository struct {
	db      DBTX
	timeout time.Duration
}

func NewBanRepository(db DBTX, timeout time.Duration) *BanRepository {
	return &BanRepository{db: db, timeout: timeout}
}

func (r *BanRepository) IsBanned(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var banned bool
	if err := r.db.QueryRow(ctx, isBannedSQL, userID).Scan(&banned); err != nil {
		return false, fmt.Errorf("is banned: %w", err)
	}
	return banned, nil
}
