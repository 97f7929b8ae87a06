package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"codedrop/internal/domain"
	"codedrop/internal/domain/entities"
	"codedrop/internal/ports/output"
)

const (
	uniqueViolation = "23505"

	claimBackoffMin = 5 * time.Millisecond
	claimBackoffMax = 100 * time.Millisecond
)

var _ output.CodeRepository = (*CodeRepository)(nil)

// CodeRepository implements output.CodeRepository with pgx.
type CodeRepository struct {
	db      DBTX
	timeout time.Duration
}

func NewCodeRepository(db DBTX, timeout time.Duration) *CodeRepository {
	return &CodeRepository{db: db, timeout: timeout}
}

// InsertBatch inserts every value in a single transaction. Values already
// present for the event are skipped and not counted.
func (r *CodeRepository) InsertBatch(ctx context.Context, eventID uuid.UUID, values []string) (int, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("insert codes: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	id := uuidToPgtype(eventID)
	for _, v := range values {
		batch.Queue(insertCodeSQL, v, id)
	}
	br := tx.SendBatch(ctx, batch)
	inserted := 0
	for range values {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return 0, fmt.Errorf("insert codes: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("insert codes: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("insert codes: commit: %w", err)
	}
	return inserted, nil
}

// Claim runs the existence check and the claimant-scoped update in one
// transaction. The partial unique index on (event_id, username) turns a
// concurrent second claim by the same user into ErrAlreadyClaimed.
func (r *CodeRepository) Claim(ctx context.Context, eventID uuid.UUID, userID string, at time.Time) (*entities.Code, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return retryClaim(ctx, func() (*entities.Code, bool, error) {
		return r.claimOnce(ctx, eventID, userID, at)
	})
}

// retryClaim repeats once while it reports that free rows exist but are all
// locked by other claims, backing off between attempts until ctx is done.
func retryClaim(ctx context.Context, once func() (*entities.Code, bool, error)) (*entities.Code, error) {
	backoff := claimBackoffMin
	for {
		code, retry, err := once()
		if err != nil || !retry {
			return code, err
		}
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("claim code: codes still locked: %w", ctx.Err())
		case <-timer.C:
		}
		if backoff *= 2; backoff > claimBackoffMax {
			backoff = claimBackoffMax
		}
	}
}

func (r *CodeRepository) claimOnce(ctx context.Context, eventID uuid.UUID, userID string, at time.Time) (*entities.Code, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("claim code: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	id := uuidToPgtype(eventID)
	var exists bool
	if err := tx.QueryRow(ctx, claimantExistsSQL, id, userID).Scan(&exists); err != nil {
		return nil, false, fmt.Errorf("claim code: existence check: %w", err)
	}
	if exists {
		return nil, false, domain.ErrAlreadyClaimed
	}

	code, err := scanCode(tx.QueryRow(ctx, claimCodeSQL, id, userID, timeToPgtypeTimestamptz(at)))
	if errors.Is(err, pgx.ErrNoRows) {
		// Nothing free, or every free row is locked by another claim right now.
		var unclaimed bool
		if err := tx.QueryRow(ctx, unclaimedExistsSQL, id).Scan(&unclaimed); err != nil {
			return nil, false, fmt.Errorf("claim code: unclaimed check: %w", err)
		}
		if !unclaimed {
			return nil, false, domain.ErrCodesExhausted
		}
		return nil, true, nil
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, false, domain.ErrAlreadyClaimed
		}
		return nil, false, fmt.Errorf("claim code: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, false, domain.ErrAlreadyClaimed
		}
		return nil, false, fmt.Errorf("claim code: commit: %w", err)
	}
	return &code, false, nil
}

func (r *CodeRepository) Stats(ctx context.Context, eventID uuid.UUID) (entities.PoolStats, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var total, claimed int64
	if err := r.db.QueryRow(ctx, codeStatsSQL, uuidToPgtype(eventID)).Scan(&total, &claimed); err != nil {
		return entities.PoolStats{}, fmt.Errorf("code stats: %w", err)
	}
	return entities.PoolStats{Total: int(total), Claimed: int(claimed)}, nil
}
