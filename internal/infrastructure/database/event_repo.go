package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"codedrop/internal/domain"
	"codedrop/internal/domain/entities"
	"codedrop/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

// EventRepository implements output.EventRepository with pgx.
type EventRepository struct {
	db      DBTX
	timeout time.Duration
}

func NewEventRepository(db DBTX, timeout time.Duration) *EventRepository {
	return &EventRepository{db: db, timeout: timeout}
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("create event: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var createdAt time.Time
	err = tx.QueryRow(ctx, createEventSQL,
		uuidToPgtype(event.ID),
		event.GuildID,
		event.ChannelName,
		timeToPgtypeTimestamptz(event.StartAt),
		timeToPgtypeTimestamptz(event.EndAt),
		event.StartMessage,
		event.EndMessage,
		event.ResponseMessage,
		event.Pass,
		event.FileURL,
		event.CreatedBy,
		timeToPgtypeTimestamptz(event.CreatedAt),
		event.IsActive,
		event.IsWhitelisted,
	).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("create event: commit: %w", err)
	}
	event.CreatedAt = createdAt
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	e, err := scanEvent(r.db.QueryRow(ctx, getEventByIDSQL, uuidToPgtype(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	return &e, nil
}

func (r *EventRepository) FindByGuildID(ctx context.Context, guildID string) ([]entities.Event, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	events, err := r.list(ctx, getEventsByServerSQL, guildID)
	if err != nil {
		return nil, fmt.Errorf("get events by server: %w", err)
	}
	return events, nil
}

func (r *EventRepository) FindUnfinished(ctx context.Context, now time.Time) ([]entities.Event, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	events, err := r.list(ctx, findUnfinishedEventsSQL, timeToPgtypeTimestamptz(now))
	if err != nil {
		return nil, fmt.Errorf("find unfinished events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) FindLatestByCreator(ctx context.Context, guildID, creatorID string) (*entities.Event, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	e, err := scanEvent(r.db.QueryRow(ctx, getLatestEventByCreatorSQL, guildID, creatorID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest event by creator: %w", err)
	}
	return &e, nil
}

func (r *EventRepository) MarkInactive(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, markEventInactiveSQL, uuidToPgtype(id))
	if err != nil {
		return fmt.Errorf("mark event inactive: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) list(ctx context.Context, sql string, args ...any) ([]entities.Event, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entities.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
