package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"codedrop/internal/domain/entities"
)

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func timeToPgtypeTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func uuidToPgtype(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func pgtypeUUIDToUUID(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.Nil
	}
	return uuid.UUID(id.Bytes)
}

func pgtypeTextToString(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

func scanEvent(row pgx.Row) (entities.Event, error) {
	var (
		id                 pgtype.UUID
		start, end, create pgtype.Timestamptz
		e                  entities.Event
	)
	err := row.Scan(&id, &e.GuildID, &e.ChannelName, &start, &end, &e.StartMessage, &e.EndMessage,
		&e.ResponseMessage, &e.Pass, &e.FileURL, &e.CreatedBy, &create, &e.IsActive, &e.IsWhitelisted)
	if err != nil {
		return entities.Event{}, err
	}
	e.ID = pgtypeUUIDToUUID(id)
	e.StartAt = pgtypeTimestamptzToTime(start)
	e.EndAt = pgtypeTimestamptzToTime(end)
	e.CreatedAt = pgtypeTimestamptzToTime(create)
	return e, nil
}

func scanCode(row pgx.Row) (entities.Code, error) {
	var (
		eventID  pgtype.UUID
		username pgtype.Text
		claimed  pgtype.Timestamptz
		c        entities.Code
	)
	if err := row.Scan(&c.ID, &c.Value, &eventID, &username, &claimed); err != nil {
		return entities.Code{}, err
	}
	c.EventID = pgtypeUUIDToUUID(eventID)
	c.ClaimedBy = pgtypeTextToString(username)
	c.ClaimedAt = pgtypeTimestamptzToTime(claimed)
	return c, nil
}
