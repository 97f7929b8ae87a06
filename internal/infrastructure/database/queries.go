package database

const eventColumns = `id, server, channel, start_date, end_date, start_message, end_message,
	response_message, pass, file_url, created_by, created_date, is_active, is_whitelisted`

const (
	createEventSQL = `
INSERT INTO events (id, server, channel, start_date, end_date, start_message, end_message,
	response_message, pass, file_url, created_by, created_date, is_active, is_whitelisted)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING created_date`

	getEventByIDSQL = `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	getEventsByServerSQL = `SELECT ` + eventColumns + `
FROM events WHERE server = $1
ORDER BY start_date DESC`

	findUnfinishedEventsSQL = `SELECT ` + eventColumns + `
FROM events WHERE is_active AND end_date > $1
ORDER BY start_date`

	getLatestEventByCreatorSQL = `SELECT ` + eventColumns + `
FROM events WHERE server = $1 AND created_by = $2
ORDER BY created_date DESC
LIMIT 1`

	markEventInactiveSQL = `UPDATE events SET is_active = FALSE WHERE id = $1`
)

const (
	insertCodeSQL = `
INSERT INTO codes (code, event_id) VALUES ($1, $2)
ON CONFLICT ON CONSTRAINT codes_event_code_key DO NOTHING`

	claimantExistsSQL = `SELECT EXISTS (SELECT 1 FROM codes WHERE event_id = $1 AND username = $2)`

	// A random unclaimed row, skipping rows another claim transaction holds.
	claimCodeSQL = `
UPDATE codes SET username = $2, claimed_date = $3
WHERE id = (
	SELECT id FROM codes
	WHERE event_id = $1 AND username IS NULL
	ORDER BY random()
	LIMIT 1
	FOR UPDATE SKIP LOCKED
) AND username IS NULL
RETURNING id, code, event_id, username, claimed_date`

	unclaimedExistsSQL = `SELECT EXISTS (SELECT 1 FROM codes WHERE event_id = $1 AND username IS NULL)`

	codeStatsSQL = `SELECT count(*), count(username) FROM codes WHERE event_id = $1`
)

const isBannedSQL = `SELECT EXISTS (SELECT 1 FROM banned WHERE user_id = $1)`
