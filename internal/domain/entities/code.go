package entities

import (
	"time"

	"github.com/google/uuid"
)

// Code is a single-use redemption token of one event. ClaimedBy stays empty
// until a successful claim and never changes afterwards.
type Code struct {
	ID        int64
	EventID   uuid.UUID
	Value     string
	ClaimedBy string
	ClaimedAt time.Time
}

// Claimed reports whether the code has been handed out.
func (c *Code) Claimed() bool {
	return c.ClaimedBy != ""
}

// PoolStats summarizes an event's code pool.
type PoolStats struct {
	Total   int
	Claimed int
}

// Remaining is the number of codes still available.
func (s PoolStats) Remaining() int {
	return s.Total - s.Claimed
}
