package domain

// Event lifecycle states, derived from the event window and the active flag.
const (
	StatusPending = "pending"
	StatusActive  = "active"
	StatusEnded   = "ended"
)
