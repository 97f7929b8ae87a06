package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"codedrop/internal/domain"
)

// CodePlaceholder is substituted with the allocated code in ResponseMessage.
const CodePlaceholder = "{code}"

// Event is one time-boxed code distribution in a guild.
type Event struct {
	ID              uuid.UUID
	GuildID         string
	ChannelName     string // announcement channel, stored by name
	StartAt         time.Time
	EndAt           time.Time
	StartMessage    string
	EndMessage      string
	ResponseMessage string // private reply template, contains CodePlaceholder
	Pass            string
	FileURL         string
	CreatedBy       string
	CreatedAt       time.Time
	IsActive        bool
	IsWhitelisted   bool
}

// Status places the event on its pending -> active -> ended lifecycle at now.
// An event whose active flag was cleared is ended regardless of its window.
func (e *Event) Status(now time.Time) string {
	switch {
	case !e.IsActive || !now.Before(e.EndAt):
		return domain.StatusEnded
	case now.Before(e.StartAt):
		return domain.StatusPending
	default:
		return domain.StatusActive
	}
}

// Open reports whether claims are accepted at now.
func (e *Event) Open(now time.Time) bool {
	return e.Status(now) == domain.StatusActive
}

// NormalizedPass is the pass in its comparison form.
func (e *Event) NormalizedPass() string {
	return domain.NormalizePass(e.Pass)
}

// RenderResponse fills the private reply template with code.
func (e *Event) RenderResponse(code string) string {
	return strings.ReplaceAll(e.ResponseMessage, CodePlaceholder, code)
}
