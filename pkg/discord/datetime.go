package discord

import (
	"fmt"
	"time"

	"codedrop/pkg/tz"
)

// Discord timestamp styles, rendered by each client in its own time zone.
const (
	StyleRelative      = "R"
	StyleShortDateTime = "f"
)

// Timestamp renders t as Discord timestamp markup (<t:unix:style>).
func Timestamp(t time.Time, style string) string {
	if t.IsZero() {
		return ""
	}
	if style == "" {
		return fmt.Sprintf("<t:%d>", t.Unix())
	}
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

// Countdown renders t relative to the reader ("in 2 hours", "3 minutes ago")
// followed by the absolute time in loc for clients that do not expand markup.
func Countdown(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s (%s)", Timestamp(t, StyleRelative), tz.Format(t, loc))
}
