package discord

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"codedrop/internal/domain"
	"codedrop/internal/domain/entities"
	"codedrop/internal/ports/input"
)

// keyTranslator echoes the key and its data so assertions stay independent
// of the catalogs.
type keyTranslator struct{}

func (keyTranslator) T(_, key string, data map[string]any) string {
	if len(data) == 0 {
		return key
	}
	return fmt.Sprintf("%s%v", key, data)
}

func TestTimestamp(t *testing.T) {
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		style string
		want  string
	}{
		{style: StyleRelative, want: "<t:1704103200:R>"},
		{style: StyleShortDateTime, want: "<t:1704103200:f>"},
		{style: "", want: "<t:1704103200>"},
	}
	for _, tt := range tests {
		if got := Timestamp(at, tt.style); got != tt.want {
			t.Errorf("Timestamp(%q) = %q, want %q", tt.style, got, tt.want)
		}
	}
	if got := Timestamp(time.Time{}, StyleRelative); got != "" {
		t.Errorf("Timestamp(zero) = %q, want empty", got)
	}
}

func TestCountdown(t *testing.T) {
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	got := Countdown(at, time.UTC)
	if got != "<t:1704103200:R> (2024-01-01 10:00)" {
		t.Errorf("Countdown() = %q", got)
	}
}

func TestBuildStatusEmbed(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	statuses := []input.EventStatus{
		{
			Event:  entities.Event{ID: uuid.New(), ChannelName: "general", Pass: "launch", StartAt: start, EndAt: start.Add(time.Hour)},
			Status: domain.StatusActive,
			Stats:  entities.PoolStats{Total: 3, Claimed: 1},
		},
		{
			Event:  entities.Event{ID: uuid.New(), ChannelName: "news", Pass: "later", StartAt: start.Add(24 * time.Hour), EndAt: start.Add(25 * time.Hour)},
			Status: domain.StatusPending,
		},
	}
	embed := BuildStatusEmbed(statuses, keyTranslator{}, "en", time.UTC)
	if embed.Title != "command.status.title" {
		t.Errorf("Title = %q", embed.Title)
	}
	if len(embed.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(embed.Fields))
	}
	if !strings.Contains(embed.Fields[0].Name, "#general") || !strings.Contains(embed.Fields[0].Name, "2024-01-01 10:00") {
		t.Errorf("Fields[0].Name = %q", embed.Fields[0].Name)
	}
	if !strings.HasPrefix(embed.Fields[0].Value, "command.status.active") || !strings.Contains(embed.Fields[0].Value, "Claimed:1") {
		t.Errorf("Fields[0].Value = %q", embed.Fields[0].Value)
	}
	if !strings.HasPrefix(embed.Fields[1].Value, "command.status.pending") {
		t.Errorf("Fields[1].Value = %q", embed.Fields[1].Value)
	}
}

func TestBuildStatusEmbedHidesPasses(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	var statuses []input.EventStatus
	for _, st := range []string{domain.StatusPending, domain.StatusActive, domain.StatusEnded} {
		statuses = append(statuses, input.EventStatus{
			Event:  entities.Event{ID: uuid.New(), ChannelName: "general", Pass: "secret-launch-" + st, StartAt: start, EndAt: start.Add(time.Hour)},
			Status: st,
			Stats:  entities.PoolStats{Total: 2},
		})
	}
	embed := BuildStatusEmbed(statuses, keyTranslator{}, "en", time.UTC)
	parts := []string{embed.Title, embed.Description}
	if embed.Footer != nil {
		parts = append(parts, embed.Footer.Text)
	}
	for _, f := range embed.Fields {
		parts = append(parts, f.Name, f.Value)
	}
	for _, p := range parts {
		if strings.Contains(p, "secret-launch") {
			t.Errorf("status embed exposes a pass: %q", p)
		}
	}
}

func TestBuildStatusEmbedEmptyAndOverflow(t *testing.T) {
	empty := BuildStatusEmbed(nil, keyTranslator{}, "en", time.UTC)
	if empty.Description != "command.status.empty" || len(empty.Fields) != 0 {
		t.Errorf("empty embed = %+v", empty)
	}

	many := make([]input.EventStatus, maxEmbedFields+3)
	for i := range many {
		many[i] = input.EventStatus{Event: entities.Event{ChannelName: "c"}, Status: domain.StatusEnded}
	}
	full := BuildStatusEmbed(many, keyTranslator{}, "en", time.UTC)
	if len(full.Fields) != maxEmbedFields {
		t.Errorf("len(Fields) = %d, want %d", len(full.Fields), maxEmbedFields)
	}
	if full.Footer == nil || full.Footer.Text != "+3…" {
		t.Errorf("Footer = %+v", full.Footer)
	}
}

func TestErrorKey(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: domain.ErrUnknownChannel, want: "errors.unknown_channel"},
		{err: fmt.Errorf("wrap: %w", domain.ErrDuplicatePass), want: "errors.duplicate_pass"},
		{err: fmt.Errorf("boom"), want: "errors.generic"},
	}
	for _, tt := range tests {
		if got := ErrorKey(tt.err); got != tt.want {
			t.Errorf("ErrorKey(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestDomainErrorMessageFallsBackToGeneric(t *testing.T) {
	if got := DomainErrorMessage(keyTranslator{}, "en", nil); got != "" {
		t.Errorf("DomainErrorMessage(nil) = %q", got)
	}
	// keyTranslator echoes keys, which is how a missing catalog entry looks.
	if got := DomainErrorMessage(keyTranslator{}, "en", domain.ErrSessionOpen); got != "errors.generic" {
		t.Errorf("DomainErrorMessage(ErrSessionOpen) = %q, want errors.generic", got)
	}
}
