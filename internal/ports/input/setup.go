package input

import (
	"context"

	"codedrop/internal/domain/entities"
)

// Attachment is a file uploaded alongside a wizard answer.
type Attachment struct {
	Filename string
	URL      string
}

// Reply is one organizer answer to the setup wizard.
type Reply struct {
	Text        string
	Attachments []Attachment
}

// EffectKind classifies what a wizard answer produced.
type EffectKind int

const (
	EffectPrompt EffectKind = iota
	EffectRejected
	EffectCompleted
	EffectCancelled
)

// Effect is the outcome of one Submit. Text is the message sent to the organizer.
type Effect struct {
	Kind  EffectKind
	Text  string
	Event *entities.Event
}

type SetupUseCase interface {
	Begin(ctx context.Context, organizerID, guildID, invokingChannel string) error
	Submit(ctx context.Context, organizerID string, reply Reply) (Effect, error)
	HasSession(organizerID string) bool
	Cancel(organizerID string) bool
}
