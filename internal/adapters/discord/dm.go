package discord

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"codedrop/internal/domain/entities"
	"codedrop/internal/ports/input"
)

// HandleDirectMessage routes a private message: to the author's setup
// dialogue when one is open, otherwise to the claim engine as a pass.
func (h *Handler) HandleDirectMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx := context.Background()
	userID := m.Author.ID

	if h.setupUseCase.HasSession(userID) {
		reply := input.Reply{Text: m.Content}
		for _, a := range m.Attachments {
			reply.Attachments = append(reply.Attachments, input.Attachment{Filename: a.Filename, URL: a.URL})
		}
		// Submit answers the organizer itself.
		if _, err := h.setupUseCase.Submit(ctx, userID, reply); err != nil {
			log.Printf("❌ Réponse de configuration de %s: %v", userID, err)
		}
		return
	}

	if !h.allowClaim(ctx, userID) {
		return
	}

	outcome, err := h.claimUseCase.HandlePrivateMessage(ctx, userID, m.Content)
	if err != nil {
		log.Printf("❌ Réclamation de %s: %v", userID, err)
		replyPrivate(s, m, h.t("errors.generic", nil))
		return
	}
	if text := h.outcomeReply(outcome); text != "" {
		replyPrivate(s, m, text)
	}
}

// allowClaim applies the per-user claim rate. A limiter failure lets the
// message through.
func (h *Handler) allowClaim(ctx context.Context, userID string) bool {
	if h.claimLimiter == nil {
		return true
	}
	lctx, err := h.claimLimiter.Get(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Limiteur indisponible pour %s: %v", userID, err)
		return true
	}
	if lctx.Reached {
		log.Printf("⚠️ Trop de tentatives pour %s, message ignoré", userID)
		return false
	}
	return true
}

// outcomeReply is the private answer for a claim outcome; "" means stay silent.
func (h *Handler) outcomeReply(outcome entities.ClaimOutcome) string {
	switch outcome.Kind {
	case entities.OutcomeClaimed:
		return outcome.Reply
	case entities.OutcomeAlreadyClaimed:
		return h.t("claim.already_claimed", nil)
	case entities.OutcomeNoMatch, entities.OutcomeExhausted:
		return h.t("claim.no_match", nil)
	default:
		return ""
	}
}
