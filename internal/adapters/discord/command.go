package discord

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"codedrop/internal/domain"
	pkgdiscord "codedrop/pkg/discord"
)

const (
	commandSetup        = "setup"
	commandStatus       = "status"
	commandInstructions = "instructions"
)

// organizerPermissions grants access to !setup and !status.
const organizerPermissions = discordgo.PermissionManageGuild | discordgo.PermissionAdministrator

// parseCommand extracts the command name from a guild message, lower-cased.
// ok is false when content is not one of the bot's commands.
func parseCommand(content, prefix string) (name string, ok bool) {
	content = strings.TrimSpace(content)
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", false
	}
	name = strings.ToLower(fields[0])
	switch name {
	case commandSetup, commandStatus, commandInstructions:
		return name, true
	}
	return "", false
}

// HandleGuildMessage answers the public commands typed in a guild channel.
func (h *Handler) HandleGuildMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	name, ok := parseCommand(m.Content, h.prefix)
	if !ok {
		return
	}
	ctx := context.Background()
	switch name {
	case commandSetup:
		h.handleSetup(ctx, s, m)
	case commandStatus:
		h.handleStatus(ctx, s, m)
	case commandInstructions:
		replyPublic(s, m, h.t("command.instructions", nil))
	}
}

func (h *Handler) handleSetup(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	userID := m.Author.ID
	if !h.requireOrganizer(s, m) {
		return
	}

	err := h.setupUseCase.Begin(ctx, userID, m.GuildID, channelName(s, m.ChannelID))
	data := map[string]any{"User": userID}
	switch {
	case err == nil:
		replyPublic(s, m, h.t("command.setup.started", data))
	case errors.Is(err, domain.ErrSessionOpen):
		replyPublic(s, m, h.t("command.setup.already_open", data))
	case errors.Is(err, domain.ErrDMUnavailable):
		log.Printf("❌ MP impossible pour %s: %v", userID, err)
		replyPublic(s, m, h.t("command.setup.dm_failed", data))
	default:
		log.Printf("❌ Démarrage configuration pour %s: %v", userID, err)
		replyPublic(s, m, pkgdiscord.DomainErrorMessage(h.tr, h.locale, err))
	}
}

// handleStatus sends the report privately; it names channels and windows of
// events still open for claims.
func (h *Handler) handleStatus(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	if !h.requireOrganizer(s, m) {
		return
	}
	statuses, err := h.eventUseCase.GuildStatus(ctx, m.GuildID)
	if err != nil {
		log.Printf("❌ Statut des événements (serveur %s): %v", m.GuildID, err)
		replyPublic(s, m, pkgdiscord.DomainErrorMessage(h.tr, h.locale, err))
		return
	}
	data := map[string]any{"User": m.Author.ID}
	embed := pkgdiscord.BuildStatusEmbed(statuses, h.tr, h.locale, h.location)
	if err := sendPrivateEmbed(s, m.Author.ID, embed); err != nil {
		log.Printf("❌ MP statut impossible pour %s: %v", m.Author.ID, err)
		replyPublic(s, m, h.t("command.setup.dm_failed", data))
		return
	}
	replyPublic(s, m, h.t("command.status.sent", data))
}

func (h *Handler) requireOrganizer(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if h.isOrganizer(s, m) {
		return true
	}
	log.Printf("⚠️ Commande refusée pour %s (serveur %s) : %v", m.Author.ID, m.GuildID, domain.ErrNotOrganizer)
	replyPublic(s, m, h.t("command.not_organizer", nil))
	return false
}

// isOrganizer reports whether the author has Manage Server, Administrator or
// the configured organizer role.
func (h *Handler) isOrganizer(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.Member != nil && m.Member.Permissions&organizerPermissions != 0 {
		return true
	}
	if h.organizerRole != "" && m.Member != nil {
		if hasRoleNamed(guildRoles(s, m.GuildID), m.Member.Roles, h.organizerRole) {
			return true
		}
	}
	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		log.Printf("⚠️ Permissions de %s introuvables: %v", m.Author.ID, err)
		return false
	}
	return perms&organizerPermissions != 0
}

// hasRoleNamed reports whether one of memberRoles (role IDs) is the guild
// role called name, compared without case.
func hasRoleNamed(roles []*discordgo.Role, memberRoles []string, name string) bool {
	if name == "" {
		return false
	}
	held := make(map[string]bool, len(memberRoles))
	for _, id := range memberRoles {
		held[id] = true
	}
	for _, r := range roles {
		if r != nil && held[r.ID] && strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}

func guildRoles(s *discordgo.Session, guildID string) []*discordgo.Role {
	if s.State != nil {
		if g, err := s.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
			return g.Roles
		}
	}
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		log.Printf("⚠️ Rôles du serveur %s introuvables: %v", guildID, err)
		return nil
	}
	return roles
}
