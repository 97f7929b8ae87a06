package discord

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"codedrop/internal/domain"
	"codedrop/internal/ports/output"
)

// Discord refuses message content longer than this many characters.
const maxMessageLength = 2000

// Messenger implements output.Messenger on top of a discordgo session.
type Messenger struct {
	session *discordgo.Session
}

var _ output.Messenger = (*Messenger)(nil)

func NewMessenger(s *discordgo.Session) *Messenger {
	return &Messenger{session: s}
}

func (m *Messenger) ChannelExists(ctx context.Context, guildID, name string) (bool, error) {
	ch, err := m.findChannel(ctx, guildID, name)
	if err != nil {
		return false, err
	}
	return ch != nil, nil
}

func (m *Messenger) Announce(ctx context.Context, guildID, channelName, content string) error {
	ch, err := m.findChannel(ctx, guildID, channelName)
	if err != nil {
		return err
	}
	if ch == nil {
		return fmt.Errorf("%w: #%s", domain.ErrUnknownChannel, channelName)
	}
	return m.send(ctx, ch.ID, content)
}

func (m *Messenger) DirectMessage(ctx context.Context, userID, content string) error {
	ch, err := m.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDMUnavailable, err)
	}
	if err := m.send(ctx, ch.ID, content); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDMUnavailable, err)
	}
	return nil
}

func (m *Messenger) send(ctx context.Context, channelID, content string) error {
	for _, part := range splitMessage(content, maxMessageLength) {
		if _, err := m.session.ChannelMessageSend(channelID, part, discordgo.WithContext(ctx)); err != nil {
			return err
		}
	}
	return nil
}

// findChannel looks the channel up in the gateway state first and falls back
// to the REST API. A nil channel with a nil error means no such channel.
func (m *Messenger) findChannel(ctx context.Context, guildID, name string) (*discordgo.Channel, error) {
	if m.session.State != nil {
		if g, err := m.session.State.Guild(guildID); err == nil {
			if ch := matchTextChannel(g.Channels, name); ch != nil {
				return ch, nil
			}
		}
	}
	channels, err := m.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("liste des salons du serveur %s: %w", guildID, err)
	}
	return matchTextChannel(channels, name), nil
}

// matchTextChannel finds a text or announcement channel by name, ignoring case
// and a leading '#'.
func matchTextChannel(channels []*discordgo.Channel, name string) *discordgo.Channel {
	name = strings.TrimPrefix(strings.TrimSpace(name), "#")
	if name == "" {
		return nil
	}
	for _, ch := range channels {
		if ch == nil {
			continue
		}
		if ch.Type != discordgo.ChannelTypeGuildText && ch.Type != discordgo.ChannelTypeGuildNews {
			continue
		}
		if strings.EqualFold(ch.Name, name) {
			return ch
		}
	}
	return nil
}

// splitMessage cuts content into chunks of at most limit runes, preferring
// line breaks.
func splitMessage(content string, limit int) []string {
	if utf8.RuneCountInString(content) <= limit {
		return []string{content}
	}
	var parts []string
	runes := []rune(content)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
