package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"codedrop/internal/domain"
	"codedrop/internal/ports/input"
	"codedrop/internal/ports/output"
	"codedrop/pkg/tz"
)

const (
	embedColor = 0x5865F2
	// Discord rejects embeds with more fields than this.
	maxEmbedFields = 25
)

// BuildStatusEmbed renders the !status report: one field per event with its
// countdown and how many codes were handed out. Passes are never included.
func BuildStatusEmbed(statuses []input.EventStatus, tr output.T, locale string, loc *time.Location) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: tr.T(locale, "command.status.title", nil),
		Color: embedColor,
	}
	if len(statuses) == 0 {
		embed.Description = tr.T(locale, "command.status.empty", nil)
		return embed
	}

	for i, st := range statuses {
		if i == maxEmbedFields {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("+%d…", len(statuses)-maxEmbedFields)}
			break
		}
		window := map[string]any{
			"Start": Countdown(st.Event.StartAt, loc),
			"End":   Countdown(st.Event.EndAt, loc),
		}
		var line string
		switch st.Status {
		case domain.StatusPending:
			line = tr.T(locale, "command.status.pending", window)
		case domain.StatusActive:
			line = tr.T(locale, "command.status.active", window)
		default:
			line = tr.T(locale, "command.status.ended", window)
		}
		codes := tr.T(locale, "command.status.codes", map[string]any{
			"Claimed": st.Stats.Claimed,
			"Total":   st.Stats.Total,
		})
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s #%s • %s", statusIcon(st.Status), st.Event.ChannelName, tz.Format(st.Event.StartAt, loc)),
			Value: line + "\n" + codes,
		})
	}
	return embed
}

func statusIcon(status string) string {
	switch status {
	case domain.StatusPending:
		return "🕐"
	case domain.StatusActive:
		return "🟢"
	default:
		return "🏁"
	}
}
