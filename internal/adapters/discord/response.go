package discord

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// replyPublic answers a guild message in its channel.
func replyPublic(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	if _, err := s.ChannelMessageSendReply(m.ChannelID, content, m.Reference()); err != nil {
		log.Printf("❌ Réponse dans le salon %s: %v", m.ChannelID, err)
	}
}

// replyPrivate answers a direct message in the same DM channel.
func replyPrivate(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	for _, part := range splitMessage(content, maxMessageLength) {
		if _, err := s.ChannelMessageSend(m.ChannelID, part); err != nil {
			log.Printf("❌ Réponse MP à %s: %v", m.Author.ID, err)
			return
		}
	}
}

// sendPrivateEmbed opens a DM with userID and posts embed there.
func sendPrivateEmbed(s *discordgo.Session, userID string, embed *discordgo.MessageEmbed) error {
	ch, err := s.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = s.ChannelMessageSendEmbed(ch.ID, embed)
	return err
}

func channelName(s *discordgo.Session, channelID string) string {
	if s.State != nil {
		if ch, err := s.State.Channel(channelID); err == nil {
			return ch.Name
		}
	}
	ch, err := s.Channel(channelID)
	if err != nil {
		return ""
	}
	return ch.Name
}
