package output

import "context"

// Messenger is the chat transport as seen by the application layer.
type Messenger interface {
	// ChannelExists reports whether guildID has a text channel called name.
	ChannelExists(ctx context.Context, guildID, name string) (bool, error)
	// Announce posts content to the channel called name in guildID.
	Announce(ctx context.Context, guildID, channelName, content string) error
	// DirectMessage sends content privately to userID.
	DirectMessage(ctx context.Context, userID, content string) error
}
