package discord

import (
	"context"

	"reactbot/internal/platform"

	"github.com/bwmarrin/discordgo"
)

// Chat implements platform.Platform on a discordgo session.
type Chat struct {
	api restAPI
}

func NewChat(api restAPI) *Chat {
	return &Chat{api: api}
}

func (c *Chat) AddReaction(ctx context.Context, channelID, messageID, token string) error {
	err := c.api.MessageReactionAdd(channelID, messageID, normalizeEmoji(token), discordgo.WithContext(ctx))
	return classify("add_reaction", err)
}

func (c *Chat) SendMessage(ctx context.Context, channelID, text string) (platform.MessageHandle, error) {
	m, err := c.api.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return platform.MessageHandle{}, classify("send_message", err)
	}
	return platform.MessageHandle{ChannelID: channelID, MessageID: m.ID}, nil
}

func (c *Chat) DeleteMessage(ctx context.Context, h platform.MessageHandle) error {
	err := c.api.ChannelMessageDelete(h.ChannelID, h.MessageID, discordgo.WithContext(ctx))
	return classify("delete_message", err)
}
