package discord

import (
	"reactbot/internal/platform"

	"github.com/bwmarrin/discordgo"
)

// toMessageCreated reports false for events without a message or author.
func toMessageCreated(m *discordgo.MessageCreate) (platform.MessageCreated, bool) {
	if m == nil || m.Message == nil || m.Author == nil {
		return platform.MessageCreated{}, false
	}

	ev := platform.MessageCreated{
		MessageID:   m.ID,
		ChannelID:   m.ChannelID,
		GuildID:     m.GuildID,
		AuthorID:    m.Author.ID,
		AuthorIsBot: m.Author.Bot,
		Content:     m.Content,
	}
	// Member is only present for guild messages.
	if m.Member != nil {
		ev.AuthorRoleIDs = append([]string(nil), m.Member.Roles...)
	}
	return ev, true
}

func toMessageDeleted(m *discordgo.MessageDelete) platform.MessageDeleted {
	if m == nil || m.Message == nil {
		return platform.MessageDeleted{}
	}
	return platform.MessageDeleted{MessageID: m.ID, ChannelID: m.ChannelID}
}
