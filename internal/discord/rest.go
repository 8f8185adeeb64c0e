package discord

import (
	"errors"
	"net/http"
	"regexp"

	"reactbot/internal/platform"

	"github.com/bwmarrin/discordgo"
)

// restAPI is the slice of *discordgo.Session the adapter calls.
type restAPI interface {
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
}

var _ restAPI = (*discordgo.Session)(nil)

// classify wraps a discordgo error into a platform.Error with a failure
// kind derived from the HTTP status.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	pe := &platform.Error{Op: op, Err: err}

	var rl *discordgo.RateLimitError
	var rest *discordgo.RESTError
	switch {
	case errors.As(err, &rl):
		pe.Status = http.StatusTooManyRequests
	case errors.As(err, &rest) && rest.Response != nil:
		pe.Status = rest.Response.StatusCode
	}

	switch pe.Status {
	case http.StatusTooManyRequests:
		pe.Kind = platform.FailureRateLimited
	case http.StatusForbidden:
		pe.Kind = platform.FailureForbidden
	case http.StatusNotFound:
		pe.Kind = platform.FailureNotFound
	}
	return pe
}

var customEmoji = regexp.MustCompile(`^<a?:(\w+:\d+)>$`)

// normalizeEmoji turns <:name:id> and <a:name:id> into the name:id form the
// reactions endpoint expects. Anything else passes through untouched.
func normalizeEmoji(token string) string {
	if m := customEmoji.FindStringSubmatch(token); m != nil {
		return m[1]
	}
	return token
}
