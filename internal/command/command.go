// Package command implements the prefix chat commands that manage the
// roster, per-user reactions, mock targets and channel purges.
package command

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"reactbot/internal/platform"
	"reactbot/internal/storage"
	"reactbot/pkg/jobmgr"

	"github.com/rs/zerolog"
)

// errUsage makes the dispatcher answer with the command's usage line.
var errUsage = errors.New("bad arguments")

// Purger removes messages in bulk. The Discord adapter implements it.
type Purger interface {
	PurgeRecent(ctx context.Context, channelID string, limit int) (int, error)
	PurgeByAuthor(ctx context.Context, channelID, authorID string, scanLimit, limit int) (int, error)
}

// Deps is what every command needs to do its work.
type Deps struct {
	Store  *storage.Storage
	Chat   platform.Platform
	Purger Purger
	Jobs   *jobmgr.Manager
	Log    zerolog.Logger

	Prefix         string
	PurgeScanLimit int
	PurgeReplyTTL  time.Duration
}

// MessageContext is carried in cmd.Invocation.Data for chat commands.
type MessageContext struct {
	Event     platform.MessageCreated
	Principal storage.Principal
}

func messageContext(data any) (*MessageContext, error) {
	mc, ok := data.(*MessageContext)
	if !ok || mc == nil {
		return nil, fmt.Errorf("wrong context type %T", data)
	}
	return mc, nil
}

func (d *Deps) reply(ctx context.Context, mc *MessageContext, text string) error {
	_, err := d.Chat.SendMessage(ctx, mc.Event.ChannelID, text)
	return err
}

// replyTransient posts text and removes it again after PurgeReplyTTL.
func (d *Deps) replyTransient(ctx context.Context, channelID, text string) {
	h, err := d.Chat.SendMessage(ctx, channelID, text)
	if err != nil {
		d.Log.Warn().Err(err).Str("channel", channelID).Msg("Failed to send purge summary")
		return
	}

	time.AfterFunc(d.PurgeReplyTTL, func() {
		if err := d.Chat.DeleteMessage(context.Background(), h); err != nil {
			d.Log.Debug().Err(err).Str("message", h.MessageID).Msg("Purge summary not deleted")
		}
	})
}

var (
	userMention = regexp.MustCompile(`^<@!?(\d+)>$`)
	roleMention = regexp.MustCompile(`^<@&(\d+)>$`)
)

// parseUser accepts <@id>, <@!id> or a bare id.
func parseUser(arg string) (string, error) {
	if m := userMention.FindStringSubmatch(arg); m != nil {
		arg = m[1]
	}
	if _, err := storage.ParseID(arg); err != nil {
		return "", err
	}
	return arg, nil
}

// parseRole accepts <@&id> or a bare id.
func parseRole(arg string) (string, error) {
	if m := roleMention.FindStringSubmatch(arg); m != nil {
		arg = m[1]
	}
	if _, err := storage.ParseID(arg); err != nil {
		return "", err
	}
	return arg, nil
}

func mention(userID string) string {
	return "<@" + userID + ">"
}

func joinOr(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, " ")
}
