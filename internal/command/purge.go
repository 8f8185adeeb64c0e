package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"reactbot/pkg/cmd"
	"reactbot/pkg/jobmgr"
)

const purgeBusyReply = "⏳ A purge is already running in this channel."

func purgeJobName(channelID string) string {
	return "purge:" + channelID
}

func parseAmount(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, errUsage
	}
	return n, nil
}

// startPurge runs work as the channel's purge job and posts summary(n)
// when it returns. Only one purge per channel runs at a time.
func (d *Deps) startPurge(ctx context.Context, mc *MessageContext, work func(context.Context) (int, error), summary func(int) string) error {
	channelID := mc.Event.ChannelID

	err := d.Jobs.StartAsync(purgeJobName(channelID), func(jobCtx context.Context) error {
		n, err := work(jobCtx)
		if err != nil {
			d.Log.Warn().Err(err).Str("channel", channelID).Int("deleted", n).Msg("Purge stopped early")
		}
		if jobCtx.Err() == nil {
			d.replyTransient(jobCtx, channelID, summary(n))
		}
		return err
	})
	if errors.Is(err, jobmgr.ErrJobRunning) {
		return d.reply(ctx, mc, purgeBusyReply)
	}
	return err
}

type PurgeCommand struct{ deps *Deps }

func (c *PurgeCommand) Name() string        { return "purge" }
func (c *PurgeCommand) Usage() string       { return "<amount>" }
func (c *PurgeCommand) Description() string { return "Delete the most recent messages in this channel" }

func (c *PurgeCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv.Data)
	if err != nil {
		return err
	}
	amount, err := parseAmount(inv.Arg(0))
	if err != nil {
		return err
	}

	channelID := mc.Event.ChannelID
	return c.deps.startPurge(ctx, mc,
		func(jobCtx context.Context) (int, error) {
			return c.deps.Purger.PurgeRecent(jobCtx, channelID, amount)
		},
		func(n int) string { return fmt.Sprintf("🧹 Deleted %d messages.", n) },
	)
}

// PureCommand deletes up to amount messages by one user among the most
// recent PurgeScanLimit messages of the channel.
type PureCommand struct{ deps *Deps }

func (c *PureCommand) Name() string        { return "pure" }
func (c *PureCommand) Usage() string       { return "<user> <amount>" }
func (c *PureCommand) Description() string { return "Delete a user's recent messages in this channel" }

func (c *PureCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv.Data)
	if err != nil {
		return err
	}
	userID, err := parseUser(inv.Arg(0))
	if err != nil {
		return err
	}
	amount, err := parseAmount(inv.Arg(1))
	if err != nil {
		return err
	}

	channelID := mc.Event.ChannelID
	scan := c.deps.PurgeScanLimit
	return c.deps.startPurge(ctx, mc,
		func(jobCtx context.Context) (int, error) {
			return c.deps.Purger.PurgeByAuthor(jobCtx, channelID, userID, scan, amount)
		},
		func(n int) string { return fmt.Sprintf("🧼 Deleted %d messages from %s.", n, mention(userID)) },
	)
}
