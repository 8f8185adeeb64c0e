package command

import (
	"context"
	"time"

	"reactbot/internal/storage"
	"reactbot/pkg/cmd"

	"github.com/rs/zerolog"
)

// WithAuthorization lets through principals that are listed users or hold a
// listed role. Everyone else gets storage.ErrUnauthorized, which the
// dispatcher never answers.
func WithAuthorization(store *storage.Storage) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			mc, err := messageContext(inv.Data)
			if err != nil {
				return err
			}
			if !store.IsAuthorized(mc.Principal) {
				return storage.ErrUnauthorized
			}
			return c.Run(ctx, inv)
		})
	}
}

// WithCommandUser only admits principals listed by user id. Roles are not
// enough to edit the roster.
func WithCommandUser(store *storage.Storage) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			mc, err := messageContext(inv.Data)
			if err != nil {
				return err
			}
			if !store.IsCommandUser(mc.Principal.UserID) {
				return storage.ErrUnauthorized
			}
			return c.Run(ctx, inv)
		})
	}
}

// WithCommandLog records who ran what and how long it took.
func WithCommandLog(log zerolog.Logger) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)

			ev := log.Debug()
			if mc, ok := inv.Data.(*MessageContext); ok {
				ev = ev.Str("user", mc.Event.AuthorID).Str("channel", mc.Event.ChannelID)
			}
			ev.Str("command", c.Name()).
				Strs("args", inv.Args).
				Dur("took", time.Since(start)).
				AnErr("result", err).
				Msg("Command executed")
			return err
		})
	}
}
