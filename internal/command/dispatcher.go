package command

import (
	"context"
	"errors"
	"fmt"

	"reactbot/internal/metrics"
	"reactbot/internal/mock"
	"reactbot/internal/platform"
	"reactbot/internal/storage"
	"reactbot/pkg/cmd"

	"github.com/rs/zerolog"
)

const (
	invalidModeReply = "❌ Invalid mode. Use 1 (copy), 2 (alternating caps), 3 (leetspeak)"
	failureReply     = "⚠️ Something went wrong, the change may not have been saved."
)

// Dispatcher turns prefixed chat messages into command runs.
type Dispatcher struct {
	deps     *Deps
	registry *cmd.Registry
	log      zerolog.Logger
}

// NewDispatcher registers the built-in command set.
func NewDispatcher(deps Deps) (*Dispatcher, error) {
	if deps.Prefix == "" {
		deps.Prefix = "!"
	}
	deps.Log = deps.Log.With().Str("component", "command").Logger()

	d := &Dispatcher{
		deps:     &deps,
		registry: cmd.NewRegistry(),
		log:      deps.Log,
	}
	if err := d.registerAll(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dispatcher) registerAll() error {
	authorized := []cmd.Middleware{WithAuthorization(d.deps.Store), WithCommandLog(d.log)}
	commandUser := []cmd.Middleware{WithCommandUser(d.deps.Store), WithCommandLog(d.log)}

	entries := []struct {
		c   cmd.Command
		mws []cmd.Middleware
	}{
		{&AddEmojiCommand{d.deps}, authorized},
		{&RemoveEmojiCommand{d.deps}, authorized},
		{&ListEmojisCommand{d.deps}, authorized},
		{&SetMockCommand{d.deps}, authorized},
		{&RemoveMockCommand{d.deps}, authorized},
		{&ListMocksCommand{d.deps}, authorized},
		{newAllowUser(d.deps), commandUser},
		{newRemoveUser(d.deps), commandUser},
		{newAllowRole(d.deps), commandUser},
		{newRemoveRole(d.deps), commandUser},
		{&ShowWhitelistCommand{d.deps}, authorized},
		{&PurgeCommand{d.deps}, authorized},
		{&PureCommand{d.deps}, authorized},
		{&HelpCommand{deps: d.deps, registry: d.registry}, authorized},
	}

	for _, e := range entries {
		if err := d.registry.Register(cmd.Apply(e.c, e.mws...)); err != nil {
			return err
		}
	}
	return nil
}

// Commands lists the registered commands sorted by name.
func (d *Dispatcher) Commands() []cmd.Command {
	return d.registry.GetAll()
}

// Dispatch runs the command named by ev, if any. Bot authors and unknown
// names are ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, ev platform.MessageCreated) {
	if ev.AuthorIsBot {
		return
	}

	inv, ok := cmd.Parse(d.deps.Prefix, ev.Content)
	if !ok {
		return
	}
	c := d.registry.Get(inv.Name)
	if c == nil {
		return
	}

	mc := &MessageContext{
		Event:     ev,
		Principal: storage.Principal{UserID: ev.AuthorID, RoleIDs: ev.AuthorRoleIDs},
	}
	inv.Data = mc

	err := c.Run(ctx, inv)
	metrics.CommandsHandled.WithLabelValues(c.Name(), outcome(err)).Inc()
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, storage.ErrUnauthorized):
		d.log.Debug().Str("command", c.Name()).Str("user", ev.AuthorID).Msg("Unauthorized command ignored")
	case errors.Is(err, mock.ErrInvalidMode):
		d.answer(ctx, mc, invalidModeReply)
	case errors.Is(err, errUsage), errors.Is(err, storage.ErrInvalidID):
		d.answer(ctx, mc, fmt.Sprintf("Usage: `%s%s %s`", d.deps.Prefix, c.Name(), c.Usage()))
	default:
		var pe *platform.Error
		if errors.As(err, &pe) {
			// The reply itself failed; answering again would fail the same way.
			d.log.Warn().Err(err).Str("command", c.Name()).Msg("Command reply failed")
			return
		}
		d.log.Error().Err(err).Str("command", c.Name()).Str("user", ev.AuthorID).Msg("Command failed")
		d.answer(ctx, mc, failureReply)
	}
}

func (d *Dispatcher) answer(ctx context.Context, mc *MessageContext, text string) {
	if err := d.deps.reply(ctx, mc, text); err != nil {
		d.log.Warn().Err(err).Str("channel", mc.Event.ChannelID).Msg("Failed to send reply")
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, storage.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, errUsage), errors.Is(err, storage.ErrInvalidID), errors.Is(err, mock.ErrInvalidMode):
		return "invalid"
	default:
		return "error"
	}
}
