// Package pipeline applies stored behaviors to live message traffic.
package pipeline

import (
	"context"

	"reactbot/internal/metrics"
	"reactbot/internal/mock"
	"reactbot/internal/platform"
	"reactbot/internal/shadow"

	"github.com/rs/zerolog"
)

// Dispatcher receives every created message before behaviors run. Command
// handling lives behind it.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev platform.MessageCreated)
}

// Behaviors is the read side of the per-user behavior store.
type Behaviors interface {
	Emojis(userID string) []string
	MockMode(userID string) (mock.Mode, bool)
}

// Pipeline handles one event at a time; callers deliver events in arrival
// order.
type Pipeline struct {
	platform   platform.Platform
	dispatcher Dispatcher
	behaviors  Behaviors
	shadows    *shadow.Tracker
	log        zerolog.Logger
}

func New(p platform.Platform, d Dispatcher, b Behaviors, shadows *shadow.Tracker, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		platform:   p,
		dispatcher: d,
		behaviors:  b,
		shadows:    shadows,
		log:        log.With().Str("component", "pipeline").Logger(),
	}
}

// HandleMessageCreated forwards ev to the dispatcher, then reacts and mocks
// on behalf of the author. Bot authors only reach the dispatcher.
func (p *Pipeline) HandleMessageCreated(ctx context.Context, ev platform.MessageCreated) {
	if p.dispatcher != nil {
		p.dispatcher.Dispatch(ctx, ev)
	}

	if ev.AuthorIsBot {
		return
	}

	p.react(ctx, ev)
	p.mock(ctx, ev)
}

// HandleMessageDeleted removes the shadow reply of a deleted origin message.
// The link is dropped whether or not the delete succeeds.
func (p *Pipeline) HandleMessageDeleted(ctx context.Context, ev platform.MessageDeleted) {
	h, ok := p.shadows.Lookup(ev.MessageID)
	if !ok {
		return
	}

	err := p.platform.DeleteMessage(ctx, h)
	p.shadows.Forget(ev.MessageID)

	if err == nil {
		metrics.ShadowReplies.WithLabelValues("deleted").Inc()
		p.log.Debug().Str("origin", ev.MessageID).Str("shadow", h.MessageID).Msg("Shadow reply deleted")
		return
	}

	metrics.ShadowReplies.WithLabelValues("delete_failed").Inc()
	switch kind := platform.KindOf(err); kind {
	case platform.FailureNotFound, platform.FailureForbidden:
		p.log.Debug().Err(err).Str("kind", kind.String()).Str("shadow", h.MessageID).Msg("Shadow reply not deleted")
	default:
		p.log.Warn().Err(err).Str("shadow", h.MessageID).Msg("Failed to delete shadow reply")
	}
}

// react adds the author's tokens in stored order. A failed token never
// stops the ones after it.
func (p *Pipeline) react(ctx context.Context, ev platform.MessageCreated) {
	for _, token := range p.behaviors.Emojis(ev.AuthorID) {
		err := p.platform.AddReaction(ctx, ev.ChannelID, ev.MessageID, token)
		if err == nil {
			metrics.ReactionsApplied.WithLabelValues("ok").Inc()
			continue
		}

		kind := platform.KindOf(err)
		metrics.ReactionsApplied.WithLabelValues(kind.String()).Inc()

		switch kind {
		case platform.FailureRateLimited, platform.FailureForbidden, platform.FailureNotFound:
			p.log.Debug().Err(err).Str("kind", kind.String()).Str("token", token).Msg("Reaction skipped")
		default:
			p.log.Warn().Err(err).Str("token", token).Str("message", ev.MessageID).Msg("Failed to add reaction")
		}
	}
}

func (p *Pipeline) mock(ctx context.Context, ev platform.MessageCreated) {
	mode, ok := p.behaviors.MockMode(ev.AuthorID)
	if !ok {
		return
	}

	text := mock.Transform(ev.Content, mode)
	if text == "" {
		p.log.Debug().Str("message", ev.MessageID).Msg("Nothing to mock in empty message")
		return
	}

	h, err := p.platform.SendMessage(ctx, ev.ChannelID, text)
	if err != nil {
		metrics.ShadowReplies.WithLabelValues("send_failed").Inc()
		p.log.Warn().Err(err).Str("kind", platform.KindOf(err).String()).Str("channel", ev.ChannelID).Msg("Failed to send shadow reply")
		return
	}

	p.shadows.Record(ev.MessageID, h)
	metrics.ShadowReplies.WithLabelValues("sent").Inc()
}
