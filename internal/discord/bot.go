package discord

import (
	"context"
	"fmt"

	"reactbot/internal/command"
	"reactbot/internal/config"
	"reactbot/internal/pipeline"
	"reactbot/internal/shadow"
	"reactbot/internal/storage"
	"reactbot/pkg/jobmgr"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent |
	discordgo.IntentsGuildMembers

// Bot connects the message pipeline to a Discord gateway session.
type Bot struct {
	cfg     *config.Config
	storage *storage.Storage
	log     zerolog.Logger
}

func New(cfg *config.Config, store *storage.Storage, log zerolog.Logger) *Bot {
	return &Bot{
		cfg:     cfg,
		storage: store,
		log:     log.With().Str("component", "discord").Logger(),
	}
}

// Run opens the session and handles events until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = intents
	// Handlers run one at a time in arrival order, so a delete never
	// overtakes the create that produced its shadow reply.
	dg.SyncEvents = true

	jobs := jobmgr.NewManager(ctx, func(status string) {
		b.log.Debug().Str("job", status).Msg("Job status")
	})
	defer jobs.StopAll()

	chat := NewChat(dg)
	dispatcher, err := command.NewDispatcher(command.Deps{
		Store:          b.storage,
		Chat:           chat,
		Purger:         NewPurger(dg, b.log),
		Jobs:           jobs,
		Log:            b.log,
		Prefix:         b.cfg.CommandPrefix,
		PurgeScanLimit: b.cfg.PurgeScanLimit,
		PurgeReplyTTL:  b.cfg.PurgeReplyTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	p := pipeline.New(chat, dispatcher, b.storage, shadow.NewTracker(), b.log)

	dg.AddHandler(b.onReady)
	dg.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if ev, ok := toMessageCreated(m); ok {
			p.HandleMessageCreated(ctx, ev)
		}
	})
	dg.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageDelete) {
		p.HandleMessageDeleted(ctx, toMessageDeleted(m))
	})

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("Shutdown signal received, cleaning up")
	jobs.StopAll()
	return nil
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Str("prefix", b.cfg.CommandPrefix).
		Msg("Discord bot is running")
}
