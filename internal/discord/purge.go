package discord

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"reactbot/internal/metrics"
	"reactbot/internal/platform"
	"reactbot/pkg/retrylimit"
	"reactbot/pkg/util"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const (
	pageSize = 100
	// Bulk delete refuses messages older than two weeks; keep a margin.
	bulkMaxAge    = 14*24*time.Hour - time.Hour
	deleteWorkers = 3
	maxAttempts   = 3
)

// Purger deletes channel history through the REST API, pacing itself with
// an adaptive limiter.
type Purger struct {
	api restAPI
	lim *retrylimit.AdaptiveLimiter
	log zerolog.Logger
	now func() time.Time
}

func NewPurger(api restAPI, log zerolog.Logger) *Purger {
	return &Purger{
		api: api,
		lim: retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5),
		log: log.With().Str("component", "purge").Logger(),
		now: time.Now,
	}
}

// PurgeRecent deletes the limit most recent messages in the channel.
func (p *Purger) PurgeRecent(ctx context.Context, channelID string, limit int) (int, error) {
	return p.purge(ctx, channelID, limit, limit, func(*discordgo.Message) bool { return true })
}

// PurgeByAuthor looks at up to scanLimit recent messages and deletes at most
// limit of them written by authorID.
func (p *Purger) PurgeByAuthor(ctx context.Context, channelID, authorID string, scanLimit, limit int) (int, error) {
	return p.purge(ctx, channelID, scanLimit, limit, func(m *discordgo.Message) bool {
		return m.Author != nil && m.Author.ID == authorID
	})
}

func (p *Purger) purge(ctx context.Context, channelID string, scanLimit, limit int, match func(*discordgo.Message) bool) (int, error) {
	ids, err := p.collect(ctx, channelID, scanLimit, limit, match)
	if err != nil || len(ids) == 0 {
		return 0, err
	}

	recent, old := p.splitByAge(ids)
	deleted := 0
	defer func() {
		metrics.PurgedMessages.Add(float64(deleted))
		p.log.Info().Str("channel", channelID).Int("matched", len(ids)).Int("deleted", deleted).Msg("Purge finished")
	}()

	for chunk := range slices.Chunk(recent, pageSize) {
		n, err := p.bulkDelete(ctx, channelID, chunk)
		deleted += n
		if err != nil {
			return deleted, err
		}
	}

	n, err := p.deleteEach(ctx, channelID, old)
	deleted += n
	return deleted, err
}

// collect pages backwards through history, newest first.
func (p *Purger) collect(ctx context.Context, channelID string, scanLimit, limit int, match func(*discordgo.Message) bool) ([]string, error) {
	var (
		ids     []string
		before  string
		scanned int
	)

	for len(ids) < limit && scanned < scanLimit {
		page := min(pageSize, scanLimit-scanned)

		var msgs []*discordgo.Message
		err := retrylimit.WithRetryMax(ctx, func() error {
			var err error
			msgs, err = p.api.ChannelMessages(channelID, page, before, "", "", discordgo.WithContext(ctx))
			return classify("channel_messages", err)
		}, p.lim, maxAttempts)
		if err != nil {
			return nil, err
		}

		for _, m := range msgs {
			scanned++
			if match(m) {
				ids = append(ids, m.ID)
				if len(ids) == limit {
					break
				}
			}
		}

		if len(msgs) < page {
			break
		}
		before = msgs[len(msgs)-1].ID
	}

	return ids, nil
}

func (p *Purger) splitByAge(ids []string) (recent, old []string) {
	cutoff := p.now().Add(-bulkMaxAge)
	for _, id := range ids {
		ts, err := discordgo.SnowflakeTimestamp(id)
		if err == nil && ts.After(cutoff) {
			recent = append(recent, id)
		} else {
			old = append(old, id)
		}
	}
	return recent, old
}

// bulkDelete removes 2 to 100 messages in one call; a single message goes
// through the plain delete endpoint.
func (p *Purger) bulkDelete(ctx context.Context, channelID string, ids []string) (int, error) {
	if len(ids) == 1 {
		return p.deleteEach(ctx, channelID, ids)
	}
	err := retrylimit.WithRetryMax(ctx, func() error {
		err := p.api.ChannelMessagesBulkDelete(channelID, ids, discordgo.WithContext(ctx))
		return classify("bulk_delete", err)
	}, p.lim, maxAttempts)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// deleteEach removes messages one at a time. Messages that are already gone
// are skipped; any other failure stops the run.
func (p *Purger) deleteEach(ctx context.Context, channelID string, ids []string) (int, error) {
	var deleted atomic.Int64

	err := util.Parallel(ctx, ids, deleteWorkers, func(ctx context.Context, id string) error {
		err := retrylimit.WithRetryMax(ctx, func() error {
			err := p.api.ChannelMessageDelete(channelID, id, discordgo.WithContext(ctx))
			return classify("delete_message", err)
		}, p.lim, maxAttempts)

		switch {
		case err == nil:
			deleted.Add(1)
			return nil
		case platform.KindOf(err) == platform.FailureNotFound:
			p.log.Debug().Str("message", id).Msg("Message already gone")
			return nil
		default:
			return err
		}
	})

	return int(deleted.Load()), err
}
