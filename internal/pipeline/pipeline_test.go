package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"reactbot/internal/mock"
	"reactbot/internal/platform"
	"reactbot/internal/shadow"
	"reactbot/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reaction struct {
	channelID, messageID, token string
}

type fakePlatform struct {
	reactions  []reaction
	sent       []string
	deleted    []platform.MessageHandle
	reactErrs  map[string]error
	sendErr    error
	deleteErr  error
	nextShadow int
	events     []string
}

func (f *fakePlatform) AddReaction(_ context.Context, channelID, messageID, token string) error {
	f.reactions = append(f.reactions, reaction{channelID, messageID, token})
	f.events = append(f.events, "react:"+token)
	return f.reactErrs[token]
}

func (f *fakePlatform) SendMessage(_ context.Context, channelID, text string) (platform.MessageHandle, error) {
	f.events = append(f.events, "send:"+text)
	if f.sendErr != nil {
		return platform.MessageHandle{}, f.sendErr
	}
	f.sent = append(f.sent, text)
	f.nextShadow++
	return platform.MessageHandle{ChannelID: channelID, MessageID: fmt.Sprintf("shadow-%d", f.nextShadow)}, nil
}

func (f *fakePlatform) DeleteMessage(_ context.Context, h platform.MessageHandle) error {
	f.deleted = append(f.deleted, h)
	return f.deleteErr
}

type fakeBehaviors struct {
	emojis map[string][]string
	mocks  map[string]mock.Mode
}

func (b fakeBehaviors) Emojis(userID string) []string { return b.emojis[userID] }

func (b fakeBehaviors) MockMode(userID string) (mock.Mode, bool) {
	m, ok := b.mocks[userID]
	return m, ok
}

type recordingDispatcher struct {
	fp  *fakePlatform
	got []platform.MessageCreated
}

func (d *recordingDispatcher) Dispatch(_ context.Context, ev platform.MessageCreated) {
	d.got = append(d.got, ev)
	if d.fp != nil {
		d.fp.events = append(d.fp.events, "dispatch")
	}
}

func message(author, id, content string) platform.MessageCreated {
	return platform.MessageCreated{
		MessageID: id,
		ChannelID: "chan",
		AuthorID:  author,
		Content:   content,
	}
}

func TestReactionsAppliedInOrderDespiteFailures(t *testing.T) {
	fp := &fakePlatform{reactErrs: map[string]error{
		"🔥": &platform.Error{Op: "add_reaction", Kind: platform.FailureRateLimited},
	}}
	b := fakeBehaviors{emojis: map[string][]string{"42": {"🔥", "🙂"}}}
	p := New(fp, nil, b, shadow.NewTracker(), zerolog.Nop())

	p.HandleMessageCreated(context.Background(), message("42", "m1", "hi"))

	assert.Equal(t, []reaction{
		{"chan", "m1", "🔥"},
		{"chan", "m1", "🙂"},
	}, fp.reactions)
	assert.Empty(t, fp.sent)
}

func TestUnknownReactionFailureDoesNotAbort(t *testing.T) {
	fp := &fakePlatform{reactErrs: map[string]error{"a": errors.New("network down")}}
	b := fakeBehaviors{emojis: map[string][]string{"1": {"a", "b", "c"}}}
	p := New(fp, nil, b, shadow.NewTracker(), zerolog.Nop())

	p.HandleMessageCreated(context.Background(), message("1", "m", "x"))
	assert.Len(t, fp.reactions, 3)
}

func TestDispatchHappensFirstAndForBots(t *testing.T) {
	fp := &fakePlatform{}
	d := &recordingDispatcher{fp: fp}
	b := fakeBehaviors{
		emojis: map[string][]string{"42": {"🔥"}},
		mocks:  map[string]mock.Mode{"42": mock.Verbatim},
	}
	p := New(fp, d, b, shadow.NewTracker(), zerolog.Nop())

	p.HandleMessageCreated(context.Background(), message("42", "m1", "hello"))
	assert.Equal(t, []string{"dispatch", "react:🔥", "send:hello"}, fp.events)

	bot := message("42", "m2", "hello")
	bot.AuthorIsBot = true
	p.HandleMessageCreated(context.Background(), bot)

	assert.Len(t, d.got, 2)
	assert.Len(t, fp.reactions, 1)
	assert.Len(t, fp.sent, 1)
}

func TestMockSendsTransformedShadow(t *testing.T) {
	fp := &fakePlatform{}
	b := fakeBehaviors{mocks: map[string]mock.Mode{"7": mock.Leetspeak}}
	tracker := shadow.NewTracker()
	p := New(fp, nil, b, tracker, zerolog.Nop())

	p.HandleMessageCreated(context.Background(), message("7", "origin", "Test Student"))

	assert.Equal(t, []string{"7357 57ud3n7"}, fp.sent)
	h, ok := tracker.Lookup("origin")
	require.True(t, ok)
	assert.Equal(t, platform.MessageHandle{ChannelID: "chan", MessageID: "shadow-1"}, h)
}

func TestMockSkipsEmptyContent(t *testing.T) {
	fp := &fakePlatform{}
	b := fakeBehaviors{mocks: map[string]mock.Mode{"7": mock.AlternatingCase}}
	tracker := shadow.NewTracker()
	p := New(fp, nil, b, tracker, zerolog.Nop())

	p.HandleMessageCreated(context.Background(), message("7", "origin", ""))
	assert.Empty(t, fp.events)
	assert.Equal(t, 0, tracker.Len())
}

func TestMockSendFailureIsNotTracked(t *testing.T) {
	fp := &fakePlatform{sendErr: &platform.Error{Op: "send_message", Kind: platform.FailureForbidden}}
	b := fakeBehaviors{mocks: map[string]mock.Mode{"7": mock.Verbatim}}
	tracker := shadow.NewTracker()
	p := New(fp, nil, b, tracker, zerolog.Nop())

	p.HandleMessageCreated(context.Background(), message("7", "origin", "hey"))
	assert.Equal(t, 0, tracker.Len())
}

func TestShadowCascadeDelete(t *testing.T) {
	fp := &fakePlatform{}
	b := fakeBehaviors{mocks: map[string]mock.Mode{"7": mock.AlternatingCase}}
	tracker := shadow.NewTracker()
	p := New(fp, nil, b, tracker, zerolog.Nop())

	ctx := context.Background()
	p.HandleMessageCreated(ctx, message("7", "M", "AbC"))
	require.Equal(t, []string{"aBc"}, fp.sent)

	p.HandleMessageDeleted(ctx, platform.MessageDeleted{MessageID: "M", ChannelID: "chan"})
	assert.Equal(t, []platform.MessageHandle{{ChannelID: "chan", MessageID: "shadow-1"}}, fp.deleted)
	assert.Equal(t, 0, tracker.Len())

	p.HandleMessageDeleted(ctx, platform.MessageDeleted{MessageID: "M"})
	p.HandleMessageDeleted(ctx, platform.MessageDeleted{MessageID: "untracked"})
	assert.Len(t, fp.deleted, 1)
}

func TestShadowMappingDroppedWhenDeleteFails(t *testing.T) {
	for _, err := range []error{
		&platform.Error{Op: "delete_message", Kind: platform.FailureNotFound},
		&platform.Error{Op: "delete_message", Kind: platform.FailureForbidden},
		errors.New("unexpected"),
	} {
		fp := &fakePlatform{deleteErr: err}
		tracker := shadow.NewTracker()
		tracker.Record("M", platform.MessageHandle{ChannelID: "c", MessageID: "H"})
		p := New(fp, nil, fakeBehaviors{}, tracker, zerolog.Nop())

		p.HandleMessageDeleted(context.Background(), platform.MessageDeleted{MessageID: "M"})
		assert.Len(t, fp.deleted, 1)
		assert.Equal(t, 0, tracker.Len())
	}
}

func TestReusedOriginOverwritesMapping(t *testing.T) {
	fp := &fakePlatform{}
	b := fakeBehaviors{mocks: map[string]mock.Mode{"7": mock.Verbatim}}
	tracker := shadow.NewTracker()
	p := New(fp, nil, b, tracker, zerolog.Nop())

	ctx := context.Background()
	p.HandleMessageCreated(ctx, message("7", "M", "one"))
	p.HandleMessageCreated(ctx, message("7", "M", "two"))

	h, _ := tracker.Lookup("M")
	assert.Equal(t, "shadow-2", h.MessageID)
}

func TestPipelineWithStorage(t *testing.T) {
	store, err := storage.New(filepath.Join(t.TempDir(), "botdata.json"), storage.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer store.Close()

	_, err = store.AddEmoji("42", "🔥")
	require.NoError(t, err)
	_, err = store.AddEmoji("42", "🙂")
	require.NoError(t, err)
	require.NoError(t, store.SetMock("42", 2))

	fp := &fakePlatform{}
	p := New(fp, nil, store, shadow.NewTracker(), zerolog.Nop())
	p.HandleMessageCreated(context.Background(), message("42", "m", "AbC"))

	assert.Equal(t, []string{"react:🔥", "react:🙂", "send:aBc"}, fp.events)
}
