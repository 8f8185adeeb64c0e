package command

import (
	"context"
	"fmt"

	"reactbot/pkg/cmd"
)

type AddEmojiCommand struct{ deps *Deps }

func (c *AddEmojiCommand) Name() string        { return "addemoji" }
func (c *AddEmojiCommand) Usage() string       { return "<user> <emoji>" }
func (c *AddEmojiCommand) Description() string { return "React to every message of a user with an emoji" }

func (c *AddEmojiCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv.Data)
	if err != nil {
		return err
	}
	userID, err := parseUser(inv.Arg(0))
	if err != nil {
		return err
	}
	token := inv.Arg(1)
	if token == "" {
		return errUsage
	}

	added, err := c.deps.Store.AddEmoji(userID, token)
	if err != nil || !added {
		return err
	}
	return c.deps.reply(ctx, mc, fmt.Sprintf("✅ Added %s for %s.", token, mention(userID)))
}

type RemoveEmojiCommand struct{ deps *Deps }

func (c *RemoveEmojiCommand) Name() string        { return "removeemoji" }
func (c *RemoveEmojiCommand) Usage() string       { return "<user> <emoji>" }
func (c *RemoveEmojiCommand) Description() string { return "Stop reacting to a user with an emoji" }

func (c *RemoveEmojiCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv.Data)
	if err != nil {
		return err
	}
	userID, err := parseUser(inv.Arg(0))
	if err != nil {
		return err
	}
	token := inv.Arg(1)
	if token == "" {
		return errUsage
	}

	removed, err := c.deps.Store.RemoveEmoji(userID, token)
	if err != nil || !removed {
		return err
	}
	return c.deps.reply(ctx, mc, fmt.Sprintf("❌ Removed %s from %s.", token, mention(userID)))
}

type ListEmojisCommand struct{ deps *Deps }

func (c *ListEmojisCommand) Name() string        { return "listemojis" }
func (c *ListEmojisCommand) Usage() string       { return "<user>" }
func (c *ListEmojisCommand) Description() string { return "Show the emojis used for a user" }

func (c *ListEmojisCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv.Data)
	if err != nil {
		return err
	}
	userID, err := parseUser(inv.Arg(0))
	if err != nil {
		return err
	}

	tokens := c.deps.Store.Emojis(userID)
	return c.deps.reply(ctx, mc, fmt.Sprintf("Emojis for %s: %s", mention(userID), joinOr(tokens, "None")))
}
