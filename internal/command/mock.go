package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"reactbot/pkg/cmd"
)

type SetMockCommand struct{ deps *Deps }

func (c *SetMockCommand) Name() string        { return "setmock" }
func (c *SetMockCommand) Usage() string       { return "<user> <mode 1-3>" }
func (c *SetMockCommand) Description() string { return "Echo a user's messages back (1 copy, 2 alternating caps, 3 leetspeak)" }

func (c *SetMockCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv.Data)
	if err != nil {
		return err
	}
	userID, err := parseUser(inv.Arg(0))
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(inv.Arg(1))
	if err != nil {
		return errUsage
	}

	if err := c.deps.Store.SetMock(userID, n); err != nil {
		return err
	}
	return c.deps.reply(ctx, mc, fmt.Sprintf("🧠 Now mocking %s with mode %d.", mention(userID), n))
}

type RemoveMockCommand struct{ deps *Deps }

func (c *RemoveMockCommand) Name() string        { return "removemock" }
func (c *RemoveMockCommand) Usage() string       { return "<user>" }
func (c *RemoveMockCommand) Description() string { return "Stop echoing a user" }

func (c *RemoveMockCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv.Data)
	if err != nil {
		return err
	}
	userID, err := parseUser(inv.Arg(0))
	if err != nil {
		return err
	}

	removed, err := c.deps.Store.ClearMock(userID)
	if err != nil || !removed {
		return err
	}
	return c.deps.reply(ctx, mc, fmt.Sprintf("🧹 Stopped mocking %s.", mention(userID)))
}

type ListMocksCommand struct{ deps *Deps }

func (c *ListMocksCommand) Name() string        { return "listmocks" }
func (c *ListMocksCommand) Usage() string       { return "" }
func (c *ListMocksCommand) Description() string { return "Show who is being echoed and how" }

func (c *ListMocksCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv.Data)
	if err != nil {
		return err
	}

	mocks := c.deps.Store.Mocks()
	if len(mocks) == 0 {
		return c.deps.reply(ctx, mc, "No users are currently being mocked.")
	}

	lines := make([]string, 0, len(mocks))
	for _, m := range mocks {
		lines = append(lines, fmt.Sprintf("%s: mode %d", mention(m.UserID), int(m.Mode)))
	}
	return c.deps.reply(ctx, mc, strings.Join(lines, "\n"))
}
