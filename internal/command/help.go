package command

import (
	"context"
	"fmt"
	"strings"

	"reactbot/pkg/cmd"
)

type HelpCommand struct {
	deps     *Deps
	registry *cmd.Registry
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Usage() string       { return "" }
func (c *HelpCommand) Description() string { return "List the available commands" }

func (c *HelpCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv.Data)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("**Commands**")
	for _, command := range c.registry.GetAll() {
		line := strings.TrimSpace(c.deps.Prefix + command.Name() + " " + command.Usage())
		fmt.Fprintf(&sb, "\n`%s` %s", line, command.Description())
	}
	return c.deps.reply(ctx, mc, sb.String())
}
