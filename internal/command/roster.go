package command

import (
	"context"
	"fmt"

	"reactbot/internal/storage"
	"reactbot/pkg/cmd"
)

// rosterCommand is the shared shape of the four roster edits.
type rosterCommand struct {
	deps  *Deps
	name  string
	usage string
	desc  string
	parse func(string) (string, error)
	apply func(s *storage.Storage, requester storage.Principal, id string) (bool, error)
	done  func(id string) string
}

func (c *rosterCommand) Name() string        { return c.name }
func (c *rosterCommand) Usage() string       { return c.usage }
func (c *rosterCommand) Description() string { return c.desc }

func (c *rosterCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv.Data)
	if err != nil {
		return err
	}
	id, err := c.parse(inv.Arg(0))
	if err != nil {
		return err
	}

	changed, err := c.apply(c.deps.Store, mc.Principal, id)
	if err != nil || !changed {
		return err
	}
	return c.deps.reply(ctx, mc, c.done(id))
}

func newAllowUser(deps *Deps) *rosterCommand {
	return &rosterCommand{
		deps: deps, name: "allowuser", usage: "<userId>", desc: "Let a user run commands",
		parse: parseUser,
		apply: (*storage.Storage).GrantUser,
		done:  func(id string) string { return fmt.Sprintf("✅ Allowed user %s.", mention(id)) },
	}
}

func newRemoveUser(deps *Deps) *rosterCommand {
	return &rosterCommand{
		deps: deps, name: "removeuser", usage: "<userId>", desc: "Take command access away from a user",
		parse: parseUser,
		apply: (*storage.Storage).RevokeUser,
		done:  func(id string) string { return fmt.Sprintf("❌ Removed user %s.", mention(id)) },
	}
}

func newAllowRole(deps *Deps) *rosterCommand {
	return &rosterCommand{
		deps: deps, name: "allowrole", usage: "<roleId>", desc: "Let every member of a role run commands",
		parse: parseRole,
		apply: (*storage.Storage).GrantRole,
		done:  func(id string) string { return fmt.Sprintf("✅ Allowed role `%s`.", id) },
	}
}

func newRemoveRole(deps *Deps) *rosterCommand {
	return &rosterCommand{
		deps: deps, name: "removerole", usage: "<roleId>", desc: "Take command access away from a role",
		parse: parseRole,
		apply: (*storage.Storage).RevokeRole,
		done:  func(id string) string { return fmt.Sprintf("❌ Removed role `%s`.", id) },
	}
}

type ShowWhitelistCommand struct{ deps *Deps }

func (c *ShowWhitelistCommand) Name() string        { return "showwhitelist" }
func (c *ShowWhitelistCommand) Usage() string       { return "" }
func (c *ShowWhitelistCommand) Description() string { return "Show who may run commands" }

func (c *ShowWhitelistCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv.Data)
	if err != nil {
		return err
	}

	roster := c.deps.Store.Roster()
	users := make([]string, 0, len(roster.Users))
	for _, id := range roster.Users {
		users = append(users, mention(id))
	}
	roles := make([]string, 0, len(roster.Roles))
	for _, id := range roster.Roles {
		roles = append(roles, "`"+id+"`")
	}

	return c.deps.reply(ctx, mc, fmt.Sprintf("**Whitelisted Users:** %s\n**Whitelisted Roles:** %s",
		joinOr(users, "None"), joinOr(roles, "None")))
}
