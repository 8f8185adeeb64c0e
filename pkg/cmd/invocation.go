// Package cmd provides a transport-agnostic command core: a command has a
// name, a usage line and Run(ctx, invocation). How invocations are produced
// (chat prefix commands, CLI) is up to the adapter.
package cmd

import (
	"context"
	"strings"
)

// Invocation carries the parsed arguments and an opaque payload set by the
// adapter (for chat commands, the originating message context).
type Invocation struct {
	Name string
	Args []string
	Data any
}

// Command is the universal contract: identity plus execution.
type Command interface {
	Name() string
	Usage() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}

// Parse splits "<prefix><name> arg arg..." into an invocation. It reports
// false when content does not start with prefix or names nothing.
func Parse(prefix, content string) (*Invocation, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return nil, false
	}

	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return nil, false
	}

	return &Invocation{
		Name: strings.ToLower(fields[0]),
		Args: fields[1:],
	}, true
}

// Arg returns the i-th argument or "" when absent.
func (inv *Invocation) Arg(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	return inv.Args[i]
}
