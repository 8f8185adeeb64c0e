package cmd

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry stores commands by lower-cased name and alias. It does not
// dispatch; adapters look commands up and run them with their own context.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	aliases  map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		aliases:  make(map[string]string),
	}
}

// Register adds c under its name and the given aliases. Reusing a name or
// alias is an error.
func (r *Registry) Register(c Command, aliases ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToLower(c.Name())
	if r.taken(name) {
		return fmt.Errorf("command %q already registered", name)
	}
	for _, a := range aliases {
		if r.taken(strings.ToLower(a)) {
			return fmt.Errorf("alias %q already registered", a)
		}
	}

	r.commands[name] = c
	for _, a := range aliases {
		r.aliases[strings.ToLower(a)] = name
	}
	return nil
}

func (r *Registry) taken(key string) bool {
	_, cmd := r.commands[key]
	_, alias := r.aliases[key]
	return cmd || alias
}

// Get returns the command registered under name or alias, or nil.
func (r *Registry) Get(name string) Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(name)
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	return r.commands[key]
}

// GetAll returns all registered commands, sorted by name.
func (r *Registry) GetAll() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}
