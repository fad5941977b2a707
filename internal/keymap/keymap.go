// Package keymap maps key presses to named commands per focus context.
package keymap

import (
	"sort"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Binding ties a key to a command within a context.
type Binding struct {
	Key     string
	Command string
	Context string
}

// Command is an action with at most one handler.
type Command struct {
	ID      string
	Name    string
	Context string
	Handler func() tea.Cmd
}

// Registry holds bindings, user overrides and command handlers.
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]Command
	bindings  map[string][]Binding // by context
	overrides map[string]string    // command -> key
}

// NewRegistry returns a registry loaded with DefaultBindings.
func NewRegistry() *Registry {
	r := &Registry{
		commands:  make(map[string]Command),
		bindings:  make(map[string][]Binding),
		overrides: make(map[string]string),
	}
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
	return r
}

// RegisterBinding adds a key binding.
func (r *Registry) RegisterBinding(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[b.Context] = append(r.bindings[b.Context], b)
}

// RegisterCommand installs cmd, replacing any previous handler for the same
// ID. A command therefore runs once per key press no matter how often a
// caller registers it.
func (r *Registry) RegisterCommand(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd.ID] = cmd
}

// UnregisterCommand removes the handler for id.
func (r *Registry) UnregisterCommand(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.commands, id)
}

// GetCommand returns the command registered under id.
func (r *Registry) GetCommand(id string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[id]
	return c, ok
}

// SetUserOverride rebinds command to key in every context it appears in.
// The default keys for that command stop matching.
func (r *Registry) SetUserOverride(command, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[command] = strings.ToLower(strings.TrimSpace(key))
}

// ApplyOverrides sets a batch of command -> key overrides.
func (r *Registry) ApplyOverrides(overrides map[string]string) {
	for cmd, key := range overrides {
		if key != "" {
			r.SetUserOverride(cmd, key)
		}
	}
}

// Resolve returns the command bound to key in context, falling back to the
// global context.
func (r *Registry) Resolve(key, context string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cmd, ok := r.resolveIn(key, context); ok {
		return cmd, true
	}
	if context != ContextGlobal {
		return r.resolveIn(key, ContextGlobal)
	}
	return "", false
}

func (r *Registry) resolveIn(key, context string) (string, bool) {
	for _, b := range r.bindings[context] {
		if r.keyFor(b) == key {
			return b.Command, true
		}
	}
	return "", false
}

func (r *Registry) keyFor(b Binding) string {
	if k, ok := r.overrides[b.Command]; ok {
		return k
	}
	return b.Key
}

// Handle runs the handler of the command bound to msg, if one is
// registered, and returns its command. It returns nil when nothing handled
// the key.
func (r *Registry) Handle(msg tea.KeyMsg, context string) tea.Cmd {
	id, ok := r.Resolve(msg.String(), context)
	if !ok {
		return nil
	}
	cmd, ok := r.GetCommand(id)
	if !ok || cmd.Handler == nil {
		return nil
	}
	return cmd.Handler()
}

// BindingsForContext returns the effective bindings of context.
func (r *Registry) BindingsForContext(context string) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.bindings[context]
	out := make([]Binding, 0, len(src))
	for _, b := range src {
		b.Key = r.keyFor(b)
		out = append(out, b)
	}
	return out
}

// KeysFor lists the effective keys for command in context.
func (r *Registry) KeysFor(command, context string) []string {
	seen := map[string]bool{}
	var keys []string
	for _, b := range r.BindingsForContext(context) {
		if b.Command == command && !seen[b.Key] {
			seen[b.Key] = true
			keys = append(keys, b.Key)
		}
	}
	sort.Strings(keys)
	return keys
}
