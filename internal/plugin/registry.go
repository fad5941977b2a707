package plugin

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// Registry holds the plugins hosted by the app.
type Registry struct {
	ctx         *Context
	plugins     []Plugin
	unavailable map[string]string
}

// NewRegistry creates an empty registry bound to ctx.
func NewRegistry(ctx *Context) *Registry {
	return &Registry{ctx: ctx, unavailable: make(map[string]string)}
}

// Context returns the shared plugin context.
func (r *Registry) Context() *Context {
	return r.ctx
}

// Register initializes p and adds it. A plugin whose Init fails is
// recorded as unavailable instead of aborting startup.
func (r *Registry) Register(p Plugin) error {
	for _, existing := range r.plugins {
		if existing.ID() == p.ID() {
			return fmt.Errorf("plugin %q already registered", p.ID())
		}
	}
	if err := p.Init(r.ctx); err != nil {
		r.unavailable[p.ID()] = err.Error()
		r.logger().Warn("plugin unavailable", "plugin", p.ID(), "err", err)
		return nil
	}
	r.plugins = append(r.plugins, p)
	return nil
}

// Plugins returns the active plugins in registration order.
func (r *Registry) Plugins() []Plugin {
	return r.plugins
}

// Unavailable maps plugin IDs to their Init error.
func (r *Registry) Unavailable() map[string]string {
	return r.unavailable
}

// Start collects every plugin's start command.
func (r *Registry) Start() []tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range r.plugins {
		if cmd := p.Start(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// Stop stops every plugin in reverse order.
func (r *Registry) Stop() {
	for i := len(r.plugins) - 1; i >= 0; i-- {
		r.plugins[i].Stop()
	}
}

func (r *Registry) logger() *slog.Logger {
	if r.ctx != nil && r.ctx.Logger != nil {
		return r.ctx.Logger
	}
	return slog.Default()
}
