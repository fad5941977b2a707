package plugin

import (
	"log/slog"

	"github.com/marcus/habitdiary/internal/config"
	"github.com/marcus/habitdiary/internal/keymap"
)

// Context is shared by the app with every plugin.
type Context struct {
	ConfigDir string
	Config    *config.Config
	Keymap    *keymap.Registry
	Logger    *slog.Logger

	// Epoch increments whenever the data a plugin shows is swapped out
	// (for example a different diary is opened). Async results carry the
	// epoch they were started under.
	Epoch uint64
}

// BumpEpoch invalidates in-flight async results.
func (c *Context) BumpEpoch() uint64 {
	c.Epoch++
	return c.Epoch
}
