// Package draft debounce-persists the unsent editor buffer.
package draft

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultQuietPeriod is how long input must stay unchanged before it is saved.
const DefaultQuietPeriod = 500 * time.Millisecond

// Slot is the single persisted draft entry. Load reports ok=false when no
// draft is stored.
type Slot interface {
	Load() (text string, ok bool, err error)
	Save(text string) error
	Clear() error
}

// TickMsg fires when a quiet period ends. Only the latest generation acts.
type TickMsg struct {
	Gen uint64
}

// Scheduler produces a command that delivers fn's message after d.
type Scheduler func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Manager owns one session's draft buffer and its pending timer.
type Manager struct {
	slot     Slot
	quiet    time.Duration
	schedule Scheduler
	logger   *slog.Logger

	buffer  string
	gen     uint64
	pending bool
}

// NewManager creates a manager writing to slot.
func NewManager(slot Slot, quiet time.Duration, logger *slog.Logger) *Manager {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{slot: slot, quiet: quiet, schedule: tea.Tick, logger: logger}
}

// SetScheduler replaces the timer source.
func (m *Manager) SetScheduler(s Scheduler) {
	m.schedule = s
}

// QuietPeriod returns the debounce interval.
func (m *Manager) QuietPeriod() time.Duration {
	return m.quiet
}

// Seed loads the persisted draft for a new session.
func (m *Manager) Seed() (string, error) {
	text, ok, err := m.slot.Load()
	if err != nil {
		return "", fmt.Errorf("load draft: %w", err)
	}
	if !ok {
		return "", nil
	}
	m.buffer = text
	return text, nil
}

// Changed records new buffer contents and restarts the quiet period.
// Any earlier pending save is superseded.
func (m *Manager) Changed(text string) tea.Cmd {
	m.buffer = text
	m.gen++
	m.pending = true
	gen := m.gen
	return m.schedule(m.quiet, func(time.Time) tea.Msg {
		return TickMsg{Gen: gen}
	})
}

// Elapsed handles a quiet-period tick. Stale ticks are ignored and report
// false. A blank buffer clears the slot instead of saving.
func (m *Manager) Elapsed(msg TickMsg) (bool, error) {
	if !m.pending || msg.Gen != m.gen {
		return false, nil
	}
	m.pending = false

	if strings.TrimSpace(m.buffer) == "" {
		m.logger.Debug("draft cleared", "gen", msg.Gen)
		if err := m.slot.Clear(); err != nil {
			return true, fmt.Errorf("clear draft: %w", err)
		}
		return true, nil
	}
	m.logger.Debug("draft saved", "gen", msg.Gen, "len", len(m.buffer))
	if err := m.slot.Save(m.buffer); err != nil {
		return true, fmt.Errorf("save draft: %w", err)
	}
	return true, nil
}

// ClearNow drops the buffer and the persisted draft immediately, cancelling
// any pending save. Used after a successful submit.
func (m *Manager) ClearNow() error {
	m.Cancel()
	m.buffer = ""
	if err := m.slot.Clear(); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}

// Cancel invalidates the pending timer without touching the slot.
func (m *Manager) Cancel() {
	m.gen++
	m.pending = false
}

// Pending reports whether a save is waiting for its quiet period.
func (m *Manager) Pending() bool {
	return m.pending
}

// Buffer returns the last recorded buffer.
func (m *Manager) Buffer() string {
	return m.buffer
}
