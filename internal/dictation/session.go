package dictation

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// EventMsg carries a recognizer event into the update loop.
type EventMsg struct {
	Session uint64
	Event   Event
}

// EndedMsg reports that the recognizer stopped on its own.
type EndedMsg struct {
	Session uint64
}

// Session owns at most one live recognition for an editor.
type Session struct {
	registry   *Registry
	capability string
	opts       Options
	agg        *Aggregator
	logger     *slog.Logger

	id     uint64
	active bool
	cancel context.CancelFunc
	events <-chan Event
}

// NewSession creates an idle session that will use the named capability.
func NewSession(registry *Registry, capability string, opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		registry:   registry,
		capability: capability,
		opts:       opts,
		agg:        NewAggregator(),
		logger:     logger,
	}
}

// Active reports whether a recognition is live.
func (s *Session) Active() bool {
	return s.active
}

// Toggle starts dictation, or stops it when already active. It reports
// whether dictation is now running. ErrUnsupported leaves the session idle.
func (s *Session) Toggle() (started bool, cmd tea.Cmd, err error) {
	if s.active {
		s.Stop()
		return false, nil, nil
	}
	cmd, err = s.start()
	if err != nil {
		return false, nil, err
	}
	return true, cmd, nil
}

func (s *Session) start() (tea.Cmd, error) {
	rec, err := s.registry.Lookup(s.capability)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	events, err := rec.Start(ctx, s.opts)
	if err != nil {
		cancel()
		return nil, err
	}

	s.id++
	s.active = true
	s.cancel = cancel
	s.events = events
	s.agg.Reset()
	s.logger.Debug("dictation started", "session", s.id)
	return s.listen(), nil
}

// Stop ends the live recognition, if any. Messages from it become no-ops.
func (s *Session) Stop() {
	if !s.active {
		return
	}
	s.cancel()
	s.active = false
	s.cancel = nil
	s.events = nil
	s.logger.Debug("dictation stopped", "session", s.id)
}

// Apply merges an event into buffer. Stale messages return ok=false and
// leave the buffer alone. The returned command waits for the next event.
func (s *Session) Apply(msg EventMsg, buffer string) (string, tea.Cmd, bool) {
	if !s.active || msg.Session != s.id {
		return buffer, nil, false
	}
	return s.agg.Apply(buffer, msg.Event), s.listen(), true
}

// Ended handles recognizer termination. It reports whether msg belonged to
// the live session.
func (s *Session) Ended(msg EndedMsg) bool {
	if !s.active || msg.Session != s.id {
		return false
	}
	s.Stop()
	return true
}

func (s *Session) listen() tea.Cmd {
	id, events := s.id, s.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return EndedMsg{Session: id}
		}
		return EventMsg{Session: id, Event: ev}
	}
}
