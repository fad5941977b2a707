package diary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/marcus/habitdiary/internal/note"
)

var (
	// ErrEmptyNote is returned by Create for blank text. Nothing is dispatched.
	ErrEmptyNote = errors.New("note cannot be empty")
	// ErrNoteTooLong is returned by Create when text exceeds the limit.
	ErrNoteTooLong = errors.New("note is too long")
	// ErrNoPendingDelete is returned when a delete decision has no matching request.
	ErrNoPendingDelete = errors.New("no pending delete")
)

// Sink receives actions. The diary store provides one sink for habit
// diaries and one for the main diary.
type Sink interface {
	Dispatch(ctx context.Context, a Action) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, a Action) error

// Dispatch calls f.
func (f SinkFunc) Dispatch(ctx context.Context, a Action) error { return f(ctx, a) }

// PendingDelete is a delete awaiting the user's decision.
type PendingDelete struct {
	ID  uint64
	Key time.Time
}

// Dispatcher turns intents into exactly one action each. Routing is
// computed from the current context on every dispatch.
type Dispatcher struct {
	habits  Sink
	main    Sink
	current func() Context
	keys    *KeyClock
	maxLen  int
	logger  *slog.Logger

	mu      sync.Mutex
	pending *PendingDelete
	nextID  uint64
}

// KeyClock hands out identity keys: UTC millisecond timestamps, each
// strictly after the previous one. Dispatchers writing to the same store
// must share one.
type KeyClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

// NewKeyClock returns a key clock reading now. A nil now means time.Now.
func NewKeyClock(now func() time.Time) *KeyClock {
	if now == nil {
		now = time.Now
	}
	return &KeyClock{now: now}
}

// Next returns a key strictly after every key returned before.
func (c *KeyClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := c.now().UTC().Truncate(time.Millisecond)
	if !k.After(c.last) {
		k = c.last.Add(time.Millisecond)
	}
	c.last = k
	return k
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock sets the time source used for new identity keys.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.keys = NewKeyClock(now) }
}

// WithKeyClock shares k with other dispatchers.
func WithKeyClock(k *KeyClock) Option {
	return func(d *Dispatcher) {
		if k != nil {
			d.keys = k
		}
	}
}

// WithMaxLength overrides the create length limit.
func WithMaxLength(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxLen = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher creates a dispatcher. current is read at dispatch time.
func NewDispatcher(habits, main Sink, current func() Context, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		habits:  habits,
		main:    main,
		current: current,
		keys:    NewKeyClock(nil),
		maxLen:  note.MaxTextLength,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// StaticContext returns a context func that always yields dc.
func StaticContext(dc Context) func() Context {
	return func() Context { return dc }
}

// Create dispatches an addNote action for text. The streak snapshot and
// the target diary come from the same context read. Blank text fails with
// ErrEmptyNote and dispatches nothing.
func (d *Dispatcher) Create(ctx context.Context, text string) (Action, error) {
	if strings.TrimSpace(text) == "" {
		return Action{}, ErrEmptyNote
	}
	if err := note.ValidateText(text, d.maxLen); err != nil {
		return Action{}, fmt.Errorf("%w: %d characters max", ErrNoteTooLong, d.maxLen)
	}

	dc := d.current()
	n := note.Note{
		Text:      text,
		CreatedAt: d.keys.Next(),
		Streak:    note.StreakSnapshot(dc.CurrentStreak),
		Pinned:    false,
	}
	a := Action{Type: AddNote, NewNote: &n}
	return d.dispatchIn(ctx, dc, a)
}

// Edit dispatches an editNote action. Any text is accepted, including empty.
func (d *Dispatcher) Edit(ctx context.Context, key time.Time, newText string) (Action, error) {
	a := keyed(EditNote, "", key)
	text := newText
	a.NewText = &text
	return d.dispatch(ctx, a)
}

// TogglePin dispatches a pin flip for key.
func (d *Dispatcher) TogglePin(ctx context.Context, key time.Time) (Action, error) {
	return d.dispatch(ctx, keyed(TogglePin, "", key))
}

// RequestDelete records a delete awaiting confirmation. A newer request
// replaces an older unanswered one.
func (d *Dispatcher) RequestDelete(key time.Time) PendingDelete {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	p := PendingDelete{ID: d.nextID, Key: key}
	d.pending = &p
	return p
}

// Pending returns the outstanding delete request, if any.
func (d *Dispatcher) Pending() (PendingDelete, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil {
		return PendingDelete{}, false
	}
	return *d.pending, true
}

// ResolveDelete answers a delete request. Declining dispatches nothing and
// returns dispatched=false with a nil error.
func (d *Dispatcher) ResolveDelete(ctx context.Context, p PendingDelete, confirmed bool) (a Action, dispatched bool, err error) {
	d.mu.Lock()
	if d.pending == nil || d.pending.ID != p.ID {
		d.mu.Unlock()
		return Action{}, false, ErrNoPendingDelete
	}
	d.pending = nil
	d.mu.Unlock()

	if !confirmed {
		d.logger.Debug("delete declined", "key", note.FormatKey(p.Key))
		return Action{}, false, nil
	}
	a, err = d.dispatch(ctx, keyed(DeleteNote, "", p.Key))
	if err != nil {
		return a, false, err
	}
	return a, true, nil
}

// Delete confirms and dispatches in one step, for callers that collected
// the decision themselves.
func (d *Dispatcher) Delete(ctx context.Context, key time.Time) (Action, error) {
	a, _, err := d.ResolveDelete(ctx, d.RequestDelete(key), true)
	return a, err
}

func (d *Dispatcher) dispatch(ctx context.Context, a Action) (Action, error) {
	return d.dispatchIn(ctx, d.current(), a)
}

func (d *Dispatcher) dispatchIn(ctx context.Context, dc Context, a Action) (Action, error) {
	sink := d.main
	if dc.IsHabit() {
		a.HabitTitle = dc.HabitTitle
		sink = d.habits
	}
	if err := sink.Dispatch(ctx, a); err != nil {
		return a, fmt.Errorf("dispatch %s: %w", a.Type, err)
	}
	d.logger.Debug("dispatched", "action", a.Type, "habit", a.HabitTitle, "key", note.FormatKey(a.Key()))
	return a, nil
}
