package dictation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnsupported is returned when no speech recognizer is available.
var ErrUnsupported = errors.New("speech recognition not supported")

// Options configures a recognition session.
type Options struct {
	Lang           string
	Continuous     bool
	InterimResults bool
}

// DefaultOptions matches continuous dictation with interim results.
func DefaultOptions() Options {
	return Options{Lang: "en-US", Continuous: true, InterimResults: true}
}

// Recognizer is a speech-to-text engine. Start returns a channel of events
// that is closed when the recognizer ends or ctx is cancelled.
type Recognizer interface {
	Available() bool
	Start(ctx context.Context, opts Options) (<-chan Event, error)
}

// Registry maps capability names to recognizers.
type Registry struct {
	mu   sync.RWMutex
	recs map[string]Recognizer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{recs: make(map[string]Recognizer)}
}

// Register adds or replaces the recognizer for name.
func (r *Registry) Register(name string, rec Recognizer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs[name] = rec
}

// Lookup looks up the capability named name. A missing or unavailable
// recognizer yields ErrUnsupported.
func (r *Registry) Lookup(name string) (Recognizer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.recs[name]
	if !ok || rec == nil || !rec.Available() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	return rec, nil
}

// Names lists registered capabilities.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.recs))
	for n := range r.recs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
