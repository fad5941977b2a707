// Package dictation merges a live speech transcription stream into the
// editor buffer.
package dictation

import "strings"

// Result is one recognition result. Interim results are refined by later
// events carrying the same index.
type Result struct {
	Transcript string `json:"transcript"`
	Final      bool   `json:"final"`
}

// Event is a recognizer update. Results from ResultIndex onward changed.
type Event struct {
	ResultIndex int      `json:"resultIndex"`
	Results     []Result `json:"results"`
}

// Aggregator applies events to a buffer, remembering what it already
// added for each result index.
type Aggregator struct {
	applied map[int]string
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{applied: make(map[int]string)}
}

// Reset forgets applied fragments. Called when a new session starts.
func (a *Aggregator) Reset() {
	a.applied = make(map[int]string)
}

// Apply merges ev into buffer and returns the new buffer.
//
// A fragment already applied for its index is skipped. A refined fragment
// replaces the earlier one when the buffer still ends with it; otherwise it
// is appended. Text typed by the user is never removed.
func (a *Aggregator) Apply(buffer string, ev Event) string {
	if ev.ResultIndex < 0 {
		return buffer
	}
	for i := ev.ResultIndex; i < len(ev.Results); i++ {
		frag := strings.TrimSpace(ev.Results[i].Transcript)
		if frag == "" {
			continue
		}
		prev, seen := a.applied[i]
		switch {
		case seen && prev == frag:
			continue
		case seen && strings.HasSuffix(buffer, prev):
			buffer = strings.TrimSuffix(buffer, prev) + frag
		default:
			buffer = join(buffer, frag)
		}
		a.applied[i] = frag
	}
	return buffer
}

func join(buffer, frag string) string {
	if buffer == "" {
		return frag
	}
	if strings.HasSuffix(buffer, " ") || strings.HasSuffix(buffer, "\n") {
		return buffer + frag
	}
	return buffer + " " + frag
}
