package dictation

import "testing"

func TestAggregatorAppendsWithSingleSpace(t *testing.T) {
	tests := []struct {
		name   string
		buffer string
		frag   string
		want   string
	}{
		{"empty buffer", "", "hello", "hello"},
		{"typed text", "Today I", "ran far", "Today I ran far"},
		{"trailing space", "Today ", "ran", "Today ran"},
		{"trims fragment", "a", "  b  ", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAggregator()
			got := a.Apply(tt.buffer, Event{Results: []Result{{Transcript: tt.frag}}})
			if got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAggregatorReplayIsIdempotent(t *testing.T) {
	a := NewAggregator()
	ev := Event{ResultIndex: 0, Results: []Result{{Transcript: "went running"}}}
	buf := a.Apply("Note:", ev)
	buf = a.Apply(buf, ev)
	if buf != "Note: went running" {
		t.Errorf("buffer = %q", buf)
	}
}

func TestAggregatorRefinesInterimResult(t *testing.T) {
	a := NewAggregator()
	buf := a.Apply("", Event{Results: []Result{{Transcript: "went run"}}})
	buf = a.Apply(buf, Event{Results: []Result{{Transcript: "went running", Final: true}}})
	if buf != "went running" {
		t.Errorf("buffer = %q, want refined fragment", buf)
	}

	buf = a.Apply(buf, Event{ResultIndex: 1, Results: []Result{
		{Transcript: "went running", Final: true},
		{Transcript: "in the rain"},
	}})
	if buf != "went running in the rain" {
		t.Errorf("buffer = %q", buf)
	}
}

func TestAggregatorKeepsUserEdits(t *testing.T) {
	a := NewAggregator()
	buf := a.Apply("", Event{Results: []Result{{Transcript: "went run"}}})
	buf += "!"
	buf = a.Apply(buf, Event{Results: []Result{{Transcript: "went running"}}})
	if buf != "went run! went running" {
		t.Errorf("buffer = %q", buf)
	}
}

func TestAggregatorSkipsEarlierIndexes(t *testing.T) {
	a := NewAggregator()
	buf := a.Apply("", Event{Results: []Result{{Transcript: "one"}}})
	buf = a.Apply(buf, Event{ResultIndex: 1, Results: []Result{{Transcript: "ignored"}, {Transcript: "two"}}})
	if buf != "one two" {
		t.Errorf("buffer = %q", buf)
	}
}
