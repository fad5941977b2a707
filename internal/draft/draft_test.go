package draft

import (
	"path/filepath"
	"sort"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type memSlot struct {
	text   string
	ok     bool
	saves  []string
	clears int
}

func (s *memSlot) Load() (string, bool, error) { return s.text, s.ok, nil }

func (s *memSlot) Save(text string) error {
	s.text, s.ok = text, true
	s.saves = append(s.saves, text)
	return nil
}

func (s *memSlot) Clear() error {
	s.text, s.ok = "", false
	s.clears++
	return nil
}

// timeline is a virtual clock for scheduled ticks.
type timeline struct {
	now     time.Duration
	pending []scheduled
}

type scheduled struct {
	due time.Duration
	msg tea.Msg
}

func (tl *timeline) scheduler() Scheduler {
	return func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
		tl.pending = append(tl.pending, scheduled{due: tl.now + d, msg: fn(time.Time{})})
		return nil
	}
}

// advance delivers every tick due up to t, returning the times at which a
// save or clear happened.
func (tl *timeline) advance(t time.Duration, m *Manager) []time.Duration {
	sort.SliceStable(tl.pending, func(i, j int) bool { return tl.pending[i].due < tl.pending[j].due })
	var fired []time.Duration
	rest := tl.pending[:0]
	for _, s := range tl.pending {
		if s.due > t {
			rest = append(rest, s)
			continue
		}
		tl.now = s.due
		if acted, _ := m.Elapsed(s.msg.(TickMsg)); acted {
			fired = append(fired, s.due)
		}
	}
	tl.pending = rest
	tl.now = t
	return fired
}

func newTestManager() (*Manager, *memSlot, *timeline) {
	slot := &memSlot{}
	tl := &timeline{}
	m := NewManager(slot, 500*time.Millisecond, nil)
	m.SetScheduler(tl.scheduler())
	return m, slot, tl
}

func TestDebounceCollapsesChanges(t *testing.T) {
	m, slot, tl := newTestManager()
	ms := time.Millisecond

	var fired []time.Duration
	m.Changed("a")
	fired = append(fired, tl.advance(100*ms, m)...)
	m.Changed("ab")
	fired = append(fired, tl.advance(400*ms, m)...)
	m.Changed("abc")
	fired = append(fired, tl.advance(2000*ms, m)...)

	if len(slot.saves) != 1 || slot.saves[0] != "abc" {
		t.Fatalf("saves = %q, want [abc]", slot.saves)
	}
	if len(fired) != 1 || fired[0] != 900*ms {
		t.Errorf("fired at %v, want [900ms]", fired)
	}
}

func TestDebounceOnlyUninterruptedPeriodsPersist(t *testing.T) {
	m, slot, tl := newTestManager()
	ms := time.Millisecond

	var fired []time.Duration
	m.Changed("a")
	fired = append(fired, tl.advance(100*ms, m)...)
	m.Changed("ab")
	fired = append(fired, tl.advance(700*ms, m)...)
	m.Changed("abc")
	fired = append(fired, tl.advance(2000*ms, m)...)

	// "a" was interrupted at 100ms. "ab" sat through a full quiet period
	// before the next change at 700ms, so it is saved at 600ms; the final
	// slot value is "abc", saved at 1200ms. This is two saves, not the
	// single save a throttle that coalesces the whole burst would give.
	want := []string{"ab", "abc"}
	if len(slot.saves) != len(want) || slot.saves[0] != want[0] || slot.saves[1] != want[1] {
		t.Fatalf("saves = %q, want %q", slot.saves, want)
	}
	if fired[len(fired)-1] != 1200*ms || slot.text != "abc" {
		t.Errorf("last save at %v with %q, want 1.2s with abc", fired[len(fired)-1], slot.text)
	}
}

func TestChangeAfterQuietPeriodSavesAgain(t *testing.T) {
	m, slot, tl := newTestManager()
	m.Changed("first")
	tl.advance(time.Second, m)
	m.Changed("second")
	tl.advance(2*time.Second, m)
	if len(slot.saves) != 2 || slot.saves[1] != "second" {
		t.Errorf("saves = %q", slot.saves)
	}
}

func TestBlankBufferClearsSlot(t *testing.T) {
	m, slot, tl := newTestManager()
	slot.text, slot.ok = "old draft", true

	m.Changed("   ")
	tl.advance(time.Second, m)
	if slot.ok || slot.clears != 1 || len(slot.saves) != 0 {
		t.Errorf("slot = %+v, want cleared", slot)
	}
}

func TestClearNowCancelsPendingSave(t *testing.T) {
	m, slot, tl := newTestManager()
	slot.text, slot.ok = "stale", true

	m.Changed("submitted text")
	if err := m.ClearNow(); err != nil {
		t.Fatal(err)
	}
	if slot.ok {
		t.Error("slot not cleared immediately")
	}
	tl.advance(time.Second, m)
	if len(slot.saves) != 0 {
		t.Errorf("saves after submit = %q", slot.saves)
	}
	if m.Pending() {
		t.Error("Pending() after ClearNow")
	}
}

func TestCancelDropsPendingTick(t *testing.T) {
	m, slot, tl := newTestManager()
	m.Changed("unsaved")
	m.Cancel()
	tl.advance(time.Second, m)
	if len(slot.saves) != 0 || slot.clears != 0 {
		t.Errorf("slot touched after Cancel: %+v", slot)
	}
}

func TestSeed(t *testing.T) {
	m, slot, _ := newTestManager()
	if got, _ := m.Seed(); got != "" {
		t.Errorf("Seed() = %q, want empty", got)
	}
	slot.text, slot.ok = "left over", true
	got, err := m.Seed()
	if err != nil || got != "left over" || m.Buffer() != "left over" {
		t.Errorf("Seed() = %q, %v", got, err)
	}
}

func TestDiskSlot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "drafts")
	s := NewDiskSlot(dir, "")

	if _, ok, err := s.Load(); ok || err != nil {
		t.Fatalf("Load() on empty slot ok=%v err=%v", ok, err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() on empty slot: %v", err)
	}
	if err := s.Save("dear diary"); err != nil {
		t.Fatal(err)
	}

	reopened := NewDiskSlot(dir, DefaultSlotKey)
	text, ok, err := reopened.Load()
	if err != nil || !ok || text != "dear diary" {
		t.Errorf("Load() = %q, %v, %v", text, ok, err)
	}
	if err := reopened.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Load(); ok {
		t.Error("draft still present after Clear")
	}
}
