// Package diary implements the diary screen: the note list, the composer
// and the delete confirmation for one diary context.
package diary

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	diarycore "github.com/marcus/habitdiary/internal/diary"
	"github.com/marcus/habitdiary/internal/dictation"
	"github.com/marcus/habitdiary/internal/draft"
	"github.com/marcus/habitdiary/internal/editor"
	"github.com/marcus/habitdiary/internal/keymap"
	"github.com/marcus/habitdiary/internal/markdown"
	"github.com/marcus/habitdiary/internal/note"
	"github.com/marcus/habitdiary/internal/plugin"
	"github.com/marcus/habitdiary/internal/state"
	"github.com/marcus/habitdiary/internal/styles"
	"github.com/marcus/habitdiary/internal/ui"
)

const (
	pluginID   = "diary"
	pluginName = "diary"
	pluginIcon = "D"

	composerHeight = 6
)

// Backend is the diary store as seen by the screen.
type Backend interface {
	diarycore.Source
	NewDispatcher(current func() diarycore.Context, opts ...diarycore.Option) *diarycore.Dispatcher
}

// Deps are the collaborators owned by one diary session. Drafts, Dictation,
// Renderer, Prefs and Changes are optional.
type Deps struct {
	Backend   Backend
	Drafts    *draft.Manager
	Dictation *dictation.Session
	Renderer  *markdown.Renderer
	Prefs     *state.Store
	Changes   <-chan struct{}

	Clipboard       func(string) error
	DispatchOptions []diarycore.Option
}

// SubmitMsg asks the screen to submit the composer. It is produced by the
// single submit command registered in the keymap.
type SubmitMsg struct{}

// Plugin implements the diary screen.
type Plugin struct {
	ctx     *plugin.Context
	deps    Deps
	focused bool

	dcMu sync.RWMutex
	dc   diarycore.Context

	dispatcher *diarycore.Dispatcher
	editor     *editor.Editor

	width  int
	height int

	notes     []note.Note
	loaded    bool
	loadErr   error
	cursor    int
	scrollOff int

	order      note.SortOrder
	pinnedOnly bool

	searchMode  bool
	searchTerm  string
	searchInput textinput.Model

	composer textarea.Model

	confirm       *ui.ConfirmDialog
	pendingDelete *diarycore.PendingDelete
}

// New creates a diary screen for dc.
func New(dc diarycore.Context, deps Deps) *Plugin {
	if deps.Clipboard == nil {
		deps.Clipboard = clipboard.WriteAll
	}
	return &Plugin{dc: dc, deps: deps, order: note.SortNewest}
}

// ID returns the plugin identifier.
func (p *Plugin) ID() string { return pluginID }

// Name returns the plugin display name.
func (p *Plugin) Name() string { return pluginName }

// Icon returns the plugin icon character.
func (p *Plugin) Icon() string { return pluginIcon }

// Init wires the session: dispatcher, editor seeded from the saved draft,
// persisted view preferences and the submit command.
func (p *Plugin) Init(ctx *plugin.Context) error {
	if p.deps.Backend == nil {
		return errors.New("diary store unavailable")
	}
	p.ctx = ctx
	logger := p.logger()

	maxLen := note.MaxTextLength
	if ctx.Config != nil && ctx.Config.Diary.MaxNoteLength > 0 {
		maxLen = ctx.Config.Diary.MaxNoteLength
	}
	opts := []diarycore.Option{diarycore.WithMaxLength(maxLen), diarycore.WithLogger(logger)}
	opts = append(opts, p.deps.DispatchOptions...)
	p.dispatcher = p.deps.Backend.NewDispatcher(p.currentContext, opts...)

	seed := ""
	if p.deps.Drafts != nil {
		s, err := p.deps.Drafts.Seed()
		if err != nil {
			logger.Warn("diary: draft unavailable", "err", err)
		}
		seed = s
	}
	p.editor = editor.New(seed, maxLen)

	if ctx.Config != nil {
		if o, err := note.ParseSortOrder(ctx.Config.Diary.DefaultSort); err == nil {
			p.order = o
		}
	}
	if p.deps.Prefs != nil {
		prefs := p.deps.Prefs.Get()
		if o, err := note.ParseSortOrder(prefs.SortOrder); err == nil {
			p.order = o
		}
		p.pinnedOnly = prefs.PinnedOnly
	}

	p.composer = newComposer(seed)
	p.searchInput = newSearchInput()

	if ctx.Keymap != nil {
		ctx.Keymap.RegisterCommand(keymap.Command{
			ID:      keymap.CmdSubmit,
			Name:    "Submit",
			Context: keymap.ContextGlobal,
			Handler: submit,
		})
	}
	return nil
}

// submit is the one handler bound to the submit shortcut. It reads no
// state; the screen resolves the pending action when SubmitMsg arrives.
func submit() tea.Cmd {
	return func() tea.Msg { return SubmitMsg{} }
}

func newComposer(seed string) textarea.Model {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""
	ta.Placeholder = "What happened today?"
	ta.FocusedStyle = textarea.Style{
		Base:             lipgloss.NewStyle(),
		CursorLine:       lipgloss.NewStyle(),
		CursorLineNumber: styles.Muted,
		EndOfBuffer:      styles.Muted,
		LineNumber:       styles.Muted,
		Placeholder:      styles.Muted,
		Prompt:           lipgloss.NewStyle(),
		Text:             lipgloss.NewStyle(),
	}
	ta.BlurredStyle = ta.FocusedStyle
	// ctrl+p toggles the preview
	ta.KeyMap.LinePrevious = key.NewBinding(key.WithKeys("up"))
	ta.SetValue(seed)
	ta.Blur()
	return ta
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search notes"
	ti.CharLimit = 200
	return ti
}

// Start loads the collection and begins listening for external writes.
func (p *Plugin) Start() tea.Cmd {
	return tea.Batch(p.loadNotes(), p.watchStore())
}

// Stop releases the session: the pending draft timer is dropped, dictation
// is stopped and the submit command is removed.
func (p *Plugin) Stop() {
	if p.deps.Drafts != nil {
		p.deps.Drafts.Cancel()
	}
	if p.deps.Dictation != nil {
		p.deps.Dictation.Stop()
	}
	if p.editor != nil {
		p.editor.SetDictating(false)
	}
	if p.ctx != nil && p.ctx.Keymap != nil {
		p.ctx.Keymap.UnregisterCommand(keymap.CmdSubmit)
	}
}

// Context returns the active diary context.
func (p *Plugin) Context() diarycore.Context {
	return p.currentContext()
}

// SetContext switches the screen to another diary. In-flight loads for the
// old diary are discarded and an edit in progress is cancelled.
func (p *Plugin) SetContext(dc diarycore.Context) tea.Cmd {
	p.dcMu.Lock()
	p.dc = dc
	p.dcMu.Unlock()

	if p.ctx != nil {
		p.ctx.BumpEpoch()
	}
	if p.editor != nil && p.editor.Mode() == editor.Editing {
		p.editor.Cancel()
		p.syncComposer()
	}
	p.closeConfirm(false)
	p.notes = nil
	p.loaded = false
	p.cursor = 0
	p.scrollOff = 0
	if p.deps.Prefs != nil {
		if err := p.deps.Prefs.SetLastHabit(dc.HabitTitle); err != nil {
			p.logger().Warn("diary: save state", "err", err)
		}
	}
	return p.loadNotes()
}

func (p *Plugin) currentContext() diarycore.Context {
	p.dcMu.RLock()
	defer p.dcMu.RUnlock()
	return p.dc
}

// Update handles messages.
func (p *Plugin) Update(msg tea.Msg) (plugin.Plugin, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.resize()

	case NotesLoadedMsg:
		if plugin.IsStale(p.ctx, msg) {
			return p, nil
		}
		return p, p.applyLoaded(msg)

	case StoreChangedMsg:
		return p, tea.Batch(p.loadNotes(), p.watchStore())

	case SubmitMsg:
		return p, p.submitCurrent()

	case DispatchedMsg:
		return p, p.handleDispatched(msg)

	case draft.TickMsg:
		return p, p.draftElapsed(msg)

	case dictation.EventMsg:
		return p, p.dictationEvent(msg)

	case dictation.EndedMsg:
		return p, p.dictationEnded(msg)

	case tea.KeyMsg:
		return p.handleKey(msg)

	default:
		if p.composer.Focused() {
			var cmd tea.Cmd
			p.composer, cmd = p.composer.Update(msg)
			return p, cmd
		}
	}
	return p, nil
}

// IsFocused returns whether the plugin is focused.
func (p *Plugin) IsFocused() bool { return p.focused }

// SetFocused sets the focus state.
func (p *Plugin) SetFocused(f bool) { p.focused = f }

// Editor exposes the editor state.
func (p *Plugin) Editor() *editor.Editor { return p.editor }

// Notes returns the derived view currently displayed.
func (p *Plugin) Notes() []note.Note { return p.visible() }

func (p *Plugin) visible() []note.Note {
	return note.View(p.notes, p.searchTerm, p.order, p.pinnedOnly)
}

func (p *Plugin) selected() (note.Note, bool) {
	v := p.visible()
	if p.cursor < 0 || p.cursor >= len(v) {
		return note.Note{}, false
	}
	return v[p.cursor], true
}
