// Package mcpserver exposes the diary store as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/marcus/habitdiary/internal/diary"
	"github.com/marcus/habitdiary/internal/note"
	"github.com/marcus/habitdiary/internal/store"
)

// Server wraps the MCP server with diary tools.
type Server struct {
	mcp    *server.MCPServer
	store  *store.Store
	keys   *diary.KeyClock
	maxLen int
	logger *slog.Logger
}

// New creates a server with all diary tools registered.
func New(st *store.Store, version string, maxLen int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{store: st, keys: diary.NewKeyClock(nil), maxLen: maxLen, logger: logger}

	s.mcp = server.NewMCPServer(
		"Habit Diary",
		version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Read and change habit diaries. Notes are identified by their creation timestamp (key)."),
		server.WithRecovery(),
	)

	s.mcp.AddTool(mcp.NewTool("list_habits",
		mcp.WithDescription("List habits with their note counts."),
	), s.listHabits)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List the notes of a habit diary, or the main diary when habit is empty. Pinned notes come first."),
		mcp.WithString("habit", mcp.Description("Habit title; empty selects the main diary")),
		mcp.WithString("search", mcp.Description("Case-insensitive substring filter")),
		mcp.WithString("sort", mcp.Description("Date order"), mcp.Enum("newest", "oldest")),
		mcp.WithBoolean("pinned_only", mcp.Description("Only return pinned notes")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("add_note",
		mcp.WithDescription("Add a note to a diary."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Note text (markdown)")),
		mcp.WithString("habit", mcp.Description("Habit title; empty selects the main diary")),
		mcp.WithNumber("streak", mcp.Description("Current streak to record with the note")),
	), s.addNote)

	s.mcp.AddTool(mcp.NewTool("edit_note",
		mcp.WithDescription("Replace the text of a note. The key and pin state are kept."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Note key as returned by list_notes")),
		mcp.WithString("text", mcp.Required(), mcp.Description("New note text")),
		mcp.WithString("habit", mcp.Description("Habit title; empty selects the main diary")),
	), s.editNote)

	s.mcp.AddTool(mcp.NewTool("toggle_pin",
		mcp.WithDescription("Pin or unpin a note."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Note key as returned by list_notes")),
		mcp.WithString("habit", mcp.Description("Habit title; empty selects the main diary")),
	), s.togglePin)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note. Nothing is deleted unless confirm is true."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Note key as returned by list_notes")),
		mcp.WithString("habit", mcp.Description("Habit title; empty selects the main diary")),
		mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true to delete")),
	), s.deleteNote)

	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Listen serves MCP on the given streams until ctx is done or stdin closes.
func (s *Server) Listen(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, stdin, stdout)
}

// NotifyChanged tells connected clients the diaries changed.
func (s *Server) NotifyChanged() {
	s.mcp.SendNotificationToAllClients("notifications/resources/list_changed", nil)
}

type noteDTO struct {
	Key    string `json:"key"`
	Text   string `json:"text"`
	Streak *int   `json:"streak,omitempty"`
	Pinned bool   `json:"pinned"`
}

func toDTO(n note.Note) noteDTO {
	return noteDTO{Key: note.FormatKey(n.CreatedAt), Text: n.Text, Streak: n.Streak, Pinned: n.Pinned}
}

// dispatcher binds a dispatcher to the request's diary. All of them draw
// keys from the server's clock so rapid creates never share a key.
func (s *Server) dispatcher(req mcp.CallToolRequest) *diary.Dispatcher {
	dc := diary.Context{
		HabitTitle:    req.GetString("habit", ""),
		CurrentStreak: req.GetInt("streak", 0),
	}
	return s.store.NewDispatcher(diary.StaticContext(dc),
		diary.WithKeyClock(s.keys),
		diary.WithMaxLength(s.maxLen),
		diary.WithLogger(s.logger))
}

func (s *Server) listHabits(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	habits, err := s.store.Habits(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if habits == nil {
		habits = []store.Habit{}
	}
	return jsonResult(habits)
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	order, err := note.ParseSortOrder(req.GetString("sort", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dc := diary.Context{HabitTitle: req.GetString("habit", "")}
	notes, err := diary.Resolve(ctx, s.store, dc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	q := note.Query{
		Search:     req.GetString("search", ""),
		Order:      order,
		PinnedOnly: req.GetBool("pinned_only", false),
	}
	out := []noteDTO{}
	for _, n := range q.Apply(notes) {
		out = append(out, toDTO(n))
	}
	return jsonResult(out)
}

func (s *Server) addNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d := s.dispatcher(req)
	a, err := d.Create(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(toDTO(*a.NewNote))
}

func (s *Server) editNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := requireKey(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.dispatcher(req).Edit(ctx, key, text); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("updated: " + note.FormatKey(key)), nil
}

func (s *Server) togglePin(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := requireKey(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.dispatcher(req).TogglePin(ctx, key); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("toggled: " + note.FormatKey(key)), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := requireKey(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d := s.dispatcher(req)
	pd := d.RequestDelete(key)
	confirmed := req.GetBool("confirm", false)
	_, dispatched, err := d.ResolveDelete(ctx, pd, confirmed)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !dispatched {
		return mcp.NewToolResultError("delete not confirmed: pass confirm=true"), nil
	}
	return mcp.NewToolResultText("deleted: " + note.FormatKey(key)), nil
}

func requireKey(req mcp.CallToolRequest) (time.Time, error) {
	raw, err := req.RequireString("key")
	if err != nil {
		return time.Time{}, err
	}
	key, err := note.ParseKey(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid key %q: %w", raw, err)
	}
	return key, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}
