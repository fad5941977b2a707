// Package store is the sqlite-backed diary store. It owns the note
// collections and applies dispatched actions to them.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/marcus/habitdiary/internal/diary"
	"github.com/marcus/habitdiary/internal/note"
)

// Supported database/sql driver names.
const (
	DriverCGO  = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPure = "sqlite"  // modernc.org/sqlite
)

// mainDiary is the diary column value for the default collection.
const mainDiary = ""

var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrHabitNotFound = errors.New("habit not found")
	ErrHabitExists   = errors.New("habit already exists")
	ErrDuplicateNote = errors.New("a note with this date already exists")
	ErrMisrouted     = errors.New("action sent to the wrong diary")
)

// Habit is a tracked habit owning its own diary.
type Habit struct {
	Title      string    `json:"title"`
	ColorIndex int       `json:"colorIndex"`
	CreatedAt  time.Time `json:"createdAt"`
	NoteCount  int       `json:"noteCount"`
}

// Store handles SQLite operations for diaries.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the diary database at dbPath.
func Open(driver, dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn, err := dataSource(driver, dbPath)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps pragmas and writes consistent for both drivers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func dataSource(driver, path string) (string, error) {
	switch driver {
	case DriverCGO:
		return path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on", nil
	case DriverPure:
		return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", nil
	}
	return "", fmt.Errorf("unsupported sqlite driver %q", driver)
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS habits (
    title TEXT PRIMARY KEY,
    color_index INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS notes (
    diary TEXT NOT NULL,
    created_at TEXT NOT NULL,
    text TEXT NOT NULL,
    streak INTEGER,
    pinned INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (diary, created_at)
);
CREATE INDEX IF NOT EXISTS idx_notes_diary ON notes(diary, pinned);
`
	_, err := s.db.Exec(schema)
	return err
}

// AddHabit registers a habit so it can own a diary.
func (s *Store) AddHabit(ctx context.Context, title string, colorIndex int) (Habit, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Habit{}, fmt.Errorf("habit title is required")
	}
	if _, ok, err := s.Habit(ctx, title); err != nil {
		return Habit{}, err
	} else if ok {
		return Habit{}, fmt.Errorf("%w: %s", ErrHabitExists, title)
	}

	h := Habit{Title: title, ColorIndex: colorIndex, CreatedAt: time.Now().UTC()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO habits (title, color_index, created_at) VALUES (?, ?, ?)`,
		h.Title, h.ColorIndex, h.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return Habit{}, fmt.Errorf("insert habit: %w", err)
	}
	return h, nil
}

// Habit looks up a habit by title.
func (s *Store) Habit(ctx context.Context, title string) (Habit, bool, error) {
	var h Habit
	var created string
	err := s.db.QueryRowContext(ctx, `
		SELECT h.title, h.color_index, h.created_at,
		       (SELECT COUNT(*) FROM notes n WHERE n.diary = h.title)
		FROM habits h WHERE h.title = ?`, title).
		Scan(&h.Title, &h.ColorIndex, &created, &h.NoteCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Habit{}, false, nil
	}
	if err != nil {
		return Habit{}, false, fmt.Errorf("query habit: %w", err)
	}
	h.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return h, true, nil
}

// Habits lists all habits by title.
func (s *Store) Habits(ctx context.Context) ([]Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.title, h.color_index, h.created_at,
		       (SELECT COUNT(*) FROM notes n WHERE n.diary = h.title)
		FROM habits h ORDER BY h.title`)
	if err != nil {
		return nil, fmt.Errorf("query habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		var h Habit
		var created string
		if err := rows.Scan(&h.Title, &h.ColorIndex, &created, &h.NoteCount); err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		h.CreatedAt, _ = time.Parse(time.RFC3339, created)
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// MainDiary returns the default collection.
func (s *Store) MainDiary(ctx context.Context) ([]note.Note, error) {
	return s.listNotes(ctx, mainDiary)
}

// HabitDiary returns the collection of the habit titled title.
func (s *Store) HabitDiary(ctx context.Context, title string) ([]note.Note, bool, error) {
	_, ok, err := s.Habit(ctx, title)
	if err != nil || !ok {
		return nil, false, err
	}
	notes, err := s.listNotes(ctx, title)
	if err != nil {
		return nil, false, err
	}
	return notes, true, nil
}

func (s *Store) listNotes(ctx context.Context, diaryName string) ([]note.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT created_at, text, streak, pinned
		FROM notes WHERE diary = ? ORDER BY created_at`, diaryName)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []note.Note
	for rows.Next() {
		var n note.Note
		var created string
		var streak sql.NullInt64
		var pinned int
		if err := rows.Scan(&created, &n.Text, &streak, &pinned); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.CreatedAt, err = note.ParseKey(created)
		if err != nil {
			return nil, fmt.Errorf("parse note date %q: %w", created, err)
		}
		if streak.Valid {
			v := int(streak.Int64)
			n.Streak = &v
		}
		n.Pinned = pinned == 1
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Apply executes a store action against the diary it names.
func (s *Store) Apply(ctx context.Context, a diary.Action) error {
	if err := a.Validate(); err != nil {
		return err
	}
	diaryName := mainDiary
	if a.Scoped() {
		if _, ok, err := s.Habit(ctx, a.HabitTitle); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("%w: %s", ErrHabitNotFound, a.HabitTitle)
		}
		diaryName = a.HabitTitle
	}

	switch a.Type {
	case diary.AddNote:
		return s.insert(ctx, diaryName, *a.NewNote)
	case diary.EditNote:
		return s.exec(ctx, `UPDATE notes SET text = ? WHERE diary = ? AND created_at = ?`,
			*a.NewText, diaryName, note.FormatKey(a.Key()))
	case diary.DeleteNote:
		return s.exec(ctx, `DELETE FROM notes WHERE diary = ? AND created_at = ?`,
			diaryName, note.FormatKey(a.Key()))
	case diary.TogglePin:
		return s.exec(ctx, `UPDATE notes SET pinned = 1 - pinned WHERE diary = ? AND created_at = ?`,
			diaryName, note.FormatKey(a.Key()))
	}
	return fmt.Errorf("unknown action type %q", a.Type)
}

func (s *Store) insert(ctx context.Context, diaryName string, n note.Note) error {
	key := note.FormatKey(n.CreatedAt)
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes WHERE diary = ? AND created_at = ?`, diaryName, key).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check note: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateNote, key)
	}

	var streak any
	if n.Streak != nil {
		streak = *n.Streak
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO notes (diary, created_at, text, streak, pinned) VALUES (?, ?, ?, ?, ?)`,
		diaryName, key, n.Text, streak, boolToInt(n.Pinned))
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// exec runs a single-note statement and reports ErrNoteNotFound when
// nothing matched.
func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// HabitSink accepts only habit-scoped actions.
func (s *Store) HabitSink() diary.Sink {
	return diary.SinkFunc(func(ctx context.Context, a diary.Action) error {
		if !a.Scoped() {
			return ErrMisrouted
		}
		return s.Apply(ctx, a)
	})
}

// MainSink accepts only main diary actions.
func (s *Store) MainSink() diary.Sink {
	return diary.SinkFunc(func(ctx context.Context, a diary.Action) error {
		if a.Scoped() {
			return ErrMisrouted
		}
		return s.Apply(ctx, a)
	})
}

// NewDispatcher wires a dispatcher to this store's two sinks.
func (s *Store) NewDispatcher(current func() diary.Context, opts ...diary.Option) *diary.Dispatcher {
	return diary.NewDispatcher(s.HabitSink(), s.MainSink(), current, opts...)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
