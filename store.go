package main

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	prefLayout      = "layout"
	prefFirstLaunch = "first_launch"
)

// Store is the local sqlite database: key-value preferences plus a mirror of
// the user's submitted reaction marks, so items can be annotated before the
// server lists arrive.
type Store struct {
	db *sql.DB
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS prefs (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS reactions (
	content_id INTEGER PRIMARY KEY,
	kind TEXT NOT NULL,
	marked_at INTEGER NOT NULL
);
`

func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Pref(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

func (s *Store) SetPref(key string, value string) error {
	_, err := s.db.Exec(`INSERT INTO prefs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Layout returns the persisted presentation mode, defaulting to swiper on
// first use.
func (s *Store) Layout() LayoutMode {
	value, ok := s.Pref(prefLayout)
	if !ok || (LayoutMode(value) != LayoutSwiper && LayoutMode(value) != LayoutCatalog) {
		return LayoutSwiper
	}
	return LayoutMode(value)
}

func (s *Store) SetLayout(layout LayoutMode) error {
	return s.SetPref(prefLayout, string(layout))
}

func (s *Store) FirstLaunch() bool {
	_, ok := s.Pref(prefFirstLaunch)
	return !ok
}

func (s *Store) MarkLaunched() error {
	return s.SetPref(prefFirstLaunch, "done")
}

// SetReaction records the single active mark for a content id; an unmark
// deletes the row.
func (s *Store) SetReaction(contentID int, kind ReactionKind) error {
	if kind == ReactionUnmark {
		_, err := s.db.Exec(`DELETE FROM reactions WHERE content_id = ?`, contentID)
		return err
	}
	_, err := s.db.Exec(`INSERT INTO reactions (content_id, kind, marked_at) VALUES (?, ?, ?)
		ON CONFLICT(content_id) DO UPDATE SET kind = excluded.kind, marked_at = excluded.marked_at`,
		contentID, string(kind), time.Now().UTC().Unix())
	return err
}

func (s *Store) Reaction(contentID int) (ReactionKind, bool) {
	var kind string
	err := s.db.QueryRow(`SELECT kind FROM reactions WHERE content_id = ?`, contentID).Scan(&kind)
	if err != nil {
		return "", false
	}
	return ReactionKind(kind), true
}

func (s *Store) ReactionIDs(kind ReactionKind) ([]int, error) {
	rows, err := s.db.Query(`SELECT content_id FROM reactions WHERE kind = ? ORDER BY marked_at DESC`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) ClearReactions() error {
	_, err := s.db.Exec(`DELETE FROM reactions`)
	return err
}

type ReactionMark struct {
	ContentID int          `json:"content_id"`
	Kind      ReactionKind `json:"kind"`
	MarkedAt  int64        `json:"marked_at"`
}

func (s *Store) Marks() ([]ReactionMark, error) {
	rows, err := s.db.Query(`SELECT content_id, kind, marked_at FROM reactions ORDER BY marked_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	marks := []ReactionMark{}
	for rows.Next() {
		var mark ReactionMark
		var kind string
		if err := rows.Scan(&mark.ContentID, &kind, &mark.MarkedAt); err != nil {
			return nil, err
		}
		mark.Kind = ReactionKind(kind)
		marks = append(marks, mark)
	}
	return marks, rows.Err()
}

// ImportMarks upserts marks preserving their original timestamps.
func (s *Store) ImportMarks(marks []ReactionMark) error {
	for _, mark := range marks {
		if mark.Kind != ReactionLike && mark.Kind != ReactionDislike {
			continue
		}
		_, err := s.db.Exec(`INSERT INTO reactions (content_id, kind, marked_at) VALUES (?, ?, ?)
			ON CONFLICT(content_id) DO UPDATE SET kind = excluded.kind, marked_at = excluded.marked_at`,
			mark.ContentID, string(mark.Kind), mark.MarkedAt)
		if err != nil {
			return err
		}
	}
	return nil
}
