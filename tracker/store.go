package tracker

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	jsoniter "github.com/json-iterator/go"
	_ "github.com/mattn/go-sqlite3"
)

// Storage keys for the two overlay entries. Read ids are stored as a JSON
// array, ratings as a JSON id-to-stars object.
const (
	keyReadBooks   = "tracker_read_books"
	keyUserRatings = "tracker_user_ratings"
)

// OverlayStore persists the user overlay in a SQLite key-value table. The
// canonical overlay lives here; the in-memory copy is written back
// synchronously after every mutation.
type OverlayStore struct {
	db *sql.DB

	putStmt *sql.Stmt
}

// NewOverlayStore opens (or creates) the SQLite database at dbPath, applies
// schema migrations, and prepares the upsert statement.
func NewOverlayStore(dbPath string) (*OverlayStore, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	store := &OverlayStore{db: db}
	if store.putStmt, err = db.Prepare(
		`INSERT INTO user_data(key,value) VALUES(?,?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value`); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the prepared statement and closes the DB.
func (s *OverlayStore) Close() error {
	if s.putStmt != nil {
		s.putStmt.Close()
	}
	return s.db.Close()
}

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS user_data (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL
        );`); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}

	return tx.Commit()
}

// LoadOverlay reads both overlay entries. Missing or unparsable entries
// yield an empty overlay, never an error: a first run and corrupted storage
// look identical.
func (s *OverlayStore) LoadOverlay() Overlay {
	o := NewOverlay()

	if raw, ok := s.get(keyReadBooks); ok {
		var ids []int64
		if err := jsoniter.ConfigFastest.Unmarshal([]byte(raw), &ids); err == nil {
			for _, id := range ids {
				o.ReadIDs[id] = true
			}
		}
	}

	if raw, ok := s.get(keyUserRatings); ok {
		var ratings map[int64]int
		if err := jsoniter.ConfigFastest.Unmarshal([]byte(raw), &ratings); err == nil && ratings != nil {
			o.Ratings = ratings
		}
	}

	return o
}

func (s *OverlayStore) get(key string) (string, bool) {
	var value string
	if err := s.db.QueryRow(`SELECT value FROM user_data WHERE key=?`, key).Scan(&value); err != nil {
		return "", false
	}
	return value, true
}

// SaveOverlay writes both entries in one transaction so a half-written
// overlay can never be observed.
func (s *OverlayStore) SaveOverlay(o Overlay) error {
	ids := make([]int64, 0, len(o.ReadIDs))
	for id := range o.ReadIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	readJSON, err := jsoniter.ConfigFastest.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal read ids: %w", err)
	}
	ratingsJSON, err := jsoniter.ConfigFastest.Marshal(o.Ratings)
	if err != nil {
		return fmt.Errorf("marshal ratings: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	put := tx.Stmt(s.putStmt)
	if _, err := put.Exec(keyReadBooks, string(readJSON)); err != nil {
		return fmt.Errorf("save read ids: %w", err)
	}
	if _, err := put.Exec(keyUserRatings, string(ratingsJSON)); err != nil {
		return fmt.Errorf("save ratings: %w", err)
	}
	return tx.Commit()
}
