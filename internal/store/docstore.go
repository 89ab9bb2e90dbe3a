// Package store persists the game aggregate as JSON documents in SQLite:
// per-model tables with JSONB data columns, one singleton game document, one
// clue record per clue id, and an append-only guess log.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/montabano1/escape/internal/clues"
	"github.com/montabano1/escape/internal/engine"
)

// GameID identifies the singleton game document.
const GameID = "main"

type DocStore struct {
	db *sql.DB

	// writeMu serializes all writers in process. SQLite allows one write
	// transaction at a time, and a deferred transaction whose snapshot went
	// stale between its read and its write fails with SQLITE_BUSY
	// immediately (busy_timeout does not cover the lock upgrade). Queueing
	// writers here keeps every read-modify-write snapshot fresh, so
	// concurrent valid operations succeed instead of erroring.
	writeMu sync.Mutex
}

func NewDocStore(ctx context.Context, db *sql.DB) (*DocStore, error) {
	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS games (
			id   TEXT PRIMARY KEY,
			data JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS clues (
			id   INTEGER PRIMARY KEY,
			data JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS guesses (
			id         TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			data       JSONB NOT NULL
		)`,
	} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("creating table: %w", err)
		}
	}

	return &DocStore{db: db}, nil
}

func newID() string {
	b := make([]byte, 16)
	// crypto/rand panics rather than returning an error.
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func nowUTC() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

func (s *DocStore) Game(ctx context.Context) (engine.GameState, error) {
	var g engine.GameState
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM games WHERE id = ?`, GameID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return g, engine.ErrNotFound
	}
	if err != nil {
		return g, err
	}
	return g, json.Unmarshal([]byte(data), &g)
}

func (s *DocStore) Clue(ctx context.Context, id int) (engine.ClueRecord, error) {
	var rec engine.ClueRecord
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM clues WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, engine.ErrNotFound
	}
	if err != nil {
		return rec, err
	}
	return rec, json.Unmarshal([]byte(data), &rec)
}

// AllClues returns every clue record ordered by id.
func (s *DocStore) AllClues(ctx context.Context) ([]engine.ClueRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM clues ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []engine.ClueRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var rec engine.ClueRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// AppendGuess appends entry to the guess log with a server-assigned
// timestamp. The log is append-only; entries are never updated or deleted.
func (s *DocStore) AppendGuess(ctx context.Context, entry engine.GuessEntry) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	entry.CreatedAt = nowUTC()
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO guesses (id, created_at, data) VALUES (?, ?, jsonb(?))`,
		newID(), entry.CreatedAt, string(data),
	)
	return err
}

// RecentGuesses returns up to limit log entries, most recent first.
func (s *DocStore) RecentGuesses(ctx context.Context, limit int) ([]engine.GuessEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM guesses ORDER BY created_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []engine.GuessEntry
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var e engine.GuessEntry
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpdateGame loads the game document, applies fn, and saves it, all inside
// one SQL transaction, with writers queued on writeMu. A read-modify-write
// here cannot lose another writer's increment and cannot fail on a stale
// snapshot.
func (s *DocStore) UpdateGame(ctx context.Context, fn func(*engine.GameState) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	g, err := readGame(ctx, tx)
	if err != nil {
		return err
	}

	if err := fn(&g); err != nil {
		if errors.Is(err, engine.ErrUnchanged) {
			return nil
		}
		return err
	}

	if err := writeGame(ctx, tx, g); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateClue is UpdateGame extended to the clue record for id: both documents
// are read, modified, and written back under the same transaction, keeping
// the aggregate's counters and the record's solved flag consistent.
func (s *DocStore) UpdateClue(ctx context.Context, id int, fn func(*engine.GameState, *engine.ClueRecord) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	g, err := readGame(ctx, tx)
	if err != nil {
		return err
	}

	var recData string
	err = tx.QueryRowContext(ctx,
		`SELECT json(data) FROM clues WHERE id = ?`, id,
	).Scan(&recData)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.ErrNotFound
	}
	if err != nil {
		return err
	}
	var rec engine.ClueRecord
	if err := json.Unmarshal([]byte(recData), &rec); err != nil {
		return err
	}

	if err := fn(&g, &rec); err != nil {
		if errors.Is(err, engine.ErrUnchanged) {
			return nil
		}
		return err
	}

	if err := writeGame(ctx, tx, g); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE clues SET data = jsonb(?) WHERE id = ?`, string(data), id,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func readGame(ctx context.Context, tx *sql.Tx) (engine.GameState, error) {
	var g engine.GameState
	var data string
	err := tx.QueryRowContext(ctx,
		`SELECT json(data) FROM games WHERE id = ?`, GameID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return g, engine.ErrNotFound
	}
	if err != nil {
		return g, err
	}
	return g, json.Unmarshal([]byte(data), &g)
}

func writeGame(ctx context.Context, tx *sql.Tx, g engine.GameState) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE games SET data = jsonb(?) WHERE id = ?`, string(data), GameID,
	)
	return err
}

// ProvisionParams are the operator-supplied setup inputs.
type ProvisionParams struct {
	Title     string
	StartTime time.Time
	EndTime   time.Time
}

// Provisioned reports whether the game document exists.
func (s *DocStore) Provisioned(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM games WHERE id = ?`, GameID,
	).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Provision writes the game document with zeroed counters plus all clue
// records in a single batch transaction, replacing whatever was there. The
// guess log is cleared so a re-provisioned game starts with an empty feed.
func (s *DocStore) Provision(ctx context.Context, p ProvisionParams) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stats := make(map[clues.Category]engine.CategoryStat, len(clues.Categories))
	for c, total := range clues.Totals() {
		stats[c] = engine.CategoryStat{Total: total}
	}

	g := engine.GameState{
		Title:               p.Title,
		StartTime:           p.StartTime.UTC().Format(time.RFC3339),
		EndTime:             p.EndTime.UTC().Format(time.RFC3339),
		CategoryStats:       stats,
		CompletedCategories: []clues.Category{},
	}
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO games (id, data) VALUES (?, jsonb(?))`,
		GameID, string(data),
	); err != nil {
		return err
	}

	for _, def := range clues.All() {
		rec := engine.ClueRecord{
			ID:       def.ID,
			Category: def.Category,
			HintText: fmt.Sprintf("Hint for clue %d", def.ID),
		}
		recData, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO clues (id, data) VALUES (?, jsonb(?))`,
			def.ID, string(recData),
		); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM guesses`); err != nil {
		return err
	}

	return tx.Commit()
}

// Ensure DocStore implements engine.Store at compile time.
var _ engine.Store = (*DocStore)(nil)
