package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/montabano1/escape/internal/clues"
	"github.com/montabano1/escape/internal/database"
	"github.com/montabano1/escape/internal/engine"
)

func newTestStore(t *testing.T) *DocStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	docs, err := NewDocStore(ctx, db)
	if err != nil {
		t.Fatalf("new doc store: %v", err)
	}
	return docs
}

func provision(t *testing.T, docs *DocStore) {
	t.Helper()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	err := docs.Provision(context.Background(), ProvisionParams{
		Title:     "Test Room",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
}

func TestProvisionWritesAggregate(t *testing.T) {
	docs := newTestStore(t)
	ctx := context.Background()

	ok, err := docs.Provisioned(ctx)
	if err != nil {
		t.Fatalf("provisioned: %v", err)
	}
	if ok {
		t.Fatal("fresh store reports provisioned")
	}

	provision(t, docs)

	ok, err = docs.Provisioned(ctx)
	if err != nil {
		t.Fatalf("provisioned: %v", err)
	}
	if !ok {
		t.Fatal("store not provisioned after Provision")
	}

	g, err := docs.Game(ctx)
	if err != nil {
		t.Fatalf("game: %v", err)
	}
	if g.Title != "Test Room" {
		t.Fatalf("title = %q", g.Title)
	}
	if g.StartTime != "2026-03-01T09:00:00Z" || g.EndTime != "2026-03-01T11:00:00Z" {
		t.Fatalf("window = %q .. %q", g.StartTime, g.EndTime)
	}
	if g.Tokens != 0 || g.TokensSpent != 0 || g.TotalSolved != 0 || g.PreviousMilestoneSolved != 0 {
		t.Fatalf("counters not zeroed: %+v", g)
	}

	sum := 0
	for c, total := range clues.Totals() {
		stat := g.CategoryStats[c]
		if stat.Total != total || stat.Solved != 0 {
			t.Fatalf("category %s stat = %+v, want total %d solved 0", c, stat, total)
		}
		sum += stat.Total
	}
	if sum != clues.Count {
		t.Fatalf("category totals sum to %d, want %d", sum, clues.Count)
	}

	records, err := docs.AllClues(ctx)
	if err != nil {
		t.Fatalf("all clues: %v", err)
	}
	if len(records) != clues.Count {
		t.Fatalf("got %d clue records, want %d", len(records), clues.Count)
	}
	for i, rec := range records {
		if rec.ID != i+1 {
			t.Fatalf("records not ordered by id: index %d has id %d", i, rec.ID)
		}
		if rec.IsSolved || rec.HintUnlocked || rec.Answer != nil {
			t.Fatalf("record %d not pristine: %+v", rec.ID, rec)
		}
		if rec.HintText == "" {
			t.Fatalf("record %d has no hint text", rec.ID)
		}
	}
}

func TestProvisionResetsState(t *testing.T) {
	docs := newTestStore(t)
	ctx := context.Background()
	provision(t, docs)

	err := docs.UpdateClue(ctx, 1, func(g *engine.GameState, rec *engine.ClueRecord) error {
		g.TotalSolved = 7
		g.Tokens = 3
		rec.IsSolved = true
		return nil
	})
	if err != nil {
		t.Fatalf("update clue: %v", err)
	}
	if err := docs.AppendGuess(ctx, engine.GuessEntry{ClueID: 1, Guess: "init", Correct: true, PlayerName: "alice"}); err != nil {
		t.Fatalf("append guess: %v", err)
	}

	provision(t, docs)

	g, err := docs.Game(ctx)
	if err != nil {
		t.Fatalf("game: %v", err)
	}
	if g.TotalSolved != 0 || g.Tokens != 0 {
		t.Fatalf("counters survived re-provision: %+v", g)
	}
	rec, err := docs.Clue(ctx, 1)
	if err != nil {
		t.Fatalf("clue: %v", err)
	}
	if rec.IsSolved {
		t.Fatal("clue record survived re-provision")
	}
	feed, err := docs.RecentGuesses(ctx, 25)
	if err != nil {
		t.Fatalf("recent guesses: %v", err)
	}
	if len(feed) != 0 {
		t.Fatal("guess log survived re-provision")
	}
}

func TestGameNotFound(t *testing.T) {
	docs := newTestStore(t)
	ctx := context.Background()

	if _, err := docs.Game(ctx); !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("game error = %v, want ErrNotFound", err)
	}
	if _, err := docs.Clue(ctx, 1); !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("clue error = %v, want ErrNotFound", err)
	}
	err := docs.UpdateGame(ctx, func(*engine.GameState) error { return nil })
	if !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("update game error = %v, want ErrNotFound", err)
	}
}

func TestUpdateClueNotFound(t *testing.T) {
	docs := newTestStore(t)
	provision(t, docs)

	err := docs.UpdateClue(context.Background(), 99, func(*engine.GameState, *engine.ClueRecord) error {
		t.Fatal("fn called for missing clue")
		return nil
	})
	if !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateClueRollsBackOnError(t *testing.T) {
	docs := newTestStore(t)
	ctx := context.Background()
	provision(t, docs)

	boom := errors.New("boom")
	err := docs.UpdateClue(ctx, 1, func(g *engine.GameState, rec *engine.ClueRecord) error {
		g.Tokens = 99
		rec.IsSolved = true
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}

	g, err := docs.Game(ctx)
	if err != nil {
		t.Fatalf("game: %v", err)
	}
	if g.Tokens != 0 {
		t.Fatalf("tokens = %d, want 0 after rollback", g.Tokens)
	}
	rec, err := docs.Clue(ctx, 1)
	if err != nil {
		t.Fatalf("clue: %v", err)
	}
	if rec.IsSolved {
		t.Fatal("clue mutation survived rollback")
	}
}

func TestUpdateClueUnchangedWritesNothing(t *testing.T) {
	docs := newTestStore(t)
	ctx := context.Background()
	provision(t, docs)

	err := docs.UpdateClue(ctx, 1, func(g *engine.GameState, rec *engine.ClueRecord) error {
		g.Tokens = 99
		rec.IsSolved = true
		return engine.ErrUnchanged
	})
	if err != nil {
		t.Fatalf("error = %v, want nil for ErrUnchanged", err)
	}

	g, err := docs.Game(ctx)
	if err != nil {
		t.Fatalf("game: %v", err)
	}
	if g.Tokens != 0 {
		t.Fatalf("tokens = %d, want 0 (ErrUnchanged must not persist)", g.Tokens)
	}
}

func TestUpdateGamePersists(t *testing.T) {
	docs := newTestStore(t)
	ctx := context.Background()
	provision(t, docs)

	err := docs.UpdateGame(ctx, func(g *engine.GameState) error {
		g.Tokens -= 1
		return nil
	})
	if err != nil {
		t.Fatalf("update game: %v", err)
	}

	g, err := docs.Game(ctx)
	if err != nil {
		t.Fatalf("game: %v", err)
	}
	if g.Tokens != -1 {
		t.Fatalf("tokens = %d, want -1", g.Tokens)
	}
}

func TestUpdateClueConcurrentWriters(t *testing.T) {
	ctx := context.Background()

	// A file-backed database: each pooled connection gets its own snapshot,
	// which is where unserialized read-modify-writes fall over.
	db, err := database.Open(ctx, filepath.Join(t.TempDir(), "game.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	docs, err := NewDocStore(ctx, db)
	if err != nil {
		t.Fatalf("new doc store: %v", err)
	}
	provision(t, docs)

	const n = 20
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = docs.UpdateClue(ctx, i+1, func(g *engine.GameState, rec *engine.ClueRecord) error {
				rec.IsSolved = true
				g.TotalSolved++
				return nil
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent update of clue %d: %v", i+1, err)
		}
	}

	g, err := docs.Game(ctx)
	if err != nil {
		t.Fatalf("game: %v", err)
	}
	if g.TotalSolved != n {
		t.Fatalf("totalSolved = %d, want %d (no update may be lost)", g.TotalSolved, n)
	}
}

func TestRecentGuessesOrderAndCap(t *testing.T) {
	docs := newTestStore(t)
	ctx := context.Background()
	provision(t, docs)

	for i := 1; i <= 4; i++ {
		err := docs.AppendGuess(ctx, engine.GuessEntry{
			ClueID:     i,
			Guess:      "attempt",
			PlayerName: "alice",
		})
		if err != nil {
			t.Fatalf("append guess %d: %v", i, err)
		}
		// Distinct timestamps keep the newest-first ordering observable.
		time.Sleep(2 * time.Millisecond)
	}

	feed, err := docs.RecentGuesses(ctx, 3)
	if err != nil {
		t.Fatalf("recent guesses: %v", err)
	}
	if len(feed) != 3 {
		t.Fatalf("got %d entries, want the cap of 3", len(feed))
	}
	for i, want := range []int{4, 3, 2} {
		if feed[i].ClueID != want {
			t.Fatalf("feed[%d].ClueID = %d, want %d (newest first)", i, feed[i].ClueID, want)
		}
		if feed[i].CreatedAt == "" {
			t.Fatalf("feed[%d] missing server timestamp", i)
		}
	}
}
