package engine

import (
	"context"
	"errors"

	"github.com/montabano1/escape/internal/clues"
)

// ErrNotFound is returned by Store implementations when the game document or
// a clue record does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnchanged may be returned by an update closure to signal it made no
// modifications; the store rolls back and reports success.
var ErrUnchanged = errors.New("unchanged")

// CategoryStat tracks solve progress within one category.
type CategoryStat struct {
	Total  int `json:"total"`
	Solved int `json:"solved"`
}

// GameState is the singleton game document. Tokens has no floor: wrong
// guesses and purchases may drive it negative.
type GameState struct {
	Title               string                          `json:"title"`
	StartTime           string                          `json:"startTime"`
	EndTime             string                          `json:"endTime"`
	TotalSolved         int                             `json:"totalSolved"`
	Tokens              int                             `json:"tokens"`
	TokensSpent         int                             `json:"tokensSpent"`
	CategoryStats       map[clues.Category]CategoryStat `json:"categoryStats"`
	CompletedCategories []clues.Category                `json:"completedCategories"`
	// PreviousMilestoneSolved is the totalSolved value at the last milestone
	// award. It prevents duplicate awards when recomputation runs again at
	// the same totalSolved.
	PreviousMilestoneSolved int `json:"previousTotalSolved"`
}

// CategoryCompleted reports whether c has already awarded its completion bonus.
func (g *GameState) CategoryCompleted(c clues.Category) bool {
	for _, done := range g.CompletedCategories {
		if done == c {
			return true
		}
	}
	return false
}

// ClueRecord is the per-clue child document. Created once at provisioning
// time; the unsolved→solved transition is one-way. Category here is an
// advisory copy of the static definition's category.
type ClueRecord struct {
	ID           int            `json:"id"`
	Category     clues.Category `json:"category"`
	IsSolved     bool           `json:"isSolved"`
	Answer       *string        `json:"answer"`
	SolvedBy     *string        `json:"solvedBy"`
	SolvedAt     *string        `json:"solvedAt"`
	HintUnlocked bool           `json:"hintUnlocked"`
	HintText     string         `json:"hiddenHint"`
}

// GuessEntry is one append-only guess-log entry. CreatedAt is assigned by the
// store at append time.
type GuessEntry struct {
	ClueID     int    `json:"clueId"`
	Guess      string `json:"guess"`
	Correct    bool   `json:"correct"`
	PlayerName string `json:"playerName"`
	CreatedAt  string `json:"createdAt"`
}

// Store is the narrow document-store surface the engine runs against. The
// game document and its clue records form one aggregate; UpdateGame and
// UpdateClue must apply their closure inside a single serializable
// transaction spanning the read of current state and the write of new state,
// so concurrent solves cannot lose updates.
type Store interface {
	Game(ctx context.Context) (GameState, error)
	Clue(ctx context.Context, id int) (ClueRecord, error)

	// AppendGuess appends entry to the guess log with a server-assigned
	// timestamp. Deliberately independent of UpdateClue: a logged attempt
	// with no following state change is acceptable.
	AppendGuess(ctx context.Context, entry GuessEntry) error

	// UpdateGame reads the game document, applies fn, and writes it back in
	// one transaction. A fn error rolls back; ErrUnchanged rolls back
	// without error.
	UpdateGame(ctx context.Context, fn func(*GameState) error) error

	// UpdateClue is UpdateGame extended to also read and write the clue
	// record for id within the same transaction.
	UpdateClue(ctx context.Context, id int, fn func(*GameState, *ClueRecord) error) error
}
