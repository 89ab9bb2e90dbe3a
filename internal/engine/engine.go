// Package engine implements the game-state transition and payment-award
// rules: how a guess, hint purchase, or solution reveal mutates the shared
// game document, including the token-economy side effects. The engine holds
// no in-process state; every operation re-reads current state through the
// Store and commits through its transactional update helpers.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/montabano1/escape/internal/clues"
)

const (
	hintCost   = 1
	revealCost = 3
)

// Rules are the two policy switches left open by the game's history: whether
// a wrong guess debits a token, and whether purchases are blocked when the
// balance would go negative.
type Rules struct {
	WrongGuessPenalty bool
	EnforceMinBalance bool
}

type Engine struct {
	store  Store
	rules  Rules
	logger *slog.Logger
	now    func() time.Time
}

func New(store Store, rules Rules, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		rules:  rules,
		logger: logger,
		now:    time.Now,
	}
}

// nowUTC formats the engine clock the way documents store timestamps.
func (e *Engine) nowUTC() string {
	return e.now().UTC().Format("2006-01-02T15:04:05.000Z")
}

type GuessRequest struct {
	ClueID     int
	Guess      string
	PlayerName string
}

type GuessResult struct {
	Correct       bool
	AlreadySolved bool
}

// SubmitGuess evaluates a guess against the static clue table. Every attempt
// is appended to the guess log, even against an already-solved clue (the
// feed shows the activity; no state mutation follows). A correct guess marks
// the record solved, bumps the counters, and runs award recomputation; a
// wrong guess debits one token when the penalty rule is on.
func (e *Engine) SubmitGuess(ctx context.Context, req GuessRequest) (GuessResult, error) {
	player := strings.TrimSpace(req.PlayerName)
	if req.ClueID == 0 || strings.TrimSpace(req.Guess) == "" || player == "" {
		return GuessResult{}, invalidArgument("clueId, guess and playerName are required")
	}

	def, ok := clues.Lookup(req.ClueID)
	if !ok {
		return GuessResult{}, notFound("clue not found")
	}

	rec, err := e.store.Clue(ctx, req.ClueID)
	if errors.Is(err, ErrNotFound) {
		return GuessResult{}, notFound("clue record not found")
	}
	if err != nil {
		return GuessResult{}, err
	}

	normalized := strings.ToLower(strings.TrimSpace(req.Guess))
	correct := !rec.IsSolved && normalized == def.Answer

	if err := e.store.AppendGuess(ctx, GuessEntry{
		ClueID:     req.ClueID,
		Guess:      normalized,
		Correct:    correct,
		PlayerName: player,
	}); err != nil {
		return GuessResult{}, err
	}

	if rec.IsSolved {
		return GuessResult{Correct: false, AlreadySolved: true}, nil
	}

	if !correct {
		if e.rules.WrongGuessPenalty {
			err := e.store.UpdateGame(ctx, func(g *GameState) error {
				g.Tokens--
				return nil
			})
			if errors.Is(err, ErrNotFound) {
				return GuessResult{}, notFound("game not found")
			}
			if err != nil {
				return GuessResult{}, err
			}
		}
		return GuessResult{Correct: false}, nil
	}

	already, err := e.solve(ctx, def, player, 0)
	if errors.Is(err, ErrNotFound) {
		return GuessResult{}, notFound("game not found")
	}
	if err != nil {
		return GuessResult{}, err
	}
	if already {
		// Lost a race with a concurrent solve; the attempt is logged but the
		// counters were not touched.
		return GuessResult{Correct: false, AlreadySolved: true}, nil
	}

	e.logger.Info("clue solved",
		"clueId", def.ID,
		"category", def.Category,
		"player", player,
	)
	return GuessResult{Correct: true}, nil
}

type HintRequest struct {
	ClueID     int
	PlayerName string
}

type HintResult struct {
	Success         bool
	AlreadyUnlocked bool
}

// UseHint unlocks a clue's hint for one token. Idempotent: a second call on
// the same clue reports AlreadyUnlocked with no additional debit.
func (e *Engine) UseHint(ctx context.Context, req HintRequest) (HintResult, error) {
	player := strings.TrimSpace(req.PlayerName)
	if req.ClueID == 0 || player == "" {
		return HintResult{}, invalidArgument("clueId and playerName are required")
	}
	if _, ok := clues.Lookup(req.ClueID); !ok {
		return HintResult{}, notFound("clue not found")
	}

	already := false
	err := e.store.UpdateClue(ctx, req.ClueID, func(g *GameState, rec *ClueRecord) error {
		if rec.HintUnlocked {
			already = true
			return ErrUnchanged
		}
		if e.rules.EnforceMinBalance && g.Tokens < hintCost {
			return failedPrecondition("insufficient tokens for hint")
		}
		g.Tokens -= hintCost
		g.TokensSpent += hintCost
		rec.HintUnlocked = true
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return HintResult{}, notFound("game or clue record not found")
	}
	if err != nil {
		return HintResult{}, err
	}

	return HintResult{Success: true, AlreadyUnlocked: already}, nil
}

type RevealRequest struct {
	ClueID     int
	PlayerName string
}

type RevealResult struct {
	Success       bool
	AlreadySolved bool
}

// RevealSolution buys the canonical answer for three tokens, marking the clue
// solved and forcing the hint unlocked so a revealed clue never shows a
// locked hint. Counters and awards move exactly as for a correct guess.
func (e *Engine) RevealSolution(ctx context.Context, req RevealRequest) (RevealResult, error) {
	player := strings.TrimSpace(req.PlayerName)
	if req.ClueID == 0 || player == "" {
		return RevealResult{}, invalidArgument("clueId and playerName are required")
	}
	def, ok := clues.Lookup(req.ClueID)
	if !ok {
		return RevealResult{}, notFound("clue not found")
	}

	already, err := e.solve(ctx, def, player, revealCost)
	if errors.Is(err, ErrNotFound) {
		return RevealResult{}, notFound("game or clue record not found")
	}
	if err != nil {
		return RevealResult{}, err
	}
	if already {
		return RevealResult{Success: true, AlreadySolved: true}, nil
	}

	e.logger.Info("solution revealed",
		"clueId", def.ID,
		"category", def.Category,
		"player", player,
	)
	return RevealResult{Success: true}, nil
}

// solve transitions a clue to solved inside one store transaction: debit the
// purchase cost (reveals only), stamp the record, bump totalSolved and the
// category counter, and recompute awards. Reports already=true without any
// mutation when the record is solved by the time the transaction reads it.
func (e *Engine) solve(ctx context.Context, def clues.Definition, player string, cost int) (already bool, err error) {
	now := e.nowUTC()
	err = e.store.UpdateClue(ctx, def.ID, func(g *GameState, rec *ClueRecord) error {
		if rec.IsSolved {
			already = true
			return ErrUnchanged
		}
		if cost > 0 {
			if e.rules.EnforceMinBalance && g.Tokens < cost {
				return failedPrecondition("insufficient tokens for reveal")
			}
			g.Tokens -= cost
			g.TokensSpent += cost
		}

		// The static table is authoritative for category; a drifted copy on
		// the record is only worth a diagnostic.
		if rec.Category != def.Category {
			e.logger.Warn("clue category mismatch",
				"clueId", def.ID,
				"static", def.Category,
				"stored", rec.Category,
			)
		}

		answer := def.Answer
		rec.IsSolved = true
		rec.Answer = &answer
		rec.SolvedBy = &player
		rec.SolvedAt = &now
		if cost > 0 {
			rec.HintUnlocked = true
		}

		g.TotalSolved++
		stat := g.CategoryStats[def.Category]
		stat.Solved++
		g.CategoryStats[def.Category] = stat

		recomputeAwards(g)
		return nil
	})
	return already, err
}
