package engine

import "github.com/montabano1/escape/internal/clues"

// recomputeAwards applies the two token-award rules to g after a clue
// transitions to solved. Pure over the in-memory document; callers persist g
// in the same transaction as the solve. Reports whether anything changed so
// standalone invocations can skip the write.
//
// Milestone rule: every 10th cumulative solve awards one token. The
// PreviousMilestoneSolved watermark guards against re-awarding when the
// recomputation runs again at the same totalSolved.
//
// Category-completion rule: a fully solved category awards one token, at most
// once ever, tracked by CompletedCategories membership.
//
// Zero, one, or two awards may fire in a single invocation.
func recomputeAwards(g *GameState) bool {
	changed := false

	if g.TotalSolved/10 > g.PreviousMilestoneSolved/10 {
		g.Tokens++
		g.PreviousMilestoneSolved = g.TotalSolved
		changed = true
	}

	for _, c := range clues.Categories {
		stat := g.CategoryStats[c]
		if stat.Total > 0 && stat.Solved == stat.Total && !g.CategoryCompleted(c) {
			g.Tokens++
			g.CompletedCategories = append(g.CompletedCategories, c)
			changed = true
		}
	}

	return changed
}
