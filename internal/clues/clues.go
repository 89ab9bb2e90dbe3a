// Package clues holds the compiled-in clue table: the single source of truth
// for answers and category membership. Category fields stored alongside clue
// records in the database are advisory copies and may drift; callers should
// treat this table as authoritative.
package clues

// Category is one of the four fixed clue groupings. Completing every clue in
// a category awards a bonus token.
type Category string

const (
	CategoryApp  Category = "app"
	CategoryJira Category = "jira"
	CategoryAPI  Category = "api"
	CategoryMisc Category = "misc"
)

// Categories lists all categories in display order.
var Categories = []Category{CategoryApp, CategoryJira, CategoryAPI, CategoryMisc}

// Definition is one clue: a canonical lowercase answer and a category,
// identified by a dense integer id 1..50.
type Definition struct {
	ID       int
	Answer   string
	Category Category
}

var table = map[int]Definition{
	1:  {1, "init", CategoryMisc},
	2:  {2, "clown", CategoryApp},
	3:  {3, "gem", CategoryApp},
	4:  {4, "new", CategoryMisc},
	5:  {5, "span", CategoryApp},
	6:  {6, "tank", CategoryApp},
	7:  {7, "duck", CategoryApp},
	8:  {8, "away", CategoryApp},
	9:  {9, "crop", CategoryMisc},
	10: {10, "huge", CategoryApp},
	11: {11, "pass", CategoryApp},
	12: {12, "pick", CategoryApp},
	13: {13, "sweet", CategoryApp},
	14: {14, "marker", CategoryApp},
	15: {15, "lower", CategoryApp},
	16: {16, "horse", CategoryApp},
	17: {17, "catch", CategoryMisc},
	18: {18, "early", CategoryApp},
	19: {19, "green", CategoryApp},
	20: {20, "bull", CategoryApp},
	21: {21, "black", CategoryApp},
	22: {22, "seek", CategoryApp},
	23: {23, "goat", CategoryApp},
	24: {24, "par", CategoryApp},
	25: {25, "sport", CategoryMisc},
	26: {26, "gold", CategoryApp},
	27: {27, "play", CategoryApp},
	28: {28, "spine", CategoryAPI},
	29: {29, "bulb", CategoryAPI},
	30: {30, "rock", CategoryAPI},
	31: {31, "doll", CategoryAPI},
	32: {32, "jumble", CategoryAPI},
	33: {33, "warm", CategoryAPI},
	34: {34, "brain", CategoryAPI},
	35: {35, "crane", CategoryAPI},
	36: {36, "pillow", CategoryAPI},
	37: {37, "submit", CategoryJira},
	38: {38, "update", CategoryJira},
	39: {39, "bottom", CategoryJira},
	40: {40, "emit", CategoryJira},
	41: {41, "crawl", CategoryMisc},
	42: {42, "toad", CategoryMisc},
	43: {43, "mate", CategoryAPI},
	44: {44, "let", CategoryMisc},
	45: {45, "title", CategoryAPI},
	46: {46, "steak", CategoryMisc},
	47: {47, "true", CategoryMisc},
	48: {48, "topic", CategoryMisc},
	49: {49, "peer", CategoryMisc},
	50: {50, "assemble", CategoryMisc},
}

// Count is the number of defined clues.
const Count = 50

// Lookup returns the definition for id, or ok=false if id is outside the
// defined set.
func Lookup(id int) (Definition, bool) {
	def, ok := table[id]
	return def, ok
}

// All returns every definition ordered by id.
func All() []Definition {
	defs := make([]Definition, 0, Count)
	for id := 1; id <= Count; id++ {
		defs = append(defs, table[id])
	}
	return defs
}

// Totals returns the number of clues in each category.
func Totals() map[Category]int {
	totals := make(map[Category]int, len(Categories))
	for _, def := range table {
		totals[def.Category]++
	}
	return totals
}
