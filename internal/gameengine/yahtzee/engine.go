// Package yahtzee implements the standard 13-category scorecard game:
// 3 rolls per turn with freely chosen holds, then a single category
// selection that locks a score for that turn.
package yahtzee

import (
	"encoding/json"
	"sync"

	"github.com/mhurst/piznac-games-sub001/internal/cardtypes"
	"github.com/mhurst/piznac-games-sub001/internal/gameengine"
)

const rollsPerTurn = 3

type Category string

const (
	Ones          Category = "ones"
	Twos          Category = "twos"
	Threes        Category = "threes"
	Fours         Category = "fours"
	Fives         Category = "fives"
	Sixes         Category = "sixes"
	ThreeOfAKind  Category = "threeOfAKind"
	FourOfAKind   Category = "fourOfAKind"
	FullHouse     Category = "fullHouse"
	SmallStraight Category = "smallStraight"
	LargeStraight Category = "largeStraight"
	Yahtzee       Category = "yahtzee"
	Chance        Category = "chance"
)

var allCategories = []Category{
	Ones, Twos, Threes, Fours, Fives, Sixes,
	ThreeOfAKind, FourOfAKind, FullHouse, SmallStraight, LargeStraight, Yahtzee, Chance,
}

func init() {
	gameengine.Register("yahtzee", func(playerIDs []string) (gameengine.Game, error) {
		return NewEngine(playerIDs), nil
	})
}

type rollMove struct {
	Type string `json:"type"`
	Hold []int  `json:"hold"`
}

type selectMove struct {
	Type     string   `json:"type"`
	Category Category `json:"category"`
}

type scorecard struct {
	scores map[Category]int
	filled map[Category]bool
}

func newScorecard() *scorecard {
	return &scorecard{scores: map[Category]int{}, filled: map[Category]bool{}}
}

func (s *scorecard) upperTotal() int {
	total := 0
	for _, c := range []Category{Ones, Twos, Threes, Fours, Fives, Sixes} {
		total += s.scores[c]
	}
	return total
}

func (s *scorecard) bonus() int {
	if s.upperTotal() >= 63 {
		return 35
	}
	return 0
}

func (s *scorecard) grandTotal() int {
	total := s.bonus()
	for _, v := range s.scores {
		total += v
	}
	return total
}

func (s *scorecard) isComplete() bool {
	return len(s.filled) == len(allCategories)
}

// Engine is the authoritative Yahtzee state machine: a shared five-die
// pool per turn, a hold set, a roll counter, and a scorecard per
// player.
type Engine struct {
	mu sync.Mutex

	playerOrder []string
	cards       map[string]*scorecard

	dice       [5]int
	held       map[int]bool
	rollsTaken int

	currentPlayerIndex int
	roller             *cardtypes.DiceRoller

	gameOver bool
	winner   string
}

func NewEngine(playerIDs []string) *Engine {
	e := &Engine{
		playerOrder: append([]string{}, playerIDs...),
		cards:       map[string]*scorecard{},
		held:        map[int]bool{},
		roller:      cardtypes.NewDiceRoller(),
	}
	for _, id := range playerIDs {
		e.cards[id] = newScorecard()
	}
	return e
}

func (e *Engine) GameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gameOver
}

func (e *Engine) currentPlayer() string {
	if len(e.playerOrder) == 0 {
		return ""
	}
	return e.playerOrder[e.currentPlayerIndex%len(e.playerOrder)]
}

func (e *Engine) MakeMove(playerID string, raw json.RawMessage) gameengine.MoveResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gameOver {
		return gameengine.Invalid("the game is over")
	}
	if playerID != e.currentPlayer() {
		return gameengine.Invalid("not your turn")
	}

	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return gameengine.Invalid("malformed move payload")
	}

	switch tag.Type {
	case "roll":
		return e.doRoll(raw)
	case "select":
		return e.doSelect(playerID, raw)
	default:
		return gameengine.Invalid("unknown move %q", tag.Type)
	}
}

func (e *Engine) doRoll(raw json.RawMessage) gameengine.MoveResult {
	if e.rollsTaken >= rollsPerTurn {
		return gameengine.Invalid("no rolls remaining this turn")
	}
	var m rollMove
	if err := json.Unmarshal(raw, &m); err != nil {
		return gameengine.Invalid("malformed roll")
	}

	held := map[int]bool{}
	for _, ix := range m.Hold {
		if ix < 0 || ix >= 5 {
			return gameengine.Invalid("hold index %d out of range", ix)
		}
		held[ix] = true
	}
	// The first roll of a turn always rolls all five dice; hold only
	// applies from the second roll onward.
	if e.rollsTaken > 0 {
		e.held = held
	}

	toRoll := []int{}
	for i := 0; i < 5; i++ {
		if !e.held[i] {
			toRoll = append(toRoll, i)
		}
	}
	faces := e.roller.Roll(len(toRoll))
	for i, ix := range toRoll {
		e.dice[ix] = faces[i]
	}
	e.rollsTaken++

	return gameengine.Valid(map[string]interface{}{"dice": e.dice, "rollsTaken": e.rollsTaken})
}

func (e *Engine) doSelect(playerID string, raw json.RawMessage) gameengine.MoveResult {
	if e.rollsTaken == 0 {
		return gameengine.Invalid("roll before selecting a category")
	}
	var m selectMove
	if err := json.Unmarshal(raw, &m); err != nil {
		return gameengine.Invalid("malformed select")
	}
	card := e.cards[playerID]
	if card.filled[m.Category] {
		return gameengine.Invalid("category %q already filled", m.Category)
	}
	s := scoreCategory(m.Category, e.dice)
	card.scores[m.Category] = s
	card.filled[m.Category] = true

	e.rollsTaken = 0
	e.held = map[int]bool{}
	e.dice = [5]int{}

	if card.isComplete() {
		e.maybeEndGame()
	}
	if !e.gameOver {
		e.currentPlayerIndex = (e.currentPlayerIndex + 1) % len(e.playerOrder)
	}
	return gameengine.Valid(map[string]interface{}{"category": m.Category, "score": s})
}

func (e *Engine) maybeEndGame() {
	for _, id := range e.playerOrder {
		if !e.cards[id].isComplete() {
			return
		}
	}
	best := ""
	bestScore := -1
	for _, id := range e.playerOrder {
		total := e.cards[id].grandTotal()
		if total > bestScore {
			bestScore = total
			best = id
		}
	}
	e.gameOver = true
	e.winner = best
}

// scoreCategory computes the score a given 5-die roll earns in a
// category, independent of what's already on the scorecard (a zero is
// a valid, final score for an unlucky category choice).
func scoreCategory(cat Category, dice [5]int) int {
	counts := map[int]int{}
	sum := 0
	for _, d := range dice {
		counts[d]++
		sum += d
	}

	switch cat {
	case Ones:
		return counts[1] * 1
	case Twos:
		return counts[2] * 2
	case Threes:
		return counts[3] * 3
	case Fours:
		return counts[4] * 4
	case Fives:
		return counts[5] * 5
	case Sixes:
		return counts[6] * 6
	case ThreeOfAKind:
		if hasCountOfAtLeast(counts, 3) {
			return sum
		}
		return 0
	case FourOfAKind:
		if hasCountOfAtLeast(counts, 4) {
			return sum
		}
		return 0
	case FullHouse:
		if isFullHouse(counts) {
			return 25
		}
		return 0
	case SmallStraight:
		if hasSmallStraight(counts) {
			return 30
		}
		return 0
	case LargeStraight:
		if hasLargeStraight(counts) {
			return 40
		}
		return 0
	case Yahtzee:
		if hasCountOfAtLeast(counts, 5) {
			return 50
		}
		return 0
	case Chance:
		return sum
	}
	return 0
}

func hasCountOfAtLeast(counts map[int]int, n int) bool {
	for _, c := range counts {
		if c >= n {
			return true
		}
	}
	return false
}

func isFullHouse(counts map[int]int) bool {
	has3, has2 := false, false
	for _, c := range counts {
		if c == 3 {
			has3 = true
		}
		if c == 2 {
			has2 = true
		}
		if c == 5 {
			// five of a kind also counts as a full house in this ruleset
			return true
		}
	}
	return has3 && has2
}

func hasSmallStraight(counts map[int]int) bool {
	runs := [][]int{{1, 2, 3, 4}, {2, 3, 4, 5}, {3, 4, 5, 6}}
	for _, run := range runs {
		ok := true
		for _, v := range run {
			if counts[v] == 0 {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func hasLargeStraight(counts map[int]int) bool {
	runs := [][]int{{1, 2, 3, 4, 5}, {2, 3, 4, 5, 6}}
	for _, run := range runs {
		ok := true
		for _, v := range run {
			if counts[v] == 0 {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

type PublicScorecard struct {
	Scores map[Category]int  `json:"scores"`
	Filled map[Category]bool `json:"filled"`
	Total  int               `json:"total"`
}

type PublicState struct {
	Dice            [5]int                      `json:"dice"`
	Held            []int                       `json:"held"`
	RollsTaken      int                         `json:"rollsTaken"`
	CurrentPlayerID string                      `json:"currentPlayerId"`
	Scorecards      map[string]PublicScorecard  `json:"scorecards"`
	GameOver        bool                        `json:"gameOver"`
	WinnerID        string                      `json:"winnerId,omitempty"`
}

func (e *Engine) GetState(forPlayerID string) interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	held := make([]int, 0, len(e.held))
	for ix := range e.held {
		held = append(held, ix)
	}

	cards := make(map[string]PublicScorecard, len(e.cards))
	for id, c := range e.cards {
		cards[id] = PublicScorecard{Scores: copyScores(c.scores), Filled: copyFilled(c.filled), Total: c.grandTotal()}
	}

	return PublicState{
		Dice: e.dice, Held: held, RollsTaken: e.rollsTaken,
		CurrentPlayerID: e.currentPlayer(), Scorecards: cards,
		GameOver: e.gameOver, WinnerID: e.winner,
	}
}

func copyScores(scores map[Category]int) map[Category]int {
	out := make(map[Category]int, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out
}

func copyFilled(filled map[Category]bool) map[Category]bool {
	out := make(map[Category]bool, len(filled))
	for k, v := range filled {
		out[k] = v
	}
	return out
}

func (e *Engine) RemovePlayer(playerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i, id := range e.playerOrder {
		if id == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	wasCurrent := e.currentPlayer() == playerID
	e.playerOrder = append(e.playerOrder[:idx], e.playerOrder[idx+1:]...)
	delete(e.cards, playerID)

	if len(e.playerOrder) <= 1 {
		e.gameOver = true
		if len(e.playerOrder) == 1 {
			e.winner = e.playerOrder[0]
		}
		return
	}
	if e.currentPlayerIndex >= len(e.playerOrder) {
		e.currentPlayerIndex = 0
	}
	if wasCurrent {
		e.rollsTaken = 0
		e.held = map[int]bool{}
		e.dice = [5]int{}
	}
}
