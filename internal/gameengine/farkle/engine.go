package farkle

import (
	"encoding/json"
	"sync"

	"github.com/mhurst/piznac-games-sub001/internal/cardtypes"
	"github.com/mhurst/piznac-games-sub001/internal/gameengine"
)

func init() {
	gameengine.Register("farkle", func(playerIDs []string) (gameengine.Game, error) {
		return NewEngine(playerIDs), nil
	})
}

// Engine is the authoritative Farkle state machine: a shared six-die
// pool, a running turn score, and a per-player banked total. All
// mutation is serialized through mu, matching the poker engine's
// single-lock-per-table discipline.
type Engine struct {
	mu sync.Mutex

	playerOrder []string
	scores      map[string]int
	eliminated  map[string]bool // never set in this 2-condition game; kept for Game-contract symmetry

	dice        [6]int
	keptIndices map[int]bool
	turnScore   int
	// hasRolled gates bank: a player may only bank after rolling at
	// least once since the turn began or hot dice last freed all six
	// dice (a bank or farkle ends the turn). A keep does not clear
	// it, so bank is legal immediately after a keep with no
	// intervening roll.
	hasRolled bool
	// awaitingKeep gates roll: set when a roll leaves some active dice
	// scoring and some not, forcing the player to resolve that
	// selection with a keep before rolling again. A keep always
	// clears it, whether or not it empties the active set.
	awaitingKeep bool

	currentPlayerIndex int
	roller             *cardtypes.DiceRoller

	gameOver bool
	winner   string
}

func NewEngine(playerIDs []string) *Engine {
	e := &Engine{
		playerOrder: append([]string{}, playerIDs...),
		scores:      map[string]int{},
		eliminated:  map[string]bool{},
		keptIndices: map[int]bool{},
		roller:      cardtypes.NewDiceRoller(),
	}
	for _, id := range playerIDs {
		e.scores[id] = 0
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

func (e *Engine) activeIndices() []int {
	out := []int{}
	for i := 0; i < 6; i++ {
		if !e.keptIndices[i] {
			out = append(out, i)
		}
	}
	return out
}

func (e *Engine) activeValues() []int {
	idx := e.activeIndices()
	vals := make([]int, len(idx))
	for i, ix := range idx {
		vals[i] = e.dice[ix]
	}
	return vals
}

func (e *Engine) resetTurn() {
	e.keptIndices = map[int]bool{}
	e.dice = [6]int{}
	e.turnScore = 0
	e.hasRolled = false
	e.awaitingKeep = false
}

func (e *Engine) advanceTurn() {
	e.resetTurn()
	if len(e.playerOrder) > 0 {
		e.currentPlayerIndex = (e.currentPlayerIndex + 1) % len(e.playerOrder)
	}
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

	moveType, indices, err := parseMove(raw)
	if err != nil {
		return gameengine.Invalid("malformed move payload")
	}

	switch moveType {
	case "roll":
		return e.doRoll()
	case "keep":
		return e.doKeep(indices)
	case "bank":
		return e.doBank()
	case "keep-and-roll":
		if res := e.doKeep(indices); !res.Valid {
			return res
		}
		return e.doRoll()
	case "keep-and-bank":
		if res := e.doKeep(indices); !res.Valid {
			return res
		}
		return e.doBank()
	default:
		return gameengine.Invalid("unknown move %q", moveType)
	}
}

// doRoll re-rolls every currently-active (not-kept) die.
func (e *Engine) doRoll() gameengine.MoveResult {
	if e.awaitingKeep {
		return gameengine.Invalid("choose which dice to keep before rolling again")
	}
	active := e.activeIndices()
	if len(active) == 0 {
		active = []int{0, 1, 2, 3, 4, 5}
	}
	faces := e.roller.Roll(len(active))
	for i, ix := range active {
		e.dice[ix] = faces[i]
	}

	values := make([]int, len(active))
	for i, ix := range active {
		values[i] = e.dice[ix]
	}

	if !anyScoringSubset(values) {
		e.advanceTurn()
		return gameengine.Valid(map[string]interface{}{"farkle": true})
	}
	e.hasRolled = true

	if s := score(values); s > 0 {
		for _, ix := range active {
			e.keptIndices[ix] = true
		}
		e.turnScore += s
		if len(e.keptIndices) == 6 {
			hot := e.turnScore
			e.keptIndices = map[int]bool{}
			e.dice = [6]int{}
			e.hasRolled = false
			e.turnScore = hot
			return gameengine.Valid(map[string]interface{}{"hotDice": true, "turnScore": e.turnScore})
		}
		return gameengine.Valid(map[string]interface{}{"autoKept": true, "turnScore": e.turnScore})
	}

	e.awaitingKeep = true
	return gameengine.Valid(map[string]interface{}{"turnScore": e.turnScore})
}

// doKeep locks the given active indices in as scored, atomically: the
// whole move is rejected (no mutation) unless the selection scores.
func (e *Engine) doKeep(indices []int) gameengine.MoveResult {
	if !e.hasRolled {
		return gameengine.Invalid("roll before keeping dice")
	}
	if len(indices) == 0 {
		return gameengine.Invalid("keep requires at least one die index")
	}
	seen := map[int]bool{}
	values := make([]int, 0, len(indices))
	for _, ix := range indices {
		if ix < 0 || ix >= 6 || e.keptIndices[ix] || e.dice[ix] == 0 {
			return gameengine.Invalid("index %d is not an active, rolled die", ix)
		}
		if seen[ix] {
			return gameengine.Invalid("duplicate index %d", ix)
		}
		seen[ix] = true
		values = append(values, e.dice[ix])
	}

	s := score(values)
	if s == 0 {
		return gameengine.Invalid("selected dice do not form a scoring combination")
	}

	for ix := range seen {
		e.keptIndices[ix] = true
	}
	e.turnScore += s
	e.awaitingKeep = false

	if len(e.keptIndices) == 6 {
		hot := e.turnScore
		e.keptIndices = map[int]bool{}
		e.dice = [6]int{}
		e.hasRolled = false
		e.turnScore = hot
		return gameengine.Valid(map[string]interface{}{"hotDice": true, "turnScore": e.turnScore})
	}
	return gameengine.Valid(map[string]interface{}{"turnScore": e.turnScore})
}

// doBank greedily auto-scores any remaining active dice, commits
// turnScore to the player's running total, and advances the turn.
func (e *Engine) doBank() gameengine.MoveResult {
	if !e.hasRolled {
		return gameengine.Invalid("roll before banking")
	}
	if e.awaitingKeep {
		return gameengine.Invalid("choose which dice to keep before banking")
	}
	if e.turnScore <= 0 {
		return gameengine.Invalid("nothing to bank")
	}

	active := e.activeValues()
	e.turnScore += greedyBankScore(active)

	player := e.currentPlayer()
	e.scores[player] += e.turnScore
	banked := e.turnScore

	if e.scores[player] >= targetScore {
		e.gameOver = true
		e.winner = player
		e.resetTurn()
		return gameengine.Valid(map[string]interface{}{"banked": banked, "gameOver": true, "winner": player})
	}

	e.advanceTurn()
	return gameengine.Valid(map[string]interface{}{"banked": banked})
}

// PublicState is the shared-table snapshot returned by GetState. Dice
// are fully shared (no per-viewer redaction; Farkle has no hidden
// information) per spec's dice-games redaction note, which only
// applies to private per-player dice pools; Farkle's are public.
type PublicState struct {
	Dice               [6]int         `json:"dice"`
	KeptIndices        []int          `json:"keptIndices"`
	TurnScore          int            `json:"turnScore"`
	HasRolled          bool           `json:"hasRolled"`
	CurrentPlayerID    string         `json:"currentPlayerId"`
	Scores             map[string]int `json:"scores"`
	GameOver           bool           `json:"gameOver"`
	WinnerID           string         `json:"winnerId,omitempty"`
}

func (e *Engine) GetState(forPlayerID string) interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := make([]int, 0, len(e.keptIndices))
	for ix := range e.keptIndices {
		kept = append(kept, ix)
	}

	return PublicState{
		Dice: e.dice, KeptIndices: kept, TurnScore: e.turnScore,
		HasRolled: e.hasRolled, CurrentPlayerID: e.currentPlayer(),
		Scores: copyScores(e.scores), GameOver: e.gameOver, WinnerID: e.winner,
	}
}

func copyScores(scores map[string]int) map[string]int {
	out := make(map[string]int, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out
}

// RemovePlayer is idempotent; the leaver's turn (if current) is
// forfeited and play passes to the next seat. If only one player
// remains, they win outright.
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
	delete(e.scores, playerID)

	if len(e.playerOrder) <= 1 {
		e.gameOver = true
		if len(e.playerOrder) == 1 {
			e.winner = e.playerOrder[0]
		}
		return
	}
	if idx < e.currentPlayerIndex {
		e.currentPlayerIndex--
	}
	if e.currentPlayerIndex >= len(e.playerOrder) {
		e.currentPlayerIndex = 0
	}
	if wasCurrent {
		e.resetTurn()
	}
}
