// Package mancala implements the two-player Kalah-style sowing game on
// a 14-pit board (6 pits plus one store per side).
package mancala

import (
	"encoding/json"
	"sync"

	"github.com/mhurst/piznac-games-sub001/internal/gameengine"
)

const pitsPerSide = 6

func init() {
	gameengine.Register("mancala", func(playerIDs []string) (gameengine.Game, error) {
		return NewEngine(playerIDs)
	})
}

type sowMove struct {
	Type string `json:"type"`
	Pit  int    `json:"pit"`
}

// Engine holds the board as a single 14-slot ring: indices 0-5 are
// player 0's pits, 6 is player 0's store, 7-12 are player 1's pits, 13
// is player 1's store. Sowing always walks forward around the ring,
// skipping the sower's opponent's store.
type Engine struct {
	mu sync.Mutex

	players []string
	board   [14]int
	turn    int

	gameOver bool
	winnerID string
}

func NewEngine(playerIDs []string) (*Engine, error) {
	if len(playerIDs) != 2 {
		return nil, gameengine.ErrWrongPlayerCount("mancala", 2, len(playerIDs))
	}
	e := &Engine{players: append([]string{}, playerIDs...)}
	for i := range e.board {
		if i != 6 && i != 13 {
			e.board[i] = 4
		}
	}
	return e, nil
}

func (e *Engine) GameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gameOver
}

func (e *Engine) currentPlayer() string {
	return e.players[e.turn%2]
}

// pitsFor returns the 6 pit indices and the store index belonging to
// seat (0 or 1).
func pitsFor(seat int) (pits [6]int, store int) {
	if seat == 0 {
		return [6]int{0, 1, 2, 3, 4, 5}, 6
	}
	return [6]int{7, 8, 9, 10, 11, 12}, 13
}

func opponentStore(seat int) int {
	if seat == 0 {
		return 13
	}
	return 6
}

func (e *Engine) MakeMove(playerID string, raw json.RawMessage) gameengine.MoveResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gameOver {
		return gameengine.Invalid("the game is over")
	}
	seat := e.seatOf(playerID)
	if seat == -1 {
		return gameengine.Invalid("unknown player")
	}
	if playerID != e.currentPlayer() {
		return gameengine.Invalid("not your turn")
	}

	var m sowMove
	if err := json.Unmarshal(raw, &m); err != nil || m.Type != "sow" {
		return gameengine.Invalid("expected a sow move")
	}

	pits, _ := pitsFor(seat)
	if m.Pit < 0 || m.Pit >= pitsPerSide {
		return gameengine.Invalid("pit index out of range")
	}
	start := pits[m.Pit]
	if e.board[start] == 0 {
		return gameengine.Invalid("that pit is empty")
	}

	extraTurn, lastIndex := e.sow(seat, start)
	e.checkCapture(seat, lastIndex)

	if e.sideIsEmpty(0) || e.sideIsEmpty(1) {
		e.sweepRemainder()
		e.gameOver = true
		e.winnerID = e.determineWinner()
		return gameengine.Valid(map[string]interface{}{"gameOver": true, "winner": e.winnerID})
	}

	if !extraTurn {
		e.turn++
	}
	return gameengine.Valid(map[string]interface{}{"extraTurn": extraTurn})
}

// sow distributes the stones from start one per pit going forward
// around the ring, skipping the sower's opponent's store. It returns
// whether the last stone landed in the sower's own store (granting an
// extra turn) and the index it landed in.
func (e *Engine) sow(seat, start int) (extraTurn bool, lastIndex int) {
	stones := e.board[start]
	e.board[start] = 0
	skip := opponentStore(seat)
	_, ownStore := pitsFor(seat)

	idx := start
	for stones > 0 {
		idx = (idx + 1) % 14
		if idx == skip {
			continue
		}
		e.board[idx]++
		stones--
	}
	return idx == ownStore, idx
}

// checkCapture applies the capture rule: if the sower's last stone
// landed in one of their own empty pits (now holding exactly 1), they
// capture that stone plus everything in the directly opposite pit.
func (e *Engine) checkCapture(seat, lastIndex int) {
	pits, store := pitsFor(seat)
	isOwnPit := false
	for _, p := range pits {
		if p == lastIndex {
			isOwnPit = true
			break
		}
	}
	if !isOwnPit || e.board[lastIndex] != 1 {
		return
	}
	opposite := 12 - lastIndex
	if e.board[opposite] == 0 {
		return
	}
	e.board[store] += e.board[opposite] + e.board[lastIndex]
	e.board[opposite] = 0
	e.board[lastIndex] = 0
}

func (e *Engine) sideIsEmpty(seat int) bool {
	pits, _ := pitsFor(seat)
	for _, p := range pits {
		if e.board[p] != 0 {
			return false
		}
	}
	return true
}

// sweepRemainder moves any stones left on the board into their own
// side's store once one side has no legal move left.
func (e *Engine) sweepRemainder() {
	for seat := 0; seat < 2; seat++ {
		pits, store := pitsFor(seat)
		for _, p := range pits {
			e.board[store] += e.board[p]
			e.board[p] = 0
		}
	}
}

func (e *Engine) determineWinner() string {
	if e.board[6] > e.board[13] {
		return e.players[0]
	}
	if e.board[13] > e.board[6] {
		return e.players[1]
	}
	return ""
}

func (e *Engine) seatOf(playerID string) int {
	for i, id := range e.players {
		if id == playerID {
			return i
		}
	}
	return -1
}

type PublicState struct {
	Board       [14]int `json:"board"`
	Stores      [2]int  `json:"stores"`
	CurrentTurn string  `json:"currentTurn,omitempty"`
	GameOver    bool    `json:"gameOver"`
	WinnerID    string  `json:"winnerId,omitempty"`
}

func (e *Engine) GetState(forPlayerID string) interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	state := PublicState{Board: e.board, Stores: [2]int{e.board[6], e.board[13]}, GameOver: e.gameOver, WinnerID: e.winnerID}
	if !e.gameOver {
		state.CurrentTurn = e.currentPlayer()
	}
	return state
}

func (e *Engine) RemovePlayer(playerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gameOver {
		return
	}
	seat := e.seatOf(playerID)
	if seat == -1 {
		return
	}
	other := 1 - seat
	e.gameOver = true
	e.winnerID = e.players[other]
}
