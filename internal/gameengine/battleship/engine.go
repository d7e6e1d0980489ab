// Package battleship implements the two-phase (setup, battle) naval
// game on a pair of 10x10 grids, as a contract-level Game instance.
package battleship

import (
	"encoding/json"
	"sync"

	"github.com/mhurst/piznac-games-sub001/internal/gameengine"
)

const gridSize = 10

var shipSizes = []int{5, 4, 3, 3, 2}

type Phase string

const (
	PhaseSetup  Phase = "setup"
	PhaseBattle Phase = "battle"
	PhaseDone   Phase = "done"
)

func init() {
	gameengine.Register("battleship", func(playerIDs []string) (gameengine.Game, error) {
		return NewEngine(playerIDs)
	})
}

type placeShipMove struct {
	Type       string `json:"type"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Size       int    `json:"size"`
	Horizontal bool   `json:"horizontal"`
}

type confirmSetupMove struct {
	Type string `json:"type"`
}

type fireMove struct {
	Type string `json:"type"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

type cell struct {
	hasShip bool
	hit     bool
}

type board struct {
	grid      [gridSize][gridSize]cell
	placed    []int // sizes placed so far, in placement order
	confirmed bool
}

func (b *board) shipsPlaced() bool {
	if len(b.placed) != len(shipSizes) {
		return false
	}
	return true
}

type Engine struct {
	mu sync.Mutex

	players []string
	boards  map[string]*board

	phase    Phase
	turn     int
	gameOver bool
	winnerID string
}

func NewEngine(playerIDs []string) (*Engine, error) {
	if len(playerIDs) != 2 {
		return nil, gameengine.ErrWrongPlayerCount("battleship", 2, len(playerIDs))
	}
	e := &Engine{players: append([]string{}, playerIDs...), boards: map[string]*board{}, phase: PhaseSetup}
	for _, id := range playerIDs {
		e.boards[id] = &board{}
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

func (e *Engine) opponentOf(playerID string) string {
	for _, id := range e.players {
		if id != playerID {
			return id
		}
	}
	return ""
}

func (e *Engine) MakeMove(playerID string, raw json.RawMessage) gameengine.MoveResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gameOver {
		return gameengine.Invalid("the game is over")
	}
	b, ok := e.boards[playerID]
	if !ok {
		return gameengine.Invalid("unknown player")
	}

	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return gameengine.Invalid("malformed move payload")
	}

	switch e.phase {
	case PhaseSetup:
		switch tag.Type {
		case "place-ship":
			return e.handlePlaceShip(playerID, b, raw)
		case "confirm-setup":
			return e.handleConfirmSetup(playerID, b)
		default:
			return gameengine.Invalid("expected place-ship or confirm-setup during setup")
		}
	case PhaseBattle:
		if tag.Type != "fire" {
			return gameengine.Invalid("expected fire")
		}
		if playerID != e.currentPlayer() {
			return gameengine.Invalid("not your turn")
		}
		return e.handleFire(playerID, raw)
	default:
		return gameengine.Invalid("the game is over")
	}
}

func (e *Engine) handlePlaceShip(playerID string, b *board, raw json.RawMessage) gameengine.MoveResult {
	if b.confirmed {
		return gameengine.Invalid("setup already confirmed")
	}
	var m placeShipMove
	if err := json.Unmarshal(raw, &m); err != nil {
		return gameengine.Invalid("malformed place-ship")
	}
	idx := len(b.placed)
	if idx >= len(shipSizes) {
		return gameengine.Invalid("all ships already placed")
	}
	if m.Size != shipSizes[idx] {
		return gameengine.Invalid("ship %d must be size %d, got %d", idx+1, shipSizes[idx], m.Size)
	}

	cells := shipCells(m.Row, m.Col, m.Size, m.Horizontal)
	if cells == nil {
		return gameengine.Invalid("ship placement runs off the board")
	}
	for _, c := range cells {
		if b.grid[c[0]][c[1]].hasShip {
			return gameengine.Invalid("ships may not overlap")
		}
	}
	for _, c := range cells {
		b.grid[c[0]][c[1]].hasShip = true
	}
	b.placed = append(b.placed, m.Size)
	return gameengine.Valid(map[string]interface{}{"shipsPlaced": len(b.placed)})
}

func (e *Engine) handleConfirmSetup(playerID string, b *board) gameengine.MoveResult {
	if !b.shipsPlaced() {
		return gameengine.Invalid("All ships must be placed")
	}
	b.confirmed = true

	allConfirmed := true
	for _, bd := range e.boards {
		if !bd.confirmed {
			allConfirmed = false
		}
	}
	if allConfirmed {
		e.phase = PhaseBattle
	}
	return gameengine.Valid(map[string]interface{}{"confirmed": true})
}

func (e *Engine) handleFire(playerID string, raw json.RawMessage) gameengine.MoveResult {
	var m fireMove
	if err := json.Unmarshal(raw, &m); err != nil {
		return gameengine.Invalid("malformed fire")
	}
	if m.Row < 0 || m.Row >= gridSize || m.Col < 0 || m.Col >= gridSize {
		return gameengine.Invalid("coordinates out of range")
	}
	target := e.opponentOf(playerID)
	tb := e.boards[target]
	cell := &tb.grid[m.Row][m.Col]
	if cell.hit {
		return gameengine.Invalid("already fired on (%d,%d)", m.Row, m.Col)
	}
	cell.hit = true
	hit := cell.hasShip

	if e.allShipsSunk(target) {
		e.gameOver = true
		e.winnerID = playerID
		e.phase = PhaseDone
		return gameengine.Valid(map[string]interface{}{"hit": hit, "gameOver": true, "winner": playerID})
	}
	if !hit {
		e.turn++
	}
	return gameengine.Valid(map[string]interface{}{"hit": hit})
}

func (e *Engine) allShipsSunk(playerID string) bool {
	b := e.boards[playerID]
	for r := 0; r < gridSize; r++ {
		for c := 0; c < gridSize; c++ {
			if b.grid[r][c].hasShip && !b.grid[r][c].hit {
				return false
			}
		}
	}
	return true
}

func shipCells(row, col, size int, horizontal bool) [][2]int {
	cells := make([][2]int, size)
	for i := 0; i < size; i++ {
		r, c := row, col
		if horizontal {
			c += i
		} else {
			r += i
		}
		if r < 0 || r >= gridSize || c < 0 || c >= gridSize {
			return nil
		}
		cells[i] = [2]int{r, c}
	}
	return cells
}

// PublicCell is the redacted per-viewer projection of a grid cell: the
// viewer's own ships are always shown; an opponent ship cell is shown
// once it has been hit (so a sunk ship is shown whole), and every
// opponent ship cell is shown once the game is over.
type PublicCell struct {
	HasShip bool `json:"hasShip,omitempty"`
	Hit     bool `json:"hit,omitempty"`
}

type PublicState struct {
	Phase       Phase                             `json:"phase"`
	YourGrid    [gridSize][gridSize]PublicCell     `json:"yourGrid"`
	TrackingGrid [gridSize][gridSize]PublicCell    `json:"trackingGrid"`
	CurrentTurn string                             `json:"currentTurn,omitempty"`
	GameOver    bool                               `json:"gameOver"`
	WinnerID    string                             `json:"winnerId,omitempty"`
}

func (e *Engine) GetState(forPlayerID string) interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := PublicState{Phase: e.phase, GameOver: e.gameOver, WinnerID: e.winnerID}
	if e.phase == PhaseBattle || e.phase == PhaseDone {
		state.CurrentTurn = e.currentPlayer()
	}

	own := e.boards[forPlayerID]
	if own != nil {
		for r := 0; r < gridSize; r++ {
			for c := 0; c < gridSize; c++ {
				state.YourGrid[r][c] = PublicCell{HasShip: own.grid[r][c].hasShip, Hit: own.grid[r][c].hit}
			}
		}
	}

	opponent := e.opponentOf(forPlayerID)
	ob := e.boards[opponent]
	if ob != nil {
		for r := 0; r < gridSize; r++ {
			for c := 0; c < gridSize; c++ {
				src := ob.grid[r][c]
				revealed := src.hit || e.gameOver
				state.TrackingGrid[r][c] = PublicCell{HasShip: revealed && src.hasShip, Hit: src.hit}
			}
		}
	}
	return state
}

func (e *Engine) RemovePlayer(playerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gameOver {
		return
	}
	if other := e.opponentOf(playerID); other != "" {
		e.gameOver = true
		e.winnerID = other
		e.phase = PhaseDone
	}
}
