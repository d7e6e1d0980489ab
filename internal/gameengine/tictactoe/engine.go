// Package tictactoe implements the classic 3x3 grid game as a
// contract-level instance of the common Game interface.
package tictactoe

import (
	"encoding/json"
	"sync"

	"github.com/mhurst/piznac-games-sub001/internal/gameengine"
)

const size = 3

func init() {
	gameengine.Register("tic-tac-toe", func(playerIDs []string) (gameengine.Game, error) {
		return NewEngine(playerIDs)
	})
}

type placeMove struct {
	Type string `json:"type"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

// Engine is the authoritative two-player board state machine.
type Engine struct {
	mu sync.Mutex

	players []string
	board   [size][size]int // 0 = empty, 1/2 = player index+1
	turn    int

	gameOver bool
	winnerID string
	draw     bool
}

func NewEngine(playerIDs []string) (*Engine, error) {
	if len(playerIDs) != 2 {
		return nil, gameengine.ErrWrongPlayerCount("tic-tac-toe", 2, len(playerIDs))
	}
	return &Engine{players: append([]string{}, playerIDs...)}, nil
}

func (e *Engine) GameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gameOver
}

func (e *Engine) currentPlayer() string {
	return e.players[e.turn%2]
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
	var m placeMove
	if err := json.Unmarshal(raw, &m); err != nil || m.Type != "place" {
		return gameengine.Invalid("expected a place move")
	}
	if m.Row < 0 || m.Row >= size || m.Col < 0 || m.Col >= size {
		return gameengine.Invalid("cell (%d,%d) out of range", m.Row, m.Col)
	}
	if e.board[m.Row][m.Col] != 0 {
		return gameengine.Invalid("cell (%d,%d) is already occupied", m.Row, m.Col)
	}

	mark := e.turn%2 + 1
	e.board[m.Row][m.Col] = mark

	if e.hasLine(mark) {
		e.gameOver = true
		e.winnerID = playerID
		return gameengine.Valid(map[string]interface{}{"row": m.Row, "col": m.Col, "winner": playerID})
	}
	if e.boardFull() {
		e.gameOver = true
		e.draw = true
		return gameengine.Valid(map[string]interface{}{"row": m.Row, "col": m.Col, "draw": true})
	}
	e.turn++
	return gameengine.Valid(map[string]interface{}{"row": m.Row, "col": m.Col})
}

func (e *Engine) boardFull() bool {
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if e.board[r][c] == 0 {
				return false
			}
		}
	}
	return true
}

// hasLine checks all 3 rows, 3 columns, and 2 diagonals for mark.
func (e *Engine) hasLine(mark int) bool {
	for r := 0; r < size; r++ {
		if e.board[r][0] == mark && e.board[r][1] == mark && e.board[r][2] == mark {
			return true
		}
	}
	for c := 0; c < size; c++ {
		if e.board[0][c] == mark && e.board[1][c] == mark && e.board[2][c] == mark {
			return true
		}
	}
	if e.board[0][0] == mark && e.board[1][1] == mark && e.board[2][2] == mark {
		return true
	}
	if e.board[0][2] == mark && e.board[1][1] == mark && e.board[2][0] == mark {
		return true
	}
	return false
}

// PublicState is identical for every viewer: Tic-Tac-Toe has no hidden
// information.
type PublicState struct {
	Board       [size][size]int `json:"board"`
	CurrentTurn string          `json:"currentTurn"`
	GameOver    bool            `json:"gameOver"`
	WinnerID    string          `json:"winnerId,omitempty"`
	Draw        bool            `json:"draw,omitempty"`
}

func (e *Engine) GetState(forPlayerID string) interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return PublicState{Board: e.board, CurrentTurn: e.currentPlayer(), GameOver: e.gameOver, WinnerID: e.winnerID, Draw: e.draw}
}

func (e *Engine) RemovePlayer(playerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gameOver {
		return
	}
	for _, id := range e.players {
		if id != playerID {
			e.gameOver = true
			e.winnerID = id
			return
		}
	}
}
