// Package connectfour implements the classic 7x6 drop-a-disc game as a
// contract-level instance of the common Game interface.
package connectfour

import (
	"encoding/json"
	"sync"

	"github.com/mhurst/piznac-games-sub001/internal/gameengine"
)

const (
	cols = 7
	rows = 6
)

func init() {
	gameengine.Register("connect-four", func(playerIDs []string) (gameengine.Game, error) {
		return NewEngine(playerIDs)
	})
}

type dropMove struct {
	Type   string `json:"type"`
	Column int    `json:"column"`
}

// Engine is the authoritative two-player board state machine.
type Engine struct {
	mu sync.Mutex

	players []string
	board   [rows][cols]int // 0 = empty, 1/2 = player index+1
	turn    int

	gameOver bool
	winnerID string
	draw     bool
}

func NewEngine(playerIDs []string) (*Engine, error) {
	if len(playerIDs) != 2 {
		return nil, gameengine.ErrWrongPlayerCount("connect-four", 2, len(playerIDs))
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
	var m dropMove
	if err := json.Unmarshal(raw, &m); err != nil || m.Type != "drop" {
		return gameengine.Invalid("expected a drop move")
	}
	if m.Column < 0 || m.Column >= cols {
		return gameengine.Invalid("column %d out of range", m.Column)
	}
	row := -1
	for r := rows - 1; r >= 0; r-- {
		if e.board[r][m.Column] == 0 {
			row = r
			break
		}
	}
	if row == -1 {
		return gameengine.Invalid("column %d is full", m.Column)
	}

	mark := e.turn%2 + 1
	e.board[row][m.Column] = mark

	if e.hasConnectFour(row, m.Column, mark) {
		e.gameOver = true
		e.winnerID = playerID
		return gameengine.Valid(map[string]interface{}{"row": row, "column": m.Column, "winner": playerID})
	}
	if e.boardFull() {
		e.gameOver = true
		e.draw = true
		return gameengine.Valid(map[string]interface{}{"row": row, "column": m.Column, "draw": true})
	}
	e.turn++
	return gameengine.Valid(map[string]interface{}{"row": row, "column": m.Column})
}

func (e *Engine) boardFull() bool {
	for c := 0; c < cols; c++ {
		if e.board[0][c] == 0 {
			return false
		}
	}
	return true
}

func (e *Engine) hasConnectFour(row, col, mark int) bool {
	dirs := [][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for _, d := range dirs {
		count := 1
		count += e.countDirection(row, col, d[0], d[1], mark)
		count += e.countDirection(row, col, -d[0], -d[1], mark)
		if count >= 4 {
			return true
		}
	}
	return false
}

func (e *Engine) countDirection(row, col, dr, dc, mark int) int {
	count := 0
	r, c := row+dr, col+dc
	for r >= 0 && r < rows && c >= 0 && c < cols && e.board[r][c] == mark {
		count++
		r += dr
		c += dc
	}
	return count
}

// PublicState is identical for every viewer: Connect Four has no
// hidden information.
type PublicState struct {
	Board        [rows][cols]int `json:"board"`
	CurrentTurn  string          `json:"currentTurn"`
	GameOver     bool            `json:"gameOver"`
	WinnerID     string          `json:"winnerId,omitempty"`
	Draw         bool            `json:"draw,omitempty"`
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
