// Package checkers implements English draughts on an 8x8 board with
// mandatory captures, chain jumps and king promotion, as a
// contract-level Game instance.
package checkers

import (
	"encoding/json"
	"sync"

	"github.com/mhurst/piznac-games-sub001/internal/gameengine"
)

const boardSize = 8

// pieceKind: 0 empty, 1 = player1 man, 2 = player1 king, 3 = player2
// man, 4 = player2 king.
const (
	empty = 0
	p1Man = 1
	p1King = 2
	p2Man = 3
	p2King = 4
)

func init() {
	gameengine.Register("checkers", func(playerIDs []string) (gameengine.Game, error) {
		return NewEngine(playerIDs)
	})
}

type moveMove struct {
	Type    string `json:"type"`
	FromRow int    `json:"fromRow"`
	FromCol int    `json:"fromCol"`
	ToRow   int    `json:"toRow"`
	ToCol   int    `json:"toCol"`
}

type Engine struct {
	mu sync.Mutex

	players []string
	board   [boardSize][boardSize]int
	turn    int // 0 or 1

	// mustContinueFrom is set mid-chain-jump: the same piece must keep
	// capturing from this square before the turn can pass.
	mustContinueFrom *[2]int

	gameOver bool
	winnerID string
}

func NewEngine(playerIDs []string) (*Engine, error) {
	if len(playerIDs) != 2 {
		return nil, gameengine.ErrWrongPlayerCount("checkers", 2, len(playerIDs))
	}
	e := &Engine{players: append([]string{}, playerIDs...)}
	e.setupBoard()
	return e, nil
}

func (e *Engine) setupBoard() {
	for r := 0; r < 3; r++ {
		for c := 0; c < boardSize; c++ {
			if (r+c)%2 == 1 {
				e.board[r][c] = p2Man
			}
		}
	}
	for r := boardSize - 3; r < boardSize; r++ {
		for c := 0; c < boardSize; c++ {
			if (r+c)%2 == 1 {
				e.board[r][c] = p1Man
			}
		}
	}
}

func (e *Engine) GameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gameOver
}

func (e *Engine) currentPlayer() string {
	return e.players[e.turn%2]
}

func (e *Engine) ownsPiece(kind, playerIdx int) bool {
	if playerIdx == 0 {
		return kind == p1Man || kind == p1King
	}
	return kind == p2Man || kind == p2King
}

func (e *Engine) isKing(kind int) bool { return kind == p1King || kind == p2King }

func (e *Engine) MakeMove(playerID string, raw json.RawMessage) gameengine.MoveResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gameOver {
		return gameengine.Invalid("the game is over")
	}
	if playerID != e.currentPlayer() {
		return gameengine.Invalid("not your turn")
	}
	var m moveMove
	if err := json.Unmarshal(raw, &m); err != nil || m.Type != "move" {
		return gameengine.Invalid("expected a move {fromRow,fromCol,toRow,toCol}")
	}
	if !onBoard(m.FromRow, m.FromCol) || !onBoard(m.ToRow, m.ToCol) {
		return gameengine.Invalid("coordinates out of range")
	}
	playerIdx := e.turn % 2
	kind := e.board[m.FromRow][m.FromCol]
	if !e.ownsPiece(kind, playerIdx) {
		return gameengine.Invalid("no piece of yours at (%d,%d)", m.FromRow, m.FromCol)
	}
	if e.mustContinueFrom != nil && (m.FromRow != e.mustContinueFrom[0] || m.FromCol != e.mustContinueFrom[1]) {
		return gameengine.Invalid("must continue the capture chain from (%d,%d)", e.mustContinueFrom[0], e.mustContinueFrom[1])
	}
	if e.board[m.ToRow][m.ToCol] != empty {
		return gameengine.Invalid("destination is occupied")
	}

	rowDelta := m.ToRow - m.FromRow
	colDelta := m.ToCol - m.FromCol
	if abs(colDelta) != abs(rowDelta) {
		return gameengine.Invalid("moves must be diagonal")
	}

	anyCaptureAvailable := e.mustContinueFrom != nil || e.anyCaptureAvailableForPlayer(playerIdx)

	switch abs(rowDelta) {
	case 1:
		if anyCaptureAvailable {
			return gameengine.Invalid("a capture is available and must be taken")
		}
		if !e.isKing(kind) && !e.forwardDirectionOK(playerIdx, rowDelta) {
			return gameengine.Invalid("men may only move forward")
		}
		e.board[m.ToRow][m.ToCol] = kind
		e.board[m.FromRow][m.FromCol] = empty
		e.maybePromote(m.ToRow, m.ToCol)
		e.endTurn(nil)
		return gameengine.Valid(map[string]interface{}{"captured": false})

	case 2:
		midRow, midCol := (m.FromRow+m.ToRow)/2, (m.FromCol+m.ToCol)/2
		midKind := e.board[midRow][midCol]
		if midKind == empty || e.ownsPiece(midKind, playerIdx) {
			return gameengine.Invalid("no opposing piece to capture")
		}
		if !e.isKing(kind) && !e.forwardDirectionOK(playerIdx, rowDelta) {
			return gameengine.Invalid("men may only capture forward")
		}
		e.board[m.ToRow][m.ToCol] = kind
		e.board[m.FromRow][m.FromCol] = empty
		e.board[midRow][midCol] = empty
		promoted := e.maybePromote(m.ToRow, m.ToCol)

		if !promoted && e.hasCaptureFrom(m.ToRow, m.ToCol, playerIdx) {
			at := [2]int{m.ToRow, m.ToCol}
			e.mustContinueFrom = &at
			if e.noPiecesRemain(1 - playerIdx) {
				e.gameOver = true
				e.winnerID = playerID
			}
			return gameengine.Valid(map[string]interface{}{"captured": true, "chainContinues": true})
		}
		e.endTurn(&[2]int{midRow, midCol})
		return gameengine.Valid(map[string]interface{}{"captured": true})

	default:
		return gameengine.Invalid("invalid move distance")
	}
}

func (e *Engine) forwardDirectionOK(playerIdx, rowDelta int) bool {
	if playerIdx == 0 {
		return rowDelta < 0 // player1 starts at the bottom, moves up
	}
	return rowDelta > 0
}

func (e *Engine) maybePromote(row, col int) bool {
	kind := e.board[row][col]
	if kind == p1Man && row == 0 {
		e.board[row][col] = p1King
		return true
	}
	if kind == p2Man && row == boardSize-1 {
		e.board[row][col] = p2King
		return true
	}
	return false
}

func (e *Engine) endTurn(captured *[2]int) {
	e.mustContinueFrom = nil
	playerIdx := e.turn % 2
	if e.noPiecesRemain(1 - playerIdx) {
		e.gameOver = true
		e.winnerID = e.players[playerIdx]
		return
	}
	e.turn++
	if !e.hasAnyLegalMove(e.turn % 2) {
		e.gameOver = true
		e.winnerID = e.players[playerIdx]
	}
}

func (e *Engine) noPiecesRemain(playerIdx int) bool {
	for r := 0; r < boardSize; r++ {
		for c := 0; c < boardSize; c++ {
			if e.ownsPiece(e.board[r][c], playerIdx) {
				return false
			}
		}
	}
	return true
}

func (e *Engine) hasCaptureFrom(row, col, playerIdx int) bool {
	kind := e.board[row][col]
	for _, d := range diagonalDeltas(e.isKing(kind), playerIdx, kind) {
		midR, midC := row+d[0], col+d[1]
		toR, toC := row+2*d[0], col+2*d[1]
		if !onBoard(toR, toC) || !onBoard(midR, midC) {
			continue
		}
		mid := e.board[midR][midC]
		if mid != empty && !e.ownsPiece(mid, playerIdx) && e.board[toR][toC] == empty {
			return true
		}
	}
	return false
}

func (e *Engine) anyCaptureAvailableForPlayer(playerIdx int) bool {
	for r := 0; r < boardSize; r++ {
		for c := 0; c < boardSize; c++ {
			if e.ownsPiece(e.board[r][c], playerIdx) && e.hasCaptureFrom(r, c, playerIdx) {
				return true
			}
		}
	}
	return false
}

func (e *Engine) hasAnyLegalMove(playerIdx int) bool {
	if e.anyCaptureAvailableForPlayer(playerIdx) {
		return true
	}
	for r := 0; r < boardSize; r++ {
		for c := 0; c < boardSize; c++ {
			kind := e.board[r][c]
			if !e.ownsPiece(kind, playerIdx) {
				continue
			}
			for _, d := range diagonalDeltas(e.isKing(kind), playerIdx, kind) {
				toR, toC := r+d[0], c+d[1]
				if onBoard(toR, toC) && e.board[toR][toC] == empty {
					return true
				}
			}
		}
	}
	return false
}

func diagonalDeltas(isKing bool, playerIdx, kind int) [][2]int {
	if isKing {
		return [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	}
	if playerIdx == 0 {
		return [][2]int{{-1, 1}, {-1, -1}}
	}
	return [][2]int{{1, 1}, {1, -1}}
}

func onBoard(r, c int) bool { return r >= 0 && r < boardSize && c >= 0 && c < boardSize }
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

type PublicState struct {
	Board       [boardSize][boardSize]int `json:"board"`
	CurrentTurn string                    `json:"currentTurn"`
	GameOver    bool                      `json:"gameOver"`
	WinnerID    string                    `json:"winnerId,omitempty"`
}

func (e *Engine) GetState(forPlayerID string) interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return PublicState{Board: e.board, CurrentTurn: e.currentPlayer(), GameOver: e.gameOver, WinnerID: e.winnerID}
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
