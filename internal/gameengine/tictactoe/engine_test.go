package tictactoe

import (
	"encoding/json"
	"testing"
)

func TestEngine_RejectsWrongPlayerCount(t *testing.T) {
	if _, err := NewEngine([]string{"only-one"}); err == nil {
		t.Fatal("expected an error constructing tic-tac-toe with one player")
	}
}

func TestEngine_RowWinDetected(t *testing.T) {
	e, err := NewEngine([]string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	moves := []struct {
		player   string
		row, col int
	}{
		{"a", 0, 0}, {"b", 1, 0},
		{"a", 0, 1}, {"b", 1, 1},
		{"a", 0, 2},
	}
	for i, mv := range moves {
		res := e.MakeMove(mv.player, mustRaw(t, placeMove{Type: "place", Row: mv.row, Col: mv.col}))
		if !res.Valid {
			t.Fatalf("move %d (%s at %d,%d) rejected: %s", i, mv.player, mv.row, mv.col, res.Message)
		}
	}
	if !e.GameOver() {
		t.Fatalf("expected a completed top row to end the game")
	}
	if e.winnerID != "a" {
		t.Errorf("expected a to win, got %q", e.winnerID)
	}
}

func TestEngine_ColumnWinDetected(t *testing.T) {
	e, _ := NewEngine([]string{"a", "b"})
	moves := []struct {
		player   string
		row, col int
	}{
		{"a", 0, 0}, {"b", 0, 1},
		{"a", 1, 0}, {"b", 1, 1},
		{"a", 2, 0},
	}
	for _, mv := range moves {
		res := e.MakeMove(mv.player, mustRaw(t, placeMove{Type: "place", Row: mv.row, Col: mv.col}))
		if !res.Valid {
			t.Fatalf("move (%s at %d,%d) rejected: %s", mv.player, mv.row, mv.col, res.Message)
		}
	}
	if !e.GameOver() || e.winnerID != "a" {
		t.Fatalf("expected a to win via the left column, gameOver=%v winner=%q", e.GameOver(), e.winnerID)
	}
}

func TestEngine_DiagonalWinDetected(t *testing.T) {
	e, _ := NewEngine([]string{"a", "b"})
	moves := []struct {
		player   string
		row, col int
	}{
		{"a", 0, 0}, {"b", 0, 1},
		{"a", 1, 1}, {"b", 0, 2},
		{"a", 2, 2},
	}
	for _, mv := range moves {
		res := e.MakeMove(mv.player, mustRaw(t, placeMove{Type: "place", Row: mv.row, Col: mv.col}))
		if !res.Valid {
			t.Fatalf("move (%s at %d,%d) rejected: %s", mv.player, mv.row, mv.col, res.Message)
		}
	}
	if !e.GameOver() || e.winnerID != "a" {
		t.Fatalf("expected a to win via the main diagonal, gameOver=%v winner=%q", e.GameOver(), e.winnerID)
	}
}

func TestEngine_DrawWhenBoardFillsWithNoWinner(t *testing.T) {
	e, _ := NewEngine([]string{"a", "b"})
	moves := []struct {
		player   string
		row, col int
	}{
		{"a", 0, 0}, {"b", 0, 1},
		{"a", 0, 2}, {"b", 1, 1},
		{"a", 1, 0}, {"b", 1, 2},
		{"a", 2, 1}, {"b", 2, 0},
		{"a", 2, 2},
	}
	var last struct {
		player   string
		row, col int
	}
	for _, mv := range moves {
		res := e.MakeMove(mv.player, mustRaw(t, placeMove{Type: "place", Row: mv.row, Col: mv.col}))
		if !res.Valid {
			t.Fatalf("move (%s at %d,%d) rejected: %s", mv.player, mv.row, mv.col, res.Message)
		}
		last = mv
	}
	_ = last
	if !e.GameOver() {
		t.Fatalf("expected a full board to end the game")
	}
	if !e.draw {
		t.Errorf("expected the full board with no line to be recorded as a draw")
	}
	if e.winnerID != "" {
		t.Errorf("expected no winner on a draw, got %q", e.winnerID)
	}
}

func TestEngine_RejectsOccupiedCell(t *testing.T) {
	e, _ := NewEngine([]string{"a", "b"})
	if res := e.MakeMove("a", mustRaw(t, placeMove{Type: "place", Row: 0, Col: 0})); !res.Valid {
		t.Fatalf("a's first move rejected: %s", res.Message)
	}
	if res := e.MakeMove("b", mustRaw(t, placeMove{Type: "place", Row: 0, Col: 0})); res.Valid {
		t.Fatalf("expected placing on an occupied cell to be rejected")
	}
}

func TestEngine_RejectsMoveOutOfTurn(t *testing.T) {
	e, _ := NewEngine([]string{"a", "b"})
	if res := e.MakeMove("b", mustRaw(t, placeMove{Type: "place", Row: 0, Col: 0})); res.Valid {
		t.Fatalf("expected b to be rejected on a's turn")
	}
}

func TestEngine_RemovePlayerEndsGameInFavorOfTheOther(t *testing.T) {
	e, _ := NewEngine([]string{"a", "b"})
	e.RemovePlayer("a")
	if !e.GameOver() {
		t.Fatalf("expected removing a player to end the game")
	}
	if e.winnerID != "b" {
		t.Errorf("expected b to win by default, got %q", e.winnerID)
	}
}

func mustRaw(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}
