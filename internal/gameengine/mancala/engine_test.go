package mancala

import (
	"encoding/json"
	"testing"
)

func sow(t *testing.T, e *Engine, playerID string, pit int) (bool, string, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(sowMove{Type: "sow", Pit: pit})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	res := e.MakeMove(playerID, raw)
	result, _ := res.Result.(map[string]interface{})
	return res.Valid, res.Message, result
}

func TestEngine_RejectsWrongPlayerCount(t *testing.T) {
	if _, err := NewEngine([]string{"solo"}); err == nil {
		t.Fatal("expected an error for a single-player mancala game")
	}
}

func TestEngine_InitialBoardHasFourStonesPerPit(t *testing.T) {
	e, err := NewEngine([]string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range e.board {
		if i == 6 || i == 13 {
			if v != 0 {
				t.Errorf("expected store %d to start empty, got %d", i, v)
			}
			continue
		}
		if v != 4 {
			t.Errorf("expected pit %d to start with 4 stones, got %d", i, v)
		}
	}
}

func TestEngine_SowingDistributesOneStonePerPitSkippingOpponentStore(t *testing.T) {
	e, _ := NewEngine([]string{"a", "b"})
	// a sows from pit index 2 (board index 2), 4 stones land in 3,4,5,6 (own store).
	ok, msg, result := sow(t, e, "a", 2)
	if !ok {
		t.Fatalf("sow rejected: %s", msg)
	}
	if e.board[2] != 0 {
		t.Errorf("expected the sown pit to empty, got %d", e.board[2])
	}
	if e.board[3] != 5 || e.board[4] != 5 || e.board[5] != 5 {
		t.Errorf("expected pits 3,4,5 to each gain one stone")
	}
	if e.board[6] != 1 {
		t.Errorf("expected a's store to gain one stone, got %d", e.board[6])
	}
	if extra, _ := result["extraTurn"].(bool); !extra {
		t.Errorf("expected landing the last stone in a's own store to grant an extra turn")
	}
	if e.currentPlayer() != "a" {
		t.Errorf("expected the turn to stay with a after an extra turn")
	}
}

func TestEngine_LandingInOwnEmptyPitCapturesOppositeStones(t *testing.T) {
	e, _ := NewEngine([]string{"a", "b"})
	// Empty pit 5 (a's last pit) so the next sow from pit 1 lands its 4th stone there.
	e.board[5] = 0
	e.board[7] = 6 // opposite of pit 5 is board index 12-5=7

	ok, msg, _ := sow(t, e, "a", 1) // board index 1, 4 stones -> 2,3,4,5
	if !ok {
		t.Fatalf("sow rejected: %s", msg)
	}
	if e.board[5] != 0 {
		t.Errorf("expected the landing pit to be captured (emptied), got %d", e.board[5])
	}
	if e.board[7] != 0 {
		t.Errorf("expected the opposite pit to be captured (emptied), got %d", e.board[7])
	}
	if e.board[6] != 7 {
		t.Errorf("expected a's store to gain 1 (landing stone) + 6 (opposite) = 7, got %d", e.board[6])
	}
}

func TestEngine_EmptyingOneSideEndsTheGameAndSweepsRemainder(t *testing.T) {
	e, _ := NewEngine([]string{"a", "b"})
	for i := 0; i < 14; i++ {
		e.board[i] = 0
	}
	e.board[5] = 1 // a's last pit, one step from a's own store: no capture on landing in the store.
	e.board[7] = 3
	e.board[8] = 2

	ok, msg, _ := sow(t, e, "a", 5)
	if !ok {
		t.Fatalf("sow rejected: %s", msg)
	}
	if !e.gameOver {
		t.Fatalf("expected emptying a's side to end the game")
	}
	if e.board[6] != 1 {
		t.Errorf("expected a's store to hold the 1 stone it just sowed, got %d", e.board[6])
	}
	if e.board[13] != 5 {
		t.Errorf("expected b's remaining pit stones swept into their store, got %d", e.board[13])
	}
	if e.winnerID != "b" {
		t.Errorf("expected b to win with a higher store total, got %q", e.winnerID)
	}
}

func TestEngine_RejectsSowingFromAnEmptyPit(t *testing.T) {
	e, _ := NewEngine([]string{"a", "b"})
	e.board[0] = 0
	ok, _, _ := sow(t, e, "a", 0)
	if ok {
		t.Fatalf("expected sowing from an empty pit to be rejected")
	}
}

func TestEngine_OnlyCurrentPlayerMayMove(t *testing.T) {
	e, _ := NewEngine([]string{"a", "b"})
	ok, _, _ := sow(t, e, "b", 0)
	if ok {
		t.Fatalf("expected out-of-turn move to be rejected")
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
