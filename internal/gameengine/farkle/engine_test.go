package farkle

import (
	"encoding/json"
	"testing"
)

func TestEngine_KeepRejectsNonScoringSelectionWithoutMutating(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	e.hasRolled = true
	e.dice = [6]int{2, 3, 4, 6, 1, 5}

	raw, _ := json.Marshal(keepMove{Type: "keep", Indices: []int{0, 1}}) // 2,3 don't score
	res := e.MakeMove("p1", raw)
	if res.Valid {
		t.Fatalf("expected non-scoring keep to be rejected")
	}
	if len(e.keptIndices) != 0 || e.turnScore != 0 {
		t.Errorf("rejected keep must not mutate state")
	}
}

func TestEngine_KeepLocksScoringDiceAndAccumulatesTurnScore(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	e.hasRolled = true
	e.dice = [6]int{1, 1, 1, 3, 4, 6}

	raw, _ := json.Marshal(keepMove{Type: "keep", Indices: []int{0, 1, 2}})
	res := e.MakeMove("p1", raw)
	if !res.Valid {
		t.Fatalf("expected triple-ones keep to be accepted: %s", res.Message)
	}
	if e.turnScore != 1000 {
		t.Errorf("expected turnScore 1000, got %d", e.turnScore)
	}
	if !e.hasRolled {
		t.Errorf("expected hasRolled to stay true after a partial keep, so bank is legal without an intervening roll")
	}
	if e.awaitingKeep {
		t.Errorf("expected awaitingKeep to clear after a keep, so roll is legal again")
	}
}

func TestEngine_BankIsLegalImmediatelyAfterAKeepWithNoInterveningRoll(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	e.hasRolled = true
	e.awaitingKeep = true
	e.dice = [6]int{1, 1, 1, 3, 4, 6}

	keepRaw, _ := json.Marshal(keepMove{Type: "keep", Indices: []int{0, 1, 2}})
	if res := e.MakeMove("p1", keepRaw); !res.Valid {
		t.Fatalf("expected keep to succeed: %s", res.Message)
	}

	bankRaw, _ := json.Marshal(moveTag{Type: "bank"})
	res := e.MakeMove("p1", bankRaw)
	if !res.Valid {
		t.Fatalf("expected a bare bank call right after a bare keep call to succeed: %s", res.Message)
	}
	if e.scores["p1"] != 1000 {
		t.Errorf("expected the triple-ones score to be banked, got %d", e.scores["p1"])
	}
}

func TestEngine_RollIsRejectedWhileAKeepDecisionIsPending(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	e.hasRolled = true
	e.awaitingKeep = true
	e.dice = [6]int{2, 3, 4, 6, 1, 5}

	raw, _ := json.Marshal(moveTag{Type: "roll"})
	res := e.MakeMove("p1", raw)
	if res.Valid {
		t.Fatalf("expected roll to be rejected while a keep decision is pending")
	}
}

func TestEngine_BankIsRejectedWhileAKeepDecisionIsPending(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	e.hasRolled = true
	e.awaitingKeep = true
	e.turnScore = 500

	raw, _ := json.Marshal(moveTag{Type: "bank"})
	res := e.MakeMove("p1", raw)
	if res.Valid {
		t.Fatalf("expected bank to be rejected while a keep decision from the last roll is still pending")
	}
}

func TestEngine_HotDiceResetsAllSixDiceButKeepsTurnScore(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	e.hasRolled = true
	e.dice = [6]int{1, 1, 1, 2, 2, 2}

	raw, _ := json.Marshal(keepMove{Type: "keep", Indices: []int{0, 1, 2, 3, 4, 5}})
	res := e.MakeMove("p1", raw)
	if !res.Valid {
		t.Fatalf("expected triple-ones+triple-twos keep to be accepted: %s", res.Message)
	}
	if e.turnScore != 1200 {
		t.Errorf("expected turnScore 1000+200=1200, got %d", e.turnScore)
	}
	if len(e.keptIndices) != 0 {
		t.Errorf("expected hot dice to clear keptIndices, got %d kept", len(e.keptIndices))
	}
	if e.dice != ([6]int{}) {
		t.Errorf("expected hot dice to clear the dice array, got %v", e.dice)
	}
	if e.hasRolled {
		t.Errorf("expected hasRolled=false after hot dice, ready for a fresh 6-die roll")
	}
}

func TestEngine_BankCommitsScoreAndAdvancesTurn(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	e.hasRolled = true
	e.turnScore = 500
	e.dice = [6]int{1, 1, 1, 1, 1, 1}
	e.keptIndices = map[int]bool{0: true, 1: true}

	raw, _ := json.Marshal(moveTag{Type: "bank"})
	res := e.MakeMove("p1", raw)
	if !res.Valid {
		t.Fatalf("expected bank to succeed: %s", res.Message)
	}
	if e.scores["p1"] == 0 {
		t.Errorf("expected p1's banked score to be recorded")
	}
	if e.currentPlayer() != "p2" {
		t.Errorf("expected turn to advance to p2, got %s", e.currentPlayer())
	}
	if e.hasRolled || e.turnScore != 0 || len(e.keptIndices) != 0 {
		t.Errorf("expected a full turn reset after banking")
	}
}

func TestEngine_BankRejectedWithoutARoll(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	raw, _ := json.Marshal(moveTag{Type: "bank"})
	res := e.MakeMove("p1", raw)
	if res.Valid {
		t.Fatalf("expected bank to be rejected before any roll")
	}
}

func TestEngine_BankAt10000EndsGame(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	e.scores["p1"] = 9700
	e.hasRolled = true
	e.turnScore = 300

	raw, _ := json.Marshal(moveTag{Type: "bank"})
	res := e.MakeMove("p1", raw)
	if !res.Valid {
		t.Fatalf("expected bank to succeed: %s", res.Message)
	}
	if !e.gameOver {
		t.Fatalf("expected the game to end once a player reaches 10000")
	}
	if e.winner != "p1" {
		t.Errorf("expected p1 to be recorded as winner, got %q", e.winner)
	}
}

func TestEngine_OnlyCurrentPlayerMayMove(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	raw, _ := json.Marshal(moveTag{Type: "roll"})
	res := e.MakeMove("p2", raw)
	if res.Valid {
		t.Fatalf("expected out-of-turn move to be rejected")
	}
}

func TestEngine_KeepAndBankIsAtomic(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	e.hasRolled = true
	e.dice = [6]int{5, 2, 3, 4, 6, 2}

	raw, _ := json.Marshal(keepMove{Type: "keep-and-bank", Indices: []int{0}})
	res := e.MakeMove("p1", raw)
	if !res.Valid {
		t.Fatalf("expected keep-and-bank to succeed: %s", res.Message)
	}
	if e.scores["p1"] != 50 {
		t.Errorf("expected the single five (50) to be banked, got %d", e.scores["p1"])
	}
	if e.currentPlayer() != "p2" {
		t.Errorf("expected turn to advance after keep-and-bank")
	}
}

// TestEngine_NamedScenario_HotDiceKeepAndRoll mirrors the spec's worked
// example: rolling [1,1,1,5,5,5] and keeping all six dice scores
// 1000+500=1500, triggers hot dice, resets keptIndices, and leaves the
// engine ready for the next roll on a fresh set of 6 with turnScore
// preserved at 1500. (The keep step is driven directly here since
// keep-and-roll's trailing roll outcome is itself random and would
// make a test assertion on its result non-deterministic.)
func TestEngine_NamedScenario_HotDiceKeepAndRoll(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	e.hasRolled = true
	e.dice = [6]int{1, 1, 1, 5, 5, 5}

	res := e.doKeep([]int{0, 1, 2, 3, 4, 5})
	if !res.Valid {
		t.Fatalf("expected keep to succeed: %s", res.Message)
	}
	if e.turnScore != 1500 {
		t.Errorf("expected turnScore 1500, got %d", e.turnScore)
	}
	if len(e.keptIndices) != 0 {
		t.Errorf("expected hot dice to have reset keptIndices, got %d", len(e.keptIndices))
	}
	if e.hasRolled {
		t.Errorf("expected the engine to be ready for a fresh 6-die roll")
	}
}

func TestEngine_RemovePlayerEndsGameWhenOneSeatRemains(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	e.RemovePlayer("p2")
	if !e.GameOver() {
		t.Fatalf("expected game to end once only one player remains")
	}
	state := e.GetState("p1").(PublicState)
	if state.WinnerID != "p1" {
		t.Errorf("expected p1 to be the winner, got %q", state.WinnerID)
	}
}
