package yahtzee

import (
	"encoding/json"
	"testing"
)

func TestScoreCategory_UpperSection(t *testing.T) {
	dice := [5]int{3, 3, 3, 5, 6}
	if s := scoreCategory(Threes, dice); s != 9 {
		t.Errorf("expected threes to score 9 (3 threes), got %d", s)
	}
	if s := scoreCategory(Sixes, dice); s != 6 {
		t.Errorf("expected sixes to score 6, got %d", s)
	}
}

func TestScoreCategory_ThreeAndFourOfAKind(t *testing.T) {
	dice := [5]int{4, 4, 4, 2, 1}
	if s := scoreCategory(ThreeOfAKind, dice); s != 15 {
		t.Errorf("expected three-of-a-kind to score the sum 15, got %d", s)
	}
	if s := scoreCategory(FourOfAKind, dice); s != 0 {
		t.Errorf("expected four-of-a-kind to score 0 without a 4th matching die, got %d", s)
	}
}

func TestScoreCategory_FullHouse(t *testing.T) {
	dice := [5]int{2, 2, 5, 5, 5}
	if s := scoreCategory(FullHouse, dice); s != 25 {
		t.Errorf("expected a full house to score 25, got %d", s)
	}
	notFullHouse := [5]int{1, 2, 3, 4, 5}
	if s := scoreCategory(FullHouse, notFullHouse); s != 0 {
		t.Errorf("expected a straight to not score as a full house, got %d", s)
	}
}

func TestScoreCategory_Straights(t *testing.T) {
	small := [5]int{1, 2, 3, 4, 6}
	if s := scoreCategory(SmallStraight, small); s != 30 {
		t.Errorf("expected small straight to score 30, got %d", s)
	}
	large := [5]int{2, 3, 4, 5, 6}
	if s := scoreCategory(LargeStraight, large); s != 40 {
		t.Errorf("expected large straight to score 40, got %d", s)
	}
	if s := scoreCategory(SmallStraight, [5]int{1, 1, 2, 2, 3}); s != 0 {
		t.Errorf("expected a non-straight to score 0 for small straight, got %d", s)
	}
}

func TestScoreCategory_Yahtzee(t *testing.T) {
	dice := [5]int{6, 6, 6, 6, 6}
	if s := scoreCategory(Yahtzee, dice); s != 50 {
		t.Errorf("expected five-of-a-kind to score 50, got %d", s)
	}
}

func TestEngine_RollRequiresRollsRemaining(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	e.rollsTaken = 3
	raw, _ := json.Marshal(rollMove{Type: "roll"})
	res := e.MakeMove("p1", raw)
	if res.Valid {
		t.Fatalf("expected roll to be rejected once all 3 rolls are used")
	}
}

func TestEngine_SelectRequiresAPriorRoll(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	raw, _ := json.Marshal(selectMove{Type: "select", Category: Chance})
	res := e.MakeMove("p1", raw)
	if res.Valid {
		t.Fatalf("expected select to be rejected before any roll")
	}
}

func TestEngine_SelectLocksScoreAndAdvancesTurn(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	e.rollsTaken = 1
	e.dice = [5]int{5, 5, 5, 1, 1}

	raw, _ := json.Marshal(selectMove{Type: "select", Category: Fives})
	res := e.MakeMove("p1", raw)
	if !res.Valid {
		t.Fatalf("select rejected: %s", res.Message)
	}
	if e.cards["p1"].scores[Fives] != 15 {
		t.Errorf("expected fives to score 15, got %d", e.cards["p1"].scores[Fives])
	}
	if !e.cards["p1"].filled[Fives] {
		t.Errorf("expected the category to be marked filled")
	}
	if e.currentPlayer() != "p2" {
		t.Errorf("expected turn to advance to p2, got %s", e.currentPlayer())
	}
	if e.rollsTaken != 0 {
		t.Errorf("expected rollsTaken to reset for the next turn")
	}
}

func TestEngine_RejectsReselectingAFilledCategory(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	e.rollsTaken = 1
	e.cards["p1"].filled[Chance] = true

	raw, _ := json.Marshal(selectMove{Type: "select", Category: Chance})
	res := e.MakeMove("p1", raw)
	if res.Valid {
		t.Fatalf("expected selecting an already-filled category to be rejected")
	}
}

func TestEngine_UpperSectionBonusAppliesAt63(t *testing.T) {
	card := newScorecard()
	for _, c := range []Category{Ones, Twos, Threes, Fours, Fives, Sixes} {
		card.scores[c] = 0
		card.filled[c] = true
	}
	card.scores[Sixes] = 30 // 5 sixes
	card.scores[Fives] = 25 // 5 fives
	card.scores[Fours] = 8  // 2 fours
	// total so far: 63 exactly
	if card.bonus() != 35 {
		t.Errorf("expected the 35-point bonus to apply at exactly 63, got bonus %d (upper=%d)", card.bonus(), card.upperTotal())
	}
}

func TestEngine_GameEndsOnceEveryScorecardIsComplete(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	for _, id := range e.playerOrder {
		for _, cat := range allCategories {
			e.cards[id].scores[cat] = 10
			e.cards[id].filled[cat] = true
		}
	}
	// Leave one category open on p1 so the select move actually completes it.
	delete(e.cards["p1"].filled, Chance)
	delete(e.cards["p1"].scores, Chance)
	e.currentPlayerIndex = 0
	e.rollsTaken = 1
	e.dice = [5]int{1, 2, 3, 4, 5}

	raw, _ := json.Marshal(selectMove{Type: "select", Category: Chance})
	res := e.MakeMove("p1", raw)
	if !res.Valid {
		t.Fatalf("select rejected: %s", res.Message)
	}
	if !e.gameOver {
		t.Fatalf("expected the game to end once every scorecard is complete")
	}
	// p1: 12 categories at 10 + a final Chance of 15 = 135. p2: all 13 at 10 = 130.
	if e.winner != "p1" {
		t.Errorf("expected p1 (135 > p2's 130) to win, got %q", e.winner)
	}
}

func TestEngine_RemovePlayerEndsGameWhenOneRemains(t *testing.T) {
	e := NewEngine([]string{"p1", "p2"})
	e.RemovePlayer("p2")
	if !e.GameOver() {
		t.Fatalf("expected the game to end once only one player remains")
	}
	if e.winner != "p1" {
		t.Errorf("expected p1 to be the winner, got %q", e.winner)
	}
}
