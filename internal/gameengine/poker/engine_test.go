package poker

import (
	"encoding/json"
	"testing"

	"github.com/mhurst/piznac-games-sub001/internal/cardtypes"
	"github.com/mhurst/piznac-games-sub001/internal/gameengine"
)

func newHeadsUpEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine([]string{"alice", "bob"})
}

func mustMove(t *testing.T, e *Engine, playerID string, payload interface{}) gameengine.MoveResult {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal move: %v", err)
	}
	return e.MakeMove(playerID, raw)
}

func TestEngine_DealerChoosesVariantAndAnteIsPosted(t *testing.T) {
	e := newHeadsUpEngine(t)
	dealer := e.dealerID()
	other := "alice"
	if dealer == other {
		other = "bob"
	}

	if res := mustMove(t, e, other, chooseVariantMove{Type: "choose-variant", Variant: string(VariantDraw)}); res.Valid {
		t.Fatalf("expected non-dealer variant choice to be rejected")
	}

	res := mustMove(t, e, dealer, chooseVariantMove{Type: "choose-variant", Variant: string(VariantDraw)})
	if !res.Valid {
		t.Fatalf("dealer's variant choice rejected: %s", res.Message)
	}
	if e.phase != PhaseWildSelect {
		t.Fatalf("expected wild-select phase after choosing 5-card-draw, got %s", e.phase)
	}

	res = mustMove(t, e, dealer, chooseWildsMove{Type: "choose-wilds", Wilds: []string{}})
	if !res.Valid {
		t.Fatalf("choose-wilds rejected: %s", res.Message)
	}
	if e.phase != PhaseAnte {
		t.Fatalf("expected ante phase after choosing wilds, got %s", e.phase)
	}

	res = mustMove(t, e, dealer, buyInMove{Type: "buy-in"})
	if !res.Valid {
		t.Fatalf("buy-in rejected: %s", res.Message)
	}
	if e.phase != PhaseBetting {
		t.Fatalf("expected betting phase after buy-in, got %s", e.phase)
	}
	for _, id := range e.playerOrder {
		if e.players[id].Chips != StartingChips-Ante {
			t.Errorf("player %s should have paid the ante", id)
		}
		if len(e.players[id].Hand) != 5 {
			t.Errorf("player %s should hold 5 cards in draw, got %d", id, len(e.players[id].Hand))
		}
	}
}

func TestEngine_NonShowdownHandsAreRedactedToOtherPlayers(t *testing.T) {
	e := newHeadsUpEngine(t)
	dealer := e.dealerID()
	mustMove(t, e, dealer, chooseVariantMove{Type: "choose-variant", Variant: string(VariantDraw)})
	mustMove(t, e, dealer, chooseWildsMove{Type: "choose-wilds", Wilds: []string{}})
	mustMove(t, e, dealer, buyInMove{Type: "buy-in"})

	state := e.GetState("alice").(PublicState)
	for _, pv := range state.Players {
		if pv.ID == "alice" {
			continue
		}
		for _, c := range pv.Hand {
			if c.Suit != cardtypes.Back {
				t.Errorf("expected opponent's mid-hand cards to be hidden, got %v", c)
			}
		}
	}
}

func TestEngine_WonByFold_LoserNeverSeesWinnersCards(t *testing.T) {
	e := newHeadsUpEngine(t)
	dealer := e.dealerID()
	other := "alice"
	if dealer == other {
		other = "bob"
	}

	mustMove(t, e, dealer, chooseVariantMove{Type: "choose-variant", Variant: string(VariantDraw)})
	mustMove(t, e, dealer, chooseWildsMove{Type: "choose-wilds", Wilds: []string{}})
	mustMove(t, e, dealer, buyInMove{Type: "buy-in"})

	actor := e.currentActor()
	res := mustMove(t, e, actor, moveTag{Type: "fold"})
	if !res.Valid {
		t.Fatalf("fold rejected: %s", res.Message)
	}
	if !e.wonByFold {
		t.Fatalf("expected hand to end by fold")
	}

	loser := actor
	winner := dealer
	if loser == dealer {
		winner = other
	}

	state := e.GetState(loser).(PublicState)
	for _, pv := range state.Players {
		if pv.ID == winner {
			for _, c := range pv.Hand {
				if c.Suit != cardtypes.Back {
					t.Errorf("won-by-fold must never reveal the winner's cards to the loser")
				}
			}
		}
	}
}

func TestEngine_ChipConservationAcrossAHand(t *testing.T) {
	e := newHeadsUpEngine(t)
	totalBefore := 0
	for _, id := range e.playerOrder {
		totalBefore += e.players[id].Chips
	}

	dealer := e.dealerID()
	mustMove(t, e, dealer, chooseVariantMove{Type: "choose-variant", Variant: string(VariantDraw)})
	mustMove(t, e, dealer, chooseWildsMove{Type: "choose-wilds", Wilds: []string{}})
	mustMove(t, e, dealer, buyInMove{Type: "buy-in"})

	// Run the betting round to completion via check/call so no one folds.
	for i := 0; i < 4 && e.phase == PhaseBetting; i++ {
		actor := e.currentActor()
		if actor == "" {
			break
		}
		p := e.players[actor]
		if p.Bet == e.currentBet {
			mustMove(t, e, actor, moveTag{Type: "check"})
		} else {
			mustMove(t, e, actor, moveTag{Type: "call"})
		}
	}

	totalAfter := 0
	for _, id := range e.playerOrder {
		totalAfter += e.players[id].Chips
	}
	pot := e.pot.GetTotalPot()
	if totalAfter+pot != totalBefore {
		t.Errorf("chips not conserved: before=%d after=%d pot=%d", totalBefore, totalAfter, pot)
	}
}

func TestEngine_RemovePlayerEndsHeadsUpHandByFold(t *testing.T) {
	e := newHeadsUpEngine(t)
	dealer := e.dealerID()
	mustMove(t, e, dealer, chooseVariantMove{Type: "choose-variant", Variant: string(VariantDraw)})
	mustMove(t, e, dealer, chooseWildsMove{Type: "choose-wilds", Wilds: []string{}})
	mustMove(t, e, dealer, buyInMove{Type: "buy-in"})

	e.RemovePlayer("alice")
	if !e.players["alice"].Eliminated {
		t.Errorf("expected removed player to be marked eliminated")
	}
	if !e.gameOver {
		t.Errorf("expected heads-up game to end once one player leaves")
	}
	if e.winnerID != "bob" {
		t.Errorf("expected bob to win by default, got %q", e.winnerID)
	}
}
