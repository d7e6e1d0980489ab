package poker

import "testing"

func TestPotManager_SimpleCase(t *testing.T) {
	pm := NewPotManager()
	players := []string{"p1", "p2", "p3"}
	pm.SetPlayers(players)
	for _, id := range players {
		pm.RecordBet(id, 100)
	}

	pot := pm.CalculatePots(players)
	if pot.Main != 300 {
		t.Errorf("expected main pot 300, got %d", pot.Main)
	}
	if len(pot.Side) != 0 {
		t.Errorf("expected no side pots, got %d", len(pot.Side))
	}
}

func TestPotManager_OneAllIn(t *testing.T) {
	pm := NewPotManager()
	players := []string{"p1", "p2", "p3"}
	pm.SetPlayers(players)
	pm.RecordBet("p1", 50)
	pm.RecordAllIn("p1")
	pm.RecordBet("p2", 100)
	pm.RecordBet("p3", 100)

	pot := pm.CalculatePots(players)
	if pot.Main != 150 {
		t.Errorf("expected main pot 150, got %d", pot.Main)
	}
	if len(pot.Side) != 1 {
		t.Fatalf("expected 1 side pot, got %d", len(pot.Side))
	}
	if pot.Side[0].Amount != 100 {
		t.Errorf("expected side pot 100, got %d", pot.Side[0].Amount)
	}
	if len(pot.Side[0].EligiblePlayers) != 2 {
		t.Errorf("expected 2 eligible players in side pot, got %d", len(pot.Side[0].EligiblePlayers))
	}
}

func TestPotManager_MultipleAllIns(t *testing.T) {
	pm := NewPotManager()
	players := []string{"p1", "p2", "p3", "p4"}
	pm.SetPlayers(players)
	pm.RecordBet("p1", 50)
	pm.RecordAllIn("p1")
	pm.RecordBet("p2", 100)
	pm.RecordAllIn("p2")
	pm.RecordBet("p3", 200)
	pm.RecordBet("p4", 200)

	pot := pm.CalculatePots(players)
	if pot.Main != 200 {
		t.Errorf("expected main pot 200 (50*4), got %d", pot.Main)
	}
	if len(pot.Side) != 2 {
		t.Fatalf("expected 2 side pots, got %d", len(pot.Side))
	}
	if pot.Side[0].Amount != 150 {
		t.Errorf("expected first side pot 150 (50*3), got %d", pot.Side[0].Amount)
	}
	if pot.Side[1].Amount != 200 {
		t.Errorf("expected second side pot 200 (100*2), got %d", pot.Side[1].Amount)
	}
	if pot.Total() != 550 {
		t.Errorf("expected pot total 550, got %d", pot.Total())
	}
}

func TestPotManager_FoldedContributionsStayInPotButLoseEligibility(t *testing.T) {
	pm := NewPotManager()
	players := []string{"p1", "p2", "p3"}
	pm.SetPlayers(players)
	pm.RecordBet("p1", 50)
	pm.RecordFold("p1")
	pm.RecordBet("p2", 100)
	pm.RecordBet("p3", 100)

	pot := pm.CalculatePots(players)
	// No one is all-in, so the folded 50 stays in the single main pot.
	if pot.Main != 250 {
		t.Errorf("expected main pot 250, got %d", pot.Main)
	}
	if len(pot.Side) != 0 {
		t.Fatalf("expected no side pot without an all-in, got %+v", pot.Side)
	}
	for _, pid := range pm.MainPotEligible(players) {
		if pid == "p1" {
			t.Errorf("folded player must not be eligible for the main pot")
		}
	}
}

func TestPotManager_NoBets(t *testing.T) {
	pm := NewPotManager()
	players := []string{"p1", "p2"}
	pm.SetPlayers(players)

	pot := pm.CalculatePots(players)
	if pot.Main != 0 || len(pot.Side) != 0 {
		t.Errorf("expected an empty pot, got %+v", pot)
	}
}

func TestDistributeWinnings_SumsToPotTotal(t *testing.T) {
	pm := NewPotManager()
	players := []string{"p1", "p2", "p3"}
	pm.SetPlayers(players)
	pm.RecordBet("p1", 50)
	pm.RecordAllIn("p1")
	pm.RecordBet("p2", 100)
	pm.RecordBet("p3", 100)
	pot := pm.CalculatePots(players)

	hands := map[string]HandEvaluation{
		"p1": {Rank: HighCard, Score: 1},
		"p2": {Rank: OnePair, Score: 2},
		"p3": {Rank: TwoPair, Score: 3},
	}
	winnings := DistributeWinnings(pot, hands, pm.MainPotEligible(players))

	total := 0
	for _, amt := range winnings {
		total += amt
	}
	if total != pot.Total() {
		t.Errorf("distributed winnings %d do not match pot total %d", total, pot.Total())
	}
	// p3 has the best hand in both main and side pot.
	if winnings["p3"] != pot.Total() {
		t.Errorf("expected p3 (best hand throughout) to take the entire pot, got %d of %d", winnings["p3"], pot.Total())
	}
}

func TestDistributeWinnings_SplitPotDividesEvenlyWithRemainderToFirst(t *testing.T) {
	pm := NewPotManager()
	players := []string{"p1", "p2", "p3"}
	pm.SetPlayers(players)
	for _, id := range players {
		pm.RecordBet(id, 34)
	}
	pot := pm.CalculatePots(players) // 102 total, 3-way tie -> 34 each

	hands := map[string]HandEvaluation{
		"p1": {Rank: OnePair, Score: 5},
		"p2": {Rank: OnePair, Score: 5},
		"p3": {Rank: OnePair, Score: 5},
	}
	winnings := DistributeWinnings(pot, hands, pm.MainPotEligible(players))
	total := 0
	for _, amt := range winnings {
		total += amt
	}
	if total != pot.Total() {
		t.Errorf("split pot winnings %d do not match total %d", total, pot.Total())
	}

	// 104 split three ways is 34 each with 2 left over, all to p1.
	odd := DistributeWinnings(Pot{Main: 104}, hands, players)
	if odd["p1"] != 36 || odd["p2"] != 34 || odd["p3"] != 34 {
		t.Errorf("expected 36/34/34 with the remainder to p1, got %v", odd)
	}
}
