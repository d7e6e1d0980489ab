package poker

import "sort"

// PotEntry is one pot (main or side) with its eligible contenders.
type PotEntry struct {
	Amount          int      `json:"amount"`
	EligiblePlayers []string `json:"eligiblePlayers"`
}

// Pot is the full breakdown of one hand's pot at showdown.
type Pot struct {
	Main int        `json:"main"`
	Side []PotEntry `json:"side"`
}

func (p Pot) Total() int {
	t := p.Main
	for _, s := range p.Side {
		t += s.Amount
	}
	return t
}

// PotManager accumulates per-player contributions for the hand in
// progress and computes the side-pot breakdown at showdown.
type PotManager struct {
	bets   map[string]int
	folded map[string]bool
	allIn  map[string]bool
	order  []string
}

func NewPotManager() *PotManager {
	return &PotManager{bets: map[string]int{}, folded: map[string]bool{}, allIn: map[string]bool{}}
}

func (pm *PotManager) SetPlayers(playerIDs []string) {
	pm.order = append([]string{}, playerIDs...)
	pm.bets = map[string]int{}
	pm.folded = map[string]bool{}
	pm.allIn = map[string]bool{}
	for _, id := range playerIDs {
		pm.bets[id] = 0
	}
}

func (pm *PotManager) RecordBet(playerID string, amount int) {
	pm.bets[playerID] += amount
}

func (pm *PotManager) RecordFold(playerID string) {
	pm.folded[playerID] = true
}

func (pm *PotManager) RecordAllIn(playerID string) {
	pm.allIn[playerID] = true
}

func (pm *PotManager) Reset() {
	pm.bets = map[string]int{}
	pm.folded = map[string]bool{}
	pm.allIn = map[string]bool{}
}

func (pm *PotManager) GetTotalPot() int {
	total := 0
	for _, b := range pm.bets {
		total += b
	}
	return total
}

// CalculatePots implements spec's side-pot algorithm: walk distinct
// all-in levels ascending, each level forms a pot from every player's
// contribution up to that level (minus what previous levels already
// claimed), eligible to non-folded players who reached that level.
// Folded contributions are absorbed into whichever pot they fall in.
func (pm *PotManager) CalculatePots(playerIDs []string) Pot {
	type contribution struct {
		id     string
		amount int
	}
	contribs := []contribution{}
	for _, id := range playerIDs {
		if pm.bets[id] > 0 {
			contribs = append(contribs, contribution{id: id, amount: pm.bets[id]})
		}
	}
	if len(contribs) == 0 {
		return Pot{Main: 0, Side: []PotEntry{}}
	}

	// Distinct levels: the all-in amounts, ascending, plus the top
	// contribution so any remainder above the last all-in still forms
	// a final pot.
	levelSet := map[int]bool{}
	for _, c := range contribs {
		if pm.allIn[c.id] {
			levelSet[c.amount] = true
		}
	}
	maxAmt := 0
	for _, c := range contribs {
		if c.amount > maxAmt {
			maxAmt = c.amount
		}
	}
	levelSet[maxAmt] = true

	levels := make([]int, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Ints(levels)

	pots := []PotEntry{}
	prev := 0
	for _, level := range levels {
		amount := 0
		eligible := []string{}
		for _, c := range contribs {
			contribAtLevel := level - prev
			if c.amount-prev < contribAtLevel {
				contribAtLevel = c.amount - prev
			}
			if contribAtLevel < 0 {
				contribAtLevel = 0
			}
			amount += contribAtLevel
			if c.amount >= level && !pm.folded[c.id] {
				eligible = append(eligible, c.id)
			}
		}
		if amount > 0 {
			pots = append(pots, PotEntry{Amount: amount, EligiblePlayers: eligible})
		}
		prev = level
	}

	if len(pots) == 0 {
		return Pot{Main: 0, Side: []PotEntry{}}
	}
	main := pots[0]
	side := pots[1:]
	return Pot{Main: main.Amount, Side: append([]PotEntry{}, side...)}
}

// MainPotEligible exposes the main pot's eligible set; used by tests and
// by settlement when the main pot itself needs an eligible-players
// view (CalculatePots folds it into Pot, which drops it for Main).
func (pm *PotManager) MainPotEligible(playerIDs []string) []string {
	full := pm.CalculatePots(playerIDs)
	_ = full
	eligible := []string{}
	for _, id := range playerIDs {
		if !pm.folded[id] {
			eligible = append(eligible, id)
		}
	}
	return eligible
}

// DistributeWinnings splits pot across the best hand(s) among each
// pot's eligible contenders. Remainder chips (integer division) go to
// the first winner in iteration order, matching the teacher's policy.
func DistributeWinnings(pot Pot, hands map[string]HandEvaluation, mainEligible []string) map[string]int {
	winnings := map[string]int{}

	distribute := func(amount int, eligible []string) {
		if amount <= 0 || len(eligible) == 0 {
			return
		}
		contenders := map[string]HandEvaluation{}
		for _, id := range eligible {
			if h, ok := hands[id]; ok {
				contenders[id] = h
			}
		}
		if len(contenders) == 0 {
			return
		}
		winners, _ := DetermineWinners(contenders)
		sort.Strings(winners) // deterministic iteration order
		per := amount / len(winners)
		remainder := amount % len(winners)
		for i, w := range winners {
			amt := per
			if i == 0 {
				amt += remainder
			}
			winnings[w] += amt
		}
	}

	distribute(pot.Main, mainEligible)
	for _, sp := range pot.Side {
		distribute(sp.Amount, sp.EligiblePlayers)
	}
	return winnings
}
