package poker

import (
	"fmt"
	"sort"

	"github.com/mhurst/piznac-games-sub001/internal/cardtypes"
)

// HandRank is the canonical ascending poker hand-rank enum. FiveOfAKind
// only arises when wild cards are in play (a natural 52-card deck
// cannot produce five of a kind).
type HandRank int

const (
	HighCard HandRank = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
	FiveOfAKind
)

func (hr HandRank) String() string {
	names := []string{
		"High Card", "One Pair", "Two Pair", "Three of a Kind", "Straight",
		"Flush", "Full House", "Four of a Kind", "Straight Flush",
		"Royal Flush", "Five of a Kind",
	}
	return names[hr]
}

// HandEvaluation is the result of ranking a 5-card hand. Tiebreakers is
// a deterministic descending list of the values that disambiguate two
// hands of equal Rank; Score folds (Rank, Tiebreakers) into a single
// comparable integer.
type HandEvaluation struct {
	Rank        HandRank
	Tiebreakers []int
	Score       int64
	Cards       []cardtypes.Card
}

func score(rank HandRank, tiebreakers []int) int64 {
	s := int64(rank) * 1_000_000_000_000
	mult := int64(1_000_000_000)
	for _, tb := range tiebreakers {
		s += int64(tb) * mult
		mult /= 20
		if mult == 0 {
			mult = 1
		}
	}
	return s
}

// EvaluateHand ranks an exact 5-card hand.
func EvaluateHand(cards []cardtypes.Card) (HandEvaluation, error) {
	if len(cards) != 5 {
		return HandEvaluation{}, fmt.Errorf("InvalidInput: evaluateHand requires exactly 5 cards, got %d", len(cards))
	}
	return evaluateFive(cards), nil
}

// EvaluateBest evaluates all C(n,5) subsets of cards (n >= 5) and
// returns the best.
func EvaluateBest(cards []cardtypes.Card) HandEvaluation {
	if len(cards) <= 5 {
		if len(cards) < 5 {
			return evaluateFive(padHighCard(cards))
		}
		return evaluateFive(cards)
	}
	var best HandEvaluation
	first := true
	combinations(cards, 5, func(subset []cardtypes.Card) {
		eval := evaluateFive(subset)
		if first || eval.Score > best.Score {
			best = eval
			first = false
		}
	})
	return best
}

func padHighCard(cards []cardtypes.Card) []cardtypes.Card {
	out := append([]cardtypes.Card{}, cards...)
	for len(out) < 5 {
		out = append(out, cardtypes.Card{Suit: cardtypes.Clubs, Value: cardtypes.Two})
	}
	return out
}

func combinations(cards []cardtypes.Card, k int, fn func([]cardtypes.Card)) {
	n := len(cards)
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		subset := make([]cardtypes.Card, k)
		for i, v := range idx {
			subset[i] = cards[v]
		}
		fn(subset)

		i := k - 1
		for i >= 0 && idx[i] == i+n-k {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// CompareHands returns >0 if a beats b, <0 if b beats a, 0 if equal.
func CompareHands(a, b HandEvaluation) int {
	switch {
	case a.Score > b.Score:
		return 1
	case a.Score < b.Score:
		return -1
	default:
		return 0
	}
}

func evaluateFive(cards []cardtypes.Card) HandEvaluation {
	sorted := append([]cardtypes.Card{}, cards...)
	sort.Slice(sorted, func(i, j int) bool {
		return cardtypes.RankValue(sorted[i].Value) > cardtypes.RankValue(sorted[j].Value)
	})

	if eval, ok := checkStraightFlush(sorted); ok {
		if eval.Tiebreakers[0] == 14 {
			eval.Rank = RoyalFlush
			eval.Score = score(RoyalFlush, eval.Tiebreakers)
		}
		return eval
	}
	if eval, ok := checkNOfAKind(sorted, 4); ok {
		return eval
	}
	if eval, ok := checkFullHouse(sorted); ok {
		return eval
	}
	if eval, ok := checkFlush(sorted); ok {
		return eval
	}
	if eval, ok := checkStraight(sorted); ok {
		return eval
	}
	if eval, ok := checkNOfAKind(sorted, 3); ok {
		return eval
	}
	if eval, ok := checkTwoPair(sorted); ok {
		return eval
	}
	if eval, ok := checkNOfAKind(sorted, 2); ok {
		return eval
	}
	return checkHighCard(sorted)
}

func rankGroups(cards []cardtypes.Card) map[int][]cardtypes.Card {
	groups := make(map[int][]cardtypes.Card)
	for _, c := range cards {
		v := cardtypes.RankValue(c.Value)
		groups[v] = append(groups[v], c)
	}
	return groups
}

func checkStraightFlush(cards []cardtypes.Card) (HandEvaluation, bool) {
	bySuit := make(map[cardtypes.Suit][]cardtypes.Card)
	for _, c := range cards {
		bySuit[c.Suit] = append(bySuit[c.Suit], c)
	}
	for _, suited := range bySuit {
		if len(suited) < 5 {
			continue
		}
		straight, ok := findStraight(suited)
		if !ok {
			continue
		}
		return HandEvaluation{
			Rank:        StraightFlush,
			Tiebreakers: []int{cardtypes.RankValue(straight[0].Value)},
			Score:       score(StraightFlush, []int{cardtypes.RankValue(straight[0].Value)}),
			Cards:       straight,
		}, true
	}
	return HandEvaluation{}, false
}

func findStraight(cards []cardtypes.Card) ([]cardtypes.Card, bool) {
	byValue := make(map[int]cardtypes.Card)
	for _, c := range cards {
		v := cardtypes.RankValue(c.Value)
		if _, exists := byValue[v]; !exists {
			byValue[v] = c
		}
	}
	values := make([]int, 0, len(byValue))
	for v := range byValue {
		values = append(values, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	run := []cardtypes.Card{byValue[values[0]]}
	for i := 1; i < len(values); i++ {
		if values[i-1]-values[i] == 1 {
			run = append(run, byValue[values[i]])
			if len(run) >= 5 {
				return run[:5], true
			}
		} else {
			run = []cardtypes.Card{byValue[values[i]]}
		}
	}

	// Wheel: A-2-3-4-5, ace plays low, high card reported as 5.
	if values[0] == 14 {
		wheel := []cardtypes.Card{}
		for _, v := range []int{5, 4, 3, 2} {
			c, ok := byValue[v]
			if !ok {
				return nil, false
			}
			wheel = append(wheel, c)
		}
		wheel = append(wheel, byValue[14])
		return wheel, true
	}
	return nil, false
}

func checkStraight(cards []cardtypes.Card) (HandEvaluation, bool) {
	straight, ok := findStraight(cards)
	if !ok {
		return HandEvaluation{}, false
	}
	high := cardtypes.RankValue(straight[0].Value)
	if straight[0].Value == cardtypes.Five && cardtypes.RankValue(straight[len(straight)-1].Value) == 14 {
		high = 5
	}
	return HandEvaluation{
		Rank:        Straight,
		Tiebreakers: []int{high},
		Score:       score(Straight, []int{high}),
		Cards:       straight,
	}, true
}

func checkFlush(cards []cardtypes.Card) (HandEvaluation, bool) {
	bySuit := make(map[cardtypes.Suit][]cardtypes.Card)
	for _, c := range cards {
		bySuit[c.Suit] = append(bySuit[c.Suit], c)
	}
	for _, suited := range bySuit {
		if len(suited) < 5 {
			continue
		}
		sort.Slice(suited, func(i, j int) bool {
			return cardtypes.RankValue(suited[i].Value) > cardtypes.RankValue(suited[j].Value)
		})
		top5 := suited[:5]
		tbs := make([]int, 5)
		for i, c := range top5 {
			tbs[i] = cardtypes.RankValue(c.Value)
		}
		return HandEvaluation{Rank: Flush, Tiebreakers: tbs, Score: score(Flush, tbs), Cards: top5}, true
	}
	return HandEvaluation{}, false
}

// checkNOfAKind handles four/three/two of a kind uniformly; n selects
// which group size to look for.
func checkNOfAKind(cards []cardtypes.Card, n int) (HandEvaluation, bool) {
	groups := rankGroups(cards)
	var bestGroup []cardtypes.Card
	bestVal := -1
	for v, g := range groups {
		if len(g) >= n && v > bestVal {
			bestGroup = g[:n]
			bestVal = v
		}
	}
	if bestGroup == nil {
		return HandEvaluation{}, false
	}

	kickers := []cardtypes.Card{}
	for _, c := range cards {
		if cardtypes.RankValue(c.Value) != bestVal {
			kickers = append(kickers, c)
		}
	}
	sort.Slice(kickers, func(i, j int) bool {
		return cardtypes.RankValue(kickers[i].Value) > cardtypes.RankValue(kickers[j].Value)
	})

	need := 5 - n
	if need > len(kickers) {
		need = len(kickers)
	}
	kickers = kickers[:need]

	rank := map[int]HandRank{4: FourOfAKind, 3: ThreeOfAKind, 2: OnePair}[n]
	tbs := []int{bestVal}
	for _, k := range kickers {
		tbs = append(tbs, cardtypes.RankValue(k.Value))
	}
	handCards := append(append([]cardtypes.Card{}, bestGroup...), kickers...)
	return HandEvaluation{Rank: rank, Tiebreakers: tbs, Score: score(rank, tbs), Cards: handCards}, true
}

func checkFullHouse(cards []cardtypes.Card) (HandEvaluation, bool) {
	groups := rankGroups(cards)
	threeVal, pairVal := -1, -1
	for v, g := range groups {
		if len(g) >= 3 && v > threeVal {
			threeVal = v
		}
	}
	if threeVal < 0 {
		return HandEvaluation{}, false
	}
	for v, g := range groups {
		if v == threeVal {
			continue
		}
		if len(g) >= 2 && v > pairVal {
			pairVal = v
		}
	}
	if pairVal < 0 {
		return HandEvaluation{}, false
	}
	handCards := append(append([]cardtypes.Card{}, groups[threeVal][:3]...), groups[pairVal][:2]...)
	tbs := []int{threeVal, pairVal}
	return HandEvaluation{Rank: FullHouse, Tiebreakers: tbs, Score: score(FullHouse, tbs), Cards: handCards}, true
}

func checkTwoPair(cards []cardtypes.Card) (HandEvaluation, bool) {
	groups := rankGroups(cards)
	pairVals := []int{}
	for v, g := range groups {
		if len(g) >= 2 {
			pairVals = append(pairVals, v)
		}
	}
	if len(pairVals) < 2 {
		return HandEvaluation{}, false
	}
	sort.Sort(sort.Reverse(sort.IntSlice(pairVals)))
	hi, lo := pairVals[0], pairVals[1]

	var kicker cardtypes.Card
	kickerVal := -1
	for _, c := range cards {
		v := cardtypes.RankValue(c.Value)
		if v != hi && v != lo && v > kickerVal {
			kicker = c
			kickerVal = v
		}
	}
	handCards := append(append([]cardtypes.Card{}, groups[hi][:2]...), groups[lo][:2]...)
	if kickerVal >= 0 {
		handCards = append(handCards, kicker)
	}
	tbs := []int{hi, lo, kickerVal}
	return HandEvaluation{Rank: TwoPair, Tiebreakers: tbs, Score: score(TwoPair, tbs), Cards: handCards}, true
}

func checkHighCard(cards []cardtypes.Card) HandEvaluation {
	sorted := append([]cardtypes.Card{}, cards...)
	sort.Slice(sorted, func(i, j int) bool {
		return cardtypes.RankValue(sorted[i].Value) > cardtypes.RankValue(sorted[j].Value)
	})
	top5 := sorted
	if len(top5) > 5 {
		top5 = top5[:5]
	}
	tbs := make([]int, len(top5))
	for i, c := range top5 {
		tbs[i] = cardtypes.RankValue(c.Value)
	}
	return HandEvaluation{Rank: HighCard, Tiebreakers: tbs, Score: score(HighCard, tbs), Cards: top5}
}
