package poker

import "github.com/mhurst/piznac-games-sub001/internal/cardtypes"

// WildSpec names which cards are wild for a hand. Literal ranks (e.g.
// "2") are matched directly; the named specials are resolved below.
type WildSpec struct {
	Jokers        bool
	OneEyedJacks  bool
	SuicideKing   bool
	Deuces        bool
	LiteralRanks  map[cardtypes.Rank]bool
	// DynamicRanks holds ranks that became wild mid-hand (Follow-the-Queen).
	DynamicRanks map[cardtypes.Rank]bool
}

func (w WildSpec) Empty() bool {
	return !w.Jokers && !w.OneEyedJacks && !w.SuicideKing && !w.Deuces &&
		len(w.LiteralRanks) == 0 && len(w.DynamicRanks) == 0
}

func (w WildSpec) IsWild(c cardtypes.Card) bool {
	if c.Value == cardtypes.Joker {
		return true
	}
	if w.Jokers && c.Value == cardtypes.Joker {
		return true
	}
	if w.OneEyedJacks && c.Value == cardtypes.Jack && (c.Suit == cardtypes.Spades || c.Suit == cardtypes.Hearts) {
		return true
	}
	if w.SuicideKing && c.Value == cardtypes.King && c.Suit == cardtypes.Hearts {
		return true
	}
	if w.Deuces && c.Value == cardtypes.Two {
		return true
	}
	if w.LiteralRanks[c.Value] {
		return true
	}
	if w.DynamicRanks[c.Value] {
		return true
	}
	return false
}

var allRanks = []cardtypes.Rank{
	cardtypes.Two, cardtypes.Three, cardtypes.Four, cardtypes.Five, cardtypes.Six,
	cardtypes.Seven, cardtypes.Eight, cardtypes.Nine, cardtypes.Ten,
	cardtypes.Jack, cardtypes.Queen, cardtypes.King, cardtypes.Ace,
}
var allSuits = []cardtypes.Suit{cardtypes.Hearts, cardtypes.Diamonds, cardtypes.Clubs, cardtypes.Spades}

func allNaturalCards() []cardtypes.Card {
	cards := make([]cardtypes.Card, 0, 52)
	for _, r := range allRanks {
		for _, s := range allSuits {
			cards = append(cards, cardtypes.Card{Suit: s, Value: r})
		}
	}
	return cards
}

// EvaluateBestWithWilds evaluates the best 5-of-N hand from cards,
// substituting each wild card for the card that maximizes the result.
// Guarantees Score(result) >= Score(evaluateBest(cards)) for any spec,
// including the empty spec (pure passthrough).
func EvaluateBestWithWilds(cards []cardtypes.Card, spec WildSpec) HandEvaluation {
	if spec.Empty() {
		return EvaluateBest(cards)
	}

	wildIdx := []int{}
	naturals := []cardtypes.Card{}
	for i, c := range cards {
		if spec.IsWild(c) {
			wildIdx = append(wildIdx, i)
		} else {
			naturals = append(naturals, c)
		}
	}
	if len(wildIdx) == 0 {
		return EvaluateBest(cards)
	}

	switch {
	case len(wildIdx) >= 4:
		return closedFormHighWild(naturals, len(wildIdx))
	default: // 1, 2, or 3 wilds: exhaustive substitution
		return exhaustiveSubstitute(cards, wildIdx)
	}
}

// closedFormHighWild handles 4 or 5 wild cards: the wilds can always
// be made to match the best remaining natural's rank (or Ace, with no
// naturals at all), producing Five of a Kind, which beats every
// other hand class regardless of rank.
func closedFormHighWild(naturals []cardtypes.Card, wildCount int) HandEvaluation {
	rank := 14 // Ace
	var cards []cardtypes.Card
	if len(naturals) > 0 {
		best := naturals[0]
		for _, n := range naturals[1:] {
			if cardtypes.RankValue(n.Value) > cardtypes.RankValue(best.Value) {
				best = n
			}
		}
		rank = cardtypes.RankValue(best.Value)
		cards = append(cards, best)
	}
	for len(cards) < 5 {
		cards = append(cards, cardtypes.Card{Suit: cardtypes.JokerSuit, Value: cardtypes.Joker})
	}
	return HandEvaluation{Rank: FiveOfAKind, Tiebreakers: []int{rank}, Score: score(FiveOfAKind, []int{rank}), Cards: cards}
}

// exhaustiveSubstitute tries every natural replacement (independently
// per wild slot) over the 52-card universe and keeps the best result.
// Bounded: 52 tries for one wild, up to 52^3 for three, cheap against a
// hand of at most seven cards.
func exhaustiveSubstitute(cards []cardtypes.Card, wildIdx []int) HandEvaluation {
	universe := allNaturalCards()
	working := append([]cardtypes.Card{}, cards...)

	var best HandEvaluation
	first := true

	var recurse func(depth int)
	recurse = func(depth int) {
		if depth == len(wildIdx) {
			eval := EvaluateBest(working)
			if first || eval.Score > best.Score {
				best = eval
				first = false
			}
			return
		}
		for _, candidate := range universe {
			working[wildIdx[depth]] = candidate
			recurse(depth + 1)
		}
	}
	recurse(0)
	return best
}

// DetermineWinners returns the player ids holding the best hand among
// contenders (ties are split pots) plus the winning evaluation.
func DetermineWinners(hands map[string]HandEvaluation) ([]string, HandEvaluation) {
	var best HandEvaluation
	first := true
	for _, h := range hands {
		if first || h.Score > best.Score {
			best = h
			first = false
		}
	}
	winners := []string{}
	for pid, h := range hands {
		if h.Score == best.Score {
			winners = append(winners, pid)
		}
	}
	return winners, best
}
