// Package poker implements the multi-variant poker engine: 5-Card
// Draw, 7-Card Stud, Texas Hold'em and Follow-the-Queen, with optional
// wild cards on the non-Hold'em variants.
package poker

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/mhurst/piznac-games-sub001/internal/cardtypes"
	"github.com/mhurst/piznac-games-sub001/internal/gameengine"
)

func init() {
	gameengine.Register("poker", func(playerIDs []string) (gameengine.Game, error) {
		return NewEngine(playerIDs), nil
	})
}

// Engine is the authoritative per-table poker state machine. All
// mutation is serialized through mu, matching the teacher's
// single-lock-per-table discipline in engine/game.go.
type Engine struct {
	mu sync.Mutex

	playerOrder []string
	players     map[string]*PlayerState
	dealerIdx   int

	variant      Variant
	wilds        WildSpec
	lastCardDown bool
	dynamicWilds map[cardtypes.Rank]bool

	phase          Phase
	deck           *cardtypes.Deck
	communityCards []cardtypes.Card
	street         int
	bettingRound   int

	actingOrder []string
	actorPos    int
	currentBet  int
	minRaise    int

	pendingQueenWild bool

	pot       *PotManager
	wonByFold bool

	handNumber int
	gameOver   bool
	winnerID   string
}

func NewEngine(playerIDs []string) *Engine {
	e := &Engine{
		playerOrder:  append([]string{}, playerIDs...),
		players:      map[string]*PlayerState{},
		pot:          NewPotManager(),
		dynamicWilds: map[cardtypes.Rank]bool{},
		dealerIdx:    -1,
	}
	for _, id := range playerIDs {
		e.players[id] = &PlayerState{ID: id, Chips: StartingChips}
	}
	e.startNewHand()
	return e
}

func (e *Engine) GameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gameOver
}

// activePlayerOrder returns playerOrder filtered to non-eliminated
// seats, preserving relative order.
func (e *Engine) activePlayerOrder() []string {
	out := []string{}
	for _, id := range e.playerOrder {
		if p, ok := e.players[id]; ok && !p.Eliminated {
			out = append(out, id)
		}
	}
	return out
}

func (e *Engine) startNewHand() {
	active := e.activePlayerOrder()
	if len(active) <= 1 {
		e.gameOver = true
		if len(active) == 1 {
			e.winnerID = active[0]
		}
		e.phase = PhaseSettlement
		return
	}

	e.dealerIdx = (e.dealerIdx + 1) % len(active)
	e.variant = ""
	e.wilds = WildSpec{}
	e.lastCardDown = true
	e.dynamicWilds = map[cardtypes.Rank]bool{}
	e.pendingQueenWild = false
	e.communityCards = nil
	e.street = 0
	e.bettingRound = 0
	e.currentBet = 0
	e.minRaise = MinBet
	e.wonByFold = false
	e.handNumber++
	e.pot.Reset()

	for _, id := range active {
		p := e.players[id]
		p.Hand = nil
		p.Bet = 0
		p.TotalBet = 0
		p.Folded = false
		p.AllIn = false
		p.HasActed = false
		p.Result = ""
		p.Payout = 0
	}
	e.phase = PhaseVariantSelect
}

func (e *Engine) dealerID() string {
	active := e.activePlayerOrder()
	if len(active) == 0 {
		return ""
	}
	return active[e.dealerIdx%len(active)]
}

func (e *Engine) MakeMove(playerID string, raw json.RawMessage) gameengine.MoveResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gameOver {
		return gameengine.Invalid("the game is over")
	}
	p, ok := e.players[playerID]
	if !ok {
		return gameengine.Invalid("unknown player")
	}

	moveType, body, err := parseMove(raw)
	if err != nil {
		return gameengine.Invalid("malformed move payload")
	}

	switch e.phase {
	case PhaseVariantSelect:
		return e.handleChooseVariant(playerID, moveType, body)
	case PhaseWildSelect:
		return e.handleChooseWilds(playerID, moveType, body)
	case PhaseAnte:
		return e.handleBuyIn(playerID, moveType)
	case PhaseBetting:
		return e.handleBetting(playerID, p, moveType, body)
	case PhaseDraw:
		return e.handleDraw(playerID, p, moveType, body)
	case PhaseSettlement, PhaseShowdown:
		if moveType == "next-hand" {
			e.startNewHand()
			return gameengine.Valid(nil)
		}
		return gameengine.Invalid("hand is complete, awaiting next-hand")
	default:
		return gameengine.Invalid("unexpected phase")
	}
}

func (e *Engine) handleChooseVariant(playerID, moveType string, body json.RawMessage) gameengine.MoveResult {
	if playerID != e.dealerID() {
		return gameengine.Invalid("only the dealer chooses the variant")
	}
	if moveType != "choose-variant" {
		return gameengine.Invalid("expected choose-variant")
	}
	var m chooseVariantMove
	if err := json.Unmarshal(body, &m); err != nil {
		return gameengine.Invalid("malformed choose-variant")
	}
	v := Variant(m.Variant)
	switch v {
	case VariantDraw, VariantStud, VariantHoldem, VariantFollowQueen:
	default:
		return gameengine.Invalid("unknown variant %q", m.Variant)
	}
	e.variant = v
	if v.AllowsWilds() {
		e.phase = PhaseWildSelect
	} else {
		e.phase = PhaseAnte
	}
	return gameengine.Valid(nil)
}

func (e *Engine) handleChooseWilds(playerID, moveType string, body json.RawMessage) gameengine.MoveResult {
	if playerID != e.dealerID() {
		return gameengine.Invalid("only the dealer chooses wilds")
	}
	if moveType != "choose-wilds" {
		return gameengine.Invalid("expected choose-wilds")
	}
	var m chooseWildsMove
	if err := json.Unmarshal(body, &m); err != nil {
		return gameengine.Invalid("malformed choose-wilds")
	}
	spec := WildSpec{LiteralRanks: map[cardtypes.Rank]bool{}, DynamicRanks: map[cardtypes.Rank]bool{}}
	for _, w := range m.Wilds {
		switch w {
		case "jokers":
			spec.Jokers = true
		case "one-eyed-jacks":
			spec.OneEyedJacks = true
		case "suicide-king":
			spec.SuicideKing = true
		case "deuces":
			spec.Deuces = true
		default:
			spec.LiteralRanks[cardtypes.Rank(w)] = true
		}
	}
	e.wilds = spec
	if m.LastCardDown != nil {
		e.lastCardDown = *m.LastCardDown
	}
	e.phase = PhaseAnte
	return gameengine.Valid(nil)
}

func (e *Engine) handleBuyIn(playerID, moveType string) gameengine.MoveResult {
	if moveType != "buy-in" {
		return gameengine.Invalid("expected buy-in")
	}
	active := e.activePlayerOrder()
	e.deck = cardtypes.NewDeck(e.wilds.Jokers)
	e.pot.SetPlayers(active)

	if e.variant == VariantHoldem {
		sbID, bbID := e.blindSeats(active)
		e.postBlind(sbID, SmallBlind)
		e.postBlind(bbID, BigBlind)
		e.currentBet = BigBlind
		e.minRaise = BigBlind
	} else {
		for _, id := range active {
			e.postBlind(id, Ante)
		}
		e.currentBet = 0
		e.minRaise = MinBet
	}

	switch e.variant {
	case VariantDraw:
		for _, id := range active {
			cards, _ := e.deck.DealMultiple(5)
			e.players[id].Hand = cards
		}
	case VariantStud, VariantFollowQueen:
		for _, id := range active {
			down, _ := e.deck.DealMultiple(2)
			for i := range down {
				down[i].FaceDown = true
			}
			up, _ := e.deck.DealMultiple(1)
			e.players[id].Hand = append(down, up[0])
			e.onFaceUpDealt(up[0])
		}
		e.street = 3
	case VariantHoldem:
		for _, id := range active {
			cards, _ := e.deck.DealMultiple(2)
			e.players[id].Hand = cards
		}
		e.street = 0
	}

	e.startBettingRound(active)
	return gameengine.Valid(nil)
}

func (e *Engine) postBlind(playerID string, amount int) {
	p := e.players[playerID]
	if p == nil {
		return
	}
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	e.pot.RecordBet(playerID, amount)
	if p.Chips == 0 {
		p.AllIn = true
		e.pot.RecordAllIn(playerID)
	}
}

// blindSeats returns (smallBlind, bigBlind) seat ids. Heads-up: dealer
// posts the small blind and acts first preflop.
func (e *Engine) blindSeats(active []string) (string, string) {
	n := len(active)
	if n == 2 {
		return active[e.dealerIdx%n], active[(e.dealerIdx+1)%n]
	}
	return active[(e.dealerIdx+1)%n], active[(e.dealerIdx+2)%n]
}

// onFaceUpDealt implements Follow-the-Queen: the rank of the next
// face-up card dealt anywhere at the table after a face-up Queen
// becomes wild for the rest of the hand, replacing any prior wild rank.
func (e *Engine) onFaceUpDealt(c cardtypes.Card) {
	if e.variant != VariantFollowQueen || c.FaceDown {
		return
	}
	if e.pendingQueenWild {
		e.dynamicWilds = map[cardtypes.Rank]bool{c.Value: true}
		e.wilds.DynamicRanks = e.dynamicWilds
		e.pendingQueenWild = false
	}
	if c.Value == cardtypes.Queen {
		e.pendingQueenWild = true
	}
	e.wilds.DynamicRanks = e.dynamicWilds
}

// startBettingRound computes the acting order for a fresh round and
// resets each live player's hasActed flag.
func (e *Engine) startBettingRound(active []string) {
	e.phase = PhaseBetting
	for _, id := range active {
		p := e.players[id]
		if !p.Folded && !p.AllIn {
			p.HasActed = false
		}
	}
	e.actingOrder = e.computeActingOrder(active)
	e.actorPos = 0
	e.advanceToNextActor(true)
}

func (e *Engine) computeActingOrder(active []string) []string {
	n := len(active)
	start := (e.dealerIdx + 1) % n
	if e.variant == VariantHoldem {
		if e.bettingRound == 0 {
			if n == 2 {
				start = e.dealerIdx % n // heads-up: dealer/SB acts first preflop
			} else {
				start = (e.dealerIdx + 3) % n // left of big blind
			}
		} else if n == 2 {
			start = (e.dealerIdx + 1) % n // heads-up: big blind acts first post-flop
		}
	} else if e.variant == VariantStud || e.variant == VariantFollowQueen {
		start = e.studOpenerIndex(active)
	}

	order := make([]string, 0, n)
	for i := 0; i < n; i++ {
		order = append(order, active[(start+i)%n])
	}
	return order
}

// studOpenerIndex picks the strongest visible (face-up) hand: most
// of-a-kind among up-cards, tiebroken by descending card values.
func (e *Engine) studOpenerIndex(active []string) int {
	bestIdx, bestScore := 0, -1
	for i, id := range active {
		up := []cardtypes.Card{}
		for _, c := range e.players[id].Hand {
			if !c.FaceDown {
				up = append(up, c)
			}
		}
		s := visibleHandScore(up)
		if s > bestScore {
			bestScore = s
			bestIdx = i
		}
	}
	return bestIdx
}

func visibleHandScore(cards []cardtypes.Card) int {
	counts := map[int]int{}
	for _, c := range cards {
		counts[cardtypes.RankValue(c.Value)]++
	}
	bestGroup, bestVal := 0, 0
	for v, n := range counts {
		if n > bestGroup || (n == bestGroup && v > bestVal) {
			bestGroup, bestVal = n, v
		}
	}
	high := 0
	for _, c := range cards {
		if v := cardtypes.RankValue(c.Value); v > high {
			high = v
		}
	}
	return bestGroup*1000 + bestVal*20 + high
}

func (e *Engine) handleBetting(playerID string, p *PlayerState, moveType string, body json.RawMessage) gameengine.MoveResult {
	if e.currentActor() != playerID {
		return gameengine.Invalid("not your turn")
	}
	if p.Folded || p.AllIn {
		return gameengine.Invalid("you cannot act")
	}

	switch moveType {
	case "check":
		if e.currentBet != p.Bet {
			return gameengine.Invalid("cannot check, facing a bet of %d", e.currentBet-p.Bet)
		}
		p.HasActed = true
	case "call":
		amount := e.currentBet - p.Bet
		if amount > p.Chips {
			amount = p.Chips
		}
		e.commitChips(p, amount)
		p.HasActed = true
	case "fold":
		p.Folded = true
		p.HasActed = true
		e.pot.RecordFold(playerID)
		if e.foldedDownToOne() {
			e.endHandByFold()
			return gameengine.Valid(nil)
		}
	case "raise":
		var m raiseMove
		if err := json.Unmarshal(body, &m); err != nil {
			return gameengine.Invalid("malformed raise")
		}
		if m.Amount < e.minRaise {
			return gameengine.Invalid("raise must be at least %d", e.minRaise)
		}
		needed := (e.currentBet - p.Bet) + m.Amount
		if needed > p.Chips {
			return gameengine.Invalid("insufficient chips to raise %d", m.Amount)
		}
		e.commitChips(p, needed)
		e.currentBet = p.Bet
		e.minRaise = m.Amount
		if e.minRaise < MinBet {
			e.minRaise = MinBet
		}
		for _, id := range e.actingOrder {
			other := e.players[id]
			if id != playerID && !other.Folded && !other.AllIn {
				other.HasActed = false
			}
		}
		p.HasActed = true
	case "allin":
		amount := p.Chips
		e.commitChips(p, amount)
		raiseBy := p.Bet - e.currentBet
		if raiseBy >= e.minRaise {
			e.currentBet = p.Bet
			e.minRaise = raiseBy
			for _, id := range e.actingOrder {
				other := e.players[id]
				if id != playerID && !other.Folded && !other.AllIn {
					other.HasActed = false
				}
			}
		}
		p.HasActed = true
		if e.foldedDownToOne() {
			e.endHandByFold()
			return gameengine.Valid(nil)
		}
	default:
		return gameengine.Invalid("unknown betting move %q", moveType)
	}

	if e.isBettingRoundComplete() {
		e.advanceAfterBetting()
	} else {
		e.advanceToNextActor(false)
	}
	return gameengine.Valid(nil)
}

func (e *Engine) commitChips(p *PlayerState, amount int) {
	if amount < 0 {
		amount = 0
	}
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	e.pot.RecordBet(p.ID, amount)
	if p.Chips == 0 {
		p.AllIn = true
		e.pot.RecordAllIn(p.ID)
	}
}

func (e *Engine) currentActor() string {
	if e.actorPos < 0 || e.actorPos >= len(e.actingOrder) {
		return ""
	}
	return e.actingOrder[e.actorPos]
}

// advanceToNextActor moves actorPos to the next player who still needs
// to act. If first is true, actorPos starts at 0 and may need to skip
// forward past folded/all-in seats.
func (e *Engine) advanceToNextActor(first bool) {
	n := len(e.actingOrder)
	if n == 0 {
		return
	}
	start := e.actorPos
	if !first {
		start++
	}
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		p := e.players[e.actingOrder[idx]]
		if !p.Folded && !p.AllIn {
			e.actorPos = idx
			return
		}
	}
	e.actorPos = -1
}

func (e *Engine) foldedDownToOne() bool {
	count := 0
	for _, id := range e.activePlayerOrder() {
		if !e.players[id].Folded {
			count++
		}
	}
	return count <= 1
}

func (e *Engine) isBettingRoundComplete() bool {
	for _, id := range e.activePlayerOrder() {
		p := e.players[id]
		if p.Folded || p.AllIn {
			continue
		}
		if !p.HasActed || p.Bet != e.currentBet {
			return false
		}
	}
	return true
}

// endHandByFold awards the entire pot to the sole non-folded player
// without revealing any hand, per spec §4.5.1.
func (e *Engine) endHandByFold() {
	e.wonByFold = true
	var winner string
	for _, id := range e.activePlayerOrder() {
		if !e.players[id].Folded {
			winner = id
			break
		}
	}
	total := e.pot.GetTotalPot()
	if p := e.players[winner]; p != nil {
		p.Chips += total
		p.Payout = total
		p.Result = "win"
	}
	e.settleAfterHand()
}

func (e *Engine) advanceAfterBetting() {
	active := e.activePlayerOrder()
	for _, id := range active {
		e.players[id].Bet = 0
	}

	switch e.variant {
	case VariantDraw:
		if e.bettingRound == 0 {
			e.bettingRound++
			e.phase = PhaseDraw
			e.actingOrder = e.computeActingOrder(active)
			e.actorPos = 0
			e.advanceToNextActor(true)
			for _, id := range active {
				e.players[id].HasActed = false
			}
			return
		}
		e.runShowdown(active)
	case VariantStud, VariantFollowQueen:
		if e.street < 7 {
			e.dealStudStreet(active)
			e.bettingRound++
			e.startBettingRound(active)
			return
		}
		e.runShowdown(active)
	case VariantHoldem:
		switch e.bettingRound {
		case 0:
			e.deck.Deal() // burn
			cards, _ := e.deck.DealMultiple(3)
			e.communityCards = append(e.communityCards, cards...)
		case 1, 2:
			e.deck.Deal() // burn
			card, _ := e.deck.Deal()
			e.communityCards = append(e.communityCards, card)
		default:
			e.runShowdown(active)
			return
		}
		e.bettingRound++
		e.startBettingRound(active)
	}
}

func (e *Engine) dealStudStreet(active []string) {
	e.street++
	faceDown := e.street == 7 && e.lastCardDown
	for _, id := range active {
		p := e.players[id]
		if p.Folded {
			continue
		}
		c, err := e.deck.Deal()
		if err != nil {
			continue
		}
		c.FaceDown = faceDown
		p.Hand = append(p.Hand, c)
		e.onFaceUpDealt(c)
	}
}

func (e *Engine) runShowdown(active []string) {
	e.phase = PhaseShowdown
	contenders := []string{}
	for _, id := range active {
		if !e.players[id].Folded {
			contenders = append(contenders, id)
		}
	}

	hands := map[string]HandEvaluation{}
	for _, id := range contenders {
		pool := append(append([]cardtypes.Card{}, e.players[id].Hand...), e.communityCards...)
		if e.wilds.Empty() {
			hands[id] = EvaluateBest(pool)
		} else {
			hands[id] = EvaluateBestWithWilds(pool, e.wilds)
		}
	}

	pots := e.pot.CalculatePots(active)
	mainEligible := e.pot.MainPotEligible(active)
	winnings := DistributeWinnings(pots, hands, mainEligible)

	winnerIDs, _ := DetermineWinners(hands)
	winnerSet := map[string]bool{}
	for _, w := range winnerIDs {
		winnerSet[w] = true
	}
	for id, amount := range winnings {
		p := e.players[id]
		p.Chips += amount
		p.Payout = amount
		if len(winnerSet) > 1 && winnerSet[id] {
			p.Result = "split"
		} else {
			p.Result = "win"
		}
	}
	for _, id := range contenders {
		if e.players[id].Payout == 0 {
			e.players[id].Result = "lose"
		}
	}

	e.settleAfterHand()
}

func (e *Engine) settleAfterHand() {
	e.phase = PhaseSettlement
	for _, id := range e.playerOrder {
		p := e.players[id]
		if !p.Eliminated && p.Chips <= 0 {
			p.Eliminated = true
		}
	}
	remaining := e.activePlayerOrder()
	if len(remaining) <= 1 {
		e.gameOver = true
		if len(remaining) == 1 {
			e.winnerID = remaining[0]
		}
	}
}

func (e *Engine) handleDraw(playerID string, p *PlayerState, moveType string, body json.RawMessage) gameengine.MoveResult {
	if e.currentActor() != playerID {
		return gameengine.Invalid("not your turn")
	}
	active := e.activePlayerOrder()

	switch moveType {
	case "stand-pat":
		p.HasActed = true
	case "discard":
		var m discardMove
		if err := json.Unmarshal(body, &m); err != nil {
			return gameengine.Invalid("malformed discard")
		}
		maxDiscard := 3
		if e.handHasAceOrWild(p) {
			maxDiscard = 4
		}
		if len(m.Indices) > maxDiscard {
			return gameengine.Invalid("cannot discard more than %d cards", maxDiscard)
		}
		seen := map[int]bool{}
		for _, idx := range m.Indices {
			if idx < 0 || idx >= len(p.Hand) || seen[idx] {
				return gameengine.Invalid("invalid discard index %d", idx)
			}
			seen[idx] = true
		}
		newHand := make([]cardtypes.Card, 0, len(p.Hand))
		for i, c := range p.Hand {
			if seen[i] {
				continue
			}
			newHand = append(newHand, c)
		}
		drawn, err := e.deck.DealMultiple(len(m.Indices))
		if err != nil {
			return gameengine.Invalid("not enough cards left in deck")
		}
		p.Hand = append(newHand, drawn...)
		p.HasActed = true
	default:
		return gameengine.Invalid("unknown draw move %q", moveType)
	}

	allActed := true
	for _, id := range active {
		pp := e.players[id]
		if !pp.Folded && !pp.AllIn && !pp.HasActed {
			allActed = false
			break
		}
	}
	if allActed {
		e.bettingRound++
		e.currentBet = 0
		e.minRaise = MinBet
		e.startBettingRound(active)
		return gameengine.Valid(nil)
	}
	e.advanceToNextActor(false)
	return gameengine.Valid(nil)
}

func (e *Engine) handHasAceOrWild(p *PlayerState) bool {
	for _, c := range p.Hand {
		if c.Value == cardtypes.Ace || e.wilds.IsWild(c) {
			return true
		}
	}
	return false
}

// GetState returns V's redacted view per spec §4.5.2.
func (e *Engine) GetState(viewerID string) interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	players := make([]PublicPlayerView, 0, len(e.playerOrder))
	for _, id := range e.playerOrder {
		p := e.players[id]
		view := PublicPlayerView{
			ID: id, Chips: p.Chips, Bet: p.Bet, TotalBet: p.TotalBet,
			Folded: p.Folded, AllIn: p.AllIn, HasActed: p.HasActed,
			Eliminated: p.Eliminated, Result: p.Result, Payout: p.Payout,
			SittingOut: p.SittingOut,
		}
		view.Hand = e.redactHand(viewerID, id, p)
		players = append(players, view)
	}

	wilds := []string{}
	if e.wilds.Jokers {
		wilds = append(wilds, "jokers")
	}
	if e.wilds.OneEyedJacks {
		wilds = append(wilds, "one-eyed-jacks")
	}
	if e.wilds.SuicideKing {
		wilds = append(wilds, "suicide-king")
	}
	if e.wilds.Deuces {
		wilds = append(wilds, "deuces")
	}
	for r := range e.wilds.LiteralRanks {
		wilds = append(wilds, string(r))
	}
	sort.Strings(wilds)

	return PublicState{
		Phase: e.phase, Variant: e.variant, Wilds: wilds,
		DealerID: e.dealerID(), CurrentActorID: e.currentActor(),
		Players: players, CommunityCards: e.communityCards,
		CurrentBet: e.currentBet, MinRaise: e.minRaise,
		Pot: e.pot.CalculatePots(e.activePlayerOrder()),
		WonByFold: e.wonByFold, HandNumber: e.handNumber,
		GameOver: e.gameOver, WinnerID: e.winnerID,
	}
}

// redactHand implements the Draw/Stud/Hold'em visibility rules.
func (e *Engine) redactHand(viewerID, ownerID string, p *PlayerState) []cardtypes.Card {
	if viewerID == ownerID {
		return revealFaceDown(p.Hand)
	}
	revealed := e.phase == PhaseShowdown || e.phase == PhaseSettlement
	canSee := revealed && !e.wonByFold && !p.Folded

	switch e.variant {
	case VariantDraw:
		if canSee {
			return p.Hand
		}
		return backsFor(p.Hand)
	case VariantStud, VariantFollowQueen:
		out := make([]cardtypes.Card, len(p.Hand))
		for i, c := range p.Hand {
			if !c.FaceDown || canSee {
				cc := c
				cc.FaceDown = false
				out[i] = cc
			} else {
				out[i] = cardtypes.HiddenCard()
			}
		}
		return out
	case VariantHoldem:
		if canSee {
			return p.Hand
		}
		return backsFor(p.Hand)
	}
	return backsFor(p.Hand)
}

func revealFaceDown(hand []cardtypes.Card) []cardtypes.Card {
	out := make([]cardtypes.Card, len(hand))
	for i, c := range hand {
		c.FaceDown = false
		out[i] = c
	}
	return out
}

func backsFor(hand []cardtypes.Card) []cardtypes.Card {
	out := make([]cardtypes.Card, len(hand))
	for i := range hand {
		out[i] = cardtypes.HiddenCard()
	}
	return out
}

// RemovePlayer folds the leaver out permanently; if that leaves one
// contender, the hand (and possibly the game) ends in their favor.
func (e *Engine) RemovePlayer(playerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.players[playerID]
	if !ok || p.Eliminated {
		return
	}
	p.Folded = true
	p.Eliminated = true
	e.pot.RecordFold(playerID)

	if e.phase == PhaseBetting || e.phase == PhaseDraw {
		if e.currentActor() == playerID {
			e.advanceToNextActor(false)
		}
		if e.foldedDownToOne() {
			e.endHandByFold()
			return
		}
		if e.isBettingRoundComplete() {
			e.advanceAfterBetting()
		}
	}

	remaining := e.activePlayerOrder()
	if len(remaining) <= 1 {
		e.gameOver = true
		if len(remaining) == 1 {
			e.winnerID = remaining[0]
		}
	}
}
