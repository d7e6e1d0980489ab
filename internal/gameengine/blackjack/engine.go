// Package blackjack implements the up-to-4-players-vs-dealer table
// game: a betting phase, then hit/stand/double per seat, then a fixed
// dealer policy and 3:2 blackjack payout.
package blackjack

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mhurst/piznac-games-sub001/internal/cardtypes"
	"github.com/mhurst/piznac-games-sub001/internal/gameengine"
)

const (
	maxSeats        = 4
	startingBankroll = 1000
)

type Phase string

const (
	PhaseBetting Phase = "betting"
	PhasePlaying Phase = "playing"
	PhaseDealer  Phase = "dealer"
	PhaseDone    Phase = "done"
)

func init() {
	gameengine.Register("blackjack", func(playerIDs []string) (gameengine.Game, error) {
		return NewEngine(playerIDs)
	})
}

type betMove struct {
	Type   string `json:"type"`
	Amount int    `json:"amount"`
}

type moveTag struct {
	Type string `json:"type"`
}

type seat struct {
	hand      []cardtypes.Card
	bet       int
	standing  bool
	busted    bool
	blackjack bool
	doubled   bool
	result    string // "win", "lose", "push", set once the round resolves
}

// Engine is a single round of blackjack: one shoe, one betting round,
// one pass through every seat, then the dealer's fixed policy.
type Engine struct {
	mu sync.Mutex

	players []string
	seats   map[string]*seat
	chips   map[string]int

	deck       *cardtypes.Deck
	dealerHand []cardtypes.Card

	phase       Phase
	actingIndex int

	gameOver bool
}

func NewEngine(playerIDs []string) (*Engine, error) {
	if len(playerIDs) < 1 || len(playerIDs) > maxSeats {
		return nil, fmt.Errorf("blackjack takes 1 to %d players, got %d", maxSeats, len(playerIDs))
	}
	e := &Engine{
		players: append([]string{}, playerIDs...),
		seats:   map[string]*seat{},
		chips:   map[string]int{},
		deck:    cardtypes.NewDeck(false),
		phase:   PhaseBetting,
	}
	for _, id := range playerIDs {
		e.seats[id] = &seat{}
		e.chips[id] = startingBankroll
	}
	return e, nil
}

func (e *Engine) GameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gameOver
}

func (e *Engine) MakeMove(playerID string, raw json.RawMessage) gameengine.MoveResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gameOver {
		return gameengine.Invalid("the game is over")
	}
	s, ok := e.seats[playerID]
	if !ok {
		return gameengine.Invalid("unknown player")
	}

	var tag moveTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return gameengine.Invalid("malformed move payload")
	}

	switch e.phase {
	case PhaseBetting:
		if tag.Type != "bet" {
			return gameengine.Invalid("expected a bet")
		}
		return e.handleBet(playerID, s, raw)
	case PhasePlaying:
		if playerID != e.currentActor() {
			return gameengine.Invalid("not your turn")
		}
		switch tag.Type {
		case "hit":
			return e.handleHit(playerID, s)
		case "stand":
			return e.handleStand(s)
		case "double":
			return e.handleDouble(playerID, s)
		default:
			return gameengine.Invalid("expected hit, stand, or double")
		}
	default:
		return gameengine.Invalid("no moves accepted once the round is resolved")
	}
}

func (e *Engine) currentActor() string {
	if e.actingIndex < 0 || e.actingIndex >= len(e.players) {
		return ""
	}
	return e.players[e.actingIndex]
}

func (e *Engine) handleBet(playerID string, s *seat, raw json.RawMessage) gameengine.MoveResult {
	if s.bet > 0 {
		return gameengine.Invalid("already placed a bet this round")
	}
	var m betMove
	if err := json.Unmarshal(raw, &m); err != nil {
		return gameengine.Invalid("malformed bet")
	}
	if m.Amount <= 0 {
		return gameengine.Invalid("bet must be positive")
	}
	if m.Amount > e.chips[playerID] {
		return gameengine.Invalid("bet exceeds available chips")
	}
	s.bet = m.Amount
	e.chips[playerID] -= m.Amount

	allBet := true
	for _, id := range e.players {
		if e.seats[id].bet == 0 {
			allBet = false
		}
	}
	if allBet {
		e.dealRound()
	}
	return gameengine.Valid(map[string]interface{}{"bet": m.Amount})
}

func (e *Engine) dealRound() {
	for i := 0; i < 2; i++ {
		for _, id := range e.players {
			c, _ := e.deck.Deal()
			e.seats[id].hand = append(e.seats[id].hand, c)
		}
		c, _ := e.deck.Deal()
		e.dealerHand = append(e.dealerHand, c)
	}

	for _, id := range e.players {
		s := e.seats[id]
		if total, _ := handValue(s.hand); total == 21 {
			s.blackjack = true
			s.standing = true
		}
	}

	e.phase = PhasePlaying
	e.actingIndex = -1
	e.advanceToNextActor()
	if e.actingIndex == -1 {
		e.runDealerAndResolve()
	}
}

// advanceToNextActor moves to the next seat that hasn't stood or
// busted; if none remain it leaves actingIndex at -1.
func (e *Engine) advanceToNextActor() {
	for i := e.actingIndex + 1; i < len(e.players); i++ {
		s := e.seats[e.players[i]]
		if !s.standing && !s.busted {
			e.actingIndex = i
			return
		}
	}
	e.actingIndex = -1
}

func (e *Engine) handleHit(playerID string, s *seat) gameengine.MoveResult {
	c, err := e.deck.Deal()
	if err != nil {
		return gameengine.Invalid("shoe exhausted")
	}
	s.hand = append(s.hand, c)
	total, _ := handValue(s.hand)
	if total > 21 {
		s.busted = true
		e.advanceToNextActor()
		if e.actingIndex == -1 {
			e.runDealerAndResolve()
		}
		return gameengine.Valid(map[string]interface{}{"busted": true, "total": total})
	}
	if total == 21 {
		s.standing = true
		e.advanceToNextActor()
		if e.actingIndex == -1 {
			e.runDealerAndResolve()
		}
	}
	return gameengine.Valid(map[string]interface{}{"total": total})
}

func (e *Engine) handleStand(s *seat) gameengine.MoveResult {
	s.standing = true
	e.advanceToNextActor()
	if e.actingIndex == -1 {
		e.runDealerAndResolve()
	}
	return gameengine.Valid(map[string]interface{}{"standing": true})
}

func (e *Engine) handleDouble(playerID string, s *seat) gameengine.MoveResult {
	if len(s.hand) != 2 {
		return gameengine.Invalid("double is only legal on your first decision")
	}
	if s.bet > e.chips[playerID] {
		return gameengine.Invalid("insufficient chips to double")
	}
	e.chips[playerID] -= s.bet
	s.bet *= 2
	s.doubled = true

	c, err := e.deck.Deal()
	if err != nil {
		return gameengine.Invalid("shoe exhausted")
	}
	s.hand = append(s.hand, c)
	s.standing = true
	total, _ := handValue(s.hand)
	if total > 21 {
		s.busted = true
	}
	e.advanceToNextActor()
	if e.actingIndex == -1 {
		e.runDealerAndResolve()
	}
	return gameengine.Valid(map[string]interface{}{"total": total, "busted": s.busted})
}

// runDealerAndResolve plays the dealer's fixed policy (hit until hard
// 17, hit on soft 17) unless every seat already busted, then pays out.
func (e *Engine) runDealerAndResolve() {
	e.phase = PhaseDealer

	anyLive := false
	for _, id := range e.players {
		s := e.seats[id]
		if !s.busted {
			anyLive = true
		}
	}
	if anyLive {
		for {
			total, soft := handValue(e.dealerHand)
			if total > 21 {
				break
			}
			if total > 17 || (total == 17 && !soft) {
				break
			}
			c, err := e.deck.Deal()
			if err != nil {
				break
			}
			e.dealerHand = append(e.dealerHand, c)
		}
	}

	dealerTotal, _ := handValue(e.dealerHand)
	dealerBust := dealerTotal > 21
	dealerBlackjack := dealerTotal == 21 && len(e.dealerHand) == 2

	for _, id := range e.players {
		s := e.seats[id]
		switch {
		case s.busted:
			s.result = "lose"
		case s.blackjack && dealerBlackjack:
			s.result = "push"
			e.chips[id] += s.bet
		case s.blackjack:
			s.result = "win"
			e.chips[id] += s.bet + (s.bet*3)/2
		case dealerBlackjack:
			s.result = "lose"
		case dealerBust:
			s.result = "win"
			e.chips[id] += s.bet * 2
		default:
			playerTotal, _ := handValue(s.hand)
			switch {
			case playerTotal > dealerTotal:
				s.result = "win"
				e.chips[id] += s.bet * 2
			case playerTotal == dealerTotal:
				s.result = "push"
				e.chips[id] += s.bet
			default:
				s.result = "lose"
			}
		}
	}

	e.phase = PhaseDone
	e.gameOver = true
}

// handValue returns the best total not exceeding 21 (aces counted as
// 11 where that doesn't bust, else 1) and whether that total is soft
// (uses an ace as 11).
func handValue(cards []cardtypes.Card) (total int, soft bool) {
	sum := 0
	aces := 0
	for _, c := range cards {
		switch c.Value {
		case cardtypes.Ace:
			sum += 11
			aces++
		case cardtypes.King, cardtypes.Queen, cardtypes.Jack, cardtypes.Ten:
			sum += 10
		default:
			sum += cardtypes.RankValue(c.Value)
		}
	}
	for sum > 21 && aces > 0 {
		sum -= 10
		aces--
	}
	return sum, aces > 0
}

type PublicSeat struct {
	Hand      []cardtypes.Card `json:"hand"`
	Bet       int              `json:"bet"`
	Total     int              `json:"total"`
	Standing  bool             `json:"standing"`
	Busted    bool             `json:"busted"`
	Blackjack bool             `json:"blackjack"`
	Doubled   bool             `json:"doubled"`
	Result    string           `json:"result,omitempty"`
}

type PublicState struct {
	Phase       Phase                 `json:"phase"`
	Seats       map[string]PublicSeat `json:"seats"`
	Chips       map[string]int        `json:"chips"`
	DealerHand  []cardtypes.Card      `json:"dealerHand"`
	CurrentTurn string                `json:"currentTurn,omitempty"`
	GameOver    bool                  `json:"gameOver"`
}

// GetState redacts the dealer's hole card until the dealer has
// finished playing (PhaseDealer/PhaseDone reveal it).
func (e *Engine) GetState(forPlayerID string) interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	seats := make(map[string]PublicSeat, len(e.seats))
	for id, s := range e.seats {
		total, _ := handValue(s.hand)
		seats[id] = PublicSeat{Hand: s.hand, Bet: s.bet, Total: total, Standing: s.standing, Busted: s.busted, Blackjack: s.blackjack, Doubled: s.doubled, Result: s.result}
	}

	dealerHand := append([]cardtypes.Card{}, e.dealerHand...)
	if e.phase == PhaseBetting || e.phase == PhasePlaying {
		for i := 1; i < len(dealerHand); i++ {
			dealerHand[i] = cardtypes.HiddenCard()
		}
	}

	state := PublicState{Phase: e.phase, Seats: seats, Chips: copyChips(e.chips), DealerHand: dealerHand, GameOver: e.gameOver}
	if e.phase == PhasePlaying {
		state.CurrentTurn = e.currentActor()
	}
	return state
}

func copyChips(chips map[string]int) map[string]int {
	out := make(map[string]int, len(chips))
	for k, v := range chips {
		out[k] = v
	}
	return out
}

func (e *Engine) RemovePlayer(playerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gameOver {
		return
	}
	delete(e.seats, playerID)
	delete(e.chips, playerID)
	for i, id := range e.players {
		if id == playerID {
			e.players = append(e.players[:i], e.players[i+1:]...)
			break
		}
	}
	if len(e.players) == 0 {
		e.gameOver = true
		return
	}
	if e.phase == PhasePlaying {
		if e.actingIndex >= len(e.players) {
			e.actingIndex = len(e.players) - 1
		}
		e.advanceToNextActor()
		if e.actingIndex == -1 {
			e.runDealerAndResolve()
		}
	}
}
