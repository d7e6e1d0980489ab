// Package war implements the two-player flip-and-compare card game,
// including recursive multi-card "wars" on ties.
package war

import (
	"encoding/json"
	"sync"

	"github.com/mhurst/piznac-games-sub001/internal/cardtypes"
	"github.com/mhurst/piznac-games-sub001/internal/gameengine"
)

func init() {
	gameengine.Register("war", func(playerIDs []string) (gameengine.Game, error) {
		return NewEngine(playerIDs)
	})
}

// Engine holds each player's deck as an ordered queue (index 0 = top
// of deck, drawn next) plus every card staked in the ongoing war pile,
// face-up flips and face-down burns alike.
type Engine struct {
	mu sync.Mutex

	players []string
	decks   map[string][]cardtypes.Card
	warPile []cardtypes.Card

	lastFlip map[string]cardtypes.Card

	gameOver bool
	winnerID string
}

func NewEngine(playerIDs []string) (*Engine, error) {
	if len(playerIDs) != 2 {
		return nil, gameengine.ErrWrongPlayerCount("war", 2, len(playerIDs))
	}
	deck := cardtypes.NewDeck(false)
	e := &Engine{players: append([]string{}, playerIDs...), decks: map[string][]cardtypes.Card{}, lastFlip: map[string]cardtypes.Card{}}
	for _, id := range playerIDs {
		half, _ := deck.DealMultiple(26)
		e.decks[id] = half
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
	if _, ok := e.decks[playerID]; !ok {
		return gameengine.Invalid("unknown player")
	}
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil || tag.Type != "flip" {
		return gameengine.Invalid("expected a flip move")
	}
	if _, already := e.lastFlip[playerID]; already {
		return gameengine.Invalid("already flipped this round, waiting on the other player")
	}

	if len(e.decks[playerID]) == 0 {
		return gameengine.Invalid("no cards left to flip")
	}
	card := e.decks[playerID][0]
	e.decks[playerID] = e.decks[playerID][1:]
	e.lastFlip[playerID] = card
	e.warPile = append(e.warPile, card)

	if len(e.lastFlip) < len(e.players) {
		return gameengine.Valid(map[string]interface{}{"waiting": true})
	}
	return e.resolveRound()
}

// resolveRound compares both flips; on a tie it stages a recursive
// war (3 face-down + 1 face-up per side, claimed by whoever ends up
// winning the eventual face-up comparison) by requiring both players
// to flip again, with all prior cards staying in the war pile.
func (e *Engine) resolveRound() gameengine.MoveResult {
	a, b := e.players[0], e.players[1]
	av, bv := cardtypes.RankValue(e.lastFlip[a].Value), cardtypes.RankValue(e.lastFlip[b].Value)

	if av == bv {
		for _, id := range e.players {
			if len(e.decks[id]) < 4 {
				other := e.opponentOf(id)
				e.gameOver = true
				e.winnerID = other
				return gameengine.Valid(map[string]interface{}{"war": true, "gameOver": true, "winner": other, "reason": "insufficient cards for war"})
			}
		}
		for _, id := range e.players {
			burn := e.decks[id][:3]
			e.warPile = append(e.warPile, burn...)
			e.decks[id] = e.decks[id][3:]
		}
		e.lastFlip = map[string]cardtypes.Card{}
		return gameengine.Valid(map[string]interface{}{"war": true})
	}

	winner := a
	if bv > av {
		winner = b
	}
	e.decks[winner] = append(e.decks[winner], e.warPile...)
	e.warPile = nil
	e.lastFlip = map[string]cardtypes.Card{}

	if len(e.decks[winner]) == 52 || len(e.decks[e.opponentOf(winner)]) == 0 {
		e.gameOver = true
		e.winnerID = winner
	}
	return gameengine.Valid(map[string]interface{}{"roundWinner": winner})
}

func (e *Engine) opponentOf(playerID string) string {
	for _, id := range e.players {
		if id != playerID {
			return id
		}
	}
	return ""
}

type PublicState struct {
	DeckCounts map[string]int            `json:"deckCounts"`
	WarPileSize int                       `json:"warPileSize"`
	LastFlips  map[string]cardtypes.Card  `json:"lastFlips,omitempty"`
	GameOver   bool                       `json:"gameOver"`
	WinnerID   string                     `json:"winnerId,omitempty"`
}

func (e *Engine) GetState(forPlayerID string) interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	counts := map[string]int{}
	for id, deck := range e.decks {
		counts[id] = len(deck)
	}
	return PublicState{DeckCounts: counts, WarPileSize: len(e.warPile), LastFlips: copyFlips(e.lastFlip), GameOver: e.gameOver, WinnerID: e.winnerID}
}

func copyFlips(flips map[string]cardtypes.Card) map[string]cardtypes.Card {
	out := make(map[string]cardtypes.Card, len(flips))
	for k, v := range flips {
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
	if other := e.opponentOf(playerID); other != "" {
		e.gameOver = true
		e.winnerID = other
	}
}
