package aidriver

import (
	"encoding/json"

	"github.com/mhurst/piznac-games-sub001/internal/gameengine/battleship"
	"github.com/mhurst/piznac-games-sub001/internal/gameengine/blackjack"
	"github.com/mhurst/piznac-games-sub001/internal/gameengine/checkers"
	"github.com/mhurst/piznac-games-sub001/internal/gameengine/connectfour"
	"github.com/mhurst/piznac-games-sub001/internal/gameengine/farkle"
	"github.com/mhurst/piznac-games-sub001/internal/gameengine/mancala"
	"github.com/mhurst/piznac-games-sub001/internal/gameengine/poker"
	"github.com/mhurst/piznac-games-sub001/internal/gameengine/tictactoe"
	"github.com/mhurst/piznac-games-sub001/internal/gameengine/yahtzee"
)

func chooseTicTacToe(state interface{}, botID string, seatIndex int) []json.RawMessage {
	st, ok := state.(tictactoe.PublicState)
	if !ok {
		return nil
	}
	var out []json.RawMessage
	for _, i := range shuffleInts(pkgRand, 9) {
		row, col := i/3, i%3
		if st.Board[row][col] == 0 {
			out = append(out, raw(map[string]interface{}{"type": "place", "row": row, "col": col}))
		}
	}
	return out
}

func chooseConnectFour(state interface{}, botID string, seatIndex int) []json.RawMessage {
	st, ok := state.(connectfour.PublicState)
	if !ok {
		return nil
	}
	var out []json.RawMessage
	for _, col := range shuffleInts(pkgRand, 7) {
		if st.Board[0][col] == 0 {
			out = append(out, raw(map[string]interface{}{"type": "drop", "column": col}))
		}
	}
	return out
}

// chooseCheckers brute-forces every own-piece diagonal candidate
// (2-step jumps first, since captures are mandatory) and lets the
// engine's own rules reject anything illegal; it never re-derives the
// capture/promotion logic itself.
func chooseCheckers(state interface{}, botID string, seatIndex int) []json.RawMessage {
	st, ok := state.(checkers.PublicState)
	if !ok {
		return nil
	}
	ownKinds := map[int]bool{1: true, 2: true}
	if seatIndex == 1 {
		ownKinds = map[int]bool{3: true, 4: true}
	}
	dirs := [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	var jumps, steps []json.RawMessage
	cells := shuffleInts(pkgRand, 64)
	for _, c := range cells {
		r, col := c/8, c%8
		if !ownKinds[st.Board[r][col]] {
			continue
		}
		for _, d := range dirs {
			toR, toC := r+d[0], col+d[1]
			if toR >= 0 && toR < 8 && toC >= 0 && toC < 8 {
				steps = append(steps, raw(map[string]interface{}{"type": "move", "fromRow": r, "fromCol": col, "toRow": toR, "toCol": toC}))
			}
			jR, jC := r+2*d[0], col+2*d[1]
			if jR >= 0 && jR < 8 && jC >= 0 && jC < 8 {
				jumps = append(jumps, raw(map[string]interface{}{"type": "move", "fromRow": r, "fromCol": col, "toRow": jR, "toCol": jC}))
			}
		}
	}
	return append(jumps, steps...)
}

func chooseBattleship(state interface{}, botID string, seatIndex int) []json.RawMessage {
	st, ok := state.(battleship.PublicState)
	if !ok {
		return nil
	}
	if st.Phase == "setup" {
		placed := 0
		for _, row := range st.YourGrid {
			for _, cell := range row {
				if cell.HasShip {
					placed++
				}
			}
		}
		sizes := []int{5, 4, 3, 3, 2}
		alreadyPlaced := 0
		for _, s := range sizes {
			if placed >= s {
				placed -= s
				alreadyPlaced++
			}
		}
		if alreadyPlaced >= len(sizes) {
			return []json.RawMessage{raw(map[string]interface{}{"type": "confirm-setup"})}
		}
		size := sizes[alreadyPlaced]
		var out []json.RawMessage
		for _, c := range shuffleInts(pkgRand, 100) {
			row, col := c/10, c%10
			out = append(out, raw(map[string]interface{}{"type": "place-ship", "row": row, "col": col, "size": size, "horizontal": c%2 == 0}))
		}
		return out
	}
	var out []json.RawMessage
	for _, c := range shuffleInts(pkgRand, 100) {
		row, col := c/10, c%10
		if !st.TrackingGrid[row][col].Hit {
			out = append(out, raw(map[string]interface{}{"type": "fire", "row": row, "col": col}))
		}
	}
	return out
}

func chooseWar(state interface{}, botID string, seatIndex int) []json.RawMessage {
	return []json.RawMessage{raw(map[string]interface{}{"type": "flip"})}
}

func chooseMancala(state interface{}, botID string, seatIndex int) []json.RawMessage {
	st, ok := state.(mancala.PublicState)
	if !ok {
		return nil
	}
	base := 0
	if seatIndex == 1 {
		base = 7
	}
	var out []json.RawMessage
	for _, pit := range shuffleInts(pkgRand, 6) {
		if st.Board[base+pit] > 0 {
			out = append(out, raw(map[string]interface{}{"type": "sow", "pit": pit}))
		}
	}
	return out
}

// chooseFarkle has no access to the unexported awaitingKeep flag, so
// it always offers roll as a fallback after its banking candidates;
// the engine rejects whichever of these doesn't fit its current state.
func chooseFarkle(state interface{}, botID string, seatIndex int) []json.RawMessage {
	st, ok := state.(farkle.PublicState)
	if !ok {
		return nil
	}
	var scoring []int
	for i, v := range st.Dice {
		kept := false
		for _, k := range st.KeptIndices {
			if k == i {
				kept = true
			}
		}
		if !kept && (v == 1 || v == 5) {
			scoring = append(scoring, i)
		}
	}
	var out []json.RawMessage
	if len(scoring) > 0 {
		if st.TurnScore >= 300 {
			out = append(out, raw(map[string]interface{}{"type": "keep-and-bank", "indices": scoring}))
		}
		out = append(out, raw(map[string]interface{}{"type": "keep-and-roll", "indices": scoring}))
		out = append(out, raw(map[string]interface{}{"type": "keep", "indices": scoring}))
	}
	if st.TurnScore > 0 {
		out = append(out, raw(map[string]interface{}{"type": "bank"}))
	}
	out = append(out, raw(map[string]interface{}{"type": "roll"}))
	return out
}

func chooseBlackjack(state interface{}, botID string, seatIndex int) []json.RawMessage {
	st, ok := state.(blackjack.PublicState)
	if !ok {
		return nil
	}
	if st.Phase == "betting" {
		return []json.RawMessage{raw(map[string]interface{}{"type": "bet", "amount": 50})}
	}
	if st.CurrentTurn != botID {
		return nil
	}
	mySeat, ok := st.Seats[botID]
	if !ok {
		return nil
	}
	if mySeat.Total < 17 {
		return []json.RawMessage{raw(map[string]interface{}{"type": "hit"}), raw(map[string]interface{}{"type": "stand"})}
	}
	return []json.RawMessage{raw(map[string]interface{}{"type": "stand"}), raw(map[string]interface{}{"type": "hit"})}
}

// chooseYahtzee rolls all five dice first; while rolls remain it holds
// every die showing the most common value and rerolls the rest, with
// category selections as fallback candidates; once out of rolls it
// offers every unfilled category in a fixed preference order
// (Yahtzee, straights, full house, of-a-kinds, high uppers, chance,
// low uppers), without scoring the dice.
func chooseYahtzee(state interface{}, botID string, seatIndex int) []json.RawMessage {
	st, ok := state.(yahtzee.PublicState)
	if !ok {
		return nil
	}
	if st.RollsTaken == 0 {
		return []json.RawMessage{raw(map[string]interface{}{"type": "roll", "hold": []int{}})}
	}
	counts := map[int]int{}
	for _, v := range st.Dice {
		counts[v]++
	}
	bestVal, bestCount := 0, 0
	for v, c := range counts {
		if c > bestCount {
			bestVal, bestCount = v, c
		}
	}
	if st.RollsTaken < 3 {
		var hold []int
		for i, v := range st.Dice {
			if v == bestVal {
				hold = append(hold, i)
			}
		}
		out := []json.RawMessage{raw(map[string]interface{}{"type": "roll", "hold": hold})}
		return append(out, bestYahtzeeCategory(st, botID)...)
	}
	return bestYahtzeeCategory(st, botID)
}

func bestYahtzeeCategory(st yahtzee.PublicState, botID string) []json.RawMessage {
	card, ok := st.Scorecards[botID]
	if !ok {
		return nil
	}
	preference := []yahtzee.Category{
		yahtzee.Yahtzee, yahtzee.LargeStraight, yahtzee.SmallStraight, yahtzee.FullHouse,
		yahtzee.FourOfAKind, yahtzee.ThreeOfAKind, yahtzee.Sixes, yahtzee.Fives, yahtzee.Fours,
		yahtzee.Chance, yahtzee.Threes, yahtzee.Twos, yahtzee.Ones,
	}
	var out []json.RawMessage
	for _, cat := range preference {
		if !card.Filled[cat] {
			out = append(out, raw(map[string]interface{}{"type": "select", "category": string(cat)}))
		}
	}
	return out
}

// choosePoker checks when it's free to act, except for a roughly 15%
// chance of a minimum raise (the bluff-frequency target applied as a
// raise chance). Facing a bet, it calls when the price is at most 40%
// of pot-plus-call; above that it folds, or about 15% of the time
// raises the minimum instead.
func choosePoker(state interface{}, botID string, seatIndex int) []json.RawMessage {
	st, ok := state.(poker.PublicState)
	if !ok {
		return nil
	}
	if st.CurrentActorID != botID {
		return nil
	}
	var me *poker.PublicPlayerView
	for i := range st.Players {
		if st.Players[i].ID == botID {
			me = &st.Players[i]
		}
	}
	if me == nil {
		return nil
	}
	toCall := st.CurrentBet - me.Bet
	if toCall <= 0 {
		if pkgRand.Float64() < 0.15 {
			return []json.RawMessage{
				raw(map[string]interface{}{"type": "raise", "amount": st.MinRaise}),
				raw(map[string]interface{}{"type": "check"}),
			}
		}
		return []json.RawMessage{raw(map[string]interface{}{"type": "check"})}
	}
	potOdds := float64(toCall) / float64(st.Pot.Total()+toCall)
	if potOdds > 0.4 {
		if pkgRand.Float64() < 0.15 {
			return []json.RawMessage{
				raw(map[string]interface{}{"type": "raise", "amount": st.MinRaise}),
				raw(map[string]interface{}{"type": "call"}),
			}
		}
		return []json.RawMessage{raw(map[string]interface{}{"type": "fold"}), raw(map[string]interface{}{"type": "call"})}
	}
	return []json.RawMessage{raw(map[string]interface{}{"type": "call"}), raw(map[string]interface{}{"type": "fold"})}
}
