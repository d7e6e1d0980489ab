// Package aidriver schedules and generates bot moves for any room
// whose current actor is a bot seat, per spec.md §4.10. A bot driver
// never touches engine internals directly: it calls GetState(botID)
// like a human client would and submits candidate moves through the
// same makeMove path, preserving the engine's single-source-of-truth
// invariant.
package aidriver

import (
	"encoding/json"
	"math/rand"
	"sync"
	"time"
)

// Difficulty mirrors room.Difficulty without importing internal/room,
// keeping this package usable by anything that only knows a string tag.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

const (
	minDelay = 800 * time.Millisecond
	maxDelay = 2000 * time.Millisecond
)

// SubmitFunc attempts move against the live engine and reports whether
// it was accepted.
type SubmitFunc func(move json.RawMessage) bool

// Scheduler holds one pending timer per (roomCode, botID) bot turn, so
// a room closing or a human beating the bot to the punch can cancel
// the scheduled task before it fires (spec.md §5's cancellation rule).
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	rng    *rand.Rand

	// minDelay/maxDelay are set by NewSchedulerWithDelays (the server's
	// bot scheduler and the hub's action clock both use it); left at
	// the zero value by NewScheduler, they select the package defaults.
	minDelay, maxDelay time.Duration
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		timers: map[string]*time.Timer{},
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSchedulerWithDelays is NewScheduler with the base jitter window
// overridden, used to wire config.BotMinDelay/BotMaxDelay in at
// startup instead of the package defaults.
func NewSchedulerWithDelays(min, max time.Duration) *Scheduler {
	s := NewScheduler()
	s.minDelay, s.maxDelay = min, max
	return s
}

func timerKey(roomCode, botID string) string {
	return roomCode + ":" + botID
}

// Schedule delays act by a jittered [0.8s, 2.0s] interval, stretched
// by difficulty (medium adds 30%, hard adds 60%, modeling a bot that
// "thinks" longer the stronger it plays). Any previously scheduled
// task for the same room+bot is replaced.
func (s *Scheduler) Schedule(roomCode, botID string, difficulty Difficulty, act func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lo, hi := minDelay, maxDelay
	if s.minDelay > 0 {
		lo, hi = s.minDelay, s.maxDelay
	}
	delay := lo + time.Duration(s.rng.Int63n(int64(hi-lo+1)))
	switch difficulty {
	case DifficultyMedium:
		delay += delay * 3 / 10
	case DifficultyHard:
		delay += delay * 6 / 10
	}

	key := timerKey(roomCode, botID)
	if existing, ok := s.timers[key]; ok {
		existing.Stop()
	}
	s.timers[key] = time.AfterFunc(delay, act)
}

// Cancel stops a single bot's pending task, if any.
func (s *Scheduler) Cancel(roomCode, botID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := timerKey(roomCode, botID)
	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}
}

// CancelRoom stops every bot task scheduled for roomCode, called when
// a room closes.
func (s *Scheduler) CancelRoom(roomCode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := roomCode + ":"
	for key, t := range s.timers {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			t.Stop()
			delete(s.timers, key)
		}
	}
}

// Act runs getState, asks the game's policy for candidate moves (most
// preferred first), and submits each until one is accepted. Exported
// as a free function (not a Scheduler method) so it can be used
// directly in tests without a timer in the loop.
func Act(gameType string, state interface{}, botID string, seatIndex int, submit SubmitFunc) bool {
	policy, ok := policies[gameType]
	if !ok {
		return false
	}
	for _, candidate := range policy(state, botID, seatIndex) {
		if submit(candidate) {
			return true
		}
	}
	return false
}

type policyFunc func(state interface{}, botID string, seatIndex int) []json.RawMessage

var policies = map[string]policyFunc{
	"tic-tac-toe":  chooseTicTacToe,
	"connect-four": chooseConnectFour,
	"checkers":     chooseCheckers,
	"battleship":   chooseBattleship,
	"war":          chooseWar,
	"mancala":      chooseMancala,
	"farkle":       chooseFarkle,
	"blackjack":    chooseBlackjack,
	"yahtzee":      chooseYahtzee,
	"poker":        choosePoker,
}

func raw(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return b
}

func shuffleInts(rng *rand.Rand, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	rng.Shuffle(n, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

var pkgRand = rand.New(rand.NewSource(1))
