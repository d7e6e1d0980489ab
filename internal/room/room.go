// Package room owns the lifecycle of a single match: seat list, host,
// rematch votes, and the concrete game engine instance, plus the
// process-wide index of live rooms keyed by their short join code.
package room

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/mhurst/piznac-games-sub001/internal/gameengine"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const codeLength = 4

// Kind distinguishes a human-held seat from a bot-held one.
type Kind string

const (
	KindHuman Kind = "human"
	KindBot   Kind = "bot"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Seat is a player slot inside a Room, held by a human user or a bot.
type Seat struct {
	ID         string
	Name       string
	Kind       Kind
	Difficulty Difficulty
}

// Room wraps one engine instance, its ordered seat list, and the
// rematch-vote bookkeeping spec.md §4.3/§4.8 describe. All mutation
// goes through Manager's per-room lock; a Room never locks itself.
type Room struct {
	Code         string
	GameType     string
	Host         string
	Seats        []Seat
	MaxPlayers   int
	LobbyMode    bool
	Engine       gameengine.Game
	RematchVotes map[string]bool
	Closed       bool
	Paused       bool

	// SeenMoveIDs dedups client-retried make-move submissions that
	// carry the same moveId, so a client that times out waiting for a
	// move-made ack can safely resend.
	SeenMoveIDs map[string]bool

	// ConsecutiveTimeouts counts how many times in a row the Hub's
	// action clock had to move on a seat's behalf; a seat that idles
	// out 3 times running is dropped (see Hub.handleActionTimeout).
	ConsecutiveTimeouts map[string]int
}

func (r *Room) seatIndex(id string) int {
	for i, s := range r.Seats {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (r *Room) HasSeat(id string) bool {
	return r.seatIndex(id) >= 0
}

func (r *Room) playerIDs() []string {
	ids := make([]string, len(r.Seats))
	for i, s := range r.Seats {
		ids[i] = s.ID
	}
	return ids
}

// nonBotSeats returns the seat ids of every human-held seat, used both
// to gate rematch unanimity and to detect the "down to one human"
// close condition.
func (r *Room) nonBotSeats() []string {
	var out []string
	for _, s := range r.Seats {
		if s.Kind == KindHuman {
			out = append(out, s.ID)
		}
	}
	return out
}

// Manager is the process-wide room index: one read-write lock guarding
// the code -> Room map, mirroring the teacher's GameBridge.Tables
// shape with the gorm/DB plumbing stripped out.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewManager() *Manager {
	return &Manager{rooms: map[string]*Room{}}
}

// Create allocates a room with a fresh, collision-free code and a
// single host seat.
func (m *Manager) Create(gameType, hostID, hostName string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	code := m.freshCodeLocked()
	r := &Room{
		Code:                code,
		GameType:            gameType,
		Host:                hostID,
		MaxPlayers:          gameengine.MaxPlayers(gameType),
		LobbyMode:           gameengine.LobbyMode(gameType),
		Seats:               []Seat{{ID: hostID, Name: hostName, Kind: KindHuman}},
		RematchVotes:        map[string]bool{},
		SeenMoveIDs:         map[string]bool{},
		ConsecutiveTimeouts: map[string]int{},
	}
	m.rooms[code] = r
	return r
}

func (m *Manager) freshCodeLocked() string {
	for {
		code := randomCode()
		if _, exists := m.rooms[code]; !exists {
			return code
		}
	}
}

func randomCode() string {
	buf := make([]byte, codeLength)
	rand.Read(buf)
	out := make([]byte, codeLength)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out)
}

func (m *Manager) Get(code string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[code]
	return r, ok
}

func (m *Manager) Delete(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, code)
}

var (
	ErrRoomClosed   = fmt.Errorf("room is closed")
	ErrRoomFull     = fmt.Errorf("room is full")
	ErrNotHost      = fmt.Errorf("only the host may start the game")
	ErrInProgress   = fmt.Errorf("game already in progress")
	ErrNotPlaying   = fmt.Errorf("no game in progress")
	ErrAlreadyPaused = fmt.Errorf("game is already paused")
	ErrNotPaused     = fmt.Errorf("game is not paused")
)

// Pause suspends move acceptance, for a host whose connection blips
// without dropping the whole room.
func (r *Room) Pause(requesterID string) error {
	if requesterID != r.Host {
		return ErrNotHost
	}
	if r.Engine == nil {
		return ErrNotPlaying
	}
	if r.Paused {
		return ErrAlreadyPaused
	}
	r.Paused = true
	return nil
}

func (r *Room) Resume(requesterID string) error {
	if requesterID != r.Host {
		return ErrNotHost
	}
	if !r.Paused {
		return ErrNotPaused
	}
	r.Paused = false
	return nil
}

// Join appends a seat to r if it isn't closed or full. Caller holds no
// lock; room-local mutation is serialized by the Hub's per-room
// dispatch, per spec.md §5.
func (r *Room) Join(id, name string) error {
	if r.Closed {
		return ErrRoomClosed
	}
	if len(r.Seats) >= r.MaxPlayers {
		return ErrRoomFull
	}
	r.Seats = append(r.Seats, Seat{ID: id, Name: name, Kind: KindHuman})
	return nil
}

// Start instantiates the engine from the current ordered seat list,
// appending aiCount bot seats first when the room is lobby-mode.
func (r *Room) Start(requesterID string, aiCount int) error {
	if requesterID != r.Host {
		return ErrNotHost
	}
	if r.Engine != nil {
		return ErrInProgress
	}
	if r.LobbyMode {
		for i := 0; i < aiCount && len(r.Seats) < r.MaxPlayers; i++ {
			botID := fmt.Sprintf("bot-%s-%d", r.Code, len(r.Seats))
			r.Seats = append(r.Seats, Seat{
				ID: botID, Name: fmt.Sprintf("Bot %d", len(r.Seats)+1),
				Kind: KindBot, Difficulty: DifficultyMedium,
			})
		}
	}
	eng, err := gameengine.New(r.GameType, r.playerIDs())
	if err != nil {
		return err
	}
	r.Engine = eng
	return nil
}

// RequestRematch records requesterID's vote and, once every non-bot
// seat has voted, resets the engine from the same seat list and
// clears the vote set for the next round.
func (r *Room) RequestRematch(requesterID string) (restarted bool, err error) {
	if !r.HasSeat(requesterID) {
		return false, fmt.Errorf("%q is not seated in this room", requesterID)
	}
	r.RematchVotes[requesterID] = true
	for _, id := range r.nonBotSeats() {
		if !r.RematchVotes[id] {
			return false, nil
		}
	}
	eng, err := gameengine.New(r.GameType, r.playerIDs())
	if err != nil {
		return false, err
	}
	r.Engine = eng
	r.RematchVotes = map[string]bool{}
	return true, nil
}

// Remove drops playerID's seat, forwarding to the engine if one is
// running, and reports whether the room should close: it closes once
// fewer than two non-bot seats remain (no non-bot seat, for a
// lobby-mode room), per spec.md §4.8.
func (r *Room) Remove(playerID string) (shouldClose bool) {
	idx := r.seatIndex(playerID)
	if idx < 0 {
		return false
	}
	if r.Engine != nil {
		r.Engine.RemovePlayer(playerID)
	}
	r.Seats = append(r.Seats[:idx], r.Seats[idx+1:]...)
	delete(r.RematchVotes, playerID)
	delete(r.ConsecutiveTimeouts, playerID)

	if r.Closed {
		return false
	}
	// Lobby-mode rooms (Poker) can carry on on bots alone once started;
	// everyone else needs at least 2 humans to keep playing.
	minHumans := 2
	if r.LobbyMode {
		minHumans = 1
	}
	if len(r.nonBotSeats()) < minHumans {
		r.Closed = true
		return true
	}
	return false
}
