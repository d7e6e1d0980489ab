// Package hub is the top-level event dispatcher: it implements
// transport.Handler, binds wire events to registry/room/challenge
// mutation, and broadcasts the resulting per-viewer state to every
// affected seat. This is the one place that owns connection identity
// (a connection's transport id doubles as its user id) and therefore
// the only place that needs to lock across the registry and room
// index together.
package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/mhurst/piznac-games-sub001/internal/aidriver"
	"github.com/mhurst/piznac-games-sub001/internal/challenge"
	"github.com/mhurst/piznac-games-sub001/internal/room"
	"github.com/mhurst/piznac-games-sub001/internal/transport"
	"github.com/mhurst/piznac-games-sub001/internal/user"
	"github.com/mhurst/piznac-games-sub001/internal/wire"
)

// maxConsecutiveTimeouts is how many turns in a row the action clock
// can play on an idle human's behalf before that seat is dropped,
// mirroring the teacher's 3-timeout sit-out threshold.
const maxConsecutiveTimeouts = 3

// Hub wires the transport boundary to the domain services. It never
// touches an engine's internals directly: every move goes through
// gameengine.Game's exported contract.
type Hub struct {
	mu    sync.Mutex
	conns map[string]transport.Connection

	users      *user.Registry
	rooms      *room.Manager
	challenges *challenge.Service
	bots       *aidriver.Scheduler

	// actionClock reuses the aidriver.Scheduler's timer bookkeeping to
	// play a single move on an idle human's behalf once their turn
	// runs past actionTimeout, same cancel-on-room-code-prefix
	// mechanics the bot scheduler already provides.
	actionClock   *aidriver.Scheduler
	actionTimeout time.Duration

	// userRoom tracks which room code (if any) a user is currently
	// seated in, so OnDisconnect and send-challenge lookups don't need
	// to scan every room.
	userRoom map[string]string
}

func New(users *user.Registry, rooms *room.Manager, challenges *challenge.Service, bots *aidriver.Scheduler) *Hub {
	return NewWithActionTimeout(users, rooms, challenges, bots, 30*time.Second)
}

// NewWithActionTimeout is New with the idle-turn auto-action delay
// overridden, wired from config.ActionTimeout at startup.
func NewWithActionTimeout(users *user.Registry, rooms *room.Manager, challenges *challenge.Service, bots *aidriver.Scheduler, actionTimeout time.Duration) *Hub {
	return &Hub{
		conns:         map[string]transport.Connection{},
		users:         users,
		rooms:         rooms,
		challenges:    challenges,
		bots:          bots,
		actionClock:   aidriver.NewSchedulerWithDelays(actionTimeout, actionTimeout),
		actionTimeout: actionTimeout,
		userRoom:      map[string]string{},
	}
}

func (h *Hub) OnConnect(conn transport.Connection) {
	h.mu.Lock()
	h.conns[conn.ID()] = conn
	h.mu.Unlock()
}

func (h *Hub) OnDisconnect(conn transport.Connection) {
	id := conn.ID()

	h.mu.Lock()
	delete(h.conns, id)
	roomCode := h.userRoom[id]
	delete(h.userRoom, id)
	h.mu.Unlock()

	h.users.Remove(id)
	h.broadcastAll(wire.NewMessage("user-left", wire.UserLeft{ID: id}), id)

	if roomCode != "" {
		h.disconnectFromRoom(id, roomCode)
	}
}

// disconnectFromRoom removes id's seat, closing the room if that
// leaves it below its game's minimum, per spec.md §4.8.
func (h *Hub) disconnectFromRoom(id, roomCode string) {
	r, ok := h.rooms.Get(roomCode)
	if !ok {
		return
	}
	shouldClose := r.Remove(id)
	h.bots.Cancel(roomCode, id)
	h.actionClock.Cancel(roomCode, id)
	if shouldClose {
		h.bots.CancelRoom(roomCode)
		h.actionClock.CancelRoom(roomCode)
		h.rooms.Delete(roomCode)
		h.broadcastToSeats(r, wire.NewMessage("opponent-disconnected", wire.OpponentDisconnected{
			RoomCode: roomCode, PlayerID: id,
		}))
		return
	}
	h.scheduleNextTurn(r)
}

func (h *Hub) OnMessage(conn transport.Connection, msg wire.Message) {
	switch msg.Event {
	case "user-connect":
		h.handleUserConnect(conn, msg.Payload)
	case "create-room":
		h.handleCreateRoom(conn, msg.Payload)
	case "join-room":
		h.handleJoinRoom(conn, msg.Payload)
	case "start-game":
		h.handleStartGame(conn, msg.Payload)
	case "pause-game":
		h.handlePauseGame(conn, msg.Payload)
	case "resume-game":
		h.handleResumeGame(conn, msg.Payload)
	case "make-move":
		h.handleMakeMove(conn, msg.Payload)
	case "request-state":
		h.handleRequestState(conn, msg.Payload)
	case "request-rematch":
		h.handleRequestRematch(conn, msg.Payload)
	case "send-challenge":
		h.handleSendChallenge(conn, msg.Payload)
	case "accept-challenge":
		h.handleAcceptChallenge(conn, msg.Payload)
	case "decline-challenge":
		h.handleDeclineChallenge(conn, msg.Payload)
	}
}

func (h *Hub) handleUserConnect(conn transport.Connection, payload json.RawMessage) {
	var p wire.UserConnect
	if err := json.Unmarshal(payload, &p); err != nil {
		send(conn, "name-error", wire.NameError{Message: "malformed user-connect payload"})
		return
	}
	u, err := h.users.Add(conn.ID(), p.Name)
	if err != nil {
		send(conn, "name-error", wire.NameError{Message: err.Error()})
		return
	}
	send(conn, "name-accepted", wire.NameAccepted{ID: u.ID, Name: u.Name})

	summaries := make([]wire.UserSummary, 0, len(h.users.List()))
	for _, existing := range h.users.List() {
		summaries = append(summaries, toSummary(existing))
	}
	send(conn, "user-list", wire.UserList{Users: summaries})

	h.broadcastAll(wire.NewMessage("user-joined", wire.UserJoined{User: toSummary(u)}), u.ID)
}

func toSummary(u *user.User) wire.UserSummary {
	return wire.UserSummary{ID: u.ID, Name: u.Name, Status: string(u.Status)}
}

func (h *Hub) handleCreateRoom(conn transport.Connection, payload json.RawMessage) {
	var p wire.CreateRoom
	if err := json.Unmarshal(payload, &p); err != nil {
		send(conn, "join-error", wire.JoinError{Message: "malformed create-room payload"})
		return
	}
	id := conn.ID()
	r := h.rooms.Create(p.GameType, id, p.PlayerName)

	h.mu.Lock()
	h.userRoom[id] = r.Code
	h.mu.Unlock()

	h.users.SetStatus(id, user.StatusInGame, p.GameType)
	send(conn, "room-created", wire.RoomCreated{RoomCode: r.Code, MaxPlayers: r.MaxPlayers})
}

func (h *Hub) handleJoinRoom(conn transport.Connection, payload json.RawMessage) {
	var p wire.JoinRoom
	if err := json.Unmarshal(payload, &p); err != nil {
		send(conn, "join-error", wire.JoinError{Message: "malformed join-room payload"})
		return
	}
	id := conn.ID()
	r, ok := h.rooms.Get(p.RoomCode)
	if !ok {
		send(conn, "join-error", wire.JoinError{Message: "room not found"})
		return
	}
	if err := r.Join(id, p.PlayerName); err != nil {
		send(conn, "join-error", wire.JoinError{Message: err.Error()})
		return
	}

	h.mu.Lock()
	h.userRoom[id] = r.Code
	h.mu.Unlock()

	h.users.SetStatus(id, user.StatusInGame, r.GameType)
	h.broadcastToSeats(r, wire.NewMessage("player-joined", wire.PlayerJoined{
		RoomCode: r.Code, PlayerID: id, Name: p.PlayerName,
	}))
}

func (h *Hub) handleStartGame(conn transport.Connection, payload json.RawMessage) {
	var p wire.StartGame
	if err := json.Unmarshal(payload, &p); err != nil {
		send(conn, "invalid-move", wire.InvalidMove{Message: "malformed start-game payload"})
		return
	}
	r, ok := h.rooms.Get(p.RoomCode)
	if !ok {
		send(conn, "invalid-move", wire.InvalidMove{Message: "room not found"})
		return
	}
	if err := r.Start(conn.ID(), p.AICount); err != nil {
		send(conn, "invalid-move", wire.InvalidMove{Message: err.Error()})
		return
	}
	h.broadcastGameStart(r)
	h.scheduleNextTurn(r)
}

func (h *Hub) handlePauseGame(conn transport.Connection, payload json.RawMessage) {
	var p wire.PauseGame
	if err := json.Unmarshal(payload, &p); err != nil {
		return
	}
	r, ok := h.rooms.Get(p.RoomCode)
	if !ok {
		send(conn, "invalid-move", wire.InvalidMove{Message: "room not found"})
		return
	}
	if err := r.Pause(conn.ID()); err != nil {
		send(conn, "invalid-move", wire.InvalidMove{Message: err.Error()})
		return
	}
	h.bots.CancelRoom(r.Code)
	h.actionClock.CancelRoom(r.Code)
	h.broadcastToSeats(r, wire.NewMessage("game-paused", wire.GamePaused{RoomCode: r.Code}))
}

func (h *Hub) handleResumeGame(conn transport.Connection, payload json.RawMessage) {
	var p wire.ResumeGame
	if err := json.Unmarshal(payload, &p); err != nil {
		return
	}
	r, ok := h.rooms.Get(p.RoomCode)
	if !ok {
		send(conn, "invalid-move", wire.InvalidMove{Message: "room not found"})
		return
	}
	if err := r.Resume(conn.ID()); err != nil {
		send(conn, "invalid-move", wire.InvalidMove{Message: err.Error()})
		return
	}
	h.broadcastToSeats(r, wire.NewMessage("game-resumed", wire.GameResumed{RoomCode: r.Code}))
	h.scheduleNextTurn(r)
}

func (h *Hub) broadcastGameStart(r *room.Room) {
	for _, seat := range r.Seats {
		conn, ok := h.connFor(seat.ID)
		if !ok {
			continue
		}
		send(conn, "game-start", wire.GameStart{
			RoomCode: r.Code, GameType: r.GameType, GameState: r.Engine.GetState(seat.ID),
		})
	}
}

func (h *Hub) handleMakeMove(conn transport.Connection, payload json.RawMessage) {
	var p wire.MakeMove
	if err := json.Unmarshal(payload, &p); err != nil {
		send(conn, "invalid-move", wire.InvalidMove{Message: "malformed make-move payload"})
		return
	}
	id := conn.ID()

	// A moveId lets a client that never saw its move-made ack (e.g. the
	// connection blipped mid-round-trip) safely resend without the
	// resend being applied twice.
	if p.MoveID != "" {
		if r, ok := h.rooms.Get(p.RoomCode); ok {
			if r.SeenMoveIDs[p.MoveID] {
				return
			}
			r.SeenMoveIDs[p.MoveID] = true
		}
	}

	if h.applyMove(id, p.RoomCode, p.Move, conn) {
		if r, ok := h.rooms.Get(p.RoomCode); ok {
			r.ConsecutiveTimeouts[id] = 0
		}
	}
}

// applyMove is shared by human moves (which report invalid-move back
// to the sender) and bot/action-clock moves (sender is nil; failures
// are silent, same as a human client never retrying a rejected
// speculative move).
func (h *Hub) applyMove(playerID, roomCode string, move json.RawMessage, sender transport.Connection) bool {
	r, ok := h.rooms.Get(roomCode)
	if !ok || r.Engine == nil {
		if sender != nil {
			send(sender, "invalid-move", wire.InvalidMove{Message: "no game in progress"})
		}
		return false
	}
	if r.Paused {
		if sender != nil {
			send(sender, "invalid-move", wire.InvalidMove{Message: "game is paused"})
		}
		return false
	}
	result := r.Engine.MakeMove(playerID, move)
	if !result.Valid {
		if sender != nil {
			send(sender, "invalid-move", wire.InvalidMove{Message: result.Message})
		}
		return false
	}

	var parsedMove interface{}
	json.Unmarshal(move, &parsedMove)
	for _, seat := range r.Seats {
		c, ok := h.connFor(seat.ID)
		if !ok {
			continue
		}
		send(c, "move-made", wire.MoveMade{
			GameState: r.Engine.GetState(seat.ID), Move: parsedMove, Result: result.Result,
		})
	}

	if r.Engine.GameOver() {
		h.bots.CancelRoom(roomCode)
		h.actionClock.CancelRoom(roomCode)
		for _, seat := range r.Seats {
			h.users.SetStatus(seat.ID, user.StatusAvailable, "")
			if c, ok := h.connFor(seat.ID); ok {
				send(c, "game-over", wire.GameOver{RoomCode: roomCode, Result: result.Result})
			}
		}
		return true
	}

	h.scheduleNextTurn(r)
	return true
}

func (h *Hub) handleRequestState(conn transport.Connection, payload json.RawMessage) {
	var p wire.RequestState
	if err := json.Unmarshal(payload, &p); err != nil {
		return
	}
	r, ok := h.rooms.Get(p.RoomCode)
	if !ok || r.Engine == nil {
		send(conn, "invalid-move", wire.InvalidMove{Message: "no game in progress"})
		return
	}
	send(conn, "state-response", wire.StateResponse{
		Players: r.Seats, GameState: r.Engine.GetState(conn.ID()),
	})
}

func (h *Hub) handleRequestRematch(conn transport.Connection, payload json.RawMessage) {
	var p wire.RequestRematch
	if err := json.Unmarshal(payload, &p); err != nil {
		return
	}
	r, ok := h.rooms.Get(p.RoomCode)
	if !ok {
		send(conn, "invalid-move", wire.InvalidMove{Message: "room not found"})
		return
	}
	id := conn.ID()
	h.broadcastToSeats(r, wire.NewMessage("rematch-requested", wire.RematchRequested{PlayerID: id}))

	restarted, err := r.RequestRematch(id)
	if err != nil {
		send(conn, "invalid-move", wire.InvalidMove{Message: err.Error()})
		return
	}
	if restarted {
		h.broadcastGameStart(r)
		h.scheduleNextTurn(r)
	}
}

func (h *Hub) handleSendChallenge(conn transport.Connection, payload json.RawMessage) {
	var p wire.SendChallenge
	if err := json.Unmarshal(payload, &p); err != nil {
		return
	}
	fromID := conn.ID()
	from, ok := h.users.Get(fromID)
	if !ok {
		return
	}
	id := h.challenges.Send(fromID, p.ToID, p.GameType)
	if target, ok := h.connFor(p.ToID); ok {
		send(target, "challenge-received", wire.ChallengeReceived{
			ChallengeID: id, FromID: fromID, FromName: from.Name, GameType: p.GameType,
		})
	}
}

func (h *Hub) handleAcceptChallenge(conn transport.Connection, payload json.RawMessage) {
	var p wire.ChallengeIDPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return
	}
	c, err := h.challenges.Accept(p.ChallengeID)
	if err != nil {
		return
	}
	fromName, toName := "", ""
	if u, ok := h.users.Get(c.FromID); ok {
		fromName = u.Name
	}
	if u, ok := h.users.Get(c.ToID); ok {
		toName = u.Name
	}

	r := h.rooms.Create(c.GameType, c.FromID, fromName)
	h.mu.Lock()
	h.userRoom[c.FromID] = r.Code
	h.mu.Unlock()
	if err := r.Join(c.ToID, toName); err != nil {
		return
	}
	h.mu.Lock()
	h.userRoom[c.ToID] = r.Code
	h.mu.Unlock()

	for _, id := range []string{c.FromID, c.ToID} {
		h.users.SetStatus(id, user.StatusInGame, c.GameType)
		if conn, ok := h.connFor(id); ok {
			send(conn, "challenge-accepted", wire.ChallengeAccepted{ChallengeID: c.ID, RoomCode: r.Code})
		}
	}

	if r.LobbyMode {
		h.broadcastToSeats(r, wire.NewMessage("game-lobby-ready", wire.GameLobbyReady{RoomCode: r.Code}))
		return
	}
	if err := r.Start(r.Host, 0); err == nil {
		h.broadcastGameStart(r)
		h.scheduleNextTurn(r)
	}
}

func (h *Hub) handleDeclineChallenge(conn transport.Connection, payload json.RawMessage) {
	var p wire.ChallengeIDPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return
	}
	c, err := h.challenges.Decline(p.ChallengeID)
	if err != nil {
		return
	}
	if target, ok := h.connFor(c.FromID); ok {
		send(target, "challenge-declined", wire.ChallengeDeclined{ChallengeID: c.ID})
	}
}

// scheduleNextTurn inspects the engine's current actor (a
// game-specific notion it infers generically from GetState's
// CurrentTurn/CurrentActorID-shaped field via JSON, since engines
// don't share a common "whose turn" accessor) and arms whichever timer
// fits that seat: the bot scheduler for a bot seat, or the action
// clock for a human seat whose turn might otherwise idle forever.
func (h *Hub) scheduleNextTurn(r *room.Room) {
	h.bots.CancelRoom(r.Code)
	h.actionClock.CancelRoom(r.Code)

	if r.Engine == nil || r.Engine.GameOver() || r.Paused {
		return
	}
	actorID, ok := currentActor(r.Engine.GetState(""))
	if !ok {
		return
	}
	var actorSeat *room.Seat
	seatIndex := -1
	for i := range r.Seats {
		if r.Seats[i].ID == actorID {
			actorSeat = &r.Seats[i]
			seatIndex = i
			break
		}
	}
	if actorSeat == nil {
		return
	}

	code, gameType := r.Code, r.GameType
	if actorSeat.Kind == room.KindBot {
		difficulty := aidriver.Difficulty(actorSeat.Difficulty)
		h.bots.Schedule(code, actorID, difficulty, func() {
			rm, ok := h.rooms.Get(code)
			if !ok || rm.Engine == nil || rm.Engine.GameOver() || rm.Paused {
				return
			}
			state := rm.Engine.GetState(actorID)
			aidriver.Act(gameType, state, actorID, seatIndex, func(move json.RawMessage) bool {
				return h.applyMove(actorID, code, move, nil)
			})
		})
		return
	}

	h.actionClock.Schedule(code, actorID, aidriver.DifficultyEasy, func() {
		h.handleActionTimeout(code, gameType, actorID, seatIndex)
	})
}

// handleActionTimeout fires once actionTimeout elapses without the
// current human actor submitting a move. It plays a move on their
// behalf using the same AI policies the bot driver uses; a successful
// move already reschedules the next turn through applyMove, so this
// only has to handle the maxConsecutiveTimeouts sit-out on top of that.
func (h *Hub) handleActionTimeout(code, gameType, actorID string, seatIndex int) {
	rm, ok := h.rooms.Get(code)
	if !ok || rm.Engine == nil || rm.Engine.GameOver() || rm.Paused {
		return
	}
	// The actor may have changed since this timer was armed (another
	// seat's action-clock fired first and advanced the turn); only act
	// if it's still actorID's turn.
	if current, ok := currentActor(rm.Engine.GetState("")); !ok || current != actorID {
		return
	}

	state := rm.Engine.GetState(actorID)
	acted := aidriver.Act(gameType, state, actorID, seatIndex, func(move json.RawMessage) bool {
		return h.applyMove(actorID, code, move, nil)
	})
	if !acted {
		return
	}

	rm.ConsecutiveTimeouts[actorID]++
	removed := rm.ConsecutiveTimeouts[actorID] >= maxConsecutiveTimeouts
	h.broadcastToSeats(rm, wire.NewMessage("seat-timed-out", wire.SeatTimedOut{
		RoomCode: code, PlayerID: actorID, Removed: removed,
	}))

	if removed {
		h.disconnectFromRoom(actorID, code)
	}
}

// currentActor extracts whichever of the engines' per-state "whose
// turn" fields is present by round-tripping through JSON, since each
// engine names it differently (currentActorId for Poker,
// currentPlayerId for the dice games, currentTurn for the boards).
func currentActor(state interface{}) (string, bool) {
	b, err := json.Marshal(state)
	if err != nil {
		return "", false
	}
	var probe struct {
		CurrentActorID  string `json:"currentActorId"`
		CurrentPlayerID string `json:"currentPlayerId"`
		CurrentTurn     string `json:"currentTurn"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return "", false
	}
	for _, candidate := range []string{probe.CurrentActorID, probe.CurrentPlayerID, probe.CurrentTurn} {
		if candidate != "" {
			return candidate, true
		}
	}
	return "", false
}

func (h *Hub) connFor(id string) (transport.Connection, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.conns[id]
	return c, ok
}

func (h *Hub) broadcastToSeats(r *room.Room, msg wire.Message) {
	for _, seat := range r.Seats {
		if c, ok := h.connFor(seat.ID); ok {
			c.Send(msg)
		}
	}
}

func (h *Hub) broadcastAll(msg wire.Message, exceptID string) {
	h.mu.Lock()
	conns := make([]transport.Connection, 0, len(h.conns))
	for id, c := range h.conns {
		if id != exceptID {
			conns = append(conns, c)
		}
	}
	h.mu.Unlock()
	for _, c := range conns {
		c.Send(msg)
	}
}

func send(conn transport.Connection, event string, payload interface{}) {
	conn.Send(wire.NewMessage(event, payload))
}
