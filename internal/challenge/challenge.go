// Package challenge routes 1:1 game invitations between users, with a
// bounded time-to-live.
package challenge

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
	StatusExpired  Status = "expired"
)

type Challenge struct {
	ID       string
	FromID   string
	ToID     string
	GameType string
	Status   Status
	ExpireAt time.Time
}

// Service tracks outstanding challenges and expires them after ttl.
// expiry is evaluated lazily (on Get/Accept/Decline, and on an explicit
// Sweep), matching the in-memory, no-background-DB-job style of the
// rest of the server.
type Service struct {
	mu         sync.Mutex
	ttl        time.Duration
	challenges map[string]*Challenge
	now        func() time.Time
}

func NewService(ttl time.Duration) *Service {
	return &Service{ttl: ttl, challenges: map[string]*Challenge{}, now: time.Now}
}

// Send creates a pending challenge from fromID to toID and returns its id.
func (s *Service) Send(fromID, toID, gameType string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.challenges[id] = &Challenge{
		ID: id, FromID: fromID, ToID: toID, GameType: gameType,
		Status: StatusPending, ExpireAt: s.now().Add(s.ttl),
	}
	return id
}

// Get returns a non-expired challenge by id, expiring it in place (and
// returning not-found) if its TTL has lapsed.
func (s *Service) Get(id string) (*Challenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(id)
}

func (s *Service) getLocked(id string) (*Challenge, bool) {
	c, ok := s.challenges[id]
	if !ok {
		return nil, false
	}
	if c.Status == StatusPending && s.now().After(c.ExpireAt) {
		c.Status = StatusExpired
		return nil, false
	}
	return c, true
}

// Accept marks a pending challenge accepted. Returns an error if it
// doesn't exist, isn't pending, or has expired.
func (s *Service) Accept(id string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.getLocked(id)
	if !ok || c.Status != StatusPending {
		return nil, fmt.Errorf("challenge %q is not pending", id)
	}
	c.Status = StatusAccepted
	return c, nil
}

// Decline marks a pending challenge declined.
func (s *Service) Decline(id string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.getLocked(id)
	if !ok || c.Status != StatusPending {
		return nil, fmt.Errorf("challenge %q is not pending", id)
	}
	c.Status = StatusDeclined
	return c, nil
}

// Sweep removes every challenge past its TTL, regardless of status
// transitions already applied. The server does not call it on a
// schedule; until it is called, expired challenges stay in the map.
func (s *Service) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, c := range s.challenges {
		if now.After(c.ExpireAt) {
			delete(s.challenges, id)
		}
	}
}
