// Package user is the unique-name directory of connected users: add,
// remove, and status tracking, backing the Hub's presence broadcasts.
package user

import (
	"fmt"
	"regexp"
	"sync"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validateName enforces the same length/charset shape the teacher
// requires of a username, applied here to the display name a
// connection picks at user-connect time.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	if len(name) > 20 {
		return fmt.Errorf("name must be at most 20 characters")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("name can only contain letters, numbers, underscore, and hyphen")
	}
	return nil
}

type Status string

const (
	StatusAvailable Status = "available"
	StatusInGame    Status = "in-game"
)

type User struct {
	ID       string
	Name     string
	Status   Status
	GameType string
	RoomCode string
}

// Registry is the connected-user directory: one entry per connection
// ID, with name uniqueness enforced at add time.
type Registry struct {
	mu    sync.RWMutex
	users map[string]*User
	names map[string]string // name -> user ID, for uniqueness checks (case-sensitive)
}

func NewRegistry() *Registry {
	return &Registry{users: map[string]*User{}, names: map[string]string{}}
}

// Add registers a new user under id with the given display name.
// Returns an error if the name is already taken by another connection;
// comparison is case-sensitive, so "Alice" and "alice" are distinct.
func (r *Registry) Add(id, name string) (*User, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.names[name]; taken {
		return nil, fmt.Errorf("Name already taken.")
	}
	u := &User{ID: id, Name: name, Status: StatusAvailable}
	r.users[id] = u
	r.names[name] = id
	return u, nil
}

// Remove deletes a user from the directory. Idempotent.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return
	}
	delete(r.names, u.Name)
	delete(r.users, id)
}

// SetStatus updates a user's presence status and, for in-game status,
// the game type they've joined.
func (r *Registry) SetStatus(id string, status Status, gameType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return
	}
	u.Status = status
	u.GameType = gameType
}

func (r *Registry) Get(id string) (*User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok
}

// List returns a stable snapshot of every registered user, used for
// the full user-list sent to a newly registered connection.
func (r *Registry) List() []*User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out
}
