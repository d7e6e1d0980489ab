package user

import "testing"

func TestRegistry_AddRejectsExactDuplicateNames(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Add("conn1", "Alice"); err != nil {
		t.Fatalf("unexpected error adding Alice: %v", err)
	}
	if _, err := r.Add("conn2", "Alice"); err == nil {
		t.Fatalf("expected an exact duplicate name to be rejected")
	}
}

func TestRegistry_AddAllowsNamesDifferingOnlyByCase(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Add("conn1", "Alice"); err != nil {
		t.Fatalf("unexpected error adding Alice: %v", err)
	}
	if _, err := r.Add("conn2", "alice"); err != nil {
		t.Fatalf("expected name uniqueness to be case-sensitive, got: %v", err)
	}
}

func TestRegistry_RemoveFreesTheName(t *testing.T) {
	r := NewRegistry()
	r.Add("conn1", "Bob")
	r.Remove("conn1")
	if _, err := r.Add("conn2", "Bob"); err != nil {
		t.Fatalf("expected the name to be reusable after removal: %v", err)
	}
}

func TestRegistry_SetStatusUpdatesGameType(t *testing.T) {
	r := NewRegistry()
	r.Add("conn1", "Carol")
	r.SetStatus("conn1", StatusInGame, "poker")
	u, ok := r.Get("conn1")
	if !ok {
		t.Fatalf("expected Carol to still be registered")
	}
	if u.Status != StatusInGame || u.GameType != "poker" {
		t.Errorf("expected status in-game and gameType poker, got %v/%v", u.Status, u.GameType)
	}
}

func TestRegistry_ListReturnsAllUsers(t *testing.T) {
	r := NewRegistry()
	r.Add("conn1", "Dave")
	r.Add("conn2", "Erin")
	if len(r.List()) != 2 {
		t.Errorf("expected 2 users in the directory, got %d", len(r.List()))
	}
}

func TestRegistry_AddRejectsInvalidNames(t *testing.T) {
	r := NewRegistry()
	cases := []string{"", "a", "has space", "way-too-long-a-name-for-this-game", "semi;colon"}
	for _, name := range cases {
		if _, err := r.Add("conn1", name); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}
