package session

import (
	"sync"
	"testing"
)

func TestGetAbsentSessionIsIdle(t *testing.T) {
	store := NewMemoryStore()
	s := store.Get(42)
	if s.State != StateIdle {
		t.Fatalf("absent session state = %q, want idle", s.State)
	}
	if s.PendingLink != "" {
		t.Fatalf("absent session has pending link %q", s.PendingLink)
	}
	if store.InProgress(42) {
		t.Fatal("absent session reported in progress")
	}
}

func TestUpdateCreatesAndClears(t *testing.T) {
	store := NewMemoryStore()

	store.Update(7, func(s *Session) {
		s.State = State("awaiting_link")
	})
	if !store.InProgress(7) {
		t.Fatal("session not in progress after transition")
	}

	store.Update(7, func(s *Session) {
		s.State = StateIdle
		s.PendingLink = ""
	})
	if store.InProgress(7) {
		t.Fatal("idle session still reported in progress")
	}
	if got := store.Get(7); got.State != StateIdle || got.PendingLink != "" {
		t.Fatalf("cleared session = %+v", got)
	}
}

func TestClearRemovesData(t *testing.T) {
	store := NewMemoryStore()
	store.Update(1, func(s *Session) {
		s.State = State("awaiting_amount")
		s.PendingLink = "https://example.com/42542"
	})
	store.Clear(1)
	if got := store.Get(1); got.State != StateIdle || got.PendingLink != "" {
		t.Fatalf("session after Clear = %+v", got)
	}
}

func TestUpdateIsExclusivePerUser(t *testing.T) {
	store := NewMemoryStore()
	store.Update(9, func(s *Session) {
		s.State = State("awaiting_amount")
		s.PendingLink = "link"
	})

	// Both goroutines try to consume the same pending session; the closure
	// runs under the store lock so exactly one of them wins.
	var wg sync.WaitGroup
	wins := make(chan string, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update(9, func(s *Session) {
				if s.State == State("awaiting_amount") {
					wins <- s.PendingLink
					s.State = StateIdle
					s.PendingLink = ""
				}
			})
		}()
	}
	wg.Wait()
	close(wins)

	var got []string
	for w := range wins {
		got = append(got, w)
	}
	if len(got) != 1 {
		t.Fatalf("finalized %d times, want exactly 1", len(got))
	}
	if got[0] != "link" {
		t.Fatalf("consumed link = %q", got[0])
	}
}
