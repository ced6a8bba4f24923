package intake

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/m3rciful/buffpay/internal/config"
	"github.com/m3rciful/buffpay/internal/notify"
	"github.com/m3rciful/buffpay/internal/session"
)

type insertCall struct {
	userID   int64
	username string
	amount   string
	link     string
}

type fakeRepo struct {
	mu      sync.Mutex
	calls   []insertCall
	nextID  int64
	failing bool
}

func (f *fakeRepo) Insert(_ context.Context, userID int64, username, amount, link string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, insertCall{userID, username, amount, link})
	if f.failing {
		return 0, errors.New("db down")
	}
	f.nextID++
	return f.nextID, nil
}

type fakeFanOut struct {
	mu    sync.Mutex
	notes []notify.Notification
}

func (f *fakeFanOut) Notify(_ context.Context, note notify.Notification) notify.DeliveryReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = append(f.notes, note)
	return notify.DeliveryReport{}
}

func newService() (*Service, session.Store, *fakeRepo, *fakeFanOut) {
	store := session.NewMemoryStore()
	repo := &fakeRepo{}
	fanout := &fakeFanOut{}
	return New(store, repo, fanout, "mgr"), store, repo, fanout
}

func TestTextWhileIdleIsIgnored(t *testing.T) {
	svc, store, repo, fanout := newService()

	_, handled := svc.HandleText(context.Background(), 1, "user", "hello")
	if handled {
		t.Fatal("idle user's text must not be handled by the intake flow")
	}
	if store.InProgress(1) {
		t.Fatal("no session must be created for an idle user's text")
	}
	if len(repo.calls) != 0 || len(fanout.notes) != 0 {
		t.Fatal("idle text triggered side effects")
	}
}

func TestStartTransitionsToAwaitingLinkOnly(t *testing.T) {
	svc, store, _, _ := newService()

	prompt := svc.Start(context.Background(), 1)
	if prompt == "" {
		t.Fatal("start must return the step-1 prompt")
	}
	sess := store.Get(1)
	if sess.State != StateAwaitingLink {
		t.Fatalf("state after start = %q, want %q", sess.State, StateAwaitingLink)
	}
	if sess.PendingLink != "" {
		t.Fatalf("pending link after start = %q, want empty", sess.PendingLink)
	}
}

func TestAnyLinkTextIsAccepted(t *testing.T) {
	for _, text := range []string{"https://example.com/42542", "not a url at all", ""} {
		svc, store, _, _ := newService()
		svc.Start(context.Background(), 1)

		res, handled := svc.HandleText(context.Background(), 1, "user", text)
		if !handled {
			t.Fatalf("link text %q not handled", text)
		}
		if res.Finalized {
			t.Fatal("link step must not finalize")
		}
		sess := store.Get(1)
		if sess.State != StateAwaitingAmount {
			t.Fatalf("state = %q, want %q", sess.State, StateAwaitingAmount)
		}
		if sess.PendingLink != text {
			t.Fatalf("pending link = %q, want %q", sess.PendingLink, text)
		}
	}
}

func TestFinalizePersistsExactFieldsAndClearsSession(t *testing.T) {
	svc, store, repo, fanout := newService()
	ctx := context.Background()

	svc.Start(ctx, 7)
	svc.HandleText(ctx, 7, "buyer", "https://example.com/42542")
	res, handled := svc.HandleText(ctx, 7, "buyer", "150")

	if !handled || !res.Finalized {
		t.Fatalf("finalize result = %+v handled=%v", res, handled)
	}
	if !res.Stored || res.RequestID == 0 {
		t.Fatalf("expected stored request, got %+v", res)
	}

	if len(repo.calls) != 1 {
		t.Fatalf("insert calls = %d, want 1", len(repo.calls))
	}
	call := repo.calls[0]
	if call.userID != 7 || call.username != "buyer" || call.amount != "150" || call.link != "https://example.com/42542" {
		t.Fatalf("insert call = %+v", call)
	}

	if store.InProgress(7) {
		t.Fatal("session must be cleared after finalize")
	}
	if sess := store.Get(7); sess.State != session.StateIdle || sess.PendingLink != "" {
		t.Fatalf("session after finalize = %+v", sess)
	}

	if len(fanout.notes) != 1 {
		t.Fatalf("fan-out calls = %d, want exactly 1", len(fanout.notes))
	}
	note := fanout.notes[0]
	if note.Amount != "150" || note.Link != "https://example.com/42542" || note.UserID != 7 {
		t.Fatalf("notification = %+v", note)
	}
}

func TestFinalizeNotifiesManagerOnceAndEveryAdmin(t *testing.T) {
	store := session.NewMemoryStore()
	repo := &fakeRepo{}
	sender := &recordingSender{}
	fanout := notify.New(sender, config.ManagerConfig{ID: 55, Username: "mgr"}, []config.Admin{
		{ID: 101}, {ID: 102}, {ID: 103},
	})
	svc := New(store, repo, fanout, "mgr")
	ctx := context.Background()

	svc.Start(ctx, 9)
	svc.HandleText(ctx, 9, "u", "link")
	svc.HandleText(ctx, 9, "u", "42")

	counts := map[int64]int{}
	for _, id := range sender.sent {
		counts[id]++
	}
	for _, id := range []int64{55, 101, 102, 103} {
		if counts[id] != 1 {
			t.Fatalf("recipient %d attempted %d times, want 1 (sent=%v)", id, counts[id], sender.sent)
		}
	}
}

type recordingSender struct {
	mu   sync.Mutex
	sent []int64
}

func (r *recordingSender) Send(userID int64, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, userID)
	return nil
}

func TestConcurrentDuplicateAmountFinalizesOnce(t *testing.T) {
	svc, _, repo, fanout := newService()
	ctx := context.Background()

	svc.Start(ctx, 3)
	svc.HandleText(ctx, 3, "u", "link")

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.HandleText(ctx, 3, "u", "150")
		}()
	}
	wg.Wait()

	if len(repo.calls) != 1 {
		t.Fatalf("insert calls = %d, want exactly 1 for duplicate input", len(repo.calls))
	}
	if len(fanout.notes) != 1 {
		t.Fatalf("fan-out calls = %d, want exactly 1", len(fanout.notes))
	}
}

func TestPersistFailureStillConfirmsAndNotifies(t *testing.T) {
	svc, store, repo, fanout := newService()
	repo.failing = true
	ctx := context.Background()

	svc.Start(ctx, 4)
	svc.HandleText(ctx, 4, "u", "link")
	res, handled := svc.HandleText(ctx, 4, "u", "99")

	if !handled || !res.Finalized {
		t.Fatalf("result = %+v handled=%v", res, handled)
	}
	if res.Stored {
		t.Fatal("Stored must be false when the insert fails")
	}
	if res.Reply == "" {
		t.Fatal("user confirmation must still be produced")
	}
	if len(fanout.notes) != 1 {
		t.Fatalf("fan-out calls = %d, want 1 despite persist failure", len(fanout.notes))
	}
	if store.InProgress(4) {
		t.Fatal("session must be cleared even when persistence fails")
	}
}

func TestConfirmationEchoesAmountAndLink(t *testing.T) {
	svc, _, _, _ := newService()
	ctx := context.Background()

	svc.Start(ctx, 5)
	svc.HandleText(ctx, 5, "u", "https://example.com/42542")
	res, _ := svc.HandleText(ctx, 5, "u", "150")

	for _, frag := range []string{"150", "https://example.com/42542", "@mgr"} {
		if !strings.Contains(res.Reply, frag) {
			t.Fatalf("confirmation missing %q:\n%s", frag, res.Reply)
		}
	}
}
