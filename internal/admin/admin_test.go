package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/m3rciful/buffpay/internal/config"
	"github.com/m3rciful/buffpay/internal/storage"
)

type fakeStore struct {
	stats    storage.Stats
	statsErr error
	requests []storage.Request
	pageErr  error
	calls    []int
}

func (f *fakeStore) Counts(context.Context) (storage.Stats, error) {
	return f.stats, f.statsErr
}

func (f *fakeStore) RecentPage(_ context.Context, page, pageSize int) ([]storage.Request, int64, error) {
	f.calls = append(f.calls, page)
	if f.pageErr != nil {
		return nil, 0, f.pageErr
	}
	start := page * pageSize
	if start > len(f.requests) {
		start = len(f.requests)
	}
	end := start + pageSize
	if end > len(f.requests) {
		end = len(f.requests)
	}
	return f.requests[start:end], int64(len(f.requests)), nil
}

func requests(n int) []storage.Request {
	out := make([]storage.Request, n)
	for i := range out {
		out[i] = storage.Request{
			ID:        int64(n - i),
			UserID:    int64(1000 + i),
			Amount:    "150",
			Link:      fmt.Sprintf("https://example.com/%d", i),
			CreatedAt: time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC),
		}
	}
	return out
}

func TestRegistryMembership(t *testing.T) {
	reg := NewRegistry([]config.Admin{{ID: 101, Username: "a"}, {ID: 102}})

	if !reg.IsAdmin(101) || !reg.IsAdmin(102) {
		t.Fatal("configured ids must be admins")
	}
	if reg.IsAdmin(0) || reg.IsAdmin(999) {
		t.Fatal("unknown ids must not be admins")
	}
}

func TestStatsRendersCounters(t *testing.T) {
	p := NewPanel(NewRegistry(nil), &fakeStore{stats: storage.Stats{TotalRequests: 42, UniqueUsers: 7}})

	text := p.Stats(context.Background())
	if !strings.Contains(text, "42") || !strings.Contains(text, "7") {
		t.Fatalf("stats text missing counters:\n%s", text)
	}
}

func TestStatsFailureRendersErrorScreen(t *testing.T) {
	p := NewPanel(NewRegistry(nil), &fakeStore{statsErr: errors.New("db down")})

	text := p.Stats(context.Background())
	if !strings.Contains(text, "Ошибка") {
		t.Fatalf("expected error screen, got:\n%s", text)
	}
}

func TestRequestsPagination(t *testing.T) {
	store := &fakeStore{requests: requests(12)} // 3 pages at size 5
	p := NewPanel(NewRegistry(nil), store)

	first := p.Requests(context.Background(), 0)
	if first.Page != 0 || first.Pages != 3 {
		t.Fatalf("first page meta = %+v", first)
	}
	if first.HasPrev() || !first.HasNext() {
		t.Fatalf("first page nav = prev:%v next:%v", first.HasPrev(), first.HasNext())
	}

	last := p.Requests(context.Background(), 2)
	if !last.HasPrev() || last.HasNext() {
		t.Fatalf("last page nav = prev:%v next:%v", last.HasPrev(), last.HasNext())
	}
	// 12 rows, page size 5: last page holds 2 entries.
	if got := strings.Count(last.Text, "Заявка #"); got != 2 {
		t.Fatalf("last page entries = %d, want 2", got)
	}
}

func TestRequestsPageClamped(t *testing.T) {
	store := &fakeStore{requests: requests(7)} // 2 pages
	p := NewPanel(NewRegistry(nil), store)

	view := p.Requests(context.Background(), 50)
	if view.Page != 1 || view.Pages != 2 {
		t.Fatalf("clamped view meta = %+v", view)
	}

	view = p.Requests(context.Background(), -3)
	if view.Page != 0 {
		t.Fatalf("negative page not clamped, got %d", view.Page)
	}
}

func TestRequestsEmpty(t *testing.T) {
	p := NewPanel(NewRegistry(nil), &fakeStore{})

	view := p.Requests(context.Background(), 0)
	if !strings.Contains(view.Text, "нет ни одной заявки") {
		t.Fatalf("empty list text:\n%s", view.Text)
	}
	if view.HasPrev() || view.HasNext() {
		t.Fatal("empty list must not offer navigation")
	}
}

func TestRequestsFailureRendersErrorScreen(t *testing.T) {
	p := NewPanel(NewRegistry(nil), &fakeStore{pageErr: errors.New("db down")})

	view := p.Requests(context.Background(), 0)
	if !strings.Contains(view.Text, "Ошибка") {
		t.Fatalf("expected error screen, got:\n%s", view.Text)
	}
}

func TestAdminListShowsEveryEntry(t *testing.T) {
	p := NewPanel(NewRegistry([]config.Admin{
		{ID: 101, Username: "first"},
		{ID: 102},
	}), &fakeStore{})

	text := p.AdminList()
	for _, frag := range []string{"@first", "101", "102", "без username", "Всего админов:</b> 2"} {
		if !strings.Contains(text, frag) {
			t.Fatalf("admin list missing %q:\n%s", frag, text)
		}
	}
}

func TestAdminListEmpty(t *testing.T) {
	p := NewPanel(NewRegistry(nil), &fakeStore{})

	if !strings.Contains(p.AdminList(), "пуст") {
		t.Fatal("empty registry must render the empty-list screen")
	}
}

func TestRequestsWithoutUsernameUseSentinel(t *testing.T) {
	store := &fakeStore{requests: []storage.Request{{ID: 1, UserID: 5, Amount: "1", Link: "l", CreatedAt: time.Now()}}}
	p := NewPanel(NewRegistry(nil), store)

	view := p.Requests(context.Background(), 0)
	if !strings.Contains(view.Text, storage.UsernameMissing) {
		t.Fatalf("missing username sentinel:\n%s", view.Text)
	}
}
