package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m3rciful/buffpay/internal/config"
)

type fakeSender struct {
	sent    []int64
	failFor map[int64]error
}

func (f *fakeSender) Send(userID int64, _ string) error {
	f.sent = append(f.sent, userID)
	if err, ok := f.failFor[userID]; ok {
		return err
	}
	return nil
}

var admins = []config.Admin{
	{ID: 101, Username: "first"},
	{ID: 102, Username: "second"},
	{ID: 103, Username: "third"},
}

func TestFanOutReachesEveryRecipient(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender, config.ManagerConfig{ID: 55, Username: "mgr"}, admins)

	report := n.Notify(context.Background(), Notification{RequestID: 1, UserID: 9, Amount: "150", Link: "l"})

	if !report.ManagerAttempted || !report.ManagerDelivered {
		t.Fatalf("manager report = %+v", report)
	}
	if report.AdminsAttempted != 3 || report.AdminsDelivered != 3 {
		t.Fatalf("admin report = %+v", report)
	}
	want := []int64{55, 101, 102, 103}
	if len(sender.sent) != len(want) {
		t.Fatalf("sent to %v, want %v", sender.sent, want)
	}
	for i, id := range want {
		if sender.sent[i] != id {
			t.Fatalf("sent[%d] = %d, want %d", i, sender.sent[i], id)
		}
	}
}

func TestPartialFailureDoesNotStopFanOut(t *testing.T) {
	sender := &fakeSender{failFor: map[int64]error{102: errors.New("blocked")}}
	n := New(sender, config.ManagerConfig{}, admins)

	report := n.Notify(context.Background(), Notification{RequestID: 2})

	if report.AdminsAttempted != 3 {
		t.Fatalf("attempted = %d, want 3 despite mid-list failure", report.AdminsAttempted)
	}
	if report.AdminsDelivered != 2 {
		t.Fatalf("delivered = %d, want 2", report.AdminsDelivered)
	}
	// 1st and 3rd must still have been attempted.
	attempted := map[int64]bool{}
	for _, id := range sender.sent {
		attempted[id] = true
	}
	if !attempted[101] || !attempted[103] {
		t.Fatalf("sent = %v, want attempts for 101 and 103", sender.sent)
	}
}

func TestNoManagerConfiguredSkipsManagerChannel(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender, config.ManagerConfig{}, admins)

	report := n.Notify(context.Background(), Notification{RequestID: 3})

	if report.ManagerAttempted {
		t.Fatal("manager attempt without configured manager id")
	}
	for _, id := range sender.sent {
		if id == 0 {
			t.Fatal("delivery attempted to zero recipient")
		}
	}
}

func TestManagerFailureStillNotifiesAdmins(t *testing.T) {
	sender := &fakeSender{failFor: map[int64]error{55: errors.New("unreachable")}}
	n := New(sender, config.ManagerConfig{ID: 55}, admins)

	report := n.Notify(context.Background(), Notification{RequestID: 4})

	if report.ManagerDelivered {
		t.Fatal("manager delivery reported despite failure")
	}
	if report.AdminsDelivered != 3 {
		t.Fatalf("admins delivered = %d, want 3", report.AdminsDelivered)
	}
}

func TestSingleAttemptPerRecipient(t *testing.T) {
	sender := &fakeSender{failFor: map[int64]error{101: errors.New("flaky")}}
	n := New(sender, config.ManagerConfig{}, admins)

	n.Notify(context.Background(), Notification{RequestID: 5})

	count := 0
	for _, id := range sender.sent {
		if id == 101 {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("recipient 101 attempted %d times, want exactly 1 (no retry)", count)
	}
}

func TestNotificationTextCarriesRequestFields(t *testing.T) {
	note := Notification{RequestID: 6, UserID: 777, Username: "buyer", Amount: "150", Link: "https://example.com/42542"}
	for _, text := range []string{managerText(note, "mgr"), adminText(note)} {
		for _, frag := range []string{"777", "buyer", "150", "https://example.com/42542"} {
			if !strings.Contains(text, frag) {
				t.Fatalf("notification text missing %q:\n%s", frag, text)
			}
		}
	}
}
