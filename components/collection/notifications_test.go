package collection

import (
	"context"
	"testing"
	"time"
)

func TestCenterActiveAndDismiss(t *testing.T) {
	center := NewCenter(0)
	defer center.Close()

	center.Notify(context.Background(), NewNotification(LevelSuccess, "saved"))
	center.Notify(context.Background(), NewNotification(LevelError, "failed"))

	active := center.Active()
	if len(active) != 2 || active[0].Message != "saved" {
		t.Fatalf("unexpected active list %v", active)
	}

	center.Dismiss(active[0].ID)
	if remaining := center.Active(); len(remaining) != 1 || remaining[0].Message != "failed" {
		t.Fatalf("dismiss removed the wrong entry, %v", remaining)
	}
}

func TestCenterSubscribe(t *testing.T) {
	center := NewCenter(0)
	defer center.Close()

	events, cancel := center.Subscribe()
	center.Notify(context.Background(), NewNotification(LevelInfo, "hello"))

	select {
	case n := <-events:
		if n.Message != "hello" {
			t.Fatalf("unexpected notification %v", n)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the notification")
	}

	cancel()
	if _, open := <-events; open {
		t.Fatal("cancel must close the subscriber channel")
	}
}

func TestCenterAutoDismiss(t *testing.T) {
	center := NewCenter(20 * time.Millisecond)
	defer center.Close()

	center.Notify(context.Background(), NewNotification(LevelSuccess, "short-lived"))
	if len(center.Active()) != 1 {
		t.Fatal("notification should be active immediately")
	}

	deadline := time.After(time.Second)
	for len(center.Active()) != 0 {
		select {
		case <-deadline:
			t.Fatal("notification never auto-dismissed")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestCenterNotifyAfterClose(t *testing.T) {
	center := NewCenter(0)
	center.Close()
	center.Notify(context.Background(), NewNotification(LevelInfo, "dropped"))
	if len(center.Active()) != 0 {
		t.Fatal("closed center must drop notifications")
	}
}

func TestNotifyAssignsIdentity(t *testing.T) {
	center := NewCenter(0)
	defer center.Close()

	center.Notify(context.Background(), Notification{Level: LevelInfo, Message: "bare"})
	active := center.Active()
	if len(active) != 1 || active[0].ID == "" || active[0].CreatedAt.IsZero() {
		t.Fatalf("center must backfill id and timestamp, got %+v", active)
	}
}
