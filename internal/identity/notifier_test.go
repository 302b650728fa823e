package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestSubscribeDeliversCurrentStateOnce(t *testing.T) {
	n := NewNotifier()
	userID := uuid.New()
	n.Publish(AuthState{UserID: &userID, DeviceID: "device-a"})

	var calls []AuthState
	unsub := n.Subscribe(func(s AuthState) {
		calls = append(calls, s)
	})
	defer unsub()

	if len(calls) != 1 {
		t.Fatalf("expected exactly 1 initial dispatch, got %d", len(calls))
	}
	if calls[0].UserID == nil || *calls[0].UserID != userID {
		t.Fatalf("initial dispatch carried wrong state: %+v", calls[0])
	}
}

func TestPublishDispatchesOncePerListener(t *testing.T) {
	n := NewNotifier()

	countA, countB := 0, 0
	unsubA := n.Subscribe(func(AuthState) { countA++ })
	unsubB := n.Subscribe(func(AuthState) { countB++ })
	defer unsubA()
	defer unsubB()

	userID := uuid.New()
	n.Publish(AuthState{UserID: &userID, DeviceID: "device-a"})
	n.Publish(AuthState{})

	// 1 initial + 2 transitions each
	if countA != 3 || countB != 3 {
		t.Fatalf("expected 3 dispatches each, got a=%d b=%d", countA, countB)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	n := NewNotifier()

	count := 0
	unsub := n.Subscribe(func(AuthState) { count++ })
	unsub()

	n.Publish(AuthState{DeviceID: "device-a"})
	if count != 1 {
		t.Fatalf("expected no dispatch after unsubscribe, got %d calls", count)
	}

	// double unsubscribe is a no-op
	unsub()
}
