package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testClient(h *Hub, principal uuid.UUID) *Client {
	return &Client{hub: h, send: make(chan []byte, 4), principal: principal, role: "user"}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case b := <-c.send:
		var evt Event
		if err := json.Unmarshal(b, &evt); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		return evt
	case <-time.After(2 * time.Second):
		t.Fatalf("no message received")
	}
	return Event{}
}

func TestHub_NotifyTargetsPrincipal(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	alice, bob := uuid.New(), uuid.New()
	a := testClient(h, alice)
	b := testClient(h, bob)
	h.Register(a)
	h.Register(b)
	waitFor(t, func() bool { return h.ClientCount() == 2 })

	h.Notify(alice, "application_status_changed", map[string]string{"status": "Approved"})

	evt := receive(t, a)
	if evt.Type != "application_status_changed" {
		t.Fatalf("unexpected event %+v", evt)
	}
	select {
	case <-b.send:
		t.Fatalf("bob should not receive alice's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_BroadcastReachesEveryone(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	a := testClient(h, uuid.New())
	b := testClient(h, uuid.New())
	h.Register(a)
	h.Register(b)
	waitFor(t, func() bool { return h.ClientCount() == 2 })

	h.Broadcast("jobs_updated", nil)

	if evt := receive(t, a); evt.Type != "jobs_updated" {
		t.Fatalf("unexpected event %+v", evt)
	}
	if evt := receive(t, b); evt.Type != "jobs_updated" {
		t.Fatalf("unexpected event %+v", evt)
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := testClient(h, uuid.New())
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Unregister(c)
	waitFor(t, func() bool { return h.ClientCount() == 0 })

	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel closed")
	}
}

func TestHub_NilSafe(t *testing.T) {
	var h *Hub
	h.Notify(uuid.New(), "x", nil)
	h.Broadcast("x", nil)
	h.Register(nil)
	if h.ClientCount() != 0 {
		t.Fatalf("expected zero clients")
	}
}
