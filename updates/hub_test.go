package updates

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send:  make(chan []byte, 10),
		Topic: "order:ORD-1",
	}
	hub.Register(client)

	payload := map[string]any{"type": "order_update", "status": "shipped"}
	want, _ := json.Marshal(payload)
	hub.Publish("order:ORD-1", payload)

	select {
	case got := <-client.Send:
		if string(got) != string(want) {
			t.Fatalf("expected %s, got %s", want, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for update")
	}

	hub.Unregister(client)
}

func TestHubTopicIsolation(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := &Client{Send: make(chan []byte, 1), Topic: "order:A"}
	b := &Client{Send: make(chan []byte, 1), Topic: "order:B"}
	hub.Register(a)
	hub.Register(b)

	hub.Publish("order:A", map[string]string{"status": "processing"})

	select {
	case <-a.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("subscriber on topic A got nothing")
	}

	select {
	case msg := <-b.Send:
		t.Fatalf("topic B should stay quiet, got %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}
