package ws

import (
	"encoding/json"
	"testing"
	"time"

	"clickarena/internal/model"
	"clickarena/internal/testutil"
)

func newTestClient(hub *Hub, id model.IdentityID) *Client {
	return newClient(hub, nil, id, model.RolePlayer, testutil.NopLogger())
}

func TestMarshalEnvelope(t *testing.T) {
	msg, err := marshalEnvelope(model.EventScoreChanged, model.ScoreChangedPayload{
		IdentityID: "id-1",
		Count:      42,
	})
	if err != nil {
		t.Fatalf("marshalEnvelope returned error: %v", err)
	}

	var envelope Envelope
	if err := json.Unmarshal(msg, &envelope); err != nil {
		t.Fatalf("failed to unmarshal envelope: %v", err)
	}
	if envelope.Type != model.EventScoreChanged {
		t.Errorf("envelope type = %q, want %q", envelope.Type, model.EventScoreChanged)
	}

	var payload model.ScoreChangedPayload
	if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if payload.IdentityID != "id-1" || payload.Count != 42 {
		t.Errorf("payload = %+v, want {id-1 42}", payload)
	}
}

func TestHub_RegisterAndPublish(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := newTestClient(hub, "id-1")
	hub.Register(client)

	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	hub.Publish(model.EventPresenceChanged, model.PresenceChangedPayload{
		IdentityID: "id-1",
		Online:     true,
	})

	select {
	case msg := <-client.send:
		var envelope Envelope
		if err := json.Unmarshal(msg, &envelope); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}
		if envelope.Type != model.EventPresenceChanged {
			t.Errorf("event type = %q, want presence-changed", envelope.Type)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive message")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := newTestClient(hub, "id-1")
	hub.Register(client)
	hub.Unregister(client)

	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after unregister, want 0", hub.ClientCount())
	}

	// Unregistering twice must not panic or double-close the send channel
	hub.Unregister(client)
}

func TestHub_PublishToMultipleClients(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	clients := []*Client{
		newTestClient(hub, "id-1"),
		newTestClient(hub, "id-2"),
		newTestClient(hub, "id-3"),
	}
	for _, c := range clients {
		hub.Register(c)
	}

	hub.Publish(model.EventScoreChanged, model.ScoreChangedPayload{IdentityID: "id-1", Count: 1})

	for i, c := range clients {
		select {
		case <-c.send:
		case <-time.After(100 * time.Millisecond):
			t.Errorf("client %d did not receive message", i+1)
		}
	}
}

func TestHub_SlowConsumerIsDisconnected(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	slow := newTestClient(hub, "slow")
	hub.Register(slow)

	// Saturate the client's send buffer without draining it
	for i := 0; i < sendBufferSize; i++ {
		slow.send <- []byte("backlog")
	}

	hub.Publish(model.EventScoreChanged, model.ScoreChangedPayload{IdentityID: "id-1", Count: 1})

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow consumer was not disconnected")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_SlowConsumerDoesNotStallOthers(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	slow := newTestClient(hub, "slow")
	healthy := newTestClient(hub, "healthy")
	hub.Register(slow)
	hub.Register(healthy)

	for i := 0; i < sendBufferSize; i++ {
		slow.send <- []byte("backlog")
	}

	hub.Publish(model.EventScoreChanged, model.ScoreChangedPayload{IdentityID: "id-1", Count: 1})

	select {
	case <-healthy.send:
	case <-time.After(100 * time.Millisecond):
		t.Error("healthy client did not receive message")
	}

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d, want 1 (slow consumer dropped)", hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_EnqueueAfterDisconnectDoesNotPanic(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := newTestClient(hub, "slow")
	hub.Register(client)

	// Saturate the buffer so the next broadcast disconnects the client
	for i := 0; i < sendBufferSize; i++ {
		client.send <- []byte("backlog")
	}
	hub.Publish(model.EventScoreChanged, model.ScoreChangedPayload{IdentityID: "id-1", Count: 1})

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("saturated client was not disconnected")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// A direct reply racing the disconnect is dropped, never sent on the
	// closed channel
	client.enqueue([]byte("late reply"))
}

func TestHub_CloseDisconnectsAllClients(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()

	client := newTestClient(hub, "id-1")
	hub.Register(client)

	hub.Close()

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Error("send channel was not closed on hub shutdown")
	}
}
