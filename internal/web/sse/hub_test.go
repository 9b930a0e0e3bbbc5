package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "test-event",
			data:      "hello world",
			expected:  "event: test-event\ndata: hello world\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "round-confirmed",
			data:      "<div>\n  <p>line1</p>\n</div>",
			expected:  "event: round-confirmed\ndata: <div>\ndata:   <p>line1</p>\ndata: </div>\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "carriage returns and trailing newline",
			eventName: "test",
			data:      "line1\r\nline2\r\n",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatSSEMessage(tt.eventName, tt.data)
			if string(result) != tt.expected {
				t.Errorf("formatSSEMessage(%q, %q)\ngot:  %q\nwant: %q",
					tt.eventName, tt.data, string(result), tt.expected)
			}
		})
	}
}

func newTestHub(id model.GameID) *Hub {
	hub := NewHub(id, testutil.NopLogger())
	go hub.Run()
	return hub
}

// waitForClients polls until the hub loop has processed pending registrations
func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := newTestHub("game-1")
	defer hub.Close()

	client := NewClient("client-1")
	hub.Register(client)
	waitForClients(t, hub, 1)

	hub.BroadcastEvent("test-event", "test data")

	select {
	case msg := <-client.send:
		expected := "event: test-event\ndata: test data\n\n"
		if string(msg) != expected {
			t.Errorf("client received %q, want %q", string(msg), expected)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive message")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := newTestHub("game-1")
	defer hub.Close()

	client := NewClient("client-1")
	hub.Register(client)
	hub.Unregister(client)

	// Unregister is processed by the hub loop; a later registration orders after it
	other := NewClient("client-2")
	hub.Register(other)
	waitForClients(t, hub, 1)
	if _, ok := <-client.send; ok {
		t.Error("unregistered client's channel still open")
	}
}

func TestHub_BroadcastToMultipleClients(t *testing.T) {
	hub := newTestHub("game-1")
	defer hub.Close()

	clients := []*Client{NewClient("a"), NewClient("b"), NewClient("c")}
	for _, c := range clients {
		hub.Register(c)
	}

	hub.BroadcastEvent("update", "data")

	for i, client := range clients {
		select {
		case msg := <-client.send:
			if string(msg) != "event: update\ndata: data\n\n" {
				t.Errorf("client %d received %q", i+1, string(msg))
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("client %d did not receive message", i+1)
		}
	}
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := newTestHub("game-1")

	client := NewClient("client-1")
	hub.Register(client)
	hub.Close()
	hub.Close()

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client was not disconnected")
	}

	// Registering against a closed hub must not block
	late := NewClient("late")
	hub.Register(late)
	if _, ok := <-late.send; ok {
		t.Error("late client's channel should be closed")
	}
}

func TestHubManager_GetOrCreateHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	hub1 := manager.GetOrCreateHub("game-1")
	if hub1 == nil {
		t.Fatal("GetOrCreateHub returned nil")
	}
	if hub2 := manager.GetOrCreateHub("game-1"); hub1 != hub2 {
		t.Error("GetOrCreateHub returned different hub for same game")
	}
	if hub3 := manager.GetOrCreateHub("game-2"); hub3 == hub1 {
		t.Error("GetOrCreateHub returned same hub for different game")
	}
	if manager.HubCount() != 2 {
		t.Errorf("HubCount() = %d, want 2", manager.HubCount())
	}

	manager.RemoveHub("game-1")
	manager.RemoveHub("game-2")
}

func TestHubManager_GetHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	if hub := manager.GetHub("missing"); hub != nil {
		t.Error("GetHub returned non-nil for unwatched game")
	}

	created := manager.GetOrCreateHub("game-1")
	if got := manager.GetHub("game-1"); got != created {
		t.Error("GetHub returned different hub than GetOrCreateHub")
	}

	manager.RemoveHub("game-1")
	if manager.GetHub("game-1") != nil {
		t.Error("hub still exists after RemoveHub")
	}

	// Removing an unknown hub is a no-op
	manager.RemoveHub("missing")
}

func TestHubManager_CleanupEmptyHubs(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	manager.GetOrCreateHub("empty")
	active := manager.GetOrCreateHub("active")
	active.Register(NewClient("client-1"))
	waitForClients(t, active, 1)

	manager.CleanupEmptyHubs()

	if manager.GetHub("empty") != nil {
		t.Error("empty hub still exists after cleanup")
	}
	if manager.GetHub("active") == nil {
		t.Error("active hub was removed during cleanup")
	}

	manager.RemoveHub("active")
}

func TestServeSSE_StreamsUntilDisconnect(t *testing.T) {
	hub := newTestHub("game-1")
	defer hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/games/game-1/events", nil).WithContext(ctx)
	rr := httptest.NewRecorder()

	ServeSSE(rr, req, hub, "client-1")

	body := rr.Body.String()
	if rr.Header().Get("Content-Type") != "text/event-stream" {
		t.Errorf("Content-Type = %q", rr.Header().Get("Content-Type"))
	}
	if !strings.Contains(body, "retry: 3000") {
		t.Errorf("missing retry hint in %q", body)
	}
	if !strings.Contains(body, "event: connected\ndata: {\"status\":\"connected\"}") {
		t.Errorf("missing connected event in %q", body)
	}
}
