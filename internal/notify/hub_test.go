package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func newTestHub() *Hub {
	return NewHub(nil, slog.Default())
}

func TestNotifyDeliversToRegisteredClient(t *testing.T) {
	hub := newTestHub()
	c := &client{playerID: 7, send: make(chan []byte, clientBufferSize)}
	hub.register(c)

	hub.Notify(7, New("Attacked!", "someone attacked you", LevelDanger))

	select {
	case payload := <-c.send:
		var n Notification
		if err := json.Unmarshal(payload, &n); err != nil {
			t.Fatal(err)
		}
		if n.Type != "notification" || n.Title != "Attacked!" || n.Level != LevelDanger {
			t.Errorf("delivered notification = %+v", n)
		}
	default:
		t.Fatal("nothing delivered")
	}
}

func TestNotifyOtherPlayerNotDelivered(t *testing.T) {
	hub := newTestHub()
	c := &client{playerID: 7, send: make(chan []byte, clientBufferSize)}
	hub.register(c)

	hub.Notify(8, New("Hello", "wrong inbox", LevelInfo))

	select {
	case <-c.send:
		t.Fatal("notification crossed players")
	default:
	}
}

func TestBroadcastReachesAllPlayers(t *testing.T) {
	hub := newTestHub()
	a := &client{playerID: 1, send: make(chan []byte, clientBufferSize)}
	b := &client{playerID: 2, send: make(chan []byte, clientBufferSize)}
	hub.register(a)
	hub.register(b)

	hub.Broadcast(New("Maintenance", "restart soon", LevelWarning))

	for _, c := range []*client{a, b} {
		select {
		case <-c.send:
		default:
			t.Errorf("player %d missed the broadcast", c.playerID)
		}
	}
}

func TestOnlineCountTracksDistinctPlayers(t *testing.T) {
	hub := newTestHub()

	a := &client{playerID: 1, send: make(chan []byte, clientBufferSize)}
	b1 := &client{playerID: 2, send: make(chan []byte, clientBufferSize)}
	b2 := &client{playerID: 2, send: make(chan []byte, clientBufferSize)}

	hub.register(a)
	hub.register(b1)
	hub.register(b2)
	if got := hub.OnlineCount(); got != 2 {
		t.Errorf("online = %d, want 2 distinct players", got)
	}

	// One of two sockets closing keeps the player online.
	hub.unregister(b1)
	if got := hub.OnlineCount(); got != 2 {
		t.Errorf("online = %d, want 2 after closing one of two sockets", got)
	}

	hub.unregister(b2)
	hub.unregister(a)
	if got := hub.OnlineCount(); got != 0 {
		t.Errorf("online = %d, want 0", got)
	}
}

func TestOnlinePlayersFallsBackToLocalCount(t *testing.T) {
	hub := newTestHub()

	a := &client{playerID: 1, send: make(chan []byte, clientBufferSize)}
	b := &client{playerID: 2, send: make(chan []byte, clientBufferSize)}
	hub.register(a)
	hub.register(b)

	if got := hub.OnlinePlayers(context.Background()); got != 2 {
		t.Errorf("online = %d, want 2 without a shared counter", got)
	}

	hub.unregister(a)
	hub.unregister(b)
	if got := hub.OnlinePlayers(context.Background()); got != 0 {
		t.Errorf("online = %d, want 0", got)
	}
}

func TestSlowClientDropsInsteadOfBlocking(t *testing.T) {
	hub := newTestHub()
	c := &client{playerID: 7, send: make(chan []byte)} // no buffer, nobody reading
	hub.register(c)

	done := make(chan struct{})
	go func() {
		hub.Notify(7, New("Ping", "are you there", LevelInfo))
		close(done)
	}()

	<-done
}
