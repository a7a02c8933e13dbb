package binance

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// fakeStatus records lifecycle signals from the client.
type fakeStatus struct {
	mu        sync.Mutex
	connected []bool
	errors    []string
}

func (f *fakeStatus) SetConnected(connected bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = append(f.connected, connected)
}

func (f *fakeStatus) SetStreamError(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, message)
}

func (f *fakeStatus) connectedCalls() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.connected...)
}

func (f *fakeStatus) lastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errors) == 0 {
		return ""
	}
	return f.errors[len(f.errors)-1]
}

var upgrader = websocket.Upgrader{}

// newStreamServer upgrades every request and pushes the given frames.
func newStreamServer(t *testing.T, frames ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestConnectDeliversMessages(t *testing.T) {
	srv := newStreamServer(t, `{"e":"trade","s":"BTCUSDT","p":"50000.00"}`)
	defer srv.Close()

	status := &fakeStatus{}
	client := NewWSClient(wsURL(srv), status, zap.NewNop())
	defer client.Disconnect()

	var mu sync.Mutex
	var got []string
	client.SetMessageHandler(func(msg []byte) {
		mu.Lock()
		got = append(got, string(msg))
		mu.Unlock()
	})

	if err := client.Connect([]string{"BTC"}); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if client.State() != StateConnected {
		t.Errorf("state = %v, want connected", client.State())
	}

	ok := waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0
	})
	if !ok {
		t.Fatal("no message delivered")
	}

	calls := status.connectedCalls()
	if len(calls) == 0 || !calls[0] {
		t.Errorf("status calls = %v, want leading true", calls)
	}
}

func TestReconnectCeiling(t *testing.T) {
	status := &fakeStatus{}
	// Nothing listens on the target port, so every dial fails.
	client := NewWSClient("ws://127.0.0.1:1", status, zap.NewNop())
	client.SetRetryPolicy(2, 20*time.Millisecond)
	defer client.Disconnect()

	if err := client.Connect([]string{"BTC"}); err == nil {
		t.Fatal("expected dial error")
	}

	if !waitFor(t, 3*time.Second, func() bool { return client.State() == StateFailed }) {
		t.Fatalf("state = %v, want failed", client.State())
	}

	// Initial dial plus two retries, then the terminal error.
	if calls := status.connectedCalls(); len(calls) != 3 {
		t.Errorf("connectivity signals = %v, want 3 false flips", calls)
	}
	if !strings.Contains(status.lastError(), "after 2 attempts") {
		t.Errorf("lastError = %q, want terminal attempts message", status.lastError())
	}

	// No further attempts after permanent failure.
	before := len(status.connectedCalls())
	time.Sleep(100 * time.Millisecond)
	if after := len(status.connectedCalls()); after != before {
		t.Errorf("client kept dialing after permanent failure: %d -> %d signals", before, after)
	}
}

func TestDisconnectIdempotent(t *testing.T) {
	status := &fakeStatus{}
	client := NewWSClient("ws://127.0.0.1:1", status, zap.NewNop())

	// Safe with no connection at all.
	client.Disconnect()
	client.Disconnect()
	if client.State() != StateDisconnected {
		t.Errorf("state = %v, want disconnected", client.State())
	}

	srv := newStreamServer(t)
	defer srv.Close()

	live := NewWSClient(wsURL(srv), status, zap.NewNop())
	if err := live.Connect([]string{"BTC"}); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	live.Disconnect()
	live.Disconnect()
	if live.State() != StateDisconnected {
		t.Errorf("state = %v, want disconnected", live.State())
	}
}

func TestDisconnectCancelsPendingReconnect(t *testing.T) {
	srv := newStreamServer(t)

	status := &fakeStatus{}
	client := NewWSClient(wsURL(srv), status, zap.NewNop())
	client.SetRetryPolicy(5, 100*time.Millisecond)

	if err := client.Connect([]string{"BTC"}); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	// Kill the server so the read loop fails and a reconnect gets scheduled.
	srv.CloseClientConnections()
	srv.Close()
	waitFor(t, 2*time.Second, func() bool { return client.State() == StateReconnecting })

	client.Disconnect()
	signals := len(status.connectedCalls())

	time.Sleep(300 * time.Millisecond)
	if client.State() != StateDisconnected {
		t.Errorf("state = %v, want disconnected", client.State())
	}
	if after := len(status.connectedCalls()); after != signals {
		t.Errorf("reconnect fired after Disconnect: %d -> %d signals", signals, after)
	}
}
