package binance

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// State is the connection lifecycle state of a WSClient.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	DefaultMaxReconnectAttempts = 5
	DefaultReconnectDelay       = 3 * time.Second
)

// StatusSink receives connection lifecycle signals from the client.
type StatusSink interface {
	SetConnected(connected bool)
	SetStreamError(message string)
}

// WSClient owns one trade-stream connection at a time, decodes nothing itself
// and hands raw frames to the registered handler. A dropped connection is
// re-established after a fixed delay, up to a hard attempt ceiling; once the
// ceiling is exceeded the client stays failed until Connect is called again.
type WSClient struct {
	baseURL     string
	status      StatusSink
	logger      *zap.Logger
	maxAttempts int
	delay       time.Duration

	mu       sync.Mutex
	state    State
	symbols  []string
	conn     *websocket.Conn
	handler  func([]byte)
	attempts int
	retry    *time.Timer
	gen      uint64 // bumped on every new connection or teardown; stale loops check it
}

// NewWSClient creates a stream client reporting lifecycle changes to status.
func NewWSClient(baseURL string, status StatusSink, logger *zap.Logger) *WSClient {
	return &WSClient{
		baseURL:     baseURL,
		status:      status,
		logger:      logger,
		maxAttempts: DefaultMaxReconnectAttempts,
		delay:       DefaultReconnectDelay,
	}
}

// SetRetryPolicy overrides the reconnect ceiling and delay.
func (c *WSClient) SetRetryPolicy(maxAttempts int, delay time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if maxAttempts > 0 {
		c.maxAttempts = maxAttempts
	}
	if delay > 0 {
		c.delay = delay
	}
}

// SetMessageHandler sets the function invoked for every inbound frame.
func (c *WSClient) SetMessageHandler(h func([]byte)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
}

// State reports the current lifecycle state.
func (c *WSClient) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect records the symbol set and opens the stream connection. Any previous
// connection or pending reconnect is torn down first, so Connect also serves
// as the external re-initialize path after permanent failure. A failed first
// dial is returned to the caller but still enters the reconnect cycle.
func (c *WSClient) Connect(symbols []string) error {
	c.mu.Lock()
	c.teardownLocked()
	c.symbols = append([]string(nil), symbols...)
	c.attempts = 0
	c.state = StateConnecting
	c.mu.Unlock()

	return c.dial()
}

// Disconnect cancels any pending reconnect, closes the active connection and
// clears the handle. Safe to call in any state, including repeatedly.
func (c *WSClient) Disconnect() {
	c.mu.Lock()
	c.teardownLocked()
	c.state = StateDisconnected
	c.mu.Unlock()
}

// teardownLocked invalidates running read loops, stops the retry timer and
// closes the connection. Callers hold c.mu.
func (c *WSClient) teardownLocked() {
	c.gen++
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *WSClient) dial() error {
	c.mu.Lock()
	if c.state != StateConnecting {
		c.mu.Unlock()
		return nil
	}
	url := StreamURL(c.baseURL, c.symbols)
	gen := c.gen
	c.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		c.logger.Error("stream dial failed", zap.String("url", url), zap.Error(err))
		c.dropped(gen, err)
		return err
	}

	c.mu.Lock()
	if gen != c.gen || c.state != StateConnecting {
		// Torn down while the dial was in flight.
		c.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	c.gen++
	c.conn = conn
	c.state = StateConnected
	c.attempts = 0
	go c.readLoop(conn, c.gen)
	c.mu.Unlock()

	c.logger.Info("stream connected", zap.String("url", url))
	c.status.SetConnected(true)
	return nil
}

func (c *WSClient) readLoop(conn *websocket.Conn, gen uint64) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			c.dropped(gen, err)
			return
		}

		c.mu.Lock()
		h := c.handler
		live := gen == c.gen
		c.mu.Unlock()
		if !live {
			return // connection superseded
		}
		if h != nil {
			h(msg)
		}
	}
}

// dropped handles the loss of the connection identified by gen, whether from
// a failed dial or a read error. Stale generations are ignored so a deliberate
// Disconnect never triggers a reconnect.
func (c *WSClient) dropped(gen uint64, cause error) {
	c.mu.Lock()
	if gen != c.gen || c.state == StateDisconnected || c.state == StateFailed {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.mu.Unlock()

	c.status.SetConnected(false)
	if cause != nil && !isNormalClose(cause) {
		c.logger.Warn("stream connection lost", zap.Error(cause))
		c.status.SetStreamError(cause.Error())
	} else {
		c.logger.Info("stream connection closed")
	}

	c.retryOrFail()
}

func (c *WSClient) retryOrFail() {
	c.mu.Lock()
	if c.state == StateDisconnected || c.state == StateFailed {
		c.mu.Unlock()
		return
	}
	c.attempts++
	if c.attempts > c.maxAttempts {
		c.state = StateFailed
		max := c.maxAttempts
		c.mu.Unlock()

		c.logger.Error("stream permanently unavailable", zap.Int("attempts", max))
		c.status.SetStreamError(fmt.Sprintf("unable to establish stream connection after %d attempts", max))
		return
	}
	attempt, max, delay := c.attempts, c.maxAttempts, c.delay
	c.state = StateReconnecting
	c.retry = time.AfterFunc(c.delay, c.redial)
	c.mu.Unlock()

	c.logger.Info("scheduling reconnect",
		zap.Int("attempt", attempt),
		zap.Int("max", max),
		zap.Duration("delay", delay))
}

func (c *WSClient) redial() {
	c.mu.Lock()
	if c.state != StateReconnecting {
		c.mu.Unlock()
		return
	}
	c.retry = nil
	c.state = StateConnecting
	c.mu.Unlock()

	// A failed redial routes back through dropped and re-enters the retry path.
	_ = c.dial()
}

func isNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
