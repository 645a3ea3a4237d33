package connection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Video-AI-Midias/farmaeasy-notify/internal/config"
)

// Client represents a single WebSocket connection to the push endpoint.
type Client interface {
	// Connect establishes the WebSocket connection.
	Connect(ctx context.Context) error

	// Close closes the connection with the given closure code. Closing
	// suppresses the Closed event: it is the intentional path.
	Close(code int) error

	// Send writes one text frame to the connection.
	Send(data []byte) error

	// Frames returns the channel of inbound frames, in delivery order.
	Frames() <-chan []byte

	// Closed delivers at most one event describing an abnormal closure.
	Closed() <-chan CloseEvent
}

// client implements the Client interface over gorilla/websocket.
type client struct {
	url    string
	cfg    config.ConnectionConfig
	logger *slog.Logger

	conn *websocket.Conn

	frames chan []byte
	closed chan CloseEvent
	done   chan struct{}

	// Write serialization
	writeMu sync.Mutex

	mu        sync.Mutex
	connected bool
	shut      bool
}

// NewClient creates a new WebSocket client for the given endpoint URL.
func NewClient(url string, cfg config.ConnectionConfig, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &client{
		url:    url,
		cfg:    cfg,
		logger: logger,
		frames: make(chan []byte, cfg.FrameBufferSize),
		closed: make(chan CloseEvent, 1),
		done:   make(chan struct{}),
	}
}

// Connect establishes the WebSocket connection.
func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.shut {
		c.mu.Unlock()
		return ErrAlreadyClosed
	}
	c.mu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: c.cfg.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readLoop()

	c.logger.Debug("websocket connected")
	return nil
}

// Close closes the connection with the given closure code.
func (c *client) Close(code int) error {
	c.mu.Lock()
	if c.shut {
		c.mu.Unlock()
		return nil
	}
	c.shut = true
	c.connected = false
	c.mu.Unlock()

	// Signal the read loop that this closure is intentional.
	close(c.done)

	if c.conn != nil {
		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(code, ""),
			time.Now().Add(time.Second),
		)
		return c.conn.Close()
	}

	return nil
}

// Send writes one text frame.
func (c *client) Send(data []byte) error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return ErrNotConnected
	}
	c.mu.Unlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Frames returns the inbound frame channel.
func (c *client) Frames() <-chan []byte {
	return c.frames
}

// Closed returns the closure event channel.
func (c *client) Closed() <-chan CloseEvent {
	return c.closed
}

// readLoop reads frames from the WebSocket until the connection closes.
// Frames are delivered strictly in the order the transport produced them.
func (c *client) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			// Ignore errors after Close() was called.
			select {
			case <-c.done:
				return
			default:
			}

			c.mu.Lock()
			c.connected = false
			c.mu.Unlock()

			ev := CloseEvent{
				Code:   websocket.CloseAbnormalClosure,
				Reason: err.Error(),
			}
			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				ev.Code = ce.Code
				ev.Reason = ce.Text
			}

			select {
			case c.closed <- ev:
			default:
			}
			return
		}

		select {
		case c.frames <- data:
		case <-c.done:
			return
		}
	}
}
