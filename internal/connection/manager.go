package connection

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Video-AI-Midias/farmaeasy-notify/internal/auth"
	"github.com/Video-AI-Midias/farmaeasy-notify/internal/bus"
	"github.com/Video-AI-Midias/farmaeasy-notify/internal/config"
	"github.com/Video-AI-Midias/farmaeasy-notify/internal/dispatch"
)

// FrameHandler consumes inbound frames. Pong replies go out on reply, the
// transport the frame arrived on.
type FrameHandler interface {
	HandleFrame(raw []byte, reply dispatch.Sender)
}

// UnreadRefresher resyncs the unread counter after a successful handshake.
type UnreadRefresher interface {
	RefreshUnreadCount(ctx context.Context) error
}

// Manager owns the single live transport and its reconnection schedule.
//
// Connect and Disconnect are synchronous triggers whose effects complete
// asynchronously; all failure is communicated through Status, never through
// returned errors.
type Manager struct {
	cfg       *config.Config
	tokens    auth.TokenSource
	handler   FrameHandler
	refresher UnreadRefresher
	bus       bus.MessageBus
	logger    *slog.Logger

	// newClient is the transport constructor, replaceable in tests.
	newClient func(url string) Client

	mu        sync.Mutex
	state     stateMachine
	client    Client
	connID    uuid.UUID
	stopWatch chan struct{}
	timer     *time.Timer
	timerGen  uint64
	dialing   bool
}

// NewManager creates a Connection Manager. The refresher and event bus are
// optional; handler must route frames for an open connection to be useful.
func NewManager(
	cfg *config.Config,
	tokens auth.TokenSource,
	handler FrameHandler,
	refresher UnreadRefresher,
	b bus.MessageBus,
	logger *slog.Logger,
) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		cfg:       cfg,
		tokens:    tokens,
		handler:   handler,
		refresher: refresher,
		bus:       b,
		logger:    logger,
	}
	m.newClient = func(url string) Client {
		return NewClient(url, cfg.Connection, logger)
	}
	return m
}

// Status returns the externally observable connection status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.status
}

// Attempts returns the current reconnect attempt counter.
func (m *Manager) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.attempt
}

// Connect opens the transport. It is idempotent: a no-op while connecting
// or connected, when no valid credential is available, or when the client
// is not authenticated. Any pending reconnect timer is cleared first.
func (m *Manager) Connect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectLocked()
}

func (m *Manager) connectLocked() {
	m.stopTimerLocked()

	if m.state.status == StatusConnecting || m.state.status == StatusConnected {
		return
	}

	token, ok := m.tokens.Token()
	if !ok || token == "" {
		m.logger.Debug("connect skipped: no valid credential")
		return
	}

	if m.dialing {
		return
	}
	m.dialing = true
	m.setStatusLocked(StatusConnecting)

	url := m.cfg.WSEndpoint(token)
	go m.dial(url)
}

// Disconnect cancels any pending reconnect timer, resets the attempt
// counter, and closes the transport with the normal-closure code. This is
// the only intentional-closure path.
func (m *Manager) Disconnect() {
	m.mu.Lock()

	m.stopTimerLocked()
	m.state.attempt = 0

	c := m.client
	m.client = nil
	m.connID = uuid.Nil
	if m.stopWatch != nil {
		close(m.stopWatch)
		m.stopWatch = nil
	}

	if m.state.status != StatusDisconnected {
		m.setStatusLocked(StatusDisconnected)
	}
	m.mu.Unlock()

	if c != nil {
		c.Close(CloseNormal)
		m.logger.Info("disconnected")
	}
}

// dial opens a transport and promotes it to the live connection.
func (m *Manager) dial(url string) {
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.Connection.HandshakeTimeout)
	defer cancel()

	c := m.newClient(url)
	err := c.Connect(ctx)

	m.mu.Lock()
	m.dialing = false

	// Disconnect() may have run while the handshake was in flight; this
	// connection is already stale, drop it.
	if m.state.status != StatusConnecting {
		m.mu.Unlock()
		if err == nil {
			c.Close(CloseNormal)
		}
		return
	}

	if err != nil {
		m.logger.Warn("connect failed", "error", err)
		m.setStatusLocked(StatusDisconnected)
		m.scheduleReconnectLocked()
		m.mu.Unlock()
		return
	}

	id := uuid.New()
	stop := make(chan struct{})
	m.client = c
	m.connID = id
	m.stopWatch = stop
	m.state.attempt = 0
	m.setStatusLocked(StatusConnected)
	m.mu.Unlock()

	m.logger.Info("connected", "conn_id", id)

	go m.watch(c, id, stop)
	go m.refreshUnread()
}

// watch routes frames and the closure event for one connection. Frames are
// handled sequentially on this goroutine, preserving delivery order. An
// intentional close never produces a closure event; stop ends the loop
// in that case.
func (m *Manager) watch(c Client, id uuid.UUID, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case raw := <-c.Frames():
			if !m.isCurrent(id) {
				return
			}
			m.handler.HandleFrame(raw, c)
		case ev := <-c.Closed():
			m.drainFrames(c, id)
			m.handleClose(id, ev)
			return
		}
	}
}

// drainFrames hands the handler any frames still buffered when the closure
// event arrived. The transport queues every received frame before emitting
// the event, so a racing close must not discard delivered frames.
func (m *Manager) drainFrames(c Client, id uuid.UUID) {
	for {
		select {
		case raw := <-c.Frames():
			if !m.isCurrent(id) {
				return
			}
			m.handler.HandleFrame(raw, c)
		default:
			return
		}
	}
}

// handleClose reacts to an abnormal closure of the identified connection.
func (m *Manager) handleClose(id uuid.UUID, ev CloseEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Stale callback from a superseded connection.
	if m.connID != id {
		return
	}

	m.client = nil
	m.connID = uuid.Nil
	m.stopWatch = nil
	m.setStatusLocked(StatusDisconnected)

	switch ev.Code {
	case CloseNormal:
		m.logger.Info("connection closed", "code", ev.Code)
	case CloseAuthRejected:
		m.logger.Warn("authentication rejected by server", "code", ev.Code, "reason", ev.Reason)
	default:
		m.logger.Warn("connection lost", "code", ev.Code, "reason", ev.Reason)
		m.scheduleReconnectLocked()
	}
}

// scheduleReconnect computes the backoff delay and arms the single
// reconnect timer. At the attempt ceiling it gives up and surfaces the
// error status instead; recovery then requires an explicit trigger.
func (m *Manager) scheduleReconnectLocked() {
	if _, ok := m.tokens.Token(); !ok {
		m.logger.Debug("reconnect skipped: not authenticated")
		return
	}

	if m.state.attempt >= m.cfg.Connection.MaxReconnectAttempts {
		m.logger.Error("reconnect attempts exhausted",
			"attempts", m.state.attempt,
		)
		m.setStatusLocked(StatusError)
		return
	}

	delay := backoffDelay(
		m.cfg.Connection.ReconnectInitialDelay,
		m.cfg.Connection.ReconnectMaxDelay,
		m.state.attempt,
	)

	m.logger.Info("scheduling reconnect",
		"attempt", m.state.attempt,
		"delay", delay,
	)

	m.stopTimerLocked()
	gen := m.timerGen
	m.timer = time.AfterFunc(delay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		// Disconnect (or a newer schedule) may have run between this
		// timer firing and the lock being acquired; the generation
		// check makes the fired timer observe the cancellation.
		if m.timerGen != gen {
			return
		}
		m.timer = nil
		m.state.attempt++
		m.connectLocked()
	})
}

// backoffDelay computes min(initial * 2^attempt, max).
func backoffDelay(initial, max time.Duration, attempt int) time.Duration {
	if attempt > 30 {
		return max
	}
	d := initial << uint(attempt)
	if d <= 0 || d > max {
		return max
	}
	return d
}

// stopTimerLocked cancels any pending reconnect timer. Bumping the
// generation also invalidates a timer that already fired but has not yet
// acquired the lock; Stop alone cannot catch that window.
func (m *Manager) stopTimerLocked() {
	m.timerGen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Manager) isCurrent(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connID == id
}

// setStatusLocked transitions the state machine and publishes the change.
// Transitions are validated centrally; a rejected transition is a bug and
// is logged, never acted on.
func (m *Manager) setStatusLocked(next Status) {
	old := m.state.status
	if err := m.state.transition(next); err != nil {
		m.logger.Error("status transition rejected", "error", err)
		return
	}
	if m.bus != nil {
		m.bus.Publish(bus.TopicStatus, StatusChange{Old: old, New: next})
	}
}

// refreshUnread resyncs the unread counter once per successful handshake,
// so the counter is correct even if frames were missed while disconnected.
func (m *Manager) refreshUnread() {
	if m.refresher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.API.Timeout)
	defer cancel()

	if err := m.refresher.RefreshUnreadCount(ctx); err != nil {
		m.logger.Warn("unread count refresh failed", "error", err)
	}
}
