// Package transport maintains the single logical push connection to the
// generation engine's progress stream and delivers decoded, typed events to
// its handler. Reconnection after a lost connection uses one flat delay; a
// close fired while an attempt is already pending never schedules a second.
package transport

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"studio/internal/domain"
)

// DefaultReconnectDelay is the flat wait between a lost connection and the
// next dial attempt.
const DefaultReconnectDelay = 5 * time.Second

var errChannelClosed = errors.New("transport: channel closed")

type Options struct {
	URL            string
	ReconnectDelay time.Duration
	Logger         *zerolog.Logger
	Dialer         *websocket.Dialer
}

// Channel is the push channel. The handler is wired once at construction and
// invoked from the read loop goroutine, one event at a time.
type Channel struct {
	url     string
	delay   time.Duration
	logger  zerolog.Logger
	dialer  *websocket.Dialer
	handler func(Event)

	mu        sync.Mutex
	conn      *websocket.Conn
	state     domain.TransportState
	reconnect *time.Timer
	done      bool
}

func New(opts Options, handler func(Event)) (*Channel, error) {
	if opts.URL == "" {
		return nil, errors.New("transport: url is required")
	}
	if handler == nil {
		return nil, errors.New("transport: handler is required")
	}
	delay := opts.ReconnectDelay
	if delay <= 0 {
		delay = DefaultReconnectDelay
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Channel{
		url:     opts.URL,
		delay:   delay,
		logger:  logger,
		dialer:  dialer,
		handler: handler,
		state:   domain.TransportClosed,
	}, nil
}

// State returns the current connection lifecycle state.
func (c *Channel) State() domain.TransportState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect dials the push endpoint. Calling it while a connection is live is
// a no-op; a failed dial schedules the usual reconnect attempt.
func (c *Channel) Connect() error {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return errChannelClosed
	}
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}
	c.state = domain.TransportConnecting
	c.mu.Unlock()

	conn, resp, err := c.dialer.Dial(c.url, nil)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		c.logger.Warn().Err(err).Str("url", c.url).Msg("transport: dial failed")
		c.mu.Lock()
		c.state = domain.TransportClosed
		c.scheduleReconnectLocked()
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		conn.Close()
		return errChannelClosed
	}
	c.conn = conn
	c.state = domain.TransportOpen
	c.mu.Unlock()

	c.logger.Info().Str("url", c.url).Msg("transport: connected")
	go c.readLoop(conn)
	return nil
}

// Close tears the channel down for good. The reconnect machinery is detached
// before the socket is closed so the close event cannot schedule a dial
// against a stale address.
func (c *Channel) Close() {
	c.mu.Lock()
	c.done = true
	if c.reconnect != nil {
		c.reconnect.Stop()
		c.reconnect = nil
	}
	conn := c.conn
	c.conn = nil
	c.state = domain.TransportClosed
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleClose(conn, err)
			return
		}
		evt, err := Decode(data)
		if err != nil {
			// A malformed or unrecognized message does not affect the
			// connection or the next message.
			c.logger.Debug().Err(err).Msg("transport: dropped message")
			continue
		}
		c.handler(evt)
	}
}

func (c *Channel) handleClose(conn *websocket.Conn, cause error) {
	c.mu.Lock()
	if c.conn != conn {
		// Explicit teardown or a newer connection already took over.
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.state = domain.TransportClosed
	if !c.done {
		c.scheduleReconnectLocked()
	}
	c.mu.Unlock()
	c.logger.Warn().Err(cause).Msg("transport: connection closed")
}

// scheduleReconnectLocked arms at most one pending reconnect attempt.
// Callers must hold c.mu.
func (c *Channel) scheduleReconnectLocked() {
	if c.reconnect != nil {
		return
	}
	c.state = domain.TransportReconnectScheduled
	c.reconnect = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		c.reconnect = nil
		if c.done || c.conn != nil {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
		// Connect logs and re-arms the timer on failure.
		_ = c.Connect()
	})
}
