package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/tableview/internal/protocol"
	"github.com/lox/tableview/internal/view"
)

// ErrEmptyUsername is returned when a join is attempted without a
// username; nothing is sent to the server in that case.
var ErrEmptyUsername = errors.New("username is required")

const writeTimeout = 10 * time.Second

// Client is the WebSocket transport collaborator. Inbound frames are
// decoded, validated at the boundary and delivered as view events on a
// single channel in arrival order, preserving the core's run-to-
// completion model.
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *protocol.Message
	events    chan view.Event
	logger    *log.Logger
	clock     quartz.Clock

	pingInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex
	connected bool
	closeOnce sync.Once
}

// NewClient creates a transport client for the given server URL
func NewClient(serverURL string, pingInterval time.Duration, logger *log.Logger) *Client {
	return NewClientWithClock(serverURL, pingInterval, logger, quartz.NewReal())
}

// NewClientWithClock creates a client with an injectable clock so that
// ping timing can be driven from tests
func NewClientWithClock(serverURL string, pingInterval time.Duration, logger *log.Logger, clock quartz.Clock) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL:    serverURL,
		send:         make(chan *protocol.Message, 64),
		events:       make(chan view.Event, 64),
		logger:       logger.WithPrefix("client"),
		clock:        clock,
		pingInterval: pingInterval,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Events returns the inbound event stream. The channel is closed when
// the connection is torn down.
func (c *Client) Events() <-chan view.Event {
	return c.events
}

// Connect establishes the WebSocket connection and starts the pumps
func (c *Client) Connect() error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"

	c.logger.Info("Connecting to server", "url", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	c.deliver(view.ConnectedEvent{})

	g, ctx := errgroup.WithContext(c.ctx)
	g.Go(func() error { return c.readPump(ctx) })
	g.Go(func() error { return c.writePump(ctx) })

	go func() {
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Error("Connection lost", "error", err)
		}

		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()

		c.deliver(view.DisconnectedEvent{})
		c.cancel()
		close(c.events)
	}()

	return nil
}

// Disconnect closes the connection and stops the pumps
func (c *Client) Disconnect() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.conn != nil {
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = c.conn.Close()
			c.connected = false
		}

		c.logger.Info("Disconnected from server")
	})
	return nil
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Join sends the join message. An empty username is rejected locally
// and nothing goes over the wire.
func (c *Client) Join(username string, isAI bool) error {
	if username == "" {
		return ErrEmptyUsername
	}

	msg, err := protocol.NewMessage(protocol.MessageTypeJoin, protocol.JoinData{
		Username: username,
		IsAI:     isAI,
	})
	if err != nil {
		return err
	}
	return c.sendMessage(msg)
}

// Start asks the server to start the game, or to deal the next hand
func (c *Client) Start() error {
	msg, err := protocol.NewMessage(protocol.MessageTypeStart, nil)
	if err != nil {
		return err
	}
	return c.sendMessage(msg)
}

// SendAction transmits one confirmed player action
func (c *Client) SendAction(action *protocol.ActionData) error {
	msg, err := protocol.NewMessage(protocol.MessageTypePlayerAction, action)
	if err != nil {
		return err
	}
	return c.sendMessage(msg)
}

func (c *Client) sendMessage(msg *protocol.Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		return fmt.Errorf("send buffer full")
	}
}

// readPump decodes inbound frames into view events
func (c *Client) readPump(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				return fmt.Errorf("read: %w", err)
			}
			return nil
		}

		ev, err := c.decodeEvent(&msg)
		if err != nil {
			// Boundary rejection: a malformed frame is dropped whole,
			// the stream keeps flowing
			c.logger.Warn("Dropping invalid message", "type", msg.Type, "error", err)
			continue
		}
		if ev == nil {
			continue
		}

		c.deliver(ev)
	}
}

// decodeEvent validates an inbound frame and converts it to a view
// event. Unknown message types return (nil, nil) and are ignored.
func (c *Client) decodeEvent(msg *protocol.Message) (view.Event, error) {
	switch msg.Type {
	case protocol.MessageTypeStateUpdate:
		var snap protocol.Snapshot
		if err := json.Unmarshal(msg.Data, &snap); err != nil {
			return nil, err
		}
		if err := snap.Validate(); err != nil {
			return nil, err
		}
		return view.StateUpdateEvent{Snapshot: &snap}, nil

	case protocol.MessageTypeError:
		var data protocol.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, err
		}
		return view.ErrorEvent{Message: data.Message}, nil

	case protocol.MessageTypeGameOver:
		var data protocol.GameOverData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, err
		}
		return view.GameOverEvent{Winners: data.Winners}, nil

	default:
		c.logger.Debug("No handler for message type", "type", msg.Type)
		return nil, nil
	}
}

// writePump serialises outbound messages and keeps the connection
// alive with pings
func (c *Client) writePump(ctx context.Context) error {
	ticker := c.clock.NewTicker(c.pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(msg); err != nil {
				return fmt.Errorf("write: %w", err)
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return fmt.Errorf("ping: %w", err)
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// deliver queues an event for the dispatcher, dropping on overflow
// rather than blocking the read loop
func (c *Client) deliver(ev view.Event) {
	select {
	case c.events <- ev:
	default:
		c.logger.Warn("Event buffer full, dropping event", "event", fmt.Sprintf("%T", ev))
	}
}
