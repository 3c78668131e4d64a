package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/tableview/internal/protocol"
	"github.com/lox/tableview/internal/view"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestJoinRejectsEmptyUsername(t *testing.T) {
	c := NewClient("http://localhost:8080", time.Minute, testLogger())

	err := c.Join("", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyUsername)
}

func TestDecodeEvent(t *testing.T) {
	c := NewClient("http://localhost:8080", time.Minute, testLogger())

	t.Run("state update", func(t *testing.T) {
		snap := protocol.Snapshot{
			Phase:    protocol.PhaseWaiting,
			Players:  []protocol.PlayerView{{Name: "Alice", Status: protocol.StatusActive}},
			MinRaise: 100,
		}
		msg, err := protocol.NewMessage(protocol.MessageTypeStateUpdate, snap)
		require.NoError(t, err)

		ev, err := c.decodeEvent(msg)
		require.NoError(t, err)

		update, ok := ev.(view.StateUpdateEvent)
		require.True(t, ok)
		require.NotNil(t, update.Snapshot)
		assert.Equal(t, protocol.PhaseWaiting, update.Snapshot.Phase)
	})

	t.Run("invalid snapshot rejected at boundary", func(t *testing.T) {
		snap := protocol.Snapshot{Phase: "BRUNCH"}
		msg, err := protocol.NewMessage(protocol.MessageTypeStateUpdate, snap)
		require.NoError(t, err)

		_, err = c.decodeEvent(msg)
		require.Error(t, err)
		assert.ErrorIs(t, err, protocol.ErrInvalidSnapshot)
	})

	t.Run("error", func(t *testing.T) {
		msg, err := protocol.NewMessage(protocol.MessageTypeError, protocol.ErrorData{Message: "boom"})
		require.NoError(t, err)

		ev, err := c.decodeEvent(msg)
		require.NoError(t, err)
		assert.Equal(t, view.ErrorEvent{Message: "boom"}, ev)
	})

	t.Run("game over", func(t *testing.T) {
		data := protocol.GameOverData{Winners: []protocol.Winner{
			{Player: "Alice", Amount: 500, Hand: "Flush", PotName: "Main Pot"},
		}}
		msg, err := protocol.NewMessage(protocol.MessageTypeGameOver, data)
		require.NoError(t, err)

		ev, err := c.decodeEvent(msg)
		require.NoError(t, err)

		over, ok := ev.(view.GameOverEvent)
		require.True(t, ok)
		assert.Equal(t, data.Winners, over.Winners)
	})

	t.Run("unknown type ignored", func(t *testing.T) {
		msg := &protocol.Message{Type: "telemetry"}
		ev, err := c.decodeEvent(msg)
		require.NoError(t, err)
		assert.Nil(t, ev)
	})
}

var upgrader = websocket.Upgrader{}

func TestClientRoundTrip(t *testing.T) {
	received := make(chan protocol.Message, 8)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()

		// Push one snapshot at the client
		snap := protocol.Snapshot{
			Phase:   protocol.PhasePreflop,
			Players: []protocol.PlayerView{{Name: "Bob", Stack: 1000, Status: protocol.StatusActive, IsTurn: true}},
		}
		msg, err := protocol.NewMessage(protocol.MessageTypeStateUpdate, snap)
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(msg))

		// Then collect whatever the client sends
		for {
			var inbound protocol.Message
			if err := conn.ReadJSON(&inbound); err != nil {
				return
			}
			received <- inbound
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Minute, testLogger())
	require.NoError(t, c.Connect())
	defer func() { _ = c.Disconnect() }()

	require.NoError(t, c.Join("Bob", false))

	// First event is the synthesized connect
	ev := waitEvent(t, c)
	assert.IsType(t, view.ConnectedEvent{}, ev)

	ev = waitEvent(t, c)
	update, ok := ev.(view.StateUpdateEvent)
	require.True(t, ok)
	require.NotNil(t, update.Snapshot.Player("Bob"))

	msg := waitMessage(t, received)
	assert.Equal(t, protocol.MessageTypeJoin, msg.Type)

	var join protocol.JoinData
	require.NoError(t, json.Unmarshal(msg.Data, &join))
	assert.Equal(t, "Bob", join.Username)
}

func waitEvent(t *testing.T, c *Client) view.Event {
	t.Helper()
	select {
	case ev := <-c.Events():
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func waitMessage(t *testing.T, ch chan protocol.Message) protocol.Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
		return protocol.Message{}
	}
}
