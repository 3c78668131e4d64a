package protocol

import (
	"encoding/json"
	"time"
)

// MessageType represents the type of a WebSocket message
type MessageType string

// Client to Server message types
const (
	MessageTypeJoin         MessageType = "join_game"
	MessageTypeStart        MessageType = "start_game"
	MessageTypePlayerAction MessageType = "player_action"
)

// Server to Client message types
const (
	MessageTypeStateUpdate MessageType = "game_state_update"
	MessageTypeError       MessageType = "error"
	MessageTypeGameOver    MessageType = "game_over"
)

// Message represents a WebSocket message between client and server
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
}

// NewMessage creates a new message with the given type and data
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      msgType,
		Data:      jsonData,
		Timestamp: time.Now().UTC(),
	}, nil
}

// ActionType identifies a discrete player action
type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionBet   ActionType = "bet"
	ActionRaise ActionType = "raise"
)

// Client to Server message data structures

// JoinData is sent when joining the game
type JoinData struct {
	Username string `json:"username"`
	IsAI     bool   `json:"isAI,omitempty"`
}

// ActionData is sent when the player acts. Amount is nil for fold,
// check and call; the server supplies call amounts itself.
type ActionData struct {
	Action ActionType `json:"action"`
	Amount *int       `json:"amount"`
}

// Server to Client message data structures

// ErrorData is sent when an error occurs
type ErrorData struct {
	Message string `json:"message"`
}

// Winner describes one pot award at the end of a hand
type Winner struct {
	Player  string `json:"player"`
	Amount  int    `json:"amount"`
	Hand    string `json:"hand"`
	PotName string `json:"pot_name"`
}

// GameOverData is sent when a hand reaches showdown
type GameOverData struct {
	Winners []Winner `json:"winners"`
}
