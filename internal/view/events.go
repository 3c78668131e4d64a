package view

import "github.com/lox/tableview/internal/protocol"

// Event is the inbound event sum type consumed by the Synchronizer.
// One dispatcher processes every kind of event in arrival order, which
// keeps the whole core testable by feeding it an event sequence and
// asserting on the resulting render state.
type Event interface {
	isEvent()
}

// ConnectedEvent is synthesized when the transport comes up
type ConnectedEvent struct{}

// DisconnectedEvent is synthesized when the transport drops
type DisconnectedEvent struct{}

// StateUpdateEvent carries a full snapshot from the remote engine
type StateUpdateEvent struct {
	Snapshot *protocol.Snapshot
}

// ErrorEvent carries a remote-reported error, surfaced verbatim
type ErrorEvent struct {
	Message string
}

// GameOverEvent carries the end-of-hand winners list
type GameOverEvent struct {
	Winners []protocol.Winner
}

func (ConnectedEvent) isEvent()    {}
func (DisconnectedEvent) isEvent() {}
func (StateUpdateEvent) isEvent()  {}
func (ErrorEvent) isEvent()        {}
func (GameOverEvent) isEvent()     {}
