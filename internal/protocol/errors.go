package protocol

import "errors"

var (
	// ErrInvalidSnapshot is returned when an inbound snapshot violates
	// the wire contract
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrUnknownMessageType is returned when an inbound frame carries an
	// unrecognised type tag
	ErrUnknownMessageType = errors.New("unknown message type")
)
