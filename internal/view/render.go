package view

import (
	"github.com/lox/tableview/internal/deck"
	"github.com/lox/tableview/internal/protocol"
)

// SeatView is the render instruction for one visual seat slot
type SeatView struct {
	Name         string
	Stack        int
	BetThisRound int
	Status       protocol.PlayerStatus
	IsTurn       bool
	IsDealer     bool
	IsLocal      bool

	// Hand holds face-up cards; ShowBacks asks for two card backs
	// instead (unknown hand, player still in)
	Hand      []deck.Card
	ShowBacks bool
}

// ActionPanel is the render instruction for the action surface
type ActionPanel struct {
	Enabled bool

	// CheckCallLabel is "Check" or "Call $n" depending on the call path
	CheckCallLabel string

	// BetRaiseLabel is "Bet" or "Raise"
	BetRaiseLabel string

	CallAmount int
	MinRaise   int
	MaxBet     int

	// Composition state
	Composing    bool
	PendingBet   int
	ConfirmLabel string
}

// RenderState is the full set of render instructions produced for each
// inbound event. It is a passive value: the rendering layer draws it
// and never reaches back into the core.
type RenderState struct {
	Connected  bool
	Phase      protocol.Phase
	PhaseLabel string

	Seats          [NumSeats]*SeatView
	Pots           []protocol.Pot
	CommunityCards []deck.Card

	Panel ActionPanel

	// Notices is the running table log (connection notes, last actions)
	Notices []string

	// ErrorMessage is a blocking notice from the remote peer
	ErrorMessage string

	// GameOver locks the table until the next hand is started
	GameOver bool
	Winners  []protocol.Winner
}

// phaseLabels maps phases to their display text
var phaseLabels = map[protocol.Phase]string{
	protocol.PhaseWaiting:  "WAITING FOR PLAYERS",
	protocol.PhasePreflop:  "PREFLOP",
	protocol.PhaseFlop:     "FLOP",
	protocol.PhaseTurn:     "TURN",
	protocol.PhaseRiver:    "RIVER",
	protocol.PhaseShowdown: "SHOWDOWN",
}

// PhaseLabel returns the display text for a phase
func PhaseLabel(phase protocol.Phase) string {
	if label, ok := phaseLabels[phase]; ok {
		return label
	}
	return string(phase)
}
