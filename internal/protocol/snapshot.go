package protocol

import (
	"fmt"

	"github.com/lox/tableview/internal/deck"
)

// Phase identifies the stage of the current hand
type Phase string

const (
	PhaseWaiting  Phase = "WAITING"
	PhasePreflop  Phase = "PREFLOP"
	PhaseFlop     Phase = "FLOP"
	PhaseTurn     Phase = "TURN"
	PhaseRiver    Phase = "RIVER"
	PhaseShowdown Phase = "SHOWDOWN"
)

// PlayerStatus identifies a player's standing within the current hand
type PlayerStatus string

const (
	StatusActive PlayerStatus = "ACTIVE"
	StatusFolded PlayerStatus = "FOLDED"
	StatusAllIn  PlayerStatus = "ALL_IN"
)

// MaxSeats is the size of the visual seat ring. Snapshots with more
// occupied seats than this are rejected at the boundary.
const MaxSeats = 6

// Snapshot is a complete, authoritative description of table state at
// one instant. It is received whole and replaces any prior snapshot;
// fields are never merged.
type Snapshot struct {
	Seq            uint64       `json:"seq,omitempty"`
	Phase          Phase        `json:"phase"`
	Pots           []Pot        `json:"pots"`
	Players        []PlayerView `json:"players"`
	CommunityCards []deck.Card  `json:"community_cards"`
	CurrentBet     int          `json:"current_bet"`
	MinRaise       int          `json:"min_raise"`
	LastAction     *LastAction  `json:"last_action,omitempty"`
}

// Pot is one pot on the table. The first pot is conventionally named
// "Main Pot"; any further pots are all-in side pots.
type Pot struct {
	Name            string   `json:"name"`
	Amount          int      `json:"amount"`
	EligiblePlayers []string `json:"eligible_players"`
}

// PlayerView is the server's view of one seated player
type PlayerView struct {
	Name         string       `json:"name"`
	Stack        int          `json:"stack"`
	BetThisRound int          `json:"bet_this_round"`
	Status       PlayerStatus `json:"status"`
	IsTurn       bool         `json:"is_turn"`
	IsDealer     bool         `json:"is_dealer"`
	Hand         []deck.Card  `json:"hand"`
}

// LastAction describes the most recent action taken by anyone
type LastAction struct {
	PlayerName string `json:"player_name"`
	Action     string `json:"action"`
	Amount     *int   `json:"amount,omitempty"`
}

// TotalPot sums all pot amounts
func (s *Snapshot) TotalPot() int {
	total := 0
	for _, pot := range s.Pots {
		total += pot.Amount
	}
	return total
}

// Player returns the view for the named player, or nil if absent
func (s *Snapshot) Player(name string) *PlayerView {
	for i := range s.Players {
		if s.Players[i].Name == name {
			return &s.Players[i]
		}
	}
	return nil
}

// PlayerIndex returns the server index of the named player, or -1
func (s *Snapshot) PlayerIndex(name string) int {
	for i := range s.Players {
		if s.Players[i].Name == name {
			return i
		}
	}
	return -1
}

var validPhases = map[Phase]bool{
	PhaseWaiting:  true,
	PhasePreflop:  true,
	PhaseFlop:     true,
	PhaseTurn:     true,
	PhaseRiver:    true,
	PhaseShowdown: true,
}

var validStatuses = map[PlayerStatus]bool{
	StatusActive: true,
	StatusFolded: true,
	StatusAllIn:  true,
}

// Validate checks a snapshot against the wire contract before any use.
// A snapshot that fails validation is discarded whole.
func (s *Snapshot) Validate() error {
	if !validPhases[s.Phase] {
		return fmt.Errorf("%w: unknown phase %q", ErrInvalidSnapshot, s.Phase)
	}

	if len(s.Players) > MaxSeats {
		return fmt.Errorf("%w: %d players exceeds %d seats", ErrInvalidSnapshot, len(s.Players), MaxSeats)
	}

	if len(s.CommunityCards) > 5 {
		return fmt.Errorf("%w: %d community cards", ErrInvalidSnapshot, len(s.CommunityCards))
	}

	if s.CurrentBet < 0 {
		return fmt.Errorf("%w: negative current_bet %d", ErrInvalidSnapshot, s.CurrentBet)
	}
	if s.MinRaise < 0 {
		return fmt.Errorf("%w: negative min_raise %d", ErrInvalidSnapshot, s.MinRaise)
	}

	for _, pot := range s.Pots {
		if pot.Amount < 0 {
			return fmt.Errorf("%w: pot %q has negative amount %d", ErrInvalidSnapshot, pot.Name, pot.Amount)
		}
	}

	seen := make(map[string]bool, len(s.Players))
	turns := 0
	for _, p := range s.Players {
		if p.Name == "" {
			return fmt.Errorf("%w: player with empty name", ErrInvalidSnapshot)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate player %q", ErrInvalidSnapshot, p.Name)
		}
		seen[p.Name] = true

		if !validStatuses[p.Status] {
			return fmt.Errorf("%w: player %q has unknown status %q", ErrInvalidSnapshot, p.Name, p.Status)
		}
		if p.Stack < 0 {
			return fmt.Errorf("%w: player %q has negative stack %d", ErrInvalidSnapshot, p.Name, p.Stack)
		}
		if p.BetThisRound < 0 {
			return fmt.Errorf("%w: player %q has negative bet %d", ErrInvalidSnapshot, p.Name, p.BetThisRound)
		}
		if p.BetThisRound > s.CurrentBet && p.Status != StatusAllIn {
			return fmt.Errorf("%w: player %q bet %d exceeds current_bet %d", ErrInvalidSnapshot, p.Name, p.BetThisRound, s.CurrentBet)
		}
		if n := len(p.Hand); n != 0 && n != 2 {
			return fmt.Errorf("%w: player %q has %d hole cards", ErrInvalidSnapshot, p.Name, n)
		}

		if p.IsTurn {
			turns++
		}
	}

	if turns > 1 {
		return fmt.Errorf("%w: %d players marked as acting", ErrInvalidSnapshot, turns)
	}

	return nil
}
