package view

import "github.com/lox/tableview/internal/protocol"

// Resolution is everything the action surface needs to know about the
// local user's standing, derived purely from the latest snapshot. The
// server remains the authority on legality; these numbers only shape
// what the user is shown and allowed to compose.
type Resolution struct {
	// Seated is false for spectators; every other field is then zero
	Seated bool

	// IsMyTurn is true iff the snapshot names the local user as acting
	IsMyTurn bool

	// MyCurrentBet is the local user's bet_this_round
	MyCurrentBet int

	// CallAmount is current_bet - MyCurrentBet. Positive means the
	// zero-cost action is a call; zero or negative means a check.
	CallAmount int

	// MinRaise is the server-supplied minimum total bet or raise
	MinRaise int

	// MaxBet is stack + MyCurrentBet, the all-in total for this round
	MaxBet int

	// PanelEnabled gates the whole action surface
	PanelEnabled bool
}

// Resolve derives the local user's turn state and bet bounds from a
// snapshot. A spectator resolves to safe zero values with the panel
// disabled.
func Resolve(snap *protocol.Snapshot, localName string) Resolution {
	if snap == nil {
		return Resolution{}
	}

	me := snap.Player(localName)
	if me == nil {
		return Resolution{}
	}

	res := Resolution{
		Seated:       true,
		IsMyTurn:     me.IsTurn,
		MyCurrentBet: me.BetThisRound,
		CallAmount:   snap.CurrentBet - me.BetThisRound,
		MinRaise:     snap.MinRaise,
		MaxBet:       me.Stack + me.BetThisRound,
	}
	res.PanelEnabled = res.IsMyTurn && snap.Phase != protocol.PhaseShowdown

	return res
}

// CallPathActive reports whether the zero-cost action is a call rather
// than a check. It also decides whether a composed amount is framed as
// a raise or a bet.
func (r Resolution) CallPathActive() bool {
	return r.CallAmount > 0
}
