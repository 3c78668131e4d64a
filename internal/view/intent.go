package view

import (
	"math"

	"github.com/lox/tableview/internal/protocol"
)

// IntentBuilder turns discrete user gestures into outbound action
// messages, or into bet-composition state changes that send nothing.
// A builder is bound to the snapshot and resolution current at the
// moment the Synchronizer hands it out; each confirmed gesture yields
// exactly one message and locks the turn flag until the next snapshot.
type IntentBuilder struct {
	session *Session
	snap    *protocol.Snapshot
	res     Resolution
}

// enabled gates every gesture on the action panel being live
func (b *IntentBuilder) enabled() bool {
	return b.session.isMyTurn && b.res.PanelEnabled
}

// Fold builds a fold message. Fold is always legal while the panel is
// enabled and never carries an amount.
func (b *IntentBuilder) Fold() *protocol.ActionData {
	if !b.enabled() {
		return nil
	}

	b.session.lockTurn()
	b.session.resetComposition()
	return &protocol.ActionData{Action: protocol.ActionFold}
}

// CheckOrCall builds the zero-cost action: a call while there is an
// outstanding bet, otherwise a check. Neither carries an amount.
func (b *IntentBuilder) CheckOrCall() *protocol.ActionData {
	if !b.enabled() {
		return nil
	}

	action := protocol.ActionCheck
	if b.res.CallPathActive() {
		action = protocol.ActionCall
	}

	b.session.lockTurn()
	b.session.resetComposition()
	return &protocol.ActionData{Action: action}
}

// BeginBet opens bet composition, seeding the pending amount at the
// minimum raise unless a larger amount was already composed.
func (b *IntentBuilder) BeginBet() bool {
	if !b.enabled() {
		return false
	}

	b.session.composing = true
	if b.session.pendingBet < b.res.MinRaise {
		b.session.pendingBet = b.res.MinRaise
	}
	return true
}

// SetPending records a slider-chosen amount. The control itself keeps
// the value inside [MinRaise, MaxBet]; no clamping happens here.
func (b *IntentBuilder) SetPending(amount int) {
	if !b.session.composing {
		return
	}
	b.session.pendingBet = amount
}

// PresetAllIn sets the pending amount to the all-in total for this
// round, stack plus the amount already bet.
func (b *IntentBuilder) PresetAllIn() {
	if !b.session.composing {
		return
	}
	b.session.pendingBet = b.res.MaxBet
}

// PresetPotFraction sets the pending amount to a multiple of the total
// pot, clamped into the legal range. The floor (MinRaise) is applied
// before the ceiling (MaxBet), so when MinRaise exceeds MaxBet the
// result is MaxBet: the forced all-in case.
func (b *IntentBuilder) PresetPotFraction(multiplier float64) {
	if !b.session.composing || b.snap == nil {
		return
	}

	raw := int(math.Floor(float64(b.snap.TotalPot()) * multiplier))
	if raw < b.res.MinRaise {
		raw = b.res.MinRaise
	}
	if raw > b.res.MaxBet {
		raw = b.res.MaxBet
	}
	b.session.pendingBet = raw
}

// Confirm builds the composed-amount action: a raise while there is an
// outstanding bet, otherwise a bet. The composition is cleared whether
// or not the server later accepts it.
func (b *IntentBuilder) Confirm() *protocol.ActionData {
	if !b.enabled() || !b.session.composing {
		return nil
	}

	action := protocol.ActionBet
	if b.res.CallPathActive() {
		action = protocol.ActionRaise
	}

	amount := b.session.pendingBet
	b.session.lockTurn()
	b.session.resetComposition()
	return &protocol.ActionData{Action: action, Amount: &amount}
}

// Cancel discards the pending composition without sending anything,
// returning the panel to its base choices.
func (b *IntentBuilder) Cancel() {
	b.session.resetComposition()
}

// Resolution exposes the bounds the builder was constructed with, for
// the control that renders the composition surface.
func (b *IntentBuilder) Resolution() Resolution {
	return b.res
}
