package view

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/tableview/internal/protocol"
)

// Synchronizer is the single dispatcher between the remote engine and
// the rendering layer. It owns the session state and the latest
// snapshot, re-derives everything on each inbound event, and produces
// the full set of render instructions. Events are applied in arrival
// order, each to completion; there is no other ordering device.
type Synchronizer struct {
	logger  *log.Logger
	session *Session

	snap    *protocol.Snapshot
	lastSeq uint64

	connected bool
	notices   []string
	errMsg    string

	gameOver bool
	winners  []protocol.Winner
}

// NewSynchronizer creates a synchronizer for the named local user
func NewSynchronizer(localName string, logger *log.Logger) *Synchronizer {
	return &Synchronizer{
		logger:  logger.WithPrefix("view"),
		session: NewSession(localName),
	}
}

// Session exposes the local session state for the action surface
func (s *Synchronizer) Session() *Session {
	return s.session
}

// Apply processes one inbound event and returns the resulting render
// state. Every error is terminal to that event only; the synchronizer
// keeps accepting whatever comes next.
func (s *Synchronizer) Apply(ev Event) RenderState {
	switch ev := ev.(type) {
	case ConnectedEvent:
		s.connected = true
		s.addNotice("Connected to server")

	case DisconnectedEvent:
		s.connected = false
		s.addNotice("Disconnected from server")

	case StateUpdateEvent:
		s.applySnapshot(ev.Snapshot)

	case ErrorEvent:
		s.errMsg = ev.Message
		s.addNotice("Error: " + ev.Message)

	case GameOverEvent:
		s.gameOver = true
		s.winners = ev.Winners
		s.session.lockTurn()
		s.session.resetComposition()

	default:
		s.logger.Warn("unhandled event", "event", fmt.Sprintf("%T", ev))
	}

	return s.Render()
}

// applySnapshot replaces the stored snapshot wholesale and re-derives
// the session's turn cache. Out-of-order snapshots (by sequence
// number, when the peer supplies one) are dropped rather than
// reconciled: last-write-wins within the ordered stream.
func (s *Synchronizer) applySnapshot(snap *protocol.Snapshot) {
	if snap == nil {
		return
	}

	if snap.Seq != 0 && snap.Seq <= s.lastSeq {
		s.logger.Debug("dropping stale snapshot", "seq", snap.Seq, "last", s.lastSeq)
		return
	}
	if snap.Seq != 0 {
		s.lastSeq = snap.Seq
	}

	s.snap = snap
	s.errMsg = ""

	// A fresh hand clears the terminal winners overlay
	if s.gameOver && snap.Phase != protocol.PhaseShowdown {
		s.gameOver = false
		s.winners = nil
	}

	res := Resolve(snap, s.session.LocalName)
	s.session.isMyTurn = res.IsMyTurn
	if !res.PanelEnabled {
		// Discard, not hide: a dead panel keeps no half-composed bet
		s.session.resetComposition()
	}

	if la := snap.LastAction; la != nil {
		s.addNotice(formatLastAction(la))
	}
}

// Intent returns an action intent builder bound to the current
// snapshot and resolution. While the winners overlay is up no gesture
// produces a message.
func (s *Synchronizer) Intent() *IntentBuilder {
	res := Resolve(s.snap, s.session.LocalName)
	if s.gameOver {
		res.PanelEnabled = false
	}

	return &IntentBuilder{
		session: s.session,
		snap:    s.snap,
		res:     res,
	}
}

// Render recomputes the full render state from the stored snapshot and
// session. It is safe to call at any time, including before the first
// snapshot arrives.
func (s *Synchronizer) Render() RenderState {
	state := RenderState{
		Connected:    s.connected,
		Notices:      s.notices,
		ErrorMessage: s.errMsg,
		GameOver:     s.gameOver,
		Winners:      s.winners,
	}

	if s.snap == nil {
		state.Phase = protocol.PhaseWaiting
		state.PhaseLabel = PhaseLabel(protocol.PhaseWaiting)
		return state
	}

	state.Phase = s.snap.Phase
	state.PhaseLabel = PhaseLabel(s.snap.Phase)
	state.Pots = s.snap.Pots
	state.CommunityCards = s.snap.CommunityCards

	assigned := AssignSeats(s.snap.Players, s.session.LocalName)
	for slot, p := range assigned {
		if p == nil {
			continue
		}
		state.Seats[slot] = &SeatView{
			Name:         p.Name,
			Stack:        p.Stack,
			BetThisRound: p.BetThisRound,
			Status:       p.Status,
			IsTurn:       p.IsTurn,
			IsDealer:     p.IsDealer,
			IsLocal:      p.Name == s.session.LocalName,
			Hand:         p.Hand,
			ShowBacks:    len(p.Hand) == 0 && p.Status != protocol.StatusFolded,
		}
	}

	state.Panel = s.renderPanel()
	return state
}

// renderPanel derives the action panel instructions. The panel is live
// only when the session still holds the turn: the optimistic lock after
// sending an action wins over what the stale snapshot says.
func (s *Synchronizer) renderPanel() ActionPanel {
	res := Resolve(s.snap, s.session.LocalName)

	panel := ActionPanel{
		Enabled:    s.session.isMyTurn && res.PanelEnabled && !s.gameOver,
		CallAmount: res.CallAmount,
		MinRaise:   res.MinRaise,
		MaxBet:     res.MaxBet,
	}

	if res.CallPathActive() {
		panel.CheckCallLabel = fmt.Sprintf("Call $%d", res.CallAmount)
		panel.BetRaiseLabel = "Raise"
	} else {
		panel.CheckCallLabel = "Check"
		panel.BetRaiseLabel = "Bet"
	}

	if panel.Enabled && s.session.composing {
		panel.Composing = true
		panel.PendingBet = s.session.pendingBet
		if res.CallPathActive() {
			panel.ConfirmLabel = fmt.Sprintf("Raise to $%d", s.session.pendingBet)
		} else {
			panel.ConfirmLabel = fmt.Sprintf("Bet $%d", s.session.pendingBet)
		}
	}

	return panel
}

func (s *Synchronizer) addNotice(notice string) {
	s.notices = append(s.notices, notice)
}

// formatLastAction renders the terminal last-action notice, e.g.
// "Alice raise $200" or "Bob fold"
func formatLastAction(la *protocol.LastAction) string {
	if la.Amount != nil {
		return fmt.Sprintf("%s %s $%d", la.PlayerName, la.Action, *la.Amount)
	}
	return fmt.Sprintf("%s %s", la.PlayerName, la.Action)
}
