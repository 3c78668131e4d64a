package view

// Session holds the local user's state that outlives any single
// snapshot: who they are, whether they may act, and the bet amount they
// are composing. The Synchronizer owns the session; the IntentBuilder
// is the only other component allowed to mutate it.
type Session struct {
	LocalName string

	// isMyTurn is a derived cache. It is re-derived from every snapshot
	// and cleared the instant an action is sent, which stops a second
	// action being composed before the server's next snapshot arrives.
	isMyTurn bool

	// pendingBet is the amount being composed for a bet or raise
	pendingBet int
	composing  bool
}

// NewSession creates session state for the named local user
func NewSession(localName string) *Session {
	return &Session{LocalName: localName}
}

// IsMyTurn reports whether the local user may currently act
func (s *Session) IsMyTurn() bool {
	return s.isMyTurn
}

// PendingBet returns the amount currently being composed
func (s *Session) PendingBet() int {
	return s.pendingBet
}

// Composing reports whether a bet composition is in progress
func (s *Session) Composing() bool {
	return s.composing
}

// lockTurn clears the turn flag after an action is sent. Only a
// subsequent snapshot naming the local user re-enables it.
func (s *Session) lockTurn() {
	s.isMyTurn = false
}

// resetComposition discards any in-progress bet composition
func (s *Session) resetComposition() {
	s.composing = false
	s.pendingBet = 0
}
