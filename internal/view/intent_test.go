package view

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/tableview/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSync(localName string, snap *protocol.Snapshot) *Synchronizer {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	s := NewSynchronizer(localName, logger)
	if snap != nil {
		s.Apply(StateUpdateEvent{Snapshot: snap})
	}
	return s
}

func myTurnSnapshot(currentBet, myBet, stack, minRaise, potTotal int) *protocol.Snapshot {
	return &protocol.Snapshot{
		Phase: protocol.PhaseFlop,
		Pots:  []protocol.Pot{{Name: "Main Pot", Amount: potTotal}},
		Players: []protocol.PlayerView{
			{Name: "Other", Stack: 500, BetThisRound: currentBet, Status: protocol.StatusActive},
			{Name: "Bob", Stack: stack, BetThisRound: myBet, Status: protocol.StatusActive, IsTurn: true},
		},
		CurrentBet: currentBet,
		MinRaise:   minRaise,
	}
}

func TestFold(t *testing.T) {
	sync := newTestSync("Bob", myTurnSnapshot(50, 20, 480, 100, 70))

	action := sync.Intent().Fold()
	require.NotNil(t, action)
	assert.Equal(t, protocol.ActionFold, action.Action)
	assert.Nil(t, action.Amount)

	// Turn is locked immediately, not on server confirmation
	assert.False(t, sync.Session().IsMyTurn())
	assert.Nil(t, sync.Intent().Fold())
}

func TestCheckOrCall(t *testing.T) {
	t.Run("call when facing a bet", func(t *testing.T) {
		sync := newTestSync("Bob", myTurnSnapshot(50, 20, 480, 100, 70))

		action := sync.Intent().CheckOrCall()
		require.NotNil(t, action)
		assert.Equal(t, protocol.ActionCall, action.Action)
		assert.Nil(t, action.Amount)
		assert.False(t, sync.Session().IsMyTurn())
	})

	t.Run("check when nothing to call", func(t *testing.T) {
		sync := newTestSync("Bob", myTurnSnapshot(0, 0, 500, 100, 0))

		action := sync.Intent().CheckOrCall()
		require.NotNil(t, action)
		assert.Equal(t, protocol.ActionCheck, action.Action)
		assert.Nil(t, action.Amount)
	})
}

func TestBetComposition(t *testing.T) {
	t.Run("confirm emits raise while facing a bet", func(t *testing.T) {
		sync := newTestSync("Bob", myTurnSnapshot(50, 20, 480, 100, 70))

		intent := sync.Intent()
		require.True(t, intent.BeginBet())
		intent.SetPending(200)

		action := intent.Confirm()
		require.NotNil(t, action)
		assert.Equal(t, protocol.ActionRaise, action.Action)
		require.NotNil(t, action.Amount)
		assert.Equal(t, 200, *action.Amount)
		assert.False(t, sync.Session().IsMyTurn())
		assert.False(t, sync.Session().Composing())
	})

	t.Run("confirm emits bet with no outstanding bet", func(t *testing.T) {
		sync := newTestSync("Bob", myTurnSnapshot(0, 0, 500, 100, 0))

		intent := sync.Intent()
		require.True(t, intent.BeginBet())
		intent.SetPending(150)

		action := intent.Confirm()
		require.NotNil(t, action)
		assert.Equal(t, protocol.ActionBet, action.Action)
		require.NotNil(t, action.Amount)
		assert.Equal(t, 150, *action.Amount)
	})

	t.Run("begin seeds pending at min raise", func(t *testing.T) {
		sync := newTestSync("Bob", myTurnSnapshot(50, 20, 480, 100, 70))

		intent := sync.Intent()
		require.True(t, intent.BeginBet())
		assert.Equal(t, 100, sync.Session().PendingBet())
	})

	t.Run("cancel discards without sending", func(t *testing.T) {
		sync := newTestSync("Bob", myTurnSnapshot(50, 20, 480, 100, 70))

		intent := sync.Intent()
		require.True(t, intent.BeginBet())
		intent.SetPending(300)
		intent.Cancel()

		assert.False(t, sync.Session().Composing())
		assert.True(t, sync.Session().IsMyTurn(), "cancel must not lock the turn")
		assert.Nil(t, intent.Confirm())
	})

	t.Run("confirm without composition is a no-op", func(t *testing.T) {
		sync := newTestSync("Bob", myTurnSnapshot(50, 20, 480, 100, 70))
		assert.Nil(t, sync.Intent().Confirm())
	})
}

func TestPresetAllIn(t *testing.T) {
	sync := newTestSync("Bob", myTurnSnapshot(50, 20, 480, 100, 70))

	intent := sync.Intent()
	require.True(t, intent.BeginBet())
	intent.PresetAllIn()

	// Exactly stack + bet_this_round
	assert.Equal(t, 500, sync.Session().PendingBet())
}

func TestPresetPotFraction(t *testing.T) {
	t.Run("pot size bet clamps to max", func(t *testing.T) {
		// pots total 150, multiplier 1, minRaise 10, maxBet 80
		snap := myTurnSnapshot(0, 0, 80, 10, 0)
		snap.Pots = []protocol.Pot{
			{Name: "Main Pot", Amount: 100},
			{Name: "Side Pot 1", Amount: 50},
		}
		sync := newTestSync("Bob", snap)

		intent := sync.Intent()
		require.True(t, intent.BeginBet())
		intent.PresetPotFraction(1)

		assert.Equal(t, 80, sync.Session().PendingBet())
	})

	t.Run("half pot floors the product", func(t *testing.T) {
		snap := myTurnSnapshot(0, 0, 1000, 10, 75)
		sync := newTestSync("Bob", snap)

		intent := sync.Intent()
		require.True(t, intent.BeginBet())
		intent.PresetPotFraction(0.5)

		assert.Equal(t, 37, sync.Session().PendingBet())
	})

	t.Run("small pot raises to min raise", func(t *testing.T) {
		snap := myTurnSnapshot(0, 0, 1000, 40, 20)
		sync := newTestSync("Bob", snap)

		intent := sync.Intent()
		require.True(t, intent.BeginBet())
		intent.PresetPotFraction(0.5)

		assert.Equal(t, 40, sync.Session().PendingBet())
	})

	t.Run("min raise above max bet forces all-in", func(t *testing.T) {
		// Floor before ceiling: clamp to minRaise 200 first, then down
		// to maxBet 120
		snap := myTurnSnapshot(0, 0, 120, 200, 50)
		sync := newTestSync("Bob", snap)

		intent := sync.Intent()
		require.True(t, intent.BeginBet())
		intent.PresetPotFraction(1)

		assert.Equal(t, 120, sync.Session().PendingBet())
	})

	t.Run("result always within bounds", func(t *testing.T) {
		multipliers := []float64{0.25, 0.5, 1, 2, 10}
		potTotals := []int{0, 1, 50, 999}

		for _, m := range multipliers {
			for _, pot := range potTotals {
				snap := myTurnSnapshot(0, 0, 300, 50, pot)
				sync := newTestSync("Bob", snap)

				intent := sync.Intent()
				require.True(t, intent.BeginBet())
				intent.PresetPotFraction(m)

				pending := sync.Session().PendingBet()
				assert.GreaterOrEqual(t, pending, 50, "m=%v pot=%d", m, pot)
				assert.LessOrEqual(t, pending, 300, "m=%v pot=%d", m, pot)
			}
		}
	})
}

func TestGesturesDisabledWhenNotMyTurn(t *testing.T) {
	snap := myTurnSnapshot(50, 20, 480, 100, 70)
	snap.Players[1].IsTurn = false
	snap.Players[0].IsTurn = true
	sync := newTestSync("Bob", snap)

	intent := sync.Intent()
	assert.Nil(t, intent.Fold())
	assert.Nil(t, intent.CheckOrCall())
	assert.False(t, intent.BeginBet())
	assert.Nil(t, intent.Confirm())
}

func TestGesturesDisabledForSpectator(t *testing.T) {
	sync := newTestSync("Watcher", myTurnSnapshot(50, 20, 480, 100, 70))

	intent := sync.Intent()
	assert.Nil(t, intent.Fold())
	assert.Nil(t, intent.CheckOrCall())
	assert.False(t, intent.BeginBet())
}
