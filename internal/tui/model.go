package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/tableview/internal/deck"
	"github.com/lox/tableview/internal/protocol"
	"github.com/lox/tableview/internal/view"
)

// betStep is how far one keypress moves the bet control
const betStep = 10

// ActionSender is the outbound half of the transport, as seen by the
// rendering surface
type ActionSender interface {
	SendAction(*protocol.ActionData) error
	Start() error
}

// Model is the Bubble Tea model for the table view. All game logic
// lives in the view synchronizer; the model only translates keys into
// intent gestures and draws whatever render state comes back.
type Model struct {
	sync   *view.Synchronizer
	sender ActionSender
	events <-chan view.Event
	logger *log.Logger

	state       view.RenderState
	noticeView  viewport.Model
	noticeCount int

	width    int
	height   int
	quitting bool
}

// eventMsg wraps an inbound view event for the Bubble Tea loop
type eventMsg struct {
	event view.Event
}

// eventsClosedMsg signals that the transport has shut down
type eventsClosedMsg struct{}

// NewModel creates the table view model
func NewModel(sync *view.Synchronizer, sender ActionSender, events <-chan view.Event, logger *log.Logger) *Model {
	vp := viewport.New(60, 6)

	return &Model{
		sync:       sync,
		sender:     sender,
		events:     events,
		logger:     logger.WithPrefix("tui"),
		state:      sync.Render(),
		noticeView: vp,
	}
}

// Init starts listening for transport events
func (m *Model) Init() tea.Cmd {
	return m.listenEvents()
}

// listenEvents returns a command that waits for the next inbound event
func (m *Model) listenEvents() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{event: ev}
	}
}

// Update handles messages in the table view
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.state = m.sync.Apply(msg.event)
		m.refreshNotices()
		return m, m.listenEvents()

	case eventsClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.noticeView.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.noticeView, cmd = m.noticeView.Update(msg)
	return m, cmd
}

// handleKey translates keys into intent gestures. Whether a gesture
// does anything is decided entirely by the intent builder.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "s":
		if err := m.sender.Start(); err != nil {
			m.logger.Error("Failed to send start", "error", err)
		}
		return m, nil
	}

	if m.state.Panel.Composing {
		return m.handleCompositionKey(msg)
	}

	switch msg.String() {
	case "f":
		m.dispatch(m.sync.Intent().Fold())
	case "c":
		m.dispatch(m.sync.Intent().CheckOrCall())
	case "b", "r":
		m.sync.Intent().BeginBet()
		m.state = m.sync.Render()
	}

	return m, nil
}

// handleCompositionKey adjusts or resolves an in-progress bet
func (m *Model) handleCompositionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	intent := m.sync.Intent()
	res := intent.Resolution()

	switch msg.String() {
	case "esc":
		intent.Cancel()

	case "enter":
		m.dispatch(intent.Confirm())

	case "left", "-":
		intent.SetPending(clamp(m.state.Panel.PendingBet-betStep, res.MinRaise, res.MaxBet))

	case "right", "+", "=":
		intent.SetPending(clamp(m.state.Panel.PendingBet+betStep, res.MinRaise, res.MaxBet))

	case "a":
		intent.PresetAllIn()

	case "1":
		intent.PresetPotFraction(0.5)

	case "2":
		intent.PresetPotFraction(1)

	case "3":
		intent.PresetPotFraction(2)
	}

	m.state = m.sync.Render()
	return m, nil
}

// dispatch sends a built action, if any, and refreshes the panel. The
// intent builder already locked the turn; the send is fire-and-forget
// and any rejection comes back as an error event.
func (m *Model) dispatch(action *protocol.ActionData) {
	if action == nil {
		return
	}

	if err := m.sender.SendAction(action); err != nil {
		m.logger.Error("Failed to send action", "action", action.Action, "error", err)
	}
	m.state = m.sync.Render()
}

// clamp bounds a slider value to the legal range, floor first
func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// refreshNotices scrolls the notice viewport to the newest entry
func (m *Model) refreshNotices() {
	if len(m.state.Notices) == m.noticeCount {
		return
	}
	m.noticeCount = len(m.state.Notices)
	m.noticeView.SetContent(strings.Join(m.state.Notices, "\n"))
	m.noticeView.GotoBottom()
}

// View renders the table
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var sections []string

	header := PhaseStyle.Render(m.state.PhaseLabel)
	if !m.state.Connected {
		header += " " + ErrorStyle.Render("OFFLINE")
	}
	sections = append(sections, header)

	sections = append(sections, m.renderTable())

	if m.state.ErrorMessage != "" {
		sections = append(sections, ErrorStyle.Render("Error: "+m.state.ErrorMessage))
	}

	if m.state.GameOver {
		sections = append(sections, m.renderWinners())
	} else {
		sections = append(sections, m.renderActionPanel())
	}

	sections = append(sections, m.noticeView.View())
	sections = append(sections, m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTable draws the six seat slots around the pots and board.
// Slot 0 is the bottom seat; 3, 1, 2 run along the top.
func (m *Model) renderTable() string {
	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSeat(3), m.renderSeat(1), m.renderSeat(2))

	middle := lipgloss.NewStyle().Padding(1, 4).Render(m.renderCenter())

	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSeat(5), m.renderSeat(0), m.renderSeat(4))

	return lipgloss.JoinVertical(lipgloss.Center, topRow, middle, bottomRow)
}

// renderCenter draws the pots and community cards
func (m *Model) renderCenter() string {
	var lines []string

	for _, pot := range m.state.Pots {
		lines = append(lines, PotStyle.Render(fmt.Sprintf("%s: $%d", pot.Name, pot.Amount)))
	}

	if len(m.state.CommunityCards) > 0 {
		lines = append(lines, formatCards(m.state.CommunityCards))
	}

	if len(lines) == 0 {
		return PotStyle.Render("No pot")
	}
	return strings.Join(lines, "\n")
}

// renderSeat draws one visual seat slot
func (m *Model) renderSeat(slot int) string {
	seat := m.state.Seats[slot]
	if seat == nil {
		return EmptySeatStyle.Render(fmt.Sprintf("(seat %d)", slot))
	}

	var b strings.Builder

	name := seat.Name
	if seat.IsDealer {
		name += " " + DealerStyle.Render("D")
	}
	b.WriteString(name)
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("$%d", seat.Stack))
	if seat.BetThisRound > 0 {
		b.WriteString(fmt.Sprintf("  bet $%d", seat.BetThisRound))
	}
	b.WriteString("\n")

	switch {
	case len(seat.Hand) > 0:
		b.WriteString(formatCards(seat.Hand))
	case seat.ShowBacks:
		b.WriteString(CardBackStyle.Render("[##] [##]"))
	}

	switch seat.Status {
	case protocol.StatusFolded:
		b.WriteString("\n" + StatusStyle.Render("FOLD"))
	case protocol.StatusAllIn:
		b.WriteString("\n" + StatusStyle.Render("ALL-IN"))
	}

	style := SeatStyle
	if seat.IsTurn {
		style = TurnSeatStyle
	} else if seat.IsLocal {
		style = LocalSeatStyle
	}
	return style.Render(b.String())
}

// renderActionPanel draws the action choices or the bet composition
func (m *Model) renderActionPanel() string {
	panel := m.state.Panel

	if !panel.Enabled {
		return HelpStyle.Render("Waiting...")
	}

	if panel.Composing {
		bounds := fmt.Sprintf("$%d ──────── $%d", panel.MinRaise, panel.MaxBet)
		confirm := ActionsStyle.Render(fmt.Sprintf("[%s]", panel.ConfirmLabel))
		return fmt.Sprintf("%s\n%s  %s", bounds, confirm, HelpStyle.Render("←/→ adjust • a all-in • 1 ½pot • 2 pot • 3 2×pot • enter confirm • esc cancel"))
	}

	actions := []string{
		ActionsStyle.Render("[Fold]"),
		ActionsStyle.Render(fmt.Sprintf("[%s]", panel.CheckCallLabel)),
		ActionsStyle.Render(fmt.Sprintf("[%s]", panel.BetRaiseLabel)),
	}
	return strings.Join(actions, " ")
}

// renderWinners draws the end-of-hand winners overlay
func (m *Model) renderWinners() string {
	var b strings.Builder

	b.WriteString("Hand complete\n\n")
	for _, w := range m.state.Winners {
		b.WriteString(fmt.Sprintf("%s wins $%d", w.Player, w.Amount))
		if w.Hand != "" {
			b.WriteString(" with " + w.Hand)
		}
		if w.PotName != "" {
			b.WriteString(fmt.Sprintf(" (%s)", w.PotName))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + HelpStyle.Render("s next hand • q quit"))

	return WinnerStyle.Render(b.String())
}

// renderHelp draws the key legend
func (m *Model) renderHelp() string {
	if m.state.Panel.Enabled && !m.state.Panel.Composing {
		return HelpStyle.Render("f fold • c check/call • b bet/raise • s start • q quit")
	}
	return HelpStyle.Render("s start • q quit")
}

// formatCards formats cards with suit colours
func formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}

	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		if card.IsRed() {
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		} else {
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}

	return "[" + strings.Join(formatted, " ") + "]"
}
