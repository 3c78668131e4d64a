package view

import "github.com/lox/tableview/internal/protocol"

// NumSeats is the size of the visual seat ring
const NumSeats = 6

// seatOrder maps a player's offset from the local user to a visual
// seat slot. Slot 0 is the bottom of the table; the remaining slots
// proceed clockwise: bottom-left (5), top-left (3), top (1), top-right
// (2), bottom-right (4).
var seatOrder = [NumSeats]int{0, 5, 3, 1, 2, 4}

// AssignSeats projects the server-ordered player list onto the visual
// seat ring so the local user always occupies slot 0, with everyone
// else placed clockwise in server order. A spectator (localName absent
// from the list) sees the list in server order from slot 0.
//
// This is a pure function of its inputs: slots with no player are nil,
// and callers rebuild turn and dealer markers from the result on every
// call, so nothing stale survives a player leaving.
func AssignSeats(players []protocol.PlayerView, localName string) [NumSeats]*protocol.PlayerView {
	var seats [NumSeats]*protocol.PlayerView

	n := len(players)
	if n == 0 {
		return seats
	}

	myIndex := -1
	for i := range players {
		if players[i].Name == localName {
			myIndex = i
			break
		}
	}

	for serverIndex := range players {
		offset := serverIndex
		if myIndex != -1 {
			offset = (serverIndex - myIndex + n) % n
		}

		slot := seatOrder[offset%NumSeats]
		seats[slot] = &players[serverIndex]
	}

	return seats
}
