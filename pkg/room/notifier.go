package room

import (
	"flipseven-server/pkg/playable"
)

// roomNotifier delivers game text to the clients in a room
// It never blocks; messages to a full client buffer are dropped
type roomNotifier struct {
	dealer *Dealer
}

func (n roomNotifier) Broadcast(message string) {
	n.dealer.broadcast(message)
}

func (n roomNotifier) Private(playerID int64, message string) {
	n.dealer.private(playerID, message)
}

func (d *Dealer) broadcast(message string) {
	d.lock.Lock()
	d.addLogMessages(playable.SimpleLogMessage(0, "%s", message))
	clients := d.clientsLocked()
	d.lock.Unlock()

	response := playable.BroadcastResponse(message)
	for _, client := range clients {
		client.Send(response)
	}
}

func (d *Dealer) private(playerID int64, message string) {
	response := playable.PrivateResponse(message)
	for _, client := range d.Clients() {
		if client.player.ID == playerID {
			client.Send(response)
		}
	}
}
