package room

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// PitBoss is the registry of rooms and dispatches players to them
type PitBoss struct {
	options    Options
	dealers    map[string]*Dealer
	lock       sync.RWMutex
	connect    chan *Client
	disconnect chan *Client
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(options Options) *PitBoss {
	return &PitBoss{
		options:    options,
		dealers:    make(map[string]*Dealer),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
	}
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

func (p *PitBoss) runLoop() {
	for {
		select {
		case client := <-p.connect:
			logrus.WithField("player", client.String()).Debug("client connected")
			dealer, err := p.Create(client.room)
			if err == ErrRoomExists {
				dealer, _ = p.Lookup(client.room)
			}

			dealer.AddClient(client)
		case client := <-p.disconnect:
			logrus.WithField("player", client.String()).Debug("client disconnected")
			dealer, found := p.Lookup(client.room)
			if !found {
				logrus.WithField("room", client.room).WithField("type", "exception").Error("room not found")
				continue
			}

			if dealer.RemoveClient(client) {
				p.Remove(client.room)
			}
		}
	}
}

// Create opens a room and starts its dealer
func (p *PitBoss) Create(name string) (*Dealer, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if _, found := p.dealers[name]; found {
		return nil, ErrRoomExists
	}

	dealer := NewDealer(p, name, p.options)
	dealer.StartShift()
	p.dealers[name] = dealer
	return dealer, nil
}

// Lookup returns the dealer for the room
func (p *PitBoss) Lookup(name string) (*Dealer, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	dealer, found := p.dealers[name]
	return dealer, found
}

// Remove closes the room, returning false if it did not exist
func (p *PitBoss) Remove(name string) bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	dealer, found := p.dealers[name]
	if !found {
		return false
	}

	dealer.EndShift()
	delete(p.dealers, name)
	return true
}

// Rooms returns the names of the open rooms
func (p *PitBoss) Rooms() []string {
	p.lock.RLock()
	defer p.lock.RUnlock()

	names := make([]string, 0, len(p.dealers))
	for name := range p.dealers {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}
