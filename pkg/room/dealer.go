package room

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"flipseven-server/pkg/playable"
	"flipseven-server/pkg/playable/flipseven"
	"flipseven-server/pkg/savegame"
	"github.com/sirupsen/logrus"
)

const storeTimeout = time.Second * 5

const helpText = `Commands:
  /ready, /unready   vote to start a match
  /players           list the players in the room
  /draw, /stay       play your turn
  /use <name>        choose the target of an action card
  /score             show the scores
  /save              vote to save and end the match
Anything else is sent as chat`

// Dealer is responsible for running the room and its match
type Dealer struct {
	pitBoss *PitBoss
	name    string
	options Options
	logger  logrus.FieldLogger

	clients     map[*Client]bool
	nextSeq     int
	logMessages []*playable.LogMessage
	lock        sync.RWMutex

	// only accessed from the run loop
	game      *flipseven.Game
	ready     map[int64]bool
	saveVotes map[int64]bool
	pending   *pendingMatch

	execInRunLoop chan func()
	close         chan bool
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, name string, options Options) *Dealer {
	return &Dealer{
		pitBoss:       pitBoss,
		name:          name,
		options:       options,
		logger:        logrus.WithField("room", name),
		clients:       make(map[*Client]bool),
		ready:         make(map[int64]bool),
		saveVotes:     make(map[int64]bool),
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
	}
}

// Name returns the room name
func (d *Dealer) Name() string {
	return d.name
}

// Clients will return a slice of connected (at the time) clients in join order
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.clientsLocked()
}

func (d *Dealer) clientsLocked() []*Client {
	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].seq < clients[j].seq
	})

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")
	for {
		select {
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			if d.pending != nil {
				d.pending.cancel()
			}

			if d.game != nil {
				d.game.Close()
			}

			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// exec queues fn on the run loop unless the shift has ended
func (d *Dealer) exec(fn func()) {
	select {
	case d.execInRunLoop <- fn:
	case <-d.close:
	}
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.addClient(client)
	d.exec(func() {
		d.clientJoined(client)
	})
}

func (d *Dealer) addClient(client *Client) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.nextSeq++
	client.seq = d.nextSeq
	client.dealer = d
	d.clients[client] = true
}

// NOTE: must only be called from the run loop
func (d *Dealer) clientJoined(client *Client) {
	for _, msg := range d.logTail() {
		client.Send(&playable.Response{
			Key:   playable.KeyLog,
			Value: msg.Message,
			Data:  msg,
		})
	}

	client.Send(playable.PrivateResponse(fmt.Sprintf("Welcome to %s. Type /help for commands", d.name)))
	if d.nameTaken(client) {
		client.Send(playable.PrivateResponse(fmt.Sprintf("Another player is already called %s. You can watch, but reconnect with another name to play", client.player.Name)))
	}

	d.broadcast(fmt.Sprintf("%s joined the room", client.player.Name))

	if d.game != nil {
		client.Send(playable.PrivateResponse("A match is in progress. You can chat while you wait for the next one"))
	}
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	if nClients > 0 {
		d.exec(func() {
			d.clientLeft(client)
		})

		return false
	}

	return true
}

// NOTE: must only be called from the run loop
func (d *Dealer) clientLeft(client *Client) {
	id := client.player.ID
	if d.isConnected(id) {
		// the player still has another connection open
		return
	}

	delete(d.ready, id)
	delete(d.saveVotes, id)
	d.broadcast(fmt.Sprintf("%s left the room", client.player.Name))

	if d.game == nil {
		d.checkPendingMatch()
		return
	}

	if err := d.game.RemovePlayer(id); err != nil && !errors.Is(err, flipseven.ErrPlayerNotFound) {
		d.logger.WithError(err).WithField("playerID", id).Error("could not remove player")
	}

	if d.checkMatchOver() {
		return
	}

	d.checkSaveVotes()
}

func (d *Dealer) isConnected(playerID int64) bool {
	for _, client := range d.Clients() {
		if client.player.ID == playerID {
			return true
		}
	}

	return false
}

// ReceivedMessage is called when a client sends a line of text
func (d *Dealer) ReceivedMessage(c *Client, text string) {
	d.exec(func() {
		d.handleMessage(c, text)
	})
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleMessage(c *Client, text string) {
	cmd := playable.ParseCommand(text)
	switch cmd.Kind {
	case playable.CommandHelp:
		c.Send(playable.PrivateResponse(helpText))
	case playable.CommandPlayers:
		d.sendPlayers(c)
	case playable.CommandReady:
		d.setReady(c, true)
	case playable.CommandUnready:
		d.setReady(c, false)
	case playable.CommandSave:
		d.voteSave(c)
	default:
		d.forwardToGame(c, cmd)
	}
}

func (d *Dealer) forwardToGame(c *Client, cmd playable.Command) {
	if cmd.Kind == playable.CommandChat && cmd.Text == "" {
		return
	}

	if d.game == nil {
		if cmd.Kind == playable.CommandChat {
			d.broadcast(fmt.Sprintf("%s: %s", c.player.Name, cmd.Text))
			return
		}

		c.Send(playable.PrivateResponse("No match is running. Type /ready to start one"))
		return
	}

	err := d.game.HandleMessage(c.player.ID, cmd.Text)
	switch {
	case err == nil:
	case errors.Is(err, flipseven.ErrPlayerNotFound):
		if cmd.Kind == playable.CommandChat {
			d.broadcast(fmt.Sprintf("%s (watching): %s", c.player.Name, cmd.Text))
			return
		}

		c.Send(playable.PrivateResponse("You are watching this match"))
	default:
		d.logger.WithError(err).WithField("client", c.String()).Error("could not handle message")
		c.Send(playable.ErrorResponse(err))
	}

	d.checkMatchOver()
}

func (d *Dealer) sendPlayers(c *Client) {
	var roster map[int64]bool
	if d.game != nil {
		roster = make(map[int64]bool)
		for _, p := range d.game.Roster() {
			roster[p.GetPlayerID()] = true
		}
	}

	seen := make(map[int64]bool)
	lines := []string{"Players in " + d.name + ":"}
	for _, client := range d.Clients() {
		id := client.player.ID
		if seen[id] {
			continue
		}

		seen[id] = true
		line := "  " + client.player.Name
		if roster[id] {
			line += " (playing)"
		} else if d.ready[id] {
			line += " (ready)"
		}

		lines = append(lines, line)
	}

	c.Send(playable.PrivateResponse(strings.Join(lines, "\n")))
}

func (d *Dealer) setReady(c *Client, ready bool) {
	if d.game != nil {
		c.Send(playable.PrivateResponse("A match is already in progress"))
		return
	}

	id := c.player.ID
	if ready == d.ready[id] {
		return
	}

	if ready {
		d.ready[id] = true
		d.broadcast(fmt.Sprintf("%s is ready (%d/%d)", c.player.Name, len(d.ready), d.options.ReadyThreshold))
	} else {
		delete(d.ready, id)
		d.broadcast(fmt.Sprintf("%s is no longer ready (%d/%d)", c.player.Name, len(d.ready), d.options.ReadyThreshold))
	}

	d.checkPendingMatch()
}

// checkPendingMatch starts or cancels the countdown to match start
func (d *Dealer) checkPendingMatch() {
	if len(d.ready) < d.options.ReadyThreshold {
		if d.pending != nil {
			d.pending.cancel()
			d.pending = nil
			d.broadcast("Not enough players are ready. The countdown was cancelled")
		}

		return
	}

	if d.pending != nil {
		return
	}

	if d.options.StartDelay <= 0 {
		d.startMatch()
		return
	}

	var pm *pendingMatch
	pm = newPendingMatch(d.options.StartDelay, func() {
		d.exec(func() {
			if d.pending != pm {
				return
			}

			d.pending = nil
			if len(d.ready) >= d.options.ReadyThreshold {
				d.startMatch()
			}
		})
	})

	d.pending = pm
	d.broadcast(fmt.Sprintf("The match starts in %d seconds", int(math.Round(d.options.StartDelay.Seconds()))))
}

// roster returns the connected players in join order
// A player whose name is already taken, ignoring case, watches instead
func (d *Dealer) roster() []playable.Player {
	seen := make(map[int64]bool)
	names := make(map[string]bool)
	roster := make([]playable.Player, 0, d.options.Game.MaxPlayers)
	for _, client := range d.Clients() {
		name := strings.ToLower(client.player.Name)
		if seen[client.player.ID] || names[name] || len(roster) >= d.options.Game.MaxPlayers {
			continue
		}

		seen[client.player.ID] = true
		names[name] = true
		roster = append(roster, client.player)
	}

	return roster
}

// nameTaken returns true if another connected player uses the name, ignoring case
func (d *Dealer) nameTaken(client *Client) bool {
	for _, other := range d.Clients() {
		if other.player.ID != client.player.ID && strings.EqualFold(other.player.Name, client.player.Name) {
			return true
		}
	}

	return false
}

// NOTE: must only be called from the run loop
func (d *Dealer) startMatch() {
	d.ready = make(map[int64]bool)
	d.saveVotes = make(map[int64]bool)

	game, err := flipseven.NewGame(d.logger, d.name, d.roster(), roomNotifier{dealer: d}, d.options.Game)
	if err != nil {
		d.logger.WithError(err).Error("could not create game")
		d.broadcast(fmt.Sprintf("Could not start the match: %s", err))
		return
	}

	if d.resumeMatch(game) {
		d.game = game
		return
	}

	if err := game.StartMatch(); err != nil {
		d.logger.WithError(err).Error("could not start match")
		d.broadcast(fmt.Sprintf("Could not start the match: %s", err))
		return
	}

	d.game = game
}

// resumeMatch restores a save for this room, deleting it once it is in play
func (d *Dealer) resumeMatch(game *flipseven.Game) bool {
	if d.options.Store == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	saved, err := d.options.Store.Load(ctx, d.name)
	if err != nil {
		if !errors.Is(err, savegame.ErrNotFound) {
			d.logger.WithError(err).Error("could not load saved match")
		}

		return false
	}

	if err := game.ResumeMatch(saved); err != nil {
		d.logger.WithError(err).Warn("could not resume saved match")
		return false
	}

	if err := d.options.Store.Delete(ctx, d.name); err != nil {
		d.logger.WithError(err).Error("could not delete resumed save")
	}

	return true
}

func (d *Dealer) voteSave(c *Client) {
	if d.game == nil {
		c.Send(playable.PrivateResponse("There is no match to save"))
		return
	}

	if d.options.Store == nil {
		c.Send(playable.PrivateResponse("Saving is disabled on this server"))
		return
	}

	if !d.inRoster(c.player.ID) {
		c.Send(playable.PrivateResponse("Only players in the match can vote to save it"))
		return
	}

	d.saveVotes[c.player.ID] = true
	d.broadcast(fmt.Sprintf("%s voted to save and end the match (%d/%d)", c.player.Name, len(d.saveVotes), len(d.game.Roster())))
	d.checkSaveVotes()
}

func (d *Dealer) inRoster(playerID int64) bool {
	for _, p := range d.game.Roster() {
		if p.GetPlayerID() == playerID {
			return true
		}
	}

	return false
}

// checkSaveVotes saves and ends the match once every player in it voted
func (d *Dealer) checkSaveVotes() {
	if d.game == nil || len(d.saveVotes) == 0 {
		return
	}

	for _, p := range d.game.Roster() {
		if !d.saveVotes[p.GetPlayerID()] {
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	saved, err := d.game.Snapshot()
	if err == nil {
		err = d.options.Store.Save(ctx, saved)
	}

	if err != nil {
		d.logger.WithError(err).Error("could not save match")
		d.saveVotes = make(map[int64]bool)
		d.broadcast(fmt.Sprintf("Could not save the match: %s. Play continues", err))
		return
	}

	d.broadcast("The match was saved. It will resume the next time a match starts in this room")
	d.endMatch()
}

// checkMatchOver clears a finished match, returning true if it did
func (d *Dealer) checkMatchOver() bool {
	if d.game == nil || !d.game.IsMatchOver() {
		return false
	}

	d.endMatch()
	d.broadcast("Type /ready to play again")
	return true
}

func (d *Dealer) endMatch() {
	d.game.Close()
	d.game = nil
	d.ready = make(map[int64]bool)
	d.saveVotes = make(map[int64]bool)
}
