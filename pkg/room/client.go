package room

import (
	"fmt"

	"flipseven-server/pkg/playable"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer *Dealer
	seq    int

	player playable.Identity
	room   string
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, player playable.Identity, room string) *Client {
	return &Client{
		send:   make(chan interface{}, 256),
		Close:  make(chan string),
		Conn:   conn,
		player: player,
		room:   room,
	}
}

// Send send a message to the web client
// Returns false if the client's buffer is full and the message was dropped
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		logrus.WithField("client", c.String()).Warn("send buffer full, dropping message")
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// Player returns the identity of the connected player
func (c *Client) Player() playable.Identity {
	return c.player
}

// Room returns the name of the room the client joined
func (c *Client) Room() string {
	return c.room
}

// String returns a traceable identifier for the player and room
func (c *Client) String() string {
	return fmt.Sprintf("%s(%d):%s", c.player.Name, c.player.ID, c.room)
}

// ReceivedMessage is called when the server receives a line of text from a connected client
func (c *Client) ReceivedMessage(text string) {
	if c.dealer == nil {
		logrus.WithField("msg", text).Warn("received message, but dealer not found")
		return
	}

	c.dealer.ReceivedMessage(c, text)
}
