package playable

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notifier delivers player-visible text
// Implementations must not block on the caller's goroutine
type Notifier interface {
	// Broadcast sends the message to every current participant
	Broadcast(message string)

	// Private sends the message to a single participant
	Private(playerID int64, message string)
}

// LogMessage is a record of a broadcast message
// If PlayerIDs is empty, assume it's a general statement
type LogMessage struct {
	UUID      string    `json:"uuid"`
	PlayerIDs []int64   `json:"playerIds"`
	Message   string    `json:"message"`
	Time      time.Time `json:"time"`
}

// Response is the payload that is delivered to a connected client
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value"`
	Data    interface{} `json:"data,omitempty"`
	Context string      `json:"context,omitempty"`
}

// response keys
const (
	KeyBroadcast = "broadcast"
	KeyPrivate   = "private"
	KeyLog       = "log"
	KeyError     = "error"
)

// BroadcastResponse wraps a message intended for everyone
func BroadcastResponse(message string) *Response {
	return &Response{
		Key:   KeyBroadcast,
		Value: message,
	}
}

// PrivateResponse wraps a message intended for a single client
func PrivateResponse(message string) *Response {
	return &Response{
		Key:   KeyPrivate,
		Value: message,
	}
}

// ErrorResponse wraps an error
func ErrorResponse(err error) *Response {
	return &Response{
		Key:   KeyError,
		Value: err.Error(),
	}
}

// SimpleLogMessage returns a new LogMessage
func SimpleLogMessage(playerID int64, format string, a ...interface{}) *LogMessage {
	var playerIDs []int64
	if playerID > 0 {
		playerIDs = []int64{playerID}
	}

	return &LogMessage{
		UUID:      uuid.New().String(),
		PlayerIDs: playerIDs,
		Message:   fmt.Sprintf(format, a...),
		Time:      time.Now(),
	}
}
