package flipseven

import (
	"errors"
	"fmt"
)

// ErrNotStarted is returned when a game action is attempted before the match starts
var ErrNotStarted = errors.New("match has not started")

// ErrAlreadyStarted is returned when a match is started twice
var ErrAlreadyStarted = errors.New("match already started")

// ErrPlayerNotFound is returned when a player is not in the session
var ErrPlayerNotFound = errors.New("player not found")

// ErrDuplicatePlayer is returned when the roster lists a player twice
var ErrDuplicatePlayer = errors.New("duplicate players detected")

// ErrDuplicateName is returned when two players share a name, ignoring case
var ErrDuplicateName = errors.New("duplicate player names detected")

// ErrTargetNotValid is returned when an action target has left the session
var ErrTargetNotValid = errors.New("target no longer valid")

// ErrNothingToRestore is returned when no saved player matches the roster
var ErrNothingToRestore = errors.New("no saved player matches the roster")

// ErrActionInProgress is returned when the match cannot be saved until an action card is resolved
var ErrActionInProgress = errors.New("an action card is still being resolved")

// ErrSessionClosed is returned after the session has been torn down
var ErrSessionClosed = errors.New("session is closed")

// PlayerCountError is an error on the number of players in the game
type PlayerCountError struct {
	Min int
	Max int
	Got int
}

func (p PlayerCountError) Error() string {
	return fmt.Sprintf("expected %d–%d players, got %d", p.Min, p.Max, p.Got)
}
