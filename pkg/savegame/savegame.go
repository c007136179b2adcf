// Package savegame persists paused Flip Seven matches
package savegame

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no save exists for a key
var ErrNotFound = errors.New("saved game not found")

// ErrInvalidKey is returned for an empty key
var ErrInvalidKey = errors.New("invalid save key")

// Game is a saved match
type Game struct {
	Key       string    `json:"key"`
	TurnIndex int       `json:"turnIndex"`
	Players   []*Player `json:"players"`
	Saved     time.Time `json:"saved"`
}

// Player is the saved state of a single participant
type Player struct {
	Name         string `json:"name"`
	Score        int    `json:"score"`
	HasExtraLife bool   `json:"hasExtraLife"`
	Busted       bool   `json:"busted"`
	Stayed       bool   `json:"stayed"`
	Frozen       bool   `json:"frozen"`
	// Hand is the comma-joined card display names
	Hand string `json:"hand"`
}

// Store saves and loads matches by key
type Store interface {
	Save(ctx context.Context, game *Game) error
	Load(ctx context.Context, key string) (*Game, error)
	Delete(ctx context.Context, key string) error
}

func validate(game *Game) error {
	if game == nil || game.Key == "" {
		return ErrInvalidKey
	}

	return nil
}

func (g *Game) clone() *Game {
	c := *g
	c.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		pc := *p
		c.Players[i] = &pc
	}

	return &c
}
