package room

import (
	"time"

	"flipseven-server/internal/config"
	"flipseven-server/pkg/playable/flipseven"
	"flipseven-server/pkg/savegame"
)

// Options configures every dealer created by a PitBoss
type Options struct {
	Game flipseven.Options

	// ReadyThreshold is the number of /ready votes that starts a match
	ReadyThreshold int

	// StartDelay is the countdown between the last ready vote and the deal
	StartDelay time.Duration

	// LogTail is the number of broadcasts replayed to late joiners
	LogTail int

	// Store is where /save keeps matches; nil disables saving
	Store savegame.Store
}

// DefaultOptions returns options suitable for tests
func DefaultOptions() Options {
	game := flipseven.DefaultOptions()
	game.MinPlayers = 3

	return Options{
		Game:           game,
		ReadyThreshold: 3,
		LogTail:        25,
		Store:          savegame.NewMemoryStore(),
	}
}

// OptionsFromConfig builds dealer options from the configuration
func OptionsFromConfig(cfg config.Config, store savegame.Store) Options {
	game := flipseven.DefaultOptions()
	game.MinPlayers = cfg.Game.MinPlayers
	game.MaxPlayers = cfg.Game.MaxPlayers
	game.WinningScore = cfg.Game.WinningScore
	game.RestartDelay = cfg.Game.RestartDelay()
	game.DrawDelay = cfg.Game.DrawDelay()

	return Options{
		Game:           game,
		ReadyThreshold: cfg.Game.MinPlayers,
		StartDelay:     cfg.Game.StartDelay(),
		LogTail:        cfg.Log.Tail,
		Store:          store,
	}
}
