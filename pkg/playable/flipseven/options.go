package flipseven

import "time"

// scoring constants
const (
	uniqueRanksForBonus = 7
	sevenUniqueBonus    = 15
	flatBonusValue      = 10
	doubleScoreFactor   = 2
)

// Options contains options for creating a new game of Flip Seven
type Options struct {
	MinPlayers int
	MaxPlayers int

	// WinningScore ends the match once a cumulative score reaches it
	WinningScore int

	// RestartDelay is the pause between rounds
	RestartDelay time.Duration

	// DrawDelay paces the draws of a forced sequence
	DrawDelay time.Duration

	// ForcedDraws is how many cards a Flip Three deals
	ForcedDraws int
}

// DefaultOptions returns the default set of options
func DefaultOptions() Options {
	return Options{
		MinPlayers:   2,
		MaxPlayers:   6,
		WinningScore: 200,
		RestartDelay: 15 * time.Second,
		DrawDelay:    time.Second,
		ForcedDraws:  3,
	}
}
