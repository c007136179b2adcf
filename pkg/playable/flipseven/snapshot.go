package flipseven

import (
	"fmt"
	"strings"
	"time"

	"flipseven-server/pkg/deck"
	"flipseven-server/pkg/savegame"
)

// Snapshot returns the persistable state of the match
// A round that has already been scored is saved with empty hands so it is not scored again on resume
func (g *Game) Snapshot() (*savegame.Game, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil, ErrSessionClosed
	}

	if g.phase == phaseNotStarted {
		return nil, ErrNotStarted
	}

	if g.pending != nil || len(g.sequences) > 0 {
		return nil, ErrActionInProgress
	}

	scored := g.phase == phaseRoundEnded
	players := make([]*savegame.Player, 0, len(g.roster))
	for _, player := range g.roster {
		sp := &savegame.Player{Name: player.GetName()}
		if p, ok := g.participants[player.GetPlayerID()]; ok {
			sp.Score = p.score
			sp.HasExtraLife = p.hasExtraLife
			if !scored {
				sp.Busted = p.busted
				sp.Stayed = p.stayed
				sp.Frozen = p.frozen
				sp.Hand = deck.CardsToString(p.hand)
			}
		}

		players = append(players, sp)
	}

	return &savegame.Game{
		Key:       g.key,
		TurnIndex: g.turnIndex,
		Players:   players,
		Saved:     time.Now(),
	}, nil
}

// ResumeMatch starts the match from a saved game
// Saved players are matched to the roster by name, ignoring case
func (g *Game) ResumeMatch(saved *savegame.Game) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.beginMatch(); err != nil {
		return err
	}

	restored := 0
	for _, sp := range saved.Players {
		p := g.participantByName(sp.Name)
		if p == nil {
			continue
		}

		cards, err := deck.ParseCards(sp.Hand)
		if err != nil {
			g.participants = make(map[int64]*Participant)
			return fmt.Errorf("could not restore hand of %s: %w", sp.Name, err)
		}

		p.hand = cards
		p.score = sp.Score
		p.hasExtraLife = sp.HasExtraLife
		p.busted = sp.Busted
		p.stayed = sp.Stayed || sp.Busted
		p.frozen = sp.Frozen
		restored++
	}

	if restored == 0 {
		g.participants = make(map[int64]*Participant)
		return ErrNothingToRestore
	}

	g.phase = phaseRoundActive
	g.turnIndex = g.restoredTurnIndex(saved)
	g.logger.WithField("restored", restored).Info("match resumed")
	g.view.matchResumed(g.ordered())
	g.selectTurnFrom(g.turnIndex)
	return nil
}

// restoredTurnIndex maps the saved turn-holder onto the current roster
func (g *Game) restoredTurnIndex(saved *savegame.Game) int {
	if saved.TurnIndex < 0 || saved.TurnIndex >= len(saved.Players) {
		return 0
	}

	name := saved.Players[saved.TurnIndex].Name
	for i, player := range g.roster {
		if strings.EqualFold(player.GetName(), name) {
			return i
		}
	}

	return 0
}
