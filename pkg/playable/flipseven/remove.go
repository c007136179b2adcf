package flipseven

// RemovePlayer takes a player out of the session
// Before the match the player is simply dropped from the roster
func (g *Game) RemovePlayer(playerID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrSessionClosed
	}

	index := -1
	for i, player := range g.roster {
		if player.GetPlayerID() == playerID {
			index = i
			break
		}
	}

	if index < 0 {
		return ErrPlayerNotFound
	}

	name := g.roster[index].GetName()
	g.roster = append(g.roster[:index:index], g.roster[index+1:]...)
	delete(g.participants, playerID)
	g.logger.WithField("playerID", playerID).Info("player removed")

	if g.phase == phaseNotStarted || g.phase == phaseMatchEnded {
		return nil
	}

	g.view.left(name)

	if len(g.roster) <= 1 {
		g.cancelPendingRestart()
		if len(g.roster) == 1 {
			g.declareWinner(g.participants[g.roster[0].GetPlayerID()])
		} else {
			g.phase = phaseMatchEnded
		}

		return nil
	}

	wasTurn := index == g.turnIndex
	if index < g.turnIndex {
		g.turnIndex--
	}

	if g.turnIndex >= len(g.roster) {
		g.turnIndex = 0
	}

	if g.phase != phaseRoundActive {
		return nil
	}

	if wasTurn {
		// the leaver's whole action chain goes with them
		g.pending = nil
		g.sequences = nil
		g.view.turnPassed(name)
		g.selectTurnFrom(g.turnIndex)
		return nil
	}

	blocked := false
	for i, seq := range g.sequences {
		if seq.victimID == playerID {
			g.sequences = g.sequences[:i]
			g.pending = nil
			blocked = true
			break
		}
	}

	if g.pending != nil && g.pending.ownerID == playerID {
		g.pending = nil
		blocked = true
	}

	if g.verifyRoundOver() {
		g.endRound()
		return nil
	}

	if blocked {
		g.resume()
	}

	return nil
}
