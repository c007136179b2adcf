package flipseven

// verifyRoundOver returns true if every participant is busted or stayed
func (g *Game) verifyRoundOver() bool {
	for _, p := range g.participants {
		if !p.IsFinished() {
			return false
		}
	}

	return true
}

// advanceTurn passes the turn to the next participant still drawing
func (g *Game) advanceTurn() {
	if g.phase != phaseRoundActive {
		return
	}

	g.selectTurnFrom(g.turnIndex + 1)
}

// selectTurnFrom gives the turn to the first active participant at or after index
func (g *Game) selectTurnFrom(index int) {
	if g.verifyRoundOver() {
		g.endRound()
		return
	}

	n := len(g.roster)
	for i := 0; i < n; i++ {
		next := (index + i) % n
		if !g.participants[g.roster[next].GetPlayerID()].IsFinished() {
			g.turnIndex = next
			g.announceTurn()
			return
		}
	}

	g.endRound()
}

type roundResult struct {
	participant *Participant
	points      int
}

// endRound scores every hand and either declares a winner or schedules the next round
func (g *Game) endRound() {
	if g.phase != phaseRoundActive {
		return
	}

	g.phase = phaseRoundEnded
	g.pending = nil
	g.sequences = nil

	results := make([]roundResult, 0, len(g.roster))
	var winner *Participant
	for _, p := range g.ordered() {
		points := 0
		if !p.Busted() {
			points = Score(p.hand)
		}

		p.addScore(points)
		results = append(results, roundResult{participant: p, points: points})

		if p.Score() >= g.options.WinningScore && (winner == nil || p.Score() > winner.Score()) {
			winner = p
		}
	}

	g.view.roundResults(results)

	if winner != nil {
		g.declareWinner(winner)
		return
	}

	g.generation++
	generation := g.generation
	g.view.nextRoundIn(g.options.RestartDelay)
	g.cancelRestart = g.schedule(g.options.RestartDelay, func() {
		g.restart(generation)
	})
}

func (g *Game) declareWinner(winner *Participant) {
	g.phase = phaseMatchEnded
	g.winner = winner
	g.pending = nil
	g.sequences = nil
	g.cancelPendingRestart()

	g.logger.WithField("winner", winner.Name).Info("match ended")
	g.view.matchWinner(winner)
}

// restart is the scheduled callback that begins the next round
// It does nothing if the session moved on since it was scheduled
func (g *Game) restart(generation int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || g.phase != phaseRoundEnded || g.generation != generation {
		g.logger.WithField("generation", generation).Debug("ignoring stale round restart")
		return
	}

	g.cancelRestart = nil
	g.startNextRound()
}

func (g *Game) startNextRound() {
	if len(g.roster) == 0 {
		return
	}

	for _, p := range g.participants {
		p.ResetForRound()
	}

	g.deck.Reset()
	g.startRound()
}
