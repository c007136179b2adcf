package flipseven

import (
	"flipseven-server/pkg/deck"
)

// startForcedSequence pushes a Flip Three onto the stack and deals it
func (g *Game) startForcedSequence(victim *Participant) {
	g.sequences = append(g.sequences, &forcedSequence{
		victimID:  victim.PlayerID,
		remaining: g.options.ForcedDraws,
		deferred:  make([]*deck.Card, 0, g.options.ForcedDraws),
	})

	g.view.forcedSequenceStarted(victim, g.options.ForcedDraws)
	g.continueSequence()
}

func (g *Game) topSequence() *forcedSequence {
	if len(g.sequences) == 0 {
		return nil
	}

	return g.sequences[len(g.sequences)-1]
}

// continueSequence deals or drains the top sequence depending on its progress
func (g *Game) continueSequence() {
	seq := g.topSequence()
	if seq == nil {
		g.advanceTurn()
		return
	}

	victim := g.participants[seq.victimID]
	if victim == nil {
		g.finishSequence()
		return
	}

	if seq.remaining > 0 && !victim.Busted() {
		g.dealSequence(seq, victim)
		return
	}

	g.drainSequence()
}

// dealSequence draws the remaining forced cards for the victim
func (g *Game) dealSequence(seq *forcedSequence, victim *Participant) {
	for seq.remaining > 0 {
		if seq.dealt > 0 {
			g.sleep(g.options.DrawDelay)
		}

		fd, err := DrawOneForcedCard(victim, g.deck)
		if fd != nil && fd.Reshuffled {
			g.view.reshuffled()
		}

		if err != nil {
			g.deckExhausted(err)
			return
		}

		seq.remaining--
		seq.dealt++
		g.view.forcedCard(victim, fd.Card, seq.dealt)

		switch fd.Result {
		case DrawUnresolved:
			if fd.Card.Is(deck.SecondChance) && !victim.HasExtraLife() {
				victim.setExtraLife(true)
				g.view.keptSecondChance(victim)
				continue
			}

			seq.deferred = append(seq.deferred, fd.Card)
			g.view.deferred(victim, fd.Card)
			continue
		case DrawBusted:
			g.view.busted(victim, fd.Card)
			seq.deferred = nil
			g.finishSequence()
			return
		case DrawRejected:
			seq.remaining = 0
			continue
		case DrawSaved:
			g.view.extraLifeUsed(victim, fd.Card)
		}

		if HasSevenUnique(victim.hand) {
			g.view.sevenUnique(victim)
			g.endRound()
			return
		}
	}

	g.view.hand(victim)
	g.drainSequence()
}

// drainSequence resolves the deferred cards of the top sequence one at a time
// It stops whenever the victim has to pick a target
func (g *Game) drainSequence() {
	for g.phase == phaseRoundActive {
		seq := g.topSequence()
		if seq == nil {
			g.advanceTurn()
			return
		}

		if len(seq.deferred) == 0 {
			g.finishSequence()
			return
		}

		victim := g.participants[seq.victimID]
		card := seq.deferred[0]
		seq.deferred = seq.deferred[1:]
		if victim == nil {
			continue
		}

		if g.playActionCard(victim, card) {
			return
		}
	}
}

// finishSequence pops the top sequence and hands control back to its parent
func (g *Game) finishSequence() {
	if len(g.sequences) > 0 {
		g.sequences = g.sequences[:len(g.sequences)-1]
	}

	if g.phase != phaseRoundActive {
		return
	}

	if len(g.sequences) > 0 {
		g.continueSequence()
		return
	}

	g.advanceTurn()
}
