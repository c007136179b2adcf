package flipseven

import (
	"flipseven-server/pkg/deck"
	"flipseven-server/pkg/playable"
)

// DrawResult is the outcome of Participant.AttemptDraw
type DrawResult int

// DrawResult constants
const (
	// DrawAccepted means the card was added to the hand
	DrawAccepted DrawResult = iota
	// DrawSaved means the card was a duplicate and the extra life was spent
	DrawSaved
	// DrawBusted means the card was a duplicate and the hand was lost
	DrawBusted
	// DrawRejected means the participant is already finished
	DrawRejected
	// DrawUnresolved means an action card was drawn and left for the caller
	DrawUnresolved
)

// OK returns true if the participant survived the draw
func (d DrawResult) OK() bool {
	return d == DrawAccepted || d == DrawSaved
}

// Participant is the per-player state in a match
type Participant struct {
	PlayerID int64  `json:"playerId"`
	Name     string `json:"name"`

	hand         deck.Hand
	busted       bool
	stayed       bool
	frozen       bool
	hasExtraLife bool
	score        int
}

// NewParticipant returns a new participant with a zero score
func NewParticipant(player playable.Player) *Participant {
	return &Participant{
		PlayerID: player.GetPlayerID(),
		Name:     player.GetName(),
		hand:     make(deck.Hand, 0, 8),
	}
}

// AttemptDraw adds the card to the hand, or busts on a duplicate rank
func (p *Participant) AttemptDraw(card *deck.Card) DrawResult {
	if p.busted || p.stayed {
		return DrawRejected
	}

	if !card.IsNumber() || !p.hand.HasRank(card.Rank()) {
		p.hand.AddCard(card)
		return DrawAccepted
	}

	if p.hasExtraLife {
		p.hasExtraLife = false
		p.hand.AddCard(card)
		return DrawSaved
	}

	p.hand = make(deck.Hand, 0, 8)
	p.busted = true
	p.stayed = true
	return DrawBusted
}

// Stay locks in the hand
func (p *Participant) Stay() {
	if !p.busted {
		p.stayed = true
	}
}

// Freeze forces the participant to stay
func (p *Participant) Freeze() {
	p.frozen = true
	p.Stay()
}

// ResetForRound clears the hand and round flags, keeping score and extra life
func (p *Participant) ResetForRound() {
	p.hand = make(deck.Hand, 0, 8)
	p.busted = false
	p.stayed = false
	p.frozen = false
}

// clone returns a copy that shares no state with the session
func (p *Participant) clone() *Participant {
	c := *p
	c.hand = p.hand.Clone()
	return &c
}

// IsFinished returns true if the participant can no longer draw this round
func (p *Participant) IsFinished() bool {
	return p.busted || p.stayed
}

// Hand returns a copy of the hand
func (p *Participant) Hand() deck.Hand {
	return p.hand.Clone()
}

// Busted returns true if the participant busted this round
func (p *Participant) Busted() bool {
	return p.busted
}

// Stayed returns true if the participant is done for the round
func (p *Participant) Stayed() bool {
	return p.stayed
}

// Frozen returns true if the participant was frozen
func (p *Participant) Frozen() bool {
	return p.frozen
}

// HasExtraLife returns true if the participant holds a Second Chance
func (p *Participant) HasExtraLife() bool {
	return p.hasExtraLife
}

// Score returns the cumulative score
func (p *Participant) Score() int {
	return p.score
}

func (p *Participant) setExtraLife(v bool) {
	p.hasExtraLife = v
}

func (p *Participant) addScore(points int) {
	p.score += points
}
