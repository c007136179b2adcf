package flipseven

import (
	"flipseven-server/pkg/deck"
)

// ActionOutcome is the result of resolving an action card on a target
type ActionOutcome int

// ActionOutcome constants
const (
	ActionApplied ActionOutcome = iota
	// ActionNotApplicable means the target already finished the round
	ActionNotApplicable
	// ActionAlreadyHeld means the target already has a Second Chance
	ActionAlreadyHeld
)

// ForcedDraw is a single card dealt by a Flip Three
type ForcedDraw struct {
	Card       *deck.Card
	Result     DrawResult
	Reshuffled bool
}

// Freeze forces the target to stay
func Freeze(target *Participant) (ActionOutcome, error) {
	if target == nil {
		return 0, ErrTargetNotValid
	}

	if target.IsFinished() {
		return ActionNotApplicable, nil
	}

	target.Freeze()
	return ActionApplied, nil
}

// GrantSecondChance gives the target an extra life
func GrantSecondChance(target *Participant) (ActionOutcome, error) {
	if target == nil {
		return 0, ErrTargetNotValid
	}

	if target.HasExtraLife() {
		return ActionAlreadyHeld, nil
	}

	target.setExtraLife(true)
	return ActionApplied, nil
}

// DrawOneForcedCard deals one card of a Flip Three to the target
// Action cards are not applied; the result is DrawUnresolved
// If the deck is empty after one reset, deck.ErrEndOfDeck is returned
func DrawOneForcedCard(target *Participant, d *deck.Deck) (*ForcedDraw, error) {
	if target == nil {
		return nil, ErrTargetNotValid
	}

	card, reshuffled, err := d.DrawOrReset()
	if err != nil {
		return &ForcedDraw{Reshuffled: reshuffled}, err
	}

	fd := &ForcedDraw{
		Card:       card,
		Reshuffled: reshuffled,
		Result:     DrawUnresolved,
	}

	if !card.IsAction() {
		fd.Result = target.AttemptDraw(card)
	}

	return fd, nil
}
