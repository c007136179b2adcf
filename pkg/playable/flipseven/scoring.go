package flipseven

import "flipseven-server/pkg/deck"

// Score returns the round score of a hand
// Number cards are summed and doubled by x2, then +10 cards and the seven-unique bonus are added
func Score(hand deck.Hand) int {
	total := hand.RankSum()
	if hand.Count(deck.DoubleScore) > 0 {
		total *= doubleScoreFactor
	}

	total += flatBonusValue * hand.Count(deck.FlatBonus)

	if HasSevenUnique(hand) {
		total += sevenUniqueBonus
	}

	return total
}

// HasSevenUnique returns true if the hand holds seven distinct ranks
func HasSevenUnique(hand deck.Hand) bool {
	return hand.UniqueRanks() >= uniqueRanksForBonus
}
