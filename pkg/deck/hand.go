package deck

// Hand represents a collection of cards
type Hand []*Card

// AddCard adds a card to the hand
func (h *Hand) AddCard(card *Card) {
	*h = append(*h, card)
}

// HasRank returns true if the hand holds a number card of the rank
func (h Hand) HasRank(rank int) bool {
	for _, c := range h {
		if c.IsNumber() && c.Rank() == rank {
			return true
		}
	}

	return false
}

// Count returns how many copies of the special are in the hand
func (h Hand) Count(special Special) int {
	count := 0
	for _, c := range h {
		if c.Is(special) {
			count++
		}
	}

	return count
}

// UniqueRanks returns the number of distinct number ranks held
func (h Hand) UniqueRanks() int {
	seen := make(map[int]bool, len(h))
	for _, c := range h {
		if c.IsNumber() {
			seen[c.Rank()] = true
		}
	}

	return len(seen)
}

// RankSum returns the sum of all number cards
func (h Hand) RankSum() int {
	sum := 0
	for _, c := range h {
		if c.IsNumber() {
			sum += c.Rank()
		}
	}

	return sum
}

func (h Hand) String() string {
	return CardsToString(h)
}

// Clone returns a clone of the hand
func (h Hand) Clone() Hand {
	h2 := make(Hand, len(h))
	copy(h2, h)

	return h2
}
