package deck

import (
	"errors"

	"flipseven-server/internal/rng"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Stack is a number of copies of a single card in a composition
type Stack struct {
	Card  *Card
	Count int
}

// Composition is the full set of cards a deck is built from
type Composition []Stack

// Size returns the number of cards in the composition
func (c Composition) Size() int {
	size := 0
	for _, stack := range c {
		size += stack.Count
	}

	return size
}

// DefaultComposition returns the standard Flip Seven composition
// Rank r appears r times, plus the special cards
func DefaultComposition() Composition {
	c := make(Composition, 0, MaxRank+5)
	for rank := MinRank; rank <= MaxRank; rank++ {
		c = append(c, Stack{Card: NumberCard(rank), Count: rank})
	}

	return append(c,
		Stack{Card: SpecialCard(SecondChance), Count: 3},
		Stack{Card: SpecialCard(Freeze), Count: 3},
		Stack{Card: SpecialCard(FlipThree), Count: 3},
		Stack{Card: SpecialCard(DoubleScore), Count: 1},
		Stack{Card: SpecialCard(FlatBonus), Count: 1},
	)
}

// Deck represents a draw pile
type Deck struct {
	Cards       []*Card `json:"cards"`
	composition Composition
	rng         rng.Generator
}

// New returns a new deck with the default composition
// Important! this deck is unshuffled. You must call Reset() or Shuffle()
func New() *Deck {
	return NewWithComposition(DefaultComposition())
}

// NewWithComposition returns an unshuffled deck built from the composition
func NewWithComposition(composition Composition) *Deck {
	d := &Deck{
		composition: composition,
		rng:         rng.Crypto{},
	}

	d.buildDeck()
	return d
}

// SetGenerator replaces the random source
// This should only be used by tests
func (d *Deck) SetGenerator(g rng.Generator) {
	d.rng = g
}

func (d *Deck) buildDeck() {
	cards := make([]*Card, 0, d.composition.Size())
	for _, stack := range d.composition {
		for i := 0; i < stack.Count; i++ {
			cards = append(cards, stack.Card)
		}
	}

	d.Cards = cards
}

// Reset rebuilds the full composition and shuffles it
func (d *Deck) Reset() {
	d.buildDeck()
	d.Shuffle()
}

// Shuffle shuffles the remaining cards
func (d *Deck) Shuffle() {
	for j := len(d.Cards) - 1; j > 0; j-- {
		i := d.rng.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Draw will draw the next card
// If there are no more cards, an ErrEndOfDeck is returned along with a nil card.
func (d *Deck) Draw() (*Card, error) {
	if len(d.Cards) <= 0 {
		return nil, ErrEndOfDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// DrawOrReset draws a card, rebuilding the deck once if it is empty
// reshuffled is true if a reset happened
func (d *Deck) DrawOrReset() (card *Card, reshuffled bool, err error) {
	card, err = d.Draw()
	if err == nil {
		return card, false, nil
	}

	d.Reset()
	card, err = d.Draw()
	return card, true, err
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}

// Size returns the number of cards in a freshly reset deck
func (d *Deck) Size() int {
	return d.composition.Size()
}
