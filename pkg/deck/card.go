package deck

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownCard is returned when a card name cannot be reconstructed
var ErrUnknownCard = errors.New("unknown card")

// Kind is the category of a card
type Kind int

// Kind constants
const (
	KindNumber Kind = iota
	KindAction
	KindBonus
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindAction:
		return "action"
	case KindBonus:
		return "bonus"
	}

	panic(fmt.Sprintf("unknown kind: %d", k))
}

// Special identifies a non-numeric card
type Special int

// Special constants
const (
	None Special = iota
	SecondChance
	Freeze
	FlipThree
	DoubleScore
	FlatBonus
)

// rank bounds for number cards
const (
	MinRank = 1
	MaxRank = 12
)

type specialInfo struct {
	kind Kind
	name string
}

var specials = map[Special]specialInfo{
	SecondChance: {KindAction, "Second Chance"},
	Freeze:       {KindAction, "Freeze"},
	FlipThree:    {KindAction, "Flip Three"},
	DoubleScore:  {KindBonus, "x2"},
	FlatBonus:    {KindBonus, "+10"},
}

func (s Special) String() string {
	if info, ok := specials[s]; ok {
		return info.name
	}

	if s == None {
		return "None"
	}

	panic(fmt.Sprintf("unknown special: %d", s))
}

// Card is an individual Flip Seven card
// Cards are immutable once created
type Card struct {
	rank    int
	special Special
}

// NumberCard returns a number card of the given rank
func NumberCard(rank int) *Card {
	if rank < MinRank || rank > MaxRank {
		panic(fmt.Sprintf("rank out of range: %d", rank))
	}

	return &Card{rank: rank}
}

// SpecialCard returns a non-numeric card
func SpecialCard(special Special) *Card {
	if _, ok := specials[special]; !ok {
		panic(fmt.Sprintf("unknown special: %d", special))
	}

	return &Card{special: special}
}

// Rank returns the numeric rank, or 0 for non-numeric cards
func (c *Card) Rank() int {
	return c.rank
}

// Special returns the special type, or None for number cards
func (c *Card) Special() Special {
	return c.special
}

// Kind returns the category of the card
func (c *Card) Kind() Kind {
	if c.special == None {
		return KindNumber
	}

	return specials[c.special].kind
}

// IsNumber returns true for rank cards
func (c *Card) IsNumber() bool {
	return c.Kind() == KindNumber
}

// IsAction returns true for cards that target a participant
func (c *Card) IsAction() bool {
	return c.Kind() == KindAction
}

// IsBonus returns true for score modifiers
func (c *Card) IsBonus() bool {
	return c.Kind() == KindBonus
}

// Is returns true if the card is the specified special
func (c *Card) Is(special Special) bool {
	return c.special == special
}

// String returns the display name, which is also the serialized form
func (c *Card) String() string {
	if c.special == None {
		return strconv.Itoa(c.rank)
	}

	return specials[c.special].name
}

// MarshalJSON encodes the card as its display name
func (c *Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a display name
func (c *Card) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	card, err := ParseCard(s)
	if err != nil {
		return err
	}

	*c = *card
	return nil
}

// reconstruction table for serialized names
var byName = buildNameTable()

func buildNameTable() map[string]Card {
	table := make(map[string]Card, MaxRank+len(specials))
	for rank := MinRank; rank <= MaxRank; rank++ {
		table[strconv.Itoa(rank)] = Card{rank: rank}
	}

	for special, info := range specials {
		table[info.name] = Card{special: special}
	}

	return table
}

// ParseCard reconstructs a card from its display name using an exact lookup
func ParseCard(s string) (*Card, error) {
	card, ok := byName[s]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCard, s)
	}

	return &card, nil
}

// ParseCards reconstructs a comma-separated list of cards
// An empty string is an empty list
func ParseCards(s string) ([]*Card, error) {
	if s == "" {
		return []*Card{}, nil
	}

	parts := strings.Split(s, ",")
	cards := make([]*Card, 0, len(parts))
	for _, part := range parts {
		card, err := ParseCard(part)
		if err != nil {
			return nil, err
		}

		cards = append(cards, card)
	}

	return cards, nil
}

// CardFromString is like ParseCard, but panics on failure
// This is intended for tests
func CardFromString(s string) *Card {
	card, err := ParseCard(s)
	if err != nil {
		panic(err)
	}

	return card
}

// CardsFromString is like ParseCards, but panics on failure
func CardsFromString(s string) []*Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}

	return cards
}

// CardsToString joins the display names with commas
func CardsToString(cards []*Card) string {
	names := make([]string, len(cards))
	for i, card := range cards {
		names[i] = card.String()
	}

	return strings.Join(names, ",")
}
