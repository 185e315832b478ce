package engine

import (
	"fmt"
	"math/rand"
)

type Suit string

const (
	SuitClubs    Suit = "clubs"
	SuitDiamonds Suit = "diamonds"
	SuitSpades   Suit = "spades"
	SuitHearts   Suit = "hearts"
)

var suits = []Suit{SuitClubs, SuitDiamonds, SuitSpades, SuitHearts}

const (
	NumPlayers     = 4
	HandSize       = 13
	DeckSize       = 52
	PointsPerRound = 26

	// Card values run 2..14, with 14 = ace.
	MinValue = 2
	MaxValue = 14

	DefaultScoreLimit = 100
)

// Card is a value object; two cards are equal iff suit and value match.
type Card struct {
	Suit  Suit
	Value int
}

var (
	TwoOfClubs    = Card{Suit: SuitClubs, Value: 2}
	QueenOfSpades = Card{Suit: SuitSpades, Value: 12}
)

func (s Suit) Valid() bool {
	switch s {
	case SuitClubs, SuitDiamonds, SuitSpades, SuitHearts:
		return true
	default:
		return false
	}
}

func (s Suit) String() string {
	switch s {
	case SuitClubs:
		return "C"
	case SuitDiamonds:
		return "D"
	case SuitSpades:
		return "S"
	case SuitHearts:
		return "H"
	default:
		return "?"
	}
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", valueName(c.Value), c.Suit.String())
}

func valueName(v int) string {
	switch v {
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	case 14:
		return "A"
	default:
		return fmt.Sprintf("%d", v)
	}
}

// BuildDeck returns all 52 suit/value combinations.
func BuildDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range suits {
		for v := MinValue; v <= MaxValue; v++ {
			deck = append(deck, Card{Suit: s, Value: v})
		}
	}
	return deck
}

// Shuffle returns a shuffled copy of deck. The random source is injected so
// deals are reproducible in tests.
func Shuffle(deck []Card, rng *rand.Rand) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// Deal splits a deck into four hands of thirteen, round-robin starting at
// hand 0.
func Deal(deck []Card) [NumPlayers][]Card {
	var hands [NumPlayers][]Card
	for i := range hands {
		hands[i] = make([]Card, 0, HandSize)
	}
	for i, c := range deck {
		hands[i%NumPlayers] = append(hands[i%NumPlayers], c)
	}
	return hands
}
