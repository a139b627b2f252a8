// Package card implements the two-character card codes used by the game
// state format: a rank followed by a suit, e.g. "QC" for the queen of clubs.
// A single "X" stands in for a card that hasn't been played yet.
package card

import (
	"errors"
	"fmt"
	"strings"
)

// Suit is the suit letter of a card.
type Suit byte

const (
	Clubs    Suit = 'C'
	Diamonds Suit = 'D'
	Hearts   Suit = 'H'
	Spades   Suit = 'S'
	// NoSuit marks a trick whose suit hasn't been established yet.
	NoSuit Suit = 'X'
)

// PlaceholderCode is the token used in place of an unplayed card.
const PlaceholderCode = "X"

// Ranks lists every rank letter we accept, lowest first. Ten is "T" since
// codes are always two characters wide.
const Ranks = "23456789TJQKA"

var (
	ErrMalformed   = errors.New("malformed card code")
	ErrUnknownSuit = errors.New("unknown suit")
	ErrUnknownRank = errors.New("unknown rank")
)

// Card is a single card. The zero value is not a valid card; use
// Placeholder for "not yet played".
type Card struct {
	Rank byte
	Suit Suit
}

// Placeholder is the card in a trick slot that nobody has filled yet.
var Placeholder = Card{Rank: 'X', Suit: NoSuit}

// Valid reports whether s is one of the four real suits.
func (s Suit) Valid() bool {
	switch s {
	case Clubs, Diamonds, Hearts, Spades:
		return true
	}
	return false
}

func (s Suit) String() string {
	if s == 0 {
		return ""
	}
	return string(rune(s))
}

func (s Suit) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Suit) UnmarshalText(b []byte) error {
	if len(b) != 1 {
		return fmt.Errorf("%w: %q", ErrUnknownSuit, b)
	}
	v := Suit(b[0])
	if !v.Valid() && v != NoSuit {
		return fmt.Errorf("%w: %q", ErrUnknownSuit, b)
	}
	*s = v
	return nil
}

// SuitFromString parses a suit token. "X" yields NoSuit.
func SuitFromString(s string) (Suit, error) {
	var v Suit
	err := v.UnmarshalText([]byte(s))
	return v, err
}

// Empty is true for the placeholder, or any card whose rank is X.
func (c Card) Empty() bool {
	return c.Rank == 'X'
}

// String is the card code. Bytes a loose parse left unset are omitted, so a
// lone "3" read leniently prints back as "3".
func (c Card) String() string {
	if c.Empty() {
		return PlaceholderCode
	}
	b := make([]byte, 0, 2)
	if c.Rank != 0 {
		b = append(b, c.Rank)
	}
	if c.Suit != 0 {
		b = append(b, byte(c.Suit))
	}
	return string(b)
}

func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Card) UnmarshalText(b []byte) error {
	v, err := FromString(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// FromString parses a card code strictly. The rank must be one of Ranks and
// the suit one of C, D, H, S. "X" parses to Placeholder.
func FromString(s string) (Card, error) {
	if s == PlaceholderCode {
		return Placeholder, nil
	}
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if strings.IndexByte(Ranks, s[0]) < 0 {
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownRank, s)
	}
	suit := Suit(s[1])
	if !suit.Valid() {
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownSuit, s)
	}
	return Card{Rank: s[0], Suit: suit}, nil
}

// FromStringLoose never fails. Anything starting with X becomes the
// placeholder; otherwise the first two bytes are taken as rank and suit, and
// missing bytes are left zero.
func FromStringLoose(s string) Card {
	if len(s) == 0 {
		return Card{}
	}
	if s[0] == 'X' {
		return Placeholder
	}
	c := Card{Rank: s[0]}
	if len(s) > 1 {
		c.Suit = Suit(s[1])
	}
	return c
}

// FromStrings parses a list of codes strictly, stopping at the first error.
func FromStrings(codes []string) ([]Card, error) {
	cards := make([]Card, len(codes))
	for i, code := range codes {
		c, err := FromString(code)
		if err != nil {
			return nil, err
		}
		cards[i] = c
	}
	return cards, nil
}

// Join renders cards as space-separated codes.
func Join(cards []Card) string {
	var sb strings.Builder
	for i, c := range cards {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}
