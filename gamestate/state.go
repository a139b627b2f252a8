// Package gamestate holds the snapshot of a trick-taking game handed to a bot
// on every turn, and the parser for its eight-line text encoding.
package gamestate

import (
	"math"

	"github.com/domino14/sueca/card"
)

const (
	// DefaultPlayers is the number of seats at the table; every trick has
	// exactly this many card slots.
	DefaultPlayers = 4
	// NumLines is the number of lines in an encoded game state.
	NumLines = 8
)

// NotANumber is what the lenient parser stores in an integer field that had
// no leading digits.
const NotANumber = math.MinInt

// Trick is one round of play. Cards are ordered by seat, so the card led is
// Cards[StartingPlayer].
type Trick struct {
	StartingPlayer int         `json:"startingPlayer" yaml:"startingPlayer"`
	Cards          []card.Card `json:"cards" yaml:"cards"`
	Suit           card.Suit   `json:"suit" yaml:"suit"`
}

// Led returns the card played by the starting player, or the placeholder if
// the index is out of range.
func (t Trick) Led() card.Card {
	if t.StartingPlayer < 0 || t.StartingPlayer >= len(t.Cards) {
		return card.Placeholder
	}
	return t.Cards[t.StartingPlayer]
}

// GameState is what the current player knows at the moment they must play.
// It is built once by Parse and never modified afterwards.
type GameState struct {
	CurrentPlayer  int         `json:"currentPlayer" yaml:"currentPlayer"`
	CardsInHand    []card.Card `json:"cardsInHand" yaml:"cardsInHand"`
	TrumpPlayer    int         `json:"trumpPlayer" yaml:"trumpPlayer"`
	TrumpCard      card.Card   `json:"trumpCard" yaml:"trumpCard"`
	CurrentTrick   Trick       `json:"currentTrick" yaml:"currentTrick"`
	PreviousTricks []Trick     `json:"previousTricks" yaml:"previousTricks"`
	Points         []int       `json:"points" yaml:"points"`
}

// NumPlayers is the table size, taken from the width of the current trick.
func (gs *GameState) NumPlayers() int {
	if len(gs.CurrentTrick.Cards) == 0 {
		return DefaultPlayers
	}
	return len(gs.CurrentTrick.Cards)
}

// Leading is true when the current player starts the trick in progress.
func (gs *GameState) Leading() bool {
	return gs.CurrentPlayer == gs.CurrentTrick.StartingPlayer
}

// TrumpSuit is the suit of the trump card.
func (gs *GameState) TrumpSuit() card.Suit {
	return gs.TrumpCard.Suit
}

// HasCard reports whether c is in the current player's hand.
func (gs *GameState) HasCard(c card.Card) bool {
	for _, h := range gs.CardsInHand {
		if h == c {
			return true
		}
	}
	return false
}

// deriveSuits fills in the suit of every previous trick. The suit is never
// read from the input; it is the suit of the card the starting player led.
func deriveSuits(gs *GameState) {
	for i := range gs.PreviousTricks {
		t := &gs.PreviousTricks[i]
		if t.StartingPlayer < 0 || t.StartingPlayer >= len(t.Cards) {
			t.Suit = card.NoSuit
			continue
		}
		t.Suit = t.Cards[t.StartingPlayer].Suit
	}
}
