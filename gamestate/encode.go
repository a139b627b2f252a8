package gamestate

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"

	"github.com/domino14/sueca/card"
)

// Encode writes gs back out in the eight-line format, so that Parse on the
// output gives back an equal GameState.
func (gs *GameState) Encode(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d\n", gs.CurrentPlayer)
	fmt.Fprintf(&sb, "%s\n", withCount(len(gs.CardsInHand), card.Join(gs.CardsInHand)))
	fmt.Fprintf(&sb, "%d\n", gs.TrumpPlayer)
	fmt.Fprintf(&sb, "%s\n", gs.TrumpCard)
	fmt.Fprintf(&sb, "%s\n", encodeTrick(gs.CurrentTrick))

	suit := gs.CurrentTrick.Suit
	if suit == 0 {
		suit = card.NoSuit
	}
	fmt.Fprintf(&sb, "%s\n", suit)

	tricks := make([]string, len(gs.PreviousTricks))
	for i, t := range gs.PreviousTricks {
		tricks[i] = encodeTrick(t)
	}
	fmt.Fprintf(&sb, "%s\n", withCount(len(tricks), strings.Join(tricks, " ")))

	pts := make([]string, len(gs.Points))
	for i, p := range gs.Points {
		pts[i] = strconv.Itoa(p)
	}
	fmt.Fprintf(&sb, "%s\n", strings.Join(pts, " "))

	_, err := io.WriteString(w, sb.String())
	return err
}

func (gs *GameState) String() string {
	var sb strings.Builder
	// strings.Builder never fails
	_ = gs.Encode(&sb)
	return sb.String()
}

// Hash is a fingerprint of the encoded state. Two states hash the same iff
// they encode the same.
func (gs *GameState) Hash() uint64 {
	var buf bytes.Buffer
	_ = gs.Encode(&buf)
	return xxhash.Sum64(buf.Bytes())
}

func withCount(n int, rest string) string {
	if rest == "" {
		return strconv.Itoa(n)
	}
	return strconv.Itoa(n) + " " + rest
}

func encodeTrick(t Trick) string {
	if len(t.Cards) == 0 {
		return strconv.Itoa(t.StartingPlayer)
	}
	return strconv.Itoa(t.StartingPlayer) + " " + card.Join(t.Cards)
}
