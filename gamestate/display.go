package gamestate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/domino14/sueca/card"
)

// Dump formats understood by GameState.Dump.
const (
	DumpYAML = "yaml"
	DumpJSON = "json"
)

// Dump writes the structured state as YAML or JSON.
func (gs *GameState) Dump(w io.Writer, format string) error {
	switch format {
	case DumpYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(gs); err != nil {
			return err
		}
		return enc.Close()
	case DumpJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(gs)
	}
	return fmt.Errorf("unknown dump format %q", format)
}

func trickLine(t Trick) string {
	cells := make([]string, len(t.Cards))
	for i, c := range t.Cards {
		s := c.String()
		if i == t.StartingPlayer {
			s = "*" + s
		}
		cells[i] = fmt.Sprintf("%4s", s)
	}
	return strings.Join(cells, "")
}

// ToDisplayText turns the state into something a human can read at a glance.
// The card led in each trick is starred.
func (gs *GameState) ToDisplayText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Player on turn: %d\n", gs.CurrentPlayer)
	fmt.Fprintf(&sb, "Hand (%d): %s\n", len(gs.CardsInHand), card.Join(gs.CardsInHand))
	fmt.Fprintf(&sb, "Trump: %s (set by player %d)\n", gs.TrumpCard, gs.TrumpPlayer)
	fmt.Fprintf(&sb, "Points: %v\n", gs.Points)
	sb.WriteString("\n")

	header := make([]string, gs.NumPlayers())
	for i := range header {
		header[i] = fmt.Sprintf("%4s", fmt.Sprintf("P%d", i))
	}
	fmt.Fprintf(&sb, "      %s  suit\n", strings.Join(header, ""))
	for i, t := range gs.PreviousTricks {
		fmt.Fprintf(&sb, "%4d: %s  %s\n", i+1, trickLine(t), t.Suit)
	}
	fmt.Fprintf(&sb, " now: %s  %s\n", trickLine(gs.CurrentTrick), gs.CurrentTrick.Suit)
	return sb.String()
}
