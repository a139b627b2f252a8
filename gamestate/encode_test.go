package gamestate

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestEncodeRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, f := range []string{"./testdata/example.txt", "./testdata/midgame.txt"} {
		gs, err := Parse(slurp(t, f))
		is.NoErr(err)

		again, err := Parse(gs.String())
		is.NoErr(err)
		is.Equal(again, gs)
		is.Equal(again.Hash(), gs.Hash())
	}
}

func TestEncodeCanonicalizesCounts(t *testing.T) {
	is := is.New(t)
	// The example declares 2 previous tricks but only carries one.
	gs, err := Parse(slurp(t, "./testdata/example.txt"))
	is.NoErr(err)
	lines := strings.Split(gs.String(), "\n")
	is.Equal(lines[6], "1 3 KC AC 2C QC")
	is.Equal(lines[1], "9 2D 3H 4H 5H 6H 7H 7S KS QC")
}

func TestEncodeMidgame(t *testing.T) {
	text := slurp(t, "./testdata/midgame.txt")
	gs, err := Parse(text)
	assert.Nil(t, err)
	var buf bytes.Buffer
	assert.Nil(t, gs.Encode(&buf))
	assert.Equal(t, text, buf.String())
}

func TestEncodeEmpty(t *testing.T) {
	is := is.New(t)
	gs := &GameState{CurrentTrick: Trick{StartingPlayer: 0}}
	is.Equal(gs.String(), "0\n0\n0\n\n0\nX\n0\n\n")
}

func TestDumpJSON(t *testing.T) {
	is := is.New(t)
	gs, err := Parse(slurp(t, "./testdata/example.txt"))
	is.NoErr(err)

	var buf bytes.Buffer
	is.NoErr(gs.Dump(&buf, DumpJSON))

	var back GameState
	is.NoErr(json.Unmarshal(buf.Bytes(), &back))
	is.Equal(&back, gs)

	var raw map[string]any
	is.NoErr(json.Unmarshal(buf.Bytes(), &raw))
	is.Equal(raw["trumpCard"], "2D")
	is.Equal(raw["currentPlayer"], float64(1))
}

func TestDumpYAML(t *testing.T) {
	is := is.New(t)
	gs, err := Parse(slurp(t, "./testdata/example.txt"))
	is.NoErr(err)

	var buf bytes.Buffer
	is.NoErr(gs.Dump(&buf, DumpYAML))

	var raw map[string]any
	is.NoErr(yaml.Unmarshal(buf.Bytes(), &raw))
	is.Equal(raw["trumpCard"], "2D")
	is.Equal(raw["currentPlayer"], 1)
	is.Equal(raw["cardsInHand"], []any{"2D", "3H", "4H", "5H", "6H", "7H", "7S", "KS", "QC"})

	trick, ok := raw["currentTrick"].(map[string]any)
	is.True(ok)
	is.Equal(trick["suit"], "X")
}

func TestDumpUnknownFormat(t *testing.T) {
	is := is.New(t)
	gs, err := Parse(slurp(t, "./testdata/example.txt"))
	is.NoErr(err)
	is.True(gs.Dump(&bytes.Buffer{}, "toml") != nil)
}

func TestToDisplayText(t *testing.T) {
	is := is.New(t)
	gs, err := Parse(slurp(t, "./testdata/midgame.txt"))
	is.NoErr(err)
	txt := gs.ToDisplayText()
	is.True(strings.Contains(txt, "Hand (8): 2S 4S 5D 7D QH JH AC 6C"))
	is.True(strings.Contains(txt, "Trump: 7H (set by player 0)"))
	// the led card is starred
	is.True(strings.Contains(txt, "*AS"))
	is.True(strings.Contains(txt, "*AH"))
}
