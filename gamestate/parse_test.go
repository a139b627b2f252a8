package gamestate

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/sueca/card"
)

func slurp(t *testing.T, filename string) string {
	t.Helper()
	bts, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	return string(bts)
}

func mustCards(t *testing.T, codes string) []card.Card {
	t.Helper()
	cards, err := card.FromStrings(strings.Fields(codes))
	if err != nil {
		t.Fatal(err)
	}
	return cards
}

func exampleState(t *testing.T) *GameState {
	return &GameState{
		CurrentPlayer: 1,
		CardsInHand:   mustCards(t, "2D 3H 4H 5H 6H 7H 7S KS QC"),
		TrumpPlayer:   1,
		TrumpCard:     card.Card{Rank: '2', Suit: card.Diamonds},
		CurrentTrick: Trick{
			StartingPlayer: 1,
			Cards:          mustCards(t, "X X X X"),
			Suit:           card.NoSuit,
		},
		PreviousTricks: []Trick{
			{StartingPlayer: 3, Cards: mustCards(t, "KC AC 2C QC"), Suit: card.Clubs},
		},
		Points: []int{0, 17},
	}
}

func TestParseExample(t *testing.T) {
	gs, err := Parse(slurp(t, "./testdata/example.txt"))
	assert.Nil(t, err)
	assert.Equal(t, exampleState(t), gs)
}

func TestParseLenientExample(t *testing.T) {
	gs, err := Parse(slurp(t, "./testdata/example.txt"), Lenient())
	assert.Nil(t, err)
	assert.Equal(t, exampleState(t), gs)
}

func TestParseMidgame(t *testing.T) {
	is := is.New(t)
	gs, err := Parse(slurp(t, "./testdata/midgame.txt"))
	is.NoErr(err)

	is.Equal(gs.CurrentPlayer, 2)
	is.Equal(len(gs.CardsInHand), 8)
	is.Equal(gs.TrumpSuit(), card.Hearts)
	is.True(!gs.Leading())
	is.Equal(gs.CurrentTrick.Suit, card.Hearts)
	is.Equal(gs.CurrentTrick.Led(), card.Card{Rank: 'A', Suit: card.Hearts})
	is.Equal(len(gs.PreviousTricks), 2)
	is.Equal(gs.PreviousTricks[0].Suit, card.Diamonds)
	is.Equal(gs.PreviousTricks[1].Suit, card.Spades)
	is.Equal(gs.Points, []int{25, 10})
	is.Equal(gs.NumPlayers(), 4)
	is.True(gs.HasCard(card.Card{Rank: 'A', Suit: card.Clubs}))
	is.True(!gs.HasCard(card.Card{Rank: 'A', Suit: card.Hearts}))
}

func TestDerivedSuitIsLedSuit(t *testing.T) {
	is := is.New(t)
	for _, f := range []string{"./testdata/example.txt", "./testdata/midgame.txt"} {
		for _, opts := range [][]ParseOption{nil, {Lenient()}} {
			gs, err := Parse(slurp(t, f), opts...)
			is.NoErr(err)
			for _, tr := range gs.PreviousTricks {
				is.Equal(tr.Suit, tr.Cards[tr.StartingPlayer].Suit)
			}
		}
	}
}

func TestHandLengthIsTokensMinusOne(t *testing.T) {
	is := is.New(t)
	for _, f := range []string{"./testdata/example.txt", "./testdata/midgame.txt"} {
		text := slurp(t, f)
		toks := strings.Fields(strings.Split(text, "\n")[1])
		gs, err := Parse(text)
		is.NoErr(err)
		is.Equal(len(gs.CardsInHand), len(toks)-1)
	}
}

func TestParseDeterministic(t *testing.T) {
	is := is.New(t)
	text := slurp(t, "./testdata/midgame.txt")
	a, err := Parse(text)
	is.NoErr(err)
	b, err := Parse(text)
	is.NoErr(err)
	is.Equal(a, b)
	is.Equal(a.Hash(), b.Hash())

	c, err := Parse(slurp(t, "./testdata/example.txt"))
	is.NoErr(err)
	is.True(a.Hash() != c.Hash())
}

func TestParseCRLF(t *testing.T) {
	is := is.New(t)
	text := strings.ReplaceAll(slurp(t, "./testdata/example.txt"), "\n", "\r\n")
	gs, err := Parse(text)
	is.NoErr(err)
	is.Equal(gs, exampleState(t))
}

func TestParseNoTrailingNewline(t *testing.T) {
	is := is.New(t)
	text := strings.TrimSuffix(slurp(t, "./testdata/example.txt"), "\n")
	gs, err := Parse(text)
	is.NoErr(err)
	is.Equal(gs, exampleState(t))
}

func TestReadStripsBOM(t *testing.T) {
	is := is.New(t)
	text := "\ufeff" + slurp(t, "./testdata/example.txt")
	gs, err := Read(bytes.NewBufferString(text))
	is.NoErr(err)
	is.Equal(gs, exampleState(t))
}

func TestParseTwoPlayers(t *testing.T) {
	is := is.New(t)
	text := "0\n2 AS KS\n1\n3C\n1 X 4D\nD\n1 0 2H 9H\n4 0\n"
	gs, err := Parse(text, WithPlayers(2))
	is.NoErr(err)
	is.Equal(gs.NumPlayers(), 2)
	is.Equal(gs.PreviousTricks[0].Suit, card.Hearts)

	_, err = Parse(text)
	is.True(errors.Is(err, ErrTrickLength))
}

func replaceLine(text string, line int, with string) string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	lines[line] = with
	return strings.Join(lines, "\n") + "\n"
}

func TestParseErrors(t *testing.T) {
	base := slurp(t, "./testdata/example.txt")
	testcases := []struct {
		name string
		text string
		line int
		kind error
	}{
		{"too few lines", strings.Join(strings.Split(base, "\n")[:7], "\n"), 7, ErrLineCount},
		{"too many lines", base + "extra\n", 9, ErrLineCount},
		{"current player not a number", replaceLine(base, 0, "one"), 0, ErrNotInteger},
		{"current player out of range", replaceLine(base, 0, "7"), 0, ErrPlayerIndex},
		{"current player two tokens", replaceLine(base, 0, "1 2"), 0, ErrTokenCount},
		{"empty hand line", replaceLine(base, 1, ""), 1, ErrTokenCount},
		{"hand count not a number", replaceLine(base, 1, "x 2D"), 1, ErrNotInteger},
		{"duplicate card", replaceLine(base, 1, "2 2D 2D"), 1, ErrDuplicateCard},
		{"short card code", replaceLine(base, 1, "2 2D 2"), 1, ErrMalformedCard},
		{"placeholder in hand", replaceLine(base, 1, "1 X"), 1, ErrMalformedCard},
		{"two trump cards", replaceLine(base, 3, "2D 3D"), 3, ErrTokenCount},
		{"unknown trump suit", replaceLine(base, 3, "2Z"), 3, ErrMalformedCard},
		{"short current trick", replaceLine(base, 4, "1 X X X"), 4, ErrTrickLength},
		{"current trick starter", replaceLine(base, 4, "4 X X X X"), 4, ErrPlayerIndex},
		{"bad suit", replaceLine(base, 5, "Z"), 5, ErrMalformedSuit},
		{"leftover trick tokens", replaceLine(base, 6, "1 3 KC AC 2C QC 2"), 6, ErrTrickLength},
		{"placeholder in previous trick", replaceLine(base, 6, "1 3 KC AC 2C X"), 6, ErrMalformedCard},
		{"previous trick starter", replaceLine(base, 6, "1 4 KC AC 2C QC"), 6, ErrPlayerIndex},
		{"missing trick count", replaceLine(base, 6, ""), 6, ErrTokenCount},
		{"points not a number", replaceLine(base, 7, "0 seventeen"), 7, ErrNotInteger},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			gs, err := Parse(tc.text)
			is.True(gs == nil)
			is.True(errors.Is(err, tc.kind)) // error kind
			var perr *ParseError
			is.True(errors.As(err, &perr))
			is.Equal(perr.Line, tc.line)
		})
	}
}

func TestParseIgnoresDeclaredCounts(t *testing.T) {
	is := is.New(t)
	base := slurp(t, "./testdata/example.txt")
	gs, err := Parse(replaceLine(base, 1, "3 2D 3H"))
	is.NoErr(err)
	is.Equal(len(gs.CardsInHand), 2)

	gs, err = Parse(replaceLine(base, 6, "0"))
	is.NoErr(err)
	is.Equal(len(gs.PreviousTricks), 0)
}

func TestParseLenientNeverFails(t *testing.T) {
	is := is.New(t)
	inputs := []string{
		"",
		"\n\n\n",
		"abc\nfoo\nbar\nbaz\nqux\nquux\ncorge\ngrault\n",
		"1\n9 2D\n1\n2D\n1 X\nX\n0 7 AC\n0 17\n",
		"1\n9 2D\n1\n2D\n1 X\nX\n0 1 AC KC\n\n",
		"1\n\n1\n\n\n\n\n\n\n\n\n\n",
	}
	for _, in := range inputs {
		gs, err := Parse(in, Lenient())
		is.NoErr(err)
		is.True(gs != nil)
		for _, tr := range gs.PreviousTricks {
			if tr.StartingPlayer < 0 || tr.StartingPlayer >= len(tr.Cards) {
				is.Equal(tr.Suit, card.NoSuit)
			}
		}
	}

	gs, err := Parse("", Lenient())
	is.NoErr(err)
	is.Equal(gs.CurrentPlayer, NotANumber)
	is.Equal(gs.TrumpPlayer, NotANumber)
	is.Equal(gs.CurrentTrick.StartingPlayer, NotANumber)
	is.Equal(len(gs.CardsInHand), 0)
	is.Equal(gs.CurrentTrick.Suit, card.NoSuit)
}

func TestParseLenientPermissiveIntegers(t *testing.T) {
	is := is.New(t)
	gs, err := Parse("2abc\n1 AS\n3rd\nKH\n0x X X X X\nX\n0\n12pts -4\n", Lenient())
	is.NoErr(err)
	is.Equal(gs.CurrentPlayer, 2)
	is.Equal(gs.TrumpPlayer, 3)
	is.Equal(gs.CurrentTrick.StartingPlayer, 0)
	is.Equal(gs.Points, []int{12, -4})
}

func TestLooseAtoi(t *testing.T) {
	is := is.New(t)
	testcases := []struct {
		in  string
		out int
	}{
		{"17", 17},
		{"  42  ", 42},
		{"-3", -3},
		{"+8", 8},
		{"12abc", 12},
		{"abc", NotANumber},
		{"", NotANumber},
		{"-", NotANumber},
		{"99999999999999999999999", NotANumber},
	}
	for _, tc := range testcases {
		is.Equal(looseAtoi(tc.in), tc.out)
	}
}
