package gamestate

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/domino14/sueca/card"
)

// Line numbers of the encoded format.
const (
	lineCurrentPlayer = iota
	lineHand
	lineTrumpPlayer
	lineTrumpCard
	lineCurrentTrick
	lineCurrentSuit
	linePreviousTricks
	linePoints
)

type parseOptions struct {
	players int
	lenient bool
}

// ParseOption tweaks how Parse reads its input.
type ParseOption func(*parseOptions)

// WithPlayers sets the table size. Every trick must have this many cards.
func WithPlayers(n int) ParseOption {
	return func(o *parseOptions) {
		if n > 0 {
			o.players = n
		}
	}
}

// Lenient turns off all validation. Integers are read with a permissive
// prefix parse, counts are skipped rather than checked, and missing pieces
// come out as zero values. Lenient parsing never returns an error.
func Lenient() ParseOption {
	return func(o *parseOptions) {
		o.lenient = true
	}
}

// Read reads the whole stream and parses it. A leading UTF-8 byte order mark
// is dropped.
func Read(r io.Reader, opts ...ParseOption) (*GameState, error) {
	bts, err := io.ReadAll(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("reading game state: %w", err)
	}
	return Parse(string(bts), opts...)
}

// Parse returns the GameState encoded in text. Unless Lenient is given, any
// deviation from the format yields a *ParseError.
//
// The leading counts on the hand and previous-tricks lines are read as
// integers but otherwise discarded; the tokens that follow are what count.
func Parse(text string, opts ...ParseOption) (*GameState, error) {
	o := parseOptions{players: DefaultPlayers}
	for _, opt := range opts {
		opt(&o)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")

	var gs *GameState
	if o.lenient {
		gs = parseLenient(lines, o.players)
	} else {
		var err error
		gs, err = parseStrict(lines, o.players)
		if err != nil {
			return nil, err
		}
	}
	deriveSuits(gs)
	log.Debug().Int("hand", len(gs.CardsInHand)).Int("tricks", len(gs.PreviousTricks)).
		Bool("lenient", o.lenient).Msg("parsed-game-state")
	return gs, nil
}

type strictParser struct {
	lines   []string
	players int
}

func parseStrict(lines []string, players int) (*GameState, error) {
	if len(lines) != NumLines {
		return nil, parseErr(len(lines), "input", ErrLineCount,
			"expected %d lines, got %d", NumLines, len(lines))
	}
	p := &strictParser{lines: lines, players: players}
	gs := &GameState{}
	var err error

	if gs.CurrentPlayer, err = p.seat(lineCurrentPlayer, "currentPlayer"); err != nil {
		return nil, err
	}
	if gs.CardsInHand, err = p.hand(); err != nil {
		return nil, err
	}
	if gs.TrumpPlayer, err = p.seat(lineTrumpPlayer, "trumpPlayer"); err != nil {
		return nil, err
	}
	if gs.TrumpCard, err = p.trumpCard(); err != nil {
		return nil, err
	}
	if gs.CurrentTrick, err = p.trick(lineCurrentTrick, "currentTrick", strings.Fields(lines[lineCurrentTrick]), true); err != nil {
		return nil, err
	}
	if gs.CurrentTrick.Suit, err = p.suit(); err != nil {
		return nil, err
	}
	if gs.PreviousTricks, err = p.previousTricks(); err != nil {
		return nil, err
	}
	if gs.Points, err = p.points(); err != nil {
		return nil, err
	}
	return gs, nil
}

func (p *strictParser) integer(line int, field, tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, parseErr(line, field, ErrNotInteger, "%q", tok)
	}
	return n, nil
}

func (p *strictParser) single(line int, field string) (string, error) {
	toks := strings.Fields(p.lines[line])
	if len(toks) != 1 {
		return "", parseErr(line, field, ErrTokenCount, "expected 1 token, got %d", len(toks))
	}
	return toks[0], nil
}

func (p *strictParser) checkSeat(line int, field string, n int) error {
	if n < 0 || n >= p.players {
		return parseErr(line, field, ErrPlayerIndex, "%d not in [0, %d)", n, p.players)
	}
	return nil
}

func (p *strictParser) seat(line int, field string) (int, error) {
	tok, err := p.single(line, field)
	if err != nil {
		return 0, err
	}
	n, err := p.integer(line, field, tok)
	if err != nil {
		return 0, err
	}
	return n, p.checkSeat(line, field, n)
}

func (p *strictParser) card(line int, field, tok string, allowPlaceholder bool) (card.Card, error) {
	c, err := card.FromString(tok)
	if err != nil {
		return card.Card{}, parseErr(line, field, ErrMalformedCard, "%v", err)
	}
	if c.Empty() && !allowPlaceholder {
		return card.Card{}, parseErr(line, field, ErrMalformedCard, "placeholder not allowed here")
	}
	return c, nil
}

func (p *strictParser) hand() ([]card.Card, error) {
	toks := strings.Fields(p.lines[lineHand])
	if len(toks) == 0 {
		return nil, parseErr(lineHand, "cardsInHand", ErrTokenCount, "missing card count")
	}
	n, err := p.integer(lineHand, "cardsInHand", toks[0])
	if err != nil {
		return nil, err
	}
	codes := toks[1:]
	if n != len(codes) {
		log.Warn().Int("declared", n).Int("found", len(codes)).Msg("hand-count-mismatch")
	}
	if dupes := lo.FindDuplicates(codes); len(dupes) > 0 {
		return nil, parseErr(lineHand, "cardsInHand", ErrDuplicateCard, "%v", dupes)
	}
	hand := make([]card.Card, len(codes))
	for i, code := range codes {
		if hand[i], err = p.card(lineHand, "cardsInHand", code, false); err != nil {
			return nil, err
		}
	}
	return hand, nil
}

func (p *strictParser) trumpCard() (card.Card, error) {
	tok, err := p.single(lineTrumpCard, "trumpCard")
	if err != nil {
		return card.Card{}, err
	}
	return p.card(lineTrumpCard, "trumpCard", tok, false)
}

// trick parses a starting player followed by one card per seat.
func (p *strictParser) trick(line int, field string, toks []string, allowPlaceholder bool) (Trick, error) {
	if len(toks) != p.players+1 {
		return Trick{}, parseErr(line, field, ErrTrickLength,
			"expected %d tokens, got %d", p.players+1, len(toks))
	}
	start, err := p.integer(line, field, toks[0])
	if err != nil {
		return Trick{}, err
	}
	if err = p.checkSeat(line, field, start); err != nil {
		return Trick{}, err
	}
	t := Trick{StartingPlayer: start, Cards: make([]card.Card, p.players)}
	for i, code := range toks[1:] {
		if t.Cards[i], err = p.card(line, field, code, allowPlaceholder); err != nil {
			return Trick{}, err
		}
	}
	return t, nil
}

func (p *strictParser) suit() (card.Suit, error) {
	tok, err := p.single(lineCurrentSuit, "currentTrick.suit")
	if err != nil {
		return 0, err
	}
	s, err := card.SuitFromString(tok)
	if err != nil {
		return 0, parseErr(lineCurrentSuit, "currentTrick.suit", ErrMalformedSuit, "%q", tok)
	}
	return s, nil
}

func (p *strictParser) previousTricks() ([]Trick, error) {
	const field = "previousTricks"
	toks := strings.Fields(p.lines[linePreviousTricks])
	if len(toks) == 0 {
		return nil, parseErr(linePreviousTricks, field, ErrTokenCount, "missing trick count")
	}
	n, err := p.integer(linePreviousTricks, field, toks[0])
	if err != nil {
		return nil, err
	}
	rest := toks[1:]
	width := p.players + 1
	if len(rest)%width != 0 {
		return nil, parseErr(linePreviousTricks, field, ErrTrickLength,
			"%d leftover tokens", len(rest)%width)
	}
	chunks := lo.Chunk(rest, width)
	if n != len(chunks) {
		log.Warn().Int("declared", n).Int("found", len(chunks)).Msg("trick-count-mismatch")
	}
	tricks := make([]Trick, 0, len(chunks))
	for _, chunk := range chunks {
		t, err := p.trick(linePreviousTricks, field, chunk, false)
		if err != nil {
			return nil, err
		}
		tricks = append(tricks, t)
	}
	return tricks, nil
}

func (p *strictParser) points() ([]int, error) {
	toks := strings.Fields(p.lines[linePoints])
	pts := make([]int, len(toks))
	for i, tok := range toks {
		n, err := p.integer(linePoints, "points", tok)
		if err != nil {
			return nil, err
		}
		pts[i] = n
	}
	return pts, nil
}

func parseLenient(lines []string, players int) *GameState {
	for len(lines) < NumLines {
		lines = append(lines, "")
	}
	gs := &GameState{
		CurrentPlayer: looseAtoi(lines[lineCurrentPlayer]),
		CardsInHand:   looseCards(dropFirst(strings.Fields(lines[lineHand]))),
		TrumpPlayer:   looseAtoi(lines[lineTrumpPlayer]),
		TrumpCard:     card.FromStringLoose(strings.TrimSpace(lines[lineTrumpCard])),
		CurrentTrick:  looseTrick(strings.Fields(lines[lineCurrentTrick])),
	}
	if s := strings.TrimSpace(lines[lineCurrentSuit]); s != "" {
		gs.CurrentTrick.Suit = card.Suit(s[0])
	} else {
		gs.CurrentTrick.Suit = card.NoSuit
	}
	for _, chunk := range lo.Chunk(dropFirst(strings.Fields(lines[linePreviousTricks])), players+1) {
		gs.PreviousTricks = append(gs.PreviousTricks, looseTrick(chunk))
	}
	gs.Points = lo.Map(strings.Fields(lines[linePoints]), func(tok string, _ int) int {
		return looseAtoi(tok)
	})
	return gs
}

func dropFirst(toks []string) []string {
	if len(toks) == 0 {
		return nil
	}
	return toks[1:]
}

func looseCards(codes []string) []card.Card {
	return lo.Map(codes, func(code string, _ int) card.Card {
		return card.FromStringLoose(code)
	})
}

func looseTrick(toks []string) Trick {
	if len(toks) == 0 {
		return Trick{StartingPlayer: NotANumber}
	}
	return Trick{StartingPlayer: looseAtoi(toks[0]), Cards: looseCards(toks[1:])}
}

// looseAtoi reads an optional sign and the leading run of decimal digits,
// ignoring whatever follows. It returns NotANumber if there are no digits.
func looseAtoi(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return NotANumber
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// only overflow can get here
		return NotANumber
	}
	if neg {
		return -n
	}
	return n
}
