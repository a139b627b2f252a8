package turnplayer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/domino14/sueca/card"
	"github.com/domino14/sueca/gamestate"
	"github.com/domino14/sueca/strategy"
)

var ErrNoState = errors.New("no game state loaded")

// Basic turn. Load a state, ask the strategy for a card.

var _ TurnPlayer = (*BaseTurnPlayer)(nil)

type BaseTurnPlayer struct {
	opts     *Options
	strategy strategy.Strategy
	state    *gamestate.GameState
	dumpTo   io.Writer
}

func NewBaseTurnPlayer(opts *Options, s strategy.Strategy) *BaseTurnPlayer {
	return &BaseTurnPlayer{
		opts:     opts,
		strategy: strategy.Enforce(s),
		dumpTo:   os.Stderr,
	}
}

// SetDumpWriter sets where the parsed state is dumped when a dump format is
// configured. Defaults to stderr; stdout carries only the card.
func (p *BaseTurnPlayer) SetDumpWriter(w io.Writer) {
	p.dumpTo = w
}

func (p *BaseTurnPlayer) Options() *Options {
	return p.opts
}

func (p *BaseTurnPlayer) LoadState(r io.Reader) error {
	gs, err := gamestate.Read(r, p.opts.parseOptions()...)
	if err != nil {
		return err
	}
	p.state = gs
	if p.opts.DumpFormat != "" {
		if err := gs.Dump(p.dumpTo, p.opts.DumpFormat); err != nil {
			return err
		}
	}
	return nil
}

func (p *BaseTurnPlayer) State() *gamestate.GameState {
	return p.state
}

func (p *BaseTurnPlayer) SetStrategy(s strategy.Strategy) {
	p.strategy = strategy.Enforce(s)
}

func (p *BaseTurnPlayer) Strategy() strategy.Strategy {
	return p.strategy
}

func (p *BaseTurnPlayer) PlayTurn(ctx context.Context) (card.Card, error) {
	if p.state == nil {
		return card.Card{}, ErrNoState
	}
	logger := zerolog.Ctx(ctx).With().
		Str("strategy", p.strategy.Name()).
		Str("state-hash", fmt.Sprintf("%016x", p.state.Hash())).
		Logger()
	c, err := p.strategy.Play(logger.WithContext(ctx), p.state)
	if err != nil {
		return card.Card{}, err
	}
	logger.Info().Str("card", c.String()).Msg("played")
	return c, nil
}

// Run plays one whole turn: the state is read from r until EOF and the
// chosen card code is written to w on a line of its own.
func (p *BaseTurnPlayer) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	if err := p.LoadState(r); err != nil {
		return err
	}
	c, err := p.PlayTurn(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, c.String())
	return err
}
