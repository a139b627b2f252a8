// Package strategy holds the decision hook of the bot: given a game state,
// pick the card to play. No strategy here knows the rules of any particular
// game beyond following the led suit when it can.
package strategy

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"lukechampine.com/frand"

	"github.com/domino14/sueca/card"
	"github.com/domino14/sueca/config"
	"github.com/domino14/sueca/gamestate"
)

var (
	ErrNotImplemented  = errors.New("no strategy implemented")
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrEmptyHand       = errors.New("no cards in hand")
	ErrIllegalCard     = errors.New("card is not in hand")
)

// Strategy picks the card to play.
type Strategy interface {
	Name() string
	Play(ctx context.Context, gs *gamestate.GameState) (card.Card, error)
}

// Func adapts a plain function to the Strategy interface.
type Func func(ctx context.Context, gs *gamestate.GameState) (card.Card, error)

func (f Func) Name() string { return "func" }

func (f Func) Play(ctx context.Context, gs *gamestate.GameState) (card.Card, error) {
	return f(ctx, gs)
}

// Registered strategy names.
const (
	NameNone   = "none"
	NameRandom = "random"
	NameFollow = "follow"
	NameLua    = "lua"
)

var constructors = map[string]func(cfg *config.Config) (Strategy, error){
	NameNone: func(*config.Config) (Strategy, error) {
		return Unimplemented{}, nil
	},
	NameRandom: func(cfg *config.Config) (Strategy, error) {
		return NewRandom(newRNG(cfg.GetInt64(config.ConfigRNGSeed))), nil
	},
	NameFollow: func(cfg *config.Config) (Strategy, error) {
		return NewFollow(newRNG(cfg.GetInt64(config.ConfigRNGSeed))), nil
	},
	NameLua: func(cfg *config.Config) (Strategy, error) {
		return NewLua(cfg.GetString(config.ConfigStrategyScript))
	},
}

// Names lists the strategies New knows about.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for n := range constructors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New builds the named strategy. The result is wrapped with Enforce, so it
// can only ever return a card from the hand.
func New(name string, cfg *config.Config) (Strategy, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownStrategy, name, Names())
	}
	s, err := ctor(cfg)
	if err != nil {
		return nil, err
	}
	return Enforce(s), nil
}

// rng is the subset of *frand.RNG the random strategies need.
type rng interface {
	Intn(n int) int
}

func newRNG(seed int64) *frand.RNG {
	if seed == 0 {
		return frand.New()
	}
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))
	return frand.NewCustom(buf[:], 1024, 12)
}

// Unimplemented is the empty hook: it never picks anything.
type Unimplemented struct{}

func (Unimplemented) Name() string { return NameNone }

func (Unimplemented) Play(context.Context, *gamestate.GameState) (card.Card, error) {
	return card.Card{}, ErrNotImplemented
}
