package strategy

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/domino14/sueca/card"
	"github.com/domino14/sueca/gamestate"
)

// Playable returns the cards the reference bots choose from: the whole hand
// when leading, otherwise the cards of the suit led, or the whole hand again
// if there are none.
func Playable(gs *gamestate.GameState) []card.Card {
	suit := gs.CurrentTrick.Suit
	if gs.Leading() || !suit.Valid() {
		return gs.CardsInHand
	}
	follow := lo.Filter(gs.CardsInHand, func(c card.Card, _ int) bool {
		return c.Suit == suit
	})
	if len(follow) == 0 {
		return gs.CardsInHand
	}
	return follow
}

// Random plays a uniformly random card out of Playable.
type Random struct {
	rng rng
}

func NewRandom(r rng) *Random {
	return &Random{rng: r}
}

func (r *Random) Name() string { return NameRandom }

func (r *Random) Play(ctx context.Context, gs *gamestate.GameState) (card.Card, error) {
	choices := Playable(gs)
	if len(choices) == 0 {
		return card.Card{}, ErrEmptyHand
	}
	c := choices[r.rng.Intn(len(choices))]
	zerolog.Ctx(ctx).Debug().Int("choices", len(choices)).Str("card", c.String()).Msg("random-pick")
	return c, nil
}

// Follow plays the first card in hand of the current trick's suit. If there
// is none it plays any card at random, even when leading.
type Follow struct {
	rng rng
}

func NewFollow(r rng) *Follow {
	return &Follow{rng: r}
}

func (f *Follow) Name() string { return NameFollow }

func (f *Follow) Play(ctx context.Context, gs *gamestate.GameState) (card.Card, error) {
	if len(gs.CardsInHand) == 0 {
		return card.Card{}, ErrEmptyHand
	}
	if c, ok := lo.Find(gs.CardsInHand, func(c card.Card) bool {
		return c.Suit == gs.CurrentTrick.Suit
	}); ok {
		return c, nil
	}
	c := gs.CardsInHand[f.rng.Intn(len(gs.CardsInHand))]
	zerolog.Ctx(ctx).Debug().Str("card", c.String()).Msg("follow-fallback")
	return c, nil
}

type enforced struct {
	Strategy
}

// Enforce wraps s so that a card outside the hand is reported as
// ErrIllegalCard instead of being played.
func Enforce(s Strategy) Strategy {
	if _, ok := s.(*enforced); ok {
		return s
	}
	return &enforced{Strategy: s}
}

func (e *enforced) Play(ctx context.Context, gs *gamestate.GameState) (card.Card, error) {
	if len(gs.CardsInHand) == 0 {
		return card.Card{}, ErrEmptyHand
	}
	c, err := e.Strategy.Play(ctx, gs)
	if err != nil {
		return card.Card{}, err
	}
	if !lo.Contains(gs.CardsInHand, c) {
		return card.Card{}, fmt.Errorf("%w: %s played %q", ErrIllegalCard, e.Name(), c.String())
	}
	return c, nil
}
