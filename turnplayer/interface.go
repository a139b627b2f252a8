package turnplayer

import (
	"context"
	"io"

	"github.com/domino14/sueca/card"
	"github.com/domino14/sueca/gamestate"
	"github.com/domino14/sueca/strategy"
)

// TurnPlayer encapsulates all the functions needed to play a single turn
// of a trick-taking card game.
type TurnPlayer interface {
	LoadState(r io.Reader) error
	State() *gamestate.GameState
	SetStrategy(s strategy.Strategy)
	PlayTurn(ctx context.Context) (card.Card, error)
}
