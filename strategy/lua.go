package strategy

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
	luajson "layeh.com/gopher-json"

	"github.com/domino14/sueca/cache"
	"github.com/domino14/sueca/card"
	"github.com/domino14/sueca/gamestate"
)

var (
	ErrNoScript       = errors.New("no strategy script given")
	ErrNoPlayFunction = errors.New("script does not define a play function")
	ErrBadReturn      = errors.New("play must return a card code string")
)

// Lua runs a user script. The script must define a global function
// play(state) returning a card code such as "QC". state is the game state as
// a table with the same field names as the JSON dump; arrays are 1-indexed.
// The script may require("json"), and call sueca_log(msg) to log.
type Lua struct {
	script string
}

func NewLua(script string) (*Lua, error) {
	if script == "" {
		return nil, ErrNoScript
	}
	if _, err := os.Stat(script); err != nil {
		return nil, err
	}
	return &Lua{script: script}, nil
}

func (l *Lua) Name() string { return NameLua }

func (l *Lua) Play(ctx context.Context, gs *gamestate.GameState) (card.Card, error) {
	logger := zerolog.Ctx(ctx)

	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)
	luajson.Preload(L)
	L.SetGlobal("sueca_log", L.NewFunction(func(L *lua.LState) int {
		logger.Info().Str("script", l.script).Msg(L.ToString(1))
		return 0
	}))

	proto, err := compileScript(l.script)
	if err != nil {
		return card.Card{}, fmt.Errorf("loading %s: %w", l.script, err)
	}
	L.Push(L.NewFunctionFromProto(proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return card.Card{}, fmt.Errorf("loading %s: %w", l.script, err)
	}
	fn, ok := L.GetGlobal("play").(*lua.LFunction)
	if !ok {
		return card.Card{}, fmt.Errorf("%w: %s", ErrNoPlayFunction, l.script)
	}

	bts, err := json.Marshal(gs)
	if err != nil {
		return card.Card{}, err
	}
	state, err := luajson.Decode(L, bts)
	if err != nil {
		return card.Card{}, err
	}

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, state); err != nil {
		return card.Card{}, fmt.Errorf("running %s: %w", l.script, err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	code, ok := ret.(lua.LString)
	if !ok {
		return card.Card{}, fmt.Errorf("%w, got %s", ErrBadReturn, ret.Type())
	}
	c, err := card.FromString(string(code))
	if err != nil {
		return card.Card{}, fmt.Errorf("%w: %v", ErrBadReturn, err)
	}
	logger.Debug().Str("card", c.String()).Msg("lua-pick")
	return c, nil
}

// compileScript compiles a script once per modification time; every Play
// then runs the shared bytecode in a fresh state.
func compileScript(path string) (*lua.FunctionProto, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("lua:%s:%d", path, info.ModTime().UnixNano())
	obj, err := cache.Load(key, func(string) (any, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		chunk, err := parse.Parse(bufio.NewReader(f), path)
		if err != nil {
			return nil, err
		}
		return lua.Compile(chunk, path)
	})
	if err != nil {
		return nil, err
	}
	return obj.(*lua.FunctionProto), nil
}
