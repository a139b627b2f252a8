package shell

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("sueca_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// pushResult pushes either the response message or the error text.
func pushResult(L *lua.LState, name string, r *Response, err error) int {
	if err != nil {
		log.Err(err).Msg("error-executing-" + name)
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	L.Push(lua.LString(r.message))
	// return number of results pushed to stack.
	return 1
}

func optionalArgs(L *lua.LState) []string {
	var args []string
	for i := 1; i <= L.GetTop(); i++ {
		args = append(args, L.ToString(i))
	}
	return args
}

func Load(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.load(&shellcmd{cmd: "load", args: optionalArgs(L)})
	return pushResult(L, "load", r, err)
}

func Set(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.set(&shellcmd{cmd: "set", args: optionalArgs(L)})
	return pushResult(L, "set", r, err)
}

func Show(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.show(&shellcmd{cmd: "show", args: optionalArgs(L)})
	return pushResult(L, "show", r, err)
}

func Play(L *lua.LState) int {
	sc := getShell(L)
	ctx := L.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := sc.play(ctx, &shellcmd{cmd: "play", args: optionalArgs(L), options: CmdOptions{}})
	return pushResult(L, "play", r, err)
}

func (sc *ShellController) script(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("sueca_shell", lsc)
	L.SetGlobal("sueca_load", L.NewFunction(Load))
	L.SetGlobal("sueca_set", L.NewFunction(Set))
	L.SetGlobal("sueca_show", L.NewFunction(Show))
	L.SetGlobal("sueca_play", L.NewFunction(Play))
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		sc.showMessage(L.ToString(1))
		return 0
	}))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
