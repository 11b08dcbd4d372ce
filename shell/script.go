package shell

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("doubledots_shell")
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

// luaCommand exposes a shell command to Lua. The function takes the rest of
// the command line as one string and returns the command's output.
func luaCommand(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		lv := L.OptString(1, "")
		sc := getShell(L)
		cmd, err := extractFields(name + " " + lv)
		if err != nil {
			log.Err(err).Str("cmd", name).Msg("error-parsing-script-command")
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		r, err := sc.handle(cmd)
		if err != nil {
			log.Err(err).Str("cmd", name).Msg("error-executing-script-command")
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		L.Push(lua.LString(r.message))
		// return number of results pushed to stack.
		return 1
	}
}

func NoMoves(L *lua.LState) int {
	sc := getShell(L)
	if sc.game == nil {
		L.Push(lua.LTrue)
		return 1
	}
	over, err := sc.game.NoMovesLeft(context.Background())
	if err != nil {
		log.Err(err).Msg("error-executing-no-moves")
		L.Push(lua.LTrue)
		return 1
	}
	L.Push(lua.LBool(over))
	return 1
}

var scriptCommands = []string{
	"new", "show", "load", "save", "moves", "hint", "congruent", "others", "match", "set",
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("doubledots_shell", lsc)
	for _, name := range scriptCommands {
		L.SetGlobal("dd_"+name, L.NewFunction(luaCommand(name)))
	}
	L.SetGlobal("dd_no_moves", L.NewFunction(NoMoves))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg("ran script " + filepath), nil
}
