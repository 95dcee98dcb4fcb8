package shell

import (
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("camelup_shell")
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

// pushResponse leaves the command output (or an error string) on the stack.
func pushResponse(L *lua.LState, name string, r *Response, err error) int {
	if err != nil {
		log.Err(err).Msg("error-executing-" + name)
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	if r == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(r.message))
	// return number of results pushed to stack.
	return 1
}

func Exec(L *lua.LState) int {
	lv := L.ToString(1)
	sc := getShell(L)
	cmd, err := extractFields(lv)
	if err != nil {
		return pushResponse(L, "exec", nil, err)
	}
	if cmd.cmd == "script" || cmd.cmd == "exit" || cmd.cmd == "bye" {
		return pushResponse(L, "exec", nil, errors.New(cmd.cmd+" is not allowed inside a script"))
	}
	r, err := sc.standardModeSwitch(lv, nil)
	return pushResponse(L, "exec", r, err)
}

func New(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.newGame(&shellcmd{cmd: "new"})
	return pushResponse(L, "new", r, err)
}

func Roll(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.roll(&shellcmd{cmd: "roll"})
	return pushResponse(L, "roll", r, err)
}

func Bet(L *lua.LState) int {
	lv := L.ToString(1)
	sc := getShell(L)
	r, err := sc.bet(&shellcmd{cmd: "bet", args: []string{lv}})
	return pushResponse(L, "bet", r, err)
}

func Show(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.show(&shellcmd{cmd: "show"})
	return pushResponse(L, "show", r, err)
}

// EV returns a table mapping each color name to its EV, or nil and an
// error string.
func EV(L *lua.LState) int {
	sc := getShell(L)
	res, err := sc.evaluate(&shellcmd{cmd: "ev", options: map[string]string{}})
	if err != nil {
		log.Err(err).Msg("error-executing-ev")
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	tbl := L.NewTable()
	for _, ce := range res.Colors {
		tbl.RawSetString(ce.Color.String(), lua.LNumber(ce.EV))
	}
	L.Push(tbl)
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("camelup_shell", lsc)
	L.SetGlobal("camelup_exec", L.NewFunction(Exec))
	L.SetGlobal("camelup_new", L.NewFunction(New))
	L.SetGlobal("camelup_roll", L.NewFunction(Roll))
	L.SetGlobal("camelup_bet", L.NewFunction(Bet))
	L.SetGlobal("camelup_show", L.NewFunction(Show))
	L.SetGlobal("camelup_ev", L.NewFunction(EV))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg("script " + filepath + " finished"), nil
}
