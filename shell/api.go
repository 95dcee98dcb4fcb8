package shell

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/camelup/camel"
	"github.com/domino14/camelup/display"
	"github.com/domino14/camelup/equity"
	"github.com/domino14/camelup/game"
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return msg(sc.options.ToDisplayText()), nil
	}
	opt := cmd.args[0]
	if len(cmd.args) == 1 {
		_, val := sc.options.Show(opt)
		return msg(val), nil
	}
	values := cmd.args[1:]
	ret, err := sc.Set(opt, values)
	if err != nil {
		return nil, err
	}
	return msg("set " + opt + " to " + ret), nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	if sc.evaluator.IsEvaluating() {
		return nil, errEvaluating
	}
	sc.src = sc.options.diceSource()
	g, err := game.NewGame(sc.options.Options, sc.options.players, sc.src)
	if err != nil {
		return nil, err
	}
	sc.game = g
	sc.lastEval = nil
	return msg(display.Game(sc.game)), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(display.Game(sc.game)), nil
}

func (sc *ShellController) turnMessage(res *game.TurnResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s rolled %s; %s moves to square %d\n",
		res.Player, display.Camel(res.Roll.Color), res.Roll.Color, res.Square)
	if res.Summary != nil {
		fmt.Fprintf(&sb, "Leg %d is over: %v first, %v second\n",
			res.Summary.Leg, res.Summary.First, res.Summary.Second)
		for i, p := range sc.game.Players() {
			fmt.Fprintf(&sb, "  %s: %+d\n", p.Name, res.Summary.Deltas[i])
		}
	}
	if res.MatchEnded {
		sb.WriteString("The match is over!\n")
	}
	sb.WriteString("\n")
	sb.WriteString(display.Game(sc.game))
	return sb.String()
}

func (sc *ShellController) roll(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	res, err := sc.game.RollDie()
	if err != nil {
		return nil, err
	}
	sc.lastEval = nil
	return msg(sc.turnMessage(res)), nil
}

func (sc *ShellController) move(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: move <color> <face>")
	}
	c, err := camel.Parse(cmd.args[0])
	if err != nil {
		return nil, err
	}
	face, err := strconv.Atoi(cmd.args[1])
	if err != nil {
		return nil, err
	}
	res, err := sc.game.ApplyRoll(c, face)
	if err != nil {
		return nil, err
	}
	sc.lastEval = nil
	return msg(sc.turnMessage(res)), nil
}

func (sc *ShellController) bet(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: bet <color>")
	}
	c, err := camel.Parse(cmd.args[0])
	if err != nil {
		return nil, err
	}
	player := sc.game.Players()[sc.game.PlayerOnTurn()].Name
	t, err := sc.game.TakeTicket(c)
	if err != nil {
		return nil, err
	}
	sc.lastEval = nil
	return msg(fmt.Sprintf("%s takes the %v ticket worth %d\n\n%s",
		player, t.Color, t.Value, display.Game(sc.game))), nil
}

// evaluate runs the oracle on the current game. The threads and cache
// options apply to this run only.
func (sc *ShellController) evaluate(cmd *shellcmd) (*equity.Result, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if sc.evaluator.IsEvaluating() {
		return nil, errEvaluating
	}
	e := sc.evaluator
	if t, ok := cmd.options["threads"]; ok {
		n, err := strconv.Atoi(t)
		if err != nil {
			return nil, err
		}
		defer e.SetThreads(e.Threads())
		e.SetThreads(n)
	}
	if c, ok := cmd.options["cache"]; ok {
		useCache, err := strconv.ParseBool(c)
		if err != nil {
			return nil, err
		}
		if !useCache && e.Cache() != nil {
			defer e.SetCache(e.Cache())
			e.SetCache(nil)
		}
	}
	res, err := sc.game.Evaluate(sc.context(), e)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("simulations", res.Simulations).Int("threads", e.Threads()).
		Dur("elapsed", res.Elapsed).Msg("shell-ev")
	sc.lastEval = res
	return res, nil
}

func (sc *ShellController) ev(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		res, err := sc.evaluate(cmd)
		if err != nil {
			return nil, err
		}
		return msg(display.Evaluation(res)), nil
	}
	switch cmd.args[0] {
	case "hist":
		if len(cmd.args) != 2 {
			return nil, errors.New("usage: ev hist <color>")
		}
		c, err := camel.Parse(cmd.args[1])
		if err != nil {
			return nil, err
		}
		res := sc.lastEval
		if res == nil {
			if res, err = sc.evaluate(cmd); err != nil {
				return nil, err
			}
		}
		var sb strings.Builder
		if err := display.Histogram(&sb, res, c); err != nil {
			return nil, err
		}
		return msg(sb.String()), nil
	case "log":
		if len(cmd.args) != 2 {
			return nil, errors.New("usage: ev log <file>|off")
		}
		if cmd.args[1] == "off" {
			sc.closeEvalLog()
			return msg("evaluation log off"), nil
		}
		if err := sc.openEvalLog(cmd.args[1]); err != nil {
			return nil, err
		}
		return msg("evaluations will be logged to " + cmd.args[1]), nil
	}
	return nil, fmt.Errorf("unknown ev subcommand %v", cmd.args[0])
}

func (sc *ShellController) dice(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(display.Dice(sc.game.Dice().Status())), nil
}

func (sc *ShellController) tickets(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(display.Tickets(sc.game.Tent())), nil
}

func (sc *ShellController) players(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(display.Players(sc.game)), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("need a position file for load")
	}
	f, err := os.Open(cmd.args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := sc.game.LoadPosition(f); err != nil {
		return nil, err
	}
	sc.lastEval = nil
	return msg(display.Game(sc.game)), nil
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("need a file name for save")
	}
	f, err := os.Create(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if err := sc.game.WritePosition(f); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return msg("position saved to " + cmd.args[0]), nil
}
