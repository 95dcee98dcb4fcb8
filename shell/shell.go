package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"unsafe"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/camelup/cache"
	"github.com/domino14/camelup/config"
	"github.com/domino14/camelup/dice"
	"github.com/domino14/camelup/equity"
	"github.com/domino14/camelup/game"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("please start a game first with the `new` command")
	errEvaluating        = errors.New("an evaluation is already running")
)

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

type ShellController struct {
	l          *readline.Instance
	config     *config.Config
	execPath   string
	gitVersion string

	options *ShellOptions
	src     dice.Source

	game      *game.Game
	evaluator *equity.Evaluator
	lastEval  *equity.Result

	evalLogFile *os.File
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) stderr() io.Writer {
	if sc.l == nil {
		return os.Stderr
	}
	return sc.l.Stderr()
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc := newController(cfg, execPath, gitVersion)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[33mcamelup>\033[0m ",
		HistoryFile:     "/tmp/camelup_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	return sc
}

// newController sets up everything but the terminal.
func newController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc := &ShellController{
		config:     cfg,
		execPath:   execPath,
		gitVersion: gitVersion,
		options:    NewShellOptions(cfg),
	}
	sc.src = sc.options.diceSource()
	sc.evaluator = equity.NewEvaluator(sc.options.threads)
	if sc.options.cache {
		sc.evaluator.SetCache(newTallyCache(cfg.GetFloat64(config.ConfigCacheMemoryFraction)))
	}
	if fn := cfg.GetString(config.ConfigEvalLogFile); fn != "" {
		if err := sc.openEvalLog(fn); err != nil {
			log.Err(err).Str("file", fn).Msg("could-not-open-eval-log")
		}
	}
	if _, err := sc.newGame(&shellcmd{cmd: "new"}); err != nil {
		log.Err(err).Msg("could-not-start-game")
	}
	return sc
}

func newTallyCache(fraction float64) *cache.Cache[*equity.Tally] {
	entrySize := uint64(unsafe.Sizeof(equity.Tally{}))
	return cache.New[*equity.Tally](cache.CapacityFromMemory(fraction, entrySize))
}

func (sc *ShellController) openEvalLog(fn string) error {
	f, err := os.OpenFile(fn, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	sc.closeEvalLog()
	sc.evalLogFile = f
	sc.evaluator.SetLogStream(f)
	return nil
}

func (sc *ShellController) closeEvalLog() {
	if sc.evalLogFile == nil {
		return
	}
	sc.evaluator.SetLogStream(nil)
	if err := sc.evalLogFile.Close(); err != nil {
		log.Err(err).Msg("closing-eval-log")
	}
	sc.evalLogFile = nil
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[idx][1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	log.Debug().Msgf("cmd: %v, args: %v, options: %v", cmd, args, options)
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "bye":
		sig <- syscall.SIGINT
		return nil, errors.New("sending quit signal")
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "roll", "r":
		return sc.roll(cmd)
	case "bet", "b":
		return sc.bet(cmd)
	case "move":
		return sc.move(cmd)
	case "ev":
		return sc.ev(cmd)
	case "dice":
		return sc.dice(cmd)
	case "tickets":
		return sc.tickets(cmd)
	case "players":
		return sc.players(cmd)
	case "load":
		return sc.load(cmd)
	case "save":
		return sc.save(cmd)
	case "set":
		return sc.set(cmd)
	case "script":
		return sc.script(cmd)
	default:
		log.Info().Msgf("command %v not found", strconv.Quote(line))
		return nil, nil
	}
}

// Execute runs a single command line and prints its result.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.standardModeSwitch(line, sig)
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		resp, err := sc.standardModeSwitch(line, sig)
		if errors.Is(err, errNoData) {
			continue
		}
		if err != nil {
			sc.showError(err)
			if strings.HasPrefix(line, "exit") || strings.HasPrefix(line, "bye") {
				break
			}
			continue
		}
		if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

func (sc *ShellController) Cleanup() {
	sc.closeEvalLog()
	log.Debug().Uint64("simulations", sc.evaluator.SimulationsRun()).Msg("ev-total")
	if sc.evaluator.Cache() != nil {
		hits, misses := sc.evaluator.Cache().Stats()
		log.Debug().Int("hits", hits).Int("misses", misses).Msg("ev-cache-stats")
	}
}

func (sc *ShellController) context() context.Context {
	return log.Logger.WithContext(context.Background())
}
