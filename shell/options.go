package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/camelup/board"
	"github.com/domino14/camelup/config"
	"github.com/domino14/camelup/dice"
	"github.com/domino14/camelup/game"
)

// Options to configure the interactive shell
type ShellOptions struct {
	game.Options
	players []string
	threads int
	cache   bool
	seed    string
}

var optionKeys = []string{"threads", "cache", "players", "coins", "squares", "seed"}

func NewShellOptions(cfg *config.Config) *ShellOptions {
	return &ShellOptions{
		Options: game.Options{
			NumSquares:    cfg.GetInt(config.ConfigNumSquares),
			StartingCoins: cfg.GetInt(config.ConfigStartingCoins),
		},
		players: cfg.Players(),
		threads: cfg.GetInt(config.ConfigThreads),
		cache:   true,
		seed:    cfg.GetString(config.ConfigSeed),
	}
}

func (opts *ShellOptions) diceSource() dice.Source {
	if opts.seed == "" {
		return dice.DefaultSource()
	}
	return dice.SeededSource(opts.seed)
}

func (opts *ShellOptions) Show(key string) (bool, string) {
	switch key {
	case "threads":
		return true, strconv.Itoa(opts.threads)
	case "cache":
		return true, strconv.FormatBool(opts.cache)
	case "players":
		return true, strings.Join(opts.players, ",")
	case "coins":
		return true, strconv.Itoa(opts.StartingCoins)
	case "squares":
		return true, strconv.Itoa(opts.NumSquares)
	case "seed":
		return true, opts.seed
	default:
		return false, "No such option: " + key
	}
}

func (opts *ShellOptions) ToDisplayText() string {
	out := strings.Builder{}
	out.WriteString("Settings:\n")
	for _, key := range optionKeys {
		_, val := opts.Show(key)
		out.WriteString("  " + key + ": ")
		out.WriteString(val + "\n")
	}
	return out.String()
}

// Set changes an option and returns its new value for display.
func (sc *ShellController) Set(key string, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("need a value for " + key)
	}
	opts := sc.options
	val := strings.Join(args, " ")
	switch key {
	case "threads":
		n, err := strconv.Atoi(val)
		if err != nil {
			return "", err
		}
		opts.threads = n
		sc.evaluator.SetThreads(n)
		return strconv.Itoa(sc.evaluator.Threads()), nil
	case "cache":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return "", err
		}
		opts.cache = b
		if !b {
			sc.evaluator.SetCache(nil)
		} else if sc.evaluator.Cache() == nil {
			sc.evaluator.SetCache(newTallyCache(sc.config.GetFloat64(config.ConfigCacheMemoryFraction)))
		}
	case "players":
		names := lo.Compact(lo.Map(strings.Split(val, ","), func(s string, _ int) string {
			return strings.TrimSpace(s)
		}))
		if len(names) == 0 {
			return "", game.ErrNoPlayers
		}
		opts.players = names
	case "coins":
		n, err := strconv.Atoi(val)
		if err != nil {
			return "", err
		}
		opts.StartingCoins = n
	case "squares":
		n, err := strconv.Atoi(val)
		if err != nil {
			return "", err
		}
		if _, err := board.New(n); err != nil {
			return "", err
		}
		opts.NumSquares = n
	case "seed":
		if val == "none" {
			val = ""
		}
		opts.seed = val
		sc.src = opts.diceSource()
	default:
		return "", fmt.Errorf("option %v not recognized", key)
	}
	_, ret := opts.Show(key)
	return ret, nil
}
