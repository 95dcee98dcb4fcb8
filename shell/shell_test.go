package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/camelup/camel"
	"github.com/domino14/camelup/config"
	"github.com/domino14/camelup/display"
)

func init() {
	display.ColorSupport = false
}

const testPosition = `
stacks:
  0: [R, B, P]
  10: [Y]
  12: [G]
rolled: {red: 1, blue: 2, purple: 3, green: 1}
`

func newTestController(t *testing.T) *ShellController {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigSeed, "shell-test")
	cfg.Set(config.ConfigPlayers, []string{"cesar", "jesse"})
	sc := newController(cfg, t.TempDir(), "test")
	t.Cleanup(sc.Cleanup)
	return sc
}

func writeFile(t *testing.T, name, contents string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"ev -threads 4",
			&shellcmd{"ev", nil, map[string]string{"threads": "4"}},
			nil},
		{"bet red",
			&shellcmd{"bet", []string{"red"}, map[string]string{}},
			nil},
		{"ev hist blue -cache false ",
			&shellcmd{"ev",
				[]string{"hist", "blue"},
				map[string]string{"cache": "false"}},
			nil,
		},
		{`load "my position.yaml"`,
			&shellcmd{"load", []string{"my position.yaml"}, map[string]string{}},
			nil},
		{"ev -threads",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func TestPlayersFromEnvironment(t *testing.T) {
	is := is.New(t)
	t.Setenv("CAMELUP_PLAYERS", "cesar,jesse,josh")
	sc := newController(config.DefaultConfig(), t.TempDir(), "test")
	t.Cleanup(sc.Cleanup)
	players := sc.game.Players()
	is.Equal(len(players), 3)
	is.Equal(players[2].Name, "josh")
}

func TestNewGameFromConfig(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	is.True(sc.game != nil)
	players := sc.game.Players()
	is.Equal(len(players), 2)
	is.Equal(players[0].Name, "cesar")
	r, err := sc.standardModeSwitch("show", nil)
	is.NoErr(err)
	is.True(strings.Contains(r.message, "Leg 1, turn 1"))
}

func TestBetAndRoll(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	r, err := sc.standardModeSwitch("bet purple", nil)
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "cesar takes the purple ticket worth 5"))
	is.Equal(sc.game.PlayerOnTurn(), 1)

	r, err = sc.standardModeSwitch("roll", nil)
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "jesse rolled "))
	is.Equal(len(sc.game.Dice().Unrolled()), camel.NumColors-1)

	_, err = sc.standardModeSwitch("bet orange", nil)
	is.True(err != nil)
	_, err = sc.standardModeSwitch("move", nil)
	is.True(err != nil)
}

func TestLoadAndEvaluate(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	path := writeFile(t, "pos.yaml", testPosition)
	_, err := sc.standardModeSwitch("load "+path, nil)
	is.NoErr(err)

	r, err := sc.standardModeSwitch("ev", nil)
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "3 simulations over 1 dice"))
	is.True(strings.Contains(r.message, "Best bet: yellow"))

	r, err = sc.standardModeSwitch("ev -threads 2 -cache false", nil)
	is.NoErr(err)
	is.True(!strings.Contains(r.message, "(cached)"))
	is.True(sc.evaluator.Cache() != nil)

	r, err = sc.standardModeSwitch("ev", nil)
	is.NoErr(err)
	is.True(strings.Contains(r.message, "(cached)"))

	r, err = sc.standardModeSwitch("ev hist yellow", nil)
	is.NoErr(err)
	is.True(strings.Contains(r.message, "Final square of yellow over 3 simulations"))

	// yellow rolls a 3 and wins the leg.
	_, err = sc.standardModeSwitch("move yellow 3", nil)
	is.NoErr(err)
	is.Equal(sc.game.Leg(), 2)
	is.True(sc.lastEval == nil)
}

func TestSaveAndLoad(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	path := filepath.Join(t.TempDir(), "saved.yaml")
	_, err := sc.standardModeSwitch("save "+path, nil)
	is.NoErr(err)
	before := sc.game.Board().Snapshot()

	_, err = sc.standardModeSwitch("new", nil)
	is.NoErr(err)
	_, err = sc.standardModeSwitch("load "+path, nil)
	is.NoErr(err)
	is.Equal(sc.game.Board().Snapshot(), before)
}

func TestEvaluationLog(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	is.NoErr(sc.game.LoadPosition(strings.NewReader(testPosition)))
	logPath := filepath.Join(t.TempDir(), "ev.yaml")

	_, err := sc.standardModeSwitch("ev log "+logPath, nil)
	is.NoErr(err)
	_, err = sc.standardModeSwitch("ev -cache false", nil)
	is.NoErr(err)
	_, err = sc.standardModeSwitch("ev log off", nil)
	is.NoErr(err)
	is.True(sc.evalLogFile == nil)

	dat, err := os.ReadFile(logPath)
	is.NoErr(err)
	is.True(strings.Contains(string(dat), "simulations: 3"))
}

func TestSetOptions(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	r, err := sc.standardModeSwitch("set threads 3", nil)
	is.NoErr(err)
	is.Equal(r.message, "set threads to 3")
	is.Equal(sc.evaluator.Threads(), 3)

	_, err = sc.standardModeSwitch("set cache false", nil)
	is.NoErr(err)
	is.True(sc.evaluator.Cache() == nil)

	_, err = sc.standardModeSwitch("set players a,b,c", nil)
	is.NoErr(err)
	_, err = sc.standardModeSwitch("set squares 20", nil)
	is.NoErr(err)
	_, err = sc.standardModeSwitch("new", nil)
	is.NoErr(err)
	is.Equal(len(sc.game.Players()), 3)
	is.Equal(sc.game.Board().NumSquares(), 20)

	_, err = sc.standardModeSwitch("set squares 1", nil)
	is.True(err != nil)
	_, err = sc.standardModeSwitch("set bogus 1", nil)
	is.True(err != nil)

	r, err = sc.standardModeSwitch("set", nil)
	is.NoErr(err)
	is.True(strings.Contains(r.message, "players: a,b,c"))
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	is.NoErr(sc.game.LoadPosition(strings.NewReader(testPosition)))
	script := writeFile(t, "best.lua", `
local json = require("json")
local ev = camelup_ev()
local best, bestEV = nil, -100
for _, color in ipairs({"red", "yellow", "green", "blue", "purple"}) do
  if ev[color] > bestEV then
    best, bestEV = color, ev[color]
  end
end
local decoded = json.decode(json.encode(ev))
if decoded[best] ~= bestEV then
  error("json round trip changed the EV")
end
camelup_bet(best)
local out = camelup_exec("dice")
if not string.find(out, "In pyramid") then
  error("unexpected dice output: " .. out)
end
`)
	_, err := sc.standardModeSwitch("script "+script, nil)
	is.NoErr(err)
	tickets := sc.game.Players()[0].Tickets
	is.Equal(len(tickets), 1)
	is.Equal(tickets[0].Color, camel.Yellow)

	bad := writeFile(t, "bad.lua", `error("boom")`)
	_, err = sc.standardModeSwitch("script "+bad, nil)
	is.True(err != nil)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	r, err := sc.standardModeSwitch("help", nil)
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "camelup test"))
	r, err = sc.standardModeSwitch("help ev", nil)
	is.NoErr(err)
	is.True(strings.Contains(r.message, "ev hist <color>"))
	_, err = sc.standardModeSwitch("help ../shell", nil)
	is.True(err != nil)
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	c := NewShellCompleter(newTestController(t))
	line := []rune("ti")
	matches, n := c.Do(line, len(line))
	is.Equal(n, 2)
	is.Equal(matches, [][]rune{[]rune("ckets")})

	line = []rune("bet pu")
	matches, _ = c.Do(line, len(line))
	is.Equal(matches, [][]rune{[]rune("rple")})

	line = []rune("ev -")
	matches, _ = c.Do(line, len(line))
	is.Equal(len(matches), 2)
}
