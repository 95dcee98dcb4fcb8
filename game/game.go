// Package game runs a match: whose turn it is, the dice, the ticket tent,
// and the coins each player has. It wraps the board and the dice so that a
// front end (the shell, a script) only has to ask for actions.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/camelup/betting"
	"github.com/domino14/camelup/board"
	"github.com/domino14/camelup/camel"
	"github.com/domino14/camelup/dice"
	"github.com/domino14/camelup/equity"
)

const (
	DefaultStartingCoins = 3
	// StartingSquares is how many squares the random start spreads the
	// camels over.
	StartingSquares = 3
)

var (
	ErrGameOver  = errors.New("the match is over")
	ErrNoPlayers = errors.New("a game needs at least one player")
)

type PlayState int

const (
	StatePlaying PlayState = iota
	StateGameOver
)

func (p PlayState) String() string {
	if p == StateGameOver {
		return "game over"
	}
	return "playing"
}

type Options struct {
	NumSquares    int
	StartingCoins int
}

func DefaultOptions() Options {
	return Options{NumSquares: board.DefaultNumSquares, StartingCoins: DefaultStartingCoins}
}

// LegSummary records how a leg ended and what each player earned from it.
type LegSummary struct {
	Leg    int
	First  camel.Color
	Second camel.Color
	Deltas []int
}

// TurnResult describes the consequences of rolling a die.
type TurnResult struct {
	Player     string
	Roll       dice.Roll
	Square     int
	LegEnded   bool
	MatchEnded bool
	// Summary is set when the roll closed a leg.
	Summary *LegSummary
}

// Game is the full state of a match. There are no globals; several games
// may be run side by side.
type Game struct {
	opts    Options
	board   *board.Board
	dice    *dice.RoundState
	tent    *betting.Tent
	players playerStates

	onturn  int
	turnnum int
	leg     int
	playing PlayState

	legs []LegSummary
}

// NewGame sets up a match. Each camel, in color order, is put on top of a
// random square among the first three. src may be nil.
func NewGame(opts Options, playerNames []string, src dice.Source) (*Game, error) {
	if len(playerNames) == 0 {
		return nil, ErrNoPlayers
	}
	if opts.NumSquares == 0 {
		opts.NumSquares = board.DefaultNumSquares
	}
	b, err := board.New(opts.NumSquares)
	if err != nil {
		return nil, err
	}
	if src == nil {
		src = dice.DefaultSource()
	}
	for _, c := range camel.All() {
		if err := b.Place(c, src.Intn(min(StartingSquares, b.NumSquares()))); err != nil {
			return nil, err
		}
	}
	g := &Game{
		opts:  opts,
		board: b,
		dice:  dice.NewRoundState(src),
		tent:  betting.NewTent(),
		leg:   1,
		players: lo.Map(playerNames, func(name string, _ int) *playerState {
			return newPlayerState(name, opts.StartingCoins)
		}),
	}
	log.Debug().Str("board", b.String()).Int("players", len(playerNames)).Msg("new-game")
	return g, nil
}

func (g *Game) Board() *board.Board {
	return g.board
}

func (g *Game) Dice() *dice.RoundState {
	return g.dice
}

func (g *Game) Tent() *betting.Tent {
	return g.tent
}

func (g *Game) Players() []PlayerInfo {
	return g.players.info()
}

func (g *Game) PlayerOnTurn() int {
	return g.onturn
}

func (g *Game) Turn() int {
	return g.turnnum
}

func (g *Game) Leg() int {
	return g.leg
}

func (g *Game) Playing() PlayState {
	return g.playing
}

// Legs returns the summaries of the legs finished so far.
func (g *Game) Legs() []LegSummary {
	return g.legs
}

func (g *Game) nextTurn() {
	g.onturn = (g.onturn + 1) % len(g.players)
	g.turnnum++
}

// RollDie is the pyramid action: the player on turn takes a token and a
// random remaining die is rolled, moving its camel.
func (g *Game) RollDie() (*TurnResult, error) {
	if g.playing == StateGameOver {
		return nil, ErrGameOver
	}
	roll, err := g.dice.RollRandom()
	if err != nil {
		return nil, err
	}
	g.players[g.onturn].tokens++
	return g.afterRoll(roll)
}

// ApplyRoll records a roll made elsewhere (for instance on a physical
// board being followed along) as the action of the player on turn.
func (g *Game) ApplyRoll(c camel.Color, face int) (*TurnResult, error) {
	if g.playing == StateGameOver {
		return nil, ErrGameOver
	}
	if err := g.dice.Set(c, face); err != nil {
		return nil, err
	}
	g.players[g.onturn].tokens++
	return g.afterRoll(dice.Roll{Color: c, Face: face})
}

func (g *Game) afterRoll(roll dice.Roll) (*TurnResult, error) {
	dst, ended, err := g.board.Move(roll.Color, roll.Face)
	if err != nil {
		return nil, err
	}
	res := &TurnResult{
		Player:     g.players[g.onturn].name,
		Roll:       roll,
		Square:     dst,
		MatchEnded: ended,
	}
	log.Debug().Str("player", res.Player).Str("roll", roll.String()).Int("square", dst).
		Bool("match-ended", ended).Msg("rolled-die")

	switch {
	case ended:
		res.LegEnded = true
		res.Summary = g.settleLeg()
		g.playing = StateGameOver
	case g.dice.IsRoundFinished():
		res.LegEnded = true
		res.Summary = g.settleLeg()
		g.startLeg()
	}
	g.nextTurn()
	return res, nil
}

// TakeTicket gives the player on turn the top ticket for c.
func (g *Game) TakeTicket(c camel.Color) (betting.Ticket, error) {
	if g.playing == StateGameOver {
		return betting.Ticket{}, ErrGameOver
	}
	t, err := g.tent.Take(c)
	if err != nil {
		return t, err
	}
	p := g.players[g.onturn]
	p.tickets = append(p.tickets, t)
	log.Debug().Str("player", p.name).Str("ticket", t.String()).Msg("took-ticket")
	g.nextTurn()
	return t, nil
}

func (g *Game) settleLeg() *LegSummary {
	first, second, _ := g.board.Leaders()
	s := LegSummary{
		Leg:    g.leg,
		First:  first,
		Second: second,
		Deltas: make([]int, len(g.players)),
	}
	for i, p := range g.players {
		d := p.legDelta(first, second)
		p.coins += d
		s.Deltas[i] = d
	}
	g.legs = append(g.legs, s)
	log.Debug().Int("leg", s.Leg).Str("first", first.String()).Str("second", second.String()).
		Ints("deltas", s.Deltas).Msg("leg-settled")
	return &s
}

func (g *Game) startLeg() {
	g.leg++
	g.dice.Reset()
	g.tent.Reset()
	g.players.resetLeg()
}

// Evaluate asks the oracle for the EV of every ticket on offer right now.
func (g *Game) Evaluate(ctx context.Context, e *equity.Evaluator) (*equity.Result, error) {
	return e.Evaluate(ctx, g.board.Snapshot(), g.dice.Unrolled(), g.tent.Payout)
}

// Winners returns the names of the players with the most coins.
func (g *Game) Winners() []string {
	best := lo.Max(lo.Map(g.players, func(p *playerState, _ int) int { return p.coins }))
	return lo.FilterMap(g.players, func(p *playerState, _ int) (string, bool) {
		return p.name, p.coins == best
	})
}

func (g *Game) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Leg %d, turn %d (%v)\n", g.leg, g.turnnum+1, g.playing)
	for i, p := range g.players {
		sb.WriteString(p.stateString(i == g.onturn))
		sb.WriteString("\n")
	}
	return sb.String()
}
