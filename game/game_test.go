package game

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/camelup/betting"
	"github.com/domino14/camelup/board"
	"github.com/domino14/camelup/camel"
	"github.com/domino14/camelup/dice"
	"github.com/domino14/camelup/equity"
)

// scriptedSource returns its values in order, modulo n.
type scriptedSource struct {
	vals []int
	i    int
}

func (s *scriptedSource) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func newTestGame(t *testing.T, players ...string) *Game {
	is := is.New(t)
	// Every camel starts on square 0, stacked in color order.
	g, err := NewGame(DefaultOptions(), players, &scriptedSource{vals: []int{0}})
	is.NoErr(err)
	return g
}

func TestNewGame(t *testing.T) {
	is := is.New(t)
	g, err := NewGame(DefaultOptions(), []string{"cesar", "jesse"}, dice.SeededSource("new"))
	is.NoErr(err)
	is.True(g.Board().Complete())
	is.NoErr(g.Board().Validate())
	for _, c := range camel.All() {
		sq, _, ok := g.Board().PositionOf(c)
		is.True(ok)
		is.True(sq >= 0 && sq < StartingSquares)
	}
	is.Equal(g.Leg(), 1)
	is.Equal(g.Playing(), StatePlaying)
	is.Equal(len(g.Players()), 2)
	is.Equal(g.Players()[0].Coins, DefaultStartingCoins)
	is.Equal(len(g.Dice().Unrolled()), camel.NumColors)

	_, err = NewGame(DefaultOptions(), nil, nil)
	is.True(errors.Is(err, ErrNoPlayers))
	_, err = NewGame(Options{NumSquares: 1}, []string{"a"}, nil)
	is.True(errors.Is(err, board.ErrBadLength))
}

func TestStartingStackOrder(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "a")
	is.Equal(g.Board().Stack(0), camel.All())
}

func TestTakeTicketAdvancesTurn(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "a", "b")
	tk, err := g.TakeTicket(camel.Blue)
	is.NoErr(err)
	is.Equal(tk, betting.Ticket{Color: camel.Blue, Value: 5})
	is.Equal(g.PlayerOnTurn(), 1)
	tk, err = g.TakeTicket(camel.Blue)
	is.NoErr(err)
	is.Equal(tk.Value, 3)
	is.Equal(g.PlayerOnTurn(), 0)
	is.Equal(g.Players()[0].Tickets, []betting.Ticket{{Color: camel.Blue, Value: 5}})
	is.Equal(g.Turn(), 2)

	g.TakeTicket(camel.Blue)
	g.TakeTicket(camel.Blue)
	_, err = g.TakeTicket(camel.Blue)
	is.True(errors.Is(err, betting.ErrNoTickets))
	is.Equal(g.Turn(), 4)
}

func TestLegSettlement(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "a", "b")
	// a bets on purple, b bets on red.
	_, err := g.TakeTicket(camel.Purple)
	is.NoErr(err)
	_, err = g.TakeTicket(camel.Red)
	is.NoErr(err)

	// Blue carries purple away from the pack; the others shuffle forward
	// one square, then purple steps out in front.
	rolls := []dice.Roll{
		{Color: camel.Blue, Face: 3},
		{Color: camel.Green, Face: 1},
		{Color: camel.Yellow, Face: 1},
		{Color: camel.Red, Face: 1},
	}
	for _, r := range rolls {
		res, err := g.ApplyRoll(r.Color, r.Face)
		is.NoErr(err)
		is.True(!res.LegEnded)
	}
	res, err := g.ApplyRoll(camel.Purple, 1)
	is.NoErr(err)
	is.True(res.LegEnded)
	is.True(!res.MatchEnded)
	is.Equal(res.Player, "a")
	is.Equal(res.Summary.First, camel.Purple)
	is.Equal(res.Summary.Second, camel.Blue)
	// a: 3 tokens + 5 for purple winning. b: 2 tokens - 1 for red.
	is.Equal(res.Summary.Deltas, []int{8, 1})

	players := g.Players()
	is.Equal(players[0].Coins, DefaultStartingCoins+8)
	is.Equal(players[1].Coins, DefaultStartingCoins+1)
	is.Equal(players[0].Tokens, 0)
	is.Equal(len(players[0].Tickets), 0)
	is.Equal(g.Leg(), 2)
	is.Equal(len(g.Dice().Unrolled()), camel.NumColors)
	tk, ok := g.Tent().Top(camel.Purple)
	is.True(ok)
	is.Equal(tk.Value, 5)
	is.Equal(len(g.Legs()), 1)
}

func TestMatchEnd(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "a", "b")
	is.NoErr(g.LoadPosition(strings.NewReader(`
stacks:
  0: [R, Y, G]
  13: [B]
  14: [P]
`)))
	_, err := g.TakeTicket(camel.Blue)
	is.NoErr(err)
	res, err := g.ApplyRoll(camel.Blue, 3)
	is.NoErr(err)
	is.True(res.MatchEnded)
	is.True(res.LegEnded)
	is.Equal(res.Square, 15)
	is.Equal(res.Summary.First, camel.Blue)
	is.Equal(g.Playing(), StateGameOver)
	is.Equal(g.Winners(), []string{"a"})

	_, err = g.RollDie()
	is.True(errors.Is(err, ErrGameOver))
	_, err = g.TakeTicket(camel.Red)
	is.True(errors.Is(err, ErrGameOver))
}

func TestRollDie(t *testing.T) {
	is := is.New(t)
	// A long track so that no camel can finish during the leg.
	g, err := NewGame(Options{NumSquares: board.MaxSquares, StartingCoins: DefaultStartingCoins},
		[]string{"a", "b", "c"}, dice.SeededSource("roll"))
	is.NoErr(err)
	for i := 0; i < camel.NumColors-1; i++ {
		res, err := g.RollDie()
		is.NoErr(err)
		is.True(res.Roll.Face >= dice.MinFace && res.Roll.Face <= dice.MaxFace)
		is.NoErr(g.Board().Validate())
	}
	is.Equal(len(g.Dice().Unrolled()), 1)
	res, err := g.RollDie()
	is.NoErr(err)
	is.True(res.LegEnded)
	is.Equal(g.Leg(), 2)
	is.Equal(g.PlayerOnTurn(), 2)
	// Tokens were paid out: 2 + 2 + 1.
	total := 0
	for _, p := range g.Players() {
		total += p.Coins
	}
	is.Equal(total, 3*DefaultStartingCoins+camel.NumColors)
}

func TestApplyRollRejectsRepeat(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "a")
	_, err := g.ApplyRoll(camel.Green, 2)
	is.NoErr(err)
	_, err = g.ApplyRoll(camel.Green, 1)
	is.True(errors.Is(err, dice.ErrAlreadyRolled))
	_, err = g.ApplyRoll(camel.Red, 4)
	is.True(errors.Is(err, dice.ErrBadFace))
}

func TestEvaluate(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "a")
	is.NoErr(g.LoadPosition(strings.NewReader(`
stacks:
  0: [R, B, P]
  10: [Y]
  12: [G]
rolled: {red: 1, blue: 2, purple: 3, green: 1}
tickets_taken: {yellow: 1}
`)))
	before := g.Board().Snapshot()
	res, err := g.Evaluate(context.Background(), equity.NewEvaluator(1))
	is.NoErr(err)
	is.Equal(res.Simulations, 3)
	is.Equal(res.Colors[camel.Yellow].Payout, 3)
	// Yellow wins 2 of 3 and is second otherwise: 2/3*3 + 1/3.
	is.True(res.EV(camel.Yellow) > 2.33 && res.EV(camel.Yellow) < 2.34)
	is.Equal(*g.Board(), before)
}

func TestWinnersTie(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "a", "b", "c")
	g.players[1].coins = 9
	g.players[2].coins = 9
	is.Equal(g.Winners(), []string{"b", "c"})
}
