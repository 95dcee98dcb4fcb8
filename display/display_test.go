package display

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/camelup/betting"
	"github.com/domino14/camelup/board"
	"github.com/domino14/camelup/camel"
	"github.com/domino14/camelup/dice"
	"github.com/domino14/camelup/equity"
	"github.com/domino14/camelup/game"
)

func init() {
	ColorSupport = false
}

func TestBoard(t *testing.T) {
	is := is.New(t)
	b := board.MakeBoard(5)
	is.NoErr(b.SetStack(1, camel.Red, camel.Yellow))
	is.NoErr(b.Place(camel.Blue, 3))
	out := Board(b)
	lines := strings.Split(out, "\n")
	is.Equal(lines[0], "    Y          ")
	is.Equal(lines[1], "    R     B    ")
	is.Equal(lines[2], " _  _  _  _  | ")
	is.Equal(lines[3], " 0  1  2  3  4 ")
}

func TestColoredCamel(t *testing.T) {
	is := is.New(t)
	ColorSupport = true
	defer func() { ColorSupport = false }()
	is.Equal(Camel(camel.Green), "\033[1;32mG\033[0m")
}

func TestDiceAndTickets(t *testing.T) {
	is := is.New(t)
	rs := dice.NewRoundState(nil)
	is.NoErr(rs.Set(camel.Blue, 3))
	is.Equal(Dice(rs.Status()), "Rolled: B:3\nIn pyramid: R Y G P\n")

	tent := betting.NewTent()
	for range betting.TicketValues {
		_, err := tent.Take(camel.Red)
		is.NoErr(err)
	}
	_, err := tent.Take(camel.Green)
	is.NoErr(err)
	is.Equal(Tickets(tent), "Tickets: R:- Y:5(4) G:3(3) B:5(4) P:5(4)\n")
}

func TestEvaluationAndHistogram(t *testing.T) {
	is := is.New(t)
	b := board.MakeBoard(board.DefaultNumSquares)
	is.NoErr(b.SetStack(0, camel.All()...))
	res, err := equity.NewEvaluator(2).Evaluate(context.Background(), b.Snapshot(),
		[]camel.Color{camel.Red, camel.Yellow, camel.Green, camel.Blue}, nil)
	is.NoErr(err)

	out := Evaluation(res)
	is.True(strings.HasPrefix(out, "1,944 simulations over 4 dice"))
	is.True(strings.Contains(out, "Best bet: "))
	is.Equal(len(FinalSquares(res, camel.Purple)), 1944)

	var buf bytes.Buffer
	is.NoErr(Histogram(&buf, res, camel.Red))
	is.True(strings.Contains(buf.String(), "Final square of red over 1,944 simulations"))
}

func TestGame(t *testing.T) {
	is := is.New(t)
	g, err := game.NewGame(game.DefaultOptions(), []string{"cesar", "jesse"}, dice.SeededSource("display"))
	is.NoErr(err)
	out := Game(g)
	is.True(strings.HasPrefix(out, "Leg 1, turn 1 (playing)"))
	is.True(strings.Contains(out, "-> "))
	is.True(strings.Contains(out, "cesar"))
	is.True(strings.Contains(out, "In pyramid: R Y G B P"))
}
