package game

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/camelup/camel"
	"github.com/domino14/camelup/dice"
)

func TestLoadPosition(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "a", "b")
	_, err := g.TakeTicket(camel.Red)
	is.NoErr(err)

	is.NoErr(g.LoadPosition(strings.NewReader(`
num_squares: 16
stacks:
  4: [green, B, P]
  0: [R, Y]
rolled:
  red: 2
tickets_taken:
  blue: 2
`)))
	b := g.Board()
	is.Equal(b.Stack(4), []camel.Color{camel.Green, camel.Blue, camel.Purple})
	is.Equal(b.Stack(0), []camel.Color{camel.Red, camel.Yellow})
	is.Equal(g.Dice().Face(camel.Red), 2)
	is.Equal(len(g.Dice().Unrolled()), 4)
	tk, ok := g.Tent().Top(camel.Blue)
	is.True(ok)
	is.Equal(tk.Value, 2)
	is.Equal(len(g.Players()[0].Tickets), 0)

	var buf bytes.Buffer
	is.NoErr(g.WritePosition(&buf))
	other := newTestGame(t, "c")
	is.NoErr(other.LoadPosition(&buf))
	is.Equal(*other.Board(), *g.Board())
	is.Equal(other.Dice().Status(), g.Dice().Status())
	is.Equal(other.Tent().Status(), g.Tent().Status())
}

func TestLoadPositionErrors(t *testing.T) {
	g := newTestGame(t, "a")
	before := g.Board().Snapshot()
	for _, tc := range []struct {
		name string
		yaml string
		want error
	}{
		{"missing camel", "stacks: {0: [R, Y, G, B]}", ErrIncompletePosition},
		{"bad color", "stacks: {0: [R, Y, G, B, orange]}", camel.ErrUnknownColor},
		{"bad face", "stacks: {0: [R, Y, G, B, P]}\nrolled: {red: 6}", dice.ErrBadFace},
		{"leg over", "stacks: {0: [R, Y, G, B, P]}\nrolled: {R: 1, Y: 1, G: 1, B: 1, P: 1}", dice.ErrRoundFinished},
		{"rolled twice", "stacks: {0: [R, Y, G, B, P]}\nrolled: {R: 1, red: 2, Y: 1, G: 1, B: 1, P: 1}", ErrRepeatedColor},
		{"alias only", "stacks: {0: [R, Y, G, B, P]}\nrolled: {R: 1, red: 1}", ErrRepeatedColor},
		{"tickets twice", "stacks: {0: [R, Y, G, B, P]}\ntickets_taken: {B: 1, blue: 2}", ErrRepeatedColor},
	} {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			err := g.LoadPosition(strings.NewReader(tc.yaml))
			is.True(errors.Is(err, tc.want))
		})
	}
	is := is.New(t)
	is.True(g.LoadPosition(strings.NewReader("stacks: [oops")) != nil)
	is.True(g.LoadPosition(strings.NewReader("squares: {}")) != nil)
	is.Equal(g.Board().Snapshot(), before)
}

func TestLoadPositionWithOneDieLeft(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "a", "b")
	is.NoErr(g.LoadPosition(strings.NewReader(`
stacks: {0: [R, Y, G, B, P]}
rolled: {red: 1, Y: 1, green: 1, B: 1}
`)))
	is.True(!g.Dice().IsRoundFinished())
	is.Equal(g.Dice().Unrolled(), []camel.Color{camel.Purple})
	is.Equal(g.Playing(), StatePlaying)

	res, err := g.RollDie()
	is.NoErr(err)
	is.Equal(res.Roll.Color, camel.Purple)
	is.True(res.LegEnded)
	is.Equal(len(g.Dice().Unrolled()), camel.NumColors)
}
