package game

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/domino14/camelup/betting"
	"github.com/domino14/camelup/board"
	"github.com/domino14/camelup/camel"
	"github.com/domino14/camelup/dice"
)

var (
	ErrIncompletePosition = errors.New("position must place every camel")
	// ErrRepeatedColor means the same color was listed twice, for example
	// once by name and once by letter.
	ErrRepeatedColor = errors.New("color listed more than once")
)

// Position is a mid-leg snapshot in a form that is easy to write by hand:
//
//	num_squares: 16
//	stacks:
//	  0: [R, Y]
//	  4: [green, B, P]
//	rolled:
//	  red: 2
//	tickets_taken:
//	  blue: 1
//
// Stacks are listed bottom to top. Colors may be names or letters.
type Position struct {
	NumSquares   int              `yaml:"num_squares,omitempty"`
	Stacks       map[int][]string `yaml:"stacks"`
	Rolled       map[string]int   `yaml:"rolled,omitempty"`
	TicketsTaken map[string]int   `yaml:"tickets_taken,omitempty"`
}

// ParsePosition reads a YAML position.
func ParsePosition(r io.Reader) (*Position, error) {
	pos := &Position{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(pos); err != nil {
		return nil, fmt.Errorf("parsing position: %w", err)
	}
	return pos, nil
}

func (pos *Position) build() (*board.Board, [camel.NumColors]int, [camel.NumColors]int, error) {
	var rolled, taken [camel.NumColors]int
	n := pos.NumSquares
	if n == 0 {
		n = board.DefaultNumSquares
	}
	b, err := board.New(n)
	if err != nil {
		return nil, rolled, taken, err
	}
	squares := make([]int, 0, len(pos.Stacks))
	for sq := range pos.Stacks {
		squares = append(squares, sq)
	}
	slices.Sort(squares)
	for _, sq := range squares {
		colors := make([]camel.Color, 0, len(pos.Stacks[sq]))
		for _, name := range pos.Stacks[sq] {
			c, err := camel.Parse(name)
			if err != nil {
				return nil, rolled, taken, err
			}
			colors = append(colors, c)
		}
		if err := b.SetStack(sq, colors...); err != nil {
			return nil, rolled, taken, err
		}
	}
	if !b.Complete() {
		return nil, rolled, taken, fmt.Errorf("%w: %d of %d placed", ErrIncompletePosition,
			b.NumCamels(), camel.NumColors)
	}
	var seen [camel.NumColors]bool
	for name, face := range pos.Rolled {
		c, err := camel.Parse(name)
		if err != nil {
			return nil, rolled, taken, err
		}
		if seen[c] {
			return nil, rolled, taken, fmt.Errorf("%w: rolled %v", ErrRepeatedColor, c)
		}
		seen[c] = true
		if face < dice.MinFace || face > dice.MaxFace {
			return nil, rolled, taken, fmt.Errorf("%w: %v rolled %d", dice.ErrBadFace, c, face)
		}
		rolled[c] = face
	}
	if !slices.Contains(seen[:], false) {
		return nil, rolled, taken, fmt.Errorf("position is at the end of a leg: %w", dice.ErrRoundFinished)
	}
	seen = [camel.NumColors]bool{}
	for name, n := range pos.TicketsTaken {
		c, err := camel.Parse(name)
		if err != nil {
			return nil, rolled, taken, err
		}
		if seen[c] {
			return nil, rolled, taken, fmt.Errorf("%w: tickets_taken %v", ErrRepeatedColor, c)
		}
		seen[c] = true
		if n < 0 || n > len(betting.TicketValues) {
			return nil, rolled, taken, fmt.Errorf("%w: %v has %d taken", betting.ErrNoTickets, c, n)
		}
		taken[c] = n
	}
	return b, rolled, taken, nil
}

// LoadPosition replaces the board, dice and tent with the position read
// from r. Players keep their coins but lose any tokens and tickets from the
// leg in progress. Nothing changes if the position is invalid.
func (g *Game) LoadPosition(r io.Reader) error {
	pos, err := ParsePosition(r)
	if err != nil {
		return err
	}
	return g.SetPosition(pos)
}

func (g *Game) SetPosition(pos *Position) error {
	b, rolled, taken, err := pos.build()
	if err != nil {
		return err
	}
	g.board = b
	g.dice.Reset()
	g.tent.Reset()
	for c := range camel.NumColors {
		col := camel.Color(c)
		if rolled[c] != 0 {
			if err := g.dice.Set(col, rolled[c]); err != nil {
				return err
			}
		}
		if err := g.tent.MarkTaken(col, taken[c]); err != nil {
			return err
		}
	}
	g.players.resetLeg()
	g.playing = StatePlaying
	if b.Height(b.LastSquare()) > 0 {
		g.playing = StateGameOver
	}
	return nil
}

// Position exports the current state in the form LoadPosition reads.
func (g *Game) Position() *Position {
	pos := &Position{
		NumSquares:   g.board.NumSquares(),
		Stacks:       map[int][]string{},
		Rolled:       map[string]int{},
		TicketsTaken: map[string]int{},
	}
	for sq := 0; sq < g.board.NumSquares(); sq++ {
		for _, c := range g.board.Stack(sq) {
			pos.Stacks[sq] = append(pos.Stacks[sq], c.Letter())
		}
	}
	for _, r := range g.dice.Status().Rolled {
		pos.Rolled[r.Color.String()] = r.Face
	}
	for _, c := range camel.All() {
		if n := len(betting.TicketValues) - g.tent.Remaining(c); n > 0 {
			pos.TicketsTaken[c.String()] = n
		}
	}
	return pos
}

// WritePosition writes the current position as YAML.
func (g *Game) WritePosition(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(g.Position()); err != nil {
		return err
	}
	return enc.Close()
}
