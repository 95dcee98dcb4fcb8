// Package board implements the camel track: an ordered row of squares, each
// holding a stack of camels, and all of the movement logic.
package board

import (
	"errors"
	"fmt"

	"github.com/domino14/camelup/camel"
)

const (
	// DefaultNumSquares is the length of the standard track.
	DefaultNumSquares = 16
	// MaxSquares bounds the track length so that a Board stays a fixed-size
	// value that can be copied with a plain assignment.
	MaxSquares = 64
)

var (
	ErrInvalidCamelState = errors.New("camel is not on the board")
	ErrBadSquare         = errors.New("square is out of range")
	ErrCamelPlaced       = errors.New("camel is already on the board")
	ErrBadLength         = errors.New("track length out of range")
)

// Board is the track. It contains no pointers or slices, so assigning a Board
// (or calling Snapshot) forks a fully independent copy. The simulation code
// relies on this to make thousands of throwaway boards per evaluation.
//
// stacks[sq][0:heights[sq]] is the stack on square sq, bottom to top.
// square[c] and level[c] locate camel c; they are only meaningful if c is
// in the placed mask.
type Board struct {
	numSquares int
	placed     uint8

	heights [MaxSquares]uint8
	stacks  [MaxSquares][camel.NumColors]camel.Color

	square [camel.NumColors]int
	level  [camel.NumColors]int
}

// New creates an empty track with n squares.
func New(n int) (*Board, error) {
	if n < 2 || n > MaxSquares {
		return nil, fmt.Errorf("%w: %d (must be 2-%d)", ErrBadLength, n, MaxSquares)
	}
	return &Board{numSquares: n}, nil
}

// MakeBoard is New for callers that know their length is valid.
func MakeBoard(n int) *Board {
	b, err := New(n)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Board) NumSquares() int {
	return b.numSquares
}

// LastSquare is the finish square; landing on or past it ends the match.
func (b *Board) LastSquare() int {
	return b.numSquares - 1
}

func (b *Board) OnBoard(c camel.Color) bool {
	return c.Valid() && b.placed&(1<<c) != 0
}

// Complete returns true when every camel is on the track.
func (b *Board) Complete() bool {
	return b.placed == 1<<camel.NumColors-1
}

// NumCamels is the number of camels currently on the track.
func (b *Board) NumCamels() int {
	n := 0
	for c := range camel.NumColors {
		if b.placed&(1<<c) != 0 {
			n++
		}
	}
	return n
}

// Place puts a camel on top of the stack at square sq. It is meant for
// setting up positions; during play camels only change squares via Move.
func (b *Board) Place(c camel.Color, sq int) error {
	if !c.Valid() {
		return camel.ErrUnknownColor
	}
	if b.OnBoard(c) {
		return fmt.Errorf("%w: %v", ErrCamelPlaced, c)
	}
	if sq < 0 || sq >= b.numSquares {
		return fmt.Errorf("%w: %d", ErrBadSquare, sq)
	}
	b.push(sq, c)
	b.placed |= 1 << c
	return nil
}

// SetStack places the given camels on square sq, bottom to top.
func (b *Board) SetStack(sq int, colors ...camel.Color) error {
	for _, c := range colors {
		if err := b.Place(c, sq); err != nil {
			return err
		}
	}
	return nil
}

func (b *Board) push(sq int, c camel.Color) {
	h := b.heights[sq]
	b.stacks[sq][h] = c
	b.square[c] = sq
	b.level[c] = int(h)
	b.heights[sq]++
}

// Stack returns a copy of the stack on square sq, bottom to top.
func (b *Board) Stack(sq int) []camel.Color {
	if sq < 0 || sq >= b.numSquares {
		return nil
	}
	h := b.heights[sq]
	out := make([]camel.Color, h)
	copy(out, b.stacks[sq][:h])
	return out
}

func (b *Board) Height(sq int) int {
	if sq < 0 || sq >= b.numSquares {
		return 0
	}
	return int(b.heights[sq])
}

// At returns the camel at the given stack level of square sq. The caller
// must check level < Height(sq).
func (b *Board) At(sq, level int) camel.Color {
	return b.stacks[sq][level]
}

// PositionOf returns the square and stack level (0 = bottom) of a camel.
func (b *Board) PositionOf(c camel.Color) (sq, level int, ok bool) {
	if !b.OnBoard(c) {
		return 0, 0, false
	}
	return b.square[c], b.level[c], true
}

// Move moves camel c, together with every camel stacked on top of it, by
// distance squares. The moving group keeps its order and lands on top of
// whatever is already at the destination. The destination is clamped to
// the track; reaching the last square ends the match.
func (b *Board) Move(c camel.Color, distance int) (int, bool, error) {
	if !b.OnBoard(c) {
		return 0, false, fmt.Errorf("%w: %v", ErrInvalidCamelState, c)
	}
	dst, ended := b.move(c, distance)
	return dst, ended, nil
}

// move assumes c is on the board.
func (b *Board) move(c camel.Color, distance int) (int, bool) {
	src, lvl := b.square[c], b.level[c]
	last := b.numSquares - 1
	// Compare before adding so that huge distances cannot overflow.
	var dst int
	ended := false
	switch {
	case distance >= last-src:
		dst = last
		ended = true
	case distance <= -src:
		dst = 0
	default:
		dst = src + distance
	}
	if dst == src {
		// Lifting a group off a stack and putting it back on top of the
		// same stack leaves it unchanged.
		return dst, ended
	}
	top := int(b.heights[src])
	for i := lvl; i < top; i++ {
		b.push(dst, b.stacks[src][i])
	}
	b.heights[src] = uint8(lvl)
	return dst, ended
}

// Ranking lists the camels on the board from the leader backwards: squares
// from last to first, and within a square from the top of the stack down.
func (b *Board) Ranking() []camel.Color {
	out := make([]camel.Color, 0, camel.NumColors)
	for sq := b.numSquares - 1; sq >= 0; sq-- {
		for lvl := int(b.heights[sq]) - 1; lvl >= 0; lvl-- {
			out = append(out, b.stacks[sq][lvl])
		}
	}
	return out
}

// Leaders returns the camels currently in first and second place. It
// returns ok=false if there are fewer than two camels on the board.
func (b *Board) Leaders() (first, second camel.Color, ok bool) {
	found := 0
	for sq := b.numSquares - 1; sq >= 0; sq-- {
		for lvl := int(b.heights[sq]) - 1; lvl >= 0; lvl-- {
			if found == 0 {
				first = b.stacks[sq][lvl]
			} else {
				return first, b.stacks[sq][lvl], true
			}
			found++
		}
	}
	return first, second, false
}

// Snapshot returns an independent copy of the board by value.
func (b *Board) Snapshot() Board {
	return *b
}

// Validate checks the board invariants: every placed camel appears exactly
// once, in the slot its position indices point to, and no camel that is
// not placed appears anywhere.
func (b *Board) Validate() error {
	if b.numSquares < 2 || b.numSquares > MaxSquares {
		return fmt.Errorf("%w: %d", ErrBadLength, b.numSquares)
	}
	var seen [camel.NumColors]int
	for sq := 0; sq < MaxSquares; sq++ {
		h := int(b.heights[sq])
		if h > 0 && sq >= b.numSquares {
			return fmt.Errorf("camels beyond the end of the track at square %d", sq)
		}
		if h > camel.NumColors {
			return fmt.Errorf("stack at square %d is too tall: %d", sq, h)
		}
		for lvl := 0; lvl < h; lvl++ {
			c := b.stacks[sq][lvl]
			if !b.OnBoard(c) {
				return fmt.Errorf("%w: %v found on square %d but not placed", ErrInvalidCamelState, c, sq)
			}
			if b.square[c] != sq || b.level[c] != lvl {
				return fmt.Errorf("camel %v index mismatch: at %d/%d, indexed at %d/%d",
					c, sq, lvl, b.square[c], b.level[c])
			}
			seen[c]++
		}
	}
	for c := range camel.NumColors {
		col := camel.Color(c)
		want := 0
		if b.OnBoard(col) {
			want = 1
		}
		if seen[c] != want {
			return fmt.Errorf("%w: %v appears %d times", ErrInvalidCamelState, col, seen[c])
		}
	}
	return nil
}

func (b *Board) String() string {
	return fmt.Sprintf("<board %d squares, ranking %v>", b.numSquares, b.Ranking())
}
