package equity

import (
	"github.com/domino14/camelup/board"
	"github.com/domino14/camelup/camel"
	"github.com/domino14/camelup/stats"
)

// Tally is the raw outcome of an enumeration: how often each camel finished
// the leg first or second, and where every camel ended up. It does not
// depend on ticket payouts, so it can be cached per position.
type Tally struct {
	Simulations int
	First       [camel.NumColors]int
	Second      [camel.NumColors]int
	// MatchEnded counts simulations in which some camel reached the finish.
	MatchEnded int
	// FinalSquare[c][sq] counts simulations in which camel c ended on sq.
	FinalSquare [camel.NumColors][board.MaxSquares]int
	Squares     [camel.NumColors]stats.Statistic
}

func (t *Tally) record(b *board.Board, ended bool) {
	first, second, _ := b.Leaders()
	t.Simulations++
	t.First[first]++
	t.Second[second]++
	if ended {
		t.MatchEnded++
	}
	for c := range camel.NumColors {
		sq, _, ok := b.PositionOf(camel.Color(c))
		if !ok {
			continue
		}
		t.FinalSquare[c][sq]++
		t.Squares[c].Push(float64(sq))
	}
}

func (t *Tally) merge(o *Tally) {
	t.Simulations += o.Simulations
	t.MatchEnded += o.MatchEnded
	for c := range camel.NumColors {
		t.First[c] += o.First[c]
		t.Second[c] += o.Second[c]
		for sq := range o.FinalSquare[c] {
			t.FinalSquare[c][sq] += o.FinalSquare[c][sq]
		}
		t.Squares[c].Merge(&o.Squares[c])
	}
}

// Placings is the sum of first and second place counts over all colors.
// Every simulation produces exactly one of each, so this is always twice
// the number of simulations.
func (t *Tally) Placings() int {
	n := 0
	for c := range camel.NumColors {
		n += t.First[c] + t.Second[c]
	}
	return n
}
