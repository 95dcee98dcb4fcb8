// Package dice tracks which camel dice have been rolled during the current
// leg, and with what result.
package dice

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/cespare/xxhash"
	"lukechampine.com/frand"

	"github.com/domino14/camelup/camel"
)

const (
	MinFace = 1
	MaxFace = 3
	// NumFaces is the number of distinct results of one die.
	NumFaces = MaxFace - MinFace + 1
)

var (
	ErrAlreadyRolled = errors.New("die was already rolled this leg")
	ErrRoundFinished = errors.New("every die has been rolled this leg")
	ErrBadFace       = errors.New("die face out of range")
)

// Source is the randomness provider for dice. Intn returns a value in [0, n).
type Source interface {
	Intn(n int) int
}

type frandSource struct{}

func (frandSource) Intn(n int) int {
	return frand.Intn(n)
}

// DefaultSource draws from a fast cryptographically seeded generator.
func DefaultSource() Source {
	return frandSource{}
}

type seededSource struct {
	r *rand.Rand
}

func (s *seededSource) Intn(n int) int {
	return s.r.IntN(n)
}

// SeededSource returns a reproducible source. Any string works as a seed.
func SeededSource(seed string) Source {
	h := xxhash.Sum64String(seed)
	return &seededSource{r: rand.New(rand.NewPCG(h, h^0x9e3779b97f4a7c15))}
}

// Roll is one die result.
type Roll struct {
	Color camel.Color `yaml:"color"`
	Face  int         `yaml:"face"`
}

func (r Roll) String() string {
	return fmt.Sprintf("%v: %d", r.Color, r.Face)
}

// Status partitions the dice into the ones already rolled this leg, in
// color order, and the ones still in the pyramid.
type Status struct {
	Rolled   []Roll
	Unrolled []camel.Color
}

// RoundState records, per color, whether its die has been rolled this leg.
// A face of 0 means unrolled.
type RoundState struct {
	faces [camel.NumColors]int
	src   Source
}

func NewRoundState(src Source) *RoundState {
	if src == nil {
		src = DefaultSource()
	}
	return &RoundState{src: src}
}

func (r *RoundState) IsRolled(c camel.Color) bool {
	return c.Valid() && r.faces[c] != 0
}

// Face returns the face rolled for c, or 0 if c has not been rolled.
func (r *RoundState) Face(c camel.Color) int {
	if !c.Valid() {
		return 0
	}
	return r.faces[c]
}

// Roll rolls the die for color c.
func (r *RoundState) Roll(c camel.Color) (Roll, error) {
	if !c.Valid() {
		return Roll{}, camel.ErrUnknownColor
	}
	if r.faces[c] != 0 {
		return Roll{}, fmt.Errorf("%w: %v", ErrAlreadyRolled, c)
	}
	face := MinFace + r.src.Intn(NumFaces)
	r.faces[c] = face
	return Roll{Color: c, Face: face}, nil
}

// RollRandom draws one of the remaining dice at random and rolls it.
func (r *RoundState) RollRandom() (Roll, error) {
	unrolled := r.Unrolled()
	if len(unrolled) == 0 {
		return Roll{}, ErrRoundFinished
	}
	return r.Roll(unrolled[r.src.Intn(len(unrolled))])
}

// Set records a known result for c without drawing randomness.
func (r *RoundState) Set(c camel.Color, face int) error {
	if !c.Valid() {
		return camel.ErrUnknownColor
	}
	if face < MinFace || face > MaxFace {
		return fmt.Errorf("%w: %d", ErrBadFace, face)
	}
	if r.faces[c] != 0 {
		return fmt.Errorf("%w: %v", ErrAlreadyRolled, c)
	}
	r.faces[c] = face
	return nil
}

func (r *RoundState) Unrolled() []camel.Color {
	out := make([]camel.Color, 0, camel.NumColors)
	for i, f := range r.faces {
		if f == 0 {
			out = append(out, camel.Color(i))
		}
	}
	return out
}

func (r *RoundState) Status() Status {
	st := Status{Unrolled: r.Unrolled()}
	for i, f := range r.faces {
		if f != 0 {
			st.Rolled = append(st.Rolled, Roll{Color: camel.Color(i), Face: f})
		}
	}
	return st
}

func (r *RoundState) IsRoundFinished() bool {
	for _, f := range r.faces {
		if f == 0 {
			return false
		}
	}
	return true
}

// Reset puts every die back in the pyramid.
func (r *RoundState) Reset() {
	r.faces = [camel.NumColors]int{}
}
