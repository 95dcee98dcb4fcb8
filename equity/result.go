package equity

import (
	"sort"
	"time"

	"github.com/domino14/camelup/betting"
	"github.com/domino14/camelup/camel"
)

// ColorEquity is the value of betting on one camel right now.
type ColorEquity struct {
	Color       camel.Color
	FirstCount  int
	SecondCount int
	PFirst      float64
	PSecond     float64
	PNeither    float64
	// Payout is the value of the ticket a player would currently get. If
	// Available is false the tent is empty for this color, Payout is 0 and
	// the EV is what a ticket worth nothing would return.
	Payout    int
	Available bool
	EV        float64
	// MeanSquare and StdevSquare describe where the camel ends the leg.
	MeanSquare  float64
	StdevSquare float64
	MinSquare   int
	MaxSquare   int
}

type Result struct {
	Unrolled    []camel.Color
	Simulations int
	Colors      [camel.NumColors]ColorEquity
	// PMatchEnds is the fraction of simulations in which the match ends
	// before the leg is over.
	PMatchEnds float64
	// Tally is this result's own copy of the raw counts.
	Tally      *Tally
	Cached     bool
	Elapsed    time.Duration
}

// expectedValue is P(first)·payout + P(second)·1 − P(neither)·1.
func expectedValue(pFirst, pSecond, pNeither float64, payout int) float64 {
	return pFirst*float64(payout) +
		pSecond*float64(betting.SecondPlacePayout) -
		pNeither*float64(betting.LosingPenalty)
}

func newResult(t *Tally, unrolled []camel.Color, payouts PayoutFunc) *Result {
	own := *t
	r := &Result{
		Unrolled:    unrolled,
		Simulations: t.Simulations,
		Tally:       &own,
	}
	total := float64(t.Simulations)
	r.PMatchEnds = float64(t.MatchEnded) / total
	for c := range camel.NumColors {
		col := camel.Color(c)
		payout, ok := payouts(col)
		if !ok {
			payout = 0
		}
		ce := ColorEquity{
			Color:       col,
			FirstCount:  t.First[c],
			SecondCount: t.Second[c],
			PFirst:      float64(t.First[c]) / total,
			PSecond:     float64(t.Second[c]) / total,
			Payout:      payout,
			Available:   ok,
			MeanSquare:  t.Squares[c].Mean(),
			StdevSquare: t.Squares[c].Stdev(),
			MinSquare:   int(t.Squares[c].Min()),
			MaxSquare:   int(t.Squares[c].Max()),
		}
		ce.PNeither = 1 - ce.PFirst - ce.PSecond
		ce.EV = expectedValue(ce.PFirst, ce.PSecond, ce.PNeither, payout)
		r.Colors[c] = ce
	}
	return r
}

func (r *Result) EV(c camel.Color) float64 {
	return r.Colors[c].EV
}

// Map returns the EV of every color.
func (r *Result) Map() map[camel.Color]float64 {
	m := make(map[camel.Color]float64, camel.NumColors)
	for _, ce := range r.Colors {
		m[ce.Color] = ce.EV
	}
	return m
}

// ByEV returns the colors sorted by EV, highest first. Ties keep color order.
func (r *Result) ByEV() []ColorEquity {
	out := make([]ColorEquity, len(r.Colors))
	copy(out[:], r.Colors[:])
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EV > out[j].EV
	})
	return out
}

// Best returns the highest-EV color that still has a ticket available.
func (r *Result) Best() (ColorEquity, bool) {
	for _, ce := range r.ByEV() {
		if ce.Available {
			return ce, true
		}
	}
	return ColorEquity{}, false
}
