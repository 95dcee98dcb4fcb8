// Package betting holds leg betting tickets: the tent they are taken from
// and the arithmetic that settles them at the end of a leg.
package betting

import (
	"errors"
	"fmt"

	"github.com/domino14/camelup/camel"
)

var ErrNoTickets = errors.New("no betting tickets left for this camel")

// TicketValues is the stack of tickets per color, highest first.
var TicketValues = []int{5, 3, 2, 2}

// SecondPlacePayout is paid for a ticket on the second place camel, and
// LosingPenalty is charged for a ticket on any other camel.
const (
	SecondPlacePayout = 1
	LosingPenalty     = 1
)

// A Ticket is a wager on a camel winning the current leg.
type Ticket struct {
	Color camel.Color `yaml:"color"`
	Value int         `yaml:"value"`
}

func (t Ticket) String() string {
	return fmt.Sprintf("%v @ %d", t.Color, t.Value)
}

// Settle returns the coins a ticket is worth once the leg standings are known.
func Settle(t Ticket, first, second camel.Color) int {
	switch t.Color {
	case first:
		return t.Value
	case second:
		return SecondPlacePayout
	default:
		return -LosingPenalty
	}
}

// Tent is the inventory of tickets still available this leg.
type Tent struct {
	// taken[c] counts how many of color c's tickets have been handed out.
	taken [camel.NumColors]int
}

func NewTent() *Tent {
	return &Tent{}
}

// Top returns the ticket a player would get by betting on c right now.
func (t *Tent) Top(c camel.Color) (Ticket, bool) {
	if !c.Valid() || t.taken[c] >= len(TicketValues) {
		return Ticket{}, false
	}
	return Ticket{Color: c, Value: TicketValues[t.taken[c]]}, true
}

// Take hands out the top ticket for c.
func (t *Tent) Take(c camel.Color) (Ticket, error) {
	tk, ok := t.Top(c)
	if !ok {
		return Ticket{}, fmt.Errorf("%w: %v", ErrNoTickets, c)
	}
	t.taken[c]++
	return tk, nil
}

// Payout is the value of the top ticket for c, or false if there is none.
// It matches the lookup the EV oracle expects.
func (t *Tent) Payout(c camel.Color) (int, bool) {
	tk, ok := t.Top(c)
	return tk.Value, ok
}

// Remaining is the number of tickets left for c.
func (t *Tent) Remaining(c camel.Color) int {
	if !c.Valid() {
		return 0
	}
	return len(TicketValues) - t.taken[c]
}

// Status lists the top ticket of every color that still has one.
func (t *Tent) Status() []Ticket {
	var out []Ticket
	for _, c := range camel.All() {
		if tk, ok := t.Top(c); ok {
			out = append(out, tk)
		}
	}
	return out
}

// MarkTaken records that the next n tickets of c are already gone; used
// when loading a position.
func (t *Tent) MarkTaken(c camel.Color, n int) error {
	if !c.Valid() {
		return camel.ErrUnknownColor
	}
	if n < 0 || t.taken[c]+n > len(TicketValues) {
		return fmt.Errorf("%w: %v", ErrNoTickets, c)
	}
	t.taken[c] += n
	return nil
}

func (t *Tent) Reset() {
	t.taken = [camel.NumColors]int{}
}
