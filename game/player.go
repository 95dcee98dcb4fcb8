package game

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/camelup/betting"
	"github.com/domino14/camelup/camel"
)

type playerState struct {
	name    string
	coins   int
	tokens  int
	tickets []betting.Ticket
}

func newPlayerState(name string, coins int) *playerState {
	return &playerState{name: name, coins: coins}
}

// legDelta is what the player earns at the end of a leg: one coin per
// pyramid token plus the settlement of every ticket held.
func (p *playerState) legDelta(first, second camel.Color) int {
	delta := p.tokens
	for _, t := range p.tickets {
		delta += betting.Settle(t, first, second)
	}
	return delta
}

func (p *playerState) resetLeg() {
	p.tokens = 0
	p.tickets = p.tickets[:0]
}

func (p *playerState) stateString(myturn bool) string {
	onturn := ""
	if myturn {
		onturn = "-> "
	}
	tickets := strings.Join(lo.Map(p.tickets, func(t betting.Ticket, _ int) string {
		return t.String()
	}), " ")
	return fmt.Sprintf("%4v%16v%6d%4d  %v", onturn, p.name, p.coins, p.tokens, tickets)
}

// PlayerInfo is a read-only view of a player.
type PlayerInfo struct {
	Name    string
	Coins   int
	Tokens  int
	Tickets []betting.Ticket
}

type playerStates []*playerState

func (p playerStates) resetLeg() {
	for idx := range p {
		p[idx].resetLeg()
	}
}

func (p playerStates) info() []PlayerInfo {
	return lo.Map(p, func(ps *playerState, _ int) PlayerInfo {
		return PlayerInfo{
			Name:    ps.name,
			Coins:   ps.coins,
			Tokens:  ps.tokens,
			Tickets: append([]betting.Ticket(nil), ps.tickets...),
		}
	})
}
