// Package display renders boards, dice, tickets and evaluations as text for
// a terminal.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/domino14/camelup/betting"
	"github.com/domino14/camelup/board"
	"github.com/domino14/camelup/camel"
	"github.com/domino14/camelup/dice"
	"github.com/domino14/camelup/equity"
	"github.com/domino14/camelup/game"
)

var (
	ColorSupport = os.Getenv("CAMELUP_DISABLE_COLOR") != "on"
)

const (
	reset      = "\033[0m"
	cellWidth  = 3
	histWidth  = 50
	histBucket = 1
)

var ansi = [...]string{
	camel.Red:    "\033[1;31m",
	camel.Yellow: "\033[1;33m",
	camel.Green:  "\033[1;32m",
	camel.Blue:   "\033[1;34m",
	camel.Purple: "\033[1;35m",
}

var printer = message.NewPrinter(language.English)

// Camel returns the letter for c, colored if the terminal supports it.
func Camel(c camel.Color) string {
	if !ColorSupport || !c.Valid() {
		return c.Letter()
	}
	return ansi[c] + c.Letter() + reset
}

func center(s string, visible int) string {
	left := (cellWidth - visible) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", cellWidth-visible-left)
}

// Board draws the track with stacks growing upwards. The last square is
// the finish.
func Board(b *board.Board) string {
	var sb strings.Builder
	tallest := lo.Max(lo.Times(b.NumSquares(), b.Height))
	for lvl := tallest - 1; lvl >= 0; lvl-- {
		for sq := 0; sq < b.NumSquares(); sq++ {
			if lvl < b.Height(sq) {
				sb.WriteString(center(Camel(b.At(sq, lvl)), 1))
			} else {
				sb.WriteString(strings.Repeat(" ", cellWidth))
			}
		}
		sb.WriteString("\n")
	}
	for sq := 0; sq < b.NumSquares(); sq++ {
		if sq == b.LastSquare() {
			sb.WriteString(center("|", 1))
			continue
		}
		sb.WriteString(center("_", 1))
	}
	sb.WriteString("\n")
	for sq := 0; sq < b.NumSquares(); sq++ {
		label := fmt.Sprint(sq)
		sb.WriteString(center(label, len(label)))
	}
	sb.WriteString("\n")
	return sb.String()
}

// Dice shows which dice have been rolled and which remain in the pyramid.
func Dice(st dice.Status) string {
	rolled := lo.Map(st.Rolled, func(r dice.Roll, _ int) string {
		return fmt.Sprintf("%s:%d", Camel(r.Color), r.Face)
	})
	unrolled := lo.Map(st.Unrolled, func(c camel.Color, _ int) string {
		return Camel(c)
	})
	return fmt.Sprintf("Rolled: %s\nIn pyramid: %s\n",
		strings.Join(rolled, " "), strings.Join(unrolled, " "))
}

// Tickets lists the ticket on offer for each color.
func Tickets(t *betting.Tent) string {
	var sb strings.Builder
	sb.WriteString("Tickets:")
	for _, c := range camel.All() {
		if tk, ok := t.Top(c); ok {
			fmt.Fprintf(&sb, " %s:%d(%d)", Camel(c), tk.Value, t.Remaining(c))
		} else {
			fmt.Fprintf(&sb, " %s:-", Camel(c))
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// Players shows coins, tokens and tickets for every player.
func Players(g *game.Game) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%4v%16v%6v%4v  %v\n", "", "player", "coins", "tok", "tickets")
	for i, p := range g.Players() {
		onturn := ""
		if i == g.PlayerOnTurn() && g.Playing() == game.StatePlaying {
			onturn = "-> "
		}
		tickets := lo.Map(p.Tickets, func(t betting.Ticket, _ int) string {
			return fmt.Sprintf("%s@%d", Camel(t.Color), t.Value)
		})
		fmt.Fprintf(&sb, "%4v%16v%6d%4d  %v\n", onturn, p.Name, p.Coins, p.Tokens,
			strings.Join(tickets, " "))
	}
	return sb.String()
}

// Game renders everything a player needs to decide on a move.
func Game(g *game.Game) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Leg %d, turn %d (%v)\n\n", g.Leg(), g.Turn()+1, g.Playing())
	sb.WriteString(Board(g.Board()))
	sb.WriteString("\n")
	sb.WriteString(Dice(g.Dice().Status()))
	sb.WriteString(Tickets(g.Tent()))
	sb.WriteString("\n")
	sb.WriteString(Players(g))
	if g.Playing() == game.StateGameOver {
		fmt.Fprintf(&sb, "\nWinner(s): %s\n", strings.Join(g.Winners(), ", "))
	}
	return sb.String()
}

// Evaluation renders an EV table, best bet first.
func Evaluation(res *equity.Result) string {
	var sb strings.Builder
	printer.Fprintf(&sb, "%d simulations over %d dice", res.Simulations, len(res.Unrolled))
	if res.Cached {
		sb.WriteString(" (cached)")
	}
	printer.Fprintf(&sb, ", %v\n", res.Elapsed)
	if res.PMatchEnds > 0 {
		printer.Fprintf(&sb, "The match ends this leg in %.2f%% of simulations\n", 100*res.PMatchEnds)
	}
	fmt.Fprintf(&sb, "%-8v%8v%10v%10v%10v%9v%8v\n",
		"Camel", "Ticket", "1st", "2nd", "Neither", "EV", "Sq")
	for _, ce := range res.ByEV() {
		ticket := "-"
		if ce.Available {
			ticket = fmt.Sprint(ce.Payout)
		}
		printer.Fprintf(&sb, "%-8v%8v%9.2f%%%9.2f%%%9.2f%%%9.3f%8.2f\n",
			ce.Color, ticket, 100*ce.PFirst, 100*ce.PSecond, 100*ce.PNeither, ce.EV, ce.MeanSquare)
	}
	if best, ok := res.Best(); ok {
		fmt.Fprintf(&sb, "Best bet: %v (%.3f)\n", best.Color, best.EV)
	}
	return sb.String()
}

// FinalSquares expands the tally of where c finished into one sample per
// simulation, for plotting.
func FinalSquares(res *equity.Result, c camel.Color) []float64 {
	var data []float64
	for sq, n := range res.Tally.FinalSquare[c] {
		for i := 0; i < n; i++ {
			data = append(data, float64(sq))
		}
	}
	return data
}

// Histogram plots where c ends the leg across all simulations.
func Histogram(w io.Writer, res *equity.Result, c camel.Color) error {
	data := FinalSquares(res, c)
	if len(data) == 0 {
		return fmt.Errorf("no data for %v", c)
	}
	ce := res.Colors[c]
	bins := max(1, (ce.MaxSquare-ce.MinSquare)/histBucket+1)
	fmt.Fprintf(w, "Final square of %v over %s simulations:\n", c, printer.Sprintf("%d", len(data)))
	h := histogram.Hist(bins, data)
	return histogram.Fprint(w, h, histogram.Linear(histWidth))
}
