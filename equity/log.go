package equity

import (
	"gopkg.in/yaml.v3"

	"github.com/domino14/camelup/board"
)

// LogEvaluation is a struct meant for serializing to a log file, for
// debugging and for offline analysis of a game.
type LogEvaluation struct {
	Squares     [][]string `yaml:"squares,flow"`
	Unrolled    []string   `yaml:"unrolled,flow"`
	Simulations int        `yaml:"simulations"`
	Cached      bool       `yaml:"cached,omitempty"`
	PMatchEnds  float64    `yaml:"p_match_ends,omitempty"`
	Colors      []LogColor `yaml:"colors"`
}

type LogColor struct {
	Color    string  `yaml:"color"`
	First    int     `yaml:"first"`
	Second   int     `yaml:"second"`
	Payout   int     `yaml:"payout"`
	EV       float64 `yaml:"ev"`
	NoTicket bool    `yaml:"no_ticket,omitempty"`
}

func newLogEvaluation(b *board.Board, res *Result) LogEvaluation {
	le := LogEvaluation{
		Squares:     make([][]string, b.NumSquares()),
		Simulations: res.Simulations,
		Cached:      res.Cached,
		PMatchEnds:  res.PMatchEnds,
	}
	for sq := range le.Squares {
		le.Squares[sq] = []string{}
		for _, c := range b.Stack(sq) {
			le.Squares[sq] = append(le.Squares[sq], c.Letter())
		}
	}
	for _, c := range res.Unrolled {
		le.Unrolled = append(le.Unrolled, c.String())
	}
	for _, ce := range res.Colors {
		le.Colors = append(le.Colors, LogColor{
			Color:    ce.Color.String(),
			First:    ce.FirstCount,
			Second:   ce.SecondCount,
			Payout:   ce.Payout,
			EV:       ce.EV,
			NoTicket: !ce.Available,
		})
	}
	return le
}

func (e *Evaluator) writeLog(b *board.Board, res *Result) error {
	e.logMu.Lock()
	defer e.logMu.Unlock()
	if e.logStream == nil {
		return nil
	}
	out, err := yaml.Marshal([]LogEvaluation{newLogEvaluation(b, res)})
	if err != nil {
		return err
	}
	_, err = e.logStream.Write(out)
	return err
}
