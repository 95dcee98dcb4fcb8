// Package equity computes the expected value of betting on each camel for
// the current leg. It enumerates every order in which the dice still in the
// pyramid can come out and every face they can show, plays each of those
// futures on a private copy of the board, and counts who finishes first and
// second. There is no sampling; the result is exact.
package equity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/domino14/camelup/betting"
	"github.com/domino14/camelup/board"
	"github.com/domino14/camelup/cache"
	"github.com/domino14/camelup/camel"
	"github.com/domino14/camelup/dice"
	"github.com/domino14/camelup/zobrist"
)

var (
	ErrNoDiceRemaining = errors.New("no dice remain in this leg; nothing to evaluate")
	ErrDuplicateColor  = errors.New("a color appears more than once in the unrolled set")
	ErrIncompleteBoard = errors.New("at least two camels must be on the board")
)

// PayoutFunc returns the value of the ticket currently on offer for a color,
// or false if none is left. betting.Tent.Payout satisfies it.
type PayoutFunc func(c camel.Color) (int, bool)

// DefaultPayouts assumes every color still offers its top ticket.
func DefaultPayouts(c camel.Color) (int, bool) {
	return betting.TicketValues[0], true
}

// NumSimulations is k!·3^k for k remaining dice.
func NumSimulations(k int) int {
	if k <= 0 {
		return 0
	}
	n := combin.NumPermutations(k, k)
	for i := 0; i < k; i++ {
		n *= dice.NumFaces
	}
	return n
}

// Evaluator runs evaluations. Evaluate and the setters may be called from
// several goroutines; an evaluation keeps the threads and cache that were
// set when it started.
type Evaluator struct {
	cfgMu   sync.RWMutex
	threads int
	cache   *cache.Cache[*Tally]
	zobrist *zobrist.Zobrist

	logMu     sync.Mutex
	logStream io.Writer

	evaluating  atomic.Int32
	simulations atomic.Uint64
}

func NewEvaluator(threads int) *Evaluator {
	e := &Evaluator{}
	e.SetThreads(threads)
	return e
}

// SetThreads sets the number of worker goroutines. Zero or less means one
// per CPU.
func (e *Evaluator) SetThreads(threads int) {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	e.cfgMu.Lock()
	defer e.cfgMu.Unlock()
	e.threads = max(1, threads)
}

func (e *Evaluator) Threads() int {
	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()
	return e.threads
}

// SetCache enables caching of tallies. Pass nil to disable.
func (e *Evaluator) SetCache(c *cache.Cache[*Tally]) {
	e.cfgMu.Lock()
	defer e.cfgMu.Unlock()
	e.cache = c
	if c != nil && e.zobrist == nil {
		e.zobrist = &zobrist.Zobrist{}
		e.zobrist.Initialize()
	}
}

func (e *Evaluator) Cache() *cache.Cache[*Tally] {
	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()
	return e.cache
}

// SetLogStream makes every evaluation append a YAML record to w. Pass nil
// to stop logging.
func (e *Evaluator) SetLogStream(w io.Writer) {
	e.logMu.Lock()
	defer e.logMu.Unlock()
	e.logStream = w
}

func (e *Evaluator) IsEvaluating() bool {
	return e.evaluating.Load() > 0
}

// SimulationsRun is the total number of futures played out by this
// evaluator, cached evaluations excluded.
func (e *Evaluator) SimulationsRun() uint64 {
	return e.simulations.Load()
}

// Evaluate computes the EV of every color given a board snapshot and the
// dice not yet rolled this leg. The snapshot is never modified.
func (e *Evaluator) Evaluate(ctx context.Context, snapshot board.Board, unrolled []camel.Color,
	payouts PayoutFunc) (*Result, error) {

	logger := zerolog.Ctx(ctx)
	if payouts == nil {
		payouts = DefaultPayouts
	}
	if err := checkInputs(&snapshot, unrolled); err != nil {
		return nil, err
	}
	// The enumeration covers every order of the dice, so the order they
	// were passed in is irrelevant. Sort for stable logs and cache keys.
	unrolled = slices.Clone(unrolled)
	slices.Sort(unrolled)

	e.evaluating.Add(1)
	defer e.evaluating.Add(-1)

	e.cfgMu.RLock()
	threads, c, z := e.threads, e.cache, e.zobrist
	e.cfgMu.RUnlock()

	tstart := time.Now()
	var tally *Tally
	var cached bool
	var err error
	if c != nil {
		key := z.Hash(&snapshot, unrolled)
		tally, cached, err = c.GetOrLoad(key, func() (*Tally, error) {
			return e.enumerate(ctx, &snapshot, unrolled, threads)
		})
	} else {
		tally, err = e.enumerate(ctx, &snapshot, unrolled, threads)
	}
	if err != nil {
		return nil, err
	}
	res := newResult(tally, unrolled, payouts)
	res.Cached = cached
	res.Elapsed = time.Since(tstart)

	logger.Debug().Int("k", len(unrolled)).Int("simulations", res.Simulations).
		Bool("cached", cached).Dur("elapsed", res.Elapsed).Msg("ev-evaluated")

	if err := e.writeLog(&snapshot, res); err != nil {
		logger.Err(err).Msg("ev-log-write")
	}
	return res, nil
}

func checkInputs(b *board.Board, unrolled []camel.Color) error {
	if len(unrolled) == 0 {
		return ErrNoDiceRemaining
	}
	if b.NumCamels() < 2 {
		return ErrIncompleteBoard
	}
	if err := b.Validate(); err != nil {
		return err
	}
	var seen [camel.NumColors]bool
	for _, c := range unrolled {
		if !c.Valid() {
			return camel.ErrUnknownColor
		}
		if seen[c] {
			return fmt.Errorf("%w: %v", ErrDuplicateColor, c)
		}
		seen[c] = true
		if !b.OnBoard(c) {
			return fmt.Errorf("%w: %v", board.ErrInvalidCamelState, c)
		}
	}
	return nil
}

// enumerate plays out all k!·3^k futures. Permutations are dealt round-robin
// to the worker threads; each worker keeps a private tally that is merged
// into the total once it is done.
func (e *Evaluator) enumerate(ctx context.Context, snapshot *board.Board, unrolled []camel.Color,
	threads int) (*Tally, error) {
	logger := zerolog.Ctx(ctx)
	k := len(unrolled)
	perms := combin.Permutations(k, k)
	lens := make([]int, k)
	for i := range lens {
		lens[i] = dice.NumFaces
	}
	faces := combin.Cartesian(lens)

	threads = min(threads, len(perms))
	logger.Debug().Int("threads", threads).Int("orders", len(perms)).
		Int("face-combos", len(faces)).Msg("ev-enumerate")

	total := &Tally{}
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	for t := 0; t < threads; t++ {
		g.Go(func() error {
			local := &Tally{}
			for pi := t; pi < len(perms); pi += threads {
				if err := ctx.Err(); err != nil {
					return err
				}
				order := perms[pi]
				for _, ft := range faces {
					fork := *snapshot
					ended := false
					for i, ci := range order {
						_, end, err := fork.Move(unrolled[ci], ft[i]+dice.MinFace)
						if err != nil {
							return err
						}
						ended = ended || end
					}
					local.record(&fork, ended)
				}
			}
			mu.Lock()
			total.merge(local)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	e.simulations.Add(uint64(total.Simulations))
	return total, nil
}
