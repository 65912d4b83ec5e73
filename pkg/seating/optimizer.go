// Package seating assigns confirmed guests to tables. It maximises the sum of
// relationship strengths between guests sharing a table while never breaking a
// hard constraint or a table's capacity.
//
// The optimizer works on a private snapshot of its input: it never mutates the
// caller's records and returns a new Assignment, so calls for different events
// can run concurrently without coordination.
package seating

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/arnavshah/seating-api-go/pkg/models"
)

const (
	DefaultMaxPasses  = 50
	DefaultTimeBudget = 2 * time.Second

	// largest budget that still fits in a time.Duration
	maxTimeBudgetMs = math.MaxInt64 / int64(time.Millisecond)
)

// Config holds the defaults applied when a request leaves an option at zero
type Config struct {
	MaxPasses  int
	TimeBudget time.Duration
}

// Optimizer runs seating optimizations
type Optimizer struct {
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewOptimizer creates a new optimizer instance
func NewOptimizer(cfg Config, logger *zap.Logger) *Optimizer {
	if cfg.MaxPasses <= 0 {
		cfg.MaxPasses = DefaultMaxPasses
	}
	if cfg.TimeBudget <= 0 {
		cfg.TimeBudget = DefaultTimeBudget
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{cfg: cfg, logger: logger, now: time.Now}
}

// Optimize produces an assignment for every confirmed guest.
//
// It returns an *InputError (ErrInvalidInput) for malformed references and a
// *ConflictError (ErrConstraintConflict) for contradictory constraints unless
// AutoDropConflicts is set. Too little capacity is not an error: the guests
// that do not fit are returned unassigned with a reason.
func (o *Optimizer) Optimize(ctx context.Context, in models.OptimizeInput) (*models.OptimizeResult, error) {
	start := o.now()
	opts := in.Options

	r, issues := newRoster(in.Guests, in.Tables)
	if opts.MaxPasses < 0 {
		issues.add("max_passes must not be negative")
	}
	if opts.TimeBudgetMs < 0 {
		issues.add("time_budget_ms must not be negative")
	}
	if int64(opts.TimeBudgetMs) > maxTimeBudgetMs {
		issues.add("time_budget_ms must not exceed %d", maxTimeBudgetMs)
	}
	weights, relIssues := r.weights(in.Guests, in.Relationships)
	issues.merge(relIssues)
	v := r.validate(in.Constraints, issues)
	if err := issues.orNil(); err != nil {
		return nil, err
	}

	if len(v.Conflicts) > 0 {
		if !opts.AutoDropConflicts {
			return nil, v.Err()
		}
		v.AutoDrop()
		o.logger.Debug("dropped conflicting constraints", zap.Int("dropped", len(v.Dropped)))
	}

	maxPasses := opts.MaxPasses
	if maxPasses == 0 {
		maxPasses = o.cfg.MaxPasses
	}
	budget := time.Duration(opts.TimeBudgetMs) * time.Millisecond
	if budget == 0 {
		budget = o.cfg.TimeBudget
	}

	p := newProblem(r, weights, v.Constraints)
	s := newState(p)
	s.seed(opts.PreserveExisting, opts.RespectFixedOnly)
	seedScore := s.score

	st := &searchStats{stop: models.StopLocked}
	fillDelta := 0
	if !opts.RespectFixedOnly {
		deadline := start.Add(budget)
		for {
			s.improve(ctx, maxPasses, deadline, o.now, st)
			if st.stop != models.StopConverged {
				break
			}
			placed, delta := s.fill()
			if !placed {
				break
			}
			fillDelta += delta
		}
	}

	res := s.result(opts.PreserveExisting, v)
	res.Diagnostics.SeedScore = seedScore
	res.Diagnostics.FillDelta = fillDelta
	res.Diagnostics.Passes = st.passes
	res.Diagnostics.Moves = st.moves
	res.Diagnostics.Swaps = st.swaps
	res.Diagnostics.StoppedBy = st.stop
	res.Diagnostics.ElapsedMs = o.now().Sub(start).Milliseconds()

	o.logger.Debug("seating optimized",
		zap.Int("guests", len(p.guests)),
		zap.Int("tables", len(p.tables)),
		zap.Int("seed_score", seedScore),
		zap.Int("fill_delta", fillDelta),
		zap.Int("score", s.score),
		zap.Int("passes", st.passes),
		zap.String("stopped_by", string(st.stop)),
		zap.Int("unassigned", res.Diagnostics.Unassigned),
	)

	return res, nil
}
