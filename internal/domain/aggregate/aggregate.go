// Package aggregate folds the activity log into per-person tallies over a
// time window.
package aggregate

import (
	"context"

	"github.com/hucklog/hucklog/internal/domain/model"
	"github.com/hucklog/hucklog/internal/domain/parse"
	"github.com/hucklog/hucklog/internal/domain/rules"
	"github.com/hucklog/hucklog/pkg/logger"
	"github.com/hucklog/hucklog/pkg/metrics"
)

// Source yields the stored activity log.
type Source interface {
	List(ctx context.Context) ([]model.Message, error)
}

// Aggregator replays the log through the parser and sums contributions per
// roster member. Aggregation is a pure fold, so running it twice over the
// same log yields the same totals.
type Aggregator struct {
	source Source
	parser *parse.Parser
	rules  rules.Ruleset
	logger logger.Logger
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithLogger sets a custom logger for the aggregator.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Aggregator reading from source under the given ruleset.
func New(source Source, rs rules.Ruleset, opts ...Option) *Aggregator {
	a := &Aggregator{
		source: source,
		parser: parse.New(rs),
		rules:  rs,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.Get()
	}
	return a
}

// Totals sums every contribution inside the window, keyed by member id.
//
// Every roster member appears in the result, zeroed when inactive, so
// downstream goal denominators and reminder lists count the whole cohort.
// Contributions credited to ids outside the roster are dropped. Records
// that fail to parse are skipped and logged rather than aborting the fold.
func (a *Aggregator) Totals(ctx context.Context, dir model.Directory, w model.Window) (map[string]model.Tally, error) {
	msgs, err := a.source.List(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]model.Tally, dir.Len())
	for _, m := range dir.Members() {
		totals[m.ID] = model.Tally{}
	}

	for _, msg := range msgs {
		contrib, err := a.parser.Parse(msg, w)
		if err != nil {
			a.logger.Warn(ctx, "skipping unparsable record",
				logger.String("ts", msg.TS),
				logger.Error(err),
			)
			metrics.RecordParseSkip()
			continue
		}
		if contrib.Empty() {
			continue
		}
		for _, id := range contrib.People {
			t, ok := totals[id]
			if !ok {
				continue
			}
			t.Add(contrib.Tally)
			totals[id] = t
		}
	}
	return totals, nil
}

// GymPoints folds a tally's point categories into the single gym figure
// used by leaderboards and scatter plots. Lifting always counts; workout
// points count when the ruleset combines them.
func (a *Aggregator) GymPoints(t model.Tally) float64 {
	points := t.Gym + t.Lift
	if a.rules.CombineWorkout() {
		points += t.Workout
	}
	return points
}
