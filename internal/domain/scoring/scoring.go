// Package scoring converts per-person tallies into goal-relative team
// progress.
package scoring

import (
	"fmt"
	"math"

	"github.com/hucklog/hucklog/internal/domain/model"
	"github.com/hucklog/hucklog/internal/domain/rules"
)

// Display ceilings: weekly progress renders up to 100%, semester progress
// leaves headroom for overshoot.
const (
	weeklyMaxProgress   = 1.0
	semesterMaxProgress = 1.25
)

// Input describes one progress evaluation.
type Input struct {
	Tallies map[string]model.Tally

	// People is the cohort size. The goal denominator counts everyone,
	// including members with zero activity.
	People int

	// GoalPerPerson is the per-person goal in points.
	GoalPerPerson float64

	// Metric restricts the evaluation to one category; empty means the
	// combined metric.
	Metric rules.Category

	// Weekly selects the weekly display ceiling and title.
	Weekly bool

	// Cap clamps each individual's contribution to the per-metric ceiling
	// before summation, so one highly active member cannot mask a team
	// shortfall.
	Cap bool
}

// Result is the scored progress plus everything the renderer needs.
type Result struct {
	Percent     float64 // total / goal; 0 when the goal is 0
	Total       float64
	Goal        float64
	MaxProgress float64 // display ceiling: 1.0 weekly, 1.25 semester
	Title       string  // "Weekly" or "Semester"
	MetricLabel string  // "Gym", "Throwing" or "Throwing/Workout"
}

// Summary renders the one-line progress string posted with the chart.
func (r Result) Summary() string {
	return fmt.Sprintf("*Team %s Progress:* %d%% of goal reached", r.Title, int(r.Percent*100))
}

// Scorer computes progress results under one ruleset. Scoring is pure and
// deterministic: identical inputs always produce identical results.
type Scorer struct {
	rules rules.Ruleset
}

// New creates a Scorer for the given ruleset.
func New(rs rules.Ruleset) Scorer {
	return Scorer{rules: rs}
}

// Score folds every tally's contribution for the selected metric and
// normalizes against the cohort goal.
func (s Scorer) Score(in Input) Result {
	var total float64
	for _, tally := range in.Tallies {
		contrib := s.contribution(in.Metric, tally)
		if in.Cap {
			contrib = math.Min(contrib, s.rules.Cap(in.Metric))
		}
		total += contrib
	}

	goal := float64(in.People) * in.GoalPerPerson

	var percent float64
	if goal > 0 {
		percent = total / goal
	}

	r := Result{
		Percent:     percent,
		Total:       total,
		Goal:        goal,
		MaxProgress: semesterMaxProgress,
		Title:       "Semester",
		MetricLabel: s.metricLabel(in.Metric),
	}
	if in.Weekly {
		r.MaxProgress = weeklyMaxProgress
		r.Title = "Weekly"
	}
	return r
}

// contribution selects a tally's points for the metric. Throwing minutes
// are normalized into points first.
func (s Scorer) contribution(metric rules.Category, t model.Tally) float64 {
	switch metric {
	case rules.Gym:
		return t.Gym
	case rules.Throw:
		return s.rules.ThrowPoints(t.Throw)
	case rules.Lift:
		return t.Lift
	case rules.Workout:
		return t.Workout
	default:
		// The combined metric folds lifting in alongside gym; workout
		// points join under rulesets that combine them.
		combined := t.Gym + t.Lift + s.rules.ThrowPoints(t.Throw)
		if s.rules.CombineWorkout() {
			combined += t.Workout
		}
		return combined
	}
}

func (s Scorer) metricLabel(metric rules.Category) string {
	switch metric {
	case rules.Gym, rules.Lift:
		return "Gym"
	case rules.Throw:
		return "Throwing"
	default:
		return "Throwing/Workout"
	}
}
