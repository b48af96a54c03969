package model

// Tally is the per-person accumulator for one evaluation window.
// Throw is in minutes; the other fields are point totals. Tallies are
// derived state: they are rebuilt from the activity log on every pass and
// never persisted.
type Tally struct {
	Throw   float64
	Gym     float64
	Lift    float64
	Workout float64
}

// Add accumulates another tally into t.
func (t *Tally) Add(o Tally) {
	t.Throw += o.Throw
	t.Gym += o.Gym
	t.Lift += o.Lift
	t.Workout += o.Workout
}

// IsZero reports whether no activity was recorded.
func (t Tally) IsZero() bool {
	return t.Throw == 0 && t.Gym == 0 && t.Lift == 0 && t.Workout == 0
}
