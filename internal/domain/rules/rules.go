// Package rules holds the versioned scoring rules: which textual markers
// earn points, per-metric caps, and goal constants. Weights drifted between
// evaluation periods, so a ruleset is selected explicitly per tracking
// period instead of being hardcoded.
package rules

// Category names a tallied activity metric.
type Category string

// Tallied categories. Throw is measured in minutes, the rest in points.
const (
	Throw   Category = "throw"
	Gym     Category = "gym"
	Lift    Category = "lift"
	Workout Category = "workout"
)

// ThrowToken is the throwing marker; unlike point markers it takes a
// required integer minutes argument.
const ThrowToken = "!throw"

// Marker is a fixed textual token that earns a per-occurrence point weight
// in one category.
type Marker struct {
	Token    string
	Category Category
	Points   float64
}

// Ruleset is one evaluation period's scoring table.
type Ruleset struct {
	version string
	markers []Marker

	caps        map[Category]float64
	combinedCap float64

	// Throw normalization: points credited per 60 minutes of throwing.
	throwPointsPerHour float64

	// Weekly per-person goals, in points.
	weeklyGoal      float64
	weeklyThrowGoal float64
	weeklyLiftGoal  float64

	// Semester length in weeks; the semester goal is semesterWeeks * weeklyGoal.
	semesterWeeks float64

	// combineWorkout controls whether the workout category exists on its
	// own and is folded into gym by the combine option. The legacy ruleset
	// weighed !workout straight into gym instead.
	combineWorkout bool

	// Weekly compliance thresholds.
	throwThresholdMinutes float64
	liftThresholdPoints   float64
}

// Version returns the ruleset identifier.
func (r Ruleset) Version() string { return r.version }

// Markers returns the point markers of this ruleset.
func (r Ruleset) Markers() []Marker { return r.markers }

// Cap returns the per-person contribution ceiling for a metric; the empty
// category means the combined metric.
func (r Ruleset) Cap(metric Category) float64 {
	if metric == "" {
		return r.combinedCap
	}
	return r.caps[metric]
}

// ThrowPoints normalizes throwing minutes into points.
func (r Ruleset) ThrowPoints(minutes float64) float64 {
	return minutes * r.throwPointsPerHour / 60
}

// WeeklyGoal returns the combined weekly per-person goal in points.
func (r Ruleset) WeeklyGoal() float64 { return r.weeklyGoal }

// WeeklyThrowGoal returns the weekly per-person throwing goal in points.
func (r Ruleset) WeeklyThrowGoal() float64 { return r.weeklyThrowGoal }

// WeeklyLiftGoal returns the weekly per-person lifting goal in points.
func (r Ruleset) WeeklyLiftGoal() float64 { return r.weeklyLiftGoal }

// SemesterGoal returns the semester-long combined per-person goal.
func (r Ruleset) SemesterGoal() float64 { return r.semesterWeeks * r.weeklyGoal }

// CombineWorkout reports whether the combine option folds workout points
// into gym alongside lift.
func (r Ruleset) CombineWorkout() bool { return r.combineWorkout }

// ThrowThresholdMinutes is the weekly throwing compliance floor.
func (r Ruleset) ThrowThresholdMinutes() float64 { return r.throwThresholdMinutes }

// LiftThresholdPoints is the weekly lifting compliance floor (one lift).
func (r Ruleset) LiftThresholdPoints() float64 { return r.liftThresholdPoints }

func base(version string) Ruleset {
	return Ruleset{
		version: version,
		caps: map[Category]float64{
			Throw:   2,
			Gym:     2,
			Lift:    1.5,
			Workout: 1.5,
		},
		combinedCap:           6,
		throwPointsPerHour:    2,
		weeklyGoal:            4,
		weeklyThrowGoal:       2,
		weeklyLiftGoal:        1.5,
		semesterWeeks:         13,
		throwThresholdMinutes: 60,
		liftThresholdPoints:   1.5,
	}
}

// ForVersion returns the ruleset for a tracking period version.
func ForVersion(version string) (Ruleset, error) {
	switch version {
	case VersionFall2024:
		r := base(version)
		r.markers = []Marker{
			{Token: "!gym", Category: Gym, Points: 1},
			{Token: "!cardio", Category: Gym, Points: 1},
			{Token: "!workout", Category: Gym, Points: 1.5},
			{Token: "!upper", Category: Gym, Points: 0.5},
			{Token: "!recovery", Category: Gym, Points: 0.5},
			{Token: "!lift", Category: Lift, Points: 1.5},
		}
		r.combineWorkout = false
		return r, nil
	case VersionFall2025:
		r := base(version)
		r.markers = []Marker{
			{Token: "!gym", Category: Gym, Points: 1},
			{Token: "!cardio", Category: Gym, Points: 1},
			{Token: "!workout", Category: Workout, Points: 1.5},
			{Token: "!upper", Category: Gym, Points: 0.5},
			{Token: "!recovery", Category: Gym, Points: 0.5},
			{Token: "!lift", Category: Lift, Points: 1.5},
		}
		r.combineWorkout = true
		return r, nil
	default:
		return Ruleset{}, unknownVersion(version)
	}
}

// Known ruleset versions.
const (
	VersionFall2024 = "fall-2024"
	VersionFall2025 = "fall-2025"
)

// Current returns the ruleset for the present tracking period.
func Current() Ruleset {
	r, _ := ForVersion(VersionFall2025)
	return r
}
