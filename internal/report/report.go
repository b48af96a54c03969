// Package report turns aggregated tallies into the text blocks posted to
// the channel.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hucklog/hucklog/internal/domain/model"
	"github.com/hucklog/hucklog/internal/domain/rules"
)

// Formatter renders leaderboards, weekly summaries and the captains report
// under one ruleset's thresholds.
type Formatter struct {
	rules rules.Ruleset
}

// New creates a Formatter for the given ruleset.
func New(rs rules.Ruleset) Formatter {
	return Formatter{rules: rs}
}

type entry struct {
	id    string
	name  string
	value float64
}

// rankedEntries sorts members by value descending, dropping zero rows.
// The sort is stable over directory order, so ties keep a deterministic
// ranking across runs.
func rankedEntries(dir model.Directory, totals map[string]model.Tally, value func(model.Tally) float64) []entry {
	entries := make([]entry, 0, dir.Len())
	for _, m := range dir.Members() {
		v := value(totals[m.ID])
		if v == 0 {
			continue
		}
		entries = append(entries, entry{id: m.ID, name: m.Name, value: v})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].value > entries[j].value
	})
	return entries
}

// ThrowingLeaderboard renders the full descending throwing-minutes list.
// Members with no recorded throwing are omitted.
func (f Formatter) ThrowingLeaderboard(dir model.Directory, totals map[string]model.Tally) string {
	entries := rankedEntries(dir, totals, func(t model.Tally) float64 { return t.Throw })

	var b strings.Builder
	b.WriteString("*Full Throwing Leaderboard*")
	for i, e := range entries {
		fmt.Fprintf(&b, "\n*%d. %s* with %s minutes", i+1, e.name, trim(e.value))
	}
	return b.String()
}

// WorkoutLeaderboard renders the full descending workout-points list,
// using the caller's fold from tally to points.
func (f Formatter) WorkoutLeaderboard(dir model.Directory, totals map[string]model.Tally, points func(model.Tally) float64) string {
	entries := rankedEntries(dir, totals, points)

	var b strings.Builder
	b.WriteString("*Full Workout Leaderboard*")
	for i, e := range entries {
		fmt.Fprintf(&b, "\n*%d. %s* with %s points", i+1, e.name, trim(e.value))
	}
	return b.String()
}

// WeeklyThrowSummary renders the weekly throwing update: compliance count,
// total minutes, and the week's top thrower.
func (f Formatter) WeeklyThrowSummary(dir model.Directory, totals map[string]model.Tally) string {
	threshold := f.rules.ThrowThresholdMinutes()

	var (
		reached int
		total   float64
		bestID  string
		best    float64
	)
	for _, m := range dir.Members() {
		t := totals[m.ID]
		total += t.Throw
		if t.Throw >= threshold {
			reached++
		}
		// The star goes to the top thrower, first in roster order on a
		// tie. A fully idle week still names someone.
		if bestID == "" || t.Throw > best {
			best = t.Throw
			bestID = m.ID
		}
	}

	var b strings.Builder
	b.WriteString("*Weekly Update!*\n")
	fmt.Fprintf(&b, "Overall Progress: %d/%d reached %s minutes\n", reached, dir.Len(), trim(threshold))
	fmt.Fprintf(&b, "%s total minutes of throwing", trim(total))
	if bestID != "" {
		fmt.Fprintf(&b, "\n:star2: thrower: <@%s> with %s minutes", bestID, trim(best))
	}
	return b.String()
}

// WeeklyLiftSummary renders the weekly lifting update.
func (f Formatter) WeeklyLiftSummary(dir model.Directory, totals map[string]model.Tally) string {
	threshold := f.rules.LiftThresholdPoints()

	var (
		reached int
		total   float64
	)
	for _, m := range dir.Members() {
		t := totals[m.ID]
		total += t.Lift
		if t.Lift >= threshold {
			reached++
		}
	}

	var b strings.Builder
	b.WriteString("*Weekly Update!*\n")
	fmt.Fprintf(&b, "Overall Progress: %d/%d have lifted this week\n", reached, dir.Len())
	fmt.Fprintf(&b, "%s points of lifts", trim(total))
	return b.String()
}

// ThrowBehindList renders the reminder thread body: everyone still under
// the weekly throwing floor with the minutes they have left.
func (f Formatter) ThrowBehindList(dir model.Directory, totals map[string]model.Tally) string {
	threshold := f.rules.ThrowThresholdMinutes()

	var b strings.Builder
	fmt.Fprintf(&b, "*Under %s minutes:*", trim(threshold))
	empty := true
	for _, m := range dir.Members() {
		t := totals[m.ID]
		if t.Throw >= threshold {
			continue
		}
		fmt.Fprintf(&b, "\n<@%s> - %s minutes left", m.ID, trim(threshold-t.Throw))
		empty = false
	}
	if empty {
		b.WriteString("\nNone!")
	}
	return b.String()
}

// LiftBehindList renders the lifting reminder thread body.
func (f Formatter) LiftBehindList(dir model.Directory, totals map[string]model.Tally) string {
	threshold := f.rules.LiftThresholdPoints()

	var b strings.Builder
	b.WriteString("*Under one lift:*")
	empty := true
	for _, m := range dir.Members() {
		if totals[m.ID].Lift >= threshold {
			continue
		}
		fmt.Fprintf(&b, "\n<@%s>", m.ID)
		empty = false
	}
	if empty {
		b.WriteString("\nNone!")
	}
	return b.String()
}

// CaptainsReport renders last week's compliance report: throwers under the
// minutes floor and lifters under one lift, by name, labeled with the
// week's dates.
func (f Formatter) CaptainsReport(dir model.Directory, totals map[string]model.Tally, week model.Window, loc *time.Location) string {
	label := weekLabel(week, loc)

	var b strings.Builder
	fmt.Fprintf(&b, "*Captains Report %s*\n", label)

	fmt.Fprintf(&b, "\n*Throwers under %s minutes:*", trim(f.rules.ThrowThresholdMinutes()))
	empty := true
	for _, m := range dir.Members() {
		t := totals[m.ID]
		if t.Throw >= f.rules.ThrowThresholdMinutes() {
			continue
		}
		fmt.Fprintf(&b, "\n*%s* - %s minutes thrown", m.Name, trim(t.Throw))
		empty = false
	}
	if empty {
		b.WriteString("\nNone!")
	}

	b.WriteString("\n\n*Lifters under one lift:*")
	empty = true
	for _, m := range dir.Members() {
		if totals[m.ID].Lift >= f.rules.LiftThresholdPoints() {
			continue
		}
		fmt.Fprintf(&b, "\n*%s*", m.Name)
		empty = false
	}
	if empty {
		b.WriteString("\nNone!")
	}
	return b.String()
}

func weekLabel(week model.Window, loc *time.Location) string {
	start := week.StartTime(loc)
	if _, ok := week.End(); ok {
		return start.Format("01/02") + "-" + week.EndTime(loc).Format("01/02")
	}
	return start.Format("01/02")
}

// trim renders a quantity without a trailing ".0" so whole numbers read
// naturally in chat.
func trim(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}
