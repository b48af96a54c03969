// Package parse turns one raw message into activity contributions.
package parse

import (
	"regexp"
	"strconv"

	"github.com/hucklog/hucklog/internal/domain/model"
	"github.com/hucklog/hucklog/internal/domain/rules"
)

var (
	mentionPattern = regexp.MustCompile(`<@([^>]+)>`)
	throwPattern   = regexp.MustCompile(regexp.QuoteMeta(rules.ThrowToken) + ` ([0-9]+)`)
)

// Contribution is the parsed output of one message: the credited people and
// the quantities each of them earns.
type Contribution struct {
	People []string
	Tally  model.Tally
}

// Empty reports whether the message carried no credit.
func (c Contribution) Empty() bool {
	return len(c.People) == 0
}

type markerMatcher struct {
	re       *regexp.Regexp
	category rules.Category
	points   float64
}

// Parser extracts activity quantities from message text using a ruleset's
// markers. Parsing is pure: the same record always yields the same
// contribution, so reprocessing the log is safe.
type Parser struct {
	matchers []markerMatcher
}

// New compiles a parser for the given ruleset.
func New(rs rules.Ruleset) *Parser {
	p := &Parser{}
	for _, m := range rs.Markers() {
		p.matchers = append(p.matchers, markerMatcher{
			re:       regexp.MustCompile(regexp.QuoteMeta(m.Token)),
			category: m.Category,
			points:   m.Points,
		})
	}
	return p
}

// Parse extracts the contribution of one message, filtered by the window.
// Messages outside the window or missing an author yield an empty
// contribution and no error.
//
// The credited people are the author followed by every explicit <@id>
// mention in order of appearance. Mentions are deliberately not
// deduplicated: a double mention double-credits, and downstream totals
// assume that behavior.
func (p *Parser) Parse(msg model.Message, w model.Window) (Contribution, error) {
	ts, err := msg.Timestamp()
	if err != nil {
		return Contribution{}, err
	}
	if !w.Contains(ts) {
		return Contribution{}, nil
	}
	if msg.User == "" {
		return Contribution{}, nil
	}

	people := []string{msg.User}
	for _, m := range mentionPattern.FindAllStringSubmatch(msg.Text, -1) {
		people = append(people, m[1])
	}

	var tally model.Tally
	for _, m := range throwPattern.FindAllStringSubmatch(msg.Text, -1) {
		minutes, err := strconv.Atoi(m[1])
		if err != nil {
			return Contribution{}, err
		}
		tally.Throw += float64(minutes)
	}

	for _, matcher := range p.matchers {
		n := len(matcher.re.FindAllString(msg.Text, -1))
		if n == 0 {
			continue
		}
		points := float64(n) * matcher.points
		switch matcher.category {
		case rules.Gym:
			tally.Gym += points
		case rules.Lift:
			tally.Lift += points
		case rules.Workout:
			tally.Workout += points
		case rules.Throw:
			// throwing is minute-based and handled above
		}
	}

	return Contribution{People: people, Tally: tally}, nil
}
