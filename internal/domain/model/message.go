// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strconv"
)

// Message is one chat message or thread reply pulled from the transport.
// TS is the platform's string-encoded fractional-second timestamp and is
// unique per message; it is the primary key of the activity log.
type Message struct {
	Text     string
	User     string // empty when the platform omitted the author; such records carry no contribution
	TS       string
	ThreadTS string // parent thread timestamp, empty for top-level messages

	// Extra preserves columns present in the activity log that this build
	// does not know about. Union-schema merges must never drop them.
	Extra map[string]string
}

// Timestamp parses TS into epoch seconds.
func (m Message) Timestamp() (float64, error) {
	ts, err := strconv.ParseFloat(m.TS, 64)
	if err != nil {
		return 0, fmt.Errorf("parse ts %q: %w", m.TS, err)
	}
	return ts, nil
}

// MergeStats reports the outcome of one activity-log merge.
type MergeStats struct {
	New     int // inserted rows
	Updated int // rows overwritten after a text edit
	Final   int // total rows after the merge
}
