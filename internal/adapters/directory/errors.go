package directory

import "errors"

var (
	// ErrNoPeriod is returned when the tracking-period anchor is missing.
	ErrNoPeriod = errors.New("no tracking period recorded")

	// ErrCorruptSnapshot is returned when a persisted snapshot cannot be
	// decoded.
	ErrCorruptSnapshot = errors.New("corrupt directory snapshot")
)
