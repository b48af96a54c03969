package app

import "errors"

var (
	// ErrNoCaptainsChannel is returned when a captains report is requested
	// but no captains channel is configured.
	ErrNoCaptainsChannel = errors.New("captains channel not configured")
)
