package slack

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps any Slack API failure.
	ErrTransport = errors.New("slack transport error")

	// ErrEmptyChannel is returned when a thread anchor is requested on a
	// channel with no messages.
	ErrEmptyChannel = errors.New("channel has no messages")
)

func wrapTransport(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrTransport, op, err)
}
