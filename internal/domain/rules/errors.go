package rules

import (
	"errors"
	"fmt"
)

// Sentinel kinds for rules errors.
var (
	ErrUnknownVersion = errors.New("unknown rules version")
)

func unknownVersion(version string) error {
	return fmt.Errorf("%w: %q", ErrUnknownVersion, version)
}
