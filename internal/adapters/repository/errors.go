package repository

import "errors"

// Sentinel kinds for activity log errors.
var (
	ErrCorruptLog = errors.New("corrupt activity log")
	ErrMissingKey = errors.New("record missing ts key")
)
