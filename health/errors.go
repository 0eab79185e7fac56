package health

import "errors"

var (
	// ErrCheckTimeout is reported in Result.Err when a check misses the
	// aggregator deadline.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound is returned by Aggregator.Check for an unregistered name.
	ErrCheckerNotFound = errors.New("health: checker not found")
)
