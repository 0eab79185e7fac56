package memo

import (
	"errors"
	"fmt"
)

// Sentinel errors for memoization.
var (
	// ErrArity is returned when a call's argument count does not match the
	// wrapped function's arity.
	ErrArity = errors.New("memo: invalid number of arguments")

	// ErrUnsupportedArgument is returned when an argument is not a scalar.
	ErrUnsupportedArgument = errors.New("memo: unsupported argument type")

	// ErrNilFunc is returned when New is given a nil function.
	ErrNilFunc = errors.New("memo: function is nil")

	// ErrInvalidArity is returned when New is given a negative arity.
	ErrInvalidArity = errors.New("memo: arity must not be negative")

	// ErrInvalidTTL indicates Options.TTL is not positive.
	ErrInvalidTTL = errors.New("memo: ttl must be positive")

	// ErrInvalidSize indicates Options.Size is not positive.
	ErrInvalidSize = errors.New("memo: size must be positive")
)

// ArityError reports a call made with the wrong number of arguments.
type ArityError struct {
	Got  int
	Want int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("memo: invalid number of arguments passed (%d != %d)", e.Got, e.Want)
}

// Is matches ErrArity.
func (e *ArityError) Is(target error) bool {
	return target == ErrArity
}
