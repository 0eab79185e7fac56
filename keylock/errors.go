package keylock

import "errors"

// ErrAcquire wraps the reason a caller stopped waiting for a lock.
var ErrAcquire = errors.New("keylock: acquire failed")
