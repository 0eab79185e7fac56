// Package memo memoizes functions whose arguments are scalar values.
//
// A memoized function caches each successful result under a key derived from
// its arguments. The cache is bounded (oldest result dropped first) and every
// result expires a fixed TTL after it was stored.
//
// Concurrent calls with the same arguments trigger at most one invocation of
// the wrapped function. A cache miss takes a per-key lock, re-checks the
// cache, and only then invokes the function; callers queued on the lock find
// the fresh result and return it. Errors are never cached, so the next call
// retries.
//
// # Usage
//
//	getUser, m, err := memo.Wrap1(memo.Options{TTL: time.Minute, Size: 100},
//	    func(ctx context.Context, id int) (*User, error) {
//	        return db.GetUser(ctx, id)
//	    })
//
//	u1, _ := getUser(ctx, 2) // calls db.GetUser
//	u2, _ := getUser(ctx, 2) // served from cache
//	m.ClearCache()
//
// Calls through New are checked at run time: passing the wrong number of
// arguments returns an error matching ErrArity before any cache or lock is
// touched.
package memo
