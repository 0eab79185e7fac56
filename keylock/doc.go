// Package keylock provides exclusive locks addressed by string key.
//
// A Registry creates the lock for a key the first time it is acquired. Each
// lock grants ownership in request order, so a waiter is never starved by
// later arrivals. Locks are not reentrant: acquiring the same key twice
// without a Release in between blocks forever (or until ctx is done).
//
// By default lock state is kept for the life of the Registry. WithReclaim
// drops a key's state once nobody holds or waits on it.
package keylock
