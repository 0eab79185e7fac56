// Package cache provides the bounded, time-expiring store behind memoized
// functions.
//
// FIFOCache holds at most a fixed number of entries. When full, inserting a
// new key evicts the oldest-inserted entry; reads never change that order.
// Every entry also expires a fixed TTL after insertion, independently of
// capacity pressure, so an entry disappears at whichever comes first.
package cache
