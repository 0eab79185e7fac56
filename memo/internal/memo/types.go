// Package memo declares argument types whose names clash with types in the
// parent package, for key derivation tests.
package memo

// UserID shares its package and type name with memo.UserID.
type UserID string
