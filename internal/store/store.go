// Package store persists the ledger root: a mapping from username to User.
//
// Load never fails past its boundary. A missing root yields an empty map,
// malformed records are skipped with a diagnostic, and an unreadable root
// degrades to an empty map. Save rewrites the root wholesale; callers
// persist after every mutation.
package store

import (
	"context"

	"tally/internal/core"
)

// Store is the persisted-root contract consumed by auth and services.
type Store interface {
	// Load reads all users. It reports corruption via logs, not errors:
	// the returned map is always usable.
	Load(ctx context.Context) (map[string]*core.User, error)

	// Save overwrites the persisted root. A failed save leaves the prior
	// on-disk state loadable and wraps core.ErrStorageWriteFailed.
	Save(ctx context.Context, users map[string]*core.User) error
}
