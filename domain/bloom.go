package domain

import "context"

// BloomRepository front-ends question existence checks so lookups for IDs
// that were never created skip the cache and database entirely.
type BloomRepository interface {
	// Add puts an ID into the filter.
	Add(ctx context.Context, id int64) error

	// Exists reports whether the ID may exist.
	// true: possibly exists, check cache/DB next.
	// false: definitely absent, answer 404 directly.
	Exists(ctx context.Context, id int64) (bool, error)

	// BulkAdd seeds the filter with many IDs at once.
	BulkAdd(ctx context.Context, ids []int64) error
}
