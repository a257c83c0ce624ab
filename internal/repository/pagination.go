package repository

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// LimitVerify clamps a page size into the allowed range.
func LimitVerify(limit *int64) {
	if *limit <= 0 {
		*limit = DefaultLimit
	}
	if *limit > MaxLimit {
		*limit = MaxLimit
	}
}

// PageVerify normalizes a 1-based page number.
func PageVerify(page *int64) {
	if *page <= 0 {
		*page = 1
	}
}

// Offset converts a verified (page, limit) pair into a row offset.
func Offset(page, limit int64) int64 {
	return (page - 1) * limit
}
