// Package paging applies limit/offset windows to in-memory listings.
package paging

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// Window returns items[offset:offset+limit] clamped to bounds. A limit of
// zero or less means DefaultLimit; limits above MaxLimit are capped.
func Window[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
