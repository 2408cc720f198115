package classify

import "strings"

// Field extracts one searchable string from a record.
type Field[T any] func(T) string

// Matches reports whether the lower-cased query is a substring of at least
// one lower-cased field.  An empty query matches every record.
func Matches[T any](query string, item T, fields ...Field[T]) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f(item)), q) {
			return true
		}
	}
	return false
}

// Search keeps the records matching query.
func Search[T any](items []T, query string, fields ...Field[T]) []T {
	return Filter(items, func(it T) bool { return Matches(query, it, fields...) })
}

// Filter returns a new slice with the records for which keep is true.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
