package classify

import "sort"

// Bucket names one tab and the predicate that admits records into it.  Less
// is optional; when set the bucket's items are stably sorted with it.
type Bucket[T any] struct {
	Name  string
	Match func(T) bool
	Less  func(a, b T) bool
}

// Result is the content of one bucket.  Count always equals len(Items).
type Result[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// Partitions maps bucket names to their results.
type Partitions[T any] map[string]Result[T]

// Partition evaluates every bucket against items.  A record may land in
// several buckets or in none.  items is never modified and each bucket gets
// its own backing array.
func Partition[T any](items []T, buckets ...Bucket[T]) Partitions[T] {
	out := make(Partitions[T], len(buckets))
	for _, b := range buckets {
		matched := make([]T, 0)
		for _, it := range items {
			if b.Match == nil || b.Match(it) {
				matched = append(matched, it)
			}
		}
		if b.Less != nil {
			less := b.Less
			sort.SliceStable(matched, func(i, j int) bool { return less(matched[i], matched[j]) })
		}
		out[b.Name] = Result[T]{Items: matched, Count: len(matched)}
	}
	return out
}

// Counts returns the count of every bucket.
func (p Partitions[T]) Counts() map[string]int {
	out := make(map[string]int, len(p))
	for name, r := range p {
		out[name] = r.Count
	}
	return out
}

// Get returns the named bucket, or an empty result when it does not exist.
func (p Partitions[T]) Get(name string) Result[T] {
	if r, ok := p[name]; ok {
		return r
	}
	return Result[T]{Items: []T{}}
}
