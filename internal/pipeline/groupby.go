package pipeline

import "math"

// group is one bucket of a grouped table: the key plus the member records
// in their original input order.
type group[K comparable, T any] struct {
	Key   K
	Items []T
}

// groupBy partitions items by the extracted key. Buckets are returned in
// first-seen key order so grouped aggregation stays deterministic for a
// given input ordering.
func groupBy[K comparable, T any](items []T, key func(T) K) []group[K, T] {
	index := make(map[K]int, len(items))
	groups := make([]group[K, T], 0)
	for _, item := range items {
		k := key(item)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group[K, T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// sumBy accumulates the extracted value over the bucket
func sumBy[T any](items []T, value func(T) float64) float64 {
	var total float64
	for _, item := range items {
		total += value(item)
	}
	return total
}

// meanBy is the arithmetic mean of the extracted value, 0 for an empty bucket
func meanBy[T any](items []T, value func(T) float64) float64 {
	if len(items) == 0 {
		return 0
	}
	return sumBy(items, value) / float64(len(items))
}

// stdBy is the sample standard deviation of the extracted value. Fewer than
// two observations yield 0 rather than an undefined result.
func stdBy[T any](items []T, value func(T) float64) float64 {
	n := len(items)
	if n < 2 {
		return 0
	}
	m := meanBy(items, value)
	var ss float64
	for _, item := range items {
		d := value(item) - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// countBy counts bucket members satisfying the predicate
func countBy[T any](items []T, pred func(T) bool) int {
	var n int
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}
