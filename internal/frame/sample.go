package frame

import (
	"math/rand"
	"sort"
)

// Sample draws size values with a fixed seed, keeping their original order.
// Inputs no longer than size are returned as is.
func Sample(values []any, size int, seed int64) []any {
	if size <= 0 || len(values) <= size {
		return values
	}
	r := rand.New(rand.NewSource(seed))
	idx := r.Perm(len(values))[:size]
	sort.Ints(idx)
	out := make([]any, size)
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}
