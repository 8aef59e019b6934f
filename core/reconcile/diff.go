package reconcile

// Difference returns the elements of a that are not in b, in a's order.
// Membership in b is tested through a hash set, so the cost is O(len(a)+len(b)).
func Difference[T comparable](a, b []T) []T {
	exclude := make(map[T]struct{}, len(b))
	for _, v := range b {
		exclude[v] = struct{}{}
	}

	out := make([]T, 0)
	for _, v := range a {
		if _, found := exclude[v]; !found {
			out = append(out, v)
		}
	}
	return out
}
