package search

// Merge blends name matches and genre matches into at most limit items.
//
// Name matches fill the first limit-limit/4 slots, genre matches fill up to
// limit, and any room left is taken by the remaining name matches, resuming
// where the first pass stopped. Items already in the result (by id) are
// skipped in every pass. The result is never re-sorted.
func Merge[T any](byName, byGenre []T, limit int, id func(T) string) []T {
	if limit <= 0 {
		return []T{}
	}
	quota := limit - limit/4
	out := make([]T, 0, limit)
	seen := make(map[string]struct{}, limit)

	add := func(item T) {
		key := id(item)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}

	next := 0
	for ; len(out) < quota && next < len(byName); next++ {
		add(byName[next])
	}
	for i := 0; len(out) < limit && i < len(byGenre); i++ {
		add(byGenre[i])
	}
	for ; len(out) < limit && next < len(byName); next++ {
		add(byName[next])
	}
	return out
}
