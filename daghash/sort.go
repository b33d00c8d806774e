package daghash

import "sort"

// Sort sorts hashes in place by ascending lexicographic order. Several
// traversals (tip selection, child iteration) need a stable deterministic
// order and lean on this rather than map iteration order.
func Sort(hashes []Hash) {
	sort.Slice(hashes, func(i, j int) bool {
		return hashes[i].Less(hashes[j])
	})
}

// Sorted returns a sorted copy of hashes, leaving the input untouched.
func Sorted(hashes []Hash) []Hash {
	out := make([]Hash, len(hashes))
	copy(out, hashes)
	Sort(out)
	return out
}
