package blockdag

import (
	"sort"

	"github.com/daglabs/phantomdag/daghash"
)

// OrderedEntry is one position in a total order produced by TotalOrder.
type OrderedEntry struct {
	Hash             daghash.Hash
	BlueScore        uint64
	TopologicalIndex int
	TiebreakKey      daghash.Hash
}

// tiebreakKey computes Hash XOR (SelectedParent or ZERO), the deterministic
// tiebreak used when two blocks share a blue score. XORing against the
// selected parent keeps an adversary from predicting order from the raw
// hash alone.
func tiebreakKey(hash daghash.Hash, selectedParent daghash.Hash, hasSelectedParent bool) daghash.Hash {
	if !hasSelectedParent {
		return hash.Xor(daghash.ZERO)
	}
	return hash.Xor(selectedParent)
}

// TotalOrder sorts every block in dag's most recent coloring snapshot by
// (BlueScore asc, TiebreakKey asc), assigning each entry its resulting
// TopologicalIndex. The DAG must have been colored via ColorDAG first.
func TotalOrder(dag *DagStore) ([]OrderedEntry, error) {
	snapshot, ok := dag.Coloring()
	if !ok {
		return nil, errInternal("DAG has not been colored")
	}

	entries := make([]OrderedEntry, 0, len(snapshot.info))
	for hash, info := range snapshot.info {
		key := tiebreakKey(hash, zeroOrSelectedParent(info), info.HasSelectedParent)
		entries = append(entries, OrderedEntry{
			Hash:        hash,
			BlueScore:   info.BlueScore,
			TiebreakKey: key,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].BlueScore != entries[j].BlueScore {
			return entries[i].BlueScore < entries[j].BlueScore
		}
		return entries[i].TiebreakKey.Less(entries[j].TiebreakKey)
	})

	for i := range entries {
		entries[i].TopologicalIndex = i
	}

	return entries, nil
}

func zeroOrSelectedParent(info *BlockColorInfo) daghash.Hash {
	if !info.HasSelectedParent {
		return daghash.ZERO
	}
	return *info.SelectedParent
}

// TotalOrderHashes returns just the hashes from TotalOrder, in order.
func TotalOrderHashes(dag *DagStore) ([]daghash.Hash, error) {
	entries, err := TotalOrder(dag)
	if err != nil {
		return nil, err
	}
	hashes := make([]daghash.Hash, len(entries))
	for i, entry := range entries {
		hashes[i] = entry.Hash
	}
	return hashes, nil
}

// CompareBlocks answers the TotalOrder comparison for two already-colored
// blocks in O(1): -1 if a orders before b, 1 if after, 0 if equal (which
// only happens when a == b).
func CompareBlocks(dag *DagStore, a, b daghash.Hash) (int, error) {
	snapshot, ok := dag.Coloring()
	if !ok {
		return 0, errInternal("DAG has not been colored")
	}

	infoA, ok := snapshot.info[a]
	if !ok {
		return 0, errBlockNotFound(a)
	}
	infoB, ok := snapshot.info[b]
	if !ok {
		return 0, errBlockNotFound(b)
	}

	if infoA.BlueScore != infoB.BlueScore {
		if infoA.BlueScore < infoB.BlueScore {
			return -1, nil
		}
		return 1, nil
	}

	keyA := tiebreakKey(a, zeroOrSelectedParent(infoA), infoA.HasSelectedParent)
	keyB := tiebreakKey(b, zeroOrSelectedParent(infoB), infoB.HasSelectedParent)
	return keyA.Compare(keyB), nil
}
