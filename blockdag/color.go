package blockdag

import (
	"math/big"

	"github.com/daglabs/phantomdag/daghash"
)

// ColoringOutput is the externally visible result of a coloring pass: the
// disjoint blue/red partition of every block in the DAG, together with the
// k used to produce it.
type ColoringOutput struct {
	K       uint32
	BlueSet map[daghash.Hash]struct{}
	RedSet  map[daghash.Hash]struct{}
}

// IsBlue reports whether hash was colored blue by this pass.
func (out *ColoringOutput) IsBlue(hash daghash.Hash) bool {
	_, blue := out.BlueSet[hash]
	return blue
}

// ColoringSnapshot is the immutable coloring-derived view of every block in
// the DAG at the time a coloring pass completed. It is held by the DagStore
// instead of being written back onto BlockHeader, so that a concurrent
// reader holding a *BlockHeader never observes a half-updated coloring (see
// the redesign note in SPEC_FULL §9).
type ColoringSnapshot struct {
	output *ColoringOutput
	info   map[daghash.Hash]*BlockColorInfo
	order  []daghash.Hash // topological order the pass walked, genesis-first
}

// Output returns the blue/red partition computed by this pass.
func (snap *ColoringSnapshot) Output() *ColoringOutput {
	return snap.output
}

// Info returns the coloring-derived fields for hash.
func (snap *ColoringSnapshot) Info(hash daghash.Hash) (*BlockColorInfo, bool) {
	info, ok := snap.info[hash]
	return info, ok
}

// Order returns the topological order this coloring pass was computed over.
func (snap *ColoringSnapshot) Order() []daghash.Hash {
	out := make([]daghash.Hash, len(snap.order))
	copy(out, snap.order)
	return out
}

// Coloring returns the store's most recent coloring snapshot, if any.
func (dag *DagStore) Coloring() (*ColoringSnapshot, bool) {
	dag.mtx.RLock()
	defer dag.mtx.RUnlock()
	return dag.coloring, dag.coloring != nil
}

// BlueScore returns the blue score assigned to hash by the most recent
// coloring pass.
func (dag *DagStore) BlueScore(hash daghash.Hash) (uint64, error) {
	dag.mtx.RLock()
	defer dag.mtx.RUnlock()

	if dag.coloring == nil {
		return 0, errInternal("DAG has not been colored")
	}
	info, ok := dag.coloring.info[hash]
	if !ok {
		return 0, errBlockNotFound(hash)
	}
	return info.BlueScore, nil
}

// BestTip returns the block with the highest blue score in the most recent
// coloring snapshot, breaking ties by lexicographically smaller hash. This
// is the "local tip" selection rule used by both the agent's recovery
// handler and the standalone recovery loop (SPEC_FULL §4.5/§4.6).
func BestTip(dag *DagStore) (daghash.Hash, error) {
	dag.mtx.RLock()
	defer dag.mtx.RUnlock()

	if dag.coloring == nil {
		return daghash.ZERO, errInternal("DAG has not been colored")
	}

	var best daghash.Hash
	var bestScore uint64
	found := false
	for hash, info := range dag.coloring.info {
		if !found || info.BlueScore > bestScore || (info.BlueScore == bestScore && hash.Less(best)) {
			best = hash
			bestScore = info.BlueScore
			found = true
		}
	}
	if !found {
		return daghash.ZERO, errInternal("coloring snapshot has no entries")
	}
	return best, nil
}

// SelectedParentOf returns the selected parent assigned to hash by the most
// recent coloring pass, and whether one exists (false only for genesis).
func (dag *DagStore) SelectedParentOf(hash daghash.Hash) (daghash.Hash, bool, error) {
	dag.mtx.RLock()
	defer dag.mtx.RUnlock()

	if dag.coloring == nil {
		return daghash.ZERO, false, errInternal("DAG has not been colored")
	}
	info, ok := dag.coloring.info[hash]
	if !ok {
		return daghash.ZERO, false, errBlockNotFound(hash)
	}
	if !info.HasSelectedParent {
		return daghash.ZERO, false, nil
	}
	return *info.SelectedParent, true, nil
}

// ColorDAG runs the PHANTOM k-cluster coloring pass over every block
// currently in the store, in topological order, and installs the resulting
// ColoringSnapshot. It requires a genesis block and k >= 1.
//
// The algorithm processes blocks in topological order. For each non-genesis
// block B:
//
//	selected parent  = parent with max blue score, lexicographically
//	                    smallest hash breaking ties
//	blue anticone     = |Anticone(B) ∩ blueSet|
//	color             = blue if blue anticone <= k, else red
//	blue score        = |Past(B) ∩ blueSet|, computed after B is colored
//	blue work         = BlueWork(selectedParent) + 1 if B is blue, else +0
//
// This mirrors the teacher's ghostdag()/blueAnticoneSize() pass (see
// blockdag/ghostdag.go in the teacher pack) rewritten over an immutable
// snapshot rather than mutable blockNode fields.
func ColorDAG(dag *DagStore, k uint32) (*ColoringOutput, error) {
	if k < 1 {
		return nil, errInvalidK(k)
	}

	dag.mtx.Lock()
	defer dag.mtx.Unlock()

	if dag.genesis == nil {
		return nil, errNoGenesis()
	}

	dag.invalidateMemoLocked()

	order, err := dag.topologicalOrderLocked()
	if err != nil {
		return nil, err
	}

	info := make(map[daghash.Hash]*BlockColorInfo, len(order))
	blueSet := make(map[daghash.Hash]struct{})
	redSet := make(map[daghash.Hash]struct{})

	genesisHash := *dag.genesis
	info[genesisHash] = &BlockColorInfo{
		SelectedParent:    nil,
		HasSelectedParent: false,
		BlueScore:         0,
		BlueWork:          big.NewInt(1),
	}
	blueSet[genesisHash] = struct{}{}

	for _, hash := range order {
		if hash == genesisHash {
			continue
		}
		header := dag.headers[hash]
		if len(header.Parents) == 0 {
			return nil, errOrphanBlock(hash)
		}

		selectedParent, err := chooseSelectedParent(header.Parents, info)
		if err != nil {
			return nil, err
		}

		anticone, err := dag.anticoneLocked(hash)
		if err != nil {
			return nil, err
		}
		var blueAnticoneCount uint32
		for candidate := range anticone {
			if _, isBlue := blueSet[candidate]; isBlue {
				blueAnticoneCount++
			}
		}

		isBlue := blueAnticoneCount <= k
		if isBlue {
			blueSet[hash] = struct{}{}
		} else {
			redSet[hash] = struct{}{}
		}

		past, err := dag.pastLocked(hash)
		if err != nil {
			return nil, err
		}
		var blueScore uint64
		for ancestor := range past {
			if _, isBlue := blueSet[ancestor]; isBlue {
				blueScore++
			}
		}

		blueWork := new(big.Int).Set(info[selectedParent].CloneBlueWork())
		if isBlue {
			blueWork.Add(blueWork, big.NewInt(1))
		}

		parent := selectedParent
		info[hash] = &BlockColorInfo{
			SelectedParent:    &parent,
			HasSelectedParent: true,
			BlueScore:         blueScore,
			BlueWork:          blueWork,
		}
	}

	output := &ColoringOutput{K: k, BlueSet: blueSet, RedSet: redSet}
	dag.coloring = &ColoringSnapshot{output: output, info: info, order: order}
	dag.invalidateMemoLocked()

	return output, nil
}

// chooseSelectedParent picks the parent with the highest blue score,
// breaking ties on lexicographically smaller hash, per SPEC_FULL §4.2a.
func chooseSelectedParent(parents []daghash.Hash, info map[daghash.Hash]*BlockColorInfo) (daghash.Hash, error) {
	var best daghash.Hash
	var bestScore uint64
	found := false

	for _, parent := range parents {
		parentInfo, ok := info[parent]
		if !ok {
			return daghash.ZERO, errInternal("parent not yet colored: topological order violated")
		}
		if !found {
			best = parent
			bestScore = parentInfo.BlueScore
			found = true
			continue
		}
		if parentInfo.BlueScore > bestScore ||
			(parentInfo.BlueScore == bestScore && parent.Less(best)) {
			best = parent
			bestScore = parentInfo.BlueScore
		}
	}
	return best, nil
}

// topologicalOrderLocked is TopologicalOrder's body, usable while the
// caller already holds the write lock.
func (dag *DagStore) topologicalOrderLocked() ([]daghash.Hash, error) {
	if dag.genesis == nil {
		return nil, errNoGenesis()
	}

	inDegree := make(map[daghash.Hash]int, len(dag.headers))
	for hash, header := range dag.headers {
		inDegree[hash] = len(header.Parents)
	}

	var ready []daghash.Hash
	for hash, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, hash)
		}
	}
	daghash.Sort(ready)

	order := make([]daghash.Hash, 0, len(dag.headers))
	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]
		order = append(order, current)

		var newlyReady []daghash.Hash
		for _, child := range dag.children[current] {
			inDegree[child]--
			if inDegree[child] == 0 {
				newlyReady = append(newlyReady, child)
			}
		}
		daghash.Sort(newlyReady)
		ready = mergeSorted(ready, newlyReady)
	}

	if len(order) != len(dag.headers) {
		return nil, errInternal("cycle")
	}
	return order, nil
}

// anticoneLocked is Anticone's body, usable while the caller already holds
// the write lock (ColorDAG runs under Lock, not RLock, since it installs a
// new snapshot at the end of the pass).
func (dag *DagStore) anticoneLocked(hash daghash.Hash) (map[daghash.Hash]struct{}, error) {
	past, err := dag.pastLocked(hash)
	if err != nil {
		return nil, err
	}

	anticone := make(map[daghash.Hash]struct{})
	for candidate := range dag.headers {
		if candidate == hash {
			continue
		}
		if _, inPast := past[candidate]; inPast {
			continue
		}
		anticone[candidate] = struct{}{}
	}

	queue := append([]daghash.Hash(nil), dag.children[hash]...)
	future := make(map[daghash.Hash]struct{})
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, already := future[current]; already {
			continue
		}
		future[current] = struct{}{}
		delete(anticone, current)
		queue = append(queue, dag.children[current]...)
	}

	return anticone, nil
}
