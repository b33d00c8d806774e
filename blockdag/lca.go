package blockdag

import "github.com/daglabs/phantomdag/daghash"

// LcaResult is the outcome of a Greedy Path Intersection pass between the
// local DAG's selected-parent chain and a peer-supplied chain.
type LcaResult struct {
	Lca             daghash.Hash
	MissingBlocks   []daghash.Hash
	DivergenceDepth int
}

// localSelectedParentChain walks SelectedParent from tip back to genesis
// and returns the chain genesis-first.
func localSelectedParentChain(dag *DagStore, tip daghash.Hash) ([]daghash.Hash, error) {
	var reversed []daghash.Hash
	current := tip
	for {
		reversed = append(reversed, current)
		parent, has, err := dag.SelectedParentOf(current)
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		current = parent
	}

	chain := make([]daghash.Hash, len(reversed))
	for i, hash := range reversed {
		chain[len(reversed)-1-i] = hash
	}
	return chain, nil
}

// GreedyPathIntersection finds the lowest common ancestor between the
// local DAG's selected-parent chain ending at localTip and a peer-supplied
// chain (genesis-first, inclusive of the peer's tip), per SPEC_FULL §4.4.
func GreedyPathIntersection(dag *DagStore, localTip daghash.Hash, peerChain []daghash.Hash) (*LcaResult, error) {
	localChain, err := localSelectedParentChain(dag, localTip)
	if err != nil {
		return nil, err
	}

	localIndex := make(map[daghash.Hash]int, len(localChain))
	for i, hash := range localChain {
		localIndex[hash] = i
	}

	lcaPos := -1
	lcaIndexInPeerChain := -1
	for i := len(peerChain) - 1; i >= 0; i-- {
		if pos, ok := localIndex[peerChain[i]]; ok {
			lcaPos = pos
			lcaIndexInPeerChain = i
			break
		}
	}
	if lcaPos == -1 {
		return nil, errInternal("no common ancestor")
	}

	var missing []daghash.Hash
	for i := lcaIndexInPeerChain + 1; i < len(peerChain); i++ {
		if !dag.Has(peerChain[i]) {
			missing = append(missing, peerChain[i])
		}
	}

	return &LcaResult{
		Lca:             localChain[lcaPos],
		MissingBlocks:   missing,
		DivergenceDepth: (len(localChain) - 1) - lcaPos,
	}, nil
}

// HasDiverged reports whether localTip is absent from peerChain.
func HasDiverged(localTip daghash.Hash, peerChain []daghash.Hash) bool {
	for _, hash := range peerChain {
		if hash == localTip {
			return false
		}
	}
	return true
}
