package blockdag

import (
	"math/big"

	"github.com/daglabs/phantomdag/daghash"
)

// BlockHeader is the caller-supplied shape of a block: its hash, its
// parents, and an opaque timestamp. Hash derivation, proof-of-work, and
// persistence are all external to this package; BlockHeader only carries
// what the DAG needs to link blocks together.
//
// Coloring-derived fields (selected parent, blue score, blue work) are
// intentionally not stored here. They live in a ColoringSnapshot produced by
// ColorDAG and held by the DagStore, so that a coloring pass never races a
// concurrent reader walking a header it still holds a reference to (see
// the note on coloring mutating headers in SPEC_FULL §9).
type BlockHeader struct {
	Hash      daghash.Hash
	Parents   []daghash.Hash
	Timestamp uint64
}

// IsGenesis reports whether this header has no parents.
func (h *BlockHeader) IsGenesis() bool {
	return len(h.Parents) == 0
}

// Clone returns a deep copy of the header.
func (h *BlockHeader) Clone() *BlockHeader {
	parents := make([]daghash.Hash, len(h.Parents))
	copy(parents, h.Parents)
	return &BlockHeader{
		Hash:      h.Hash,
		Parents:   parents,
		Timestamp: h.Timestamp,
	}
}

// BlockColorInfo is the coloring-derived view of a single block, as
// recorded in a ColoringSnapshot.
type BlockColorInfo struct {
	SelectedParent   *daghash.Hash
	HasSelectedParent bool
	BlueScore        uint64
	BlueWork         *big.Int
}

// CloneBlueWork returns a defensive copy of BlueWork, or a fresh zero value
// if it is nil.
func (info *BlockColorInfo) CloneBlueWork() *big.Int {
	if info.BlueWork == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(info.BlueWork)
}
