package snapshot

import (
	"sort"
	"time"

	"github.com/daglabs/phantomdag/blockdag"
	"github.com/daglabs/phantomdag/daghash"
	"github.com/pkg/errors"
)

// Linearize is the pure transform from SPEC_FULL §4.7: for every entry of
// dag's total order, it emits the corresponding LinearizedBlock. If
// coloring is nil, dag's most recent coloring snapshot is used.
func Linearize(dag *blockdag.DagStore, coloring *blockdag.ColoringSnapshot) ([]LinearizedBlock, error) {
	if coloring == nil {
		var ok bool
		coloring, ok = dag.Coloring()
		if !ok {
			return nil, errors.New("snapshot: DAG has not been colored")
		}
	}

	entries, err := blockdag.TotalOrder(dag)
	if err != nil {
		return nil, err
	}

	output := coloring.Output()
	blocks := make([]LinearizedBlock, 0, len(entries))
	for _, entry := range entries {
		parents, err := dag.Parents(entry.Hash)
		if err != nil {
			return nil, err
		}
		info, ok := coloring.Info(entry.Hash)
		if !ok {
			return nil, errors.Errorf("snapshot: block %s missing from coloring snapshot", entry.Hash)
		}

		var selectedParent *string
		if info.HasSelectedParent {
			parentHex := info.SelectedParent.String()
			selectedParent = &parentHex
		}

		blocks = append(blocks, LinearizedBlock{
			Hash:             entry.Hash.String(),
			BlueScore:        entry.BlueScore,
			BlueWork:         info.CloneBlueWork().String(),
			TopologicalIndex: uint64(entry.TopologicalIndex),
			AdjacencyList:    daghash.Strings(parents),
			IsBlue:           output.IsBlue(entry.Hash),
			SelectedParent:   selectedParent,
		})
	}
	return blocks, nil
}

// BuildDagSnapshot assembles a DagSnapshot from dag's current coloring.
func BuildDagSnapshot(dag *blockdag.DagStore) (*DagSnapshot, error) {
	coloring, ok := dag.Coloring()
	if !ok {
		return nil, errors.New("snapshot: DAG has not been colored")
	}

	blocks, err := Linearize(dag, coloring)
	if err != nil {
		return nil, err
	}

	tip, err := blockdag.BestTip(dag)
	if err != nil {
		return nil, err
	}

	return &DagSnapshot{
		Blocks:      blocks,
		TotalBlocks: uint64(len(blocks)),
		K:           uint64(coloring.Output().K),
		Tip:         tip.String(),
		GeneratedAt: time.Now().UnixMilli(),
	}, nil
}

// BuildAgentHealth assembles an AgentHealth payload. agentState should be
// one of the agent.State string labels, or AgentStateInit before the agent
// has started. rlConfidence is a coarse health signal derived from the
// blue/red ratio: 1.0 means every known block is blue.
func BuildAgentHealth(dag *blockdag.DagStore, currentK uint32, agentState string) (*AgentHealth, error) {
	coloring, ok := dag.Coloring()
	if !ok {
		return &AgentHealth{
			CurrentK:   uint64(currentK),
			AgentState: AgentStateInit,
		}, nil
	}

	output := coloring.Output()
	blueCount := uint64(len(output.BlueSet))
	redCount := uint64(len(output.RedSet))
	total := blueCount + redCount

	confidence := 1.0
	if total > 0 {
		confidence = float64(blueCount) / float64(total)
	}

	var tipBlueScore uint64
	if tip, err := blockdag.BestTip(dag); err == nil {
		tipBlueScore, _ = dag.BlueScore(tip)
	}

	return &AgentHealth{
		CurrentK:     uint64(currentK),
		RLConfidence: confidence,
		AgentState:   agentState,
		TipBlueScore: tipBlueScore,
		TotalBlocks:  total,
		BlueCount:    blueCount,
		RedCount:     redCount,
	}, nil
}

// SelectParentsForSubmit picks up to count DAG tips as mining parents,
// ordered by descending blue score (highest first), breaking ties by
// lexicographically smaller hash. It is the tip-selection guidance behind
// POST /submit.
func SelectParentsForSubmit(dag *blockdag.DagStore, count int) ([]daghash.Hash, []uint64, error) {
	tips := dag.Tips()
	type scoredTip struct {
		hash  daghash.Hash
		score uint64
	}
	scored := make([]scoredTip, 0, len(tips))
	for _, tip := range tips {
		score, err := dag.BlueScore(tip)
		if err != nil {
			return nil, nil, err
		}
		scored = append(scored, scoredTip{hash: tip, score: score})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].hash.Less(scored[j].hash)
	})

	if count > len(scored) {
		count = len(scored)
	}

	hashes := make([]daghash.Hash, count)
	scores := make([]uint64, count)
	for i := 0; i < count; i++ {
		hashes[i] = scored[i].hash
		scores[i] = scored[i].score
	}
	return hashes, scores, nil
}
