package snapshot

import (
	"testing"

	"github.com/daglabs/phantomdag/blockdag"
	"github.com/daglabs/phantomdag/daghash"
)

func label(s string) daghash.Hash {
	var h daghash.Hash
	copy(h[:], s)
	return h
}

func buildDiamond(t *testing.T) *blockdag.DagStore {
	t.Helper()
	dag := blockdag.NewDagStore()
	if err := dag.AddGenesis(&blockdag.BlockHeader{Hash: label("G")}); err != nil {
		t.Fatalf("AddGenesis: %v", err)
	}
	for _, b := range []struct {
		id      string
		parents []string
	}{
		{"A", []string{"G"}},
		{"B", []string{"G"}},
		{"C", []string{"A", "B"}},
	} {
		parents := make([]daghash.Hash, len(b.parents))
		for i, p := range b.parents {
			parents[i] = label(p)
		}
		if err := dag.AddBlock(&blockdag.BlockHeader{Hash: label(b.id), Parents: parents}); err != nil {
			t.Fatalf("AddBlock(%s): %v", b.id, err)
		}
	}
	if _, err := blockdag.ColorDAG(dag, 3); err != nil {
		t.Fatalf("ColorDAG: %v", err)
	}
	return dag
}

func TestLinearizeProducesOneEntryPerBlockInTotalOrder(t *testing.T) {
	dag := buildDiamond(t)

	blocks, err := Linearize(dag, nil)
	if err != nil {
		t.Fatalf("Linearize: %v", err)
	}
	if len(blocks) != 4 {
		t.Fatalf("expected 4 linearized blocks, got %d", len(blocks))
	}
	if blocks[0].Hash != label("G").String() {
		t.Errorf("expected genesis first, got %s", blocks[0].Hash)
	}
	if blocks[0].SelectedParent != nil {
		t.Errorf("expected genesis to have no selected parent, got %v", *blocks[0].SelectedParent)
	}
	for i, block := range blocks {
		if int(block.TopologicalIndex) != i {
			t.Errorf("block %d has TopologicalIndex %d", i, block.TopologicalIndex)
		}
		if !block.IsBlue {
			t.Errorf("expected block %s to be blue in a k=3 diamond", block.Hash)
		}
	}
}

func TestBuildDagSnapshotFieldsMatchDag(t *testing.T) {
	dag := buildDiamond(t)

	snap, err := BuildDagSnapshot(dag)
	if err != nil {
		t.Fatalf("BuildDagSnapshot: %v", err)
	}
	if snap.TotalBlocks != 4 {
		t.Errorf("expected 4 total blocks, got %d", snap.TotalBlocks)
	}
	if snap.K != 3 {
		t.Errorf("expected k=3, got %d", snap.K)
	}
	if snap.Tip != label("C").String() {
		t.Errorf("expected tip=C, got %s", snap.Tip)
	}
}

func TestBuildAgentHealthBeforeColoringReportsInit(t *testing.T) {
	dag := blockdag.NewDagStore()
	health, err := BuildAgentHealth(dag, 3, AgentStateInit)
	if err != nil {
		t.Fatalf("BuildAgentHealth: %v", err)
	}
	if health.AgentState != AgentStateInit {
		t.Errorf("expected AgentState=%s, got %s", AgentStateInit, health.AgentState)
	}
}

func TestBuildAgentHealthAfterColoring(t *testing.T) {
	dag := buildDiamond(t)
	health, err := BuildAgentHealth(dag, 3, "SYNCED")
	if err != nil {
		t.Fatalf("BuildAgentHealth: %v", err)
	}
	if health.TotalBlocks != 4 || health.BlueCount != 4 || health.RedCount != 0 {
		t.Errorf("unexpected health counts: %+v", health)
	}
	if health.RLConfidence != 1.0 {
		t.Errorf("expected RLConfidence 1.0 for an all-blue DAG, got %f", health.RLConfidence)
	}
}

func TestSelectParentsForSubmitClampsToAvailableTips(t *testing.T) {
	dag := buildDiamond(t)
	hashes, scores, err := SelectParentsForSubmit(dag, 5)
	if err != nil {
		t.Fatalf("SelectParentsForSubmit: %v", err)
	}
	// Only "C" is a tip in the diamond.
	if len(hashes) != 1 || hashes[0] != label("C") {
		t.Errorf("expected single tip C, got %v", hashes)
	}
	if len(scores) != 1 {
		t.Errorf("expected one score, got %v", scores)
	}
}

func TestClampParentCount(t *testing.T) {
	cases := map[int]int{0: DefaultParentCount, 1: MinParentCount, 3: 3, 4: 4, 5: 5, 9: MaxParentCount}
	for input, want := range cases {
		if got := ClampParentCount(input); got != want {
			t.Errorf("ClampParentCount(%d) = %d, want %d", input, got, want)
		}
	}
}
