package blockdag

import "testing"

// TestColorDagDiamondAtKThree mirrors the diamond scenario: G is genesis,
// A and B both parent directly off G, and C merges A and B. At k=3 every
// block should end up blue, with C's selected parent resolved to A by the
// lexicographically-smaller-hash tiebreak.
func TestColorDagDiamondAtKThree(t *testing.T) {
	dag := NewDagStore()
	if err := dag.AddGenesis(&BlockHeader{Hash: labelHash("G")}); err != nil {
		t.Fatalf("AddGenesis: %v", err)
	}
	for _, block := range []dagBlock{
		{id: "A", parents: []string{"G"}},
		{id: "B", parents: []string{"G"}},
		{id: "C", parents: []string{"A", "B"}},
	} {
		if err := dag.AddBlock(&BlockHeader{Hash: labelHash(block.id), Parents: labelHashes(block.parents...)}); err != nil {
			t.Fatalf("AddBlock(%s): %v", block.id, err)
		}
	}

	output, err := ColorDAG(dag, 3)
	if err != nil {
		t.Fatalf("ColorDAG: %v", err)
	}

	if len(output.BlueSet) != 4 || len(output.RedSet) != 0 {
		t.Errorf("expected all 4 blocks blue, got blue=%d red=%d", len(output.BlueSet), len(output.RedSet))
	}
	for _, label := range []string{"G", "A", "B", "C"} {
		if !output.IsBlue(labelHash(label)) {
			t.Errorf("expected %s to be blue", label)
		}
	}

	selectedParent, has, err := dag.SelectedParentOf(labelHash("C"))
	if err != nil {
		t.Fatalf("SelectedParentOf: %v", err)
	}
	if !has || selectedParent != labelHash("A") {
		t.Errorf("expected C's selected parent to be A, got %s (has=%v)", selectedParent, has)
	}

	order, err := TotalOrder(dag)
	if err != nil {
		t.Fatalf("TotalOrder: %v", err)
	}
	if order[0].Hash != labelHash("G") || order[0].TopologicalIndex != 0 {
		t.Errorf("expected genesis first with index 0, got %+v", order[0])
	}
	last := order[len(order)-1]
	if last.Hash != labelHash("C") || last.TopologicalIndex != 3 {
		t.Errorf("expected C last with index 3, got %+v", last)
	}
}

// TestColorDagWideningAtKOne reproduces the 8-block widening scenario: at a
// stricter k=1, genesis must still be blue, the partition must cover every
// block exactly once, and at least three blocks (including genesis) must be
// blue.
func TestColorDagWideningAtKOne(t *testing.T) {
	dag := NewDagStore()
	if err := dag.AddGenesis(&BlockHeader{Hash: labelHash("G")}); err != nil {
		t.Fatalf("AddGenesis: %v", err)
	}
	blocks := []dagBlock{
		{id: "A", parents: []string{"G"}},
		{id: "B", parents: []string{"G"}},
		{id: "C", parents: []string{"A"}},
		{id: "D", parents: []string{"A"}},
		{id: "E", parents: []string{"B"}},
		{id: "F", parents: []string{"B"}},
		{id: "H", parents: []string{"C", "E"}},
	}
	for _, block := range blocks {
		if err := dag.AddBlock(&BlockHeader{Hash: labelHash(block.id), Parents: labelHashes(block.parents...)}); err != nil {
			t.Fatalf("AddBlock(%s): %v", block.id, err)
		}
	}

	output, err := ColorDAG(dag, 1)
	if err != nil {
		t.Fatalf("ColorDAG: %v", err)
	}

	if got := len(output.BlueSet) + len(output.RedSet); got != 8 {
		t.Errorf("expected partition to cover 8 blocks, got %d", got)
	}
	if !output.IsBlue(labelHash("G")) {
		t.Errorf("expected genesis to be blue")
	}
	if len(output.BlueSet) < 3 {
		t.Errorf("expected at least 3 blue blocks, got %d", len(output.BlueSet))
	}
}

func TestColorDagRejectsInvalidK(t *testing.T) {
	dag := NewDagStore()
	if err := dag.AddGenesis(&BlockHeader{Hash: labelHash("G")}); err != nil {
		t.Fatalf("AddGenesis: %v", err)
	}
	_, err := ColorDAG(dag, 0)
	if err == nil {
		t.Fatalf("expected k=0 to fail")
	}
	if ruleErr, ok := AsRuleError(err); !ok || ruleErr.ErrorCode != ErrInvalidK {
		t.Fatalf("expected ErrInvalidK, got %v", err)
	}
}

func TestColorDagRequiresGenesis(t *testing.T) {
	dag := NewDagStore()
	_, err := ColorDAG(dag, 1)
	if err == nil {
		t.Fatalf("expected coloring an empty DAG to fail")
	}
	if ruleErr, ok := AsRuleError(err); !ok || ruleErr.ErrorCode != ErrNoGenesis {
		t.Fatalf("expected ErrNoGenesis, got %v", err)
	}
}
