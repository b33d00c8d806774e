package blockdag

import "testing"

func TestTotalOrderDiamondTiebreak(t *testing.T) {
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
	if _, err := ColorDAG(dag, 3); err != nil {
		t.Fatalf("ColorDAG: %v", err)
	}

	order, err := TotalOrder(dag)
	if err != nil {
		t.Fatalf("TotalOrder: %v", err)
	}
	if len(order) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(order))
	}

	// G strictly precedes A and B (lower blue score); C strictly follows
	// both, since it is the unique block with blue score 3. A and B tie
	// on blue score (1 each) and are ordered solely by TiebreakKey.
	if order[0].Hash != labelHash("G") {
		t.Errorf("expected G first, got %s", order[0].Hash)
	}
	if order[3].Hash != labelHash("C") {
		t.Errorf("expected C last, got %s", order[3].Hash)
	}
	if order[1].BlueScore != 1 || order[2].BlueScore != 1 {
		t.Errorf("expected the middle two entries to share blue score 1, got %+v and %+v", order[1], order[2])
	}
	if order[1].TiebreakKey.Compare(order[2].TiebreakKey) >= 0 {
		t.Errorf("expected entries to be sorted ascending by TiebreakKey: %+v then %+v", order[1], order[2])
	}

	for i, entry := range order {
		if entry.TopologicalIndex != i {
			t.Errorf("entry %d has TopologicalIndex %d, want %d", i, entry.TopologicalIndex, i)
		}
	}
}

func TestTotalOrderHashesMatchesTotalOrder(t *testing.T) {
	dag := buildDag(t, []dagBlock{
		{id: "B", parents: []string{"A"}},
		{id: "C", parents: []string{"A"}},
	})
	if _, err := ColorDAG(dag, 3); err != nil {
		t.Fatalf("ColorDAG: %v", err)
	}

	entries, err := TotalOrder(dag)
	if err != nil {
		t.Fatalf("TotalOrder: %v", err)
	}
	hashes, err := TotalOrderHashes(dag)
	if err != nil {
		t.Fatalf("TotalOrderHashes: %v", err)
	}
	if len(hashes) != len(entries) {
		t.Fatalf("length mismatch: %d vs %d", len(hashes), len(entries))
	}
	for i, entry := range entries {
		if hashes[i] != entry.Hash {
			t.Errorf("index %d: hashes[i]=%s entries[i].Hash=%s", i, hashes[i], entry.Hash)
		}
	}
}

func TestCompareBlocksAgreesWithTotalOrder(t *testing.T) {
	dag := buildDag(t, []dagBlock{
		{id: "B", parents: []string{"A"}},
		{id: "C", parents: []string{"B"}},
	})
	if _, err := ColorDAG(dag, 3); err != nil {
		t.Fatalf("ColorDAG: %v", err)
	}

	cmp, err := CompareBlocks(dag, labelHash("A"), labelHash("C"))
	if err != nil {
		t.Fatalf("CompareBlocks: %v", err)
	}
	if cmp != -1 {
		t.Errorf("expected A to order before C, got cmp=%d", cmp)
	}

	cmp, err = CompareBlocks(dag, labelHash("C"), labelHash("A"))
	if err != nil {
		t.Fatalf("CompareBlocks: %v", err)
	}
	if cmp != 1 {
		t.Errorf("expected C to order after A, got cmp=%d", cmp)
	}
}
