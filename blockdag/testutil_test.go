package blockdag

import "github.com/daglabs/phantomdag/daghash"

// labelHash deterministically maps a short test label (e.g. "A", "B1") to a
// Hash so table-driven tests can refer to blocks by name, in the spirit of
// the teacher's blockIDMap/idBlockMap pairing in blues_test.go.
func labelHash(label string) daghash.Hash {
	var hash daghash.Hash
	copy(hash[:], label)
	return hash
}

func labelHashes(labels ...string) []daghash.Hash {
	hashes := make([]daghash.Hash, len(labels))
	for i, label := range labels {
		hashes[i] = labelHash(label)
	}
	return hashes
}

// buildDag inserts genesis "A" plus every (id, parents...) tuple in order,
// failing the test immediately on any insertion error.
type dagBlock struct {
	id      string
	parents []string
}

func buildDag(t interface{ Fatalf(string, ...interface{}) }, blocks []dagBlock) *DagStore {
	dag := NewDagStore()
	if err := dag.AddGenesis(&BlockHeader{Hash: labelHash("A")}); err != nil {
		t.Fatalf("AddGenesis: %v", err)
	}
	for _, block := range blocks {
		err := dag.AddBlock(&BlockHeader{
			Hash:    labelHash(block.id),
			Parents: labelHashes(block.parents...),
		})
		if err != nil {
			t.Fatalf("AddBlock(%s): %v", block.id, err)
		}
	}
	return dag
}

func labelsOf(hashes []daghash.Hash, byHash map[daghash.Hash]string) []string {
	out := make([]string, len(hashes))
	for i, hash := range hashes {
		out[i] = byHash[hash]
	}
	return out
}
