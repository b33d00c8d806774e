package daghash

import "testing"

func mustHash(t *testing.T, b byte) Hash {
	t.Helper()
	var h Hash
	h[HashSize-1] = b
	return h
}

func TestCompareLexicographic(t *testing.T) {
	a := mustHash(t, 1)
	b := mustHash(t, 2)

	if !a.Less(b) {
		t.Fatalf("expected %s < %s", a, b)
	}
	if b.Less(a) {
		t.Fatalf("did not expect %s < %s", b, a)
	}
	if a.Compare(a) != 0 {
		t.Fatalf("expected equal hash to compare 0")
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 {
		t.Fatalf("unexpected Compare results")
	}
}

func TestXorIsSelfInverse(t *testing.T) {
	a := mustHash(t, 0xAB)
	b := mustHash(t, 0xCD)

	xored := a.Xor(b)
	back := xored.Xor(b)

	if back != a {
		t.Fatalf("expected xor to be its own inverse, got %s want %s", back, a)
	}
	if a.Xor(ZERO) != a {
		t.Fatalf("expected xor with ZERO to be identity")
	}
}

func TestIsEqualNilSemantics(t *testing.T) {
	a := mustHash(t, 1)
	var nilHash *Hash

	if !nilHash.IsEqual(nil) {
		t.Fatalf("expected nil to equal nil")
	}
	if nilHash.IsEqual(&a) {
		t.Fatalf("did not expect nil to equal non-nil")
	}
	if a.IsEqual(nil) {
		t.Fatalf("did not expect non-nil to equal nil")
	}
}

func TestSortIsStableAscending(t *testing.T) {
	hashes := []Hash{mustHash(t, 3), mustHash(t, 1), mustHash(t, 2)}
	Sort(hashes)

	for i := 1; i < len(hashes); i++ {
		if !hashes[i-1].Less(hashes[i]) {
			t.Fatalf("hashes not sorted ascending at index %d: %v", i, hashes)
		}
	}
}
