// Package daghash provides the opaque 256-bit block identifier shared by
// every subsystem in this module. Hash derivation itself is external to the
// core; this package only defines the identifier's shape and comparisons.
package daghash

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

// HashSize is the number of bytes used to represent a Hash.
const HashSize = 32

// Hash is the domain representation of an opaque 256-bit block identifier.
type Hash [HashSize]byte

// ZERO is the sentinel hash with all bytes set to zero. It represents the
// absence of a selected parent when XOR-tiebreaking genesis.
var ZERO = Hash{}

// If this doesn't compile, the type definition changed and Clone/IsEqual need
// to be revisited accordingly.
var _ Hash = [HashSize]byte{}

// String returns the hexadecimal encoding of the hash.
func (hash Hash) String() string {
	return hex.EncodeToString(hash[:])
}

// Clone returns a copy of the hash.
func (hash *Hash) Clone() *Hash {
	clone := *hash
	return &clone
}

// IsEqual returns whether hash equals other. A nil hash equals only a nil
// hash.
func (hash *Hash) IsEqual(other *Hash) bool {
	if hash == nil || other == nil {
		return hash == other
	}
	return *hash == *other
}

// Less reports whether hash sorts strictly before other under lexicographic
// big-endian byte comparison.
func (hash Hash) Less(other Hash) bool {
	for i := 0; i < HashSize; i++ {
		if hash[i] != other[i] {
			return hash[i] < other[i]
		}
	}
	return false
}

// Compare returns -1, 0 or 1 as hash is lexicographically less than, equal
// to, or greater than other.
func (hash Hash) Compare(other Hash) int {
	switch {
	case hash == other:
		return 0
	case hash.Less(other):
		return -1
	default:
		return 1
	}
}

// Xor returns the bitwise exclusive-or of hash and other.
func (hash Hash) Xor(other Hash) Hash {
	var result Hash
	for i := 0; i < HashSize; i++ {
		result[i] = hash[i] ^ other[i]
	}
	return result
}

// NewFromStr creates a Hash from a hex string, for test fixtures and wire
// decoding.
func NewFromStr(hexStr string) (*Hash, error) {
	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed decoding hash hex %q", hexStr)
	}
	if len(decoded) != HashSize {
		return nil, errors.Errorf("invalid hash length %d, expected %d", len(decoded), HashSize)
	}
	var hash Hash
	copy(hash[:], decoded)
	return &hash, nil
}

// AreEqual returns whether the two hash slices are equal element-wise.
func AreEqual(a, b []Hash) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Strings returns the hexadecimal representation of each hash in hashes.
func Strings(hashes []Hash) []string {
	strs := make([]string, len(hashes))
	for i, hash := range hashes {
		strs[i] = hash.String()
	}
	return strs
}
