package allowlist

import (
	"bytes"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// LeafHash returns the leaf commitment for an address. The address is hashed
// twice so a leaf can never collide with an interior node preimage.
func LeafHash(addr [20]byte) [32]byte {
	inner := ethcrypto.Keccak256(addr[:])
	var leaf [32]byte
	copy(leaf[:], ethcrypto.Keccak256(inner))
	return leaf
}

// VerifyProof folds the sibling hashes in proof over the leaf commitment and
// reports whether the result equals root. It is a pure function so known
// fixed trees can be verified without any ledger state.
func VerifyProof(leaf [32]byte, proof [][32]byte, root [32]byte) bool {
	computed := leaf
	for _, sibling := range proof {
		computed = hashPair(computed, sibling)
	}
	return computed == root
}

// hashPair hashes two nodes in ascending byte order, matching the
// commutative convention of the off-chain tree builder.
func hashPair(a, b [32]byte) [32]byte {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	var out [32]byte
	copy(out[:], ethcrypto.Keccak256(a[:], b[:]))
	return out
}
