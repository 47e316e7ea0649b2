package allowlist

import (
	"errors"
	"testing"
)

// singleClaimantTree returns a ledger whose root commits to exactly the
// given address, along with the (empty) proof for it.
func singleClaimantTree(addr [20]byte, cap uint64) (*Ledger, [][32]byte) {
	return NewLedger(LeafHash(addr), cap), nil
}

func TestLedgerAuthorizeWithinCap(t *testing.T) {
	claimant := testAddress(0x01)
	ledger, proof := singleClaimantTree(claimant, 3)

	if err := ledger.Authorize(claimant, 2, proof); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if err := ledger.Authorize(claimant, 1, proof); err != nil {
		t.Fatalf("claim up to cap: %v", err)
	}
	claimed, err := ledger.Claimed(claimant)
	if err != nil {
		t.Fatalf("claimed: %v", err)
	}
	if claimed != 3 {
		t.Fatalf("claimed = %d, want 3", claimed)
	}
}

func TestLedgerAuthorizeRejectsOverCap(t *testing.T) {
	claimant := testAddress(0x01)
	ledger, proof := singleClaimantTree(claimant, 3)

	if err := ledger.Authorize(claimant, 3, proof); err != nil {
		t.Fatalf("claim at cap: %v", err)
	}
	if err := ledger.Authorize(claimant, 1, proof); !errors.Is(err, ErrMintLimitExceeded) {
		t.Fatalf("claim past cap: want ErrMintLimitExceeded, got %v", err)
	}
	claimed, err := ledger.Claimed(claimant)
	if err != nil {
		t.Fatalf("claimed: %v", err)
	}
	if claimed != 3 {
		t.Fatalf("failed claim must not change the entry, claimed = %d", claimed)
	}
}

func TestLedgerAuthorizeRejectsInvalidProof(t *testing.T) {
	member := testAddress(0x01)
	outsider := testAddress(0x02)
	ledger, proof := singleClaimantTree(member, 3)

	if err := ledger.Authorize(outsider, 1, proof); !errors.Is(err, ErrInvalidProof) {
		t.Fatalf("outsider claim: want ErrInvalidProof, got %v", err)
	}
	claimed, err := ledger.Claimed(outsider)
	if err != nil {
		t.Fatalf("claimed: %v", err)
	}
	if claimed != 0 {
		t.Fatalf("failed claim must not create an entry, claimed = %d", claimed)
	}
}

func TestLedgerEndPresaleIsOneWay(t *testing.T) {
	claimant := testAddress(0x01)
	ledger, proof := singleClaimantTree(claimant, 3)

	if !ledger.Open() {
		t.Fatalf("new ledger must start open")
	}
	if err := ledger.EndPresale(); err != nil {
		t.Fatalf("end presale: %v", err)
	}
	if ledger.Open() {
		t.Fatalf("ledger must report closed after EndPresale")
	}
	if err := ledger.EndPresale(); !errors.Is(err, ErrPresaleEnded) {
		t.Fatalf("second end: want ErrPresaleEnded, got %v", err)
	}
	if err := ledger.Authorize(claimant, 1, proof); !errors.Is(err, ErrPresaleEnded) {
		t.Fatalf("claim after end: want ErrPresaleEnded, got %v", err)
	}
}

func TestLedgerRootRotationOnlyWhileOpen(t *testing.T) {
	oldClaimant := testAddress(0x01)
	newClaimant := testAddress(0x02)
	ledger, _ := singleClaimantTree(oldClaimant, 3)

	if err := ledger.SetRoot(LeafHash(newClaimant)); err != nil {
		t.Fatalf("rotate root while open: %v", err)
	}
	if err := ledger.Authorize(newClaimant, 1, nil); err != nil {
		t.Fatalf("claim against rotated root: %v", err)
	}
	if err := ledger.Authorize(oldClaimant, 1, nil); !errors.Is(err, ErrInvalidProof) {
		t.Fatalf("claim against stale root: want ErrInvalidProof, got %v", err)
	}

	if err := ledger.EndPresale(); err != nil {
		t.Fatalf("end presale: %v", err)
	}
	if err := ledger.SetRoot(LeafHash(oldClaimant)); !errors.Is(err, ErrPresaleEnded) {
		t.Fatalf("rotate after end: want ErrPresaleEnded, got %v", err)
	}
}

func TestRestoreLedgerPreservesClosedPhase(t *testing.T) {
	claimant := testAddress(0x01)

	closed := RestoreLedger(LeafHash(claimant), 3, false)
	if closed.Open() {
		t.Fatalf("ledger restored as closed must stay closed")
	}
	if err := closed.Authorize(claimant, 1, nil); !errors.Is(err, ErrPresaleEnded) {
		t.Fatalf("claim on restored closed ledger: want ErrPresaleEnded, got %v", err)
	}
	if err := closed.EndPresale(); !errors.Is(err, ErrPresaleEnded) {
		t.Fatalf("re-close restored ledger: want ErrPresaleEnded, got %v", err)
	}

	open := RestoreLedger(LeafHash(claimant), 3, true)
	if !open.Open() {
		t.Fatalf("ledger restored as open must accept claims")
	}
	if err := open.Authorize(claimant, 1, nil); err != nil {
		t.Fatalf("claim on restored open ledger: %v", err)
	}
}

func TestLedgerTrackedPerAddress(t *testing.T) {
	a := testAddress(0x0A)
	b := testAddress(0x0B)
	leaves := [][32]byte{LeafHash(a), LeafHash(b)}
	root, proofs := buildTree(t, leaves)
	ledger := NewLedger(root, 2)

	if err := ledger.Authorize(a, 2, proofs[0]); err != nil {
		t.Fatalf("claim for a: %v", err)
	}
	if err := ledger.Authorize(b, 1, proofs[1]); err != nil {
		t.Fatalf("claim for b: %v", err)
	}
	if claimed, _ := ledger.Claimed(a); claimed != 2 {
		t.Fatalf("a claimed = %d, want 2", claimed)
	}
	if claimed, _ := ledger.Claimed(b); claimed != 1 {
		t.Fatalf("b claimed = %d, want 1", claimed)
	}
}
