package allowlist

import (
	"fmt"
	"math"

	"github.com/adnhq/nft-extensions/core/events"
	"github.com/adnhq/nft-extensions/core/types"
)

// Phase tracks the one-way presale state machine. Once the presale closes it
// can never reopen.
type Phase uint8

const (
	PhaseOpen Phase = iota
	PhaseClosed
)

// Valid reports whether the phase is a known value.
func (p Phase) Valid() bool {
	switch p {
	case PhaseOpen, PhaseClosed:
		return true
	default:
		return false
	}
}

func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ClaimStore tracks cumulative presale issuance per address. Absent entries
// read as zero; entries are never deleted and only increase.
type ClaimStore interface {
	Claimed(addr [20]byte) (uint64, error)
	SetClaimed(addr [20]byte, total uint64) error
}

// memClaims is the default in-memory ClaimStore.
type memClaims map[[20]byte]uint64

func (m memClaims) Claimed(addr [20]byte) (uint64, error) { return m[addr], nil }

func (m memClaims) SetClaimed(addr [20]byte, total uint64) error {
	m[addr] = total
	return nil
}

// Ledger verifies allowlist membership against a published Merkle root and
// enforces the per-address presale cap. The root is opaque 32-byte data; the
// external access gate is trusted to publish a meaningful one.
type Ledger struct {
	root       [32]byte
	addressCap uint64
	phase      Phase
	claims     ClaimStore
	emitter    events.Emitter
}

// NewLedger creates an open presale ledger with an in-memory claim store.
func NewLedger(root [32]byte, addressCap uint64) *Ledger {
	return &Ledger{
		root:       root,
		addressCap: addressCap,
		phase:      PhaseOpen,
		claims:     make(memClaims),
		emitter:    events.NoopEmitter{},
	}
}

// RestoreLedger reconstructs a ledger from persisted state. No transition
// event is emitted; a ledger restored as closed stays closed.
func RestoreLedger(root [32]byte, addressCap uint64, open bool) *Ledger {
	l := NewLedger(root, addressCap)
	if !open {
		l.phase = PhaseClosed
	}
	return l
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (l *Ledger) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		l.emitter = events.NoopEmitter{}
		return
	}
	l.emitter = emitter
}

// SetClaimStore swaps in a persistent claim store. Passing nil resets the
// ledger to an empty in-memory store.
func (l *Ledger) SetClaimStore(store ClaimStore) {
	if store == nil {
		l.claims = make(memClaims)
		return
	}
	l.claims = store
}

func (l *Ledger) emit(evt *types.Event) {
	if l == nil || l.emitter == nil || evt == nil {
		return
	}
	l.emitter.Emit(allowlistEvent{evt: evt})
}

// Root returns the currently published Merkle root.
func (l *Ledger) Root() [32]byte { return l.root }

// AddressCap returns the per-address presale cap.
func (l *Ledger) AddressCap() uint64 { return l.addressCap }

// Open reports whether the presale is still accepting claims.
func (l *Ledger) Open() bool { return l.phase == PhaseOpen }

// Claimed returns the cumulative units issued to addr during the presale.
func (l *Ledger) Claimed(addr [20]byte) (uint64, error) {
	return l.claims.Claimed(addr)
}

// SetRoot replaces the published Merkle root. Allowed only while the presale
// is open.
func (l *Ledger) SetRoot(root [32]byte) error {
	if l.phase != PhaseOpen {
		return ErrPresaleEnded
	}
	old := l.root
	l.root = root
	l.emit(NewRootRotatedEvent(old, root))
	return nil
}

// EndPresale closes the presale. The transition is one-way; a second call
// fails with ErrPresaleEnded.
func (l *Ledger) EndPresale() error {
	if l.phase != PhaseOpen {
		return ErrPresaleEnded
	}
	l.phase = PhaseClosed
	l.emit(NewPresaleEndedEvent())
	return nil
}

// Authorize validates a presale claim and, on success, commits the
// claimant's updated quota. Checks run in order: presale phase, Merkle
// membership, per-address cap. A failed call leaves the claim store
// untouched.
func (l *Ledger) Authorize(claimant [20]byte, amount uint64, proof [][32]byte) error {
	if l.phase != PhaseOpen {
		return ErrPresaleEnded
	}
	if !VerifyProof(LeafHash(claimant), proof, l.root) {
		return ErrInvalidProof
	}
	claimed, err := l.claims.Claimed(claimant)
	if err != nil {
		return fmt.Errorf("allowlist: claim store: %w", err)
	}
	if amount > math.MaxUint64-claimed || claimed+amount > l.addressCap {
		return ErrMintLimitExceeded
	}
	if err := l.claims.SetClaimed(claimant, claimed+amount); err != nil {
		return fmt.Errorf("allowlist: claim store: %w", err)
	}
	l.emit(NewClaimedEvent(claimant, amount, claimed+amount))
	return nil
}
