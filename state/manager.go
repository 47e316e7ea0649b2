package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/adnhq/nft-extensions/storage"
)

// Persisted key layout. Flat key-value fields plus the per-address claim map.
var (
	keySupply     = []byte("collection/supply")
	prefixToken   = []byte("collection/token/")
	prefixClaimed = []byte("collection/claimed/")
)

var (
	// ErrTokenNotFound indicates an ownership lookup for an identity the
	// ledger never issued.
	ErrTokenNotFound = errors.New("state: token not found")
	// ErrNonSequentialID indicates a mint that would break the contiguous
	// [0, totalIssued) identity range.
	ErrNonSequentialID = errors.New("state: non-sequential token id")
)

// Manager is the reference token ledger. It records ownership and the
// monotonic issued counter in a storage.Database and doubles as the presale
// claim store. It satisfies mint.TokenLedger, reveal.TokenView and
// allowlist.ClaimStore.
type Manager struct {
	mu     sync.RWMutex
	db     storage.Database
	supply uint64
}

// NewManager opens a ledger over db, loading the persisted issued counter if
// one exists.
func NewManager(db storage.Database) (*Manager, error) {
	m := &Manager{db: db}
	raw, err := db.Get(keySupply)
	switch {
	case errors.Is(err, storage.ErrKeyNotFound):
		return m, nil
	case err != nil:
		return nil, fmt.Errorf("state: load supply: %w", err)
	}
	if len(raw) != 8 {
		return nil, fmt.Errorf("state: corrupt supply record (%d bytes)", len(raw))
	}
	m.supply = binary.BigEndian.Uint64(raw)
	return m, nil
}

func tokenKey(tokenID uint64) []byte {
	key := make([]byte, len(prefixToken)+8)
	copy(key, prefixToken)
	binary.BigEndian.PutUint64(key[len(prefixToken):], tokenID)
	return key
}

func claimedKey(addr [20]byte) []byte {
	key := make([]byte, len(prefixClaimed)+len(addr))
	copy(key, prefixClaimed)
	copy(key[len(prefixClaimed):], addr[:])
	return key
}

// MintTo materializes tokenID for owner. Identities must be requested in
// sequence so the issued range stays contiguous.
func (m *Manager) MintTo(owner [20]byte, tokenID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tokenID != m.supply {
		return ErrNonSequentialID
	}
	if err := m.db.Put(tokenKey(tokenID), owner[:]); err != nil {
		return fmt.Errorf("state: persist token: %w", err)
	}
	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, m.supply+1)
	if err := m.db.Put(keySupply, next); err != nil {
		return fmt.Errorf("state: persist supply: %w", err)
	}
	m.supply++
	return nil
}

// TotalIssued returns the number of identities the ledger has issued.
func (m *Manager) TotalIssued() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.supply
}

// Exists reports whether tokenID has been issued.
func (m *Manager) Exists(tokenID uint64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return tokenID < m.supply
}

// OwnerOf returns the recorded owner of tokenID.
func (m *Manager) OwnerOf(tokenID uint64) ([20]byte, error) {
	var owner [20]byte
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, err := m.db.Get(tokenKey(tokenID))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return owner, ErrTokenNotFound
	}
	if err != nil {
		return owner, fmt.Errorf("state: load token: %w", err)
	}
	if len(raw) != len(owner) {
		return owner, fmt.Errorf("state: corrupt owner record (%d bytes)", len(raw))
	}
	copy(owner[:], raw)
	return owner, nil
}

// Claimed returns the cumulative presale units issued to addr. Absent
// entries read as zero.
func (m *Manager) Claimed(addr [20]byte) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, err := m.db.Get(claimedKey(addr))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("state: load claim: %w", err)
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("state: corrupt claim record (%d bytes)", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

// SetClaimed records the cumulative presale units issued to addr.
func (m *Manager) SetClaimed(addr [20]byte, total uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, total)
	if err := m.db.Put(claimedKey(addr), raw); err != nil {
		return fmt.Errorf("state: persist claim: %w", err)
	}
	return nil
}
