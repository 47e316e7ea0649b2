package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/adnhq/nft-extensions/storage"
)

// Flat keys for the collection fields that must survive a restart. Token
// ownership and per-address claims live under their own prefixes.
var (
	keyPresaleOpen = []byte("collection/presale_open")
	keyReserve     = []byte("collection/reserve")
	keyFunds       = []byte("collection/funds")
	keyPrice       = []byte("collection/price")
	keyMintLimit   = []byte("collection/mint_limit")
	keyRoot        = []byte("collection/root")
	keyRevealed    = []byte("collection/revealed")
	keyRevealTime  = []byte("collection/reveal_time")
	keyPlaceholder = []byte("collection/placeholder")
)

// ErrNoCollection indicates the store holds no collection record yet.
var ErrNoCollection = errors.New("state: no collection record")

// Collection is the persisted snapshot of the issuance engine's flat fields.
// One-way transitions (presale close, reveal) are recorded here so a restart
// cannot undo them.
type Collection struct {
	PresaleOpen    bool
	Reserve        uint64
	Funds          *big.Int
	Price          *big.Int
	MintLimit      uint64
	Root           [32]byte
	Revealed       bool
	RevealTime     int64
	PlaceholderURI string
}

// SaveCollection writes the snapshot, one flat key per field.
func (m *Manager) SaveCollection(c *Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := []struct {
		key   []byte
		value []byte
	}{
		{keyPresaleOpen, encodeBool(c.PresaleOpen)},
		{keyReserve, encodeUint64(c.Reserve)},
		{keyFunds, bigBytes(c.Funds)},
		{keyPrice, bigBytes(c.Price)},
		{keyMintLimit, encodeUint64(c.MintLimit)},
		{keyRoot, append([]byte(nil), c.Root[:]...)},
		{keyRevealed, encodeBool(c.Revealed)},
		{keyRevealTime, encodeUint64(uint64(c.RevealTime))},
		{keyPlaceholder, []byte(c.PlaceholderURI)},
	}
	for _, r := range records {
		if err := m.db.Put(r.key, r.value); err != nil {
			return fmt.Errorf("state: persist collection: %w", err)
		}
	}
	return nil
}

// LoadCollection reads the persisted snapshot. ErrNoCollection is returned
// when the store was never seeded.
func (m *Manager) LoadCollection() (*Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := &Collection{}
	open, err := m.getBool(keyPresaleOpen)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, ErrNoCollection
	}
	if err != nil {
		return nil, err
	}
	c.PresaleOpen = open
	if c.Reserve, err = m.getUint64(keyReserve); err != nil {
		return nil, err
	}
	if c.Funds, err = m.getBig(keyFunds); err != nil {
		return nil, err
	}
	if c.Price, err = m.getBig(keyPrice); err != nil {
		return nil, err
	}
	if c.MintLimit, err = m.getUint64(keyMintLimit); err != nil {
		return nil, err
	}
	raw, err := m.db.Get(keyRoot)
	if err != nil {
		return nil, fmt.Errorf("state: load %s: %w", keyRoot, err)
	}
	if len(raw) != len(c.Root) {
		return nil, fmt.Errorf("state: corrupt record %s (%d bytes)", keyRoot, len(raw))
	}
	copy(c.Root[:], raw)
	if c.Revealed, err = m.getBool(keyRevealed); err != nil {
		return nil, err
	}
	ts, err := m.getUint64(keyRevealTime)
	if err != nil {
		return nil, err
	}
	c.RevealTime = int64(ts)
	placeholder, err := m.db.Get(keyPlaceholder)
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return nil, fmt.Errorf("state: load %s: %w", keyPlaceholder, err)
	}
	c.PlaceholderURI = string(placeholder)
	return c, nil
}

func (m *Manager) getBool(key []byte) (bool, error) {
	raw, err := m.db.Get(key)
	if err != nil {
		return false, fmt.Errorf("state: load %s: %w", key, err)
	}
	if len(raw) != 1 {
		return false, fmt.Errorf("state: corrupt record %s (%d bytes)", key, len(raw))
	}
	return raw[0] == 1, nil
}

func (m *Manager) getUint64(key []byte) (uint64, error) {
	raw, err := m.db.Get(key)
	if err != nil {
		return 0, fmt.Errorf("state: load %s: %w", key, err)
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("state: corrupt record %s (%d bytes)", key, len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

func (m *Manager) getBig(key []byte) (*big.Int, error) {
	raw, err := m.db.Get(key)
	if err != nil {
		return nil, fmt.Errorf("state: load %s: %w", key, err)
	}
	return new(big.Int).SetBytes(raw), nil
}

func encodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func encodeUint64(v uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, v)
	return raw
}

func bigBytes(v *big.Int) []byte {
	if v == nil {
		return []byte{}
	}
	return v.Bytes()
}
