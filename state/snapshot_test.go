package state

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adnhq/nft-extensions/native/allowlist"
	"github.com/adnhq/nft-extensions/native/mint"
	"github.com/adnhq/nft-extensions/native/reveal"
	"github.com/adnhq/nft-extensions/native/sale"
	"github.com/adnhq/nft-extensions/storage"
)

// bootCollection mirrors the node's boot sequence: load the snapshot, seed
// from defaults when the store is fresh, restore the components and install
// a Recorder as their emitter.
func bootCollection(t *testing.T, db storage.Database) (*allowlist.Ledger, *sale.Controller, *reveal.Gate, *mint.Engine) {
	t.Helper()
	mgr, err := NewManager(db)
	require.NoError(t, err)

	col, err := mgr.LoadCollection()
	if errors.Is(err, ErrNoCollection) {
		col = &Collection{
			PresaleOpen:    true,
			Reserve:        5,
			Funds:          big.NewInt(0),
			Price:          big.NewInt(100),
			MintLimit:      10,
			Root:           allowlist.LeafHash(testAddr(0x11)),
			PlaceholderURI: "ipfs://hidden",
		}
	} else {
		require.NoError(t, err)
	}

	list := allowlist.RestoreLedger(col.Root, 2, col.PresaleOpen)
	list.SetClaimStore(mgr)
	ctrl := sale.RestoreController(col.Price, col.MintLimit, col.Reserve, col.Funds)
	ctrl.SetFundSink(sale.SinkFunc(func([20]byte, *big.Int) error { return nil }))
	gate := reveal.RestoreGate(mgr, "ipfs://abc/", col.PlaceholderURI, col.Revealed)
	engine := mint.NewEngine(mgr, gate, list, ctrl)

	rec := NewRecorder(mgr, list, ctrl, gate, nil, nil)
	list.SetEmitter(rec)
	ctrl.SetEmitter(rec)
	gate.SetEmitter(rec)
	engine.SetEmitter(rec)
	require.NoError(t, mgr.SaveCollection(rec.Snapshot()))
	return list, ctrl, gate, engine
}

func TestCollectionStateSurvivesReopen(t *testing.T) {
	db := storage.NewMemDB()
	list, ctrl, gate, engine := bootCollection(t, db)

	claimant := testAddr(0x11)
	buyer := testAddr(0x22)

	_, err := engine.ClaimPresale(claimant, 1, nil)
	require.NoError(t, err)
	require.NoError(t, list.EndPresale())
	_, err = engine.MintPublic(buyer, 2, big.NewInt(200))
	require.NoError(t, err)
	_, err = engine.MintReserve(buyer, 5)
	require.NoError(t, err)
	require.NoError(t, gate.Reveal())
	ctrl.SetPrice(big.NewInt(250))

	list2, ctrl2, gate2, engine2 := bootCollection(t, db)
	require.False(t, list2.Open(), "presale close must survive a restart")
	require.Equal(t, uint64(0), ctrl2.Reserve(), "reserve debits must survive a restart")
	require.Zero(t, ctrl2.Funds().Cmp(big.NewInt(200)), "custody funds must survive a restart")
	require.True(t, gate2.Revealed(), "reveal must survive a restart")
	require.Zero(t, ctrl2.Price().Cmp(big.NewInt(250)))
	require.Equal(t, uint64(8), engine2.TotalIssued())

	_, err = engine2.MintReserve(buyer, 1)
	require.ErrorIs(t, err, sale.ErrAmountExceedsReserve, "a drained reserve must stay drained")
	_, err = engine2.ClaimPresale(claimant, 1, nil)
	require.ErrorIs(t, err, allowlist.ErrPresaleEnded, "a closed presale must stay closed")
}

func TestCollectionRoundTrip(t *testing.T) {
	db := storage.NewMemDB()
	mgr, err := NewManager(db)
	require.NoError(t, err)
	_, err = mgr.LoadCollection()
	require.ErrorIs(t, err, ErrNoCollection)

	want := &Collection{
		PresaleOpen:    false,
		Reserve:        7,
		Funds:          big.NewInt(12345),
		Price:          big.NewInt(99),
		MintLimit:      4,
		Root:           [32]byte{0xAB, 0xCD},
		Revealed:       true,
		RevealTime:     1924992000,
		PlaceholderURI: "ipfs://hidden",
	}
	require.NoError(t, mgr.SaveCollection(want))

	reopened, err := NewManager(db)
	require.NoError(t, err)
	got, err := reopened.LoadCollection()
	require.NoError(t, err)
	require.Equal(t, want.PresaleOpen, got.PresaleOpen)
	require.Equal(t, want.Reserve, got.Reserve)
	require.Zero(t, want.Funds.Cmp(got.Funds))
	require.Zero(t, want.Price.Cmp(got.Price))
	require.Equal(t, want.MintLimit, got.MintLimit)
	require.Equal(t, want.Root, got.Root)
	require.Equal(t, want.Revealed, got.Revealed)
	require.Equal(t, want.RevealTime, got.RevealTime)
	require.Equal(t, want.PlaceholderURI, got.PlaceholderURI)
}
