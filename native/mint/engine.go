package mint

import (
	"fmt"
	"log/slog"
	"math/big"

	"github.com/adnhq/nft-extensions/core/events"
	"github.com/adnhq/nft-extensions/core/types"
	"github.com/adnhq/nft-extensions/native/allowlist"
	"github.com/adnhq/nft-extensions/native/sale"
)

// Issuance phases reported in events.
const (
	phasePresale = "presale"
	phasePublic  = "public"
	phaseReserve = "reserve"
)

// TokenLedger is the external ledger that owns token identities. The engine
// only ever asks it to materialize new sequential identities; ownership,
// transfer and approval stay with the ledger.
type TokenLedger interface {
	MintTo(owner [20]byte, tokenID uint64) error
	TotalIssued() uint64
	Exists(tokenID uint64) bool
}

// MetadataGate is the reveal gate consulted for metadata resolution. Both
// the manual and timed gates satisfy it.
type MetadataGate interface {
	Revealed() bool
	SetPlaceholderURI(uri string) error
	ResolveMetadata(tokenID uint64) (string, error)
}

// Engine routes mint requests to the allowlist ledger while the presale is
// open and to the sale controller afterwards. It is the only component that
// asks the external ledger for new token identities, so total supply can
// only grow through it.
type Engine struct {
	ledger    TokenLedger
	gate      MetadataGate
	allowlist *allowlist.Ledger
	sale      *sale.Controller
	emitter   events.Emitter
	logger    *slog.Logger
}

// NewEngine wires the issuance engine to its collaborators.
func NewEngine(ledger TokenLedger, gate MetadataGate, list *allowlist.Ledger, ctrl *sale.Controller) *Engine {
	return &Engine{
		ledger:    ledger,
		gate:      gate,
		allowlist: list,
		sale:      ctrl,
		emitter:   events.NoopEmitter{},
		logger:    slog.Default(),
	}
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetLogger overrides the engine logger.
func (e *Engine) SetLogger(logger *slog.Logger) {
	if logger == nil {
		e.logger = slog.Default()
		return
	}
	e.logger = logger
}

func (e *Engine) emit(evt *types.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(mintEvent{evt: evt})
}

// Allowlist exposes the presale ledger.
func (e *Engine) Allowlist() *allowlist.Ledger { return e.allowlist }

// Sale exposes the sale controller.
func (e *Engine) Sale() *sale.Controller { return e.sale }

// Gate exposes the metadata gate.
func (e *Engine) Gate() MetadataGate { return e.gate }

// TotalIssued returns the external ledger's issued count.
func (e *Engine) TotalIssued() uint64 {
	if e.ledger == nil {
		return 0
	}
	return e.ledger.TotalIssued()
}

// ClaimPresale verifies an allowlisted claim and issues amount sequential
// identities to the claimant. The claimant's quota is committed before the
// ledger is invoked, so a reentrant ledger callback observes the updated
// entry. Returns the first identity of the batch.
func (e *Engine) ClaimPresale(claimant [20]byte, amount uint64, proof [][32]byte) (uint64, error) {
	if e.ledger == nil {
		return 0, ErrNilLedger
	}
	if amount == 0 {
		return 0, ErrZeroAmount
	}
	if err := e.allowlist.Authorize(claimant, amount, proof); err != nil {
		return 0, err
	}
	first, err := e.issue(claimant, amount, phasePresale)
	if err != nil {
		return 0, err
	}
	e.logger.Info("presale claim issued",
		"claimant", fmt.Sprintf("%x", claimant),
		"amount", amount,
		"firstId", first,
	)
	return first, nil
}

// MintPublic performs a paid public mint. The presale must have ended; the
// payment must exactly equal price * amount. Returns the first identity of
// the batch.
func (e *Engine) MintPublic(recipient [20]byte, amount uint64, payment *big.Int) (uint64, error) {
	if e.ledger == nil {
		return 0, ErrNilLedger
	}
	if amount == 0 {
		return 0, ErrZeroAmount
	}
	if e.allowlist != nil && e.allowlist.Open() {
		return 0, ErrPresaleActive
	}
	if err := e.sale.AuthorizePublic(amount, payment); err != nil {
		return 0, err
	}
	first, err := e.issue(recipient, amount, phasePublic)
	if err != nil {
		return 0, err
	}
	e.logger.Info("public mint issued",
		"recipient", fmt.Sprintf("%x", recipient),
		"amount", amount,
		"firstId", first,
	)
	return first, nil
}

// MintReserve issues from the reserve pool through the privileged path. The
// reserve is debited before the ledger is invoked. Returns the first
// identity of the batch.
func (e *Engine) MintReserve(recipient [20]byte, amount uint64) (uint64, error) {
	if e.ledger == nil {
		return 0, ErrNilLedger
	}
	if amount == 0 {
		return 0, ErrZeroAmount
	}
	if err := e.sale.AuthorizeReserve(amount); err != nil {
		return 0, err
	}
	first, err := e.issue(recipient, amount, phaseReserve)
	if err != nil {
		return 0, err
	}
	e.logger.Info("reserve mint issued",
		"recipient", fmt.Sprintf("%x", recipient),
		"amount", amount,
		"firstId", first,
	)
	return first, nil
}

// TokenURI resolves a token's metadata pointer through the reveal gate.
func (e *Engine) TokenURI(tokenID uint64) (string, error) {
	return e.gate.ResolveMetadata(tokenID)
}

// issue asks the external ledger for amount sequential identities starting
// at the current issued count. Internal accounting has already been
// committed by the caller; a ledger failure here is surfaced as-is.
func (e *Engine) issue(owner [20]byte, amount uint64, phase string) (uint64, error) {
	first := e.ledger.TotalIssued()
	for i := uint64(0); i < amount; i++ {
		if err := e.ledger.MintTo(owner, first+i); err != nil {
			return 0, fmt.Errorf("mint: ledger rejected token %d: %w", first+i, err)
		}
	}
	e.emit(NewIssuedEvent(owner, first, amount, phase))
	return first, nil
}
