package sale

import (
	"fmt"
	"math/big"

	"github.com/adnhq/nft-extensions/core/events"
	"github.com/adnhq/nft-extensions/core/types"
)

// FundSink receives custodied value paid out through CollectFunds. The sink
// is an external collaborator and may re-enter the controller; custody
// counters are always updated before Transfer is invoked, so a reentrant
// call observes the already-debited balance.
type FundSink interface {
	Transfer(to [20]byte, amount *big.Int) error
}

// SinkFunc adapts a function to the FundSink interface.
type SinkFunc func(to [20]byte, amount *big.Int) error

// Transfer implements the FundSink interface.
func (f SinkFunc) Transfer(to [20]byte, amount *big.Int) error { return f(to, amount) }

// Controller owns public-sale pricing, the per-transaction mint limit, the
// reserve pool and the custodied sale proceeds. Access control for the
// setters lives outside the core.
type Controller struct {
	price      *big.Int
	perTxLimit uint64
	reserve    uint64
	funds      *big.Int
	sink       FundSink
	emitter    events.Emitter
}

// NewController creates a sale controller. A nil price is treated as zero
// (free mint until repriced).
func NewController(price *big.Int, perTxLimit, reserve uint64) *Controller {
	return &Controller{
		price:      cloneBigInt(price),
		perTxLimit: perTxLimit,
		reserve:    reserve,
		funds:      big.NewInt(0),
		emitter:    events.NoopEmitter{},
	}
}

// RestoreController reconstructs a controller from persisted state,
// including the custodied funds balance.
func RestoreController(price *big.Int, perTxLimit, reserve uint64, funds *big.Int) *Controller {
	c := NewController(price, perTxLimit, reserve)
	c.funds = cloneBigInt(funds)
	return c
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (c *Controller) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		c.emitter = events.NoopEmitter{}
		return
	}
	c.emitter = emitter
}

// SetFundSink configures the external transfer backend used by CollectFunds.
func (c *Controller) SetFundSink(sink FundSink) { c.sink = sink }

func (c *Controller) emit(evt *types.Event) {
	if c == nil || c.emitter == nil || evt == nil {
		return
	}
	c.emitter.Emit(saleEvent{evt: evt})
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

// Price returns the current unit price.
func (c *Controller) Price() *big.Int { return cloneBigInt(c.price) }

// SetPrice replaces the unit price.
func (c *Controller) SetPrice(price *big.Int) {
	c.price = cloneBigInt(price)
	c.emit(NewPriceChangedEvent(c.price))
}

// MintLimit returns the per-transaction mint limit.
func (c *Controller) MintLimit() uint64 { return c.perTxLimit }

// SetMintLimit replaces the per-transaction mint limit.
func (c *Controller) SetMintLimit(limit uint64) {
	c.perTxLimit = limit
	c.emit(NewLimitChangedEvent(limit))
}

// Reserve returns the remaining reserve pool.
func (c *Controller) Reserve() uint64 { return c.reserve }

// Funds returns the custodied sale proceeds.
func (c *Controller) Funds() *big.Int { return cloneBigInt(c.funds) }

// AuthorizePublic validates a paid public mint and takes custody of the
// payment. The payment must exactly equal price * amount; over- and
// underpayment both fail, and a failed call takes no custody.
func (c *Controller) AuthorizePublic(amount uint64, payment *big.Int) error {
	total := new(big.Int).Mul(c.price, new(big.Int).SetUint64(amount))
	if payment == nil || payment.Cmp(total) != 0 {
		return ErrIncorrectPrice
	}
	if amount > c.perTxLimit {
		return ErrMintLimitExceeded
	}
	c.funds = new(big.Int).Add(c.funds, payment)
	c.emit(NewPublicSoldEvent(amount, payment))
	return nil
}

// AuthorizeReserve validates a reserve mint and debits the reserve pool. The
// debit happens before any issuance side effect so a failed or reentrant
// issuance cannot spend the same reserve slot twice.
func (c *Controller) AuthorizeReserve(amount uint64) error {
	if amount > c.reserve {
		return ErrAmountExceedsReserve
	}
	c.reserve -= amount
	c.emit(NewReserveMintedEvent(amount, c.reserve))
	return nil
}

// CollectFunds pays out custodied value to an external recipient. The
// custody balance is debited before the sink is invoked; if the transfer
// fails the debit is restored and the call reports ErrFundTransferFailed.
func (c *Controller) CollectFunds(to [20]byte, amount *big.Int) error {
	amt := cloneBigInt(amount)
	if amt.Sign() <= 0 || amt.Cmp(c.funds) > 0 {
		return ErrFundTransferFailed
	}
	if c.sink == nil {
		return ErrFundTransferFailed
	}
	c.funds = new(big.Int).Sub(c.funds, amt)
	if err := c.sink.Transfer(to, amt); err != nil {
		c.funds = new(big.Int).Add(c.funds, amt)
		return fmt.Errorf("%w: %v", ErrFundTransferFailed, err)
	}
	c.emit(NewFundsCollectedEvent(to, amt))
	return nil
}
