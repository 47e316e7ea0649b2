package sale

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"github.com/adnhq/nft-extensions/core/types"
)

const (
	EventTypePriceChanged   = "sale.price_changed"
	EventTypeLimitChanged   = "sale.limit_changed"
	EventTypePublicSold     = "sale.public_sold"
	EventTypeReserveMinted  = "sale.reserve_minted"
	EventTypeFundsCollected = "sale.funds_collected"
)

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// NewPriceChangedEvent returns the canonical payload for a unit price update.
func NewPriceChangedEvent(price *big.Int) *types.Event {
	return &types.Event{
		Type:       EventTypePriceChanged,
		Attributes: map[string]string{"price": bigString(price)},
	}
}

// NewLimitChangedEvent returns the canonical payload for a per-transaction
// limit update.
func NewLimitChangedEvent(limit uint64) *types.Event {
	return &types.Event{
		Type:       EventTypeLimitChanged,
		Attributes: map[string]string{"limit": strconv.FormatUint(limit, 10)},
	}
}

// NewPublicSoldEvent returns the canonical payload for a paid public mint.
func NewPublicSoldEvent(amount uint64, payment *big.Int) *types.Event {
	return &types.Event{
		Type: EventTypePublicSold,
		Attributes: map[string]string{
			"amount":  strconv.FormatUint(amount, 10),
			"payment": bigString(payment),
		},
	}
}

// NewReserveMintedEvent returns the canonical payload for a reserve mint,
// including the remaining reserve.
func NewReserveMintedEvent(amount, remaining uint64) *types.Event {
	return &types.Event{
		Type: EventTypeReserveMinted,
		Attributes: map[string]string{
			"amount":    strconv.FormatUint(amount, 10),
			"remaining": strconv.FormatUint(remaining, 10),
		},
	}
}

// NewFundsCollectedEvent returns the canonical payload for a custody payout.
func NewFundsCollectedEvent(to [20]byte, amount *big.Int) *types.Event {
	return &types.Event{
		Type: EventTypeFundsCollected,
		Attributes: map[string]string{
			"to":     hex.EncodeToString(to[:]),
			"amount": bigString(amount),
		},
	}
}

type saleEvent struct {
	evt *types.Event
}

func (e saleEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e saleEvent) Event() *types.Event { return e.evt }
