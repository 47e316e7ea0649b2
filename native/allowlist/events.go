package allowlist

import (
	"encoding/hex"
	"strconv"

	"github.com/adnhq/nft-extensions/core/types"
)

const (
	EventTypeRootRotated  = "allowlist.root_rotated"
	EventTypePresaleEnded = "allowlist.presale_ended"
	EventTypeClaimed      = "allowlist.claimed"
)

// NewRootRotatedEvent returns the canonical payload carrying the previous and
// replacement Merkle roots.
func NewRootRotatedEvent(oldRoot, newRoot [32]byte) *types.Event {
	return &types.Event{
		Type: EventTypeRootRotated,
		Attributes: map[string]string{
			"old": hex.EncodeToString(oldRoot[:]),
			"new": hex.EncodeToString(newRoot[:]),
		},
	}
}

// NewPresaleEndedEvent returns the canonical payload emitted when the presale
// closes.
func NewPresaleEndedEvent() *types.Event {
	return &types.Event{Type: EventTypePresaleEnded, Attributes: map[string]string{}}
}

// NewClaimedEvent returns the canonical payload for a successful presale
// claim, including the claimant's cumulative total.
func NewClaimedEvent(claimant [20]byte, amount, cumulative uint64) *types.Event {
	return &types.Event{
		Type: EventTypeClaimed,
		Attributes: map[string]string{
			"claimant":   hex.EncodeToString(claimant[:]),
			"amount":     strconv.FormatUint(amount, 10),
			"cumulative": strconv.FormatUint(cumulative, 10),
		},
	}
}

type allowlistEvent struct {
	evt *types.Event
}

func (e allowlistEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e allowlistEvent) Event() *types.Event { return e.evt }
