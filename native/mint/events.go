package mint

import (
	"encoding/hex"
	"strconv"

	"github.com/adnhq/nft-extensions/core/types"
)

const (
	EventTypeIssued = "mint.issued"
)

// NewIssuedEvent returns the canonical payload for a batch of newly issued
// token identities. firstID is the lowest identity in the batch; identities
// are sequential.
func NewIssuedEvent(owner [20]byte, firstID, amount uint64, phase string) *types.Event {
	return &types.Event{
		Type: EventTypeIssued,
		Attributes: map[string]string{
			"owner":   hex.EncodeToString(owner[:]),
			"firstId": strconv.FormatUint(firstID, 10),
			"amount":  strconv.FormatUint(amount, 10),
			"phase":   phase,
		},
	}
}

type mintEvent struct {
	evt *types.Event
}

func (e mintEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e mintEvent) Event() *types.Event { return e.evt }
