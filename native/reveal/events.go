package reveal

import (
	"strconv"

	"github.com/adnhq/nft-extensions/core/types"
)

const (
	EventTypeRevealed           = "reveal.revealed"
	EventTypeRevealTimeChanged  = "reveal.time_changed"
	EventTypePlaceholderUpdated = "reveal.placeholder_updated"
)

// NewRevealedEvent returns the canonical payload emitted when metadata
// becomes final.
func NewRevealedEvent() *types.Event {
	return &types.Event{Type: EventTypeRevealed, Attributes: map[string]string{}}
}

// NewRevealTimeChangedEvent returns the canonical payload carrying the old
// and new reveal timestamps.
func NewRevealTimeChangedEvent(oldTime, newTime int64) *types.Event {
	return &types.Event{
		Type: EventTypeRevealTimeChanged,
		Attributes: map[string]string{
			"old": strconv.FormatInt(oldTime, 10),
			"new": strconv.FormatInt(newTime, 10),
		},
	}
}

// NewPlaceholderUpdatedEvent returns the canonical payload emitted when the
// placeholder URI changes.
func NewPlaceholderUpdatedEvent(uri string) *types.Event {
	return &types.Event{
		Type:       EventTypePlaceholderUpdated,
		Attributes: map[string]string{"uri": uri},
	}
}

type revealEvent struct {
	evt *types.Event
}

func (e revealEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e revealEvent) Event() *types.Event { return e.evt }
