package reveal

import (
	"strconv"

	"github.com/adnhq/nft-extensions/core/events"
	"github.com/adnhq/nft-extensions/core/types"
)

// Phase tracks the one-way reveal state machine. Transitions only move
// forward; an attempt to mutate pre-reveal configuration after the
// transition fails with ErrAlreadyRevealed.
type Phase uint8

const (
	PhaseHidden Phase = iota
	PhaseRevealed
)

// Valid reports whether the phase is a known value.
func (p Phase) Valid() bool {
	switch p {
	case PhaseHidden, PhaseRevealed:
		return true
	default:
		return false
	}
}

func (p Phase) String() string {
	switch p {
	case PhaseHidden:
		return "hidden"
	case PhaseRevealed:
		return "revealed"
	default:
		return "unknown"
	}
}

// TokenView exposes the existence check the gates need from the external
// token ledger. Ownership and transfer stay with the ledger.
type TokenView interface {
	Exists(tokenID uint64) bool
}

// Gate is the manually toggled reveal gate. It serves the placeholder URI
// until Reveal is called, after which every token resolves to
// baseURI + decimal(tokenID).
type Gate struct {
	tokens         TokenView
	emitter        events.Emitter
	baseURI        string
	placeholderURI string
	phase          Phase
}

// NewGate creates a manual reveal gate in the hidden phase.
func NewGate(tokens TokenView, baseURI, placeholderURI string) *Gate {
	return &Gate{
		tokens:         tokens,
		emitter:        events.NoopEmitter{},
		baseURI:        baseURI,
		placeholderURI: placeholderURI,
		phase:          PhaseHidden,
	}
}

// RestoreGate reconstructs a manual gate from persisted state. No transition
// event is emitted; a gate restored as revealed stays revealed.
func RestoreGate(tokens TokenView, baseURI, placeholderURI string, revealed bool) *Gate {
	g := NewGate(tokens, baseURI, placeholderURI)
	if revealed {
		g.phase = PhaseRevealed
	}
	return g
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (g *Gate) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		g.emitter = events.NoopEmitter{}
		return
	}
	g.emitter = emitter
}

func (g *Gate) emit(evt *types.Event) {
	if g == nil || g.emitter == nil || evt == nil {
		return
	}
	g.emitter.Emit(revealEvent{evt: evt})
}

// Revealed reports whether the metadata is final.
func (g *Gate) Revealed() bool { return g.phase == PhaseRevealed }

// PlaceholderURI returns the URI served before reveal.
func (g *Gate) PlaceholderURI() string { return g.placeholderURI }

// Reveal transitions the gate to the revealed phase. The transition is
// one-way; a second call fails with ErrAlreadyRevealed.
func (g *Gate) Reveal() error {
	if g.phase == PhaseRevealed {
		return ErrAlreadyRevealed
	}
	g.phase = PhaseRevealed
	g.emit(NewRevealedEvent())
	return nil
}

// SetPlaceholderURI replaces the pre-reveal placeholder. Disallowed once the
// collection is revealed.
func (g *Gate) SetPlaceholderURI(uri string) error {
	if g.phase == PhaseRevealed {
		return ErrAlreadyRevealed
	}
	g.placeholderURI = uri
	g.emit(NewPlaceholderUpdatedEvent(uri))
	return nil
}

// ResolveMetadata returns the metadata pointer for tokenID. The token must
// exist in the external ledger.
func (g *Gate) ResolveMetadata(tokenID uint64) (string, error) {
	if g.tokens == nil || !g.tokens.Exists(tokenID) {
		return "", ErrNotFound
	}
	if !g.Revealed() {
		return g.placeholderURI, nil
	}
	return metadataURI(g.baseURI, tokenID), nil
}

// metadataURI builds the post-reveal pointer. An empty base URI resolves to
// the empty string.
func metadataURI(baseURI string, tokenID uint64) string {
	if baseURI == "" {
		return ""
	}
	return baseURI + strconv.FormatUint(tokenID, 10)
}
