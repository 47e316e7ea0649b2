package reveal

import (
	"time"

	"github.com/adnhq/nft-extensions/core/events"
	"github.com/adnhq/nft-extensions/core/types"
)

// TimedGate reveals metadata once wall-clock time reaches the configured
// timestamp. Revealed is derived from the clock rather than stored, so the
// transition cannot be undone: there is no setter for the predicate itself.
type TimedGate struct {
	tokens         TokenView
	emitter        events.Emitter
	nowFn          func() int64
	baseURI        string
	placeholderURI string
	revealAt       int64
}

// NewTimedGate creates a timed reveal gate. The reveal timestamp must lie
// strictly in the future at construction time.
func NewTimedGate(tokens TokenView, baseURI, placeholderURI string, revealAt int64) (*TimedGate, error) {
	g := &TimedGate{
		tokens:         tokens,
		emitter:        events.NoopEmitter{},
		nowFn:          func() int64 { return time.Now().Unix() },
		baseURI:        baseURI,
		placeholderURI: placeholderURI,
	}
	if revealAt <= g.now() {
		return nil, ErrInvalidRevealTimestamp
	}
	g.revealAt = revealAt
	return g, nil
}

// RestoreTimedGate reconstructs a timed gate from persisted state. Unlike
// NewTimedGate the timestamp is not validated: an elapsed timestamp restores
// an already revealed gate.
func RestoreTimedGate(tokens TokenView, baseURI, placeholderURI string, revealAt int64) *TimedGate {
	return &TimedGate{
		tokens:         tokens,
		emitter:        events.NoopEmitter{},
		nowFn:          func() int64 { return time.Now().Unix() },
		baseURI:        baseURI,
		placeholderURI: placeholderURI,
		revealAt:       revealAt,
	}
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (g *TimedGate) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		g.emitter = events.NoopEmitter{}
		return
	}
	g.emitter = emitter
}

// SetNowFunc overrides the time source. Primarily intended for tests to
// provide deterministic timestamps.
func (g *TimedGate) SetNowFunc(now func() int64) {
	if now == nil {
		g.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	g.nowFn = now
}

func (g *TimedGate) now() int64 {
	if g == nil || g.nowFn == nil {
		return time.Now().Unix()
	}
	return g.nowFn()
}

func (g *TimedGate) emit(evt *types.Event) {
	if g == nil || g.emitter == nil || evt == nil {
		return
	}
	g.emitter.Emit(revealEvent{evt: evt})
}

// Revealed reports whether the reveal timestamp has been reached. The
// predicate is computed, never cached.
func (g *TimedGate) Revealed() bool { return g.now() >= g.revealAt }

// RevealTime returns the configured reveal timestamp.
func (g *TimedGate) RevealTime() int64 { return g.revealAt }

// PlaceholderURI returns the URI served before reveal.
func (g *TimedGate) PlaceholderURI() string { return g.placeholderURI }

// SetRevealTime replaces the reveal timestamp. The gate must not have
// revealed yet and the new timestamp must be strictly in the future. On
// success the change notification carries the old and new values.
func (g *TimedGate) SetRevealTime(revealAt int64) error {
	if g.Revealed() {
		return ErrAlreadyRevealed
	}
	if revealAt <= g.now() {
		return ErrInvalidRevealTimestamp
	}
	old := g.revealAt
	g.revealAt = revealAt
	g.emit(NewRevealTimeChangedEvent(old, revealAt))
	return nil
}

// SetPlaceholderURI replaces the pre-reveal placeholder. Disallowed once the
// reveal timestamp has passed.
func (g *TimedGate) SetPlaceholderURI(uri string) error {
	if g.Revealed() {
		return ErrAlreadyRevealed
	}
	g.placeholderURI = uri
	g.emit(NewPlaceholderUpdatedEvent(uri))
	return nil
}

// ResolveMetadata returns the metadata pointer for tokenID. The token must
// exist in the external ledger.
func (g *TimedGate) ResolveMetadata(tokenID uint64) (string, error) {
	if g.tokens == nil || !g.tokens.Exists(tokenID) {
		return "", ErrNotFound
	}
	if !g.Revealed() {
		return g.placeholderURI, nil
	}
	return metadataURI(g.baseURI, tokenID), nil
}
