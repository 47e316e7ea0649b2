package reveal

import (
	"errors"
	"testing"
	"time"

	coreevents "github.com/adnhq/nft-extensions/core/events"
	"github.com/adnhq/nft-extensions/core/types"
)

type recordingEmitter struct {
	events []*types.Event
}

func (r *recordingEmitter) Emit(evt coreevents.Event) {
	carrier, ok := evt.(interface{ Event() *types.Event })
	if !ok {
		return
	}
	r.events = append(r.events, carrier.Event())
}

func newTestTimedGate(t *testing.T, tokens TokenView, revealAt int64) *TimedGate {
	t.Helper()
	gate, err := NewTimedGate(tokens, "ipfs://abc/", "ipfs://hidden", time.Now().Unix()+3600)
	if err != nil {
		t.Fatalf("new timed gate: %v", err)
	}
	var now int64 = 1000
	gate.SetNowFunc(func() int64 { return now })
	gate.revealAt = revealAt
	return gate
}

func TestTimedGateRequiresFutureTimestamp(t *testing.T) {
	now := time.Now().Unix()
	if _, err := NewTimedGate(&mockTokens{}, "", "", now); !errors.Is(err, ErrInvalidRevealTimestamp) {
		t.Fatalf("construction at now: want ErrInvalidRevealTimestamp, got %v", err)
	}
	if _, err := NewTimedGate(&mockTokens{}, "", "", now-10); !errors.Is(err, ErrInvalidRevealTimestamp) {
		t.Fatalf("construction in past: want ErrInvalidRevealTimestamp, got %v", err)
	}
	if _, err := NewTimedGate(&mockTokens{}, "", "", now+3600); err != nil {
		t.Fatalf("construction in future: %v", err)
	}
}

func TestTimedGateRevealDerivedFromClock(t *testing.T) {
	gate, err := NewTimedGate(&mockTokens{issued: 1}, "ipfs://abc/", "ipfs://hidden", time.Now().Unix()+3600)
	if err != nil {
		t.Fatalf("new timed gate: %v", err)
	}
	now := int64(1000)
	gate.SetNowFunc(func() int64 { return now })
	gate.revealAt = 2000

	if gate.Revealed() {
		t.Fatalf("gate must be hidden before the timestamp")
	}
	uri, err := gate.ResolveMetadata(0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if uri != "ipfs://hidden" {
		t.Fatalf("pre-reveal uri = %q, want placeholder", uri)
	}

	now = 2000
	if !gate.Revealed() {
		t.Fatalf("gate must reveal once now >= revealAt")
	}
	uri, err = gate.ResolveMetadata(0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if uri != "ipfs://abc/0" {
		t.Fatalf("post-reveal uri = %q, want ipfs://abc/0", uri)
	}

	// Time only moves forward; the predicate never flips back.
	now = 5000
	if !gate.Revealed() {
		t.Fatalf("reveal must be permanent")
	}
}

func TestTimedGateTimestampRatchet(t *testing.T) {
	gate, err := NewTimedGate(&mockTokens{}, "", "ipfs://hidden", time.Now().Unix()+3600)
	if err != nil {
		t.Fatalf("new timed gate: %v", err)
	}
	now := int64(1000)
	gate.SetNowFunc(func() int64 { return now })
	gate.revealAt = 2000

	emitter := &recordingEmitter{}
	gate.SetEmitter(emitter)

	if err := gate.SetRevealTime(1500); err != nil {
		t.Fatalf("move reveal earlier while pending: %v", err)
	}
	if len(emitter.events) != 1 || emitter.events[0].Type != EventTypeRevealTimeChanged {
		t.Fatalf("expected a reveal time change event, got %+v", emitter.events)
	}
	attrs := emitter.events[0].Attributes
	if attrs["old"] != "2000" || attrs["new"] != "1500" {
		t.Fatalf("change event attrs = %v, want old=2000 new=1500", attrs)
	}

	if err := gate.SetRevealTime(1000); !errors.Is(err, ErrInvalidRevealTimestamp) {
		t.Fatalf("non-future timestamp: want ErrInvalidRevealTimestamp, got %v", err)
	}
	if got := gate.RevealTime(); got != 1500 {
		t.Fatalf("failed update must not change timestamp, got %d", got)
	}

	now = 1500
	if err := gate.SetRevealTime(9000); !errors.Is(err, ErrAlreadyRevealed) {
		t.Fatalf("update after reveal: want ErrAlreadyRevealed, got %v", err)
	}
	if err := gate.SetPlaceholderURI("ipfs://hidden-v2"); !errors.Is(err, ErrAlreadyRevealed) {
		t.Fatalf("placeholder after reveal: want ErrAlreadyRevealed, got %v", err)
	}
}

func TestRestoreTimedGateElapsedTimestamp(t *testing.T) {
	gate := RestoreTimedGate(&mockTokens{issued: 1}, "ipfs://abc/", "ipfs://hidden", 2000)
	now := int64(3000)
	gate.SetNowFunc(func() int64 { return now })

	if !gate.Revealed() {
		t.Fatalf("restored gate with elapsed timestamp must be revealed")
	}
	if err := gate.SetRevealTime(9000); !errors.Is(err, ErrAlreadyRevealed) {
		t.Fatalf("reschedule restored gate: want ErrAlreadyRevealed, got %v", err)
	}
	uri, err := gate.ResolveMetadata(0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if uri != "ipfs://abc/0" {
		t.Fatalf("restored revealed uri = %q, want ipfs://abc/0", uri)
	}
}

func TestTimedGateNotFound(t *testing.T) {
	gate := newTestTimedGate(t, &mockTokens{issued: 0}, 2000)
	if _, err := gate.ResolveMetadata(0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("nonexistent token: want ErrNotFound, got %v", err)
	}
}
