package reveal

import (
	"errors"
	"testing"
)

type mockTokens struct {
	issued uint64
}

func (m *mockTokens) Exists(tokenID uint64) bool { return tokenID < m.issued }

func TestGateRevealIsOneWay(t *testing.T) {
	gate := NewGate(&mockTokens{issued: 1}, "ipfs://abc/", "ipfs://hidden")
	if gate.Revealed() {
		t.Fatalf("new gate must start hidden")
	}
	if err := gate.Reveal(); err != nil {
		t.Fatalf("first reveal: %v", err)
	}
	if !gate.Revealed() {
		t.Fatalf("gate must report revealed after Reveal")
	}
	if err := gate.Reveal(); !errors.Is(err, ErrAlreadyRevealed) {
		t.Fatalf("second reveal: want ErrAlreadyRevealed, got %v", err)
	}
	if !gate.Revealed() {
		t.Fatalf("failed reveal must not reset the phase")
	}
}

func TestGatePlaceholderMutableOnlyPreReveal(t *testing.T) {
	gate := NewGate(&mockTokens{issued: 1}, "", "ipfs://hidden")
	if err := gate.SetPlaceholderURI("ipfs://hidden-v2"); err != nil {
		t.Fatalf("pre-reveal placeholder update: %v", err)
	}
	if got := gate.PlaceholderURI(); got != "ipfs://hidden-v2" {
		t.Fatalf("placeholder = %q, want ipfs://hidden-v2", got)
	}
	if err := gate.Reveal(); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if err := gate.SetPlaceholderURI("ipfs://hidden-v3"); !errors.Is(err, ErrAlreadyRevealed) {
		t.Fatalf("post-reveal placeholder update: want ErrAlreadyRevealed, got %v", err)
	}
	if got := gate.PlaceholderURI(); got != "ipfs://hidden-v2" {
		t.Fatalf("failed update must not mutate placeholder, got %q", got)
	}
}

func TestGateResolveMetadata(t *testing.T) {
	tokens := &mockTokens{issued: 8}
	gate := NewGate(tokens, "ipfs://abc/", "ipfs://hidden")

	uri, err := gate.ResolveMetadata(0)
	if err != nil {
		t.Fatalf("resolve pre-reveal: %v", err)
	}
	if uri != "ipfs://hidden" {
		t.Fatalf("pre-reveal uri = %q, want placeholder", uri)
	}

	if err := gate.Reveal(); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	uri, err = gate.ResolveMetadata(7)
	if err != nil {
		t.Fatalf("resolve post-reveal: %v", err)
	}
	if uri != "ipfs://abc/7" {
		t.Fatalf("post-reveal uri = %q, want ipfs://abc/7", uri)
	}

	if _, err := gate.ResolveMetadata(8); !errors.Is(err, ErrNotFound) {
		t.Fatalf("nonexistent token: want ErrNotFound, got %v", err)
	}
}

func TestRestoreGateKeepsPhase(t *testing.T) {
	revealed := RestoreGate(&mockTokens{issued: 1}, "ipfs://abc/", "ipfs://hidden", true)
	if !revealed.Revealed() {
		t.Fatalf("gate restored as revealed must report revealed")
	}
	if err := revealed.Reveal(); !errors.Is(err, ErrAlreadyRevealed) {
		t.Fatalf("re-reveal restored gate: want ErrAlreadyRevealed, got %v", err)
	}
	uri, err := revealed.ResolveMetadata(0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if uri != "ipfs://abc/0" {
		t.Fatalf("restored revealed uri = %q, want ipfs://abc/0", uri)
	}

	hidden := RestoreGate(&mockTokens{issued: 1}, "ipfs://abc/", "ipfs://hidden", false)
	if hidden.Revealed() {
		t.Fatalf("gate restored as hidden must stay hidden")
	}
}

func TestGateResolveMetadataEmptyBaseURI(t *testing.T) {
	gate := NewGate(&mockTokens{issued: 1}, "", "ipfs://hidden")
	if err := gate.Reveal(); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	uri, err := gate.ResolveMetadata(0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if uri != "" {
		t.Fatalf("uri with empty base = %q, want empty string", uri)
	}
}
