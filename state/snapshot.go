package state

import (
	"log/slog"

	"github.com/adnhq/nft-extensions/core/events"
	"github.com/adnhq/nft-extensions/native/allowlist"
	"github.com/adnhq/nft-extensions/native/reveal"
	"github.com/adnhq/nft-extensions/native/sale"
)

// Recorder persists the collection snapshot after every emitted state
// transition so a restarted node resumes where the previous run stopped. It
// is installed as the emitter on each component.
type Recorder struct {
	mgr    *Manager
	list   *allowlist.Ledger
	ctrl   *sale.Controller
	manual *reveal.Gate
	timed  *reveal.TimedGate
	logger *slog.Logger
}

// NewRecorder wires a snapshot recorder over the given components. Exactly
// one of manual or timed should be non-nil, matching the engine's gate.
func NewRecorder(mgr *Manager, list *allowlist.Ledger, ctrl *sale.Controller, manual *reveal.Gate, timed *reveal.TimedGate, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		mgr:    mgr,
		list:   list,
		ctrl:   ctrl,
		manual: manual,
		timed:  timed,
		logger: logger,
	}
}

// Emit implements the events.Emitter interface. Every transition triggers a
// fresh snapshot write; a write failure is logged, not surfaced, since the
// originating state change has already committed.
func (r *Recorder) Emit(events.Event) {
	if err := r.mgr.SaveCollection(r.Snapshot()); err != nil {
		r.logger.Error("persist collection snapshot", "error", err)
	}
}

// Snapshot captures the components' current flat fields.
func (r *Recorder) Snapshot() *Collection {
	c := &Collection{
		PresaleOpen: r.list.Open(),
		Reserve:     r.ctrl.Reserve(),
		Funds:       r.ctrl.Funds(),
		Price:       r.ctrl.Price(),
		MintLimit:   r.ctrl.MintLimit(),
		Root:        r.list.Root(),
	}
	switch {
	case r.manual != nil:
		c.Revealed = r.manual.Revealed()
		c.PlaceholderURI = r.manual.PlaceholderURI()
	case r.timed != nil:
		c.Revealed = r.timed.Revealed()
		c.RevealTime = r.timed.RevealTime()
		c.PlaceholderURI = r.timed.PlaceholderURI()
	}
	return c
}
