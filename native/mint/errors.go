package mint

import "errors"

var (
	// ErrNilLedger indicates the engine has no token ledger configured.
	ErrNilLedger = errors.New("mint: token ledger not configured")
	// ErrPresaleActive indicates a public mint was requested while the
	// presale is still open; public issuance starts once the presale ends.
	ErrPresaleActive = errors.New("mint: presale still open")
	// ErrZeroAmount indicates a mint request for zero units.
	ErrZeroAmount = errors.New("mint: amount must be positive")
)
