package allowlist

import "errors"

var (
	// ErrPresaleEnded indicates a presale-only operation was attempted after
	// the presale closed.
	ErrPresaleEnded = errors.New("allowlist: presale ended")
	// ErrInvalidProof indicates the Merkle membership proof did not verify
	// against the published root.
	ErrInvalidProof = errors.New("allowlist: invalid proof")
	// ErrMintLimitExceeded indicates the claim would push an address past its
	// presale cap.
	ErrMintLimitExceeded = errors.New("allowlist: mint limit exceeded")
)
