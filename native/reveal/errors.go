package reveal

import "errors"

var (
	// ErrAlreadyRevealed indicates a pre-reveal operation was attempted after
	// the collection metadata became final.
	ErrAlreadyRevealed = errors.New("reveal: already revealed")
	// ErrInvalidRevealTimestamp indicates a reveal timestamp that is not
	// strictly in the future.
	ErrInvalidRevealTimestamp = errors.New("reveal: timestamp must be in the future")
	// ErrNotFound indicates metadata was requested for a token the external
	// ledger has never issued.
	ErrNotFound = errors.New("reveal: token not found")
)
